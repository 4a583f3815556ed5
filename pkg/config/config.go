// Package config holds the run parameters of the weather visualizer and the
// providers that load them.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"unicode/utf8"
)

// Default run parameters, used for anything the config file and environment
// leave unset.
const (
	DefaultInputPath          = "your_weather_data.csv"
	DefaultDelimiter          = ","
	DefaultDateColumn         = "DateColumnName"
	DefaultHeadRows           = 5
	DefaultTemperatureColumn  = "Temperature"
	DefaultRainfallColumn     = "Rainfall"
	DefaultHumidityColumn     = "Humidity"
	DefaultPlotDir            = "plots"
	DefaultCleanedDataPath    = "cleaned_weather_data.csv"
	DefaultReportPath         = "summary_report.md"
	DefaultMonthlyPreviewRows = 5
)

// Config is the complete run configuration. It is passed explicitly to each
// pipeline stage.
type Config struct {
	Input   InputConfig   `yaml:"input"`
	Columns Columns       `yaml:"columns"`
	Output  OutputConfig  `yaml:"output"`
	Report  ReportConfig  `yaml:"report"`
	Archive ArchiveConfig `yaml:"archive"`
}

// InputConfig describes the delimited source file
type InputConfig struct {
	Path       string `yaml:"path"`
	Delimiter  string `yaml:"delimiter"`
	DateColumn string `yaml:"date_column" split_words:"true"`
	// DateLayout is a Go reference-time layout. Empty means the format is
	// detected per value.
	DateLayout string `yaml:"date_layout,omitempty" split_words:"true"`
	HeadRows   int    `yaml:"head_rows" split_words:"true"`
}

// Columns names the three value columns the pipeline analyses
type Columns struct {
	Temperature string `yaml:"temperature"`
	Rainfall    string `yaml:"rainfall"`
	Humidity    string `yaml:"humidity"`
}

// Names returns the value column names in their canonical order
func (c Columns) Names() []string {
	return []string{c.Temperature, c.Rainfall, c.Humidity}
}

// OutputConfig locates the run artifacts
type OutputConfig struct {
	PlotDir     string `yaml:"plot_dir" split_words:"true"`
	CleanedData string `yaml:"cleaned_data" split_words:"true"`
	// Workbook is an optional XLSX export of all three tables.
	Workbook string `yaml:"workbook,omitempty"`
}

// ReportConfig controls the Markdown summary report
type ReportConfig struct {
	Path string `yaml:"path"`
	// Template points at a text/template file replacing the built-in report.
	Template           string `yaml:"template,omitempty"`
	MonthlyPreviewRows int    `yaml:"monthly_preview_rows" split_words:"true"`
}

// ArchiveConfig enables the SQLite run archive when Path is set
type ArchiveConfig struct {
	Path string `yaml:"path,omitempty"`
}

// DefaultConfig returns the configuration used when no file is supplied
func DefaultConfig() *Config {
	return &Config{
		Input: InputConfig{
			Path:       DefaultInputPath,
			Delimiter:  DefaultDelimiter,
			DateColumn: DefaultDateColumn,
			HeadRows:   DefaultHeadRows,
		},
		Columns: Columns{
			Temperature: DefaultTemperatureColumn,
			Rainfall:    DefaultRainfallColumn,
			Humidity:    DefaultHumidityColumn,
		},
		Output: OutputConfig{
			PlotDir:     DefaultPlotDir,
			CleanedData: DefaultCleanedDataPath,
		},
		Report: ReportConfig{
			Path:               DefaultReportPath,
			MonthlyPreviewRows: DefaultMonthlyPreviewRows,
		},
	}
}

// Clone returns an independent copy of c
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// DelimiterRune returns the single-character field delimiter
func (c *Config) DelimiterRune() rune {
	r, _ := utf8.DecodeRuneInString(c.Input.Delimiter)
	return r
}

// PlotPath joins name onto the plot directory
func (c *Config) PlotPath(name string) string {
	return filepath.Join(c.Output.PlotDir, name)
}

// Validate checks the configuration for values no stage can work with
func (c *Config) Validate() error {
	var errs []error

	if c.Input.Path == "" {
		errs = append(errs, errors.New("input.path must be set"))
	}
	if utf8.RuneCountInString(c.Input.Delimiter) != 1 {
		errs = append(errs, fmt.Errorf("input.delimiter must be a single character, got %q", c.Input.Delimiter))
	}
	if c.Input.DateColumn == "" {
		errs = append(errs, errors.New("input.date_column must be set"))
	}
	if c.Input.HeadRows < 0 {
		errs = append(errs, fmt.Errorf("input.head_rows must not be negative, got %d", c.Input.HeadRows))
	}

	seen := make(map[string]bool)
	for _, name := range c.Columns.Names() {
		if name == "" {
			errs = append(errs, errors.New("columns.temperature, columns.rainfall and columns.humidity must all be set"))
			break
		}
		if seen[name] {
			errs = append(errs, fmt.Errorf("column %q is configured more than once", name))
		}
		if name == c.Input.DateColumn {
			errs = append(errs, fmt.Errorf("column %q is both the date column and a value column", name))
		}
		seen[name] = true
	}

	if c.Output.PlotDir == "" {
		errs = append(errs, errors.New("output.plot_dir must be set"))
	}
	if c.Output.CleanedData == "" {
		errs = append(errs, errors.New("output.cleaned_data must be set"))
	}
	if c.Report.Path == "" {
		errs = append(errs, errors.New("report.path must be set"))
	}
	if c.Report.MonthlyPreviewRows < 0 {
		errs = append(errs, fmt.Errorf("report.monthly_preview_rows must not be negative, got %d", c.Report.MonthlyPreviewRows))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}
