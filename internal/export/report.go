package export

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strings"
	"text/template"
	"time"

	"github.com/chrissnell/weather-visualizer/internal/charts"
	"github.com/chrissnell/weather-visualizer/internal/log"
	"github.com/chrissnell/weather-visualizer/internal/types"
)

//go:embed templates/summary_report.md.tmpl
var defaultReportTemplate string

// ChartFiles names the chart images the report refers to
type ChartFiles struct {
	TemperatureLine string
	RainfallBars    string
	HumidityScatter string
	Combined        string
}

// DefaultChartFiles returns the file names written by the charts package
func DefaultChartFiles() ChartFiles {
	return ChartFiles{
		TemperatureLine: charts.TemperatureLineChart,
		RainfallBars:    charts.RainfallBarChart,
		HumidityScatter: charts.HumidityScatterPlot,
		Combined:        charts.CombinedSubplots,
	}
}

// ReportData is everything the report template can refer to
type ReportData struct {
	Source      string
	PeriodStart string
	PeriodEnd   string
	Rows        int
	Columns     []string
	PlotDir     string
	Charts      ChartFiles

	OverallTable string
	MonthlyTable string
}

// NewReportData builds the template data for a cleaned table and its
// statistics. previewRows limits the monthly table; zero renders every month.
func NewReportData(source string, t *types.Table, overall *types.OverallStats, monthly *types.MonthlySummary, plotDir string, previewRows int) ReportData {
	data := ReportData{
		Source:       source,
		Rows:         t.Len(),
		Columns:      t.Columns(),
		PlotDir:      plotDir,
		Charts:       DefaultChartFiles(),
		OverallTable: OverallMarkdown(overall),
		MonthlyTable: MonthlyMarkdown(monthly, previewRows),
	}
	if first, last, ok := t.Span(); ok {
		layout := IndexLayout([]time.Time{first, last})
		data.PeriodStart = first.Format(layout)
		data.PeriodEnd = last.Format(layout)
	}
	return data
}

// ParseReportTemplate parses the template at path, or the built-in report
// when path is empty.
func ParseReportTemplate(path string) (*template.Template, error) {
	text := defaultReportTemplate
	name := "summary_report"
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("error reading report template: %w", err)
		}
		text = string(b)
		name = path
	}

	tmpl, err := template.New(name).
		Funcs(template.FuncMap{"join": strings.Join}).
		Option("missingkey=error").
		Parse(text)
	if err != nil {
		return nil, fmt.Errorf("error parsing report template: %w", err)
	}
	return tmpl, nil
}

// WriteReport renders data through tmpl and writes the result to path,
// replacing any existing file.
func WriteReport(path string, tmpl *template.Template, data ReportData) error {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("error rendering report: %w", err)
	}

	if err := ensureDir(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	log.Infow("summary report exported", "path", path)
	return nil
}
