// Package pipeline runs the weather visualizer stages in order: load, clean,
// statistics, monthly aggregation, charts and export.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/chrissnell/weather-visualizer/internal/aggregate"
	"github.com/chrissnell/weather-visualizer/internal/archive"
	"github.com/chrissnell/weather-visualizer/internal/charts"
	"github.com/chrissnell/weather-visualizer/internal/cleaner"
	"github.com/chrissnell/weather-visualizer/internal/export"
	"github.com/chrissnell/weather-visualizer/internal/loader"
	"github.com/chrissnell/weather-visualizer/internal/stats"
	"github.com/chrissnell/weather-visualizer/internal/types"
	"github.com/chrissnell/weather-visualizer/pkg/config"
)

// ErrAborted is returned when the run stopped early on a recoverable
// condition: the input file is missing or the date column is absent or
// unparseable. No artifacts are written in that case.
var ErrAborted = errors.New("process aborted")

// Result describes a completed run
type Result struct {
	RunID   string
	Table   *types.Table
	Dropped []string
	Overall *types.OverallStats
	Monthly *types.MonthlySummary

	Charts      []string
	CleanedData string
	Report      string
	Workbook    string
	Archive     string
}

// Pipeline wires the stages together for one configuration
type Pipeline struct {
	cfg    *config.Config
	logger *zap.SugaredLogger
	diag   io.Writer
	now    func() time.Time
}

// New creates a pipeline. Diagnostics (previews, tables, banners) go to
// diag; a nil diag discards them.
func New(cfg *config.Config, logger *zap.SugaredLogger, diag io.Writer) *Pipeline {
	if diag == nil {
		diag = io.Discard
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Pipeline{
		cfg:    cfg,
		logger: logger,
		diag:   diag,
		now:    time.Now,
	}
}

// Run executes every stage once
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	cfg := p.cfg
	res := &Result{RunID: uuid.NewString()}
	p.logger.Infow("starting run", "run_id", res.RunID, "input", cfg.Input.Path)

	raw, err := loader.Load(cfg.Input.Path, loader.Options{
		Delimiter: cfg.DelimiterRune(),
		HeadRows:  cfg.Input.HeadRows,
	}, p.diag)
	if err != nil {
		if errors.Is(err, loader.ErrInputNotFound) {
			p.logger.Warnf("file not found at %s, please download the weather data", cfg.Input.Path)
			return nil, p.abort("data loading failure", err)
		}
		return nil, err
	}

	p.banner("Starting Data Cleaning and Processing")
	cleaned, err := cleaner.Clean(raw, cleaner.Options{
		DateColumn:   cfg.Input.DateColumn,
		DateLayout:   cfg.Input.DateLayout,
		ValueColumns: cfg.Columns.Names(),
	})
	if err != nil {
		if errors.Is(err, cleaner.ErrDateColumnMissing) || errors.Is(err, cleaner.ErrDateParse) {
			return nil, p.abort("data cleaning failure", err)
		}
		return nil, err
	}
	res.Table = cleaned.Table
	res.Dropped = cleaned.Dropped
	fmt.Fprintf(p.diag, "Rows dropped/filled: %d rows.\n", raw.Rows()-cleaned.Table.Len())

	p.banner("Starting Statistical Analysis")
	res.Overall, err = stats.Compute(res.Table, cfg.Columns)
	if err != nil {
		return nil, err
	}
	fmt.Fprintln(p.diag, "\nOverall Summary Statistics:")
	if err := stats.Fprint(p.diag, res.Overall); err != nil {
		return nil, err
	}

	p.banner("Starting Grouping and Aggregation")
	res.Monthly, err = aggregate.Monthly(res.Table, cfg.Columns)
	if err != nil {
		return nil, err
	}
	fmt.Fprintln(p.diag, "\nMonthly Aggregate Statistics:")
	if err := aggregate.Fprint(p.diag, res.Monthly, cfg.Input.HeadRows); err != nil {
		return nil, err
	}

	p.banner("Creating Visualizations")
	renderer := charts.New(cfg.Output.PlotDir, cfg.Columns)
	if err := renderer.Prepare(); err != nil {
		return nil, err
	}
	res.Charts, err = renderer.RenderAll(res.Table, res.Monthly)
	if err != nil {
		return nil, err
	}
	for _, path := range res.Charts {
		fmt.Fprintf(p.diag, "Saved: %s\n", path)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.banner("Starting Export and Reporting")
	if err := p.export(ctx, res); err != nil {
		return nil, err
	}

	p.logger.Infow("run complete", "run_id", res.RunID, "rows", res.Table.Len(), "charts", len(res.Charts))
	p.banner("Project Complete!")
	return res, nil
}

func (p *Pipeline) export(ctx context.Context, res *Result) error {
	cfg := p.cfg

	if err := export.WriteCleanedCSV(cfg.Output.CleanedData, res.Table); err != nil {
		return fmt.Errorf("cleaned data export: %w", err)
	}
	res.CleanedData = cfg.Output.CleanedData
	fmt.Fprintf(p.diag, "Cleaned data exported to %s\n", res.CleanedData)

	tmpl, err := export.ParseReportTemplate(cfg.Report.Template)
	if err != nil {
		return err
	}
	data := export.NewReportData(cfg.Input.Path, res.Table, res.Overall, res.Monthly,
		cfg.Output.PlotDir, cfg.Report.MonthlyPreviewRows)
	if err := export.WriteReport(cfg.Report.Path, tmpl, data); err != nil {
		return err
	}
	res.Report = cfg.Report.Path
	fmt.Fprintf(p.diag, "Summary report exported to %s\n", res.Report)

	if cfg.Output.Workbook != "" {
		if err := export.WriteWorkbook(cfg.Output.Workbook, res.Table, res.Overall, res.Monthly); err != nil {
			return fmt.Errorf("workbook export: %w", err)
		}
		res.Workbook = cfg.Output.Workbook
		fmt.Fprintf(p.diag, "Workbook exported to %s\n", res.Workbook)
	}

	if cfg.Archive.Path != "" {
		if err := p.archive(ctx, res); err != nil {
			return err
		}
		res.Archive = cfg.Archive.Path
		fmt.Fprintf(p.diag, "Run %s archived to %s\n", res.RunID, res.Archive)
	}
	return nil
}

func (p *Pipeline) archive(ctx context.Context, res *Result) error {
	store, err := archive.Open(p.cfg.Archive.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	return store.SaveRun(ctx, archive.RunRecord{
		ID:        res.RunID,
		InputPath: p.cfg.Input.Path,
		Table:     res.Table,
		Overall:   res.Overall,
		Monthly:   res.Monthly,
		CreatedAt: p.now(),
	})
}

func (p *Pipeline) abort(stage string, cause error) error {
	p.logger.Warnw("process aborted", "reason", stage, "error", cause)
	fmt.Fprintf(p.diag, "\nProcess aborted due to %s.\n", stage)
	return fmt.Errorf("%w: %s: %w", ErrAborted, stage, cause)
}

func (p *Pipeline) banner(title string) {
	fmt.Fprintf(p.diag, "\n--- %s ---\n", title)
}
