package pipeline

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/chrissnell/weather-visualizer/internal/archive"
	"github.com/chrissnell/weather-visualizer/internal/charts"
	"github.com/chrissnell/weather-visualizer/internal/cleaner"
	"github.com/chrissnell/weather-visualizer/internal/loader"
	"github.com/chrissnell/weather-visualizer/internal/types"
	"github.com/chrissnell/weather-visualizer/pkg/config"
)

const twoMonths = `Date,Temperature,Rainfall,Humidity
2024-01-01,10,5,80
2024-02-01,20,15,60
`

func testConfig(t *testing.T, input string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Input.Path = filepath.Join(dir, "weather.csv")
	cfg.Input.DateColumn = "Date"
	cfg.Output.PlotDir = filepath.Join(dir, "plots")
	cfg.Output.CleanedData = filepath.Join(dir, "cleaned_weather_data.csv")
	cfg.Report.Path = filepath.Join(dir, "summary_report.md")
	if input != "" {
		require.NoError(t, os.WriteFile(cfg.Input.Path, []byte(input), 0644))
	}
	return cfg
}

func run(t *testing.T, cfg *config.Config) (*Result, string, error) {
	t.Helper()
	var diag bytes.Buffer
	res, err := New(cfg, zap.NewNop().Sugar(), &diag).Run(context.Background())
	return res, diag.String(), err
}

func assertNoArtifacts(t *testing.T, cfg *config.Config) {
	t.Helper()
	assert.NoDirExists(t, cfg.Output.PlotDir)
	assert.NoFileExists(t, cfg.Output.CleanedData)
	assert.NoFileExists(t, cfg.Report.Path)
}

func TestRunTwoMonths(t *testing.T) {
	cfg := testConfig(t, twoMonths)

	res, diag, err := run(t, cfg)
	require.NoError(t, err)
	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, 2, res.Table.Len())
	assert.Empty(t, res.Dropped)

	temp, ok := res.Overall.Get("Temperature")
	require.True(t, ok)
	assert.InDelta(t, 15.0, temp.Mean, 1e-9)

	require.Len(t, res.Monthly.Rows, 2)
	assert.Equal(t, 5.0, res.Monthly.Rows[0].RainfallSum)
	assert.Equal(t, 15.0, res.Monthly.Rows[1].RainfallSum)

	require.Len(t, res.Charts, 4)
	for _, name := range []string{charts.TemperatureLineChart, charts.RainfallBarChart, charts.HumidityScatterPlot, charts.CombinedSubplots} {
		assert.FileExists(t, filepath.Join(cfg.Output.PlotDir, name))
	}

	cleaned, err := os.ReadFile(cfg.Output.CleanedData)
	require.NoError(t, err)
	assert.Equal(t, twoMonths, string(cleaned))

	report, err := os.ReadFile(cfg.Report.Path)
	require.NoError(t, err)
	assert.Contains(t, string(report), "2024-01-01 to 2024-02-01")

	assert.Empty(t, res.Workbook)
	assert.Empty(t, res.Archive)

	for _, banner := range []string{
		"--- Data Structure (Head) ---",
		"--- Starting Data Cleaning and Processing ---",
		"Rows dropped/filled: 0 rows.",
		"--- Starting Statistical Analysis ---",
		"--- Starting Grouping and Aggregation ---",
		"--- Creating Visualizations ---",
		"--- Starting Export and Reporting ---",
		"--- Project Complete! ---",
	} {
		assert.Contains(t, diag, banner)
	}
}

func TestRunMissingInputAborts(t *testing.T) {
	cfg := testConfig(t, "")

	res, diag, err := run(t, cfg)
	require.Error(t, err)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrAborted)
	assert.ErrorIs(t, err, loader.ErrInputNotFound)
	assert.Contains(t, diag, "Process aborted due to data loading failure.")
	assertNoArtifacts(t, cfg)
}

func TestRunMissingDateColumnAborts(t *testing.T) {
	cfg := testConfig(t, twoMonths)
	cfg.Input.DateColumn = "DateColumnName"

	_, diag, err := run(t, cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAborted)
	assert.ErrorIs(t, err, cleaner.ErrDateColumnMissing)
	assert.Contains(t, diag, "Process aborted due to data cleaning failure.")
	assertNoArtifacts(t, cfg)
}

func TestRunBadDateAborts(t *testing.T) {
	cfg := testConfig(t, "Date,Temperature,Rainfall,Humidity\nnot a date,1,2,3\n")

	_, _, err := run(t, cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAborted)
	assert.ErrorIs(t, err, cleaner.ErrDateParse)
	assertNoArtifacts(t, cfg)
}

func TestRunMissingHumidityFails(t *testing.T) {
	cfg := testConfig(t, "Date,Temperature,Rainfall\n2024-01-01,10,5\n")

	res, _, err := run(t, cfg)
	require.Error(t, err)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, types.ErrColumnNotFound)
	assert.NotErrorIs(t, err, ErrAborted)
	assertNoArtifacts(t, cfg)
}

func TestRunIsDeterministic(t *testing.T) {
	cfg := testConfig(t, `Date,Temperature,Rainfall,Humidity
2024-01-01,10.1,0.3,80
2024-01-02,,1.7,79.5
2024-03-05,-2.25,0,
`)

	first, _, err := run(t, cfg)
	require.NoError(t, err)
	csv1, err := os.ReadFile(cfg.Output.CleanedData)
	require.NoError(t, err)
	report1, err := os.ReadFile(cfg.Report.Path)
	require.NoError(t, err)

	second, _, err := run(t, cfg)
	require.NoError(t, err)
	csv2, err := os.ReadFile(cfg.Output.CleanedData)
	require.NoError(t, err)
	report2, err := os.ReadFile(cfg.Report.Path)
	require.NoError(t, err)

	assert.Equal(t, csv1, csv2)
	assert.Equal(t, report1, report2)
	assert.Equal(t, first.Overall, second.Overall)
	assert.NotEqual(t, first.RunID, second.RunID)
	require.Len(t, first.Monthly.Rows, 3)
	assert.Equal(t, 0, first.Monthly.Rows[1].Count)
}

func TestRunWithWorkbookAndArchive(t *testing.T) {
	cfg := testConfig(t, twoMonths)
	dir := filepath.Dir(cfg.Input.Path)
	cfg.Output.Workbook = filepath.Join(dir, "weather_summary.xlsx")
	cfg.Archive.Path = filepath.Join(dir, "weather_archive.db")

	res, _, err := run(t, cfg)
	require.NoError(t, err)
	assert.FileExists(t, res.Workbook)
	assert.Equal(t, cfg.Archive.Path, res.Archive)

	store, err := archive.Open(cfg.Archive.Path)
	require.NoError(t, err)
	defer store.Close()

	saved, err := store.LoadRun(context.Background(), res.RunID)
	require.NoError(t, err)
	assert.Equal(t, 2, saved.RowCount)
	assert.Len(t, saved.Monthly, 2)
	assert.Len(t, saved.Stats, 3)
}

func TestRunCancelledContext(t *testing.T) {
	cfg := testConfig(t, twoMonths)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(cfg, nil, nil).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, cfg.Output.CleanedData)
}
