package charts

import (
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrissnell/weather-visualizer/internal/aggregate"
	"github.com/chrissnell/weather-visualizer/internal/types"
	"github.com/chrissnell/weather-visualizer/pkg/config"
)

var cols = config.DefaultConfig().Columns

func seasonTable(t *testing.T, days int, withHumidity bool) *types.Table {
	t.Helper()
	index := make([]time.Time, days)
	temp := make([]float64, days)
	rain := make([]float64, days)
	hum := make([]float64, days)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < days; i++ {
		index[i] = start.AddDate(0, 0, i)
		temp[i] = 10 + 8*math.Sin(float64(i)/20)
		rain[i] = float64(i % 4)
		hum[i] = 60 + 10*math.Cos(float64(i)/15)
	}
	tbl := types.NewTable("Date", index)
	require.NoError(t, tbl.AddColumn("Temperature", temp))
	require.NoError(t, tbl.AddColumn("Rainfall", rain))
	if withHumidity {
		require.NoError(t, tbl.AddColumn("Humidity", hum))
	}
	return tbl
}

func decodeSize(t *testing.T, path string) (int, int) {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	return cfg.Width, cfg.Height
}

func TestRenderAll(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "plots")
	r := New(dir, cols)
	require.NoError(t, r.Prepare())

	tbl := seasonTable(t, 90, true)
	monthly, err := aggregate.Monthly(tbl, cols)
	require.NoError(t, err)

	written, err := r.RenderAll(tbl, monthly)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, TemperatureLineChart),
		filepath.Join(dir, RainfallBarChart),
		filepath.Join(dir, HumidityScatterPlot),
		filepath.Join(dir, CombinedSubplots),
	}, written)

	w, h := decodeSize(t, filepath.Join(dir, TemperatureLineChart))
	assert.Equal(t, 1200, w)
	assert.Equal(t, 600, h)

	w, h = decodeSize(t, filepath.Join(dir, HumidityScatterPlot))
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, h)

	w, h = decodeSize(t, filepath.Join(dir, CombinedSubplots))
	assert.Equal(t, 1200, w)
	assert.Equal(t, 1000, h)

	_, _ = decodeSize(t, filepath.Join(dir, RainfallBarChart))
}

func TestRenderAllMissingHumidity(t *testing.T) {
	dir := t.TempDir()
	r := New(dir, cols)

	tbl := seasonTable(t, 10, false)
	monthly := &types.MonthlySummary{Columns: cols}

	written, err := r.RenderAll(tbl, monthly)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrColumnNotFound)
	assert.Empty(t, written)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "no chart may be written when a column is missing")
}

func TestRenderAllEmptyTable(t *testing.T) {
	r := New(t.TempDir(), cols)
	tbl := seasonTable(t, 0, true)

	_, err := r.RenderAll(tbl, &types.MonthlySummary{Columns: cols})
	assert.ErrorIs(t, err, ErrNoData)
}

func TestRenderSingleRowAndConstantValues(t *testing.T) {
	tbl := types.NewTable("Date", []time.Time{time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, tbl.AddColumn("Temperature", []float64{21}))
	require.NoError(t, tbl.AddColumn("Rainfall", []float64{0}))
	require.NoError(t, tbl.AddColumn("Humidity", []float64{50}))

	monthly, err := aggregate.Monthly(tbl, cols)
	require.NoError(t, err)

	dir := t.TempDir()
	written, err := New(dir, cols).RenderAll(tbl, monthly)
	require.NoError(t, err)
	assert.Len(t, written, 4)
}

func TestRainfallBarsNoMonths(t *testing.T) {
	_, err := New(t.TempDir(), cols).RainfallBars(&types.MonthlySummary{})
	assert.ErrorIs(t, err, ErrNoData)
}

func TestPrepareCreatesNestedDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out", "plots")
	r := New(dir, cols)
	require.NoError(t, r.Prepare())

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, dir, r.Dir())
}

func TestValueRange(t *testing.T) {
	assert.Nil(t, valueRange([]float64{1, 2, 3}))

	rng := valueRange([]float64{5, 5})
	require.NotNil(t, rng)
	assert.Less(t, rng.GetMin(), 5.0)
	assert.Greater(t, rng.GetMax(), 5.0)
}

func TestTimePointsSkipsNaN(t *testing.T) {
	index := []time.Time{time.Unix(0, 0), time.Unix(60, 0), time.Unix(120, 0)}
	xs, ys := timePoints(index, []float64{1, math.NaN(), 3})
	assert.Equal(t, []time.Time{index[0], index[2]}, xs)
	assert.Equal(t, []float64{1, 3}, ys)
}
