package aggregate

import (
	"bytes"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"

	"github.com/chrissnell/weather-visualizer/internal/types"
	"github.com/chrissnell/weather-visualizer/pkg/config"
)

var cols = config.DefaultConfig().Columns

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func buildTable(t *testing.T, index []time.Time, temp, rain, hum []float64) *types.Table {
	t.Helper()
	tbl := types.NewTable("Date", index)
	require.NoError(t, tbl.AddColumn("Temperature", temp))
	require.NoError(t, tbl.AddColumn("Rainfall", rain))
	if hum != nil {
		require.NoError(t, tbl.AddColumn("Humidity", hum))
	}
	return tbl
}

func TestMonthlyExampleScenario(t *testing.T) {
	tbl := buildTable(t,
		[]time.Time{day(2024, 1, 1), day(2024, 2, 1)},
		[]float64{10, 20}, []float64{5, 15}, []float64{80, 60})

	m, err := Monthly(tbl, cols)
	require.NoError(t, err)
	require.Len(t, m.Rows, 2)

	assert.Equal(t, day(2024, 1, 31), m.Rows[0].Month)
	assert.Equal(t, day(2024, 2, 29), m.Rows[1].Month)
	assert.Equal(t, 5.0, m.Rows[0].RainfallSum)
	assert.Equal(t, 15.0, m.Rows[1].RainfallSum)
	assert.Equal(t, 10.0, m.Rows[0].TemperatureMean)
	assert.Equal(t, 60.0, m.Rows[1].HumidityMean)
	assert.Equal(t, "2024-01", m.Rows[0].Label())
}

func TestMonthlyStatisticsPerBucket(t *testing.T) {
	tbl := buildTable(t,
		[]time.Time{day(2024, 3, 1), day(2024, 3, 15), day(2024, 3, 31), day(2024, 4, 2)},
		[]float64{2, 4, 9, 1},
		[]float64{1, 2, 3, 4},
		[]float64{50, 70, 90, 40})

	m, err := Monthly(tbl, cols)
	require.NoError(t, err)
	require.Len(t, m.Rows, 2)

	march := m.Rows[0]
	assert.Equal(t, 3, march.Count)
	assert.Equal(t, 5.0, march.TemperatureMean)
	assert.Equal(t, 2.0, march.TemperatureMin)
	assert.Equal(t, 9.0, march.TemperatureMax)
	assert.Equal(t, 6.0, march.RainfallSum)
	assert.Equal(t, 70.0, march.HumidityMean)
	assert.Equal(t, day(2024, 4, 30), m.Rows[1].Month)
}

func TestMonthlyEmptyMonthsInSpan(t *testing.T) {
	tbl := buildTable(t,
		[]time.Time{day(2023, 11, 20), day(2024, 2, 3)},
		[]float64{1, 2}, []float64{3, 4}, []float64{5, 6})

	m, err := Monthly(tbl, cols)
	require.NoError(t, err)
	require.Len(t, m.Rows, 4)

	assert.Equal(t, []string{"2023-11", "2023-12", "2024-01", "2024-02"},
		[]string{m.Rows[0].Label(), m.Rows[1].Label(), m.Rows[2].Label(), m.Rows[3].Label()})

	dec := m.Rows[1]
	assert.Equal(t, 0, dec.Count)
	assert.True(t, math.IsNaN(dec.TemperatureMean))
	assert.True(t, math.IsNaN(dec.TemperatureMin))
	assert.True(t, math.IsNaN(dec.HumidityMean))
	assert.Equal(t, 0.0, dec.RainfallSum)
}

func TestMonthlyUnorderedIndex(t *testing.T) {
	tbl := buildTable(t,
		[]time.Time{day(2024, 2, 10), day(2024, 1, 10), day(2024, 2, 11)},
		[]float64{1, 2, 3}, []float64{1, 2, 3}, []float64{1, 2, 3})

	m, err := Monthly(tbl, cols)
	require.NoError(t, err)
	require.Len(t, m.Rows, 2)
	assert.Equal(t, 2.0, m.Rows[0].RainfallSum)
	assert.Equal(t, 4.0, m.Rows[1].RainfallSum)
}

func TestMonthlyConservesRainfall(t *testing.T) {
	var index []time.Time
	var temp, rain, hum []float64
	start := day(2023, 6, 1)
	for i := 0; i < 400; i++ {
		index = append(index, start.Add(time.Duration(i)*24*time.Hour))
		temp = append(temp, float64(i%30))
		rain = append(rain, float64(i%7)*0.25)
		hum = append(hum, 50)
	}
	rain[17] = math.NaN()
	tbl := buildTable(t, index, temp, rain, hum)

	m, err := Monthly(tbl, cols)
	require.NoError(t, err)

	var want float64
	for _, v := range rain {
		if !math.IsNaN(v) {
			want += v
		}
	}
	got := make([]float64, len(m.Rows))
	for i, r := range m.Rows {
		got[i] = r.RainfallSum
	}
	assert.InDelta(t, want, floats.Sum(got), 1e-9)
	assert.InDelta(t, want, m.TotalRainfall(), 1e-9)
}

func TestMonthlyEmptyTable(t *testing.T) {
	tbl := buildTable(t, nil, []float64{}, []float64{}, []float64{})

	m, err := Monthly(tbl, cols)
	require.NoError(t, err)
	assert.Empty(t, m.Rows)
}

func TestMonthlyMissingColumn(t *testing.T) {
	tbl := buildTable(t, []time.Time{day(2024, 1, 1)}, []float64{1}, []float64{1}, nil)

	_, err := Monthly(tbl, cols)
	assert.ErrorIs(t, err, types.ErrColumnNotFound)
}

func TestFprint(t *testing.T) {
	tbl := buildTable(t,
		[]time.Time{day(2024, 1, 1), day(2024, 2, 1)},
		[]float64{10, 20}, []float64{5, 15}, []float64{80, 60})
	m, err := Monthly(tbl, cols)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Fprint(&buf, m, 1))
	assert.Contains(t, buf.String(), "2024-01-31")
	assert.NotContains(t, buf.String(), "2024-02-29")
}
