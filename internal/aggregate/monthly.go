// Package aggregate resamples the cleaned table into calendar-month buckets.
package aggregate

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/chrissnell/weather-visualizer/internal/stats"
	"github.com/chrissnell/weather-visualizer/internal/types"
	"github.com/chrissnell/weather-visualizer/pkg/config"
)

type monthKey struct {
	year  int
	month time.Month
}

func (k monthKey) next() monthKey {
	if k.month == time.December {
		return monthKey{year: k.year + 1, month: time.January}
	}
	return monthKey{year: k.year, month: k.month + 1}
}

func (k monthKey) after(o monthKey) bool {
	return k.year > o.year || (k.year == o.year && k.month > o.month)
}

type bucket struct {
	count       int
	temperature []float64
	rainfall    []float64
	humidity    []float64
}

// Monthly buckets rows by the calendar month of their index value and
// computes temperature mean/min/max, rainfall sum and humidity mean per
// month. Every month between the earliest and latest row gets a bucket;
// empty ones carry NaN statistics and a zero rainfall sum.
func Monthly(t *types.Table, cols config.Columns) (*types.MonthlySummary, error) {
	temp, err := t.Column(cols.Temperature)
	if err != nil {
		return nil, fmt.Errorf("monthly aggregation: %w", err)
	}
	rain, err := t.Column(cols.Rainfall)
	if err != nil {
		return nil, fmt.Errorf("monthly aggregation: %w", err)
	}
	hum, err := t.Column(cols.Humidity)
	if err != nil {
		return nil, fmt.Errorf("monthly aggregation: %w", err)
	}

	summary := &types.MonthlySummary{Columns: cols}
	first, last, ok := t.Span()
	if !ok {
		return summary, nil
	}
	loc := first.Location()

	buckets := make(map[monthKey]*bucket)
	for i, ts := range t.Index {
		k := monthKey{year: ts.Year(), month: ts.Month()}
		b, ok := buckets[k]
		if !ok {
			b = &bucket{}
			buckets[k] = b
		}
		b.count++
		b.temperature = append(b.temperature, temp[i])
		b.rainfall = append(b.rainfall, rain[i])
		b.humidity = append(b.humidity, hum[i])
	}

	end := monthKey{year: last.Year(), month: last.Month()}
	for k := (monthKey{year: first.Year(), month: first.Month()}); !k.after(end); k = k.next() {
		row := types.MonthlyRow{
			Month:           monthEnd(k, loc),
			TemperatureMean: math.NaN(),
			TemperatureMin:  math.NaN(),
			TemperatureMax:  math.NaN(),
			HumidityMean:    math.NaN(),
		}
		if b, ok := buckets[k]; ok {
			fill(&row, b)
		}
		summary.Rows = append(summary.Rows, row)
	}
	return summary, nil
}

func fill(row *types.MonthlyRow, b *bucket) {
	row.Count = b.count

	if v := stats.Valid(b.temperature); len(v) > 0 {
		row.TemperatureMean = stat.Mean(v, nil)
		row.TemperatureMin = floats.Min(v)
		row.TemperatureMax = floats.Max(v)
	}
	row.RainfallSum = floats.Sum(stats.Valid(b.rainfall))
	if v := stats.Valid(b.humidity); len(v) > 0 {
		row.HumidityMean = stat.Mean(v, nil)
	}
}

// monthEnd returns midnight on the last day of the month
func monthEnd(k monthKey, loc *time.Location) time.Time {
	return time.Date(k.year, k.month+1, 0, 0, 0, 0, 0, loc)
}

// Fprint writes the first n rows of the summary (all rows when n is zero)
func Fprint(w io.Writer, m *types.MonthlySummary, n int) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	c := m.Columns
	fmt.Fprintf(tw, "Month\t%s mean\t%s min\t%s max\t%s sum\t%s mean\t\n",
		c.Temperature, c.Temperature, c.Temperature, c.Rainfall, c.Humidity)
	for _, r := range m.Head(n) {
		fmt.Fprintf(tw, "%s\t%.6f\t%.6f\t%.6f\t%.6f\t%.6f\t\n",
			r.Month.Format("2006-01-02"), r.TemperatureMean, r.TemperatureMin, r.TemperatureMax, r.RainfallSum, r.HumidityMean)
	}
	return tw.Flush()
}
