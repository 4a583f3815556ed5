package types

import (
	"time"

	"github.com/chrissnell/weather-visualizer/pkg/config"
)

// StatNames lists the descriptive statistics in report order
var StatNames = []string{"Mean", "Min", "Max", "StdDev"}

// ColumnStats holds the descriptive statistics of one value column
type ColumnStats struct {
	Column string
	Count  int
	Mean   float64
	Min    float64
	Max    float64
	StdDev float64
}

// Value returns the statistic called name (one of StatNames)
func (c ColumnStats) Value(name string) float64 {
	switch name {
	case "Mean":
		return c.Mean
	case "Min":
		return c.Min
	case "Max":
		return c.Max
	case "StdDev":
		return c.StdDev
	}
	return 0
}

// OverallStats maps {temperature, rainfall, humidity} x StatNames to a scalar
type OverallStats struct {
	Columns []ColumnStats
}

// Get returns the statistics of the named column
func (o *OverallStats) Get(column string) (ColumnStats, bool) {
	for _, c := range o.Columns {
		if c.Column == column {
			return c, true
		}
	}
	return ColumnStats{}, false
}

// MonthlyRow is one calendar-month bucket. Month is the last day of the
// month at midnight in the location of the source timestamps.
type MonthlyRow struct {
	Month           time.Time
	Count           int
	TemperatureMean float64
	TemperatureMin  float64
	TemperatureMax  float64
	RainfallSum     float64
	HumidityMean    float64
}

// Label formats the bucket as YYYY-MM
func (m MonthlyRow) Label() string {
	return m.Month.Format("2006-01")
}

// MonthlySummary is the month-by-month aggregate of a cleaned table
type MonthlySummary struct {
	Columns config.Columns
	Rows    []MonthlyRow
}

// Head returns the first n rows, or every row when n is zero or exceeds the
// row count.
func (m *MonthlySummary) Head(n int) []MonthlyRow {
	if n <= 0 || n >= len(m.Rows) {
		return m.Rows
	}
	return m.Rows[:n]
}

// TotalRainfall sums the rainfall of every bucket
func (m *MonthlySummary) TotalRainfall() float64 {
	var total float64
	for _, r := range m.Rows {
		total += r.RainfallSum
	}
	return total
}
