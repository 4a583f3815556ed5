// Package stats computes the overall descriptive statistics of the cleaned
// table.
package stats

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/chrissnell/weather-visualizer/internal/types"
	"github.com/chrissnell/weather-visualizer/pkg/config"
)

// Compute returns mean, min, max and sample standard deviation for the
// temperature, rainfall and humidity columns. NaN cells are skipped.
func Compute(t *types.Table, cols config.Columns) (*types.OverallStats, error) {
	out := &types.OverallStats{}
	for _, name := range cols.Names() {
		values, err := t.Column(name)
		if err != nil {
			return nil, fmt.Errorf("overall statistics: %w", err)
		}
		out.Columns = append(out.Columns, Describe(name, values))
	}
	return out, nil
}

// Describe computes the statistics of a single column. A column without
// valid values yields NaN throughout; a single value has a NaN deviation.
func Describe(name string, values []float64) types.ColumnStats {
	valid := Valid(values)
	cs := types.ColumnStats{
		Column: name,
		Count:  len(valid),
		Mean:   math.NaN(),
		Min:    math.NaN(),
		Max:    math.NaN(),
		StdDev: math.NaN(),
	}
	if len(valid) == 0 {
		return cs
	}

	cs.Mean = stat.Mean(valid, nil)
	cs.Min = floats.Min(valid)
	cs.Max = floats.Max(valid)
	if len(valid) > 1 {
		cs.StdDev = stat.StdDev(valid, nil)
	}
	return cs
}

// Valid returns the non-NaN entries of values
func Valid(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// Fprint writes the statistics as a column-per-variable table
func Fprint(w io.Writer, s *types.OverallStats) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprint(tw, "\t")
	for _, c := range s.Columns {
		fmt.Fprintf(tw, "%s\t", c.Column)
	}
	fmt.Fprintln(tw)
	for _, name := range types.StatNames {
		fmt.Fprintf(tw, "%s\t", name)
		for _, c := range s.Columns {
			fmt.Fprintf(tw, "%.6f\t", c.Value(name))
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}
