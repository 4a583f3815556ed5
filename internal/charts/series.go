package charts

import (
	"math"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"
)

const dayNanos = float64(24 * time.Hour)

// timePoints drops rows whose value is NaN
func timePoints(index []time.Time, values []float64) ([]time.Time, []float64) {
	xs := make([]time.Time, 0, len(index))
	ys := make([]float64, 0, len(values))
	for i, v := range values {
		if math.IsNaN(v) {
			continue
		}
		xs = append(xs, index[i])
		ys = append(ys, v)
	}
	return xs, ys
}

// xyPoints keeps rows where both x and y are present
func xyPoints(x, y []float64) ([]float64, []float64) {
	xs := make([]float64, 0, len(x))
	ys := make([]float64, 0, len(y))
	for i := range x {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		xs = append(xs, x[i])
		ys = append(ys, y[i])
	}
	return xs, ys
}

func bounds(values []float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

// valueRange returns an explicit axis range when the data alone would give
// a zero-width one, and nil otherwise so the chart picks its own.
func valueRange(values []float64) chart.Range {
	lo, hi := bounds(values)
	if len(values) == 0 || lo != hi {
		return nil
	}
	pad := math.Max(math.Abs(lo)*0.05, 1)
	return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}

// timeRange spans every timestamp in index, padded by a day when the data
// covers a single instant.
func timeRange(index []time.Time) chart.Range {
	xs := make([]float64, len(index))
	for i, ts := range index {
		xs[i] = float64(ts.UnixNano())
	}
	lo, hi := bounds(xs)
	if lo == hi {
		lo, hi = lo-dayNanos, hi+dayNanos
	}
	return &chart.ContinuousRange{Min: lo, Max: hi}
}

func dateFormatter(v interface{}) string {
	switch tv := v.(type) {
	case float64:
		return time.Unix(0, int64(tv)).UTC().Format("2006-01-02")
	case time.Time:
		return tv.Format("2006-01-02")
	}
	return ""
}
