package export

import (
	"math"
	"strconv"
	"strings"

	"github.com/chrissnell/weather-visualizer/internal/types"
)

// alignment of a Markdown table column
type alignment int

const (
	alignLeft alignment = iota
	alignRight
)

// markdownTable renders a pipe table with padded cells
func markdownTable(header []string, align []alignment, rows [][]string) string {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = max(len(h), 3)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], len(cell))
		}
	}

	var b strings.Builder
	writeRow := func(cells []string) {
		b.WriteString("|")
		for i, cell := range cells {
			pad := strings.Repeat(" ", widths[i]-len(cell))
			b.WriteString(" ")
			if align[i] == alignRight {
				b.WriteString(pad + cell)
			} else {
				b.WriteString(cell + pad)
			}
			b.WriteString(" |")
		}
		b.WriteString("\n")
	}

	writeRow(header)
	b.WriteString("|")
	for i, w := range widths {
		if align[i] == alignRight {
			b.WriteString(strings.Repeat("-", w+1) + ":|")
		} else {
			b.WriteString(":" + strings.Repeat("-", w+1) + "|")
		}
	}
	b.WriteString("\n")
	for _, row := range rows {
		writeRow(row)
	}
	return b.String()
}

// formatNumber renders a statistic with six significant digits
func formatNumber(v float64) string {
	if math.IsNaN(v) {
		return "nan"
	}
	return strconv.FormatFloat(v, 'g', 6, 64)
}

// OverallMarkdown renders the overall statistics with one row per statistic
// and one column per variable.
func OverallMarkdown(s *types.OverallStats) string {
	header := []string{""}
	align := []alignment{alignLeft}
	for _, c := range s.Columns {
		header = append(header, c.Column)
		align = append(align, alignRight)
	}

	rows := make([][]string, 0, len(types.StatNames))
	for _, name := range types.StatNames {
		row := []string{name}
		for _, c := range s.Columns {
			row = append(row, formatNumber(c.Value(name)))
		}
		rows = append(rows, row)
	}
	return markdownTable(header, align, rows)
}

// MonthlyMarkdown renders the first n monthly rows (all when n is zero)
func MonthlyMarkdown(m *types.MonthlySummary, n int) string {
	c := m.Columns
	header := []string{
		"Month",
		c.Temperature + " mean",
		c.Temperature + " min",
		c.Temperature + " max",
		c.Rainfall + " sum",
		c.Humidity + " mean",
	}
	align := []alignment{alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight}

	head := m.Head(n)
	rows := make([][]string, 0, len(head))
	for _, r := range head {
		rows = append(rows, []string{
			r.Month.Format(dateLayout),
			formatNumber(r.TemperatureMean),
			formatNumber(r.TemperatureMin),
			formatNumber(r.TemperatureMax),
			formatNumber(r.RainfallSum),
			formatNumber(r.HumidityMean),
		})
	}
	return markdownTable(header, align, rows)
}
