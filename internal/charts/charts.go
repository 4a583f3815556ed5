// Package charts renders the fixed set of weather charts as PNG files.
package charts

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/chrissnell/weather-visualizer/internal/log"
	"github.com/chrissnell/weather-visualizer/internal/types"
	"github.com/chrissnell/weather-visualizer/pkg/config"
)

// Chart file names inside the plot directory
const (
	TemperatureLineChart = "temperature_line_chart.png"
	RainfallBarChart     = "rainfall_bar_chart.png"
	HumidityScatterPlot  = "humidity_temp_scatter_plot.png"
	CombinedSubplots     = "combined_temp_humidity_subplots.png"
)

// ErrNoData means there is nothing to draw
var ErrNoData = errors.New("no data to plot")

var (
	colorTemperature = drawing.ColorFromHex("d62728")
	colorRainfall    = drawing.ColorFromHex("1f77b4")
	colorScatter     = drawing.ColorFromHex("2ca02c")
	colorHumidity    = drawing.ColorFromHex("9467bd")
	colorGrid        = drawing.ColorFromHex("e5e5e5")
)

// Renderer draws the charts of one run into dir
type Renderer struct {
	dir  string
	cols config.Columns
}

// New creates a renderer writing into dir
func New(dir string, cols config.Columns) *Renderer {
	return &Renderer{
		dir:  dir,
		cols: cols,
	}
}

// Dir returns the output directory
func (r *Renderer) Dir() string {
	return r.dir
}

// Prepare creates the output directory if it does not exist
func (r *Renderer) Prepare() error {
	if err := os.MkdirAll(r.dir, 0755); err != nil {
		return fmt.Errorf("failed to create plot directory %s: %w", r.dir, err)
	}
	return nil
}

// RenderAll draws the four charts and returns the paths written. The
// temperature and humidity columns are checked before any file is written.
func (r *Renderer) RenderAll(t *types.Table, monthly *types.MonthlySummary) ([]string, error) {
	if _, err := t.Column(r.cols.Temperature); err != nil {
		return nil, fmt.Errorf("charts: %w", err)
	}
	if _, err := t.Column(r.cols.Humidity); err != nil {
		return nil, fmt.Errorf("charts: %w", err)
	}
	if t.Len() == 0 {
		return nil, fmt.Errorf("charts: %w", ErrNoData)
	}

	steps := []struct {
		name   string
		render func() ([]byte, error)
	}{
		{TemperatureLineChart, func() ([]byte, error) { return r.TemperatureLine(t) }},
		{RainfallBarChart, func() ([]byte, error) { return r.RainfallBars(monthly) }},
		{HumidityScatterPlot, func() ([]byte, error) { return r.HumidityScatter(t) }},
		{CombinedSubplots, func() ([]byte, error) { return r.Combined(t) }},
	}

	var written []string
	for _, step := range steps {
		img, err := step.render()
		if err != nil {
			return written, fmt.Errorf("failed to render %s: %w", step.name, err)
		}
		path := filepath.Join(r.dir, step.name)
		if err := os.WriteFile(path, img, 0644); err != nil {
			return written, fmt.Errorf("failed to write %s: %w", path, err)
		}
		log.Infof("saved: %s", path)
		written = append(written, path)
	}
	return written, nil
}

func renderPNG(c chart.Chart) ([]byte, error) {
	var buf bytes.Buffer
	if err := c.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func gridStyle() chart.Style {
	return chart.Style{
		StrokeColor: colorGrid,
		StrokeWidth: 1.0,
	}
}
