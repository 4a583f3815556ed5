package charts

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"math"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/chrissnell/weather-visualizer/internal/types"
)

const (
	wideWidth    = 1200
	wideHeight   = 600
	squareWidth  = 800
	panelHeight  = 500
	barWidth     = 30
	barSpacing   = 10
	legendMargin = 50
)

func titledBackground() chart.Style {
	return chart.Style{Padding: chart.Box{Top: legendMargin, Left: 20, Right: 20, Bottom: 20}}
}

// TemperatureLine draws temperature over the full time range
func (r *Renderer) TemperatureLine(t *types.Table) ([]byte, error) {
	temp, err := t.Column(r.cols.Temperature)
	if err != nil {
		return nil, err
	}
	xs, ys := timePoints(t.Index, temp)
	if len(xs) == 0 {
		return nil, fmt.Errorf("%s: %w", r.cols.Temperature, ErrNoData)
	}

	graph := chart.Chart{
		Title:      "Daily Temperature Trend",
		Width:      wideWidth,
		Height:     wideHeight,
		Background: titledBackground(),
		XAxis: chart.XAxis{
			Name:           "Date",
			ValueFormatter: dateFormatter,
			Range:          timeRange(xs),
			GridMajorStyle: gridStyle(),
		},
		YAxis: chart.YAxis{
			Name:           "Temperature (°C)",
			Range:          valueRange(ys),
			GridMajorStyle: gridStyle(),
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Daily Temperature",
				Style:   chart.Style{StrokeColor: colorTemperature, StrokeWidth: 2},
				XValues: xs,
				YValues: ys,
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	return renderPNG(graph)
}

// RainfallBars draws one bar per month, labelled YYYY-MM
func (r *Renderer) RainfallBars(m *types.MonthlySummary) ([]byte, error) {
	if m == nil || len(m.Rows) == 0 {
		return nil, fmt.Errorf("monthly rainfall: %w", ErrNoData)
	}

	bars := make([]chart.Value, len(m.Rows))
	values := make([]float64, len(m.Rows))
	for i, row := range m.Rows {
		v := row.RainfallSum
		if math.IsNaN(v) {
			v = 0
		}
		values[i] = v
		bars[i] = chart.Value{
			Label: row.Label(),
			Value: v,
			Style: chart.Style{FillColor: colorRainfall, StrokeColor: colorRainfall},
		}
	}

	lo, hi := bounds(values)
	lo, hi = math.Min(lo, 0), math.Max(hi, 0)
	if lo == hi {
		hi = 1
	}

	graph := chart.BarChart{
		Title:      "Monthly Rainfall Totals",
		Width:      int(math.Max(wideWidth, float64(len(bars)*(barWidth+barSpacing)+200))),
		Height:     wideHeight,
		BarWidth:   barWidth,
		BarSpacing: barSpacing,
		Background: chart.Style{Padding: chart.Box{Top: legendMargin, Left: 20, Right: 20, Bottom: 60}},
		XAxis:      chart.Style{TextRotationDegrees: 45.0},
		YAxis: chart.YAxis{
			Name:           "Total Rainfall (mm)",
			Range:          &chart.ContinuousRange{Min: lo, Max: hi * 1.05},
			GridMajorStyle: gridStyle(),
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// HumidityScatter plots humidity against temperature, one dot per row
func (r *Renderer) HumidityScatter(t *types.Table) ([]byte, error) {
	temp, err := t.Column(r.cols.Temperature)
	if err != nil {
		return nil, err
	}
	hum, err := t.Column(r.cols.Humidity)
	if err != nil {
		return nil, err
	}
	xs, ys := xyPoints(temp, hum)
	if len(xs) == 0 {
		return nil, fmt.Errorf("%s vs %s: %w", r.cols.Humidity, r.cols.Temperature, ErrNoData)
	}

	graph := chart.Chart{
		Title:      "Humidity vs. Temperature",
		Width:      squareWidth,
		Height:     wideHeight,
		Background: titledBackground(),
		XAxis: chart.XAxis{
			Name:           "Temperature (°C)",
			Range:          valueRange(xs),
			GridMajorStyle: gridStyle(),
		},
		YAxis: chart.YAxis{
			Name:           "Humidity (%)",
			Range:          valueRange(ys),
			GridMajorStyle: gridStyle(),
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name: "Humidity",
				Style: chart.Style{
					StrokeWidth: chart.Disabled,
					DotWidth:    4,
					DotColor:    colorScatter.WithAlpha(153),
				},
				XValues: xs,
				YValues: ys,
			},
		},
	}

	return renderPNG(graph)
}

// Combined stacks a temperature panel above a humidity panel. Both panels
// share the x range of the full index.
func (r *Renderer) Combined(t *types.Table) ([]byte, error) {
	temp, err := t.Column(r.cols.Temperature)
	if err != nil {
		return nil, err
	}
	hum, err := t.Column(r.cols.Humidity)
	if err != nil {
		return nil, err
	}
	if t.Len() == 0 {
		return nil, ErrNoData
	}

	tx, ty := timePoints(t.Index, temp)
	hx, hy := timePoints(t.Index, hum)
	if len(tx) == 0 || len(hx) == 0 {
		return nil, fmt.Errorf("combined panels: %w", ErrNoData)
	}

	top := panel("Daily Temperature and Humidity Trends", "Temperature (°C)", "Temperature", colorTemperature, tx, ty, timeRange(t.Index))
	top.XAxis.Style = chart.Style{Hidden: true}

	bottom := panel("", "Humidity (%)", "Humidity", colorHumidity, hx, hy, timeRange(t.Index))
	bottom.XAxis.Name = "Date"

	topImg, err := renderImage(top)
	if err != nil {
		return nil, fmt.Errorf("temperature panel: %w", err)
	}
	bottomImg, err := renderImage(bottom)
	if err != nil {
		return nil, fmt.Errorf("humidity panel: %w", err)
	}

	canvas := image.NewRGBA(image.Rect(0, 0, wideWidth, 2*panelHeight))
	draw.Draw(canvas, image.Rect(0, 0, wideWidth, panelHeight), topImg, topImg.Bounds().Min, draw.Src)
	draw.Draw(canvas, image.Rect(0, panelHeight, wideWidth, 2*panelHeight), bottomImg, bottomImg.Bounds().Min, draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func panel(title, yName, seriesName string, color drawing.Color, xs []time.Time, ys []float64, xRange chart.Range) chart.Chart {
	c := chart.Chart{
		Title:      title,
		Width:      wideWidth,
		Height:     panelHeight,
		Background: titledBackground(),
		XAxis: chart.XAxis{
			ValueFormatter: dateFormatter,
			Range:          xRange,
			GridMajorStyle: gridStyle(),
		},
		YAxis: chart.YAxis{
			Name:           yName,
			Range:          valueRange(ys),
			GridMajorStyle: gridStyle(),
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    seriesName,
				Style:   chart.Style{StrokeColor: color, StrokeWidth: 2},
				XValues: xs,
				YValues: ys,
			},
		},
	}
	return c
}

func renderImage(c chart.Chart) (image.Image, error) {
	c.Elements = []chart.Renderable{chart.LegendLeft(&c)}
	b, err := renderPNG(c)
	if err != nil {
		return nil, err
	}
	return png.Decode(bytes.NewReader(b))
}
