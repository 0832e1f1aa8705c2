// Package plotwin provides the line plot and histogram windows. Charts are
// rendered with go-chart and shown as images.
package plotwin

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"

	svimage "spectral-viewer/internal/image"
	"spectral-viewer/internal/spectral"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

func chartColor(c color.RGBA) drawing.Color {
	return drawing.Color{R: c.R, G: c.G, B: c.B, A: c.A}
}

// finite drops points whose y value is NaN or infinite.
func finite(x, y []float64) ([]float64, []float64) {
	xs := make([]float64, 0, len(x))
	ys := make([]float64, 0, len(y))
	for i := range y {
		if i < len(x) && !math.IsNaN(y[i]) && !math.IsInf(y[i], 0) {
			xs = append(xs, x[i])
			ys = append(ys, y[i])
		}
	}
	return xs, ys
}

func lineSeries(p spectral.PlotData) chart.ContinuousSeries {
	xs, ys := finite(p.X, p.Y)
	// go-chart needs a non-empty range on both axes
	if len(xs) == 1 {
		xs = append(xs, xs[0]+1)
		ys = append(ys, ys[0])
	}
	style := chart.Style{
		StrokeColor: chartColor(p.Color),
		StrokeWidth: 1.5,
	}
	if p.Dashed {
		style.StrokeDashArray = []float64{5, 3}
	}
	return chart.ContinuousSeries{Name: p.Legend, XValues: xs, YValues: ys, Style: style}
}

// renderLines draws the plots into one chart. The first plot supplies the
// axis labels.
func renderLines(title string, plots []spectral.PlotData, width, height int) (image.Image, error) {
	if len(plots) == 0 {
		return blank(width, height), nil
	}
	series := make([]chart.Series, 0, len(plots))
	for _, p := range plots {
		if s := lineSeries(p); len(s.XValues) > 0 {
			series = append(series, s)
		}
	}
	if len(series) == 0 {
		return blank(width, height), nil
	}
	ch := chart.Chart{
		Title:      title,
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: chart.Box{Top: 30, Left: 16, Right: 12, Bottom: 16}},
		XAxis:      chart.XAxis{Name: plots[0].XLabel},
		YAxis:      chart.YAxis{Name: plots[0].YLabel},
		Series:     series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return renderPNG(&ch)
}

// renderHistogram draws bin counts with the cutoffs as vertical markers.
func renderHistogram(title string, h svimage.Histogram, width, height int) (image.Image, error) {
	centers := h.Centers()
	top := 1.0
	for _, c := range h.Counts {
		top = max(top, c)
	}
	if len(centers) < 2 {
		return blank(width, height), nil
	}

	marker := func(name string, x float64, col color.RGBA) chart.Series {
		return chart.ContinuousSeries{
			Name:    name,
			XValues: []float64{x, x},
			YValues: []float64{0, top},
			Style:   chart.Style{StrokeColor: chartColor(col), StrokeWidth: 1, StrokeDashArray: []float64{4, 2}},
		}
	}
	lo, hi := centers[0], centers[len(centers)-1]
	series := []chart.Series{
		chart.ContinuousSeries{
			Name:    "Count",
			XValues: centers,
			YValues: h.Counts,
			Style: chart.Style{
				StrokeColor: chart.ColorBlue,
				FillColor:   chart.ColorBlue.WithAlpha(64),
				StrokeWidth: 1,
			},
		},
	}
	if h.Low >= lo && h.Low <= hi {
		series = append(series, marker("Low", h.Low, color.RGBA{R: 200, A: 255}))
	}
	if h.High >= lo && h.High <= hi {
		series = append(series, marker("High", h.High, color.RGBA{R: 200, A: 255}))
	}

	ch := chart.Chart{
		Title:      title,
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: chart.Box{Top: 30, Left: 16, Right: 12, Bottom: 16}},
		YAxis:      chart.YAxis{Range: &chart.ContinuousRange{Min: 0, Max: top}},
		Series:     series,
	}
	return renderPNG(&ch)
}

func renderPNG(ch *chart.Chart) (image.Image, error) {
	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return blank(ch.Width, ch.Height), fmt.Errorf("render chart %q: %w", ch.Title, err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		return blank(ch.Width, ch.Height), fmt.Errorf("decode chart %q: %w", ch.Title, err)
	}
	return img, nil
}

func blank(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, max(width, 1), max(height, 1)))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	return img
}
