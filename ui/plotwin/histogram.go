package plotwin

import (
	"fmt"
	"strconv"
	"strings"

	"spectral-viewer/internal/app"
	svimage "spectral-viewer/internal/image"
	"spectral-viewer/pkg/geometry"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"
)

const histPlotHeight = 170

// bandControl is the histogram pair and cutoff entries of one channel.
type bandControl struct {
	band     svimage.Band
	raw      svimage.Histogram
	adjusted svimage.Histogram
	rawImg   *fynecanvas.Image
	adjImg   *fynecanvas.Image
	low      *widget.Entry
	high     *widget.Entry
}

// HistogramWindow shows the raw and adjusted histogram of every channel of
// an image and lets the user type new cutoffs.
type HistogramWindow struct {
	win     fyne.Window
	tabs    *container.AppTabs
	signals app.HistogramSignals
	log     *logrus.Entry
	geom    geometry.RectInt
	closed  bool

	controls map[svimage.Band]*bandControl
}

var _ app.HistogramWindow = (*HistogramWindow)(nil)

func NewHistogramWindow(a fyne.App, title string, logger *logrus.Logger) *HistogramWindow {
	w := &HistogramWindow{
		win:      a.NewWindow(title),
		tabs:     container.NewAppTabs(),
		log:      logger.WithField("window", title),
		geom:     geometry.NewRectInt(0, 0, 800, 400),
		controls: make(map[svimage.Band]*bandControl),
	}
	reset := widget.NewButton("Reset", func() {
		w.signals.LimitsReset.Emit(app.LimitResetEvent{})
	})
	w.win.SetContent(container.NewBorder(nil, container.NewHBox(reset), nil, nil, w.tabs))
	w.win.SetOnClosed(func() { w.closed = true })
	return w
}

func (w *HistogramWindow) Signals() *app.HistogramSignals { return &w.signals }

// CreatePlotControl adds the tab for one channel.
func (w *HistogramWindow) CreatePlotControl(raw, adjusted svimage.Histogram, band svimage.Band) {
	c := &bandControl{
		band:     band,
		raw:      raw,
		adjusted: adjusted,
		rawImg:   fynecanvas.NewImageFromImage(blank(1, 1)),
		adjImg:   fynecanvas.NewImageFromImage(blank(1, 1)),
		low:      widget.NewEntry(),
		high:     widget.NewEntry(),
	}
	for _, img := range []*fynecanvas.Image{c.rawImg, c.adjImg} {
		img.FillMode = fynecanvas.ImageFillContain
		img.SetMinSize(fyne.NewSize(float32(w.geom.Width/2), histPlotHeight))
	}
	c.low.SetPlaceHolder("low cutoff")
	c.high.SetPlaceHolder("high cutoff")
	w.showCutoffs(c)

	apply := widget.NewButton("Apply", func() { w.apply(c) })
	form := container.NewGridWithColumns(5,
		widget.NewLabel("Low"), c.low,
		widget.NewLabel("High"), c.high,
		apply)
	plots := container.NewGridWithColumns(2, c.rawImg, c.adjImg)

	w.controls[band] = c
	w.tabs.Append(container.NewTabItem(band.String(), container.NewBorder(nil, form, nil, nil, plots)))
	w.redraw(c)
}

func (w *HistogramWindow) apply(c *bandControl) {
	e, err := parseLimits(c.band, c.low.Text, c.high.Text)
	if err != nil {
		w.log.WithError(err).WithField("band", c.band).Warn("Rejected cutoff entry")
		dialog.ShowError(err, w.win)
		return
	}
	w.signals.LimitChanged.Emit(e)
}

// parseLimits reads the cutoff entries; an empty entry leaves that limit unset.
func parseLimits(band svimage.Band, lowText, highText string) (app.LimitChangeEvent, error) {
	e := app.LimitChangeEvent{Band: band}
	if s := strings.TrimSpace(lowText); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return e, fmt.Errorf("low cutoff %q is not a number", s)
		}
		e.Lower, e.HasLower = v, true
	}
	if s := strings.TrimSpace(highText); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return e, fmt.Errorf("high cutoff %q is not a number", s)
		}
		e.Upper, e.HasUpper = v, true
	}
	if e.HasLower && e.HasUpper && e.Lower >= e.Upper {
		return e, fmt.Errorf("low cutoff %g must be below high cutoff %g", e.Lower, e.Upper)
	}
	return e, nil
}

func (w *HistogramWindow) UpdateLimits(raw svimage.Histogram, band svimage.Band) {
	c, ok := w.controls[band]
	if !ok {
		w.log.WithField("band", band).Warn("No histogram control for band")
		return
	}
	c.raw = raw
	w.showCutoffs(c)
	w.redraw(c)
}

func (w *HistogramWindow) SetAdjustedData(adjusted svimage.Histogram, band svimage.Band) {
	c, ok := w.controls[band]
	if !ok {
		w.log.WithField("band", band).Warn("No histogram control for band")
		return
	}
	c.adjusted = adjusted
	c.raw.Low, c.raw.High = adjusted.Low, adjusted.High
	w.showCutoffs(c)
	w.redraw(c)
}

func (w *HistogramWindow) showCutoffs(c *bandControl) {
	c.low.SetText(strconv.FormatFloat(c.raw.Low, 'g', 6, 64))
	c.high.SetText(strconv.FormatFloat(c.raw.High, 'g', 6, 64))
}

func (w *HistogramWindow) redraw(c *bandControl) {
	width := max(w.geom.Width/2, 100)
	raw, err := renderHistogram("Raw "+c.band.String(), c.raw, width, histPlotHeight)
	if err != nil {
		w.log.WithError(err).Warn("Failed to render histogram")
	}
	adj, err := renderHistogram("Adjusted "+c.band.String(), c.adjusted, width, histPlotHeight)
	if err != nil {
		w.log.WithError(err).Warn("Failed to render histogram")
	}
	c.rawImg.Image = raw
	c.rawImg.Refresh()
	c.adjImg.Image = adj
	c.adjImg.Refresh()
}

func (w *HistogramWindow) SetGeometry(r geometry.RectInt) {
	w.geom = r
	w.win.Resize(fyne.NewSize(float32(r.Width), float32(r.Height)))
}

func (w *HistogramWindow) Geometry() geometry.RectInt { return w.geom }
func (w *HistogramWindow) Show() { w.win.Show() }

func (w *HistogramWindow) Close() {
	if w.closed {
		return
	}
	w.closed = true
	w.win.Close()
}
