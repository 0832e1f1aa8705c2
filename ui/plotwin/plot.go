package plotwin

import (
	"spectral-viewer/internal/app"
	"spectral-viewer/internal/spectral"
	"spectral-viewer/pkg/geometry"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"github.com/sirupsen/logrus"
)

const (
	defaultWidth  = 500
	defaultHeight = 400
)

// PlotWindow shows one replaceable trace and any number of fixed traces.
// The toolkit window is created on Show, so a plot closed by the user can
// be shown again.
type PlotWindow struct {
	app     fyne.App
	title   string
	signals app.PlotSignals
	log     *logrus.Entry

	win     fyne.Window
	img     *fynecanvas.Image
	geom    geometry.RectInt
	visible bool

	plotTitle string
	live      *spectral.PlotData
	fixed     []spectral.PlotData
}

var _ app.PlotWindow = (*PlotWindow)(nil)

func NewPlotWindow(a fyne.App, title string, logger *logrus.Logger) *PlotWindow {
	return &PlotWindow{
		app:   a,
		title: title,
		log:   logger.WithField("window", title),
		geom:  geometry.NewRectInt(0, 0, defaultWidth, defaultHeight),
	}
}

func (w *PlotWindow) Signals() *app.PlotSignals { return &w.signals }

// Plot replaces the live trace. The first trace plotted names the chart
// unless a title was set.
func (w *PlotWindow) Plot(p spectral.PlotData) {
	w.live = &p
	if w.plotTitle == "" {
		w.plotTitle = p.Title
	}
	w.redraw()
}

func (w *PlotWindow) AddPlot(p spectral.PlotData) {
	w.fixed = append(w.fixed, p)
	if w.plotTitle == "" {
		w.plotTitle = p.Title
	}
	w.redraw()
}

func (w *PlotWindow) SetPlotTitle(title string) {
	w.plotTitle = title
	w.redraw()
}

func (w *PlotWindow) PlotTitle() string { return w.plotTitle }

// Traces returns the fixed traces followed by the live one.
func (w *PlotWindow) Traces() []spectral.PlotData {
	out := append([]spectral.PlotData(nil), w.fixed...)
	if w.live != nil {
		out = append(out, *w.live)
	}
	return out
}

func (w *PlotWindow) Visible() bool { return w.visible }

func (w *PlotWindow) SetGeometry(r geometry.RectInt) {
	w.geom = r
	if w.win != nil {
		w.win.Resize(fyne.NewSize(float32(r.Width), float32(r.Height)))
	}
	w.redraw()
}

func (w *PlotWindow) Geometry() geometry.RectInt { return w.geom }

func (w *PlotWindow) Show() {
	if w.win == nil {
		w.create()
	}
	w.visible = true
	w.redraw()
	w.win.Show()
}

func (w *PlotWindow) create() {
	win := w.app.NewWindow(w.title)
	w.img = fynecanvas.NewImageFromImage(blank(w.geom.Width, w.geom.Height))
	w.img.FillMode = fynecanvas.ImageFillContain
	win.SetContent(w.img)
	win.Resize(fyne.NewSize(float32(w.geom.Width), float32(w.geom.Height)))
	win.SetOnClosed(func() {
		if w.win == win {
			w.win = nil
			w.visible = false
		}
		w.signals.Closed.Emit(struct{}{})
	})
	w.win = win
}

func (w *PlotWindow) Close() {
	win := w.win
	if win == nil {
		return
	}
	w.win = nil
	w.visible = false
	win.Close()
}

func (w *PlotWindow) redraw() {
	if w.img == nil || !w.visible {
		return
	}
	img, err := renderLines(w.plotTitle, w.Traces(), w.geom.Width, w.geom.Height)
	if err != nil {
		w.log.WithError(err).Warn("Failed to render plot")
	}
	w.img.Image = img
	w.img.Refresh()
}
