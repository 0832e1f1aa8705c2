package mainwindow

import (
	"spectral-viewer/internal/app"
	svimage "spectral-viewer/internal/image"
	"spectral-viewer/pkg/geometry"
	"spectral-viewer/ui/imagewin"
	"spectral-viewer/ui/plotwin"

	"fyne.io/fyne/v2"
	"github.com/sirupsen/logrus"
)

// Factory creates the fyne windows of each window set.
type Factory struct {
	app        fyne.App
	zoomFactor float64
	logger     *logrus.Logger
}

var _ app.WindowFactory = (*Factory)(nil)

func NewFactory(a fyne.App, zoomFactor float64, logger *logrus.Logger) *Factory {
	return &Factory{app: a, zoomFactor: zoomFactor, logger: logger}
}

func (f *Factory) NewMainImageWindow(img svimage.Image, title string, available geometry.RectInt) app.ImageWindow {
	return imagewin.NewMain(f.app, img, title, available)
}

func (f *Factory) NewZoomImageWindow(img svimage.Image, title string, available geometry.RectInt) app.ImageWindow {
	return imagewin.NewZoom(f.app, img, title, f.zoomFactor, available)
}

func (f *Factory) NewHistogramWindow(title string) app.HistogramWindow {
	return plotwin.NewHistogramWindow(f.app, title, f.logger)
}

func (f *Factory) NewPlotWindow(title string) app.PlotWindow {
	return plotwin.NewPlotWindow(f.app, title, f.logger)
}
