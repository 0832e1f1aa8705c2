// Package app coordinates the viewer's windows: one WindowSet per displayed
// image, one FileManager per open file and a WindowManager over all files.
// Concrete windows live in the ui packages and are reached through the
// interfaces declared here.
package app

import (
	"spectral-viewer/internal/event"
	svimage "spectral-viewer/internal/image"
	"spectral-viewer/internal/roi"
	"spectral-viewer/internal/spectral"
	"spectral-viewer/pkg/geometry"
)

// PixelEvent is a pointer event translated to image pixel coordinates.
type PixelEvent struct {
	Source ImageWindow
	X      int // sample
	Y      int // line
}

// AreaSelectedEvent reports a region drawn in an image window together with
// the overlay the window created for it.
type AreaSelectedEvent struct {
	Source ImageWindow
	Region *roi.Region
	Item   roi.DisplayItem
}

// WindowClosedEvent identifies the image window that closed.
type WindowClosedEvent struct {
	Target ImageWindow
}

// ImageSignals are emitted by an image window.
type ImageSignals struct {
	PixelSelected event.Signal[PixelEvent]
	MouseMoved    event.Signal[PixelEvent]
	AreaSelected  event.Signal[AreaSelectedEvent]
	Closed        event.Signal[WindowClosedEvent]
}

// ImageWindow shows an image at some magnification and lets the user draw regions.
type ImageWindow interface {
	Signals() *ImageSignals
	// HandleRegionSelected mirrors a region drawn in another window of the same set.
	HandleRegionSelected(e AreaSelectedEvent)
	// RefreshImage redraws after the image's adjusted data changed.
	RefreshImage()
	RemoveAllRegions()
	Geometry() geometry.RectInt
	Move(x, y int)
	Show()
	Close()
}

// LimitChangeEvent carries new cutoffs for one channel. Either limit may be absent.
type LimitChangeEvent struct {
	Band     svimage.Band
	Lower    float64
	Upper    float64
	HasLower bool
	HasUpper bool
}

// LimitResetEvent asks for every channel's default cutoffs.
type LimitResetEvent struct{}

type HistogramSignals struct {
	LimitChanged event.Signal[LimitChangeEvent]
	LimitsReset  event.Signal[LimitResetEvent]
}

// HistogramWindow shows raw and adjusted histograms per channel and lets the
// user edit the cutoffs.
type HistogramWindow interface {
	Signals() *HistogramSignals
	CreatePlotControl(raw, adjusted svimage.Histogram, band svimage.Band)
	// UpdateLimits replaces the raw histogram and the cutoffs shown for band.
	UpdateLimits(raw svimage.Histogram, band svimage.Band)
	SetAdjustedData(adjusted svimage.Histogram, band svimage.Band)
	SetGeometry(r geometry.RectInt)
	Geometry() geometry.RectInt
	Show()
	Close()
}

type PlotSignals struct {
	Closed event.Signal[struct{}]
}

// PlotWindow draws line plots: one replaceable trace plus any number of fixed ones.
type PlotWindow interface {
	Signals() *PlotSignals
	// Plot replaces the live trace.
	Plot(p spectral.PlotData)
	// AddPlot adds a fixed trace.
	AddPlot(p spectral.PlotData)
	SetPlotTitle(title string)
	Visible() bool
	SetGeometry(r geometry.RectInt)
	Geometry() geometry.RectInt
	Show()
	Close()
}

// WindowFactory creates the concrete windows of a window set.
type WindowFactory interface {
	NewMainImageWindow(img svimage.Image, title string, available geometry.RectInt) ImageWindow
	NewZoomImageWindow(img svimage.Image, title string, available geometry.RectInt) ImageWindow
	NewHistogramWindow(title string) HistogramWindow
	NewPlotWindow(title string) PlotWindow
}

// HistogramSource computes the histograms of one image.
type HistogramSource interface {
	RawHistogram(band svimage.Band) svimage.Histogram
	AdjustedHistogram(band svimage.Band) svimage.Histogram
}

// BandSelection requests a greyscale window set for one band of a file.
type BandSelection struct {
	FileName string
	Band     int
}

// RGBSelection requests a composite window set for three bands of a file.
type RGBSelection struct {
	FileName string
	Red      int
	Green    int
	Blue     int
}

type BandListSignals struct {
	BandSelected event.Signal[BandSelection]
	RGBSelected  event.Signal[RGBSelection]
}

// BandList is the file and band browser.
type BandList interface {
	Signals() *BandListSignals
	AddFile(name string, bands []svimage.BandDescriptor)
}
