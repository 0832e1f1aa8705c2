package app

import (
	"spectral-viewer/internal/config"
	"spectral-viewer/internal/event"
	svimage "spectral-viewer/internal/image"
	"spectral-viewer/internal/roi"
	"spectral-viewer/internal/spectral"
	"spectral-viewer/pkg/colorutil"
	"spectral-viewer/pkg/geometry"

	"github.com/sirupsen/logrus"
)

// Env carries the collaborators shared by every file and window set.
type Env struct {
	Factory      WindowFactory
	Regions      *roi.Manager
	Layout       config.LayoutConfig
	Stretch      svimage.Stretch
	NewHistogram func(img svimage.Image) HistogramSource
	// Available is the usable screen area handed to image windows for sizing.
	Available geometry.RectInt
	Logger    *logrus.Logger
}

type bandStatsWindow struct {
	window PlotWindow
	conn   event.Connection
}

// WindowSet owns the windows showing one image: main and zoom image windows,
// the histogram window, the spectral plot and one band statistics plot per
// region that asked for one. Closing either image window closes them all.
type WindowSet struct {
	image     svimage.Image
	title     string
	hist      HistogramSource
	bandTools *spectral.BandTools
	mapInfo   *spectral.MapInfo
	env       Env
	log       *logrus.Entry

	main      ImageWindow
	zoom      ImageWindow
	histogram HistogramWindow
	specPlot  PlotWindow
	bandStats map[*roi.Region]bandStatsWindow

	// last known histogram window geometry, plots are placed relative to it
	anchor geometry.RectInt

	conns        []func()
	mainClosed   event.Connection
	zoomClosed   event.Connection
	regionsClose event.Connection
	torndown     bool
	closed       event.Signal[*WindowSet]
}

// NewWindowSet creates the windows for img and wires them together. Nothing
// is shown until InitPosition.
func NewWindowSet(img svimage.Image, bandTools *spectral.BandTools, mapInfo *spectral.MapInfo, env Env) *WindowSet {
	ws := &WindowSet{
		image:     img,
		title:     img.Label(),
		hist:      env.NewHistogram(img),
		bandTools: bandTools,
		mapInfo:   mapInfo,
		env:       env,
		log:       env.Logger.WithField("window", img.Label()),
		bandStats: make(map[*roi.Region]bandStatsWindow),
	}

	// Exhaustive over the image variants; both get the same pair of windows.
	switch img.(type) {
	case *svimage.Greyscale, *svimage.RGB:
		ws.main = env.Factory.NewMainImageWindow(img, ws.title, env.Available)
		ws.zoom = env.Factory.NewZoomImageWindow(img, ws.title, env.Available)
	default:
		panic("window set: image type not recognized")
	}

	ws.wireImageWindow(ws.main, ws.zoom)
	ws.wireImageWindow(ws.zoom, ws.main)
	ws.mainClosed = ws.main.Signals().Closed.Connect(ws.handleImageClosed)
	ws.zoomClosed = ws.zoom.Signals().Closed.Connect(ws.handleImageClosed)

	ws.specPlot = env.Factory.NewPlotWindow("Spectra")
	ws.histogram = env.Factory.NewHistogramWindow("Histogram: " + ws.title)
	hs := ws.histogram.Signals()
	changed := hs.LimitChanged.Connect(ws.handleLimitChange)
	reset := hs.LimitsReset.Connect(func(LimitResetEvent) { ws.handleLimitsReset() })
	ws.conns = append(ws.conns,
		func() { hs.LimitChanged.Disconnect(changed) },
		func() { hs.LimitsReset.Disconnect(reset) })

	ws.regionsClose = env.Regions.Closed().Connect(func(struct{}) { ws.handleRegionWindowClosed() })
	return ws
}

// wireImageWindow connects src's pointer and selection signals; regions drawn
// in src are mirrored into mirror.
func (ws *WindowSet) wireImageWindow(src, mirror ImageWindow) {
	s := src.Signals()
	click := s.PixelSelected.Connect(ws.handlePixelClick)
	move := s.MouseMoved.Connect(ws.handleMouseMove)
	area := s.AreaSelected.Connect(ws.handleAreaSelected)
	mirrored := s.AreaSelected.Connect(mirror.HandleRegionSelected)
	ws.conns = append(ws.conns, func() {
		s.PixelSelected.Disconnect(click)
		s.MouseMoved.Disconnect(move)
		s.AreaSelected.Disconnect(area)
		s.AreaSelected.Disconnect(mirrored)
	})
}

// Closed fires once, after every window of the set has been closed.
func (ws *WindowSet) Closed() *event.Signal[*WindowSet] { return &ws.closed }

func (ws *WindowSet) Image() svimage.Image { return ws.image }
func (ws *WindowSet) Title() string { return ws.title }
func (ws *WindowSet) BandTools() *spectral.BandTools { return ws.bandTools }
func (ws *WindowSet) MapInfo() *spectral.MapInfo { return ws.mapInfo }
func (ws *WindowSet) IsClosed() bool { return ws.torndown }
func (ws *WindowSet) ImageWindowGeometry() geometry.RectInt {
	return ws.main.Geometry()
}

// BandStatsCount returns the number of open band statistics windows.
func (ws *WindowSet) BandStatsCount() int { return len(ws.bandStats) }

// InitPosition places and shows the image windows at (x, y), the zoom window
// offset from it and the histogram window below the main window.
func (ws *WindowSet) InitPosition(x, y int) {
	l := ws.env.Layout
	ws.main.Move(x, y)
	ws.main.Show()
	ws.zoom.Move(x+l.ZoomOffset, y+l.ZoomOffset)
	ws.zoom.Show()

	for _, b := range svimage.BandsOf(ws.image) {
		ws.histogram.CreatePlotControl(ws.hist.RawHistogram(b), ws.hist.AdjustedHistogram(b), b)
	}
	ws.anchor = geometry.NewRectInt(x, y+ws.main.Geometry().Height+l.HistogramGap, l.HistogramWidth, l.HistogramHeight)
	ws.histogram.SetGeometry(ws.anchor)
	ws.histogram.Show()
}

func (ws *WindowSet) histogramGeometry() geometry.RectInt {
	if !ws.torndown {
		ws.anchor = ws.histogram.Geometry()
	}
	return ws.anchor
}

// handlePixelClick pins the clicked pixel's spectrum, but only once the
// spectral plot is on screen.
func (ws *WindowSet) handlePixelClick(e PixelEvent) {
	if !ws.specPlot.Visible() {
		return
	}
	p := ws.bandTools.SpectralPlot(e.Y, e.X)
	p.Color = colorutil.Green
	ws.specPlot.AddPlot(p)
}

// handleMouseMove replaces the live trace, showing the plot on first use.
func (ws *WindowSet) handleMouseMove(e PixelEvent) {
	ws.specPlot.Plot(ws.bandTools.SpectralPlot(e.Y, e.X))
	if !ws.specPlot.Visible() {
		l := ws.env.Layout
		r := ws.histogramGeometry()
		ws.specPlot.SetGeometry(geometry.NewRectInt(r.X+l.PlotOffset, r.Y+l.PlotOffset, l.PlotWidth, l.PlotHeight))
		ws.specPlot.Show()
	}
}

func (ws *WindowSet) handleAreaSelected(e AreaSelectedEvent) {
	ws.env.Regions.AddRegion(e.Region, e.Item, ws)
}

// handleImageClosed tears the set down. The surviving image window's close
// notification is disconnected before it is closed so the teardown runs once.
func (ws *WindowSet) handleImageClosed(e WindowClosedEvent) {
	switch e.Target {
	case ws.main:
		ws.log.Debug("Main image window closed")
		ws.zoom.Signals().Closed.Disconnect(ws.zoomClosed)
		ws.zoom.Close()
	case ws.zoom:
		ws.log.Debug("Zoom image window closed")
		ws.main.Signals().Closed.Disconnect(ws.mainClosed)
		ws.main.Close()
	default:
		ws.log.Error("Received window close event for a window not in this set")
		return
	}
	ws.main.Signals().Closed.Disconnect(ws.mainClosed)
	ws.zoom.Signals().Closed.Disconnect(ws.zoomClosed)

	ws.anchor = ws.histogram.Geometry()
	for _, disconnect := range ws.conns {
		disconnect()
	}
	ws.conns = nil
	ws.env.Regions.Closed().Disconnect(ws.regionsClose)
	ws.torndown = true

	ws.histogram.Close()
	ws.specPlot.Close()
	ws.closeAllBandStats()

	ws.closed.Emit(ws)
}

func (ws *WindowSet) closeAllBandStats() {
	for region, st := range ws.bandStats {
		delete(ws.bandStats, region)
		st.window.Signals().Closed.Disconnect(st.conn)
		st.window.Close()
	}
}

// handleRegionWindowClosed drops every region overlay and statistics window
// after the region list discarded all regions.
func (ws *WindowSet) handleRegionWindowClosed() {
	ws.closeAllBandStats()
	ws.main.RemoveAllRegions()
	ws.zoom.RemoveAllRegions()
}

func (ws *WindowSet) handleLimitChange(e LimitChangeEvent) {
	if !e.HasLower && !e.HasUpper {
		ws.log.WithField("band", e.Band).Warn("Got limit change event with no limits")
		return
	}
	if e.HasUpper {
		ws.image.SetHighCutoff(e.Upper, e.Band)
	}
	if e.HasLower {
		ws.image.SetLowCutoff(e.Lower, e.Band)
	}
	ws.log.WithFields(logrus.Fields{
		"band": e.Band,
		"low":  ws.image.LowCutoff(e.Band),
		"high": ws.image.HighCutoff(e.Band),
	}).Debug("Limits changed")

	ws.image.Adjust()
	ws.main.RefreshImage()
	ws.zoom.RefreshImage()
	ws.histogram.SetAdjustedData(ws.hist.AdjustedHistogram(e.Band), e.Band)
}

func (ws *WindowSet) handleLimitsReset() {
	ws.image.ResetStretch()
	ws.image.Adjust()
	ws.main.RefreshImage()
	ws.zoom.RefreshImage()

	for _, b := range svimage.BandsOf(ws.image) {
		ws.histogram.UpdateLimits(ws.hist.RawHistogram(b), b)
		ws.histogram.SetAdjustedData(ws.hist.AdjustedHistogram(b), b)
	}
}

func statsTitle(region *roi.Region) string {
	return "Region: " + region.Name()
}

// HandleRegionStats opens a band statistics window for the region, replacing
// any earlier one.
func (ws *WindowSet) HandleRegionStats(e roi.StatsEvent) {
	region := e.Region
	if ws.torndown {
		ws.log.WithField("region", region.Name()).Warn("Stats requested for a region of a closed window set")
		return
	}
	if old, ok := ws.bandStats[region]; ok {
		delete(ws.bandStats, region)
		old.window.Signals().Closed.Disconnect(old.conn)
		old.window.Close()
	}

	w := ws.env.Factory.NewPlotWindow("Band Stats")
	conn := w.Signals().Closed.Connect(func(struct{}) { ws.handleBandStatsClosed(region, w) })
	ws.bandStats[region] = bandStatsWindow{window: w, conn: conn}

	stats := ws.bandTools.StatisticsPlot(region.Lines(), region.Samples(), statsTitle(region))
	plots := stats.Plots()
	w.Plot(plots[0])
	for _, p := range plots[1:] {
		w.AddPlot(p)
	}

	l := ws.env.Layout
	r := ws.histogramGeometry()
	w.SetGeometry(geometry.NewRectInt(r.X+l.StatsOffset, r.Y+l.StatsOffset, l.PlotWidth, l.PlotHeight))
	w.Show()
}

func (ws *WindowSet) handleBandStatsClosed(region *roi.Region, w PlotWindow) {
	if st, ok := ws.bandStats[region]; ok && st.window == w {
		delete(ws.bandStats, region)
	}
}

// HandleRegionNameChanged retitles the region's statistics window.
func (ws *WindowSet) HandleRegionNameChanged(e roi.NameChangeEvent) {
	if ws.torndown {
		ws.log.WithField("region", e.NewName).Warn("Name change for a region of a closed window set")
		return
	}
	if st, ok := ws.bandStats[e.Region]; ok {
		st.window.SetPlotTitle(statsTitle(e.Region))
	}
}

// HandleRegionClosed closes the region's statistics window.
func (ws *WindowSet) HandleRegionClosed(e roi.CloseEvent) {
	if st, ok := ws.bandStats[e.Region]; ok {
		delete(ws.bandStats, e.Region)
		st.window.Signals().Closed.Disconnect(st.conn)
		st.window.Close()
	}
}
