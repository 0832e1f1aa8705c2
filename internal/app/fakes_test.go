package app

import (
	"image/color"

	"spectral-viewer/internal/config"
	svimage "spectral-viewer/internal/image"
	"spectral-viewer/internal/roi"
	"spectral-viewer/internal/spectral"
	"spectral-viewer/pkg/geometry"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"gonum.org/v1/gonum/mat"
)

// fakeImageWindow records calls. Like a real window, Close emits Closed.
type fakeImageWindow struct {
	signals  ImageSignals
	title    string
	geom     geometry.RectInt
	shown    bool
	closed   int
	refresh  int
	removals int
	mirrored []AreaSelectedEvent
}

func (w *fakeImageWindow) Signals() *ImageSignals { return &w.signals }
func (w *fakeImageWindow) RefreshImage() { w.refresh++ }
func (w *fakeImageWindow) RemoveAllRegions() { w.removals++ }
func (w *fakeImageWindow) Geometry() geometry.RectInt { return w.geom }
func (w *fakeImageWindow) Show() { w.shown = true }

func (w *fakeImageWindow) HandleRegionSelected(e AreaSelectedEvent) {
	w.mirrored = append(w.mirrored, e)
}

func (w *fakeImageWindow) Move(x, y int) {
	w.geom.X = x
	w.geom.Y = y
}

func (w *fakeImageWindow) Close() {
	w.closed++
	w.signals.Closed.Emit(WindowClosedEvent{Target: w})
}

type adjustedCall struct {
	band svimage.Band
	hist svimage.Histogram
}

type fakeHistogramWindow struct {
	signals  HistogramSignals
	title    string
	geom     geometry.RectInt
	controls []svimage.Band
	limits   []svimage.Band
	adjusted []adjustedCall
	shown    bool
	closed   int
}

func (w *fakeHistogramWindow) Signals() *HistogramSignals { return &w.signals }
func (w *fakeHistogramWindow) SetGeometry(r geometry.RectInt) { w.geom = r }
func (w *fakeHistogramWindow) Geometry() geometry.RectInt { return w.geom }
func (w *fakeHistogramWindow) Show() { w.shown = true }
func (w *fakeHistogramWindow) Close() { w.closed++ }

func (w *fakeHistogramWindow) CreatePlotControl(raw, adjusted svimage.Histogram, band svimage.Band) {
	w.controls = append(w.controls, band)
}

func (w *fakeHistogramWindow) UpdateLimits(raw svimage.Histogram, band svimage.Band) {
	w.limits = append(w.limits, band)
}

func (w *fakeHistogramWindow) SetAdjustedData(adjusted svimage.Histogram, band svimage.Band) {
	w.adjusted = append(w.adjusted, adjustedCall{band: band, hist: adjusted})
}

type fakePlotWindow struct {
	signals PlotSignals
	title   string
	plot    string
	geom    geometry.RectInt
	live    []spectral.PlotData
	fixed   []spectral.PlotData
	visible bool
	closed  int
}

func (w *fakePlotWindow) Signals() *PlotSignals { return &w.signals }
func (w *fakePlotWindow) Plot(p spectral.PlotData) { w.live = append(w.live, p) }
func (w *fakePlotWindow) AddPlot(p spectral.PlotData) { w.fixed = append(w.fixed, p) }
func (w *fakePlotWindow) SetPlotTitle(title string) { w.plot = title }
func (w *fakePlotWindow) Visible() bool { return w.visible }
func (w *fakePlotWindow) SetGeometry(r geometry.RectInt) { w.geom = r }
func (w *fakePlotWindow) Geometry() geometry.RectInt { return w.geom }
func (w *fakePlotWindow) Show() { w.visible = true }

func (w *fakePlotWindow) Close() {
	w.closed++
	w.visible = false
	w.signals.Closed.Emit(struct{}{})
}

// fakeFactory hands out image windows of a fixed size and remembers everything it made.
type fakeFactory struct {
	size       geometry.RectInt
	mains      []*fakeImageWindow
	zooms      []*fakeImageWindow
	histograms []*fakeHistogramWindow
	plots      []*fakePlotWindow
}

func (f *fakeFactory) NewMainImageWindow(img svimage.Image, title string, available geometry.RectInt) ImageWindow {
	w := &fakeImageWindow{title: title, geom: f.size}
	f.mains = append(f.mains, w)
	return w
}

func (f *fakeFactory) NewZoomImageWindow(img svimage.Image, title string, available geometry.RectInt) ImageWindow {
	w := &fakeImageWindow{title: title, geom: f.size}
	f.zooms = append(f.zooms, w)
	return w
}

func (f *fakeFactory) NewHistogramWindow(title string) HistogramWindow {
	w := &fakeHistogramWindow{title: title}
	f.histograms = append(f.histograms, w)
	return w
}

func (f *fakeFactory) NewPlotWindow(title string) PlotWindow {
	w := &fakePlotWindow{title: title}
	f.plots = append(f.plots, w)
	return w
}

// plotsTitled returns the plot windows created with title, oldest first.
func (f *fakeFactory) plotsTitled(title string) []*fakePlotWindow {
	var out []*fakePlotWindow
	for _, p := range f.plots {
		if p.title == title {
			out = append(out, p)
		}
	}
	return out
}

type fakeHistograms struct{ img svimage.Image }

func (h fakeHistograms) RawHistogram(band svimage.Band) svimage.Histogram {
	return svimage.Histogram{Band: band, Low: h.img.LowCutoff(band), High: h.img.HighCutoff(band)}
}

func (h fakeHistograms) AdjustedHistogram(band svimage.Band) svimage.Histogram {
	return svimage.Histogram{Band: band, Low: 0, High: 256}
}

type fakeBandList struct {
	signals BandListSignals
	files   map[string][]svimage.BandDescriptor
	added   int
}

func (b *fakeBandList) Signals() *BandListSignals { return &b.signals }

func (b *fakeBandList) AddFile(name string, bands []svimage.BandDescriptor) {
	if b.files == nil {
		b.files = make(map[string][]svimage.BandDescriptor)
	}
	b.files[name] = bands
	b.added++
}

type fakeListView struct {
	signals roi.ListSignals
	rows    []roi.Row
	visible bool
}

func (v *fakeListView) Signals() *roi.ListSignals { return &v.signals }
func (v *fakeListView) AddRow(row roi.Row) { v.rows = append(v.rows, row) }
func (v *fakeListView) Clear() { v.rows = nil }
func (v *fakeListView) RowCount() int { return len(v.rows) }
func (v *fakeListView) Visible() bool { return v.visible }
func (v *fakeListView) Show() { v.visible = true }

func (v *fakeListView) RemoveRow(id uuid.UUID) {
	for i, r := range v.rows {
		if r.ID == id {
			v.rows = append(v.rows[:i], v.rows[i+1:]...)
			return
		}
	}
}

// yesPrompter confirms every close and declines every save.
type yesPrompter struct{}

func (yesPrompter) ConfirmSave(region *roi.Region, include bool, done func(save, include bool)) {
	done(false, include)
}
func (yesPrompter) ConfirmClose(region *roi.Region, done func(yes bool)) { done(true) }
func (yesPrompter) ChooseSavePath(defaultPath string, done func(path string, ok bool)) {
	done("", false)
}
func (yesPrompter) ReportError(err error) {}

type memDefaults struct {
	dir     string
	include bool
}

func (d *memDefaults) SaveDir() string { return d.dir }
func (d *memDefaults) SetSaveDir(dir string) { d.dir = dir }
func (d *memDefaults) IncludeBands() bool { return d.include }
func (d *memDefaults) SetIncludeBands(in bool) { d.include = in }

type fakeDisplay struct {
	on     bool
	closed bool
}

func (d *fakeDisplay) Color() color.RGBA { return color.RGBA{G: 255, A: 255} }
func (d *fakeDisplay) IsOn() bool { return d.on }
func (d *fakeDisplay) SetOn(on bool) { d.on = on }
func (d *fakeDisplay) Close() { d.closed = true }

// testFile is a 3 band, 3 line by 4 sample cube whose values encode
// band, line and sample.
func testFile(name string) *spectral.File {
	const lines, samples, bands = 3, 4, 3
	h := &spectral.Header{
		Samples:         samples,
		Lines:           lines,
		Bands:           bands,
		Wavelengths:     []float64{450, 550, 650},
		WavelengthUnits: "nm",
	}
	data := make([]*mat.Dense, bands)
	for b := range data {
		m := mat.NewDense(lines, samples, nil)
		for l := 0; l < lines; l++ {
			for s := 0; s < samples; s++ {
				m.Set(l, s, float64(100*b+10*l+s))
			}
		}
		data[b] = m
	}
	f, err := spectral.NewFile(name, h, data)
	if err != nil {
		panic(err)
	}
	return f
}

type harness struct {
	factory *fakeFactory
	list    *fakeListView
	regions *roi.Manager
	env     Env
	hook    *test.Hook
}

func newHarness() *harness {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	factory := &fakeFactory{size: geometry.NewRectInt(0, 0, 200, 100)}
	list := &fakeListView{}
	regions := roi.NewManager(list, yesPrompter{}, roi.Export, &memDefaults{}, logger)
	return &harness{
		factory: factory,
		list:    list,
		regions: regions,
		hook:    hook,
		env: Env{
			Factory:      factory,
			Regions:      regions,
			Layout:       config.DefaultLayout(),
			Stretch:      svimage.DefaultStretch(),
			NewHistogram: func(img svimage.Image) HistogramSource { return fakeHistograms{img: img} },
			Logger:       logger,
		},
	}
}

func (h *harness) count(level logrus.Level) int {
	n := 0
	for _, e := range h.hook.AllEntries() {
		if e.Level == level {
			n++
		}
	}
	return n
}
