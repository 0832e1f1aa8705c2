package app

import (
	"testing"

	svimage "spectral-viewer/internal/image"
	"spectral-viewer/internal/roi"
	"spectral-viewer/internal/spectral"
	"spectral-viewer/pkg/colorutil"
	"spectral-viewer/pkg/geometry"

	"github.com/sirupsen/logrus"
)

func newGreySet(t *testing.T, h *harness) (*WindowSet, *fakeImageWindow, *fakeImageWindow) {
	t.Helper()
	f := testFile("cube")
	img, err := spectral.NewImageTools(f, h.env.Stretch).GreyscaleImage(1)
	if err != nil {
		t.Fatalf("GreyscaleImage: %v", err)
	}
	ws := NewWindowSet(img, spectral.NewBandTools(f), f.MapInfo(), h.env)
	ws.InitPosition(300, 25)
	return ws, h.factory.mains[0], h.factory.zooms[0]
}

func newRGBSet(t *testing.T, h *harness) *WindowSet {
	t.Helper()
	f := testFile("cube")
	img, err := spectral.NewImageTools(f, h.env.Stretch).RGBImage(2, 1, 0)
	if err != nil {
		t.Fatalf("RGBImage: %v", err)
	}
	ws := NewWindowSet(img, spectral.NewBandTools(f), nil, h.env)
	ws.InitPosition(300, 25)
	return ws
}

func drawRegion(h *harness, src *fakeImageWindow) (*roi.Region, *fakeDisplay) {
	region := roi.NewRectRegion(geometry.NewRectInt(1, 0, 2, 2), 4, 3)
	item := &fakeDisplay{on: true}
	src.signals.AreaSelected.Emit(AreaSelectedEvent{Source: src, Region: region, Item: item})
	return region, item
}

func TestInitPositionLaysOutWindows(t *testing.T) {
	h := newHarness()
	_, main, zoom := newGreySet(t, h)

	if main.geom.X != 300 || main.geom.Y != 25 || !main.shown {
		t.Fatalf("main at %+v shown=%v", main.geom, main.shown)
	}
	if zoom.geom.X != 350 || zoom.geom.Y != 75 || !zoom.shown {
		t.Fatalf("zoom at %+v shown=%v", zoom.geom, zoom.shown)
	}
	hist := h.factory.histograms[0]
	want := geometry.NewRectInt(300, 175, 800, 400)
	if hist.geom != want || !hist.shown {
		t.Fatalf("histogram at %+v shown=%v, want %+v", hist.geom, hist.shown, want)
	}
	if len(hist.controls) != 1 || hist.controls[0] != svimage.Grey {
		t.Fatalf("controls = %v", hist.controls)
	}
	if specs := h.factory.plotsTitled("Spectra"); len(specs) != 1 || specs[0].visible {
		t.Fatalf("spectral plot should exist hidden: %+v", specs)
	}
}

func TestRGBSetCreatesControlPerChannel(t *testing.T) {
	h := newHarness()
	newRGBSet(t, h)
	hist := h.factory.histograms[0]
	if len(hist.controls) != 3 || hist.controls[0] != svimage.Red || hist.controls[2] != svimage.Blue {
		t.Fatalf("controls = %v", hist.controls)
	}
}

func TestClosingEitherImageWindowTearsDownOnce(t *testing.T) {
	for _, closeMain := range []bool{true, false} {
		h := newHarness()
		ws, main, zoom := newGreySet(t, h)

		main.signals.MouseMoved.Emit(PixelEvent{Source: main, X: 1, Y: 1})
		region, _ := drawRegion(h, main)
		h.list.signals.Stats.Emit(roi.StatsEvent{Region: region})

		notified := 0
		ws.Closed().Connect(func(*WindowSet) { notified++ })

		if closeMain {
			main.Close()
		} else {
			zoom.Close()
		}

		if notified != 1 {
			t.Fatalf("closeMain=%v: closed notifications = %d", closeMain, notified)
		}
		if main.closed != 1 || zoom.closed != 1 {
			t.Fatalf("closeMain=%v: main closed %d, zoom closed %d", closeMain, main.closed, zoom.closed)
		}
		if h.factory.histograms[0].closed != 1 {
			t.Fatalf("histogram not closed")
		}
		for _, p := range h.factory.plots {
			if p.closed != 1 {
				t.Fatalf("plot %q closed %d times", p.title, p.closed)
			}
		}
		if ws.BandStatsCount() != 0 || !ws.IsClosed() {
			t.Fatalf("stats=%d closed=%v", ws.BandStatsCount(), ws.IsClosed())
		}
	}
}

func TestRegionEventsAfterTeardownOpenNothing(t *testing.T) {
	h := newHarness()
	ws, main, _ := newGreySet(t, h)
	region, _ := drawRegion(h, main)
	main.Close()

	h.list.signals.Stats.Emit(roi.StatsEvent{Region: region})
	h.list.signals.Rename.Emit(roi.NameChangeEvent{Region: region, OldName: "Region 1", NewName: "Field"})

	if !h.regions.Contains(region) {
		t.Fatalf("region should outlive its window set until closed in the list")
	}
	if n := len(h.factory.plotsTitled("Band Stats")); n != 0 || ws.BandStatsCount() != 0 {
		t.Fatalf("stats windows=%d tracked=%d after teardown", n, ws.BandStatsCount())
	}
	if h.count(logrus.WarnLevel) != 2 {
		t.Fatalf("warnings = %d", h.count(logrus.WarnLevel))
	}
}

func TestTeardownDisconnectsFromRegistry(t *testing.T) {
	h := newHarness()
	_, main, zoom := newGreySet(t, h)
	main.Close()

	h.list.signals.WindowClosed.Emit(struct{}{})
	if main.removals != 0 || zoom.removals != 0 {
		t.Fatalf("closed window set still reacting to region window close")
	}
	if h.regions.Closed().Len() != 0 {
		t.Fatalf("registry still has %d listeners", h.regions.Closed().Len())
	}
}

func TestLimitChangeOnlyTouchesItsBand(t *testing.T) {
	h := newHarness()
	ws := newRGBSet(t, h)
	img := ws.Image()
	greenHigh := img.HighCutoff(svimage.Green)

	hist := h.factory.histograms[0]
	hist.signals.LimitChanged.Emit(LimitChangeEvent{Band: svimage.Red, Upper: 150, HasUpper: true})

	if img.HighCutoff(svimage.Red) != 150 {
		t.Fatalf("red high = %v", img.HighCutoff(svimage.Red))
	}
	if img.HighCutoff(svimage.Green) != greenHigh {
		t.Fatalf("green high changed to %v", img.HighCutoff(svimage.Green))
	}
	if len(hist.adjusted) != 1 || hist.adjusted[0].band != svimage.Red {
		t.Fatalf("adjusted updates = %+v", hist.adjusted)
	}
	if h.factory.mains[0].refresh != 1 || h.factory.zooms[0].refresh != 1 {
		t.Fatalf("image windows not refreshed")
	}
}

func TestLimitChangeWithoutLimitsWarns(t *testing.T) {
	h := newHarness()
	ws, main, _ := newGreySet(t, h)
	low := ws.Image().LowCutoff(svimage.Grey)

	h.factory.histograms[0].signals.LimitChanged.Emit(LimitChangeEvent{Band: svimage.Grey})

	if h.count(logrus.WarnLevel) != 1 {
		t.Fatalf("warnings = %d", h.count(logrus.WarnLevel))
	}
	if main.refresh != 0 || ws.Image().LowCutoff(svimage.Grey) != low {
		t.Fatalf("image changed without limits")
	}
}

func TestLimitsResetRestoresEveryBand(t *testing.T) {
	h := newHarness()
	ws := newRGBSet(t, h)
	img := ws.Image()
	defaults := map[svimage.Band][2]float64{}
	for _, b := range img.Bands() {
		defaults[b] = [2]float64{img.LowCutoff(b), img.HighCutoff(b)}
	}

	hist := h.factory.histograms[0]
	hist.signals.LimitChanged.Emit(LimitChangeEvent{Band: svimage.Blue, Lower: 1, Upper: 2, HasLower: true, HasUpper: true})
	hist.signals.LimitsReset.Emit(LimitResetEvent{})

	for _, b := range img.Bands() {
		if got := [2]float64{img.LowCutoff(b), img.HighCutoff(b)}; got != defaults[b] {
			t.Fatalf("%v cutoffs = %v, want %v", b, got, defaults[b])
		}
	}
	if len(hist.limits) != 3 {
		t.Fatalf("limit updates = %v", hist.limits)
	}
	// one from the change, three from the reset
	if len(hist.adjusted) != 4 {
		t.Fatalf("adjusted updates = %d", len(hist.adjusted))
	}
	if h.factory.mains[0].refresh != 2 {
		t.Fatalf("main refreshed %d times", h.factory.mains[0].refresh)
	}
}

func TestPixelClickNeedsVisibleSpectralPlot(t *testing.T) {
	h := newHarness()
	_, main, zoom := newGreySet(t, h)
	spectra := h.factory.plotsTitled("Spectra")[0]

	main.signals.PixelSelected.Emit(PixelEvent{Source: main, X: 2, Y: 1})
	if len(spectra.fixed) != 0 {
		t.Fatalf("click before plot shown added a trace")
	}

	zoom.signals.MouseMoved.Emit(PixelEvent{Source: zoom, X: 3, Y: 2})
	if !spectra.visible || len(spectra.live) != 1 {
		t.Fatalf("visible=%v live=%d", spectra.visible, len(spectra.live))
	}
	if want := geometry.NewRectInt(350, 225, 500, 400); spectra.geom != want {
		t.Fatalf("spectral plot at %+v, want %+v", spectra.geom, want)
	}
	if y := spectra.live[0].Y; len(y) != 3 || y[0] != 23 || y[2] != 223 {
		t.Fatalf("live spectrum = %v", y)
	}

	main.signals.PixelSelected.Emit(PixelEvent{Source: main, X: 2, Y: 1})
	if len(spectra.fixed) != 1 || spectra.fixed[0].Color != colorutil.Green {
		t.Fatalf("fixed traces = %+v", spectra.fixed)
	}
	if spectra.fixed[0].Y[1] != 112 {
		t.Fatalf("fixed spectrum = %v", spectra.fixed[0].Y)
	}
}

func TestAreaSelectedRegistersAndMirrors(t *testing.T) {
	h := newHarness()
	_, main, zoom := newGreySet(t, h)

	region, _ := drawRegion(h, zoom)
	if !h.regions.Contains(region) || len(h.list.rows) != 1 {
		t.Fatalf("region not registered")
	}
	if len(main.mirrored) != 1 || main.mirrored[0].Region != region {
		t.Fatalf("main did not mirror the region")
	}
	if len(zoom.mirrored) != 0 {
		t.Fatalf("zoom mirrored its own region")
	}
}

func TestRegionStatsWindowLifecycle(t *testing.T) {
	h := newHarness()
	ws, main, _ := newGreySet(t, h)
	region, item := drawRegion(h, main)

	h.list.signals.Stats.Emit(roi.StatsEvent{Region: region})
	stats := h.factory.plotsTitled("Band Stats")
	if len(stats) != 1 || ws.BandStatsCount() != 1 {
		t.Fatalf("stats windows = %d", len(stats))
	}
	first := stats[0]
	if len(first.live) != 1 || len(first.fixed) != 4 || !first.visible {
		t.Fatalf("live=%d fixed=%d visible=%v", len(first.live), len(first.fixed), first.visible)
	}
	if first.live[0].Title != "Region: Region 1" {
		t.Fatalf("title = %q", first.live[0].Title)
	}
	if want := geometry.NewRectInt(375, 250, 500, 400); first.geom != want {
		t.Fatalf("stats at %+v, want %+v", first.geom, want)
	}

	region.SetName("Field")
	h.list.signals.Rename.Emit(roi.NameChangeEvent{Region: region, OldName: "Region 1", NewName: "Field"})
	if first.plot != "Region: Field" {
		t.Fatalf("retitled to %q", first.plot)
	}

	h.list.signals.Stats.Emit(roi.StatsEvent{Region: region})
	stats = h.factory.plotsTitled("Band Stats")
	if len(stats) != 2 || first.closed != 1 || ws.BandStatsCount() != 1 {
		t.Fatalf("second stats request: windows=%d first closed=%d tracked=%d", len(stats), first.closed, ws.BandStatsCount())
	}

	h.list.signals.Close.Emit(roi.CloseEvent{Region: region})
	if stats[1].closed != 1 || ws.BandStatsCount() != 0 || !item.closed {
		t.Fatalf("region close: stats closed=%d tracked=%d item closed=%v", stats[1].closed, ws.BandStatsCount(), item.closed)
	}
}

func TestBandStatsWindowClosedByUser(t *testing.T) {
	h := newHarness()
	ws, main, _ := newGreySet(t, h)
	region, _ := drawRegion(h, main)

	h.list.signals.Stats.Emit(roi.StatsEvent{Region: region})
	h.factory.plotsTitled("Band Stats")[0].Close()
	if ws.BandStatsCount() != 0 {
		t.Fatalf("closed stats window still tracked")
	}

	h.list.signals.Rename.Emit(roi.NameChangeEvent{Region: region, NewName: "x"})
	h.list.signals.Close.Emit(roi.CloseEvent{Region: region})
	if h.regions.Contains(region) {
		t.Fatalf("region still registered")
	}
}

func TestRegionWindowClosedClearsOverlays(t *testing.T) {
	h := newHarness()
	ws, main, zoom := newGreySet(t, h)
	region, _ := drawRegion(h, main)
	h.list.signals.Stats.Emit(roi.StatsEvent{Region: region})

	h.list.signals.WindowClosed.Emit(struct{}{})
	if main.removals != 1 || zoom.removals != 1 {
		t.Fatalf("removals main=%d zoom=%d", main.removals, zoom.removals)
	}
	if ws.BandStatsCount() != 0 || h.factory.plotsTitled("Band Stats")[0].closed != 1 {
		t.Fatalf("band stats not closed")
	}
	if h.regions.Len() != 0 {
		t.Fatalf("registry not cleared")
	}
}
