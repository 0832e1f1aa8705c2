package app

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"spectral-viewer/internal/config"
	svimage "spectral-viewer/internal/image"

	"github.com/sirupsen/logrus"
)

func TestFileManagerCascadesWindowSets(t *testing.T) {
	h := newHarness()
	fm := NewFileManager(testFile("cube"), h.env)

	first, err := fm.AddGreyWindowSet(0)
	if err != nil {
		t.Fatalf("AddGreyWindowSet: %v", err)
	}
	second, err := fm.AddRGBWindowSet(2, 1, 0)
	if err != nil {
		t.Fatalf("AddRGBWindowSet: %v", err)
	}
	third, err := fm.AddGreyWindowSet(2)
	if err != nil {
		t.Fatalf("AddGreyWindowSet: %v", err)
	}

	for i, want := range []int{300, 525, 750} {
		g := []*WindowSet{first, second, third}[i].ImageWindowGeometry()
		if g.X != want || g.Y != 25 {
			t.Fatalf("set %d at (%d, %d), want (%d, 25)", i, g.X, g.Y, want)
		}
	}
	if _, ok := second.Image().(*svimage.RGB); !ok {
		t.Fatalf("second set is %T", second.Image())
	}
	if len(fm.WindowSets()) != 3 {
		t.Fatalf("window sets = %d", len(fm.WindowSets()))
	}
}

func TestFileManagerDropsClosedWindowSet(t *testing.T) {
	h := newHarness()
	fm := NewFileManager(testFile("cube"), h.env)
	first, _ := fm.AddGreyWindowSet(0)
	second, _ := fm.AddGreyWindowSet(1)

	h.factory.zooms[0].Close()

	sets := fm.WindowSets()
	if len(sets) != 1 || sets[0] != second || !first.IsClosed() {
		t.Fatalf("window sets after close = %v", sets)
	}

	third, _ := fm.AddGreyWindowSet(2)
	prev := second.ImageWindowGeometry()
	if g := third.ImageWindowGeometry(); g.X != prev.X+prev.Width+25 {
		t.Fatalf("third set at x=%d", g.X)
	}
}

func TestFileManagerRejectsBadBand(t *testing.T) {
	h := newHarness()
	fm := NewFileManager(testFile("cube"), h.env)
	if _, err := fm.AddGreyWindowSet(3); err == nil {
		t.Fatalf("expected error for band 3")
	}
	if _, err := fm.AddRGBWindowSet(0, 1, -1); err == nil {
		t.Fatalf("expected error for band -1")
	}
	if len(fm.WindowSets()) != 0 || len(h.factory.mains) != 0 {
		t.Fatalf("windows created for a bad band")
	}
}

func newWindowManager(h *harness) (*WindowManager, *fakeBandList) {
	list := &fakeBandList{}
	wm := NewWindowManager(Options{Env: h.env, BandList: list})
	return wm, list
}

func TestWindowManagerRejectsDuplicateFile(t *testing.T) {
	h := newHarness()
	wm, list := newWindowManager(h)

	fm, err := wm.AddFile(testFile("cube"))
	if err != nil {
		t.Fatalf("AddFile: %v", err)
	}
	if _, err := fm.AddGreyWindowSet(0); err != nil {
		t.Fatalf("AddGreyWindowSet: %v", err)
	}

	_, err = wm.AddFile(testFile("cube"))
	if !errors.Is(err, ErrFileAlreadyOpen) {
		t.Fatalf("err = %v", err)
	}
	if h.count(logrus.WarnLevel) != 1 {
		t.Fatalf("warnings = %d", h.count(logrus.WarnLevel))
	}
	got, ok := wm.FileManager("cube")
	if !ok || got != fm || len(got.WindowSets()) != 1 {
		t.Fatalf("existing file manager disturbed")
	}
	if names := wm.FileNames(); len(names) != 1 || list.added != 1 {
		t.Fatalf("names=%v band list adds=%d", names, list.added)
	}
	if bands := list.files["cube"]; len(bands) != 3 || bands[1].Wavelength != 550 {
		t.Fatalf("band list got %+v", bands)
	}
}

func TestWindowManagerRoutesSelections(t *testing.T) {
	h := newHarness()
	wm, list := newWindowManager(h)
	if _, err := wm.AddFile(testFile("a")); err != nil {
		t.Fatalf("AddFile: %v", err)
	}
	if _, err := wm.AddFile(testFile("b")); err != nil {
		t.Fatalf("AddFile: %v", err)
	}
	if names := wm.FileNames(); strings.Join(names, ",") != "a,b" {
		t.Fatalf("names = %v", names)
	}

	list.signals.BandSelected.Emit(BandSelection{FileName: "b", Band: 2})
	list.signals.RGBSelected.Emit(RGBSelection{FileName: "b", Red: 2, Green: 1, Blue: 0})

	a, _ := wm.FileManager("a")
	b, _ := wm.FileManager("b")
	if len(a.WindowSets()) != 0 || len(b.WindowSets()) != 2 {
		t.Fatalf("a=%d b=%d", len(a.WindowSets()), len(b.WindowSets()))
	}
}

func TestWindowManagerLogsBadSelections(t *testing.T) {
	h := newHarness()
	wm, list := newWindowManager(h)
	if _, err := wm.AddFile(testFile("a")); err != nil {
		t.Fatalf("AddFile: %v", err)
	}

	list.signals.BandSelected.Emit(BandSelection{FileName: "missing", Band: 0})
	list.signals.RGBSelected.Emit(RGBSelection{FileName: "a", Red: 9, Green: 1, Blue: 0})

	if h.count(logrus.WarnLevel) != 1 || h.count(logrus.ErrorLevel) != 1 {
		t.Fatalf("warn=%d error=%d", h.count(logrus.WarnLevel), h.count(logrus.ErrorLevel))
	}
	if len(h.factory.mains) != 0 {
		t.Fatalf("windows created for bad selections")
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(config.LoggingConfig{Level: "warn", Format: "json"}, &buf, false)
	if logger.GetLevel() != logrus.WarnLevel {
		t.Fatalf("level = %v", logger.GetLevel())
	}
	logger.WithField("file", "cube").Warn("hello")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %q", buf.String())
	}
	if entry["msg"] != "hello" || entry["file"] != "cube" {
		t.Fatalf("entry = %v", entry)
	}

	debug := NewLogger(config.LoggingConfig{Level: "error"}, &buf, true)
	if debug.GetLevel() != logrus.DebugLevel {
		t.Fatalf("debug flag ignored: %v", debug.GetLevel())
	}
	if _, ok := debug.Formatter.(*logrus.TextFormatter); !ok {
		t.Fatalf("formatter = %T", debug.Formatter)
	}
}
