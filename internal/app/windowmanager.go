package app

import (
	"errors"
	"fmt"

	"spectral-viewer/internal/spectral"
	"spectral-viewer/pkg/geometry"

	"github.com/sirupsen/logrus"
)

// ErrFileAlreadyOpen is returned when a file is added under a name that is
// already managed.
var ErrFileAlreadyOpen = errors.New("file already open")

// Screen describes the desktop: the full screen and the area not covered by
// panels and docks.
type Screen struct {
	Full      geometry.RectInt
	Available geometry.RectInt
}

type Options struct {
	Env      Env
	BandList BandList
	Screen   Screen
}

// WindowManager keeps one FileManager per open file, keyed by file name, and
// routes band list selections to them.
type WindowManager struct {
	env      Env
	bandList BandList
	screen   Screen
	log      *logrus.Logger

	files map[string]*FileManager
	order []string
}

func NewWindowManager(opts Options) *WindowManager {
	env := opts.Env
	if env.Available.Empty() {
		env.Available = opts.Screen.Available
	}
	wm := &WindowManager{
		env:      env,
		bandList: opts.BandList,
		screen:   opts.Screen,
		log:      env.Logger,
		files:    make(map[string]*FileManager),
	}
	sig := opts.BandList.Signals()
	sig.BandSelected.Connect(wm.handleBandSelected)
	sig.RGBSelected.Connect(wm.handleRGBSelected)
	return wm
}

func (wm *WindowManager) Screen() Screen { return wm.screen }

// AddFile registers f and lists its bands. A second file with the same name
// is rejected and the existing one left untouched.
func (wm *WindowManager) AddFile(f *spectral.File) (*FileManager, error) {
	name := f.Name()
	if _, ok := wm.files[name]; ok {
		wm.log.WithField("file", name).Warn("Attempt to add a file that is already open")
		return nil, fmt.Errorf("%s: %w", name, ErrFileAlreadyOpen)
	}

	fm := NewFileManager(f, wm.env)
	wm.files[name] = fm
	wm.order = append(wm.order, name)
	wm.bandList.AddFile(name, f.BandDescriptors())

	wm.log.WithFields(logrus.Fields{
		"file":    name,
		"bands":   f.BandCount(),
		"lines":   f.Lines(),
		"samples": f.Samples(),
	}).Info("Added file")
	return fm, nil
}

// FileNames returns the managed file names in the order they were added.
func (wm *WindowManager) FileNames() []string {
	out := make([]string, len(wm.order))
	copy(out, wm.order)
	return out
}

func (wm *WindowManager) FileManager(name string) (*FileManager, bool) {
	fm, ok := wm.files[name]
	return fm, ok
}

func (wm *WindowManager) handleBandSelected(e BandSelection) {
	fm, ok := wm.files[e.FileName]
	if !ok {
		wm.log.WithField("file", e.FileName).Warn("Band selected for a file that is not open")
		return
	}
	if _, err := fm.AddGreyWindowSet(e.Band); err != nil {
		wm.log.WithError(err).WithField("band", e.Band).Error("Failed to open greyscale window")
	}
}

func (wm *WindowManager) handleRGBSelected(e RGBSelection) {
	fm, ok := wm.files[e.FileName]
	if !ok {
		wm.log.WithField("file", e.FileName).Warn("RGB bands selected for a file that is not open")
		return
	}
	if _, err := fm.AddRGBWindowSet(e.Red, e.Green, e.Blue); err != nil {
		wm.log.WithError(err).WithFields(logrus.Fields{
			"red":   e.Red,
			"green": e.Green,
			"blue":  e.Blue,
		}).Error("Failed to open RGB window")
	}
}
