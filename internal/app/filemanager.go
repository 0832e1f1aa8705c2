package app

import (
	"fmt"

	svimage "spectral-viewer/internal/image"
	"spectral-viewer/internal/spectral"

	"github.com/sirupsen/logrus"
)

// FileManager owns the window sets opened for one file and cascades new
// ones to the right of the last.
type FileManager struct {
	file       *spectral.File
	env        Env
	bandTools  *spectral.BandTools
	imageTools *spectral.ImageTools
	log        *logrus.Entry

	sets []*WindowSet
}

func NewFileManager(file *spectral.File, env Env) *FileManager {
	return &FileManager{
		file:       file,
		env:        env,
		bandTools:  spectral.NewBandTools(file),
		imageTools: spectral.NewImageTools(file, env.Stretch),
		log:        env.Logger.WithField("file", file.Name()),
	}
}

func (fm *FileManager) Name() string { return fm.file.Name() }
func (fm *FileManager) File() *spectral.File { return fm.file }
func (fm *FileManager) BandTools() *spectral.BandTools { return fm.bandTools }

// WindowSets returns the open window sets, oldest first.
func (fm *FileManager) WindowSets() []*WindowSet {
	out := make([]*WindowSet, len(fm.sets))
	copy(out, fm.sets)
	return out
}

// AddGreyWindowSet opens a greyscale window set for band.
func (fm *FileManager) AddGreyWindowSet(band int) (*WindowSet, error) {
	img, err := fm.imageTools.GreyscaleImage(band)
	if err != nil {
		return nil, fmt.Errorf("greyscale window for %s: %w", fm.Name(), err)
	}
	return fm.addWindowSet(img), nil
}

// AddRGBWindowSet opens a composite window set for the three bands.
func (fm *FileManager) AddRGBWindowSet(red, green, blue int) (*WindowSet, error) {
	img, err := fm.imageTools.RGBImage(red, green, blue)
	if err != nil {
		return nil, fmt.Errorf("rgb window for %s: %w", fm.Name(), err)
	}
	return fm.addWindowSet(img), nil
}

func (fm *FileManager) addWindowSet(img svimage.Image) *WindowSet {
	x := fm.env.Layout.FirstWindowX
	if n := len(fm.sets); n > 0 {
		prev := fm.sets[n-1].ImageWindowGeometry()
		x = prev.X + prev.Width + fm.env.Layout.CascadeGap
	}

	ws := NewWindowSet(img, fm.bandTools, fm.file.MapInfo(), fm.env)
	ws.Closed().Connect(fm.removeWindowSet)
	fm.sets = append(fm.sets, ws)
	ws.InitPosition(x, fm.env.Layout.WindowY)

	fm.log.WithFields(logrus.Fields{
		"image": img.Label(),
		"x":     x,
	}).Info("Opened window set")
	return ws
}

func (fm *FileManager) removeWindowSet(ws *WindowSet) {
	for i, s := range fm.sets {
		if s == ws {
			fm.sets = append(fm.sets[:i], fm.sets[i+1:]...)
			fm.log.WithField("image", ws.Title()).Debug("Window set closed")
			return
		}
	}
}
