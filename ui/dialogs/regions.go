// Package dialogs provides application dialogs.
package dialogs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"spectral-viewer/internal/roi"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"
)

// RegionPrompter asks the region questions with fyne dialogs over a parent
// window. Dialogs are asynchronous; answers arrive through the callbacks.
type RegionPrompter struct {
	window fyne.Window
	log    *logrus.Entry
}

var _ roi.Prompter = (*RegionPrompter)(nil)

func NewRegionPrompter(window fyne.Window, logger *logrus.Logger) *RegionPrompter {
	return &RegionPrompter{window: window, log: logger.WithField("component", "dialogs")}
}

// SaveQuestion is the text of the save confirmation.
func SaveQuestion(name string) string {
	return fmt.Sprintf("Save region '%s'?", name)
}

// CloseQuestion is the text of the close confirmation for an unsaved region.
func CloseQuestion(name string) string {
	return fmt.Sprintf("Are you sure you want close the unsaved region '%s'?  It will be lost.", name)
}

func (p *RegionPrompter) ConfirmSave(region *roi.Region, includeBands bool, done func(save, includeBands bool)) {
	include := widget.NewCheck("Include bands", nil)
	include.SetChecked(includeBands)
	content := container.NewVBox(widget.NewLabel(SaveQuestion(region.Name())), include)

	dlg := dialog.NewCustomConfirm("Save Region", "Save", "Cancel", content, func(save bool) {
		done(save, include.Checked)
	}, p.window)
	dlg.Show()
}

func (p *RegionPrompter) ConfirmClose(region *roi.Region, done func(yes bool)) {
	dialog.NewCustomConfirm("Close Region", "Yes", "Cancel",
		widget.NewLabel(CloseQuestion(region.Name())), done, p.window).Show()
}

// ChooseSavePath opens a save dialog in defaultPath's directory with its
// file name filled in.
func (p *RegionPrompter) ChooseSavePath(defaultPath string, done func(path string, ok bool)) {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			p.log.WithError(err).Warn("Save dialog failed")
			done("", false)
			return
		}
		if writer == nil {
			done("", false)
			return
		}
		writer.Close()
		path := writer.URI().Path()
		// The dialog creates the file; the exporter may write a .csv sibling instead.
		if !strings.EqualFold(filepath.Ext(path), ".csv") {
			_ = os.Remove(path)
		}
		done(path, true)
	}, p.window)

	fd.SetFileName(filepath.Base(defaultPath))
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".csv"}))
	if loc := listable(filepath.Dir(defaultPath)); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (p *RegionPrompter) ReportError(err error) {
	dialog.ShowError(err, p.window)
}

// listable returns dir as a dialog location, or nil when it cannot be listed.
func listable(dir string) fyne.ListableURI {
	if dir == "" {
		return nil
	}
	l, err := storage.ListerForURI(storage.NewFileURI(dir))
	if err != nil {
		return nil
	}
	return l
}
