// Package mainwindow provides the main application window.
package mainwindow

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"spectral-viewer/internal/app"
	"spectral-viewer/internal/spectral"
	"spectral-viewer/internal/version"
	"spectral-viewer/ui/bandlist"
	"spectral-viewer/ui/prefs"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"
)

const appTitle = "Spectral Viewer"

// MainWindow is the primary application window: the file and band browser
// plus the menus.
type MainWindow struct {
	fyne.Window
	app       fyne.App
	prefs     *prefs.Prefs
	bands     *bandlist.BandList
	manager   *app.WindowManager
	statusBar *widget.Label
	log       *logrus.Entry
}

// New creates the main window. The window manager is attached afterwards
// with SetWindowManager because its region prompter needs this window.
func New(fyneApp fyne.App, bands *bandlist.BandList, p *prefs.Prefs, logger *logrus.Logger) *MainWindow {
	mw := &MainWindow{
		Window: fyneApp.NewWindow(appTitle),
		app:    fyneApp,
		prefs:  p,
		bands:  bands,
		log:    logger.WithField("component", "mainwindow"),
	}
	mw.setupUI()
	mw.setupMenus()
	mw.SetMaster()
	return mw
}

func (mw *MainWindow) SetWindowManager(wm *app.WindowManager) { mw.manager = wm }

func (mw *MainWindow) setupUI() {
	mw.statusBar = widget.NewLabel("Ready")
	open := widget.NewButton("Open...", mw.onOpen)

	content := container.NewBorder(
		container.NewHBox(open),
		container.NewPadded(mw.statusBar),
		nil,
		nil,
		mw.bands.Content(),
	)
	mw.SetContent(content)
	mw.Resize(fyne.NewSize(320, 600))
}

func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open...", mw.onOpen),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { mw.app.Quit() }),
	)
	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)
	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, helpMenu))
}

func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

// OpenFile reads the file at path and hands it to the window manager.
func (mw *MainWindow) OpenFile(path string) error {
	if mw.manager == nil {
		return errors.New("no window manager")
	}
	f, err := spectral.Open(path)
	if err != nil {
		return err
	}
	if _, err := mw.manager.AddFile(f); err != nil {
		return err
	}
	mw.prefs.SetOpenDir(filepath.Dir(path))
	mw.updateStatus(fmt.Sprintf("Opened %s: %d bands, %d x %d", f.Name(), f.BandCount(), f.Samples(), f.Lines()))
	return nil
}

func (mw *MainWindow) onOpen() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			mw.log.WithError(err).Warn("Open dialog failed")
			return
		}
		if reader == nil {
			mw.log.Debug("Open cancelled")
			return
		}
		reader.Close()
		path := reader.URI().Path()
		if err := mw.OpenFile(path); err != nil {
			mw.log.WithError(err).WithField("path", path).Error("Failed to open file")
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)

	fd.SetFilter(storage.NewExtensionFileFilter([]string{".hdr", ".img", ".dat", ".bsq", ".bil", ".bip"}))
	if loc := mw.lastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

// lastDir returns the last used directory as a ListableURI, or nil.
func (mw *MainWindow) lastDir() fyne.ListableURI {
	path := strings.TrimSpace(mw.prefs.OpenDir())
	if path == "" {
		return nil
	}
	listable, err := storage.ListerForURI(storage.NewFileURI(path))
	if err != nil {
		return nil
	}
	return listable
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About "+appTitle,
		fmt.Sprintf("%s %s\n\nA viewer for ENVI hyperspectral images.", appTitle, version.String()),
		mw.Window)
}
