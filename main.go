// Package main provides the entry point for the Spectral Viewer application.
package main

import (
	"flag"
	"fmt"
	"os"

	"spectral-viewer/internal/app"
	"spectral-viewer/internal/config"
	"spectral-viewer/internal/histogram"
	svimage "spectral-viewer/internal/image"
	"spectral-viewer/internal/roi"
	"spectral-viewer/internal/version"
	"spectral-viewer/pkg/geometry"
	"spectral-viewer/ui/bandlist"
	"spectral-viewer/ui/dialogs"
	"spectral-viewer/ui/mainwindow"
	"spectral-viewer/ui/prefs"
	"spectral-viewer/ui/roilist"

	fyneapp "fyne.io/fyne/v2/app"
	"github.com/sirupsen/logrus"
)

const appID = "org.spectralviewer.viewer"

func main() {
	configPath := flag.String("config", "", "path to config.toml")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := app.NewLogger(cfg.Logging, os.Stderr, *debug)
	logger.WithFields(logrus.Fields{
		"version": version.String(),
		"config":  *configPath,
	}).Info("Starting Spectral Viewer")

	a := fyneapp.NewWithID(appID)
	a.Settings().SetTheme(&app.ViewerTheme{})

	appPrefs := prefs.Load(logger)
	bands := bandlist.New()
	win := mainwindow.New(a, bands, appPrefs, logger)

	regions := roi.NewManager(
		roilist.New(a),
		dialogs.NewRegionPrompter(win.Window, logger),
		roi.Export,
		prefs.NewRegionDefaults(appPrefs, cfg.Regions),
		logger,
	)

	v := cfg.View
	screen := app.Screen{
		Full:      geometry.NewRectInt(0, 0, v.ScreenWidth, v.ScreenHeight),
		Available: geometry.NewRectInt(0, v.PanelHeight, v.ScreenWidth, v.ScreenHeight-v.PanelHeight),
	}
	bins := cfg.Histogram.Bins
	newHistogram := func(img svimage.Image) app.HistogramSource {
		return histogram.NewTools(img, bins)
	}
	wm := app.NewWindowManager(app.Options{
		Env: app.Env{
			Factory:      mainwindow.NewFactory(a, v.ZoomFactor, logger),
			Regions:      regions,
			Layout:       cfg.Layout,
			Stretch:      svimage.Stretch{LowPercent: cfg.Stretch.LowPercent, HighPercent: cfg.Stretch.HighPercent},
			NewHistogram: newHistogram,
			Logger:       logger,
		},
		BandList: bands,
		Screen:   screen,
	})
	win.SetWindowManager(wm)

	for _, path := range flag.Args() {
		if err := win.OpenFile(path); err != nil {
			logger.WithError(err).WithField("path", path).Error("Failed to open file")
		}
	}

	win.ShowAndRun()

	if err := appPrefs.Save(); err != nil {
		logger.WithError(err).Warn("Failed to save preferences")
	}
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		def, err := config.DefaultPath()
		if err != nil {
			return config.Default(), nil
		}
		path = def
	}
	return config.Load(path)
}
