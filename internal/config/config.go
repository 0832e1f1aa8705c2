// Package config loads the viewer's TOML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	appDirName = "spectral-viewer"
	configFile = "config.toml"
)

type Config struct {
	Logging   LoggingConfig   `toml:"logging"`
	Layout    LayoutConfig    `toml:"layout"`
	View      ViewConfig      `toml:"view"`
	Stretch   StretchConfig   `toml:"stretch"`
	Histogram HistogramConfig `toml:"histogram"`
	Regions   RegionsConfig   `toml:"regions"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // text or json
}

// LayoutConfig positions the windows of each window set. All values are in
// screen pixels.
type LayoutConfig struct {
	FirstWindowX    int `toml:"first_window_x"`
	WindowY         int `toml:"window_y"`
	CascadeGap      int `toml:"cascade_gap"`
	ZoomOffset      int `toml:"zoom_offset"`
	HistogramGap    int `toml:"histogram_gap"`
	HistogramWidth  int `toml:"histogram_width"`
	HistogramHeight int `toml:"histogram_height"`
	PlotOffset      int `toml:"plot_offset"`
	StatsOffset     int `toml:"stats_offset"`
	PlotWidth       int `toml:"plot_width"`
	PlotHeight      int `toml:"plot_height"`
}

// ViewConfig holds display settings. fyne does not report monitor geometry,
// so the screen size used for window placement is configured here.
type ViewConfig struct {
	ZoomFactor   float64 `toml:"zoom_factor"`
	ScreenWidth  int     `toml:"screen_width"`
	ScreenHeight int     `toml:"screen_height"`
	PanelHeight  int     `toml:"panel_height"` // reserved at the top for desktop panels
}

type StretchConfig struct {
	LowPercent  float64 `toml:"low_percent"`
	HighPercent float64 `toml:"high_percent"`
}

type HistogramConfig struct {
	Bins int `toml:"bins"`
}

type RegionsConfig struct {
	SaveDir      string `toml:"save_dir"`
	IncludeBands bool   `toml:"include_bands"`
}

func DefaultLayout() LayoutConfig {
	return LayoutConfig{
		FirstWindowX:    300,
		WindowY:         25,
		CascadeGap:      25,
		ZoomOffset:      50,
		HistogramGap:    50,
		HistogramWidth:  800,
		HistogramHeight: 400,
		PlotOffset:      50,
		StatsOffset:     75,
		PlotWidth:       500,
		PlotHeight:      400,
	}
}

func Default() Config {
	return Config{
		Logging:   LoggingConfig{Level: "info", Format: "text"},
		Layout:    DefaultLayout(),
		View:      ViewConfig{ZoomFactor: 3, ScreenWidth: 1920, ScreenHeight: 1080, PanelHeight: 25},
		Stretch:   StretchConfig{LowPercent: 2, HighPercent: 98},
		Histogram: HistogramConfig{Bins: 256},
		Regions:   RegionsConfig{SaveDir: defaultSaveDir()},
	}
}

// Dir returns the directory holding the configuration and preference files.
func Dir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, appDirName), nil
}

// DefaultPath returns the path of the configuration file.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFile), nil
}

// Load reads the configuration at path on top of the defaults. A missing or
// empty file yields the defaults. Out of range values fall back to their
// default.
func Load(path string) (Config, error) {
	cfg := Default()
	if err := readTOML(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to load config %s: %w", path, err)
	}
	cfg.normalize()
	return cfg, nil
}

func readTOML(path string, out any) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return errors.New("path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}
	return toml.Unmarshal(data, out)
}

func (c *Config) normalize() {
	def := Default()

	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		c.Logging.Level = def.Logging.Level
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format != "json" {
		c.Logging.Format = "text"
	}

	l, dl := &c.Layout, def.Layout
	positive := []struct{ v, d *int }{
		{&l.CascadeGap, &dl.CascadeGap},
		{&l.HistogramWidth, &dl.HistogramWidth},
		{&l.HistogramHeight, &dl.HistogramHeight},
		{&l.PlotWidth, &dl.PlotWidth},
		{&l.PlotHeight, &dl.PlotHeight},
	}
	for _, p := range positive {
		if *p.v <= 0 {
			*p.v = *p.d
		}
	}
	nonNegative := []struct{ v, d *int }{
		{&l.FirstWindowX, &dl.FirstWindowX},
		{&l.WindowY, &dl.WindowY},
		{&l.ZoomOffset, &dl.ZoomOffset},
		{&l.HistogramGap, &dl.HistogramGap},
		{&l.PlotOffset, &dl.PlotOffset},
		{&l.StatsOffset, &dl.StatsOffset},
	}
	for _, p := range nonNegative {
		if *p.v < 0 {
			*p.v = *p.d
		}
	}

	v, dv := &c.View, def.View
	if v.ZoomFactor < 1 {
		v.ZoomFactor = dv.ZoomFactor
	}
	if v.ScreenWidth <= 0 || v.ScreenHeight <= 0 {
		v.ScreenWidth, v.ScreenHeight = dv.ScreenWidth, dv.ScreenHeight
	}
	if v.PanelHeight < 0 || v.PanelHeight >= v.ScreenHeight {
		v.PanelHeight = dv.PanelHeight
	}
	s := c.Stretch
	if s.LowPercent < 0 || s.HighPercent > 100 || s.LowPercent >= s.HighPercent {
		c.Stretch = def.Stretch
	}
	if c.Histogram.Bins < 2 || c.Histogram.Bins > 4096 {
		c.Histogram.Bins = def.Histogram.Bins
	}

	c.Regions.SaveDir = expandHome(strings.TrimSpace(c.Regions.SaveDir))
	if c.Regions.SaveDir == "" {
		c.Regions.SaveDir = def.Regions.SaveDir
	}
}

func defaultSaveDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, "Downloads")
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
