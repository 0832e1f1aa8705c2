// Package prefs provides JSON-based application preferences.
package prefs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"spectral-viewer/internal/config"

	"github.com/sirupsen/logrus"
)

const prefsFile = "preferences.json"

const (
	keySaveDir      = "regions.saveDir"
	keyIncludeBands = "regions.includeBands"
	keyOpenDir      = "files.openDir"
)

// Prefs stores application preferences as a key-value map.
type Prefs struct {
	mu     sync.RWMutex
	values map[string]interface{}
	path   string
	log    *logrus.Entry
}

// Load reads preferences from the application config directory. Returns
// empty preferences if the file doesn't exist.
func Load(logger *logrus.Logger) *Prefs {
	dir, err := config.Dir()
	if err != nil {
		dir = filepath.Join(os.Getenv("HOME"), ".config", "spectral-viewer")
	}
	return LoadFrom(filepath.Join(dir, prefsFile), logger)
}

// LoadFrom reads preferences from path. An unreadable or corrupt file yields
// empty preferences that will overwrite it on Save.
func LoadFrom(path string, logger *logrus.Logger) *Prefs {
	p := &Prefs{
		values: make(map[string]interface{}),
		path:   path,
		log:    logger.WithField("component", "prefs"),
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return p
	}
	if err := json.Unmarshal(data, &p.values); err != nil {
		p.log.WithError(err).WithField("path", path).Warn("Ignoring corrupt preferences file")
		p.values = make(map[string]interface{})
	}
	return p
}

func (p *Prefs) Path() string { return p.path }

// Save writes preferences to disk.
func (p *Prefs) Save() error {
	p.mu.RLock()
	data, err := json.MarshalIndent(p.values, "", "  ")
	p.mu.RUnlock()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return fmt.Errorf("create preferences dir: %w", err)
	}
	return os.WriteFile(p.path, data, 0o644)
}

// persist saves after a setter, logging any failure.
func (p *Prefs) persist() {
	if err := p.Save(); err != nil {
		p.log.WithError(err).WithField("path", p.path).Warn("Failed to save preferences")
	}
}

// String returns a string preference, or fallback if not set.
func (p *Prefs) String(key, fallback string) string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if v, ok := p.values[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return fallback
}

func (p *Prefs) SetString(key string, val string) {
	p.mu.Lock()
	p.values[key] = val
	p.mu.Unlock()
}

// Bool returns a bool preference, or fallback if not set.
func (p *Prefs) Bool(key string, fallback bool) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if b, ok := p.values[key].(bool); ok {
		return b
	}
	return fallback
}

func (p *Prefs) SetBool(key string, val bool) {
	p.mu.Lock()
	p.values[key] = val
	p.mu.Unlock()
}

// OpenDir is the directory of the last opened data file.
func (p *Prefs) OpenDir() string { return p.String(keyOpenDir, "") }

func (p *Prefs) SetOpenDir(dir string) {
	p.SetString(keyOpenDir, dir)
	p.persist()
}

// RegionDefaults remembers the region save directory and the include-bands
// choice across runs. Unset values fall back to the configuration.
type RegionDefaults struct {
	prefs *Prefs
	cfg   config.RegionsConfig
}

func NewRegionDefaults(p *Prefs, cfg config.RegionsConfig) *RegionDefaults {
	return &RegionDefaults{prefs: p, cfg: cfg}
}

func (d *RegionDefaults) SaveDir() string {
	return d.prefs.String(keySaveDir, d.cfg.SaveDir)
}

func (d *RegionDefaults) SetSaveDir(dir string) {
	d.prefs.SetString(keySaveDir, dir)
	d.prefs.persist()
}

func (d *RegionDefaults) IncludeBands() bool {
	return d.prefs.Bool(keyIncludeBands, d.cfg.IncludeBands)
}

func (d *RegionDefaults) SetIncludeBands(include bool) {
	d.prefs.SetBool(keyIncludeBands, include)
	d.prefs.persist()
}
