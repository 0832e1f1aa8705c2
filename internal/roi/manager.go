package roi

import (
	"fmt"
	"path/filepath"
	"strings"

	"spectral-viewer/internal/event"

	"github.com/sirupsen/logrus"
)

// regionSet is the registry entry of one open region.
type regionSet struct {
	owner   Owner
	display DisplayItem
	saved   bool
}

// Manager is the application wide region registry. It owns the shared list
// view and keeps its rows, and the registry entries, in step: every
// registered region has exactly one row and one entry.
//
// A Manager is created once by the application root and handed to every
// window set. All methods must be called from the UI goroutine.
type Manager struct {
	view     ListView
	prompter Prompter
	export   Exporter
	defaults Defaults
	logger   *logrus.Logger

	sets    map[*Region]*regionSet
	counter int
	closed  event.Signal[struct{}]
}

// NewManager creates the registry and connects it to the list view's signals.
func NewManager(view ListView, prompter Prompter, export Exporter, defaults Defaults, logger *logrus.Logger) *Manager {
	m := &Manager{
		view:     view,
		prompter: prompter,
		export:   export,
		defaults: defaults,
		logger:   logger,
		sets:     make(map[*Region]*regionSet),
		counter:  1,
	}

	s := view.Signals()
	s.Toggle.Connect(m.handleToggle)
	s.Rename.Connect(m.handleNameChanged)
	s.Stats.Connect(m.handleStats)
	s.Save.Connect(m.handleSave)
	s.Close.Connect(m.handleClose)
	s.WindowClosed.Connect(func(struct{}) { m.handleWindowClosed() })
	return m
}

// Closed fires after the list window was closed and every region discarded.
func (m *Manager) Closed() *event.Signal[struct{}] { return &m.closed }

// Len returns the number of open regions.
func (m *Manager) Len() int { return len(m.sets) }

// Contains reports whether region is open.
func (m *Manager) Contains(region *Region) bool {
	_, ok := m.sets[region]
	return ok
}

// IsSaved reports whether region has been exported since it was added.
func (m *Manager) IsSaved(region *Region) bool {
	set, ok := m.sets[region]
	return ok && set.saved
}

// AddRegion registers a newly drawn region. Regions without a name are named
// "Region N" from a counter that is never reused. The region picks up the
// owner's georeference when there is one. Each region may be added once.
func (m *Manager) AddRegion(region *Region, display DisplayItem, owner Owner) {
	if _, ok := m.sets[region]; ok {
		m.logger.WithField("region", region.Name()).Warn("Region already registered, ignoring")
		return
	}

	if !region.HasName() {
		region.SetName(fmt.Sprintf("Region %d", m.counter))
		m.counter++
	}
	if mi := owner.MapInfo(); mi != nil {
		region.SetMapInfo(mi)
	}

	m.view.AddRow(Row{
		ID:          region.ID(),
		Region:      region,
		Name:        region.Name(),
		Color:       display.Color(),
		Size:        fmt.Sprintf("%d x %d", region.ImageHeight(), region.ImageWidth()),
		Description: region.Description(),
	})
	m.sets[region] = &regionSet{owner: owner, display: display}

	m.logger.WithFields(logrus.Fields{
		"region": region.Name(),
		"pixels": len(region.Points()),
	}).Debug("Region added")

	if !m.view.Visible() {
		m.view.Show()
	}
}

// lookup returns the entry for region, logging a warning when it is unknown.
func (m *Manager) lookup(region *Region, action string) (*regionSet, bool) {
	set, ok := m.sets[region]
	if !ok {
		m.logger.WithFields(logrus.Fields{
			"region": region.Name(),
			"id":     region.ID(),
		}).Warnf("Region not found handling %s event", action)
	}
	return set, ok
}

func (m *Manager) handleToggle(e ToggleEvent) {
	if set, ok := m.lookup(e.Region, "toggle"); ok {
		set.display.SetOn(!set.display.IsOn())
	}
}

func (m *Manager) handleNameChanged(e NameChangeEvent) {
	if set, ok := m.lookup(e.Region, "name change"); ok {
		set.owner.HandleRegionNameChanged(e)
	}
}

func (m *Manager) handleStats(e StatsEvent) {
	if set, ok := m.lookup(e.Region, "stats"); ok {
		set.owner.HandleRegionStats(e)
	}
}

// handleSave asks for confirmation, then for a destination, then exports.
// Either prompt being cancelled leaves the region untouched.
func (m *Manager) handleSave(e SaveEvent) {
	region := e.Region
	if _, ok := m.lookup(region, "save"); !ok {
		return
	}
	log := m.logger.WithField("region", region.Name())

	m.prompter.ConfirmSave(region, m.defaults.IncludeBands(), func(save, include bool) {
		if !save {
			log.Debug("Region save canceled")
			return
		}
		if _, ok := m.lookup(region, "save"); !ok {
			return
		}
		m.defaults.SetIncludeBands(include)

		defaultPath := filepath.Join(m.defaults.SaveDir(), region.Name())
		m.prompter.ChooseSavePath(defaultPath, func(path string, ok bool) {
			if !ok || path == "" {
				log.Debug("Region save canceled")
				return
			}
			set, found := m.lookup(region, "save")
			if !found {
				return
			}
			if !strings.HasSuffix(path, ".csv") {
				path += ".csv"
			}

			if err := m.export(region, set.owner.BandTools(), path, include); err != nil {
				log.WithError(err).WithField("path", path).Error("Failed to save region")
				m.prompter.ReportError(fmt.Errorf("failed to save region %q: %w", region.Name(), err))
				return
			}
			m.defaults.SetSaveDir(filepath.Dir(path))
			set.saved = true
			log.WithField("path", path).Info("Region saved")
		})
	})
}

// handleClose discards a region, asking first when it has not been saved.
func (m *Manager) handleClose(e CloseEvent) {
	set, ok := m.lookup(e.Region, "close")
	if !ok {
		return
	}
	if set.saved {
		m.doClose(e)
		return
	}

	m.prompter.ConfirmClose(e.Region, func(yes bool) {
		if !yes {
			m.logger.WithField("region", e.Region.Name()).Debug("Region close canceled")
			return
		}
		if _, ok := m.lookup(e.Region, "close"); !ok {
			return
		}
		m.doClose(e)
	})
}

// doClose removes the region from the owner, its window, the list and the
// registry, in that order and without returning in between.
func (m *Manager) doClose(e CloseEvent) {
	set := m.sets[e.Region]
	set.owner.HandleRegionClosed(e)
	set.display.Close()
	m.view.RemoveRow(e.Region.ID())
	delete(m.sets, e.Region)
	m.logger.WithField("region", e.Region.Name()).Debug("Region closed")
}

// handleWindowClosed discards every region at once. Window sets learn about
// it through Closed and drop their overlays themselves.
func (m *Manager) handleWindowClosed() {
	m.logger.WithField("regions", len(m.sets)).Debug("Region window closed, discarding all regions")
	m.sets = make(map[*Region]*regionSet)
	m.view.Clear()
	m.closed.Emit(struct{}{})
}
