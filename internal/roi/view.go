package roi

import (
	"image/color"

	"spectral-viewer/internal/event"
	"spectral-viewer/internal/spectral"

	"github.com/google/uuid"
)

// DisplayItem is a region's overlay inside an image window.
type DisplayItem interface {
	Color() color.RGBA
	IsOn() bool
	SetOn(on bool)
	// Close removes the overlay from its window.
	Close()
}

// StatsEvent requests band statistics for a region.
type StatsEvent struct{ Region *Region }

// ToggleEvent requests that a region's overlay visibility be flipped.
type ToggleEvent struct{ Region *Region }

// NameChangeEvent reports that the list view renamed a region. The region
// already carries NewName when the event is emitted.
type NameChangeEvent struct {
	Region  *Region
	OldName string
	NewName string
}

// SaveEvent requests that a region be exported.
type SaveEvent struct{ Region *Region }

// CloseEvent requests that a region be closed. Rows are identified by the
// region's handle, never by their position in the list.
type CloseEvent struct{ Region *Region }

// Row is one line of the region list. Region is the entity the row's
// events refer to.
type Row struct {
	ID          uuid.UUID
	Region      *Region
	Name        string
	Color       color.RGBA
	Size        string // "h x w"
	Description string
}

// ListSignals carries the user intents reported by the region list view.
type ListSignals struct {
	Stats  event.Signal[StatsEvent]
	Toggle event.Signal[ToggleEvent]
	Rename event.Signal[NameChangeEvent]
	Save   event.Signal[SaveEvent]
	Close  event.Signal[CloseEvent]
	// WindowClosed fires when the user closes the list window itself.
	WindowClosed event.Signal[struct{}]
}

// ListView is the single shared region list window.
type ListView interface {
	Signals() *ListSignals
	AddRow(row Row)
	RemoveRow(id uuid.UUID)
	Clear()
	RowCount() int
	Visible() bool
	Show()
}

// Prompter asks the user to confirm destructive or file producing actions.
// Every method reports the user's choice through done; a dismissed dialog
// reports the cancel outcome.
type Prompter interface {
	// ConfirmSave asks whether to save region, with an "include bands"
	// checkbox seeded from includeBands.
	ConfirmSave(region *Region, includeBands bool, done func(save, includeBands bool))
	// ConfirmClose asks whether an unsaved region may be discarded.
	ConfirmClose(region *Region, done func(yes bool))
	// ChooseSavePath asks for a destination file, starting at defaultPath.
	ChooseSavePath(defaultPath string, done func(path string, ok bool))
	ReportError(err error)
}

// Defaults holds the remembered save directory and "include bands" choice.
type Defaults interface {
	SaveDir() string
	SetSaveDir(dir string)
	IncludeBands() bool
	SetIncludeBands(include bool)
}

// Owner is the window set that created a region.
type Owner interface {
	BandTools() *spectral.BandTools
	// MapInfo returns the georeference of the owner's file, or nil.
	MapInfo() *spectral.MapInfo
	HandleRegionStats(e StatsEvent)
	HandleRegionNameChanged(e NameChangeEvent)
	HandleRegionClosed(e CloseEvent)
}
