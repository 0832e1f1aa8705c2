// Package roilist provides the shared region of interest list window.
package roilist

import (
	"image/color"
	"strings"

	"spectral-viewer/internal/roi"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/google/uuid"
)

var headers = []string{"Color", "Name", "Size (h x w)", "Description"}

// RegionList lists every open region with its color, name, size and
// description. Actions apply to the selected row. The toolkit window is
// created on Show, so the list can reappear after the user closed it.
type RegionList struct {
	app     fyne.App
	signals roi.ListSignals

	win      fyne.Window
	table    *widget.Table
	rows     []roi.Row
	selected int
}

var _ roi.ListView = (*RegionList)(nil)

func New(a fyne.App) *RegionList {
	return &RegionList{app: a, selected: -1}
}

func (l *RegionList) Signals() *roi.ListSignals { return &l.signals }

func (l *RegionList) AddRow(row roi.Row) {
	l.rows = append(l.rows, row)
	l.refresh()
}

// RemoveRow removes the row of the region with the given handle.
func (l *RegionList) RemoveRow(id uuid.UUID) {
	for i, r := range l.rows {
		if r.ID == id {
			l.rows = append(l.rows[:i], l.rows[i+1:]...)
			if l.selected >= len(l.rows) {
				l.selected = -1
			}
			l.refresh()
			return
		}
	}
}

func (l *RegionList) Clear() {
	l.rows = nil
	l.selected = -1
	l.refresh()
}

func (l *RegionList) RowCount() int { return len(l.rows) }
func (l *RegionList) Visible() bool { return l.win != nil }

// Rows returns a copy of the listed rows in display order.
func (l *RegionList) Rows() []roi.Row {
	return append([]roi.Row(nil), l.rows...)
}

func (l *RegionList) Show() {
	if l.win == nil {
		l.create()
	}
	l.win.Show()
}

func (l *RegionList) create() {
	win := l.app.NewWindow("Regions of Interest")
	l.table = widget.NewTable(
		func() (int, int) { return len(l.rows) + 1, len(headers) },
		func() fyne.CanvasObject {
			swatch := fynecanvas.NewRectangle(color.Transparent)
			swatch.SetMinSize(fyne.NewSize(24, 16))
			return container.NewStack(swatch, widget.NewLabel(""))
		},
		l.updateCell,
	)
	for col, width := range []float32{60, 140, 110, 260} {
		l.table.SetColumnWidth(col, width)
	}
	l.table.OnSelected = func(id widget.TableCellID) {
		l.selected = id.Row - 1
	}

	actions := container.NewHBox(
		widget.NewButton("Show/Hide", func() { l.withSelected(l.emitToggle) }),
		widget.NewButton("Stats", func() { l.withSelected(l.emitStats) }),
		widget.NewButton("Rename...", func() { l.withSelected(l.promptRename) }),
		widget.NewButton("Save...", func() { l.withSelected(l.emitSave) }),
		widget.NewButton("Close", func() { l.withSelected(l.emitClose) }),
	)
	win.SetContent(container.NewBorder(nil, actions, nil, nil, l.table))
	win.Resize(fyne.NewSize(620, 260))
	win.SetOnClosed(func() {
		if l.win != win {
			return
		}
		l.win = nil
		l.table = nil
		l.rows = nil
		l.selected = -1
		l.signals.WindowClosed.Emit(struct{}{})
	})
	l.win = win
}

func (l *RegionList) updateCell(id widget.TableCellID, obj fyne.CanvasObject) {
	stack := obj.(*fyne.Container)
	swatch := stack.Objects[0].(*fynecanvas.Rectangle)
	label := stack.Objects[1].(*widget.Label)
	swatch.FillColor = color.Transparent

	if id.Row == 0 {
		label.TextStyle = fyne.TextStyle{Bold: true}
		label.SetText(headers[id.Col])
		swatch.Refresh()
		return
	}
	label.TextStyle = fyne.TextStyle{}
	if id.Row-1 >= len(l.rows) {
		label.SetText("")
		return
	}
	row := l.rows[id.Row-1]
	switch id.Col {
	case 0:
		swatch.FillColor = row.Color
		label.SetText("")
	case 1:
		label.SetText(row.Name)
	case 2:
		label.SetText(row.Size)
	case 3:
		label.SetText(row.Description)
	}
	swatch.Refresh()
}

func (l *RegionList) refresh() {
	if l.table != nil {
		l.table.Refresh()
	}
}

func (l *RegionList) withSelected(fn func(row roi.Row)) {
	if l.selected < 0 || l.selected >= len(l.rows) {
		return
	}
	fn(l.rows[l.selected])
}

func (l *RegionList) emitToggle(row roi.Row) {
	l.signals.Toggle.Emit(roi.ToggleEvent{Region: row.Region})
}

func (l *RegionList) emitStats(row roi.Row) {
	l.signals.Stats.Emit(roi.StatsEvent{Region: row.Region})
}

func (l *RegionList) emitSave(row roi.Row) {
	l.signals.Save.Emit(roi.SaveEvent{Region: row.Region})
}

func (l *RegionList) emitClose(row roi.Row) {
	l.signals.Close.Emit(roi.CloseEvent{Region: row.Region})
}

func (l *RegionList) promptRename(row roi.Row) {
	entry := widget.NewEntry()
	entry.SetText(row.Name)
	dialog.ShowForm("Rename Region", "Rename", "Cancel",
		[]*widget.FormItem{widget.NewFormItem("Name", entry)},
		func(ok bool) {
			if ok {
				l.Rename(row.ID, entry.Text)
			}
		}, l.win)
}

// Rename renames the region in row id and reports the change. Blank or
// unchanged names are ignored.
func (l *RegionList) Rename(id uuid.UUID, name string) {
	name = strings.TrimSpace(name)
	for i := range l.rows {
		row := &l.rows[i]
		if row.ID != id {
			continue
		}
		if name == "" || name == row.Name {
			return
		}
		old := row.Name
		row.Name = name
		row.Region.SetName(name)
		l.refresh()
		l.signals.Rename.Emit(roi.NameChangeEvent{Region: row.Region, OldName: old, NewName: name})
		return
	}
}
