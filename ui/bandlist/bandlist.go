// Package bandlist provides the file and band browser of the main window.
package bandlist

import (
	"strconv"
	"strings"

	"spectral-viewer/internal/app"
	svimage "spectral-viewer/internal/image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

const sep = "\x00"

func bandNode(file string, band int) widget.TreeNodeID {
	return file + sep + strconv.Itoa(band)
}

// parseNode splits a tree node id. Band is -1 for a file node.
func parseNode(id widget.TreeNodeID) (file string, band int) {
	file, idx, ok := strings.Cut(id, sep)
	if !ok {
		return id, -1
	}
	band, err := strconv.Atoi(idx)
	if err != nil {
		return file, -1
	}
	return file, band
}

// BandList shows every open file with its bands. A selected band opens as a
// greyscale window; three chosen bands open as an RGB window.
type BandList struct {
	signals app.BandListSignals
	files   []string
	bands   map[string][]svimage.BandDescriptor

	selFile string
	selBand int

	tree    *widget.Tree
	red     *widget.Select
	green   *widget.Select
	blue    *widget.Select
	content fyne.CanvasObject
}

var _ app.BandList = (*BandList)(nil)

func New() *BandList {
	return &BandList{bands: make(map[string][]svimage.BandDescriptor), selBand: -1}
}

func (b *BandList) Signals() *app.BandListSignals { return &b.signals }

func (b *BandList) AddFile(name string, bands []svimage.BandDescriptor) {
	if _, ok := b.bands[name]; !ok {
		b.files = append(b.files, name)
	}
	b.bands[name] = bands
	if b.tree != nil {
		b.tree.Refresh()
		b.tree.OpenBranch(name)
	}
	b.Select(name, -1)
}

func (b *BandList) Files() []string { return append([]string(nil), b.files...) }

// Select makes file current and band the selected one (-1 for none).
func (b *BandList) Select(file string, band int) {
	if file != b.selFile && b.red != nil {
		opts := b.labels(file)
		for _, s := range []*widget.Select{b.red, b.green, b.blue} {
			s.Options = opts
			s.ClearSelected()
			s.Refresh()
		}
	}
	b.selFile, b.selBand = file, band
}

func (b *BandList) labels(file string) []string {
	ds := b.bands[file]
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = d.Label()
	}
	return out
}

// RequestGrey asks for a greyscale window of the selected band.
func (b *BandList) RequestGrey() bool {
	if b.selFile == "" || b.selBand < 0 {
		return false
	}
	b.signals.BandSelected.Emit(app.BandSelection{FileName: b.selFile, Band: b.selBand})
	return true
}

// RequestRGB asks for a composite window of the current file.
func (b *BandList) RequestRGB(red, green, blue int) bool {
	n := len(b.bands[b.selFile])
	for _, i := range []int{red, green, blue} {
		if i < 0 || i >= n {
			return false
		}
	}
	b.signals.RGBSelected.Emit(app.RGBSelection{FileName: b.selFile, Red: red, Green: green, Blue: blue})
	return true
}

// Content builds the browser widgets on first use.
func (b *BandList) Content() fyne.CanvasObject {
	if b.content != nil {
		return b.content
	}
	b.tree = widget.NewTree(b.childUIDs, b.isBranch, b.createNode, b.updateNode)
	b.tree.OnSelected = func(id widget.TreeNodeID) {
		b.Select(parseNode(id))
	}
	for _, f := range b.files {
		b.tree.OpenBranch(f)
	}

	b.red = widget.NewSelect(nil, nil)
	b.green = widget.NewSelect(nil, nil)
	b.blue = widget.NewSelect(nil, nil)
	for _, s := range []*widget.Select{b.red, b.green, b.blue} {
		s.Options = b.labels(b.selFile)
		s.PlaceHolder = "(band)"
	}

	grey := widget.NewButton("Open Greyscale", func() { b.RequestGrey() })
	rgb := widget.NewButton("Open RGB", func() {
		b.RequestRGB(b.red.SelectedIndex(), b.green.SelectedIndex(), b.blue.SelectedIndex())
	})
	form := widget.NewForm(
		widget.NewFormItem("Red", b.red),
		widget.NewFormItem("Green", b.green),
		widget.NewFormItem("Blue", b.blue),
	)
	b.content = container.NewBorder(nil, container.NewVBox(grey, form, rgb), nil, nil, b.tree)
	return b.content
}

func (b *BandList) childUIDs(id widget.TreeNodeID) []widget.TreeNodeID {
	if id == "" {
		out := make([]widget.TreeNodeID, len(b.files))
		copy(out, b.files)
		return out
	}
	file, band := parseNode(id)
	if band >= 0 {
		return nil
	}
	out := make([]widget.TreeNodeID, len(b.bands[file]))
	for i := range out {
		out[i] = bandNode(file, i)
	}
	return out
}

func (b *BandList) isBranch(id widget.TreeNodeID) bool {
	if id == "" {
		return true
	}
	_, band := parseNode(id)
	return band < 0
}

func (b *BandList) createNode(branch bool) fyne.CanvasObject {
	return widget.NewLabel("")
}

func (b *BandList) updateNode(id widget.TreeNodeID, branch bool, obj fyne.CanvasObject) {
	file, band := parseNode(id)
	label := obj.(*widget.Label)
	if band < 0 {
		label.SetText(file)
		return
	}
	if ds := b.bands[file]; band < len(ds) {
		label.SetText(ds[band].Label())
	}
}
