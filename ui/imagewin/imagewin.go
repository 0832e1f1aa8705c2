// Package imagewin provides the main and zoom image windows of a window set.
package imagewin

import (
	"fmt"
	"image/color"

	"spectral-viewer/internal/app"
	svimage "spectral-viewer/internal/image"
	"spectral-viewer/internal/roi"
	"spectral-viewer/pkg/colorutil"
	"spectral-viewer/pkg/geometry"
	"spectral-viewer/ui/canvas"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/google/uuid"
)

// Window decorations, the toolbar and the status bar are not part of the canvas.
const chrome = 100

// Window shows one image. Drawing a rectangle or a polygon creates a region;
// the region's overlay is shared with the other image window of the set.
type Window struct {
	win     fyne.Window
	canvas  *canvas.ImageCanvas
	status  *widget.Label
	zoomLbl *widget.Label
	image   svimage.Image
	signals app.ImageSignals
	geom    geometry.RectInt

	drawn int
	items map[uuid.UUID]*regionItem
}

var _ app.ImageWindow = (*Window)(nil)

// NewMain creates the main window, zoomed out so the image fits the
// available screen area.
func NewMain(a fyne.App, img svimage.Image, title string, available geometry.RectInt) *Window {
	zoom := 1.0
	if !available.Empty() {
		zoom = min(zoom,
			float64(available.Width)/float64(img.Width()),
			float64(available.Height-chrome)/float64(img.Height()))
	}
	return newWindow(a, img, title, zoom, available)
}

// NewZoom creates the zoom window at a fixed magnification.
func NewZoom(a fyne.App, img svimage.Image, title string, zoom float64, available geometry.RectInt) *Window {
	return newWindow(a, img, title+" (zoom)", zoom, available)
}

func newWindow(a fyne.App, img svimage.Image, title string, zoom float64, available geometry.RectInt) *Window {
	w := &Window{
		win:     a.NewWindow(title),
		canvas:  canvas.NewImageCanvas(zoom),
		status:  widget.NewLabel(""),
		zoomLbl: widget.NewLabel(""),
		image:   img,
		items:   make(map[uuid.UUID]*regionItem),
	}
	w.canvas.SetImage(img.Render())
	w.canvas.OnLeftClick(func(x, y int) {
		w.signals.PixelSelected.Emit(app.PixelEvent{Source: w, X: x, Y: y})
	})
	w.canvas.OnHover(func(x, y int) {
		w.status.SetText(fmt.Sprintf("Sample %d, Line %d", x+1, y+1))
		w.signals.MouseMoved.Emit(app.PixelEvent{Source: w, X: x, Y: y})
	})
	w.canvas.OnSelect(w.handleSelection)
	w.canvas.OnPolygon(w.handlePolygon)
	w.canvas.OnZoomChange(w.showZoom)
	w.showZoom(w.canvas.Zoom())

	w.win.SetContent(container.NewBorder(w.toolbar(), container.NewPadded(w.status), nil, nil, w.canvas))
	size := w.canvas.ContentSize()
	width, height := int(size.Width), int(size.Height)+chrome
	if !available.Empty() {
		width = min(width, available.Width)
		height = min(height, available.Height)
	}
	w.geom = geometry.NewRectInt(0, 0, width, height)
	w.win.Resize(fyne.NewSize(float32(width), float32(height)))
	w.win.SetOnClosed(func() {
		w.signals.Closed.Emit(app.WindowClosedEvent{Target: w})
	})
	return w
}

func (w *Window) Signals() *app.ImageSignals { return &w.signals }

func (w *Window) toolbar() fyne.CanvasObject {
	polygon := widget.NewCheck("Polygon", func(on bool) {
		if on {
			w.canvas.SetSelectMode(canvas.SelectPolygon)
		} else {
			w.canvas.SetSelectMode(canvas.SelectRectangle)
		}
	})
	return container.NewHBox(
		widget.NewButton("-", w.canvas.ZoomOut),
		widget.NewButton("+", w.canvas.ZoomIn),
		widget.NewButton("1:1", func() { w.canvas.SetZoom(1) }),
		w.zoomLbl,
		polygon,
	)
}

func (w *Window) showZoom(zoom float64) {
	w.zoomLbl.SetText(fmt.Sprintf("%.0f%%", zoom*100))
}

// handleSelection turns a finished rubber band into a region.
func (w *Window) handleSelection(r geometry.RectInt) {
	w.addRegion(roi.NewRectRegion(r, w.image.Width(), w.image.Height()))
}

// handlePolygon turns a closed polygon into a region.
func (w *Window) handlePolygon(vertices []geometry.Point2D) {
	w.addRegion(roi.NewPolygonRegion(vertices, w.image.Width(), w.image.Height()))
}

func (w *Window) addRegion(region *roi.Region) {
	if len(region.Points()) == 0 {
		return
	}
	item := newRegionItem(region, colorutil.RegionColor(w.drawn))
	w.drawn++
	w.attach(item)
	w.signals.AreaSelected.Emit(app.AreaSelectedEvent{Source: w, Region: region, Item: item})
}

// HandleRegionSelected shows a region drawn in the other window of the set.
func (w *Window) HandleRegionSelected(e app.AreaSelectedEvent) {
	item, ok := e.Item.(*regionItem)
	if !ok {
		item = newRegionItem(e.Region, e.Item.Color())
	}
	w.attach(item)
}

func (w *Window) attach(item *regionItem) {
	w.items[item.id] = item
	item.attach(w)
}

func (w *Window) detach(id uuid.UUID) {
	delete(w.items, id)
	w.canvas.RemoveOverlay(id.String())
}

func (w *Window) RefreshImage() {
	w.canvas.SetImage(w.image.Render())
}

func (w *Window) RemoveAllRegions() {
	for id, item := range w.items {
		item.forget(w)
		delete(w.items, id)
	}
	w.canvas.ClearOverlays()
}

// RegionCount returns the number of regions shown.
func (w *Window) RegionCount() int { return len(w.items) }

// Geometry is the window's placement as last requested. The toolkit does
// not report window positions, so X and Y are the values given to Move.
func (w *Window) Geometry() geometry.RectInt {
	if s := w.win.Canvas().Size(); s.Width > 0 && s.Height > 0 {
		w.geom.Width, w.geom.Height = int(s.Width), int(s.Height)
	}
	return w.geom
}

func (w *Window) Move(x, y int) {
	w.geom.X, w.geom.Y = x, y
}

func (w *Window) Show() { w.win.Show() }
func (w *Window) Close() { w.win.Close() }

// regionItem is the display of one region, shared by the windows it is shown in.
type regionItem struct {
	id      uuid.UUID
	overlay *canvas.Overlay
	windows []*Window
}

var _ roi.DisplayItem = (*regionItem)(nil)

func newRegionItem(region *roi.Region, col color.RGBA) *regionItem {
	return &regionItem{
		id:      region.ID(),
		overlay: canvas.NewOverlay(region.Points(), region.Bounds(), col),
	}
}

func (it *regionItem) attach(w *Window) {
	it.windows = append(it.windows, w)
	w.canvas.SetOverlay(it.id.String(), it.overlay)
}

func (it *regionItem) forget(w *Window) {
	for i, other := range it.windows {
		if other == w {
			it.windows = append(it.windows[:i], it.windows[i+1:]...)
			return
		}
	}
}

func (it *regionItem) Color() color.RGBA { return it.overlay.Color }
func (it *regionItem) IsOn() bool { return it.overlay.Visible }

func (it *regionItem) SetOn(on bool) {
	it.overlay.Visible = on
	for _, w := range it.windows {
		w.canvas.Refresh()
	}
}

// Close removes the region from every window showing it.
func (it *regionItem) Close() {
	for _, w := range it.windows {
		w.detach(it.id)
	}
	it.windows = nil
}
