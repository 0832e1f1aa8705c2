// Package canvas provides a zoomable raster canvas with click, hover and
// rubber-band selection, and tinted region overlays.
package canvas

import (
	"image"
	"sort"

	svimage "spectral-viewer/internal/image"
	"spectral-viewer/pkg/colorutil"
	"spectral-viewer/pkg/geometry"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	xdraw "golang.org/x/image/draw"
)

const (
	minZoom  = 0.1
	maxZoom  = 20.0
	zoomStep = 1.25
)

// ImageCanvas displays an image at a zoom factor. Pointer positions are
// reported in image pixel coordinates.
type ImageCanvas struct {
	widget.BaseWidget

	source image.Image
	zoom   float64

	// Region overlays keyed by caller supplied id
	overlays map[string]*Overlay

	raster  *fynecanvas.Raster
	scroll  *zoomScroll
	content *draggableContent
	imgSize fyne.Size

	// Rubber band in canvas coordinates
	selecting     bool
	selectStart   fyne.Position
	selectEnd     fyne.Position
	selectionRect *OverlayRect

	mode    SelectMode
	polygon polygonBuilder

	onZoomChange func(zoom float64)
	onSelect     func(r geometry.RectInt)
	onPolygon    func(vertices []geometry.Point2D)
	onLeftClick  func(x, y int)
	onHover      func(x, y int)
}

// zoomScroll is a scroll container whose wheel zooms instead of scrolling.
type zoomScroll struct {
	widget.BaseWidget
	scroll *container.Scroll
	canvas *ImageCanvas
}

func newZoomScroll(content fyne.CanvasObject, canvas *ImageCanvas) *zoomScroll {
	scroll := container.NewScroll(content)
	scroll.Direction = container.ScrollBoth
	zs := &zoomScroll{scroll: scroll, canvas: canvas}
	zs.ExtendBaseWidget(zs)
	return zs
}

func (zs *zoomScroll) Scrolled(ev *fyne.ScrollEvent) {
	if ev.Scrolled.DY > 0 {
		zs.canvas.ZoomIn()
	} else if ev.Scrolled.DY < 0 {
		zs.canvas.ZoomOut()
	}
}

func (zs *zoomScroll) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(zs.scroll)
}

func (zs *zoomScroll) Offset() fyne.Position { return zs.scroll.Offset }

func (zs *zoomScroll) Refresh() {
	zs.scroll.Refresh()
	zs.BaseWidget.Refresh()
}

func (zs *zoomScroll) Resize(size fyne.Size) {
	zs.scroll.Resize(size)
	zs.BaseWidget.Resize(size)
}

// draggableContent wraps the raster to receive pointer events.
type draggableContent struct {
	widget.BaseWidget
	canvas *ImageCanvas
	raster *fynecanvas.Raster
}

var (
	_ fyne.Draggable         = (*draggableContent)(nil)
	_ fyne.Tappable          = (*draggableContent)(nil)
	_ fyne.DoubleTappable    = (*draggableContent)(nil)
	_ fyne.SecondaryTappable = (*draggableContent)(nil)
	_ desktop.Hoverable      = (*draggableContent)(nil)
)

func newDraggableContent(ic *ImageCanvas, raster *fynecanvas.Raster) *draggableContent {
	dc := &draggableContent{canvas: ic, raster: raster}
	dc.ExtendBaseWidget(dc)
	return dc
}

func (dc *draggableContent) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(dc.raster)
}

func (dc *draggableContent) MinSize() fyne.Size {
	return dc.raster.MinSize()
}

// contentPos converts a viewport position to a position on the zoomed image.
func (dc *draggableContent) contentPos(p fyne.Position) fyne.Position {
	off := dc.canvas.scroll.Offset()
	return fyne.NewPos(p.X+off.X, p.Y+off.Y)
}

func (dc *draggableContent) Dragged(ev *fyne.DragEvent) {
	ic := dc.canvas
	if ic.mode != SelectRectangle {
		return
	}
	pos := dc.contentPos(ev.Position)
	if !ic.selecting {
		ic.selecting = true
		ic.selectStart = pos
	}
	ic.selectEnd = pos

	r := geometry.NormalizeRect(
		float64(ic.selectStart.X), float64(ic.selectStart.Y),
		float64(ic.selectEnd.X), float64(ic.selectEnd.Y))
	ic.selectionRect = &OverlayRect{X: int(r.X), Y: int(r.Y), Width: int(r.Width), Height: int(r.Height)}
	ic.Refresh()
}

func (dc *draggableContent) DragEnd() {
	ic := dc.canvas
	if !ic.selecting {
		return
	}
	ic.selecting = false
	rect := ic.selectionRect
	ic.selectionRect = nil
	ic.Refresh()

	if ic.onSelect == nil || rect == nil {
		return
	}
	x1, y1 := ic.canvasToImage(float64(rect.X), float64(rect.Y))
	x2, y2 := ic.canvasToImage(float64(rect.X+rect.Width), float64(rect.Y+rect.Height))
	sel := geometry.NewRectInt(int(x1), int(y1), int(x2)-int(x1)+1, int(y2)-int(y1)+1)
	if sel = sel.Intersect(ic.imageRect()); !sel.Empty() {
		ic.onSelect(sel)
	}
}

// Tapped reports a left click, or adds a polygon vertex in polygon mode.
// Positions outside the image are dropped.
func (dc *draggableContent) Tapped(ev *fyne.PointEvent) {
	ic := dc.canvas
	pos := dc.contentPos(ev.Position)
	if ic.mode == SelectPolygon {
		ic.addVertex(pos)
		return
	}
	if ic.onLeftClick == nil {
		return
	}
	if x, y, ok := ic.pixelAt(pos); ok {
		ic.onLeftClick(x, y)
	}
}

// DoubleTapped closes the polygon being drawn. In rectangle mode it counts
// as a click.
func (dc *draggableContent) DoubleTapped(ev *fyne.PointEvent) {
	ic := dc.canvas
	if ic.mode == SelectPolygon {
		ic.finishPolygon()
		return
	}
	dc.Tapped(ev)
}

// TappedSecondary discards the polygon being drawn.
func (dc *draggableContent) TappedSecondary(ev *fyne.PointEvent) {
	if dc.canvas.polygon.len() > 0 {
		dc.canvas.polygon.cancel()
		dc.canvas.Refresh()
	}
}

func (dc *draggableContent) MouseIn(ev *desktop.MouseEvent) {}
func (dc *draggableContent) MouseOut() {}

func (dc *draggableContent) MouseMoved(ev *desktop.MouseEvent) {
	if dc.canvas.onHover == nil {
		return
	}
	if x, y, ok := dc.canvas.pixelAt(dc.contentPos(ev.Position)); ok {
		dc.canvas.onHover(x, y)
	}
}

// NewImageCanvas creates an empty canvas at the given zoom.
func NewImageCanvas(zoom float64) *ImageCanvas {
	ic := &ImageCanvas{
		zoom:     clampZoom(zoom),
		imgSize:  fyne.NewSize(400, 300),
		overlays: make(map[string]*Overlay),
	}
	ic.raster = fynecanvas.NewRaster(ic.draw)
	ic.raster.ScaleMode = fynecanvas.ImageScalePixels
	ic.raster.SetMinSize(ic.imgSize)
	ic.content = newDraggableContent(ic, ic.raster)
	ic.scroll = newZoomScroll(ic.content, ic)
	ic.ExtendBaseWidget(ic)
	return ic
}

// SetImage replaces the displayed image.
func (ic *ImageCanvas) SetImage(img image.Image) {
	ic.source = img
	ic.updateContentSize()
}

func (ic *ImageCanvas) Image() image.Image { return ic.source }

// SetOverlay adds or replaces the overlay stored under id.
func (ic *ImageCanvas) SetOverlay(id string, o *Overlay) {
	ic.overlays[id] = o
	ic.Refresh()
}

func (ic *ImageCanvas) Overlay(id string) (*Overlay, bool) {
	o, ok := ic.overlays[id]
	return o, ok
}

func (ic *ImageCanvas) RemoveOverlay(id string) {
	delete(ic.overlays, id)
	ic.Refresh()
}

func (ic *ImageCanvas) ClearOverlays() {
	ic.overlays = make(map[string]*Overlay)
	ic.Refresh()
}

func (ic *ImageCanvas) OverlayCount() int { return len(ic.overlays) }

func clampZoom(zoom float64) float64 {
	if zoom < minZoom {
		return minZoom
	}
	if zoom > maxZoom {
		return maxZoom
	}
	return zoom
}

// SetZoom sets the zoom level.
func (ic *ImageCanvas) SetZoom(zoom float64) {
	ic.zoom = clampZoom(zoom)
	ic.updateContentSize()
	if ic.onZoomChange != nil {
		ic.onZoomChange(ic.zoom)
	}
}

func (ic *ImageCanvas) Zoom() float64 { return ic.zoom }
func (ic *ImageCanvas) ZoomIn() { ic.SetZoom(ic.zoom * zoomStep) }
func (ic *ImageCanvas) ZoomOut() { ic.SetZoom(ic.zoom / zoomStep) }

// ContentSize is the size of the zoomed image.
func (ic *ImageCanvas) ContentSize() fyne.Size { return ic.imgSize }

func (ic *ImageCanvas) OnZoomChange(callback func(zoom float64)) { ic.onZoomChange = callback }

// OnSelect sets the callback for a finished rubber band, in image pixels.
func (ic *ImageCanvas) OnSelect(callback func(r geometry.RectInt)) { ic.onSelect = callback }

// OnPolygon sets the callback for a closed polygon, in image coordinates.
func (ic *ImageCanvas) OnPolygon(callback func(vertices []geometry.Point2D)) { ic.onPolygon = callback }

// SetSelectMode switches how regions are drawn, dropping any unfinished polygon.
func (ic *ImageCanvas) SetSelectMode(mode SelectMode) {
	if mode == ic.mode {
		return
	}
	ic.mode = mode
	ic.polygon.cancel()
	ic.Refresh()
}

func (ic *ImageCanvas) SelectMode() SelectMode { return ic.mode }

// PendingVertices is the number of vertices of the polygon being drawn.
func (ic *ImageCanvas) PendingVertices() int { return ic.polygon.len() }

func (ic *ImageCanvas) addVertex(pos fyne.Position) {
	if _, _, ok := ic.pixelAt(pos); !ok {
		return
	}
	x, y := ic.canvasToImage(float64(pos.X), float64(pos.Y))
	ic.polygon.add(geometry.Point2D{X: x, Y: y})
	ic.Refresh()
}

func (ic *ImageCanvas) finishPolygon() {
	vertices, ok := ic.polygon.finish()
	ic.Refresh()
	if ok && ic.onPolygon != nil {
		ic.onPolygon(vertices)
	}
}

// OnLeftClick sets the callback for clicks, in image pixels.
func (ic *ImageCanvas) OnLeftClick(callback func(x, y int)) { ic.onLeftClick = callback }

// OnHover sets the callback for pointer motion, in image pixels.
func (ic *ImageCanvas) OnHover(callback func(x, y int)) { ic.onHover = callback }

func (ic *ImageCanvas) Refresh() {
	ic.raster.Refresh()
}

func (ic *ImageCanvas) imageRect() geometry.RectInt {
	if ic.source == nil {
		return geometry.RectInt{}
	}
	b := ic.source.Bounds()
	return geometry.NewRectInt(0, 0, b.Dx(), b.Dy())
}

// pixelAt converts a content position to image pixel coordinates.
func (ic *ImageCanvas) pixelAt(p fyne.Position) (x, y int, ok bool) {
	fx, fy := ic.canvasToImage(float64(p.X), float64(p.Y))
	if fx < 0 || fy < 0 {
		return 0, 0, false
	}
	x, y = int(fx), int(fy)
	r := ic.imageRect()
	return x, y, x < r.Width && y < r.Height
}

func (ic *ImageCanvas) updateContentSize() {
	r := ic.imageRect()
	if r.Empty() {
		ic.imgSize = fyne.NewSize(400, 300)
	} else {
		ic.imgSize = fyne.NewSize(float32(float64(r.Width)*ic.zoom), float32(float64(r.Height)*ic.zoom))
	}
	ic.raster.SetMinSize(ic.imgSize)
	ic.raster.Resize(ic.imgSize)
	if ic.content != nil {
		ic.content.Resize(ic.imgSize)
		ic.content.Refresh()
	}
	ic.raster.Refresh()
	if ic.scroll != nil {
		ic.scroll.Refresh()
	}
}

// draw tints visible overlays at image resolution, scales the result to the
// raster and outlines each region.
func (ic *ImageCanvas) draw(w, h int) image.Image {
	output := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 3; i < len(output.Pix); i += 4 {
		output.Pix[i] = 255
	}
	if ic.source == nil {
		return output
	}

	visible := ic.visibleOverlays()
	tints := make([]svimage.Overlay, len(visible))
	for i, o := range visible {
		tints[i] = o.tint()
	}
	frame := svimage.Composite(ic.source, tints)

	r := ic.imageRect()
	dst := image.Rect(0, 0, int(float64(r.Width)*ic.zoom), int(float64(r.Height)*ic.zoom))
	xdraw.NearestNeighbor.Scale(output, dst, frame, frame.Bounds(), xdraw.Src, nil)

	for _, o := range visible {
		x1, y1 := ic.imageToCanvas(float64(o.Bounds.X), float64(o.Bounds.Y))
		x2, y2 := ic.imageToCanvas(float64(o.Bounds.Right()), float64(o.Bounds.Bottom()))
		drawOutline(output, int(x1), int(y1), int(x2)-1, int(y2)-1, o.Color)
	}

	if ic.selecting && ic.selectionRect != nil {
		drawSelectionRect(output, ic.selectionRect)
	}
	ic.drawPendingPolygon(output)
	return output
}

// visibleOverlays returns the shown overlays in a stable order.
func (ic *ImageCanvas) visibleOverlays() []*Overlay {
	ids := make([]string, 0, len(ic.overlays))
	for id, o := range ic.overlays {
		if o != nil && o.Visible {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	out := make([]*Overlay, len(ids))
	for i, id := range ids {
		out[i] = ic.overlays[id]
	}
	return out
}

// drawPendingPolygon draws the edges of the unfinished polygon.
func (ic *ImageCanvas) drawPendingPolygon(output *image.RGBA) {
	vs := ic.polygon.vertices
	if len(vs) == 0 {
		return
	}
	px := make([]image.Point, len(vs))
	for i, v := range vs {
		x, y := ic.imageToCanvas(v.X, v.Y)
		px[i] = image.Pt(int(x), int(y))
	}
	drawOutline(output, px[0].X-1, px[0].Y-1, px[0].X+1, px[0].Y+1, colorutil.Yellow)
	for i := 1; i < len(px); i++ {
		drawSegment(output, px[i-1], px[i], colorutil.Yellow)
	}
}

func (ic *ImageCanvas) imageToCanvas(imgX, imgY float64) (canvasX, canvasY float64) {
	return imgX * ic.zoom, imgY * ic.zoom
}

func (ic *ImageCanvas) canvasToImage(canvasX, canvasY float64) (imgX, imgY float64) {
	return canvasX / ic.zoom, canvasY / ic.zoom
}

// CreateRenderer implements fyne.Widget.
func (ic *ImageCanvas) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(ic.scroll)
}
