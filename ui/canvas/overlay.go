package canvas

import (
	"image"
	"image/color"

	svimage "spectral-viewer/internal/image"
	"spectral-viewer/pkg/geometry"
)

// regionOpacity is how strongly region pixels are tinted with their color.
const regionOpacity = 0.45

// Overlay is a region drawn on the canvas: its pixels are tinted and its
// bounding box outlined.
type Overlay struct {
	Pixels  []geometry.PointInt
	Bounds  geometry.RectInt
	Color   color.RGBA
	Visible bool
}

// NewOverlay creates a visible overlay over the given pixels.
func NewOverlay(pixels []geometry.PointInt, bounds geometry.RectInt, col color.RGBA) *Overlay {
	return &Overlay{Pixels: pixels, Bounds: bounds, Color: col, Visible: true}
}

func (o *Overlay) tint() svimage.Overlay {
	pts := make([]image.Point, len(o.Pixels))
	for i, p := range o.Pixels {
		pts[i] = image.Pt(p.X, p.Y)
	}
	return svimage.Overlay{Pixels: pts, Color: o.Color, Opacity: regionOpacity}
}

// OverlayRect is a rectangle in canvas coordinates.
type OverlayRect struct {
	X, Y, Width, Height int
}
