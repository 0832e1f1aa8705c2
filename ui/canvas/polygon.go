package canvas

import (
	"spectral-viewer/pkg/geometry"
)

// SelectMode chooses how regions are drawn on the canvas.
type SelectMode int

const (
	// SelectRectangle draws a rubber band by dragging.
	SelectRectangle SelectMode = iota
	// SelectPolygon adds a vertex per click; a double click closes the
	// polygon and a secondary click discards it.
	SelectPolygon
)

func (m SelectMode) String() string {
	if m == SelectPolygon {
		return "polygon"
	}
	return "rectangle"
}

// polygonBuilder collects the vertices of a polygon being drawn, in image
// coordinates.
type polygonBuilder struct {
	vertices []geometry.Point2D
}

func (b *polygonBuilder) add(p geometry.Point2D) {
	if n := len(b.vertices); n > 0 && b.vertices[n-1] == p {
		return
	}
	b.vertices = append(b.vertices, p)
}

// finish returns the polygon and resets the builder. Fewer than three
// vertices enclose nothing and are discarded.
func (b *polygonBuilder) finish() ([]geometry.Point2D, bool) {
	vertices := b.vertices
	b.vertices = nil
	if len(vertices) < 3 {
		return nil, false
	}
	return vertices, true
}

func (b *polygonBuilder) cancel() { b.vertices = nil }
func (b *polygonBuilder) len() int { return len(b.vertices) }
