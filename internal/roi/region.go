// Package roi tracks user-drawn regions of interest across every open file
// and drives the save and close protocols of the shared region list.
package roi

import (
	"fmt"

	"spectral-viewer/internal/spectral"
	"spectral-viewer/pkg/geometry"

	"github.com/google/uuid"
)

// Region is a user-drawn set of image pixels. Regions are compared by
// handle: two regions with identical pixels and names are still distinct.
type Region struct {
	id          uuid.UUID
	name        string
	named       bool
	points      []geometry.PointInt
	bounds      geometry.RectInt
	mapInfo     *spectral.MapInfo
	description string
}

// NewRegion creates a region from its pixels. The description is free text.
func NewRegion(points []geometry.PointInt, description string) *Region {
	return &Region{
		id:          uuid.New(),
		points:      points,
		bounds:      geometry.PixelBounds(points),
		description: description,
	}
}

// NewRectRegion creates a region covering every pixel of r clipped to the
// image dimensions.
func NewRectRegion(r geometry.RectInt, imageWidth, imageHeight int) *Region {
	clipped := r.Intersect(geometry.NewRectInt(0, 0, imageWidth, imageHeight))
	return NewRegion(clipped.Pixels(), fmt.Sprintf("rectangle %d,%d %dx%d", clipped.X, clipped.Y, clipped.Width, clipped.Height))
}

// NewPolygonRegion creates a region from the pixels whose centers fall inside
// the polygon, clipped to the image dimensions.
func NewPolygonRegion(polygon []geometry.Point2D, imageWidth, imageHeight int) *Region {
	image := geometry.NewRectInt(0, 0, imageWidth, imageHeight)
	var points []geometry.PointInt
	for _, p := range geometry.RasterizePolygon(polygon) {
		if p.X >= image.X && p.X < image.Right() && p.Y >= image.Y && p.Y < image.Bottom() {
			points = append(points, p)
		}
	}
	return NewRegion(points, fmt.Sprintf("polygon, %d vertices", len(polygon)))
}

func (r *Region) ID() uuid.UUID { return r.id }

// Name returns the display name, empty until one is assigned.
func (r *Region) Name() string { return r.name }
func (r *Region) HasName() bool { return r.named }

func (r *Region) SetName(name string) {
	r.name = name
	r.named = true
}

func (r *Region) Points() []geometry.PointInt { return r.points }
func (r *Region) Bounds() geometry.RectInt { return r.bounds }

// ImageHeight and ImageWidth are the dimensions of the region's bounding box.
func (r *Region) ImageHeight() int { return r.bounds.Height }
func (r *Region) ImageWidth() int { return r.bounds.Width }

// Lines and Samples return the region's pixel coordinates as parallel slices.
func (r *Region) Lines() []int {
	out := make([]int, len(r.points))
	for i, p := range r.points {
		out[i] = p.Y
	}
	return out
}

func (r *Region) Samples() []int {
	out := make([]int, len(r.points))
	for i, p := range r.points {
		out[i] = p.X
	}
	return out
}

func (r *Region) MapInfo() *spectral.MapInfo { return r.mapInfo }
func (r *Region) SetMapInfo(m *spectral.MapInfo) { r.mapInfo = m }
func (r *Region) Description() string { return r.description }

func (r *Region) String() string {
	if r.named {
		return fmt.Sprintf("%s (%s)", r.name, r.id)
	}
	return r.id.String()
}
