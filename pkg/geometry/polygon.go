package geometry

import "math"

// PointInPolygon tests if a point is inside a polygon using ray casting.
func PointInPolygon(p Point2D, polygon []Point2D) bool {
	if len(polygon) < 3 {
		return false
	}

	inside := false
	n := len(polygon)

	for i := 0; i < n; i++ {
		j := (i + 1) % n
		pi, pj := polygon[i], polygon[j]

		// Check if ray from p going right intersects edge pi-pj
		if ((pi.Y > p.Y) != (pj.Y > p.Y)) &&
			(p.X < (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y)+pi.X) {
			inside = !inside
		}
	}

	return inside
}

// RasterizePolygon returns the pixels whose centers fall inside the polygon,
// in row-major order. Pixel (x, y) covers [x, x+1) x [y, y+1).
func RasterizePolygon(polygon []Point2D) []PointInt {
	if len(polygon) < 3 {
		return nil
	}
	box := BoundingBox(polygon)
	x0 := int(math.Floor(box.X))
	y0 := int(math.Floor(box.Y))
	x1 := int(math.Ceil(box.X + box.Width))
	y1 := int(math.Ceil(box.Y + box.Height))

	var pixels []PointInt
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			center := Point2D{X: float64(x) + 0.5, Y: float64(y) + 0.5}
			if PointInPolygon(center, polygon) {
				pixels = append(pixels, PointInt{X: x, Y: y})
			}
		}
	}
	return pixels
}
