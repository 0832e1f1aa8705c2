package geometry

import "testing"

func TestRectIntPixelsRowMajor(t *testing.T) {
	r := NewRectInt(2, 3, 2, 2)
	got := r.Pixels()
	want := []PointInt{{2, 3}, {3, 3}, {2, 4}, {3, 4}}
	if len(got) != len(want) {
		t.Fatalf("got %d pixels, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("pixel %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestRectIntIntersect(t *testing.T) {
	a := NewRectInt(0, 0, 10, 10)
	b := NewRectInt(5, 5, 10, 10)
	got := a.Intersect(b)
	if got != NewRectInt(5, 5, 5, 5) {
		t.Fatalf("unexpected intersection %+v", got)
	}
	if !a.Intersect(NewRectInt(20, 20, 1, 1)).Empty() {
		t.Fatalf("disjoint rectangles should not intersect")
	}
}

func TestNormalizeRect(t *testing.T) {
	r := NormalizeRect(10, 8, 2, 4)
	if r.X != 2 || r.Y != 4 || r.Width != 8 || r.Height != 4 {
		t.Fatalf("unexpected rect %+v", r)
	}
}

func TestRasterizePolygonSquare(t *testing.T) {
	square := []Point2D{{0, 0}, {3, 0}, {3, 2}, {0, 2}}
	pixels := RasterizePolygon(square)
	if len(pixels) != 6 {
		t.Fatalf("expected 6 pixels, got %d: %v", len(pixels), pixels)
	}
	bounds := PixelBounds(pixels)
	if bounds != NewRectInt(0, 0, 3, 2) {
		t.Fatalf("unexpected bounds %+v", bounds)
	}
}

func TestRasterizePolygonTriangle(t *testing.T) {
	tri := []Point2D{{0, 0}, {4, 0}, {0, 4}}
	pixels := RasterizePolygon(tri)
	for _, p := range pixels {
		if float64(p.X)+0.5+float64(p.Y)+0.5 > 4 {
			t.Fatalf("pixel %v lies outside the triangle", p)
		}
	}
	if len(pixels) == 0 || len(pixels) >= 16 {
		t.Fatalf("unexpected pixel count %d", len(pixels))
	}
}

func TestPixelBoundsEmpty(t *testing.T) {
	if !PixelBounds(nil).Empty() {
		t.Fatalf("bounds of no pixels should be empty")
	}
}
