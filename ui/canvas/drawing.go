package canvas

import (
	"image"
	"image/color"

	"spectral-viewer/pkg/colorutil"
)

// drawOutline draws a 1 pixel rectangle outline in canvas coordinates.
func drawOutline(output *image.RGBA, x1, y1, x2, y2 int, col color.RGBA) {
	drawLine(output, x1, y1, x2, y1, col)
	drawLine(output, x1, y2, x2, y2, col)
	drawLine(output, x1, y1, x1, y2, col)
	drawLine(output, x2, y1, x2, y2, col)
}

// drawLine draws an axis aligned line, clipped to the output.
func drawLine(output *image.RGBA, x1, y1, x2, y2 int, col color.RGBA) {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	b := output.Bounds()
	for y := y1; y <= y2; y++ {
		for x := x1; x <= x2; x++ {
			if x >= b.Min.X && x < b.Max.X && y >= b.Min.Y && y < b.Max.Y {
				output.SetRGBA(x, y, col)
			}
		}
	}
}

// drawSelectionRect draws the rubber band as a dashed yellow outline.
func drawSelectionRect(output *image.RGBA, rect *OverlayRect) {
	col := colorutil.Yellow
	x1, y1 := rect.X, rect.Y
	x2, y2 := rect.X+rect.Width, rect.Y+rect.Height
	b := output.Bounds()

	set := func(x, y int) {
		if (x+y)%4 < 2 && x >= b.Min.X && x < b.Max.X && y >= b.Min.Y && y < b.Max.Y {
			output.SetRGBA(x, y, col)
		}
	}
	for x := x1; x <= x2; x++ {
		set(x, y1)
		set(x, y2)
	}
	for y := y1; y <= y2; y++ {
		set(x1, y)
		set(x2, y)
	}
}

// drawSegment draws a line between two canvas points, clipped to the output.
func drawSegment(output *image.RGBA, from, to image.Point, col color.RGBA) {
	dx, dy := abs(to.X-from.X), -abs(to.Y-from.Y)
	sx, sy := 1, 1
	if from.X > to.X {
		sx = -1
	}
	if from.Y > to.Y {
		sy = -1
	}
	b := output.Bounds()
	x, y, e := from.X, from.Y, dx+dy
	for {
		if image.Pt(x, y).In(b) {
			output.SetRGBA(x, y, col)
		}
		if x == to.X && y == to.Y {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x += sx
		}
		if e2 <= dx {
			e += dx
			y += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
