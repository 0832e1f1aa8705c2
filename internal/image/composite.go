package image

import (
	"image"
	"image/color"
	"image/draw"
)

// Compose interleaves three 8-bit channels into an opaque RGBA image.
func Compose(red, green, blue []uint8, width, height int) *image.RGBA {
	result := image.NewRGBA(image.Rect(0, 0, width, height))
	n := width * height
	for i := 0; i < n; i++ {
		p := result.Pix[i*4 : i*4+4 : i*4+4]
		p[0] = red[i]
		p[1] = green[i]
		p[2] = blue[i]
		p[3] = 255
	}
	return result
}

// Overlay marks a set of pixels on top of a rendered image.
type Overlay struct {
	Pixels  []image.Point
	Color   color.RGBA
	Opacity float64
}

// Composite renders base into a fresh RGBA image and blends every visible
// overlay on top. Pixels outside the image are ignored.
func Composite(base image.Image, overlays []Overlay) *image.RGBA {
	bounds := base.Bounds()
	result := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(result, result.Bounds(), base, bounds.Min, draw.Src)

	for _, o := range overlays {
		if o.Opacity <= 0 {
			continue
		}
		for _, p := range o.Pixels {
			if !p.In(result.Rect) {
				continue
			}
			result.SetRGBA(p.X, p.Y, blend(result.RGBAAt(p.X, p.Y), o.Color, o.Opacity))
		}
	}
	return result
}

// blend mixes src over dst with the given opacity.
func blend(dst, src color.RGBA, opacity float64) color.RGBA {
	alpha := clamp(opacity, 0, 1)
	mix := func(d, s uint8) uint8 {
		return uint8(clamp(float64(s)*alpha+float64(d)*(1-alpha), 0, 255) + 0.5)
	}
	return color.RGBA{
		R: mix(dst.R, src.R),
		G: mix(dst.G, src.G),
		B: mix(dst.B, src.B),
		A: 255,
	}
}

func clamp(x, min, max float64) float64 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
