// Package colorutil provides shared color utilities for the spectral viewer.
package colorutil

import "image/color"

// Common overlay colors used throughout the application.
var (
	Black   = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White   = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Red     = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	Cyan    = color.RGBA{R: 0, G: 255, B: 255, A: 255}
	Magenta = color.RGBA{R: 255, G: 0, B: 255, A: 255}
	Blue    = color.RGBA{R: 0, G: 0, B: 255, A: 255}
	Green   = color.RGBA{R: 0, G: 255, B: 0, A: 255}
	Yellow  = color.RGBA{R: 255, G: 255, B: 0, A: 255}
	Orange  = color.RGBA{R: 255, G: 140, B: 0, A: 255}
	Gray    = color.RGBA{R: 128, G: 128, B: 128, A: 255}
)

// regionPalette is cycled through as regions are drawn on an image window.
var regionPalette = []color.RGBA{Red, Green, Blue, Yellow, Cyan, Magenta, Orange}

// RegionColor returns the overlay color for the n-th region drawn in a window.
func RegionColor(n int) color.RGBA {
	if n < 0 {
		n = -n
	}
	return regionPalette[n%len(regionPalette)]
}
