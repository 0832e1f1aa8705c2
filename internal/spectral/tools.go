package spectral

import (
	"fmt"
	"image/color"
	"math"

	svimage "spectral-viewer/internal/image"
	"spectral-viewer/pkg/colorutil"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// PlotData is one curve to be drawn by a plot window.
type PlotData struct {
	X      []float64
	Y      []float64
	Title  string
	XLabel string
	YLabel string
	Legend string
	Color  color.RGBA
	Dashed bool
}

// BandStatsPlot holds the per-band statistics curves of a set of pixels.
type BandStatsPlot struct {
	Title       string
	Mean        PlotData
	Min         PlotData
	Max         PlotData
	PlusOneStd  PlotData
	MinusOneStd PlotData
}

// Plots returns the curves in drawing order.
func (p BandStatsPlot) Plots() []PlotData {
	return []PlotData{p.Mean, p.Min, p.Max, p.PlusOneStd, p.MinusOneStd}
}

// BandTools answers spectral queries against one file.
type BandTools struct {
	file *File
}

// NewBandTools creates band tools over f.
func NewBandTools(f *File) *BandTools {
	return &BandTools{file: f}
}

func (t *BandTools) File() *File { return t.file }
func (t *BandTools) BandCount() int { return t.file.BandCount() }
func (t *BandTools) Wavelengths() []float64 { return t.file.Wavelengths() }
func (t *BandTools) Spectrum(line, sample int) []float64 {
	return t.file.Spectrum(line, sample)
}

// xAxis returns the wavelengths, or 1-based band numbers when the file has none.
func (t *BandTools) xAxis() ([]float64, string) {
	if w := t.file.Wavelengths(); w != nil {
		label := "Wavelength"
		if u := t.file.Header().WavelengthUnits; u != "" {
			label += " (" + u + ")"
		}
		return w, label
	}
	x := make([]float64, t.file.BandCount())
	for i := range x {
		x[i] = float64(i + 1)
	}
	return x, "Band"
}

// SpectralPlot returns the spectrum at one pixel.
func (t *BandTools) SpectralPlot(line, sample int) PlotData {
	x, xLabel := t.xAxis()
	return PlotData{
		X:      x,
		Y:      t.file.Spectrum(line, sample),
		Title:  fmt.Sprintf("Spectra: %s", t.file.Name()),
		XLabel: xLabel,
		YLabel: "Value",
		Legend: fmt.Sprintf("Sample %d, Line %d", sample, line),
		Color:  colorutil.Blue,
	}
}

// Spectra returns the spectrum of every listed pixel; lines and samples are parallel.
func (t *BandTools) Spectra(lines, samples []int) [][]float64 {
	out := make([][]float64, len(lines))
	for i := range lines {
		out[i] = t.file.Spectrum(lines[i], samples[i])
	}
	return out
}

// StatisticsPlot computes, for every band, the mean, min, max and mean +/- one
// standard deviation over the listed pixels.
func (t *BandTools) StatisticsPlot(lines, samples []int, title string) BandStatsPlot {
	if len(lines) != len(samples) {
		panic(fmt.Sprintf("statistics plot: %d lines, %d samples", len(lines), len(samples)))
	}
	x, xLabel := t.xAxis()
	n := t.file.BandCount()
	mean := make([]float64, n)
	lo := make([]float64, n)
	hi := make([]float64, n)
	plus := make([]float64, n)
	minus := make([]float64, n)

	values := make([]float64, len(lines))
	for b := 0; b < n; b++ {
		if len(values) == 0 {
			mean[b], lo[b], hi[b], plus[b], minus[b] = math.NaN(), math.NaN(), math.NaN(), math.NaN(), math.NaN()
			continue
		}
		band := t.file.Band(b)
		for i := range lines {
			values[i] = band.At(lines[i], samples[i])
		}
		m, sd := stat.MeanStdDev(values, nil)
		if len(values) == 1 {
			sd = 0
		}
		mean[b] = m
		lo[b] = floats.Min(values)
		hi[b] = floats.Max(values)
		plus[b] = m + sd
		minus[b] = m - sd
	}

	curve := func(y []float64, legend string, c color.RGBA, dashed bool) PlotData {
		return PlotData{
			X: x, Y: y, Title: title, XLabel: xLabel, YLabel: "Value",
			Legend: legend, Color: c, Dashed: dashed,
		}
	}
	return BandStatsPlot{
		Title:       title,
		Mean:        curve(mean, "Mean", colorutil.Black, false),
		Min:         curve(lo, "Min", colorutil.Blue, false),
		Max:         curve(hi, "Max", colorutil.Red, false),
		PlusOneStd:  curve(plus, "Mean + 1 Std Dev", colorutil.Green, true),
		MinusOneStd: curve(minus, "Mean - 1 Std Dev", colorutil.Green, true),
	}
}

// ImageTools builds displayable images from the bands of one file.
type ImageTools struct {
	file    *File
	stretch svimage.Stretch
}

// NewImageTools creates image tools over f using stretch for default cutoffs.
func NewImageTools(f *File, stretch svimage.Stretch) *ImageTools {
	return &ImageTools{file: f, stretch: stretch}
}

// GreyscaleImage builds a greyscale image of one band.
func (t *ImageTools) GreyscaleImage(band int) (*svimage.Greyscale, error) {
	if err := t.checkBand(band); err != nil {
		return nil, err
	}
	return svimage.NewGreyscale(t.file.BandData(band), t.file.Samples(), t.file.Lines(),
		t.file.BandDescriptor(band), t.stretch), nil
}

// RGBImage builds a composite image from three bands.
func (t *ImageTools) RGBImage(red, green, blue int) (*svimage.RGB, error) {
	for _, b := range []int{red, green, blue} {
		if err := t.checkBand(b); err != nil {
			return nil, err
		}
	}
	return svimage.NewRGB(t.file.BandData(red), t.file.BandData(green), t.file.BandData(blue),
		t.file.Samples(), t.file.Lines(),
		[3]svimage.BandDescriptor{t.file.BandDescriptor(red), t.file.BandDescriptor(green), t.file.BandDescriptor(blue)},
		t.stretch), nil
}

func (t *ImageTools) checkBand(b int) error {
	if b < 0 || b >= t.file.BandCount() {
		return fmt.Errorf("band %d out of range for %s (%d bands)", b, t.file.Name(), t.file.BandCount())
	}
	return nil
}
