// Package histogram computes raw and adjusted channel histograms of a
// displayed image with OpenCV.
package histogram

import (
	svimage "spectral-viewer/internal/image"

	"gocv.io/x/gocv"
)

// DefaultBins is used when a non-positive bin count is configured.
const DefaultBins = 256

// Tools computes histograms for one image. Results reflect the image's
// current cutoffs and adjusted data at the time of the call.
type Tools struct {
	img  svimage.Image
	bins int
}

// NewTools creates histogram tools over img.
func NewTools(img svimage.Image, bins int) *Tools {
	if bins <= 0 {
		bins = DefaultBins
	}
	return &Tools{img: img, bins: bins}
}

// Image returns the image the histograms are computed from.
func (t *Tools) Image() svimage.Image { return t.img }

// RawHistogram bins the raw channel values over their full range.
func (t *Tools) RawHistogram(band svimage.Band) svimage.Histogram {
	raw := t.img.RawData(band)
	w, h := t.img.Width(), t.img.Height()

	mat := gocv.NewMatWithSize(h, w, gocv.MatTypeCV32F)
	defer mat.Close()
	for i, v := range raw {
		mat.SetFloatAt(i/w, i%w, float32(v))
	}

	lo, hi, _, _ := gocv.MinMaxLoc(mat)
	low, high := float64(lo), float64(hi)
	if high <= low {
		high = low + 1
	} else {
		// CalcHist treats the upper range bound as exclusive.
		high += (high - low) / float64(t.bins*1000)
	}
	return t.calc(mat, band, low, high)
}

// AdjustedHistogram bins the 8-bit adjusted channel over [0, 256).
func (t *Tools) AdjustedHistogram(band svimage.Band) svimage.Histogram {
	adjusted := t.img.AdjustedData(band)
	mat, err := gocv.NewMatFromBytes(t.img.Height(), t.img.Width(), gocv.MatTypeCV8U, adjusted)
	if err != nil {
		return svimage.Histogram{Band: band, Low: t.img.LowCutoff(band), High: t.img.HighCutoff(band)}
	}
	defer mat.Close()
	return t.calc(mat, band, 0, 256)
}

func (t *Tools) calc(src gocv.Mat, band svimage.Band, low, high float64) svimage.Histogram {
	hist := gocv.NewMat()
	defer hist.Close()
	mask := gocv.NewMat()
	defer mask.Close()

	gocv.CalcHist([]gocv.Mat{src}, []int{0}, mask, &hist, []int{t.bins}, []float64{low, high}, false)

	counts := make([]float64, t.bins)
	for i := range counts {
		counts[i] = float64(hist.GetFloatAt(i, 0))
	}
	edges := make([]float64, t.bins+1)
	step := (high - low) / float64(t.bins)
	for i := range edges {
		edges[i] = low + float64(i)*step
	}
	return svimage.Histogram{
		Band:   band,
		Counts: counts,
		Edges:  edges,
		Low:    t.img.LowCutoff(band),
		High:   t.img.HighCutoff(band),
	}
}
