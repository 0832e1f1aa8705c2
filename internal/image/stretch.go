package image

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Stretch configures the default low and high cutoffs of a channel as
// percentiles of its raw data.
type Stretch struct {
	LowPercent  float64
	HighPercent float64
}

// DefaultStretch is a 2% linear stretch.
func DefaultStretch() Stretch {
	return Stretch{LowPercent: 2, HighPercent: 98}
}

func (s Stretch) normalized() Stretch {
	if s.LowPercent < 0 || s.LowPercent > 100 || s.HighPercent < 0 || s.HighPercent > 100 ||
		s.LowPercent >= s.HighPercent {
		return DefaultStretch()
	}
	return s
}

// channel holds one display channel: raw values in row-major order, the
// current cutoffs and the 8-bit values derived from them.
type channel struct {
	raw         []float64
	low, high   float64
	defaultLow  float64
	defaultHigh float64
	adjusted    []uint8
}

func newChannel(raw []float64, s Stretch) *channel {
	s = s.normalized()
	c := &channel{raw: raw, adjusted: make([]uint8, len(raw))}

	sorted := make([]float64, 0, len(raw))
	for _, v := range raw {
		if !math.IsNaN(v) {
			sorted = append(sorted, v)
		}
	}
	if len(sorted) > 0 {
		sort.Float64s(sorted)
		c.defaultLow = stat.Quantile(s.LowPercent/100, stat.Empirical, sorted, nil)
		c.defaultHigh = stat.Quantile(s.HighPercent/100, stat.Empirical, sorted, nil)
	}
	c.low, c.high = c.defaultLow, c.defaultHigh
	c.adjust()
	return c
}

func (c *channel) reset() {
	c.low, c.high = c.defaultLow, c.defaultHigh
}

// adjust recomputes the 8-bit values by mapping [low, high] linearly onto [0, 255].
func (c *channel) adjust() {
	span := c.high - c.low
	for i, v := range c.raw {
		switch {
		case math.IsNaN(v) || v <= c.low:
			c.adjusted[i] = 0
		case v >= c.high || span <= 0:
			c.adjusted[i] = 255
		default:
			c.adjusted[i] = uint8(math.Round((v - c.low) / span * 255))
		}
	}
}
