package image

import (
	"fmt"
	"image"
)

// Image is a displayable image derived from one or three spectral bands.
// The set of implementations is closed: *Greyscale and *RGB.
type Image interface {
	Label() string
	Width() int
	Height() int
	// Bands lists the channels carried by the image, Grey or Red/Green/Blue.
	Bands() []Band
	LowCutoff(b Band) float64
	HighCutoff(b Band) float64
	SetLowCutoff(v float64, b Band)
	SetHighCutoff(v float64, b Band)
	// ResetStretch restores every channel's default cutoffs.
	ResetStretch()
	// Adjust recomputes the displayed values from the current cutoffs.
	Adjust()
	RawData(b Band) []float64
	AdjustedData(b Band) []uint8
	// Render returns the adjusted image, *image.Gray or *image.RGBA.
	Render() image.Image

	sealed()
}

// Greyscale is a single band image.
type Greyscale struct {
	label      string
	width      int
	height     int
	descriptor BandDescriptor
	grey       *channel
}

// NewGreyscale builds a greyscale image from raw band values in row-major order.
func NewGreyscale(raw []float64, width, height int, descriptor BandDescriptor, s Stretch) *Greyscale {
	if len(raw) != width*height {
		panic(fmt.Sprintf("greyscale image %q: %d values for %dx%d", descriptor.Label(), len(raw), width, height))
	}
	return &Greyscale{
		label:      descriptor.FileName + ": " + descriptor.Label(),
		width:      width,
		height:     height,
		descriptor: descriptor,
		grey:       newChannel(raw, s),
	}
}

func (g *Greyscale) sealed() {}

func (g *Greyscale) Label() string { return g.label }
func (g *Greyscale) Width() int { return g.width }
func (g *Greyscale) Height() int { return g.height }
func (g *Greyscale) Bands() []Band { return []Band{Grey} }
func (g *Greyscale) Descriptor() BandDescriptor { return g.descriptor }
func (g *Greyscale) LowCutoff(b Band) float64 { return g.channel(b).low }
func (g *Greyscale) HighCutoff(b Band) float64 { return g.channel(b).high }
func (g *Greyscale) SetLowCutoff(v float64, b Band) { g.channel(b).low = v }
func (g *Greyscale) SetHighCutoff(v float64, b Band) { g.channel(b).high = v }
func (g *Greyscale) ResetStretch() { g.grey.reset() }
func (g *Greyscale) Adjust() { g.grey.adjust() }
func (g *Greyscale) RawData(b Band) []float64 { return g.channel(b).raw }
func (g *Greyscale) AdjustedData(b Band) []uint8 { return g.channel(b).adjusted }

// Render returns the adjusted band as an 8-bit grey image.
func (g *Greyscale) Render() image.Image {
	out := image.NewGray(image.Rect(0, 0, g.width, g.height))
	copy(out.Pix, g.grey.adjusted)
	return out
}

func (g *Greyscale) channel(b Band) *channel {
	if b != Grey {
		panic(fmt.Sprintf("greyscale image has no %s channel", b))
	}
	return g.grey
}

// RGB is a three band composite image.
type RGB struct {
	label       string
	width       int
	height      int
	descriptors [3]BandDescriptor
	red         *channel
	green       *channel
	blue        *channel
}

// NewRGB builds a composite image from three raw bands in row-major order.
func NewRGB(red, green, blue []float64, width, height int, descriptors [3]BandDescriptor, s Stretch) *RGB {
	for _, raw := range [][]float64{red, green, blue} {
		if len(raw) != width*height {
			panic(fmt.Sprintf("rgb image: %d values for %dx%d", len(raw), width, height))
		}
	}
	return &RGB{
		label: fmt.Sprintf("%s: R %s, G %s, B %s", descriptors[0].FileName,
			descriptors[0].Label(), descriptors[1].Label(), descriptors[2].Label()),
		width:       width,
		height:      height,
		descriptors: descriptors,
		red:         newChannel(red, s),
		green:       newChannel(green, s),
		blue:        newChannel(blue, s),
	}
}

func (c *RGB) sealed() {}

func (c *RGB) Label() string { return c.label }
func (c *RGB) Width() int { return c.width }
func (c *RGB) Height() int { return c.height }
func (c *RGB) Bands() []Band { return []Band{Red, Green, Blue} }
func (c *RGB) Descriptors() [3]BandDescriptor { return c.descriptors }
func (c *RGB) LowCutoff(b Band) float64 { return c.channel(b).low }
func (c *RGB) HighCutoff(b Band) float64 { return c.channel(b).high }
func (c *RGB) SetLowCutoff(v float64, b Band) { c.channel(b).low = v }
func (c *RGB) SetHighCutoff(v float64, b Band) { c.channel(b).high = v }
func (c *RGB) RawData(b Band) []float64 { return c.channel(b).raw }
func (c *RGB) AdjustedData(b Band) []uint8 { return c.channel(b).adjusted }

func (c *RGB) ResetStretch() {
	c.red.reset()
	c.green.reset()
	c.blue.reset()
}

func (c *RGB) Adjust() {
	c.red.adjust()
	c.green.adjust()
	c.blue.adjust()
}

// Render composes the three adjusted channels.
func (c *RGB) Render() image.Image {
	return Compose(c.red.adjusted, c.green.adjusted, c.blue.adjusted, c.width, c.height)
}

func (c *RGB) channel(b Band) *channel {
	switch b {
	case Red:
		return c.red
	case Green:
		return c.green
	case Blue:
		return c.blue
	default:
		panic(fmt.Sprintf("rgb image has no %s channel", b))
	}
}

// BandsOf returns the channels of img. It panics on an unknown variant.
func BandsOf(img Image) []Band {
	switch img.(type) {
	case *Greyscale:
		return []Band{Grey}
	case *RGB:
		return []Band{Red, Green, Blue}
	default:
		panic(fmt.Sprintf("image type not recognized: %T", img))
	}
}

// Histogram is the binned intensity distribution of one channel together
// with the channel's current cutoffs.
type Histogram struct {
	Band   Band
	Counts []float64
	Edges  []float64 // len(Counts)+1 bin edges
	Low    float64
	High   float64
}

// Centers returns the midpoint of every bin.
func (h Histogram) Centers() []float64 {
	if len(h.Edges) < 2 {
		return nil
	}
	centers := make([]float64, len(h.Edges)-1)
	for i := range centers {
		centers[i] = (h.Edges[i] + h.Edges[i+1]) / 2
	}
	return centers
}
