// Package image provides the displayable image model built from spectral bands:
// greyscale and RGB variants, per-channel stretch cutoffs and rendering.
package image

import (
	"fmt"
	"strings"
)

// Band selects one display channel of an image.
type Band int

const (
	Grey Band = iota
	Red
	Green
	Blue
)

func (b Band) String() string {
	switch b {
	case Grey:
		return "grey"
	case Red:
		return "red"
	case Green:
		return "green"
	case Blue:
		return "blue"
	default:
		return fmt.Sprintf("band(%d)", int(b))
	}
}

// BandDescriptor describes one band of a spectral file as shown to the user.
type BandDescriptor struct {
	FileName   string
	BandName   string
	Wavelength float64 // 0 when the file carries no wavelengths
	Units      string
	BadBand    bool
}

// Label returns a short human readable label, e.g. "Band 12 - 550.00 nm".
func (d BandDescriptor) Label() string {
	var b strings.Builder
	b.WriteString(d.BandName)
	if d.Wavelength != 0 {
		fmt.Fprintf(&b, " - %.2f", d.Wavelength)
		if units := unitSuffix(d.Units); units != "" {
			b.WriteString(" " + units)
		}
	}
	if d.BadBand {
		b.WriteString(" (bad)")
	}
	return b.String()
}

func unitSuffix(units string) string {
	switch strings.ToLower(units) {
	case "nanometers", "nm":
		return "nm"
	case "micrometers", "microns", "um":
		return "um"
	case "", "unknown":
		return ""
	default:
		return units
	}
}
