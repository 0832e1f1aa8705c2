// Package spectral reads ENVI hyperspectral files and provides the band and
// image query facades used by the viewer windows.
package spectral

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var (
	// ErrMissingField is returned when a required header field is absent.
	ErrMissingField = errors.New("missing header field")
	// ErrUnsupportedDataType is returned for ENVI data types the reader cannot decode.
	ErrUnsupportedDataType = errors.New("unsupported data type")
	// ErrShortData is returned when the data file holds fewer values than the header declares.
	ErrShortData = errors.New("data file shorter than header declares")
)

// DataType is the ENVI numeric type code of the raw cube.
type DataType int

const (
	Uint8   DataType = 1
	Int16   DataType = 2
	Int32   DataType = 3
	Float32 DataType = 4
	Float64 DataType = 5
	Uint16  DataType = 12
	Uint32  DataType = 13
)

// Size returns the number of bytes per value, or 0 for unsupported types.
func (d DataType) Size() int {
	switch d {
	case Uint8:
		return 1
	case Int16, Uint16:
		return 2
	case Int32, Uint32, Float32:
		return 4
	case Float64:
		return 8
	default:
		return 0
	}
}

// Interleave is the on-disk ordering of the cube.
type Interleave string

const (
	BSQ Interleave = "bsq"
	BIL Interleave = "bil"
	BIP Interleave = "bip"
)

// offset returns the value index of (band, line, sample).
func (i Interleave) offset(band, line, sample, bands, lines, samples int) int {
	switch i {
	case BIL:
		return (line*bands+band)*samples + sample
	case BIP:
		return (line*samples+sample)*bands + band
	default:
		return (band*lines+line)*samples + sample
	}
}

// Header is a parsed ENVI header.
type Header struct {
	Description     string
	Samples         int
	Lines           int
	Bands           int
	HeaderOffset    int
	DataType        DataType
	Interleave      Interleave
	BigEndian       bool
	Wavelengths     []float64
	WavelengthUnits string
	BandNames       []string
	BadBands        []bool // true marks a bad band; nil when the header has no bbl
	MapInfo         *MapInfo
}

// ByteOrder returns the byte order of the raw data.
func (h *Header) ByteOrder() binary.ByteOrder {
	if h.BigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// ParseHeader reads an ENVI header. Keys are matched case-insensitively and
// brace-delimited values may span several lines.
func ParseHeader(r io.Reader) (*Header, error) {
	fields, err := readFields(r)
	if err != nil {
		return nil, err
	}

	h := &Header{Interleave: BSQ}
	for _, key := range []string{"samples", "lines", "bands", "data type"} {
		if _, ok := fields[key]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingField, key)
		}
	}

	ints := map[string]*int{
		"samples":       &h.Samples,
		"lines":         &h.Lines,
		"bands":         &h.Bands,
		"header offset": &h.HeaderOffset,
	}
	for key, dst := range ints {
		v, ok := fields[key]
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("header field %s: %w", key, err)
		}
		*dst = n
	}
	if h.Samples <= 0 || h.Lines <= 0 || h.Bands <= 0 {
		return nil, fmt.Errorf("invalid dimensions %dx%dx%d", h.Samples, h.Lines, h.Bands)
	}

	dt, err := strconv.Atoi(fields["data type"])
	if err != nil {
		return nil, fmt.Errorf("header field data type: %w", err)
	}
	h.DataType = DataType(dt)
	if h.DataType.Size() == 0 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedDataType, dt)
	}

	if v, ok := fields["interleave"]; ok {
		switch il := Interleave(strings.ToLower(v)); il {
		case BSQ, BIL, BIP:
			h.Interleave = il
		default:
			return nil, fmt.Errorf("unknown interleave %q", v)
		}
	}
	if v, ok := fields["byte order"]; ok {
		h.BigEndian = v == "1"
	}

	h.Description = strings.TrimSpace(unbrace(fields["description"]))
	h.WavelengthUnits = fields["wavelength units"]

	if v, ok := fields["wavelength"]; ok {
		h.Wavelengths, err = parseFloats(v)
		if err != nil {
			return nil, fmt.Errorf("header field wavelength: %w", err)
		}
		if len(h.Wavelengths) != h.Bands {
			return nil, fmt.Errorf("header has %d wavelengths for %d bands", len(h.Wavelengths), h.Bands)
		}
	}
	if v, ok := fields["band names"]; ok {
		h.BandNames = splitList(v)
		if len(h.BandNames) != h.Bands {
			h.BandNames = nil
		}
	}
	if v, ok := fields["bbl"]; ok {
		flags, err := parseFloats(v)
		if err != nil {
			return nil, fmt.Errorf("header field bbl: %w", err)
		}
		if len(flags) == h.Bands {
			h.BadBands = make([]bool, len(flags))
			for i, f := range flags {
				h.BadBands[i] = f == 0
			}
		}
	}
	if v, ok := fields["map info"]; ok {
		h.MapInfo, err = ParseMapInfo(v)
		if err != nil {
			return nil, err
		}
	}
	return h, nil
}

func readFields(r io.Reader) (map[string]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("failed to read header: %w", err)
		}
		return nil, errors.New("empty header")
	}
	if strings.TrimSpace(scanner.Text()) != "ENVI" {
		return nil, errors.New("not an ENVI header")
	}

	fields := make(map[string]string)
	var key string
	var value strings.Builder
	open := false

	for scanner.Scan() {
		line := scanner.Text()
		if open {
			value.WriteString(" " + strings.TrimSpace(line))
			if strings.Contains(line, "}") {
				fields[key] = strings.TrimSpace(value.String())
				open = false
			}
			continue
		}
		eq := strings.Index(line, "=")
		if eq < 0 {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(line[:eq]))
		v := strings.TrimSpace(line[eq+1:])
		if strings.HasPrefix(v, "{") && !strings.Contains(v, "}") {
			value.Reset()
			value.WriteString(v)
			open = true
			continue
		}
		fields[key] = v
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if open {
		return nil, fmt.Errorf("unterminated value for %q", key)
	}
	return fields, nil
}

func unbrace(v string) string {
	v = strings.TrimSpace(v)
	v = strings.TrimPrefix(v, "{")
	return strings.TrimSuffix(v, "}")
}

func splitList(v string) []string {
	parts := strings.Split(unbrace(v), ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseFloats(v string) ([]float64, error) {
	parts := splitList(v)
	out := make([]float64, len(parts))
	for i, p := range parts {
		f, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}

// MapInfo is the georeference carried by an ENVI "map info" field.
type MapInfo struct {
	Projection string
	// Reference pixel, 1-based as in ENVI: (1, 1) is the upper left corner
	// of the upper left pixel.
	RefX, RefY float64
	Easting    float64
	Northing   float64
	PixelSizeX float64
	PixelSizeY float64
	Zone       int
	North      bool
	Datum      string
	Units      string
}

// ParseMapInfo parses the brace-delimited map info value.
func ParseMapInfo(v string) (*MapInfo, error) {
	parts := splitList(v)
	if len(parts) < 7 {
		return nil, fmt.Errorf("map info has %d fields, want at least 7", len(parts))
	}

	m := &MapInfo{Projection: parts[0]}
	nums := []*float64{&m.RefX, &m.RefY, &m.Easting, &m.Northing, &m.PixelSizeX, &m.PixelSizeY}
	for i, dst := range nums {
		f, err := strconv.ParseFloat(parts[i+1], 64)
		if err != nil {
			return nil, fmt.Errorf("map info field %d: %w", i+1, err)
		}
		*dst = f
	}

	rest := parts[7:]
	if strings.EqualFold(m.Projection, "UTM") && len(rest) >= 2 {
		zone, err := strconv.Atoi(rest[0])
		if err != nil {
			return nil, fmt.Errorf("map info zone: %w", err)
		}
		m.Zone = zone
		m.North = strings.EqualFold(rest[1], "North")
		rest = rest[2:]
	}
	for _, p := range rest {
		if k, val, ok := strings.Cut(p, "="); ok {
			if strings.EqualFold(strings.TrimSpace(k), "units") {
				m.Units = strings.TrimSpace(val)
			}
			continue
		}
		if m.Datum == "" {
			m.Datum = p
		}
	}
	return m, nil
}

// PixelToMap converts a 0-based pixel coordinate to map coordinates.
func (m *MapInfo) PixelToMap(sample, line float64) (x, y float64) {
	x = m.Easting + (sample+1-m.RefX)*m.PixelSizeX
	y = m.Northing - (line+1-m.RefY)*m.PixelSizeY
	return x, y
}

func (m *MapInfo) String() string {
	s := fmt.Sprintf("%s, ref (%g, %g), origin (%g, %g), pixel %gx%g",
		m.Projection, m.RefX, m.RefY, m.Easting, m.Northing, m.PixelSizeX, m.PixelSizeY)
	if m.Zone != 0 {
		hemi := "South"
		if m.North {
			hemi = "North"
		}
		s += fmt.Sprintf(", zone %d %s", m.Zone, hemi)
	}
	if m.Datum != "" {
		s += ", " + m.Datum
	}
	if m.Units != "" {
		s += ", " + m.Units
	}
	return s
}
