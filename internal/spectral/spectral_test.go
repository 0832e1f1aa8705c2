package spectral

import (
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	svimage "spectral-viewer/internal/image"

	"gonum.org/v1/gonum/mat"
)

const sampleHeader = `ENVI
description = {
  Test cube
  two lines}
samples = 3
lines   = 2
bands   = 2
header offset = 0
file type = ENVI Standard
data type = 2
interleave = bil
byte order = 1
wavelength units = Nanometers
band names = { Red, NIR }
wavelength = {
 650.0, 860.0 }
bbl = { 1, 0 }
map info = {UTM, 1.000, 1.000, 500000.000, 4100000.000, 2.0, 2.0, 11, North, WGS-84, units=Meters}
`

func TestParseHeader(t *testing.T) {
	h, err := ParseHeader(strings.NewReader(sampleHeader))
	if err != nil {
		t.Fatalf("ParseHeader: %v", err)
	}
	if h.Samples != 3 || h.Lines != 2 || h.Bands != 2 {
		t.Fatalf("dims = %d %d %d", h.Samples, h.Lines, h.Bands)
	}
	if h.DataType != Int16 || h.Interleave != BIL || !h.BigEndian {
		t.Fatalf("type=%v interleave=%v big=%v", h.DataType, h.Interleave, h.BigEndian)
	}
	if h.Description != "Test cube two lines" {
		t.Fatalf("description = %q", h.Description)
	}
	if len(h.Wavelengths) != 2 || h.Wavelengths[1] != 860 {
		t.Fatalf("wavelengths = %v", h.Wavelengths)
	}
	if len(h.BandNames) != 2 || h.BandNames[1] != "NIR" {
		t.Fatalf("band names = %v", h.BandNames)
	}
	if h.BadBands[0] || !h.BadBands[1] {
		t.Fatalf("bad bands = %v", h.BadBands)
	}
	m := h.MapInfo
	if m == nil || m.Zone != 11 || !m.North || m.Datum != "WGS-84" || m.Units != "Meters" {
		t.Fatalf("map info = %+v", m)
	}
	x, y := m.PixelToMap(2, 1)
	if x != 500004 || y != 4099998 {
		t.Fatalf("PixelToMap = %v, %v", x, y)
	}
}

func TestParseHeaderErrors(t *testing.T) {
	_, err := ParseHeader(strings.NewReader("ENVI\nsamples = 1\nlines = 1\ndata type = 4\n"))
	if !errors.Is(err, ErrMissingField) {
		t.Fatalf("expected ErrMissingField, got %v", err)
	}
	_, err = ParseHeader(strings.NewReader("ENVI\nsamples = 1\nlines = 1\nbands = 1\ndata type = 6\n"))
	if !errors.Is(err, ErrUnsupportedDataType) {
		t.Fatalf("expected ErrUnsupportedDataType, got %v", err)
	}
	if _, err := ParseHeader(strings.NewReader("not a header\n")); err == nil {
		t.Fatalf("expected error for missing ENVI magic")
	}
}

// writeCube writes the sample header and a BIL big-endian int16 cube where
// value = band*100 + line*10 + sample.
func writeCube(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	hdr := filepath.Join(dir, "cube.hdr")
	if err := os.WriteFile(hdr, []byte(sampleHeader), 0644); err != nil {
		t.Fatal(err)
	}
	var data []byte
	for line := 0; line < 2; line++ {
		for band := 0; band < 2; band++ {
			for sample := 0; sample < 3; sample++ {
				data = binary.BigEndian.AppendUint16(data, uint16(band*100+line*10+sample))
			}
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "cube.img"), data, 0644); err != nil {
		t.Fatal(err)
	}
	return hdr
}

func TestOpenBIL(t *testing.T) {
	f, err := Open(writeCube(t))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if f.Name() != "cube.img" {
		t.Fatalf("name = %q", f.Name())
	}
	if got := f.Band(1).At(1, 2); got != 112 {
		t.Fatalf("band 1 (1,2) = %v, want 112", got)
	}
	if s := f.Spectrum(1, 0); s[0] != 10 || s[1] != 110 {
		t.Fatalf("spectrum = %v", s)
	}
	d := f.BandDescriptor(1)
	if d.BandName != "NIR" || d.Wavelength != 860 || !d.BadBand {
		t.Fatalf("descriptor = %+v", d)
	}
}

func TestOpenDataPathAndShortData(t *testing.T) {
	hdr := writeCube(t)
	dataPath := strings.TrimSuffix(hdr, ".hdr") + ".img"
	if _, err := Open(dataPath); err != nil {
		t.Fatalf("Open via data path: %v", err)
	}

	if err := os.WriteFile(dataPath, []byte{0, 1}, 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(hdr); !errors.Is(err, ErrShortData) {
		t.Fatalf("expected ErrShortData, got %v", err)
	}
}

func memFile(t *testing.T) *File {
	t.Helper()
	h := &Header{Samples: 2, Lines: 2, Bands: 2, DataType: Float32, Interleave: BSQ}
	bands := []*mat.Dense{
		mat.NewDense(2, 2, []float64{1, 2, 3, 4}),
		mat.NewDense(2, 2, []float64{10, 20, 30, 40}),
	}
	f, err := NewFile("mem", h, bands)
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	return f
}

func TestStatisticsPlot(t *testing.T) {
	tools := NewBandTools(memFile(t))
	p := tools.StatisticsPlot([]int{0, 1}, []int{0, 1}, "Region: r")
	if p.Title != "Region: r" {
		t.Fatalf("title = %q", p.Title)
	}
	if p.Mean.Y[0] != 2.5 || p.Min.Y[0] != 1 || p.Max.Y[0] != 4 {
		t.Fatalf("band 0 stats mean=%v min=%v max=%v", p.Mean.Y[0], p.Min.Y[0], p.Max.Y[0])
	}
	sd := math.Sqrt(4.5)
	if math.Abs(p.PlusOneStd.Y[0]-(2.5+sd)) > 1e-9 || math.Abs(p.MinusOneStd.Y[0]-(2.5-sd)) > 1e-9 {
		t.Fatalf("std curves = %v %v", p.PlusOneStd.Y[0], p.MinusOneStd.Y[0])
	}
	if len(p.Plots()) != 5 || p.Mean.X[1] != 2 {
		t.Fatalf("unexpected plots %+v", p.Plots())
	}

	single := tools.StatisticsPlot([]int{1}, []int{0}, "one")
	if single.PlusOneStd.Y[1] != 30 || single.MinusOneStd.Y[1] != 30 {
		t.Fatalf("single pixel std should be zero")
	}
}

func TestImageTools(t *testing.T) {
	tools := NewImageTools(memFile(t), svimage.DefaultStretch())
	g, err := tools.GreyscaleImage(1)
	if err != nil {
		t.Fatalf("GreyscaleImage: %v", err)
	}
	if g.Width() != 2 || g.Height() != 2 || g.RawData(svimage.Grey)[3] != 40 {
		t.Fatalf("unexpected greyscale image")
	}
	if _, err := tools.RGBImage(0, 1, 2); err == nil {
		t.Fatalf("expected out of range error")
	}
}
