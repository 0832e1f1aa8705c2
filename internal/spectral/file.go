package spectral

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	svimage "spectral-viewer/internal/image"

	"gonum.org/v1/gonum/mat"
)

// dataExtensions are tried, in order, when locating the data file next to a header.
var dataExtensions = []string{"", ".img", ".dat", ".raw", ".bsq", ".bil", ".bip"}

// File is an opened hyperspectral cube. Each band is held as a lines x samples matrix.
type File struct {
	name   string
	path   string
	header *Header
	bands  []*mat.Dense
}

// NewFile builds a file from in-memory bands. Every band must be header.Lines x header.Samples.
func NewFile(name string, header *Header, bands []*mat.Dense) (*File, error) {
	if len(bands) != header.Bands {
		return nil, fmt.Errorf("file %s: %d bands, header declares %d", name, len(bands), header.Bands)
	}
	for i, b := range bands {
		r, c := b.Dims()
		if r != header.Lines || c != header.Samples {
			return nil, fmt.Errorf("file %s: band %d is %dx%d, want %dx%d", name, i, r, c, header.Lines, header.Samples)
		}
	}
	return &File{name: name, header: header, bands: bands}, nil
}

// Open reads an ENVI file given either its header or its data file path.
func Open(path string) (*File, error) {
	hdrPath, dataPath, err := locate(path)
	if err != nil {
		return nil, err
	}

	hf, err := os.Open(hdrPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open header: %w", err)
	}
	header, err := ParseHeader(hf)
	hf.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", hdrPath, err)
	}

	raw, err := os.ReadFile(dataPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read data: %w", err)
	}
	bands, err := decode(raw, header)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", dataPath, err)
	}

	return &File{
		name:   filepath.Base(dataPath),
		path:   dataPath,
		header: header,
		bands:  bands,
	}, nil
}

func locate(path string) (hdrPath, dataPath string, err error) {
	if strings.EqualFold(filepath.Ext(path), ".hdr") {
		base := strings.TrimSuffix(path, filepath.Ext(path))
		for _, ext := range dataExtensions {
			if fileExists(base + ext) {
				return path, base + ext, nil
			}
		}
		return "", "", fmt.Errorf("no data file found for header %s", path)
	}

	candidates := []string{path + ".hdr", strings.TrimSuffix(path, filepath.Ext(path)) + ".hdr"}
	for _, c := range candidates {
		if fileExists(c) {
			return c, path, nil
		}
	}
	return "", "", fmt.Errorf("no header found for %s", path)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// decode splits the raw cube into per-band matrices according to the header.
func decode(raw []byte, h *Header) ([]*mat.Dense, error) {
	size := h.DataType.Size()
	if size == 0 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedDataType, h.DataType)
	}
	count := h.Samples * h.Lines * h.Bands
	if h.HeaderOffset < 0 || len(raw) < h.HeaderOffset+count*size {
		return nil, fmt.Errorf("%w: have %d bytes, need %d", ErrShortData, len(raw), h.HeaderOffset+count*size)
	}
	raw = raw[h.HeaderOffset:]

	order := h.ByteOrder()
	value := func(i int) float64 {
		b := raw[i*size : (i+1)*size]
		switch h.DataType {
		case Uint8:
			return float64(b[0])
		case Int16:
			return float64(int16(order.Uint16(b)))
		case Uint16:
			return float64(order.Uint16(b))
		case Int32:
			return float64(int32(order.Uint32(b)))
		case Uint32:
			return float64(order.Uint32(b))
		case Float32:
			return float64(math.Float32frombits(order.Uint32(b)))
		default:
			return math.Float64frombits(order.Uint64(b))
		}
	}

	bands := make([]*mat.Dense, h.Bands)
	for b := range bands {
		data := make([]float64, h.Lines*h.Samples)
		for l := 0; l < h.Lines; l++ {
			for s := 0; s < h.Samples; s++ {
				data[l*h.Samples+s] = value(h.Interleave.offset(b, l, s, h.Bands, h.Lines, h.Samples))
			}
		}
		bands[b] = mat.NewDense(h.Lines, h.Samples, data)
	}
	return bands, nil
}

// Name returns the file name used as the file's identity in the viewer.
func (f *File) Name() string { return f.name }

// Path returns the data file path, empty for in-memory files.
func (f *File) Path() string { return f.path }
func (f *File) Header() *Header { return f.header }
func (f *File) BandCount() int { return len(f.bands) }
func (f *File) Lines() int { return f.header.Lines }
func (f *File) Samples() int { return f.header.Samples }
func (f *File) MapInfo() *MapInfo { return f.header.MapInfo }

// Band returns band i as a lines x samples matrix.
func (f *File) Band(i int) *mat.Dense { return f.bands[i] }

// BandData returns a row-major copy of band i.
func (f *File) BandData(i int) []float64 {
	m := f.bands[i]
	rows, cols := m.Dims()
	out := make([]float64, rows*cols)
	for r := 0; r < rows; r++ {
		copy(out[r*cols:(r+1)*cols], m.RawRowView(r))
	}
	return out
}

// Spectrum returns the value of every band at one pixel.
func (f *File) Spectrum(line, sample int) []float64 {
	out := make([]float64, len(f.bands))
	for i, b := range f.bands {
		out[i] = b.At(line, sample)
	}
	return out
}

// Wavelengths returns the band wavelengths, or nil when the header has none.
func (f *File) Wavelengths() []float64 { return f.header.Wavelengths }

// BandDescriptor describes band i for display.
func (f *File) BandDescriptor(i int) svimage.BandDescriptor {
	d := svimage.BandDescriptor{
		FileName: f.name,
		BandName: fmt.Sprintf("Band %d", i+1),
		Units:    f.header.WavelengthUnits,
	}
	if f.header.BandNames != nil {
		d.BandName = f.header.BandNames[i]
	}
	if f.header.Wavelengths != nil {
		d.Wavelength = f.header.Wavelengths[i]
	}
	if f.header.BadBands != nil {
		d.BadBand = f.header.BadBands[i]
	}
	return d
}

// BandDescriptors describes every band of the file.
func (f *File) BandDescriptors() []svimage.BandDescriptor {
	out := make([]svimage.BandDescriptor, len(f.bands))
	for i := range out {
		out[i] = f.BandDescriptor(i)
	}
	return out
}
