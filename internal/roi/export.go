package roi

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// SpectrumSource supplies the band values of single pixels.
type SpectrumSource interface {
	BandCount() int
	Wavelengths() []float64
	Spectrum(line, sample int) []float64
}

// Exporter writes a region to path.
type Exporter func(region *Region, source SpectrumSource, path string, includeBands bool) error

// Export writes region as CSV: a "#" comment preamble describing the region
// followed by one row per pixel with its sample, line, map coordinates when
// the region is georeferenced and, optionally, every band value.
func Export(region *Region, source SpectrumSource, path string, includeBands bool) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	buf := bufio.NewWriter(f)
	if err := writeRegion(buf, region, source, includeBands); err != nil {
		f.Close()
		return err
	}
	if err := buf.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

func writeRegion(w *bufio.Writer, region *Region, source SpectrumSource, includeBands bool) error {
	mi := region.MapInfo()

	fmt.Fprintf(w, "# name: %s\n", region.Name())
	fmt.Fprintf(w, "# description: %s\n", region.Description())
	fmt.Fprintf(w, "# size (h x w): %d x %d\n", region.ImageHeight(), region.ImageWidth())
	fmt.Fprintf(w, "# pixels: %d\n", len(region.Points()))
	if mi != nil {
		fmt.Fprintf(w, "# map info: %s\n", mi)
	}

	header := []string{"sample", "line"}
	if mi != nil {
		header = append(header, "x_coordinate", "y_coordinate")
	}
	if includeBands {
		header = append(header, bandColumns(source)...)
	}
	fmt.Fprintf(w, "# data:\n")

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	record := make([]string, 0, len(header))
	for _, p := range region.Points() {
		record = record[:0]
		record = append(record, strconv.Itoa(p.X), strconv.Itoa(p.Y))
		if mi != nil {
			x, y := mi.PixelToMap(float64(p.X), float64(p.Y))
			record = append(record, formatFloat(x), formatFloat(y))
		}
		if includeBands {
			for _, v := range source.Spectrum(p.Y, p.X) {
				record = append(record, formatFloat(v))
			}
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write pixel %v: %w", p, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// bandColumns names band columns by wavelength, or "band_N" without wavelengths.
func bandColumns(source SpectrumSource) []string {
	cols := make([]string, source.BandCount())
	wavelengths := source.Wavelengths()
	for i := range cols {
		if wavelengths != nil {
			cols[i] = formatFloat(wavelengths[i])
		} else {
			cols[i] = "band_" + strconv.Itoa(i+1)
		}
	}
	return cols
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
