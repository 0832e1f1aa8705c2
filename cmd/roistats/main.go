// Command roistats prints per-band statistics of a rectangular region of a
// hyperspectral file and optionally exports the region.
package main

import (
	"flag"
	"fmt"
	"image"
	"io"
	"os"
	"strconv"
	"strings"

	svimage "spectral-viewer/internal/image"
	"spectral-viewer/internal/roi"
	"spectral-viewer/internal/spectral"
	"spectral-viewer/pkg/geometry"

	"golang.org/x/image/tiff"
)

func main() {
	filePath := flag.String("file", "", "Path to the ENVI header or data file")
	rectSpec := flag.String("rect", "", "Region as x,y,width,height in pixels")
	name := flag.String("name", "Region 1", "Region name")
	outPath := flag.String("out", "", "Export the region to this CSV file")
	withBands := flag.Bool("bands", false, "Include band values in the export")
	snapshot := flag.String("snapshot", "", "Write the region of one band to this TIFF file")
	snapBand := flag.Int("band", 0, "Band for -snapshot")
	flag.Parse()

	if *filePath == "" || *rectSpec == "" {
		fmt.Println("Usage: roistats -file <path> -rect x,y,w,h [-name n] [-out region.csv [-bands]] [-snapshot out.tif -band 0]")
		os.Exit(1)
	}
	rect, err := parseRect(*rectSpec)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid -rect: %v\n", err)
		os.Exit(1)
	}

	f, err := spectral.Open(*filePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open file: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Loaded %s: %d bands, %d samples x %d lines\n", f.Name(), f.BandCount(), f.Samples(), f.Lines())

	region := roi.NewRectRegion(rect, f.Samples(), f.Lines())
	region.SetName(*name)
	region.SetMapInfo(f.MapInfo())
	if len(region.Points()) == 0 {
		fmt.Fprintf(os.Stderr, "Region %v lies outside the image\n", rect)
		os.Exit(1)
	}
	fmt.Printf("Region %q: %s, %d pixels\n\n", region.Name(), region.Description(), len(region.Points()))

	tools := spectral.NewBandTools(f)
	stats := tools.StatisticsPlot(region.Lines(), region.Samples(), region.Name())
	printStats(os.Stdout, f, stats)

	if *outPath != "" {
		if err := roi.Export(region, tools, *outPath, *withBands); err != nil {
			fmt.Fprintf(os.Stderr, "Export failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("\nExported region to %s\n", *outPath)
	}

	if *snapshot != "" {
		if err := writeSnapshot(f, *snapBand, region.Bounds(), *snapshot); err != nil {
			fmt.Fprintf(os.Stderr, "Snapshot failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote band %d snapshot to %s\n", *snapBand, *snapshot)
	}
}

// parseRect parses "x,y,width,height".
func parseRect(s string) (geometry.RectInt, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return geometry.RectInt{}, fmt.Errorf("want x,y,width,height, got %q", s)
	}
	var v [4]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return geometry.RectInt{}, fmt.Errorf("bad value %q: %w", p, err)
		}
		v[i] = n
	}
	if v[2] <= 0 || v[3] <= 0 {
		return geometry.RectInt{}, fmt.Errorf("width and height must be positive, got %dx%d", v[2], v[3])
	}
	return geometry.NewRectInt(v[0], v[1], v[2], v[3]), nil
}

func printStats(w io.Writer, f *spectral.File, stats spectral.BandStatsPlot) {
	fmt.Fprintf(w, "%-32s %12s %12s %12s %12s\n", "Band", "Mean", "Min", "Max", "Std Dev")
	fmt.Fprintln(w, strings.Repeat("-", 84))
	for b := range stats.Mean.Y {
		mean := stats.Mean.Y[b]
		fmt.Fprintf(w, "%-32s %12.4f %12.4f %12.4f %12.4f\n",
			f.BandDescriptor(b).Label(), mean, stats.Min.Y[b], stats.Max.Y[b], stats.PlusOneStd.Y[b]-mean)
	}
}

// writeSnapshot writes the stretched band cropped to bounds as a TIFF.
func writeSnapshot(f *spectral.File, band int, bounds geometry.RectInt, path string) error {
	grey, err := spectral.NewImageTools(f, svimage.DefaultStretch()).GreyscaleImage(band)
	if err != nil {
		return err
	}
	img := grey.Render()
	crop := image.Rect(bounds.X, bounds.Y, bounds.Right(), bounds.Bottom())
	if sub, ok := img.(interface {
		SubImage(image.Rectangle) image.Image
	}); ok {
		img = sub.SubImage(crop)
	}

	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := tiff.Encode(out, img, &tiff.Options{Compression: tiff.Deflate}); err != nil {
		out.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return out.Close()
}
