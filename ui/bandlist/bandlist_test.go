package bandlist

import (
	"testing"

	"spectral-viewer/internal/app"
	svimage "spectral-viewer/internal/image"
)

func descriptors(file string, n int) []svimage.BandDescriptor {
	out := make([]svimage.BandDescriptor, n)
	for i := range out {
		out[i] = svimage.BandDescriptor{FileName: file, BandName: "b", Wavelength: float64(400 + 10*i), Units: "nm"}
	}
	return out
}

func TestNodeIDs(t *testing.T) {
	file, band := parseNode(bandNode("cube.hdr", 12))
	if file != "cube.hdr" || band != 12 {
		t.Fatalf("parsed %q %d", file, band)
	}
	if file, band := parseNode("cube.hdr"); file != "cube.hdr" || band != -1 {
		t.Fatalf("file node parsed as %q %d", file, band)
	}
}

func TestTreeStructure(t *testing.T) {
	b := New()
	b.AddFile("a", descriptors("a", 3))
	b.AddFile("b", descriptors("b", 2))
	b.AddFile("a", descriptors("a", 3))

	roots := b.childUIDs("")
	if len(roots) != 2 || roots[0] != "a" || roots[1] != "b" {
		t.Fatalf("roots = %v", roots)
	}
	if kids := b.childUIDs("a"); len(kids) != 3 || b.isBranch(kids[0]) {
		t.Fatalf("children of a = %v", kids)
	}
	if !b.isBranch("b") || b.childUIDs(bandNode("b", 0)) != nil {
		t.Fatalf("band nodes must be leaves")
	}
}

func TestRequests(t *testing.T) {
	b := New()
	b.AddFile("cube", descriptors("cube", 4))

	var grey []app.BandSelection
	var rgb []app.RGBSelection
	b.Signals().BandSelected.Connect(func(e app.BandSelection) { grey = append(grey, e) })
	b.Signals().RGBSelected.Connect(func(e app.RGBSelection) { rgb = append(rgb, e) })

	if b.RequestGrey() {
		t.Fatalf("grey request without a band selected")
	}
	b.Select("cube", 2)
	if !b.RequestGrey() || len(grey) != 1 || grey[0] != (app.BandSelection{FileName: "cube", Band: 2}) {
		t.Fatalf("grey = %+v", grey)
	}

	if b.RequestRGB(3, 2, 4) || b.RequestRGB(-1, 0, 0) {
		t.Fatalf("out of range RGB request accepted")
	}
	if !b.RequestRGB(3, 2, 1) || rgb[0] != (app.RGBSelection{FileName: "cube", Red: 3, Green: 2, Blue: 1}) {
		t.Fatalf("rgb = %+v", rgb)
	}
}
