package export

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"genland/internal/terrain"
)

func TestSavePNGRoundTrip(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 80), G: uint8(y * 100), B: 200, A: 255})
		}
	}
	path := filepath.Join(t.TempDir(), "map.png")
	if err := SavePNG(path, img); err != nil {
		t.Fatalf("SavePNG: %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer file.Close()
	decoded, err := png.Decode(file)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Bounds() != img.Bounds() {
		t.Fatalf("bounds = %v, want %v", decoded.Bounds(), img.Bounds())
	}
	gr, gg, gb, ga := decoded.At(2, 1).RGBA()
	wr, wg, wb, wa := img.At(2, 1).RGBA()
	if gr != wr || gg != wg || gb != wb || ga != wa {
		t.Fatalf("pixel (2,1) = %v, want %v", decoded.At(2, 1), img.At(2, 1))
	}
}

func quantizeTestMap() *terrain.Map {
	return &terrain.Map{
		Size: 2,
		Cells: []terrain.Cell{
			{Color: terrain.RGB{R: 10, G: 10, B: 10}, Height: 1},
			{Color: terrain.RGB{R: 10, G: 10, B: 10}, Height: 2},
			{Color: terrain.RGB{R: 250, G: 250, B: 250}, Height: 3},
			{Color: terrain.RGB{R: 250, G: 250, B: 250}, Height: 4},
		},
	}
}

func TestQuantizeMapToSingleColor(t *testing.T) {
	m := quantizeTestMap()
	pal, err := QuantizeMap(m, 1)
	if err != nil {
		t.Fatalf("QuantizeMap: %v", err)
	}
	if pal.Len() != 1 {
		t.Fatalf("palette size = %d, want 1", pal.Len())
	}
	mean := terrain.RGB{R: 130, G: 130, B: 130}
	for i, cell := range m.Cells {
		if cell.Color != mean {
			t.Errorf("cell %d color = %v, want %v", i, cell.Color, mean)
		}
	}
	for i, want := range []uint8{1, 2, 3, 4} {
		if m.Cells[i].Height != want {
			t.Errorf("cell %d height = %d, want %d (heights must survive quantization)", i, m.Cells[i].Height, want)
		}
	}
}

func TestQuantizeMapKeepsDistinctClusters(t *testing.T) {
	m := quantizeTestMap()
	pal, err := QuantizeMap(m, 2)
	if err != nil {
		t.Fatalf("QuantizeMap: %v", err)
	}
	if pal.Len() != 2 {
		t.Fatalf("palette size = %d, want 2", pal.Len())
	}
	want := quantizeTestMap()
	for i := range m.Cells {
		if m.Cells[i] != want.Cells[i] {
			t.Errorf("cell %d = %v, want unchanged %v", i, m.Cells[i], want.Cells[i])
		}
	}
}

func TestQuantizeMapRejectsBadSize(t *testing.T) {
	if _, err := QuantizeMap(quantizeTestMap(), 0); err == nil {
		t.Fatal("QuantizeMap(0) accepted")
	}
	if _, err := QuantizeMap(quantizeTestMap(), 257); err == nil {
		t.Fatal("QuantizeMap(257) accepted")
	}
}
