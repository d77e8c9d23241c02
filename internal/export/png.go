package export

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"genland/internal/palette"
	"genland/internal/terrain"
)

// SavePNG writes img to path. Paletted images come out as indexed PNGs.
func SavePNG(path string, img image.Image) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create png: %w", err)
	}
	defer file.Close()
	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// QuantizeMap reduces the map to at most maxColors colors, replacing
// every cell color with its palette representative in place. Heights are
// left alone. Returns the realized palette.
func QuantizeMap(m *terrain.Map, maxColors int) (*palette.Palette, error) {
	q := palette.NewQuantizer()
	if err := q.AddImage(m.Image()); err != nil {
		return nil, fmt.Errorf("accumulate histogram: %w", err)
	}
	pal, err := q.Build(maxColors)
	if err != nil {
		return nil, fmt.Errorf("build palette: %w", err)
	}
	for i := range m.Cells {
		c := &m.Cells[i].Color
		mapped := pal.Lookup(c.R, c.G, c.B)
		c.R, c.G, c.B = mapped.R, mapped.G, mapped.B
	}
	return pal, nil
}
