package export

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"genland/internal/palette"
	"genland/internal/terrain"
)

const vxlMagic = 0x09072000

// WriteVXL writes the map in the legacy VXL world layout: one slab per
// column holding the surface color, walled down far enough to meet the
// tallest of the four grid neighbors. The spawn point sits over the
// center cell.
func WriteVXL(w io.Writer, m *terrain.Map) error {
	if m == nil || len(m.Cells) == 0 {
		return fmt.Errorf("map is empty")
	}
	size := m.Size
	bw := bufio.NewWriter(w)

	var scratch [8]byte
	writeU32 := func(v uint32) {
		binary.LittleEndian.PutUint32(scratch[:4], v)
		bw.Write(scratch[:4])
	}
	writeF64 := func(v float64) {
		binary.LittleEndian.PutUint64(scratch[:], math.Float64bits(v))
		bw.Write(scratch[:])
	}

	writeU32(vxlMagic)
	writeU32(uint32(size))
	writeU32(uint32(size))

	spawnZ := float64(m.Cells[m.Index(size/2, size/2)].Height) - 64
	for _, v := range [12]float64{
		float64(size) * 0.5, float64(size) * 0.5, spawnZ,
		1, 0, 0,
		0, 0, 1,
		0, -1, 0,
	} {
		writeF64(v)
	}

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			cell := m.Cells[m.Index(x, y)]
			z := int(cell.Height)
			zz := z + 1
			// Edge columns keep their true neighbors only; the world
			// does not wrap here.
			for _, d := range [2]int{-1, 1} {
				if nx := x + d; nx >= 0 && nx < size {
					if h := int(m.Cells[m.Index(nx, y)].Height); h > zz {
						zz = h
					}
				}
				if ny := y + d; ny >= 0 && ny < size {
					if h := int(m.Cells[m.Index(x, ny)].Height); h > zz {
						zz = h
					}
				}
			}
			bw.Write([]byte{0, uint8(z), uint8(zz - 1), 0})
			quad := [4]byte{cell.Color.B, cell.Color.G, cell.Color.R, 0x80}
			for ; z < zz; z++ {
				bw.Write(quad[:])
			}
		}
	}
	return bw.Flush()
}

// WriteVXLQuantized reduces the map to at most maxColors colors in
// place, then writes it as a VXL world. Returns the realized palette.
func WriteVXLQuantized(w io.Writer, m *terrain.Map, maxColors int) (*palette.Palette, error) {
	pal, err := QuantizeMap(m, maxColors)
	if err != nil {
		return nil, err
	}
	if err := WriteVXL(w, m); err != nil {
		return nil, err
	}
	return pal, nil
}

// SaveVXL writes the map to path as a VXL world file.
func SaveVXL(path string, m *terrain.Map) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create vxl: %w", err)
	}
	defer file.Close()
	if err := WriteVXL(file, m); err != nil {
		return fmt.Errorf("write vxl: %w", err)
	}
	return nil
}
