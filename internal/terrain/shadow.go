package terrain

// Occlusion marches each cell's elevation along the +x/+y diagonal, up to a
// quarter of the grid, and marks cells whose horizon rises faster than 0.44
// per step. Addressing wraps; the grid is a repeating tile. The raw factors
// are then softened by one box blur over the cell and its three forward
// neighbors.
func Occlusion(m *Map) []uint8 {
	size := m.Size
	wrap := size - 1
	raw := make([]uint8, size*size)

	k := 0
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			expected := m.Elev[k] + 0.44
			for i := 1; i < size/4; i++ {
				if m.Elev[((y+i)&wrap)*size+((x+i)&wrap)] > expected {
					raw[k] = 32
					break
				}
				expected += 0.44
			}
			k++
		}
	}

	smoothed := make([]uint8, size*size)
	k = 0
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			sum := int(raw[k]) +
				int(raw[((y+1)&wrap)*size+x]) +
				int(raw[y*size+((x+1)&wrap)]) +
				int(raw[((y+1)&wrap)*size+((x+1)&wrap)])
			smoothed[k] = uint8((sum + 2) >> 2)
			k++
		}
	}
	return smoothed
}

// Shade composites the occlusion factors into the lit colors in place,
// scaling each channel by (256-factor*4)/256 and adding the ambient term
// back so fully shadowed cells keep their ambient color.
func Shade(m *Map, factors []uint8) {
	for k := range m.Cells {
		scale := 256 - int(factors[k])*4
		c := &m.Cells[k].Color
		a := m.Ambient[k]
		c.R = uint8(clampInt((int(c.R)*scale)>>8+int(a.R), 0, 255))
		c.G = uint8(clampInt((int(c.G)*scale)>>8+int(a.G), 0, 255))
		c.B = uint8(clampInt((int(c.B)*scale)>>8+int(a.B), 0, 255))
	}
}
