package terrain

import "genland/internal/volume"

// Voxelize writes one opaque voxel per cell at (x, y, height) into the
// store. Height zero means no voxel; the cell is skipped outright no
// matter what its color holds. Returns the number of voxels written.
func Voxelize(m *Map, store volume.Store) (int, error) {
	written := 0
	k := 0
	for y := 0; y < m.Size; y++ {
		for x := 0; x < m.Size; x++ {
			cell := m.Cells[k]
			k++
			if cell.Height == 0 {
				continue
			}
			c := volume.RGBA{R: cell.Color.R, G: cell.Color.G, B: cell.Color.B, A: 255}
			if err := store.Write(volume.Pos{X: x, Y: y, Z: int(cell.Height)}, c); err != nil {
				return written, err
			}
			written++
		}
	}
	return written, nil
}
