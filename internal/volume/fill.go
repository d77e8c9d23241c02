package volume

// DefaultFillColor is the classic below-ground brown.
var DefaultFillColor = RGBA{R: 103, G: 64, B: 40, A: 255}

// FillBelow walks every column inside r, scanning upward from the region
// floor, and fills each empty position strictly below the first populated
// voxel with c. Columns with no populated voxel are left untouched.
// Returns the number of voxels written.
func FillBelow(s Store, r Region, c RGBA) (int, error) {
	filled := 0
	for x := r.Min.X; x <= r.Max.X; x++ {
		for y := r.Min.Y; y <= r.Max.Y; y++ {
			surface := r.Min.Z
			found := false
			for z := r.Min.Z; z <= r.Max.Z; z++ {
				_, ok, err := s.Read(Pos{X: x, Y: y, Z: z})
				if err != nil {
					return filled, err
				}
				if ok {
					surface = z
					found = true
					break
				}
			}
			if !found {
				continue
			}
			for z := r.Min.Z; z < surface; z++ {
				if err := s.Write(Pos{X: x, Y: y, Z: z}, c); err != nil {
					return filled, err
				}
				filled++
			}
		}
	}
	return filled, nil
}
