package volume

import "math"

// Pos addresses a single voxel. Coordinates must fit in int32 so they
// survive journal persistence unchanged.
type Pos struct {
	X, Y, Z int
}

// RGBA is the color stored at a populated position.
type RGBA struct {
	R, G, B, A uint8
}

// Region is an inclusive bounding box of voxel positions.
type Region struct {
	Min, Max Pos
}

// Contains reports whether p lies inside the region.
func (r Region) Contains(p Pos) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X &&
		p.Y >= r.Min.Y && p.Y <= r.Max.Y &&
		p.Z >= r.Min.Z && p.Z <= r.Max.Z
}

// Everything spans the whole addressable space.
func Everything() Region {
	return Region{
		Min: Pos{X: math.MinInt32, Y: math.MinInt32, Z: math.MinInt32},
		Max: Pos{X: math.MaxInt32, Y: math.MaxInt32, Z: math.MaxInt32},
	}
}

// Store holds sparse voxel colors addressed by integer position. Absent
// positions are empty space.
type Store interface {
	Write(p Pos, c RGBA) error
	Read(p Pos) (RGBA, bool, error)
	ForEach(r Region, fn func(p Pos, c RGBA) bool) error
	Close() error
}

// Bounds computes the inclusive bounding box of every populated position
// in the store. ok is false when the store is empty.
func Bounds(s Store) (bounds Region, ok bool, err error) {
	err = s.ForEach(Everything(), func(p Pos, _ RGBA) bool {
		if !ok {
			bounds = Region{Min: p, Max: p}
			ok = true
			return true
		}
		if p.X < bounds.Min.X {
			bounds.Min.X = p.X
		}
		if p.Y < bounds.Min.Y {
			bounds.Min.Y = p.Y
		}
		if p.Z < bounds.Min.Z {
			bounds.Min.Z = p.Z
		}
		if p.X > bounds.Max.X {
			bounds.Max.X = p.X
		}
		if p.Y > bounds.Max.Y {
			bounds.Max.Y = p.Y
		}
		if p.Z > bounds.Max.Z {
			bounds.Max.Z = p.Z
		}
		return true
	})
	if err != nil {
		return Region{}, false, err
	}
	return bounds, ok, nil
}
