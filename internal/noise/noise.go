package noise

import (
	"math"
	"math/rand"
)

// Field holds the seeded permutation tables for the lattice gradient noise
// evaluator. Once built a Field is read-only and safe for concurrent use.
type Field struct {
	perm   [512]uint8
	perm15 [512]uint8
}

// New shuffles a 256-entry permutation table with the given seed, mirrors it
// into the upper half and precomputes the gradient-selection companion table.
func New(seed int64) *Field {
	f := &Field{}
	for i := 0; i < 256; i++ {
		f.perm[i] = uint8(i)
	}
	rng := rand.New(rand.NewSource(seed))
	for i := 255; i > 0; i-- {
		j := rng.Intn(i + 1)
		f.perm[i], f.perm[j] = f.perm[j], f.perm[i]
	}
	for i := 0; i < 256; i++ {
		f.perm[i+256] = f.perm[i]
	}
	for i := 0; i < 512; i++ {
		f.perm15[i] = f.perm[i] & 15
	}
	return f
}

// Sample evaluates gradient noise at (x, y, z) and returns a value close to
// the [-1, 1] range. mask wraps the lattice indices so that each octave tiles
// with its own period; callers must keep mask <= 255.
func (f *Field) Sample(x, y, z float64, mask int) float64 {
	ix := int(math.Floor(x))
	fx := x - float64(ix)
	ix &= mask
	ix1 := (ix + 1) & mask

	iy := int(math.Floor(y))
	fy := y - float64(iy)
	iy &= mask
	iy1 := (iy + 1) & mask

	iz := int(math.Floor(z))
	fz := z - float64(iz)
	iz &= mask
	iz1 := (iz + 1) & mask

	h := int(f.perm[ix])
	a0 := int(f.perm[h+iy])
	a2 := int(f.perm[h+iy1])
	h = int(f.perm[ix1])
	a1 := int(f.perm[h+iy])
	a3 := int(f.perm[h+iy1])

	g0 := grad(int(f.perm15[a0+iz]), fx, fy, fz)
	g1 := grad(int(f.perm15[a1+iz]), fx-1, fy, fz)
	g2 := grad(int(f.perm15[a2+iz]), fx, fy-1, fz)
	g3 := grad(int(f.perm15[a3+iz]), fx-1, fy-1, fz)
	g4 := grad(int(f.perm15[a0+iz1]), fx, fy, fz-1)
	g5 := grad(int(f.perm15[a1+iz1]), fx-1, fy, fz-1)
	g6 := grad(int(f.perm15[a2+iz1]), fx, fy-1, fz-1)
	g7 := grad(int(f.perm15[a3+iz1]), fx-1, fy-1, fz-1)

	sx := smooth(fx)
	sy := smooth(fy)
	sz := smooth(fz)

	g0 = lerp(g0, g4, sz)
	g1 = lerp(g1, g5, sz)
	g2 = lerp(g2, g6, sz)
	g3 = lerp(g3, g7, sz)

	g0 = lerp(g0, g2, sy)
	g1 = lerp(g1, g3, sy)

	return lerp(g0, g1, sx)
}

// grad picks one of 16 gradient directions per lattice corner.
func grad(h int, x, y, z float64) float64 {
	switch h {
	case 0:
		return x + y
	case 1:
		return -x + y
	case 2:
		return x - y
	case 3:
		return -x - y
	case 4:
		return x + z
	case 5:
		return -x + z
	case 6:
		return x - z
	case 7:
		return -x - z
	case 8:
		return y + z
	case 9:
		return -y + z
	case 10:
		return y - z
	case 11:
		return -y - z
	case 12:
		return x + y
	case 13:
		return -x + y
	case 14:
		return y - z
	case 15:
		return -y - z
	}
	return 0
}

func smooth(t float64) float64 {
	return t * t * (3 - 2*t)
}

func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// Octave is one fractal layer: its amplitude and the lattice wrap mask that
// sets the layer's tiling period.
type Octave struct {
	Amplitude float64
	Mask      int
}

// Octaves builds the amplitude/mask table for n octaves. Amplitudes decay by
// 0.4 per octave and masks follow min(2^(n+2)-1, 255).
func Octaves(n int) []Octave {
	table := make([]Octave, n)
	amp := 1.0
	for i := range table {
		mask := (1 << (i + 2)) - 1
		if mask > 255 {
			mask = 255
		}
		table[i] = Octave{Amplitude: amp, Mask: mask}
		amp *= 0.4
	}
	return table
}
