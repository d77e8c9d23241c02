package terrain

import (
	"image"
	"log"
	"math"

	"genland/internal/config"
	"genland/internal/noise"
)

// Sampler yields coherent noise for terrain synthesis.
type Sampler interface {
	Sample(x, y, z float64, mask int) float64
}

// RGB is one blended surface color.
type RGB struct {
	R, G, B uint8
}

// Cell pairs a surface color with the integer surface height.
type Cell struct {
	Color  RGB
	Height uint8
}

// Map holds the per-cell buffers of one synthesis run, row-major with y
// outer. Cells carries the lit colors (shaded in place by Shade) and the
// height channel; Elev carries the wet-path elevation the shadow march reads.
type Map struct {
	Size    int
	Cells   []Cell
	Ambient []RGB
	Elev    []float64
}

// Index converts grid coordinates to a buffer offset.
func (m *Map) Index(x, y int) int {
	return y*m.Size + x
}

// Image renders the cell colors as an opaque NRGBA raster.
func (m *Map) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, m.Size, m.Size))
	for y := 0; y < m.Size; y++ {
		row := y * img.Stride
		for x := 0; x < m.Size; x++ {
			c := m.Cells[m.Index(x, y)].Color
			o := row + x*4
			img.Pix[o+0] = c.R
			img.Pix[o+1] = c.G
			img.Pix[o+2] = c.B
			img.Pix[o+3] = 255
		}
	}
	return img
}

// ScaleHeights rescales the height channel so the tallest representable
// cell lands at limit. Limits of 0 or the full byte range leave the
// channel untouched.
func (m *Map) ScaleHeights(limit int) {
	if limit <= 0 || limit >= 255 {
		return
	}
	for i := range m.Cells {
		m.Cells[i].Height = uint8(int(m.Cells[i].Height) * limit / 255)
	}
}

// eps is the finite-difference step for surface normals.
const eps = 0.1

// Synthesizer turns layered noise into lit terrain colors and heights.
type Synthesizer struct {
	field Sampler
	cfg   config.TerrainConfig
}

func NewSynthesizer(field Sampler, cfg config.TerrainConfig) *Synthesizer {
	return &Synthesizer{field: field, cfg: cfg}
}

// Synthesize evaluates the full grid: three noise samples per cell for the
// finite-difference normal, river carving, the four-way color blend, and
// the ambient plus directional-light split.
func (s *Synthesizer) Synthesize() *Map {
	size := s.cfg.GridSize
	m := &Map{
		Size:    size,
		Cells:   make([]Cell, size*size),
		Ambient: make([]RGB, size*size),
		Elev:    make([]float64, size*size),
	}

	octs := noise.Octaves(s.cfg.Octaves)
	scale := 256.0 / float64(size)
	heightScale := float64(size) / 256.0

	total := size * size
	done := 0
	nextLogPercent := 10
	log.Printf("terrain %dx%d synthesis progress: 0%%", size, size)

	var samp, csamp [3]float64
	k := 0
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			// Samples at (0,0), (+eps,0), (0,+eps).
			for i := 0; i < 3; i++ {
				dx := (float64(x)*scale + float64(i&1)*eps) * (1.0 / 64.0)
				dy := (float64(y)*scale + float64(i>>1)*eps) * (1.0 / 64.0)
				elev := 0.0
				river := 0.0
				for _, oct := range octs {
					// Terrain channel self-modulates; river accumulates plainly.
					elev += s.field.Sample(dx, dy, 9.5, oct.Mask) * oct.Amplitude * (elev*1.6 + 1.0)
					river += s.field.Sample(dx, dy, 13.2, oct.Mask) * oct.Amplitude
					dx *= 2
					dy *= 2
				}
				samp[i] = elev*-20.0 + 28.0
				// The carve factor dips negative inside river channels.
				d := math.Sin(float64(x)*(math.Pi/256.0)+river*4.0)*0.52 + 0.48
				if d > 1 {
					d = 1
				}
				csamp[i] = samp[i] * d
				if d < 0 {
					d = 0
				}
				samp[i] *= d
				if csamp[i] < samp[i] {
					// Wet sample fell below the dry one: water surface.
					csamp[i] = -math.Log(1.0 - csamp[i])
				}
			}

			nx := csamp[1] - csamp[0]
			ny := csamp[2] - csamp[0]
			nz := -eps
			if len2 := nx*nx + ny*ny + nz*nz; len2 > 0 {
				inv := 1.0 / math.Sqrt(len2)
				nx *= inv
				ny *= inv
				nz *= inv
			} else {
				// Degenerate sample, point flat up.
				nx, ny, nz = 0, 0, -1
			}

			gr := float64(s.cfg.Ground.R)
			gg := float64(s.cfg.Ground.G)
			gb := float64(s.cfg.Ground.B)

			g := clamp(math.Max(-nz, 0)*1.4-csamp[0]/32.0+s.field.Sample(float64(x)*(1.0/64.0), float64(y)*(1.0/64.0), 0.3, 15)*0.3, 0, 1)
			gr += (float64(s.cfg.Grass1.R) - gr) * g
			gg += (float64(s.cfg.Grass1.G) - gg) * g
			gb += (float64(s.cfg.Grass1.B) - gb) * g

			g2 := (1 - math.Abs(g-0.5)*2) * 0.7
			gr += (float64(s.cfg.Grass2.R) - gr) * g2
			gg += (float64(s.cfg.Grass2.G) - gg) * g2
			gb += (float64(s.cfg.Grass2.B) - gb) * g2

			g2 = clamp((samp[0]-csamp[0])*1.5, 0, 1)
			dim := 1 - g2*0.2
			gr += (float64(s.cfg.Water.R)*dim - gr) * g2
			gg += (float64(s.cfg.Water.G)*dim - gg) * g2
			gb += (float64(s.cfg.Water.B)*dim - gb) * g2

			m.Ambient[k] = RGB{
				R: clampByte(gr * 0.3),
				G: clampByte(gg * 0.3),
				B: clampByte(gb * 0.3),
			}
			maxA := m.Ambient[k].R
			if m.Ambient[k].G > maxA {
				maxA = m.Ambient[k].G
			}
			if m.Ambient[k].B > maxA {
				maxA = m.Ambient[k].B
			}

			light := (nx*0.5 + ny*0.25 - nz) / math.Sqrt(0.5*0.5+0.25*0.25+1.0*1.0) * 1.2
			// Lit channels stay below 255-maxA so the shadow composite
			// can add ambient back without wrapping.
			headroom := float64(255 - int(maxA))
			m.Cells[k] = Cell{
				Color: RGB{
					R: uint8(clamp(gr*light, 0, headroom)),
					G: uint8(clamp(gg*light, 0, headroom)),
					B: uint8(clamp(gb*light, 0, headroom)),
				},
				Height: clampByte(175.0 - samp[0]*heightScale),
			}
			m.Elev[k] = csamp[0]

			k++
			done++
			progress := done * 100 / total
			if progress >= nextLogPercent {
				log.Printf("terrain %dx%d synthesis progress: %d%%", size, size, progress)
				if progress >= 100 {
					nextLogPercent = 110
				} else {
					nextLogPercent = ((progress / 10) + 1) * 10
				}
			}
		}
	}
	return m
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampByte(v float64) uint8 {
	return uint8(clamp(v, 0, 255))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
