package palette

import (
	"errors"
	"image"
	"image/color"
)

// ErrBuilt reports use of a quantizer whose moment tables were already
// consumed. Moment conversion is destructive, so a quantizer builds at
// most one palette.
var ErrBuilt = errors.New("quantizer already built a palette")

// The histogram spans 33 cells per axis; index 0 is the zero margin the
// summed-volume arithmetic subtracts against, and channel value v lands
// in cell (v>>3)+1.
const histCells = 33 * 33 * 33

func histIndex(r, g, b uint8) int {
	return ((int(r>>3)+1)*33+(int(g>>3)+1))*33 + (int(b>>3) + 1)
}

func boxIndex(r, g, b int) int {
	return (r*33+g)*33 + b
}

// Quantizer accumulates RGB histograms and greedily splits color space
// into a bounded palette, after Xiaolin Wu's variance-minimizing method.
type Quantizer struct {
	wt, mr, mg, mb []int64
	m2             []float64
	built          bool
}

func NewQuantizer() *Quantizer {
	return &Quantizer{
		wt: make([]int64, histCells),
		mr: make([]int64, histCells),
		mg: make([]int64, histCells),
		mb: make([]int64, histCells),
		m2: make([]float64, histCells),
	}
}

// AddImage accumulates every pixel of img into the histogram. Several
// images may be accumulated into one palette. The alpha channel is
// ignored.
func (q *Quantizer) AddImage(img *image.NRGBA) error {
	if q.built {
		return ErrBuilt
	}
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		o := img.PixOffset(bounds.Min.X, y)
		for x := 0; x < bounds.Dx(); x++ {
			r := img.Pix[o]
			g := img.Pix[o+1]
			b := img.Pix[o+2]
			o += 4
			i := histIndex(r, g, b)
			q.wt[i]++
			q.mr[i] += int64(r)
			q.mg[i] += int64(g)
			q.mb[i] += int64(b)
			q.m2[i] += float64(int(r)*int(r) + int(g)*int(g) + int(b)*int(b))
		}
	}
	return nil
}

// Release drops the histogram buffers without building a palette. The
// quantizer cannot be used afterwards.
func (q *Quantizer) Release() {
	q.built = true
	q.release()
}

func (q *Quantizer) release() {
	q.wt, q.mr, q.mg, q.mb, q.m2 = nil, nil, nil, nil, nil
}

// moments converts the raw histograms into 3D prefix sums in place, so
// any box total becomes an eight-corner inclusion-exclusion read.
func (q *Quantizer) moments() {
	var area, areaR, areaG, areaB [33]int64
	var area2 [33]float64
	for r := 1; r <= 32; r++ {
		for i := range area {
			area[i], areaR[i], areaG[i], areaB[i] = 0, 0, 0, 0
			area2[i] = 0
		}
		for g := 1; g <= 32; g++ {
			var line, lineR, lineG, lineB int64
			var line2 float64
			for b := 1; b <= 32; b++ {
				i1 := boxIndex(r, g, b)
				line += q.wt[i1]
				lineR += q.mr[i1]
				lineG += q.mg[i1]
				lineB += q.mb[i1]
				line2 += q.m2[i1]
				area[b] += line
				areaR[b] += lineR
				areaG[b] += lineG
				areaB[b] += lineB
				area2[b] += line2
				i2 := i1 - 33*33
				q.wt[i1] = q.wt[i2] + area[b]
				q.mr[i1] = q.mr[i2] + areaR[b]
				q.mg[i1] = q.mg[i2] + areaG[b]
				q.mb[i1] = q.mb[i2] + areaB[b]
				q.m2[i1] = q.m2[i2] + area2[b]
			}
		}
	}
}

// colorBox is a half-open region of quantized color space: a channel
// value v belongs to the box when lo < v <= hi on every axis.
type colorBox struct {
	r0, r1, g0, g1, b0, b1 int
	vol                    int
}

const (
	axisBlue  = 0
	axisGreen = 1
	axisRed   = 2
)

func vol(c *colorBox, m []int64) int64 {
	return m[boxIndex(c.r1, c.g1, c.b1)] - m[boxIndex(c.r1, c.g1, c.b0)] -
		m[boxIndex(c.r1, c.g0, c.b1)] + m[boxIndex(c.r1, c.g0, c.b0)] -
		m[boxIndex(c.r0, c.g1, c.b1)] + m[boxIndex(c.r0, c.g1, c.b0)] +
		m[boxIndex(c.r0, c.g0, c.b1)] - m[boxIndex(c.r0, c.g0, c.b0)]
}

// bot is the part of vol that ignores the box's upper bound on the split
// axis; top substitutes pos for that bound. bot+top walks candidate cut
// planes without redoing the full eight-corner sum.
func bot(c *colorBox, dir int, m []int64) int64 {
	switch dir {
	case axisRed:
		return -m[boxIndex(c.r0, c.g1, c.b1)] + m[boxIndex(c.r0, c.g1, c.b0)] +
			m[boxIndex(c.r0, c.g0, c.b1)] - m[boxIndex(c.r0, c.g0, c.b0)]
	case axisGreen:
		return -m[boxIndex(c.r1, c.g0, c.b1)] + m[boxIndex(c.r1, c.g0, c.b0)] +
			m[boxIndex(c.r0, c.g0, c.b1)] - m[boxIndex(c.r0, c.g0, c.b0)]
	default:
		return -m[boxIndex(c.r1, c.g1, c.b0)] + m[boxIndex(c.r1, c.g0, c.b0)] +
			m[boxIndex(c.r0, c.g1, c.b0)] - m[boxIndex(c.r0, c.g0, c.b0)]
	}
}

func top(c *colorBox, dir, pos int, m []int64) int64 {
	switch dir {
	case axisRed:
		return m[boxIndex(pos, c.g1, c.b1)] - m[boxIndex(pos, c.g1, c.b0)] -
			m[boxIndex(pos, c.g0, c.b1)] + m[boxIndex(pos, c.g0, c.b0)]
	case axisGreen:
		return m[boxIndex(c.r1, pos, c.b1)] - m[boxIndex(c.r1, pos, c.b0)] -
			m[boxIndex(c.r0, pos, c.b1)] + m[boxIndex(c.r0, pos, c.b0)]
	default:
		return m[boxIndex(c.r1, c.g1, pos)] - m[boxIndex(c.r1, c.g0, pos)] -
			m[boxIndex(c.r0, c.g1, pos)] + m[boxIndex(c.r0, c.g0, pos)]
	}
}

// variance is the weighted within-box variance, scaled by the pixel
// count. Only called for boxes holding at least one pixel.
func (q *Quantizer) variance(c *colorBox) float64 {
	xx := q.m2[boxIndex(c.r1, c.g1, c.b1)] - q.m2[boxIndex(c.r1, c.g1, c.b0)] -
		q.m2[boxIndex(c.r1, c.g0, c.b1)] + q.m2[boxIndex(c.r1, c.g0, c.b0)] -
		q.m2[boxIndex(c.r0, c.g1, c.b1)] + q.m2[boxIndex(c.r0, c.g1, c.b0)] +
		q.m2[boxIndex(c.r0, c.g0, c.b1)] - q.m2[boxIndex(c.r0, c.g0, c.b0)]
	// Channel sums grow with the accumulated pixel count; their squares
	// can overflow int64.
	dr := float64(vol(c, q.mr))
	dg := float64(vol(c, q.mg))
	db := float64(vol(c, q.mb))
	return xx - (dr*dr+dg*dg+db*db)/float64(vol(c, q.wt))
}

// maximize scans every cut plane on one axis and returns the best sum of
// squared half-box means, with the plane that achieved it. The c² terms
// cancel across any split, so maximizing this sum minimizes the combined
// variance. Planes that would leave an empty half are skipped; -1 means
// no legal plane exists.
func (q *Quantizer) maximize(c *colorBox, dir, first, last int, wr, wg, wb, ww int64) (float64, int) {
	baseR := bot(c, dir, q.mr)
	baseG := bot(c, dir, q.mg)
	baseB := bot(c, dir, q.mb)
	baseW := bot(c, dir, q.wt)
	best := 0.0
	cutAt := -1
	for i := first; i < last; i++ {
		hr := baseR + top(c, dir, i, q.mr)
		hg := baseG + top(c, dir, i, q.mg)
		hb := baseB + top(c, dir, i, q.mb)
		hw := baseW + top(c, dir, i, q.wt)
		if hw == 0 {
			continue
		}
		f := (float64(hr)*float64(hr) + float64(hg)*float64(hg) + float64(hb)*float64(hb)) / float64(hw)

		hr = wr - hr
		hg = wg - hg
		hb = wb - hb
		hw = ww - hw
		if hw == 0 {
			continue
		}
		f += (float64(hr)*float64(hr) + float64(hg)*float64(hg) + float64(hb)*float64(hb)) / float64(hw)
		if f > best {
			best = f
			cutAt = i
		}
	}
	return best, cutAt
}

// cut splits set1 along the axis with the highest gain, writing the upper
// part into set2. Equal gains resolve red, then green, then blue; this
// order is fixed so palettes reproduce across runs. Returns false when no
// legal split exists.
func (q *Quantizer) cut(set1, set2 *colorBox) bool {
	wr := vol(set1, q.mr)
	wg := vol(set1, q.mg)
	wb := vol(set1, q.mb)
	ww := vol(set1, q.wt)

	maxr, cutr := q.maximize(set1, axisRed, set1.r0+1, set1.r1, wr, wg, wb, ww)
	maxg, cutg := q.maximize(set1, axisGreen, set1.g0+1, set1.g1, wr, wg, wb, ww)
	maxb, cutb := q.maximize(set1, axisBlue, set1.b0+1, set1.b1, wr, wg, wb, ww)

	var dir int
	switch {
	case maxr >= maxg && maxr >= maxb:
		dir = axisRed
		if cutr < 0 {
			return false
		}
	case maxg >= maxr && maxg >= maxb:
		dir = axisGreen
	default:
		dir = axisBlue
	}

	set2.r1 = set1.r1
	set2.g1 = set1.g1
	set2.b1 = set1.b1

	switch dir {
	case axisRed:
		set1.r1 = cutr
		set2.r0 = cutr
		set2.g0 = set1.g0
		set2.b0 = set1.b0
	case axisGreen:
		set1.g1 = cutg
		set2.g0 = cutg
		set2.r0 = set1.r0
		set2.b0 = set1.b0
	default:
		set1.b1 = cutb
		set2.b0 = cutb
		set2.r0 = set1.r0
		set2.g0 = set1.g0
	}
	set1.vol = (set1.r1 - set1.r0) * (set1.g1 - set1.g0) * (set1.b1 - set1.b0)
	set2.vol = (set2.r1 - set2.r0) * (set2.g1 - set2.g0) * (set2.b1 - set2.b0)
	return true
}

func mark(c *colorBox, label uint8, tag []uint8) {
	for r := c.r0 + 1; r <= c.r1; r++ {
		for g := c.g0 + 1; g <= c.g1; g++ {
			for b := c.b0 + 1; b <= c.b1; b++ {
				tag[boxIndex(r, g, b)] = label
			}
		}
	}
}

// Palette is a realized palette plus the quantized-space lookup table.
// Fewer colors than requested is a normal outcome when the histogram
// cannot be split further.
type Palette struct {
	Colors []color.NRGBA
	tag    []uint8
}

// Build converts the histogram to moments and splits boxes until
// maxColors exist or no split gains anything. The quantizer cannot be
// reused afterwards.
func (q *Quantizer) Build(maxColors int) (*Palette, error) {
	if q.built {
		return nil, ErrBuilt
	}
	if maxColors < 1 || maxColors > 256 {
		return nil, errors.New("palette size must be between 1 and 256")
	}
	q.built = true
	q.moments()

	cube := make([]colorBox, maxColors)
	vv := make([]float64, maxColors)
	cube[0] = colorBox{r1: 32, g1: 32, b1: 32}
	realized := maxColors
	next := 0
	for i := 1; i < maxColors; i++ {
		if q.cut(&cube[next], &cube[i]) {
			// Single-cell boxes can never be split again.
			if cube[next].vol > 1 {
				vv[next] = q.variance(&cube[next])
			} else {
				vv[next] = 0
			}
			if cube[i].vol > 1 {
				vv[i] = q.variance(&cube[i])
			} else {
				vv[i] = 0
			}
		} else {
			vv[next] = 0
			i-- // box i was not created, retry with the next-best box
		}
		next = 0
		f := vv[0]
		for k := 1; k <= i; k++ {
			if vv[k] > f {
				f = vv[k]
				next = k
			}
		}
		if f <= 0 {
			realized = i + 1
			break
		}
	}

	tag := make([]uint8, histCells)
	colors := make([]color.NRGBA, realized)
	for k := 0; k < realized; k++ {
		mark(&cube[k], uint8(k), tag)
		w := vol(&cube[k], q.wt)
		if w == 0 {
			colors[k] = color.NRGBA{A: 255}
			continue
		}
		colors[k] = color.NRGBA{
			R: uint8(vol(&cube[k], q.mr) / w),
			G: uint8(vol(&cube[k], q.mg) / w),
			B: uint8(vol(&cube[k], q.mb) / w),
			A: 255,
		}
	}
	q.release()
	return &Palette{Colors: colors, tag: tag}, nil
}

func (p *Palette) Len() int {
	return len(p.Colors)
}

// Index returns the palette index owning the given color.
func (p *Palette) Index(r, g, b uint8) int {
	return int(p.tag[histIndex(r, g, b)])
}

// Lookup returns the palette color the given color maps to.
func (p *Palette) Lookup(r, g, b uint8) color.NRGBA {
	return p.Colors[p.Index(r, g, b)]
}

// Remap renders img as an indexed image through the lookup table.
func (p *Palette) Remap(img *image.NRGBA) *image.Paletted {
	bounds := img.Bounds()
	cp := make(color.Palette, len(p.Colors))
	for i, c := range p.Colors {
		cp[i] = c
	}
	out := image.NewPaletted(bounds, cp)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		src := img.PixOffset(bounds.Min.X, y)
		dst := out.PixOffset(bounds.Min.X, y)
		for x := 0; x < bounds.Dx(); x++ {
			out.Pix[dst] = uint8(p.Index(img.Pix[src], img.Pix[src+1], img.Pix[src+2]))
			src += 4
			dst++
		}
	}
	return out
}
