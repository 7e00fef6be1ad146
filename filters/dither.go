/*
NAME
  dither.go

DESCRIPTION
  dither.go implements the narrowing dither stage spec §4.4 step 6
  inserts when packing to an integer format with fewer bits than the
  working precision. The specific dither recipes (Floyd-Steinberg error
  diffusion, ordered Bayer matrix) are the numerical kernels spec §9
  leaves external; this implements simplified working versions so the
  DitherType enumeration is fully exercised by the graph builder. Error
  diffusion carries each sample's quantization error to the same column
  of the next row only; it does not spread the error to neighbouring
  columns the way Floyd-Steinberg does.

AUTHORS
  Mara Delacroix <mara@kestrel-imaging.dev>
*/

package filters

import (
	"math"

	"github.com/kestrel-imaging/zimg/pixel"
	"github.com/kestrel-imaging/zimg/zfilter"
)

var bayer4x4 = [4][4]float64{
	{0, 8, 2, 10},
	{12, 4, 14, 6},
	{3, 11, 1, 9},
	{15, 7, 13, 5},
}

// Dither narrows samples from srcFmt to a lower-depth integer dstFmt,
// applying the configured dither algorithm to decorrelate quantization
// error from the signal.
type Dither struct {
	zfilter.Base
	srcFmt       pixel.Format
	dstFmt       pixel.Format
	attrs        pixel.Attributes
	kind         pixel.DitherType
	color        bool
	chromaShiftW int // log2 width ratio of planes 1/2 to plane 0; 0 when not subsampled.
}

// NewDither constructs a dither filter. kind must not be DitherNone (the
// graph builder elides the stage entirely in that case).
func NewDither(srcFmt pixel.Format, width, height int, dstType pixel.Type, dstDepth int, kind pixel.DitherType, color bool) *Dither {
	return &Dither{
		srcFmt: srcFmt,
		dstFmt: pixel.Format{Type: dstType, Depth: dstDepth, FullRange: srcFmt.FullRange, Chroma: srcFmt.Chroma},
		attrs:  pixel.Attributes{Width: width, Height: height, Type: dstType},
		kind:   kind,
		color:  color,
	}
}

// NewDitherSubsampled is NewDither for a color image whose chroma planes
// are horizontally subsampled relative to plane 0.
func NewDitherSubsampled(srcFmt pixel.Format, width, height int, dstType pixel.Type, dstDepth int, kind pixel.DitherType, chromaShiftW int) *Dither {
	d := NewDither(srcFmt, width, height, dstType, dstDepth, kind, true)
	d.chromaShiftW = chromaShiftW
	return d
}

func (d *Dither) Flags() zfilter.Flags {
	return zfilter.Flags{
		SameRow:  true,
		HasState: d.kind == pixel.DitherErrorDiffusion,
		Color:    d.color,
	}
}

func (d *Dither) ImageAttributes() pixel.Attributes { return d.attrs }

// chromaWidth returns the plane 1/2 width given this filter's chroma
// subsampling shift.
func (d *Dither) chromaWidth() int {
	return (d.attrs.Width + (1 << d.chromaShiftW) - 1) >> d.chromaShiftW
}

// planeWidth returns the column count of plane p, honoring horizontal
// chroma subsampling for p > 0.
func (d *Dither) planeWidth(p int) int {
	if p == 0 {
		return d.attrs.Width
	}
	return d.chromaWidth()
}

// planeOffset returns the byte offset into the error-diffusion context
// at which plane p's running accumulator row begins.
func (d *Dither) planeOffset(p int) int {
	off := 0
	for q := 0; q < p; q++ {
		off += d.planeWidth(q) * 8
	}
	return off
}

func (d *Dither) ContextSize() int {
	if d.kind != pixel.DitherErrorDiffusion {
		return 0
	}
	planes := 1
	if d.color {
		planes = 3
	}
	size := 0
	for p := 0; p < planes; p++ {
		size += d.planeWidth(p) * 8 // one running error accumulator per column, per plane
	}
	return size
}

func (d *Dither) TmpSize(l, r int) int { return (r - l) * 8 }

func (d *Dither) InitContext(ctx []byte) {
	for i := range ctx {
		ctx[i] = 0
	}
}

func (d *Dither) scale() float64 {
	srcMax := 1.0
	if d.srcFmt.Type != pixel.FLOAT && d.srcFmt.Type != pixel.HALF {
		srcMax = float64(uint64(1)<<uint(d.srcFmt.Depth) - 1)
	}
	dstMax := float64(uint64(1)<<uint(d.dstFmt.Depth) - 1)
	return dstMax / srcMax
}

func (d *Dither) Process(ctx []byte, src, dst zfilter.Buffer, tmp []byte, i, l, r int) {
	planes := 1
	if d.color {
		planes = 3
	}
	scale := d.scale()
	work := zfilter.Float64Scratch(tmp, r-l)

	for p := 0; p < planes; p++ {
		shift := 0
		if p > 0 {
			shift = d.chromaShiftW
		}
		pl, pr := l>>shift, (r+(1<<shift)-1)>>shift
		count := pr - pl
		row := work[:count]
		pixel.ReadRow(src.Rows[p][0], d.srcFmt.Type, pl, count, row)

		var errRow []float64
		if d.kind == pixel.DitherErrorDiffusion {
			errRow = zfilter.Float64Scratch(ctx[d.planeOffset(p):], d.planeWidth(p))[pl:pr]
		}

		for c := 0; c < count; c++ {
			v := row[c] * scale
			switch d.kind {
			case pixel.DitherOrdered:
				v += bayer4x4[i%4][(pl+c)%4]/16 - 0.5
			case pixel.DitherRandom:
				v += pseudoNoise(i, pl+c) - 0.5
			case pixel.DitherErrorDiffusion:
				v += errRow[c]
			}
			q := roundClamp(v, 0, dstMaxValue(d.dstFmt))
			if d.kind == pixel.DitherErrorDiffusion {
				errRow[c] = v - q
			}
			row[c] = q
		}
		pixel.WriteRow(dst.Rows[p][0], d.dstFmt.Type, pl, count, row)
	}
}

func dstMaxValue(f pixel.Format) float64 {
	return float64(uint64(1)<<uint(f.Depth) - 1)
}

func roundClamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return math.Round(v)
}

// pseudoNoise is a cheap deterministic stand-in for a true random dither
// source: a hash of the pixel coordinate folded into [0, 1).
func pseudoNoise(row, col int) float64 {
	h := uint32(row)*374761393 + uint32(col)*668265263
	h = (h ^ (h >> 13)) * 1274126177
	h ^= h >> 16
	return float64(h%1000) / 1000
}
