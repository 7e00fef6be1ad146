/*
NAME
  chroma.go

DESCRIPTION
  chroma.go implements chroma up/downsampling (spec §4.4 steps 2 and 5):
  resampling planes 1 and 2 between 4:4:4 and a subsampled layout while
  plane 0 (luma) passes through unchanged, honoring the configured
  chroma siting offset. This reuses the same polyphase kernel machinery
  as horizontal/vertical resize (kernel.go) applied independently per
  axis, since chroma resampling is dimensionally identical to a
  same-plane resize once the siting phase offset is accounted for.

AUTHORS
  Mara Delacroix <mara@kestrel-imaging.dev>
*/

package filters

import (
	"github.com/kestrel-imaging/zimg/pixel"
	"github.com/kestrel-imaging/zimg/zfilter"
)

// sitingOffset returns the phase shift, in half-subsampled-sample units,
// that a chroma siting convention applies to the resampling center.
// Left siting aligns chroma sample 0 with luma sample 0; center siting
// (the MPEG default) offsets it by half a chroma step.
func sitingOffset(loc pixel.ChromaLocation) float64 {
	switch loc {
	case pixel.ChromaLocationLeft, pixel.ChromaLocationTopLeft, pixel.ChromaLocationBottomLeft:
		return 0
	default:
		return 0.5
	}
}

// ChromaResample resamples the chroma planes of a row between a
// subsampled width/height and 4:4:4, in the direction implied by
// (srcShift, dstShift): srcShift > dstShift widens (upsample),
// srcShift < dstShift narrows (downsample).
type ChromaResample struct {
	zfilter.Base
	typ              pixel.Type
	lumaW, lumaH     int
	srcShiftW        int
	srcShiftH        int
	dstShiftW        int
	dstShiftH        int
	siting           pixel.ChromaLocation
	params           ResizeParams
	support          float64
	a, b             float64
	horizontalChange bool
	verticalChange   bool
	buffering        uint32
}

// NewChromaResample constructs a chroma resample filter. lumaW/lumaH are
// the full luma-plane dimensions; srcShiftW/H and dstShiftW/H are the
// log2 chroma subsampling factors before and after this stage.
func NewChromaResample(typ pixel.Type, lumaW, lumaH, srcShiftW, srcShiftH, dstShiftW, dstShiftH int, siting pixel.ChromaLocation, p ResizeParams) *ChromaResample {
	support, a, b := kernelSupport(p.Filter, p.A, p.B)
	buffering := uint32(support*2) + 4
	return &ChromaResample{
		typ: typ, lumaW: lumaW, lumaH: lumaH,
		srcShiftW: srcShiftW, srcShiftH: srcShiftH,
		dstShiftW: dstShiftW, dstShiftH: dstShiftH,
		siting: siting, params: p, support: support, a: a, b: b,
		horizontalChange: srcShiftW != dstShiftW,
		verticalChange:   srcShiftH != dstShiftH,
		buffering:        buffering,
	}
}

func chromaDim(full, shift int) int { return (full + (1 << shift) - 1) >> shift }

func (c *ChromaResample) Flags() zfilter.Flags {
	return zfilter.Flags{Color: true, EntireRow: c.horizontalChange}
}

func (c *ChromaResample) ImageAttributes() pixel.Attributes {
	return pixel.Attributes{Width: c.lumaW, Height: c.lumaH, Type: c.typ}
}

// RequiredColRange honors the EntireRow flag declared above: when this
// stage resamples horizontally it needs the full source row regardless
// of which destination columns were requested.
func (c *ChromaResample) RequiredColRange(l, r int) zfilter.Range {
	if !c.horizontalChange {
		return zfilter.Range{Lo: l, Hi: r}
	}
	return zfilter.Range{Lo: 0, Hi: c.lumaW}
}

// MaxBuffering is expressed in luma rows, like RequiredRowRange: the
// kernel support window is computed in chroma-row units (c.buffering)
// and scaled up by the source's vertical subsampling factor.
func (c *ChromaResample) MaxBuffering() uint32 {
	if c.verticalChange {
		return c.buffering << uint(c.srcShiftH)
	}
	return 1
}

func (c *ChromaResample) srcChromaW() int { return chromaDim(c.lumaW, c.srcShiftW) }
func (c *ChromaResample) srcChromaH() int { return chromaDim(c.lumaH, c.srcShiftH) }
func (c *ChromaResample) dstChromaW() int { return chromaDim(c.lumaW, c.dstShiftW) }
func (c *ChromaResample) dstChromaH() int { return chromaDim(c.lumaH, c.dstShiftH) }

// chromaRowRange maps an output chroma row index to the source chroma
// row range needed to resample it.
func (c *ChromaResample) chromaRowRange(i int) (lo, hi int) {
	if !c.verticalChange {
		return i, i + 1
	}
	srcH, dstH := c.srcChromaH(), c.dstChromaH()
	center := srcCenter(i, srcH, dstH)
	lo = int(center - c.support)
	hi = int(center+c.support) + 2
	if lo < 0 {
		lo = 0
	}
	if hi > srcH {
		hi = srcH
	}
	if hi <= lo {
		hi = lo + 1
	}
	return lo, hi
}

// RequiredRowRange is expressed in luma-row granularity (the output
// attributes this filter advertises are the full luma geometry); it
// translates through the chroma domain and back via the shift factors.
func (c *ChromaResample) RequiredRowRange(i int) zfilter.Range {
	if !c.verticalChange {
		return zfilter.Range{Lo: i, Hi: i + 1}
	}
	chromaI := i >> c.dstShiftH
	lo, hi := c.chromaRowRange(chromaI)
	return zfilter.Range{Lo: lo << c.srcShiftH, Hi: hi << c.srcShiftH}
}

func (c *ChromaResample) TmpSize(l, r int) int {
	w := c.lumaW
	if sw := c.srcChromaW(); sw > w {
		w = sw
	}
	if dw := c.dstChromaW(); dw > w {
		w = dw
	}
	return (w + maxKernelTaps) * 8
}

func (c *ChromaResample) Process(ctx []byte, src, dst zfilter.Buffer, tmp []byte, i, l, r int) {
	// Plane 0 (luma) always passes through untouched.
	lumaCount := r - l
	pixel.WriteRow(dst.Rows[0][0], c.typ, l, lumaCount,
		readThenReturn(src.Rows[0][0], c.typ, l, lumaCount, tmp))

	for p := 1; p <= 2; p++ {
		c.resampleChromaRow(p, src, dst, tmp, i, l, r)
	}
}

func readThenReturn(row []byte, t pixel.Type, col, count int, tmp []byte) []float64 {
	dst := zfilter.Float64Scratch(tmp, count)
	pixel.ReadRow(row, t, col, count, dst)
	return dst
}

// resampleChromaRow produces one output chroma row (plane p, luma row i)
// by combining the horizontal kernel (when horizontalChange) with the
// vertical kernel (when verticalChange). When neither axis changes this
// degenerates to a straight copy of the requested columns.
func (c *ChromaResample) resampleChromaRow(p int, src, dst zfilter.Buffer, tmp []byte, i, l, r int) {
	srcW, dstW := c.srcChromaW(), c.dstChromaW()

	cl, cr := l>>c.dstShiftW, (r+(1<<c.dstShiftW)-1)>>c.dstShiftW
	if cr > dstW {
		cr = dstW
	}
	if cl >= cr {
		return
	}
	count := cr - cl

	if !c.verticalChange {
		srcRow := src.Rows[p][0]
		if !c.horizontalChange {
			out := zfilter.Float64Scratch(tmp, count)
			pixel.ReadRow(srcRow, c.typ, cl, count, out)
			pixel.WriteRow(dst.Rows[p][0], c.typ, cl, count, out)
			return
		}
		full := zfilter.Float64Scratch(tmp, srcW)
		pixel.ReadRow(srcRow, c.typ, 0, srcW, full)
		out := make([]float64, count)
		c.resampleHorizontal(full, srcW, dstW, cl, cr, out)
		pixel.WriteRow(dst.Rows[p][0], c.typ, cl, count, out)
		return
	}

	dstChromaI := i >> c.dstShiftH
	srcLo, srcHi := c.chromaRowRange(dstChromaI)
	window := srcHi - srcLo
	center := srcCenter(dstChromaI, c.srcChromaH(), c.dstChromaH())

	var tapbuf [maxKernelTaps]float64
	first, n := taps(c.params.Filter, center-float64(srcLo), c.support, c.a, c.b, tapbuf[:])

	acc := make([]float64, count)
	horiz := make([]float64, count)
	var full []float64
	if c.horizontalChange {
		full = make([]float64, srcW)
	}

	for t := 0; t < n; t++ {
		si := first + t
		if si < 0 {
			si = 0
		}
		if si >= window {
			si = window - 1
		}
		rowBytes := src.Rows[p][si<<uint(c.srcShiftH)]
		w := tapbuf[t]

		if c.horizontalChange {
			pixel.ReadRow(rowBytes, c.typ, 0, srcW, full)
			c.resampleHorizontal(full, srcW, dstW, cl, cr, horiz)
		} else {
			pixel.ReadRow(rowBytes, c.typ, cl, count, horiz)
		}
		for x := range acc {
			acc[x] += horiz[x] * w
		}
	}
	pixel.WriteRow(dst.Rows[p][0], c.typ, cl, count, acc)
}

// resampleHorizontal applies the polyphase horizontal kernel to a full
// source chroma row of length srcW, writing destination columns [cl, cr)
// into out.
func (c *ChromaResample) resampleHorizontal(srcRow []float64, srcW, dstW, cl, cr int, out []float64) {
	offset := sitingOffset(c.siting)
	if c.srcShiftW > c.dstShiftW {
		offset = -offset // Upsampling shifts the alignment the other way.
	}

	var tapbuf [maxKernelTaps]float64
	for d := cl; d < cr; d++ {
		center := srcCenter(d, srcW, dstW) + offset
		first, n := taps(c.params.Filter, center, c.support, c.a, c.b, tapbuf[:])
		var acc float64
		for t := 0; t < n; t++ {
			si := first + t
			if si < 0 {
				si = 0
			}
			if si >= srcW {
				si = srcW - 1
			}
			acc += srcRow[si] * tapbuf[t]
		}
		out[d-cl] = acc
	}
}
