/*
NAME
  depth.go

DESCRIPTION
  depth.go implements the depth-widen and depth-narrow filters the graph
  builder inserts at the edges of the pipeline (spec §4.4 steps 1 and 6)
  to bring the source up to, and the destination down from, the
  intermediate working precision. The rounding/rescaling recipe itself is
  one of the numerical kernels spec.md declares out of scope; this
  implementation performs a straightforward linear rescale between the
  source and destination full-scale ranges, which is sufficient to
  satisfy the filter contract (P1-P3, P6-P7) without claiming bit-exact
  parity with any specific reference kernel.

AUTHORS
  Mara Delacroix <mara@kestrel-imaging.dev>
*/

package filters

import (
	"github.com/kestrel-imaging/zimg/pixel"
	"github.com/kestrel-imaging/zimg/zfilter"
)

// Depth converts every sample from one PixelType/bit-depth to another,
// row for row, rescaling linearly between full-scale ranges.
type Depth struct {
	zfilter.Base
	srcFmt       pixel.Format
	attrs        pixel.Attributes
	dstFmt       pixel.Format
	color        bool
	chromaShiftW int // log2 width ratio of planes 1/2 to plane 0; 0 when not subsampled.
}

// NewDepth constructs a Depth filter converting from srcFmt to dstType
// at dstDepth, over the given output geometry.
func NewDepth(srcFmt pixel.Format, width, height int, dstType pixel.Type, dstDepth int, color bool) *Depth {
	return &Depth{
		srcFmt: srcFmt,
		attrs:  pixel.Attributes{Width: width, Height: height, Type: dstType},
		dstFmt: pixel.Format{Type: dstType, Depth: dstDepth, FullRange: srcFmt.FullRange, Chroma: srcFmt.Chroma},
		color:  color,
	}
}

// NewDepthSubsampled is NewDepth for a color image whose chroma planes
// are horizontally subsampled relative to plane 0.
func NewDepthSubsampled(srcFmt pixel.Format, width, height int, dstType pixel.Type, dstDepth, chromaShiftW int) *Depth {
	d := NewDepth(srcFmt, width, height, dstType, dstDepth, true)
	d.chromaShiftW = chromaShiftW
	return d
}

func (d *Depth) Flags() zfilter.Flags {
	return zfilter.Flags{SameRow: true, Color: d.color}
}

func (d *Depth) ImageAttributes() pixel.Attributes { return d.attrs }

func (d *Depth) TmpSize(l, r int) int {
	return (r - l) * 8 // one float64 scratch slot per column
}

func (d *Depth) scale() float64 {
	srcMax := float64(uint64(1)<<uint(d.srcFmt.Depth) - 1)
	dstMax := float64(uint64(1)<<uint(d.dstFmt.Depth) - 1)
	if d.srcFmt.Type == pixel.FLOAT || d.srcFmt.Type == pixel.HALF {
		srcMax = 1
	}
	if d.dstFmt.Type == pixel.FLOAT || d.dstFmt.Type == pixel.HALF {
		dstMax = 1
	}
	return dstMax / srcMax
}

func (d *Depth) Process(ctx []byte, src, dst zfilter.Buffer, tmp []byte, i, l, r int) {
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
		for c := 0; c < count; c++ {
			row[c] *= scale
		}
		pixel.WriteRow(dst.Rows[p][0], d.dstFmt.Type, pl, count, row)
	}
}
