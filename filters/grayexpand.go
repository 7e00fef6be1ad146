/*
NAME
  grayexpand.go

DESCRIPTION
  grayexpand.go implements the luma-to-color synthesis step the graph
  builder inserts when the source is GRAY and the destination is RGB or
  YUV: an achromatic image carries no chroma information, so RGB output
  broadcasts the luma sample into all three channels and YUV output pairs
  the luma plane with a constant mid-level (achromatic) chroma.

AUTHORS
  Mara Delacroix <mara@kestrel-imaging.dev>
*/

package filters

import (
	"github.com/kestrel-imaging/zimg/pixel"
	"github.com/kestrel-imaging/zimg/zfilter"
)

// GrayExpand synthesizes a 3-plane color buffer from a single luma
// plane.
type GrayExpand struct {
	zfilter.Base
	attrs pixel.Attributes
	toYUV bool // true: synthesize neutral YUV chroma; false: broadcast to RGB.
}

// NewGrayExpand constructs the adapter. toYUV selects whether chroma
// planes 1/2 are filled with the neutral midpoint (YUV) or mirror plane
// 0 (RGB broadcast).
func NewGrayExpand(attrs pixel.Attributes, toYUV bool) *GrayExpand {
	return &GrayExpand{attrs: attrs, toYUV: toYUV}
}

func (g *GrayExpand) Flags() zfilter.Flags {
	return zfilter.Flags{SameRow: true, Color: true}
}

func (g *GrayExpand) ImageAttributes() pixel.Attributes { return g.attrs }

func neutralLevel(t pixel.Type) float64 {
	if t == pixel.FLOAT || t == pixel.HALF {
		return 0.5
	}
	return float64(uint64(1)<<uint(pixel.ContainerBits(t)-1)) - 1
}

func (g *GrayExpand) TmpSize(l, r int) int { return (r - l) * 8 }

func (g *GrayExpand) Process(ctx []byte, src, dst zfilter.Buffer, tmp []byte, i, l, r int) {
	count := r - l
	width := pixel.Size(g.attrs.Type) * count
	off := l * pixel.Size(g.attrs.Type)

	copy(dst.Rows[0][0][off:off+width], src.Rows[0][0][off:off+width])

	if g.toYUV {
		level := zfilter.Float64Scratch(tmp, count)
		neutral := neutralLevel(g.attrs.Type)
		for c := range level {
			level[c] = neutral
		}
		pixel.WriteRow(dst.Rows[1][0], g.attrs.Type, l, count, level)
		pixel.WriteRow(dst.Rows[2][0], g.attrs.Type, l, count, level)
		return
	}

	copy(dst.Rows[1][0][off:off+width], src.Rows[0][0][off:off+width])
	copy(dst.Rows[2][0][off:off+width], src.Rows[0][0][off:off+width])
}
