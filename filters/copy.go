/*
NAME
  copy.go

DESCRIPTION
  copy.go implements the identity Copy filter: one simultaneous line,
  unit buffering, in-place capable, byte-for-byte passthrough. The graph
  builder emits this filter alone whenever src_format == dst_format
  exactly (spec §4.4 "Elisions"), and it anchors the S1-S4 conformance
  scenarios.

AUTHORS
  Mara Delacroix <mara@kestrel-imaging.dev>
*/

package filters

import (
	"github.com/kestrel-imaging/zimg/pixel"
	"github.com/kestrel-imaging/zimg/zfilter"
)

// Copy is the identity filter: it reproduces its input verbatim.
type Copy struct {
	zfilter.Base
	attrs         pixel.Attributes
	color         bool
	chromaShiftW  int // log2 width ratio of planes 1/2 to plane 0; 0 when not subsampled.
}

// NewCopy constructs a Copy filter with the given output attributes.
// color selects whether the filter operates on all three planes jointly
// or on plane 0 (luma/gray) alone.
func NewCopy(attrs pixel.Attributes, color bool) *Copy {
	return &Copy{attrs: attrs, color: color}
}

// NewCopySubsampled is NewCopy for a color image whose chroma planes are
// horizontally subsampled relative to plane 0, such as the graph
// builder's src_format == dst_format elision over a 4:2:2-style format.
func NewCopySubsampled(attrs pixel.Attributes, chromaShiftW int) *Copy {
	return &Copy{attrs: attrs, color: true, chromaShiftW: chromaShiftW}
}

func (c *Copy) Flags() zfilter.Flags {
	return zfilter.Flags{SameRow: true, InPlace: true, Color: c.color}
}

func (c *Copy) ImageAttributes() pixel.Attributes { return c.attrs }

func (c *Copy) Process(ctx []byte, src, dst zfilter.Buffer, tmp []byte, i, l, r int) {
	planes := 1
	if c.color {
		planes = 3
	}
	size := pixel.Size(c.attrs.Type)
	for p := 0; p < planes; p++ {
		shift := 0
		if p > 0 {
			shift = c.chromaShiftW
		}
		pl, pr := l>>shift, (r+(1<<shift)-1)>>shift
		width := size * (pr - pl)
		off := pl * size
		copy(dst.Rows[p][0][off:off+width], src.Rows[p][0][off:off+width])
	}
}
