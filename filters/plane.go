/*
NAME
  plane.go

DESCRIPTION
  plane.go implements the plane-select adapter spec §4.3 "Per-plane vs
  color" calls for: when a luma-only filter follows a color filter in
  the chain, the graph builder interposes one of these so the scheduler
  can keep treating every node as an ordinary filter. The reverse
  transition (luma-only producing a color result) is covered by
  GrayExpand, which broadcasts or neutral-fills the other two planes
  rather than assembling three independently-produced ones, so no
  dedicated assemble adapter exists.

AUTHORS
  Mara Delacroix <mara@kestrel-imaging.dev>
*/

package filters

import (
	"github.com/kestrel-imaging/zimg/pixel"
	"github.com/kestrel-imaging/zimg/zfilter"
)

// PlaneSelect extracts one plane from a color buffer, presenting it to a
// downstream luma-only filter as plane 0.
type PlaneSelect struct {
	zfilter.Base
	attrs pixel.Attributes
	plane int
}

// NewPlaneSelect constructs an adapter exposing source plane idx as the
// sole output plane.
func NewPlaneSelect(attrs pixel.Attributes, idx int) *PlaneSelect {
	return &PlaneSelect{attrs: attrs, plane: idx}
}

func (s *PlaneSelect) Flags() zfilter.Flags {
	return zfilter.Flags{SameRow: true, InPlace: s.plane == 0}
}

func (s *PlaneSelect) ImageAttributes() pixel.Attributes { return s.attrs }

func (s *PlaneSelect) Process(ctx []byte, src, dst zfilter.Buffer, tmp []byte, i, l, r int) {
	width := pixel.Size(s.attrs.Type) * (r - l)
	off := l * pixel.Size(s.attrs.Type)
	copy(dst.Rows[0][0][off:off+width], src.Rows[s.plane][0][off:off+width])
}
