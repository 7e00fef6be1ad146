/*
NAME
  filter.go

DESCRIPTION
  filter.go defines the Filter contract (spec §4.1): the per-filter
  interface of declared flags, image attributes, row/column dependency
  functions, simultaneous-output-lines, maximum buffering, per-instance
  scratch sizes, context init and the per-output-row Process entry point.

  Filter is implemented by the closed set of filter kinds package filters
  constructs; the scheduler and conformance harness consume only this
  capability interface, never a concrete variant, per spec §9's tagged
  variant / capability dispatch design note.

AUTHORS
  Mara Delacroix <mara@kestrel-imaging.dev>
*/

package zfilter

import "github.com/kestrel-imaging/zimg/pixel"

// Range is a half-open interval [Lo, Hi).
type Range struct {
	Lo, Hi int
}

// Len returns Hi - Lo.
func (r Range) Len() int { return r.Hi - r.Lo }

// Buffer bundles the three (up to) plane byte-slices a filter reads from
// or writes to, addressed by the scheduler
// through ring.PlaneBuffer.RowBytes before Process is ever called -
// Process itself only ever sees flat row slices for the rows/columns it
// was asked to touch.
type Buffer struct {
	// Rows holds, per plane, the row slices spanning the filter's
	// required row range, in row order starting at the range's Lo.
	Rows [3][][]byte
}

// Filter is the capability interface every filter kind satisfies.
type Filter interface {
	// Flags returns the filter's declared capability flags.
	Flags() Flags

	// ImageAttributes returns the (width, height, PixelType) of this
	// filter's output.
	ImageAttributes() pixel.Attributes

	// SimultaneousLines returns S >= 1, the number of output rows
	// produced per Process call (or Unbounded when EntirePlane).
	SimultaneousLines() uint32

	// MaxBuffering returns B >= 1, the maximum number of simultaneously
	// resident input rows this filter requires (or Unbounded when
	// EntirePlane).
	MaxBuffering() uint32

	// RequiredRowRange returns the half-open input row interval needed
	// to produce output row i. Must be monotone non-decreasing in i and
	// satisfy Hi-Lo <= MaxBuffering() (when bounded).
	RequiredRowRange(i int) Range

	// RequiredColRange returns the half-open input column interval
	// needed to produce output columns [l, r).
	RequiredColRange(l, r int) Range

	// ContextSize returns the number of bytes of per-instance scratch
	// this filter requires; InitContext is called once on a buffer of
	// this size before the first Process call.
	ContextSize() int

	// TmpSize returns the number of bytes of per-call scratch needed to
	// produce output columns [l, r).
	TmpSize(l, r int) int

	// InitContext performs zero-or-one-time initialization of the
	// per-instance scratch context.
	InitContext(ctx []byte)

	// Process produces output rows [i, i+S) within columns [l, r),
	// reading only from src rows RequiredRowRange(i) and columns
	// RequiredColRange(l, r), writing only the declared output rows.
	Process(ctx []byte, src, dst Buffer, tmp []byte, i, l, r int)
}

// Base supplies the teacher-style "sensible defaults" for the six pure
// query methods, mirroring the reference ZimgFilter base class: same-row
// dependency, one simultaneous line, unit buffering, zero scratch, no-op
// init. Concrete filter kinds embed Base and override only what differs.
type Base struct{}

func (Base) SimultaneousLines() uint32 { return 1 }
func (Base) MaxBuffering() uint32      { return 1 }
func (Base) ContextSize() int          { return 0 }
func (Base) TmpSize(int, int) int      { return 0 }
func (Base) InitContext([]byte)        {}

func (Base) RequiredRowRange(i int) Range {
	return Range{Lo: i, Hi: i + 1}
}

func (Base) RequiredColRange(l, r int) Range {
	return Range{Lo: l, Hi: r}
}
