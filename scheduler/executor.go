/*
NAME
  executor.go

DESCRIPTION
  executor.go implements the ring-buffered, cache-oblivious row scheduler
  (spec §4.3): it drives the last filter in a chain line by line,
  recursively requesting producer rows on demand into ring buffers sized
  to each filter's declared window. The scheduler itself never fails;
  incorrect filter behavior can only manifest as incorrect output, never
  a scheduler-level error (spec §4.3 "Failure semantics").

AUTHORS
  Mara Delacroix <mara@kestrel-imaging.dev>
*/

package scheduler

import (
	"github.com/kestrel-imaging/zimg/ring"
	"github.com/kestrel-imaging/zimg/zfilter"
)

// Stage is one node of the chain: a filter, its persistent context, and
// (for every stage but the last) the ring buffer holding its output.
type Stage struct {
	Filter zfilter.Filter
	Ctx    []byte

	// Out is this stage's output buffer. For every stage but the sink
	// it is an internally owned ring buffer sized by the graph builder's
	// buffering analysis; for the sink it is the caller's destination
	// buffer (always fully resident, i.e. mask == ring.AllOnes).
	Out ring.ImageBuffer

	// planes is 1 for a luma-only filter, 3 for a color filter.
	planes int

	// colRange is the output column window this stage materializes
	// during the current Run (the sink uses the window Run is given
	// instead), computed by propagating
	// RequiredColRange backward from the sink (spec §4.3 "Column
	// clipping"); it is fixed for the duration of one Run.
	colRange zfilter.Range

	// produced is the number of output rows already materialized
	// (i.e. the next row index this stage has not yet produced).
	produced int

	// planeOnce records whether an EntirePlane stage has already run.
	planeOnce bool
}

// Source represents the chain's external input: the caller-supplied,
// fully resident source image buffer. It is not itself a Stage since it
// has no filter and nothing to compute; it simply answers row-range
// requests directly.
type Source struct {
	Buf    ring.ImageBuffer
	Planes int
}

// Executor drives one linear filter chain over ring-buffered plane
// storage. One Executor instance is created per frame (or may be reused
// across frames so long as callers do not interleave concurrent use of
// the same Stage slice, since Stage.produced is mutable per-run state).
type Executor struct {
	Src    Source
	Stages []*Stage
}

// Reset rewinds every stage's produced cursor to zero and clears the
// EntirePlane latch, preparing the executor to process a new frame.
func (e *Executor) Reset() {
	for _, s := range e.Stages {
		s.produced = 0
		s.planeOnce = false
	}
}

// PropagateColumns computes each stage's effective input column window
// for the range [l, r) requested at the sink, walking the chain from
// sink to source (spec §4.4 "buffering analysis" / §4.3 "column
// clipping"). It must be called before Run for a given [l, r).
// Calling it repeatedly with different ranges widens each stage's
// recorded window to their union, matching "the effective column window
// of each intermediate filter is the union across the frame".
func (e *Executor) PropagateColumns(l, r int) {
	cur := zfilter.Range{Lo: l, Hi: r}
	for i := len(e.Stages) - 1; i >= 0; i-- {
		s := e.Stages[i]
		widen(&s.colRange, cur)
		cur = s.Filter.RequiredColRange(cur.Lo, cur.Hi)
	}
}

func widen(dst *zfilter.Range, r zfilter.Range) {
	if dst.Lo == 0 && dst.Hi == 0 {
		*dst = r
		return
	}
	if r.Lo < dst.Lo {
		dst.Lo = r.Lo
	}
	if r.Hi > dst.Hi {
		dst.Hi = r.Hi
	}
}

// TmpSize returns the scratch buffer size needed across every stage for
// the column windows recorded by PropagateColumns so far.
func (e *Executor) TmpSize() int {
	max := 0
	for _, s := range e.Stages {
		if n := s.Filter.TmpSize(s.colRange.Lo, s.colRange.Hi); n > max {
			max = n
		}
	}
	return max
}

// Run demands that the sink's output be materialized through row
// rowHi-1, over column window [colL, colR). PropagateColumns must
// already have been called covering this column window.
func (e *Executor) Run(rowHi, colL, colR int, tmp []byte) {
	sinkIdx := len(e.Stages) - 1
	e.request(sinkIdx, rowHi, colL, colR, tmp)
}

// request ensures stage idx's output is materialized through row hi-1,
// recursing to upstream stages (or the source) as needed.
func (e *Executor) request(idx, hi, colL, colR int, tmp []byte) {
	s := e.Stages[idx]
	flags := s.Filter.Flags()

	if flags.EntirePlane {
		if s.planeOnce {
			return
		}
		attrs := s.Filter.ImageAttributes()
		e.materializeUpstream(idx, attrs.Height, colL, colR, tmp)
		e.process(idx, 0, colL, colR, tmp)
		s.planeOnce = true
		s.produced = attrs.Height
		return
	}

	step := int(s.Filter.SimultaneousLines())
	for s.produced < hi {
		row := s.produced
		rng := s.Filter.RequiredRowRange(row)
		e.materializeUpstream(idx, rng.Hi, colL, colR, tmp)
		e.process(idx, row, colL, colR, tmp)
		s.produced = row + step
	}
}

// materializeUpstream ensures the predecessor of stage idx (another
// stage, or the source) has rows through hi-1 available.
func (e *Executor) materializeUpstream(idx, hi, colL, colR int, tmp []byte) {
	if idx == 0 {
		return // The source is always fully resident; nothing to request.
	}
	e.request(idx-1, hi, colL, colR, tmp)
}

// process invokes stage idx's Process for output row i, assembling its
// Buffer views from the predecessor's ring buffer (or the source) and
// its own output ring buffer.
func (e *Executor) process(idx, i, colL, colR int, tmp []byte) {
	s := e.Stages[idx]
	rng := s.Filter.RequiredRowRange(i)
	if s.Filter.Flags().EntirePlane {
		rng = zfilter.Range{Lo: 0, Hi: s.Filter.ImageAttributes().Height}
	}

	var src zfilter.Buffer
	if idx == 0 {
		src = gather(e.Src.Buf, rng, e.Src.Planes)
	} else {
		src = gather(e.Stages[idx-1].Out, rng, e.Stages[idx-1].planes)
	}

	step := int(s.Filter.SimultaneousLines())
	outRange := zfilter.Range{Lo: i, Hi: i + step}
	if s.Filter.Flags().EntirePlane {
		outRange = rng
	}
	dst := gather(s.Out, outRange, s.planes)

	// Intermediate stages produce the window PropagateColumns recorded for
	// them; the sink produces the window Run was given.
	l, r := colL, colR
	if idx != len(e.Stages)-1 {
		l, r = s.colRange.Lo, s.colRange.Hi
	}
	s.Filter.Process(s.Ctx, src, dst, tmp, i, l, r)
}

// gather builds a zfilter.Buffer over rng from buf, one row-slice per
// row per plane. Row indices are always expressed in plane-0 (luma) row
// units; for planes 1/2 of a vertically-subsampled buffer (buf.
// ChromaShiftH > 0) the physical row is derived by shifting the luma row
// down rather than tracking a second cursor per plane, so a stage whose
// chroma rows span several luma rows naturally rereads (and
// idempotently rewrites) the same physical row until the luma cursor
// crosses into the next chroma row.
func gather(buf ring.ImageBuffer, rng zfilter.Range, planes int) zfilter.Buffer {
	var b zfilter.Buffer
	n := rng.Len()
	if n < 1 {
		n = 1
	}
	for p := 0; p < planes; p++ {
		rows := make([][]byte, n)
		for j := 0; j < n; j++ {
			rows[j] = buf.Plane(p).RowBytes(planeRow(buf, p, rng.Lo+j))
		}
		b.Rows[p] = rows
	}
	return b
}

// planeRow maps a luma-row index onto plane p's own row numbering.
func planeRow(buf ring.ImageBuffer, p, i int) int {
	if p == 0 || buf.ChromaShiftH == 0 {
		return i
	}
	return i >> uint(buf.ChromaShiftH)
}

// PlaneCount returns 3 for a color-family image, 1 otherwise; a small
// shared helper so callers building Stage.planes agree with the rest of
// the package on the convention.
func PlaneCount(color bool) int {
	if color {
		return 3
	}
	return 1
}

// NewStage constructs a Stage, sizing its Ctx from the filter's declared
// ContextSize and calling InitContext once.
func NewStage(f zfilter.Filter, out ring.ImageBuffer) *Stage {
	ctx := make([]byte, f.ContextSize())
	f.InitContext(ctx)
	return &Stage{
		Filter: f,
		Ctx:    ctx,
		Out:    out,
		planes: PlaneCount(f.Flags().Color),
	}
}
