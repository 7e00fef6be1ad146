/*
NAME
  graph.go

DESCRIPTION
  graph.go defines Graph, the reusable handle graph_builder_build returns:
  a fixed filter chain plus the scratch/buffering sizes a caller needs to
  drive it, and Process, which runs one frame through the chain (spec §5,
  §6 "filter_graph_process").

AUTHORS
  Mara Delacroix <mara@kestrel-imaging.dev>
*/

package graph

import (
	"github.com/ausocean/utils/logging"

	"github.com/kestrel-imaging/zimg/pixel"
	"github.com/kestrel-imaging/zimg/ring"
	"github.com/kestrel-imaging/zimg/scheduler"
)

// Graph is a reusable conversion plan: the filter chain and internal
// ring buffers are built once by Build and may be driven by Process any
// number of times. Process and TmpSize write per-run state into the
// Graph itself (the executor's source and sink bindings, each stage's
// row cursor, column window and context, and the internal ring buffers),
// so a Graph is not safe for concurrent use: goroutines that convert
// frames in parallel each need their own Graph.
type Graph struct {
	ex        *scheduler.Executor
	srcAttrs  pixel.Attributes
	srcPlanes int
	dstAttrs  pixel.Attributes
	dstPlanes int

	// srcChromaShiftH/dstChromaShiftH are the source/destination formats'
	// vertical chroma subsampling factors, applied to src/dst in Process
	// so the scheduler addresses their chroma planes correctly; unlike
	// the ring-masked intermediate buffers built in builder.go, these are
	// the caller's fully resident buffers and must use the true height.
	srcChromaShiftH int
	dstChromaShiftH int

	logger logging.Logger
}

// TmpSize returns the minimum scratch buffer size, in bytes, Process
// requires for the full frame.
func (g *Graph) TmpSize() int {
	g.ex.PropagateColumns(0, g.dstAttrs.Width)
	return g.ex.TmpSize()
}

// SrcAttrs returns the (width, height, PixelType) this graph was built to
// accept at the source.
func (g *Graph) SrcAttrs() pixel.Attributes { return g.srcAttrs }

// DstAttrs returns the (width, height, PixelType) this graph produces at
// the sink.
func (g *Graph) DstAttrs() pixel.Attributes { return g.dstAttrs }

// SrcPlanes returns 3 for a color-family source, 1 for gray.
func (g *Graph) SrcPlanes() int { return g.srcPlanes }

// DstPlanes returns 3 for a color-family destination, 1 for gray.
func (g *Graph) DstPlanes() int { return g.dstPlanes }

// InputBuffering returns the number of input rows the caller must keep
// resident in src for one Process call. This build always requires the
// full source plane resident (spec §9's streaming-buffer negotiation is
// not implemented).
func (g *Graph) InputBuffering() int { return g.srcAttrs.Height }

// OutputBuffering returns the number of output rows the caller must keep
// resident in dst for one Process call: the full destination plane.
func (g *Graph) OutputBuffering() int { return g.dstAttrs.Height }

// Process runs src through the filter chain and writes the result to
// dst. src must be a fully resident ring.ImageBuffer (mask ==
// ring.AllOnes on every used plane) matching the format Build was given
// as srcFormat; the same holds for dst and dstFormat. tmp must be at
// least TmpSize() bytes.
func (g *Graph) Process(src, dst ring.ImageBuffer, tmp []byte) *Error {
	if len(tmp) < g.TmpSize() {
		return newError(OutOfMemory, "scratch buffer too small: have %d, need %d", len(tmp), g.TmpSize())
	}

	src.ChromaShiftH = g.srcChromaShiftH
	dst.ChromaShiftH = g.dstChromaShiftH

	g.ex.Src = scheduler.Source{Buf: src, Planes: g.srcPlanes}
	g.ex.Stages[len(g.ex.Stages)-1].Out = dst
	g.ex.Reset()
	g.ex.PropagateColumns(0, g.dstAttrs.Width)
	g.ex.Run(g.dstAttrs.Height, 0, g.dstAttrs.Width, tmp)
	if g.logger != nil {
		g.logger.Debug("processed frame", "rows", g.dstAttrs.Height, "stages", len(g.ex.Stages))
	}
	return nil
}
