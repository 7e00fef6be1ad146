/*
NAME
  zimg.go

DESCRIPTION
  zimg.go is the Go-idiomatic front door onto package graph: it mirrors
  the runtime API spec §6 names (image_format_default,
  filter_graph_params_default, filter_graph_build,
  filter_graph_get_tmp_size, filter_graph_get_input/output_buffering,
  filter_graph_process, filter_graph_free) as ordinary Go functions and
  methods returning a Go error, while also populating the last-error slot
  lasterror.go exposes for callers that prefer that idiom.

  A *Graph is reference-counted (spec §5/§9 "graph reference counting")
  via an atomic counter; unlike the reference implementation this counter
  exists for API parity and use-after-Close detection only; Go's garbage
  collector reclaims the underlying memory regardless of Release/Close
  being called (see DESIGN.md).

AUTHORS
  Mara Delacroix <mara@kestrel-imaging.dev>
*/

package api

import (
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/kestrel-imaging/zimg/graph"
	"github.com/kestrel-imaging/zimg/pixel"
	"github.com/kestrel-imaging/zimg/ring"
)

// ImageFormatDefault mirrors image_format_default: every enumerated
// field set to its UNSPECIFIED sentinel, width/height/type/subsampling
// left at the Go zero value.
func ImageFormatDefault(apiVersion int) pixel.ImageFormat {
	return pixel.DefaultImageFormat(apiVersion)
}

// FilterGraphParamsDefault mirrors filter_graph_params_default.
func FilterGraphParamsDefault(apiVersion int) graph.Params {
	return graph.DefaultParams(apiVersion)
}

// Graph is a reference-counted handle onto an immutable *graph.Graph.
type Graph struct {
	inner  *graph.Graph
	refs   atomic.Int32
	closed atomic.Bool
}

// Build mirrors filter_graph_build: plans a conversion chain from
// srcFormat to dstFormat under params. On failure it returns a non-nil
// Go error AND records the same *graph.Error in the last-error slot, so
// either calling convention works.
func Build(srcFormat, dstFormat pixel.ImageFormat, params graph.Params) (*Graph, error) {
	g, err := graph.Build(srcFormat, dstFormat, params)
	if err != nil {
		setLastError(err)
		return nil, err
	}
	h := &Graph{inner: g}
	h.refs.Store(1)
	return h, nil
}

var errClosed = errors.New("zimg: use of a Graph after its last Release/Close")

// use returns the wrapped *graph.Graph, or an error if the handle's
// refcount has already reached zero.
func (g *Graph) use() (*graph.Graph, error) {
	if g.closed.Load() {
		return nil, errClosed
	}
	return g.inner, nil
}

// Acquire increments the reference count and returns the same handle,
// for callers that hand the Graph to more than one owner.
func (g *Graph) Acquire() *Graph {
	g.refs.Add(1)
	return g
}

// Release mirrors filter_graph_free: decrements the reference count;
// the last release marks the handle closed. Further use of a closed
// handle returns an error rather than the reference implementation's
// undefined behavior, since the check costs nothing in Go.
func (g *Graph) Release() {
	if g.refs.Add(-1) <= 0 {
		g.closed.Store(true)
	}
}

// Close is an io.Closer-compatible alias for Release.
func (g *Graph) Close() error {
	g.Release()
	return nil
}

// TmpSize mirrors filter_graph_get_tmp_size.
func (g *Graph) TmpSize() (int, error) {
	inner, err := g.use()
	if err != nil {
		return 0, err
	}
	return inner.TmpSize(), nil
}

// InputBuffering mirrors filter_graph_get_input_buffering.
func (g *Graph) InputBuffering() (int, error) {
	inner, err := g.use()
	if err != nil {
		return 0, err
	}
	return inner.InputBuffering(), nil
}

// OutputBuffering mirrors filter_graph_get_output_buffering.
func (g *Graph) OutputBuffering() (int, error) {
	inner, err := g.use()
	if err != nil {
		return 0, err
	}
	return inner.OutputBuffering(), nil
}

// UnpackFunc bridges an externally-formatted source row into the
// engine's planar row slices before Process runs. row is the plane row
// index (0-based); planes[p] is the destination slice Process will read
// plane p's row from — the callback must fill exactly that slice.
// A nil UnpackFunc means src is already planar and addressed directly.
type UnpackFunc func(row int, planes [3][]byte)

// PackFunc is UnpackFunc's mirror at the sink: it is handed the engine's
// planar output row and must copy it into the externally-formatted
// destination the caller actually wants.
type PackFunc func(row int, planes [3][]byte)

// Process mirrors filter_graph_process. When unpack is non-nil it is
// invoked once per source row, ahead of time, to materialize src's
// planar rows (this build always requires a fully resident source, see
// graph.Graph.InputBuffering's doc comment); when pack is non-nil it is
// invoked once per destination row after Process completes, to drain
// dst's planar rows into the caller's preferred external layout.
func (g *Graph) Process(src, dst ring.ImageBuffer, tmp []byte, unpack UnpackFunc, pack PackFunc) error {
	inner, err := g.use()
	if err != nil {
		return err
	}

	if unpack != nil {
		attrs := inner.SrcAttrs()
		planes := inner.SrcPlanes()
		for y := 0; y < attrs.Height; y++ {
			var rows [3][]byte
			for p := 0; p < planes; p++ {
				rows[p] = src.Plane(p).RowBytes(y)
			}
			unpack(y, rows)
		}
	}

	if perr := inner.Process(src, dst, tmp); perr != nil {
		setLastError(perr)
		return perr
	}

	if pack != nil {
		attrs := inner.DstAttrs()
		planes := inner.DstPlanes()
		for y := 0; y < attrs.Height; y++ {
			var rows [3][]byte
			for p := 0; p < planes; p++ {
				rows[p] = dst.Plane(p).RowBytes(y)
			}
			pack(y, rows)
		}
	}
	return nil
}
