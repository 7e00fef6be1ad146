/*
NAME
  flags.go

DESCRIPTION
  flags.go defines FilterFlags, the capability booleans every filter
  declares, and the structural invariants the conformance harness checks
  against them (spec §4.1, invariants 1-3).

AUTHORS
  Mara Delacroix <mara@kestrel-imaging.dev>
*/

package zfilter

import "fmt"

// Flags describes a filter's capabilities, independent of any one
// instance's parameters.
type Flags struct {
	// HasState: the filter carries context between consecutive output
	// rows; rows must be requested strictly in increasing order and in
	// multiples of SimultaneousLines.
	HasState bool

	// SameRow: output row i depends only on input row i (and possibly
	// its column neighborhood, never its row neighborhood).
	SameRow bool

	// EntireRow: the filter requires the full input row span regardless
	// of the requested output columns.
	EntireRow bool

	// EntirePlane: the filter consumes the entire input plane before
	// producing any output; implies EntireRow and forces
	// MaxBuffering == SimultaneousLines == Unbounded.
	EntirePlane bool

	// InPlace: input and output buffers for the same row may alias;
	// implies SameRow.
	InPlace bool

	// Color: the filter operates on three planes jointly; otherwise it
	// is luma-only (plane 0 only).
	Color bool
}

// Validate checks Flags invariants 1-3 from spec §4.1:
//
//  1. EntirePlane implies MaxBuffering == SimultaneousLines == Unbounded.
//  2. EntirePlane implies EntireRow.
//  3. InPlace implies SameRow.
func (f Flags) Validate(maxBuffering, simultaneousLines uint32) error {
	if f.EntirePlane && !f.EntireRow {
		return fmt.Errorf("zfilter: EntirePlane requires EntireRow")
	}
	if f.EntirePlane && maxBuffering != Unbounded {
		return fmt.Errorf("zfilter: EntirePlane requires MaxBuffering == Unbounded")
	}
	if f.EntirePlane && simultaneousLines != Unbounded {
		return fmt.Errorf("zfilter: EntirePlane requires SimultaneousLines == Unbounded")
	}
	if f.InPlace && !f.SameRow {
		return fmt.Errorf("zfilter: InPlace requires SameRow")
	}
	return nil
}

// Unbounded is the sentinel value (spec's ALL_ONES) used for
// MaxBuffering/SimultaneousLines on an EntirePlane filter.
const Unbounded = ^uint32(0)
