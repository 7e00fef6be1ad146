/*
NAME
  params.go

DESCRIPTION
  params.go implements filter_graph_params_default and the Params
  validation the graph builder runs before planning a chain (spec §4.4,
  §6), following the teacher's revid/config.Config field-level
  defaulting and Validate pattern.

AUTHORS
  Mara Delacroix <mara@kestrel-imaging.dev>
*/

package graph

import (
	"math"

	"github.com/ausocean/utils/logging"

	"github.com/kestrel-imaging/zimg/pixel"
)

// Params enumerates the graph builder's construction-time knobs (spec
// §4.4): the resample kernel for luma and for chroma, their shape
// parameters, the narrowing dither algorithm, and a CPU capability hint.
type Params struct {
	ResampleFilter   pixel.ResampleFilter
	FilterParamA     float64
	FilterParamB     float64
	ResampleFilterUV pixel.ResampleFilter
	FilterParamAUV   float64
	FilterParamBUV   float64
	DitherType       pixel.DitherType
	CPUType          pixel.CPUType

	// Logger receives build- and process-time diagnostics. It is injected
	// by the caller rather than read from a package-global: a nil Logger
	// is valid and simply means no diagnostics are emitted.
	Logger logging.Logger
}

// DefaultParams returns the zero-configuration defaults:
// resample_filter = point, a = b = NaN ("use kernel default"), dither =
// none, cpu = auto.
func DefaultParams(apiVersion int) Params {
	_ = apiVersion
	return Params{
		ResampleFilter:   pixel.ResamplePoint,
		FilterParamA:     math.NaN(),
		FilterParamB:     math.NaN(),
		ResampleFilterUV: pixel.ResamplePoint,
		FilterParamAUV:   math.NaN(),
		FilterParamBUV:   math.NaN(),
		DitherType:       pixel.DitherNone,
		CPUType:          pixel.CPUAuto,
	}
}

// validate reports an *Error for parameter combinations the builder
// cannot act on; NaN shape parameters are always legal (they mean
// "kernel default" independently per parameter, spec §9 Open Question).
func (p Params) validate() *Error {
	switch p.ResampleFilter {
	case pixel.ResamplePoint, pixel.ResampleBilinear, pixel.ResampleBicubic,
		pixel.ResampleSpline16, pixel.ResampleSpline36, pixel.ResampleLanczos:
	default:
		return newError(IllegalArgument, "unknown resample_filter %v", p.ResampleFilter)
	}
	switch p.ResampleFilterUV {
	case pixel.ResamplePoint, pixel.ResampleBilinear, pixel.ResampleBicubic,
		pixel.ResampleSpline16, pixel.ResampleSpline36, pixel.ResampleLanczos:
	default:
		return newError(IllegalArgument, "unknown resample_filter_uv %v", p.ResampleFilterUV)
	}
	switch p.DitherType {
	case pixel.DitherNone, pixel.DitherOrdered, pixel.DitherRandom, pixel.DitherErrorDiffusion:
	default:
		return newError(IllegalArgument, "unknown dither_type %v", p.DitherType)
	}
	return nil
}
