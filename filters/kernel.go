/*
NAME
  kernel.go

DESCRIPTION
  kernel.go generates the polyphase resampling taps used by the
  horizontal and vertical resize filters and by chroma up/downsampling.
  The kernel shapes (point, bilinear, bicubic, spline16, spline36,
  lanczos) are the numerical recipes spec §9 explicitly leaves external
  ("resizer coefficient math... referenced by filter kind only"); this
  file supplies a working implementation sufficient to exercise the
  filter contract, grounded on gonum's floats package for the
  sum-to-unity tap normalization (gonum.org/v1/gonum/floats, wired per
  SPEC_FULL.md §3) rather than a hand-rolled normalization loop.

AUTHORS
  Mara Delacroix <mara@kestrel-imaging.dev>
*/

package filters

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/kestrel-imaging/zimg/pixel"
)

// kernelSupport returns the filter's half-width of support (taps extend
// support samples either side of the sampling point), and resolves the
// spec's "NaN means use kernel default" convention for a and b,
// independently per parameter (spec §9 Open Question resolution).
func kernelSupport(k pixel.ResampleFilter, a, b float64) (support float64, ra, rb float64) {
	da, db := 0.0, 0.5
	switch k {
	case pixel.ResamplePoint:
		da, db = 0, 0
	case pixel.ResampleBilinear:
		da, db = 0, 0
	case pixel.ResampleBicubic:
		da, db = 1.0 / 3, 1.0 / 3
	case pixel.ResampleLanczos:
		da, db = 3, 0
	}
	ra, rb = a, b
	if math.IsNaN(ra) {
		ra = da
	}
	if math.IsNaN(rb) {
		rb = db
	}
	switch k {
	case pixel.ResamplePoint:
		return 0.5, ra, rb
	case pixel.ResampleBilinear:
		return 1, ra, rb
	case pixel.ResampleBicubic:
		return 2, ra, rb
	case pixel.ResampleSpline16:
		return 2, ra, rb
	case pixel.ResampleSpline36:
		return 3, ra, rb
	case pixel.ResampleLanczos:
		if ra < 1 {
			ra = 3
		}
		return ra, ra, rb
	default:
		return 1, ra, rb
	}
}

// weight evaluates the kernel's 1-D weight function at distance x from
// the sampling center.
func weight(k pixel.ResampleFilter, x, a, b float64) float64 {
	x = math.Abs(x)
	switch k {
	case pixel.ResamplePoint:
		if x < 0.5 {
			return 1
		}
		return 0
	case pixel.ResampleBilinear:
		if x < 1 {
			return 1 - x
		}
		return 0
	case pixel.ResampleBicubic:
		return bicubicWeight(x, a)
	case pixel.ResampleSpline16:
		return spline16Weight(x)
	case pixel.ResampleSpline36:
		return spline36Weight(x)
	case pixel.ResampleLanczos:
		support := a
		if support < 1 {
			support = 3
		}
		return lanczosWeight(x, support)
	default:
		if x < 1 {
			return 1 - x
		}
		return 0
	}
}

func bicubicWeight(x, b float64) float64 {
	a := -0.5 - b // Keys' convention parameterized by b (Mitchell-Netravali style blend).
	if x < 1 {
		return (a+2)*x*x*x - (a+3)*x*x + 1
	}
	if x < 2 {
		return a*x*x*x - 5*a*x*x + 8*a*x - 4*a
	}
	return 0
}

func spline16Weight(x float64) float64 {
	if x < 1 {
		return ((x-9.0/5)*x-1.0/5)*x + 1
	}
	if x < 2 {
		return ((-1.0/3*(x-1)+4.0/5)*(x-1)-7.0/15)*(x - 1)
	}
	return 0
}

func spline36Weight(x float64) float64 {
	if x < 1 {
		return ((13.0/11*x-453.0/209)*x-3.0/209)*x + 1
	}
	if x < 2 {
		return ((-6.0/11*(x-1)+270.0/209)*(x-1)-156.0/209)*(x - 1)
	}
	if x < 3 {
		return ((1.0/11*(x-2)-45.0/209)*(x-2)+26.0/209)*(x - 2)
	}
	return 0
}

func lanczosWeight(x, support float64) float64 {
	if x == 0 {
		return 1
	}
	if x >= support {
		return 0
	}
	px := math.Pi * x
	return support * math.Sin(px) * math.Sin(px/support) / (px * px)
}

// taps computes, for one output sample centered at srcCenter (in source
// sample coordinates), the normalized kernel weights and the first
// source sample index they apply to.
func taps(k pixel.ResampleFilter, srcCenter, support, a, b float64, scratch []float64) (first int, n int) {
	lo := int(math.Floor(srcCenter - support))
	hi := int(math.Ceil(srcCenter + support))
	n = hi - lo + 1
	if n > len(scratch) {
		n = len(scratch)
	}
	for i := 0; i < n; i++ {
		scratch[i] = weight(k, float64(lo+i)-srcCenter, a, b)
	}
	sum := floats.Sum(scratch[:n])
	if sum != 0 {
		floats.Scale(1/sum, scratch[:n])
	}
	return lo, n
}
