/*
NAME
  colormatrix.go

DESCRIPTION
  colormatrix.go implements the YUV<->RGB matrix transform of spec §4.4
  step 3. The graph builder inserts it only when the color family changes
  between YUV and RGB (and ahead of plane selection for RGB to GRAY); two
  formats of the same family that differ only in matrix coefficients get
  no matrix stage.
  The 3x3 coefficient tables (ITU-R BT.601/709/2020) are the "color
  matrix arithmetic" spec §1/§9 leaves external as a numerical kernel;
  this file supplies the standard forward/inverse tables and applies them
  per pixel via gonum's mat.Dense multiply (gonum.org/v1/gonum/mat, wired
  per SPEC_FULL.md §3) rather than hand-unrolled scalar arithmetic.

AUTHORS
  Mara Delacroix <mara@kestrel-imaging.dev>
*/

package filters

import (
	"gonum.org/v1/gonum/mat"

	"github.com/kestrel-imaging/zimg/pixel"
	"github.com/kestrel-imaging/zimg/zfilter"
)

// yuvToRGBCoefficients returns the Kr, Kb luma coefficients for the
// given matrix standard.
func yuvToRGBCoefficients(m pixel.MatrixCoefficients) (kr, kb float64) {
	switch m {
	case pixel.Matrix709:
		return 0.2126, 0.0722
	case pixel.Matrix2020NCL, pixel.Matrix2020CL:
		return 0.2627, 0.0593
	default: // Matrix470BG and anything else fall back to BT.601.
		return 0.299, 0.114
	}
}

// yuvToRGBMatrix builds the 3x3 matrix mapping (Y, Cb, Cr) offsets to
// (R, G, B), for full-range, zero-centered chroma input.
func yuvToRGBMatrix(m pixel.MatrixCoefficients) *mat.Dense {
	kr, kb := yuvToRGBCoefficients(m)
	kg := 1 - kr - kb
	return mat.NewDense(3, 3, []float64{
		1, 0, 2 * (1 - kr),
		1, -2 * (1 - kb) * kb / kg, -2 * (1 - kr) * kr / kg,
		1, 2 * (1 - kb), 0,
	})
}

// rgbToYUVMatrix is the algebraic inverse direction, built directly from
// the same coefficients rather than a generic matrix inverse.
func rgbToYUVMatrix(m pixel.MatrixCoefficients) *mat.Dense {
	kr, kb := yuvToRGBCoefficients(m)
	kg := 1 - kr - kb
	return mat.NewDense(3, 3, []float64{
		kr, kg, kb,
		-0.5 * kr / (1 - kb), -0.5 * kg / (1 - kb), 0.5,
		0.5, -0.5 * kg / (1 - kr), -0.5 * kb / (1 - kr),
	})
}

// ColorMatrix applies a 3x3 transform jointly across all three planes of
// a row, converting between YUV and RGB representations.
type ColorMatrix struct {
	zfilter.Base
	attrs    pixel.Attributes
	forward  bool // true: YUV -> RGB, false: RGB -> YUV
	m        *mat.Dense
	srcRange pixel.Range
}

// NewColorMatrix constructs a matrix transform filter. forward selects
// YUV->RGB (true) or RGB->YUV (false); coeffs selects the ITU standard.
func NewColorMatrix(width, height int, typ pixel.Type, coeffs pixel.MatrixCoefficients, forward bool, srcRange pixel.Range) *ColorMatrix {
	var m *mat.Dense
	if forward {
		m = yuvToRGBMatrix(coeffs)
	} else {
		m = rgbToYUVMatrix(coeffs)
	}
	return &ColorMatrix{
		attrs:    pixel.Attributes{Width: width, Height: height, Type: typ},
		forward:  forward,
		m:        m,
		srcRange: srcRange,
	}
}

func (c *ColorMatrix) Flags() zfilter.Flags {
	return zfilter.Flags{SameRow: true, EntireRow: true, Color: true}
}

func (c *ColorMatrix) ImageAttributes() pixel.Attributes { return c.attrs }

func (c *ColorMatrix) RequiredColRange(l, r int) zfilter.Range {
	return zfilter.Range{Lo: 0, Hi: c.attrs.Width}
}

func (c *ColorMatrix) TmpSize(l, r int) int { return (r - l) * 3 * 8 }

func (c *ColorMatrix) Process(ctx []byte, src, dst zfilter.Buffer, tmp []byte, i, l, r int) {
	count := r - l
	scratch := zfilter.Float64Scratch(tmp, count*3)
	y := scratch[0:count]
	u := scratch[count : 2*count]
	v := scratch[2*count : 3*count]

	pixel.ReadRow(src.Rows[0][0], c.attrs.Type, l, count, y)
	pixel.ReadRow(src.Rows[1][0], c.attrs.Type, l, count, u)
	pixel.ReadRow(src.Rows[2][0], c.attrs.Type, l, count, v)

	full := 1.0
	if c.attrs.Type != pixel.FLOAT && c.attrs.Type != pixel.HALF {
		full = float64(uint64(1)<<pixel.ContainerBits(c.attrs.Type) - 1)
	}
	half := full / 2

	in := mat.NewVecDense(3, nil)
	out := mat.NewVecDense(3, nil)
	for col := 0; col < count; col++ {
		if c.forward {
			in.SetVec(0, y[col])
			in.SetVec(1, u[col]-half)
			in.SetVec(2, v[col]-half)
			out.MulVec(c.m, in)
			y[col], u[col], v[col] = out.AtVec(0), out.AtVec(1), out.AtVec(2)
		} else {
			in.SetVec(0, y[col])
			in.SetVec(1, u[col])
			in.SetVec(2, v[col])
			out.MulVec(c.m, in)
			y[col], u[col], v[col] = out.AtVec(0), out.AtVec(1)+half, out.AtVec(2)+half
		}
	}

	pixel.WriteRow(dst.Rows[0][0], c.attrs.Type, l, count, y)
	pixel.WriteRow(dst.Rows[1][0], c.attrs.Type, l, count, u)
	pixel.WriteRow(dst.Rows[2][0], c.attrs.Type, l, count, v)
}
