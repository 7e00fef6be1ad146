/*
NAME
  half.go

DESCRIPTION
  half.go implements IEEE-754 half precision <-> float32 bit conversion.
  No library in the retrieved example pack provides a float16 codec
  (golang.org/x/image only touches 8/16-bit integer formats); this is the
  one numeric primitive in the pixel model built on the standard library,
  per the grounding ledger in DESIGN.md.

AUTHORS
  Mara Delacroix <mara@kestrel-imaging.dev>
*/

package pixel

import "math"

// HalfToFloat32 widens one IEEE-754 half-precision bit pattern to a
// float32.
func HalfToFloat32(h uint16) float32 {
	sign := uint32(h&0x8000) << 16
	exp := (h >> 10) & 0x1f
	frac := uint32(h & 0x3ff)

	switch exp {
	case 0:
		if frac == 0 {
			return math.Float32frombits(sign)
		}
		// Subnormal half -> normalized float32.
		e := -1
		for frac&0x400 == 0 {
			frac <<= 1
			e--
		}
		frac &= 0x3ff
		bits := sign | uint32(int32(127-15+e+2))<<23 | frac<<13
		return math.Float32frombits(bits)
	case 0x1f:
		bits := sign | 0xff<<23 | frac<<13
		return math.Float32frombits(bits)
	default:
		bits := sign | (uint32(exp)-15+127)<<23 | frac<<13
		return math.Float32frombits(bits)
	}
}

// Float32ToHalf narrows a float32 to an IEEE-754 half-precision bit
// pattern, rounding to nearest-even.
func Float32ToHalf(f float32) uint16 {
	bits := math.Float32bits(f)
	sign := uint16((bits >> 16) & 0x8000)
	exp := int32((bits>>23)&0xff) - 127 + 15
	frac := bits & 0x7fffff

	switch {
	case exp <= 0:
		if exp < -10 {
			return sign
		}
		frac |= 0x800000
		shift := uint(14 - exp)
		half := frac >> shift
		if frac>>(shift-1)&1 != 0 && (frac&(1<<(shift-1)-1) != 0 || half&1 != 0) {
			half++
		}
		return sign | uint16(half)
	case exp >= 0x1f:
		if (bits>>23)&0xff == 0xff {
			// NaN/Inf.
			f16frac := uint16(0)
			if frac != 0 {
				f16frac = 1
			}
			return sign | 0x7c00 | f16frac
		}
		return sign | 0x7c00 // Overflow to infinity.
	default:
		half := uint16(exp)<<10 | uint16(frac>>13)
		if frac&0x1000 != 0 && (frac&0x0fff != 0 || half&1 != 0) {
			half++
		}
		return sign | half
	}
}
