/*
NAME
  sample.go

DESCRIPTION
  sample.go provides row-level sample decode/encode helpers shared by the
  filter implementations: reading a row of any PixelType into a float64
  working slice, and writing it back.

AUTHORS
  Mara Delacroix <mara@kestrel-imaging.dev>
*/

package pixel

import (
	"encoding/binary"
	"math"
)

// Sample constrains the Go storage types that back a pixel sample at the
// byte level: uint8 for BYTE, uint16 for WORD and HALF (the latter's IEEE
// half bits live in the same 16-bit container), float32 for FLOAT. Used by
// package conformance to parameterize its audit buffer over the concrete
// container without duplicating it per PixelType.
type Sample interface {
	~uint8 | ~uint16 | ~float32
}

// ReadRow decodes count samples of type t starting at byte offset
// col*Size(t) in row into dst (which must have length >= count).
func ReadRow(row []byte, t Type, col, count int, dst []float64) {
	off := col * Size(t)
	switch t {
	case BYTE:
		for i := 0; i < count; i++ {
			dst[i] = float64(row[off+i])
		}
	case WORD:
		for i := 0; i < count; i++ {
			dst[i] = float64(binary.LittleEndian.Uint16(row[off+2*i:]))
		}
	case HALF:
		for i := 0; i < count; i++ {
			dst[i] = float64(HalfToFloat32(binary.LittleEndian.Uint16(row[off+2*i:])))
		}
	case FLOAT:
		for i := 0; i < count; i++ {
			dst[i] = float64(math.Float32frombits(binary.LittleEndian.Uint32(row[off+4*i:])))
		}
	}
}

// WriteRow encodes count samples of type t from src into row starting at
// byte offset col*Size(t).
func WriteRow(row []byte, t Type, col, count int, src []float64) {
	off := col * Size(t)
	switch t {
	case BYTE:
		for i := 0; i < count; i++ {
			row[off+i] = byte(clamp(src[i], 0, 255))
		}
	case WORD:
		for i := 0; i < count; i++ {
			binary.LittleEndian.PutUint16(row[off+2*i:], uint16(clamp(src[i], 0, 65535)))
		}
	case HALF:
		for i := 0; i < count; i++ {
			binary.LittleEndian.PutUint16(row[off+2*i:], Float32ToHalf(float32(src[i])))
		}
	case FLOAT:
		for i := 0; i < count; i++ {
			binary.LittleEndian.PutUint32(row[off+4*i:], math.Float32bits(float32(src[i])))
		}
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return math.Round(v)
}
