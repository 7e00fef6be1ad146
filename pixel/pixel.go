/*
NAME
  pixel.go

DESCRIPTION
  pixel.go defines the pixel type enumeration and the size, in bytes, of
  one sample of each type.

AUTHORS
  Mara Delacroix <mara@kestrel-imaging.dev>
*/

// Package pixel provides the pixel and image format model shared by every
// stage of the conversion engine: pixel types, pixel formats, image
// formats and the narrower image attribute triple that filters advertise
// to their consumers.
package pixel

import "fmt"

// Type identifies the storage representation of one pixel sample.
type Type int

const (
	// BYTE is an 8-bit unsigned integer sample.
	BYTE Type = iota
	// WORD is a 16-bit unsigned integer sample.
	WORD
	// HALF is a 16-bit IEEE-754 half-precision float sample.
	HALF
	// FLOAT is a 32-bit IEEE-754 float sample.
	FLOAT
)

func (t Type) String() string {
	switch t {
	case BYTE:
		return "BYTE"
	case WORD:
		return "WORD"
	case HALF:
		return "HALF"
	case FLOAT:
		return "FLOAT"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// Size returns pixel_size(t): the number of bytes occupied by one sample
// of the given type.
func Size(t Type) int {
	switch t {
	case BYTE:
		return 1
	case WORD, HALF:
		return 2
	case FLOAT:
		return 4
	default:
		panic(fmt.Sprintf("pixel: unknown type %v", t))
	}
}

// ContainerBits returns the bit width of the storage container for t,
// i.e. 8*Size(t).
func ContainerBits(t Type) int {
	return Size(t) * 8
}
