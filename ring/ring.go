/*
NAME
  ring.go

DESCRIPTION
  ring.go implements the plane-of-rows ring buffer described in spec §4.2:
  a power-of-two row-count mask per plane enabling circular addressing,
  plus the mask-selection rule ported from the reference
  select_zimg_buffer_mask helper (Common/zfilter.h in the retrieved
  source).

AUTHORS
  Mara Delacroix <mara@kestrel-imaging.dev>
*/

package ring

import (
	"math/bits"

	"github.com/kestrel-imaging/zimg/pixel"
)

// AllOnes is the sentinel row mask meaning "the entire plane is
// resident"; row indices are never wrapped.
const AllOnes = ^uint32(0)

// Alignment is the platform row/scratch alignment floor required by
// spec §5.
const Alignment = 64

// SelectMask returns the smallest ring mask m such that m+1 >= count,
// i.e. m = next_pow2(count) - 1. count == 0 maps to mask 0 (one row).
// A count large enough that next_pow2 would overflow returns AllOnes,
// matching the reference's overflow-to-full-buffer behavior.
func SelectMask(count uint32) uint32 {
	if count == 0 {
		return 0
	}
	if count > 1<<31 {
		return AllOnes
	}
	n := count - 1
	if n == 0 {
		return 0
	}
	lz := bits.LeadingZeros32(n)
	shift := 32 - lz
	return uint32(1)<<shift - 1
}

// Row returns the slot index that row i occupies under mask m. Callers
// must not call Row with mask == AllOnes; use i directly in that case.
func Row(i int, mask uint32) int {
	return i & int(mask)
}

// PlaneBuffer is a view over one plane's storage: a row-stride byte
// buffer addressed modulo (mask+1) rows, or resident in full when
// mask == AllOnes.
type PlaneBuffer struct {
	Data   []byte
	Stride int
	Mask   uint32
}

// NewPlaneBuffer allocates a PlaneBuffer holding mask+1 rows (or height
// rows if mask == AllOnes) of width*pixelSize bytes each,
// stride-padded up to Alignment.
func NewPlaneBuffer(width, height int, typ pixel.Type, mask uint32) PlaneBuffer {
	rowBytes := width * pixel.Size(typ)
	stride := alignUp(rowBytes, Alignment)

	rows := height
	if mask != AllOnes {
		rows = int(mask) + 1
	}
	return PlaneBuffer{
		Data:   make([]byte, rows*stride+Alignment), // +Alignment slack for alignment padding
		Stride: stride,
		Mask:   mask,
	}
}

func alignUp(n, align int) int {
	return (n + align - 1) / align * align
}

// RowBytes returns the byte slice for logical row i. When Mask is
// AllOnes, i addresses the plane directly; otherwise it is reduced
// modulo Mask+1. Writing RowBytes(j) after previously writing
// RowBytes(j - (mask+1)) implicitly evicts the older row's contents,
// per spec §4.3.
func (p PlaneBuffer) RowBytes(i int) []byte {
	var slot int
	if p.Mask == AllOnes {
		slot = i
	} else {
		slot = Row(i, p.Mask)
	}
	off := slot * p.Stride
	return p.Data[off : off+p.Stride]
}

// ResidentRows returns the number of rows an observer may read
// simultaneously: Mask+1, or the full plane height when Mask == AllOnes.
func (p PlaneBuffer) ResidentRows(fullHeight int) int {
	if p.Mask == AllOnes {
		return fullHeight
	}
	return int(p.Mask) + 1
}

// ImageBuffer is up to three PlaneBuffers: color filters address planes
// 0..2, luma-only filters address plane 0 only.
type ImageBuffer struct {
	Planes [3]PlaneBuffer

	// ChromaShiftH is the log2 ratio of plane 0's row count to planes
	// 1/2's row count: 0 when chroma is not vertically subsampled, 1 for
	// 4:2:0-style formats, 2 for a quarter-height chroma plane. Row
	// addressing for planes 1/2 is always in plane-0 (luma) row units;
	// callers translate through this shift rather than maintaining a
	// second row cursor per plane.
	ChromaShiftH int
}

// Plane returns the i'th plane buffer (0=luma/gray, 1=Cb/U, 2=Cr/V).
func (b ImageBuffer) Plane(i int) PlaneBuffer { return b.Planes[i] }
