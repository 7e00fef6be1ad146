/*
NAME
  format.go

DESCRIPTION
  format.go defines PixelFormat, ImageFormat and ImageAttributes, plus the
  invariant checks the graph builder relies on before planning a
  conversion.

AUTHORS
  Mara Delacroix <mara@kestrel-imaging.dev>
*/

package pixel

import "fmt"

// Format describes the sample layout of a single plane: its storage
// type, effective bit depth, and the two boolean conventions (full range,
// chroma) that affect how raw sample values are interpreted.
//
// Invariant: for HALF and FLOAT, Depth must equal ContainerBits(Type).
type Format struct {
	Type      Type
	Depth     int
	FullRange bool
	Chroma    bool
}

// Validate checks the PixelFormat invariants from spec §3.
func (f Format) Validate() error {
	if f.Depth < 1 || f.Depth > ContainerBits(f.Type) {
		return fmt.Errorf("pixel: depth %d out of range for %v (container %d bits)", f.Depth, f.Type, ContainerBits(f.Type))
	}
	if (f.Type == HALF || f.Type == FLOAT) && f.Depth != ContainerBits(f.Type) {
		return fmt.Errorf("pixel: %v requires depth %d, got %d", f.Type, ContainerBits(f.Type), f.Depth)
	}
	return nil
}

// DefaultFormat returns the conventional PixelFormat for a bare pixel
// type: maximum integer depth or exact float/half container width,
// limited range for BYTE, WORD and HALF, full range for FLOAT, no chroma
// offset.
func DefaultFormat(t Type) Format {
	switch t {
	case BYTE:
		return Format{Type: BYTE, Depth: 8}
	case WORD:
		return Format{Type: WORD, Depth: 16}
	case HALF:
		return Format{Type: HALF, Depth: 16}
	case FLOAT:
		return Format{Type: FLOAT, Depth: 32, FullRange: true}
	default:
		panic(fmt.Sprintf("pixel: unknown type %v", t))
	}
}

// ImageFormat is the full per-plane-group description of an image: its
// geometry, pixel storage, chroma subsampling, and every colorimetry
// field the graph builder reasons about.
type ImageFormat struct {
	Width, Height int

	Type Type

	// SubsampleW/SubsampleH are log2 subsampling factors in {0,1,2}.
	SubsampleW int
	SubsampleH int

	ColorFamily ColorFamily

	Depth     int
	Range     Range
	Matrix    MatrixCoefficients
	Transfer  TransferCharacteristics
	Primaries ColorPrimaries

	ChromaLocation ChromaLocation
	FieldParity    FieldParity
}

// PixelFormat extracts the Format subset of an ImageFormat.
func (f ImageFormat) PixelFormat() Format {
	return Format{
		Type:      f.Type,
		Depth:     f.Depth,
		FullRange: f.Range == RangeFull,
		Chroma:    f.ColorFamily == ColorFamilyYUV,
	}
}

// Attributes extracts the ImageAttributes subset of an ImageFormat.
func (f ImageFormat) Attributes() Attributes {
	return Attributes{Width: f.Width, Height: f.Height, Type: f.Type}
}

// Subsampled reports whether either chroma dimension is subsampled.
func (f ImageFormat) Subsampled() bool {
	return f.SubsampleW != 0 || f.SubsampleH != 0
}

// ChromaWidth and ChromaHeight give the dimensions of plane 1/2 given the
// luma dimensions and subsampling factors.
func (f ImageFormat) ChromaWidth() int  { return shiftDiv(f.Width, f.SubsampleW) }
func (f ImageFormat) ChromaHeight() int { return shiftDiv(f.Height, f.SubsampleH) }

func shiftDiv(v, shift int) int {
	return (v + (1 << shift) - 1) >> shift
}

// Validate checks the ImageFormat invariants from spec §3:
//
//   - GRAY/RGB imply no subsampling.
//   - RGB implies matrix == MatrixRGB and range == RangeFull.
//   - chroma siting is only meaningful when subsampled.
func (f ImageFormat) Validate() error {
	if f.Width <= 0 || f.Height <= 0 {
		return fmt.Errorf("pixel: non-positive dimensions %dx%d", f.Width, f.Height)
	}
	if f.SubsampleW < 0 || f.SubsampleW > 2 || f.SubsampleH < 0 || f.SubsampleH > 2 {
		return fmt.Errorf("pixel: subsampling factors out of range [0,2]: w=%d h=%d", f.SubsampleW, f.SubsampleH)
	}
	if (f.ColorFamily == ColorFamilyGray || f.ColorFamily == ColorFamilyRGB) && (f.SubsampleW != 0 || f.SubsampleH != 0) {
		return fmt.Errorf("pixel: %v color family cannot be subsampled", f.ColorFamily)
	}
	if f.ColorFamily == ColorFamilyRGB {
		if f.Matrix != MatrixRGB && f.Matrix != MatrixUnspecified {
			return fmt.Errorf("pixel: RGB format requires matrix RGB, got %v", f.Matrix)
		}
		if f.Range != RangeFull && f.Range != RangeUnspecified {
			return fmt.Errorf("pixel: RGB format requires full range, got %v", f.Range)
		}
	}
	if !f.Subsampled() && f.ChromaLocation != ChromaLocationUnspecified {
		return fmt.Errorf("pixel: chroma location specified for non-subsampled format")
	}
	return f.PixelFormat().Validate()
}

// Attributes is the subset of a format that a filter's output advertises
// to its consumers: geometry and storage type, nothing about colorimetry.
type Attributes struct {
	Width, Height int
	Type          Type
}

// Equal reports whether two Attributes describe the same plane shape.
func (a Attributes) Equal(b Attributes) bool {
	return a.Width == b.Width && a.Height == b.Height && a.Type == b.Type
}
