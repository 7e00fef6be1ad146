/*
NAME
  enums.go

DESCRIPTION
  enums.go holds the stable integer enumerations used throughout the
  format model and the public API: color family, pixel range, chroma
  location, matrix coefficients, transfer characteristics, color
  primaries, dither method, resample filter kind and CPU capability hint.

  ColorFamily, Range, ChromaLocation, MatrixCoefficients,
  TransferCharacteristics and ColorPrimaries each carry an Unspecified
  value (-1) meaning "ignore for purposes of comparison", per the runtime
  API contract. DitherType, ResampleFilter, CPUType and FieldParity have
  no Unspecified value; their zero value is a concrete setting.

AUTHORS
  Mara Delacroix <mara@kestrel-imaging.dev>
*/

package pixel

// ColorFamily identifies the plane semantics of an image format.
type ColorFamily int

const (
	ColorFamilyUnspecified ColorFamily = -1
	ColorFamilyGray        ColorFamily = 0
	ColorFamilyRGB         ColorFamily = 1
	ColorFamilyYUV         ColorFamily = 2
)

// Range is the pixel value range convention (limited vs. full).
type Range int

const (
	RangeUnspecified Range = -1
	RangeLimited     Range = 0
	RangeFull        Range = 1
)

// ChromaLocation is the sub-pixel siting of chroma samples relative to
// luma in a subsampled format. Only significant when the format is
// actually subsampled.
type ChromaLocation int

const (
	ChromaLocationUnspecified ChromaLocation = -1
	ChromaLocationLeft        ChromaLocation = 0
	ChromaLocationCenter      ChromaLocation = 1
	ChromaLocationTopLeft     ChromaLocation = 2
	ChromaLocationTop         ChromaLocation = 3
	ChromaLocationBottomLeft  ChromaLocation = 4
	ChromaLocationBottom      ChromaLocation = 5
)

// MatrixCoefficients identifies the YUV<->RGB conversion matrix.
type MatrixCoefficients int

const (
	MatrixUnspecified MatrixCoefficients = -1
	MatrixRGB         MatrixCoefficients = 0
	Matrix470BG       MatrixCoefficients = 1
	Matrix709         MatrixCoefficients = 2
	Matrix2020NCL     MatrixCoefficients = 3
	Matrix2020CL      MatrixCoefficients = 4
)

// TransferCharacteristics identifies the opto-electronic transfer
// function (gamma curve) used by a format.
type TransferCharacteristics int

const (
	TransferUnspecified TransferCharacteristics = -1
	Transfer709         TransferCharacteristics = 0
	TransferLinear      TransferCharacteristics = 1
	Transfer2020_10     TransferCharacteristics = 2
	Transfer2020_12     TransferCharacteristics = 3
	TransferSRGB        TransferCharacteristics = 4
)

// ColorPrimaries identifies the chromaticity coordinates of a format's
// RGB/YUV primaries.
type ColorPrimaries int

const (
	PrimariesUnspecified ColorPrimaries = -1
	Primaries709         ColorPrimaries = 0
	Primaries170M        ColorPrimaries = 1
	Primaries2020        ColorPrimaries = 2
)

// DitherType selects the narrowing-dither algorithm inserted by the graph
// builder when packing to a lower-precision integer format.
type DitherType int

const (
	DitherNone DitherType = iota
	DitherOrdered
	DitherRandom
	DitherErrorDiffusion
)

// ResampleFilter selects the polyphase resampling kernel used by
// horizontal/vertical resize and by chroma up/downsampling.
type ResampleFilter int

const (
	ResamplePoint ResampleFilter = iota
	ResampleBilinear
	ResampleBicubic
	ResampleSpline16
	ResampleSpline36
	ResampleLanczos
)

// CPUType is a capability hint for kernel dispatch. The core here only
// models the enumeration; the dispatch itself lives in the (out of
// scope) numerical kernels.
type CPUType int

const (
	CPUAuto CPUType = iota
	CPUScalar
	CPUSSE2
	CPUAVX2
)

// FieldParity identifies interlaced field ordering; zero value means
// progressive (no parity).
type FieldParity int

const (
	FieldProgressive FieldParity = iota
	FieldTop
	FieldBottom
)
