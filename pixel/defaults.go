/*
NAME
  defaults.go

DESCRIPTION
  defaults.go implements the zero-init "default" constructors from the
  runtime API (spec §6): image_format_default and the API version used to
  gate any future wire-compatibility break.

AUTHORS
  Mara Delacroix <mara@kestrel-imaging.dev>
*/

package pixel

// APIVersion is the integer contract version described in spec §6. A
// caller compiled against an older APIVersion may still link against a
// newer library; this module does not currently define any
// version-gated behavior, but the field is threaded through for parity
// with the reference interface.
const APIVersion = 2

// DefaultImageFormat zero-initializes an ImageFormat with the sentinel
// "unspecified" value in every enumerated field, per
// image_format_default. Width/Height/Type/subsampling are left at their
// Go zero values (0, 0, BYTE, 0, 0) since the runtime API treats those as
// "not yet set" rather than enumerated sentinels.
func DefaultImageFormat(apiVersion int) ImageFormat {
	_ = apiVersion
	return ImageFormat{
		ColorFamily:    ColorFamilyUnspecified,
		Range:          RangeUnspecified,
		Matrix:         MatrixUnspecified,
		Transfer:       TransferUnspecified,
		Primaries:      PrimariesUnspecified,
		ChromaLocation: ChromaLocationUnspecified,
		FieldParity:    FieldProgressive,
	}
}
