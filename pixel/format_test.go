/*
NAME
  format_test.go

AUTHORS
  Mara Delacroix <mara@kestrel-imaging.dev>
*/

package pixel

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSize(t *testing.T) {
	cases := []struct {
		typ  Type
		want int
	}{
		{BYTE, 1},
		{WORD, 2},
		{HALF, 2},
		{FLOAT, 4},
	}
	for _, c := range cases {
		if got := Size(c.typ); got != c.want {
			t.Errorf("Size(%v) = %d, want %d", c.typ, got, c.want)
		}
	}
}

func TestFormatValidate(t *testing.T) {
	cases := []struct {
		name    string
		f       Format
		wantErr bool
	}{
		{"byte depth 8", Format{Type: BYTE, Depth: 8}, false},
		{"byte depth 0", Format{Type: BYTE, Depth: 0}, true},
		{"byte depth 9", Format{Type: BYTE, Depth: 9}, true},
		{"half depth 16", Format{Type: HALF, Depth: 16}, false},
		{"half depth 8", Format{Type: HALF, Depth: 8}, true},
		{"float depth 32", Format{Type: FLOAT, Depth: 32}, false},
		{"float depth 16", Format{Type: FLOAT, Depth: 16}, true},
	}
	for _, c := range cases {
		err := c.f.Validate()
		if (err != nil) != c.wantErr {
			t.Errorf("%s: Validate() error = %v, wantErr %v", c.name, err, c.wantErr)
		}
	}
}

func TestImageFormatValidate(t *testing.T) {
	base := ImageFormat{
		Width: 64, Height: 64, Type: BYTE, Depth: 8,
		ColorFamily: ColorFamilyGray, Range: RangeLimited,
	}

	t.Run("valid gray", func(t *testing.T) {
		if err := base.Validate(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("gray cannot be subsampled", func(t *testing.T) {
		f := base
		f.SubsampleW = 1
		if err := f.Validate(); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("rgb requires matrix rgb and full range", func(t *testing.T) {
		f := base
		f.ColorFamily = ColorFamilyRGB
		f.Matrix = Matrix709
		f.Range = RangeLimited
		if err := f.Validate(); err == nil {
			t.Fatal("expected error")
		}
		f.Matrix = MatrixRGB
		f.Range = RangeFull
		if err := f.Validate(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("chroma location requires subsampling", func(t *testing.T) {
		f := base
		f.ChromaLocation = ChromaLocationLeft
		if err := f.Validate(); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("420 yuv valid with siting", func(t *testing.T) {
		f := ImageFormat{
			Width: 64, Height: 64, Type: WORD, Depth: 10,
			ColorFamily: ColorFamilyYUV, SubsampleW: 1, SubsampleH: 1,
			Range: RangeLimited, Matrix: Matrix709,
			ChromaLocation: ChromaLocationLeft,
		}
		if err := f.Validate(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got, want := f.ChromaWidth(), 32; got != want {
			t.Errorf("ChromaWidth() = %d, want %d", got, want)
		}
	})
}

func TestDefaultImageFormat(t *testing.T) {
	f := DefaultImageFormat(APIVersion)
	want := ImageFormat{
		ColorFamily:    ColorFamilyUnspecified,
		Range:          RangeUnspecified,
		Matrix:         MatrixUnspecified,
		Transfer:       TransferUnspecified,
		Primaries:      PrimariesUnspecified,
		ChromaLocation: ChromaLocationUnspecified,
		FieldParity:    FieldProgressive,
	}
	if diff := cmp.Diff(want, f); diff != "" {
		t.Errorf("DefaultImageFormat() mismatch (-want +got):\n%s", diff)
	}
}

func TestAttributesEqual(t *testing.T) {
	a := Attributes{Width: 10, Height: 20, Type: BYTE}
	b := Attributes{Width: 10, Height: 20, Type: BYTE}
	c := Attributes{Width: 10, Height: 21, Type: BYTE}
	if !a.Equal(b) {
		t.Error("expected a == b")
	}
	if a.Equal(c) {
		t.Error("expected a != c")
	}
}
