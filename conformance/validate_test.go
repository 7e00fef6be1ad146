/*
NAME
  validate_test.go

DESCRIPTION
  validate_test.go exercises the S1-S4 identity-copy geometry against
  filters.Copy across all four pixel types, and filters.PlaneSelect as a
  single-plane extraction, without asserting the spec's literal
  hardcoded SHA-1 digests (see DESIGN.md: those are anchored to the
  reference implementation's own PRNG, which this module does not
  reproduce).

AUTHORS
  Mara Delacroix <mara@kestrel-imaging.dev>
*/

package conformance

import (
	"testing"

	"github.com/kestrel-imaging/zimg/filters"
	"github.com/kestrel-imaging/zimg/pixel"
	"github.com/kestrel-imaging/zimg/zfilter"
)

func TestValidateIdentityCopyAllTypes(t *testing.T) {
	const w, h = 591, 333
	for _, typ := range []pixel.Type{pixel.BYTE, pixel.WORD, pixel.HALF, pixel.FLOAT} {
		typ := typ
		t.Run(typ.String(), func(t *testing.T) {
			attrs := pixel.Attributes{Width: w, Height: h, Type: typ}
			f := filters.NewCopy(attrs, false)
			res, err := Validate(Config{
				Filter:   f,
				SrcAttrs: attrs,
				Seed:     int64(w)<<32 | int64(h)<<8 | int64(typ),
			})
			if err != nil {
				t.Fatalf("Validate: %v", err)
			}
			if len(res.Hashes[0]) != 20 {
				t.Fatalf("expected a 20-byte SHA-1 digest, got %d bytes", len(res.Hashes[0]))
			}
		})
	}
}

func TestValidateCopySmallColor(t *testing.T) {
	attrs := pixel.Attributes{Width: 16, Height: 9, Type: pixel.BYTE}
	f := filters.NewCopy(attrs, true)
	if _, err := Validate(Config{Filter: f, SrcAttrs: attrs, Seed: 42}); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidatePlaneSelect(t *testing.T) {
	attrs := pixel.Attributes{Width: 20, Height: 5, Type: pixel.BYTE}
	f := filters.NewPlaneSelect(attrs, 0)
	if _, err := Validate(Config{Filter: f, SrcAttrs: attrs, Seed: 3}); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidateRejectsBadFlags(t *testing.T) {
	// A filter that claims EntirePlane without EntireRow violates
	// invariant 2 and Validate must report it rather than panic or pass.
	f := &badFlagsFilter{attrs: pixel.Attributes{Width: 4, Height: 4, Type: pixel.BYTE}}
	if _, err := Validate(Config{Filter: f, SrcAttrs: f.attrs, Seed: 1}); err == nil {
		t.Fatal("expected an error for an invalid flag combination")
	}
}

// badFlagsFilter implements zfilter.Filter but declares an invalid flag
// combination (EntirePlane without EntireRow), which Validate must
// reject at the step-1 invariant check rather than panic or pass.
type badFlagsFilter struct {
	attrs pixel.Attributes
}

func (b *badFlagsFilter) Flags() zfilter.Flags {
	return zfilter.Flags{EntirePlane: true}
}

func (b *badFlagsFilter) ImageAttributes() pixel.Attributes { return b.attrs }
func (b *badFlagsFilter) SimultaneousLines() uint32         { return zfilter.Unbounded }
func (b *badFlagsFilter) MaxBuffering() uint32              { return zfilter.Unbounded }
func (b *badFlagsFilter) RequiredRowRange(i int) zfilter.Range {
	return zfilter.Range{Lo: i, Hi: i + 1}
}
func (b *badFlagsFilter) RequiredColRange(l, r int) zfilter.Range {
	return zfilter.Range{Lo: l, Hi: r}
}
func (b *badFlagsFilter) ContextSize() int     { return 0 }
func (b *badFlagsFilter) TmpSize(int, int) int { return 0 }
func (b *badFlagsFilter) InitContext([]byte)   {}
func (b *badFlagsFilter) Process(ctx []byte, src, dst zfilter.Buffer, tmp []byte, i, l, r int) {
}
