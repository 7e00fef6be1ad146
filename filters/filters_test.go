/*
NAME
  filters_test.go

AUTHORS
  Mara Delacroix <mara@kestrel-imaging.dev>
*/

package filters

import (
	"testing"

	"github.com/kestrel-imaging/zimg/pixel"
	"github.com/kestrel-imaging/zimg/zfilter"
)

func row(b []byte) [][]byte { return [][]byte{b} }

func TestCopyIdentity(t *testing.T) {
	attrs := pixel.Attributes{Width: 4, Height: 1, Type: pixel.BYTE}
	c := NewCopy(attrs, false)
	src := zfilter.Buffer{Rows: [3][][]byte{row([]byte{1, 2, 3, 4})}}
	dst := zfilter.Buffer{Rows: [3][][]byte{row(make([]byte, 4))}}
	c.Process(nil, src, dst, nil, 0, 0, 4)
	got := dst.Rows[0][0]
	for i, want := range []byte{1, 2, 3, 4} {
		if got[i] != want {
			t.Fatalf("col %d: got %d want %d", i, got[i], want)
		}
	}
}

func TestDepthByteToWordWidens(t *testing.T) {
	d := NewDepth(pixel.Format{Type: pixel.BYTE, Depth: 8}, 3, 1, pixel.WORD, 16, false)
	src := zfilter.Buffer{Rows: [3][][]byte{row([]byte{0, 1, 255})}}
	dst := zfilter.Buffer{Rows: [3][][]byte{row(make([]byte, 6))}}
	tmp := make([]byte, d.TmpSize(0, 3))
	d.Process(nil, src, dst, tmp, 0, 0, 3)

	want := []float64{0, 257, 65535}
	got := make([]float64, 3)
	pixel.ReadRow(dst.Rows[0][0], pixel.WORD, 0, 3, got)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("col %d: got %v want %v", i, got[i], want[i])
		}
	}
}

func TestGrayExpandRGBBroadcast(t *testing.T) {
	attrs := pixel.Attributes{Width: 3, Height: 1, Type: pixel.BYTE}
	g := NewGrayExpand(attrs, false)
	src := zfilter.Buffer{Rows: [3][][]byte{row([]byte{10, 20, 30})}}
	dst := zfilter.Buffer{
		Rows: [3][][]byte{row(make([]byte, 3)), row(make([]byte, 3)), row(make([]byte, 3))},
	}
	tmp := make([]byte, g.TmpSize(0, 3))
	g.Process(nil, src, dst, tmp, 0, 0, 3)
	for p := 0; p < 3; p++ {
		for x := 0; x < 3; x++ {
			if dst.Rows[p][0][x] != src.Rows[0][0][x] {
				t.Fatalf("plane %d col %d: got %d want %d (RGB broadcast)", p, x, dst.Rows[p][0][x], src.Rows[0][0][x])
			}
		}
	}
}

func TestGrayExpandYUVNeutralChroma(t *testing.T) {
	attrs := pixel.Attributes{Width: 2, Height: 1, Type: pixel.BYTE}
	g := NewGrayExpand(attrs, true)
	src := zfilter.Buffer{Rows: [3][][]byte{row([]byte{50, 200})}}
	dst := zfilter.Buffer{
		Rows: [3][][]byte{row(make([]byte, 2)), row(make([]byte, 2)), row(make([]byte, 2))},
	}
	tmp := make([]byte, g.TmpSize(0, 2))
	g.Process(nil, src, dst, tmp, 0, 0, 2)

	if dst.Rows[0][0][0] != 50 || dst.Rows[0][0][1] != 200 {
		t.Fatalf("luma plane not passed through: %v", dst.Rows[0][0])
	}
	want := byte(neutralLevel(pixel.BYTE))
	for p := 1; p < 3; p++ {
		for x := 0; x < 2; x++ {
			if dst.Rows[p][0][x] != want {
				t.Fatalf("plane %d col %d: got %d want neutral %d", p, x, dst.Rows[p][0][x], want)
			}
		}
	}
}

func TestPlaneSelectExtractsChosenPlane(t *testing.T) {
	attrs := pixel.Attributes{Width: 2, Height: 1, Type: pixel.BYTE}
	s := NewPlaneSelect(attrs, 1)
	src := zfilter.Buffer{Rows: [3][][]byte{
		row([]byte{1, 2}),
		row([]byte{9, 8}),
		row([]byte{3, 4}),
	}}
	dst := zfilter.Buffer{Rows: [3][][]byte{row(make([]byte, 2))}}
	s.Process(nil, src, dst, nil, 0, 0, 2)
	if dst.Rows[0][0][0] != 9 || dst.Rows[0][0][1] != 8 {
		t.Fatalf("got %v, want plane 1's bytes", dst.Rows[0][0])
	}
}

func TestColorMatrixRGBToYUVGrayInputIsAchromatic(t *testing.T) {
	m := NewColorMatrix(1, 1, pixel.BYTE, pixel.Matrix709, false, pixel.RangeFull)
	src := zfilter.Buffer{Rows: [3][][]byte{row([]byte{128}), row([]byte{128}), row([]byte{128})}}
	dst := zfilter.Buffer{Rows: [3][][]byte{row(make([]byte, 1)), row(make([]byte, 1)), row(make([]byte, 1))}}
	tmp := make([]byte, m.TmpSize(0, 1))
	m.Process(nil, src, dst, tmp, 0, 0, 1)

	if got := dst.Rows[0][0][0]; got != 128 {
		t.Fatalf("Y = %d, want 128 for an achromatic gray input", got)
	}
	for p, name := range map[int]string{1: "U", 2: "V"} {
		got := dst.Rows[p][0][0]
		if got < 127 || got > 128 {
			t.Fatalf("%s = %d, want neutral (~127.5) for an achromatic gray input", name, got)
		}
	}
}

func TestDitherOrderedStaysWithinDestinationRange(t *testing.T) {
	d := NewDither(pixel.Format{Type: pixel.BYTE, Depth: 8}, 8, 1, pixel.BYTE, 4, pixel.DitherOrdered, false)
	src := zfilter.Buffer{Rows: [3][][]byte{row([]byte{10, 40, 80, 120, 160, 200, 230, 255})}}
	dst := zfilter.Buffer{Rows: [3][][]byte{row(make([]byte, 8))}}
	tmp := make([]byte, d.TmpSize(0, 8))
	d.Process(nil, src, dst, tmp, 0, 0, 8)

	for x, v := range dst.Rows[0][0] {
		if v > 15 {
			t.Fatalf("col %d: dithered value %d exceeds the 4-bit destination range", x, v)
		}
	}
}

func TestHorizontalResizeIdentityUnderPointFilter(t *testing.T) {
	h := NewHorizontalResize(pixel.BYTE, 5, 5, 1, ResizeParams{Filter: pixel.ResamplePoint}, false)
	src := zfilter.Buffer{Rows: [3][][]byte{row([]byte{5, 10, 15, 20, 25})}}
	dst := zfilter.Buffer{Rows: [3][][]byte{row(make([]byte, 5))}}
	tmp := make([]byte, h.TmpSize(0, 5))
	h.Process(nil, src, dst, tmp, 0, 0, 5)

	for x, want := range []byte{5, 10, 15, 20, 25} {
		if got := dst.Rows[0][0][x]; got != want {
			t.Fatalf("col %d: got %d want %d (point filter at equal scale should reproduce the input)", x, got, want)
		}
	}
}
