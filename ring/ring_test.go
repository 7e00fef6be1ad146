/*
NAME
  ring_test.go

AUTHORS
  Mara Delacroix <mara@kestrel-imaging.dev>
*/

package ring

import (
	"testing"

	"github.com/kestrel-imaging/zimg/pixel"
)

func TestSelectMask(t *testing.T) {
	cases := []struct {
		count uint32
		want  uint32
	}{
		{1, 0},
		{2, 1},
		{3, 3},
		{4, 3},
		{5, 7},
		{8, 7},
		{9, 15},
	}
	for _, c := range cases {
		if got := SelectMask(c.count); got != c.want {
			t.Errorf("SelectMask(%d) = %d, want %d", c.count, got, c.want)
		}
	}
}

func TestSelectMaskOverflow(t *testing.T) {
	if got := SelectMask(1<<31 + 1); got != AllOnes {
		t.Errorf("SelectMask(huge) = %d, want AllOnes", got)
	}
}

func TestPlaneBufferRowEviction(t *testing.T) {
	pb := NewPlaneBuffer(16, 100, pixel.BYTE, SelectMask(4)) // mask 3, 4 rows resident

	for i := 0; i < 4; i++ {
		row := pb.RowBytes(i)
		row[0] = byte(i + 1)
	}
	// Row 4 aliases slot (4 & 3) == 0, evicting row 0.
	row4 := pb.RowBytes(4)
	if row4[0] != 1 {
		t.Fatalf("expected row 4 to alias row 0's slot with stale content 1, got %d", row4[0])
	}
	row4[0] = 99
	row0 := pb.RowBytes(0)
	if row0[0] != 99 {
		t.Fatalf("expected row 0 view to observe eviction, got %d", row0[0])
	}
}

func TestPlaneBufferAllOnes(t *testing.T) {
	pb := NewPlaneBuffer(8, 10, pixel.BYTE, AllOnes)
	if got := pb.ResidentRows(10); got != 10 {
		t.Errorf("ResidentRows() = %d, want 10", got)
	}
	for i := 0; i < 10; i++ {
		pb.RowBytes(i)[0] = byte(i)
	}
	for i := 0; i < 10; i++ {
		if got := pb.RowBytes(i)[0]; got != byte(i) {
			t.Errorf("row %d = %d, want %d", i, got, i)
		}
	}
}
