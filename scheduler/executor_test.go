/*
NAME
  executor_test.go

AUTHORS
  Mara Delacroix <mara@kestrel-imaging.dev>
*/

package scheduler

import (
	"testing"

	"github.com/kestrel-imaging/zimg/filters"
	"github.com/kestrel-imaging/zimg/pixel"
	"github.com/kestrel-imaging/zimg/ring"
)

func TestExecutorCopyIdentity(t *testing.T) {
	const w, h = 17, 9
	attrs := pixel.Attributes{Width: w, Height: h, Type: pixel.BYTE}

	src := ring.NewPlaneBuffer(w, h, pixel.BYTE, ring.AllOnes)
	for y := 0; y < h; y++ {
		row := src.RowBytes(y)
		for x := 0; x < w; x++ {
			row[x] = byte((y*w + x) % 251)
		}
	}

	dst := ring.NewPlaneBuffer(w, h, pixel.BYTE, ring.AllOnes)

	cp := filters.NewCopy(attrs, false)
	stage := NewStage(cp, ring.ImageBuffer{Planes: [3]ring.PlaneBuffer{dst}})

	ex := &Executor{
		Src:    Source{Buf: ring.ImageBuffer{Planes: [3]ring.PlaneBuffer{src}}, Planes: 1},
		Stages: []*Stage{stage},
	}
	ex.PropagateColumns(0, w)
	tmp := make([]byte, ex.TmpSize())
	ex.Run(h, 0, w, tmp)

	for y := 0; y < h; y++ {
		got := dst.RowBytes(y)[:w]
		want := src.RowBytes(y)[:w]
		for x := 0; x < w; x++ {
			if got[x] != want[x] {
				t.Fatalf("row %d col %d: got %d want %d", y, x, got[x], want[x])
			}
		}
	}
}

func TestExecutorChainedDepthThenCopy(t *testing.T) {
	const w, h = 8, 4
	srcFmt := pixel.DefaultFormat(pixel.BYTE)

	src := ring.NewPlaneBuffer(w, h, pixel.BYTE, ring.AllOnes)
	for y := 0; y < h; y++ {
		row := src.RowBytes(y)
		for x := 0; x < w; x++ {
			row[x] = byte(x * 16)
		}
	}

	depth := filters.NewDepth(srcFmt, w, h, pixel.WORD, 16, false)
	edge := ring.NewPlaneBuffer(w, h, pixel.WORD, ring.SelectMask(1))
	depthStage := NewStage(depth, ring.ImageBuffer{Planes: [3]ring.PlaneBuffer{edge}})

	copyAttrs := pixel.Attributes{Width: w, Height: h, Type: pixel.WORD}
	cp := filters.NewCopy(copyAttrs, false)
	dst := ring.NewPlaneBuffer(w, h, pixel.WORD, ring.AllOnes)
	copyStage := NewStage(cp, ring.ImageBuffer{Planes: [3]ring.PlaneBuffer{dst}})

	ex := &Executor{
		Src:    Source{Buf: ring.ImageBuffer{Planes: [3]ring.PlaneBuffer{src}}, Planes: 1},
		Stages: []*Stage{depthStage, copyStage},
	}
	ex.PropagateColumns(0, w)
	tmp := make([]byte, ex.TmpSize())
	ex.Run(h, 0, w, tmp)

	work := make([]float64, w)
	for y := 0; y < h; y++ {
		pixel.ReadRow(dst.RowBytes(y), pixel.WORD, 0, w, work)
		for x := 0; x < w; x++ {
			want := float64(x*16) * 257 // BYTE(8-bit) -> WORD(16-bit) full-scale rescale.
			if work[x] != want {
				t.Errorf("row %d col %d: got %v want %v", y, x, work[x], want)
			}
		}
	}
}
