/*
NAME
  zimg_test.go

AUTHORS
  Mara Delacroix <mara@kestrel-imaging.dev>
*/

package api

import (
	"testing"

	"github.com/kestrel-imaging/zimg/graph"
	"github.com/kestrel-imaging/zimg/pixel"
	"github.com/kestrel-imaging/zimg/ring"
)

func grayFormat(w, h int, t pixel.Type) pixel.ImageFormat {
	f := ImageFormatDefault(GetAPIVersion())
	f.Width, f.Height, f.Type = w, h, t
	f.ColorFamily = pixel.ColorFamilyGray
	f.Depth = pixel.ContainerBits(t)
	f.Range = pixel.RangeFull
	return f
}

func TestBuildAndProcessRoundTrip(t *testing.T) {
	ClearLastError()
	src := grayFormat(8, 4, pixel.BYTE)
	dst := grayFormat(8, 4, pixel.BYTE)

	g, err := Build(src, dst, FilterGraphParamsDefault(GetAPIVersion()))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer g.Close()

	n, err := g.TmpSize()
	if err != nil || n < 0 {
		t.Fatalf("TmpSize: %d, %v", n, err)
	}

	srcBuf := ring.ImageBuffer{Planes: [3]ring.PlaneBuffer{ring.NewPlaneBuffer(8, 4, pixel.BYTE, ring.AllOnes)}}
	dstBuf := ring.ImageBuffer{Planes: [3]ring.PlaneBuffer{ring.NewPlaneBuffer(8, 4, pixel.BYTE, ring.AllOnes)}}
	for y := 0; y < 4; y++ {
		row := srcBuf.Plane(0).RowBytes(y)
		for x := range row {
			row[x] = byte(y*8 + x)
		}
	}

	if err := g.Process(srcBuf, dstBuf, make([]byte, n), nil, nil); err != nil {
		t.Fatalf("Process: %v", err)
	}
	for y := 0; y < 4; y++ {
		got := dstBuf.Plane(0).RowBytes(y)
		want := srcBuf.Plane(0).RowBytes(y)
		for x := range got {
			if got[x] != want[x] {
				t.Fatalf("row %d col %d: got %d want %d", y, x, got[x], want[x])
			}
		}
	}
}

func TestProcessWithPackUnpack(t *testing.T) {
	src := grayFormat(4, 3, pixel.BYTE)
	dst := grayFormat(4, 3, pixel.BYTE)
	g, err := Build(src, dst, FilterGraphParamsDefault(GetAPIVersion()))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer g.Close()

	n, _ := g.TmpSize()
	srcBuf := ring.ImageBuffer{Planes: [3]ring.PlaneBuffer{ring.NewPlaneBuffer(4, 3, pixel.BYTE, ring.AllOnes)}}
	dstBuf := ring.ImageBuffer{Planes: [3]ring.PlaneBuffer{ring.NewPlaneBuffer(4, 3, pixel.BYTE, ring.AllOnes)}}

	external := [][]byte{{10, 11, 12, 13}, {20, 21, 22, 23}, {30, 31, 32, 33}}
	var packed [][]byte

	unpack := func(row int, planes [3][]byte) {
		copy(planes[0], external[row])
	}
	pack := func(row int, planes [3][]byte) {
		cp := append([]byte(nil), planes[0][:4]...)
		packed = append(packed, cp)
	}

	if err := g.Process(srcBuf, dstBuf, make([]byte, n), unpack, pack); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(packed) != 3 {
		t.Fatalf("expected 3 packed rows, got %d", len(packed))
	}
	for y, row := range packed {
		for x, v := range row {
			if v != external[y][x] {
				t.Fatalf("row %d col %d: got %d want %d", y, x, v, external[y][x])
			}
		}
	}
}

func TestReleaseInvalidatesHandle(t *testing.T) {
	f := grayFormat(2, 2, pixel.BYTE)
	g, err := Build(f, f, FilterGraphParamsDefault(GetAPIVersion()))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	g.Release()
	if _, err := g.TmpSize(); err == nil {
		t.Fatal("expected an error using a Graph after its last Release")
	}
}

func TestAcquireKeepsHandleAliveAcrossOneRelease(t *testing.T) {
	f := grayFormat(2, 2, pixel.BYTE)
	g, err := Build(f, f, FilterGraphParamsDefault(GetAPIVersion()))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	g.Acquire()
	g.Release()
	if _, err := g.TmpSize(); err != nil {
		t.Fatalf("handle should still be usable after one of two releases: %v", err)
	}
	g.Release()
	if _, err := g.TmpSize(); err == nil {
		t.Fatal("expected an error after the second (final) release")
	}
}

func TestBuildErrorSetsLastError(t *testing.T) {
	ClearLastError()
	bad := grayFormat(0, 4, pixel.BYTE)
	if _, err := Build(bad, bad, FilterGraphParamsDefault(GetAPIVersion())); err == nil {
		t.Fatal("expected an error building from a zero-width format")
	}
	code, msg := GetLastError()
	if code != graph.IllegalArgument || msg == "" {
		t.Fatalf("GetLastError = (%v, %q), want (IllegalArgument, non-empty)", code, msg)
	}
	ClearLastError()
	if code, _ := GetLastError(); code != graph.Unknown {
		t.Fatalf("GetLastError after Clear = %v, want Unknown", code)
	}
}

func TestVersionInfo(t *testing.T) {
	major, minor, patch := GetVersionInfo()
	if major < 1 || minor < 0 || patch < 0 {
		t.Fatalf("unexpected version %d.%d.%d", major, minor, patch)
	}
	if GetAPIVersion() != pixel.APIVersion {
		t.Fatalf("GetAPIVersion() = %d, want %d", GetAPIVersion(), pixel.APIVersion)
	}
}
