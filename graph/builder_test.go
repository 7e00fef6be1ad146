/*
NAME
  builder_test.go

AUTHORS
  Mara Delacroix <mara@kestrel-imaging.dev>
*/

package graph

import (
	"testing"

	"github.com/kestrel-imaging/zimg/pixel"
	"github.com/kestrel-imaging/zimg/ring"
)

func grayFormat(w, h int, t pixel.Type) pixel.ImageFormat {
	return pixel.ImageFormat{
		Width: w, Height: h, Type: t,
		ColorFamily: pixel.ColorFamilyGray,
		Depth:       pixel.ContainerBits(t),
		Range:       pixel.RangeFull,
		Matrix:      pixel.MatrixUnspecified,
		Transfer:    pixel.TransferUnspecified,
		Primaries:   pixel.PrimariesUnspecified,
	}
}

func yuv444Format(w, h int, t pixel.Type) pixel.ImageFormat {
	return pixel.ImageFormat{
		Width: w, Height: h, Type: t,
		ColorFamily: pixel.ColorFamilyYUV,
		Depth:       pixel.ContainerBits(t),
		Range:       pixel.RangeLimited,
		Matrix:      pixel.Matrix709,
		Transfer:    pixel.TransferUnspecified,
		Primaries:   pixel.PrimariesUnspecified,
	}
}

func rgbFormat(w, h int, t pixel.Type) pixel.ImageFormat {
	return pixel.ImageFormat{
		Width: w, Height: h, Type: t,
		ColorFamily: pixel.ColorFamilyRGB,
		Depth:       pixel.ContainerBits(t),
		Range:       pixel.RangeFull,
		Matrix:      pixel.MatrixRGB,
		Transfer:    pixel.TransferUnspecified,
		Primaries:   pixel.PrimariesUnspecified,
	}
}

// TestBuildIdentityElides checks that src_format == dst_format produces
// a single-stage chain (spec §4.4 "Elisions").
func TestBuildIdentityElides(t *testing.T) {
	f := grayFormat(16, 8, pixel.BYTE)
	g, err := Build(f, f, DefaultParams(pixel.APIVersion))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(g.ex.Stages) != 1 {
		t.Fatalf("identity conversion: got %d stages, want 1", len(g.ex.Stages))
	}
}

// TestBuildPureResize exercises a resize-only chain shape (spec's S5
// scenario): same format, different geometry.
func TestBuildPureResize(t *testing.T) {
	src := grayFormat(32, 16, pixel.BYTE)
	dst := grayFormat(16, 8, pixel.BYTE)
	g, err := Build(src, dst, DefaultParams(pixel.APIVersion))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(g.ex.Stages) == 0 {
		t.Fatal("expected a non-empty resize chain")
	}

	tmp := make([]byte, g.TmpSize())
	srcBuf := ring.ImageBuffer{Planes: [3]ring.PlaneBuffer{
		ring.NewPlaneBuffer(32, 16, pixel.BYTE, ring.AllOnes),
	}}
	dstBuf := ring.ImageBuffer{Planes: [3]ring.PlaneBuffer{
		ring.NewPlaneBuffer(16, 8, pixel.BYTE, ring.AllOnes),
	}}
	if perr := g.Process(srcBuf, dstBuf, tmp); perr != nil {
		t.Fatalf("Process: %v", perr)
	}
}

// TestBuildYUVToRGBSubsampled exercises a horizontally subsampled YUV
// source converted to full-range RGB at a different size, running the
// chroma-upsample, color-matrix and resize stages together.
func TestBuildYUVToRGBSubsampled(t *testing.T) {
	src := yuv444Format(16, 8, pixel.BYTE)
	src.SubsampleW = 1
	src.ChromaLocation = pixel.ChromaLocationLeft

	dst := rgbFormat(8, 8, pixel.WORD)

	g, err := Build(src, dst, DefaultParams(pixel.APIVersion))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(g.ex.Stages) < 3 {
		t.Fatalf("expected a multi-stage chain (widen, upsample, matrix, resize, narrow), got %d stages", len(g.ex.Stages))
	}

	tmp := make([]byte, g.TmpSize())
	srcBuf := ring.ImageBuffer{Planes: [3]ring.PlaneBuffer{
		ring.NewPlaneBuffer(16, 8, pixel.BYTE, ring.AllOnes),
		ring.NewPlaneBuffer(8, 8, pixel.BYTE, ring.AllOnes),
		ring.NewPlaneBuffer(8, 8, pixel.BYTE, ring.AllOnes),
	}}
	dstBuf := ring.ImageBuffer{Planes: [3]ring.PlaneBuffer{
		ring.NewPlaneBuffer(8, 8, pixel.WORD, ring.AllOnes),
		ring.NewPlaneBuffer(8, 8, pixel.WORD, ring.AllOnes),
		ring.NewPlaneBuffer(8, 8, pixel.WORD, ring.AllOnes),
	}}
	if perr := g.Process(srcBuf, dstBuf, tmp); perr != nil {
		t.Fatalf("Process: %v", perr)
	}
}

func TestBuildGrayToYUVAndBack(t *testing.T) {
	src := grayFormat(8, 4, pixel.BYTE)
	dst := yuv444Format(8, 4, pixel.BYTE)

	g, err := Build(src, dst, DefaultParams(pixel.APIVersion))
	if err != nil {
		t.Fatalf("gray->yuv Build: %v", err)
	}

	tmp := make([]byte, g.TmpSize())
	srcBuf := ring.ImageBuffer{Planes: [3]ring.PlaneBuffer{ring.NewPlaneBuffer(8, 4, pixel.BYTE, ring.AllOnes)}}
	dstBuf := ring.ImageBuffer{Planes: [3]ring.PlaneBuffer{
		ring.NewPlaneBuffer(8, 4, pixel.BYTE, ring.AllOnes),
		ring.NewPlaneBuffer(8, 4, pixel.BYTE, ring.AllOnes),
		ring.NewPlaneBuffer(8, 4, pixel.BYTE, ring.AllOnes),
	}}
	if perr := g.Process(srcBuf, dstBuf, tmp); perr != nil {
		t.Fatalf("gray->yuv Process: %v", perr)
	}

	g2, err := Build(dst, src, DefaultParams(pixel.APIVersion))
	if err != nil {
		t.Fatalf("yuv->gray Build: %v", err)
	}
	tmp2 := make([]byte, g2.TmpSize())
	dstBuf2 := ring.ImageBuffer{Planes: [3]ring.PlaneBuffer{ring.NewPlaneBuffer(8, 4, pixel.BYTE, ring.AllOnes)}}
	if perr := g2.Process(dstBuf, dstBuf2, tmp2); perr != nil {
		t.Fatalf("yuv->gray Process: %v", perr)
	}
}

func TestBuildErrorGreyscaleSubsampling(t *testing.T) {
	f := grayFormat(8, 8, pixel.BYTE)
	f.SubsampleW = 1
	_, err := Build(f, grayFormat(8, 8, pixel.BYTE), DefaultParams(pixel.APIVersion))
	if err == nil || err.Code != GreyscaleSubsampling {
		t.Fatalf("got %v, want GreyscaleSubsampling", err)
	}
}

func TestBuildErrorColorFamilyMismatch(t *testing.T) {
	f := rgbFormat(8, 8, pixel.BYTE)
	f.SubsampleW = 1
	_, err := Build(f, rgbFormat(8, 8, pixel.BYTE), DefaultParams(pixel.APIVersion))
	if err == nil || err.Code != ColorFamilyMismatch {
		t.Fatalf("got %v, want ColorFamilyMismatch", err)
	}
}

func TestBuildErrorZeroDimension(t *testing.T) {
	src := grayFormat(8, 8, pixel.BYTE)
	dst := grayFormat(0, 8, pixel.BYTE)
	_, err := Build(src, dst, DefaultParams(pixel.APIVersion))
	if err == nil || err.Code != IllegalArgument {
		t.Fatalf("got %v, want IllegalArgument", err)
	}
}

func TestBuildErrorImageNotDivisible(t *testing.T) {
	f := yuv444Format(7, 8, pixel.BYTE)
	f.SubsampleW = 1
	_, err := Build(f, f, DefaultParams(pixel.APIVersion))
	if err == nil || err.Code != ImageNotDivisible {
		t.Fatalf("got %v, want ImageNotDivisible", err)
	}
}

// TestBuildYUV420ToRGB exercises the S6-style chain shape: a 4:2:0 YUV
// source (subsampled on both axes, as in a 1920x1080 capture) converted
// to full-range RGB at a different size, running the chroma-upsample,
// color-matrix and resize stages together with genuine vertical chroma
// resampling.
func TestBuildYUV420ToRGB(t *testing.T) {
	src := yuv444Format(16, 8, pixel.BYTE)
	src.SubsampleW = 1
	src.SubsampleH = 1
	src.ChromaLocation = pixel.ChromaLocationLeft

	dst := rgbFormat(8, 8, pixel.WORD)

	g, err := Build(src, dst, DefaultParams(pixel.APIVersion))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(g.ex.Stages) < 3 {
		t.Fatalf("expected a multi-stage chain (widen, upsample, matrix, resize, narrow), got %d stages", len(g.ex.Stages))
	}

	tmp := make([]byte, g.TmpSize())
	srcBuf := ring.ImageBuffer{Planes: [3]ring.PlaneBuffer{
		ring.NewPlaneBuffer(16, 8, pixel.BYTE, ring.AllOnes),
		ring.NewPlaneBuffer(8, 4, pixel.BYTE, ring.AllOnes),
		ring.NewPlaneBuffer(8, 4, pixel.BYTE, ring.AllOnes),
	}}
	dstBuf := ring.ImageBuffer{Planes: [3]ring.PlaneBuffer{
		ring.NewPlaneBuffer(8, 8, pixel.WORD, ring.AllOnes),
		ring.NewPlaneBuffer(8, 8, pixel.WORD, ring.AllOnes),
		ring.NewPlaneBuffer(8, 8, pixel.WORD, ring.AllOnes),
	}}
	if perr := g.Process(srcBuf, dstBuf, tmp); perr != nil {
		t.Fatalf("Process: %v", perr)
	}
}

func TestBuildErrorBadParams(t *testing.T) {
	f := grayFormat(8, 8, pixel.BYTE)
	p := DefaultParams(pixel.APIVersion)
	p.ResampleFilter = pixel.ResampleFilter(99)
	_, err := Build(f, f, p)
	if err == nil || err.Code != IllegalArgument {
		t.Fatalf("got %v, want IllegalArgument", err)
	}
}
