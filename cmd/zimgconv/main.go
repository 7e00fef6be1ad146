/*
NAME
  zimgconv is a command-line front end onto package api: it decodes an
  input image (PNG, BMP, TIFF, or a raw planar dump), builds a conversion graph
  to the pixel format described by its flags, runs the conversion, and
  writes the result back out in the requested container.

AUTHORS
  Mara Delacroix <mara@kestrel-imaging.dev>
*/

package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ausocean/utils/logging"

	"github.com/kestrel-imaging/zimg/api"
	"github.com/kestrel-imaging/zimg/pixel"
	"github.com/kestrel-imaging/zimg/ring"
)

// Logging configuration, in the teacher's convention of fixed constants
// rather than further flags.
const (
	logPath      = "zimgconv.log"
	logMaxSize   = 50 // MB
	logMaxBackup = 3
	logMaxAge    = 7 // days
	logSuppress  = true
)

func main() {
	var (
		inPath      = flag.String("in", "", "input file path")
		outPath     = flag.String("out", "", "output file path")
		inFormat    = flag.String("in-format", "png", "input container: png, bmp, tiff, raw")
		outFormat   = flag.String("out-format", "png", "output container: png, bmp, tiff, raw")
		rawWidth    = flag.Int("raw-width", 0, "width of a raw input, in pixels (raw input only)")
		rawHeight   = flag.Int("raw-height", 0, "height of a raw input, in pixels (raw input only)")
		rawType     = flag.String("raw-type", "byte", "sample type of a raw input: byte, word, half, float")
		rawFamily   = flag.String("raw-family", "rgb", "color family of a raw input: gray, rgb, yuv")
		dstType     = flag.String("dst-type", "", "destination sample type: byte, word, half, float (default: same as source)")
		dstFamily   = flag.String("dst-family", "", "destination color family: gray, rgb, yuv (default: same as source)")
		dstSubW     = flag.Int("dst-subsample-w", -1, "destination horizontal chroma subsampling shift, 0-2 (yuv only)")
		dstWidth    = flag.Int("dst-width", 0, "destination width in pixels (default: source width)")
		dstHeight   = flag.Int("dst-height", 0, "destination height in pixels (default: source height)")
		dstRange    = flag.String("dst-range", "full", "destination range: limited, full")
		dstMatrix   = flag.String("dst-matrix", "709", "destination matrix coefficients: rgb, 470bg, 709, 2020ncl")
		resample    = flag.String("resample", "bilinear", "resample filter: point, bilinear, bicubic, spline16, spline36, lanczos")
		dither      = flag.String("dither", "none", "narrowing dither: none, ordered, random, error-diffusion")
		verbose     = flag.Bool("verbose", false, "log at debug verbosity")
		logVerbosity = logging.Info
	)
	flag.Parse()

	if *verbose {
		logVerbosity = logging.Debug
	}
	fileLog := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    logMaxSize,
		MaxBackups: logMaxBackup,
		MaxAge:     logMaxAge,
	}
	log := logging.New(logVerbosity, io.MultiWriter(fileLog, os.Stderr), logSuppress)

	if *inPath == "" || *outPath == "" {
		log.Fatal("both -in and -out are required")
	}

	srcImg, srcFmt, err := readSource(*inPath, *inFormat, *rawWidth, *rawHeight, *rawType, *rawFamily)
	if err != nil {
		log.Fatal("could not read source", "error", err)
	}
	log.Debug("decoded source", "width", srcFmt.Width, "height", srcFmt.Height, "family", srcFmt.ColorFamily)

	dstFmt, err := deriveDstFormat(srcFmt, *dstType, *dstFamily, *dstSubW, *dstWidth, *dstHeight, *dstRange, *dstMatrix)
	if err != nil {
		log.Fatal("invalid destination format flags", "error", err)
	}

	params := api.FilterGraphParamsDefault(api.GetAPIVersion())
	if f, err := parseResample(*resample); err != nil {
		log.Fatal("invalid -resample", "error", err)
	} else {
		params.ResampleFilter = f
		params.ResampleFilterUV = f
	}
	if d, err := parseDither(*dither); err != nil {
		log.Fatal("invalid -dither", "error", err)
	} else {
		params.DitherType = d
	}
	params.Logger = log

	g, err := api.Build(srcFmt, dstFmt, params)
	if err != nil {
		code, msg := api.GetLastError()
		log.Fatal("build failed", "code", code.String(), "message", msg)
	}
	defer g.Close()

	tmpSize, err := g.TmpSize()
	if err != nil {
		log.Fatal("TmpSize", "error", err)
	}

	srcBuf := allocBuffer(srcFmt)
	dstBuf := allocBuffer(dstFmt)
	tmp := make([]byte, tmpSize)

	unpack := func(row int, planes [3][]byte) {
		unpackRow(srcImg, srcFmt, row, planes)
	}

	var packedOut *image.NRGBA
	var pack api.PackFunc
	if *outFormat != "raw" {
		packedOut = image.NewNRGBA(image.Rect(0, 0, dstFmt.Width, dstFmt.Height))
		pack = func(row int, planes [3][]byte) {
			packRow(packedOut, dstFmt, row, planes)
		}
	}

	if err := g.Process(srcBuf, dstBuf, tmp, unpack, pack); err != nil {
		code, msg := api.GetLastError()
		log.Fatal("process failed", "code", code.String(), "message", msg)
	}

	if err := writeResult(*outPath, *outFormat, dstFmt, dstBuf, packedOut); err != nil {
		log.Fatal("could not write output", "error", err)
	}
	log.Info("conversion complete", "out", *outPath)
}

// readSource decodes path into either a decoded image.Image (png/bmp/tiff) or
// a rawPlanarImage (raw); both are handed to unpackRow uniformly via the
// any return, which dispatches on the concrete type.
func readSource(path, format string, rawW, rawH int, rawType, rawFamily string) (any, pixel.ImageFormat, error) {
	switch format {
	case "png", "bmp", "tiff":
		f, err := os.Open(path)
		if err != nil {
			return nil, pixel.ImageFormat{}, err
		}
		defer f.Close()
		var img image.Image
		switch format {
		case "png":
			img, err = png.Decode(f)
		case "bmp":
			img, err = bmp.Decode(f)
		case "tiff":
			img, err = tiff.Decode(f)
		}
		if err != nil {
			return nil, pixel.ImageFormat{}, err
		}
		b := img.Bounds()
		fmtOut := api.ImageFormatDefault(api.GetAPIVersion())
		fmtOut.Width, fmtOut.Height = b.Dx(), b.Dy()
		fmtOut.Type = pixel.BYTE
		fmtOut.Depth = 8
		fmtOut.ColorFamily = pixel.ColorFamilyRGB
		fmtOut.Range = pixel.RangeFull
		fmtOut.Matrix = pixel.MatrixRGB
		return img, fmtOut, nil
	case "raw":
		if rawW <= 0 || rawH <= 0 {
			return nil, pixel.ImageFormat{}, fmt.Errorf("-raw-width and -raw-height are required for raw input")
		}
		typ, err := parseType(rawType)
		if err != nil {
			return nil, pixel.ImageFormat{}, err
		}
		family, err := parseFamily(rawFamily)
		if err != nil {
			return nil, pixel.ImageFormat{}, err
		}
		fmtOut := api.ImageFormatDefault(api.GetAPIVersion())
		fmtOut.Width, fmtOut.Height = rawW, rawH
		fmtOut.Type = typ
		fmtOut.Depth = pixel.ContainerBits(typ)
		fmtOut.ColorFamily = family
		fmtOut.Range = pixel.RangeFull
		if family == pixel.ColorFamilyRGB {
			fmtOut.Matrix = pixel.MatrixRGB
		} else if family == pixel.ColorFamilyYUV {
			fmtOut.Matrix = pixel.Matrix709
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, pixel.ImageFormat{}, err
		}
		return rawPlanarImage{data: data, fmt: fmtOut}, fmtOut, nil
	default:
		return nil, pixel.ImageFormat{}, fmt.Errorf("unknown input format %q", format)
	}
}

// rawPlanarImage wraps a raw planar byte dump so unpackRow can treat it
// uniformly with a decoded image.Image source; it does not implement
// image.Image (raw sources never need color.Color access).
type rawPlanarImage struct {
	data []byte
	fmt  pixel.ImageFormat
}

// unpackRow fills planes with row's samples from src, bridging whatever
// external representation src holds into the engine's planar layout.
func unpackRow(src any, srcFmt pixel.ImageFormat, row int, planes [3][]byte) {
	if raw, ok := src.(rawPlanarImage); ok {
		unpackRawRow(raw, row, planes)
		return
	}
	img := src.(image.Image)
	b := img.Bounds()
	sampleCount := srcFmt.Width
	for x := 0; x < sampleCount; x++ {
		r, gr, bl, _ := img.At(b.Min.X+x, b.Min.Y+row).RGBA()
		planes[0][x] = byte(r >> 8)
		planes[1][x] = byte(gr >> 8)
		planes[2][x] = byte(bl >> 8)
	}
}

func unpackRawRow(raw rawPlanarImage, row int, planes [3][]byte) {
	planeCount := 1
	if raw.fmt.ColorFamily != pixel.ColorFamilyGray {
		planeCount = 3
	}
	off := 0
	for p := 0; p < planeCount; p++ {
		w, h := planeDims(raw.fmt, p)
		rowBytes := w * pixel.Size(raw.fmt.Type)
		if row < h {
			start := off + row*rowBytes
			copy(planes[p], raw.data[start:start+rowBytes])
		}
		off += rowBytes * h
	}
}

// packRow writes one destination row, already converted to RGB BYTE full
// range by the graph, into img at row.
func packRow(img *image.NRGBA, dstFmt pixel.ImageFormat, row int, planes [3][]byte) {
	for x := 0; x < dstFmt.Width; x++ {
		img.SetNRGBA(x, row, color.NRGBA{R: planes[0][x], G: planes[1][x], B: planes[2][x], A: 255})
	}
}

// planeDims returns the (width, height) of plane p in f, accounting for
// chroma subsampling on planes 1 and 2 of a YUV format.
func planeDims(f pixel.ImageFormat, p int) (int, int) {
	if p == 0 || f.ColorFamily != pixel.ColorFamilyYUV {
		return f.Width, f.Height
	}
	return f.ChromaWidth(), f.ChromaHeight()
}

func allocBuffer(f pixel.ImageFormat) ring.ImageBuffer {
	planeCount := 1
	if f.ColorFamily != pixel.ColorFamilyGray {
		planeCount = 3
	}
	var buf ring.ImageBuffer
	for p := 0; p < planeCount; p++ {
		w, h := planeDims(f, p)
		buf.Planes[p] = ring.NewPlaneBuffer(w, h, f.Type, ring.AllOnes)
	}
	return buf
}

func writeResult(path, format string, dstFmt pixel.ImageFormat, dstBuf ring.ImageBuffer, packed *image.NRGBA) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()

	switch format {
	case "png":
		return png.Encode(out, packed)
	case "bmp":
		return bmp.Encode(out, packed)
	case "tiff":
		return tiff.Encode(out, packed, nil)
	case "raw":
		planeCount := 1
		if dstFmt.ColorFamily != pixel.ColorFamilyGray {
			planeCount = 3
		}
		for p := 0; p < planeCount; p++ {
			w, h := planeDims(dstFmt, p)
			rowBytes := w * pixel.Size(dstFmt.Type)
			plane := dstBuf.Plane(p)
			for y := 0; y < h; y++ {
				if _, err := out.Write(plane.RowBytes(y)[:rowBytes]); err != nil {
					return err
				}
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func deriveDstFormat(src pixel.ImageFormat, dstType, dstFamily string, subW, width, height int, rng, matrix string) (pixel.ImageFormat, error) {
	dst := src
	if dstType != "" {
		t, err := parseType(dstType)
		if err != nil {
			return dst, err
		}
		dst.Type = t
		dst.Depth = pixel.ContainerBits(t)
	}
	if dstFamily != "" {
		fam, err := parseFamily(dstFamily)
		if err != nil {
			return dst, err
		}
		dst.ColorFamily = fam
		if fam != pixel.ColorFamilyYUV {
			dst.SubsampleW, dst.SubsampleH = 0, 0
		}
	}
	if subW >= 0 {
		if dst.ColorFamily != pixel.ColorFamilyYUV {
			return dst, fmt.Errorf("-dst-subsample-w requires -dst-family yuv")
		}
		dst.SubsampleW = subW
	}
	if width > 0 {
		dst.Width = width
	}
	if height > 0 {
		dst.Height = height
	}
	switch rng {
	case "limited":
		dst.Range = pixel.RangeLimited
	case "full":
		dst.Range = pixel.RangeFull
	default:
		return dst, fmt.Errorf("unknown -dst-range %q", rng)
	}
	m, err := parseMatrix(matrix)
	if err != nil {
		return dst, err
	}
	dst.Matrix = m
	if dst.ColorFamily == pixel.ColorFamilyRGB {
		dst.Matrix = pixel.MatrixRGB
		dst.Range = pixel.RangeFull
	}
	return dst, nil
}

func parseType(s string) (pixel.Type, error) {
	switch strings.ToLower(s) {
	case "byte":
		return pixel.BYTE, nil
	case "word":
		return pixel.WORD, nil
	case "half":
		return pixel.HALF, nil
	case "float":
		return pixel.FLOAT, nil
	default:
		return 0, fmt.Errorf("unknown pixel type %q", s)
	}
}

func parseFamily(s string) (pixel.ColorFamily, error) {
	switch strings.ToLower(s) {
	case "gray", "grey":
		return pixel.ColorFamilyGray, nil
	case "rgb":
		return pixel.ColorFamilyRGB, nil
	case "yuv":
		return pixel.ColorFamilyYUV, nil
	default:
		return 0, fmt.Errorf("unknown color family %q", s)
	}
}

func parseMatrix(s string) (pixel.MatrixCoefficients, error) {
	switch strings.ToLower(s) {
	case "rgb":
		return pixel.MatrixRGB, nil
	case "470bg":
		return pixel.Matrix470BG, nil
	case "709":
		return pixel.Matrix709, nil
	case "2020ncl":
		return pixel.Matrix2020NCL, nil
	default:
		return 0, fmt.Errorf("unknown matrix %q", s)
	}
}

func parseResample(s string) (pixel.ResampleFilter, error) {
	switch strings.ToLower(s) {
	case "point":
		return pixel.ResamplePoint, nil
	case "bilinear":
		return pixel.ResampleBilinear, nil
	case "bicubic":
		return pixel.ResampleBicubic, nil
	case "spline16":
		return pixel.ResampleSpline16, nil
	case "spline36":
		return pixel.ResampleSpline36, nil
	case "lanczos":
		return pixel.ResampleLanczos, nil
	default:
		return 0, fmt.Errorf("unknown resample filter %q", s)
	}
}

func parseDither(s string) (pixel.DitherType, error) {
	switch strings.ToLower(s) {
	case "none":
		return pixel.DitherNone, nil
	case "ordered":
		return pixel.DitherOrdered, nil
	case "random":
		return pixel.DitherRandom, nil
	case "error-diffusion":
		return pixel.DitherErrorDiffusion, nil
	default:
		return 0, fmt.Errorf("unknown dither type %q", s)
	}
}

