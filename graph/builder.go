/*
NAME
  builder.go

DESCRIPTION
  builder.go implements graph_builder_build (spec §4.4 and §6): it walks
  the canonical six-stage pipeline (unpack/depth-widen, chroma upsample,
  color-space transform, resize, chroma downsample, depth-narrow/dither),
  eliding stages whenever the current working format already matches what
  the next stage would produce, and assembling the resulting filter chain
  into ring-buffered scheduler.Stage values sized by a sink-to-source
  buffering analysis.

AUTHORS
  Mara Delacroix <mara@kestrel-imaging.dev>
*/

package graph

import (
	"github.com/kestrel-imaging/zimg/filters"
	"github.com/kestrel-imaging/zimg/pixel"
	"github.com/kestrel-imaging/zimg/ring"
	"github.com/kestrel-imaging/zimg/scheduler"
	"github.com/kestrel-imaging/zimg/zfilter"
)

// Build plans a conversion chain from srcFormat to dstFormat under the
// given parameters, returning a reusable Graph or a build-time *Error.
// Both horizontal and vertical chroma subsampling are supported: the
// scheduler addresses planes 1/2 of a vertically-subsampled buffer by
// shifting the shared luma row index (ring.ImageBuffer.ChromaShiftH)
// rather than tracking an independent cursor per plane.
func Build(srcFormat, dstFormat pixel.ImageFormat, params Params) (*Graph, *Error) {
	if err := params.validate(); err != nil {
		return nil, err
	}
	if err := checkFormat("source", srcFormat); err != nil {
		return nil, err
	}
	if err := checkFormat("destination", dstFormat); err != nil {
		return nil, err
	}

	if params.Logger != nil {
		params.Logger.Debug("building conversion graph", "src", srcFormat, "dst", dstFormat)
	}

	b := &builder{src: srcFormat, dst: dstFormat, params: params}

	if srcFormat == dstFormat {
		attrs := srcFormat.Attributes()
		color := srcFormat.ColorFamily != pixel.ColorFamilyGray
		var f zfilter.Filter
		if color && srcFormat.SubsampleW != 0 {
			f = filters.NewCopySubsampled(attrs, srcFormat.SubsampleW)
		} else {
			f = filters.NewCopy(attrs, color)
		}
		b.appendFilter(f, 0, 0)
		return b.finish()
	}

	b.curType = srcFormat.Type
	b.curFamily = srcFormat.ColorFamily
	b.curSubW = srcFormat.SubsampleW
	b.curSubH = srcFormat.SubsampleH
	b.curWidth = srcFormat.Width
	b.curHeight = srcFormat.Height
	b.curFullRange = srcFormat.Range == pixel.RangeFull

	if err := b.planPipeline(); err != nil {
		return nil, err
	}
	return b.finish()
}

// checkFormat maps pixel.ImageFormat's structural invariants onto the
// named graph.ErrorCode the violation corresponds to (spec §6's
// "Build-time errors" bullets), rather than propagating a generic
// wrapped error string.
func checkFormat(which string, f pixel.ImageFormat) *Error {
	if f.Width <= 0 || f.Height <= 0 {
		return newError(IllegalArgument, "%s format has non-positive dimensions %dx%d", which, f.Width, f.Height)
	}
	if f.SubsampleW < 0 || f.SubsampleW > 2 || f.SubsampleH < 0 || f.SubsampleH > 2 {
		return newError(IllegalArgument, "%s: subsampling factors out of range [0,2]", which)
	}
	if f.ColorFamily == pixel.ColorFamilyGray && f.Subsampled() {
		return newError(GreyscaleSubsampling, "%s: greyscale format cannot be subsampled", which)
	}
	if f.ColorFamily == pixel.ColorFamilyRGB && f.Subsampled() {
		return newError(ColorFamilyMismatch, "%s: RGB format cannot be subsampled", which)
	}
	if f.ColorFamily == pixel.ColorFamilyRGB && f.Matrix != pixel.MatrixRGB && f.Matrix != pixel.MatrixUnspecified {
		return newError(ColorFamilyMismatch, "%s: RGB format requires matrix RGB, got %v", which, f.Matrix)
	}
	if f.Subsampled() && (f.Width%(1<<f.SubsampleW) != 0 || f.Height%(1<<f.SubsampleH) != 0) {
		return newError(ImageNotDivisible, "%s: %dx%d not divisible by chroma subsampling", which, f.Width, f.Height)
	}
	if !f.Subsampled() && f.ChromaLocation != pixel.ChromaLocationUnspecified {
		return newError(IllegalArgument, "%s: chroma_location set on a non-subsampled format", which)
	}
	switch f.Type {
	case pixel.BYTE, pixel.WORD, pixel.HALF, pixel.FLOAT:
	default:
		return newError(UnsupportedOperation, "%s: unsupported pixel type %v", which, f.Type)
	}
	pf := f.PixelFormat()
	if pf.Depth < 1 || pf.Depth > pixel.ContainerBits(pf.Type) {
		return newError(BitDepthOverflow, "%s: depth %d exceeds container width for %v", which, pf.Depth, pf.Type)
	}
	if (pf.Type == pixel.HALF || pf.Type == pixel.FLOAT) && pf.Depth != pixel.ContainerBits(pf.Type) {
		return newError(BitDepthOverflow, "%s: %v requires depth %d, got %d", which, pf.Type, pixel.ContainerBits(pf.Type), pf.Depth)
	}
	return nil
}

// plannedStage is one filter together with the chroma subsampling shifts
// of its OWN output, needed to size its ring buffer.
type plannedStage struct {
	filter zfilter.Filter
	subW   int
	subH   int
}

// builder accumulates the working pipeline state as planPipeline walks
// the six canonical steps.
type builder struct {
	src, dst pixel.ImageFormat
	params   Params

	stages []plannedStage

	curType      pixel.Type
	curFamily    pixel.ColorFamily
	curSubW      int
	curSubH      int
	curWidth     int
	curHeight    int
	curFullRange bool
}

func (b *builder) color() bool { return b.curFamily != pixel.ColorFamilyGray }

func (b *builder) attrs() pixel.Attributes {
	return pixel.Attributes{Width: b.curWidth, Height: b.curHeight, Type: b.curType}
}

func (b *builder) appendFilter(f zfilter.Filter, subW, subH int) {
	b.stages = append(b.stages, plannedStage{filter: f, subW: subW, subH: subH})
}

// planPipeline implements spec §4.4 steps 1-6 over the builder's
// evolving (curType, curFamily, curSubW, curWidth, curHeight) state.
func (b *builder) planPipeline() *Error {
	grayToColor := b.src.ColorFamily == pixel.ColorFamilyGray && b.dst.ColorFamily != pixel.ColorFamilyGray
	colorToGray := b.src.ColorFamily != pixel.ColorFamilyGray && b.dst.ColorFamily == pixel.ColorFamilyGray
	needsMatrix := !grayToColor && !colorToGray && b.src.ColorFamily != b.dst.ColorFamily
	needsResize := b.src.Width != b.dst.Width || b.src.Height != b.dst.Height
	needsChromaUp := b.src.Subsampled()
	needsChromaDown := b.dst.Subsampled()

	trivial := !needsMatrix && !grayToColor && !colorToGray && !needsResize && !needsChromaUp && !needsChromaDown

	srcFmt := b.src.PixelFormat()
	dstFmt := b.dst.PixelFormat()

	if trivial {
		// Same family, same geometry, same subsampling: a single
		// depth/dither conversion (or nothing, if formats match —
		// already handled by the elision branch in Build).
		return b.stepDepthNarrow(dstFmt)
	}

	workingType := b.curType
	switch {
	case needsMatrix || grayToColor || colorToGray:
		workingType = pixel.FLOAT
	case needsResize || needsChromaUp || needsChromaDown:
		if pixel.ContainerBits(b.curType) < pixel.ContainerBits(pixel.WORD) {
			workingType = pixel.WORD
		}
	}

	if pixel.ContainerBits(b.curType) < pixel.ContainerBits(workingType) {
		b.stepDepthWiden(srcFmt, workingType)
	}

	if needsChromaUp {
		b.stepChromaResample(b.src.ChromaLocation, 0, 0)
	}

	switch {
	case grayToColor:
		b.stepGrayExpand(b.dst.ColorFamily == pixel.ColorFamilyYUV)
	case colorToGray:
		if b.src.ColorFamily == pixel.ColorFamilyRGB {
			b.stepColorMatrix(false, pixel.Matrix709)
		}
		b.stepPlaneSelect()
	case needsMatrix:
		forward := b.src.ColorFamily == pixel.ColorFamilyYUV
		coeffs := b.dst.Matrix
		if b.src.ColorFamily == pixel.ColorFamilyYUV {
			coeffs = b.src.Matrix
		}
		if coeffs == pixel.MatrixUnspecified || coeffs == pixel.MatrixRGB {
			coeffs = pixel.Matrix709
		}
		b.stepColorMatrix(forward, coeffs)
	}

	if needsResize {
		b.stepResize()
	}

	if needsChromaDown {
		b.stepChromaResample(b.dst.ChromaLocation, b.dst.SubsampleW, b.dst.SubsampleH)
	}

	return b.stepDepthNarrow(dstFmt)
}

func (b *builder) stepDepthWiden(srcFmt pixel.Format, workingType pixel.Type) {
	color := b.color()
	var f zfilter.Filter
	if color && b.curSubW != 0 {
		f = filters.NewDepthSubsampled(srcFmt, b.curWidth, b.curHeight, workingType, pixel.ContainerBits(workingType), b.curSubW)
	} else {
		f = filters.NewDepth(srcFmt, b.curWidth, b.curHeight, workingType, pixel.ContainerBits(workingType), color)
	}
	b.appendFilter(f, b.curSubW, b.curSubH)
	b.curType = workingType
	b.curFullRange = srcFmt.FullRange
}

func (b *builder) stepChromaResample(loc pixel.ChromaLocation, dstSubW, dstSubH int) {
	p := filters.ResizeParams{Filter: b.params.ResampleFilterUV, A: b.params.FilterParamAUV, B: b.params.FilterParamBUV}
	f := filters.NewChromaResample(b.curType, b.curWidth, b.curHeight, b.curSubW, b.curSubH, dstSubW, dstSubH, loc, p)
	b.appendFilter(f, dstSubW, dstSubH)
	b.curSubW = dstSubW
	b.curSubH = dstSubH
}

func (b *builder) stepGrayExpand(toYUV bool) {
	f := filters.NewGrayExpand(b.attrs(), toYUV)
	b.appendFilter(f, 0, 0)
	b.curFamily = pixel.ColorFamilyYUV
	if !toYUV {
		b.curFamily = pixel.ColorFamilyRGB
	}
	b.curSubW = 0
	b.curSubH = 0
}

func (b *builder) stepColorMatrix(forward bool, coeffs pixel.MatrixCoefficients) {
	srcRange := pixel.RangeFull
	if !b.curFullRange {
		srcRange = pixel.RangeLimited
	}
	f := filters.NewColorMatrix(b.curWidth, b.curHeight, b.curType, coeffs, forward, srcRange)
	b.appendFilter(f, 0, 0)
	if forward {
		b.curFamily = pixel.ColorFamilyRGB
	} else {
		b.curFamily = pixel.ColorFamilyYUV
	}
	b.curFullRange = true
}

func (b *builder) stepPlaneSelect() {
	f := filters.NewPlaneSelect(b.attrs(), 0)
	b.appendFilter(f, 0, 0)
	b.curFamily = pixel.ColorFamilyGray
}

func (b *builder) stepResize() {
	color := b.color()
	if b.curWidth != b.dst.Width {
		hp := filters.ResizeParams{Filter: b.params.ResampleFilter, A: b.params.FilterParamA, B: b.params.FilterParamB}
		h := filters.NewHorizontalResize(b.curType, b.curWidth, b.dst.Width, b.curHeight, hp, color)
		b.appendFilter(h, 0, 0)
		b.curWidth = b.dst.Width
	}
	if b.curHeight != b.dst.Height {
		vp := filters.ResizeParams{Filter: b.params.ResampleFilter, A: b.params.FilterParamA, B: b.params.FilterParamB}
		v := filters.NewVerticalResize(b.curType, b.curWidth, b.curHeight, b.dst.Height, vp, color)
		b.appendFilter(v, 0, 0)
		b.curHeight = b.dst.Height
	}
}

func (b *builder) stepDepthNarrow(dstFmt pixel.Format) *Error {
	if b.curType == dstFmt.Type && pixel.ContainerBits(b.curType) == dstFmt.Depth {
		return nil // Working precision already matches the destination depth exactly.
	}

	srcFmt := pixel.Format{
		Type:      b.curType,
		Depth:     pixel.ContainerBits(b.curType),
		FullRange: b.curFullRange,
		Chroma:    b.curFamily == pixel.ColorFamilyYUV,
	}
	color := b.color()

	kind := b.params.DitherType
	narrows := pixel.ContainerBits(dstFmt.Type) < pixel.ContainerBits(srcFmt.Type) ||
		(dstFmt.Type == srcFmt.Type && dstFmt.Depth < srcFmt.Depth)
	if !narrows {
		kind = pixel.DitherNone
	}

	var f zfilter.Filter
	switch {
	case kind == pixel.DitherNone:
		if color && b.curSubW != 0 {
			f = filters.NewDepthSubsampled(srcFmt, b.curWidth, b.curHeight, dstFmt.Type, dstFmt.Depth, b.curSubW)
		} else {
			f = filters.NewDepth(srcFmt, b.curWidth, b.curHeight, dstFmt.Type, dstFmt.Depth, color)
		}
	default:
		if color && b.curSubW != 0 {
			f = filters.NewDitherSubsampled(srcFmt, b.curWidth, b.curHeight, dstFmt.Type, dstFmt.Depth, kind, b.curSubW)
		} else {
			f = filters.NewDither(srcFmt, b.curWidth, b.curHeight, dstFmt.Type, dstFmt.Depth, kind, color)
		}
	}
	b.appendFilter(f, b.curSubW, b.curSubH)
	b.curType = dstFmt.Type
	return nil
}

// finish allocates the ring buffers between stages (spec §4.4's
// buffering analysis, walked sink-to-source) and assembles the
// scheduler.Executor-backed Graph. The sink stage's output buffer is
// left zero-valued; Graph.Process substitutes the caller's destination
// buffer on every call.
func (b *builder) finish() (*Graph, *Error) {
	if len(b.stages) == 0 {
		return nil, newError(LogicError, "graph builder produced an empty pipeline")
	}

	exStages := make([]*scheduler.Stage, len(b.stages))
	for i, ps := range b.stages {
		var out ring.ImageBuffer
		if i < len(b.stages)-1 {
			next := b.stages[i+1].filter
			mask := ring.SelectMask(next.MaxBuffering())
			if next.Flags().EntirePlane {
				mask = ring.AllOnes
			}
			out = bufferFor(ps.filter.ImageAttributes(), ps.filter.Flags().Color, ps.subW, ps.subH, mask)
		}
		exStages[i] = scheduler.NewStage(ps.filter, out)
	}

	srcAttrs := b.src.Attributes()
	srcPlanes := scheduler.PlaneCount(b.src.ColorFamily != pixel.ColorFamilyGray)
	dstPlanes := scheduler.PlaneCount(b.stages[len(b.stages)-1].filter.Flags().Color)

	ex := &scheduler.Executor{
		Stages: exStages,
	}

	return &Graph{
		ex:              ex,
		srcAttrs:        srcAttrs,
		srcPlanes:       srcPlanes,
		dstAttrs:        b.dst.Attributes(),
		dstPlanes:       dstPlanes,
		srcChromaShiftH: b.src.SubsampleH,
		dstChromaShiftH: b.dst.SubsampleH,
		logger:          b.params.Logger,
	}, nil
}

// bufferFor allocates the ring-buffered ImageBuffer an intermediate
// stage writes into, sized for mask rows and, for color stages, for
// plane 1/2 dimensions narrowed by subW/subH relative to plane 0.
// ChromaShiftH is recorded on the buffer regardless of masking so the
// scheduler addresses planes 1/2 consistently between producer and
// consumer even though a ring-masked buffer's planes are all physically
// sized to mask+1 rows.
func bufferFor(attrs pixel.Attributes, color bool, subW, subH int, mask uint32) ring.ImageBuffer {
	var buf ring.ImageBuffer
	buf.ChromaShiftH = subH
	buf.Planes[0] = ring.NewPlaneBuffer(attrs.Width, attrs.Height, attrs.Type, mask)
	if !color {
		return buf
	}
	chromaW := (attrs.Width + (1 << subW) - 1) >> subW
	chromaH := (attrs.Height + (1 << subH) - 1) >> subH
	buf.Planes[1] = ring.NewPlaneBuffer(chromaW, chromaH, attrs.Type, mask)
	buf.Planes[2] = ring.NewPlaneBuffer(chromaW, chromaH, attrs.Type, mask)
	return buf
}
