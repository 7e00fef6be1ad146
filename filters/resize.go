/*
NAME
  resize.go

DESCRIPTION
  resize.go implements horizontal and vertical resize, the two
  spec §4.4 step-4 filters. Horizontal resize changes the row width and
  requires the entire input row per output row (EntireRow); vertical
  resize changes the row count and has MaxBuffering of twice its kernel
  support (half-width) plus four rows, exercising the ring buffer's
  windowed addressing.

AUTHORS
  Mara Delacroix <mara@kestrel-imaging.dev>
*/

package filters

import (
	"github.com/kestrel-imaging/zimg/pixel"
	"github.com/kestrel-imaging/zimg/zfilter"
)

const maxKernelTaps = 16

// ResizeParams bundles the resample kernel selection for one resize
// stage, independent of axis.
type ResizeParams struct {
	Filter pixel.ResampleFilter
	A, B   float64
}

// srcCenter maps destination sample index d to the corresponding source
// coordinate under a srcLen -> dstLen resample, center-aligned.
func srcCenter(d, srcLen, dstLen int) float64 {
	scale := float64(srcLen) / float64(dstLen)
	return (float64(d)+0.5)*scale - 0.5
}

// HorizontalResize resamples each row independently to a new width.
type HorizontalResize struct {
	zfilter.Base
	srcType  pixel.Type
	srcWidth int
	attrs    pixel.Attributes
	params   ResizeParams
	support  float64
	a, b     float64
	color    bool
}

// NewHorizontalResize constructs a horizontal resize filter converting
// srcWidth columns of srcType to dstWidth columns at height rows.
func NewHorizontalResize(srcType pixel.Type, srcWidth, dstWidth, height int, p ResizeParams, color bool) *HorizontalResize {
	support, a, b := kernelSupport(p.Filter, p.A, p.B)
	return &HorizontalResize{
		srcType:  srcType,
		srcWidth: srcWidth,
		attrs:    pixel.Attributes{Width: dstWidth, Height: height, Type: srcType},
		params:   p,
		support:  support,
		a:        a,
		b:        b,
		color:    color,
	}
}

func (h *HorizontalResize) Flags() zfilter.Flags {
	return zfilter.Flags{SameRow: true, EntireRow: true, Color: h.color}
}

func (h *HorizontalResize) ImageAttributes() pixel.Attributes { return h.attrs }

func (h *HorizontalResize) RequiredColRange(l, r int) zfilter.Range {
	return zfilter.Range{Lo: 0, Hi: h.srcWidth}
}

func (h *HorizontalResize) TmpSize(l, r int) int {
	return (h.srcWidth + maxKernelTaps) * 8
}

func (h *HorizontalResize) Process(ctx []byte, src, dst zfilter.Buffer, tmp []byte, i, l, r int) {
	planes := 1
	if h.color {
		planes = 3
	}
	srcRow := zfilter.Float64Scratch(tmp, h.srcWidth)
	var tapbuf [maxKernelTaps]float64

	for p := 0; p < planes; p++ {
		pixel.ReadRow(src.Rows[p][0], h.srcType, 0, h.srcWidth, srcRow)

		out := make([]float64, r-l)
		for d := l; d < r; d++ {
			center := srcCenter(d, h.srcWidth, h.attrs.Width)
			first, n := taps(h.params.Filter, center, h.support, h.a, h.b, tapbuf[:])
			var acc float64
			for t := 0; t < n; t++ {
				si := first + t
				if si < 0 {
					si = 0
				}
				if si >= h.srcWidth {
					si = h.srcWidth - 1
				}
				acc += srcRow[si] * tapbuf[t]
			}
			out[d-l] = acc
		}
		pixel.WriteRow(dst.Rows[p][0], h.attrs.Type, l, r-l, out)
	}
}

// VerticalResize resamples a column of rows to a new height.
type VerticalResize struct {
	zfilter.Base
	srcType   pixel.Type
	srcHeight int
	attrs     pixel.Attributes
	params    ResizeParams
	support   float64
	a, b      float64
	color     bool
	buffering uint32
}

// NewVerticalResize constructs a vertical resize filter converting
// srcHeight rows of srcType to dstHeight rows at the given width.
func NewVerticalResize(srcType pixel.Type, width, srcHeight, dstHeight int, p ResizeParams, color bool) *VerticalResize {
	support, a, b := kernelSupport(p.Filter, p.A, p.B)
	buffering := uint32(support*2) + 4
	return &VerticalResize{
		srcType:   srcType,
		srcHeight: srcHeight,
		attrs:     pixel.Attributes{Width: width, Height: dstHeight, Type: srcType},
		params:    p,
		support:   support,
		a:         a,
		b:         b,
		color:     color,
		buffering: buffering,
	}
}

func (v *VerticalResize) Flags() zfilter.Flags {
	return zfilter.Flags{Color: v.color}
}

func (v *VerticalResize) ImageAttributes() pixel.Attributes { return v.attrs }

func (v *VerticalResize) MaxBuffering() uint32 { return v.buffering }

func (v *VerticalResize) RequiredRowRange(i int) zfilter.Range {
	center := srcCenter(i, v.srcHeight, v.attrs.Height)
	lo := int(center - v.support)
	hi := int(center+v.support) + 2
	if lo < 0 {
		lo = 0
	}
	if hi > v.srcHeight {
		hi = v.srcHeight
	}
	if hi <= lo {
		hi = lo + 1
	}
	if uint32(hi-lo) > v.buffering {
		hi = lo + int(v.buffering)
	}
	return zfilter.Range{Lo: lo, Hi: hi}
}

func (v *VerticalResize) TmpSize(l, r int) int { return 0 }

func (v *VerticalResize) Process(ctx []byte, src, dst zfilter.Buffer, tmp []byte, i, l, r int) {
	planes := 1
	if v.color {
		planes = 3
	}
	rows := v.RequiredRowRange(i)
	center := srcCenter(i, v.srcHeight, v.attrs.Height)

	var tapbuf [maxKernelTaps]float64
	first, n := taps(v.params.Filter, center-float64(rows.Lo), v.support, v.a, v.b, tapbuf[:])

	count := r - l
	acc := make([]float64, count)
	row := make([]float64, count)

	for p := 0; p < planes; p++ {
		for c := range acc {
			acc[c] = 0
		}
		for t := 0; t < n; t++ {
			si := first + t
			if si < 0 {
				si = 0
			}
			if si >= rows.Len() {
				si = rows.Len() - 1
			}
			pixel.ReadRow(src.Rows[p][si], v.srcType, l, count, row)
			w := tapbuf[t]
			for c := range acc {
				acc[c] += row[c] * w
			}
		}
		pixel.WriteRow(dst.Rows[p][0], v.attrs.Type, l, count, acc)
	}
}
