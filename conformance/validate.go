/*
NAME
  validate.go

DESCRIPTION
  validate.go implements validate_filter (spec §4.5 steps 1-7): given a
  filter under test and the geometry/format to drive it at, it checks the
  filter's declared flag invariants, its RequiredRowRange contract when
  same_row is set, runs process row by row over a full-plane audit buffer
  asserting that each call changed no destination byte outside its
  declared window (it does not check that every byte inside the window
  was written), optionally SHA-1-compares the result against caller-supplied
  digests, and re-runs the same filter over ring-buffered (as opposed to
  full-plane) source and destination storage to assert the buffered and
  full-plane outputs agree.

AUTHORS
  Mara Delacroix <mara@kestrel-imaging.dev>
*/

package conformance

import (
	"crypto/sha1"
	"math/rand"

	"github.com/pkg/errors"

	"github.com/kestrel-imaging/zimg/pixel"
	"github.com/kestrel-imaging/zimg/ring"
	"github.com/kestrel-imaging/zimg/zfilter"
)

// Config is one validate_filter invocation: the filter under test, the
// geometry/format of its input, a seed for the deterministic pseudo
// random fill, and optionally the expected per-plane SHA-1 digests (spec
// P5). A nil entry in ExpectedHashes skips that plane's comparison.
type Config struct {
	Filter         zfilter.Filter
	SrcAttrs       pixel.Attributes
	Seed           int64
	ExpectedHashes [3][]byte
}

// Result reports what Validate actually computed, so callers that did
// not supply ExpectedHashes can still inspect or print them.
type Result struct {
	Hashes [3][]byte
}

// plane is the subset of AuditBuffer[T]'s behavior Validate needs,
// independent of T; every AuditBuffer[T] satisfies it structurally.
type plane interface {
	Row(y int) []byte
	Snapshot() []byte
	ChangedOffsets(prev []byte) []int
	SampleSize() int
	FillBytes([]byte)
}

// Validate runs the full spec §4.5 audit against cfg.Filter and returns
// the computed per-plane hashes, or an error describing the first
// contract violation found.
func Validate(cfg Config) (*Result, error) {
	f := cfg.Filter
	flags := f.Flags()

	// Step 1: flag invariants.
	if err := flags.Validate(f.MaxBuffering(), f.SimultaneousLines()); err != nil {
		return nil, errors.Wrap(err, "flag invariants")
	}

	dstAttrs := f.ImageAttributes()
	step := 1
	if flags.HasState {
		step = int(f.SimultaneousLines())
	}

	// Step 2: same_row contract.
	if flags.SameRow {
		for i := 0; i < dstAttrs.Height; i += step {
			want := zfilter.Range{Lo: i, Hi: i + step}
			if got := f.RequiredRowRange(i); got != want {
				return nil, errors.Errorf("RequiredRowRange(%d) = %v, want %v (same_row)", i, got, want)
			}
		}
	}

	planes := 1
	if flags.Color {
		planes = 3
	}

	// Step 3/4: full-plane audit buffers, source filled deterministically,
	// destination zero-valued.
	src := newPlanes(cfg.SrcAttrs, planes)
	dst := newPlanes(dstAttrs, planes)
	fillDeterministic(src, cfg.SrcAttrs, cfg.Seed)

	srcSnapshots := make([][]byte, planes)
	for p := 0; p < planes; p++ {
		srcSnapshots[p] = src[p].Snapshot()
	}

	ctx := make([]byte, f.ContextSize())
	f.InitContext(ctx)

	// Step 5: drive process row by row, auditing each call's write window.
	if err := runFullPlane(f, ctx, src, dst, dstAttrs.Height, 0, dstAttrs.Width, step, planes); err != nil {
		return nil, err
	}

	for p := 0; p < planes; p++ {
		if changed := src[p].ChangedOffsets(srcSnapshots[p]); len(changed) != 0 {
			return nil, errors.Errorf("plane %d: process mutated %d source byte(s), first at offset %d", p, len(changed), changed[0])
		}
	}

	// Step 6: optional hash comparison.
	res := &Result{}
	for p := 0; p < planes; p++ {
		h := sha1.Sum(dst[p].Snapshot())
		res.Hashes[p] = h[:]
		if exp := cfg.ExpectedHashes[p]; exp != nil {
			if string(exp) != string(h[:]) {
				return nil, errors.Errorf("plane %d: hash mismatch", p)
			}
		}
	}

	// Step 7: buffered-vs-full-plane equivalence.
	if err := validateBuffered(f, cfg, dst, planes); err != nil {
		return nil, errors.Wrap(err, "buffered equivalence")
	}

	return res, nil
}

func newPlanes(attrs pixel.Attributes, count int) [3]plane {
	var out [3]plane
	for p := 0; p < count; p++ {
		out[p] = newPlane(attrs.Type, attrs.Width, attrs.Height)
	}
	return out
}

func newPlane(t pixel.Type, width, height int) plane {
	switch t {
	case pixel.BYTE:
		return NewAuditBuffer[uint8](width, height)
	case pixel.WORD, pixel.HALF:
		return NewAuditBuffer[uint16](width, height)
	case pixel.FLOAT:
		return NewAuditBuffer[float32](width, height)
	default:
		panic("conformance: unknown pixel type")
	}
}

// fillDeterministic fills every plane's raw bytes from a PRNG seeded by
// (width, height, type, seed), matching spec §4.5 step 4's "deterministic
// pseudo-random bytes seeded by (width, height, format)". math/rand is
// used rather than a hash-derived stream because nothing in the example
// pack supplies a seeded-byte-fill utility and one isn't otherwise needed
// by the engine; this is test-only data generation, not a domain concern.
func fillDeterministic(planes [3]plane, attrs pixel.Attributes, seed int64) {
	for p := 0; p < 3; p++ {
		if planes[p] == nil {
			continue
		}
		mix := seed ^ int64(attrs.Width)<<32 ^ int64(attrs.Height)<<16 ^ int64(attrs.Type) ^ int64(p)*0x9E3779B1
		rnd := rand.New(rand.NewSource(mix))
		n := attrs.Width * attrs.Height * planes[p].SampleSize()
		buf := make([]byte, n)
		rnd.Read(buf)
		planes[p].FillBytes(buf)
	}
}

// runFullPlane drives f.Process for every output row in [0, height),
// auditing each call against the byte range it was entitled to touch.
func runFullPlane(f zfilter.Filter, ctx []byte, src, dst [3]plane, height, colL, colR, step, planes int) error {
	for i := 0; i < height; i += step {
		rng := f.RequiredRowRange(i)

		srcBuf := gatherPlane(src, rng, planes)
		outRng := zfilter.Range{Lo: i, Hi: i + step}
		dstBuf := gatherPlane(dst, outRng, planes)

		before := make([][]byte, planes)
		for p := 0; p < planes; p++ {
			before[p] = dst[p].Snapshot()
		}

		tmp := make([]byte, f.TmpSize(colL, colR))
		f.Process(ctx, srcBuf, dstBuf, tmp, i, colL, colR)

		for p := 0; p < planes; p++ {
			changed := dst[p].ChangedOffsets(before[p])
			sampleSize := dst[p].SampleSize()
			for _, off := range changed {
				sample := off / sampleSize
				row := sample / attrsWidthOf(dst[p])
				col := sample % attrsWidthOf(dst[p])
				if row < outRng.Lo || row >= outRng.Hi || col < colL || col >= colR {
					return errors.Errorf("plane %d: process(i=%d) wrote outside declared window at row %d col %d", p, i, row, col)
				}
			}
		}
	}
	return nil
}

// attrsWidthOf recovers a plane's width; every plane implementation here
// is an *AuditBuffer[T], so this is a small reflection-free type switch
// rather than widening the plane interface for one accessor.
func attrsWidthOf(p plane) int {
	switch v := p.(type) {
	case *AuditBuffer[uint8]:
		return v.Width
	case *AuditBuffer[uint16]:
		return v.Width
	case *AuditBuffer[float32]:
		return v.Width
	default:
		panic("conformance: unknown plane implementation")
	}
}

func gatherPlane(planes [3]plane, rng zfilter.Range, count int) zfilter.Buffer {
	var b zfilter.Buffer
	n := rng.Len()
	if n < 1 {
		n = 1
	}
	for p := 0; p < count; p++ {
		rows := make([][]byte, n)
		for j := 0; j < n; j++ {
			rows[j] = planes[p].Row(rng.Lo + j)
		}
		b.Rows[p] = rows
	}
	return b
}

// validateBuffered re-runs f over ring-buffered (as opposed to
// full-plane) source and destination storage — mask sized from the
// filter's own declared MaxBuffering/SimultaneousLines rather than
// AllOnes — and asserts that every row it produces matches the
// full-plane reference output captured in dst by Validate's main pass
// (spec §4.5 step 7).
func validateBuffered(f zfilter.Filter, cfg Config, reference [3]plane, planes int) error {
	flags := f.Flags()
	if flags.EntirePlane {
		return nil // Already necessarily full-plane; nothing further to compare.
	}

	srcMask := ring.SelectMask(f.MaxBuffering())
	dstMask := ring.SelectMask(f.SimultaneousLines())

	var src, dst ring.ImageBuffer
	for p := 0; p < planes; p++ {
		src.Planes[p] = ring.NewPlaneBuffer(cfg.SrcAttrs.Width, cfg.SrcAttrs.Height, cfg.SrcAttrs.Type, srcMask)
		dstAttrs := f.ImageAttributes()
		dst.Planes[p] = ring.NewPlaneBuffer(dstAttrs.Width, dstAttrs.Height, dstAttrs.Type, dstMask)
	}

	// Re-seed source identically to the main pass so buffered rows are
	// directly comparable. Rows are fed into the ring just ahead of the
	// point the filter actually requests them, mirroring how a real
	// producer stage would fill it — pre-filling every row up front
	// would immediately evict all but the last mask+1 of them.
	srcPlanes := newPlanes(cfg.SrcAttrs, planes)
	fillDeterministic(srcPlanes, cfg.SrcAttrs, cfg.Seed)
	filled := 0
	fillSrcThrough := func(hi int) {
		for y := filled; y < hi && y < cfg.SrcAttrs.Height; y++ {
			for p := 0; p < planes; p++ {
				copy(src.Plane(p).RowBytes(y), srcPlanes[p].Row(y))
			}
		}
		if hi > filled {
			filled = hi
		}
	}

	ctx := make([]byte, f.ContextSize())
	f.InitContext(ctx)

	dstAttrs := f.ImageAttributes()
	step := 1
	if flags.HasState {
		step = int(f.SimultaneousLines())
	}

	colL, colR := 0, dstAttrs.Width
	if !flags.EntireRow && dstAttrs.Width > 1 {
		colR = dstAttrs.Width / 2 // Exercise a genuine partial column window.
	}

	for i := 0; i < dstAttrs.Height; i += step {
		rng := f.RequiredRowRange(i)
		fillSrcThrough(rng.Hi)
		var srcBuf zfilter.Buffer
		n := rng.Len()
		if n < 1 {
			n = 1
		}
		for p := 0; p < planes; p++ {
			rows := make([][]byte, n)
			for j := 0; j < n; j++ {
				rows[j] = src.Plane(p).RowBytes(rng.Lo + j)
			}
			srcBuf.Rows[p] = rows
		}

		var dstBuf zfilter.Buffer
		for p := 0; p < planes; p++ {
			rows := make([][]byte, step)
			for j := 0; j < step; j++ {
				rows[j] = dst.Plane(p).RowBytes(i + j)
			}
			dstBuf.Rows[p] = rows
		}

		tmp := make([]byte, f.TmpSize(colL, colR))
		f.Process(ctx, srcBuf, dstBuf, tmp, i, colL, colR)

		for p := 0; p < planes; p++ {
			for j := 0; j < step; j++ {
				row := i + j
				got := dst.Plane(p).RowBytes(row)
				want := reference[p].Row(row)
				sampleSize := reference[p].SampleSize()
				lo, hi := colL*sampleSize, colR*sampleSize
				if string(got[lo:hi]) != string(want[lo:hi]) {
					return errors.Errorf("plane %d row %d: buffered output diverges from full-plane reference within [%d,%d)", p, row, colL, colR)
				}
			}
		}
	}
	return nil
}
