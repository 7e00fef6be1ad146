/*
NAME
  scratch.go

DESCRIPTION
  scratch.go reinterprets a caller-supplied tmp byte buffer as a typed
  scratch slice without an extra allocation, the same zero-copy
  reinterpretation idiom used for cgo-adjacent scratch buffers in the
  deepteams-webp example (testc/bitio, testc/predict). Filters size their
  TmpSize() in bytes; Float64Scratch gives them a float64 view over that
  same memory for per-row working storage.

AUTHORS
  Mara Delacroix <mara@kestrel-imaging.dev>
*/

package zfilter

import "unsafe"

// Float64Scratch returns the first n float64 slots of tmp, reinterpreted
// in place. Callers must size TmpSize() at n*8 bytes or more.
func Float64Scratch(tmp []byte, n int) []float64 {
	if n == 0 {
		return nil
	}
	return unsafe.Slice((*float64)(unsafe.Pointer(&tmp[0])), n)
}
