/*
NAME
  lasterror.go

DESCRIPTION
  lasterror.go implements get_last_error / clear_last_error (spec §6, §7):
  a single slot holding the most recent *graph.Error, set by Build or
  Graph.Process on failure and readable independently of the Go error
  they also return, so callers following the runtime API's (code, message) idiom
  are served alongside callers using ordinary Go error handling.

  The spec calls this "process-wide" / "thread-wide"; Go has no per-thread
  storage, so this is a single mutex-guarded slot shared by every
  goroutine in the process (see DESIGN.md).

AUTHORS
  Mara Delacroix <mara@kestrel-imaging.dev>
*/

package api

import (
	"sync"

	"github.com/kestrel-imaging/zimg/graph"
)

var (
	lastErrMu sync.Mutex
	lastErr   *graph.Error
)

func setLastError(e *graph.Error) {
	lastErrMu.Lock()
	defer lastErrMu.Unlock()
	lastErr = e
}

// GetLastError returns the (code, message) pair of the most recent
// failing call, or (graph.Unknown, "") if none has occurred, or has been
// cleared, since the process started.
func GetLastError() (graph.ErrorCode, string) {
	lastErrMu.Lock()
	defer lastErrMu.Unlock()
	if lastErr == nil {
		return graph.Unknown, ""
	}
	return lastErr.Code, lastErr.Message
}

// ClearLastError resets the last-error slot.
func ClearLastError() {
	lastErrMu.Lock()
	defer lastErrMu.Unlock()
	lastErr = nil
}
