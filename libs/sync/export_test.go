package sync

import (
	"sync/atomic"

	"github.com/plinthlabs/plinth/libs/clock"
)

// MicrosToDuration exposes the deadline conversion for boundary tests.
var MicrosToDuration = microsToDuration

// SwapAbort replaces the process-terminating abort step so tests can
// observe fatal paths; fatalf then panics with the diagnostic instead.
// The returned func restores the previous behavior.
func SwapAbort(f func(msg string)) (restore func()) {
	old := abort
	if f == nil {
		f = func(string) {}
	}
	abort = f
	return func() { abort = old }
}

// ResetWaitClock clears the cached wait-clock configuration so the next
// condition-variable construction recomputes it. A non-nil src forces
// the recomputation to use it instead of the build's default source.
func ResetWaitClock(src clock.Source) {
	waitClockState.mtx.Lock()
	defer waitClockState.mtx.Unlock()
	waitClockState.cfg = nil
	atomic.StoreUint32(&waitClockState.done, 0)
	if src != nil {
		newWaitSource = func() clock.Source { return src }
	} else {
		newWaitSource = defaultWaitSource
	}
}

// WaitClockInits reports how many times the wait-clock computation step
// has run in this process.
func WaitClockInits() uint64 {
	waitClockState.mtx.Lock()
	defer waitClockState.mtx.Unlock()
	return waitClockState.inits
}
