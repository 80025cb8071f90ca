package sync

import (
	"sync/atomic"
	"time"

	bclock "github.com/benbjohnson/clock"

	"github.com/plinthlabs/plinth/libs/clock"
)

// waitClock is the process-wide clock configuration shared by every
// condition variable for deadline arithmetic. It is computed at most
// once; the one object is retained for the life of the process rather
// than rebuilt per condition variable.
type waitClock struct {
	src clock.Source
}

func (w *waitClock) now() int64 {
	return w.src.Now()
}

func (w *waitClock) timer(d time.Duration) *bclock.Timer {
	return w.src.Timer(d)
}

// newWaitSource picks the clock for the build (see waitclock_monotonic.go
// and waitclock_wall.go). A package variable so tests can substitute a
// mock source.
var newWaitSource = defaultWaitSource

var waitClockState struct {
	mtx   rawMutex
	done  uint32 // atomic; set once the configuration is computed
	cfg   *waitClock
	inits uint64 // times the computation step ran; guarded by mtx
}

// waitClockCfg resolves the shared wait clock, computing it on the
// first call. The double-checked flag keeps the steady-state path to a
// single atomic load; after the first computation the configuration is
// immutable and read without the lock.
func waitClockCfg() *waitClock {
	if atomic.LoadUint32(&waitClockState.done) == 1 {
		return waitClockState.cfg
	}
	waitClockState.mtx.Lock()
	defer waitClockState.mtx.Unlock()
	if waitClockState.done == 0 {
		waitClockState.cfg = &waitClock{src: newWaitSource()}
		waitClockState.inits++
		atomic.StoreUint32(&waitClockState.done, 1)
	}
	return waitClockState.cfg
}
