package sync

import (
	"sync/atomic"
	"time"
)

// Cond is a condition variable bound to a single Mutex for its entire
// lifetime. The association is non-owning: destroying the Cond leaves
// the Mutex untouched, and teardown ordering between the two remains
// the caller's responsibility.
//
// Wait and TimedWait assume the caller holds the associated mutex; the
// error-checking release trips a fatal diagnostic otherwise. Signal and
// Broadcast should be called with the mutex held per the usual monitor
// discipline, though that is not enforced here.
type Cond struct {
	state uint32 // atomic, same lifecycle states as Mutex
	m     *Mutex // associated mutex, never nil once constructed
	wc    *waitClock

	mtx     rawMutex // guards waiters
	waiters []chan token
}

// NewCond returns a condition variable associated with m, resolving the
// process-wide wait clock on first use. Only the create/destroy
// lifecycle shape exists for condition variables.
//
// The error is the portable contract's allocation-failure condition and
// is always nil on Go runtimes, as with NewMutex.
func NewCond(m *Mutex) (*Cond, error) {
	if m == nil {
		fatalf("cond create: nil mutex")
	}
	if s := atomic.LoadUint32(&m.state); s != stateReady {
		fatalf("cond create: mutex not initialized (state %d)", s)
	}
	c := &Cond{m: m, wc: waitClockCfg()}
	atomic.StoreUint32(&c.state, stateReady)
	return c, nil
}

func (c *Cond) ready(op string) {
	if s := atomic.LoadUint32(&c.state); s != stateReady {
		fatalf("cond %s: handle not initialized (state %d)", op, s)
	}
}

// Destroy releases the condition variable. Destroying it while
// goroutines are still blocked in Wait or TimedWait is fatal.
func (c *Cond) Destroy() {
	c.ready("destroy")
	c.mtx.Lock()
	n := len(c.waiters)
	c.mtx.Unlock()
	if n != 0 {
		fatalf("cond destroy: %d goroutines still waiting", n)
	}
	if !atomic.CompareAndSwapUint32(&c.state, stateReady, stateDestroyed) {
		fatalf("cond destroy: concurrent teardown")
	}
}

// Signal wakes at least one goroutine blocked on c, if there is any.
func (c *Cond) Signal() {
	c.ready("signal")
	c.mtx.Lock()
	if len(c.waiters) > 0 {
		w := c.waiters[0]
		c.waiters = c.waiters[1:]
		close(w)
	}
	c.mtx.Unlock()
}

// Broadcast wakes all goroutines blocked on c.
func (c *Cond) Broadcast() {
	c.ready("broadcast")
	c.mtx.Lock()
	for _, w := range c.waiters {
		close(w)
	}
	c.waiters = nil
	c.mtx.Unlock()
}

// Wait atomically releases the associated mutex and blocks the calling
// goroutine until Signal or Broadcast wakes it, then re-acquires the
// mutex before returning. The waiter is queued before the release, so a
// wakeup issued by the next holder of the mutex cannot be lost.
func (c *Cond) Wait() {
	c.ready("wait")
	w := c.enqueue()
	c.m.Unlock()
	<-w
	c.m.Lock()
}

// TimedWait is Wait with a deadline usec microseconds from now on the
// process-wide wait clock, fixed at entry. It returns ErrTimeout if the
// deadline elapses before a wakeup; a wakeup that races with the
// deadline wins. The mutex is re-acquired before returning either way,
// so a zero or elapsed deadline still performs the full
// release/re-acquire cycle.
func (c *Cond) TimedWait(usec int64) error {
	c.ready("timed wait")
	deadline := c.wc.now() + usec
	w := c.enqueue()
	c.m.Unlock()

	var timedOut bool
	t := c.wc.timer(microsToDuration(deadline - c.wc.now()))
	select {
	case <-w:
		t.Stop()
	case <-t.C:
		timedOut = c.dequeue(w)
	}

	c.m.Lock()
	if timedOut {
		return ErrTimeout
	}
	return nil
}

func (c *Cond) enqueue() chan token {
	w := make(chan token)
	c.mtx.Lock()
	c.waiters = append(c.waiters, w)
	c.mtx.Unlock()
	return w
}

// dequeue removes w from the wait list, reporting whether it was still
// queued. False means Signal or Broadcast already claimed the waiter,
// in which case the wakeup is honored rather than dropped.
func (c *Cond) dequeue(w chan token) bool {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	for i, q := range c.waiters {
		if q == w {
			c.waiters = append(c.waiters[:i], c.waiters[i+1:]...)
			return true
		}
	}
	return false
}

// microsToDuration converts a microsecond offset to a Duration, keeping
// the whole-second and sub-second parts separate the way the native
// timespec conversion does. Non-positive offsets collapse to zero,
// which makes the wait timer fire immediately.
func microsToDuration(us int64) time.Duration {
	if us <= 0 {
		return 0
	}
	return time.Duration(us/1e6)*time.Second + time.Duration(us%1e6)*time.Microsecond
}
