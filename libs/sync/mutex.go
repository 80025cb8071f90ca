package sync

import (
	"sync/atomic"

	"github.com/petermattis/goid"
)

// Lifecycle states of a primitive handle.
const (
	stateRaw       uint32 = iota // zero value, storage not yet initialized
	stateReady                   // usable
	stateDestroyed               // torn down; any further use is fatal
)

type token struct{}

// A Mutex is a mutual exclusion lock with error-checking semantics:
// relocking by the holder, unlocking by a non-holder and teardown of a
// held or stale handle are detected and abort the process instead of
// silently corrupting state.
//
// Two lifecycle shapes are supported. NewMutex/Destroy covers handles
// owned by this layer; Init/Fini covers storage embedded in a caller's
// own struct. Both shapes share the same initialization underneath.
//
// A Mutex must not be copied after first use.
type Mutex struct {
	state  uint32 // atomic: stateRaw, stateReady, stateDestroyed
	holder int64  // atomic: goid of the current holder, 0 when free
	ch     chan token
}

// NewMutex returns a new, unheld mutex.
//
// The error is the portable contract's recoverable allocation-failure
// condition. On Go runtimes it is always nil; the signature is kept so
// call sites stay identical across platform layers.
func NewMutex() (*Mutex, error) {
	m := new(Mutex)
	if err := m.Init(); err != nil {
		return nil, err
	}
	return m, nil
}

// Init initializes a mutex embedded in caller-owned storage. The mutex
// must not be used before Init returns. Initializing a handle that is
// already initialized, or was destroyed, is fatal.
func (m *Mutex) Init() error {
	if !atomic.CompareAndSwapUint32(&m.state, stateRaw, stateReady) {
		fatalf("mutex init: handle already initialized (state %d)", atomic.LoadUint32(&m.state))
	}
	// Capacity 1: a token in flight means the mutex is held.
	m.ch = make(chan token, 1)
	return nil
}

// ready asserts the handle is initialized and not destroyed.
func (m *Mutex) ready(op string) {
	if s := atomic.LoadUint32(&m.state); s != stateReady {
		fatalf("mutex %s: handle not initialized (state %d)", op, s)
	}
}

// Lock acquires m, blocking until it is free. By contract Lock cannot
// fail: relocking by the current holder is detected and fatal, matching
// error-checking native mutexes, and every other path acquires the lock.
func (m *Mutex) Lock() {
	m.ready("lock")
	gid := goid.Get()
	if atomic.LoadInt64(&m.holder) == gid {
		fatalf("mutex lock: deadlock, goroutine %d already holds the mutex", gid)
	}
	m.ch <- token{}
	atomic.StoreInt64(&m.holder, gid)
}

// Unlock releases m. Unlocking a mutex the calling goroutine does not
// hold is fatal.
func (m *Mutex) Unlock() {
	m.ready("unlock")
	gid := goid.Get()
	if atomic.LoadInt64(&m.holder) != gid {
		fatalf("mutex unlock: not held by goroutine %d", gid)
	}
	atomic.StoreInt64(&m.holder, 0)
	<-m.ch
}

// TryLock attempts to acquire m without blocking. It returns ErrBusy if
// the mutex is already held. Contention is the one recoverable locking
// failure; callers are expected to handle it.
func (m *Mutex) TryLock() error {
	m.ready("trylock")
	select {
	case m.ch <- token{}:
		atomic.StoreInt64(&m.holder, goid.Get())
		return nil
	default:
		return ErrBusy
	}
}

// Fini releases a mutex initialized with Init. Tearing down a mutex
// that is currently held is fatal: some goroutine can still observe the
// handle, which is a use-after-free class bug in the caller.
func (m *Mutex) Fini() {
	m.ready("fini")
	select {
	case m.ch <- token{}:
	default:
		fatalf("mutex fini: still held by goroutine %d", atomic.LoadInt64(&m.holder))
	}
	if !atomic.CompareAndSwapUint32(&m.state, stateReady, stateDestroyed) {
		fatalf("mutex fini: concurrent teardown")
	}
}

// Destroy releases a mutex returned by NewMutex. Same checks as Fini.
func (m *Mutex) Destroy() {
	m.Fini()
}
