package sync

import "errors"

// The recoverable conditions of the layer. Everything else that can go
// wrong is a caller contract violation and is routed through fatalf.
var (
	// ErrBusy is returned by TryLock when the mutex is already held.
	ErrBusy = errors.New("sync: mutex busy")

	// ErrTimeout is returned by TimedWait when the deadline elapses
	// before a wakeup arrives.
	ErrTimeout = errors.New("sync: wait timed out")

	// ErrNoMem is the portable contract's allocation-failure condition.
	// Construction on a Go runtime never produces it (the runtime aborts
	// on true exhaustion), but the value is part of the stable API.
	ErrNoMem = errors.New("sync: out of memory")
)
