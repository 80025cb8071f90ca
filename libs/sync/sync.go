//go:build !deadlock
// +build !deadlock

// Package sync provides the portable synchronization primitives the rest
// of the runtime is built on: error-checking mutual-exclusion locks and
// condition variables with monotonic timed waits.
//
// Locking is infallible by contract. The only recoverable failures are
// ErrBusy from TryLock and ErrTimeout from TimedWait; any other failure
// means the caller misused a handle, and the process is terminated with
// a diagnostic rather than left to run on corrupted state.
package sync

import "sync"

// DeadlockDetection reports whether the package's internal locks are
// deadlock-detecting (build tag "deadlock").
const DeadlockDetection = false

// rawMutex guards this package's own internal state (wait lists, the
// wait-clock cache). It is a plain sync.Mutex unless the deadlock build
// tag is set.
type rawMutex struct {
	sync.Mutex
}
