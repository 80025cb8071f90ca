//go:build deadlock
// +build deadlock

package sync

import deadlock "github.com/sasha-s/go-deadlock"

// DeadlockDetection reports whether the package's internal locks are
// deadlock-detecting (build tag "deadlock").
const DeadlockDetection = true

// rawMutex guards this package's own internal state. With the deadlock
// build tag it detects lock-order inversions and long-held locks.
type rawMutex struct {
	deadlock.Mutex
}
