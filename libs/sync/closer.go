package sync

import "sync"

// Closer implements a primitive to close a channel that signals process
// termination while allowing a caller to call Close multiple times safely.
type Closer struct {
	closeOnce sync.Once
	doneCh    chan struct{}
}

// NewCloser returns a new Closer.
func NewCloser() *Closer {
	return &Closer{doneCh: make(chan struct{})}
}

// Done returns the internal done channel allowing the caller either block
// or wait for the Closer to be terminated/closed.
func (c *Closer) Done() <-chan struct{} {
	return c.doneCh
}

// Close gracefully closes the Closer. It is safe to call Close any number
// of times from any number of goroutines.
func (c *Closer) Close() {
	c.closeOnce.Do(func() {
		close(c.doneCh)
	})
}
