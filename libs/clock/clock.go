// Package clock provides the time sources used for wait-deadline
// arithmetic. Readings are microseconds since an arbitrary, source-private
// epoch, so callers can only do interval math with them.
package clock

import (
	"time"

	bclock "github.com/benbjohnson/clock"
)

// Source is a clock usable for computing and enforcing wait deadlines.
type Source interface {
	// Now returns the current time in microseconds since an arbitrary
	// epoch fixed at source construction.
	Now() int64

	// Timer returns a timer that fires once after d.
	Timer(d time.Duration) *bclock.Timer
}

type source struct {
	c     bclock.Clock
	epoch time.Time
}

var _ Source = (*source)(nil)

// New returns the default monotonic source. Readings are derived from
// elapsed time against a fixed epoch, so they never move backward or
// jump when the system wall clock is adjusted.
func New() Source {
	return NewAt(bclock.New())
}

// NewAt returns a monotonic source backed by c. Tests pass a
// *clock.Mock here to control time.
func NewAt(c bclock.Clock) Source {
	return &source{c: c, epoch: c.Now()}
}

func (s *source) Now() int64 {
	return s.c.Now().Sub(s.epoch).Microseconds()
}

func (s *source) Timer(d time.Duration) *bclock.Timer {
	return s.c.Timer(d)
}

type wallSource struct {
	c bclock.Clock
}

var _ Source = (*wallSource)(nil)

// NewWall returns a wall-clock source for platforms or builds where a
// monotonic clock cannot be selected. Readings follow the system time
// and will observe NTP corrections and manual clock changes.
func NewWall() Source {
	return NewWallAt(bclock.New())
}

// NewWallAt is NewWall over an explicit backing clock.
func NewWallAt(c bclock.Clock) Source {
	return &wallSource{c: c}
}

func (s *wallSource) Now() int64 {
	return s.c.Now().UnixMicro()
}

func (s *wallSource) Timer(d time.Duration) *bclock.Timer {
	return s.c.Timer(d)
}
