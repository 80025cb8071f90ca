//go:build wallclock
// +build wallclock

package sync

import "github.com/plinthlabs/plinth/libs/clock"

// The wallclock build forces wall-clock timing, for platforms where a
// monotonic clock source cannot be selected.
func defaultWaitSource() clock.Source {
	return clock.NewWall()
}
