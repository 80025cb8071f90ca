//go:build !wallclock
// +build !wallclock

package sync

import "github.com/plinthlabs/plinth/libs/clock"

// The default build selects the monotonic source, insulating wait
// deadlines from NTP corrections and manual clock changes.
func defaultWaitSource() clock.Source {
	return clock.New()
}
