package sync

import (
	"fmt"

	"github.com/plinthlabs/plinth/libs/log"
	plos "github.com/plinthlabs/plinth/libs/os"
)

var loggerState = struct {
	mtx rawMutex
	l   log.Logger
}{l: log.NewNopLogger()}

// SetLogger installs the logger used for fatal diagnostics. The default
// is a nop logger; the fatal message itself still reaches the operator
// through the process-exit path.
func SetLogger(l log.Logger) {
	loggerState.mtx.Lock()
	loggerState.l = l
	loggerState.mtx.Unlock()
}

func getLogger() log.Logger {
	loggerState.mtx.Lock()
	defer loggerState.mtx.Unlock()
	return loggerState.l
}

// abort is the terminal step of fatal reporting. Tests of the fatal
// paths replace it so misuse can be observed without dying.
var abort = func(msg string) {
	plos.Exit(msg)
}

// fatalf reports an unrecoverable condition: a handle misused by its
// caller, or a native state this layer considers impossible. Every such
// failure funnels through here so the fatal-vs-recoverable boundary
// stays in one place. It does not return.
func fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	getLogger().Error("fatal synchronization failure", "err", msg)
	abort(msg)
	// Reached only when abort has been replaced.
	panic(msg)
}
