//go:build deadlock

package syncutils

import (
	"time"

	"github.com/sasha-s/go-deadlock"
)

type (
	Mutex   = deadlock.Mutex
	RWMutex = deadlock.RWMutex
)

// DeadlockDetectionEnabled reports whether the instrumented locks are compiled in.
const DeadlockDetectionEnabled = true

func init() {
	deadlock.Opts.DeadlockTimeout = 10 * time.Second
}
