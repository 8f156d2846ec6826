//go:build !deadlock

// Package syncutils provides the lock types used by the allocation engine. Building with the "deadlock" tag swaps
// them for instrumented locks that report lock-order inversions and long waits.
package syncutils

import "sync"

type (
	Mutex   = sync.Mutex
	RWMutex = sync.RWMutex
)

// DeadlockDetectionEnabled reports whether the instrumented locks are compiled in.
const DeadlockDetectionEnabled = false
