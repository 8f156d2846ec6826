package workerpool

import "time"

const (
	defaultWait = 2 * time.Second
	defaultTick = 10 * time.Millisecond
)
