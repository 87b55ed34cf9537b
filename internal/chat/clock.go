package chat

import "time"

// Clock supplies wall time and delayed callbacks.
type Clock interface {
	Now() time.Time
	// AfterFunc runs f after d. The returned func cancels it and reports
	// whether it was still pending.
	AfterFunc(d time.Duration, f func()) (stop func() bool)
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) AfterFunc(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}

// SystemClock is the real clock.
var SystemClock Clock = systemClock{}
