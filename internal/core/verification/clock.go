package verification

import (
	"RelayBot/internal/core/ports"
	"time"
)

// SystemClock is the wall clock.
type SystemClock struct{}

var _ ports.Clock = SystemClock{}

func (SystemClock) Now() time.Time { return time.Now() }

func (SystemClock) WaitUntil(t time.Time) <-chan time.Time {
	d := time.Until(t)
	if d < 0 {
		d = 0
	}
	return time.After(d)
}
