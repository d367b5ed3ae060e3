package ports

import "time"

// Clock abstracts time so delayed work can be driven by tests.
type Clock interface {
	Now() time.Time
	// WaitUntil returns a channel that receives once Now() >= t.
	WaitUntil(t time.Time) <-chan time.Time
}
