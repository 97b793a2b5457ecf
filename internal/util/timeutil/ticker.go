package timeutil

import "time"

// Ticker is the part of `time.Ticker` the watcher needs, as an interface for testing.
type Ticker interface {
	Chan() <-chan time.Time
	Stop()
}

// NewTickerFunc creates a `Ticker` firing every d.
type NewTickerFunc func(d time.Duration) Ticker
