package timeutil

import "time"

var _ Ticker = (*FakeTicker)(nil)

// FakeTicker only fires when Tick is called.
type FakeTicker struct {
	ch chan time.Time
}

func NewFakeTicker() *FakeTicker {
	return &FakeTicker{make(chan time.Time)}
}

func (t *FakeTicker) Chan() <-chan time.Time {
	return t.ch
}

func (t *FakeTicker) Stop() {}

// Tick blocks until the owner of the ticker receives the tick.
func (t *FakeTicker) Tick() {
	t.ch <- time.Now()
}

// NewTickerFunc returns a factory that always hands out t, whatever the duration.
func (t *FakeTicker) NewTickerFunc() NewTickerFunc {
	return func(time.Duration) Ticker {
		return t
	}
}
