package trigger

import (
	"fmt"
	"time"
)

// FirstRunStrategy controls the very first wait of an Every trigger.
type FirstRunStrategy string

const (
	// FirstRunWait sleeps a full interval before the first fire.
	FirstRunWait FirstRunStrategy = "wait"
	// FirstRunImmediate fires right away, then waits the interval.
	FirstRunImmediate FirstRunStrategy = "immediate"
)

// Every fires on a fixed interval.
type Every struct {
	loopController

	// Interval between fires. Must be positive.
	Interval time.Duration

	// FirstRun controls the initial wait. Defaults to FirstRunWait.
	FirstRun FirstRunStrategy
}

// NewEvery returns an interval trigger with the default wait-first strategy.
func NewEvery(interval time.Duration) *Every {
	return &Every{Interval: interval, FirstRun: FirstRunWait}
}

// WithFirstRun sets the initial wait strategy and returns the trigger for
// chaining.
func (e *Every) WithFirstRun(s FirstRunStrategy) *Every {
	e.FirstRun = s
	return e
}

// WithMaxLoops caps the number of fires and returns the trigger for chaining.
func (e *Every) WithMaxLoops(n int) *Every {
	e.maxLoops = n
	return e
}

func (*Every) Kind() Kind { return KindEvery }

// Validate checks the interval and strategy.
func (e *Every) Validate() error {
	if e.Interval <= 0 {
		return fmt.Errorf("every: interval must be positive, got %s", e.Interval)
	}
	switch e.FirstRun {
	case "", FirstRunWait, FirstRunImmediate:
		return nil
	default:
		return fmt.Errorf("every: unknown first run strategy %q", e.FirstRun)
	}
}

func (e *Every) Next(time.Time) (time.Duration, error) {
	if !e.ShouldTrigger() {
		return 0, ErrExhausted
	}
	if e.fired == 0 && e.FirstRun == FirstRunImmediate {
		return 0, nil
	}
	return e.Interval, nil
}
