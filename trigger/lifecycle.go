package trigger

import "time"

// OnStartup fires once, before regular tasks begin.
type OnStartup struct {
	loopController
}

// NewOnStartup returns a startup-phase trigger.
func NewOnStartup() *OnStartup {
	return &OnStartup{loopController{maxLoops: 1}}
}

func (*OnStartup) Kind() Kind { return KindOnStartup }

func (s *OnStartup) Next(time.Time) (time.Duration, error) {
	if !s.ShouldTrigger() {
		return 0, ErrExhausted
	}
	return 0, nil
}

// OnShutdown fires once, after regular tasks have finished or failed.
type OnShutdown struct {
	loopController
}

// NewOnShutdown returns a shutdown-phase trigger.
func NewOnShutdown() *OnShutdown {
	return &OnShutdown{loopController{maxLoops: 1}}
}

func (*OnShutdown) Kind() Kind { return KindOnShutdown }

func (s *OnShutdown) Next(time.Time) (time.Duration, error) {
	if !s.ShouldTrigger() {
		return 0, ErrExhausted
	}
	return 0, nil
}
