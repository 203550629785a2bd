// Package trigger defines when scheduled tasks fire.
//
// A Trigger is a small state machine owned by a single task loop: the
// scheduler asks it how long to wait, sleeps, marks it fired, runs the task,
// and repeats until the trigger reports exhaustion.
package trigger

import (
	"errors"
	"time"
)

// Kind identifies a trigger type in metadata and logs.
type Kind string

const (
	KindForever    Kind = "forever"
	KindOnce       Kind = "once"
	KindEvery      Kind = "every"
	KindAt         Kind = "at"
	KindCron       Kind = "cron"
	KindOnStartup  Kind = "on_startup"
	KindOnShutdown Kind = "on_shutdown"
)

// ErrExhausted is returned by Next when the trigger will never fire again.
var ErrExhausted = errors.New("trigger exhausted")

// Trigger decides when the event should fire. Implementations are not safe
// for concurrent use; each task owns its trigger instance.
type Trigger interface {
	// Kind identifies the trigger type.
	Kind() Kind

	// ShouldTrigger reports whether the trigger may still fire.
	ShouldTrigger() bool

	// Next returns how long to wait from now until the next fire.
	// It returns ErrExhausted once the trigger is spent.
	Next(now time.Time) (time.Duration, error)

	// Fired records that the event fired. Called by the scheduler after
	// each wait completes.
	Fired()
}

// loopController caps how many times a trigger fires. A zero MaxLoops means
// unbounded.
type loopController struct {
	maxLoops int
	fired    int
}

func (l *loopController) ShouldTrigger() bool {
	return l.maxLoops == 0 || l.fired < l.maxLoops
}

func (l *loopController) Fired() {
	l.fired++
}

// Forever fires immediately, every time it is asked. Tasks on a Forever
// trigger run back to back for as long as the app is serving.
type Forever struct{}

func (Forever) Kind() Kind          { return KindForever }
func (Forever) ShouldTrigger() bool { return true }
func (Forever) Fired()              {}

func (Forever) Next(time.Time) (time.Duration, error) { return 0, nil }

// Once fires immediately, exactly one time.
type Once struct {
	loopController
}

// NewOnce returns a trigger that fires a single time.
func NewOnce() *Once {
	return &Once{loopController{maxLoops: 1}}
}

func (*Once) Kind() Kind { return KindOnce }

func (o *Once) Next(time.Time) (time.Duration, error) {
	if !o.ShouldTrigger() {
		return 0, ErrExhausted
	}
	return 0, nil
}
