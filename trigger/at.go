package trigger

import (
	"fmt"
	"time"
)

// Schedule names the day pattern an At trigger fires on.
type Schedule string

const (
	EveryDay       Schedule = "every day"
	EveryMonday    Schedule = "every monday"
	EveryTuesday   Schedule = "every tuesday"
	EveryWednesday Schedule = "every wednesday"
	EveryThursday  Schedule = "every thursday"
	EveryFriday    Schedule = "every friday"
	EverySaturday  Schedule = "every saturday"
	EverySunday    Schedule = "every sunday"
)

var scheduleWeekdays = map[Schedule]time.Weekday{
	EveryMonday:    time.Monday,
	EveryTuesday:   time.Tuesday,
	EveryWednesday: time.Wednesday,
	EveryThursday:  time.Thursday,
	EveryFriday:    time.Friday,
	EverySaturday:  time.Saturday,
	EverySunday:    time.Sunday,
}

// At fires at a specific wall-clock time, either daily or on one weekday.
type At struct {
	loopController

	// On selects the day pattern. Defaults to EveryDay.
	On Schedule

	Hour   int
	Minute int
	Second int

	// Location resolves the wall-clock time. Defaults to time.Local.
	Location *time.Location
}

// NewAt returns a daily wall-clock trigger.
func NewAt(hour, minute, second int, loc *time.Location) *At {
	return &At{On: EveryDay, Hour: hour, Minute: minute, Second: second, Location: loc}
}

func (*At) Kind() Kind { return KindAt }

// Validate checks the schedule name and time fields.
func (a *At) Validate() error {
	if a.On != "" && a.On != EveryDay {
		if _, ok := scheduleWeekdays[a.On]; !ok {
			return fmt.Errorf("at: unknown schedule %q", a.On)
		}
	}
	if a.Hour < 0 || a.Hour > 23 {
		return fmt.Errorf("at: hour out of range: %d", a.Hour)
	}
	if a.Minute < 0 || a.Minute > 59 {
		return fmt.Errorf("at: minute out of range: %d", a.Minute)
	}
	if a.Second < 0 || a.Second > 59 {
		return fmt.Errorf("at: second out of range: %d", a.Second)
	}
	return nil
}

func (a *At) location() *time.Location {
	if a.Location != nil {
		return a.Location
	}
	return time.Local
}

// nextAfter returns the next occurrence of the configured wall time at or
// after now. If the target time today has not passed yet, today counts.
func (a *At) nextAfter(now time.Time) time.Time {
	now = now.In(a.location())
	target := time.Date(now.Year(), now.Month(), now.Day(), a.Hour, a.Minute, a.Second, 0, a.location())

	if a.On == "" || a.On == EveryDay {
		if target.Before(now) {
			target = target.AddDate(0, 0, 1)
		}
		return target
	}

	daysAhead := int(scheduleWeekdays[a.On] - now.Weekday())
	if daysAhead < 0 || (daysAhead == 0 && target.Before(now)) {
		daysAhead += 7
	}
	return target.AddDate(0, 0, daysAhead)
}

func (a *At) Next(now time.Time) (time.Duration, error) {
	if !a.ShouldTrigger() {
		return 0, ErrExhausted
	}
	return a.nextAfter(now).Sub(now), nil
}
