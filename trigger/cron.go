package trigger

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// Cron fires on a standard five-field cron expression.
type Cron struct {
	loopController

	// Expr is a standard cron expression ("0 12 * * *").
	Expr string

	// Location resolves the schedule. Defaults to time.Local.
	Location *time.Location

	schedule cron.Schedule
}

// NewCron parses expr and returns the trigger. The expression is validated
// eagerly so a bad schedule fails at registration, not at serve time.
func NewCron(expr string, loc *time.Location) (*Cron, error) {
	c := &Cron{Expr: expr, Location: loc}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (*Cron) Kind() Kind { return KindCron }

// Validate parses the cron expression.
func (c *Cron) Validate() error {
	sched, err := cron.ParseStandard(c.Expr)
	if err != nil {
		return fmt.Errorf("cron: invalid expression %q: %w", c.Expr, err)
	}
	c.schedule = sched
	return nil
}

func (c *Cron) location() *time.Location {
	if c.Location != nil {
		return c.Location
	}
	return time.Local
}

func (c *Cron) Next(now time.Time) (time.Duration, error) {
	if !c.ShouldTrigger() {
		return 0, ErrExhausted
	}
	if c.schedule == nil {
		if err := c.Validate(); err != nil {
			return 0, err
		}
	}
	return c.schedule.Next(now.In(c.location())).Sub(now), nil
}
