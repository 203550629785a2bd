package chime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/chime-sh/chime/pkg/ports"
	"github.com/chime-sh/chime/trigger"
)

// Version is the library version, overridable at build time.
var Version = "0.1.0"

// App is the high-level entry point for the chime scheduler. It owns the
// registered tasks and groups and runs them through their lifecycle phases.
type App struct {
	logger *slog.Logger
	hooks  RunHooks
	store  ports.RunStore

	groups []*Group
	tasks  []*Task
}

// Option defines a functional option for configuring the App.
type Option func(*App)

// WithLogger sets a custom structured logger for the scheduler.
func WithLogger(logger *slog.Logger) Option {
	return func(a *App) {
		a.logger = logger
	}
}

// WithHooks registers observability hooks.
func WithHooks(hooks RunHooks) Option {
	return func(a *App) {
		a.hooks = hooks
	}
}

// WithStore sets the run-history store. Without one, runs are not recorded.
func WithStore(store ports.RunStore) Option {
	return func(a *App) {
		a.store = store
	}
}

// New initializes a new scheduler App.
func New(opts ...Option) *App {
	app := &App{}
	for _, opt := range opts {
		opt(app)
	}
	if app.logger == nil {
		app.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return app
}

// Task registers a function directly on the App.
func (a *App) Task(name string, trig trigger.Trigger, fn TaskFunc) (*Task, error) {
	t, err := newTask(name, trig, fn)
	if err != nil {
		return nil, err
	}
	a.tasks = append(a.tasks, t)
	return t, nil
}

// Include adds a group of tasks to the App.
func (a *App) Include(g *Group) {
	a.groups = append(a.groups, g)
}

// Tasks returns every registered task: app-level first, then group tasks in
// inclusion order.
func (a *App) Tasks() []*Task {
	all := make([]*Task, 0, len(a.tasks))
	all = append(all, a.tasks...)
	for _, g := range a.groups {
		all = append(all, g.tasks...)
	}
	return all
}

// Serve runs the scheduler until the context is cancelled or every trigger
// is exhausted. Startup tasks run first, then regular tasks concurrently.
// Shutdown tasks always run on the way out, even after a failure.
func (a *App) Serve(ctx context.Context) error {
	var startup, regular, shutdown []*Task
	for _, t := range a.Tasks() {
		switch t.Trigger.Kind() {
		case trigger.KindOnStartup:
			startup = append(startup, t)
		case trigger.KindOnShutdown:
			shutdown = append(shutdown, t)
		default:
			regular = append(regular, t)
		}
	}

	a.logger.Info("chime serving",
		"startup", len(startup),
		"tasks", len(regular),
		"shutdown", len(shutdown),
	)

	// Shutdown tasks must run even when the main phase ended because the
	// context was cancelled.
	defer func() {
		if err := a.runPhase(context.WithoutCancel(ctx), shutdown); err != nil {
			a.logger.Error("shutdown phase failed", "err", err)
		}
	}()

	if err := a.runPhase(ctx, startup); err != nil {
		return err
	}
	return a.runPhase(ctx, regular)
}

// runPhase runs a set of task loops concurrently and waits for all of them.
func (a *App) runPhase(ctx context.Context, tasks []*Task) error {
	if len(tasks) == 0 {
		return nil
	}
	g, ctx := errgroup.WithContext(ctx)
	for _, t := range tasks {
		t := t
		g.Go(func() error {
			return a.runLoop(ctx, t)
		})
	}
	return g.Wait()
}

// runLoop drives a single task: wait per trigger, fire, run, repeat.
// Task function errors are recorded and logged but do not stop the loop;
// trigger errors do.
func (a *App) runLoop(ctx context.Context, t *Task) error {
	for t.Trigger.ShouldTrigger() {
		wait, err := t.Trigger.Next(time.Now())
		if errors.Is(err, trigger.ErrExhausted) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("task %q: %w", t.Name, err)
		}

		if wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil
			case <-timer.C:
			}
		} else if ctx.Err() != nil {
			return nil
		}

		t.Trigger.Fired()
		_ = a.RunTask(ctx, t)
	}
	return nil
}

// RunTask executes a task once, right now, with hooks and run recording.
// It is used by the task loops and by the introspection API for manual runs.
func (a *App) RunTask(ctx context.Context, t *Task) error {
	start := time.Now()
	if a.hooks.OnTaskStart != nil {
		a.hooks.OnTaskStart(ctx, TaskEvent{
			ID:      t.ID,
			Task:    t.Name,
			Trigger: t.Trigger.Kind(),
			Start:   start,
		})
	}

	err := a.safeRun(ctx, t)

	rec := ports.RunRecord{
		TaskID:   t.ID,
		Task:     t.Name,
		Status:   ports.RunOK,
		Start:    start,
		Duration: time.Since(start),
	}
	if err != nil {
		rec.Status = ports.RunFailed
		rec.Error = err.Error()
		a.logger.Error("task failed", "task", t.Name, "err", err)
	} else {
		a.logger.Debug("task finished", "task", t.Name, "duration", rec.Duration)
	}

	if a.hooks.OnTaskFinish != nil {
		a.hooks.OnTaskFinish(ctx, rec)
	}
	if a.store != nil {
		if rerr := a.store.Record(ctx, rec); rerr != nil {
			a.logger.Warn("run record not persisted", "task", t.Name, "err", rerr)
		}
	}
	return err
}

// safeRun invokes the task function, converting panics into errors so a
// single bad task cannot take down the scheduler.
func (a *App) safeRun(ctx context.Context, t *Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task %q panicked: %v", t.Name, r)
		}
	}()
	return t.fn(ctx)
}
