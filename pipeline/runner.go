package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// ErrUnknownAction is returned when a `uses:` step references an action with
// no registered handler. Action internals are opaque; hosts supply them.
var ErrUnknownAction = errors.New("unknown action")

// ActionFunc executes a named external action (`uses:` step).
type ActionFunc func(ctx context.Context, with map[string]string) error

// Executor runs the two step shapes. Implementations decide what a shell
// command or an action reference actually does.
type Executor interface {
	ExecRun(ctx context.Context, command string, env map[string]string) error
	ExecUses(ctx context.Context, ref string, with map[string]string) error
}

// ShellExecutor runs `run:` steps through the system shell and resolves
// `uses:` steps against a registry of host-provided actions.
type ShellExecutor struct {
	// Dir is the working directory for shell steps. Empty means inherit.
	Dir string

	// Stdout and Stderr receive step output. Nil defaults to the process
	// streams.
	Stdout io.Writer
	Stderr io.Writer

	mu      sync.RWMutex
	actions map[string]ActionFunc
}

// NewShellExecutor returns an executor with an empty action registry.
func NewShellExecutor() *ShellExecutor {
	return &ShellExecutor{actions: make(map[string]ActionFunc)}
}

// Register binds a handler to an action reference ("actions/checkout@v4").
func (e *ShellExecutor) Register(ref string, fn ActionFunc) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.actions[ref] = fn
}

func (e *ShellExecutor) ExecRun(ctx context.Context, command string, env map[string]string) error {
	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Dir = e.Dir
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	cmd.Env = os.Environ()
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		cmd.Env = append(cmd.Env, k+"="+env[k])
	}

	return cmd.Run()
}

func (e *ShellExecutor) ExecUses(ctx context.Context, ref string, with map[string]string) error {
	e.mu.RLock()
	fn, ok := e.actions[ref]
	e.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAction, ref)
	}
	return fn(ctx, with)
}

// StepResult is the binary outcome of one step.
type StepResult struct {
	Name     string
	Duration time.Duration
	Err      error
}

// InstanceResult is the outcome of one job instance. Steps holds results for
// the steps that actually ran; a failure at step N means steps after N never
// appear.
type InstanceResult struct {
	Job    string
	Matrix map[string]string
	Steps  []StepResult
	Err    error
}

// Label renders the instance name the way hosting UIs display it, e.g.
// "tox (3.10)".
func (i InstanceResult) Label() string {
	if len(i.Matrix) == 0 {
		return i.Job
	}
	keys := make([]string, 0, len(i.Matrix))
	for k := range i.Matrix {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	values := make([]string, len(keys))
	for n, k := range keys {
		values[n] = i.Matrix[k]
	}
	return i.Job + " (" + strings.Join(values, ", ") + ")"
}

// Result is the outcome of dispatching one event against a workflow.
type Result struct {
	Workflow  string
	Triggered bool
	Instances []InstanceResult
}

// Err returns the first instance failure, or nil.
func (r *Result) Err() error {
	for _, inst := range r.Instances {
		if inst.Err != nil {
			return inst.Err
		}
	}
	return nil
}

// Runner executes workflows against events.
type Runner struct {
	executor Executor
	logger   *slog.Logger

	// onStepFinish observes completed steps (metrics, progress output).
	onStepFinish func(job, step string, err error, d time.Duration)
}

// RunnerOption configures the Runner.
type RunnerOption func(*Runner)

// WithExecutor overrides the default shell executor.
func WithExecutor(e Executor) RunnerOption {
	return func(r *Runner) {
		r.executor = e
	}
}

// WithLogger sets a structured logger for step progress.
func WithLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithStepObserver registers a callback invoked after every executed step.
func WithStepObserver(fn func(job, step string, err error, d time.Duration)) RunnerOption {
	return func(r *Runner) {
		r.onStepFinish = fn
	}
}

// NewRunner creates a workflow runner.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{}
	for _, opt := range opts {
		opt(r)
	}
	if r.executor == nil {
		r.executor = NewShellExecutor()
	}
	if r.logger == nil {
		r.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return r
}

// Run dispatches one event against the workflow. A non-matching event
// yields a Result with Triggered false and no instances. Matching jobs run
// in declaration order; matrix instances of a job run concurrently, and a
// failing instance cancels its siblings only when fail-fast is enabled.
//
// The returned error covers infrastructure problems only; step failures are
// reported through the Result.
func (r *Runner) Run(ctx context.Context, wf *Workflow, ev Event) (*Result, error) {
	res := &Result{Workflow: wf.Name}
	if !wf.Matches(ev) {
		r.logger.Debug("event does not trigger workflow",
			"workflow", wf.Name, "event", ev.Kind, "branch", ev.Branch)
		return res, nil
	}
	res.Triggered = true

	for _, name := range wf.JobNames() {
		job := wf.Jobs[name]
		instances := job.Expand(name)
		results, err := r.runInstances(ctx, job, instances)
		if err != nil {
			return nil, err
		}
		res.Instances = append(res.Instances, results...)
	}
	return res, nil
}

func (r *Runner) runInstances(ctx context.Context, job Job, instances []JobInstance) ([]InstanceResult, error) {
	results := make([]InstanceResult, len(instances))

	if job.Strategy.failFast() {
		// fail-fast: the first failing instance cancels its siblings.
		g, gctx := errgroup.WithContext(ctx)
		for i, inst := range instances {
			i, inst := i, inst
			g.Go(func() error {
				results[i] = r.runInstance(gctx, inst)
				return results[i].Err
			})
		}
		if err := g.Wait(); err != nil && ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return results, nil
	}

	// fail-fast disabled: instances run to completion independently.
	var wg sync.WaitGroup
	for i, inst := range instances {
		i, inst := i, inst
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = r.runInstance(ctx, inst)
		}()
	}
	wg.Wait()
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	return results, nil
}

// runInstance executes the instance's steps strictly in declared order.
// A step failure fails the instance and prevents every later step.
func (r *Runner) runInstance(ctx context.Context, inst JobInstance) InstanceResult {
	res := InstanceResult{Job: inst.Job, Matrix: inst.Matrix}
	log := r.logger.With("job", inst.Job)
	if len(inst.Matrix) > 0 {
		log = log.With("matrix", inst.Matrix)
	}

	for _, step := range inst.Steps {
		if ctx.Err() != nil {
			res.Err = ctx.Err()
			return res
		}

		label := step.Label()
		log.Info("step started", "step", label)
		start := time.Now()

		var err error
		if step.Uses != "" {
			err = r.executor.ExecUses(ctx, step.Uses, step.With)
		} else {
			err = r.executor.ExecRun(ctx, step.Run, step.Env)
		}
		elapsed := time.Since(start)

		res.Steps = append(res.Steps, StepResult{Name: label, Duration: elapsed, Err: err})
		if r.onStepFinish != nil {
			r.onStepFinish(inst.Job, label, err, elapsed)
		}

		if err != nil {
			log.Error("step failed", "step", label, "err", err, "duration", elapsed)
			res.Err = fmt.Errorf("step %q: %w", label, err)
			return res
		}
		log.Info("step finished", "step", label, "duration", elapsed)
	}
	return res
}
