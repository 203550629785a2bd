// Package pipeline loads and runs declarative CI-style workflow definitions.
//
// A workflow is a YAML document in the familiar hosted-CI shape: event
// triggers, jobs keyed by name, a matrix strategy, and an ordered list of
// steps. The package owns the declaration and its semantics (trigger
// matching, matrix expansion, strict step ordering); the steps themselves
// call out to opaque collaborators through the Executor interface.
package pipeline

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Workflow is a parsed workflow definition.
type Workflow struct {
	Name string         `yaml:"name"`
	On   Triggers       `yaml:"on"`
	Jobs map[string]Job `yaml:"jobs"`

	jobOrder []string
}

// Job is a unit of work scheduled on one runner.
type Job struct {
	RunsOn   string   `yaml:"runs-on"`
	Strategy Strategy `yaml:"strategy"`
	Steps    []Step   `yaml:"steps"`
}

// Strategy controls matrix expansion for a job.
type Strategy struct {
	// FailFast cancels sibling matrix instances when one fails.
	// Defaults to true, matching hosted-CI behavior.
	FailFast *bool `yaml:"fail-fast"`

	// Matrix expands the job into one instance per value combination.
	Matrix map[string]MatrixValues `yaml:"matrix"`
}

// failFast resolves the default.
func (s Strategy) failFast() bool {
	return s.FailFast == nil || *s.FailFast
}

// MatrixValues is a list of matrix axis values. Scalars of any YAML type are
// accepted and carried as strings, so `3.10` and `"3.10"` behave the same.
type MatrixValues []string

func (v *MatrixValues) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		return fmt.Errorf("matrix values must be a sequence (line %d)", node.Line)
	}
	out := make([]string, 0, len(node.Content))
	for _, item := range node.Content {
		if item.Kind != yaml.ScalarNode {
			return fmt.Errorf("matrix values must be scalars (line %d)", item.Line)
		}
		out = append(out, item.Value)
	}
	*v = out
	return nil
}

// Step is a single sequential unit inside a job. Exactly one of Uses or Run
// must be set: Uses names an opaque external action, Run is a shell command.
type Step struct {
	Name string            `yaml:"name"`
	Uses string            `yaml:"uses"`
	Run  string            `yaml:"run"`
	With map[string]string `yaml:"with"`
	Env  map[string]string `yaml:"env"`
}

// Label returns the step's display name, falling back to its command.
func (s Step) Label() string {
	if s.Name != "" {
		return s.Name
	}
	if s.Uses != "" {
		return s.Uses
	}
	return s.Run
}

func (w *Workflow) UnmarshalYAML(node *yaml.Node) error {
	type plain Workflow
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*w = Workflow(p)

	// yaml.v3 maps lose declaration order; recover it from the node tree so
	// jobs run in the order they were written.
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value != "jobs" {
			continue
		}
		jobs := node.Content[i+1]
		for j := 0; j < len(jobs.Content); j += 2 {
			w.jobOrder = append(w.jobOrder, jobs.Content[j].Value)
		}
	}
	return nil
}

// JobNames returns job names in declaration order.
func (w *Workflow) JobNames() []string {
	return w.jobOrder
}

// Load reads and parses a workflow file.
func Load(path string) (*Workflow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read workflow: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a workflow document.
func Parse(data []byte) (*Workflow, error) {
	var wf Workflow
	if err := yaml.Unmarshal(data, &wf); err != nil {
		return nil, fmt.Errorf("failed to parse workflow: %w", err)
	}
	if err := wf.Validate(); err != nil {
		return nil, err
	}
	return &wf, nil
}

// Validate checks the structural invariants of the declaration.
func (w *Workflow) Validate() error {
	if !w.On.any() {
		return fmt.Errorf("workflow has no triggers")
	}
	if len(w.Jobs) == 0 {
		return fmt.Errorf("workflow has no jobs")
	}
	names := w.jobOrder
	if len(names) == 0 {
		// built programmatically rather than parsed
		for name := range w.Jobs {
			names = append(names, name)
		}
	}
	for _, name := range names {
		job := w.Jobs[name]
		if job.RunsOn == "" {
			return fmt.Errorf("job %q: runs-on is required", name)
		}
		if len(job.Steps) == 0 {
			return fmt.Errorf("job %q: at least one step is required", name)
		}
		for i, step := range job.Steps {
			switch {
			case step.Uses == "" && step.Run == "":
				return fmt.Errorf("job %q step %d: one of uses or run is required", name, i+1)
			case step.Uses != "" && step.Run != "":
				return fmt.Errorf("job %q step %d: uses and run are mutually exclusive", name, i+1)
			}
		}
	}
	return nil
}
