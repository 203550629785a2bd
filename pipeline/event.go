package pipeline

import (
	"fmt"
	"path"

	"gopkg.in/yaml.v3"
)

// EventKind is the category of a repository event.
type EventKind string

const (
	EventPush        EventKind = "push"
	EventPullRequest EventKind = "pull_request"
)

// defaultPullRequestTypes matches the hosted-CI default when a pull_request
// trigger declares no explicit types.
var defaultPullRequestTypes = []string{"opened", "synchronize", "reopened"}

// Event is a repository event a workflow may react to.
type Event struct {
	Kind EventKind

	// Branch is the pushed branch, or the pull request's base branch.
	Branch string

	// Action qualifies pull_request events (opened, synchronize, ...).
	Action string
}

// Triggers declares which events run the workflow. A nil filter means the
// event kind is not subscribed at all; a present-but-empty filter subscribes
// with default matching.
type Triggers struct {
	Push        *PushFilter
	PullRequest *PullRequestFilter
}

// PushFilter narrows push events. An empty Branches list matches any branch.
type PushFilter struct {
	Branches []string `yaml:"branches"`
}

// PullRequestFilter narrows pull_request events. An empty Types list uses
// the default action set; an empty Branches list matches any base branch.
type PullRequestFilter struct {
	Types    []string `yaml:"types"`
	Branches []string `yaml:"branches"`
}

// UnmarshalYAML accepts both trigger shapes:
//
//	on: [push, pull_request]
//
// and the mapping form with per-event filters. A key that is present with a
// null value subscribes the event with defaults.
func (t *Triggers) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		return t.subscribe(node.Value, nil)

	case yaml.SequenceNode:
		for _, item := range node.Content {
			if err := t.subscribe(item.Value, nil); err != nil {
				return err
			}
		}
		return nil

	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			if err := t.subscribe(node.Content[i].Value, node.Content[i+1]); err != nil {
				return err
			}
		}
		return nil

	default:
		return fmt.Errorf("invalid trigger declaration (line %d)", node.Line)
	}
}

func (t *Triggers) subscribe(kind string, filter *yaml.Node) error {
	switch EventKind(kind) {
	case EventPush:
		t.Push = &PushFilter{}
		if filter != nil && filter.Kind == yaml.MappingNode {
			return filter.Decode(t.Push)
		}
		return nil

	case EventPullRequest:
		t.PullRequest = &PullRequestFilter{}
		if filter != nil && filter.Kind == yaml.MappingNode {
			return filter.Decode(t.PullRequest)
		}
		return nil

	default:
		return fmt.Errorf("unsupported trigger %q", kind)
	}
}

func (t Triggers) any() bool {
	return t.Push != nil || t.PullRequest != nil
}

// Matches reports whether the event triggers this workflow: push events on
// any branch the filter allows, pull_request events whose action is in the
// declared (or default) type set.
func (w *Workflow) Matches(ev Event) bool {
	switch ev.Kind {
	case EventPush:
		if w.On.Push == nil {
			return false
		}
		return matchBranch(w.On.Push.Branches, ev.Branch)

	case EventPullRequest:
		if w.On.PullRequest == nil {
			return false
		}
		types := w.On.PullRequest.Types
		if len(types) == 0 {
			types = defaultPullRequestTypes
		}
		if !contains(types, ev.Action) {
			return false
		}
		return matchBranch(w.On.PullRequest.Branches, ev.Branch)

	default:
		return false
	}
}

// matchBranch applies glob patterns; an empty pattern list matches anything.
func matchBranch(patterns []string, branch string) bool {
	if len(patterns) == 0 {
		return true
	}
	for _, p := range patterns {
		if ok, err := path.Match(p, branch); err == nil && ok {
			return true
		}
	}
	return false
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
