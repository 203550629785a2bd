package chime

import (
	"github.com/chime-sh/chime/trigger"
)

// Group is a registration unit for related tasks, similar to a router in web
// frameworks. Build groups anywhere in your codebase and include them into
// the App before serving.
type Group struct {
	tasks []*Task
}

// NewGroup returns an empty task group.
func NewGroup() *Group {
	return &Group{}
}

// Task registers a function under the group.
func (g *Group) Task(name string, trig trigger.Trigger, fn TaskFunc) (*Task, error) {
	t, err := newTask(name, trig, fn)
	if err != nil {
		return nil, err
	}
	g.tasks = append(g.tasks, t)
	return t, nil
}

// Tasks returns the group's registered tasks in registration order.
func (g *Group) Tasks() []*Task {
	return g.tasks
}
