package pipeline

import (
	"regexp"
	"sort"
)

// JobInstance is one materialized expansion of a job: its matrix selection
// plus steps with `${{ matrix.* }}` expressions resolved.
type JobInstance struct {
	Job    string
	RunsOn string
	Matrix map[string]string
	Steps  []Step
}

var matrixExpr = regexp.MustCompile(`\$\{\{\s*matrix\.([A-Za-z0-9_-]+)\s*\}\}`)

// Expand produces the job's instances: the cartesian product of the matrix
// axes, one instance per combination. A job without a matrix yields a single
// instance. Axes combine in sorted key order so expansion is deterministic.
func (j Job) Expand(name string) []JobInstance {
	if len(j.Strategy.Matrix) == 0 {
		return []JobInstance{{
			Job:    name,
			RunsOn: j.RunsOn,
			Matrix: map[string]string{},
			Steps:  j.Steps,
		}}
	}

	keys := make([]string, 0, len(j.Strategy.Matrix))
	for k := range j.Strategy.Matrix {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	selections := []map[string]string{{}}
	for _, key := range keys {
		var next []map[string]string
		for _, base := range selections {
			for _, val := range j.Strategy.Matrix[key] {
				sel := make(map[string]string, len(base)+1)
				for k, v := range base {
					sel[k] = v
				}
				sel[key] = val
				next = append(next, sel)
			}
		}
		selections = next
	}

	instances := make([]JobInstance, 0, len(selections))
	for _, sel := range selections {
		instances = append(instances, JobInstance{
			Job:    name,
			RunsOn: j.RunsOn,
			Matrix: sel,
			Steps:  resolveSteps(j.Steps, sel),
		})
	}
	return instances
}

func resolveSteps(steps []Step, matrix map[string]string) []Step {
	out := make([]Step, len(steps))
	for i, step := range steps {
		out[i] = Step{
			Name: interpolate(step.Name, matrix),
			Uses: interpolate(step.Uses, matrix),
			Run:  interpolate(step.Run, matrix),
			With: interpolateMap(step.With, matrix),
			Env:  interpolateMap(step.Env, matrix),
		}
	}
	return out
}

// interpolate substitutes `${{ matrix.<key> }}` expressions. Unknown keys
// are left verbatim so the failure is visible in the executed command.
func interpolate(s string, matrix map[string]string) string {
	if s == "" {
		return s
	}
	return matrixExpr.ReplaceAllStringFunc(s, func(m string) string {
		key := matrixExpr.FindStringSubmatch(m)[1]
		if val, ok := matrix[key]; ok {
			return val
		}
		return m
	})
}

func interpolateMap(in map[string]string, matrix map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = interpolate(v, matrix)
	}
	return out
}
