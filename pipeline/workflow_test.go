package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// referenceWorkflow mirrors the classic "test on every push and PR" setup.
const referenceWorkflow = `
name: CI
on:
  push:
  pull_request:
    types: [opened, synchronize, reopened]
jobs:
  tox:
    runs-on: ubuntu-latest
    strategy:
      fail-fast: false
      matrix:
        python-version: ["3.10"]
    steps:
      - uses: actions/checkout@v4
      - uses: actions/setup-python@v5
        with:
          python-version: ${{ matrix.python-version }}
      - uses: eifinger/setup-rye@v2
      - run: rye pin ${{ matrix.python-version }}
      - run: make install
      - run: make test
`

func TestParse_ReferenceWorkflow(t *testing.T) {
	wf, err := Parse([]byte(referenceWorkflow))
	require.NoError(t, err)

	assert.Equal(t, "CI", wf.Name)

	// push with no filter subscribes any branch
	require.NotNil(t, wf.On.Push)
	assert.Empty(t, wf.On.Push.Branches)

	require.NotNil(t, wf.On.PullRequest)
	assert.Equal(t, []string{"opened", "synchronize", "reopened"}, wf.On.PullRequest.Types)

	require.Len(t, wf.Jobs, 1)
	job := wf.Jobs["tox"]
	assert.Equal(t, "ubuntu-latest", job.RunsOn)
	require.NotNil(t, job.Strategy.FailFast)
	assert.False(t, *job.Strategy.FailFast)
	assert.Equal(t, MatrixValues{"3.10"}, job.Strategy.Matrix["python-version"])
	assert.Len(t, job.Steps, 6)
	assert.Equal(t, "actions/checkout@v4", job.Steps[0].Uses)
	assert.Equal(t, "make test", job.Steps[5].Run)
}

func TestParse_SequenceTriggerForm(t *testing.T) {
	wf, err := Parse([]byte(`
on: [push, pull_request]
jobs:
  build:
    runs-on: ubuntu-latest
    steps:
      - run: make build
`))
	require.NoError(t, err)
	assert.NotNil(t, wf.On.Push)
	assert.NotNil(t, wf.On.PullRequest)
}

func TestParse_UnquotedMatrixScalars(t *testing.T) {
	wf, err := Parse([]byte(`
on:
  push:
jobs:
  build:
    runs-on: ubuntu-latest
    strategy:
      matrix:
        go: [1.22, 1.23]
    steps:
      - run: go test ./...
`))
	require.NoError(t, err)
	assert.Equal(t, MatrixValues{"1.22", "1.23"}, wf.Jobs["build"].Strategy.Matrix["go"])
}

func TestParse_JobOrderPreserved(t *testing.T) {
	wf, err := Parse([]byte(`
on:
  push:
jobs:
  zeta:
    runs-on: ubuntu-latest
    steps: [{run: "true"}]
  alpha:
    runs-on: ubuntu-latest
    steps: [{run: "true"}]
  mid:
    runs-on: ubuntu-latest
    steps: [{run: "true"}]
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, wf.JobNames())
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "no triggers",
			doc: `
jobs:
  a:
    runs-on: x
    steps: [{run: "true"}]
`,
			want: "no triggers",
		},
		{
			name: "unknown trigger",
			doc: `
on:
  schedule:
jobs:
  a:
    runs-on: x
    steps: [{run: "true"}]
`,
			want: "unsupported trigger",
		},
		{
			name: "no jobs",
			doc:  "on: push\njobs: {}\n",
			want: "no jobs",
		},
		{
			name: "missing runs-on",
			doc: `
on: push
jobs:
  a:
    steps: [{run: "true"}]
`,
			want: "runs-on is required",
		},
		{
			name: "no steps",
			doc: `
on: push
jobs:
  a:
    runs-on: x
    steps: []
`,
			want: "at least one step",
		},
		{
			name: "step with neither uses nor run",
			doc: `
on: push
jobs:
  a:
    runs-on: x
    steps: [{name: empty}]
`,
			want: "one of uses or run",
		},
		{
			name: "step with both uses and run",
			doc: `
on: push
jobs:
  a:
    runs-on: x
    steps: [{uses: some/action@v1, run: "true"}]
`,
			want: "mutually exclusive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestStep_Label(t *testing.T) {
	assert.Equal(t, "named", Step{Name: "named", Run: "x"}.Label())
	assert.Equal(t, "a/b@v1", Step{Uses: "a/b@v1"}.Label())
	assert.Equal(t, "make test", Step{Run: "make test"}.Label())
}
