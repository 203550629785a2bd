package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatches_PushAnyBranch(t *testing.T) {
	wf, err := Parse([]byte(referenceWorkflow))
	require.NoError(t, err)

	assert.True(t, wf.Matches(Event{Kind: EventPush, Branch: "main"}))
	assert.True(t, wf.Matches(Event{Kind: EventPush, Branch: "feature/x"}))
}

func TestMatches_PushBranchFilter(t *testing.T) {
	wf, err := Parse([]byte(`
on:
  push:
    branches: [main, "release/*"]
jobs:
  a:
    runs-on: x
    steps: [{run: "true"}]
`))
	require.NoError(t, err)

	assert.True(t, wf.Matches(Event{Kind: EventPush, Branch: "main"}))
	assert.True(t, wf.Matches(Event{Kind: EventPush, Branch: "release/1.2"}))
	assert.False(t, wf.Matches(Event{Kind: EventPush, Branch: "develop"}))
}

func TestMatches_PullRequestActions(t *testing.T) {
	wf, err := Parse([]byte(referenceWorkflow))
	require.NoError(t, err)

	for _, action := range []string{"opened", "synchronize", "reopened"} {
		assert.True(t, wf.Matches(Event{Kind: EventPullRequest, Branch: "main", Action: action}), action)
	}
	for _, action := range []string{"closed", "labeled", "assigned", ""} {
		assert.False(t, wf.Matches(Event{Kind: EventPullRequest, Branch: "main", Action: action}), action)
	}
}

func TestMatches_PullRequestDefaultTypes(t *testing.T) {
	wf, err := Parse([]byte(`
on:
  pull_request:
jobs:
  a:
    runs-on: x
    steps: [{run: "true"}]
`))
	require.NoError(t, err)

	assert.True(t, wf.Matches(Event{Kind: EventPullRequest, Action: "opened"}))
	assert.True(t, wf.Matches(Event{Kind: EventPullRequest, Action: "synchronize"}))
	assert.False(t, wf.Matches(Event{Kind: EventPullRequest, Action: "closed"}))
	// push is not subscribed at all
	assert.False(t, wf.Matches(Event{Kind: EventPush, Branch: "main"}))
}

func TestMatches_UnknownKind(t *testing.T) {
	wf, err := Parse([]byte(referenceWorkflow))
	require.NoError(t, err)
	assert.False(t, wf.Matches(Event{Kind: "release"}))
}
