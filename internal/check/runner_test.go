package check

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gati-ai/gati/internal/trace"
)

func fixtureStore(t *testing.T) *trace.Store {
	t.Helper()
	dir := t.TempDir()
	runDir := filepath.Join(dir, "run-1")
	require.NoError(t, os.MkdirAll(runDir, 0o755))

	events := `{"event_id": "s0", "event_type": "agent_start", "timestamp": "2026-03-14T09:30:00Z", "data": {"agent_name": "researcher"}}
{"event_id": "n1", "event_type": "node_execution", "timestamp": "2026-03-14T09:30:01Z", "parent_event_id": "s0", "previous_event_id": "s0", "data": {"node_name": "analyze"}}
{"event_id": "t1", "event_type": "tool_call", "timestamp": "2026-03-14T09:30:01.5Z", "parent_event_id": "n1", "data": {"tool_name": "search"}}
{"event_id": "l1", "event_type": "llm_call", "timestamp": "2026-03-14T09:30:02Z", "parent_event_id": "n1", "data": {"model": "gpt-4o"}}
{"event_id": "n2", "event_type": "node_execution", "timestamp": "2026-03-14T09:30:03Z", "parent_event_id": "s0", "previous_event_id": "n1", "data": {"node_name": "process"}}
{"event_id": "e0", "event_type": "agent_end", "timestamp": "2026-03-14T09:30:04Z", "parent_event_id": "s0", "previous_event_id": "n2", "data": {"execution_flow": {"execution_order": ["analyze", "process"]}}}
`
	require.NoError(t, os.WriteFile(filepath.Join(runDir, "events.jsonl"), []byte(events), 0o644))
	return trace.NewStore(dir)
}

func intPtr(v int) *int { return &v }

func TestRunnerAllPassing(t *testing.T) {
	runner := NewRunner(fixtureStore(t))
	suite := &Suite{
		Name: "research-agent",
		Run:  "run-1",
		Checks: []Check{
			{Name: "path", Expect: Expectation{ExecutionPath: []string{"analyze", "process"}}},
			{Name: "tools", Expect: Expectation{ToolCalls: []string{"search"}}},
			{Name: "llm budget", Expect: Expectation{LLMCalls: intPtr(1)}},
			{Name: "size", Expect: Expectation{MinNodes: 4, MaxNodes: 10}},
			{Name: "clean", Expect: Expectation{MaxWarnings: intPtr(0), Status: "completed"}},
		},
	}

	results, err := runner.Run(suite)
	require.NoError(t, err)
	assert.Equal(t, "run-1", results.RunID)
	assert.Equal(t, 5, results.TotalChecks)
	assert.Equal(t, 5, results.PassedChecks)
	assert.True(t, results.AllPassed())
	assert.Equal(t, 100.0, results.PassRate())
}

func TestRunnerFailures(t *testing.T) {
	runner := NewRunner(fixtureStore(t))
	suite := &Suite{
		Name: "strict",
		Run:  "run-1",
		Checks: []Check{
			{Name: "wrong path", Expect: Expectation{ExecutionPath: []string{"process", "analyze"}}},
			{Name: "missing tool", Expect: Expectation{ToolCalls: []string{"calculator"}}},
			{Name: "wrong status", Expect: Expectation{Status: "error"}},
			{Name: "parallel", Expect: Expectation{Parallel: []string{"analyze"}}},
		},
	}

	results, err := runner.Run(suite)
	require.NoError(t, err)
	assert.Equal(t, 4, results.FailedChecks)
	assert.False(t, results.AllPassed())

	assert.Contains(t, results.Results[0].ErrorMessage, "execution path is [analyze, process]")
	assert.Contains(t, results.Results[1].ErrorMessage, `tool "calculator" was not called`)
	assert.Contains(t, results.Results[2].ErrorMessage, `run status is "completed"`)
	assert.Contains(t, results.Results[3].ErrorMessage, `node "analyze" did not run in parallel`)
}

func TestRunnerFailFast(t *testing.T) {
	runner := NewRunner(fixtureStore(t))
	runner.FailFast = true
	suite := &Suite{
		Name: "strict",
		Run:  "run-1",
		Checks: []Check{
			{Name: "passes", Expect: Expectation{ToolCalls: []string{"search"}}},
			{Name: "fails", Expect: Expectation{ToolCalls: []string{"calculator"}}},
			{Name: "never runs", Expect: Expectation{Status: "error"}},
		},
	}

	results, err := runner.Run(suite)
	require.NoError(t, err)
	assert.Len(t, results.Results, 2)
	assert.Equal(t, 1, results.PassedChecks)
	assert.Equal(t, 1, results.FailedChecks)
	assert.False(t, results.AllPassed())
}

func TestRunnerAggregatesFailuresPerCheck(t *testing.T) {
	runner := NewRunner(fixtureStore(t))
	suite := &Suite{
		Name: "combined",
		Run:  "run-1",
		Checks: []Check{
			{Name: "both wrong", Expect: Expectation{
				ToolCalls: []string{"calculator"},
				LLMCalls:  intPtr(7),
			}},
		},
	}

	results, err := runner.Run(suite)
	require.NoError(t, err)
	require.Len(t, results.Results, 1)
	msg := results.Results[0].ErrorMessage
	assert.Contains(t, msg, "calculator")
	assert.Contains(t, msg, "1 LLM calls, expected 7")
}

func TestRunnerLatestRun(t *testing.T) {
	runner := NewRunner(fixtureStore(t))
	suite := &Suite{
		Name:   "latest",
		Checks: []Check{{Name: "size", Expect: Expectation{MinNodes: 1}}},
	}

	results, err := runner.Run(suite)
	require.NoError(t, err)
	assert.Equal(t, "run-1", results.RunID)
}

func TestRunnerMissingRun(t *testing.T) {
	runner := NewRunner(trace.NewStore(t.TempDir()))

	_, err := runner.Run(&Suite{
		Name:   "s",
		Checks: []Check{{Name: "x", Expect: Expectation{MinNodes: 1}}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no runs found")

	_, err = runner.Run(&Suite{
		Name:   "s",
		Run:    "ghost",
		Checks: []Check{{Name: "x", Expect: Expectation{MinNodes: 1}}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load run")
}
