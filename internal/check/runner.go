package check

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/gati-ai/gati/internal/graph"
	"github.com/gati-ai/gati/internal/trace"
)

// Runner executes suites against a run store.
type Runner struct {
	store *trace.Store

	// FailFast stops the suite at the first failing check.
	FailFast bool
}

// NewRunner creates a runner over the given store.
func NewRunner(store *trace.Store) *Runner {
	return &Runner{store: store}
}

// Run loads the suite's target run, reconstructs it, and evaluates every
// check. A run that cannot be loaded is an error; a failing check is not.
func (r *Runner) Run(suite *Suite) (*SuiteResults, error) {
	results := &SuiteResults{
		SuiteName:   suite.Name,
		TotalChecks: len(suite.Checks),
		StartTime:   time.Now(),
		Results:     make([]CheckResult, 0, len(suite.Checks)),
	}

	runID := suite.Run
	if runID == "" || runID == "latest" {
		runID = r.store.LatestRunID()
		if runID == "" {
			return nil, fmt.Errorf("no runs found in %s", r.store.Root())
		}
	}
	results.RunID = runID

	run, err := r.store.LoadRun(runID)
	if err != nil {
		return nil, fmt.Errorf("failed to load run: %w", err)
	}
	reconstructed, err := graph.ReconstructRun(run)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct run: %w", err)
	}

	facts := gatherFacts(run, reconstructed)

	for _, check := range suite.Checks {
		start := time.Now()
		result := CheckResult{CheckName: check.Name, Passed: true}
		if msg := evaluate(check.Expect, facts); msg != "" {
			result.Passed = false
			result.ErrorMessage = msg
		}
		result.Duration = time.Since(start)

		results.Results = append(results.Results, result)
		if result.Passed {
			results.PassedChecks++
		} else {
			results.FailedChecks++
			if r.FailFast {
				break
			}
		}
	}

	results.EndTime = time.Now()
	results.Duration = results.EndTime.Sub(results.StartTime)
	return results, nil
}

// runFacts is everything the expectations can assert on, extracted once.
type runFacts struct {
	executionPath []string
	toolCalls     map[string]bool
	llmCalls      int
	nodeCount     int
	parallel      map[string]bool
	warningCount  int
	status        string
}

func gatherFacts(run *trace.RunData, result *graph.Result) runFacts {
	facts := runFacts{
		toolCalls:    make(map[string]bool),
		parallel:     make(map[string]bool),
		nodeCount:    len(result.Nodes),
		warningCount: len(result.Warnings),
		status:       run.Manifest.Status,
	}

	// Execution path: indexed nodes in sequence order, one entry per key.
	type indexed struct {
		key   string
		index int
	}
	var ordered []indexed
	seen := make(map[string]bool)
	for _, dn := range result.Nodes {
		switch dn.Event.EventType {
		case trace.EventToolCall:
			facts.toolCalls[dn.DisplayName] = true
		case trace.EventLLMCall:
			facts.llmCalls++
		}
		if dn.IsParallel {
			facts.parallel[graph.SequenceKey(dn.Event)] = true
		}
		if dn.SequenceIndex >= 0 {
			key := graph.SequenceKey(dn.Event)
			if !seen[key] {
				seen[key] = true
				ordered = append(ordered, indexed{key: key, index: dn.SequenceIndex})
			}
		}
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].index < ordered[j].index })
	for _, entry := range ordered {
		facts.executionPath = append(facts.executionPath, entry.key)
	}
	return facts
}

func evaluate(expect Expectation, facts runFacts) string {
	var failures []string

	if len(expect.ExecutionPath) > 0 {
		if !equalStrings(expect.ExecutionPath, facts.executionPath) {
			failures = append(failures, fmt.Sprintf("execution path is [%s], expected [%s]",
				strings.Join(facts.executionPath, ", "), strings.Join(expect.ExecutionPath, ", ")))
		}
	}
	for _, tool := range expect.ToolCalls {
		if !facts.toolCalls[tool] {
			failures = append(failures, fmt.Sprintf("tool %q was not called", tool))
		}
	}
	if expect.LLMCalls != nil && facts.llmCalls != *expect.LLMCalls {
		failures = append(failures, fmt.Sprintf("run made %d LLM calls, expected %d", facts.llmCalls, *expect.LLMCalls))
	}
	if expect.MinNodes > 0 && facts.nodeCount < expect.MinNodes {
		failures = append(failures, fmt.Sprintf("run has %d nodes, expected at least %d", facts.nodeCount, expect.MinNodes))
	}
	if expect.MaxNodes > 0 && facts.nodeCount > expect.MaxNodes {
		failures = append(failures, fmt.Sprintf("run has %d nodes, expected at most %d", facts.nodeCount, expect.MaxNodes))
	}
	for _, name := range expect.Parallel {
		if !facts.parallel[name] {
			failures = append(failures, fmt.Sprintf("node %q did not run in parallel", name))
		}
	}
	if expect.MaxWarnings != nil && facts.warningCount > *expect.MaxWarnings {
		failures = append(failures, fmt.Sprintf("reconstruction produced %d warnings, allowed %d", facts.warningCount, *expect.MaxWarnings))
	}
	if expect.Status != "" && facts.status != expect.Status {
		failures = append(failures, fmt.Sprintf("run status is %q, expected %q", facts.status, expect.Status))
	}

	return strings.Join(failures, "; ")
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
