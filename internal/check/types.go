// Package check runs declarative assertions against recorded agent runs.
// Suites are YAML files describing what a correct run looks like: which
// nodes executed in which order, which tools were called, how many LLM
// calls were made, and what may run in parallel.
package check

import "time"

// Suite is a collection of checks applied to one run.
type Suite struct {
	Name        string            `yaml:"name"`
	Description string            `yaml:"description,omitempty"`
	Run         string            `yaml:"run,omitempty"` // run id, or empty/"latest" for the newest run
	Checks      []Check           `yaml:"checks"`
	Metadata    map[string]string `yaml:"metadata,omitempty"`
}

// Check is a single named assertion over the reconstructed run.
type Check struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description,omitempty"`
	Expect      Expectation `yaml:"expect"`
}

// Expectation holds the assertable properties. Zero-valued fields are not
// checked; counts use pointers so "must be zero" stays expressible.
type Expectation struct {
	ExecutionPath []string `yaml:"execution_path,omitempty"` // exact node order
	ToolCalls     []string `yaml:"tool_calls,omitempty"`     // tools that must appear
	LLMCalls      *int     `yaml:"llm_calls,omitempty"`      // exact count
	MinNodes      int      `yaml:"min_nodes,omitempty"`
	MaxNodes      int      `yaml:"max_nodes,omitempty"`
	Parallel      []string `yaml:"parallel,omitempty"` // nodes that must be marked parallel
	MaxWarnings   *int     `yaml:"max_warnings,omitempty"`
	Status        string   `yaml:"status,omitempty"`
}

// empty reports whether the expectation asserts nothing.
func (e Expectation) empty() bool {
	return len(e.ExecutionPath) == 0 &&
		len(e.ToolCalls) == 0 &&
		e.LLMCalls == nil &&
		e.MinNodes == 0 &&
		e.MaxNodes == 0 &&
		len(e.Parallel) == 0 &&
		e.MaxWarnings == nil &&
		e.Status == ""
}

// CheckResult is the outcome of one check.
type CheckResult struct {
	CheckName    string        `json:"check_name"`
	Passed       bool          `json:"passed"`
	ErrorMessage string        `json:"error_message,omitempty"`
	Duration     time.Duration `json:"duration"`
}

// SuiteResults aggregates one suite execution.
type SuiteResults struct {
	SuiteName    string        `json:"suite_name"`
	RunID        string        `json:"run_id"`
	TotalChecks  int           `json:"total_checks"`
	PassedChecks int           `json:"passed_checks"`
	FailedChecks int           `json:"failed_checks"`
	Duration     time.Duration `json:"duration"`
	Results      []CheckResult `json:"results"`
	StartTime    time.Time     `json:"start_time"`
	EndTime      time.Time     `json:"end_time"`
}

// AllPassed returns true when no check failed.
func (sr *SuiteResults) AllPassed() bool {
	return sr.FailedChecks == 0
}

// PassRate returns the pass rate as a percentage.
func (sr *SuiteResults) PassRate() float64 {
	if sr.TotalChecks == 0 {
		return 0
	}
	return float64(sr.PassedChecks) / float64(sr.TotalChecks) * 100
}
