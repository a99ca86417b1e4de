package check

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// Reporter writes suite results in one of several formats.
type Reporter struct {
	format string
}

// NewReporter creates a reporter for the given format: console, json,
// junit, or markdown.
func NewReporter(format string) *Reporter {
	return &Reporter{format: format}
}

// Generate writes the report to w.
func (r *Reporter) Generate(results *SuiteResults, w io.Writer) error {
	switch r.format {
	case "console":
		return r.generateConsole(results, w)
	case "json":
		return r.generateJSON(results, w)
	case "junit":
		return r.generateJUnit(results, w)
	case "markdown":
		return r.generateMarkdown(results, w)
	default:
		return fmt.Errorf("unsupported format: %s", r.format)
	}
}

func (r *Reporter) generateConsole(results *SuiteResults, w io.Writer) error {
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "═══════════════════════════════════════════════════════════════\n")
	fmt.Fprintf(w, "  CHECK RESULTS: %s (run %s)\n", results.SuiteName, results.RunID)
	fmt.Fprintf(w, "═══════════════════════════════════════════════════════════════\n")
	fmt.Fprintf(w, "\n")

	fmt.Fprintf(w, "Total Checks:   %d\n", results.TotalChecks)
	fmt.Fprintf(w, "Passed:         %d ✓\n", results.PassedChecks)
	fmt.Fprintf(w, "Failed:         %d ✗\n", results.FailedChecks)
	fmt.Fprintf(w, "Pass Rate:      %.1f%%\n", results.PassRate())
	fmt.Fprintf(w, "Duration:       %s\n", formatDuration(results.Duration))
	fmt.Fprintf(w, "\n")

	if results.FailedChecks > 0 {
		fmt.Fprintf(w, "───────────────────────────────────────────────────────────────\n")
		fmt.Fprintf(w, "  FAILED CHECKS\n")
		fmt.Fprintf(w, "───────────────────────────────────────────────────────────────\n")
		fmt.Fprintf(w, "\n")
		for _, result := range results.Results {
			if result.Passed {
				continue
			}
			fmt.Fprintf(w, "✗ %s\n", result.CheckName)
			fmt.Fprintf(w, "  %s\n", result.ErrorMessage)
			fmt.Fprintf(w, "\n")
		}
	}

	fmt.Fprintf(w, "───────────────────────────────────────────────────────────────\n")
	if results.AllPassed() {
		fmt.Fprintf(w, "  ✓ ALL CHECKS PASSED\n")
	} else {
		fmt.Fprintf(w, "  ✗ SOME CHECKS FAILED\n")
		fmt.Fprintf(w, "  Inspect the run with: gati run show %s\n", results.RunID)
	}
	fmt.Fprintf(w, "───────────────────────────────────────────────────────────────\n")
	fmt.Fprintf(w, "\n")
	return nil
}

func (r *Reporter) generateJSON(results *SuiteResults, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(results)
}

func (r *Reporter) generateJUnit(results *SuiteResults, w io.Writer) error {
	fmt.Fprintf(w, "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	fmt.Fprintf(w, "<testsuite name=\"%s\" tests=\"%d\" failures=\"%d\" time=\"%.3f\">\n",
		escapeXML(results.SuiteName), results.TotalChecks, results.FailedChecks, results.Duration.Seconds())

	for _, result := range results.Results {
		fmt.Fprintf(w, "  <testcase name=\"%s\" time=\"%.3f\">\n",
			escapeXML(result.CheckName), result.Duration.Seconds())
		if !result.Passed {
			fmt.Fprintf(w, "    <failure message=\"%s\"/>\n", escapeXML(result.ErrorMessage))
		}
		fmt.Fprintf(w, "  </testcase>\n")
	}

	fmt.Fprintf(w, "</testsuite>\n")
	return nil
}

func (r *Reporter) generateMarkdown(results *SuiteResults, w io.Writer) error {
	fmt.Fprintf(w, "# Check Report: %s\n\n", results.SuiteName)
	fmt.Fprintf(w, "**Run:** `%s`\n\n", results.RunID)
	fmt.Fprintf(w, "**Generated:** %s\n\n", time.Now().Format("2006-01-02 15:04:05"))

	fmt.Fprintf(w, "## Summary\n\n")
	fmt.Fprintf(w, "| Metric | Value |\n")
	fmt.Fprintf(w, "|--------|-------|\n")
	fmt.Fprintf(w, "| Total Checks | %d |\n", results.TotalChecks)
	fmt.Fprintf(w, "| Passed | %d ✓ |\n", results.PassedChecks)
	fmt.Fprintf(w, "| Failed | %d ✗ |\n", results.FailedChecks)
	fmt.Fprintf(w, "| Pass Rate | %.1f%% |\n", results.PassRate())
	fmt.Fprintf(w, "| Duration | %s |\n\n", formatDuration(results.Duration))

	fmt.Fprintf(w, "## Checks\n\n")
	for i, result := range results.Results {
		mark := "✓"
		if !result.Passed {
			mark = "✗"
		}
		fmt.Fprintf(w, "### %d. %s %s\n\n", i+1, mark, result.CheckName)
		if !result.Passed {
			fmt.Fprintf(w, "```\n%s\n```\n\n", result.ErrorMessage)
		}
	}
	return nil
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.0fms", float64(d.Milliseconds()))
	}
	return fmt.Sprintf("%.2fs", d.Seconds())
}

func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	s = strings.ReplaceAll(s, "'", "&apos;")
	return s
}
