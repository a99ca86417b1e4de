package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/gati-ai/gati/internal/check"
)

var checkCmd = &cobra.Command{
	Use:   "check <suite-file>",
	Short: "Run declarative checks against a recorded run",
	Long: `Run checks defined in a YAML suite against a recorded run.

Examples:
  # Run checks against the latest run
  gati check checks.yaml

  # Emit machine-readable output
  gati check checks.yaml --format junit

  # Validate the suite file without running
  gati check checks.yaml --validate-only`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

var (
	checkValidateOnly bool
	checkFailFast     bool
	checkFormat       string
	checkReportFile   string
)

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().BoolVar(&checkValidateOnly, "validate-only", false, "only validate the suite file, don't run checks")
	checkCmd.Flags().BoolVar(&checkFailFast, "fail-fast", false, "stop at the first failing check")
	checkCmd.Flags().StringVarP(&checkFormat, "format", "f", "console", "output format (console, json, junit, markdown)")
	checkCmd.Flags().StringVarP(&checkReportFile, "report", "r", "", "save a markdown report to file (auto-generated if not specified)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	suiteFile := args[0]

	if _, err := os.Stat(suiteFile); os.IsNotExist(err) {
		return fmt.Errorf("suite file not found: %s", suiteFile)
	}
	absPath, err := filepath.Abs(suiteFile)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}

	if verbose {
		fmt.Printf("📋 Loading suite: %s\n", absPath)
	}
	suite, err := check.ParseSuiteFile(absPath)
	if err != nil {
		return fmt.Errorf("failed to parse suite file: %w", err)
	}
	if verbose {
		fmt.Printf("✓ Loaded %d check(s) from suite: %s\n", len(suite.Checks), suite.Name)
	}

	if checkValidateOnly {
		fmt.Println("✓ Suite file is valid")
		return nil
	}

	runner := check.NewRunner(openStore())
	runner.FailFast = checkFailFast
	results, err := runner.Run(suite)
	if err != nil {
		return fmt.Errorf("check execution failed: %w", err)
	}

	reporter := check.NewReporter(checkFormat)
	if err := reporter.Generate(results, os.Stdout); err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}

	reportPath := checkReportFile
	if reportPath == "" {
		timestamp := time.Now().Format("20060102-150405")
		reportDir := filepath.Join(".gati", "reports")
		if err := os.MkdirAll(reportDir, 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to create report directory: %v\n", err)
		} else {
			reportPath = filepath.Join(reportDir, fmt.Sprintf("check-report-%s.md", timestamp))
		}
	}
	if reportPath != "" {
		reportFile, err := os.Create(reportPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to create report file: %v\n", err)
		} else {
			defer reportFile.Close()
			mdReporter := check.NewReporter("markdown")
			if err := mdReporter.Generate(results, reportFile); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to write markdown report: %v\n", err)
			} else {
				fmt.Printf("\n📄 Detailed report saved to: %s\n", reportPath)
			}
		}
	}

	if !results.AllPassed() {
		os.Exit(1)
	}
	return nil
}
