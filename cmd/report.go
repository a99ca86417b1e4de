package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/gati-ai/gati/internal/graph"
	"github.com/gati-ai/gati/internal/render"
	"github.com/gati-ai/gati/internal/utils"
)

var reportOutput string

var reportCmd = &cobra.Command{
	Use:   "report [run-id]",
	Short: "Write a markdown report for a run",
	Long: `Generate a markdown report for a run: summary, execution graph,
timeline, and any reconstruction warnings.

Examples:
  gati report                     # Latest run, saved under .gati/reports/
  gati report run-42 -o run42.md  # Specific run to a chosen file
`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeReport(args)
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "", "report file path")
}

func writeReport(args []string) error {
	store := openStore()
	runID, err := resolveRunID(store, args)
	if err != nil {
		return err
	}
	run, err := store.LoadRun(runID)
	if err != nil {
		return utils.NewUserError(
			fmt.Sprintf("Failed to load run %s", runID),
			"Check the run id with 'gati run list'",
			err,
		)
	}
	result, err := graph.ReconstructRun(run)
	if err != nil {
		return err
	}

	report, err := render.Report(run.Manifest, result)
	if err != nil {
		return err
	}

	path := reportOutput
	if path == "" {
		timestamp := time.Now().Format("20060102-150405")
		path = filepath.Join(".gati", "reports", fmt.Sprintf("report-%s-%s.md", runID, timestamp))
	}
	if err := utils.WriteFile(path, []byte(report)); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	fmt.Printf("📄 Report saved to: %s\n", path)
	return nil
}
