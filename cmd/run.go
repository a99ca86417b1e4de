package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/gati-ai/gati/internal/graph"
	"github.com/gati-ai/gati/internal/render"
	"github.com/gati-ai/gati/internal/tui"
	"github.com/gati-ai/gati/internal/utils"
)

// runCmd groups everything that operates on stored runs.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Manage and view recorded runs",
	Long: `Manage and view execution runs recorded by instrumented agents.

Runs are stored in .gati/runs/<run-id>/ as an events.jsonl log plus
optional manifest.json and topology.toml.

Examples:
  gati run                    # Launch interactive run explorer
  gati run list               # List all stored runs
  gati run show <run-id>      # Open one run in the tree viewer
  gati run view <run-id>      # Print the run summary
  gati run export <run-id>    # Export the reconstructed graph as JSON
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return tui.Run(openStore())
	},
}

var runListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		return listRuns()
	},
}

var runShowCmd = &cobra.Command{
	Use:   "show [run-id]",
	Short: "Show a run in the interactive tree viewer",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store := openStore()
		runID, err := resolveRunID(store, args)
		if err != nil {
			return err
		}
		return tui.ShowRun(store, runID)
	},
}

var runViewCmd = &cobra.Command{
	Use:   "view [run-id]",
	Short: "Print a run summary",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return viewRun(args)
	},
}

var runExportCmd = &cobra.Command{
	Use:   "export [run-id]",
	Short: "Export the reconstructed graph",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")
		format, _ := cmd.Flags().GetString("format")
		return exportRun(args, format, output)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.AddCommand(runListCmd)
	runCmd.AddCommand(runShowCmd)
	runCmd.AddCommand(runViewCmd)
	runCmd.AddCommand(runExportCmd)

	runExportCmd.Flags().StringP("output", "o", "", "write to file instead of stdout")
	runExportCmd.Flags().StringP("format", "f", "json", "export format (json, mermaid, dot)")
}

func listRuns() error {
	store := openStore()
	runs, err := store.ListRuns()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		color.Yellow("No runs found in %s", store.Root())
		fmt.Println("Run an instrumented agent first, or fetch a bundle with 'gati fetch'.")
		return nil
	}

	color.Cyan("\n📊 Recorded runs in %s\n\n", store.Root())
	fmt.Printf("%-28s %-12s %-20s %8s %8s %10s\n", "RUN ID", "STATUS", "STARTED", "EVENTS", "LLM", "DURATION")
	for _, run := range runs {
		status := run.Status
		switch status {
		case "completed":
			status = color.GreenString("%-12s", status)
		case "error":
			status = color.RedString("%-12s", status)
		default:
			status = fmt.Sprintf("%-12s", status)
		}
		fmt.Printf("%-28s %s %-20s %8d %8d %9.2fs\n",
			run.RunID,
			status,
			run.StartTime.Format("2006-01-02 15:04:05"),
			run.EventCount,
			run.LLMCalls,
			run.Duration,
		)
	}
	fmt.Println()
	return nil
}

func viewRun(args []string) error {
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

	color.Cyan("\n📦 Run %s\n\n", run.Manifest.RunID)
	if run.Manifest.AgentName != "" {
		fmt.Printf("Agent:      %s\n", run.Manifest.AgentName)
	}
	fmt.Printf("Status:     %s\n", run.Manifest.Status)
	fmt.Printf("Started:    %s\n", run.Manifest.StartTime.Format("2006-01-02 15:04:05 MST"))
	fmt.Printf("Duration:   %.2fs\n", run.Manifest.Duration)
	fmt.Printf("Events:     %d\n", run.Manifest.EventCount)
	if run.Manifest.LLMCalls > 0 {
		fmt.Printf("LLM calls:  %d (%d tokens, $%.4f)\n",
			run.Manifest.LLMCalls, run.Manifest.TotalTokens, run.Manifest.EstimatedCost)
	}
	fmt.Printf("Graph:      %d nodes, %d edges\n", len(result.Nodes), len(result.Edges))
	if run.Graph != nil {
		fmt.Printf("Topology:   declared (%d nodes, %d edges)\n", len(run.Graph.Nodes), len(run.Graph.Edges))
	}
	if len(result.Warnings) > 0 {
		color.Yellow("\n⚠ %d reconstruction warnings:", len(result.Warnings))
		for _, warning := range result.Warnings {
			fmt.Printf("  - %s\n", warning)
		}
	}
	fmt.Println()
	return nil
}

func exportRun(args []string, format, output string) error {
	store := openStore()
	runID, err := resolveRunID(store, args)
	if err != nil {
		return err
	}
	run, err := store.LoadRun(runID)
	if err != nil {
		return err
	}
	result, err := graph.ReconstructRun(run)
	if err != nil {
		return err
	}

	var out []byte
	switch format {
	case "json":
		payload := struct {
			RunID    string               `json:"run_id"`
			Nodes    []*graph.DisplayNode `json:"nodes"`
			Edges    []graph.DisplayEdge  `json:"edges"`
			Warnings []string             `json:"warnings,omitempty"`
		}{
			RunID:    run.Manifest.RunID,
			Nodes:    result.Nodes,
			Edges:    result.Edges,
			Warnings: result.Warnings,
		}
		out, err = json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode graph: %w", err)
		}
	case "mermaid":
		out = []byte(render.Mermaid(result, render.MermaidOptions{MarkdownFence: output == ""}))
	case "dot":
		s, err := render.DOT(result)
		if err != nil {
			return err
		}
		out = []byte(s)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}

	if output == "" {
		fmt.Println(string(out))
		return nil
	}
	if err := utils.WriteFile(output, out); err != nil {
		return err
	}
	fmt.Printf("📄 Exported %s to %s\n", runID, output)
	return nil
}
