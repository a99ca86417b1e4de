package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gati-ai/gati/internal/graph"
	"github.com/gati-ai/gati/internal/render"
	"github.com/gati-ai/gati/internal/utils"
)

var (
	graphFormat string
	graphOutput string
	graphDetect bool
)

var graphCmd = &cobra.Command{
	Use:   "graph [run-id]",
	Short: "Render a run's execution graph",
	Long: `Reconstruct a run's execution graph and render it.

Formats:
  mermaid   Mermaid flowchart (default)
  dot       Graphviz DOT
  json      Raw nodes and edges

Examples:
  gati graph                          # Latest run as mermaid
  gati graph run-42 --format dot      # Specific run as DOT
  gati graph -o graph.mmd             # Write to file
  gati graph --detect                 # Derive parallelism from timestamps
`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return renderGraph(args)
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().StringVarP(&graphFormat, "format", "f", "mermaid", "output format (mermaid, dot, json)")
	graphCmd.Flags().StringVarP(&graphOutput, "output", "o", "", "write to file instead of stdout")
	graphCmd.Flags().BoolVar(&graphDetect, "detect", false, "detect execution flow from timestamps when the run recorded none")
}

func renderGraph(args []string) error {
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

	if graphDetect && run.Flow == nil {
		if flow := graph.DetectFlow(run.Events); flow != nil {
			logger.Debug().Str("run_id", runID).Msg("derived execution flow from timestamps")
			run.Flow = flow
		}
	}

	result, err := graph.ReconstructRun(run)
	if err != nil {
		return err
	}
	for _, warning := range result.Warnings {
		logger.Warn().Str("run_id", runID).Msg(warning)
	}

	var out string
	switch graphFormat {
	case "mermaid":
		out = render.Mermaid(result, render.MermaidOptions{MarkdownFence: graphOutput == ""})
	case "dot":
		out, err = render.DOT(result)
		if err != nil {
			return err
		}
	case "json":
		data, err := json.MarshalIndent(struct {
			Nodes []*graph.DisplayNode `json:"nodes"`
			Edges []graph.DisplayEdge  `json:"edges"`
		}{result.Nodes, result.Edges}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode graph: %w", err)
		}
		out = string(data)
	default:
		return fmt.Errorf("unsupported format: %s", graphFormat)
	}

	if graphOutput == "" {
		fmt.Println(out)
		return nil
	}
	if err := utils.WriteFile(graphOutput, []byte(out)); err != nil {
		return err
	}
	fmt.Printf("📄 Graph written to %s\n", graphOutput)
	return nil
}
