// Package cmd implements the gati command-line interface.
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gati-ai/gati/internal/trace"
	"github.com/gati-ai/gati/internal/utils"
)

var (
	cfgFile string
	verbose bool
	debug   bool
	runsDir string
	logger  zerolog.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "gati",
	Short: "Agent trace inspector",
	Long: `gati reconstructs and visualizes execution traces recorded by
instrumented AI agents.

Runs are read from .gati/runs/<run-id>/, written by the agent SDK as it
executes. gati turns the flat event log back into the graph the agent
actually walked: the containment tree, the temporal chain, and the
declared topology layered on top.

Features:
  • Interactive run explorer and event tree viewer
  • Mermaid and Graphviz exports of the execution graph
  • Markdown run reports
  • Declarative checks against recorded runs
  • Sharing run bundles over git

Get started with: gati run list`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = utils.NewLogger(debug)
		if debug {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		} else {
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
		}
		zerolog.TimeFieldFormat = time.RFC3339
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.gati.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "debug mode")
	rootCmd.PersistentFlags().StringVar(&runsDir, "runs-dir", "", "run store directory (default .gati/runs)")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("runs_dir", rootCmd.PersistentFlags().Lookup("runs-dir"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("toml")
		viper.SetConfigName(".gati")
	}

	viper.SetEnvPrefix("GATI")
	viper.AutomaticEnv()

	viper.SetDefault("runs_dir", trace.DefaultRunsDir)

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// openStore returns the run store from flags/config.
func openStore() *trace.Store {
	return trace.NewStore(viper.GetString("runs_dir"))
}

// resolveRunID picks the run to operate on: an explicit id, or the latest.
func resolveRunID(store *trace.Store, args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	runID := store.LatestRunID()
	if runID == "" {
		return "", utils.NewUserError(
			fmt.Sprintf("No runs found in %s", store.Root()),
			"Run an instrumented agent first, or point --runs-dir at a store",
			nil,
		)
	}
	return runID, nil
}

// GetLogger returns the configured logger.
func GetLogger() *zerolog.Logger {
	return &logger
}
