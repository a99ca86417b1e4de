package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gati-ai/gati/internal/bundle"
)

var (
	fetchVersion string
	fetchInstall bool
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <source>",
	Short: "Fetch a trace bundle",
	Long: `Fetch a trace bundle from a git repository or local directory into
the local bundle cache, and optionally install its runs into the store.

A bundle is a directory with a gati-bundle.toml manifest and a runs/
directory of recorded runs.

Examples:
  gati fetch github.com/acme/agent-traces
  gati fetch github.com/acme/agent-traces --version v1.2.0 --install
  gati fetch ../shared-traces --install`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return fetchBundle(cmd.Context(), args[0])
	},
}

var bundleCmd = &cobra.Command{
	Use:   "bundle",
	Short: "Manage cached trace bundles",
}

var bundleListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached bundles",
	RunE: func(cmd *cobra.Command, args []string) error {
		cache, err := bundle.NewCache("")
		if err != nil {
			return err
		}
		bundles, err := cache.List()
		if err != nil {
			return err
		}
		if len(bundles) == 0 {
			color.Yellow("No bundles cached")
			return nil
		}
		color.Cyan("\n📦 Cached bundles\n\n")
		for _, b := range bundles {
			fmt.Printf("%s @ %s\n", color.GreenString(b.Name), b.Version)
			fmt.Printf("   Source: %s\n", b.Source)
			if b.Description != "" {
				fmt.Printf("   %s\n", b.Description)
			}
		}
		fmt.Println()
		return nil
	},
}

var bundleRemoveCmd = &cobra.Command{
	Use:   "remove <source>",
	Short: "Remove a cached bundle",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cache, err := bundle.NewCache("")
		if err != nil {
			return err
		}
		version, _ := cmd.Flags().GetString("version")
		if err := cache.Remove(args[0], version); err != nil {
			return err
		}
		color.Green("✓ Removed %s", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(bundleCmd)
	bundleCmd.AddCommand(bundleListCmd)
	bundleCmd.AddCommand(bundleRemoveCmd)

	fetchCmd.Flags().StringVar(&fetchVersion, "version", "latest", "bundle version (git tag)")
	fetchCmd.Flags().BoolVar(&fetchInstall, "install", false, "install the bundle's runs into the run store")
	bundleRemoveCmd.Flags().String("version", "", "remove only this version")
}

func fetchBundle(ctx context.Context, source string) error {
	cache, err := bundle.NewCache("")
	if err != nil {
		return err
	}

	dest := cache.Path(source, fetchVersion)
	fetcher := bundle.ForSource(source)
	if gf, ok := fetcher.(*bundle.GitFetcher); ok && verbose {
		gf.Progress = os.Stderr
	}

	color.Cyan("📥 Fetching %s@%s", source, fetchVersion)
	if err := fetcher.Fetch(ctx, source, fetchVersion, dest); err != nil {
		return err
	}

	manifestPath, err := bundle.FindManifest(dest)
	if err != nil {
		return err
	}
	manifest, err := bundle.ParseManifest(manifestPath)
	if err != nil {
		return err
	}
	if err := manifest.Validate(); err != nil {
		return fmt.Errorf("invalid bundle: %w", err)
	}
	color.Green("✓ Fetched bundle %s @ %s", manifest.Bundle.Name, manifest.Bundle.Version)

	if fetchInstall {
		installed, err := bundle.Install(dest, viper.GetString("runs_dir"))
		if err != nil {
			return err
		}
		color.Green("✓ Installed %d run(s):", len(installed))
		for _, runID := range installed {
			fmt.Printf("   %s\n", runID)
		}
	}
	return nil
}
