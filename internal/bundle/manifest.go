// Package bundle handles shared trace bundles: directories of recorded runs
// published over git or passed around as plain folders, described by a
// gati-bundle.toml manifest.
package bundle

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ManifestFileName is the bundle descriptor at the bundle root.
const ManifestFileName = "gati-bundle.toml"

// Manifest is the gati-bundle.toml structure.
type Manifest struct {
	Bundle Info `toml:"bundle"`
}

// Info describes the bundle and the runs it carries.
type Info struct {
	Name        string `toml:"name"`
	Version     string `toml:"version"`
	Description string `toml:"description"`
	Author      string `toml:"author"`

	// Agent is the name of the agent the runs were recorded from.
	Agent string `toml:"agent"`

	// Runs lists the run ids included under runs/. Empty means "everything
	// under runs/".
	Runs []string `toml:"runs"`
}

// ParseManifest reads and parses a gati-bundle.toml file.
func ParseManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	return ParseManifestData(data)
}

// ParseManifestData parses manifest content from bytes.
func ParseManifestData(data []byte) (*Manifest, error) {
	var manifest Manifest
	if err := toml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	return &manifest, nil
}

// FindManifest locates gati-bundle.toml in the given directory.
func FindManifest(dir string) (string, error) {
	manifestPath := filepath.Join(dir, ManifestFileName)
	if _, err := os.Stat(manifestPath); err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("no %s found in %s", ManifestFileName, dir)
		}
		return "", fmt.Errorf("failed to check manifest: %w", err)
	}
	return manifestPath, nil
}

// Validate checks the manifest for required fields.
func (m *Manifest) Validate() error {
	if m.Bundle.Name == "" {
		return fmt.Errorf("bundle name is required")
	}
	if m.Bundle.Version == "" {
		return fmt.Errorf("bundle version is required")
	}
	return nil
}
