package bundle

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// VersionLatest is the version alias for the default branch.
const VersionLatest = "latest"

// Cached is one bundle present in the local cache.
type Cached struct {
	Name        string
	Source      string
	Version     string
	Description string
	LocalPath   string
	Manifest    *Manifest
}

// Cache stores fetched bundles under a base directory, keyed by source path
// and version.
type Cache struct {
	BaseDir string
}

// NewCache creates a cache rooted at baseDir, defaulting to ~/.gati/bundles.
func NewCache(baseDir string) (*Cache, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		baseDir = filepath.Join(home, ".gati", "bundles")
	}
	if err := os.MkdirAll(baseDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create cache directory %s: %w", baseDir, err)
	}
	return &Cache{BaseDir: baseDir}, nil
}

// Path returns the cache location for a source and version.
func (c *Cache) Path(source, version string) string {
	if version == "" {
		version = VersionLatest
	}
	source = filepath.Clean(source)
	source = strings.TrimPrefix(source, "/")
	source = strings.TrimPrefix(source, "\\")
	return filepath.Join(c.BaseDir, source, version)
}

// List returns every bundle in the cache, sorted by name.
func (c *Cache) List() ([]Cached, error) {
	var bundles []Cached

	err := filepath.Walk(c.BaseDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if strings.HasPrefix(info.Name(), ".") && info.Name() != "." {
				return filepath.SkipDir
			}
			return nil
		}
		if info.Name() != ManifestFileName {
			return nil
		}

		manifest, err := ParseManifest(path)
		if err != nil {
			return nil
		}
		relPath, err := filepath.Rel(c.BaseDir, filepath.Dir(path))
		if err != nil {
			return nil
		}

		bundles = append(bundles, Cached{
			Name:        manifest.Bundle.Name,
			Source:      filepath.ToSlash(filepath.Dir(relPath)),
			Version:     filepath.Base(relPath),
			Description: manifest.Bundle.Description,
			LocalPath:   filepath.Dir(path),
			Manifest:    manifest,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk cache directory: %w", err)
	}

	sort.Slice(bundles, func(i, j int) bool {
		return bundles[i].Name < bundles[j].Name
	})
	return bundles, nil
}

// Remove deletes one version of a bundle, or every version when version is
// empty.
func (c *Cache) Remove(source, version string) error {
	path := c.Path(source, version)
	if version == "" {
		path = filepath.Dir(path)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("bundle not found: %s", path)
	}
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("failed to remove bundle %s: %w", path, err)
	}
	return nil
}

// Install copies the bundle's runs into a run store directory. Returns the
// installed run ids. Runs already present in the store are overwritten.
func Install(bundleDir, storeDir string) ([]string, error) {
	manifestPath, err := FindManifest(bundleDir)
	if err != nil {
		return nil, err
	}
	manifest, err := ParseManifest(manifestPath)
	if err != nil {
		return nil, err
	}
	if err := manifest.Validate(); err != nil {
		return nil, fmt.Errorf("invalid bundle: %w", err)
	}

	runsDir := filepath.Join(bundleDir, "runs")
	entries, err := os.ReadDir(runsDir)
	if err != nil {
		return nil, fmt.Errorf("bundle has no runs directory: %w", err)
	}

	wanted := make(map[string]bool, len(manifest.Bundle.Runs))
	for _, id := range manifest.Bundle.Runs {
		wanted[id] = true
	}

	var installed []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		runID := entry.Name()
		if len(wanted) > 0 && !wanted[runID] {
			continue
		}
		if _, err := os.Stat(filepath.Join(runsDir, runID, "events.jsonl")); err != nil {
			continue
		}
		dest := filepath.Join(storeDir, runID)
		if err := os.RemoveAll(dest); err != nil {
			return nil, fmt.Errorf("failed to clear %s: %w", dest, err)
		}
		if err := copyDir(filepath.Join(runsDir, runID), dest); err != nil {
			return nil, fmt.Errorf("failed to install run %s: %w", runID, err)
		}
		installed = append(installed, runID)
	}

	if len(installed) == 0 {
		return nil, fmt.Errorf("bundle %s contains no installable runs", manifest.Bundle.Name)
	}
	sort.Strings(installed)
	return installed, nil
}
