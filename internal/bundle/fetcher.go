package bundle

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Fetcher downloads a bundle from source/version into dest.
type Fetcher interface {
	Fetch(ctx context.Context, source, version, dest string) error
}

// GitFetcher downloads bundles from git repositories.
type GitFetcher struct {
	// Progress receives clone progress output; nil keeps the clone quiet.
	Progress io.Writer
}

// Fetch shallow-clones the repository at the given tag (or the default
// branch for "latest") and strips the .git directory afterwards.
func (f *GitFetcher) Fetch(ctx context.Context, source, version, dest string) error {
	if err := os.RemoveAll(dest); err != nil {
		return fmt.Errorf("failed to clear destination: %w", err)
	}

	url := source
	if !strings.Contains(url, "://") && !strings.HasPrefix(url, "git@") {
		url = "https://" + url
	}

	cloneOpts := &git.CloneOptions{
		URL:      url,
		Progress: f.Progress,
		Depth:    1,
		Tags:     git.NoTags,
	}
	if version != "" && version != VersionLatest {
		cloneOpts.ReferenceName = plumbing.ReferenceName("refs/tags/" + version)
		cloneOpts.SingleBranch = true
	}

	if _, err := git.PlainCloneContext(ctx, dest, false, cloneOpts); err != nil {
		return fmt.Errorf("git clone failed for %s@%s: %w", url, version, err)
	}

	// The cache only needs the working tree.
	if err := os.RemoveAll(filepath.Join(dest, ".git")); err != nil {
		return fmt.Errorf("failed to remove .git directory: %w", err)
	}
	return nil
}

// LocalFetcher copies bundles from a local directory. Version is ignored.
type LocalFetcher struct{}

// Fetch copies the source directory tree into dest.
func (f *LocalFetcher) Fetch(ctx context.Context, source, version, dest string) error {
	info, err := os.Stat(source)
	if err != nil {
		return fmt.Errorf("local source not found: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("local source %s is not a directory", source)
	}

	if err := os.RemoveAll(dest); err != nil {
		return fmt.Errorf("failed to clear destination: %w", err)
	}
	return copyDir(source, dest)
}

// ForSource picks the fetcher for a source string: existing local paths use
// LocalFetcher, everything else goes through git.
func ForSource(source string) Fetcher {
	if info, err := os.Stat(source); err == nil && info.IsDir() {
		return &LocalFetcher{}
	}
	return &GitFetcher{}
}

func copyDir(src, dst string) error {
	src = filepath.Clean(src)
	dst = filepath.Clean(dst)

	return filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		relPath, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		dstPath := filepath.Join(dst, relPath)

		if info.IsDir() {
			return os.MkdirAll(dstPath, info.Mode())
		}
		if err := copyFile(path, dstPath, info.Mode()); err != nil {
			return fmt.Errorf("failed to copy file %s: %w", path, err)
		}
		return nil
	})
}

func copyFile(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() { _ = out.Close() }()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return os.Chmod(dst, mode)
}
