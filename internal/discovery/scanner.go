// Package discovery enumerates the source files that feed an analysis run.
package discovery

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/archlens/archlens/internal/config"
	archerrors "github.com/archlens/archlens/internal/errors"
)

// Scanner walks the project root and applies include/exclude globs.
// The result is an ordered, deduplicated list of root-relative paths, so a
// rerun over an unchanged tree always sees files in the same order.
type Scanner struct {
	cfg      *config.Config
	includes []string
	excludes []string
}

// NewScanner creates a scanner for the configured root. When build-artifact
// detection is enabled, output directories found in project manifests are
// appended to the exclusion set before any walking happens.
func NewScanner(cfg *config.Config) *Scanner {
	s := &Scanner{
		cfg:      cfg,
		includes: append([]string(nil), cfg.Discovery.IncludeGlobs...),
		excludes: append([]string(nil), cfg.Discovery.ExcludeGlobs...),
	}

	if cfg.Discovery.DetectBuildArtifacts {
		detector := config.NewBuildArtifactDetector(cfg.Project.Root)
		s.excludes = append(s.excludes, detector.DetectOutputDirectories()...)
	}

	return s
}

// Discover walks the root and returns matching file paths, relative to the
// root with forward slashes. A missing or unreadable root is a fatal
// FileSystemError; an empty result is valid.
func (s *Scanner) Discover(ctx context.Context) ([]string, error) {
	root := s.cfg.Project.Root

	rootFS := filepath.Clean(root)
	info, err := os.Stat(rootFS)
	if err != nil {
		return nil, archerrors.NewFileSystemError("stat", root, err)
	}
	if !info.IsDir() {
		return nil, archerrors.NewFileSystemError("stat", root, fs.ErrInvalid)
	}

	seen := make(map[string]bool)
	var files []string

	walkErr := filepath.WalkDir(rootFS, func(path string, d fs.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil {
			if path == rootFS {
				return archerrors.NewFileSystemError("walk", root, err)
			}
			return nil // unreadable subtree entries are skipped, not fatal
		}

		rel, relErr := filepath.Rel(rootFS, path)
		if relErr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if path == rootFS {
				return nil
			}
			// Directory patterns match with and without a trailing slash.
			if s.ExcludedDir(rel) {
				return filepath.SkipDir
			}
			return nil
		}

		if s.matchesAny(s.excludes, rel) {
			return nil
		}
		if !s.matchesAny(s.includes, rel) {
			return nil
		}

		if s.cfg.Discovery.MaxFileSize > 0 {
			if fi, err := d.Info(); err != nil || fi.Size() > s.cfg.Discovery.MaxFileSize {
				return nil
			}
		}

		if !seen[rel] {
			seen[rel] = true
			files = append(files, rel)
		}
		return nil
	})

	if walkErr != nil {
		if fsErr, ok := walkErr.(*archerrors.FileSystemError); ok {
			return nil, fsErr
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, archerrors.NewFileSystemError("walk", root, walkErr)
	}

	sort.Strings(files)
	return files, nil
}

// Matches reports whether a root-relative file path passes the configured
// include and exclude globs. Watch mode uses it to filter change events
// with the same rules discovery applies.
func (s *Scanner) Matches(rel string) bool {
	return !s.matchesAny(s.excludes, rel) && s.matchesAny(s.includes, rel)
}

// ExcludedDir reports whether a root-relative directory is excluded.
func (s *Scanner) ExcludedDir(rel string) bool {
	return s.matchesAny(s.excludes, rel) || s.matchesAny(s.excludes, rel+"/")
}

// matchesAny reports whether the root-relative path matches any pattern.
// Patterns use doublestar syntax, so "**" spans directories.
func (s *Scanner) matchesAny(patterns []string, path string) bool {
	for _, pattern := range patterns {
		if matched, err := doublestar.Match(pattern, path); err == nil && matched {
			return true
		}
	}
	return false
}
