package config

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/gobwas/glob"
)

// DefaultTourPatterns match tour files by name.
var DefaultTourPatterns = []string{"*.tour.yaml", "*.tour.yml"}

// TourMatcher selects tour files by glob. Exclude patterns win over
// include patterns. Patterns match slash-separated paths relative to the
// search root, and * also crosses directories.
type TourMatcher struct {
	include []glob.Glob
	exclude []glob.Glob
}

// NewTourMatcher compiles the patterns. No include patterns means
// DefaultTourPatterns.
func NewTourMatcher(include, exclude []string) (*TourMatcher, error) {
	if len(include) == 0 {
		include = DefaultTourPatterns
	}
	m := &TourMatcher{}
	for _, pattern := range include {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid include pattern '%s': %w", pattern, err)
		}
		m.include = append(m.include, g)
	}
	for _, pattern := range exclude {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern '%s': %w", pattern, err)
		}
		m.exclude = append(m.exclude, g)
	}
	return m, nil
}

// Match reports whether the relative path selects a tour file.
func (m *TourMatcher) Match(rel string) bool {
	rel = filepath.ToSlash(filepath.Clean(rel))
	for _, g := range m.exclude {
		if g.Match(rel) {
			return false
		}
	}
	for _, g := range m.include {
		if g.Match(rel) {
			return true
		}
	}
	return false
}

// DiscoverTours walks dir and returns the matching files, sorted.
func DiscoverTours(dir string, include, exclude []string) ([]string, error) {
	m, err := NewTourMatcher(include, exclude)
	if err != nil {
		return nil, err
	}

	var found []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		if m.Match(rel) {
			found = append(found, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to discover tours in %s: %w", dir, err)
	}
	sort.Strings(found)
	return found, nil
}
