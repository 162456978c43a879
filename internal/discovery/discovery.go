// Package discovery locates result artifacts under the results root.
package discovery

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrRootNotFound indicates the directory to search does not exist at all.
// This is distinct from finding zero artifacts: a missing root means the
// upstream evaluation stage never ran, and the caller must say so rather
// than report an empty result set.
var ErrRootNotFound = errors.New("results directory does not exist")

// Discover walks root recursively and returns every path whose base name
// equals filename exactly, sorted lexicographically so downstream output is
// deterministic. Hidden directories are skipped.
func Discover(root, filename string) ([]string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving root path: %w", err)
	}

	info, err := os.Stat(absRoot)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrRootNotFound, absRoot)
		}
		return nil, fmt.Errorf("checking root path: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrRootNotFound, absRoot)
	}

	var matches []string

	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip inaccessible entries
		}
		if d.IsDir() && strings.HasPrefix(d.Name(), ".") && path != absRoot {
			return fs.SkipDir
		}
		if !d.IsDir() && d.Name() == filename {
			matches = append(matches, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking directory %s: %w", absRoot, err)
	}

	sort.Strings(matches)
	return matches, nil
}
