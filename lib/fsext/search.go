package fsext

import (
	"fmt"
	"path/filepath"
	"sort"
)

// SearchPatterns turns the configured paths into glob patterns: the home
// directory is expanded, relative paths are joined with cwd and directories
// become "dir/*". Empty paths are dropped.
func SearchPatterns(fs Fs, paths []string, home, cwd string) []string {
	patterns := make([]string, 0, len(paths))
	for _, path := range paths {
		if path == "" {
			continue
		}
		path = Abs(cwd, ExpandHome(path, home))
		if isDir, err := IsDir(fs, path); err == nil && isDir {
			path = filepath.Join(path, "*")
		}
		patterns = append(patterns, path)
	}
	return patterns
}

// ResolveFiles globs every pattern in order. The matches of a single pattern
// are sorted, so "99_local.ini" comes after "10_base.ini" and overrides it.
// Directories are skipped.
func ResolveFiles(fs Fs, patterns []string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		matches, err := Glob(fs, pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid search pattern %q: %w", pattern, err)
		}
		sort.Strings(matches)
		for _, match := range matches {
			if isDir, err := IsDir(fs, match); err == nil && isDir {
				continue
			}
			files = append(files, match)
		}
	}
	return files, nil
}
