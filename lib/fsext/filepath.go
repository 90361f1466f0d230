// Package fsext provides the file system helpers used to locate and read
// configuration files.
package fsext

import (
	"path/filepath"
	"strings"
)

// Abs returns an absolute representation of path.
//
// If the path is not absolute it is joined with root, which is assumed to
// be a directory (usually the working directory).
func Abs(root, path string) string {
	if path == "" {
		return filepath.Clean(root)
	}
	if !filepath.IsAbs(path) && path[0] != '/' && path[0] != '\\' {
		path = filepath.Join(root, path)
	}
	return filepath.Clean(path)
}

// ExpandHome replaces a leading "~" (alone or followed by a separator) with
// home. Paths of the form "~user/..." are returned unchanged.
func ExpandHome(path, home string) string {
	if home == "" || !strings.HasPrefix(path, "~") {
		return path
	}
	if path == "~" {
		return home
	}
	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(home, path[2:])
	}
	return path
}
