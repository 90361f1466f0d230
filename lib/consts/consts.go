// Package consts houses some constants needed across getconf
package consts

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

// Version contains the current semantic version of getconf.
const Version = "1.1.0"

// VersionDetails returns the version and the build information: Go version,
// platform and, when built from a repository, the commit.
func VersionDetails() map[string]string {
	details := map[string]string{
		"version":    "v" + Version,
		"go_version": runtime.Version(),
		"go_os":      runtime.GOOS,
		"go_arch":    runtime.GOARCH,
	}

	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return details
	}
	var commit, dirty string
	for _, s := range buildInfo.Settings {
		switch s.Key {
		case "vcs.revision":
			commitLen := 10
			if len(s.Value) < commitLen {
				commitLen = len(s.Value)
			}
			commit = s.Value[:commitLen]
		case "vcs.modified":
			if s.Value == "true" {
				dirty = "-dirty"
			}
		}
	}
	if commit != "" {
		details["commit"] = commit + dirty
	}
	return details
}

// FullVersion returns the version with the build details, e.g.
// "v1.1.0 (commit/0123456789, go1.21.5, linux/amd64)".
func FullVersion() string {
	details := VersionDetails()
	parts := make([]string, 0, 3)
	if commit, ok := details["commit"]; ok {
		parts = append(parts, "commit/"+commit)
	}
	parts = append(parts, details["go_version"], fmt.Sprintf("%s/%s", details["go_os"], details["go_arch"]))
	return fmt.Sprintf("%s (%s)", details["version"], strings.Join(parts, ", "))
}
