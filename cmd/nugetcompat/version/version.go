// Package version provides build-time version information for the nugetcompat CLI.
// Values are injected with -ldflags "-X github.com/willibrandon/nugetcompat/cmd/nugetcompat/version.Version=v0.1.0".
// Binaries built without ldflags fall back to the VCS stamp go build embeds.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Defaults for builds without ldflags.
const (
	DefaultVersion = "dev"
	DefaultCommit  = "none"
	DefaultDate    = "unknown"
)

// Build-time variables injected via -ldflags -X
var (
	// Version is the semantic version (e.g., "v0.1.0" or "dev")
	Version = DefaultVersion

	// Commit is the short git commit SHA
	Commit = DefaultCommit

	// Date is the ISO 8601 build timestamp
	Date = DefaultDate

	// GoVersion is the Go version used to build the binary
	GoVersion = runtime.Version()
)

// shortCommitLen matches `git rev-parse --short`.
const shortCommitLen = 7

// BuildInfo describes the running binary.
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"built"`
	GoVersion string `json:"go"`

	// Modified is set when the binary was built from a dirty work tree.
	Modified bool `json:"modified,omitempty"`
}

// readBuildInfo is swapped in tests.
var readBuildInfo = debug.ReadBuildInfo

// Current returns the injected values. Any value left at its default is
// filled from the module version and VCS settings recorded by go build.
func Current() BuildInfo {
	info := BuildInfo{Version: Version, Commit: Commit, Date: Date, GoVersion: GoVersion}

	bi, ok := readBuildInfo()
	if !ok || bi == nil {
		return info
	}

	if info.Version == DefaultVersion && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == DefaultCommit && s.Value != "" {
				info.Commit = s.Value[:min(len(s.Value), shortCommitLen)]
			}
		case "vcs.time":
			if info.Date == DefaultDate && s.Value != "" {
				info.Date = s.Value
			}
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
	return info
}

// Info returns a one-line version string.
// Example output: "nugetcompat version v0.1.0 (commit: a1b2c3d, built: 2026-01-04T12:00:00Z)"
func Info() string {
	info := Current()
	return fmt.Sprintf("nugetcompat version %s (commit: %s, built: %s)",
		info.Version, info.Commit, info.Date)
}

// FullInfo adds the Go version to Info.
func FullInfo() string {
	info := Current()
	return fmt.Sprintf("nugetcompat version %s (commit: %s, built: %s, go: %s)",
		info.Version, info.Commit, info.Date, info.GoVersion)
}
