package cli

import "github.com/willibrandon/nugetcompat/cmd/nugetcompat/version"

// GetVersion returns the release version.
func GetVersion() string {
	return version.Current().Version
}

// GetFullVersion returns the multi-line version block printed by
// `nugetcompat version` and `--version`.
func GetFullVersion() string {
	info := version.Current()
	commit := info.Commit
	if info.Modified {
		commit += " (modified)"
	}
	return "nugetcompat version " + info.Version + "\n" +
		"commit: " + commit + "\n" +
		"built: " + info.Date + "\n" +
		"go: " + info.GoVersion
}
