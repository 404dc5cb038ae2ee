// Package version provides legacy NuGet version parsing, comparison and
// version range handling.
//
// Versions carry between two and four numeric components plus optional
// prerelease labels and build metadata. The number of components written is
// remembered for display ("1.1" and "1.1.0" print differently) but ignored by
// comparison.
//
// Example:
//
//	v, err := version.Parse("1.2.3-beta.1")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(v.Major, v.Minor, v.Patch) // 1 2 3
package version

import (
	"fmt"
	"strconv"
	"strings"
)

// NuGetVersion represents a NuGet package version.
type NuGetVersion struct {
	// Major version number
	Major int

	// Minor version number
	Minor int

	// Patch version number (Build for legacy versions)
	Patch int

	// Revision is only used for 4-part versions (Major.Minor.Build.Revision)
	Revision int

	// IsLegacyVersion indicates a 4-part version
	IsLegacyVersion bool

	// ReleaseLabels contains prerelease labels (e.g., ["beta", "1"] for "1.0.0-beta.1")
	ReleaseLabels []string

	// Metadata is the build metadata, ignored in comparison
	Metadata string

	// components is the number of numeric components as written (2-4).
	// Zero means "unspecified" and formats as 3, or 4 for legacy versions.
	components int
}

// NewVersion creates a version from its numeric components. The number of
// arguments (2 to 4) decides how many components String prints.
func NewVersion(parts ...int) *NuGetVersion {
	v := &NuGetVersion{}
	n := len(parts)
	if n < 2 {
		n = 2
	}
	if n > 4 {
		n = 4
	}
	fields := []*int{&v.Major, &v.Minor, &v.Patch, &v.Revision}
	for i := 0; i < len(parts) && i < 4; i++ {
		*fields[i] = parts[i]
	}
	v.components = n
	v.IsLegacyVersion = n == 4
	return v
}

// Components returns the number of numeric components the version was written with.
func (v *NuGetVersion) Components() int {
	switch {
	case v.components != 0:
		return v.components
	case v.IsLegacyVersion:
		return 4
	default:
		return 3
	}
}

// WithComponents returns a copy of v displayed with n numeric components.
// Components dropped by a shorter display are zeroed.
func (v *NuGetVersion) WithComponents(n int) *NuGetVersion {
	if n < 2 {
		n = 2
	}
	if n > 4 {
		n = 4
	}
	c := *v
	if n < 4 {
		c.Revision = 0
	}
	if n < 3 {
		c.Patch = 0
	}
	c.components = n
	c.IsLegacyVersion = n == 4
	if v.ReleaseLabels != nil {
		c.ReleaseLabels = append([]string(nil), v.ReleaseLabels...)
	}
	return &c
}

// IsPrerelease returns true if the version has prerelease labels.
func (v *NuGetVersion) IsPrerelease() bool {
	return len(v.ReleaseLabels) > 0
}

// String returns the version with as many components as it was written with.
func (v *NuGetVersion) String() string {
	if v == nil {
		return ""
	}
	return v.format(v.Components())
}

// ToNormalizedString returns the version with at least three components.
//
// Examples:
//   - "1" → "1.0.0"
//   - "1.2" → "1.2.0"
//   - "1.0.0.0" → "1.0.0.0" (legacy preserved)
func (v *NuGetVersion) ToNormalizedString() string {
	n := v.Components()
	if n < 3 {
		n = 3
	}
	return v.format(n)
}

// format creates a version string with n numeric components.
func (v *NuGetVersion) format(n int) string {
	var sb strings.Builder
	sb.WriteString(strconv.Itoa(v.Major))
	sb.WriteByte('.')
	sb.WriteString(strconv.Itoa(v.Minor))
	if n >= 3 {
		sb.WriteByte('.')
		sb.WriteString(strconv.Itoa(v.Patch))
	}
	if n >= 4 {
		sb.WriteByte('.')
		sb.WriteString(strconv.Itoa(v.Revision))
	}

	if len(v.ReleaseLabels) > 0 {
		sb.WriteByte('-')
		sb.WriteString(strings.Join(v.ReleaseLabels, "."))
	}

	if v.Metadata != "" {
		sb.WriteByte('+')
		sb.WriteString(v.Metadata)
	}

	return sb.String()
}

// Parse parses a version string into a NuGetVersion.
//
// Supported formats:
//   - Major[.Minor[.Build[.Revision]]]
//   - any of the above followed by [-Prerelease][+Metadata]
//
// A single component is read as Major.0. Returns an error for empty or
// negative components and for more than four components.
func Parse(s string) (*NuGetVersion, error) {
	if s == "" {
		return nil, fmt.Errorf("version string cannot be empty")
	}

	v := &NuGetVersion{}

	// Split on '+' to extract metadata
	versionPart, metadata, hasMetadata := strings.Cut(s, "+")
	if hasMetadata {
		if metadata == "" {
			return nil, fmt.Errorf("invalid version format: %q", s)
		}
		v.Metadata = metadata
	}

	// Split on '-' to extract prerelease labels
	numberPart, labels, hasLabels := strings.Cut(versionPart, "-")
	if hasLabels {
		v.ReleaseLabels = parseReleaseLabels(labels)
		if v.ReleaseLabels == nil {
			return nil, fmt.Errorf("invalid version format: %q", s)
		}
	}

	numbers := strings.Split(numberPart, ".")
	if len(numbers) > 4 {
		return nil, fmt.Errorf("invalid version format: %q", s)
	}

	fields := []*int{&v.Major, &v.Minor, &v.Patch, &v.Revision}
	names := []string{"major version", "minor version", "patch version", "revision"}
	for i, n := range numbers {
		value, err := strconv.Atoi(n)
		if err != nil || value < 0 || !isDigits(n) {
			return nil, fmt.Errorf("invalid %s: %q", names[i], n)
		}
		*fields[i] = value
	}

	v.components = max(len(numbers), 2)
	v.IsLegacyVersion = len(numbers) == 4

	return v, nil
}

// MustParse parses a version string and panics on error.
// Use this only when you know the version string is valid.
func MustParse(s string) *NuGetVersion {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// TryParse parses a version string, reporting success instead of an error.
func TryParse(s string) (*NuGetVersion, bool) {
	v, err := Parse(s)
	if err != nil {
		return nil, false
	}
	return v, true
}

// parseReleaseLabels splits a prerelease string into labels.
// Returns nil if any label is empty.
func parseReleaseLabels(s string) []string {
	if s == "" {
		return nil
	}
	labels := strings.Split(s, ".")
	for _, l := range labels {
		if l == "" {
			return nil
		}
	}
	return labels
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
