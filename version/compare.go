package version

import (
	"strconv"
	"strings"
)

// Compare compares two versions.
// Returns -1 if v < other, 0 if v == other, 1 if v > other.
//
// Numeric components are compared first; missing components count as zero,
// so "1.1" and "1.1.0.0" are equal. A release version sorts above any
// prerelease of the same numbers. Metadata is ignored.
func (v *NuGetVersion) Compare(other *NuGetVersion) int {
	if v == other {
		return 0
	}
	if v == nil {
		return -1
	}
	if other == nil {
		return 1
	}

	if c := compareInt(v.Major, other.Major); c != 0 {
		return c
	}
	if c := compareInt(v.Minor, other.Minor); c != 0 {
		return c
	}
	if c := compareInt(v.Patch, other.Patch); c != 0 {
		return c
	}
	if c := compareInt(v.Revision, other.Revision); c != 0 {
		return c
	}

	return compareReleaseLabels(v.ReleaseLabels, other.ReleaseLabels)
}

// Equals returns true if both versions compare equal.
func (v *NuGetVersion) Equals(other *NuGetVersion) bool {
	return v.Compare(other) == 0
}

// LessThan returns true if v sorts before other.
func (v *NuGetVersion) LessThan(other *NuGetVersion) bool {
	return v.Compare(other) < 0
}

// GreaterThan returns true if v sorts after other.
func (v *NuGetVersion) GreaterThan(other *NuGetVersion) bool {
	return v.Compare(other) > 0
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// compareReleaseLabels orders prerelease labels the SemVer 2.0 way.
func compareReleaseLabels(a, b []string) int {
	switch {
	case len(a) == 0 && len(b) == 0:
		return 0
	case len(a) == 0:
		return 1
	case len(b) == 0:
		return -1
	}

	for i := 0; i < len(a) && i < len(b); i++ {
		if c := compareLabel(a[i], b[i]); c != 0 {
			return c
		}
	}

	return compareInt(len(a), len(b))
}

// compareLabel compares one prerelease label. Numeric labels sort below
// alphanumeric ones; alphanumeric labels compare case-insensitively.
func compareLabel(a, b string) int {
	aNum, aErr := strconv.Atoi(a)
	bNum, bErr := strconv.Atoi(b)

	switch {
	case aErr == nil && bErr == nil:
		return compareInt(aNum, bNum)
	case aErr == nil:
		return -1
	case bErr == nil:
		return 1
	}

	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}
