package version

import "iter"

// TrimVersion drops trailing zero components, never going below two.
//
//	1.2.0.0 → 1.2
//	1.2.3.0 → 1.2.3
//	1.2.0.5 → 1.2.0.5
func TrimVersion(v *NuGetVersion) *NuGetVersion {
	if v == nil {
		return nil
	}

	n := v.Components()
	if n == 4 && v.Revision == 0 {
		n = 3
	}
	if n == 3 && v.Patch == 0 {
		n = 2
	}
	return v.WithComponents(n)
}

// GetPossibleVersions yields every spelling of v that compares equal to it:
// the trimmed form first, then each zero-padded form up to four components.
//
//	1.1 → 1.1, 1.1.0, 1.1.0.0
//	1.0.1 → 1.0.1, 1.0.1.0
func GetPossibleVersions(v *NuGetVersion) iter.Seq[*NuGetVersion] {
	return func(yield func(*NuGetVersion) bool) {
		if v == nil {
			return
		}
		trimmed := TrimVersion(v)
		for n := trimmed.Components(); n <= 4; n++ {
			if !yield(trimmed.WithComponents(n)) {
				return
			}
		}
	}
}

// GetSafeRange returns the range of versions safe to update to from v:
// at least v, below the next minor version.
//
//	1.3 → [1.3, 1.4)
//	2.9.45.6 → [2.9.45.6, 2.10)
func GetSafeRange(v *NuGetVersion) *Range {
	if v == nil {
		return nil
	}
	return &Range{
		MinVersion:   v,
		MinInclusive: true,
		MaxVersion:   NewVersion(v.Major, v.Minor+1),
	}
}
