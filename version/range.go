package version

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Range represents a range of acceptable versions.
//
// Syntax:
//
//	[1.0, 2.0]   - 1.0 ≤ x ≤ 2.0 (inclusive)
//	(1.0, 2.0)   - 1.0 < x < 2.0 (exclusive)
//	[1.0, 2.0)   - 1.0 ≤ x < 2.0 (mixed)
//	[1.0, )      - x ≥ 1.0 (open upper)
//	(, 2.0]      - x ≤ 2.0 (open lower)
//	[1.0]        - x == 1.0 (exact)
//	1.0          - x ≥ 1.0 (implicit minimum)
//
// Whitespace is ignored anywhere in the expression, including inside a
// version literal.
type Range struct {
	MinVersion   *NuGetVersion
	MaxVersion   *NuGetVersion
	MinInclusive bool
	MaxInclusive bool
}

// InvalidRangeError reports a malformed version range. Value is the
// expression exactly as the caller supplied it.
type InvalidRangeError struct {
	Value string
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("'%s' is not a valid version string.", e.Value)
}

// ErrInvalidRange matches any *InvalidRangeError with errors.Is.
var ErrInvalidRange = errors.New("invalid version range")

// Is lets errors.Is(err, ErrInvalidRange) match.
func (e *InvalidRangeError) Is(target error) bool {
	return target == ErrInvalidRange
}

// singleValueBounds gives the inclusivity of a bracketed range holding one
// version and no comma, keyed by its opening and closing delimiters.
var singleValueBounds = map[[2]byte][2]bool{
	{'[', ']'}: {true, true},
	{'(', ')'}: {false, false},
	{'[', ')'}: {true, false},
	{'(', ']'}: {false, true},
}

// ParseVersionRange parses a version range string.
func ParseVersionRange(s string) (*Range, error) {
	r, ok := parseRange(s)
	if !ok {
		return nil, &InvalidRangeError{Value: s}
	}
	return r, nil
}

// TryParseVersionRange parses a version range string, returning false
// instead of an error when the expression is malformed.
func TryParseVersionRange(s string) (*Range, bool) {
	return parseRange(s)
}

// MustParseRange parses a version range string and panics on error.
// Use this only when you know the range string is valid.
func MustParseRange(s string) *Range {
	r, err := ParseVersionRange(s)
	if err != nil {
		panic(err)
	}
	return r
}

func parseRange(s string) (*Range, bool) {
	value := stripSpace(s)
	if value == "" {
		return nil, false
	}

	// A bare version means "this version or higher"
	if value[0] != '[' && value[0] != '(' {
		v, ok := TryParse(value)
		if !ok {
			return nil, false
		}
		return &Range{MinVersion: v, MinInclusive: true}, true
	}

	if len(value) < 3 {
		return nil, false
	}
	open, closing := value[0], value[len(value)-1]
	if closing != ']' && closing != ')' {
		return nil, false
	}

	parts := strings.Split(value[1:len(value)-1], ",")
	if len(parts) > 2 {
		return nil, false
	}
	if allEmpty(parts) {
		return nil, false
	}

	r := &Range{
		MinInclusive: open == '[',
		MaxInclusive: closing == ']',
	}

	minPart := parts[0]
	maxPart := minPart
	if len(parts) == 2 {
		maxPart = parts[1]
	} else {
		bounds := singleValueBounds[[2]byte{open, closing}]
		r.MinInclusive, r.MaxInclusive = bounds[0], bounds[1]
	}

	if minPart != "" {
		v, ok := TryParse(minPart)
		if !ok {
			return nil, false
		}
		r.MinVersion = v
	}

	if maxPart != "" {
		v, ok := TryParse(maxPart)
		if !ok {
			return nil, false
		}
		r.MaxVersion = v
	}

	return r, true
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

func allEmpty(parts []string) bool {
	for _, p := range parts {
		if p != "" {
			return false
		}
	}
	return true
}

// Satisfies returns true if the version satisfies this range.
func (r *Range) Satisfies(version *NuGetVersion) bool {
	if version == nil {
		return false
	}

	// Check lower bound
	if r.MinVersion != nil {
		cmp := version.Compare(r.MinVersion)
		if r.MinInclusive {
			if cmp < 0 {
				return false
			}
		} else {
			if cmp <= 0 {
				return false
			}
		}
	}

	// Check upper bound
	if r.MaxVersion != nil {
		cmp := version.Compare(r.MaxVersion)
		if r.MaxInclusive {
			if cmp > 0 {
				return false
			}
		} else {
			if cmp >= 0 {
				return false
			}
		}
	}

	return true
}

// FindBestMatch returns the lowest version that satisfies the range,
// preferring stable versions over prereleases.
//
// Returns nil if no version satisfies the range.
func (r *Range) FindBestMatch(versions []*NuGetVersion) *NuGetVersion {
	var bestStable, bestPrerelease *NuGetVersion

	for _, v := range versions {
		if !r.Satisfies(v) {
			continue
		}
		if v.IsPrerelease() {
			if bestPrerelease == nil || v.LessThan(bestPrerelease) {
				bestPrerelease = v
			}
			continue
		}
		if bestStable == nil || v.LessThan(bestStable) {
			bestStable = v
		}
	}

	if bestStable != nil {
		return bestStable
	}
	return bestPrerelease
}

// String returns the range in the syntax ParseVersionRange accepts.
func (r *Range) String() string {
	if r.MinVersion != nil && r.MinInclusive && r.MaxVersion == nil && !r.MaxInclusive {
		return r.MinVersion.String()
	}

	if r.isExact() {
		return "[" + r.MinVersion.String() + "]"
	}

	minBracket := "("
	if r.MinInclusive {
		minBracket = "["
	}
	maxBracket := ")"
	if r.MaxInclusive {
		maxBracket = "]"
	}

	return fmt.Sprintf("%s%s, %s%s", minBracket, r.MinVersion.String(), r.MaxVersion.String(), maxBracket)
}

// PrettyPrint renders the range for humans, e.g. "(≥ 1.0 && < 2.0)".
func (r *Range) PrettyPrint() string {
	if r.MinVersion != nil && r.MinInclusive && r.MaxVersion == nil && !r.MaxInclusive {
		return fmt.Sprintf("(≥ %s)", r.MinVersion)
	}

	if r.isExact() {
		return fmt.Sprintf("(= %s)", r.MinVersion)
	}

	var parts []string
	if r.MinVersion != nil {
		op := ">"
		if r.MinInclusive {
			op = "≥"
		}
		parts = append(parts, fmt.Sprintf("%s %s", op, r.MinVersion))
	}
	if r.MaxVersion != nil {
		op := "<"
		if r.MaxInclusive {
			op = "≤"
		}
		parts = append(parts, fmt.Sprintf("%s %s", op, r.MaxVersion))
	}

	return "(" + strings.Join(parts, " && ") + ")"
}

func (r *Range) isExact() bool {
	return r.MinVersion != nil && r.MaxVersion != nil &&
		r.MinInclusive && r.MaxInclusive &&
		r.MinVersion.Equals(r.MaxVersion)
}
