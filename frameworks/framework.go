// Package frameworks provides legacy NuGet target framework parsing,
// formatting and compatibility checking.
//
// It understands the full set of pre-NuGet 3 framework monikers: .NET
// Framework with client/compact profiles, Silverlight and Windows Phone,
// Windows Store (.NETCore), portable class library profiles, the Xamarin
// platforms, DNX and ASP.NET 5, and the early .NET Platform/Standard names.
//
// Example:
//
//	fw, err := frameworks.ParseFramework("net40-client")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(fw.Identifier, fw.Version, fw.Profile) // .NETFramework 4.0 Client
package frameworks

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

var (
	// ErrFrameworkNameMissing is returned for monikers without an identifier or version.
	ErrFrameworkNameMissing = errors.New("framework name is missing")

	// ErrInvalidFrameworkFormat is returned for monikers with more than one dash.
	ErrInvalidFrameworkFormat = errors.New("invalid framework name format, expected {framework}{version}-{profile}")
)

// PortableProfileError reports a malformed portable profile part.
type PortableProfileError struct {
	Moniker string
	Reason  string
}

func (e *PortableProfileError) Error() string {
	return fmt.Sprintf("invalid portable framework %q: %s", e.Moniker, e.Reason)
}

// Reasons carried by PortableProfileError.
const (
	ReasonEmptyProfile    = "portable target framework must not have an empty profile part"
	ReasonProfileSpace    = "the profile part of a portable target framework must not contain empty space"
	ReasonEmptyComponent  = "the profile part of a portable target framework must not contain empty component"
	ReasonNestedPortable  = "the profile part of a portable target framework must not contain a portable framework component"
	maxCompactVersionSize = 4
)

// NuGetFramework is a parsed target framework: a canonical identifier, a
// four-component version and an optional profile.
//
// Values returned by this package are never mutated after construction.
type NuGetFramework struct {
	// Identifier is the canonical framework identifier (e.g., ".NETFramework")
	// or Unsupported.
	Identifier string

	// Version is the framework version; missing components are zero.
	Version FrameworkVersion

	// Profile is "" when the framework has none. For portable frameworks it
	// is a catalog profile name or a "+"-joined member list.
	Profile string
}

// FrameworkVersion represents a framework version number.
type FrameworkVersion struct {
	Major    int
	Minor    int
	Build    int
	Revision int
}

// String returns the string representation of the framework version.
// It trims trailing zero components down to two:
//   - 4.5.1.0 → "4.5.1"
//   - 4.0.0.0 → "4.0"
//   - 0.0.0.0 → "0.0"
func (v FrameworkVersion) String() string {
	if v.Revision > 0 {
		return fmt.Sprintf("%d.%d.%d.%d", v.Major, v.Minor, v.Build, v.Revision)
	}
	if v.Build > 0 {
		return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Build)
	}
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Compare compares two framework versions.
// Returns -1 if v < other, 0 if v == other, 1 if v > other.
func (v FrameworkVersion) Compare(other FrameworkVersion) int {
	a := [4]int{v.Major, v.Minor, v.Build, v.Revision}
	b := [4]int{other.Major, other.Minor, other.Build, other.Revision}
	for i := range a {
		if a[i] < b[i] {
			return -1
		}
		if a[i] > b[i] {
			return 1
		}
	}
	return 0
}

// IsEmpty returns true if the version is empty (0.0.0.0).
func (v FrameworkVersion) IsEmpty() bool {
	return v.Major == 0 && v.Minor == 0 && v.Build == 0 && v.Revision == 0
}

// components returns the non-trimmed components used for short names.
func (v FrameworkVersion) components() []int {
	c := []int{v.Major, v.Minor, v.Build, v.Revision}
	n := 4
	for n > 2 && c[n-1] == 0 {
		n--
	}
	return c[:n]
}

// ParseFrameworkVersion parses a dotted version of two to four components.
func ParseFrameworkVersion(s string) (FrameworkVersion, error) {
	parts := strings.Split(s, ".")
	if len(parts) < 2 || len(parts) > 4 {
		return FrameworkVersion{}, fmt.Errorf("invalid framework version: %q", s)
	}

	var c [4]int
	for i, p := range parts {
		if p == "" || strings.TrimFunc(p, unicode.IsDigit) != "" {
			return FrameworkVersion{}, fmt.Errorf("invalid framework version: %q", s)
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return FrameworkVersion{}, fmt.Errorf("invalid framework version: %q: %w", s, err)
		}
		c[i] = n
	}

	return FrameworkVersion{Major: c[0], Minor: c[1], Build: c[2], Revision: c[3]}, nil
}

// IsPortable returns true if this is a Portable Class Library framework.
func (fw *NuGetFramework) IsPortable() bool {
	return fw != nil && strings.EqualFold(fw.Identifier, NetPortable)
}

// IsUnsupported returns true if the moniker could not be resolved.
func (fw *NuGetFramework) IsUnsupported() bool {
	return fw != nil && fw.Identifier == Unsupported
}

// Equals checks if two frameworks are equal. Identifiers and profiles
// compare case-insensitively.
func (fw *NuGetFramework) Equals(other *NuGetFramework) bool {
	if fw == nil || other == nil {
		return fw == other
	}
	return strings.EqualFold(fw.Identifier, other.Identifier) &&
		fw.Version.Compare(other.Version) == 0 &&
		strings.EqualFold(fw.Profile, other.Profile)
}

// String returns the long display form, e.g.
// ".NETFramework,Version=v4.0,Profile=Client".
func (fw *NuGetFramework) String() string {
	if fw == nil {
		return ""
	}
	s := fw.Identifier + ",Version=v" + fw.Version.String()
	if fw.Profile != "" {
		s += ",Profile=" + fw.Profile
	}
	return s
}

// GetFrameworkString returns the compact long form used in package
// manifests, e.g. ".NETFramework4.0-Client".
func GetFrameworkString(fw *NuGetFramework) string {
	if fw == nil {
		return ""
	}
	s := fw.Identifier + fw.Version.String()
	if fw.Profile != "" {
		s += "-" + fw.Profile
	}
	return s
}

// ParseFramework parses a moniker with the default engine.
//
// Supported formats:
//
//	net40            - .NETFramework 4.0
//	net40-client     - .NETFramework 4.0, Client profile
//	4.0, 40, 4       - .NETFramework 4.0
//	sl3-wp           - Silverlight 3.0, WindowsPhone profile
//	winrt45          - .NETCore 4.5
//	netstandard1.3   - .NETStandard 1.3
//	portable-net45+win8   - portable profile
//	portable-Profile7     - portable profile by catalog name
//
// Unknown identifiers and malformed versions yield Unsupported rather than
// an error. Errors are returned only for structurally invalid monikers.
func ParseFramework(name string) (*NuGetFramework, error) {
	return Default().Parse(name)
}

// MustParseFramework parses a moniker and panics on error.
func MustParseFramework(name string) *NuGetFramework {
	fw, err := ParseFramework(name)
	if err != nil {
		panic(err)
	}
	return fw
}

// Parse parses a moniker, resolving portable profiles against the engine's catalog.
func (e *Engine) Parse(name string) (*NuGetFramework, error) {
	return e.parse(name, true)
}

// MustParse parses a moniker and panics on error.
func (e *Engine) MustParse(name string) *NuGetFramework {
	fw, err := e.Parse(name)
	if err != nil {
		panic(err)
	}
	return fw
}

func (e *Engine) parse(name string, allowPortable bool) (*NuGetFramework, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrFrameworkNameMissing
	}

	parts := strings.Split(name, "-")
	if len(parts) > 2 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFrameworkFormat, name)
	}

	frameworkPart := strings.TrimSpace(parts[0])
	if frameworkPart == "" {
		return nil, ErrFrameworkNameMissing
	}

	identifierPart, versionPart := splitIdentifierVersion(frameworkPart)

	identifier := NetFramework
	if identifierPart != "" {
		id, ok := resolveIdentifier(identifierPart)
		if !ok {
			return unsupported(), nil
		}
		identifier = id
	}

	if identifier == NetPortable {
		if !allowPortable {
			return nil, &PortableProfileError{Moniker: name, Reason: ReasonNestedPortable}
		}
		profilePart := ""
		if len(parts) == 2 {
			profilePart = parts[1]
		}
		return e.parsePortable(name, profilePart)
	}

	version := defaultVersions[identifier]
	if versionPart != "" {
		v, ok := parseMonikerVersion(versionPart)
		if !ok {
			return unsupported(), nil
		}
		version = v
	}

	profile := ""
	if len(parts) == 2 {
		profile = parseProfileSuffix(identifier, strings.TrimSpace(parts[1]))
	}

	return &NuGetFramework{Identifier: identifier, Version: version, Profile: profile}, nil
}

func unsupported() *NuGetFramework {
	return &NuGetFramework{Identifier: Unsupported}
}

// splitIdentifierVersion splits "net40" into "net" and "40". A token whose
// tail is not a pure version is all identifier.
func splitIdentifierVersion(s string) (string, string) {
	i := strings.IndexFunc(s, func(r rune) bool {
		return !(unicode.IsLetter(r) || r == '.')
	})
	if i < 0 {
		return s, ""
	}
	if strings.TrimFunc(s[i:], func(r rune) bool { return unicode.IsDigit(r) || r == '.' }) != "" {
		return s, ""
	}
	return s[:i], s[i:]
}

// parseMonikerVersion reads "45" as 4.5 and "4.5.1" as 4.5.1.
func parseMonikerVersion(s string) (FrameworkVersion, bool) {
	if !strings.Contains(s, ".") {
		v, err := parseCompactVersion(s)
		return v, err == nil
	}
	v, err := ParseFrameworkVersion(s)
	return v, err == nil
}

// parseCompactVersion parses dot-free versions one digit per component:
//
//	"4"     → 4.0
//	"45"    → 4.5
//	"451"   → 4.5.1
//	"41235" → 4.1.2.3 (digits past the fourth are dropped)
func parseCompactVersion(s string) (FrameworkVersion, error) {
	if s == "" {
		return FrameworkVersion{}, fmt.Errorf("empty version")
	}
	if len(s) > maxCompactVersionSize {
		s = s[:maxCompactVersionSize]
	}

	var c [4]int
	for i, r := range s {
		if r < '0' || r > '9' {
			return FrameworkVersion{}, fmt.Errorf("invalid compact version: %s", s)
		}
		c[i] = int(r - '0')
	}

	return FrameworkVersion{Major: c[0], Minor: c[1], Build: c[2], Revision: c[3]}, nil
}

// parsePortable validates and resolves the profile part of a portable moniker.
func (e *Engine) parsePortable(name, profilePart string) (*NuGetFramework, error) {
	if strings.TrimSpace(profilePart) == "" {
		return nil, &PortableProfileError{Moniker: name, Reason: ReasonEmptyProfile}
	}
	if strings.IndexFunc(profilePart, unicode.IsSpace) >= 0 {
		return nil, &PortableProfileError{Moniker: name, Reason: ReasonProfileSpace}
	}

	tokens := strings.Split(profilePart, "+")
	for _, t := range tokens {
		if t == "" {
			return nil, &PortableProfileError{Moniker: name, Reason: ReasonEmptyComponent}
		}
	}

	if len(tokens) == 1 {
		if p, ok := e.catalog.ByName(tokens[0]); ok {
			return &NuGetFramework{Identifier: NetPortable, Profile: p.Name}, nil
		}
	}

	members := make([]*NuGetFramework, len(tokens))
	for i, t := range tokens {
		m, err := e.parse(t, false)
		if err != nil {
			var pe *PortableProfileError
			if errors.As(err, &pe) {
				pe.Moniker = name
			}
			return nil, err
		}
		members[i] = m
	}

	if p, ok := e.FindProfile(members); ok {
		return &NuGetFramework{Identifier: NetPortable, Profile: p.Name}, nil
	}

	return &NuGetFramework{Identifier: NetPortable, Profile: e.joinMembers(tokens, members)}, nil
}

// joinMembers builds a member-list profile. Each member is written as its
// short name when that reads back as the same framework, else as given.
func (e *Engine) joinMembers(tokens []string, members []*NuGetFramework) string {
	names := make([]string, len(members))
	for i, m := range members {
		names[i] = e.memberName(tokens[i], m)
	}
	return strings.Join(names, "+")
}

func (e *Engine) memberName(token string, member *NuGetFramework) string {
	if member.IsUnsupported() && token != "" {
		return token
	}
	short := e.ShortName(member)
	if back, err := e.parse(short, false); err == nil && back.Equals(member) {
		return short
	}
	if token == "" {
		return short
	}
	return token
}

// ParseFullFrameworkName parses the long display form produced by String,
// e.g. ".NETFramework,Version=v4.0,Profile=Client" or "UAP, Version=10.0".
func ParseFullFrameworkName(s string) (*NuGetFramework, error) {
	parts := strings.Split(s, ",")
	identifier := strings.TrimSpace(parts[0])
	if identifier == "" {
		return nil, ErrFrameworkNameMissing
	}

	fw := &NuGetFramework{Identifier: identifier}
	if id, ok := canonicalIdentifier(identifier); ok {
		fw.Identifier = id
	}

	hasVersion := false
	for _, p := range parts[1:] {
		key, value, ok := strings.Cut(p, "=")
		if !ok {
			return nil, fmt.Errorf("invalid framework name component %q in %q", p, s)
		}
		key, value = strings.TrimSpace(key), strings.TrimSpace(value)
		switch strings.ToLower(key) {
		case "version":
			v, err := ParseFrameworkVersion(strings.TrimPrefix(strings.TrimPrefix(value, "v"), "V"))
			if err != nil {
				return nil, err
			}
			fw.Version = v
			hasVersion = true
		case "profile":
			fw.Profile = value
		default:
			return nil, fmt.Errorf("unknown framework name component %q in %q", key, s)
		}
	}
	if !hasVersion {
		return nil, fmt.Errorf("framework name %q has no version", s)
	}

	return fw, nil
}

// MustParseFullFrameworkName parses a long display form and panics on error.
func MustParseFullFrameworkName(s string) *NuGetFramework {
	fw, err := ParseFullFrameworkName(s)
	if err != nil {
		panic(err)
	}
	return fw
}
