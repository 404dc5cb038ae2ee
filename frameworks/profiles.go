package frameworks

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/goccy/go-yaml"
)

// PortableProfile is a named set of frameworks targeted by one portable build.
type PortableProfile struct {
	Name    string
	Members []*NuGetFramework
}

// ProfileCatalog is an immutable, ordered collection of portable profiles.
type ProfileCatalog struct {
	profiles []*PortableProfile
	byName   map[string]*PortableProfile
}

// NewProfileCatalog builds a catalog. Profiles keep the given order, which
// decides both reverse lookup precedence and member order in short names.
func NewProfileCatalog(profiles ...*PortableProfile) (*ProfileCatalog, error) {
	c := &ProfileCatalog{
		profiles: make([]*PortableProfile, 0, len(profiles)),
		byName:   make(map[string]*PortableProfile, len(profiles)),
	}

	for _, p := range profiles {
		if p == nil || strings.TrimSpace(p.Name) == "" {
			return nil, fmt.Errorf("portable profile must have a name")
		}
		key := strings.ToLower(p.Name)
		if _, dup := c.byName[key]; dup {
			return nil, fmt.Errorf("duplicate portable profile %q", p.Name)
		}
		if len(p.Members) == 0 {
			return nil, fmt.Errorf("portable profile %q has no members", p.Name)
		}
		for _, m := range p.Members {
			if m == nil {
				return nil, fmt.Errorf("portable profile %q has a nil member", p.Name)
			}
			if m.IsPortable() {
				return nil, fmt.Errorf("portable profile %q: %s", p.Name, ReasonNestedPortable)
			}
		}

		profile := &PortableProfile{Name: p.Name, Members: append([]*NuGetFramework(nil), p.Members...)}
		c.profiles = append(c.profiles, profile)
		c.byName[key] = profile
	}

	return c, nil
}

// ByName looks a profile up by name, ignoring case.
func (c *ProfileCatalog) ByName(name string) (*PortableProfile, bool) {
	if c == nil {
		return nil, false
	}
	p, ok := c.byName[strings.ToLower(name)]
	return p, ok
}

// Profiles returns the profiles in catalog order.
func (c *ProfileCatalog) Profiles() []*PortableProfile {
	if c == nil {
		return nil
	}
	return append([]*PortableProfile(nil), c.profiles...)
}

// Len returns the number of profiles.
func (c *ProfileCatalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.profiles)
}

// FindProfile returns the catalog profile matching the given member set.
// A profile whose members pair up one-to-one with the requested ones,
// each pair compatible both ways, wins outright. Otherwise a requested
// member only has to accept its registered counterpart, and the tightest
// such profile is returned.
func (e *Engine) FindProfile(members []*NuGetFramework) (*PortableProfile, bool) {
	if len(members) == 0 {
		return nil, false
	}

	var best *PortableProfile
	for _, p := range e.catalog.profiles {
		if e.matchMembers(p.Members, members, true) {
			return p, true
		}
		if !e.matchMembers(p.Members, members, false) {
			continue
		}
		if best == nil || e.tighter(p, best) {
			best = p
		}
	}
	return best, best != nil
}

// tighter reports whether every member of p accepts a member of q but not
// the other way round.
func (e *Engine) tighter(p, q *PortableProfile) bool {
	return e.matchMembers(q.Members, p.Members, false) && !e.matchMembers(p.Members, q.Members, false)
}

// matchMembers pairs each requested member with a distinct registered one
// it accepts. With mutual set the registered member must accept it back.
func (e *Engine) matchMembers(registered, requested []*NuGetFramework, mutual bool) bool {
	if len(registered) != len(requested) {
		return false
	}

	used := make([]bool, len(registered))
	var assign func(i int) bool
	assign = func(i int) bool {
		if i == len(requested) {
			return true
		}
		want := requested[i]
		for j, have := range registered {
			if used[j] || !e.isCompatible(want, have) {
				continue
			}
			if mutual && !e.isCompatible(have, want) {
				continue
			}
			used[j] = true
			if assign(i + 1) {
				return true
			}
			used[j] = false
		}
		return false
	}
	return assign(0)
}

// portableMembers returns the member frameworks of a portable framework:
// the catalog profile it names, or its parsed "+" list.
func (e *Engine) portableMembers(fw *NuGetFramework) ([]*NuGetFramework, bool) {
	if p, ok := e.catalog.ByName(fw.Profile); ok {
		return p.Members, true
	}
	if fw.Profile == "" {
		return nil, false
	}

	tokens := strings.Split(fw.Profile, "+")
	members := make([]*NuGetFramework, 0, len(tokens))
	for _, t := range tokens {
		m, err := e.parse(t, false)
		if err != nil || m.IsUnsupported() {
			return nil, false
		}
		members = append(members, m)
	}
	return members, true
}

// builtinProfiles lists the .NETPortable profiles installed with the
// reference assemblies, members in their canonical order.
var builtinProfiles = []struct {
	name    string
	members []string
}{
	{"Profile2", []string{"net40", "netcore45", "sl4", "wp7"}},
	{"Profile3", []string{"net40", "sl4"}},
	{"Profile4", []string{"net45", "sl4", "netcore45", "wp7"}},
	{"Profile5", []string{"net40", "netcore45"}},
	{"Profile6", []string{"net403", "netcore45"}},
	{"Profile7", []string{"net45", "netcore45"}},
	{"Profile14", []string{"net40", "sl5"}},
	{"Profile18", []string{"net403", "sl4"}},
	{"Profile19", []string{"net403", "sl5"}},
	{"Profile23", []string{"net45", "sl4"}},
	{"Profile24", []string{"net45", "sl5"}},
	{"Profile31", []string{"netcore451", "wp81"}},
	{"Profile32", []string{"netcore451", "wpa81"}},
	{"Profile36", []string{"net40", "sl4", "netcore45", "wp8"}},
	{"Profile37", []string{"net40", "sl5", "netcore45"}},
	{"Profile41", []string{"net403", "sl4", "netcore45"}},
	{"Profile42", []string{"net403", "sl5", "netcore45"}},
	{"Profile44", []string{"net451", "netcore451"}},
	{"Profile46", []string{"net45", "sl4", "netcore45"}},
	{"Profile47", []string{"net45", "sl5", "netcore45"}},
	{"Profile49", []string{"net45", "wp8"}},
	{"Profile78", []string{"net45", "netcore45", "wp8"}},
	{"Profile84", []string{"wpa81", "wp81"}},
	{"Profile88", []string{"net40", "sl4", "netcore45", "wp75"}},
	{"Profile92", []string{"net40", "netcore45", "wpa81"}},
	{"Profile95", []string{"net403", "sl4", "netcore45", "wp7"}},
	{"Profile96", []string{"net403", "sl4", "netcore45", "wp75"}},
	{"Profile102", []string{"net403", "netcore45", "wpa81"}},
	{"Profile104", []string{"net45", "sl4", "netcore45", "wp75"}},
	{"Profile111", []string{"net45", "netcore45", "wpa81"}},
	{"Profile136", []string{"net40", "sl5", "netcore45", "wp8"}},
	{"Profile143", []string{"net403", "sl4", "netcore45", "wp8"}},
	{"Profile147", []string{"net403", "sl5", "netcore45", "wp8"}},
	{"Profile151", []string{"net451", "netcore451", "wpa81"}},
	{"Profile154", []string{"net45", "sl4", "netcore45", "wp8"}},
	{"Profile157", []string{"netcore451", "wpa81", "wp81"}},
	{"Profile158", []string{"net45", "sl5", "netcore45", "wp8"}},
	{"Profile225", []string{"net40", "sl5", "netcore45", "wpa81"}},
	{"Profile240", []string{"net403", "sl5", "netcore45", "wpa81"}},
	{"Profile255", []string{"net45", "sl5", "netcore45", "wpa81"}},
	{"Profile259", []string{"net45", "netcore45", "wpa81", "wp8"}},
	{"Profile328", []string{"net40", "sl5", "netcore45", "wpa81", "wp8"}},
	{"Profile336", []string{"net403", "sl5", "netcore45", "wpa81", "wp8"}},
	{"Profile344", []string{"net45", "sl5", "netcore45", "wpa81", "wp8"}},
}

var (
	defaultCatalog     *ProfileCatalog
	defaultCatalogOnce sync.Once
)

// DefaultProfileCatalog returns the built-in catalog, built on first use.
func DefaultProfileCatalog() *ProfileCatalog {
	defaultCatalogOnce.Do(func() {
		profiles := make([]*PortableProfile, len(builtinProfiles))
		for i, bp := range builtinProfiles {
			profiles[i] = &PortableProfile{Name: bp.name, Members: mustParseMembers(bp.members)}
		}
		c, err := NewProfileCatalog(profiles...)
		if err != nil {
			panic(fmt.Sprintf("built-in portable catalog: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

func parseMembers(names []string) ([]*NuGetFramework, error) {
	var e Engine
	members := make([]*NuGetFramework, len(names))
	for i, n := range names {
		m, err := e.parse(n, false)
		if err != nil {
			return nil, fmt.Errorf("member %q: %w", n, err)
		}
		if m.IsUnsupported() {
			return nil, fmt.Errorf("member %q: unsupported framework", n)
		}
		members[i] = m
	}
	return members, nil
}

func mustParseMembers(names []string) []*NuGetFramework {
	members, err := parseMembers(names)
	if err != nil {
		panic(err)
	}
	return members
}

// catalogFile is the YAML layout of an alternate catalog:
//
//	profiles:
//	  - name: Profile7
//	    frameworks: [net45, netcore45]
type catalogFile struct {
	Profiles []struct {
		Name       string   `yaml:"name"`
		Frameworks []string `yaml:"frameworks"`
	} `yaml:"profiles"`
}

// LoadProfileCatalog reads a YAML catalog. Members are short framework names.
func LoadProfileCatalog(r io.Reader) (*ProfileCatalog, error) {
	var f catalogFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to decode profile catalog: %w", err)
	}

	profiles := make([]*PortableProfile, 0, len(f.Profiles))
	for _, p := range f.Profiles {
		members, err := parseMembers(p.Frameworks)
		if err != nil {
			return nil, fmt.Errorf("profile %q: %w", p.Name, err)
		}
		profiles = append(profiles, &PortableProfile{Name: p.Name, Members: members})
	}

	return NewProfileCatalog(profiles...)
}

// LoadProfileCatalogFile reads a YAML catalog from disk.
func LoadProfileCatalogFile(path string) (*ProfileCatalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open profile catalog: %w", err)
	}
	defer func() { _ = f.Close() }()

	c, err := LoadProfileCatalog(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}
