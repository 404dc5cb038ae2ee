package frameworks

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultProfileCatalog(t *testing.T) {
	c := DefaultProfileCatalog()

	if c.Len() != 44 {
		t.Errorf("Len() = %d, want 44", c.Len())
	}
	if c != DefaultProfileCatalog() {
		t.Error("DefaultProfileCatalog() returned a different catalog on the second call")
	}

	p, ok := c.ByName("profile259")
	if !ok {
		t.Fatal("ByName(profile259) not found")
	}
	if p.Name != "Profile259" {
		t.Errorf("Name = %s, want Profile259", p.Name)
	}
	if len(p.Members) != 4 {
		t.Errorf("len(Members) = %d, want 4", len(p.Members))
	}

	if _, ok := c.ByName("Profile1"); ok {
		t.Error("ByName(Profile1) found, want missing")
	}

	var nilCatalog *ProfileCatalog
	if _, ok := nilCatalog.ByName("Profile7"); ok {
		t.Error("nil catalog ByName() found a profile")
	}
	if nilCatalog.Len() != 0 {
		t.Error("nil catalog Len() != 0")
	}
}

func TestNewProfileCatalog_Validation(t *testing.T) {
	net45 := MustParseFramework("net45")
	portable := MustParseFramework("portable-net45+win8")

	tests := []struct {
		name     string
		profiles []*PortableProfile
		wantErr  string
	}{
		{"nil profile", []*PortableProfile{nil}, "must have a name"},
		{"empty name", []*PortableProfile{{Name: " ", Members: []*NuGetFramework{net45}}}, "must have a name"},
		{"no members", []*PortableProfile{{Name: "Profile1"}}, "has no members"},
		{"nil member", []*PortableProfile{{Name: "Profile1", Members: []*NuGetFramework{nil}}}, "nil member"},
		{"portable member", []*PortableProfile{{Name: "Profile1", Members: []*NuGetFramework{portable}}}, ReasonNestedPortable},
		{
			"duplicate name",
			[]*PortableProfile{
				{Name: "Profile1", Members: []*NuGetFramework{net45}},
				{Name: "profile1", Members: []*NuGetFramework{net45}},
			},
			"duplicate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewProfileCatalog(tt.profiles...)
			if err == nil {
				t.Fatal("NewProfileCatalog() error = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("NewProfileCatalog() error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestProfileCatalog_Profiles(t *testing.T) {
	members := []*NuGetFramework{MustParseFramework("net45")}
	c, err := NewProfileCatalog(
		&PortableProfile{Name: "B", Members: members},
		&PortableProfile{Name: "A", Members: members},
	)
	if err != nil {
		t.Fatalf("NewProfileCatalog() error = %v", err)
	}

	got := c.Profiles()
	if len(got) != 2 || got[0].Name != "B" || got[1].Name != "A" {
		t.Errorf("Profiles() = %v, want [B A]", got)
	}

	// The returned slice is a copy.
	got[0] = nil
	if c.Profiles()[0] == nil {
		t.Error("Profiles() exposes the internal slice")
	}
}

func TestFindProfile(t *testing.T) {
	tests := []struct {
		members []string
		want    string
	}{
		{[]string{"net45", "win8"}, "Profile7"},
		{[]string{"win8", "net45"}, "Profile7"},
		{[]string{"net45", "netcore45"}, "Profile7"},
		{[]string{"net45", "win", "wpa81", "wp8"}, "Profile259"},
		{[]string{"net451", "win81"}, "Profile44"},
		{[]string{"net45", "sl5"}, "Profile24"},
		{[]string{"net45"}, ""},
		{[]string{"net45", "win81"}, "Profile7"},
		{[]string{"net451", "win8"}, "Profile7"},
		{[]string{"netcore4", "sl4"}, ""},
		{[]string{"sl3", "net40"}, ""},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.members, "+"), func(t *testing.T) {
			p, ok := Default().FindProfile(mustParseMembers(tt.members))
			if tt.want == "" {
				if ok {
					t.Errorf("FindProfile() = %s, want none", p.Name)
				}
				return
			}
			if !ok {
				t.Fatalf("FindProfile() found nothing, want %s", tt.want)
			}
			if p.Name != tt.want {
				t.Errorf("FindProfile() = %s, want %s", p.Name, tt.want)
			}
		})
	}

	if _, ok := Default().FindProfile(nil); ok {
		t.Error("FindProfile(nil) found a profile")
	}
}

const testCatalogYAML = `
profiles:
  - name: Profile1
    frameworks: [net45, sl40, wp71]
  - name: Profile2
    frameworks:
      - netcore45
      - sl30
      - wp71
`

func TestLoadProfileCatalog(t *testing.T) {
	c, err := LoadProfileCatalog(strings.NewReader(testCatalogYAML))
	if err != nil {
		t.Fatalf("LoadProfileCatalog() error = %v", err)
	}
	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}

	e := NewEngine(WithCatalog(c))

	fw := e.MustParse("portable-Profile1")
	if got := e.ShortName(fw); got != "portable-net45+sl40+wp71" {
		t.Errorf("ShortName() = %q, want %q", got, "portable-net45+sl40+wp71")
	}

	// Profile7 is unknown to this catalog.
	fw = e.MustParse("portable-net45+win8")
	if fw.Profile != "net45+win80" {
		t.Errorf("Profile = %q, want %q", fw.Profile, "net45+win80")
	}

	// net451 accepts Profile1's net45, so the set still resolves to Profile1.
	fw = e.MustParse("portable-net451+sl4+wp71")
	if fw.Profile != "Profile1" {
		t.Errorf("Profile = %q, want %q", fw.Profile, "Profile1")
	}
}

func TestLoadProfileCatalog_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"malformed", "profiles: [name: x"},
		{"unsupported member", "profiles:\n  - name: P\n    frameworks: [foo]\n"},
		{"bad member", "profiles:\n  - name: P\n    frameworks: [net-a-b]\n"},
		{"no members", "profiles:\n  - name: P\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadProfileCatalog(strings.NewReader(tt.input)); err == nil {
				t.Error("LoadProfileCatalog() error = nil, want error")
			}
		})
	}
}

func TestLoadProfileCatalogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	if err := os.WriteFile(path, []byte(testCatalogYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := LoadProfileCatalogFile(path)
	if err != nil {
		t.Fatalf("LoadProfileCatalogFile() error = %v", err)
	}
	if _, ok := c.ByName("Profile2"); !ok {
		t.Error("ByName(Profile2) not found")
	}

	if _, err := LoadProfileCatalogFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadProfileCatalogFile(missing) error = nil, want error")
	}
}
