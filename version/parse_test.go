package version

import (
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantMajor  int
		wantMinor  int
		wantPatch  int
		wantRev    int
		wantLabels []string
		wantMeta   string
		wantString string
		wantErr    bool
	}{
		{"single component", "1", 1, 0, 0, 0, nil, "", "1.0", false},
		{"two components", "1.2", 1, 2, 0, 0, nil, "", "1.2", false},
		{"three components", "1.2.3", 1, 2, 3, 0, nil, "", "1.2.3", false},
		{"four components", "2.5.3.1", 2, 5, 3, 1, nil, "", "2.5.3.1", false},
		{"leading zeros", "1.01", 1, 1, 0, 0, nil, "", "1.1", false},
		{"prerelease", "1.2.3-beta", 1, 2, 3, 0, []string{"beta"}, "", "1.2.3-beta", false},
		{"multiple labels", "1.0.0-alpha.1", 1, 0, 0, 0, []string{"alpha", "1"}, "", "1.0.0-alpha.1", false},
		{"metadata", "1.0.0+20241019", 1, 0, 0, 0, nil, "20241019", "1.0.0+20241019", false},
		{"prerelease and metadata", "1.0.0-rc.1+build.123", 1, 0, 0, 0, []string{"rc", "1"}, "build.123", "1.0.0-rc.1+build.123", false},

		{"empty", "", 0, 0, 0, 0, nil, "", "", true},
		{"five components", "1.2.3.4.5", 0, 0, 0, 0, nil, "", "", true},
		{"missing component", "1.3..2", 0, 0, 0, 0, nil, "", "", true},
		{"negative", "-1", 0, 0, 0, 0, nil, "", "", true},
		{"signed component", "1.+2", 0, 0, 0, 0, nil, "", "", true},
		{"letters", "abc", 0, 0, 0, 0, nil, "", "", true},
		{"empty label", "1.0-", 0, 0, 0, 0, nil, "", "", true},
		{"empty metadata", "1.0+", 0, 0, 0, 0, nil, "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}

			if got.Major != tt.wantMajor || got.Minor != tt.wantMinor || got.Patch != tt.wantPatch || got.Revision != tt.wantRev {
				t.Errorf("Parse(%q) = %d.%d.%d.%d, want %d.%d.%d.%d", tt.input,
					got.Major, got.Minor, got.Patch, got.Revision,
					tt.wantMajor, tt.wantMinor, tt.wantPatch, tt.wantRev)
			}
			if len(got.ReleaseLabels) != len(tt.wantLabels) {
				t.Fatalf("ReleaseLabels = %v, want %v", got.ReleaseLabels, tt.wantLabels)
			}
			for i := range got.ReleaseLabels {
				if got.ReleaseLabels[i] != tt.wantLabels[i] {
					t.Errorf("ReleaseLabels[%d] = %v, want %v", i, got.ReleaseLabels[i], tt.wantLabels[i])
				}
			}
			if got.Metadata != tt.wantMeta {
				t.Errorf("Metadata = %q, want %q", got.Metadata, tt.wantMeta)
			}
			if got.String() != tt.wantString {
				t.Errorf("String() = %q, want %q", got.String(), tt.wantString)
			}
		})
	}
}

func TestMustParse(t *testing.T) {
	// Should not panic
	v := MustParse("1.0.0")
	if v.Major != 1 {
		t.Errorf("MustParse() Major = %v, want 1", v.Major)
	}

	// Should panic
	defer func() {
		if r := recover(); r == nil {
			t.Error("MustParse() should panic on invalid version")
		}
	}()
	MustParse("invalid")
}

func TestTryParse(t *testing.T) {
	if _, ok := TryParse("-1"); ok {
		t.Error("TryParse(-1) = true, want false")
	}
	v, ok := TryParse("2.0")
	if !ok || v.String() != "2.0" {
		t.Errorf("TryParse(2.0) = %v, %v; want 2.0, true", v, ok)
	}
}

func TestParse_Legacy(t *testing.T) {
	tests := []struct {
		input string
	}{
		{"1.0.0.0"},
		{"2.5.3.1"},
		{"10.20.30.40"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if !v.IsLegacyVersion {
				t.Error("IsLegacyVersion = false, want true")
			}
			if got := v.String(); got != tt.input {
				t.Errorf("String() = %q, want %q", got, tt.input)
			}
		})
	}
}
