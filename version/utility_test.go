package version

import (
	"slices"
	"testing"
)

func TestTrimVersion(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1.2.3.0", "1.2.3"},
		{"1.2.0.0", "1.2"},
		{"1.2.0.5", "1.2.0.5"},
		{"1.2", "1.2"},
		{"1.0.0", "1.0"},
		{"1.0.0.0-beta", "1.0-beta"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := TrimVersion(MustParse(tt.input))
			if got.String() != tt.want {
				t.Errorf("TrimVersion(%s) = %q, want %q", tt.input, got.String(), tt.want)
			}
		})
	}

	if TrimVersion(nil) != nil {
		t.Error("TrimVersion(nil) should be nil")
	}
}

func TestGetPossibleVersions(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"1.1", []string{"1.1", "1.1.0", "1.1.0.0"}},
		{"1.0.0", []string{"1.0", "1.0.0", "1.0.0.0"}},
		{"1.0.0.0", []string{"1.0", "1.0.0", "1.0.0.0"}},
		{"1.0.1", []string{"1.0.1", "1.0.1.0"}},
		{"1.1.0.0", []string{"1.1", "1.1.0", "1.1.0.0"}},
		{"1.2.3.4", []string{"1.2.3.4"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v := MustParse(tt.input)
			var got []string
			for p := range GetPossibleVersions(v) {
				got = append(got, p.String())
				if !p.Equals(v) {
					t.Errorf("possible version %s does not equal %s", p, v)
				}
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("GetPossibleVersions(%s) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestGetPossibleVersions_StopsEarly(t *testing.T) {
	count := 0
	for range GetPossibleVersions(MustParse("1.0")) {
		count++
		break
	}
	if count != 1 {
		t.Errorf("iterated %d times after break, want 1", count)
	}
}

func TestGetSafeRange(t *testing.T) {
	tests := []struct {
		input   string
		wantMin string
		wantMax string
	}{
		{"1.3", "1.3", "1.4"},
		{"0.9", "0.9", "0.10"},
		{"2.9.45.6", "2.9.45.6", "2.10"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			r := GetSafeRange(MustParse(tt.input))
			if !r.MinInclusive || r.MaxInclusive {
				t.Errorf("bounds = %v/%v, want inclusive/exclusive", r.MinInclusive, r.MaxInclusive)
			}
			if r.MinVersion.String() != tt.wantMin {
				t.Errorf("MinVersion = %q, want %q", r.MinVersion, tt.wantMin)
			}
			if r.MaxVersion.String() != tt.wantMax {
				t.Errorf("MaxVersion = %q, want %q", r.MaxVersion, tt.wantMax)
			}
		})
	}
}
