package frameworks

import "testing"

func TestFrameworkVersion_String(t *testing.T) {
	tests := []struct {
		name     string
		version  FrameworkVersion
		expected string
	}{
		{"all components", FrameworkVersion{Major: 1, Minor: 2, Build: 3, Revision: 4}, "1.2.3.4"},
		{"revision without build", FrameworkVersion{Major: 1, Minor: 2, Revision: 5}, "1.2.0.5"},
		{"build", FrameworkVersion{Major: 4, Minor: 5, Build: 1}, "4.5.1"},
		{"minor", FrameworkVersion{Major: 4, Minor: 5}, "4.5"},
		{"major only", FrameworkVersion{Major: 5}, "5.0"},
		{"zero", FrameworkVersion{}, "0.0"},
		{"large build", FrameworkVersion{Major: 10, Build: 10030}, "10.0.10030"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.version.String()
			if got != tt.expected {
				t.Errorf("String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestFrameworkVersion_Compare(t *testing.T) {
	tests := []struct {
		name     string
		v1       FrameworkVersion
		v2       FrameworkVersion
		expected int
	}{
		{"equal", fv(4, 5, 1), fv(4, 5, 1), 0},
		{"major greater", fv(5, 0), fv(4, 8), 1},
		{"major less", fv(4, 8), fv(5, 0), -1},
		{"minor greater", fv(4, 8), fv(4, 7), 1},
		{"build less", fv(4, 7, 1), fv(4, 7, 2), -1},
		{"revision greater", fv(4, 7, 2, 1), fv(4, 7, 2), 1},
		{"trailing zeros equal", fv(4, 0, 0, 0), fv(4), 0},
		{"zero versions", FrameworkVersion{}, FrameworkVersion{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.v1.Compare(tt.v2)
			if got != tt.expected {
				t.Errorf("Compare() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestParseFrameworkVersion(t *testing.T) {
	tests := []struct {
		input   string
		want    FrameworkVersion
		wantErr bool
	}{
		{"4.0", fv(4, 0), false},
		{"4.5.1", fv(4, 5, 1), false},
		{"10.0.10030", fv(10, 0, 10030), false},
		{"1.2.3.4", fv(1, 2, 3, 4), false},
		{"4", FrameworkVersion{}, true},
		{"4.1.4.5.5", FrameworkVersion{}, true},
		{"4..5", FrameworkVersion{}, true},
		{"4.x", FrameworkVersion{}, true},
		{"4.-1", FrameworkVersion{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFrameworkVersion(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFrameworkVersion(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got.Compare(tt.want) != 0 {
				t.Errorf("ParseFrameworkVersion(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseCompactVersion(t *testing.T) {
	tests := []struct {
		input   string
		want    FrameworkVersion
		wantErr bool
	}{
		{"4", fv(4, 0), false},
		{"40", fv(4, 0), false},
		{"451", fv(4, 5, 1), false},
		{"4123", fv(4, 1, 2, 3), false},
		{"41235", fv(4, 1, 2, 3), false},
		{"", FrameworkVersion{}, true},
		{"4a", FrameworkVersion{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseCompactVersion(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseCompactVersion(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got.Compare(tt.want) != 0 {
				t.Errorf("parseCompactVersion(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
