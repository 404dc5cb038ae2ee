package output

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// CurrentSchemaVersion is stamped on every JSON document.
const CurrentSchemaVersion = "1.0.0"

// FrameworkOutput is the JSON form of a parsed framework.
type FrameworkOutput struct {
	SchemaVersion string `json:"schemaVersion,omitempty"`
	Input         string `json:"input,omitempty"`
	Identifier    string `json:"identifier"`
	Version       string `json:"version"`
	Profile       string `json:"profile,omitempty"`
	FullName      string `json:"fullName"`
	ShortName     string `json:"shortName"`
	Portable      bool   `json:"portable"`
	Unsupported   bool   `json:"unsupported"`
}

// DecisionOutput is one package verdict of the check command.
type DecisionOutput struct {
	Package    string `json:"package"`
	Rule       string `json:"rule"`
	Compatible bool   `json:"compatible"`
}

// CheckOutput is the JSON output of the check command.
type CheckOutput struct {
	SchemaVersion string           `json:"schemaVersion"`
	Project       string           `json:"project"`
	Compatible    bool             `json:"compatible"`
	Nearest       string           `json:"nearest,omitempty"`
	Decisions     []DecisionOutput `json:"decisions"`
}

// RangeOutput is the JSON output of range parse.
type RangeOutput struct {
	SchemaVersion  string `json:"schemaVersion"`
	Input          string `json:"input"`
	Range          string `json:"range"`
	Pretty         string `json:"pretty"`
	MinVersion     string `json:"minVersion,omitempty"`
	MaxVersion     string `json:"maxVersion,omitempty"`
	IsMinInclusive bool   `json:"isMinInclusive"`
	IsMaxInclusive bool   `json:"isMaxInclusive"`
	Version        string `json:"version,omitempty"`
	Satisfies      *bool  `json:"satisfies,omitempty"`
}

// VersionOutput is the JSON output of range best, safe, possible and trim.
type VersionOutput struct {
	SchemaVersion string   `json:"schemaVersion"`
	Input         string   `json:"input"`
	Best          string   `json:"best,omitempty"`
	Trimmed       string   `json:"trimmed,omitempty"`
	SafeRange     string   `json:"safeRange,omitempty"`
	Spellings     []string `json:"spellings,omitempty"`
}

// FolderOutput is the JSON output of the folder command.
type FolderOutput struct {
	SchemaVersion string           `json:"schemaVersion"`
	Path          string           `json:"path"`
	Framework     *FrameworkOutput `json:"framework"`
	Rest          string           `json:"rest"`
}

// ScanEntry is one file found by the scan command.
type ScanEntry struct {
	Path       string `json:"path"`
	Framework  string `json:"framework,omitempty"`
	Compatible *bool  `json:"compatible,omitempty"`
}

// ScanOutput is the JSON output of the scan command.
type ScanOutput struct {
	SchemaVersion string      `json:"schemaVersion"`
	Root          string      `json:"root"`
	Project       string      `json:"project,omitempty"`
	Frameworks    []string    `json:"frameworks"`
	Nearest       string      `json:"nearest,omitempty"`
	Files         []ScanEntry `json:"files"`
	ElapsedMs     int64       `json:"elapsedMs"`
}

// ProfileOutput is one portable profile.
type ProfileOutput struct {
	Name       string   `json:"name"`
	ShortName  string   `json:"shortName"`
	Frameworks []string `json:"frameworks"`
}

// ProfilesOutput is the JSON output of the profiles command.
type ProfilesOutput struct {
	SchemaVersion string          `json:"schemaVersion"`
	Source        string          `json:"source"`
	Profiles      []ProfileOutput `json:"profiles"`
}

// BuildOutput is the JSON output of the version command.
type BuildOutput struct {
	SchemaVersion string   `json:"schemaVersion"`
	Version       string   `json:"version"`
	Commit        string   `json:"commit"`
	Built         string   `json:"built"`
	Go            string   `json:"go"`
	Modified      bool     `json:"modified,omitempty"`
	CatalogSource string   `json:"catalogSource"`
	Profiles      int      `json:"profiles"`
	Rules         []string `json:"rules"`
}

// WriteJSON writes v as indented JSON followed by a newline.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode JSON output: %w", err)
	}
	return nil
}

// MeasureElapsed returns milliseconds since start.
func MeasureElapsed(start time.Time) int64 {
	return time.Since(start).Milliseconds()
}
