package commands

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xeipuuv/gojsonschema"

	"github.com/willibrandon/nugetcompat/cmd/nugetcompat/config"
	"github.com/willibrandon/nugetcompat/cmd/nugetcompat/output"
)

// loadJSONSchema compiles one named schema from testdata/json-schemas.json.
func loadJSONSchema(t *testing.T, name string) *gojsonschema.Schema {
	t.Helper()

	raw, err := os.ReadFile(filepath.Join("testdata", "json-schemas.json"))
	require.NoError(t, err, "read schema contract")

	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc), "parse schema contract")

	schemas, ok := doc["schemas"].(map[string]any)
	require.True(t, ok, "schema contract has no schemas object")
	schema, ok := schemas[name].(map[string]any)
	require.True(t, ok, "schema %q not found", name)

	// Definitions travel with each schema so $ref resolves.
	if defs, ok := doc["definitions"].(map[string]any); ok {
		schema["definitions"] = defs
	}

	compiled, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(schema))
	require.NoError(t, err, "compile schema %q", name)
	return compiled
}

func validateJSON(t *testing.T, schema *gojsonschema.Schema, data []byte) {
	t.Helper()

	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	require.NoError(t, err)
	if !result.Valid() {
		for _, desc := range result.Errors() {
			t.Errorf("schema violation: %s", desc)
		}
		t.Logf("document:\n%s", data)
	}
}

func TestJSONSchema_CommandOutput(t *testing.T) {
	root := makePackageTree(t)

	tests := []struct {
		name   string
		schema string
		cmd    func(*output.Console, *config.Config) *cobra.Command
		args   []string
	}{
		{"parse single", "parse", NewParseCommand, []string{"net40-client"}},
		{"parse portable", "parse", NewParseCommand, []string{"portable-net45+win8"}},
		{"parse unsupported", "parse", NewParseCommand, []string{"foo45"}},
		{"parse many", "parseMany", NewParseCommand, []string{"sl3-wp", "winrt45", "dnxcore50"}},
		{"short", "parseMany", NewShortCommand, []string{"net45", ".NETFramework,Version=v4.0,Profile=Client"}},
		{"check", "check", NewCheckCommand, []string{"net45", "net40", "sl4", "portable-net45+win8"}},
		{"check no packages", "check", NewCheckCommand, []string{"wp71"}},
		{"range parse", "range", NewRangeCommand, []string{"parse", "[1.2,2.3)"}},
		{"range parse with version", "range", NewRangeCommand, []string{"parse", "1.0", "--version", "0.9"}},
		{"range best", "version", NewRangeCommand, []string{"best", "(1.0,)", "1.0", "2.0", "1.1"}},
		{"range safe", "version", NewRangeCommand, []string{"safe", "1.3"}},
		{"range possible", "version", NewRangeCommand, []string{"possible", "1.1"}},
		{"range trim", "version", NewRangeCommand, []string{"trim", "1.2.0.0"}},
		{"scan", "scan", NewScanCommand, []string{root, "--project", "net45"}},
		{"scan without project", "scan", NewScanCommand, []string{root}},
		{"version", "build", NewVersionCommand, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schema := loadJSONSchema(t, tt.schema)
			tio := newTestIO(output.VerbosityNormal)
			cmd := tt.cmd(tio.console, testConfig(config.FormatJSON))

			require.NoError(t, execute(t, cmd, tt.args...))
			validateJSON(t, schema, tio.out.Bytes())
		})
	}
}

func TestJSONSchema_RejectsBrokenDocuments(t *testing.T) {
	tests := []struct {
		name   string
		schema string
		doc    string
	}{
		{"check without schemaVersion", "check", `{"project":"net45","compatible":true,"decisions":[]}`},
		{"check unknown rule", "check", `{"schemaVersion":"1.0.0","project":"net45","compatible":true,
			"decisions":[{"package":"net40","rule":"guess","compatible":true}]}`},
		{"parse bad version", "parse", `{"schemaVersion":"1.0.0","input":"net45","identifier":".NETFramework",
			"version":"4","fullName":".NETFramework,Version=v4.5","shortName":"net45","portable":false,"unsupported":false}`},
		{"range without bounds flags", "range", `{"schemaVersion":"1.0.0","input":"1.0","range":"1.0","pretty":"(≥ 1.0)"}`},
		{"version without result", "version", `{"schemaVersion":"1.0.0","input":"1.3"}`},
		{"build unknown rule", "build", `{"schemaVersion":"1.0.0","version":"dev","commit":"none","built":"unknown",
			"go":"go1.25.2","catalogSource":"builtin","profiles":44,"rules":["nearest"]}`},
		{"scan null frameworks", "scan", `{"schemaVersion":"1.0.0","root":"/tmp/x","frameworks":null,"files":[],"elapsedMs":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schema := loadJSONSchema(t, tt.schema)
			result, err := schema.Validate(gojsonschema.NewStringLoader(tt.doc))
			require.NoError(t, err)
			assert.False(t, result.Valid(), "document accepted, want rejection")
		})
	}
}
