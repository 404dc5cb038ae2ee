package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestWriteJSON(t *testing.T) {
	satisfies := true
	doc := RangeOutput{
		SchemaVersion:  CurrentSchemaVersion,
		Input:          "[1.0,2.0)",
		Range:          "[1.0, 2.0)",
		IsMinInclusive: true,
		Version:        "1.5",
		Satisfies:      &satisfies,
	}

	var buf bytes.Buffer
	if err := WriteJSON(&buf, doc); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}

	out := buf.String()
	if !strings.HasSuffix(out, "}\n") {
		t.Errorf("output should end with a newline, got %q", out)
	}
	if !strings.Contains(out, "\n  \"schemaVersion\": \"1.0.0\"") {
		t.Errorf("output is not indented: %s", out)
	}
	if strings.Contains(out, "maxVersion") {
		t.Errorf("empty maxVersion should be omitted: %s", out)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded["satisfies"] != true {
		t.Errorf("satisfies = %v, want true", decoded["satisfies"])
	}
}

func TestWriteJSON_Unsupported(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, map[string]any{"ch": make(chan int)}); err == nil {
		t.Error("WriteJSON() should fail for a channel value")
	}
}

func TestMeasureElapsed(t *testing.T) {
	if got := MeasureElapsed(time.Now().Add(-50 * time.Millisecond)); got < 50 {
		t.Errorf("MeasureElapsed() = %d, want >= 50", got)
	}
}
