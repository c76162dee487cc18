package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"showglobals/internal/analysis"
)

func TestAnalyzeMissingFile(t *testing.T) {
	_, err := analyze("/no/such/binary", "binary", analysis.DefaultOptions())
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
	if !strings.Contains(err.Error(), "open debug source") {
		t.Errorf("error does not name the failing step: %v", err)
	}
}

func TestAnalyzeNotABinary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "not_elf.txt")
	if err := os.WriteFile(path, []byte("just some text, definitely not ELF"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := analyze(path, "not_elf.txt", analysis.DefaultOptions())
	if err == nil {
		t.Fatal("expected an error for a non-ELF file")
	}
	if !strings.Contains(err.Error(), "open debug source") {
		t.Errorf("error does not name the failing step: %v", err)
	}
}

func TestSchemaCommand(t *testing.T) {
	var buf bytes.Buffer
	schemaCmd.SetOut(&buf)
	defer schemaCmd.SetOut(nil)

	if err := schemaCmd.RunE(schemaCmd, nil); err != nil {
		t.Fatalf("schema command: %v", err)
	}

	var schema map[string]any
	if err := json.Unmarshal(buf.Bytes(), &schema); err != nil {
		t.Fatalf("schema output is not valid JSON: %v", err)
	}
	if _, ok := schema["$ref"]; !ok {
		t.Errorf("schema output missing $ref: %v", schema)
	}
}
