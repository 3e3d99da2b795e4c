package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestJackAnalyzer(t *testing.T) {
	dir := t.TempDir()
	source := `
	class Main {
		function void main() {
			do Output.printString("Hello world");
			return;
		}
	}
	`
	input := filepath.Join(dir, "Main.jack")
	if err := os.WriteFile(input, []byte(source), 0644); err != nil {
		t.Fatalf("failed to seed fixture file: %v", err)
	}

	status := Handler([]string{input}, nil)
	if status != 0 {
		t.Fatalf("unexpected exit status code: expected 0, got: %d", status)
	}

	output := filepath.Join(dir, "Main.xml")
	generated, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("failed to read generated output file: %v", err)
	}

	text := string(generated)
	for _, want := range []string{"<class>", "</class>", "<subroutineDec>", "<doStatement>", "<stringConstant> Hello world </stringConstant>"} {
		if !strings.Contains(text, want) {
			t.Errorf("expected generated XML to contain %q, got:\n%s", want, text)
		}
	}
}

func TestJackAnalyzerMissingTarget(t *testing.T) {
	status := Handler([]string{filepath.Join(t.TempDir(), "missing")}, nil)
	if status == 0 {
		t.Errorf("expected a nonzero exit status for a nonexistent target")
	}
}
