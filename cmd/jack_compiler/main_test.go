package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestJackCompiler(t *testing.T) {
	dir := t.TempDir()
	source := `
	class Main {
		function void main() {
			do Main.helper();
			return;
		}

		function int helper() {
			return 7;
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

	output := filepath.Join(dir, "Main.vm")
	generated, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("failed to read generated output file: %v", err)
	}

	text := string(generated)
	for _, want := range []string{"function Main.main", "call Main.helper 0", "function Main.helper", "push constant 7"} {
		if !strings.Contains(text, want) {
			t.Errorf("expected generated VM code to contain %q, got:\n%s", want, text)
		}
	}
}

func TestJackCompilerMissingTarget(t *testing.T) {
	status := Handler([]string{filepath.Join(t.TempDir(), "missing")}, nil)
	if status == 0 {
		t.Errorf("expected a nonzero exit status for a nonexistent target")
	}
}
