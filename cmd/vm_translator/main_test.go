package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestVMTranslatorSimpleAdd(t *testing.T) {
	dir := t.TempDir()
	source := "push constant 7\npush constant 8\nadd\n"

	input := filepath.Join(dir, "SimpleAdd.vm")
	if err := os.WriteFile(input, []byte(source), 0644); err != nil {
		t.Fatalf("failed to seed fixture file: %v", err)
	}

	status := Handler([]string{input}, nil)
	if status != 0 {
		t.Fatalf("unexpected exit status code: expected 0, got: %d", status)
	}

	output := filepath.Join(dir, "SimpleAdd.asm")
	generated, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("failed to read generated output file: %v", err)
	}

	text := string(generated)
	for _, want := range []string{"@7", "@8", "M=M+D"} {
		if !strings.Contains(text, want) {
			t.Errorf("expected generated assembly to contain %q, got:\n%s", want, text)
		}
	}

	// No bootstrap is emitted for a single-file (non-directory) target.
	if strings.Contains(text, "Sys.init") {
		t.Errorf("expected no bootstrap call for a single-file target, got:\n%s", text)
	}
}

func TestVMTranslatorBootstrapOnDirectory(t *testing.T) {
	dir := t.TempDir()
	source := "function Sys.init 0\npush constant 0\nreturn\n"
	if err := os.WriteFile(filepath.Join(dir, "Sys.vm"), []byte(source), 0644); err != nil {
		t.Fatalf("failed to seed fixture file: %v", err)
	}

	status := Handler([]string{dir}, nil)
	if status != 0 {
		t.Fatalf("unexpected exit status code: expected 0, got: %d", status)
	}

	output := filepath.Join(dir, filepath.Base(dir)+".asm")
	generated, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("failed to read generated output file: %v", err)
	}

	if !strings.Contains(string(generated), "@Sys.init") {
		t.Errorf("expected bootstrap to reference 'Sys.init', got:\n%s", string(generated))
	}
}

func TestVMTranslatorMissingTarget(t *testing.T) {
	status := Handler([]string{filepath.Join(t.TempDir(), "missing")}, nil)
	if status == 0 {
		t.Errorf("expected a nonzero exit status for a nonexistent target")
	}
}
