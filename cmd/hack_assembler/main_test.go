package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestHackAssembler(t *testing.T) {
	dir := t.TempDir()
	source := "@2\nD=A\n@3\nD=D+A\n@0\nM=D\n"

	input := filepath.Join(dir, "Add.asm")
	if err := os.WriteFile(input, []byte(source), 0644); err != nil {
		t.Fatalf("failed to seed fixture file: %v", err)
	}

	status := Handler([]string{input}, nil)
	if status != 0 {
		t.Fatalf("unexpected exit status code: expected 0, got: %d", status)
	}

	output := filepath.Join(dir, "Add.hack")
	generated, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("failed to read generated output file: %v", err)
	}

	want := "0000000000000010\n" +
		"1110110000010000\n" +
		"0000000000000011\n" +
		"1110000010010000\n" +
		"0000000000000000\n" +
		"1110001100001000\n"

	if string(generated) != want {
		t.Errorf("unexpected generated machine code:\nwant:\n%s\ngot:\n%s", want, string(generated))
	}
}

func TestHackAssemblerMissingTarget(t *testing.T) {
	status := Handler([]string{filepath.Join(t.TempDir(), "missing")}, nil)
	if status == 0 {
		t.Errorf("expected a nonzero exit status for a nonexistent target")
	}
}
