package utils_test

import (
	"os"
	"path/filepath"
	"testing"

	"its-hmny.dev/nand2tetris/pkg/utils"
)

func TestStack(t *testing.T) {
	t.Run("Push and Pop in LIFO order", func(t *testing.T) {
		stack := utils.NewStack[int]()
		stack.Push(1)
		stack.Push(2)
		stack.Push(3)

		for _, want := range []int{3, 2, 1} {
			got, err := stack.Pop()
			if err != nil {
				t.Fatalf("expected no error, got: %v", err)
			}
			if got != want {
				t.Errorf("expected %d, got %d", want, got)
			}
		}
	})

	t.Run("Pop on empty stack errors", func(t *testing.T) {
		stack := utils.NewStack[string]()
		if _, err := stack.Pop(); err == nil {
			t.Errorf("expected an error popping an empty stack")
		}
	})

	t.Run("Iterator walks top-down", func(t *testing.T) {
		stack := utils.NewStack("a", "b", "c")
		var seen []string
		for _, v := range stack.Iterator() {
			seen = append(seen, v)
		}
		want := []string{"c", "b", "a"}
		if len(seen) != len(want) {
			t.Fatalf("expected %d elements, got %d", len(want), len(seen))
		}
		for i := range want {
			if seen[i] != want[i] {
				t.Errorf("expected %s at position %d, got %s", want[i], i, seen[i])
			}
		}
	})
}

func TestOrderedMap(t *testing.T) {
	t.Run("zero value is usable", func(t *testing.T) {
		var om utils.OrderedMap[string, int]
		om.Set("a", 1)
		if v, ok := om.Get("a"); !ok || v != 1 {
			t.Errorf("expected to find 'a' = 1, got %d, %v", v, ok)
		}
	})

	t.Run("preserves insertion order", func(t *testing.T) {
		var om utils.OrderedMap[string, int]
		om.Set("z", 1)
		om.Set("a", 2)
		om.Set("m", 3)

		var keys []string
		for k := range om.Entries() {
			keys = append(keys, k)
		}

		want := []string{"z", "a", "m"}
		if len(keys) != len(want) {
			t.Fatalf("expected %d keys, got %d", len(want), len(keys))
		}
		for i := range want {
			if keys[i] != want[i] {
				t.Errorf("expected key %s at position %d, got %s", want[i], i, keys[i])
			}
		}
	})

	t.Run("Set on an existing key keeps its position", func(t *testing.T) {
		var om utils.OrderedMap[string, int]
		om.Set("a", 1)
		om.Set("b", 2)
		om.Set("a", 10)

		v, _ := om.Get("a")
		if v != 10 {
			t.Errorf("expected updated value 10, got %d", v)
		}

		var keys []string
		for k := range om.Entries() {
			keys = append(keys, k)
		}
		if len(keys) != 2 || keys[0] != "a" || keys[1] != "b" {
			t.Errorf("expected order [a b] preserved after update, got %v", keys)
		}
	})

	t.Run("missing key reports not found", func(t *testing.T) {
		var om utils.OrderedMap[string, int]
		if _, ok := om.Get("missing"); ok {
			t.Errorf("expected 'missing' to not be found")
		}
	})
}

func TestResolveTargets(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"A.jack", "B.jack", "C.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("// stub"), 0644); err != nil {
			t.Fatalf("failed to seed fixture file: %v", err)
		}
	}

	t.Run("directory target matches only the given extension", func(t *testing.T) {
		files, root, isDir, err := utils.ResolveTargets(dir, ".jack")
		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		if !isDir {
			t.Errorf("expected isDir to be true for a directory target")
		}
		if root != dir {
			t.Errorf("expected root %s, got %s", dir, root)
		}
		if len(files) != 2 {
			t.Fatalf("expected 2 .jack files, got %d: %v", len(files), files)
		}
	})

	t.Run("single file target", func(t *testing.T) {
		file := filepath.Join(dir, "A.jack")
		files, _, isDir, err := utils.ResolveTargets(file, ".jack")
		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		if isDir {
			t.Errorf("expected isDir to be false for a file target")
		}
		if len(files) != 1 || files[0] != file {
			t.Errorf("expected [%s], got %v", file, files)
		}
	})

	t.Run("missing target errors", func(t *testing.T) {
		if _, _, _, err := utils.ResolveTargets(filepath.Join(dir, "missing"), ".jack"); err == nil {
			t.Errorf("expected an error resolving a nonexistent target")
		}
	})
}

func TestSwapExt(t *testing.T) {
	got := utils.SwapExt("foo/Bar.jack", ".vm")
	want := "foo/Bar.vm"
	if got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestDirOutput(t *testing.T) {
	got := utils.DirOutput("foo/Bar", ".asm")
	want := "foo/Bar/Bar.asm"
	if got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}
