package utils

import (
	"os"
	"path/filepath"
	"sort"
)

// Resolves the CLI's "zero or one positional argument" convention shared by every
// tool in this repository: no argument means "use the current working directory",
// one argument may be a single file or a directory. Returns every file matching
// 'ext' (e.g. ".jack") found under the target, sorted for reproducible iteration,
// and whether the target itself was a directory (vs a single file).
func ResolveTargets(arg string, ext string) (files []string, dir string, isDir bool, err error) {
	target := arg
	if target == "" {
		target = "."
	}

	info, err := os.Stat(target)
	if err != nil {
		return nil, "", false, err
	}

	if !info.IsDir() {
		return []string{target}, filepath.Dir(target), false, nil
	}

	err = filepath.Walk(target, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !info.IsDir() && filepath.Ext(path) == ext {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, "", false, err
	}

	sort.Strings(files)
	return files, target, true, nil
}

// Swaps a file path's extension, keeping its directory and stem, e.g.
// SwapExt("foo/Bar.jack", ".vm") -> "foo/Bar.vm".
func SwapExt(path string, newExt string) string {
	trimmed := path[:len(path)-len(filepath.Ext(path))]
	return trimmed + newExt
}

// Derives the output path for a directory-mode translation that concatenates every
// matching input into one file named after the directory, e.g. a "Foo/" directory
// translated with newExt ".asm" produces "Foo/Foo.asm".
func DirOutput(dir string, newExt string) string {
	name := filepath.Base(dir)
	if abs, err := filepath.Abs(dir); err == nil {
		name = filepath.Base(abs) // Resolves '.' and '..' to the real directory name
	}
	return filepath.Join(dir, name+newExt)
}
