package jack

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed stdlib.json
var stdlibJSON []byte

// StandardLibraryABI exposes just enough of each Jack OS class (Math, String, Array,
// Output, Screen, Keyboard, Memory, Sys) for the lowerer to resolve calls into it
// without linking a real implementation: every subroutine carries only the type
// needed to pick the right calling convention (method vs function vs constructor),
// never a body. The lowerer still emits an empty 'function' module for each of
// them, but the compiler only writes out the modules of its own input files.
var StandardLibraryABI = mustLoadStdlib()

func mustLoadStdlib() map[string]Class {
	var raw map[string]struct {
		Subroutines map[string]Subroutine `json:"subroutines"`
	}

	if err := json.Unmarshal(stdlibJSON, &raw); err != nil {
		panic(fmt.Errorf("malformed embedded stdlib.json: %w", err))
	}

	abi := make(map[string]Class, len(raw))
	for name, entry := range raw {
		class := Class{Name: name}
		for subName, sub := range entry.Subroutines {
			sub.Name = subName
			class.Subroutines.Set(subName, sub)
		}
		abi[name] = class
	}

	return abi
}
