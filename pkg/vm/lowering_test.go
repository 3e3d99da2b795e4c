package vm_test

import (
	"testing"

	"its-hmny.dev/nand2tetris/pkg/asm"
	"its-hmny.dev/nand2tetris/pkg/vm"
)

func TestLowererPushConstant(t *testing.T) {
	program := vm.Program{
		"Main": vm.Module{
			vm.MemoryOp{Operation: vm.Push, Segment: vm.Constant, Offset: 7},
		},
	}

	lowerer := vm.NewLowerer(program)
	asmProgram, err := lowerer.Lowerer()
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	want := []asm.Instruction{
		asm.AInstruction{Location: "7"},
		asm.CInstruction{Dest: "D", Comp: "A"},
		asm.AInstruction{Location: "SP"},
		asm.CInstruction{Dest: "M", Comp: "M+1"},
		asm.CInstruction{Dest: "A", Comp: "M-1"},
		asm.CInstruction{Dest: "M", Comp: "D"},
	}

	if len(asmProgram) != len(want) {
		t.Fatalf("expected %d instructions, got %d: %+v", len(want), len(asmProgram), asmProgram)
	}
	for i := range want {
		if asmProgram[i] != want[i] {
			t.Errorf("instruction %d: expected %+v, got %+v", i, want[i], asmProgram[i])
		}
	}
}

func TestLowererRejectsPopIntoConstant(t *testing.T) {
	program := vm.Program{
		"Main": vm.Module{
			vm.MemoryOp{Operation: vm.Pop, Segment: vm.Constant, Offset: 0},
		},
	}

	lowerer := vm.NewLowerer(program)
	if _, err := lowerer.Lowerer(); err == nil {
		t.Errorf("expected an error popping into the 'constant' segment")
	}
}

func TestLowererRejectsEmptyProgram(t *testing.T) {
	lowerer := vm.NewLowerer(vm.Program{})
	if _, err := lowerer.Lowerer(); err == nil {
		t.Errorf("expected an error lowering an empty program")
	}
}

func TestLowererStaticSegmentNamespacedPerModule(t *testing.T) {
	program := vm.Program{
		"Foo": vm.Module{vm.MemoryOp{Operation: vm.Push, Segment: vm.Static, Offset: 0}},
		"Bar": vm.Module{vm.MemoryOp{Operation: vm.Push, Segment: vm.Static, Offset: 0}},
	}

	lowerer := vm.NewLowerer(program)
	asmProgram, err := lowerer.Lowerer()
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	// Modules are lowered in lexicographic order ("Bar" before "Foo"), and each
	// module's static slot 0 must resolve to its own namespaced symbol.
	first, ok := asmProgram[0].(asm.AInstruction)
	if !ok || first.Location != "Bar.0" {
		t.Errorf("expected first instruction to reference 'Bar.0', got %+v", asmProgram[0])
	}
}

func TestLowererFunctionCallRoundTrip(t *testing.T) {
	program := vm.Program{
		"Main": vm.Module{
			vm.FuncDecl{Name: "Main.main", NLocal: 1},
			vm.MemoryOp{Operation: vm.Push, Segment: vm.Constant, Offset: 0},
			vm.FuncCallOp{Name: "Main.helper", NArgs: 1},
			vm.ReturnOp{},
		},
	}

	lowerer := vm.NewLowerer(program)
	asmProgram, err := lowerer.Lowerer()
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(asmProgram) == 0 {
		t.Fatalf("expected a non-empty lowered program")
	}

	label, ok := asmProgram[0].(asm.LabelDecl)
	if !ok || label.Name != "Main.main" {
		t.Errorf("expected the function's entry label first, got %+v", asmProgram[0])
	}
}
