package vm

import (
	"fmt"
	"sort"

	"its-hmny.dev/nand2tetris/pkg/asm"
)

// ----------------------------------------------------------------------------
// Segment base registers

// Maps the four pointer-addressed segments to the Hack built-in register that
// holds their base address. 'constant', 'temp', 'pointer' and 'static' are handled
// separately since they are not resolved through an indirect base+offset load.
var segmentBase = map[SegmentType]string{
	Local:    "LCL",
	Argument: "ARG",
	This:     "THIS",
	That:     "THAT",
}

// Maps a 'pointer' segment offset (0 or 1) to the register it aliases.
var pointerAlias = map[uint16]string{0: "THIS", 1: "THAT"}

// Maps an arithmetic comparison operation to the Hack jump mnemonic that should
// fire when the 'M-D' subtraction satisfies the comparison (i.e. result is "true").
var comparisonJump = map[ArithOpType]string{Eq: "JEQ", Gt: "JGT", Lt: "JLT"}

// ----------------------------------------------------------------------------
// Vm Lowerer

// The Lowerer takes a 'vm.Program' (one or more parsed modules) and produces
// its 'asm.Program' counterpart, one VM command at a time.
//
// Modules are visited in lexicographic order so that the unique label counters
// below produce the same output across runs regardless of directory-iteration
// order. 'static' segment addresses stay distinct per module since they are
// namespaced as 'MODULE.INDEX' and resolved later by the assembler.
type Lowerer struct {
	program Program

	cmpCount uint32 // Monotonic counter for unique comparison ('COMPARE.TRUE.<n>') labels
	retCount uint32 // Monotonic counter for unique call return-address labels
}

// Initializes and returns to the caller a brand new 'Lowerer' struct.
// Requires the argument Program 'p' (what we want to translate) to be non-nil.
func NewLowerer(p Program) Lowerer {
	return Lowerer{program: p}
}

// Triggers the lowering process, one module at a time in sorted name order, and
// concatenates every module's lowered instructions into a single 'asm.Program'
// (this is the "directory linking" step of the VM translator).
func (l *Lowerer) Lowerer() (asm.Program, error) {
	if len(l.program) == 0 {
		return nil, fmt.Errorf("the given 'program' is empty")
	}

	names := make([]string, 0, len(l.program))
	for name := range l.program {
		names = append(names, name)
	}
	sort.Strings(names)

	program := asm.Program{}
	for _, modName := range names {
		currentFunc := modName // Fallback namespace for labels/gotos appearing before any 'function'

		for _, op := range l.program[modName] {
			var instrs []asm.Instruction
			var err error

			switch tOp := op.(type) {
			case MemoryOp:
				instrs, err = l.lowerMemoryOp(tOp, modName)
			case ArithmeticOp:
				instrs, err = l.lowerArithmeticOp(tOp)
			case LabelDecl:
				instrs = []asm.Instruction{asm.LabelDecl{Name: fmt.Sprintf("%s$%s", currentFunc, tOp.Name)}}
			case GotoOp:
				instrs, err = l.lowerGotoOp(tOp, currentFunc)
			case FuncDecl:
				currentFunc = tOp.Name
				instrs = lowerFuncDecl(tOp)
			case FuncCallOp:
				instrs, err = l.lowerFuncCallOp(tOp)
			case ReturnOp:
				instrs = lowerReturnOp()
			default:
				err = fmt.Errorf("unrecognized operation '%T' in module '%s'", op, modName)
			}

			if err != nil {
				return nil, fmt.Errorf("module '%s': %w", modName, err)
			}
			program = append(program, instrs...)
		}
	}

	return program, nil
}

// ----------------------------------------------------------------------------
// Stack primitives

// Pushes the value currently in 'D' onto the stack and advances SP.
func pushD() []asm.Instruction {
	return []asm.Instruction{
		asm.AInstruction{Location: "SP"},
		asm.CInstruction{Dest: "M", Comp: "M+1"},
		asm.CInstruction{Dest: "A", Comp: "M-1"},
		asm.CInstruction{Dest: "M", Comp: "D"},
	}
}

// Pops the stack's top into 'D' and retreats SP.
func popD() []asm.Instruction {
	return []asm.Instruction{
		asm.AInstruction{Location: "SP"},
		asm.CInstruction{Dest: "AM", Comp: "M-1"},
		asm.CInstruction{Dest: "D", Comp: "M"},
	}
}

// Sets 'A' to the address of the stack's top without popping it.
func peek() []asm.Instruction {
	return []asm.Instruction{
		asm.AInstruction{Location: "SP"},
		asm.CInstruction{Dest: "A", Comp: "M-1"},
	}
}

// ----------------------------------------------------------------------------
// Memory Op lowering

func (l *Lowerer) lowerMemoryOp(op MemoryOp, module string) ([]asm.Instruction, error) {
	if op.Segment == Pointer && op.Offset > 1 {
		return nil, fmt.Errorf("invalid 'pointer' offset, got %d", op.Offset)
	}
	if op.Segment == Temp && op.Offset > 7 {
		return nil, fmt.Errorf("invalid 'temp' offset, got %d", op.Offset)
	}

	switch op.Segment {
	case Constant:
		if op.Operation == Pop {
			return nil, fmt.Errorf("cannot 'pop' into the 'constant' segment")
		}
		return pushConstant(op.Offset), nil

	case Local, Argument, This, That:
		base := segmentBase[op.Segment]
		if op.Operation == Push {
			return pushFromAddr(base, op.Offset), nil
		}
		return popToAddr(base, op.Offset), nil

	case Temp:
		loc := fmt.Sprintf("%d", 5+op.Offset)
		if op.Operation == Push {
			return pushFrom(loc), nil
		}
		return popTo(loc), nil

	case Pointer:
		loc := pointerAlias[op.Offset]
		if op.Operation == Push {
			return pushFrom(loc), nil
		}
		return popTo(loc), nil

	case Static:
		loc := fmt.Sprintf("%s.%d", module, op.Offset)
		if op.Operation == Push {
			return pushFrom(loc), nil
		}
		return popTo(loc), nil

	default:
		return nil, fmt.Errorf("unrecognized segment '%s'", op.Segment)
	}
}

// 'push constant k': loads the literal into D and pushes it.
func pushConstant(k uint16) []asm.Instruction {
	instrs := []asm.Instruction{
		asm.AInstruction{Location: fmt.Sprint(k)},
		asm.CInstruction{Dest: "D", Comp: "A"},
	}
	return append(instrs, pushD()...)
}

// Reads the value at a direct register/address ('temp', 'pointer', 'static') and pushes it.
func pushFrom(loc string) []asm.Instruction {
	instrs := []asm.Instruction{
		asm.AInstruction{Location: loc},
		asm.CInstruction{Dest: "D", Comp: "M"},
	}
	return append(instrs, pushD()...)
}

// Pops the stack's top into a direct register/address ('temp', 'pointer', 'static').
func popTo(loc string) []asm.Instruction {
	instrs := popD()
	return append(instrs,
		asm.AInstruction{Location: loc},
		asm.CInstruction{Dest: "M", Comp: "D"},
	)
}

// Reads '*(base+offset)' (an indirect segment: local/argument/this/that) and pushes it.
func pushFromAddr(base string, offset uint16) []asm.Instruction {
	instrs := []asm.Instruction{
		asm.AInstruction{Location: fmt.Sprint(offset)},
		asm.CInstruction{Dest: "D", Comp: "A"},
		asm.AInstruction{Location: base},
		asm.CInstruction{Dest: "A", Comp: "M+D"},
		asm.CInstruction{Dest: "D", Comp: "M"},
	}
	return append(instrs, pushD()...)
}

// Pops the stack's top into '*(base+offset)' (an indirect segment: local/argument/this/that).
// Uses R13 as scratch to hold the resolved address, since the pop itself clobbers D.
func popToAddr(base string, offset uint16) []asm.Instruction {
	return []asm.Instruction{
		asm.AInstruction{Location: fmt.Sprint(offset)},
		asm.CInstruction{Dest: "D", Comp: "A"},
		asm.AInstruction{Location: base},
		asm.CInstruction{Dest: "D", Comp: "M+D"},
		asm.AInstruction{Location: "R13"},
		asm.CInstruction{Dest: "M", Comp: "D"},
		asm.AInstruction{Location: "SP"},
		asm.CInstruction{Dest: "AM", Comp: "M-1"},
		asm.CInstruction{Dest: "D", Comp: "M"},
		asm.AInstruction{Location: "R13"},
		asm.CInstruction{Dest: "A", Comp: "M"},
		asm.CInstruction{Dest: "M", Comp: "D"},
	}
}

// ----------------------------------------------------------------------------
// Arithmetic Op lowering

func (l *Lowerer) lowerArithmeticOp(op ArithmeticOp) ([]asm.Instruction, error) {
	switch op.Operation {
	case Add, Sub, And, Or:
		return binaryOp(op.Operation), nil
	case Neg, Not:
		return unaryOp(op.Operation), nil
	case Eq, Gt, Lt:
		l.cmpCount++
		return comparisonOp(op.Operation, l.cmpCount), nil
	default:
		return nil, fmt.Errorf("unrecognized arithmetic operation '%s'", op.Operation)
	}
}

// Binary ops pop the right-hand operand into D, then combine it into the (now exposed)
// left-hand operand in place: 'M = M <op> D'.
func binaryOp(op ArithOpType) []asm.Instruction {
	comp := map[ArithOpType]string{Add: "M+D", Sub: "M-D", And: "M&D", Or: "M|D"}[op]

	instrs := popD()
	instrs = append(instrs, peek()...)
	return append(instrs, asm.CInstruction{Dest: "M", Comp: comp})
}

// Unary ops operate directly on the stack's top in place: 'M = <op> M'.
func unaryOp(op ArithOpType) []asm.Instruction {
	comp := map[ArithOpType]string{Neg: "-M", Not: "!M"}[op]

	instrs := peek()
	return append(instrs, asm.CInstruction{Dest: "M", Comp: comp})
}

// Comparisons pop both operands, subtract them, then branch on the requested
// predicate to decide between pushing "true" (-1) or "false" (0) in place of the pair.
// Each comparison needs its own label suffix so nested/repeated comparisons don't collide.
func comparisonOp(op ArithOpType, n uint32) []asm.Instruction {
	trueLabel := fmt.Sprintf("COMPARE.TRUE.%d", n)

	instrs := popD()
	instrs = append(instrs, peek()...)
	instrs = append(instrs,
		asm.CInstruction{Dest: "D", Comp: "M-D"},
		asm.CInstruction{Dest: "M", Comp: "-1"},
		asm.AInstruction{Location: trueLabel},
		asm.CInstruction{Comp: "D", Jump: comparisonJump[op]},
		asm.AInstruction{Location: "SP"},
		asm.CInstruction{Dest: "A", Comp: "M-1"},
		asm.CInstruction{Dest: "M", Comp: "0"},
		asm.LabelDecl{Name: trueLabel},
	)
	return instrs
}

// ----------------------------------------------------------------------------
// Control flow Op lowering

func (l *Lowerer) lowerGotoOp(op GotoOp, function string) ([]asm.Instruction, error) {
	if op.Label == "" {
		return nil, fmt.Errorf("unable to lower jump with empty label")
	}
	target := fmt.Sprintf("%s$%s", function, op.Label)

	switch op.Jump {
	case Unconditional:
		return []asm.Instruction{
			asm.AInstruction{Location: target},
			asm.CInstruction{Comp: "0", Jump: "JMP"},
		}, nil
	case Conditional:
		instrs := popD()
		return append(instrs,
			asm.AInstruction{Location: target},
			asm.CInstruction{Comp: "D", Jump: "JNE"},
		), nil
	default:
		return nil, fmt.Errorf("unrecognized jump type '%s'", op.Jump)
	}
}

// ----------------------------------------------------------------------------
// Function Op lowering

// 'function f n': declares the entry point and zero-initializes 'n' locals, pushing
// them onto the stack so ARG/LCL bookkeeping from the call convention stays correct.
func lowerFuncDecl(op FuncDecl) []asm.Instruction {
	instrs := []asm.Instruction{asm.LabelDecl{Name: op.Name}}
	for i := uint16(0); i < op.NLocal; i++ {
		instrs = append(instrs, pushConstant(0)...)
	}
	return instrs
}

// 'call f n': saves the caller's frame (return address, LCL, ARG, THIS, THAT), repositions
// ARG/LCL for the callee, then jumps. The return-address label is unique per call site.
func (l *Lowerer) lowerFuncCallOp(op FuncCallOp) ([]asm.Instruction, error) {
	if op.Name == "" {
		return nil, fmt.Errorf("unable to lower call with empty function name")
	}
	l.retCount++
	retLabel := fmt.Sprintf("%s$ret.%d", op.Name, l.retCount)

	instrs := []asm.Instruction{
		// Push the return address (a label, resolved like any other symbol by the assembler)
		asm.AInstruction{Location: retLabel},
		asm.CInstruction{Dest: "D", Comp: "A"},
	}
	instrs = append(instrs, pushD()...)

	// Save caller's LCL/ARG/THIS/THAT
	for _, reg := range []string{"LCL", "ARG", "THIS", "THAT"} {
		instrs = append(instrs,
			asm.AInstruction{Location: reg},
			asm.CInstruction{Dest: "D", Comp: "M"},
		)
		instrs = append(instrs, pushD()...)
	}

	instrs = append(instrs,
		// ARG = SP - 5 - nArgs
		asm.AInstruction{Location: "SP"},
		asm.CInstruction{Dest: "D", Comp: "M"},
		asm.AInstruction{Location: fmt.Sprint(5 + op.NArgs)},
		asm.CInstruction{Dest: "D", Comp: "D-A"},
		asm.AInstruction{Location: "ARG"},
		asm.CInstruction{Dest: "M", Comp: "D"},
		// LCL = SP
		asm.AInstruction{Location: "SP"},
		asm.CInstruction{Dest: "D", Comp: "M"},
		asm.AInstruction{Location: "LCL"},
		asm.CInstruction{Dest: "M", Comp: "D"},
		// goto f
		asm.AInstruction{Location: op.Name},
		asm.CInstruction{Comp: "0", Jump: "JMP"},
		// (returnLabel)
		asm.LabelDecl{Name: retLabel},
	)

	return instrs, nil
}

// 'return': tears down the current frame using R13 as a scratch frame pointer and R14
// to stash the return address (both survive the pops below), restoring the caller's
// THAT/THIS/ARG/LCL from the four words immediately below the frame pointer.
func lowerReturnOp() []asm.Instruction {
	instrs := popD() // D = return value

	instrs = append(instrs,
		// *ARG = return value
		asm.AInstruction{Location: "ARG"},
		asm.CInstruction{Dest: "A", Comp: "M"},
		asm.CInstruction{Dest: "M", Comp: "D"},
		// R13 = LCL (frame pointer)
		asm.AInstruction{Location: "LCL"},
		asm.CInstruction{Dest: "D", Comp: "M"},
		asm.AInstruction{Location: "R13"},
		asm.CInstruction{Dest: "M", Comp: "D"},
		// R14 = *(frame-5) (return address)
		asm.AInstruction{Location: "5"},
		asm.CInstruction{Dest: "A", Comp: "D-A"},
		asm.CInstruction{Dest: "D", Comp: "M"},
		asm.AInstruction{Location: "R14"},
		asm.CInstruction{Dest: "M", Comp: "D"},
		// SP = ARG + 1
		asm.AInstruction{Location: "ARG"},
		asm.CInstruction{Dest: "D", Comp: "M+1"},
		asm.AInstruction{Location: "SP"},
		asm.CInstruction{Dest: "M", Comp: "D"},
	)

	for _, reg := range []string{"THAT", "THIS", "ARG", "LCL"} {
		instrs = append(instrs,
			asm.AInstruction{Location: "R13"},
			asm.CInstruction{Dest: "AM", Comp: "M-1"},
			asm.CInstruction{Dest: "D", Comp: "M"},
			asm.AInstruction{Location: reg},
			asm.CInstruction{Dest: "M", Comp: "D"},
		)
	}

	return append(instrs,
		asm.AInstruction{Location: "R14"},
		asm.CInstruction{Dest: "A", Comp: "M"},
		asm.CInstruction{Comp: "0", Jump: "JMP"},
	)
}
