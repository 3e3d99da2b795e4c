package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/teris-io/cli"
	"its-hmny.dev/nand2tetris/pkg/asm"
	"its-hmny.dev/nand2tetris/pkg/utils"
	"its-hmny.dev/nand2tetris/pkg/vm"
)

var Description = strings.ReplaceAll(`
The VM Translator translates programs (composed of multiple modules/files) written in
the VM language into Hack assembly code that can be further elaborated. The VM language
is a higher-level (bytecode'like) language tailored for use with the Hack computer arch.
`, "\n", " ")

var VmTranslator = cli.New(Description).
	WithArg(cli.NewArg("input", "The bytecode (.vm) file or directory to be compiled").
		AsOptional().WithType(cli.TypeString)).
	WithOption(cli.NewOption("bootstrap", "Includes bootstrap code in the final .asm file").
		WithType(cli.TypeBool)).
	WithAction(Handler)

func Handler(args []string, options map[string]string) int {
	target := ""
	if len(args) > 0 {
		target = args[0]
	}

	inputs, dir, isDir, err := utils.ResolveTargets(target, ".vm")
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Unable to resolve input target: %s\n", err)
		return -1
	}
	if len(inputs) == 0 {
		fmt.Fprintf(os.Stderr, "ERROR: No .vm files found in '%s'\n", target)
		return -1
	}

	// Allocates a 'vm.Program' struct to save all the parsed translation unit
	// (the .vm files) that will be parsed and lowered independently and then
	// sent to the codegen phases (that will create a monolithic compiled output).
	program := vm.Program{}

	// For every file provided by the user we do the following things
	for _, input := range inputs {
		content, err := os.ReadFile(input)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: Unable to open input file: %s\n", err)
			return -1
		}

		// Instantiate a parser for the Vm program
		parser := vm.NewParser(bytes.NewReader(content))
		// Parses the input file content and extract an AST (as a 'vm.Module') from it.
		stem := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
		program[stem], err = parser.Parse()
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: Unable to complete 'parsing' pass: %s\n", err)
			return -1
		}
	}

	// Instantiate a lowerer to convert the program from Vm to Asm
	lowerer := vm.NewLowerer(program)
	// Lowers the vm.Program to an in-memory/IR representation of its Asm counterpart 'asm.Program'.
	asmProgram, err := lowerer.Lowerer()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Unable to complete 'lowering' pass: %s\n", err)
		return -1
	}

	// Bootstrap defaults to on for directory targets (a whole program, which needs a Sys.init
	// entry point) and off for a single file (usually translated in isolation for testing).
	_, explicit := options["bootstrap"]
	if explicit || isDir {
		prologue, err := bootstrapPrologue()
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: Unable to generate bootstrap prologue: %s\n", err)
			return -1
		}
		asmProgram = append(prologue, asmProgram...)
	}

	// Now, instantiates a code generator for the Asm (compiled) program
	codegen := asm.NewCodeGenerator(asmProgram)
	// Iterates over each instruction and spits out the relative textual representation.
	compiled, err := codegen.Generate()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Unable to complete 'codegen' pass: %s\n", err)
		return -1
	}

	outPath := utils.SwapExt(inputs[0], ".asm")
	if isDir {
		outPath = utils.DirOutput(dir, ".asm")
	}

	output, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Unable to open output file: %s\n", err)
		return -1
	}
	defer output.Close()

	for _, comp := range compiled {
		line := fmt.Sprintf("%s\n", comp)
		output.Write([]byte(line))
	}

	return 0
}

// Sets the Stack Pointer to its base location (memory location 256) and performs
// a full 'call Sys.init 0', going through the standard call-frame convention (saving
// LCL/ARG/THIS/THAT, even though nothing meaningful is there yet) rather than jumping
// to 'Sys.init' directly, so the lowering logic doesn't need a special bootstrap case.
func bootstrapPrologue() (asm.Program, error) {
	setupSP := asm.Program{
		asm.AInstruction{Location: "256"},
		asm.CInstruction{Dest: "D", Comp: "A"},
		asm.AInstruction{Location: "SP"},
		asm.CInstruction{Dest: "M", Comp: "D"},
	}

	call := vm.Program{"Bootstrap": vm.Module{vm.FuncCallOp{Name: "Sys.init", NArgs: 0}}}
	lowerer := vm.NewLowerer(call)
	callAsm, err := lowerer.Lowerer()
	if err != nil {
		return nil, err
	}

	return append(setupSP, callAsm...), nil
}

func main() { os.Exit(VmTranslator.Run(os.Args, os.Stdout)) }
