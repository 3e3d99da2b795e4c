package main

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/teris-io/cli"
	"its-hmny.dev/nand2tetris/pkg/asm"
	"its-hmny.dev/nand2tetris/pkg/hack"
	"its-hmny.dev/nand2tetris/pkg/utils"
)

var Description = strings.ReplaceAll(`
The Hack Assembler takes assembly language code written in the Hack assembly language
and translates it into machine code that can be executed by the Hack computer. The process
involves parsing the assembly code, resolving symbols, and generating machine code.
`, "\n", " ")

var HackAssembler = cli.New(Description).
	WithArg(cli.NewArg("input", "The assembler (.asm) file or directory to be compiled").
		AsOptional().WithType(cli.TypeString)).
	WithAction(Handler)

func Handler(args []string, options map[string]string) int {
	target := ""
	if len(args) > 0 {
		target = args[0]
	}

	inputs, _, _, err := utils.ResolveTargets(target, ".asm")
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Unable to resolve input target: %s\n", err)
		return -1
	}
	if len(inputs) == 0 {
		fmt.Fprintf(os.Stderr, "ERROR: No .asm files found in '%s'\n", target)
		return -1
	}

	for _, input := range inputs {
		if err := compile(input); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
			return -1
		}
	}

	return 0
}

// Each input file is assembled and written out independently: unlike the VM translator,
// there is no concept of linking multiple .asm files into a single program.
func compile(input string) error {
	content, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("unable to open input file: %w", err)
	}

	// Instantiate a parser for the Asm program
	parser := asm.NewParser(bytes.NewReader(content))
	// Parses the input file content and extract an AST (as a 'asm.Program') from it.
	asmProgram, err := parser.Parse()
	if err != nil {
		return fmt.Errorf("unable to complete 'parsing' pass: %w", err)
	}

	// Instantiate a lowerer to convert the program from Asm to Hack
	lowerer := asm.NewLowerer(asmProgram)
	// Lowers the asm.Program to an in-memory/IR representation of its Hack counterpart 'hack.Program'.
	hackProgram, table, err := lowerer.Lower()
	if err != nil {
		return fmt.Errorf("unable to complete 'lowering' pass: %w", err)
	}

	// Now, instantiates a code generator for the Hack (compiled) program
	codegen := hack.NewCodeGenerator(hackProgram, table)
	// Iterates over each instruction and spits out the relative textual representation.
	compiled, err := codegen.Generate()
	if err != nil {
		return fmt.Errorf("unable to complete 'codegen' pass: %w", err)
	}

	output, err := os.Create(utils.SwapExt(input, ".hack"))
	if err != nil {
		return fmt.Errorf("unable to open output file: %w", err)
	}
	defer output.Close()

	for _, comp := range compiled {
		line := fmt.Sprintf("%s\n", comp)
		output.Write([]byte(line))
	}

	return nil
}

func main() { os.Exit(HackAssembler.Run(os.Args, os.Stdout)) }
