package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/teris-io/cli"
	"its-hmny.dev/nand2tetris/pkg/jack"
	"its-hmny.dev/nand2tetris/pkg/utils"
)

var Description = strings.ReplaceAll(`
The Jack Analyzer parses programs written in the Jack language and emits, for each
source file, the standard nand2tetris parse tree as an XML file. Unlike the Jack
Compiler it never lowers the source to VM code: it exists purely to let the grammar
and the tokenizer be inspected directly, one grammar production/token per XML line.
`, "\n", " ")

var JackAnalyzer = cli.New(Description).
	WithArg(cli.NewArg("input", "The source (.jack) file or directory to be analyzed").
		AsOptional().WithType(cli.TypeString)).
	WithAction(Handler)

func Handler(args []string, options map[string]string) int {
	target := ""
	if len(args) > 0 {
		target = args[0]
	}

	inputs, _, _, err := utils.ResolveTargets(target, ".jack")
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Unable to resolve input target: %s\n", err)
		return -1
	}
	if len(inputs) == 0 {
		fmt.Fprintf(os.Stderr, "ERROR: No .jack files found in '%s'\n", target)
		return -1
	}

	for _, input := range inputs {
		if err := analyze(input); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
			return -1
		}
	}

	return 0
}

// Each input file is analyzed and written out independently, one .xml sibling per .jack source.
func analyze(input string) error {
	content, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("unable to open input file: %w", err)
	}

	// Only the 'FromSource' stage is needed here: the analyzer walks the raw parse tree
	// directly, it never folds it down to a 'jack.Class' the way the compiler does.
	parser := jack.NewParser(nil)
	root, success := parser.FromSource(content)
	if !success {
		return fmt.Errorf("unable to complete 'parsing' pass")
	}

	generator := jack.NewXmlGenerator()
	lines, err := generator.Generate(root)
	if err != nil {
		return fmt.Errorf("unable to complete 'xml' generation pass: %w", err)
	}

	output, err := os.Create(utils.SwapExt(input, ".xml"))
	if err != nil {
		return fmt.Errorf("unable to open output file: %w", err)
	}
	defer output.Close()

	for _, line := range lines {
		output.Write([]byte(fmt.Sprintf("%s\n", line)))
	}

	return nil
}

func main() { os.Exit(JackAnalyzer.Run(os.Args, os.Stdout)) }
