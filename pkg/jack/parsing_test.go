package jack_test

import (
	"strings"
	"testing"

	"its-hmny.dev/nand2tetris/pkg/jack"
)

func TestParseClass(t *testing.T) {
	source := `
	class Main {
		static int count;
		field boolean done;

		constructor Main new() {
			let count = 0;
			return this;
		}

		method void run(int limit) {
			var int i;
			let i = 0;
			while (i < limit) {
				if (i = 0) {
					do Output.printString("start");
				} else {
					do Output.printInt(i);
				}
				let i = i + 1;
			}
			return;
		}
	}
	`

	parser := jack.NewParser(strings.NewReader(source))
	class, err := parser.Parse()
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if class.Name != "Main" {
		t.Errorf("expected class name 'Main', got '%s'", class.Name)
	}

	if _, ok := class.Fields.Get("count"); !ok {
		t.Errorf("expected field 'count' to be registered")
	}
	if _, ok := class.Fields.Get("done"); !ok {
		t.Errorf("expected field 'done' to be registered")
	}

	ctor, ok := class.Subroutines.Get("new")
	if !ok {
		t.Fatalf("expected subroutine 'new' to be registered")
	}
	if ctor.Type != jack.Constructor {
		t.Errorf("expected 'new' to be a constructor, got %v", ctor.Type)
	}

	run, ok := class.Subroutines.Get("run")
	if !ok {
		t.Fatalf("expected subroutine 'run' to be registered")
	}
	if run.Type != jack.Method {
		t.Errorf("expected 'run' to be a method, got %v", run.Type)
	}
	if len(run.Arguments) != 1 || run.Arguments[0].Name != "limit" {
		t.Errorf("expected 'run' to take a single 'limit' argument, got %+v", run.Arguments)
	}
}

func TestParseExpressionChain(t *testing.T) {
	// Jack has no operator precedence: "2 + 3 * 4" must parse as ((2 + 3) * 4).
	source := `
	class Main {
		function int compute() {
			return 2 + 3 * 4;
		}
	}
	`

	parser := jack.NewParser(strings.NewReader(source))
	class, err := parser.Parse()
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	compute, ok := class.Subroutines.Get("compute")
	if !ok {
		t.Fatalf("expected subroutine 'compute' to be registered")
	}
	if len(compute.Statements) != 1 {
		t.Fatalf("expected a single return statement, got %d", len(compute.Statements))
	}

	ret, ok := compute.Statements[0].(jack.ReturnStmt)
	if !ok {
		t.Fatalf("expected a jack.ReturnStmt, got %T", compute.Statements[0])
	}

	outer, ok := ret.Expr.(jack.BinaryExpr)
	if !ok {
		t.Fatalf("expected outer expr to be a jack.BinaryExpr, got %T", ret.Expr)
	}
	if outer.Type != jack.Multiply {
		t.Errorf("expected outermost operator to be Multiply (no precedence), got %v", outer.Type)
	}

	inner, ok := outer.Lhs.(jack.BinaryExpr)
	if !ok {
		t.Fatalf("expected LHS to be a jack.BinaryExpr, got %T", outer.Lhs)
	}
	if inner.Type != jack.Plus {
		t.Errorf("expected innermost operator to be Plus, got %v", inner.Type)
	}
}

func TestParseArrayAndCall(t *testing.T) {
	source := `
	class Main {
		function void use() {
			var Array a;
			let a[0] = Keyboard.readInt("n");
			return;
		}
	}
	`

	parser := jack.NewParser(strings.NewReader(source))
	class, err := parser.Parse()
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	use, ok := class.Subroutines.Get("use")
	if !ok {
		t.Fatalf("expected subroutine 'use' to be registered")
	}
	if len(use.Statements) != 2 {
		t.Fatalf("expected a var statement followed by a let statement, got %d statements", len(use.Statements))
	}

	let, ok := use.Statements[1].(jack.LetStmt)
	if !ok {
		t.Fatalf("expected a jack.LetStmt, got %T", use.Statements[1])
	}
	if _, ok := let.Lhs.(jack.ArrayExpr); !ok {
		t.Errorf("expected an indexed assignment, got %T", let.Lhs)
	}

	call, ok := let.Rhs.(jack.FuncCallExpr)
	if !ok {
		t.Fatalf("expected a jack.FuncCallExpr, got %T", let.Rhs)
	}
	if !call.IsExtCall || call.Var != "Keyboard" || call.FuncName != "readInt" {
		t.Errorf("expected an external call to Keyboard.readInt, got %+v", call)
	}
}
