package jack

import (
	"fmt"
	"io"
	"os"
	"strings"

	pc "github.com/prataprc/goparsec"
)

// ----------------------------------------------------------------------------
// Parser Combinator(s)

// This section defines the Parser Combinator for every token & construct of the Jack language.
//
// Each parser combinator either manages a top level construct (class, subroutine, statement,
// expression, ...) or some piece of it: namely tokens, identifiers and data types. Comments are
// allowed anywhere a class member, a var declaration or a statement is allowed, matching the way
// real world Jack source is laid out (a header comment, doc comments above methods, and so on).
var ast = pc.NewAST("jack_program", 0)

var (
	// Parser combinator for an entire Jack class, the only top-level construct allowed by the language.
	pClass = ast.And("class", nil,
		ast.Kleene("file_header", nil, pComment),
		pc.Atom("class", "CLASS"), pIdent, pLBrace,
		ast.Kleene("class_var_decs", nil, ast.OrdChoice("cvd_choice", nil, pComment, pClassVarDec)),
		ast.Kleene("subroutine_decs", nil, ast.OrdChoice("sd_choice", nil, pComment, pSubroutineDec)),
		pRBrace,
	)

	// Field or static variable declaration, e.g. "field int x, y;" or "static boolean done;"
	pClassVarDec = ast.And("class_var_dec", nil,
		pVarScope, pType, pIdent, ast.Kleene("more_vars", nil, pIdent, pComma), pSemi,
	)

	// Subroutine declaration, e.g. "method void dispose() { ... }"
	pSubroutineDec = ast.And("subroutine_dec", nil,
		pSubroutineScope, pReturnType, pIdent,
		pLParen, pParameterList, pRParen,
		pSubroutineBody,
	)

	// Subroutine body: local var declarations followed by the statement list.
	pSubroutineBody = ast.And("subroutine_body", nil,
		pLBrace,
		ast.Kleene("var_decs", nil, ast.OrdChoice("vd_choice", nil, pComment, pVarDec)),
		ast.Kleene("statements", nil, pStatementChoice),
		pRBrace,
	)

	// Local variable declaration, e.g. "var int i, j;"
	pVarDec = ast.And("var_dec", nil,
		pc.Atom("var", "VAR"), pType, pIdent, ast.Kleene("more_vars", nil, pIdent, pComma), pSemi,
	)

	// Parameter list of a subroutine, e.g. "int x, int y" (can be empty).
	pParameterList = ast.Kleene("parameters", nil, ast.And("parameter", nil, pType, pIdent), pComma)

	// Single line ("// ...") and multi line ("/* ... */") comments, always surfaced as a "comment" node.
	pComment   = ast.And("comment", nil, ast.OrdChoice("comment_variant", nil, pSlComment, pMlComment))
	pSlComment = ast.And("sl_comment", nil, pc.Atom("//", "//"), pc.Token(`(?m).*$`, "COMMENT"))
	pMlComment = ast.And("ml_comment", nil, pc.Token(`/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`, "ML_COMMENT"))
)

var (
	pStatementChoice = ast.OrdChoice("stmt_choice", nil,
		pComment, pLetStmt, pIfStmt, pWhileStmt, pDoStmt, pReturnStmt,
	)

	// Assignment statement, supports both plain vars and array cells on the LHS.
	pLetStmt = ast.And("let_stmt", nil,
		pc.Atom("let", "LET"), pIdent,
		ast.Maybe("index", nil, ast.And("index_expr", nil, pLBracket, pExpr, pRBracket)),
		pEquals, pExpr, pSemi,
	)

	// Conditional statement, the else branch is optional.
	pIfStmt = ast.And("if_stmt", nil,
		pc.Atom("if", "IF"), pLParen, pExpr, pRParen,
		pLBrace, ast.Kleene("then_block", nil, pStatementChoice), pRBrace,
		ast.Maybe("else_block", nil, ast.And("else_body", nil,
			pc.Atom("else", "ELSE"), pLBrace, ast.Kleene("stmts", nil, pStatementChoice), pRBrace,
		)),
	)

	// Iteration statement.
	pWhileStmt = ast.And("while_stmt", nil,
		pc.Atom("while", "WHILE"), pLParen, pExpr, pRParen,
		pLBrace, ast.Kleene("block", nil, pStatementChoice), pRBrace,
	)

	// Unconditional subroutine call statement, its return value is always discarded.
	pDoStmt = ast.And("do_stmt", nil, pc.Atom("do", "DO"), pSubroutineCall, pSemi)

	// Return statement, the expression is optional (subroutines returning 'void' omit it).
	pReturnStmt = ast.And("return_stmt", nil, pc.Atom("return", "RETURN"), ast.Maybe("expr_opt", nil, pExpr), pSemi)
)

var (
	// Subroutine call, supports both the local ("doSomething()") and qualified
	// ("other.doSomething()", "Utils.doSomething()") call syntax.
	pSubroutineCall = ast.And("subroutine_call", nil,
		pIdent, ast.Maybe("qualifier", nil, ast.And("qual", nil, pDot, pIdent)),
		pLParen, ast.Kleene("expr_list", nil, pExpr, pComma), pRParen,
	)

	// Jack has no operator precedence: an expression is just a left-to-right chain of terms.
	pExpr = ast.And("expression", nil, pTerm, ast.Kleene("bin_ops", nil, ast.And("bin_op_term", nil, pBinOp, pTerm)))

	// A term is either a literal, a variable (plain or indexed), a parenthesized
	// expression, a unary operation or a subroutine call. Order matters here since
	// goparsec's OrdChoice tries each alternative in turn and backtracks on failure:
	// the longer/more specific forms (calls, array access) must be tried before the
	// bare identifier fallback.
	pTerm = ast.OrdChoice("term", nil,
		pUnaryTerm, pParenExpr, pSubroutineCall, pArrayAccess, pKeywordConst, pc.Int(), pStringLit, pIdent,
	)

	pUnaryTerm   = ast.And("unary_term", nil, pUnaryOp, pTerm)
	pUnaryOp     = ast.OrdChoice("unary_op", nil, pc.Atom("-", "MINUS"), pc.Atom("~", "TILDE"))
	pParenExpr   = ast.And("paren_expr", nil, pLParen, pExpr, pRParen)
	pArrayAccess = ast.And("array_access", nil, pIdent, pLBracket, pExpr, pRBracket)

	pKeywordConst = ast.OrdChoice("keyword_const", nil,
		pc.Atom("true", "TRUE"), pc.Atom("false", "FALSE"), pc.Atom("null", "NULL"), pc.Atom("this", "THIS"),
	)

	// Jack string literals cannot contain a double quote or a newline, no escaping is supported.
	pStringLit = pc.Token(`"[^"\n]*"`, "STRING")

	pBinOp = ast.OrdChoice("bin_op", nil,
		pc.Atom("+", "PLUS"), pc.Atom("-", "MINUS"), pc.Atom("*", "STAR"), pc.Atom("/", "SLASH"),
		pc.Atom("&", "AMP"), pc.Atom("|", "PIPE"), pc.Atom("<", "LT"), pc.Atom(">", "GT"), pc.Atom("=", "EQ"),
	)
)

var (
	// Generic Identifier parser (for classes, subroutines and variables).
	// NOTE: An ident can be any sequence of letters, digits, and underscores.
	// NOTE: An ident cannot begin with a leading digit.
	pIdent = pc.Token(`[A-Za-z_][0-9a-zA-Z_]*`, "IDENT")

	pDot      = pc.Atom(".", "DOT")
	pSemi     = pc.Atom(";", "SEMI")
	pComma    = pc.Atom(",", "COMMA")
	pEquals   = pc.Atom("=", "ASSIGN")
	pLBrace   = pc.Atom("{", "LBRACE")
	pRBrace   = pc.Atom("}", "RBRACE")
	pLParen   = pc.Atom("(", "LPAREN")
	pRParen   = pc.Atom(")", "RPAREN")
	pLBracket = pc.Atom("[", "LBRACKET")
	pRBracket = pc.Atom("]", "RBRACKET")

	pVarScope = ast.OrdChoice("var_scope", nil, pc.Atom("static", "STATIC"), pc.Atom("field", "FIELD"))

	pSubroutineScope = ast.OrdChoice("subroutine_scope", nil,
		pc.Atom("constructor", "CONSTRUCTOR"), pc.Atom("function", "FUNCTION"), pc.Atom("method", "METHOD"),
	)

	// Primitive or object data type, used for fields, vars, parameters and return types.
	pType = ast.OrdChoice("type", nil, pc.Atom("int", "INT"), pc.Atom("char", "CHAR"), pc.Atom("boolean", "BOOLEAN"), pIdent)

	// Subroutine return type, can also be 'void' (unlike 'pType').
	pReturnType = ast.OrdChoice("return_type", nil, pc.Atom("void", "VOID"), pType)
)

// ----------------------------------------------------------------------------
// Jack Parser

// This section defines the Parser for the nand2tetris Jack language.
//
// It uses parser combinator(s) to obtain the AST from the source code (the latter can be provided)
// in multiple ways using a generic io.Reader, the library reads up the feature flags (as env vars):
// - PARSEC_DEBUG: Verbose logging to inspect which of the PCs gets triggered and match
// - EXPORT_AST:   Exports in the DEBUG_FOLDER a Graphviz representation of the AST
// - PRINT_AST:    Print on the stdout a textual representation of the AST
type Parser struct{ reader io.Reader }

// Initializes and returns to the caller a brand new 'Parser' struct.
// Requires the argument io.Reader 'r' to be valid and usable.
func NewParser(r io.Reader) Parser {
	return Parser{reader: r}
}

// Parser entrypoint divides the 2 phases of the parsing pipeline
// Text --> AST: This step is done using PCs and returns a generic traversable AST
// AST --> IR: This step is done by traversing the AST and extracting the 'jack.Class'
func (p *Parser) Parse() (Class, error) {
	content, err := io.ReadAll(p.reader)
	if err != nil {
		return Class{}, fmt.Errorf("cannot read from 'io.Reader': %s", err)
	}

	root, success := p.FromSource(content)
	if !success {
		return Class{}, fmt.Errorf("failed to parse AST from input content")
	}

	return p.FromAST(root)
}

// Scans the textual input stream coming from the 'reader' method and returns a traversable AST
// (Abstract Syntax Tree) that can be eventually visited to extract/transform the info available.
func (p *Parser) FromSource(source []byte) (pc.Queryable, bool) {

	// Feature flag: Enable 'goparsec' library's debug logs
	if os.Getenv("PARSEC_DEBUG") != "" {
		ast.SetDebug()
	}

	// We generate the traversable Abstract Syntax Tree from the source content
	root, _ := ast.Parsewith(pClass, pc.NewScanner(source))

	// Feature flag: Enables export of the AST as Dot file (debug.ast.fot)
	if os.Getenv("EXPORT_AST") != "" {
		file, _ := os.Create(fmt.Sprintf("%s/debug.ast.dot", os.Getenv("DEBUG_FOLDER")))
		defer file.Close()

		file.Write([]byte(ast.Dotstring("\"Jack AST\"")))
	}

	// Feature flag: Enables pretty printing of the AST on the console
	if os.Getenv("PRINT_AST") != "" {
		ast.Prettyprint()
	}
	// TODO (hmny): This hardcoding to true should be changed
	return root, true // Always reports success, whether or not the input was consumed up to 'EOF'
}

// This function takes the root node of the raw parsed AST and does a DFS on it parsing
// one by one each subtree and returning a 'jack.Class' that can be used as in-memory and
// type-safe AST not dependent on the parsing library used.
func (p *Parser) FromAST(root pc.Queryable) (Class, error) {
	return p.HandleClass(root)
}

// Specialized function to convert a "class" node to a 'jack.Class'.
func (p *Parser) HandleClass(node pc.Queryable) (Class, error) {
	if node.GetName() != "class" {
		return Class{}, fmt.Errorf("expected node 'class', found %s", node.GetName())
	}
	children := node.GetChildren()
	if len(children) != 7 {
		return Class{}, fmt.Errorf("expected node 'class' with 7 children, got %d", len(children))
	}

	name := children[2].GetValue()
	class := Class{Name: name}

	for _, child := range children[4].GetChildren() { // class_var_decs
		if child.GetName() == "comment" {
			continue
		}
		vars, err := p.HandleClassVarDec(child)
		if err != nil {
			return Class{}, fmt.Errorf("error handling class var declaration in '%s': %w", name, err)
		}
		for _, variable := range vars {
			class.Fields.Set(variable.Name, variable)
		}
	}

	for _, child := range children[5].GetChildren() { // subroutine_decs
		if child.GetName() == "comment" {
			continue
		}
		subroutine, err := p.HandleSubroutineDec(child)
		if err != nil {
			return Class{}, fmt.Errorf("error handling subroutine declaration in '%s': %w", name, err)
		}
		class.Subroutines.Set(subroutine.Name, subroutine)
	}

	return class, nil
}

// Specialized function to convert a "class_var_dec" node to a list of 'jack.Variable'.
func (p *Parser) HandleClassVarDec(node pc.Queryable) ([]Variable, error) {
	children := node.GetChildren()
	if len(children) != 5 {
		return nil, fmt.Errorf("expected node 'class_var_dec' with 5 children, got %d", len(children))
	}

	varType := Field
	if children[0].GetValue() == "static" {
		varType = Static
	}

	dataType := p.HandleDataType(children[1])
	names := []string{children[2].GetValue()}
	for _, extra := range children[3].GetChildren() {
		names = append(names, extra.GetValue())
	}

	vars := make([]Variable, 0, len(names))
	for _, name := range names {
		vars = append(vars, Variable{Name: name, VarType: varType, DataType: dataType})
	}
	return vars, nil
}

// Specialized function to convert a "var_dec" node to a list of 'jack.Variable' (always 'Local').
func (p *Parser) HandleVarDec(node pc.Queryable) ([]Variable, error) {
	children := node.GetChildren()
	if len(children) != 5 {
		return nil, fmt.Errorf("expected node 'var_dec' with 5 children, got %d", len(children))
	}

	dataType := p.HandleDataType(children[1])
	names := []string{children[2].GetValue()}
	for _, extra := range children[3].GetChildren() {
		names = append(names, extra.GetValue())
	}

	vars := make([]Variable, 0, len(names))
	for _, name := range names {
		vars = append(vars, Variable{Name: name, VarType: Local, DataType: dataType})
	}
	return vars, nil
}

// Specialized function to convert a "subroutine_dec" node to a 'jack.Subroutine'.
func (p *Parser) HandleSubroutineDec(node pc.Queryable) (Subroutine, error) {
	children := node.GetChildren()
	if len(children) != 7 {
		return Subroutine{}, fmt.Errorf("expected node 'subroutine_dec' with 7 children, got %d", len(children))
	}

	subType := Function
	switch children[0].GetValue() {
	case "constructor":
		subType = Constructor
	case "method":
		subType = Method
	}

	returnType := p.HandleDataType(children[1])
	name := children[2].GetValue()

	args := []Variable{}
	for _, param := range children[4].GetChildren() { // parameters
		pChildren := param.GetChildren()
		if len(pChildren) != 2 {
			return Subroutine{}, fmt.Errorf("expected node 'parameter' with 2 children, got %d", len(pChildren))
		}
		args = append(args, Variable{Name: pChildren[1].GetValue(), VarType: Parameter, DataType: p.HandleDataType(pChildren[0])})
	}

	statements, err := p.HandleSubroutineBody(children[6])
	if err != nil {
		return Subroutine{}, fmt.Errorf("error handling body of subroutine '%s': %w", name, err)
	}

	return Subroutine{Name: name, Type: subType, Return: returnType, Arguments: args, Statements: statements}, nil
}

// Specialized function to convert a "subroutine_body" node to a list of 'jack.Statement'.
// Local variable declarations are lowered into (and returned as) leading 'jack.VarStmt' entries,
// since the Jack AST has no separate 'locals' concept outside of the statement list.
func (p *Parser) HandleSubroutineBody(node pc.Queryable) ([]Statement, error) {
	if node.GetName() != "subroutine_body" {
		return nil, fmt.Errorf("expected node 'subroutine_body', got %s", node.GetName())
	}
	children := node.GetChildren()
	if len(children) != 4 {
		return nil, fmt.Errorf("expected node 'subroutine_body' with 4 children, got %d", len(children))
	}

	statements := []Statement{}

	for _, child := range children[1].GetChildren() { // var_decs
		if child.GetName() == "comment" {
			continue
		}
		vars, err := p.HandleVarDec(child)
		if err != nil {
			return nil, fmt.Errorf("error handling local variable declaration: %w", err)
		}
		statements = append(statements, VarStmt{Vars: vars})
	}

	block, err := p.HandleStatementList(children[2])
	if err != nil {
		return nil, err
	}

	return append(statements, block...), nil
}

// Specialized function to convert a list of statement (or comment) nodes to a list of 'jack.Statement'.
func (p *Parser) HandleStatementList(node pc.Queryable) ([]Statement, error) {
	statements := []Statement{}
	for _, child := range node.GetChildren() {
		if child.GetName() == "comment" {
			continue
		}
		stmt, err := p.HandleStatement(child)
		if err != nil {
			return nil, err
		}
		statements = append(statements, stmt)
	}
	return statements, nil
}

// Generalized function to convert any statement node to its 'jack.Statement' counterpart.
func (p *Parser) HandleStatement(node pc.Queryable) (Statement, error) {
	switch node.GetName() {
	case "let_stmt":
		return p.HandleLetStmt(node)
	case "if_stmt":
		return p.HandleIfStmt(node)
	case "while_stmt":
		return p.HandleWhileStmt(node)
	case "do_stmt":
		return p.HandleDoStmt(node)
	case "return_stmt":
		return p.HandleReturnStmt(node)
	default:
		return nil, fmt.Errorf("unrecognized statement node '%s'", node.GetName())
	}
}

// Specialized function to convert a "let_stmt" node to a 'jack.LetStmt'.
func (p *Parser) HandleLetStmt(node pc.Queryable) (Statement, error) {
	children := node.GetChildren()
	if len(children) != 6 {
		return nil, fmt.Errorf("expected node 'let_stmt' with 6 children, got %d", len(children))
	}

	name := children[1].GetValue()
	rhs, err := p.HandleExpr(children[4])
	if err != nil {
		return nil, fmt.Errorf("error handling RHS of 'let' statement: %w", err)
	}

	index := children[2]
	if index.GetName() == "index_expr" && len(index.GetChildren()) == 3 {
		indexExpr, err := p.HandleExpr(index.GetChildren()[1])
		if err != nil {
			return nil, fmt.Errorf("error handling array index in 'let' statement: %w", err)
		}
		return LetStmt{Lhs: ArrayExpr{Var: name, Index: indexExpr}, Rhs: rhs}, nil
	}

	return LetStmt{Lhs: VarExpr{Var: name}, Rhs: rhs}, nil
}

// Specialized function to convert an "if_stmt" node to a 'jack.IfStmt'.
func (p *Parser) HandleIfStmt(node pc.Queryable) (Statement, error) {
	children := node.GetChildren()
	if len(children) != 8 {
		return nil, fmt.Errorf("expected node 'if_stmt' with 8 children, got %d", len(children))
	}

	cond, err := p.HandleExpr(children[2])
	if err != nil {
		return nil, fmt.Errorf("error handling 'if' condition: %w", err)
	}

	thenBlock, err := p.HandleStatementList(children[5])
	if err != nil {
		return nil, fmt.Errorf("error handling 'if' then-block: %w", err)
	}

	elseBlock := []Statement{}
	elseNode := children[7]
	if elseNode.GetName() == "else_body" && len(elseNode.GetChildren()) == 4 {
		elseBlock, err = p.HandleStatementList(elseNode.GetChildren()[2])
		if err != nil {
			return nil, fmt.Errorf("error handling 'else' block: %w", err)
		}
	}

	return IfStmt{Condition: cond, ThenBlock: thenBlock, ElseBlock: elseBlock}, nil
}

// Specialized function to convert a "while_stmt" node to a 'jack.WhileStmt'.
func (p *Parser) HandleWhileStmt(node pc.Queryable) (Statement, error) {
	children := node.GetChildren()
	if len(children) != 7 {
		return nil, fmt.Errorf("expected node 'while_stmt' with 7 children, got %d", len(children))
	}

	cond, err := p.HandleExpr(children[2])
	if err != nil {
		return nil, fmt.Errorf("error handling 'while' condition: %w", err)
	}

	block, err := p.HandleStatementList(children[5])
	if err != nil {
		return nil, fmt.Errorf("error handling 'while' block: %w", err)
	}

	return WhileStmt{Condition: cond, Block: block}, nil
}

// Specialized function to convert a "do_stmt" node to a 'jack.DoStmt'.
func (p *Parser) HandleDoStmt(node pc.Queryable) (Statement, error) {
	children := node.GetChildren()
	if len(children) != 3 {
		return nil, fmt.Errorf("expected node 'do_stmt' with 3 children, got %d", len(children))
	}

	call, err := p.HandleSubroutineCall(children[1])
	if err != nil {
		return nil, fmt.Errorf("error handling 'do' subroutine call: %w", err)
	}

	return DoStmt{FuncCall: call}, nil
}

// Specialized function to convert a "return_stmt" node to a 'jack.ReturnStmt'.
func (p *Parser) HandleReturnStmt(node pc.Queryable) (Statement, error) {
	children := node.GetChildren()
	if len(children) != 3 {
		return nil, fmt.Errorf("expected node 'return_stmt' with 3 children, got %d", len(children))
	}

	exprNode := children[1]
	if exprNode.GetName() == "expression" {
		expr, err := p.HandleExpr(exprNode)
		if err != nil {
			return nil, fmt.Errorf("error handling return expression: %w", err)
		}
		return ReturnStmt{Expr: expr}, nil
	}

	return ReturnStmt{}, nil
}

// Specialized function to convert a "subroutine_call" node to a 'jack.FuncCallExpr'.
func (p *Parser) HandleSubroutineCall(node pc.Queryable) (FuncCallExpr, error) {
	children := node.GetChildren()
	if len(children) != 5 {
		return FuncCallExpr{}, fmt.Errorf("expected node 'subroutine_call' with 5 children, got %d", len(children))
	}

	first := children[0].GetValue()
	call := FuncCallExpr{}

	qualifier := children[1]
	if qualifier.GetName() == "qual" && len(qualifier.GetChildren()) == 2 {
		call.IsExtCall = true
		call.Var = first
		call.FuncName = qualifier.GetChildren()[1].GetValue()
	} else {
		call.FuncName = first
	}

	for _, exprNode := range children[3].GetChildren() { // expr_list
		arg, err := p.HandleExpr(exprNode)
		if err != nil {
			return FuncCallExpr{}, fmt.Errorf("error handling call argument: %w", err)
		}
		call.Arguments = append(call.Arguments, arg)
	}

	return call, nil
}

// Generalized function to convert an "expression" node to its 'jack.Expression' counterpart.
// Since Jack has no operator precedence, every subsequent 'bin_op_term' just folds left.
func (p *Parser) HandleExpr(node pc.Queryable) (Expression, error) {
	if node.GetName() != "expression" {
		return nil, fmt.Errorf("expected node 'expression', got %s", node.GetName())
	}
	children := node.GetChildren()
	if len(children) != 2 {
		return nil, fmt.Errorf("expected node 'expression' with 2 children, got %d", len(children))
	}

	lhs, err := p.HandleTerm(children[0])
	if err != nil {
		return nil, err
	}

	for _, opTerm := range children[1].GetChildren() { // bin_ops
		opChildren := opTerm.GetChildren()
		if len(opChildren) != 2 {
			return nil, fmt.Errorf("expected node 'bin_op_term' with 2 children, got %d", len(opChildren))
		}

		rhs, err := p.HandleTerm(opChildren[1])
		if err != nil {
			return nil, err
		}

		exprType, err := p.HandleBinOp(opChildren[0])
		if err != nil {
			return nil, err
		}

		lhs = BinaryExpr{Type: exprType, Lhs: lhs, Rhs: rhs}
	}

	return lhs, nil
}

// Specialized function to convert a term node to its 'jack.Expression' counterpart.
func (p *Parser) HandleTerm(node pc.Queryable) (Expression, error) {
	switch node.GetName() {
	case "unary_term":
		children := node.GetChildren()
		if len(children) != 2 {
			return nil, fmt.Errorf("expected node 'unary_term' with 2 children, got %d", len(children))
		}
		rhs, err := p.HandleTerm(children[1])
		if err != nil {
			return nil, err
		}

		exprType := Minus
		if children[0].GetName() == "TILDE" {
			exprType = BoolNot
		}
		return UnaryExpr{Type: exprType, Rhs: rhs}, nil

	case "paren_expr":
		children := node.GetChildren()
		if len(children) != 3 {
			return nil, fmt.Errorf("expected node 'paren_expr' with 3 children, got %d", len(children))
		}
		return p.HandleExpr(children[1])

	case "subroutine_call":
		return p.HandleSubroutineCall(node)

	case "array_access":
		children := node.GetChildren()
		if len(children) != 4 {
			return nil, fmt.Errorf("expected node 'array_access' with 4 children, got %d", len(children))
		}
		index, err := p.HandleExpr(children[2])
		if err != nil {
			return nil, err
		}
		return ArrayExpr{Var: children[0].GetValue(), Index: index}, nil

	case "TRUE":
		return LiteralExpr{Type: DataType{Main: Bool}, Value: "true"}, nil
	case "FALSE":
		return LiteralExpr{Type: DataType{Main: Bool}, Value: "false"}, nil
	case "NULL":
		return LiteralExpr{Type: DataType{Main: Object}, Value: "null"}, nil
	case "THIS":
		return VarExpr{Var: "this"}, nil

	case "INT":
		return LiteralExpr{Type: DataType{Main: Int}, Value: node.GetValue()}, nil

	case "STRING":
		raw := node.GetValue()
		return LiteralExpr{Type: DataType{Main: String}, Value: strings.Trim(raw, `"`)}, nil

	case "IDENT":
		return VarExpr{Var: node.GetValue()}, nil

	default:
		return nil, fmt.Errorf("unrecognized term node '%s'", node.GetName())
	}
}

// Maps a matched binary operator atom to its 'jack.ExprType' counterpart.
func (p *Parser) HandleBinOp(node pc.Queryable) (ExprType, error) {
	switch node.GetName() {
	case "PLUS":
		return Plus, nil
	case "MINUS":
		return Minus, nil
	case "STAR":
		return Multiply, nil
	case "SLASH":
		return Divide, nil
	case "AMP":
		return BoolAnd, nil
	case "PIPE":
		return BoolOr, nil
	case "LT":
		return LessThan, nil
	case "GT":
		return GreatThan, nil
	case "EQ":
		return Equal, nil
	default:
		return "", fmt.Errorf("unrecognized binary operator node '%s'", node.GetName())
	}
}

// Specialized function to convert a data type node (INT/CHAR/BOOLEAN/VOID/IDENT) to a 'jack.DataType'.
func (p *Parser) HandleDataType(node pc.Queryable) DataType {
	switch node.GetName() {
	case "INT":
		return DataType{Main: Int}
	case "CHAR":
		return DataType{Main: Char}
	case "BOOLEAN":
		return DataType{Main: Bool}
	case "VOID":
		return DataType{Main: Void}
	default: // IDENT: a user-defined class name
		return DataType{Main: Object, Subtype: node.GetValue()}
	}
}
