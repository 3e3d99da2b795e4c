package jack

import (
	"fmt"
	"strings"

	pc "github.com/prataprc/goparsec"
)

// ----------------------------------------------------------------------------
// XML Generator

// Walks the very same raw AST produced by the 'Parser' (before it is folded down
// into a 'jack.Class') and emits one XML node per grammar production and one XML
// leaf per token, exactly as the historical nand2tetris Jack analyzer did. It never
// touches the typed 'jack.Class'/'Statement'/'Expression' model used for codegen:
// the two front ends only share the lexer/grammar, diverging at emission time.
type XmlGenerator struct{}

// Initializes and returns to the caller a brand new 'XmlGenerator' struct.
func NewXmlGenerator() XmlGenerator { return XmlGenerator{} }

// Translates the raw parse tree rooted at 'root' (a "class" node) to its XML lines.
func (xg *XmlGenerator) Generate(root pc.Queryable) ([]string, error) {
	return xg.GenerateClass(root, 0)
}

func indent(depth int) string { return strings.Repeat("  ", depth) }

var xmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func leaf(tag string, text string, depth int) string {
	return fmt.Sprintf("%s<%s> %s </%s>", indent(depth), tag, xmlEscaper.Replace(text), tag)
}

func open(tag string, depth int) string  { return fmt.Sprintf("%s<%s>", indent(depth), tag) }
func close(tag string, depth int) string { return fmt.Sprintf("%s</%s>", indent(depth), tag) }

// Specialized function to convert a "class" node to its XML lines.
func (xg *XmlGenerator) GenerateClass(node pc.Queryable, depth int) ([]string, error) {
	if node.GetName() != "class" {
		return nil, fmt.Errorf("expected node 'class', found %s", node.GetName())
	}
	children := node.GetChildren()
	if len(children) != 7 {
		return nil, fmt.Errorf("expected node 'class' with 7 children, got %d", len(children))
	}

	lines := []string{open("class", depth)}
	lines = append(lines, leaf("keyword", "class", depth+1))
	lines = append(lines, leaf("identifier", children[2].GetValue(), depth+1))
	lines = append(lines, leaf("symbol", "{", depth+1))

	for _, child := range children[4].GetChildren() { // class_var_decs
		if child.GetName() == "comment" {
			continue
		}
		cvd, err := xg.GenerateClassVarDec(child, depth+1)
		if err != nil {
			return nil, err
		}
		lines = append(lines, cvd...)
	}

	for _, child := range children[5].GetChildren() { // subroutine_decs
		if child.GetName() == "comment" {
			continue
		}
		sd, err := xg.GenerateSubroutineDec(child, depth+1)
		if err != nil {
			return nil, err
		}
		lines = append(lines, sd...)
	}

	lines = append(lines, leaf("symbol", "}", depth+1))
	lines = append(lines, close("class", depth))
	return lines, nil
}

// Specialized function to convert a "class_var_dec" node to its XML lines.
func (xg *XmlGenerator) GenerateClassVarDec(node pc.Queryable, depth int) ([]string, error) {
	children := node.GetChildren()
	if len(children) != 5 {
		return nil, fmt.Errorf("expected node 'class_var_dec' with 5 children, got %d", len(children))
	}

	lines := []string{open("classVarDec", depth)}
	lines = append(lines, leaf("keyword", children[0].GetValue(), depth+1))
	lines = append(lines, xg.GenerateTypeLeaf(children[1], depth+1))
	lines = append(lines, leaf("identifier", children[2].GetValue(), depth+1))
	for _, extra := range children[3].GetChildren() {
		lines = append(lines, leaf("symbol", ",", depth+1))
		lines = append(lines, leaf("identifier", extra.GetValue(), depth+1))
	}
	lines = append(lines, leaf("symbol", ";", depth+1))
	lines = append(lines, close("classVarDec", depth))
	return lines, nil
}

// Specialized function to convert a "var_dec" node to its XML lines.
func (xg *XmlGenerator) GenerateVarDec(node pc.Queryable, depth int) ([]string, error) {
	children := node.GetChildren()
	if len(children) != 5 {
		return nil, fmt.Errorf("expected node 'var_dec' with 5 children, got %d", len(children))
	}

	lines := []string{open("varDec", depth)}
	lines = append(lines, leaf("keyword", "var", depth+1))
	lines = append(lines, xg.GenerateTypeLeaf(children[1], depth+1))
	lines = append(lines, leaf("identifier", children[2].GetValue(), depth+1))
	for _, extra := range children[3].GetChildren() {
		lines = append(lines, leaf("symbol", ",", depth+1))
		lines = append(lines, leaf("identifier", extra.GetValue(), depth+1))
	}
	lines = append(lines, leaf("symbol", ";", depth+1))
	lines = append(lines, close("varDec", depth))
	return lines, nil
}

// Maps a data type node (INT/CHAR/BOOLEAN/VOID/IDENT) to its single XML leaf line.
func (xg *XmlGenerator) GenerateTypeLeaf(node pc.Queryable, depth int) string {
	switch node.GetName() {
	case "INT":
		return leaf("keyword", "int", depth)
	case "CHAR":
		return leaf("keyword", "char", depth)
	case "BOOLEAN":
		return leaf("keyword", "boolean", depth)
	case "VOID":
		return leaf("keyword", "void", depth)
	default: // IDENT: a user-defined class name
		return leaf("identifier", node.GetValue(), depth)
	}
}

// Specialized function to convert a "subroutine_dec" node to its XML lines.
func (xg *XmlGenerator) GenerateSubroutineDec(node pc.Queryable, depth int) ([]string, error) {
	children := node.GetChildren()
	if len(children) != 7 {
		return nil, fmt.Errorf("expected node 'subroutine_dec' with 7 children, got %d", len(children))
	}

	lines := []string{open("subroutineDec", depth)}
	lines = append(lines, leaf("keyword", children[0].GetValue(), depth+1))
	lines = append(lines, xg.GenerateTypeLeaf(children[1], depth+1))
	lines = append(lines, leaf("identifier", children[2].GetValue(), depth+1))
	lines = append(lines, leaf("symbol", "(", depth+1))

	params := children[4].GetChildren()
	lines = append(lines, open("parameterList", depth+1))
	for idx, param := range params {
		pChildren := param.GetChildren()
		if len(pChildren) != 2 {
			return nil, fmt.Errorf("expected node 'parameter' with 2 children, got %d", len(pChildren))
		}
		lines = append(lines, xg.GenerateTypeLeaf(pChildren[0], depth+2))
		lines = append(lines, leaf("identifier", pChildren[1].GetValue(), depth+2))
		if idx < len(params)-1 {
			lines = append(lines, leaf("symbol", ",", depth+2))
		}
	}
	lines = append(lines, close("parameterList", depth+1))

	lines = append(lines, leaf("symbol", ")", depth+1))

	body, err := xg.GenerateSubroutineBody(children[6], depth+1)
	if err != nil {
		return nil, err
	}
	lines = append(lines, body...)

	lines = append(lines, close("subroutineDec", depth))
	return lines, nil
}

// Specialized function to convert a "subroutine_body" node to its XML lines.
func (xg *XmlGenerator) GenerateSubroutineBody(node pc.Queryable, depth int) ([]string, error) {
	if node.GetName() != "subroutine_body" {
		return nil, fmt.Errorf("expected node 'subroutine_body', got %s", node.GetName())
	}
	children := node.GetChildren()
	if len(children) != 4 {
		return nil, fmt.Errorf("expected node 'subroutine_body' with 4 children, got %d", len(children))
	}

	lines := []string{open("subroutineBody", depth)}
	lines = append(lines, leaf("symbol", "{", depth+1))

	for _, child := range children[1].GetChildren() { // var_decs
		if child.GetName() == "comment" {
			continue
		}
		vd, err := xg.GenerateVarDec(child, depth+1)
		if err != nil {
			return nil, err
		}
		lines = append(lines, vd...)
	}

	lines = append(lines, open("statements", depth+1))
	for _, child := range children[2].GetChildren() { // statements
		if child.GetName() == "comment" {
			continue
		}
		stmt, err := xg.GenerateStatement(child, depth+2)
		if err != nil {
			return nil, err
		}
		lines = append(lines, stmt...)
	}
	lines = append(lines, close("statements", depth+1))

	lines = append(lines, leaf("symbol", "}", depth+1))
	lines = append(lines, close("subroutineBody", depth))
	return lines, nil
}

// Generalized function to dispatch any statement node to its XML-producing counterpart.
func (xg *XmlGenerator) GenerateStatement(node pc.Queryable, depth int) ([]string, error) {
	switch node.GetName() {
	case "let_stmt":
		return xg.GenerateLetStatement(node, depth)
	case "if_stmt":
		return xg.GenerateIfStatement(node, depth)
	case "while_stmt":
		return xg.GenerateWhileStatement(node, depth)
	case "do_stmt":
		return xg.GenerateDoStatement(node, depth)
	case "return_stmt":
		return xg.GenerateReturnStatement(node, depth)
	default:
		return nil, fmt.Errorf("unrecognized statement node '%s'", node.GetName())
	}
}

// Specialized function to convert a "let_stmt" node to its XML lines.
func (xg *XmlGenerator) GenerateLetStatement(node pc.Queryable, depth int) ([]string, error) {
	children := node.GetChildren()
	if len(children) != 6 {
		return nil, fmt.Errorf("expected node 'let_stmt' with 6 children, got %d", len(children))
	}

	lines := []string{open("letStatement", depth)}
	lines = append(lines, leaf("keyword", "let", depth+1))
	lines = append(lines, leaf("identifier", children[1].GetValue(), depth+1))

	index := children[2]
	if index.GetName() == "index_expr" && len(index.GetChildren()) == 3 {
		lines = append(lines, leaf("symbol", "[", depth+1))
		expr, err := xg.GenerateExpression(index.GetChildren()[1], depth+1)
		if err != nil {
			return nil, err
		}
		lines = append(lines, expr...)
		lines = append(lines, leaf("symbol", "]", depth+1))
	}

	lines = append(lines, leaf("symbol", "=", depth+1))
	expr, err := xg.GenerateExpression(children[4], depth+1)
	if err != nil {
		return nil, err
	}
	lines = append(lines, expr...)
	lines = append(lines, leaf("symbol", ";", depth+1))
	lines = append(lines, close("letStatement", depth))
	return lines, nil
}

// Specialized function to convert an "if_stmt" node to its XML lines.
func (xg *XmlGenerator) GenerateIfStatement(node pc.Queryable, depth int) ([]string, error) {
	children := node.GetChildren()
	if len(children) != 8 {
		return nil, fmt.Errorf("expected node 'if_stmt' with 8 children, got %d", len(children))
	}

	lines := []string{open("ifStatement", depth)}
	lines = append(lines, leaf("keyword", "if", depth+1))
	lines = append(lines, leaf("symbol", "(", depth+1))
	cond, err := xg.GenerateExpression(children[2], depth+1)
	if err != nil {
		return nil, err
	}
	lines = append(lines, cond...)
	lines = append(lines, leaf("symbol", ")", depth+1))
	lines = append(lines, leaf("symbol", "{", depth+1))

	lines = append(lines, open("statements", depth+1))
	for _, child := range children[5].GetChildren() {
		if child.GetName() == "comment" {
			continue
		}
		stmt, err := xg.GenerateStatement(child, depth+2)
		if err != nil {
			return nil, err
		}
		lines = append(lines, stmt...)
	}
	lines = append(lines, close("statements", depth+1))
	lines = append(lines, leaf("symbol", "}", depth+1))

	elseNode := children[7]
	if elseNode.GetName() == "else_body" && len(elseNode.GetChildren()) == 4 {
		lines = append(lines, leaf("keyword", "else", depth+1))
		lines = append(lines, leaf("symbol", "{", depth+1))
		lines = append(lines, open("statements", depth+1))
		for _, child := range elseNode.GetChildren()[2].GetChildren() {
			if child.GetName() == "comment" {
				continue
			}
			stmt, err := xg.GenerateStatement(child, depth+2)
			if err != nil {
				return nil, err
			}
			lines = append(lines, stmt...)
		}
		lines = append(lines, close("statements", depth+1))
		lines = append(lines, leaf("symbol", "}", depth+1))
	}

	lines = append(lines, close("ifStatement", depth))
	return lines, nil
}

// Specialized function to convert a "while_stmt" node to its XML lines.
func (xg *XmlGenerator) GenerateWhileStatement(node pc.Queryable, depth int) ([]string, error) {
	children := node.GetChildren()
	if len(children) != 7 {
		return nil, fmt.Errorf("expected node 'while_stmt' with 7 children, got %d", len(children))
	}

	lines := []string{open("whileStatement", depth)}
	lines = append(lines, leaf("keyword", "while", depth+1))
	lines = append(lines, leaf("symbol", "(", depth+1))
	cond, err := xg.GenerateExpression(children[2], depth+1)
	if err != nil {
		return nil, err
	}
	lines = append(lines, cond...)
	lines = append(lines, leaf("symbol", ")", depth+1))
	lines = append(lines, leaf("symbol", "{", depth+1))

	lines = append(lines, open("statements", depth+1))
	for _, child := range children[5].GetChildren() {
		if child.GetName() == "comment" {
			continue
		}
		stmt, err := xg.GenerateStatement(child, depth+2)
		if err != nil {
			return nil, err
		}
		lines = append(lines, stmt...)
	}
	lines = append(lines, close("statements", depth+1))
	lines = append(lines, leaf("symbol", "}", depth+1))
	lines = append(lines, close("whileStatement", depth))
	return lines, nil
}

// Specialized function to convert a "do_stmt" node to its XML lines.
func (xg *XmlGenerator) GenerateDoStatement(node pc.Queryable, depth int) ([]string, error) {
	children := node.GetChildren()
	if len(children) != 3 {
		return nil, fmt.Errorf("expected node 'do_stmt' with 3 children, got %d", len(children))
	}

	lines := []string{open("doStatement", depth)}
	lines = append(lines, leaf("keyword", "do", depth+1))
	call, err := xg.GenerateSubroutineCall(children[1], depth+1)
	if err != nil {
		return nil, err
	}
	lines = append(lines, call...)
	lines = append(lines, leaf("symbol", ";", depth+1))
	lines = append(lines, close("doStatement", depth))
	return lines, nil
}

// Specialized function to convert a "return_stmt" node to its XML lines.
func (xg *XmlGenerator) GenerateReturnStatement(node pc.Queryable, depth int) ([]string, error) {
	children := node.GetChildren()
	if len(children) != 3 {
		return nil, fmt.Errorf("expected node 'return_stmt' with 3 children, got %d", len(children))
	}

	lines := []string{open("returnStatement", depth)}
	lines = append(lines, leaf("keyword", "return", depth+1))

	exprNode := children[1]
	if exprNode.GetName() == "expression" {
		expr, err := xg.GenerateExpression(exprNode, depth+1)
		if err != nil {
			return nil, err
		}
		lines = append(lines, expr...)
	}

	lines = append(lines, leaf("symbol", ";", depth+1))
	lines = append(lines, close("returnStatement", depth))
	return lines, nil
}

// Specialized function to convert a "subroutine_call" node to its (un-wrapped) XML lines:
// subroutine calls are inlined directly into a 'term' or 'doStatement', they have no tag of their own.
func (xg *XmlGenerator) GenerateSubroutineCall(node pc.Queryable, depth int) ([]string, error) {
	children := node.GetChildren()
	if len(children) != 5 {
		return nil, fmt.Errorf("expected node 'subroutine_call' with 5 children, got %d", len(children))
	}

	lines := []string{}
	qualifier := children[1]
	if qualifier.GetName() == "qual" && len(qualifier.GetChildren()) == 2 {
		lines = append(lines, leaf("identifier", children[0].GetValue(), depth))
		lines = append(lines, leaf("symbol", ".", depth))
		lines = append(lines, leaf("identifier", qualifier.GetChildren()[1].GetValue(), depth))
	} else {
		lines = append(lines, leaf("identifier", children[0].GetValue(), depth))
	}

	lines = append(lines, leaf("symbol", "(", depth))
	lines = append(lines, open("expressionList", depth))
	exprs := children[3].GetChildren()
	for idx, exprNode := range exprs {
		expr, err := xg.GenerateExpression(exprNode, depth+1)
		if err != nil {
			return nil, err
		}
		lines = append(lines, expr...)
		if idx < len(exprs)-1 {
			lines = append(lines, leaf("symbol", ",", depth+1))
		}
	}
	lines = append(lines, close("expressionList", depth))
	lines = append(lines, leaf("symbol", ")", depth))
	return lines, nil
}

// Specialized function to convert an "expression" node to its XML lines.
func (xg *XmlGenerator) GenerateExpression(node pc.Queryable, depth int) ([]string, error) {
	if node.GetName() != "expression" {
		return nil, fmt.Errorf("expected node 'expression', got %s", node.GetName())
	}
	children := node.GetChildren()
	if len(children) != 2 {
		return nil, fmt.Errorf("expected node 'expression' with 2 children, got %d", len(children))
	}

	lines := []string{open("expression", depth)}
	term, err := xg.GenerateTerm(children[0], depth+1)
	if err != nil {
		return nil, err
	}
	lines = append(lines, term...)

	for _, opTerm := range children[1].GetChildren() { // bin_ops
		opChildren := opTerm.GetChildren()
		if len(opChildren) != 2 {
			return nil, fmt.Errorf("expected node 'bin_op_term' with 2 children, got %d", len(opChildren))
		}
		lines = append(lines, leaf("symbol", binOpSymbol(opChildren[0].GetName()), depth+1))
		rhs, err := xg.GenerateTerm(opChildren[1], depth+1)
		if err != nil {
			return nil, err
		}
		lines = append(lines, rhs...)
	}

	lines = append(lines, close("expression", depth))
	return lines, nil
}

func binOpSymbol(name string) string {
	switch name {
	case "PLUS":
		return "+"
	case "MINUS":
		return "-"
	case "STAR":
		return "*"
	case "SLASH":
		return "/"
	case "AMP":
		return "&"
	case "PIPE":
		return "|"
	case "LT":
		return "<"
	case "GT":
		return ">"
	case "EQ":
		return "="
	default:
		return ""
	}
}

// Specialized function to convert a "term" node (one of its many alternatives) to its XML lines.
func (xg *XmlGenerator) GenerateTerm(node pc.Queryable, depth int) ([]string, error) {
	lines := []string{open("term", depth)}

	switch node.GetName() {
	case "unary_term":
		children := node.GetChildren()
		if len(children) != 2 {
			return nil, fmt.Errorf("expected node 'unary_term' with 2 children, got %d", len(children))
		}
		symbol := "-"
		if children[0].GetName() == "TILDE" {
			symbol = "~"
		}
		lines = append(lines, leaf("symbol", symbol, depth+1))
		rhs, err := xg.GenerateTerm(children[1], depth+1)
		if err != nil {
			return nil, err
		}
		lines = append(lines, rhs...)

	case "paren_expr":
		children := node.GetChildren()
		if len(children) != 3 {
			return nil, fmt.Errorf("expected node 'paren_expr' with 3 children, got %d", len(children))
		}
		lines = append(lines, leaf("symbol", "(", depth+1))
		expr, err := xg.GenerateExpression(children[1], depth+1)
		if err != nil {
			return nil, err
		}
		lines = append(lines, expr...)
		lines = append(lines, leaf("symbol", ")", depth+1))

	case "subroutine_call":
		call, err := xg.GenerateSubroutineCall(node, depth+1)
		if err != nil {
			return nil, err
		}
		lines = append(lines, call...)

	case "array_access":
		children := node.GetChildren()
		if len(children) != 4 {
			return nil, fmt.Errorf("expected node 'array_access' with 4 children, got %d", len(children))
		}
		lines = append(lines, leaf("identifier", children[0].GetValue(), depth+1))
		lines = append(lines, leaf("symbol", "[", depth+1))
		expr, err := xg.GenerateExpression(children[2], depth+1)
		if err != nil {
			return nil, err
		}
		lines = append(lines, expr...)
		lines = append(lines, leaf("symbol", "]", depth+1))

	case "TRUE":
		lines = append(lines, leaf("keyword", "true", depth+1))
	case "FALSE":
		lines = append(lines, leaf("keyword", "false", depth+1))
	case "NULL":
		lines = append(lines, leaf("keyword", "null", depth+1))
	case "THIS":
		lines = append(lines, leaf("keyword", "this", depth+1))

	case "INT":
		lines = append(lines, leaf("integerConstant", node.GetValue(), depth+1))

	case "STRING":
		lines = append(lines, leaf("stringConstant", strings.Trim(node.GetValue(), `"`), depth+1))

	case "IDENT":
		lines = append(lines, leaf("identifier", node.GetValue(), depth+1))

	default:
		return nil, fmt.Errorf("unrecognized term node '%s'", node.GetName())
	}

	lines = append(lines, close("term", depth))
	return lines, nil
}
