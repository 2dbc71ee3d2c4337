package parser

import (
	"strings"
	"testing"

	"rite/internal/ast"
	"rite/internal/lexer"
)

func parse(t *testing.T, input string) *ast.Program {
	t.Helper()
	p := New(lexer.New(input), input)
	program := p.ParseProgram()
	checkParserErrors(t, p)
	return program
}

func checkParserErrors(t *testing.T, p *Parser) {
	t.Helper()
	errors := p.Errors()
	if len(errors) == 0 {
		return
	}

	t.Errorf("parser has %d errors", len(errors))
	for _, msg := range errors {
		t.Errorf("parser error: %q", msg)
	}
	t.FailNow()
}

func TestLetStatements(t *testing.T) {
	tests := []struct {
		input              string
		expectedIdentifier string
		expectedValue      string
	}{
		{"let x = 5;", "x", "5"},
		{"let y = true", "y", "true"},
		{"let foobar = y;", "foobar", "y"},
		{"let empty;", "empty", ""},
	}

	for _, tt := range tests {
		program := parse(t, tt.input)

		if len(program.Statements) != 1 {
			t.Fatalf("program.Statements does not contain 1 statement. got=%d",
				len(program.Statements))
		}

		stmt, ok := program.Statements[0].(*ast.LetStatement)
		if !ok {
			t.Fatalf("statement is not *ast.LetStatement. got=%T", program.Statements[0])
		}
		if stmt.Name.Value != tt.expectedIdentifier {
			t.Errorf("wrong identifier. expected=%q, got=%q", tt.expectedIdentifier, stmt.Name.Value)
		}
		if tt.expectedValue == "" {
			if stmt.Value != nil {
				t.Errorf("expected no initializer, got %q", stmt.Value.String())
			}
		} else if stmt.Value.String() != tt.expectedValue {
			t.Errorf("wrong value. expected=%q, got=%q", tt.expectedValue, stmt.Value.String())
		}
	}
}

func TestOperatorPrecedence(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"2 + 3 * 4", "(2 + (3 * 4))"},
		{"2 * 3 + 4", "((2 * 3) + 4)"},
		{"(2 + 3) * 4", "((2 + 3) * 4)"},
		{"-a * b", "((-a) * b)"},
		{"!true", "(!true)"},
		{"not a is b", "((not a) is b)"},
		{"--a", "(-(-a))"},
		{"a + b - c", "((a + b) - c)"},
		{"a * b / c", "((a * b) / c)"},
		{"1 < 2 is true", "((1 < 2) is true)"},
		{"1 not 2 is 3", "((1 not 2) is 3)"},
		{"a < b and b <= c", "((a < b) and (b <= c))"},
		{"a or b and c", "(a or (b and c))"},
		{"a and b or c and d", "((a and b) or (c and d))"},
		{"x = y = 3", "x = y = 3"},
		{"p.x = 1 + 2", "p.x = (1 + 2)"},
		{"a.b.c", "a.b.c"},
		{"f(1, 2 * 3)", "f(1, (2 * 3))"},
		{"f(1)(2)", "f(1)(2)"},
		{"p.dist(q).x", "p.dist(q).x"},
		{"not f()", "(not f())"},
	}

	for _, tt := range tests {
		program := parse(t, tt.input)
		actual := program.String()
		if actual != tt.expected {
			t.Errorf("input %q: expected=%q, got=%q", tt.input, tt.expected, actual)
		}
	}
}

func TestIfStatementForms(t *testing.T) {
	// the bare and the parenthesized condition parse identically
	for _, input := range []string{
		"if x < 3 { y }",
		"if (x < 3) { y }",
	} {
		program := parse(t, input)
		stmt, ok := program.Statements[0].(*ast.IfStatement)
		if !ok {
			t.Fatalf("statement is not *ast.IfStatement. got=%T", program.Statements[0])
		}
		if stmt.Condition.String() != "(x < 3)" {
			t.Errorf("wrong condition: %q", stmt.Condition.String())
		}
		if stmt.ElseBranch != nil {
			t.Errorf("unexpected else branch")
		}
	}
}

func TestIfElseChain(t *testing.T) {
	input := `if a { 1 } else if b { 2 } else { 3 }`

	program := parse(t, input)
	stmt := program.Statements[0].(*ast.IfStatement)

	elseIf, ok := stmt.ElseBranch.(*ast.IfStatement)
	if !ok {
		t.Fatalf("else branch is not a nested *ast.IfStatement. got=%T", stmt.ElseBranch)
	}
	if elseIf.Condition.String() != "b" {
		t.Errorf("wrong nested condition: %q", elseIf.Condition.String())
	}
	if _, ok := elseIf.ElseBranch.(*ast.BlockStatement); !ok {
		t.Errorf("final else is not a block. got=%T", elseIf.ElseBranch)
	}
}

func TestWhileStatement(t *testing.T) {
	program := parse(t, "while i < 10 { i = i + 1 }")

	stmt, ok := program.Statements[0].(*ast.WhileStatement)
	if !ok {
		t.Fatalf("statement is not *ast.WhileStatement. got=%T", program.Statements[0])
	}
	if stmt.Condition.String() != "(i < 10)" {
		t.Errorf("wrong condition: %q", stmt.Condition.String())
	}
	if len(stmt.Body.Statements) != 1 {
		t.Fatalf("body has %d statements, expected 1", len(stmt.Body.Statements))
	}
}

func TestFunctionStatement(t *testing.T) {
	program := parse(t, "fn add(x, y) { return x + y; }")

	stmt, ok := program.Statements[0].(*ast.FunctionStatement)
	if !ok {
		t.Fatalf("statement is not *ast.FunctionStatement. got=%T", program.Statements[0])
	}
	if stmt.Name.Value != "add" {
		t.Errorf("wrong name: %q", stmt.Name.Value)
	}
	if len(stmt.Parameters) != 2 {
		t.Fatalf("wrong parameter count: %d", len(stmt.Parameters))
	}
	if stmt.Parameters[0].Value != "x" || stmt.Parameters[1].Value != "y" {
		t.Errorf("wrong parameters: %q, %q", stmt.Parameters[0].Value, stmt.Parameters[1].Value)
	}
	ret, ok := stmt.Body.Statements[0].(*ast.ReturnStatement)
	if !ok {
		t.Fatalf("body statement is not a return. got=%T", stmt.Body.Statements[0])
	}
	if ret.ReturnValue.String() != "(x + y)" {
		t.Errorf("wrong return value: %q", ret.ReturnValue.String())
	}
}

func TestBareReturn(t *testing.T) {
	for _, input := range []string{
		"fn f() { return }",
		"fn f() { return; }",
	} {
		program := parse(t, input)
		fn := program.Statements[0].(*ast.FunctionStatement)
		ret, ok := fn.Body.Statements[0].(*ast.ReturnStatement)
		if !ok {
			t.Fatalf("input %q: body statement is not a return. got=%T",
				input, fn.Body.Statements[0])
		}
		if ret.ReturnValue != nil {
			t.Errorf("input %q: expected bare return, got %q", input, ret.ReturnValue.String())
		}
	}
}

func TestClassStatement(t *testing.T) {
	input := `class Point {
	fn getX() { return this.x; }
	fn move(dx) { this.x = this.x + dx }
}`

	program := parse(t, input)
	stmt, ok := program.Statements[0].(*ast.ClassStatement)
	if !ok {
		t.Fatalf("statement is not *ast.ClassStatement. got=%T", program.Statements[0])
	}
	if stmt.Name.Value != "Point" {
		t.Errorf("wrong class name: %q", stmt.Name.Value)
	}
	if len(stmt.Methods) != 2 {
		t.Fatalf("wrong method count: %d", len(stmt.Methods))
	}
	if stmt.Methods[0].Name.Value != "getX" || stmt.Methods[1].Name.Value != "move" {
		t.Errorf("wrong method names: %q, %q",
			stmt.Methods[0].Name.Value, stmt.Methods[1].Name.Value)
	}
}

func TestClassRejectsNonMethodMembers(t *testing.T) {
	input := "class C { let x = 1 }"
	p := New(lexer.New(input), input)
	p.ParseProgram()

	errs := p.Errors()
	if len(errs) != 1 {
		t.Fatalf("expected exactly 1 parser error, got %d: %v", len(errs), errs)
	}
	if !strings.Contains(errs[0], "class bodies may only contain fn declarations") {
		t.Errorf("wrong diagnostic: %q", errs[0])
	}
}

func TestInvalidAssignmentTarget(t *testing.T) {
	for _, input := range []string{
		"1 = 2",
		"a + b = c",
		"f() = 3",
	} {
		p := New(lexer.New(input), input)
		p.ParseProgram()

		if !containsError(p.Errors(), "invalid assignment target") {
			t.Errorf("input %q: expected invalid assignment target error, got %v",
				input, p.Errors())
		}
	}
}

func TestErrorsCarryLineAndColumn(t *testing.T) {
	input := "let x = 5\nlet = 3"
	p := New(lexer.New(input), input)
	p.ParseProgram()

	if len(p.Errors()) == 0 {
		t.Fatal("expected a parser error")
	}
	if !strings.Contains(p.Errors()[0], "2:") {
		t.Errorf("expected error on line 2, got %q", p.Errors()[0])
	}
}

func TestSynchronizeRecoversFollowingStatements(t *testing.T) {
	input := "let = 5; let y = 3;"
	p := New(lexer.New(input), input)
	program := p.ParseProgram()

	if len(p.Errors()) == 0 {
		t.Fatal("expected a parser error for the first statement")
	}

	var found bool
	for _, stmt := range program.Statements {
		if let, ok := stmt.(*ast.LetStatement); ok && let.Name.Value == "y" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected 'let y' to survive resynchronization, statements=%q", program.String())
	}
}

func TestBadStatementInsideBlockKeepsBlockClosed(t *testing.T) {
	input := "fn f() { let = 1 } let y = 2"
	p := New(lexer.New(input), input)
	program := p.ParseProgram()

	errs := p.Errors()
	if len(errs) != 1 {
		t.Fatalf("expected exactly 1 parser error, got %d: %v", len(errs), errs)
	}

	// the statement after the function body must parse at the top level
	if len(program.Statements) != 2 {
		t.Fatalf("expected 2 top-level statements, got %d (%q)",
			len(program.Statements), program.String())
	}
	let, ok := program.Statements[1].(*ast.LetStatement)
	if !ok {
		t.Fatalf("second statement is not *ast.LetStatement. got=%T", program.Statements[1])
	}
	if let.Name.Value != "y" {
		t.Errorf("wrong identifier: %q", let.Name.Value)
	}
}

func TestGetLineAndColumn(t *testing.T) {
	src := "ab\ncde\nf"
	tests := []struct {
		pos, line, col int
	}{
		{0, 1, 1},
		{1, 1, 2},
		{3, 2, 1},
		{5, 2, 3},
		{7, 3, 1},
	}
	for _, tt := range tests {
		line, col := GetLineAndColumn(src, tt.pos)
		if line != tt.line || col != tt.col {
			t.Errorf("pos %d: expected %d:%d, got %d:%d", tt.pos, tt.line, tt.col, line, col)
		}
	}
}

func containsError(errors []string, substr string) bool {
	for _, msg := range errors {
		if strings.Contains(msg, substr) {
			return true
		}
	}
	return false
}
