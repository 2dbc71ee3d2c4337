package interp

import (
	"fmt"
	"log/slog"

	"rite/internal/evaluator"
	"rite/internal/lexer"
	"rite/internal/native"
	"rite/internal/object"
	"rite/internal/parser"
)

// Interpreter ties the pipeline together: lex, parse, evaluate. The
// global environment persists across Run calls so a REPL session keeps
// its bindings.
type Interpreter struct {
	eval *evaluator.Evaluator
	env  *object.Environment
}

func New(registry *native.Registry) *Interpreter {
	env := object.NewEnvironment()
	registry.Bind(env)
	return &Interpreter{
		eval: evaluator.New(registry),
		env:  env,
	}
}

// Env exposes the global environment, mainly for tests and tooling.
func (i *Interpreter) Env() *object.Environment {
	return i.env
}

// Run executes src against the interpreter's global environment. Lex and
// parse diagnostics are collected up front; nothing is evaluated unless
// the whole source scanned and parsed cleanly. A runtime error stops
// evaluation and is reported the same way.
func (i *Interpreter) Run(src string) (object.Object, []string) {
	l := lexer.New(src)
	p := parser.New(l, src)
	program := p.ParseProgram()

	var diagnostics []string
	for _, lexErr := range l.Errors() {
		line, col := parser.GetLineAndColumn(src, lexErr.Position)
		diagnostics = append(diagnostics,
			fmt.Sprintf("lex error [%d:%d]: unexpected character %q", line, col, lexErr.Ch))
	}
	diagnostics = append(diagnostics, p.Errors()...)
	if len(diagnostics) > 0 {
		slog.Debug("source rejected", "diagnostics", len(diagnostics))
		return nil, diagnostics
	}

	result := i.eval.Eval(program, i.env)
	if runtimeErr, ok := result.(*object.Error); ok {
		return nil, []string{i.renderRuntimeError(src, runtimeErr)}
	}
	return result, nil
}

func (i *Interpreter) renderRuntimeError(src string, err *object.Error) string {
	line, col := parser.GetLineAndColumn(src, err.Position)
	return fmt.Sprintf("%s [%d:%d]: %s", err.Kind, line, col, err.Message)
}
