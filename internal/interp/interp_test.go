package interp

import (
	"strings"
	"testing"

	"rite/internal/native"
	"rite/internal/object"
)

func newSession() *Interpreter {
	return New(native.NewRegistry())
}

func TestRunExpression(t *testing.T) {
	result, diagnostics := newSession().Run("2 + 3 * 4")
	if len(diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diagnostics)
	}
	num, ok := result.(*object.Number)
	if !ok {
		t.Fatalf("expected number, got %T (%+v)", result, result)
	}
	if num.Value != 14 {
		t.Errorf("expected 14, got %v", num.Value)
	}
}

func TestBindingsPersistAcrossRuns(t *testing.T) {
	session := newSession()

	if _, diagnostics := session.Run("let a = 40"); len(diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diagnostics)
	}

	result, diagnostics := session.Run("a + 2")
	if len(diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diagnostics)
	}
	if result.(*object.Number).Value != 42 {
		t.Errorf("expected 42, got %v", result)
	}
}

func TestNativesAreBound(t *testing.T) {
	result, diagnostics := newSession().Run(`type(1)`)
	if len(diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diagnostics)
	}
	if result.(*object.String).Value != "NUMBER" {
		t.Errorf("expected NUMBER, got %v", result)
	}
}

func TestLexDiagnosticsBlockEvaluation(t *testing.T) {
	session := newSession()
	// the let would succeed, but the stray '@' must stop the run
	result, diagnostics := session.Run("let a = 1 @")
	if result != nil {
		t.Errorf("expected no result, got %v", result)
	}
	if len(diagnostics) == 0 {
		t.Fatal("expected diagnostics")
	}
	// lex errors are reported before any parse errors on the same run
	if !strings.Contains(diagnostics[0], "lex error") {
		t.Errorf("expected a lex error first, got %q", diagnostics[0])
	}

	if _, ok := session.Env().Get("a"); ok {
		t.Error("nothing may be evaluated when the source does not scan")
	}
}

func TestParseDiagnosticsBlockEvaluation(t *testing.T) {
	result, diagnostics := newSession().Run("let = 5")
	if result != nil {
		t.Errorf("expected no result, got %v", result)
	}
	if len(diagnostics) == 0 {
		t.Fatal("expected parse diagnostics")
	}
}

func TestRuntimeErrorRendering(t *testing.T) {
	_, diagnostics := newSession().Run("1 + true")
	if len(diagnostics) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d: %v", len(diagnostics), diagnostics)
	}
	if !strings.HasPrefix(diagnostics[0], "TypeError [1:3]") {
		t.Errorf("expected a positioned TypeError, got %q", diagnostics[0])
	}
}

func TestNativeErrorCarriesCallSite(t *testing.T) {
	_, diagnostics := newSession().Run(`num("not a number")`)
	if len(diagnostics) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d: %v", len(diagnostics), diagnostics)
	}
	// the registry has no position of its own; the '(' of the call is used
	if !strings.HasPrefix(diagnostics[0], "NativeError [1:4]") {
		t.Errorf("expected a NativeError at the call site, got %q", diagnostics[0])
	}
}

func TestMultiLineProgram(t *testing.T) {
	input := `
fn square(n) {
	return n * n
}
let total = 0
let i = 1
while i <= 4 {
	total = total + square(i)
	i = i + 1
}
total`

	result, diagnostics := newSession().Run(input)
	if len(diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diagnostics)
	}
	if result.(*object.Number).Value != 30 {
		t.Errorf("expected 30, got %v", result)
	}
}
