package object

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"rite/internal/ast"
)

const (
	NONE_OBJ    = "NONE"
	BOOLEAN_OBJ = "BOOLEAN"
	NUMBER_OBJ  = "NUMBER"
	STRING_OBJ  = "STRING"

	FUNCTION_OBJ = "FUNCTION"
	CLASS_OBJ    = "CLASS"
	INSTANCE_OBJ = "INSTANCE"
	NATIVE_OBJ   = "NATIVE"

	RETURN_VALUE_OBJ = "RETURN_VALUE"
	ERROR_OBJ        = "ERROR"
)

var (
	NONE  = &None{}
	TRUE  = &Boolean{Value: true}
	FALSE = &Boolean{Value: false}
)

type ObjectType string

type Object interface {
	Type() ObjectType
	Inspect() string
}

// NativeRegistry resolves host functions by name. It is populated before
// evaluation begins and is immutable during a run.
type NativeRegistry interface {
	Call(name string, args []Object) Object
}

type Number struct {
	Value float64
}

func (n *Number) Type() ObjectType { return NUMBER_OBJ }
func (n *Number) Inspect() string  { return strconv.FormatFloat(n.Value, 'g', -1, 64) }

type Boolean struct {
	Value bool
}

func (b *Boolean) Type() ObjectType { return BOOLEAN_OBJ }
func (b *Boolean) Inspect() string  { return fmt.Sprintf("%t", b.Value) }

type String struct {
	Value string
}

func (s *String) Type() ObjectType { return STRING_OBJ }
func (s *String) Inspect() string  { return s.Value }

type None struct{}

func (n *None) Type() ObjectType { return NONE_OBJ }
func (n *None) Inspect() string  { return "none" }

type Function struct {
	Name       string // empty for bound methods rendered through their class
	Parameters []*ast.Identifier
	Body       *ast.BlockStatement
	Env        *Environment // the scope chain active at the definition point
}

func (f *Function) Type() ObjectType { return FUNCTION_OBJ }
func (f *Function) Inspect() string {
	var out bytes.Buffer

	params := []string{}
	for _, p := range f.Parameters {
		params = append(params, p.String())
	}

	out.WriteString("fn ")
	out.WriteString(f.Name)
	out.WriteString("(")
	out.WriteString(strings.Join(params, ", "))
	out.WriteString(") {\n")
	out.WriteString(f.Body.String())
	out.WriteString("\n}")

	return out.String()
}

type Class struct {
	Name    string
	Methods map[string]*Function
}

func (c *Class) Type() ObjectType { return CLASS_OBJ }
func (c *Class) Inspect() string  { return "class " + c.Name }

// Method returns the named method, or nil.
func (c *Class) Method(name string) *Function {
	return c.Methods[name]
}

type Instance struct {
	Class  *Class
	Fields map[string]Object
}

func (i *Instance) Type() ObjectType { return INSTANCE_OBJ }
func (i *Instance) Inspect() string {
	var out bytes.Buffer
	out.WriteString(i.Class.Name)
	out.WriteString(" {")
	parts := []string{}
	for name, val := range i.Fields {
		parts = append(parts, name+": "+val.Inspect())
	}
	out.WriteString(strings.Join(parts, ", "))
	out.WriteString("}")
	return out.String()
}

// Native is an opaque handle; the evaluator resolves it through the
// NativeRegistry at call time.
type Native struct {
	Name string
}

func (n *Native) Type() ObjectType { return NATIVE_OBJ }
func (n *Native) Inspect() string  { return "native " + n.Name + "() { <host fn> }" }

// ReturnValue wraps a value travelling up to the nearest call frame.
type ReturnValue struct {
	Value Object
}

func (rv *ReturnValue) Type() ObjectType { return RETURN_VALUE_OBJ }
func (rv *ReturnValue) Inspect() string  { return rv.Value.Inspect() }

type ErrorKind string

const (
	UndefinedNameError ErrorKind = "UndefinedNameError"
	TypeError          ErrorKind = "TypeError"
	NativeError        ErrorKind = "NativeError"
)

// Error aborts the current top-level statement; rite has no in-language
// catch construct.
type Error struct {
	Kind     ErrorKind
	Message  string
	Position int // src byte index of the originating token
}

func (e *Error) Type() ObjectType { return ERROR_OBJ }
func (e *Error) Inspect() string  { return string(e.Kind) + ": " + e.Message }

func NewError(kind ErrorKind, pos int, format string, a ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, a...), Position: pos}
}
