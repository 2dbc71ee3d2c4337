package object

import "log/slog"

// Environment is one link of the scope chain. Lookup walks outward through
// Outer; the chain's root is the global scope. A closure keeps its captured
// chain alive simply by holding the pointer, so a scope outlives its block
// whenever a live Function still references it.
type Environment struct {
	Bindings map[string]Object
	Outer    *Environment
}

func NewEnvironment() *Environment {
	return &Environment{Bindings: make(map[string]Object)}
}

// NewEnclosedEnvironment creates a child scope for a block or call frame.
func NewEnclosedEnvironment(outer *Environment) *Environment {
	env := NewEnvironment()
	env.Outer = outer
	return env
}

// Define binds a name in this scope, shadowing any outer binding.
// Redeclaration in the same scope overwrites.
func (e *Environment) Define(name string, val Object) Object {
	e.Bindings[name] = val
	slog.Debug("binding value",
		slog.Any("type", val.Type()),
		slog.String("name", name))
	return val
}

// Get resolves a name outward through the chain.
func (e *Environment) Get(name string) (Object, bool) {
	if val, ok := e.Bindings[name]; ok {
		return val, true
	}
	if e.Outer != nil {
		return e.Outer.Get(name)
	}
	return nil, false
}

// Assign mutates the first scope that binds the name. It never creates a
// binding: assignment to an undeclared name reports false.
func (e *Environment) Assign(name string, val Object) bool {
	if _, ok := e.Bindings[name]; ok {
		e.Bindings[name] = val
		return true
	}
	if e.Outer != nil {
		return e.Outer.Assign(name, val)
	}
	return false
}
