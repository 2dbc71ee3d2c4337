package native

import (
	"log/slog"

	"rite/internal/object"
)

// Fn is the Go side of a native function. Natives receive already
// evaluated arguments and return a single object; failures are reported
// as *object.Error values, never as Go panics.
type Fn func(args []object.Object) object.Object

// Registry maps native names to their Go implementations. It satisfies
// object.NativeRegistry so the evaluator can dispatch through it without
// importing this package.
type Registry struct {
	fns map[string]Fn
}

func NewRegistry() *Registry {
	r := &Registry{fns: make(map[string]Fn)}
	for name, fn := range stdFunctions() {
		r.Register(name, fn)
	}
	for name, fn := range dbFunctions() {
		r.Register(name, fn)
	}
	return r
}

func (r *Registry) Register(name string, fn Fn) {
	if _, exists := r.fns[name]; exists {
		slog.Warn("native redefined", "name", name)
	}
	r.fns[name] = fn
}

func (r *Registry) Call(name string, args []object.Object) object.Object {
	fn, ok := r.fns[name]
	if !ok {
		return object.NewError(object.NativeError, -1, "unknown native '%s'", name)
	}
	return fn(args)
}

// Bind installs an opaque handle for every registered native into env,
// usually the global environment before any user code runs.
func (r *Registry) Bind(env *object.Environment) {
	for name := range r.fns {
		env.Define(name, &object.Native{Name: name})
	}
}
