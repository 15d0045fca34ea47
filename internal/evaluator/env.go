package evaluator

import "kanye-lang/impl/internal/parser"

// Function is a declared function together with the scope it was declared in.
type Function struct {
	Name    string
	Params  []string
	Body    parser.Block
	Closure *Env
}

// Env is one scope. Variables and functions are kept in separate tables so a
// variable never shadows a function of the same name or the other way round.
type Env struct {
	store map[string]Value
	funcs map[string]*Function
	outer *Env
}

func NewEnv(outer *Env) *Env { return &Env{store: map[string]Value{}, outer: outer} }

func (e *Env) Outer() *Env { return e.outer }

// Depth is the number of scopes between e and the root.
func (e *Env) Depth() int {
	d := 0
	for s := e.outer; s != nil; s = s.outer {
		d++
	}
	return d
}

// Define binds name in this scope, replacing any existing binding here.
func (e *Env) Define(name string, v Value) { e.store[name] = v }

// HasOwn reports whether name is bound in this scope, ignoring outer ones.
func (e *Env) HasOwn(name string) bool {
	_, ok := e.store[name]
	return ok
}

func (e *Env) Get(name string) (Value, bool) {
	for s := e; s != nil; s = s.outer {
		if v, ok := s.store[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Assign updates the nearest existing binding of name. It reports false
// when no scope in the chain binds it.
func (e *Env) Assign(name string, v Value) bool {
	for s := e; s != nil; s = s.outer {
		if _, ok := s.store[name]; ok {
			s.store[name] = v
			return true
		}
	}
	return false
}

func (e *Env) DefineFunc(fn *Function) {
	if e.funcs == nil {
		e.funcs = map[string]*Function{}
	}
	e.funcs[fn.Name] = fn
}

func (e *Env) Func(name string) (*Function, bool) {
	for s := e; s != nil; s = s.outer {
		if fn, ok := s.funcs[name]; ok {
			return fn, true
		}
	}
	return nil, false
}
