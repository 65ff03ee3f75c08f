package engine

import (
	"sort"

	"github.com/ardnew/boba/lang/ast"
	"github.com/ardnew/boba/lang/value"
)

// Scope is one frame of bindings: the global frame or the frame of a single
// function call.
type Scope struct {
	vars  map[string]value.Value
	funcs map[string]ast.Function
}

// NewScope returns an empty frame.
func NewScope() *Scope {
	return &Scope{
		vars:  make(map[string]value.Value),
		funcs: make(map[string]ast.Function),
	}
}

// Var returns the value bound to name in this frame.
func (s *Scope) Var(name string) (value.Value, bool) {
	v, ok := s.vars[name]

	return v, ok
}

// SetVar binds v to name in this frame, replacing any previous binding.
func (s *Scope) SetVar(name string, v value.Value) { s.vars[name] = v }

// Func returns the function defined as name in this frame.
func (s *Scope) Func(name string) (ast.Function, bool) {
	f, ok := s.funcs[name]

	return f, ok
}

// SetFunc defines f in this frame under its own name.
func (s *Scope) SetFunc(f ast.Function) { s.funcs[f.Name()] = f }

// VarNames returns the names of all variables in this frame, sorted.
func (s *Scope) VarNames() []string { return sortedKeys(s.vars) }

// FuncNames returns the names of all functions in this frame, sorted.
func (s *Scope) FuncNames() []string { return sortedKeys(s.funcs) }

func sortedKeys[T any](m map[string]T) []string {
	if len(m) == 0 {
		return nil
	}

	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys
}
