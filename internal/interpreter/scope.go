package interpreter

import (
	"github.com/FeiyangTan/solidity/internal/ast"
)

// Scope is one node of the lexical scope tree. Names maps every identifier
// declared directly in this scope to its function definition, or to nil for
// variables. SubScopes is keyed by block identity: re-entering the same block
// (a new loop iteration) reuses the child scope created on first entry.
type Scope struct {
	Names     map[string]*ast.FunctionDefinition
	SubScopes map[*ast.Block]*Scope
	Parent    *Scope
}

func newScope(parent *Scope) *Scope {
	return &Scope{
		Names:     make(map[string]*ast.FunctionDefinition),
		SubScopes: make(map[*ast.Block]*Scope),
		Parent:    parent,
	}
}

// lookupFunction walks the scope chain outward and returns the innermost
// scope declaring name, or nil if no scope does.
func (s *Scope) lookupFunction(name string) (*Scope, bool) {
	for scope := s; scope != nil; scope = scope.Parent {
		if _, ok := scope.Names[name]; ok {
			return scope, true
		}
	}
	return nil, false
}
