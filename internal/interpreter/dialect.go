package interpreter

import (
	"github.com/holiman/uint256"

	"github.com/FeiyangTan/solidity/internal/ast"
)

// BuiltinFunction is the metadata the interpreter needs about one builtin.
// LiteralArguments marks parameter positions that must be literals in the
// source: those positions are not evaluated as expressions; a zero word is
// substituted in the evaluated argument sequence and the builtin reads the
// raw AST node instead.
type BuiltinFunction struct {
	Name             string
	Params           int
	Returns          int
	LiteralArguments []bool
}

// NeedsLiteral reports whether parameter position i must be a literal.
func (b *BuiltinFunction) NeedsLiteral(i int) bool {
	return i < len(b.LiteralArguments) && b.LiteralArguments[i]
}

// Dialect is the target-specific builtin surface. Exactly one dialect is
// active per run; a nil dialect means every call resolves to a user-defined
// function.
type Dialect interface {
	// Builtin identifies name as a builtin of this dialect, or returns nil.
	Builtin(name string) *BuiltinFunction

	// EvalBuiltin evaluates a builtin against the execution state. rawArgs
	// are the unevaluated argument nodes (needed for literal-argument
	// positions); args are the evaluated argument words in declaration
	// order, with zero placeholders in literal positions.
	EvalBuiltin(state *State, fn *BuiltinFunction, rawArgs []ast.Expression, args []uint256.Int) (uint256.Int, error)
}
