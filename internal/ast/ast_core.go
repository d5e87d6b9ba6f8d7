// Package ast defines the Yul syntax tree. The node set is closed: the
// statement forms are block, expression statement, assignment, variable
// declaration, if, switch, function definition, for loop, break, continue and
// leave; the expression forms are literal, identifier and function call.
//
// Nodes are immutable once the parser has produced them. The interpreter and
// analyzer only ever read the tree and key internal tables by node pointer
// identity, so a tree must not be copied between stages.
package ast

import (
	"github.com/FeiyangTan/solidity/internal/token"
)

// Node is the base interface for all AST nodes.
type Node interface {
	TokenLiteral() string
}

// Statement is a Node that represents a statement.
type Statement interface {
	Node
	statementNode()
	GetToken() token.Token
}

// Expression is a Node that represents an expression.
type Expression interface {
	Node
	expressionNode()
	GetToken() token.Token
}

// TypedName is a declared name with an optional type annotation, as used in
// variable declarations, function parameters and return variables. Types are
// carried through for the typed (wasm) dialect but have no runtime meaning.
type TypedName struct {
	Token token.Token // the identifier token
	Name  string
	Type  string // optional, "" when untyped
}

func (tn *TypedName) TokenLiteral() string { return tn.Token.Lexeme }
func (tn *TypedName) GetToken() token.Token {
	if tn == nil {
		return token.Token{}
	}
	return tn.Token
}
