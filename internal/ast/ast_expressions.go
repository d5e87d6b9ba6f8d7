package ast

import (
	"github.com/holiman/uint256"

	"github.com/FeiyangTan/solidity/internal/token"
)

type LiteralKind int

const (
	NumberLiteral LiteralKind = iota
	BooleanLiteral
	StringLiteral
)

// Literal is a constant expression. Value holds the 256-bit word the literal
// denotes: the numeric value for numbers, 1/0 for booleans, and for strings
// the bytes left-aligned in a 32-byte word. Source keeps the original text
// (the decoded string for string literals) since literal-argument builtins
// such as dataoffset read the name rather than the word.
type Literal struct {
	Token  token.Token
	Kind   LiteralKind
	Value  uint256.Int
	Source string
}

func (l *Literal) expressionNode()      {}
func (l *Literal) TokenLiteral() string { return l.Token.Lexeme }
func (l *Literal) GetToken() token.Token {
	if l == nil {
		return token.Token{}
	}
	return l.Token
}

// Identifier is a reference to a declared variable.
type Identifier struct {
	Token token.Token
	Name  string
}

func (i *Identifier) expressionNode()      {}
func (i *Identifier) TokenLiteral() string { return i.Token.Lexeme }
func (i *Identifier) GetToken() token.Token {
	if i == nil {
		return token.Token{}
	}
	return i.Token
}

// FunctionCall invokes either a dialect builtin or a user-defined function.
type FunctionCall struct {
	Token        token.Token
	FunctionName *Identifier
	Arguments    []Expression
}

func (fc *FunctionCall) expressionNode()      {}
func (fc *FunctionCall) TokenLiteral() string { return fc.Token.Lexeme }
func (fc *FunctionCall) GetToken() token.Token {
	if fc == nil {
		return token.Token{}
	}
	return fc.Token
}
