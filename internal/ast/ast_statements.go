package ast

import (
	"github.com/FeiyangTan/solidity/internal/token"
)

// Block is a braced statement sequence. Blocks open a fresh lexical scope;
// the interpreter keys its scope tree by *Block identity, so blocks are
// compared by pointer, never by value.
type Block struct {
	Token      token.Token // the '{' token
	Statements []Statement
}

func (b *Block) statementNode()       {}
func (b *Block) TokenLiteral() string { return b.Token.Lexeme }
func (b *Block) GetToken() token.Token {
	if b == nil {
		return token.Token{}
	}
	return b.Token
}

// ExpressionStatement is an expression evaluated for its effects only.
// In well-formed Yul the expression is a call returning no values.
type ExpressionStatement struct {
	Token      token.Token
	Expression Expression
}

func (es *ExpressionStatement) statementNode()       {}
func (es *ExpressionStatement) TokenLiteral() string { return es.Token.Lexeme }
func (es *ExpressionStatement) GetToken() token.Token {
	if es == nil {
		return token.Token{}
	}
	return es.Token
}

// Assignment writes to one or more already-declared variables:
// a, b := f()
type Assignment struct {
	Token         token.Token
	VariableNames []*Identifier
	Value         Expression
}

func (a *Assignment) statementNode()       {}
func (a *Assignment) TokenLiteral() string { return a.Token.Lexeme }
func (a *Assignment) GetToken() token.Token {
	if a == nil {
		return token.Token{}
	}
	return a.Token
}

// VariableDeclaration introduces new variables, optionally initialized:
// let a, b := f()   or   let a
type VariableDeclaration struct {
	Token     token.Token // the 'let' token
	Variables []*TypedName
	Value     Expression // nil when declared without a value
}

func (vd *VariableDeclaration) statementNode()       {}
func (vd *VariableDeclaration) TokenLiteral() string { return vd.Token.Lexeme }
func (vd *VariableDeclaration) GetToken() token.Token {
	if vd == nil {
		return token.Token{}
	}
	return vd.Token
}

// If executes its body iff the condition evaluates to a nonzero word.
type If struct {
	Token     token.Token // the 'if' token
	Condition Expression
	Body      *Block
}

func (i *If) statementNode()       {}
func (i *If) TokenLiteral() string { return i.Token.Lexeme }
func (i *If) GetToken() token.Token {
	if i == nil {
		return token.Token{}
	}
	return i.Token
}

// SwitchCase is one arm of a switch. Value is nil for the default case,
// which must be the last arm.
type SwitchCase struct {
	Token token.Token // the 'case' or 'default' token
	Value *Literal    // nil for default
	Body  *Block
}

func (sc *SwitchCase) GetToken() token.Token {
	if sc == nil {
		return token.Token{}
	}
	return sc.Token
}

// Switch selects the first case whose literal equals the scrutinee, falling
// back to the default case. Exactly one case body executes.
type Switch struct {
	Token      token.Token // the 'switch' token
	Expression Expression
	Cases      []*SwitchCase
}

func (s *Switch) statementNode()       {}
func (s *Switch) TokenLiteral() string { return s.Token.Lexeme }
func (s *Switch) GetToken() token.Token {
	if s == nil {
		return token.Token{}
	}
	return s.Token
}

// FunctionDefinition declares a named function:
// function f(a, b) -> c, d { ... }
// Definitions are visible throughout their enclosing block regardless of
// textual order.
type FunctionDefinition struct {
	Token           token.Token // the 'function' token
	Name            string
	Parameters      []*TypedName
	ReturnVariables []*TypedName
	Body            *Block
}

func (fd *FunctionDefinition) statementNode()       {}
func (fd *FunctionDefinition) TokenLiteral() string { return fd.Token.Lexeme }
func (fd *FunctionDefinition) GetToken() token.Token {
	if fd == nil {
		return token.Token{}
	}
	return fd.Token
}

// ForLoop is the only loop form:
// for { pre } condition { post } { body }
type ForLoop struct {
	Token     token.Token // the 'for' token
	Pre       *Block
	Condition Expression
	Post      *Block
	Body      *Block
}

func (fl *ForLoop) statementNode()       {}
func (fl *ForLoop) TokenLiteral() string { return fl.Token.Lexeme }
func (fl *ForLoop) GetToken() token.Token {
	if fl == nil {
		return token.Token{}
	}
	return fl.Token
}

// Break terminates the innermost enclosing loop.
type Break struct {
	Token token.Token
}

func (b *Break) statementNode()       {}
func (b *Break) TokenLiteral() string { return b.Token.Lexeme }
func (b *Break) GetToken() token.Token {
	if b == nil {
		return token.Token{}
	}
	return b.Token
}

// Continue skips to the post block of the innermost enclosing loop.
type Continue struct {
	Token token.Token
}

func (c *Continue) statementNode()       {}
func (c *Continue) TokenLiteral() string { return c.Token.Lexeme }
func (c *Continue) GetToken() token.Token {
	if c == nil {
		return token.Token{}
	}
	return c.Token
}

// Leave exits the enclosing function as if execution fell off the end of its
// body.
type Leave struct {
	Token token.Token
}

func (lv *Leave) statementNode()       {}
func (lv *Leave) TokenLiteral() string { return lv.Token.Lexeme }
func (lv *Leave) GetToken() token.Token {
	if lv == nil {
		return token.Token{}
	}
	return lv.Token
}
