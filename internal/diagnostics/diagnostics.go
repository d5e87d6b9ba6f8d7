// Package diagnostics defines the positioned error values emitted by the
// front-end stages (lexer, parser, analyzer). Codes are stable so tests and
// tooling can match on them without parsing messages.
package diagnostics

import (
	"fmt"

	"github.com/FeiyangTan/solidity/internal/token"
)

// Error codes by stage. Lxxx lexer, Pxxx parser, Axxx analyzer.
const (
	ErrL001 = "L001" // illegal character or malformed token
	ErrP001 = "P001" // unexpected token
	ErrP002 = "P002" // malformed literal
	ErrA001 = "A001" // undeclared identifier
	ErrA002 = "A002" // redeclaration / shadowing
	ErrA003 = "A003" // misplaced break/continue/leave
	ErrA004 = "A004" // call arity or value-count mismatch
	ErrA005 = "A005" // malformed switch
	ErrA006 = "A006" // literal argument expected
)

type Error struct {
	Code    string
	Message string
	File    string
	Line    int
	Column  int
}

func NewError(code string, tok token.Token, msg string) *Error {
	return &Error{Code: code, Message: msg, Line: tok.Line, Column: tok.Column}
}

func (e *Error) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.File, e.Line, e.Column, e.Code, e.Message)
	}
	return fmt.Sprintf("%d:%d: %s: %s", e.Line, e.Column, e.Code, e.Message)
}
