// Package parser turns a Yul token stream into the AST. It is a plain
// recursive-descent parser over a one-token lookahead. Errors abort the
// enclosing construct and are recorded as diagnostics on the pipeline
// context; the parser never panics on malformed input.
package parser

import (
	"fmt"

	"github.com/FeiyangTan/solidity/internal/ast"
	"github.com/FeiyangTan/solidity/internal/diagnostics"
	"github.com/FeiyangTan/solidity/internal/lexer"
	"github.com/FeiyangTan/solidity/internal/pipeline"
	"github.com/FeiyangTan/solidity/internal/token"
)

type Parser struct {
	l   *lexer.Lexer
	ctx *pipeline.Context

	curToken  token.Token
	peekToken token.Token
}

func New(l *lexer.Lexer, ctx *pipeline.Context) *Parser {
	p := &Parser{l: l, ctx: ctx}
	// Read two tokens so curToken and peekToken are both set.
	p.nextToken()
	p.nextToken()
	return p
}

// ParseProgram parses a top-level Yul program, which is a single block.
func (p *Parser) ParseProgram() *ast.Block {
	if !p.curTokenIs(token.LBRACE) {
		p.errorf(diagnostics.ErrP001, p.curToken, "program must start with '{', got '%s'", p.curToken.Lexeme)
		return nil
	}
	block := p.parseBlock()
	if block == nil {
		return nil
	}
	if !p.peekTokenIs(token.EOF) {
		p.errorf(diagnostics.ErrP001, p.peekToken, "unexpected '%s' after top-level block", p.peekToken.Lexeme)
		return nil
	}
	return block
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
	// Lexer defects surface here, once per malformed token.
	if p.peekToken.Type == token.ILLEGAL {
		p.errorf(diagnostics.ErrL001, p.peekToken, "malformed token '%s'", p.peekToken.Lexeme)
	}
}

func (p *Parser) curTokenIs(t token.Type) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t token.Type) bool {
	return p.peekToken.Type == t
}

func (p *Parser) expectPeek(t token.Type) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.errorf(diagnostics.ErrP001, p.peekToken, "expected '%s', got '%s'", t, p.peekToken.Lexeme)
	return false
}

func (p *Parser) errorf(code string, tok token.Token, format string, args ...interface{}) {
	p.ctx.Errors = append(p.ctx.Errors, diagnostics.NewError(code, tok, fmt.Sprintf(format, args...)))
}
