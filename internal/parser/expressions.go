package parser

import (
	"github.com/holiman/uint256"

	"github.com/FeiyangTan/solidity/internal/ast"
	"github.com/FeiyangTan/solidity/internal/diagnostics"
	"github.com/FeiyangTan/solidity/internal/token"
)

func (p *Parser) parseExpression() ast.Expression {
	switch p.curToken.Type {
	case token.NUMBER, token.HEX_NUMBER, token.STRING, token.TRUE, token.FALSE:
		if lit := p.parseLiteral(); lit != nil {
			return lit
		}
		return nil
	case token.IDENT:
		if p.peekTokenIs(token.LPAREN) {
			if call := p.parseCall(); call != nil {
				return call
			}
			return nil
		}
		return &ast.Identifier{Token: p.curToken, Name: p.curToken.Literal}
	default:
		p.errorf(diagnostics.ErrP001, p.curToken, "expected expression, got '%s'", p.curToken.Lexeme)
		return nil
	}
}

func (p *Parser) parseCall() *ast.FunctionCall {
	call := &ast.FunctionCall{
		Token:        p.curToken,
		FunctionName: &ast.Identifier{Token: p.curToken, Name: p.curToken.Literal},
	}
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return call
	}
	for {
		p.nextToken()
		arg := p.parseExpression()
		if arg == nil {
			return nil
		}
		call.Arguments = append(call.Arguments, arg)
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return call
}

func (p *Parser) parseLiteral() *ast.Literal {
	lit := &ast.Literal{Token: p.curToken, Source: p.curToken.Literal}
	switch p.curToken.Type {
	case token.NUMBER:
		lit.Kind = ast.NumberLiteral
		if err := lit.Value.SetFromDecimal(p.curToken.Literal); err != nil {
			p.errorf(diagnostics.ErrP002, p.curToken, "number literal out of 256-bit range: %s", p.curToken.Lexeme)
			return nil
		}
	case token.HEX_NUMBER:
		lit.Kind = ast.NumberLiteral
		value, err := uint256.FromHex(p.curToken.Lexeme)
		if err != nil {
			p.errorf(diagnostics.ErrP002, p.curToken, "malformed hex literal: %s", p.curToken.Lexeme)
			return nil
		}
		lit.Value = *value
	case token.STRING:
		lit.Kind = ast.StringLiteral
		s := p.curToken.Literal
		if len(s) > 32 {
			p.errorf(diagnostics.ErrP002, p.curToken, "string literal longer than 32 bytes")
			return nil
		}
		// String literals denote their bytes left-aligned in a 32-byte word.
		var word [32]byte
		copy(word[:], s)
		lit.Value.SetBytes(word[:])
	case token.TRUE:
		lit.Kind = ast.BooleanLiteral
		lit.Value.SetOne()
	case token.FALSE:
		lit.Kind = ast.BooleanLiteral
		// zero value already
	default:
		p.errorf(diagnostics.ErrP001, p.curToken, "expected literal, got '%s'", p.curToken.Lexeme)
		return nil
	}
	return lit
}
