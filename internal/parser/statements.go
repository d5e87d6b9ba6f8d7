package parser

import (
	"github.com/FeiyangTan/solidity/internal/ast"
	"github.com/FeiyangTan/solidity/internal/diagnostics"
	"github.com/FeiyangTan/solidity/internal/token"
)

// parseStatement dispatches on the current token. The convention throughout:
// a parse function starts with curToken on the first token of its construct
// and returns with curToken on the last one.
func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case token.LBRACE:
		if block := p.parseBlock(); block != nil {
			return block
		}
		return nil
	case token.FUNCTION:
		if fd := p.parseFunctionDefinition(); fd != nil {
			return fd
		}
		return nil
	case token.LET:
		if vd := p.parseVariableDeclaration(); vd != nil {
			return vd
		}
		return nil
	case token.IF:
		if st := p.parseIf(); st != nil {
			return st
		}
		return nil
	case token.SWITCH:
		if st := p.parseSwitch(); st != nil {
			return st
		}
		return nil
	case token.FOR:
		if st := p.parseForLoop(); st != nil {
			return st
		}
		return nil
	case token.BREAK:
		return &ast.Break{Token: p.curToken}
	case token.CONTINUE:
		return &ast.Continue{Token: p.curToken}
	case token.LEAVE:
		return &ast.Leave{Token: p.curToken}
	case token.IDENT:
		return p.parseAssignmentOrCall()
	default:
		p.errorf(diagnostics.ErrP001, p.curToken, "unexpected '%s' at start of statement", p.curToken.Lexeme)
		return nil
	}
}

func (p *Parser) parseBlock() *ast.Block {
	block := &ast.Block{Token: p.curToken}
	p.nextToken()
	for !p.curTokenIs(token.RBRACE) {
		if p.curTokenIs(token.EOF) {
			p.errorf(diagnostics.ErrP001, p.curToken, "unexpected end of input, expected '}'")
			return nil
		}
		stmt := p.parseStatement()
		if stmt == nil {
			return nil
		}
		block.Statements = append(block.Statements, stmt)
		p.nextToken()
	}
	return block
}

func (p *Parser) parseFunctionDefinition() *ast.FunctionDefinition {
	fd := &ast.FunctionDefinition{Token: p.curToken}

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	fd.Name = p.curToken.Literal

	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	fd.Parameters = p.parseTypedNameList(token.RPAREN)
	if !p.expectPeek(token.RPAREN) {
		return nil
	}

	if p.peekTokenIs(token.ARROW) {
		p.nextToken()
		fd.ReturnVariables = p.parseTypedNameList(token.LBRACE)
		if len(fd.ReturnVariables) == 0 {
			p.errorf(diagnostics.ErrP001, p.peekToken, "expected return variables after '->'")
			return nil
		}
	}

	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	fd.Body = p.parseBlock()
	if fd.Body == nil {
		return nil
	}
	return fd
}

// parseTypedNameList parses "a, b: u256, c" up to (but not consuming) the
// terminator. An empty list is allowed.
func (p *Parser) parseTypedNameList(terminator token.Type) []*ast.TypedName {
	var names []*ast.TypedName
	if p.peekTokenIs(terminator) {
		return names
	}
	for {
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		name := &ast.TypedName{Token: p.curToken, Name: p.curToken.Literal}
		if p.peekTokenIs(token.COLON) {
			p.nextToken()
			if !p.expectPeek(token.IDENT) {
				return nil
			}
			name.Type = p.curToken.Literal
		}
		names = append(names, name)
		if !p.peekTokenIs(token.COMMA) {
			return names
		}
		p.nextToken()
	}
}

func (p *Parser) parseVariableDeclaration() *ast.VariableDeclaration {
	vd := &ast.VariableDeclaration{Token: p.curToken}
	vd.Variables = p.parseTypedNameList(token.ASSIGN)
	if vd.Variables == nil || len(vd.Variables) == 0 {
		p.errorf(diagnostics.ErrP001, p.peekToken, "expected variable name after 'let'")
		return nil
	}
	if p.peekTokenIs(token.ASSIGN) {
		p.nextToken()
		p.nextToken()
		vd.Value = p.parseExpression()
		if vd.Value == nil {
			return nil
		}
	}
	return vd
}

// parseAssignmentOrCall disambiguates the two statements starting with an
// identifier: "a, b := expr" and a bare call "f(...)".
func (p *Parser) parseAssignmentOrCall() ast.Statement {
	switch {
	case p.peekTokenIs(token.LPAREN):
		tok := p.curToken
		call := p.parseCall()
		if call == nil {
			return nil
		}
		return &ast.ExpressionStatement{Token: tok, Expression: call}
	case p.peekTokenIs(token.COMMA), p.peekTokenIs(token.ASSIGN):
		a := &ast.Assignment{Token: p.curToken}
		a.VariableNames = append(a.VariableNames, &ast.Identifier{Token: p.curToken, Name: p.curToken.Literal})
		for p.peekTokenIs(token.COMMA) {
			p.nextToken()
			if !p.expectPeek(token.IDENT) {
				return nil
			}
			a.VariableNames = append(a.VariableNames, &ast.Identifier{Token: p.curToken, Name: p.curToken.Literal})
		}
		if !p.expectPeek(token.ASSIGN) {
			return nil
		}
		p.nextToken()
		a.Value = p.parseExpression()
		if a.Value == nil {
			return nil
		}
		return a
	default:
		p.errorf(diagnostics.ErrP001, p.peekToken, "expected ':=' or '(' after identifier, got '%s'", p.peekToken.Lexeme)
		return nil
	}
}

func (p *Parser) parseIf() *ast.If {
	st := &ast.If{Token: p.curToken}
	p.nextToken()
	st.Condition = p.parseExpression()
	if st.Condition == nil {
		return nil
	}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	st.Body = p.parseBlock()
	if st.Body == nil {
		return nil
	}
	return st
}

func (p *Parser) parseSwitch() *ast.Switch {
	st := &ast.Switch{Token: p.curToken}
	p.nextToken()
	st.Expression = p.parseExpression()
	if st.Expression == nil {
		return nil
	}
	for p.peekTokenIs(token.CASE) || p.peekTokenIs(token.DEFAULT) {
		p.nextToken()
		c := &ast.SwitchCase{Token: p.curToken}
		if p.curTokenIs(token.CASE) {
			p.nextToken()
			c.Value = p.parseLiteral()
			if c.Value == nil {
				return nil
			}
		}
		if !p.expectPeek(token.LBRACE) {
			return nil
		}
		c.Body = p.parseBlock()
		if c.Body == nil {
			return nil
		}
		st.Cases = append(st.Cases, c)
	}
	if len(st.Cases) == 0 {
		p.errorf(diagnostics.ErrP001, p.peekToken, "switch must have at least one case")
		return nil
	}
	return st
}

func (p *Parser) parseForLoop() *ast.ForLoop {
	st := &ast.ForLoop{Token: p.curToken}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	st.Pre = p.parseBlock()
	if st.Pre == nil {
		return nil
	}
	p.nextToken()
	st.Condition = p.parseExpression()
	if st.Condition == nil {
		return nil
	}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	st.Post = p.parseBlock()
	if st.Post == nil {
		return nil
	}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	st.Body = p.parseBlock()
	if st.Body == nil {
		return nil
	}
	return st
}
