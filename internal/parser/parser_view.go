package parser

import (
	"github.com/BenSimner/starling-tool/internal/ast"
	"github.com/BenSimner/starling-tool/internal/ferrors"
	"github.com/BenSimner/starling-tool/internal/lexer"
)

// parseViewPattern parses a view pattern (spec.md §6 "View pattern"):
// `emp`, `name(args)`, `v1 * v2 * ...`, `iter[n] v`, or a conditional view.
// Entry/exit convention matches parseExpr: curToken is the first token of
// the pattern on entry, and the last token consumed on exit.
func (p *Parser) parseViewPattern() ast.ViewPattern {
	left := p.parseViewAtom()
	for p.peekIs(lexer.STAR) {
		pos := p.curPos()
		p.nextToken() // consume '*'
		p.nextToken()
		right := p.parseViewAtom()
		left = &ast.StarPattern{X: left, Y: right, Pos: pos}
	}
	return left
}

func (p *Parser) parseViewAtom() ast.ViewPattern {
	switch p.curToken.Type {
	case lexer.EMP:
		return &ast.EmpPattern{Pos: p.curPos()}
	case lexer.IDENT:
		return p.parseFuncPattern()
	case lexer.ITER:
		return p.parseIterPattern()
	case lexer.IF:
		return p.parseITEPattern()
	case lexer.LPAREN:
		p.nextToken()
		inner := p.parseViewPattern()
		p.expect(lexer.RPAREN)
		return inner
	default:
		p.errorf(ferrors.CodeParseSyntax, "expected view pattern, got %s (%q)", p.curToken.Type, p.curToken.Literal)
		return &ast.EmpPattern{Pos: p.curPos()}
	}
}

func (p *Parser) parseFuncPattern() ast.ViewPattern {
	pos := p.curPos()
	name := p.curToken.Literal
	if !p.expect(lexer.LPAREN) {
		return &ast.FuncPattern{Name: name, Pos: pos}
	}
	args := p.parseExprList(lexer.RPAREN)
	return &ast.FuncPattern{Name: name, Args: args, Pos: pos}
}

func (p *Parser) parseIterPattern() ast.ViewPattern {
	pos := p.curPos()
	if !p.expect(lexer.LBRACKET) {
		return &ast.EmpPattern{Pos: pos}
	}
	p.nextToken()
	n := p.parseExpr(LOWEST)
	p.expect(lexer.RBRACKET)
	p.nextToken()
	inner := p.parseViewAtom()
	return &ast.IterPattern{N: n, X: inner, Pos: pos}
}

func (p *Parser) parseITEPattern() ast.ViewPattern {
	pos := p.curPos()
	p.nextToken()
	cond := p.parseExpr(LOWEST)
	if !p.expect(lexer.THEN) {
		return &ast.EmpPattern{Pos: pos}
	}
	p.nextToken()
	then := p.parseViewPattern()
	if !p.expect(lexer.ELSE) {
		return &ast.ITEPattern{Cond: cond, Then: then, Pos: pos}
	}
	p.nextToken()
	els := p.parseViewPattern()
	return &ast.ITEPattern{Cond: cond, Then: then, Else: els, Pos: pos}
}
