package parser

import (
	"github.com/BenSimner/starling-tool/internal/ast"
	"github.com/BenSimner/starling-tool/internal/ferrors"
	"github.com/BenSimner/starling-tool/internal/lexer"
)

func (p *Parser) parseTy() (ast.Ty, bool) {
	switch p.curToken.Type {
	case lexer.INTTY:
		return ast.TyInt, true
	case lexer.BOOLTY:
		return ast.TyBool, true
	default:
		p.errorf(ferrors.CodeParseSyntax, "expected type (int/bool), got %s", p.curToken.Type)
		return 0, false
	}
}

// parseTypedNameList parses `TY name (, name)*` where curToken is TY.
func (p *Parser) parseTypedNameList() []*ast.TypedName {
	ty, ok := p.parseTy()
	if !ok {
		return nil
	}
	var names []*ast.TypedName
	if !p.expect(lexer.IDENT) {
		return names
	}
	names = append(names, &ast.TypedName{Type: ty, Name: p.curToken.Literal, Pos: p.curPos()})
	for p.peekIs(lexer.COMMA) {
		p.nextToken()
		if !p.expect(lexer.IDENT) {
			break
		}
		names = append(names, &ast.TypedName{Type: ty, Name: p.curToken.Literal, Pos: p.curPos()})
	}
	return names
}

func (p *Parser) parseGlobalDecl() ast.ScriptItem {
	pos := p.curPos()
	p.nextToken() // consume 'shared'
	names := p.parseTypedNameList()
	p.expect(lexer.SEMICOLON)
	return &ast.GlobalDecl{Names: names, Pos: pos}
}

func (p *Parser) parseLocalDecl() ast.ScriptItem {
	pos := p.curPos()
	p.nextToken() // consume 'thread'
	names := p.parseTypedNameList()
	p.expect(lexer.SEMICOLON)
	return &ast.LocalDecl{Names: names, Pos: pos}
}

func (p *Parser) parseViewProtoDecl() ast.ScriptItem {
	pos := p.curPos()
	iterated := false
	if p.curIs(lexer.ITER) {
		iterated = true
		if !p.expect(lexer.VIEW) {
			return &ast.ViewProtoDecl{Pos: pos}
		}
	}
	if !p.expect(lexer.IDENT) {
		return &ast.ViewProtoDecl{Pos: pos}
	}
	name := p.curToken.Literal
	if !p.expect(lexer.LPAREN) {
		return &ast.ViewProtoDecl{Name: name, Iterated: iterated, Pos: pos}
	}
	var params []*ast.TypedName
	if !p.peekIs(lexer.RPAREN) {
		params = append(params, p.parseOneTypedName())
		for p.peekIs(lexer.COMMA) {
			p.nextToken()
			params = append(params, p.parseOneTypedName())
		}
	}
	p.expect(lexer.RPAREN)
	p.expect(lexer.SEMICOLON)
	return &ast.ViewProtoDecl{Name: name, Params: params, Iterated: iterated, Pos: pos}
}

func (p *Parser) parseOneTypedName() *ast.TypedName {
	p.nextToken()
	ty, _ := p.parseTy()
	pos := p.curPos()
	name := ""
	if p.expect(lexer.IDENT) {
		name = p.curToken.Literal
	}
	return &ast.TypedName{Type: ty, Name: name, Pos: pos}
}

func (p *Parser) parseConstraintDecl() ast.ScriptItem {
	pos := p.curPos()
	p.nextToken() // consume 'constraint'
	pattern := p.parseViewPattern()
	if !p.expect(lexer.ARROW) {
		return &ast.ConstraintDecl{Pattern: pattern, Pos: pos}
	}
	p.nextToken()
	body := p.parseExpr(LOWEST)
	p.expect(lexer.SEMICOLON)
	return &ast.ConstraintDecl{Pattern: pattern, Body: body, Pos: pos}
}

func (p *Parser) parseMethodDecl() ast.ScriptItem {
	pos := p.curPos()
	if !p.expect(lexer.IDENT) {
		return &ast.MethodDecl{Pos: pos}
	}
	name := p.curToken.Literal
	if !p.expect(lexer.LPAREN) {
		return &ast.MethodDecl{Name: name, Pos: pos}
	}
	p.expect(lexer.RPAREN)
	p.nextToken()
	body := p.parseBlock()
	return &ast.MethodDecl{Name: name, Body: body, Pos: pos}
}
