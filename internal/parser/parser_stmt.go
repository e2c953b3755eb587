package parser

import (
	"github.com/BenSimner/starling-tool/internal/ast"
	"github.com/BenSimner/starling-tool/internal/ferrors"
	"github.com/BenSimner/starling-tool/internal/lexer"
)

// parseBlock parses `{pre-view} step {view} step ... {post-view}`
// (spec.md §3 "A block is..."). Entry convention: curToken == VBAR_OPEN.
func (p *Parser) parseBlock() *ast.Block {
	return p.parseBlockStoppingAtWhile(false)
}

// parseBlockStoppingAtWhile is parseBlock, except that when stopAtWhile is
// set a trailing `while` is never consumed as a new while-loop command —
// it belongs to the enclosing `do ... while (cond)` instead. Without this,
// a do-while body would greedily swallow its own closing `while (cond)` as
// one more loop command.
func (p *Parser) parseBlockStoppingAtWhile(stopAtWhile bool) *ast.Block {
	pos := p.curPos()
	block := &ast.Block{Pos: pos}
	block.Views = append(block.Views, p.parseViewBracket())

	for p.startsPartCmd(p.peekToken.Type) && !(stopAtWhile && p.peekToken.Type == lexer.WHILE) {
		p.nextToken()
		block.Cmds = append(block.Cmds, p.parsePartCmd())
		p.nextToken()
		block.Views = append(block.Views, p.parseViewBracket())
	}
	return block
}

func (p *Parser) startsPartCmd(tt lexer.TokenType) bool {
	switch tt {
	case lexer.LT, lexer.IF, lexer.WHILE, lexer.DO:
		return true
	default:
		return false
	}
}

// parseViewBracket parses `{| pattern |}`. Entry: curToken == VBAR_OPEN.
func (p *Parser) parseViewBracket() ast.ViewPattern {
	p.nextToken()
	pat := p.parseViewPattern()
	p.expect(lexer.BAR_CLOSE)
	return pat
}

func (p *Parser) parsePartCmd() ast.PartCmd {
	switch p.curToken.Type {
	case lexer.LT:
		return p.parsePrimCmd()
	case lexer.IF:
		return p.parseITECmd()
	case lexer.WHILE:
		return p.parseWhileCmd()
	case lexer.DO:
		return p.parseDoWhileCmd()
	default:
		p.errorf(ferrors.CodeParseSyntax, "expected a command, got %s (%q)", p.curToken.Type, p.curToken.Literal)
		return &ast.PrimCmd{Prim: &ast.SkipStmt{Pos: p.curPos()}, Pos: p.curPos()}
	}
}

// parsePrimCmd parses `<stmt>` or `<{ s1; s2; ... }>`. Entry: curToken == '<'.
func (p *Parser) parsePrimCmd() *ast.PrimCmd {
	pos := p.curPos()
	p.nextToken()

	var prim ast.AtomicPrim
	if p.curIs(lexer.LBRACE) {
		mpos := p.curPos()
		p.nextToken()
		var stmts []ast.AtomicPrim
		stmts = append(stmts, p.parseAtomicPrim())
		for p.peekIs(lexer.SEMICOLON) {
			p.nextToken()
			p.nextToken()
			stmts = append(stmts, p.parseAtomicPrim())
		}
		p.expect(lexer.RBRACE)
		prim = &ast.MultiStmt{Stmts: stmts, Pos: mpos}
	} else {
		prim = p.parseAtomicPrim()
	}
	p.expect(lexer.GT)
	return &ast.PrimCmd{Prim: prim, Pos: pos}
}

// parseAtomicPrim parses one recognised primitive shape inside an atomic
// block (spec.md §4.5). Entry: curToken == the first token of the primitive.
func (p *Parser) parseAtomicPrim() ast.AtomicPrim {
	pos := p.curPos()
	switch p.curToken.Type {
	case lexer.SKIP:
		return &ast.SkipStmt{Pos: pos}
	case lexer.ASSUME:
		if !p.expect(lexer.LPAREN) {
			return &ast.AssumeStmt{Pos: pos}
		}
		p.nextToken()
		cond := p.parseExpr(LOWEST)
		p.expect(lexer.RPAREN)
		return &ast.AssumeStmt{Cond: cond, Pos: pos}
	case lexer.CAS:
		if !p.expect(lexer.LPAREN) {
			return &ast.CASStmt{Pos: pos}
		}
		p.nextToken()
		dest := p.parseExpr(LOWEST)
		p.expect(lexer.COMMA)
		p.nextToken()
		test := p.parseExpr(LOWEST)
		p.expect(lexer.COMMA)
		p.nextToken()
		set := p.parseExpr(LOWEST)
		p.expect(lexer.RPAREN)
		return &ast.CASStmt{Dest: dest, Test: test, Set: set, Pos: pos}
	case lexer.PERCENT:
		expr := p.parseSymbolCall()
		sym, _ := expr.(*ast.SymbolCall)
		if sym == nil {
			return &ast.SkipStmt{Pos: pos}
		}
		return &ast.SymbolStmt{Name: sym.Name, Args: sym.Args, Pos: sym.Pos}
	case lexer.IDENT:
		return p.parseAssignOrFetch()
	default:
		p.errorf(ferrors.CodeParseSyntax, "unrecognised atomic primitive starting at %s (%q)", p.curToken.Type, p.curToken.Literal)
		return &ast.SkipStmt{Pos: pos}
	}
}

func (p *Parser) parseAssignOrFetch() ast.AtomicPrim {
	pos := p.curPos()
	dest := &ast.Ident{Name: p.curToken.Literal, Pos: pos}

	switch {
	case p.peekIs(lexer.DEFEQ):
		p.nextToken()
		p.nextToken()
		val := p.parseExpr(LOWEST)
		return &ast.StoreStmt{Dest: dest, Expr: val, Pos: pos}
	case p.peekIs(lexer.LARROW):
		p.nextToken()
		if !p.expect(lexer.IDENT) {
			return &ast.FetchStmt{Dest: dest, Pos: pos}
		}
		src := &ast.Ident{Name: p.curToken.Literal, Pos: p.curPos()}
		mode := ast.FetchDirect
		if p.peekIs(lexer.INCR) {
			p.nextToken()
			mode = ast.FetchIncr
		} else if p.peekIs(lexer.DECR) {
			p.nextToken()
			mode = ast.FetchDecr
		}
		return &ast.FetchStmt{Dest: dest, Src: src, Mode: mode, Pos: pos}
	default:
		p.errorf(ferrors.CodeParseSyntax, "expected ':=' or '<-' after identifier in atomic block, got %s", p.peekToken.Type)
		return &ast.SkipStmt{Pos: pos}
	}
}

// parseITECmd parses `if (cond) then-block else else-block`.
// Entry: curToken == IF.
func (p *Parser) parseITECmd() *ast.ITECmd {
	pos := p.curPos()
	if !p.expect(lexer.LPAREN) {
		return &ast.ITECmd{Pos: pos}
	}
	p.nextToken()
	cond := p.parseExpr(LOWEST)
	if !p.expect(lexer.RPAREN) {
		return &ast.ITECmd{Cond: cond, Pos: pos}
	}
	p.nextToken()
	thenBlk := p.parseBlock()
	if !p.expect(lexer.ELSE) {
		return &ast.ITECmd{Cond: cond, Then: thenBlk, Pos: pos}
	}
	p.nextToken()
	elseBlk := p.parseBlock()
	return &ast.ITECmd{Cond: cond, Then: thenBlk, Else: elseBlk, Pos: pos}
}

// parseWhileCmd parses `while (cond) body`. Entry: curToken == WHILE.
func (p *Parser) parseWhileCmd() *ast.WhileCmd {
	pos := p.curPos()
	if !p.expect(lexer.LPAREN) {
		return &ast.WhileCmd{Pos: pos}
	}
	p.nextToken()
	cond := p.parseExpr(LOWEST)
	if !p.expect(lexer.RPAREN) {
		return &ast.WhileCmd{Cond: cond, Pos: pos}
	}
	p.nextToken()
	body := p.parseBlock()
	return &ast.WhileCmd{Cond: cond, Inner: body, Pos: pos}
}

// parseDoWhileCmd parses `do body while (cond)`. Entry: curToken == DO.
func (p *Parser) parseDoWhileCmd() *ast.WhileCmd {
	pos := p.curPos()
	p.nextToken()
	body := p.parseBlockStoppingAtWhile(true)
	if !p.expect(lexer.WHILE) {
		return &ast.WhileCmd{IsDoWhile: true, Inner: body, Pos: pos}
	}
	if !p.expect(lexer.LPAREN) {
		return &ast.WhileCmd{IsDoWhile: true, Inner: body, Pos: pos}
	}
	p.nextToken()
	cond := p.parseExpr(LOWEST)
	p.expect(lexer.RPAREN)
	return &ast.WhileCmd{IsDoWhile: true, Cond: cond, Inner: body, Pos: pos}
}
