// Package parser implements a Pratt parser turning a token stream into an
// ast.Script: the sequence of ScriptItems described in spec.md §4.3. Parse
// failures are collected as single-line diagnostics carrying file position
// (spec.md §7 ParseError) rather than panicking; callers check Errors()
// after Parse returns.
package parser

import (
	"fmt"
	"strconv"

	"github.com/BenSimner/starling-tool/internal/ast"
	"github.com/BenSimner/starling-tool/internal/ferrors"
	"github.com/BenSimner/starling-tool/internal/lexer"
)

// Precedence levels for the expression Pratt parser.
const (
	_ int = iota
	LOWEST
	LOGICAL_OR
	LOGICAL_AND
	EQUALITY
	RELATIONAL
	SUM
	PRODUCT
	PREFIX
	CALL
)

var precedences = map[lexer.TokenType]int{
	lexer.OR:    LOGICAL_OR,
	lexer.AND:   LOGICAL_AND,
	lexer.EQ:    EQUALITY,
	lexer.NEQ:   EQUALITY,
	lexer.LT:    RELATIONAL,
	lexer.LTE:   RELATIONAL,
	lexer.GT:    RELATIONAL,
	lexer.GTE:   RELATIONAL,
	lexer.PLUS:  SUM,
	lexer.MINUS: SUM,
	lexer.STAR:  PRODUCT,
	lexer.SLASH: PRODUCT,
}

type (
	prefixParseFn func() ast.Expr
	infixParseFn  func(ast.Expr) ast.Expr
)

// Parser is a single-use Pratt parser over one token stream.
type Parser struct {
	l         *lexer.Lexer
	curToken  lexer.Token
	peekToken lexer.Token
	errs      []*ferrors.Report

	prefixFns map[lexer.TokenType]prefixParseFn
	infixFns  map[lexer.TokenType]infixParseFn
}

// New creates a Parser reading tokens from l.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}
	p.prefixFns = map[lexer.TokenType]prefixParseFn{
		lexer.IDENT: p.parseIdent,
		lexer.INT:   p.parseIntLit,
		lexer.TRUE:  p.parseBoolLit,
		lexer.FALSE: p.parseBoolLit,
		lexer.BANG:  p.parseUnary,
		lexer.MINUS: p.parseUnary,
		lexer.LPAREN: p.parseGrouped,
		lexer.PERCENT: p.parseSymbolCall,
	}
	p.infixFns = map[lexer.TokenType]infixParseFn{
		lexer.OR: p.parseBinary, lexer.AND: p.parseBinary,
		lexer.EQ: p.parseBinary, lexer.NEQ: p.parseBinary,
		lexer.LT: p.parseBinary, lexer.LTE: p.parseBinary,
		lexer.GT: p.parseBinary, lexer.GTE: p.parseBinary,
		lexer.PLUS: p.parseBinary, lexer.MINUS: p.parseBinary,
		lexer.STAR: p.parseBinary, lexer.SLASH: p.parseBinary,
	}
	p.nextToken()
	p.nextToken()
	return p
}

// Errors returns every diagnostic accumulated during Parse (spec.md §9
// "Error accumulation").
func (p *Parser) Errors() []*ferrors.Report { return p.errs }

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) pos(tp lexer.Pos) ast.Pos {
	return ast.Pos{File: tp.File, Line: tp.Line, Column: tp.Column, Offset: tp.Offset}
}

func (p *Parser) curPos() ast.Pos { return p.pos(p.curToken.Pos) }

func (p *Parser) curIs(tt lexer.TokenType) bool  { return p.curToken.Type == tt }
func (p *Parser) peekIs(tt lexer.TokenType) bool { return p.peekToken.Type == tt }

func (p *Parser) expect(tt lexer.TokenType) bool {
	if p.peekIs(tt) {
		p.nextToken()
		return true
	}
	p.errorf(ferrors.CodeParseSyntax, "expected %s, got %s (%q) instead", tt, p.peekToken.Type, p.peekToken.Literal)
	return false
}

func (p *Parser) errorf(code, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	span := ast.Span{Start: p.curPos(), End: p.curPos()}
	p.errs = append(p.errs, ferrors.New(ferrors.StageParse, code, msg).WithSpan(span))
}

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peekToken.Type]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.curToken.Type]; ok {
		return pr
	}
	return LOWEST
}

// Parse parses the whole token stream into an ast.Script. Check Errors()
// after calling; a non-empty Errors() means Items may be incomplete.
func (p *Parser) Parse() *ast.Script {
	start := p.curPos()
	script := &ast.Script{Pos: start}
	for !p.curIs(lexer.EOF) {
		item := p.parseScriptItem()
		if item != nil {
			script.Items = append(script.Items, item)
		}
		if p.curIs(lexer.EOF) {
			break
		}
		p.nextToken()
	}
	return script
}

func (p *Parser) parseScriptItem() ast.ScriptItem {
	switch p.curToken.Type {
	case lexer.SHARED:
		return p.parseGlobalDecl()
	case lexer.THREAD:
		return p.parseLocalDecl()
	case lexer.VIEW, lexer.ITER:
		return p.parseViewProtoDecl()
	case lexer.CONSTRAINT:
		return p.parseConstraintDecl()
	case lexer.METHOD:
		return p.parseMethodDecl()
	default:
		p.errorf(ferrors.CodeParseSyntax, "unexpected token %s (%q) at top level", p.curToken.Type, p.curToken.Literal)
		return nil
	}
}

// --- expressions ---

func (p *Parser) parseExpr(precedence int) ast.Expr {
	prefix, ok := p.prefixFns[p.curToken.Type]
	if !ok {
		p.errorf(ferrors.CodeParseSyntax, "no prefix parse function for %s (%q)", p.curToken.Type, p.curToken.Literal)
		return &ast.Error{Pos: p.curPos(), Msg: "expected expression"}
	}
	left := prefix()

	for !p.peekIs(lexer.SEMICOLON) && precedence < p.peekPrecedence() {
		if p.peekIs(lexer.GT) {
			// A '>' with no operand after it closes an atomic block
			// (`<x := 1> {| ... |}`) rather than comparing.
			la := *p.l
			if _, ok := p.prefixFns[la.NextToken().Type]; !ok {
				return left
			}
		}
		infix, ok := p.infixFns[p.peekToken.Type]
		if !ok {
			return left
		}
		p.nextToken()
		left = infix(left)
	}
	return left
}

func (p *Parser) parseIdent() ast.Expr {
	return &ast.Ident{Name: p.curToken.Literal, Pos: p.curPos()}
}

func (p *Parser) parseIntLit() ast.Expr {
	pos := p.curPos()
	v, err := strconv.ParseInt(p.curToken.Literal, 10, 64)
	if err != nil {
		p.errorf(ferrors.CodeParseSyntax, "invalid integer literal %q", p.curToken.Literal)
		return &ast.Error{Pos: pos, Msg: "bad integer literal"}
	}
	return &ast.IntLit{Value: v, Pos: pos}
}

func (p *Parser) parseBoolLit() ast.Expr {
	return &ast.BoolLit{Value: p.curIs(lexer.TRUE), Pos: p.curPos()}
}

func (p *Parser) parseUnary() ast.Expr {
	op := p.curToken.Literal
	pos := p.curPos()
	p.nextToken()
	x := p.parseExpr(PREFIX)
	return &ast.UnaryExpr{Op: op, X: x, Pos: pos}
}

func (p *Parser) parseBinary(left ast.Expr) ast.Expr {
	op := p.curToken.Literal
	pos := p.curPos()
	prec := p.curPrecedence()
	p.nextToken()
	right := p.parseExpr(prec)
	return &ast.BinaryExpr{Op: op, X: left, Y: right, Pos: pos}
}

func (p *Parser) parseGrouped() ast.Expr {
	p.nextToken()
	e := p.parseExpr(LOWEST)
	if !p.expect(lexer.RPAREN) {
		return e
	}
	return e
}

// parseSymbolCall parses `%{name}(args)`.
func (p *Parser) parseSymbolCall() ast.Expr {
	pos := p.curPos()
	if !p.expect(lexer.LBRACE) {
		return &ast.Error{Pos: pos, Msg: "expected '{' after '%'"}
	}
	if !p.expect(lexer.IDENT) {
		return &ast.Error{Pos: pos, Msg: "expected symbol name"}
	}
	name := p.curToken.Literal
	if !p.expect(lexer.RBRACE) {
		return &ast.Error{Pos: pos, Msg: "expected '}' after symbol name"}
	}
	var args []ast.Expr
	if p.peekIs(lexer.LPAREN) {
		p.nextToken()
		args = p.parseExprList(lexer.RPAREN)
	}
	return &ast.SymbolCall{Name: name, Args: args, Pos: pos}
}

// parseExprList parses a comma-separated expression list, starting with
// curToken == the opening delimiter, ending after consuming `end`.
func (p *Parser) parseExprList(end lexer.TokenType) []ast.Expr {
	var list []ast.Expr
	if p.peekIs(end) {
		p.nextToken()
		return list
	}
	p.nextToken()
	list = append(list, p.parseExpr(LOWEST))
	for p.peekIs(lexer.COMMA) {
		p.nextToken()
		p.nextToken()
		list = append(list, p.parseExpr(LOWEST))
	}
	if !p.expect(end) {
		return list
	}
	return list
}
