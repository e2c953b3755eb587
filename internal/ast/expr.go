package ast

import (
	"fmt"
	"strings"
)

// Expr is a surface-level expression: untyped at parse time, type-checked
// by the Modeller. Both integer and Boolean syntax share one grammar here;
// internal/model splits them by inferred type.
type Expr interface {
	Node
	exprNode()
}

// Ident is a bare variable reference (or, contextually, a view-signature
// parameter name inside a constraint/prototype).
type Ident struct {
	Name string
	Pos  Pos
}

func (i *Ident) exprNode()     {}
func (i *Ident) Position() Pos { return i.Pos }
func (i *Ident) String() string { return i.Name }

// IntLit is an integer literal.
type IntLit struct {
	Value int64
	Pos   Pos
}

func (l *IntLit) exprNode()     {}
func (l *IntLit) Position() Pos { return l.Pos }
func (l *IntLit) String() string { return fmt.Sprintf("%d", l.Value) }

// BoolLit is `true` or `false`.
type BoolLit struct {
	Value bool
	Pos   Pos
}

func (l *BoolLit) exprNode()     {}
func (l *BoolLit) Position() Pos { return l.Pos }
func (l *BoolLit) String() string { return fmt.Sprintf("%v", l.Value) }

// UnaryExpr is `!x` or `-x`.
type UnaryExpr struct {
	Op  string
	X   Expr
	Pos Pos
}

func (u *UnaryExpr) exprNode()     {}
func (u *UnaryExpr) Position() Pos { return u.Pos }
func (u *UnaryExpr) String() string { return fmt.Sprintf("(%s%s)", u.Op, u.X) }

// BinaryExpr is any binary arithmetic, comparison, or logical operator.
type BinaryExpr struct {
	Op  string
	X   Expr
	Y   Expr
	Pos Pos
}

func (b *BinaryExpr) exprNode()     {}
func (b *BinaryExpr) Position() Pos { return b.Pos }
func (b *BinaryExpr) String() string { return fmt.Sprintf("(%s %s %s)", b.X, b.Op, b.Y) }

// SymbolCall is `%{name}(args)`: an uninterpreted escape hatch.
type SymbolCall struct {
	Name string
	Args []Expr
	Pos  Pos
}

func (s *SymbolCall) exprNode()     {}
func (s *SymbolCall) Position() Pos { return s.Pos }
func (s *SymbolCall) String() string {
	return fmt.Sprintf("%%{%s}(%s)", s.Name, joinExprs(s.Args))
}

// Error is a placeholder expression node substituted at a parse failure
// site so that surrounding structure (argument lists, operator chains)
// still parses to completion instead of aborting; the Modeller never
// sees one, since a non-empty Parser.Errors() means the script is never
// passed downstream.
type Error struct {
	Msg string
	Pos Pos
}

func (e *Error) exprNode()      {}
func (e *Error) Position() Pos  { return e.Pos }
func (e *Error) String() string { return fmt.Sprintf("<error: %s>", e.Msg) }

// CondExpr is `if cond then x else y`, usable both as a value expression
// and, via ViewITE below, inside view patterns.
type CondExpr struct {
	Cond Expr
	Then Expr
	Else Expr
	Pos  Pos
}

func (c *CondExpr) exprNode()     {}
func (c *CondExpr) Position() Pos { return c.Pos }
func (c *CondExpr) String() string {
	return fmt.Sprintf("(if %s then %s else %s)", c.Cond, c.Then, c.Else)
}

func joinExprs(es []Expr) string {
	parts := make([]string, len(es))
	for i, e := range es {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}

// ViewPattern is the surface grammar for a view assertion or constraint
// pattern: `emp`, `name(args)`, `v1 * v2`, `iter[n] v`, or a conditional.
type ViewPattern interface {
	Node
	viewPatternNode()
}

// EmpPattern is the empty view `emp`.
type EmpPattern struct {
	Pos Pos
}

func (e *EmpPattern) viewPatternNode() {}
func (e *EmpPattern) Position() Pos    { return e.Pos }
func (e *EmpPattern) String() string   { return "emp" }

// FuncPattern is a single predicate application `name(args)`.
type FuncPattern struct {
	Name string
	Args []Expr
	Pos  Pos
}

func (f *FuncPattern) viewPatternNode() {}
func (f *FuncPattern) Position() Pos    { return f.Pos }
func (f *FuncPattern) String() string {
	return fmt.Sprintf("%s(%s)", f.Name, joinExprs(f.Args))
}

// StarPattern is multiset union `v1 * v2`.
type StarPattern struct {
	X, Y ViewPattern
	Pos  Pos
}

func (s *StarPattern) viewPatternNode() {}
func (s *StarPattern) Position() Pos    { return s.Pos }
func (s *StarPattern) String() string   { return fmt.Sprintf("%s * %s", s.X, s.Y) }

// IterPattern is `iter[n] v`: n copies of v.
type IterPattern struct {
	N    Expr
	X    ViewPattern
	Pos  Pos
}

func (i *IterPattern) viewPatternNode() {}
func (i *IterPattern) Position() Pos    { return i.Pos }
func (i *IterPattern) String() string   { return fmt.Sprintf("iter[%s] %s", i.N, i.X) }

// ITEPattern is a conditional view `if cond then v1 else v2`.
type ITEPattern struct {
	Cond Expr
	Then ViewPattern
	Else ViewPattern
	Pos  Pos
}

func (i *ITEPattern) viewPatternNode() {}
func (i *ITEPattern) Position() Pos    { return i.Pos }
func (i *ITEPattern) String() string {
	return fmt.Sprintf("(if %s then %s else %s)", i.Cond, i.Then, i.Else)
}
