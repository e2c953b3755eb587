package expr

import (
	"fmt"
	"strings"

	"github.com/BenSimner/starling-tool/internal/ast"
)

// Expr is any typed term: every variant is either an IntExpr or a BoolExpr.
type Expr interface {
	Type() ast.Ty
	String() string
	isExpr()
}

// IntExpr is an integer-typed term.
type IntExpr interface {
	Expr
	intExpr()
}

// BoolExpr is a Boolean-typed term.
type BoolExpr interface {
	Expr
	boolExpr()
}

// --- integer variants ---

type IntConst struct{ Value int64 }

func (IntConst) isExpr()          {}
func (IntConst) intExpr()         {}
func (IntConst) Type() ast.Ty     { return ast.TyInt }
func (c IntConst) String() string { return fmt.Sprintf("%d", c.Value) }

type IntVar struct{ Ref VarRef[Var] }

func (IntVar) isExpr()      {}
func (IntVar) intExpr()     {}
func (IntVar) Type() ast.Ty { return ast.TyInt }
func (v IntVar) String() string {
	return v.Ref.String()
}

// IntAdd, IntSub, IntMul are n-ary; IntDiv is binary (spec.md §4 "Integer").
type IntAdd struct{ Xs []IntExpr }
type IntSub struct{ Xs []IntExpr }
type IntMul struct{ Xs []IntExpr }
type IntDiv struct{ X, Y IntExpr }

func (IntAdd) isExpr()      {}
func (IntAdd) intExpr()     {}
func (IntAdd) Type() ast.Ty { return ast.TyInt }
func (a IntAdd) String() string {
	return "(" + joinIntExprs(a.Xs, " + ") + ")"
}

func (IntSub) isExpr()      {}
func (IntSub) intExpr()     {}
func (IntSub) Type() ast.Ty { return ast.TyInt }
func (s IntSub) String() string {
	return "(" + joinIntExprs(s.Xs, " - ") + ")"
}

func (IntMul) isExpr()      {}
func (IntMul) intExpr()     {}
func (IntMul) Type() ast.Ty { return ast.TyInt }
func (m IntMul) String() string {
	return "(" + joinIntExprs(m.Xs, " * ") + ")"
}

func (IntDiv) isExpr()      {}
func (IntDiv) intExpr()     {}
func (IntDiv) Type() ast.Ty { return ast.TyInt }
func (d IntDiv) String() string {
	return fmt.Sprintf("(%s / %s)", d.X, d.Y)
}

func joinIntExprs(xs []IntExpr, sep string) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = x.String()
	}
	return strings.Join(parts, sep)
}

// --- Boolean variants ---

type BoolConst struct{ Value bool }

func (BoolConst) isExpr()      {}
func (BoolConst) boolExpr()    {}
func (BoolConst) Type() ast.Ty { return ast.TyBool }
func (c BoolConst) String() string {
	if c.Value {
		return "true"
	}
	return "false"
}

type BoolVar struct{ Ref VarRef[Var] }

func (BoolVar) isExpr()      {}
func (BoolVar) boolExpr()    {}
func (BoolVar) Type() ast.Ty { return ast.TyBool }
func (v BoolVar) String() string {
	return v.Ref.String()
}

// BoolAnd, BoolOr are n-ary.
type BoolAnd struct{ Xs []BoolExpr }
type BoolOr struct{ Xs []BoolExpr }
type BoolNot struct{ X BoolExpr }
type BoolImplies struct{ Ante, Cons BoolExpr }

// Eq is polymorphic: both sides must share a type, Int or Bool.
type Eq struct{ X, Y Expr }

type Gt struct{ X, Y IntExpr }
type Lt struct{ X, Y IntExpr }
type Ge struct{ X, Y IntExpr }
type Le struct{ X, Y IntExpr }

func (BoolAnd) isExpr()      {}
func (BoolAnd) boolExpr()    {}
func (BoolAnd) Type() ast.Ty { return ast.TyBool }
func (a BoolAnd) String() string {
	return "(" + joinBoolExprs(a.Xs, " && ") + ")"
}

func (BoolOr) isExpr()      {}
func (BoolOr) boolExpr()    {}
func (BoolOr) Type() ast.Ty { return ast.TyBool }
func (o BoolOr) String() string {
	return "(" + joinBoolExprs(o.Xs, " || ") + ")"
}

func (BoolNot) isExpr()      {}
func (BoolNot) boolExpr()    {}
func (BoolNot) Type() ast.Ty { return ast.TyBool }
func (n BoolNot) String() string {
	return fmt.Sprintf("!%s", n.X)
}

func (BoolImplies) isExpr()      {}
func (BoolImplies) boolExpr()    {}
func (BoolImplies) Type() ast.Ty { return ast.TyBool }
func (i BoolImplies) String() string {
	return fmt.Sprintf("(%s => %s)", i.Ante, i.Cons)
}

func (Eq) isExpr()      {}
func (Eq) boolExpr()    {}
func (Eq) Type() ast.Ty { return ast.TyBool }
func (e Eq) String() string {
	return fmt.Sprintf("(%s == %s)", e.X, e.Y)
}

func (Gt) isExpr()      {}
func (Gt) boolExpr()    {}
func (Gt) Type() ast.Ty { return ast.TyBool }
func (g Gt) String() string { return fmt.Sprintf("(%s > %s)", g.X, g.Y) }

func (Lt) isExpr()      {}
func (Lt) boolExpr()    {}
func (Lt) Type() ast.Ty { return ast.TyBool }
func (l Lt) String() string { return fmt.Sprintf("(%s < %s)", l.X, l.Y) }

func (Ge) isExpr()      {}
func (Ge) boolExpr()    {}
func (Ge) Type() ast.Ty { return ast.TyBool }
func (g Ge) String() string { return fmt.Sprintf("(%s >= %s)", g.X, g.Y) }

func (Le) isExpr()      {}
func (Le) boolExpr()    {}
func (Le) Type() ast.Ty { return ast.TyBool }
func (l Le) String() string { return fmt.Sprintf("(%s <= %s)", l.X, l.Y) }

func joinBoolExprs(xs []BoolExpr, sep string) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = x.String()
	}
	return strings.Join(parts, sep)
}

// --- smart constructors ---
//
// These perform only the peephole simplifications spec.md §4.1 calls out
// as meaning-preserving: and[]->true, or[]->false, and[x]->x, or[x]->x,
// implies(false,_)->true, implies(_,true)->true. Notably eq(x,x) is left
// unreduced even when x is syntactically identical, since a symbol on
// either side makes that reduction unsound.

// NewAnd builds a conjunction, collapsing the empty and singleton cases.
func NewAnd(xs ...BoolExpr) BoolExpr {
	if len(xs) == 0 {
		return BoolConst{Value: true}
	}
	if len(xs) == 1 {
		return xs[0]
	}
	return BoolAnd{Xs: xs}
}

// NewOr builds a disjunction, collapsing the empty and singleton cases.
func NewOr(xs ...BoolExpr) BoolExpr {
	if len(xs) == 0 {
		return BoolConst{Value: false}
	}
	if len(xs) == 1 {
		return xs[0]
	}
	return BoolOr{Xs: xs}
}

// NewImplies builds an implication, short-circuiting on a constant
// antecedent or consequent.
func NewImplies(ante, cons BoolExpr) BoolExpr {
	if c, ok := ante.(BoolConst); ok && !c.Value {
		return BoolConst{Value: true}
	}
	if c, ok := cons.(BoolConst); ok && c.Value {
		return BoolConst{Value: true}
	}
	return BoolImplies{Ante: ante, Cons: cons}
}

// NewNot builds a negation. No peephole collapse applies here (spec.md
// §4.1 lists none for `not`).
func NewNot(x BoolExpr) BoolExpr {
	return BoolNot{X: x}
}

// NewAdd, NewSub, NewMul build their n-ary operator, collapsing the
// singleton case.
func NewAdd(xs ...IntExpr) IntExpr {
	if len(xs) == 1 {
		return xs[0]
	}
	return IntAdd{Xs: xs}
}

func NewSub(xs ...IntExpr) IntExpr {
	if len(xs) == 1 {
		return xs[0]
	}
	return IntSub{Xs: xs}
}

func NewMul(xs ...IntExpr) IntExpr {
	if len(xs) == 1 {
		return xs[0]
	}
	return IntMul{Xs: xs}
}
