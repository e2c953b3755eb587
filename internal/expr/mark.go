package expr

import "github.com/BenSimner/starling-tool/internal/ast"

// Remark replaces every regular variable in e with its marked form,
// recursing into symbol arguments but leaving symbol names untouched
// (spec.md §4.1 "A marking operation...").
func Remark(e Expr, m Mark, stage int) Expr {
	switch e.Type() {
	case ast.TyInt:
		return RemarkInt(e.(IntExpr), m, stage)
	case ast.TyBool:
		return RemarkBool(e.(BoolExpr), m, stage)
	default:
		return e
	}
}

// RemarkInt is Remark specialised to integer expressions, preserving the
// IntExpr static type through the rewrite.
func RemarkInt(e IntExpr, m Mark, stage int) IntExpr {
	switch x := e.(type) {
	case IntConst:
		return x
	case IntVar:
		return IntVar{Ref: remarkRef(x.Ref, m, stage)}
	case IntAdd:
		return IntAdd{Xs: remarkInts(x.Xs, m, stage)}
	case IntSub:
		return IntSub{Xs: remarkInts(x.Xs, m, stage)}
	case IntMul:
		return IntMul{Xs: remarkInts(x.Xs, m, stage)}
	case IntDiv:
		return IntDiv{X: RemarkInt(x.X, m, stage), Y: RemarkInt(x.Y, m, stage)}
	default:
		return e
	}
}

// RemarkBool is Remark specialised to Boolean expressions.
func RemarkBool(e BoolExpr, m Mark, stage int) BoolExpr {
	switch x := e.(type) {
	case BoolConst:
		return x
	case BoolVar:
		return BoolVar{Ref: remarkRef(x.Ref, m, stage)}
	case BoolAnd:
		return BoolAnd{Xs: remarkBools(x.Xs, m, stage)}
	case BoolOr:
		return BoolOr{Xs: remarkBools(x.Xs, m, stage)}
	case BoolNot:
		return BoolNot{X: RemarkBool(x.X, m, stage)}
	case BoolImplies:
		return BoolImplies{Ante: RemarkBool(x.Ante, m, stage), Cons: RemarkBool(x.Cons, m, stage)}
	case Eq:
		return Eq{X: Remark(x.X, m, stage), Y: Remark(x.Y, m, stage)}
	case Gt:
		return Gt{X: RemarkInt(x.X, m, stage), Y: RemarkInt(x.Y, m, stage)}
	case Lt:
		return Lt{X: RemarkInt(x.X, m, stage), Y: RemarkInt(x.Y, m, stage)}
	case Ge:
		return Ge{X: RemarkInt(x.X, m, stage), Y: RemarkInt(x.Y, m, stage)}
	case Le:
		return Le{X: RemarkInt(x.X, m, stage), Y: RemarkInt(x.Y, m, stage)}
	default:
		return e
	}
}

func remarkRef(r VarRef[Var], m Mark, stage int) VarRef[Var] {
	if v, ok := r.RegVar(); ok {
		return Reg[Var](v.Marked(m, stage))
	}
	s, _ := r.Symbol()
	args := make([]Expr, len(s.Args))
	for i, a := range s.Args {
		args[i] = Remark(a, m, stage)
	}
	return Sym[Var](s.Name, args...)
}

func remarkInts(xs []IntExpr, m Mark, stage int) []IntExpr {
	out := make([]IntExpr, len(xs))
	for i, x := range xs {
		out[i] = RemarkInt(x, m, stage)
	}
	return out
}

func remarkBools(xs []BoolExpr, m Mark, stage int) []BoolExpr {
	out := make([]BoolExpr, len(xs))
	for i, x := range xs {
		out[i] = RemarkBool(x, m, stage)
	}
	return out
}
