package model

import (
	"fmt"

	"github.com/BenSimner/starling-tool/internal/ast"
	"github.com/BenSimner/starling-tool/internal/expr"
	"github.com/BenSimner/starling-tool/internal/view"
)

// PrimKind names a recognised atomic primitive shape (spec.md §4.5 point 4).
type PrimKind int

const (
	PrimLoadDirect PrimKind = iota
	PrimLoadIncr
	PrimLoadDecr
	PrimStore
	PrimCAS
	PrimSkip
	PrimAssume
	PrimSymbol
)

// Semantic is one entry of the modeller's semantics list: a primitive's
// DFunc signature (unmarked parameter names) paired with the Boolean
// expression relating the Before/After copies of those same names
// (spec.md §4.5 "semantics: list of (DFunc, Bool expr)").
//
// The frame condition "all other shared variables unchanged" that spec.md
// §4.5 describes alongside each primitive is deliberately not baked into
// these relations: it depends on the full global variable set, which a
// generic per-primitive schema does not have access to. That framing is
// an axiom/VC-generation concern applied once a primitive is instantiated
// at a call site against a concrete Model — spec.md §3 itself notes the
// VC "Term" shape is stable but "not produced by the core here".
type Semantic struct {
	Kind PrimKind
	Sig  view.DFunc
	Rel  expr.BoolExpr
}

func plainVar(name string, ty ast.Ty) expr.Var {
	return expr.Var{Name: name, Type: ty}
}

func markedExpr(v expr.Var, m expr.Mark) expr.Expr {
	mv := v.Marked(m, 0)
	if mv.Type == ast.TyInt {
		return expr.IntVar{Ref: expr.Reg[expr.Var](mv)}
	}
	return expr.BoolVar{Ref: expr.Reg[expr.Var](mv)}
}

func eqMarked(v expr.Var, ma expr.Mark, mb expr.Mark) expr.BoolExpr {
	return expr.Eq{X: markedExpr(v, ma), Y: markedExpr(v, mb)}
}

// buildFixedSemantics returns the schema entries that exist regardless of
// what a particular script uses: load/store/cas per type, plus skip and
// assume. Symbol-call entries are synthesised lazily per distinct symbol
// encountered while walking method bodies (see stmt.go).
func buildFixedSemantics() []Semantic {
	var out []Semantic
	for _, ty := range []ast.Ty{ast.TyInt, ast.TyBool} {
		dest := plainVar("dest", ty)
		src := plainVar("src", ty)

		// load<T>(dest <- src, direct): dest_after = src_before, src unchanged.
		out = append(out, Semantic{
			Kind: PrimLoadDirect,
			Sig:  view.DFunc{Name: fmt.Sprintf("load_%s", ty), Params: []expr.Var{dest, src}},
			Rel: expr.NewAnd(
				expr.Eq{X: markedExpr(dest, expr.MarkAfter), Y: markedExpr(src, expr.MarkBefore)},
				eqMarked(src, expr.MarkAfter, expr.MarkBefore),
			),
		})

		// store<T>(dest <- val): dest_after = val_before.
		val := plainVar("val", ty)
		out = append(out, Semantic{
			Kind: PrimStore,
			Sig:  view.DFunc{Name: fmt.Sprintf("store_%s", ty), Params: []expr.Var{dest, val}},
			Rel:  expr.Eq{X: markedExpr(dest, expr.MarkAfter), Y: markedExpr(val, expr.MarkBefore)},
		})

		// cas<T>(dest, test, set).
		test := plainVar("test", ty)
		set := plainVar("set", ty)
		destTestEq := expr.Eq{X: markedExpr(dest, expr.MarkBefore), Y: markedExpr(test, expr.MarkBefore)}
		taken := expr.NewAnd(
			expr.Eq{X: markedExpr(dest, expr.MarkAfter), Y: markedExpr(set, expr.MarkBefore)},
			eqMarked(test, expr.MarkAfter, expr.MarkBefore),
		)
		notTaken := expr.NewAnd(
			eqMarked(dest, expr.MarkAfter, expr.MarkBefore),
			expr.Eq{X: markedExpr(test, expr.MarkAfter), Y: markedExpr(dest, expr.MarkBefore)},
		)
		out = append(out, Semantic{
			Kind: PrimCAS,
			Sig:  view.DFunc{Name: fmt.Sprintf("cas_%s", ty), Params: []expr.Var{dest, test, set}},
			Rel: expr.NewAnd(
				expr.NewImplies(destTestEq, taken),
				expr.NewImplies(expr.NewNot(destTestEq), notTaken),
			),
		})
	}

	// load<Int> with increment/decrement.
	idest := plainVar("dest", ast.TyInt)
	isrc := plainVar("src", ast.TyInt)
	one := expr.IntConst{Value: 1}
	out = append(out, Semantic{
		Kind: PrimLoadIncr,
		Sig:  view.DFunc{Name: "load_incr", Params: []expr.Var{idest, isrc}},
		Rel: expr.NewAnd(
			expr.Eq{X: markedExpr(idest, expr.MarkAfter), Y: markedExpr(isrc, expr.MarkBefore)},
			expr.Eq{X: markedExpr(isrc, expr.MarkAfter), Y: expr.NewAdd(markedExpr(isrc, expr.MarkBefore).(expr.IntExpr), one)},
		),
	})
	out = append(out, Semantic{
		Kind: PrimLoadDecr,
		Sig:  view.DFunc{Name: "load_decr", Params: []expr.Var{idest, isrc}},
		Rel: expr.NewAnd(
			expr.Eq{X: markedExpr(idest, expr.MarkAfter), Y: markedExpr(isrc, expr.MarkBefore)},
			expr.Eq{X: markedExpr(isrc, expr.MarkAfter), Y: expr.NewSub(markedExpr(isrc, expr.MarkBefore).(expr.IntExpr), one)},
		),
	})

	// skip: no-op.
	out = append(out, Semantic{
		Kind: PrimSkip,
		Sig:  view.DFunc{Name: "skip"},
		Rel:  expr.BoolConst{Value: true},
	})

	// assume(b): filters without changing state.
	cond := plainVar("cond", ast.TyBool)
	out = append(out, Semantic{
		Kind: PrimAssume,
		Sig:  view.DFunc{Name: "assume", Params: []expr.Var{cond}},
		Rel:  markedExpr(cond, expr.MarkBefore).(expr.BoolExpr),
	})
	return out
}

// symbolSemantic synthesises a Semantic entry for a symbol call: the
// symbol is lifted into the Boolean relation unchanged (spec.md §4.5
// "Symbol-call: the symbol is lifted into the Boolean relation
// unchanged"), with each argument marked Before.
func symbolSemantic(name string, args []expr.Expr) Semantic {
	markedArgs := make([]expr.Expr, len(args))
	for i, a := range args {
		markedArgs[i] = expr.Remark(a, expr.MarkBefore, 0)
	}
	return Semantic{
		Kind: PrimSymbol,
		Sig:  view.DFunc{Name: "sym_" + name},
		Rel:  expr.BoolVar{Ref: expr.Sym[expr.Var](name, markedArgs...)},
	}
}
