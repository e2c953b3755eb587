package view_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/BenSimner/starling-tool/internal/ast"
	"github.com/BenSimner/starling-tool/internal/expr"
	"github.com/BenSimner/starling-tool/internal/view"
)

func intVar(name string) expr.Expr {
	return expr.IntVar{Ref: expr.Reg[expr.Var](expr.Var{Name: name, Type: ast.TyInt})}
}

func TestViewUnionIsMultiplicitySignificant(t *testing.T) {
	f := view.VFunc{Name: "holdTick", Args: []expr.Expr{intVar("t")}}
	v1 := view.SingletonView(f)
	v2 := v1.Union(v1)
	require.Len(t, v2.Flatten(), 2)
	require.False(t, v1.Equal(v2))
}

func TestViewUnionIsOrderIrrelevant(t *testing.T) {
	a := view.SingletonView(view.VFunc{Name: "a"})
	b := view.SingletonView(view.VFunc{Name: "b"})
	require.True(t, a.Union(b).Equal(b.Union(a)))
}

func TestViewDifferenceClampsAtZero(t *testing.T) {
	f := view.SingletonView(view.VFunc{Name: "holdLock"})
	empty := view.EmptyView()
	require.True(t, empty.Difference(f).Equal(empty))
}

func TestOViewToViewForgetsOrder(t *testing.T) {
	a := view.VFunc{Name: "a"}
	b := view.VFunc{Name: "b"}
	o1 := view.OView{a, b}
	o2 := view.OView{b, a}
	require.True(t, o1.ToView().Equal(o2.ToView()))
}

func TestFromViewWrapsAsPlainCFuncs(t *testing.T) {
	v := view.SingletonView(view.VFunc{Name: "emp"})
	cv := view.FromView(v)
	flat := cv.Flatten()
	require.Len(t, flat, 1)
	_, ok := flat[0].(view.PlainCFunc)
	require.True(t, ok)
}

func TestFromViewPreservesMultiplicity(t *testing.T) {
	f := view.VFunc{Name: "holdTick", Args: []expr.Expr{intVar("t")}}
	v := view.SingletonView(f).Union(view.SingletonView(f))
	cv := view.FromView(v)
	require.Len(t, cv.Flatten(), 2)
}

func TestMapMultisetSumsMultiplicitiesOnKeyCollision(t *testing.T) {
	m := view.NewMultiset[int]()
	m.Add("a", 1, 2)
	m.Add("b", 2, 3)
	// both map to the same new key "same": multiplicities should sum.
	mapped := view.MapMultiset(m, func(int) string { return "same" }, func(n int) int { return n })
	require.Equal(t, 1, mapped.Len())
	require.Equal(t, 5, mapped.Count("same"))
}

func TestDistributeGuardConjoinsOntoEveryElement(t *testing.T) {
	g1 := view.NewGuardedFunc(view.VFunc{Name: "p"}, expr.BoolConst{Value: true})
	g2 := view.NewGuardedFunc(view.VFunc{Name: "q"}, expr.BoolConst{Value: true})
	gv := view.SingletonGView(g1).Union(view.SingletonGView(g2))

	cond := expr.BoolVar{Ref: expr.Reg[expr.Var](expr.Var{Name: "b", Type: ast.TyBool})}
	out := view.DistributeGuard(cond, gv)
	for _, gf := range out.Flatten() {
		and, ok := gf.Guard.(expr.BoolAnd)
		require.True(t, ok)
		require.Len(t, and.Xs, 2)
	}
}

func TestMergeByFuncOrsGuards(t *testing.T) {
	bVar := expr.BoolVar{Ref: expr.Reg[expr.Var](expr.Var{Name: "b", Type: ast.TyBool})}
	notB := expr.NewNot(bVar)
	g1 := view.NewGuardedFunc(view.VFunc{Name: "p"}, bVar)
	g2 := view.NewGuardedFunc(view.VFunc{Name: "p"}, notB)
	gv := view.SingletonGView(g1).Union(view.SingletonGView(g2))

	merged := view.MergeByFunc(gv)
	flat := merged.Flatten()
	require.Len(t, flat, 1)
	or, ok := flat[0].Guard.(expr.BoolOr)
	require.True(t, ok)
	require.Len(t, or.Xs, 2)
	// Both arms must survive the Union that happens before MergeByFunc
	// runs — a keying scheme that dropped the losing guard on collision
	// would OR bVar with itself here instead.
	require.Contains(t, or.Xs, expr.BoolExpr(bVar))
	require.Contains(t, or.Xs, expr.BoolExpr(notB))
}

func TestNormaliseFoldsConstantMultiplicities(t *testing.T) {
	g := view.NewIteratedFunc(view.VFunc{Name: "p"}, expr.BoolConst{Value: true}, expr.IntConst{Value: 3})
	out := view.Normalise(g, expr.IntConst{Value: 4})
	c, ok := out.Mult.(expr.IntConst)
	require.True(t, ok)
	require.Equal(t, int64(12), c.Value)
}

// cmp.Diff picks up View's Equal(View) bool method automatically, so this
// asserts the same multiplicity-significant, order-irrelevant semantics as
// TestViewUnionIsMultiplicitySignificant/TestViewUnionIsOrderIrrelevant but
// via go-cmp's diffing report instead of a bare boolean.
func TestViewDiffViaGoCmp(t *testing.T) {
	a := view.SingletonView(view.VFunc{Name: "a"}).Union(view.SingletonView(view.VFunc{Name: "b"}))
	b := view.SingletonView(view.VFunc{Name: "b"}).Union(view.SingletonView(view.VFunc{Name: "a"}))
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("expected union to be order-irrelevant, got diff:\n%s", diff)
	}

	c := a.Union(view.SingletonView(view.VFunc{Name: "a"}))
	if diff := cmp.Diff(a, c); diff == "" {
		t.Error("expected an extra copy of a to produce a non-empty diff")
	}
}

func TestITECFuncKeyDistinguishesNesting(t *testing.T) {
	cond := expr.BoolConst{Value: true}
	then := view.FromView(view.SingletonView(view.VFunc{Name: "a"}))
	els := view.FromView(view.SingletonView(view.VFunc{Name: "b"}))
	ite := view.ITECFunc{Cond: cond, Then: then, Else: els}
	require.Contains(t, ite.Key(), "ite:")
}
