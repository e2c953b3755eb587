package expr_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/BenSimner/starling-tool/internal/ast"
	. "github.com/BenSimner/starling-tool/internal/expr"
)

func regIntVar(name string) IntExpr {
	return IntVar{Ref: Reg[Var](Var{Name: name, Type: ast.TyInt})}
}

func regBoolVar(name string) BoolExpr {
	return BoolVar{Ref: Reg[Var](Var{Name: name, Type: ast.TyBool})}
}

func symBoolVar(name string) BoolExpr {
	return BoolVar{Ref: Sym[Var](name)}
}

func TestSmartConstructorPeepholes(t *testing.T) {
	require.Equal(t, BoolConst{Value: true}, NewAnd())
	require.Equal(t, BoolConst{Value: false}, NewOr())
	x := regBoolVar("x")
	require.Equal(t, x, NewAnd(x))
	require.Equal(t, x, NewOr(x))
	require.Equal(t, BoolConst{Value: true}, NewImplies(BoolConst{Value: false}, x))
	require.Equal(t, BoolConst{Value: true}, NewImplies(x, BoolConst{Value: true}))
}

func TestEqNotCollapsedOnSyntacticIdentity(t *testing.T) {
	x := regIntVar("x")
	eq := Eq{X: x, Y: x}
	// Unlike and/or/implies, eq(x,x) must not fold to `true` — soundness
	// depends on this for symbol-holding operands (spec.md §4.1).
	require.IsType(t, Eq{}, eq)
}

func TestRemarkAppliesToRegularVarsAndRecursesIntoSymbols(t *testing.T) {
	plain := regIntVar("ticket")
	marked := RemarkInt(plain, MarkBefore, 0)
	v, ok := marked.(IntVar).Ref.RegVar()
	require.True(t, ok)
	require.Equal(t, MarkBefore, v.Mark)
	require.Equal(t, "ticket", v.Name)

	symExpr := BoolVar{Ref: Sym[Var]("holdTick", regIntVar("t"))}
	remarked := RemarkBool(symExpr, MarkAfter, 0)
	sref, ok := remarked.(BoolVar).Ref.Symbol()
	require.True(t, ok)
	require.Equal(t, "holdTick", sref.Name) // name untouched
	argVar, ok := sref.Args[0].(IntVar).Ref.RegVar()
	require.True(t, ok)
	require.Equal(t, MarkAfter, argVar.Mark) // args recursively remarked
}

func TestFreeVarsDedupesAndRecursesIntoSymbolArgs(t *testing.T) {
	e := NewAnd(regBoolVar("a"), BoolVar{Ref: Sym[Var]("p", regIntVar("x"), regIntVar("a_int"))})
	fv := FreeVars(e)
	require.Contains(t, fv, Var{Name: "a", Type: ast.TyBool}.Key())
	require.Contains(t, fv, Var{Name: "x", Type: ast.TyInt}.Key())
	require.Contains(t, fv, Var{Name: "a_int", Type: ast.TyInt}.Key())
}

func TestHighestIntermediateStage(t *testing.T) {
	v1 := Var{Name: "x", Type: ast.TyInt, Mark: MarkIntermediate, Stage: 2}
	v2 := Var{Name: "y", Type: ast.TyInt, Mark: MarkIntermediate, Stage: 5}
	e := NewAdd(IntVar{Ref: Reg[Var](v1)}, IntVar{Ref: Reg[Var](v2)})
	highest, ok := HighestIntermediateStage(e)
	require.True(t, ok)
	require.Equal(t, 5, highest)

	_, ok = HighestIntermediateStage(regIntVar("plain"))
	require.False(t, ok)
}

func TestRequireNoSymbolsDetectsSymbol(t *testing.T) {
	require.NoError(t, RequireNoSymbols(regBoolVar("x")))
	err := RequireNoSymbols(symBoolVar("weird"))
	require.Error(t, err)
	var symErr *SymbolError
	require.ErrorAs(t, err, &symErr)
	require.Equal(t, "weird", symErr.Name)
}

// TestUnderapproxPolarityNesting verifies the example called out in
// design notes: implies(implies(sym, sym), sym). Starting positive at
// the root, the outer consequent sits at positive, the inner consequent
// inherits the outer antecedent's negative context, and the inner
// antecedent flips that negative back to positive.
func TestUnderapproxPolarityNesting(t *testing.T) {
	inner := BoolImplies{Ante: symBoolVar("s1"), Cons: symBoolVar("s2")}
	outer := BoolImplies{Ante: inner, Cons: symBoolVar("s3")}

	got := UnderapproxSymbols(outer, Positive)
	want := BoolImplies{
		Ante: BoolImplies{Ante: BoolConst{Value: false}, Cons: BoolConst{Value: true}},
		Cons: BoolConst{Value: false},
	}
	require.Equal(t, want, got)
}

func TestUnderapproxLeavesEqAndIntegersAlone(t *testing.T) {
	e := Eq{X: regIntVar("x"), Y: regIntVar("y")}
	got := UnderapproxSymbols(e, Positive)
	require.Equal(t, e, got)
}
