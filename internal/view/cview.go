package view

import (
	"fmt"

	"github.com/BenSimner/starling-tool/internal/expr"
)

// CFunc is an element of a CView: either a plain func or a nested
// conditional (spec.md §4 "CView (conditional view, modeller output)").
type CFunc interface {
	Key() string
	cfuncNode()
}

// PlainCFunc wraps a func with no surrounding condition.
type PlainCFunc struct {
	Func VFunc
}

func (p PlainCFunc) Key() string { return "plain:" + p.Func.Key() }
func (PlainCFunc) cfuncNode()    {}

// ITECFunc is a conditional nest: `then` applies under Cond, `else`
// applies under its negation.
type ITECFunc struct {
	Cond expr.BoolExpr
	Then CView
	Else CView
}

func (i ITECFunc) Key() string {
	return fmt.Sprintf("ite:%s?{%s}:{%s}", i.Cond, keysOf(i.Then), keysOf(i.Else))
}
func (ITECFunc) cfuncNode() {}

// IteratedCFunc is `iter[n] inner`: n copies of the inner func, where n
// is a (possibly symbolic) integer expression (spec.md §3 "Iterated").
type IteratedCFunc struct {
	N     expr.IntExpr
	Inner CFunc
}

func (i IteratedCFunc) Key() string {
	return fmt.Sprintf("iter[%s]%s", i.N, i.Inner.Key())
}
func (IteratedCFunc) cfuncNode() {}

func keysOf(v CView) string {
	s := ""
	for _, f := range v.Flatten() {
		s += f.Key() + ";"
	}
	return s
}

// CView is a multiset of CFuncs (spec.md §4 "CView").
type CView struct {
	ms *Multiset[CFunc]
}

// EmptyCView returns the empty conditional view.
func EmptyCView() CView {
	return CView{ms: NewMultiset[CFunc]()}
}

// SingletonCView returns a CView containing exactly one copy of f.
func SingletonCView(f CFunc) CView {
	return CView{ms: Singleton[CFunc](f.Key(), f)}
}

func (v CView) Union(other CView) CView {
	return CView{ms: v.ms.Union(other.ms)}
}

func (v CView) Flatten() []CFunc {
	if v.ms == nil {
		return nil
	}
	return v.ms.Flatten()
}

func (v CView) Equal(other CView) bool {
	return v.ms.Equal(other.ms)
}

// FromView lifts a plain (unconditional) View into a CView, wrapping
// every func as a PlainCFunc — the multiset "map over elements" operation
// spec.md §4.2 names, specialised to the View->CView lift.
func FromView(plain View) CView {
	if plain.ms == nil {
		return EmptyCView()
	}
	return CView{ms: MapMultiset[VFunc, CFunc](plain.ms,
		func(c CFunc) string { return c.Key() },
		func(f VFunc) CFunc { return PlainCFunc{Func: f} },
	)}
}
