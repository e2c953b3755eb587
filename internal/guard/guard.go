// Package guard implements the Guarder (spec.md §4.6): it rewrites every
// CView a Model body carries into a GView, flattening each ITE nest into a
// conjunction of path conditions on its leaves.
package guard

import (
	"github.com/BenSimner/starling-tool/internal/expr"
	"github.com/BenSimner/starling-tool/internal/model"
	"github.com/BenSimner/starling-tool/internal/view"
)

// GPartCmd mirrors model.MPartCmd with every CView replaced by a GView.
type GPartCmd interface {
	gPartCmdNode()
}

// GPrim is a single guarded primitive call; the command itself carries no
// view, so it survives unchanged from the Modeller's output.
type GPrim struct {
	Cmd model.CommandType
}

func (GPrim) gPartCmdNode() {}

// GMultiCmd mirrors model.MultiCmd.
type GMultiCmd struct {
	Cmds []model.CommandType
}

func (GMultiCmd) gPartCmdNode() {}

// GWhile mirrors model.MWhile with a guarded inner block.
type GWhile struct {
	IsDoWhile bool
	Cond      expr.BoolExpr
	Inner     *GBlock
}

func (*GWhile) gPartCmdNode() {}

// GITE mirrors model.MITE with guarded branches.
type GITE struct {
	Cond expr.BoolExpr
	Then *GBlock
	Else *GBlock
}

func (*GITE) gPartCmdNode() {}

// GBlock mirrors model.MBlock with every view assertion a GView.
type GBlock struct {
	Views []view.GView
	Cmds  []GPartCmd
}

// GMethod is one guarded method.
type GMethod struct {
	Name string
	Body *GBlock
}

// GuardMethod guards every view assertion in m's body.
func GuardMethod(m *model.Method) *GMethod {
	return &GMethod{Name: m.Name, Body: GuardBlock(m.Body)}
}

// GuardBlock recursively guards every view in b and every nested block
// reachable through its commands.
func GuardBlock(b *model.MBlock) *GBlock {
	out := &GBlock{}
	for _, v := range b.Views {
		out.Views = append(out.Views, GuardView(v))
	}
	for _, c := range b.Cmds {
		out.Cmds = append(out.Cmds, guardPartCmd(c))
	}
	return out
}

func guardPartCmd(c model.MPartCmd) GPartCmd {
	switch n := c.(type) {
	case model.MPrim:
		return GPrim{Cmd: n.Cmd}
	case model.MultiCmd:
		return GMultiCmd{Cmds: n.Cmds}
	case *model.MWhile:
		return &GWhile{IsDoWhile: n.IsDoWhile, Cond: n.Cond, Inner: GuardBlock(n.Inner)}
	case *model.MITE:
		return &GITE{Cond: n.Cond, Then: GuardBlock(n.Then), Else: GuardBlock(n.Else)}
	default:
		panic("guard: unrecognised MPartCmd shape")
	}
}

// GuardView flattens a CView into a GView under the trivially-true
// top-level guard, then merges structurally-equal guarded funcs by
// or-ing their guards (spec.md §4.6 "a canonicalisation that improves
// downstream VC size but is not required for soundness").
func GuardView(cv view.CView) view.GView {
	return view.MergeByFunc(guardUnder(cv, expr.BoolConst{Value: true}))
}

// guardUnder expands every CFunc in cv under the accumulated path
// condition guard, recursing through ITE nests (spec.md §4.6).
func guardUnder(cv view.CView, guard expr.BoolExpr) view.GView {
	out := view.EmptyGView()
	for _, f := range cv.Flatten() {
		out = out.Union(guardCFunc(f, guard))
	}
	return out
}

func guardCFunc(f view.CFunc, guard expr.BoolExpr) view.GView {
	switch n := f.(type) {
	case view.PlainCFunc:
		return view.SingletonGView(view.NewGuardedFunc(n.Func, guard))

	case view.ITECFunc:
		thenGuard := expr.NewAnd(guard, n.Cond)
		elseGuard := expr.NewAnd(guard, expr.NewNot(n.Cond))
		return guardUnder(n.Then, thenGuard).Union(guardUnder(n.Else, elseGuard))

	case view.IteratedCFunc:
		inner := guardCFunc(n.Inner, guard)
		out := view.EmptyGView()
		for _, gf := range inner.Flatten() {
			out = out.Union(view.SingletonGView(view.Normalise(gf, n.N)))
		}
		return out

	default:
		panic("guard: unrecognised CFunc shape")
	}
}
