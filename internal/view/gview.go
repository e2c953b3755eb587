package view

import (
	"fmt"

	"github.com/BenSimner/starling-tool/internal/expr"
)

// GuardedFunc is one element of a GView: a func guarded by a Boolean
// condition, optionally carrying an iterated multiplicity expression
// (spec.md §4 "GView", "Iterated").
type GuardedFunc struct {
	Guard expr.BoolExpr
	Item  VFunc
	// Mult is nil for a plain (single-copy) guarded func; non-nil means
	// "Mult copies of Item", the Iterated form.
	Mult expr.IntExpr
}

// Key identifies a GuardedFunc for multiset purposes. It includes the
// guard itself, not just the underlying func: two guarded funcs over the
// same func but different (non-equal) guards are distinct elements of a
// GView, and must stay distinct through Union until MergeByFunc explicitly
// OR-s them together. Keying on funcKey() alone would let the multiset's
// first-insert-wins collision behaviour silently discard the losing
// guard (see funcKey's doc comment).
func (g GuardedFunc) Key() string {
	return fmt.Sprintf("%s#%s", g.funcKey(), g.Guard)
}

// funcKey identifies a GuardedFunc by its underlying func and multiplicity
// alone, ignoring the guard. This is the grouping key MergeByFunc uses to
// find the guarded funcs that should be OR-ed together; it must never be
// used as a Multiset key directly; Multiset.Add keeps the first-inserted
// value on a key collision, so two distinctly-guarded funcs sharing a
// funcKey would collapse to just one of the two guards instead of OR-ing.
func (g GuardedFunc) funcKey() string {
	if g.Mult == nil {
		return g.Item.Key()
	}
	return fmt.Sprintf("iter[%s]%s", g.Mult, g.Item.Key())
}

// NewGuardedFunc builds a plain (non-iterated) guarded func.
func NewGuardedFunc(item VFunc, guard expr.BoolExpr) GuardedFunc {
	return GuardedFunc{Guard: guard, Item: item}
}

// NewIteratedFunc builds an iterated guarded func: n copies of item.
func NewIteratedFunc(item VFunc, guard expr.BoolExpr, n expr.IntExpr) GuardedFunc {
	return GuardedFunc{Guard: guard, Item: item, Mult: n}
}

// Normalise implements spec.md §4.2's `normalise(iter(f, m), k)`: folds
// an outer multiplicity k into an already-iterated func, producing
// iter(f, m*k), constant-folding when both m and k are literal.
func Normalise(g GuardedFunc, k expr.IntExpr) GuardedFunc {
	m := g.Mult
	if m == nil {
		m = expr.IntConst{Value: 1}
	}
	out := g
	if mc, ok := m.(expr.IntConst); ok {
		if kc, ok := k.(expr.IntConst); ok {
			out.Mult = expr.IntConst{Value: mc.Value * kc.Value}
			return out
		}
	}
	out.Mult = expr.NewMul(m, k)
	return out
}

// GView is a multiset of GuardedFuncs (spec.md §4 "GView").
type GView struct {
	ms *Multiset[GuardedFunc]
}

func EmptyGView() GView {
	return GView{ms: NewMultiset[GuardedFunc]()}
}

func SingletonGView(g GuardedFunc) GView {
	return GView{ms: Singleton[GuardedFunc](g.Key(), g)}
}

func (v GView) Union(other GView) GView {
	return GView{ms: v.ms.Union(other.ms)}
}

func (v GView) Flatten() []GuardedFunc {
	if v.ms == nil {
		return nil
	}
	return v.ms.Flatten()
}

func (v GView) Equal(other GView) bool {
	return v.ms.Equal(other.ms)
}

// DistributeGuard conjoins g onto every element's guard, yielding a new
// GView (spec.md §4.2 "guard(g, multiset) yields a multiset whose every
// element has its guard conjoined with g").
func DistributeGuard(g expr.BoolExpr, v GView) GView {
	out := EmptyGView()
	for _, gf := range v.Flatten() {
		merged := gf
		merged.Guard = expr.NewAnd(gf.Guard, g)
		out = out.Union(SingletonGView(merged))
	}
	return out
}

// MergeByFunc canonicalises a GView by combining every pair of entries
// that share the same underlying func and multiplicity, OR-ing their
// guards together (spec.md §4.6 "merge structurally equal guarded funcs
// by or-ing their guards"). This improves downstream VC size and is not
// required for soundness.
func MergeByFunc(v GView) GView {
	byKey := map[string]GuardedFunc{}
	var order []string
	for _, gf := range v.Flatten() {
		key := gf.funcKey()
		if existing, ok := byKey[key]; ok {
			existing.Guard = expr.NewOr(existing.Guard, gf.Guard)
			byKey[key] = existing
			continue
		}
		byKey[key] = gf
		order = append(order, key)
	}
	out := EmptyGView()
	for _, key := range order {
		out = out.Union(SingletonGView(byKey[key]))
	}
	return out
}
