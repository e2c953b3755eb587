package view

// View is a multiset of VFuncs: order-irrelevant, multiplicity
// significant (spec.md §4 "View").
type View struct {
	ms *Multiset[VFunc]
}

// EmptyView returns the empty view.
func EmptyView() View {
	return View{ms: NewMultiset[VFunc]()}
}

// SingletonView returns a view containing exactly one copy of f.
func SingletonView(f VFunc) View {
	return View{ms: Singleton[VFunc](f.Key(), f)}
}

// Union returns the multiset sum of two views (spec.md "*": multiset
// union in views and constraints).
func (v View) Union(other View) View {
	return View{ms: v.ms.Union(other.ms)}
}

// Difference returns v's funcs minus other's, clamped at zero per func.
func (v View) Difference(other View) View {
	return View{ms: v.ms.Difference(other.ms)}
}

// Flatten returns the view's funcs as a stably-ordered flat list.
func (v View) Flatten() []VFunc {
	if v.ms == nil {
		return nil
	}
	return v.ms.Flatten()
}

// Equal reports multiset equality: same funcs with the same
// multiplicities, independent of order.
func (v View) Equal(other View) bool {
	return v.ms.Equal(other.ms)
}

// OView is an ordered list of VFuncs, used where order matters (e.g. a
// view definition's parameter-binding positions).
type OView []VFunc

// ToView forgets order, producing the corresponding multiset View.
func (o OView) ToView() View {
	v := EmptyView()
	for _, f := range o {
		v = v.Union(SingletonView(f))
	}
	return v
}

// DView is an ordered list of DFuncs: the signature side of a view
// definition.
type DView []DFunc
