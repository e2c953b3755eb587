package expr

// FreeVars returns the set of regular variable references occurring in e,
// keyed by Var.Key() (name+mark+stage), recursing into symbol arguments
// (spec.md §4.1 "A free-variables traversal").
func FreeVars(e Expr) map[string]Var {
	out := map[string]Var{}
	collectFreeVars(e, out)
	return out
}

func collectFreeVars(e Expr, out map[string]Var) {
	switch x := e.(type) {
	case IntConst, BoolConst:
		return
	case IntVar:
		collectRef(x.Ref, out)
	case BoolVar:
		collectRef(x.Ref, out)
	case IntAdd:
		for _, s := range x.Xs {
			collectFreeVars(s, out)
		}
	case IntSub:
		for _, s := range x.Xs {
			collectFreeVars(s, out)
		}
	case IntMul:
		for _, s := range x.Xs {
			collectFreeVars(s, out)
		}
	case IntDiv:
		collectFreeVars(x.X, out)
		collectFreeVars(x.Y, out)
	case BoolAnd:
		for _, s := range x.Xs {
			collectFreeVars(s, out)
		}
	case BoolOr:
		for _, s := range x.Xs {
			collectFreeVars(s, out)
		}
	case BoolNot:
		collectFreeVars(x.X, out)
	case BoolImplies:
		collectFreeVars(x.Ante, out)
		collectFreeVars(x.Cons, out)
	case Eq:
		collectFreeVars(x.X, out)
		collectFreeVars(x.Y, out)
	case Gt:
		collectFreeVars(x.X, out)
		collectFreeVars(x.Y, out)
	case Lt:
		collectFreeVars(x.X, out)
		collectFreeVars(x.Y, out)
	case Ge:
		collectFreeVars(x.X, out)
		collectFreeVars(x.Y, out)
	case Le:
		collectFreeVars(x.X, out)
		collectFreeVars(x.Y, out)
	}
}

func collectRef(r VarRef[Var], out map[string]Var) {
	if v, ok := r.RegVar(); ok {
		out[v.Key()] = v
		return
	}
	s, _ := r.Symbol()
	for _, a := range s.Args {
		collectFreeVars(a, out)
	}
}

// HighestIntermediateStage returns the greatest stage number among any
// MarkIntermediate variables free in e, and whether any were found. Used
// during sequential composition to pick the next fresh intermediate
// index.
func HighestIntermediateStage(e Expr) (int, bool) {
	highest := -1
	for _, v := range FreeVars(e) {
		if v.Mark == MarkIntermediate && v.Stage > highest {
			highest = v.Stage
		}
	}
	return highest, highest >= 0
}
