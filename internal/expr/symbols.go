package expr

import "fmt"

// SymbolError reports that a symbol survived to a stage that requires a
// fully interpreted expression (spec.md §4.1 "A symbol-removal pass that
// returns failure when any symbol remains; used by downstream SMT
// encoding").
type SymbolError struct {
	Name string
}

func (e *SymbolError) Error() string {
	return fmt.Sprintf("uninterpreted symbol %q remains in expression destined for SMT encoding", e.Name)
}

// RequireNoSymbols walks e and returns the first SymbolError it finds, or
// nil if e is symbol-free.
func RequireNoSymbols(e Expr) error {
	switch x := e.(type) {
	case IntConst, BoolConst:
		return nil
	case IntVar:
		return requireRefSymbolFree(x.Ref)
	case BoolVar:
		return requireRefSymbolFree(x.Ref)
	case IntAdd:
		return requireAllSymbolFree(x.Xs)
	case IntSub:
		return requireAllSymbolFree(x.Xs)
	case IntMul:
		return requireAllSymbolFree(x.Xs)
	case IntDiv:
		return firstErr(RequireNoSymbols(x.X), RequireNoSymbols(x.Y))
	case BoolAnd:
		return requireAllSymbolFreeB(x.Xs)
	case BoolOr:
		return requireAllSymbolFreeB(x.Xs)
	case BoolNot:
		return RequireNoSymbols(x.X)
	case BoolImplies:
		return firstErr(RequireNoSymbols(x.Ante), RequireNoSymbols(x.Cons))
	case Eq:
		return firstErr(RequireNoSymbols(x.X), RequireNoSymbols(x.Y))
	case Gt:
		return firstErr(RequireNoSymbols(x.X), RequireNoSymbols(x.Y))
	case Lt:
		return firstErr(RequireNoSymbols(x.X), RequireNoSymbols(x.Y))
	case Ge:
		return firstErr(RequireNoSymbols(x.X), RequireNoSymbols(x.Y))
	case Le:
		return firstErr(RequireNoSymbols(x.X), RequireNoSymbols(x.Y))
	default:
		return nil
	}
}

func requireRefSymbolFree(r VarRef[Var]) error {
	if s, ok := r.Symbol(); ok {
		return &SymbolError{Name: s.Name}
	}
	return nil
}

func requireAllSymbolFree(xs []IntExpr) error {
	for _, x := range xs {
		if err := RequireNoSymbols(x); err != nil {
			return err
		}
	}
	return nil
}

func requireAllSymbolFreeB(xs []BoolExpr) error {
	for _, x := range xs {
		if err := RequireNoSymbols(x); err != nil {
			return err
		}
	}
	return nil
}

func firstErr(errs ...error) error {
	for _, e := range errs {
		if e != nil {
			return e
		}
	}
	return nil
}
