// Package expr implements the typed expression and variable core (spec.md
// §4.1): strongly-typed integer/Boolean term trees over variables that may
// be regular or symbolic, plus the marking and substitution machinery the
// modeller and guarder build on.
package expr

import (
	"fmt"

	"github.com/BenSimner/starling-tool/internal/ast"
)

// Mark is the temporal role of a variable occurrence.
type Mark int

const (
	MarkNone Mark = iota
	MarkBefore
	MarkAfter
	MarkIntermediate
	MarkGoal
)

func (m Mark) String() string {
	switch m {
	case MarkBefore:
		return "before"
	case MarkAfter:
		return "after"
	case MarkIntermediate:
		return "intermediate"
	case MarkGoal:
		return "goal"
	default:
		return "unmarked"
	}
}

// Scope distinguishes shared (process-wide) from thread-local variables.
type Scope int

const (
	ScopeShared Scope = iota
	ScopeThread
)

// Var is a typed, scoped, optionally marked variable. Stage is meaningful
// only when Mark is MarkIntermediate or MarkGoal.
type Var struct {
	Name  string
	Type  ast.Ty
	Scope Scope
	Mark  Mark
	Stage int
}

// Marked returns a copy of v with the given mark and stage applied.
func (v Var) Marked(m Mark, stage int) Var {
	v.Mark = m
	v.Stage = stage
	return v
}

// Key is a canonical string identity for a marked variable, suitable as a
// map key in variable maps and free-variable sets.
func (v Var) Key() string {
	if v.Mark == MarkIntermediate || v.Mark == MarkGoal {
		return fmt.Sprintf("%s/%s/%d", v.Name, v.Mark, v.Stage)
	}
	return fmt.Sprintf("%s/%s", v.Name, v.Mark)
}

func (v Var) String() string {
	if v.Mark == MarkNone {
		return v.Name
	}
	if v.Mark == MarkIntermediate || v.Mark == MarkGoal {
		return fmt.Sprintf("%s<%s:%d>", v.Name, v.Mark, v.Stage)
	}
	return fmt.Sprintf("%s<%s>", v.Name, v.Mark)
}

// SymRef is an uninterpreted named function standing in for a construct
// the core cannot natively model (spec.md "Every variable position may
// hold either a regular variable or a symbol"). Its body is opaque; its
// arguments are real expressions and participate fully in substitution.
type SymRef struct {
	Name string
	Args []Expr
}

// VarRef is the two-variant sum Reg(V) | Sym(name, args) generic over the
// inner variable representation, occupying every variable position in an
// expression tree.
type VarRef[V any] struct {
	reg *V
	sym *SymRef
}

// Reg constructs a VarRef holding a regular variable.
func Reg[V any](v V) VarRef[V] {
	return VarRef[V]{reg: &v}
}

// Sym constructs a VarRef holding a symbol application.
func Sym[V any](name string, args ...Expr) VarRef[V] {
	return VarRef[V]{sym: &SymRef{Name: name, Args: args}}
}

// IsSym reports whether this ref is a symbol rather than a regular variable.
func (r VarRef[V]) IsSym() bool { return r.sym != nil }

// RegVar returns the regular variable and true, or the zero value and
// false if r holds a symbol.
func (r VarRef[V]) RegVar() (V, bool) {
	if r.reg != nil {
		return *r.reg, true
	}
	var zero V
	return zero, false
}

// Symbol returns the symbol reference and true, or nil and false if r
// holds a regular variable.
func (r VarRef[V]) Symbol() (*SymRef, bool) {
	if r.sym != nil {
		return r.sym, true
	}
	return nil, false
}

func (r VarRef[V]) String() string {
	if r.sym != nil {
		return fmt.Sprintf("%%{%s}(...)", r.sym.Name)
	}
	return fmt.Sprintf("%v", *r.reg)
}
