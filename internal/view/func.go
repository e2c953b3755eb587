// Package view implements the view algebra (spec.md §4.2): funcs, the
// View/OView/DView/CView/GView family built over them, and the multiset
// machinery shared across all of them.
package view

import (
	"fmt"
	"strings"

	"github.com/BenSimner/starling-tool/internal/expr"
)

// VFunc is a named predicate application whose parameters are real
// expressions — the shape a view assertion actually carries.
type VFunc struct {
	Name string
	Args []expr.Expr
}

// Key is VFunc's canonical multiset key: structurally equal funcs (same
// name, same argument strings) collide onto the same key.
func (f VFunc) Key() string {
	parts := make([]string, len(f.Args))
	for i, a := range f.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", f.Name, strings.Join(parts, ","))
}

func (f VFunc) String() string { return f.Key() }

// DFunc is a named predicate signature — the declaration side of a view
// prototype or definition, whose parameters are typed names rather than
// expressions.
type DFunc struct {
	Name   string
	Params []expr.Var
}

func (f DFunc) Key() string {
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		parts[i] = fmt.Sprintf("%s:%s", p.Name, p.Type)
	}
	return fmt.Sprintf("%s(%s)", f.Name, strings.Join(parts, ","))
}

func (f DFunc) String() string { return f.Key() }

// Arity reports the parameter count, used for prototype arity checks.
func (f DFunc) Arity() int { return len(f.Params) }
