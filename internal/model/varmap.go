package model

import (
	"github.com/BenSimner/starling-tool/internal/ast"
	"github.com/BenSimner/starling-tool/internal/collate"
	"github.com/BenSimner/starling-tool/internal/expr"
	"github.com/BenSimner/starling-tool/internal/ferrors"
)

// VarMap is the modeller's name -> declared-variable table, split by
// scope (spec.md §3 "every variable name in globals and locals is
// unique within its scope and the two scopes are disjoint").
type VarMap struct {
	Globals map[string]expr.Var
	Locals  map[string]expr.Var
}

// Lookup resolves name in either scope, globals taking precedence (they
// cannot collide per the disjointness invariant, but this keeps Lookup
// total even over a malformed map built despite reported errors).
func (vm *VarMap) Lookup(name string) (expr.Var, bool) {
	if v, ok := vm.Globals[name]; ok {
		return v, true
	}
	if v, ok := vm.Locals[name]; ok {
		return v, true
	}
	return expr.Var{}, false
}

// All returns a single merged name -> Var map, used wherever a flat
// lookup table is more convenient than scope-aware resolution.
func (vm *VarMap) All() map[string]expr.Var {
	out := make(map[string]expr.Var, len(vm.Globals)+len(vm.Locals))
	for k, v := range vm.Globals {
		out[k] = v
	}
	for k, v := range vm.Locals {
		out[k] = v
	}
	return out
}

// buildVarMap builds the VarMap from a collated script's globals/locals,
// reporting duplicate names within a scope and names reused across both
// scopes (spec.md §4.5 "Build variable maps; error on duplicates or
// shared/thread clashes").
func buildVarMap(c *collate.Script) (*VarMap, []*ferrors.Report) {
	vm := &VarMap{Globals: map[string]expr.Var{}, Locals: map[string]expr.Var{}}
	var errs []*ferrors.Report

	for _, g := range c.Globals {
		for _, tn := range g.Names {
			if _, dup := vm.Globals[tn.Name]; dup {
				errs = append(errs, dupNameError(tn))
				continue
			}
			vm.Globals[tn.Name] = expr.Var{Name: tn.Name, Type: tn.Type, Scope: expr.ScopeShared}
		}
	}
	for _, l := range c.Locals {
		for _, tn := range l.Names {
			if _, dup := vm.Locals[tn.Name]; dup {
				errs = append(errs, dupNameError(tn))
				continue
			}
			if _, clash := vm.Globals[tn.Name]; clash {
				errs = append(errs, ferrors.New(ferrors.StageModel, ferrors.CodeDuplicateName,
					"thread-local "+tn.Name+" clashes with a shared variable of the same name").WithSpan(span(tn.Pos)))
				continue
			}
			vm.Locals[tn.Name] = expr.Var{Name: tn.Name, Type: tn.Type, Scope: expr.ScopeThread}
		}
	}
	return vm, errs
}

func dupNameError(tn *ast.TypedName) *ferrors.Report {
	return ferrors.New(ferrors.StageModel, ferrors.CodeDuplicateName,
		"duplicate variable name "+tn.Name).WithSpan(span(tn.Pos))
}

func span(p ast.Pos) ast.Span {
	return ast.Span{Start: p, End: p}
}
