package model

import (
	"fmt"
	"sort"

	"github.com/BenSimner/starling-tool/internal/ast"
	"github.com/BenSimner/starling-tool/internal/collate"
	"github.com/BenSimner/starling-tool/internal/expr"
	"github.com/BenSimner/starling-tool/internal/ferrors"
	"github.com/BenSimner/starling-tool/internal/view"
)

// Build runs the Modeller over a collated script (spec.md §4.5): it builds
// the variable map and view prototype table, type-checks every constraint
// and method body against them, and returns the fully-formed Model, or the
// full set of Reports accumulated across every sub-phase (spec.md §9
// "Error accumulation" — a malformed script never stops at the first
// error).
func Build(c *collate.Script) (*Model, []*ferrors.Report) {
	var errs []*ferrors.Report

	vm, vmErrs := buildVarMap(c)
	errs = append(errs, vmErrs...)

	protos, protoErrs := buildProtoTable(c)
	errs = append(errs, protoErrs...)

	vars := vm.All()

	defs, defErrs := buildViewDefs(c, vars, protos)
	errs = append(errs, defErrs...)

	sems := newSemTable()

	var methods []*Method
	for _, m := range c.Methods {
		mm, merrs := convertMethod(m, vars, protos, sems)
		if merrs != nil {
			errs = append(errs, merrs...)
			continue
		}
		methods = append(methods, mm)
	}

	if len(errs) > 0 {
		return nil, errs
	}

	return &Model{
		Globals:    vm.Globals,
		Locals:     vm.Locals,
		ViewProtos: protos,
		ViewDefs:   defs,
		Semantics:  sems.Semantics(),
		Methods:    methods,
	}, nil
}

// empSig is the zero-arity signature standing in for the `emp` view: a
// constraint written `constraint emp -> body;` asserts a global invariant
// rather than a per-prototype definition, but it still fits the ViewDef
// shape by treating `emp` as a nameless always-applicable prototype.
var empSig = view.DFunc{Name: "emp"}

// buildViewDefs type-checks every constraint's pattern against the
// prototype table and its body against the variable map, producing one
// ViewDef per constraint (spec.md §4.5 point 3). A declared prototype with
// no matching constraint becomes an IndefiniteDef — the surface grammar's
// only way to leave a view's meaning "to be synthesised later" (spec.md §3)
// is to simply not write a constraint for it — which keeps the invariant
// that every prototype has exactly one ViewDef entry.
func buildViewDefs(c *collate.Script, vars map[string]expr.Var, protos ProtoTable) ([]ViewDef, []*ferrors.Report) {
	var defs []ViewDef
	var errs []*ferrors.Report
	seen := map[string]bool{}

	for _, cons := range c.Constraints {
		switch pat := cons.Pattern.(type) {
		case *ast.EmpPattern:
			body, berrs := ConvertBool(cons.Body, vars)
			if berrs != nil {
				errs = append(errs, berrs...)
				continue
			}
			if serrs := scopeCheck(body, cons.Body.Position()); serrs != nil {
				errs = append(errs, serrs...)
				continue
			}
			seen["emp"] = true
			defs = append(defs, buildDef(empSig, cons.Body, body))

		case *ast.FuncPattern:
			proto, ok := protos.Lookup(pat.Name)
			if !ok {
				errs = append(errs, ferrors.New(ferrors.StageModel, ferrors.CodeUnknownPrototype,
					fmt.Sprintf("constraint refers to undeclared view %q", pat.Name)).WithSpan(span(pat.Pos)))
				continue
			}
			if len(pat.Args) != len(proto.ParamTys) {
				errs = append(errs, ferrors.New(ferrors.StageModel, ferrors.CodeArityMismatch,
					fmt.Sprintf("constraint on %q expects %d argument(s), got %d", pat.Name, len(proto.ParamTys), len(pat.Args))).WithSpan(span(pat.Pos)))
				continue
			}
			bound, berrs := bindConstraintParams(pat, proto, vars)
			if berrs != nil {
				errs = append(errs, berrs...)
				continue
			}
			body, cerrs := ConvertBool(cons.Body, bound)
			if cerrs != nil {
				errs = append(errs, cerrs...)
				continue
			}
			if serrs := scopeCheck(body, cons.Body.Position()); serrs != nil {
				errs = append(errs, serrs...)
				continue
			}
			if seen[pat.Name] {
				errs = append(errs, ferrors.New(ferrors.StageModel, ferrors.CodeDuplicateName,
					fmt.Sprintf("view %q already has a constraint", pat.Name)).WithSpan(span(pat.Pos)))
				continue
			}
			seen[pat.Name] = true
			defs = append(defs, buildDef(proto.Signature(), cons.Body, body))

		default:
			errs = append(errs, ferrors.New(ferrors.StageModel, ferrors.CodeBadAtomicBlock,
				"a constraint's view pattern must be emp or a single view application").WithSpan(span(pat.Position())))
		}
	}

	for _, vp := range c.ViewProtos {
		if seen[vp.Name] {
			continue
		}
		if proto, ok := protos.Lookup(vp.Name); ok {
			defs = append(defs, ViewDef{Kind: IndefiniteDef, Sig: proto.Signature()})
			seen[vp.Name] = true
		}
	}

	return defs, errs
}

// scopeCheck rejects a constraint body that reaches a thread-local variable
// (spec.md §4.5 Errors "use of thread-local in a constraint that must be
// proof-global", §7 ConstraintScopeViolation). A constraint's pattern
// parameters are bound fresh by bindConstraintParams with no scope of their
// own, so only a thread-local declared at script level can trigger this.
func scopeCheck(body expr.BoolExpr, pos ast.Pos) []*ferrors.Report {
	free := expr.FreeVars(body)
	var names []string
	for _, v := range free {
		if v.Scope == expr.ScopeThread {
			names = append(names, v.Name)
		}
	}
	if names == nil {
		return nil
	}
	sort.Strings(names)
	var errs []*ferrors.Report
	for _, name := range names {
		errs = append(errs, ferrors.New(ferrors.StageModel, ferrors.CodeConstraintScopeViolate,
			fmt.Sprintf("constraint refers to thread-local %q; a constraint must be proof-global", name)).WithSpan(span(pos)))
	}
	return errs
}

// bindConstraintParams binds a constraint's pattern argument names to the
// prototype's declared parameter types, shadowing any global/local name of
// the same spelling for the scope of the constraint body.
func bindConstraintParams(pat *ast.FuncPattern, proto ViewProto, vars map[string]expr.Var) (map[string]expr.Var, []*ferrors.Report) {
	bound := make(map[string]expr.Var, len(vars)+len(pat.Args))
	for k, v := range vars {
		bound[k] = v
	}
	var errs []*ferrors.Report
	for i, a := range pat.Args {
		id, ok := a.(*ast.Ident)
		if !ok {
			errs = append(errs, typeErr(a.Position(), "constraint view-pattern arguments must be bare parameter names"))
			continue
		}
		bound[id.Name] = expr.Var{Name: id.Name, Type: proto.ParamTys[i]}
	}
	if errs != nil {
		return nil, errs
	}
	return bound, nil
}

// buildDef classifies a converted constraint body as Definite or
// Uninterpreted: a body that is nothing but a bare symbol call names an
// opaque predicate (spec.md §3 "Uninterpreted(view-signature, symbol-name)");
// anything else is a concrete Boolean definition.
func buildDef(sig view.DFunc, rawBody ast.Expr, body expr.BoolExpr) ViewDef {
	if sc, ok := rawBody.(*ast.SymbolCall); ok {
		return ViewDef{Kind: UninterpretedDef, Sig: sig, Symbol: sc.Name}
	}
	return ViewDef{Kind: DefiniteDef, Sig: sig, Body: body}
}
