package model

import (
	"fmt"

	"github.com/BenSimner/starling-tool/internal/ast"
	"github.com/BenSimner/starling-tool/internal/expr"
	"github.com/BenSimner/starling-tool/internal/ferrors"
	"github.com/BenSimner/starling-tool/internal/view"
)

// ConvertViewPattern type-checks a surface view pattern against the view
// prototype table and variable map, producing the CView the modeller
// attaches to a block's view assertion (spec.md §4.5 point 5) or a
// constraint's view signature (point 3).
func ConvertViewPattern(pat ast.ViewPattern, vars map[string]expr.Var, protos ProtoTable) (view.CView, []*ferrors.Report) {
	switch p := pat.(type) {
	case *ast.EmpPattern:
		return view.EmptyCView(), nil

	case *ast.FuncPattern:
		proto, ok := protos.Lookup(p.Name)
		if !ok {
			return view.CView{}, []*ferrors.Report{ferrors.New(ferrors.StageModel, ferrors.CodeUnknownPrototype,
				fmt.Sprintf("view %q has no declared prototype", p.Name)).WithSpan(span(p.Pos))}
		}
		if len(p.Args) != len(proto.ParamTys) {
			return view.CView{}, []*ferrors.Report{ferrors.New(ferrors.StageModel, ferrors.CodeArityMismatch,
				fmt.Sprintf("view %q expects %d argument(s), got %d", p.Name, len(proto.ParamTys), len(p.Args))).WithSpan(span(p.Pos))}
		}
		args := make([]expr.Expr, len(p.Args))
		var errs []*ferrors.Report
		for i, a := range p.Args {
			x, aerrs := Convert(a, vars, proto.ParamTys[i])
			if aerrs != nil {
				errs = append(errs, aerrs...)
				continue
			}
			args[i] = x
		}
		if errs != nil {
			return view.CView{}, errs
		}
		vf := view.VFunc{Name: p.Name, Args: args}
		return view.SingletonCView(view.PlainCFunc{Func: vf}), nil

	case *ast.StarPattern:
		x, xerrs := ConvertViewPattern(p.X, vars, protos)
		y, yerrs := ConvertViewPattern(p.Y, vars, protos)
		if errs := append(xerrs, yerrs...); len(errs) > 0 {
			return view.CView{}, errs
		}
		return x.Union(y), nil

	case *ast.IterPattern:
		n, nerrs := ConvertInt(p.N, vars)
		inner, ierrs := ConvertViewPattern(p.X, vars, protos)
		if errs := append(nerrs, ierrs...); len(errs) > 0 {
			return view.CView{}, errs
		}
		flat := inner.Flatten()
		if len(flat) != 1 {
			return view.CView{}, []*ferrors.Report{ferrors.New(ferrors.StageModel, ferrors.CodeBadAtomicBlock,
				"iter[] must wrap exactly one view atom").WithSpan(span(p.Pos))}
		}
		return view.SingletonCView(view.IteratedCFunc{N: n, Inner: flat[0]}), nil

	case *ast.ITEPattern:
		cond, cerrs := ConvertBool(p.Cond, vars)
		then, terrs := ConvertViewPattern(p.Then, vars, protos)
		els, eerrs := ConvertViewPattern(p.Else, vars, protos)
		errs := append(append(cerrs, terrs...), eerrs...)
		if len(errs) > 0 {
			return view.CView{}, errs
		}
		return view.SingletonCView(view.ITECFunc{Cond: cond, Then: then, Else: els}), nil

	default:
		return view.CView{}, []*ferrors.Report{ferrors.New(ferrors.StageModel, ferrors.CodeBadAtomicBlock,
			"unrecognised view pattern shape").WithSpan(span(pat.Position()))}
	}
}
