package model

import (
	"fmt"

	"github.com/BenSimner/starling-tool/internal/ast"
	"github.com/BenSimner/starling-tool/internal/expr"
	"github.com/BenSimner/starling-tool/internal/ferrors"
)

// convertBlock walks a surface Block into an MBlock, reducing every atomic
// step to a semantics-table call and every view assertion to a CView
// (spec.md §4.5 points 4-5).
func convertBlock(b *ast.Block, vars map[string]expr.Var, protos ProtoTable, sems *semTable) (*MBlock, []*ferrors.Report) {
	out := &MBlock{}
	var errs []*ferrors.Report

	for _, vp := range b.Views {
		cv, verrs := ConvertViewPattern(vp, vars, protos)
		if verrs != nil {
			errs = append(errs, verrs...)
			continue
		}
		out.Views = append(out.Views, cv)
	}
	for _, c := range b.Cmds {
		mc, cerrs := convertPartCmd(c, vars, protos, sems)
		if cerrs != nil {
			errs = append(errs, cerrs...)
			continue
		}
		out.Cmds = append(out.Cmds, mc)
	}
	if errs != nil {
		return nil, errs
	}
	return out, nil
}

func convertPartCmd(c ast.PartCmd, vars map[string]expr.Var, protos ProtoTable, sems *semTable) (MPartCmd, []*ferrors.Report) {
	switch n := c.(type) {
	case *ast.PrimCmd:
		cmds, errs := convertAtomicPrim(n.Prim, vars, sems)
		if errs != nil {
			return nil, errs
		}
		if len(cmds) == 1 {
			return MPrim{Cmd: cmds[0]}, nil
		}
		return MultiCmd{Cmds: cmds}, nil

	case *ast.WhileCmd:
		cond, cerrs := ConvertBool(n.Cond, vars)
		inner, ierrs := convertBlock(n.Inner, vars, protos, sems)
		errs := append(cerrs, ierrs...)
		if len(errs) > 0 {
			return nil, errs
		}
		return &MWhile{IsDoWhile: n.IsDoWhile, Cond: cond, Inner: inner}, nil

	case *ast.ITECmd:
		cond, cerrs := ConvertBool(n.Cond, vars)
		then, terrs := convertBlock(n.Then, vars, protos, sems)
		els, eerrs := convertBlock(n.Else, vars, protos, sems)
		errs := append(append(cerrs, terrs...), eerrs...)
		if len(errs) > 0 {
			return nil, errs
		}
		return &MITE{Cond: cond, Then: then, Else: els}, nil

	default:
		return nil, []*ferrors.Report{ferrors.New(ferrors.StageModel, ferrors.CodeBadAtomicBlock,
			"unrecognised structured command shape").WithSpan(span(c.Position()))}
	}
}

// MultiCmd is a run of primitive calls executed as one atomic step
// (spec.md §3 "Intermediate(k)"): the individual CommandTypes are the
// Modeller's reduction of a MultiStmt's sub-steps, related to each other
// by intermediate-marked variables rather than by intervening views.
type MultiCmd struct {
	Cmds []CommandType
}

func (MultiCmd) mPartCmdNode() {}

// convertAtomicPrim reduces one surface AtomicPrim to one or more
// CommandTypes (more than one only for MultiStmt), per spec.md §4.5 point 4.
func convertAtomicPrim(p ast.AtomicPrim, vars map[string]expr.Var, sems *semTable) ([]CommandType, []*ferrors.Report) {
	switch n := p.(type) {
	case *ast.FetchStmt:
		return convertFetch(n, vars, sems)

	case *ast.StoreStmt:
		return convertStore(n, vars, sems)

	case *ast.CASStmt:
		return convertCAS(n, vars, sems)

	case *ast.SkipStmt:
		s := sems.skip()
		return []CommandType{{Name: s.Sig.Name}}, nil

	case *ast.AssumeStmt:
		cond, errs := ConvertBool(n.Cond, vars)
		if errs != nil {
			return nil, errs
		}
		s := sems.assume()
		return []CommandType{{Name: s.Sig.Name, Params: []expr.Expr{cond}}}, nil

	case *ast.SymbolStmt:
		args, errs := convertArgsInferred(n.Args, vars)
		if errs != nil {
			return nil, errs
		}
		sem := sems.registerSymbol(n.Name, len(args), func() Semantic { return symbolSemantic(n.Name, args) })
		return []CommandType{{Name: sem.Sig.Name, Params: args}}, nil

	case *ast.MultiStmt:
		var out []CommandType
		var errs []*ferrors.Report
		for _, sub := range n.Stmts {
			cmds, serrs := convertAtomicPrim(sub, vars, sems)
			if serrs != nil {
				errs = append(errs, serrs...)
				continue
			}
			out = append(out, cmds...)
		}
		if errs != nil {
			return nil, errs
		}
		return out, nil

	default:
		return nil, []*ferrors.Report{ferrors.New(ferrors.StageModel, ferrors.CodeBadAtomicBlock,
			"unrecognised atomic primitive shape").WithSpan(span(p.Position()))}
	}
}

func convertFetch(n *ast.FetchStmt, vars map[string]expr.Var, sems *semTable) ([]CommandType, []*ferrors.Report) {
	dest, derrs := destVar(n.Dest, vars)
	if derrs != nil {
		return nil, derrs
	}
	src, serrs := Convert(n.Src, vars, dest.Type)
	if serrs != nil {
		return nil, serrs
	}
	var sem *Semantic
	switch n.Mode {
	case ast.FetchIncr:
		if dest.Type != ast.TyInt {
			return nil, []*ferrors.Report{typeErr(n.Pos, "increment fetch requires an integer source")}
		}
		sem = sems.loadIncr()
	case ast.FetchDecr:
		if dest.Type != ast.TyInt {
			return nil, []*ferrors.Report{typeErr(n.Pos, "decrement fetch requires an integer source")}
		}
		sem = sems.loadDecr()
	default:
		sem = sems.loadDirect(dest.Type)
	}
	return []CommandType{{Results: []expr.Var{dest}, Name: sem.Sig.Name, Params: []expr.Expr{src}}}, nil
}

func convertStore(n *ast.StoreStmt, vars map[string]expr.Var, sems *semTable) ([]CommandType, []*ferrors.Report) {
	dest, derrs := destVar(n.Dest, vars)
	if derrs != nil {
		return nil, derrs
	}
	val, verrs := Convert(n.Expr, vars, dest.Type)
	if verrs != nil {
		return nil, verrs
	}
	sem := sems.store(dest.Type)
	return []CommandType{{Results: []expr.Var{dest}, Name: sem.Sig.Name, Params: []expr.Expr{val}}}, nil
}

func convertCAS(n *ast.CASStmt, vars map[string]expr.Var, sems *semTable) ([]CommandType, []*ferrors.Report) {
	dest, derrs := destVar(n.Dest, vars)
	if derrs != nil {
		return nil, derrs
	}
	test, terrs := Convert(n.Test, vars, dest.Type)
	set, serrs := Convert(n.Set, vars, dest.Type)
	errs := append(terrs, serrs...)
	if len(errs) > 0 {
		return nil, errs
	}
	sem := sems.cas(dest.Type)
	return []CommandType{{Results: []expr.Var{dest}, Name: sem.Sig.Name, Params: []expr.Expr{test, set}}}, nil
}

// destVar resolves an assignment target, which the grammar represents as
// a general Expr but which must reduce to a bare declared identifier.
func destVar(e ast.Expr, vars map[string]expr.Var) (expr.Var, []*ferrors.Report) {
	id, ok := e.(*ast.Ident)
	if !ok {
		return expr.Var{}, []*ferrors.Report{typeErr(e.Position(), "assignment target must be a variable")}
	}
	v, ok := vars[id.Name]
	if !ok {
		return expr.Var{}, []*ferrors.Report{ferrors.New(ferrors.StageModel, ferrors.CodeUnknownIdentifier,
			fmt.Sprintf("unknown variable %q", id.Name)).WithSpan(span(e.Position()))}
	}
	return v, nil
}

// convertMethod turns a surface MethodDecl into a Method.
func convertMethod(m *ast.MethodDecl, vars map[string]expr.Var, protos ProtoTable, sems *semTable) (*Method, []*ferrors.Report) {
	body, errs := convertBlock(m.Body, vars, protos, sems)
	if errs != nil {
		return nil, errs
	}
	return &Method{Name: m.Name, Body: body}, nil
}
