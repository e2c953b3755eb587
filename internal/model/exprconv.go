package model

import (
	"fmt"

	"github.com/BenSimner/starling-tool/internal/ast"
	"github.com/BenSimner/starling-tool/internal/expr"
	"github.com/BenSimner/starling-tool/internal/ferrors"
)

// Convert type-checks a surface ast.Expr against the variable map and
// the wanted type, producing the typed expr.Expr tree the rest of the
// modeller and every downstream stage operate on. This is the core of
// spec.md §4.5 point 3 ("type-check...its body expression against the
// variable map").
func Convert(e ast.Expr, vars map[string]expr.Var, want ast.Ty) (expr.Expr, []*ferrors.Report) {
	switch want {
	case ast.TyInt:
		x, errs := ConvertInt(e, vars)
		return x, errs
	case ast.TyBool:
		x, errs := ConvertBool(e, vars)
		return x, errs
	default:
		return InferConvert(e, vars)
	}
}

// ConvertInt type-checks e expecting an integer result.
func ConvertInt(e ast.Expr, vars map[string]expr.Var) (expr.IntExpr, []*ferrors.Report) {
	switch n := e.(type) {
	case *ast.IntLit:
		return expr.IntConst{Value: n.Value}, nil
	case *ast.Ident:
		v, err := lookupTyped(n.Name, n.Pos, vars, ast.TyInt)
		if err != nil {
			return nil, []*ferrors.Report{err}
		}
		return expr.IntVar{Ref: expr.Reg[expr.Var](v)}, nil
	case *ast.UnaryExpr:
		if n.Op == "-" {
			x, errs := ConvertInt(n.X, vars)
			if errs != nil {
				return nil, errs
			}
			return expr.NewSub(expr.IntConst{Value: 0}, x), nil
		}
		return nil, []*ferrors.Report{typeErr(n.Pos, fmt.Sprintf("unary %q is not an integer operator", n.Op))}
	case *ast.BinaryExpr:
		switch n.Op {
		case "+", "-", "*":
			x, xerrs := ConvertInt(n.X, vars)
			y, yerrs := ConvertInt(n.Y, vars)
			if errs := append(xerrs, yerrs...); len(errs) > 0 {
				return nil, errs
			}
			switch n.Op {
			case "+":
				return expr.NewAdd(x, y), nil
			case "-":
				return expr.NewSub(x, y), nil
			default:
				return expr.NewMul(x, y), nil
			}
		case "/":
			x, xerrs := ConvertInt(n.X, vars)
			y, yerrs := ConvertInt(n.Y, vars)
			if errs := append(xerrs, yerrs...); len(errs) > 0 {
				return nil, errs
			}
			return expr.IntDiv{X: x, Y: y}, nil
		default:
			return nil, []*ferrors.Report{typeErr(n.Pos, fmt.Sprintf("operator %q does not produce an integer", n.Op))}
		}
	case *ast.SymbolCall:
		args, errs := convertArgsInferred(n.Args, vars)
		if errs != nil {
			return nil, errs
		}
		return expr.IntVar{Ref: expr.Sym[expr.Var](n.Name, args...)}, nil
	case *ast.Error:
		return nil, nil
	default:
		return nil, []*ferrors.Report{typeErr(e.Position(), "expected an integer expression")}
	}
}

// ConvertBool type-checks e expecting a Boolean result.
func ConvertBool(e ast.Expr, vars map[string]expr.Var) (expr.BoolExpr, []*ferrors.Report) {
	switch n := e.(type) {
	case *ast.BoolLit:
		return expr.BoolConst{Value: n.Value}, nil
	case *ast.Ident:
		v, err := lookupTyped(n.Name, n.Pos, vars, ast.TyBool)
		if err != nil {
			return nil, []*ferrors.Report{err}
		}
		return expr.BoolVar{Ref: expr.Reg[expr.Var](v)}, nil
	case *ast.UnaryExpr:
		if n.Op == "!" {
			x, errs := ConvertBool(n.X, vars)
			if errs != nil {
				return nil, errs
			}
			return expr.NewNot(x), nil
		}
		return nil, []*ferrors.Report{typeErr(n.Pos, fmt.Sprintf("unary %q is not a Boolean operator", n.Op))}
	case *ast.BinaryExpr:
		switch n.Op {
		case "&&", "||":
			x, xerrs := ConvertBool(n.X, vars)
			y, yerrs := ConvertBool(n.Y, vars)
			if errs := append(xerrs, yerrs...); len(errs) > 0 {
				return nil, errs
			}
			if n.Op == "&&" {
				return expr.NewAnd(x, y), nil
			}
			return expr.NewOr(x, y), nil
		case "<", "<=", ">", ">=":
			x, xerrs := ConvertInt(n.X, vars)
			y, yerrs := ConvertInt(n.Y, vars)
			if errs := append(xerrs, yerrs...); len(errs) > 0 {
				return nil, errs
			}
			switch n.Op {
			case "<":
				return expr.Lt{X: x, Y: y}, nil
			case "<=":
				return expr.Le{X: x, Y: y}, nil
			case ">":
				return expr.Gt{X: x, Y: y}, nil
			default:
				return expr.Ge{X: x, Y: y}, nil
			}
		case "==", "!=":
			x, xerrs := InferConvert(n.X, vars)
			if xerrs != nil {
				return nil, xerrs
			}
			y, yerrs := Convert(n.Y, vars, x.Type())
			if yerrs != nil {
				return nil, yerrs
			}
			eq := Eq(x, y)
			if n.Op == "!=" {
				return expr.NewNot(eq), nil
			}
			return eq, nil
		default:
			return nil, []*ferrors.Report{typeErr(n.Pos, fmt.Sprintf("operator %q does not produce a Boolean", n.Op))}
		}
	case *ast.SymbolCall:
		args, errs := convertArgsInferred(n.Args, vars)
		if errs != nil {
			return nil, errs
		}
		return expr.BoolVar{Ref: expr.Sym[expr.Var](n.Name, args...)}, nil
	case *ast.Error:
		return nil, nil
	default:
		return nil, []*ferrors.Report{typeErr(e.Position(), "expected a Boolean expression")}
	}
}

// Eq builds a polymorphic equality over two already-converted operands.
func Eq(x, y expr.Expr) expr.BoolExpr {
	return expr.Eq{X: x, Y: y}
}

// InferConvert structurally infers an expression's type (used for symbol
// arguments, which carry no type annotation in the surface grammar) and
// converts it accordingly.
func InferConvert(e ast.Expr, vars map[string]expr.Var) (expr.Expr, []*ferrors.Report) {
	switch n := e.(type) {
	case *ast.IntLit:
		return expr.IntConst{Value: n.Value}, nil
	case *ast.BoolLit:
		return expr.BoolConst{Value: n.Value}, nil
	case *ast.Ident:
		v, ok := vars[n.Name]
		if !ok {
			return nil, []*ferrors.Report{ferrors.New(ferrors.StageModel, ferrors.CodeUnknownIdentifier,
				fmt.Sprintf("unknown identifier %q", n.Name)).WithSpan(span(n.Pos))}
		}
		if v.Type == ast.TyInt {
			return expr.IntVar{Ref: expr.Reg[expr.Var](v)}, nil
		}
		return expr.BoolVar{Ref: expr.Reg[expr.Var](v)}, nil
	case *ast.UnaryExpr:
		if n.Op == "!" {
			return ConvertBool(n, vars)
		}
		return ConvertInt(n, vars)
	case *ast.BinaryExpr:
		switch n.Op {
		case "+", "-", "*", "/":
			return ConvertInt(n, vars)
		case "&&", "||", "<", "<=", ">", ">=", "==", "!=":
			return ConvertBool(n, vars)
		default:
			return nil, []*ferrors.Report{typeErr(n.Pos, fmt.Sprintf("unrecognised operator %q", n.Op))}
		}
	case *ast.SymbolCall:
		// A bare symbol call with no surrounding context defaults to a
		// Boolean-typed symbol: spec.md's own examples (view constraint
		// bodies) are the predominant use for an unannotated symbol.
		return ConvertBool(n, vars)
	case *ast.Error:
		return nil, nil
	default:
		return nil, []*ferrors.Report{typeErr(e.Position(), "cannot infer expression type")}
	}
}

func convertArgsInferred(args []ast.Expr, vars map[string]expr.Var) ([]expr.Expr, []*ferrors.Report) {
	out := make([]expr.Expr, len(args))
	var errs []*ferrors.Report
	for i, a := range args {
		x, aerrs := InferConvert(a, vars)
		if aerrs != nil {
			errs = append(errs, aerrs...)
			continue
		}
		out[i] = x
	}
	if errs != nil {
		return nil, errs
	}
	return out, nil
}

func lookupTyped(name string, pos ast.Pos, vars map[string]expr.Var, want ast.Ty) (expr.Var, *ferrors.Report) {
	v, ok := vars[name]
	if !ok {
		return expr.Var{}, ferrors.New(ferrors.StageModel, ferrors.CodeUnknownIdentifier,
			fmt.Sprintf("unknown identifier %q", name)).WithSpan(span(pos))
	}
	if v.Type != want {
		return expr.Var{}, typeErr(pos, fmt.Sprintf("%q has type %s, expected %s", name, v.Type, want))
	}
	return v, nil
}

func typeErr(pos ast.Pos, msg string) *ferrors.Report {
	return ferrors.New(ferrors.StageModel, ferrors.CodeTypeMismatch, msg).WithSpan(span(pos))
}
