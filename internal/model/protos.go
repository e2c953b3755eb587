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

// ViewProto is one entry of the view prototype table: name -> (parameter
// types, iteration flag, anonymity flag) (spec.md §4.5 point 2).
type ViewProto struct {
	Name      string
	ParamTys  []ast.Ty
	Iterated  bool
	Anonymous bool // declared with zero parameters, e.g. `view holdLock()`
}

// ProtoTable indexes ViewProtos by name.
type ProtoTable map[string]ViewProto

func buildProtoTable(c *collate.Script) (ProtoTable, []*ferrors.Report) {
	table := ProtoTable{}
	var errs []*ferrors.Report
	for _, vp := range c.ViewProtos {
		if _, dup := table[vp.Name]; dup {
			errs = append(errs, ferrors.New(ferrors.StageModel, ferrors.CodeDuplicateName,
				fmt.Sprintf("duplicate view prototype %q", vp.Name)).WithSpan(span(vp.Pos)))
			continue
		}
		tys := make([]ast.Ty, len(vp.Params))
		for i, p := range vp.Params {
			tys[i] = p.Type
		}
		table[vp.Name] = ViewProto{
			Name:      vp.Name,
			ParamTys:  tys,
			Iterated:  vp.Iterated,
			Anonymous: len(vp.Params) == 0,
		}
	}
	return table, errs
}

// Lookup resolves a view prototype by name.
func (t ProtoTable) Lookup(name string) (ViewProto, bool) {
	p, ok := t[name]
	return p, ok
}

// Signatures returns every prototype's DFunc signature as a view.DView,
// ordered by name for deterministic display (e.g. the CLI's declared-views
// listing); ProtoTable itself is a map and carries no order of its own.
func (t ProtoTable) Signatures() view.DView {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make(view.DView, 0, len(t))
	for _, name := range names {
		out = append(out, t[name].Signature())
	}
	return out
}

// Signature returns the DFunc signature for this prototype, synthesising
// parameter names p0, p1, ... since the prototype declaration's own
// parameter names are scoped only to itself in the surface grammar.
func (p ViewProto) Signature() view.DFunc {
	return view.DFunc{Name: p.Name, Params: synthParams(p.ParamTys)}
}

func synthParams(tys []ast.Ty) []expr.Var {
	out := make([]expr.Var, len(tys))
	for i, t := range tys {
		out[i] = expr.Var{Name: fmt.Sprintf("p%d", i), Type: t}
	}
	return out
}
