package model

import (
	"github.com/BenSimner/starling-tool/internal/expr"
	"github.com/BenSimner/starling-tool/internal/view"
)

// CommandType is `{ results, name, params }` (spec.md §3 "A CommandType
// is..."): the variables a primitive call writes, the semantics entry it
// invokes, and the expressions it reads.
type CommandType struct {
	Results []expr.Var
	Name    string
	Params  []expr.Expr
}

// MPartCmd is the modeller's structured-command tree, parameterised (in
// spec terms) over CView: spec.md's generic `PartCmd<CView>`.
type MPartCmd interface {
	mPartCmdNode()
}

// MPrim is a single atomic step.
type MPrim struct {
	Cmd CommandType
}

func (MPrim) mPartCmdNode() {}

// MWhile is `while(cond) body` or, when IsDoWhile, `do body while(cond)`.
type MWhile struct {
	IsDoWhile bool
	Cond      expr.BoolExpr
	Inner     *MBlock
}

func (*MWhile) mPartCmdNode() {}

// MITE is `if(cond) then else`.
type MITE struct {
	Cond expr.BoolExpr
	Then *MBlock
	Else *MBlock
}

func (*MITE) mPartCmdNode() {}

// MBlock is `{v0} s1 {v1} s2 ... sn {vn}`: len(Views) == len(Cmds)+1.
type MBlock struct {
	Views []view.CView
	Cmds  []MPartCmd
}

// Method is one modelled method: its name and structured body.
type Method struct {
	Name string
	Body *MBlock
}

// ViewDefKind distinguishes the three ViewDef shapes (spec.md §3 "ViewDef").
type ViewDefKind int

const (
	DefiniteDef ViewDefKind = iota
	IndefiniteDef
	UninterpretedDef
)

// ViewDef is the semantic constraint attached to one view prototype.
type ViewDef struct {
	Kind   ViewDefKind
	Sig    view.DFunc
	Body   expr.BoolExpr // set only when Kind == DefiniteDef
	Symbol string        // set only when Kind == UninterpretedDef
}

// Model is the modeller's top-level output container (spec.md §3 "Model").
type Model struct {
	Globals    map[string]expr.Var
	Locals     map[string]expr.Var
	ViewProtos ProtoTable
	ViewDefs   []ViewDef
	Semantics  []Semantic
	Methods    []*Method
}
