package ast

import (
	"fmt"
	"strings"
)

// AtomicPrim is the surface syntax inside an atomic block `< ... >`: one
// recognised primitive step. The Modeller maps each variant onto a
// semantic relation (spec.md §4.5); the parser only records shape.
type AtomicPrim interface {
	Node
	atomicPrimNode()
}

// FetchMode selects how FetchStmt's source is combined before commit.
type FetchMode int

const (
	FetchDirect FetchMode = iota
	FetchIncr
	FetchDecr
)

// FetchStmt is `dest <- src`, `dest <- src++`, or `dest <- src--`: a load
// of src into dest, optionally also incrementing/decrementing src in the
// same atomic step (spec.md §4.5 "Fetch mode selects direct/increment/decrement").
type FetchStmt struct {
	Dest Expr
	Src  Expr
	Mode FetchMode
	Pos  Pos
}

func (a *FetchStmt) atomicPrimNode() {}
func (a *FetchStmt) Position() Pos   { return a.Pos }
func (a *FetchStmt) String() string {
	switch a.Mode {
	case FetchIncr:
		return fmt.Sprintf("%s <- %s++", a.Dest, a.Src)
	case FetchDecr:
		return fmt.Sprintf("%s <- %s--", a.Dest, a.Src)
	default:
		return fmt.Sprintf("%s <- %s", a.Dest, a.Src)
	}
}

// StoreStmt is `dest := expr`, a pure write.
type StoreStmt struct {
	Dest Expr
	Expr Expr
	Pos  Pos
}

func (s *StoreStmt) atomicPrimNode() {}
func (s *StoreStmt) Position() Pos   { return s.Pos }
func (s *StoreStmt) String() string  { return fmt.Sprintf("%s := %s", s.Dest, s.Expr) }

// CASStmt is `CAS(dest, test, set)`.
type CASStmt struct {
	Dest Expr
	Test Expr
	Set  Expr
	Pos  Pos
}

func (c *CASStmt) atomicPrimNode() {}
func (c *CASStmt) Position() Pos   { return c.Pos }
func (c *CASStmt) String() string {
	return fmt.Sprintf("CAS(%s, %s, %s)", c.Dest, c.Test, c.Set)
}

// SkipStmt is the no-op primitive.
type SkipStmt struct {
	Pos Pos
}

func (s *SkipStmt) atomicPrimNode() {}
func (s *SkipStmt) Position() Pos   { return s.Pos }
func (s *SkipStmt) String() string  { return "skip" }

// AssumeStmt is `assume(b)`: filters executions where b does not hold.
type AssumeStmt struct {
	Cond Expr
	Pos  Pos
}

func (a *AssumeStmt) atomicPrimNode() {}
func (a *AssumeStmt) Position() Pos   { return a.Pos }
func (a *AssumeStmt) String() string  { return fmt.Sprintf("assume(%s)", a.Cond) }

// SymbolStmt is an atomic step whose behaviour is an opaque symbol call.
type SymbolStmt struct {
	Name string
	Args []Expr
	Pos  Pos
}

func (s *SymbolStmt) atomicPrimNode() {}
func (s *SymbolStmt) Position() Pos   { return s.Pos }
func (s *SymbolStmt) String() string {
	return fmt.Sprintf("%%{%s}(%s)", s.Name, joinExprs(s.Args))
}

// MultiStmt is `<{ s1; s2; ... }>`: a multi-statement atomic block. The
// Modeller composes the sub-steps' semantic relations via intermediate
// marking (spec.md §3, Intermediate(k)).
type MultiStmt struct {
	Stmts []AtomicPrim
	Pos   Pos
}

func (m *MultiStmt) atomicPrimNode() {}
func (m *MultiStmt) Position() Pos   { return m.Pos }
func (m *MultiStmt) String() string {
	parts := make([]string, len(m.Stmts))
	for i, s := range m.Stmts {
		parts[i] = s.String()
	}
	return fmt.Sprintf("{ %s }", strings.Join(parts, "; "))
}

// PartCmd is a structured command: an atomic step, a conditional, or a
// loop (spec.md §3 "Commands").
type PartCmd interface {
	Node
	partCmdNode()
}

// PrimCmd wraps a single atomic block `< prim >`.
type PrimCmd struct {
	Prim AtomicPrim
	Pos  Pos
}

func (p *PrimCmd) partCmdNode() {}
func (p *PrimCmd) Position() Pos { return p.Pos }
func (p *PrimCmd) String() string { return fmt.Sprintf("<%s>", p.Prim) }

// WhileCmd is `while (cond) block` or, when IsDoWhile, `do block while (cond)`.
type WhileCmd struct {
	IsDoWhile bool
	Cond      Expr
	Inner     *Block
	Pos       Pos
}

func (w *WhileCmd) partCmdNode() {}
func (w *WhileCmd) Position() Pos { return w.Pos }
func (w *WhileCmd) String() string {
	if w.IsDoWhile {
		return fmt.Sprintf("do %s while (%s)", w.Inner, w.Cond)
	}
	return fmt.Sprintf("while (%s) %s", w.Cond, w.Inner)
}

// ITECmd is `if (cond) then-block else else-block`.
type ITECmd struct {
	Cond Expr
	Then *Block
	Else *Block
	Pos  Pos
}

func (i *ITECmd) partCmdNode() {}
func (i *ITECmd) Position() Pos { return i.Pos }
func (i *ITECmd) String() string {
	return fmt.Sprintf("if (%s) %s else %s", i.Cond, i.Then, i.Else)
}

// Block is `{pre-view} step {view} step ... {post-view}`: Views has one
// more element than Cmds, alternating view assertions with commands
// (spec.md §3 "A block is ...").
type Block struct {
	Views []ViewPattern // len(Views) == len(Cmds)+1
	Cmds  []PartCmd
	Pos   Pos
}

func (b *Block) Position() Pos { return b.Pos }
func (b *Block) String() string {
	var sb strings.Builder
	for i, v := range b.Views {
		fmt.Fprintf(&sb, "{| %s |}", v)
		if i < len(b.Cmds) {
			fmt.Fprintf(&sb, " %s ", b.Cmds[i])
		}
	}
	return sb.String()
}
