// Package graph implements the Grapher (spec.md §4.7): it lowers a
// guarded method body into a control-flow graph whose edges are atomic
// Hoare triples, suitable for axiom-style VC generation downstream.
package graph

import (
	"github.com/BenSimner/starling-tool/internal/expr"
	"github.com/BenSimner/starling-tool/internal/ferrors"
	"github.com/BenSimner/starling-tool/internal/guard"
	"github.com/BenSimner/starling-tool/internal/model"
	"github.com/BenSimner/starling-tool/internal/view"
)

// NodeID names a node within a single Graph; unique only within that graph.
type NodeID int

// Node carries the guarded view asserted at this program point.
type Node struct {
	ID   NodeID
	View view.GView
}

// Edge is one atomic Hoare triple `{src.view} cmd {dst.view}`.
type Edge struct {
	From NodeID
	To   NodeID
	Cmd  model.CommandType
}

// Graph is the per-method directed labelled multigraph (spec.md §4.7).
type Graph struct {
	Method string
	Nodes  []Node
	Edges  []Edge
	Entry  NodeID
	Exit   NodeID
}

type builder struct {
	g    *Graph
	next NodeID
}

func newBuilder(method string) *builder {
	return &builder{g: &Graph{Method: method}}
}

func (b *builder) newNode(v view.GView) NodeID {
	id := b.next
	b.next++
	b.g.Nodes = append(b.g.Nodes, Node{ID: id, View: v})
	return id
}

func (b *builder) edge(from, to NodeID, cmd model.CommandType) {
	b.g.Edges = append(b.g.Edges, Edge{From: from, To: to, Cmd: cmd})
}

func epsilon() model.CommandType {
	return model.CommandType{Name: "skip"}
}

func assumeCmd(cond expr.BoolExpr) model.CommandType {
	return model.CommandType{Name: "assume", Params: []expr.Expr{cond}}
}

func assumeNotCmd(cond expr.BoolExpr) model.CommandType {
	return assumeCmd(expr.NewNot(cond))
}

func malformed(msg string) *ferrors.Report {
	return ferrors.New(ferrors.StageGraph, ferrors.CodeMalformedBody, msg)
}

// Build lowers a guarded method into its control-flow graph. A non-nil
// error slice here means the Modeller/Guarder produced a structurally
// malformed body — per spec.md §4.7 this should be unreachable from valid
// input, and any occurrence is a bug rather than a user error.
func Build(gm *guard.GMethod) (*Graph, []*ferrors.Report) {
	b := newBuilder(gm.Name)
	entry, exit, errs := graphBlock(b, gm.Body)
	if len(errs) > 0 {
		return nil, errs
	}
	b.g.Entry = entry
	b.g.Exit = exit
	return b.g, nil
}

// graphBlock emits one node per view assertion and graphs each command
// between its bracketing pair (spec.md §4.7 "Block").
func graphBlock(b *builder, blk *guard.GBlock) (NodeID, NodeID, []*ferrors.Report) {
	if len(blk.Views) != len(blk.Cmds)+1 {
		return 0, 0, []*ferrors.Report{malformed("block has a view/command count mismatch")}
	}
	nodes := make([]NodeID, len(blk.Views))
	for i, v := range blk.Views {
		nodes[i] = b.newNode(v)
	}
	var errs []*ferrors.Report
	for i, cmd := range blk.Cmds {
		errs = append(errs, graphPartCmd(b, cmd, nodes[i], nodes[i+1])...)
	}
	if len(errs) > 0 {
		return 0, 0, errs
	}
	return nodes[0], nodes[len(nodes)-1], nil
}

func graphPartCmd(b *builder, c guard.GPartCmd, entry, exit NodeID) []*ferrors.Report {
	switch n := c.(type) {
	case guard.GPrim:
		b.edge(entry, exit, n.Cmd)
		return nil

	case guard.GMultiCmd:
		cur := entry
		for i, cmd := range n.Cmds {
			to := exit
			if i < len(n.Cmds)-1 {
				to = b.newNode(view.EmptyGView())
			}
			b.edge(cur, to, cmd)
			cur = to
		}
		return nil

	case *guard.GWhile:
		return graphWhile(b, n, entry, exit)

	case *guard.GITE:
		return graphITE(b, n, entry, exit)

	default:
		return []*ferrors.Report{malformed("unrecognised structured command shape")}
	}
}

// graphITE wires an assume(b)/assume(¬b) split into the two branches and
// joins both exits with epsilon edges into the shared exit node
// (spec.md §4.7 "ITE").
func graphITE(b *builder, n *guard.GITE, entry, exit NodeID) []*ferrors.Report {
	thenEntry, thenExit, terrs := graphBlock(b, n.Then)
	elseEntry, elseExit, eerrs := graphBlock(b, n.Else)
	if errs := append(terrs, eerrs...); len(errs) > 0 {
		return errs
	}
	b.edge(entry, thenEntry, assumeCmd(n.Cond))
	b.edge(entry, elseEntry, assumeNotCmd(n.Cond))
	b.edge(thenExit, exit, epsilon())
	b.edge(elseExit, exit, epsilon())
	return nil
}

// graphWhile wires entry/exit per spec.md §4.7 "While": a do-while enters
// the body unconditionally, a plain while guards entry with assume(b); in
// both cases the body's exit loops back on assume(b) and falls through to
// exit on assume(¬b).
func graphWhile(b *builder, n *guard.GWhile, entry, exit NodeID) []*ferrors.Report {
	bodyEntry, bodyExit, errs := graphBlock(b, n.Inner)
	if len(errs) > 0 {
		return errs
	}
	if n.IsDoWhile {
		b.edge(entry, bodyEntry, epsilon())
	} else {
		b.edge(entry, bodyEntry, assumeCmd(n.Cond))
		b.edge(entry, exit, assumeNotCmd(n.Cond))
	}
	b.edge(bodyExit, bodyEntry, assumeCmd(n.Cond))
	b.edge(bodyExit, exit, assumeNotCmd(n.Cond))
	return nil
}
