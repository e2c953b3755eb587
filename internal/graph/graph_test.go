package graph_test

import (
	"testing"

	"github.com/BenSimner/starling-tool/internal/collate"
	"github.com/BenSimner/starling-tool/internal/graph"
	"github.com/BenSimner/starling-tool/internal/guard"
	"github.com/BenSimner/starling-tool/internal/lexer"
	"github.com/BenSimner/starling-tool/internal/model"
	"github.com/BenSimner/starling-tool/internal/parser"
)

const ticketLockSrc = `
shared int ticket;
shared int serving;
thread int t;
thread int s;

view holdTick(int t);
view holdLock();

constraint emp -> ticket >= serving;
constraint holdTick(t) -> ticket > t;
constraint holdLock() -> ticket != serving;

method lock() {| emp |}
  <t <- ticket++>
  {| holdTick(t) |}
  do
    {| holdTick(t) |}
    <s <- serving>
    {| holdTick(t) |}
  while (t != s)
  {| holdLock() |}

method unlock() {| holdLock() |}
  <serving <- serving++>
  {| emp |}
`

func mustGraph(t *testing.T, src, methodName string) *graph.Graph {
	t.Helper()
	l := lexer.New(src, "test.st")
	p := parser.New(l)
	script := p.Parse()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	m, errs := model.Build(collate.Collate(script))
	if len(errs) > 0 {
		t.Fatalf("model errors: %v", errs)
	}
	var meth *model.Method
	for _, cand := range m.Methods {
		if cand.Name == methodName {
			meth = cand
		}
	}
	if meth == nil {
		t.Fatalf("no method named %q", methodName)
	}
	g, gerrs := graph.Build(guard.GuardMethod(meth))
	if len(gerrs) > 0 {
		t.Fatalf("graph errors: %v", gerrs)
	}
	return g
}

// TestLockGraphShape mirrors spec.md §8 scenario 2: lock()'s do-while loop
// should produce a fetch edge, an unconditional entry into the loop body,
// and a pair of complementary assume edges closing the loop.
func TestLockGraphShape(t *testing.T) {
	g := mustGraph(t, ticketLockSrc, "lock")

	// 3 top-level view nodes (emp, holdTick, holdLock) plus 2 more for the
	// do-while body's own bracketing pair (holdTick, holdTick).
	if len(g.Nodes) != 5 {
		t.Fatalf("expected 5 nodes, got %d", len(g.Nodes))
	}
	// top-level fetch, unconditional entry into the loop body, the loop
	// body's own fetch, and the pair of assume edges closing the loop.
	if len(g.Edges) != 5 {
		t.Fatalf("expected 5 edges, got %d", len(g.Edges))
	}

	var fetches, assumes, epsilons int
	for _, e := range g.Edges {
		switch e.Cmd.Name {
		case "assume":
			assumes++
		case "skip":
			epsilons++
		default:
			fetches++
		}
	}
	if fetches != 2 {
		t.Errorf("expected 2 fetch edges (t <- ticket++, s <- serving), got %d", fetches)
	}
	if assumes != 2 {
		t.Errorf("expected 2 assume edges closing the do-while, got %d", assumes)
	}
	if epsilons != 1 {
		t.Errorf("expected 1 epsilon edge entering the do-while body, got %d", epsilons)
	}

	if g.Entry == g.Exit {
		t.Error("expected distinct entry and exit nodes")
	}
}

// TestUnlockGraphShape mirrors spec.md §8 scenario 2's simpler unlock():
// a single increment edge from emp's precondition node to its postcondition.
func TestUnlockGraphShape(t *testing.T) {
	g := mustGraph(t, ticketLockSrc, "unlock")

	if len(g.Nodes) != 2 {
		t.Fatalf("expected 2 nodes (holdLock, emp), got %d", len(g.Nodes))
	}
	if len(g.Edges) != 1 {
		t.Fatalf("expected 1 edge, got %d", len(g.Edges))
	}
	if g.Edges[0].Cmd.Name != "load_incr" {
		t.Errorf("expected the sole edge to be the fetch-increment on serving, got %q", g.Edges[0].Cmd.Name)
	}
	if g.Edges[0].From != g.Entry || g.Edges[0].To != g.Exit {
		t.Error("expected the sole edge to run directly from entry to exit")
	}
}

// TestMalformedBlockReportsGraphError exercises the structural-invariant
// guard directly, since a well-formed Model can never produce a block with
// a views/commands count mismatch.
func TestMalformedBlockReportsGraphError(t *testing.T) {
	gm := &guard.GMethod{
		Name: "broken",
		Body: &guard.GBlock{
			Views: nil,
			Cmds:  []guard.GPartCmd{guard.GPrim{}},
		},
	}
	_, errs := graph.Build(gm)
	if len(errs) == 0 {
		t.Fatal("expected a malformed-body error")
	}
	if errs[0].Code != "GRF001" {
		t.Errorf("expected GRF001, got %s", errs[0].Code)
	}
}
