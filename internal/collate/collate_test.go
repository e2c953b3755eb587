package collate_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/BenSimner/starling-tool/internal/ast"
	"github.com/BenSimner/starling-tool/internal/collate"
	"github.com/BenSimner/starling-tool/internal/lexer"
	"github.com/BenSimner/starling-tool/internal/parser"
)

func parse(t *testing.T, src string) *ast.Script {
	t.Helper()
	l := lexer.New(src, "test")
	p := parser.New(l)
	script := p.Parse()
	require.Empty(t, p.Errors())
	return script
}

func TestCollatePartitionsByKind(t *testing.T) {
	src := `
shared int ticket;
shared int serving;
thread int t;
view holdLock();
constraint holdLock() -> ticket != serving;
method lock() {| emp |} <skip> {| emp |}
`
	script := parse(t, src)
	c := collate.Collate(script)

	require.Len(t, c.Globals, 2)
	require.Len(t, c.Locals, 1)
	require.Len(t, c.ViewProtos, 1)
	require.Len(t, c.Constraints, 1)
	require.Len(t, c.Methods, 1)

	require.Equal(t, "ticket", c.Globals[0].Names[0].Name)
	require.Equal(t, "serving", c.Globals[1].Names[0].Name)
}

func TestCollateIsOrderStableWithinBucket(t *testing.T) {
	script := parse(t, "shared int a; shared int b; shared int c;")
	c := collate.Collate(script)
	require.Equal(t, []string{"a", "b", "c"}, []string{
		c.Globals[0].Names[0].Name,
		c.Globals[1].Names[0].Name,
		c.Globals[2].Names[0].Name,
	})
}

// TestFlattenIsInverseToCollate checks spec.md §8's round-trip property:
// re-collating a flattened script reproduces the same buckets, since
// Flatten's canonical bucket order is itself a fixed point of Collate.
func TestFlattenIsInverseToCollate(t *testing.T) {
	src := `
shared int ticket;
thread int t;
view holdLock();
constraint holdLock() -> ticket >= 0;
method m() {| emp |} <skip> {| emp |}
`
	script := parse(t, src)
	c1 := collate.Collate(script)
	flat := c1.Flatten()
	c2 := collate.Collate(flat)

	require.Equal(t, c1, c2)
	require.Len(t, flat.Items, 5)
}

func TestCollateEmptyScript(t *testing.T) {
	script := parse(t, "")
	c := collate.Collate(script)
	require.Empty(t, c.Globals)
	require.Empty(t, c.Methods)
	require.Empty(t, c.Flatten().Items)
}
