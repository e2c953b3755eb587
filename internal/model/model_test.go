package model_test

import (
	"testing"

	"github.com/BenSimner/starling-tool/internal/collate"
	"github.com/BenSimner/starling-tool/internal/lexer"
	"github.com/BenSimner/starling-tool/internal/model"
	"github.com/BenSimner/starling-tool/internal/parser"
)

func mustBuild(t *testing.T, src string) *model.Model {
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
	return m
}

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

func TestTicketLockModel(t *testing.T) {
	m := mustBuild(t, ticketLockSrc)

	if len(m.Globals) != 2 {
		t.Fatalf("expected 2 globals, got %d", len(m.Globals))
	}
	if _, ok := m.Globals["ticket"]; !ok {
		t.Error("missing global ticket")
	}
	if _, ok := m.Globals["serving"]; !ok {
		t.Error("missing global serving")
	}
	if len(m.Locals) != 2 {
		t.Fatalf("expected 2 locals, got %d", len(m.Locals))
	}

	if len(m.ViewDefs) != 3 {
		t.Fatalf("expected 3 view defs, got %d", len(m.ViewDefs))
	}
	for _, d := range m.ViewDefs {
		if d.Kind != model.DefiniteDef {
			t.Errorf("expected all ticket-lock view defs definite, got %v for %s", d.Kind, d.Sig.Name)
		}
	}

	if len(m.Methods) != 2 {
		t.Fatalf("expected 2 methods, got %d", len(m.Methods))
	}
	var lock, unlock *model.Method
	for _, meth := range m.Methods {
		switch meth.Name {
		case "lock":
			lock = meth
		case "unlock":
			unlock = meth
		}
	}
	if lock == nil || unlock == nil {
		t.Fatal("expected both lock and unlock methods")
	}

	if len(lock.Body.Cmds) != 2 {
		t.Fatalf("expected lock() to have 2 top-level commands (fetch, while), got %d", len(lock.Body.Cmds))
	}
	if _, ok := lock.Body.Cmds[0].(model.MPrim); !ok {
		t.Errorf("expected lock()'s first command to be a primitive, got %T", lock.Body.Cmds[0])
	}
	wc, ok := lock.Body.Cmds[1].(*model.MWhile)
	if !ok {
		t.Fatalf("expected lock()'s second command to be a while loop, got %T", lock.Body.Cmds[1])
	}
	if !wc.IsDoWhile {
		t.Error("expected lock()'s loop to be a do-while")
	}
	if len(wc.Inner.Cmds) != 1 {
		t.Errorf("expected the loop body to have 1 command, got %d", len(wc.Inner.Cmds))
	}

	if len(unlock.Body.Cmds) != 1 {
		t.Fatalf("expected unlock() to have 1 command, got %d", len(unlock.Body.Cmds))
	}
	if _, ok := unlock.Body.Cmds[0].(model.MPrim); !ok {
		t.Errorf("expected unlock()'s command to be a single primitive, got %T", unlock.Body.Cmds[0])
	}
}

func TestUnconstrainedViewBecomesIndefinite(t *testing.T) {
	src := `
shared int x;
view lonely();
method m() {| emp |}
  <x := 1>
  {| emp |}
`
	m := mustBuild(t, src)
	var found bool
	for _, d := range m.ViewDefs {
		if d.Sig.Name == "lonely" {
			found = true
			if d.Kind != model.IndefiniteDef {
				t.Errorf("expected lonely to be indefinite, got %v", d.Kind)
			}
		}
	}
	if !found {
		t.Fatal("expected a view def for lonely")
	}
}

func TestProtoTableSignaturesAreNameOrdered(t *testing.T) {
	src := `
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
  <skip>
  {| emp |}
`
	m := mustBuild(t, src)
	sigs := m.ViewProtos.Signatures()
	if len(sigs) != 2 {
		t.Fatalf("expected 2 prototype signatures, got %d", len(sigs))
	}
	if sigs[0].Name != "holdLock" || sigs[1].Name != "holdTick" {
		t.Errorf("expected signatures ordered holdLock, holdTick; got %s, %s", sigs[0].Name, sigs[1].Name)
	}
}

func TestUninterpretedSymbolConstraint(t *testing.T) {
	src := `
view mystery();
constraint mystery() -> %{opaque}();
method m() {| emp |}
  <skip>
  {| emp |}
`
	m := mustBuild(t, src)
	if len(m.ViewDefs) != 1 {
		t.Fatalf("expected 1 view def, got %d", len(m.ViewDefs))
	}
	d := m.ViewDefs[0]
	if d.Kind != model.UninterpretedDef {
		t.Fatalf("expected uninterpreted def, got %v", d.Kind)
	}
	if d.Symbol != "opaque" {
		t.Errorf("expected symbol name opaque, got %q", d.Symbol)
	}
}

func TestTypeMismatchReportsError(t *testing.T) {
	src := `
shared int x;
constraint emp -> x && true;
`
	l := lexer.New(src, "test.st")
	p := parser.New(l)
	script := p.Parse()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	_, errs := model.Build(collate.Collate(script))
	if len(errs) == 0 {
		t.Fatal("expected a type-mismatch error")
	}
}

func TestDuplicateGlobalNameReported(t *testing.T) {
	src := `
shared int x;
shared int x;
`
	l := lexer.New(src, "test.st")
	p := parser.New(l)
	script := p.Parse()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	_, errs := model.Build(collate.Collate(script))
	if len(errs) == 0 {
		t.Fatal("expected a duplicate-name error")
	}
	found := false
	for _, e := range errs {
		if e.Code == "MOD005" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected MOD005 among reported errors, got %v", errs)
	}
}

func TestConstraintScopeViolationReported(t *testing.T) {
	src := `
shared int x;
thread int s;
constraint emp -> s > 0;
`
	l := lexer.New(src, "test.st")
	p := parser.New(l)
	script := p.Parse()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	_, errs := model.Build(collate.Collate(script))
	if len(errs) == 0 {
		t.Fatal("expected a constraint-scope-violation error")
	}
	found := false
	for _, e := range errs {
		if e.Code == "MOD006" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected MOD006 among reported errors, got %v", errs)
	}
}

// TestConstraintPatternParamShadowsThreadLocal covers the intentional
// exception: a constraint pattern's own parameter (e.g. holdTick(t)'s t)
// shadows any thread-local of the same spelling and is not itself
// thread-scoped, so it must not trip the scope-violation check.
func TestConstraintPatternParamShadowsThreadLocal(t *testing.T) {
	src := `
shared int ticket;
thread int t;
view holdTick(int t);
constraint holdTick(t) -> ticket > t;
method m() {| emp |}
  <skip>
  {| emp |}
`
	m := mustBuild(t, src)
	if len(m.ViewDefs) != 1 {
		t.Fatalf("expected 1 view def, got %d", len(m.ViewDefs))
	}
}

func TestSymbolPrimitiveRegistersOnceAcrossCalls(t *testing.T) {
	src := `
method m() {| emp |}
  <%{foo}()>
  {| emp |}
  <%{foo}()>
  {| emp |}
`
	m := mustBuild(t, src)
	count := 0
	for _, s := range m.Semantics {
		if s.Kind == model.PrimSymbol {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected exactly 1 registered symbol semantic for two calls to the same symbol, got %d", count)
	}
}
