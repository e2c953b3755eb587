package driver_test

import (
	"testing"

	"github.com/BenSimner/starling-tool/internal/driver"
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

func TestRunStopsAtRequestedTarget(t *testing.T) {
	src := driver.Source{Code: ticketLockSrc, Filename: "ticket.st"}

	res, errs := driver.Run(driver.Config{Target: driver.TargetParse}, src)
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	if res.Artifacts.Script == nil {
		t.Fatal("expected a parsed script")
	}
	if res.Artifacts.Collated != nil {
		t.Error("expected Run to stop before collating")
	}

	res, errs = driver.Run(driver.Config{Target: driver.TargetModel}, src)
	if len(errs) != 0 {
		t.Fatalf("unexpected model errors: %v", errs)
	}
	if res.Artifacts.Model == nil {
		t.Fatal("expected a built model")
	}
	if res.Artifacts.Guarded != nil {
		t.Error("expected Run to stop before guarding")
	}
}

func TestRunThroughGraph(t *testing.T) {
	src := driver.Source{Code: ticketLockSrc, Filename: "ticket.st"}
	res, errs := driver.Run(driver.Config{Target: driver.TargetGraph}, src)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(res.Artifacts.Graphs) != 2 {
		t.Fatalf("expected 2 method graphs, got %d", len(res.Artifacts.Graphs))
	}
	if _, ok := res.Artifacts.Graphs["lock"]; !ok {
		t.Error("expected a graph for lock")
	}
	if _, ok := res.Artifacts.Graphs["unlock"]; !ok {
		t.Error("expected a graph for unlock")
	}
	for phase, ms := range res.PhaseTimings {
		if ms < 0 {
			t.Errorf("phase %s reported a negative timing", phase)
		}
	}
	if _, ok := res.PhaseTimings["graph"]; !ok {
		t.Error("expected a graph phase timing entry")
	}
}

func TestRunReportsParseErrors(t *testing.T) {
	src := driver.Source{Code: "shared int ;", Filename: "bad.st"}
	_, errs := driver.Run(driver.Config{Target: driver.TargetGraph}, src)
	if len(errs) == 0 {
		t.Fatal("expected parse errors for malformed source")
	}
}
