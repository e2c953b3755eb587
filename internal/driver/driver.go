// Package driver wires the five compiler stages — parse, collate, model,
// guard, graph — into a single entry point, stopping at whichever Target
// the caller asked for and tagging timing/errors per phase.
package driver

import (
	"time"

	"github.com/BenSimner/starling-tool/internal/ast"
	"github.com/BenSimner/starling-tool/internal/collate"
	"github.com/BenSimner/starling-tool/internal/ferrors"
	"github.com/BenSimner/starling-tool/internal/graph"
	"github.com/BenSimner/starling-tool/internal/guard"
	"github.com/BenSimner/starling-tool/internal/lexer"
	"github.com/BenSimner/starling-tool/internal/model"
	"github.com/BenSimner/starling-tool/internal/parser"
)

// Target selects how far through the pipeline Run should go.
type Target int

const (
	TargetParse Target = iota
	TargetCollate
	TargetModel
	TargetGuard
	TargetGraph
)

func (t Target) String() string {
	switch t {
	case TargetParse:
		return "parse"
	case TargetCollate:
		return "collate"
	case TargetModel:
		return "model"
	case TargetGuard:
		return "guard"
	case TargetGraph:
		return "graph"
	default:
		return "unknown"
	}
}

// Config controls a single Run.
type Config struct {
	Target  Target
	JSON    bool
	Compact bool
}

// Source is the input program.
type Source struct {
	Code     string
	Filename string
}

// Artifacts holds whatever intermediate representations Run reached before
// stopping, either at cfg.Target or at the first stage to report errors.
type Artifacts struct {
	Script   *ast.Script
	Collated *collate.Script
	Model    *model.Model
	Guarded  []*guard.GMethod
	Graphs   map[string]*graph.Graph
}

// Result is Run's output: whatever artifacts were produced, plus
// per-phase wall-clock timings in milliseconds.
type Result struct {
	Artifacts    Artifacts
	PhaseTimings map[string]int64
}

// Run executes the pipeline up to cfg.Target, returning the first stage's
// reports on failure. Stages after the first failure never run.
func Run(cfg Config, src Source) (Result, []*ferrors.Report) {
	result := Result{PhaseTimings: make(map[string]int64)}

	start := time.Now()
	l := lexer.New(string(lexer.Normalize([]byte(src.Code))), src.Filename)
	p := parser.New(l)
	script := p.Parse()
	result.PhaseTimings["parse"] = time.Since(start).Milliseconds()
	if errs := p.Errors(); len(errs) > 0 {
		return result, errs
	}
	result.Artifacts.Script = script
	if cfg.Target == TargetParse {
		return result, nil
	}

	start = time.Now()
	collated := collate.Collate(script)
	result.PhaseTimings["collate"] = time.Since(start).Milliseconds()
	result.Artifacts.Collated = collated
	if cfg.Target == TargetCollate {
		return result, nil
	}

	start = time.Now()
	m, errs := model.Build(collated)
	result.PhaseTimings["model"] = time.Since(start).Milliseconds()
	if len(errs) > 0 {
		return result, errs
	}
	result.Artifacts.Model = m
	if cfg.Target == TargetModel {
		return result, nil
	}

	start = time.Now()
	guarded := make([]*guard.GMethod, 0, len(m.Methods))
	for _, meth := range m.Methods {
		guarded = append(guarded, guard.GuardMethod(meth))
	}
	result.PhaseTimings["guard"] = time.Since(start).Milliseconds()
	result.Artifacts.Guarded = guarded
	if cfg.Target == TargetGuard {
		return result, nil
	}

	start = time.Now()
	graphs := make(map[string]*graph.Graph, len(guarded))
	var gerrs []*ferrors.Report
	for _, gm := range guarded {
		g, errs := graph.Build(gm)
		if len(errs) > 0 {
			gerrs = append(gerrs, errs...)
			continue
		}
		graphs[gm.Name] = g
	}
	result.PhaseTimings["graph"] = time.Since(start).Milliseconds()
	if len(gerrs) > 0 {
		return result, gerrs
	}
	result.Artifacts.Graphs = graphs

	return result, nil
}
