// Package ferrors is Starling's structured error taxonomy (spec.md §7):
// ParseError, ModelError (with subkinds), and GraphError all surface as a
// *Report wrapped in a *ReportError, tagged with the stage that produced
// them. No error is recovered locally; everything propagates to the caller.
package ferrors

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/BenSimner/starling-tool/internal/ast"
)

// Stage names the pipeline component that raised an error.
type Stage string

const (
	StageParse   Stage = "parse"
	StageCollate Stage = "collate"
	StageModel   Stage = "model"
	StageGuard   Stage = "guard"
	StageGraph   Stage = "graph"
)

// Report is the canonical structured error value. All error builders in
// this module return a *Report; callers wrap it with WrapReport to get an
// error that still satisfies errors.As after propagation.
type Report struct {
	Schema  string         `json:"schema"` // always "starling.error/v1"
	Code    string         `json:"code"`
	Stage   Stage          `json:"stage"`
	Message string         `json:"message"`
	Span    *ast.Span      `json:"span,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
}

// ReportError wraps a Report as an error.
type ReportError struct {
	Rep *Report
}

func (e *ReportError) Error() string {
	if e.Rep == nil {
		return "unknown error"
	}
	return fmt.Sprintf("%s [%s]: %s", e.Rep.Code, e.Rep.Stage, e.Rep.Message)
}

// AsReport extracts a Report from an error chain, if present.
func AsReport(err error) (*Report, bool) {
	var re *ReportError
	if errors.As(err, &re) {
		return re.Rep, true
	}
	return nil, false
}

// WrapReport wraps a Report as an error. Returns nil for a nil Report.
func WrapReport(r *Report) error {
	if r == nil {
		return nil
	}
	return &ReportError{Rep: r}
}

// New builds a Report for the given stage/code/message.
func New(stage Stage, code, message string) *Report {
	return &Report{
		Schema:  "starling.error/v1",
		Code:    code,
		Stage:   stage,
		Message: message,
		Data:    map[string]any{},
	}
}

// WithSpan attaches a source span and returns the same Report for chaining.
func (r *Report) WithSpan(span ast.Span) *Report {
	r.Span = &span
	return r
}

// WithData attaches one structured data field and returns the same Report.
func (r *Report) WithData(key string, value any) *Report {
	if r.Data == nil {
		r.Data = map[string]any{}
	}
	r.Data[key] = value
	return r
}

// ToJSON renders the report deterministically (map keys sorted by encoding/json).
func (r *Report) ToJSON(compact bool) (string, error) {
	var data []byte
	var err error
	if compact {
		data, err = json.Marshal(r)
	} else {
		data, err = json.MarshalIndent(r, "", "  ")
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Reports is a non-empty sequence of errors accumulated during one stage
// (spec.md §7 "Propagation policy", §9 "Error accumulation"). It implements
// error so a stage can return a single value either way.
type Reports []*Report

func (rs Reports) Error() string {
	if len(rs) == 0 {
		return "no errors"
	}
	if len(rs) == 1 {
		return WrapReport(rs[0]).Error()
	}
	return fmt.Sprintf("%s (and %d more)", WrapReport(rs[0]).Error(), len(rs)-1)
}

// AsErrors converts each Report into an error for interop with errors.As.
func (rs Reports) AsErrors() []error {
	out := make([]error, len(rs))
	for i, r := range rs {
		out[i] = WrapReport(r)
	}
	return out
}
