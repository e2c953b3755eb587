// Package corpus loads the end-to-end scenario manifest (spec.md §8) and
// runs each scenario through the driver, checking its declared expectation
// against the actual pipeline outcome.
package corpus

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/BenSimner/starling-tool/internal/driver"
	"github.com/BenSimner/starling-tool/internal/ferrors"
)

// Expect is the declared outcome for one scenario. CheckCounts gates the
// Globals/Locals/ViewDefs/Methods fields so a scenario can assert exactly
// zero of something (the empty-program scenario) without that being
// indistinguishable from "don't care".
type Expect struct {
	Error       bool   `yaml:"error"`
	ErrorCode   string `yaml:"error_code"`
	CheckCounts bool   `yaml:"check_counts"`
	Globals     int    `yaml:"globals"`
	Locals      int    `yaml:"locals"`
	ViewDefs    int    `yaml:"view_defs"`
	Methods     int    `yaml:"methods"`

	Graphs []string `yaml:"graphs"`
}

// Scenario is a single named end-to-end program and its expected outcome.
type Scenario struct {
	ID          string `yaml:"id"`
	Description string `yaml:"description"`
	Source      string `yaml:"source"`
	Target      string `yaml:"target"`
	Expect      Expect `yaml:"expect"`
}

// Manifest is the full scenario list.
type Manifest struct {
	Scenarios []Scenario `yaml:"scenarios"`
}

// Load reads and parses a scenario manifest from path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("corpus: failed to read manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("corpus: failed to parse manifest: %w", err)
	}
	for i, s := range m.Scenarios {
		if s.ID == "" {
			return nil, fmt.Errorf("corpus: scenario %d missing id", i)
		}
	}
	return &m, nil
}

func (s Scenario) target() driver.Target {
	switch s.Target {
	case "parse":
		return driver.TargetParse
	case "collate":
		return driver.TargetCollate
	case "model":
		return driver.TargetModel
	case "guard":
		return driver.TargetGuard
	default:
		return driver.TargetGraph
	}
}

// Run drives the pipeline for one scenario, returning the pipeline result
// and a list of mismatch descriptions (empty if the scenario matched its
// declared expectation exactly).
func Run(s Scenario) (driver.Result, []string) {
	res, errs := driver.Run(driver.Config{Target: s.target()}, driver.Source{
		Code:     s.Source,
		Filename: s.ID + ".st",
	})
	return res, check(s, res, errs)
}

func check(s Scenario, res driver.Result, errs []*ferrors.Report) []string {
	var mismatches []string
	add := func(format string, args ...interface{}) {
		mismatches = append(mismatches, fmt.Sprintf(format, args...))
	}

	if s.Expect.Error {
		if len(errs) == 0 {
			add("expected an error, got none")
			return mismatches
		}
		if s.Expect.ErrorCode != "" {
			found := false
			for _, e := range errs {
				if e.Code == s.Expect.ErrorCode {
					found = true
				}
			}
			if !found {
				add("expected error code %s, got %v", s.Expect.ErrorCode, errs)
			}
		}
		return mismatches
	}
	if len(errs) != 0 {
		add("expected no error, got %v", errs)
		return mismatches
	}

	if s.Expect.CheckCounts {
		m := res.Artifacts.Model
		if m == nil {
			add("expected a built model but none was produced (target %q stopped too early)", s.Target)
			return mismatches
		}
		if len(m.Globals) != s.Expect.Globals {
			add("expected %d globals, got %d", s.Expect.Globals, len(m.Globals))
		}
		if len(m.Locals) != s.Expect.Locals {
			add("expected %d locals, got %d", s.Expect.Locals, len(m.Locals))
		}
		if len(m.ViewDefs) != s.Expect.ViewDefs {
			add("expected %d view defs, got %d", s.Expect.ViewDefs, len(m.ViewDefs))
		}
		if len(m.Methods) != s.Expect.Methods {
			add("expected %d methods, got %d", s.Expect.Methods, len(m.Methods))
		}
	}

	for _, name := range s.Expect.Graphs {
		if _, ok := res.Artifacts.Graphs[name]; !ok {
			add("expected a graph named %q", name)
		}
	}

	return mismatches
}
