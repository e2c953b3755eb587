// Package collate implements the Collator (spec.md §4.4): a single pure
// pass partitioning a parsed ast.Script into five ordered buckets by kind,
// with no validation beyond shape.
package collate

import "github.com/BenSimner/starling-tool/internal/ast"

// Script is the Collator's output: ast.ScriptItems partitioned by kind,
// each bucket preserving its original source order.
type Script struct {
	Globals     []*ast.GlobalDecl
	Locals      []*ast.LocalDecl
	ViewProtos  []*ast.ViewProtoDecl
	Constraints []*ast.ConstraintDecl
	Methods     []*ast.MethodDecl
}

// Collate partitions a parsed script's items into the five buckets.
func Collate(script *ast.Script) *Script {
	out := &Script{}
	for _, item := range script.Items {
		switch it := item.(type) {
		case *ast.GlobalDecl:
			out.Globals = append(out.Globals, it)
		case *ast.LocalDecl:
			out.Locals = append(out.Locals, it)
		case *ast.ViewProtoDecl:
			out.ViewProtos = append(out.ViewProtos, it)
		case *ast.ConstraintDecl:
			out.Constraints = append(out.Constraints, it)
		case *ast.MethodDecl:
			out.Methods = append(out.Methods, it)
		}
	}
	return out
}

// Flatten is Collate's inverse in the canonical bucket order
// globals++locals++vprotos++constraints++methods (spec.md §8 "Round-trips").
func (s *Script) Flatten() *ast.Script {
	out := &ast.Script{}
	for _, g := range s.Globals {
		out.Items = append(out.Items, g)
	}
	for _, l := range s.Locals {
		out.Items = append(out.Items, l)
	}
	for _, v := range s.ViewProtos {
		out.Items = append(out.Items, v)
	}
	for _, c := range s.Constraints {
		out.Items = append(out.Items, c)
	}
	for _, m := range s.Methods {
		out.Items = append(out.Items, m)
	}
	return out
}
