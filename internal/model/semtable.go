package model

import (
	"strconv"

	"github.com/BenSimner/starling-tool/internal/ast"
)

// semTable indexes the fixed semantics schemas by primitive shape, and
// lazily registers one entry per distinct symbol-call name encountered
// while walking method bodies, deduplicating on (name, arity).
type semTable struct {
	byName map[string]*Semantic
	order  []string
}

func newSemTable() *semTable {
	t := &semTable{byName: map[string]*Semantic{}}
	for _, s := range buildFixedSemantics() {
		s := s
		t.byName[s.Sig.Name] = &s
		t.order = append(t.order, s.Sig.Name)
	}
	return t
}

func (t *semTable) loadDirect(ty ast.Ty) *Semantic {
	if ty == ast.TyInt {
		return t.byName["load_int"]
	}
	return t.byName["load_bool"]
}

func (t *semTable) store(ty ast.Ty) *Semantic {
	if ty == ast.TyInt {
		return t.byName["store_int"]
	}
	return t.byName["store_bool"]
}

func (t *semTable) cas(ty ast.Ty) *Semantic {
	if ty == ast.TyInt {
		return t.byName["cas_int"]
	}
	return t.byName["cas_bool"]
}

func (t *semTable) loadIncr() *Semantic { return t.byName["load_incr"] }
func (t *semTable) loadDecr() *Semantic { return t.byName["load_decr"] }
func (t *semTable) skip() *Semantic     { return t.byName["skip"] }
func (t *semTable) assume() *Semantic   { return t.byName["assume"] }

// Semantics returns the full accumulated semantics list in registration
// order (fixed schemas first, then symbol entries in first-seen order).
func (t *semTable) Semantics() []Semantic {
	out := make([]Semantic, 0, len(t.order))
	for _, name := range t.order {
		out = append(out, *t.byName[name])
	}
	return out
}

func (t *semTable) registerSymbol(name string, arity int, build func() Semantic) *Semantic {
	key := symbolKey(name, arity)
	if s, ok := t.byName[key]; ok {
		return s
	}
	s := build()
	t.byName[key] = &s
	t.order = append(t.order, key)
	return &s
}

func symbolKey(name string, arity int) string {
	return "sym_" + name + "/" + strconv.Itoa(arity)
}
