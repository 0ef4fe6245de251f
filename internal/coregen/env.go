// Package coregen implements the constraint generator (spec.md §4.5): a
// structural walk over internal/coreast producing a (Type, Effect) pair
// per node and pushing Equality/Class constraints onto a corectx.Context
// as it goes.
//
// Grounded on internal/types/typechecker_core.go's inferCore dispatch
// (per-node-kind infer* functions, fresh-variable-then-unify shape) and
// internal/elaborate/expressions.go's walk structure. Region-scope
// handling and `do`-call dispatch through coreinstances.Env have no
// direct teacher precedent (ailang has no region construct and hard-codes
// its handful of effectful built-ins); both are from-scratch
// generalizations noted in DESIGN.md.
package coregen

import (
	"github.com/axion-lang/coreinfer/internal/coreast"
	"github.com/axion-lang/coreinfer/internal/coretypes"
)

// Env is the local lexical scope chain mapping already-bound symbols to
// their (monomorphic) inferred type, generalizing the teacher's TypeEnv
// (internal/types/env.go) from a Type-or-Scheme binding to a plain Type:
// generalization is an explicit downstream pass per spec.md §4.8, so this
// package never stores or consults a Scheme.
type Env struct {
	bindings map[string]coretypes.Type
	parent   *Env
}

// NewEnv returns an empty environment with no parent.
func NewEnv() *Env {
	return &Env{bindings: make(map[string]coretypes.Type)}
}

// Extend returns a new environment binding sym to t, chained to e.
func (e *Env) Extend(sym coreast.Symbol, t coretypes.Type) *Env {
	return &Env{bindings: map[string]coretypes.Type{sym.String(): t}, parent: e}
}

// Lookup walks the chain outward for sym's bound type.
func (e *Env) Lookup(sym coreast.Symbol) (coretypes.Type, bool) {
	for env := e; env != nil; env = env.parent {
		if t, ok := env.bindings[sym.String()]; ok {
			return t, true
		}
	}
	return nil, false
}
