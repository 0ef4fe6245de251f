package coreinstances

import (
	"fmt"

	"github.com/axion-lang/coreinfer/internal/coreast"
	"github.com/axion-lang/coreinfer/internal/coretypes"
)

// EffectOp is a declared effect operation's signature, e.g. `readLine :
// () -> String` performed under the `IO` effect symbol. Generalizes the
// teacher's fixed built-in bindings in internal/types/env.go
// (NewTypeEnvWithBuiltins's hard-coded `print`/`readFile`/`httpGet`/
// `random`/`trace`, each wired to one literal Row label) into a declared,
// lookup-based table so new effects do not require editing this package.
type EffectOp struct {
	Sym    coreast.Symbol
	Params []coretypes.Type
	Result coretypes.Type
	Effect coreast.Symbol // the effect symbol this operation is performed under
}

// UnknownEffectOpError reports a `do` call naming an operation with no
// declared signature.
type UnknownEffectOpError struct {
	Op coreast.Symbol
}

func (e *UnknownEffectOpError) Error() string {
	return fmt.Sprintf("unknown effect operation %s", e.Op)
}

// Env bundles the three read-only environments the constraint generator
// and solver consult: class instances, associated-type clauses, and
// effect operation signatures. Built once before inference starts and
// shared, read-only, across every concurrent per-definition worker
// (spec.md §5) — hence no internal locking.
type Env struct {
	Class *ClassEnv
	Assoc *AssocEnv
	Ops   map[string]*EffectOp
}

// NewEnv returns an Env wrapping already-populated class and associated-type
// environments, with an empty effect-operation table.
func NewEnv(class *ClassEnv, assoc *AssocEnv) *Env {
	return &Env{Class: class, Assoc: assoc, Ops: make(map[string]*EffectOp)}
}

// AddEffectOp registers an effect operation's signature.
func (e *Env) AddEffectOp(op *EffectOp) {
	e.Ops[op.Sym.String()] = op
}

// LookupEffectOp resolves a `do` call's operation symbol to its declared
// signature.
func (e *Env) LookupEffectOp(sym coreast.Symbol) (*EffectOp, error) {
	op, ok := e.Ops[sym.String()]
	if !ok {
		return nil, &UnknownEffectOpError{Op: sym}
	}
	return op, nil
}

// ReduceAssoc reduces an associated-type application against the clause
// table, delegating to AssocEnv.Reduce.
func (e *Env) ReduceAssoc(sym coreast.Symbol, arg coretypes.Type) (coretypes.Type, error) {
	return e.Assoc.Reduce(sym, arg)
}
