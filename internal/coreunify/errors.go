// Package coreunify implements the structural unifier (spec.md §4.3): the
// seven-case dispatch over coretypes.Type, alias unfolding, kind
// subkinding, Zhegalkin delegation for effect/bool-kinded constants,
// associated-type one-step reduction, and occurs checking with alias
// expansion.
//
// Grounded on internal/types/unification.go's Unifier.Unify (the
// swap-and-retry-on-flipped-variable-position dispatch idiom, the
// separate occurs/kindsCompatible helpers) generalized from a fixed
// constructor set to coretypes.Type's full sum, with row unification
// replaced by zhegalkin delegation for effect-kinded terms.
package coreunify

import (
	"fmt"

	"github.com/axion-lang/coreinfer/internal/coreast"
	"github.com/axion-lang/coreinfer/internal/coretypes"
)

// Error is a structured unification failure. It never formats a message
// itself — internal/coreerrors owns rendering — but carries enough
// structure (the two original operands, a provenance explaining why they
// were compared, and a tie-breaking location) for a renderer to produce a
// precise diagnostic.
type Error struct {
	Kind  ErrorKind
	Loc   coreast.Loc
	Left  coretypes.Type
	Right coretypes.Type
	Note  string
}

// ErrorKind classifies why unification failed.
type ErrorKind int

const (
	KindMismatch ErrorKind = iota
	ConstructorMismatch
	ArityMismatch
	OccursCheck
	UnresolvedAssoc
	Unsupported
)

func (e *Error) Error() string {
	switch e.Kind {
	case KindMismatch:
		return fmt.Sprintf("kind mismatch: %s vs %s", e.Left, e.Right)
	case ConstructorMismatch:
		return fmt.Sprintf("cannot unify %s with %s", e.Left, e.Right)
	case ArityMismatch:
		return fmt.Sprintf("arity mismatch: %s vs %s (%s)", e.Left, e.Right, e.Note)
	case OccursCheck:
		return fmt.Sprintf("occurs check failed: %s occurs in %s", e.Left, e.Right)
	case UnresolvedAssoc:
		return fmt.Sprintf("unresolved associated type: %s", e.Note)
	default:
		return fmt.Sprintf("cannot unify %s with %s: %s", e.Left, e.Right, e.Note)
	}
}

func kindMismatch(loc coreast.Loc, l, r coretypes.Type) *Error {
	return &Error{Kind: KindMismatch, Loc: loc, Left: l, Right: r}
}

func constructorMismatch(loc coreast.Loc, l, r coretypes.Type) *Error {
	return &Error{Kind: ConstructorMismatch, Loc: loc, Left: l, Right: r}
}

func arityMismatch(loc coreast.Loc, l, r coretypes.Type, note string) *Error {
	return &Error{Kind: ArityMismatch, Loc: loc, Left: l, Right: r, Note: note}
}

func occursCheck(loc coreast.Loc, v *coretypes.Var, t coretypes.Type) *Error {
	return &Error{Kind: OccursCheck, Loc: loc, Left: v, Right: t}
}
