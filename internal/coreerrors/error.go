package coreerrors

import (
	"fmt"

	"github.com/axion-lang/coreinfer/internal/coreast"
	"github.com/axion-lang/coreinfer/internal/coretypes"
)

// CoreError is a single structured diagnostic. It never pre-formats a
// message (spec.md §7): Formatter implementations render Code/Loc/
// Expected/Actual/Note into text, ANSI, or JSON as needed.
type CoreError struct {
	Code      Code
	Loc       coreast.Loc
	Secondary []coreast.Loc
	Expected  coretypes.Type // nil when not applicable
	Actual    coretypes.Type // nil when not applicable
	Sym       coreast.Symbol // nil-value (zero Symbol) when not applicable
	Note      string
}

func (e *CoreError) Error() string {
	_, desc := Describe(e.Code)
	msg := fmt.Sprintf("%s: %s: %s", e.Loc, e.Code, desc)
	if e.Expected != nil && e.Actual != nil {
		msg += fmt.Sprintf(" (expected %s, got %s)", e.Expected, e.Actual)
	}
	if e.Note != "" {
		msg += ": " + e.Note
	}
	return msg
}

func mismatchedTypes(loc coreast.Loc, expected, actual coretypes.Type) *CoreError {
	return &CoreError{Code: CodeMismatchedTypes, Loc: loc, Expected: expected, Actual: actual}
}

// MismatchedTypes reports that actual failed to unify with expected.
func MismatchedTypes(loc coreast.Loc, expected, actual coretypes.Type) *CoreError {
	return mismatchedTypes(loc, expected, actual)
}

// OccursCheck reports a recursive type equation (v occurs in t).
func OccursCheck(loc coreast.Loc, v, t coretypes.Type) *CoreError {
	return &CoreError{Code: CodeOccursCheck, Loc: loc, Expected: v, Actual: t}
}

// IrreducibleAssocType reports that an associated type application was
// ground but matched no instance clause.
func IrreducibleAssocType(loc coreast.Loc, sym coreast.Symbol, arg coretypes.Type) *CoreError {
	return &CoreError{Code: CodeIrreducibleAssoc, Loc: loc, Sym: sym, Actual: arg}
}

// UnsupportedEquality reports that the Zhegalkin solver could not find a
// substitution making e1≡e2 hold.
func UnsupportedEquality(loc coreast.Loc, e1, e2 coretypes.Type) *CoreError {
	return &CoreError{Code: CodeUnsupportedEquality, Loc: loc, Expected: e1, Actual: e2}
}

// OverlappingInstances reports two instances whose heads cannot be
// distinguished by the coherence check.
func OverlappingInstances(loc coreast.Loc, class coreast.Symbol, note string) *CoreError {
	return &CoreError{Code: CodeOverlappingInstances, Loc: loc, Sym: class, Note: note}
}

// MissingImplementation reports a class constraint with no covering
// instance.
func MissingImplementation(loc coreast.Loc, class coreast.Symbol, head coretypes.Type) *CoreError {
	return &CoreError{Code: CodeMissingImplementation, Loc: loc, Sym: class, Actual: head}
}

// AmbiguousInstance reports a class constraint left over after solving
// because head still carries free variables at generalization's end: the
// solver has no ground type to pick an instance for (a coresolve.Obligation
// that survived to the final Report), as distinct from MissingImplementation,
// where the head is ground but no instance covers it.
func AmbiguousInstance(loc coreast.Loc, class coreast.Symbol, head coretypes.Type) *CoreError {
	return &CoreError{Code: CodeAmbiguousInstance, Loc: loc, Sym: class, Actual: head}
}

// UnsupportedConstruct reports a coreast node the generator does not
// implement (currently only Datalog relation/lattice atoms).
func UnsupportedConstruct(loc coreast.Loc, name string) *CoreError {
	return &CoreError{Code: CodeUnsupportedConstruct, Loc: loc, Note: name}
}
