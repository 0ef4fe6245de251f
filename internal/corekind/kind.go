// Package corekind defines the kind lattice used to classify types, rows,
// and effect formulas before they reach the unifier.
package corekind

import "fmt"

// Kind is the closed sum of kinds: Star, Bool, Effect, Record, Schema,
// Arrow(k1,k2), and Unbound. Variants are distinguished by the unexported
// kind() marker method, following the teacher's sealed-sum-via-marker-method
// idiom (internal/types/kinds.go's Kind interface).
type Kind interface {
	kind()
	String() string
	Equals(Kind) bool
}

// Star is the kind of ordinary types.
type Star struct{}

func (Star) kind()            {}
func (Star) String() string   { return "Type" }
func (Star) Equals(o Kind) bool {
	_, ok := o.(Star)
	return ok
}

// Bool is the kind of Boolean-formula types (the `and`/`or`/`not` type
// constructors used to build effect formulas structurally).
type Bool struct{}

func (Bool) kind()          {}
func (Bool) String() string { return "Bool" }
func (Bool) Equals(o Kind) bool {
	_, ok := o.(Bool)
	return ok
}

// Effect is the kind of effect-set formulas.
type Effect struct{}

func (Effect) kind()          {}
func (Effect) String() string { return "Eff" }
func (Effect) Equals(o Kind) bool {
	_, ok := o.(Effect)
	return ok
}

// Record is the kind of record field labels.
type Record struct{}

func (Record) kind()          {}
func (Record) String() string { return "RecordRow" }
func (Record) Equals(o Kind) bool {
	_, ok := o.(Record)
	return ok
}

// Schema is the kind of Datalog relation/lattice schema labels.
type Schema struct{}

func (Schema) kind()          {}
func (Schema) String() string { return "SchemaRow" }
func (Schema) Equals(o Kind) bool {
	_, ok := o.(Schema)
	return ok
}

// Unbound marks a not-yet-determined kind, assigned by the generator before
// a (downstream, out-of-scope) kind-inference pass would normally resolve
// it. Subkind treats Unbound as compatible with anything, another Unbound
// included, so kind checks do not spam errors ahead of real kind inference.
type Unbound struct{}

func (Unbound) kind()          {}
func (Unbound) String() string { return "?" }
func (Unbound) Equals(o Kind) bool {
	_, ok := o.(Unbound)
	return ok
}

// Arrow is the kind of type-level functions, e.g. the kind of a one-field
// record constructor or an associated-type symbol.
type Arrow struct {
	From Kind
	To   Kind
}

func (Arrow) kind() {}
func (a Arrow) String() string {
	return fmt.Sprintf("(%s -> %s)", a.From, a.To)
}
func (a Arrow) Equals(o Kind) bool {
	if oa, ok := o.(Arrow); ok {
		return a.From.Equals(oa.From) && a.To.Equals(oa.To)
	}
	return false
}

// Subkind reports whether k1 is usable wherever k2 is expected under the
// transparent subkinding relation of spec.md §3: Record <: Star, Schema <:
// Star, Bool <: Star, and Unbound compatible with anything. Arrow is
// pointwise-invariant (no subkinding through function positions).
func Subkind(k1, k2 Kind) bool {
	if k1.Equals(k2) {
		return true
	}
	if _, ok := k1.(Unbound); ok {
		return true
	}
	if _, ok := k2.(Unbound); ok {
		return true
	}
	if _, ok := k2.(Star); ok {
		switch k1.(type) {
		case Record, Schema, Bool:
			return true
		}
	}
	return false
}
