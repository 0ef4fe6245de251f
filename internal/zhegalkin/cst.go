// Package zhegalkin implements the Boolean/Zhegalkin effect-set algebra
// and its successive-variable-elimination (SVE) solver (spec.md §3/§4.2).
//
// Effect formulas are canonicalized to Zhegalkin normal form over constant
// sets: c0 ⊕ ⊕ᵢ(cᵢ ∧ x_{i,1} ∧ … ∧ x_{i,kᵢ}). This package is novel within
// the corpus — no example repo implements Zhegalkin polynomials, since
// this is the Flix-specific trick for representing an effect-set Boolean
// algebra compactly. It is grounded on the canonicalization shape of
// internal/types/types_v2.go's Row (sorted labels, structural Equals) and
// on funvibe-funxy/internal/typesystem/unify.go's co-inductive,
// visited-set-guarded recursion style, adapted here as the structural
// termination guard for SVE.
package zhegalkin

import (
	"sort"
	"strings"

	"github.com/axion-lang/coreinfer/internal/coreast"
)

// Cst is a constant effect set in the open-world representation: when
// Complement is false it denotes exactly Syms; when true it denotes the
// complement of Syms within the (possibly unbounded) universe of effect
// symbols. This lets the algebra represent both finite sets and the
// universal constant ⊤ (Complement:true, Syms:nil) without needing to
// enumerate every symbol that might ever exist.
type Cst struct {
	Complement bool
	Syms       []coreast.Symbol // sorted, deduplicated
}

// EmptyCst is the bottom element (∅, the Pure effect set).
func EmptyCst() Cst { return Cst{} }

// UniverseCst is the top element (⊤), identity for intersection.
func UniverseCst() Cst { return Cst{Complement: true} }

// SingletonCst builds the constant set containing exactly one symbol.
func SingletonCst(s coreast.Symbol) Cst { return Cst{Syms: []coreast.Symbol{s}} }

// SetCst builds the constant set containing exactly the given symbols.
func SetCst(syms ...coreast.Symbol) Cst {
	return Cst{Syms: sortDedupSyms(syms)}
}

// IsZero reports whether c is the bottom element.
func (c Cst) IsZero() bool { return !c.Complement && len(c.Syms) == 0 }

// IsUniverse reports whether c is the top element.
func (c Cst) IsUniverse() bool { return c.Complement && len(c.Syms) == 0 }

// Equal reports structural equality of two constants.
func (c Cst) Equal(o Cst) bool {
	if c.Complement != o.Complement || len(c.Syms) != len(o.Syms) {
		return false
	}
	for i := range c.Syms {
		if c.Syms[i] != o.Syms[i] {
			return false
		}
	}
	return true
}

func (c Cst) String() string {
	var b strings.Builder
	if c.Complement {
		b.WriteString("¬")
	}
	b.WriteString("{")
	names := make([]string, len(c.Syms))
	for i, s := range c.Syms {
		names[i] = s.String()
	}
	b.WriteString(strings.Join(names, ","))
	b.WriteString("}")
	return b.String()
}

func symLess(a, b coreast.Symbol) bool {
	if a.Module != b.Module {
		return a.Module < b.Module
	}
	return a.Name < b.Name
}

func sortDedupSyms(syms []coreast.Symbol) []coreast.Symbol {
	if len(syms) == 0 {
		return nil
	}
	cp := append([]coreast.Symbol(nil), syms...)
	sort.Slice(cp, func(i, j int) bool { return symLess(cp[i], cp[j]) })
	out := cp[:1]
	for _, s := range cp[1:] {
		if s != out[len(out)-1] {
			out = append(out, s)
		}
	}
	return out
}

func symUnion(a, b []coreast.Symbol) []coreast.Symbol {
	return sortDedupSyms(append(append([]coreast.Symbol(nil), a...), b...))
}

func symIntersect(a, b []coreast.Symbol) []coreast.Symbol {
	bset := make(map[coreast.Symbol]struct{}, len(b))
	for _, s := range b {
		bset[s] = struct{}{}
	}
	var out []coreast.Symbol
	for _, s := range a {
		if _, ok := bset[s]; ok {
			out = append(out, s)
		}
	}
	return sortDedupSyms(out)
}

func symDiff(a, b []coreast.Symbol) []coreast.Symbol {
	bset := make(map[coreast.Symbol]struct{}, len(b))
	for _, s := range b {
		bset[s] = struct{}{}
	}
	var out []coreast.Symbol
	for _, s := range a {
		if _, ok := bset[s]; !ok {
			out = append(out, s)
		}
	}
	return sortDedupSyms(out)
}

func symSymDiff(a, b []coreast.Symbol) []coreast.Symbol {
	return symUnion(symDiff(a, b), symDiff(b, a))
}

// UnionCst computes the set union of two constants.
func UnionCst(a, b Cst) Cst {
	switch {
	case !a.Complement && !b.Complement:
		return Cst{Syms: symUnion(a.Syms, b.Syms)}
	case !a.Complement && b.Complement:
		return Cst{Complement: true, Syms: symDiff(b.Syms, a.Syms)}
	case a.Complement && !b.Complement:
		return Cst{Complement: true, Syms: symDiff(a.Syms, b.Syms)}
	default:
		return Cst{Complement: true, Syms: symIntersect(a.Syms, b.Syms)}
	}
}

// InterCst computes the set intersection of two constants. Intersection
// with a universal constant returns the other argument's Syms without any
// merge work, per spec.md §4.2.
func InterCst(a, b Cst) Cst {
	if a.IsUniverse() {
		return b
	}
	if b.IsUniverse() {
		return a
	}
	switch {
	case !a.Complement && !b.Complement:
		return Cst{Syms: symIntersect(a.Syms, b.Syms)}
	case !a.Complement && b.Complement:
		return Cst{Syms: symDiff(a.Syms, b.Syms)}
	case a.Complement && !b.Complement:
		return Cst{Syms: symDiff(b.Syms, a.Syms)}
	default:
		return Cst{Complement: true, Syms: symUnion(a.Syms, b.Syms)}
	}
}

// XorCst computes the symmetric difference of two constants.
func XorCst(a, b Cst) Cst {
	if a.Complement == b.Complement {
		return Cst{Syms: symSymDiff(a.Syms, b.Syms)}
	}
	var comp, conc Cst
	if a.Complement {
		comp, conc = a, b
	} else {
		comp, conc = b, a
	}
	return Cst{Complement: true, Syms: symSymDiff(conc.Syms, comp.Syms)}
}

// NotCst computes the set complement, which is exactly flipping the
// open-world Complement flag while leaving Syms untouched (since
// not(A) = ⊤⊕A and ⊤ has empty Syms, xor-ing the symbol lists with the
// empty set is a no-op; only the complement bit toggles).
func NotCst(a Cst) Cst {
	return Cst{Complement: !a.Complement, Syms: a.Syms}
}
