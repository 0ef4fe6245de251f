package zhegalkin

import (
	"sort"

	"github.com/axion-lang/coreinfer/internal/coretypes"
)

// Term is a single monomial of a Zhegalkin polynomial: a constant
// coefficient guarding the conjunction of a set of effect variables
// (c ∧ x_1 ∧ … ∧ x_k). Vars is sorted and deduplicated; a Term with no
// Vars is the polynomial's constant component.
type Term struct {
	Const Cst
	Vars  []coretypes.VarID
}

func varLess(a, b coretypes.VarID) bool { return a < b }

func sortDedupVars(vars []coretypes.VarID) []coretypes.VarID {
	if len(vars) == 0 {
		return nil
	}
	cp := append([]coretypes.VarID(nil), vars...)
	sort.Slice(cp, func(i, j int) bool { return varLess(cp[i], cp[j]) })
	out := cp[:1]
	for _, v := range cp[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}

func varUnion(a, b []coretypes.VarID) []coretypes.VarID {
	return sortDedupVars(append(append([]coretypes.VarID(nil), a...), b...))
}

// sameVars reports whether two already-sorted-deduped variable lists are
// identical, used to decide whether two terms belong to the same monomial.
func sameVars(a, b []coretypes.VarID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// termLess orders terms first by arity (fewer variables first, so the
// constant term sorts first) then lexicographically by variable id, which
// gives Zhegalkin polynomials a canonical, comparable term ordering.
func termLess(a, b Term) bool {
	if len(a.Vars) != len(b.Vars) {
		return len(a.Vars) < len(b.Vars)
	}
	for i := range a.Vars {
		if a.Vars[i] != b.Vars[i] {
			return a.Vars[i] < b.Vars[i]
		}
	}
	return false
}
