package zhegalkin

import (
	"sort"

	"github.com/axion-lang/coreinfer/internal/coretypes"
)

// VarSubst maps effect variables to Zhegalkin polynomials. Unlike
// coretypes.Substitution it never needs an occurs check: SVE only ever
// binds a variable to a formula over variables strictly smaller in
// elimination order plus a fresh cover variable, so no binding can be
// self-referential.
type VarSubst map[coretypes.VarID]Zhegalkin

// ApplyVarSubst rewrites every variable occurrence in z according to s,
// re-expanding each substituted term through intersection so that
// coefficients distribute correctly over the replacement's own terms.
func ApplyVarSubst(s VarSubst, z Zhegalkin) Zhegalkin {
	if len(s) == 0 {
		return z
	}
	result := Zero()
	for _, t := range z.Terms {
		factor := FromCst(t.Const)
		for _, v := range t.Vars {
			if repl, ok := s[v]; ok {
				factor = MkInter(factor, repl)
			} else {
				factor = MkInter(factor, FromVar(v))
			}
		}
		result = MkXor(result, factor)
	}
	return result
}

// splitOnVar decomposes z with respect to x into e = e1 ⊕ (x ∧ e2), where
// e1 is the x-free part (z with x:=∅) and e2 is the coefficient of x (the
// terms containing x, with x itself removed from each).
func splitOnVar(z Zhegalkin, x coretypes.VarID) (e1, e2 Zhegalkin) {
	var withoutX, withX []Term
	for _, t := range z.Terms {
		idx := -1
		for i, v := range t.Vars {
			if v == x {
				idx = i
				break
			}
		}
		if idx < 0 {
			withoutX = append(withoutX, t)
			continue
		}
		rest := make([]coretypes.VarID, 0, len(t.Vars)-1)
		rest = append(rest, t.Vars[:idx]...)
		rest = append(rest, t.Vars[idx+1:]...)
		withX = append(withX, Term{Const: t.Const, Vars: rest})
	}
	return Zhegalkin{Terms: normalizeTerms(withoutX)}, Zhegalkin{Terms: normalizeTerms(withX)}
}

// sortedVars returns the variables of a set in ascending order, which
// fixes a deterministic elimination order for SVE so that repeated solves
// of equivalent formulas always produce the same substitution shape.
func sortedVars(vars map[coretypes.VarID]struct{}) []coretypes.VarID {
	out := make([]coretypes.VarID, 0, len(vars))
	for v := range vars {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// eliminate solves z ≡ 0 for the given variables, innermost-first, using
// Boole's expansion and the Löwenheim formula for the most general
// unifier of a single linear equation. Writing z = e1 ⊕ (x∧e2) for the
// variable being eliminated, z≡0 is solvable in x for every value of the
// remaining variables iff the residual e1∩¬e2 ≡ 0, and when solvable the
// general solution is x ↦ e1 ∪ (c∩¬e2) for a fresh cover variable c.
func eliminate(z Zhegalkin, vars []coretypes.VarID) (VarSubst, bool) {
	if len(vars) == 0 {
		if z.IsZero() {
			return VarSubst{}, true
		}
		return nil, false
	}
	x, rest := vars[0], vars[1:]
	e1, e2 := splitOnVar(z, x)
	residual := MkInter(e1, MkNot(e2))

	sub, ok := eliminate(residual, rest)
	if !ok {
		return nil, false
	}

	e1s := ApplyVarSubst(sub, e1)
	e2s := ApplyVarSubst(sub, e2)
	c := coretypes.NextVarID()
	xSubst := MkUnion(e1s, MkInter(FromVar(c), MkNot(e2s)))

	out := make(VarSubst, len(sub)+1)
	for k, v := range sub {
		out[k] = v
	}
	out[x] = xSubst
	return out, true
}

// SolveZero finds the most general substitution making z ≡ 0, or reports
// failure when no such substitution exists.
func SolveZero(z Zhegalkin) (VarSubst, bool) {
	return eliminate(z, sortedVars(z.Vars()))
}
