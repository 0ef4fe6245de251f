package zhegalkin

import (
	"sort"
	"strings"

	"github.com/axion-lang/coreinfer/internal/coretypes"
)

// Zhegalkin is a canonical Zhegalkin polynomial: an XOR-sum of Terms, kept
// sorted by termLess with no two terms sharing the same variable set and
// no term carrying a zero coefficient. The zero value (no Terms) is the
// Pure effect (the additive identity, ∅).
type Zhegalkin struct {
	Terms []Term
}

// Zero is the Pure effect: the empty Zhegalkin sum.
func Zero() Zhegalkin { return Zhegalkin{} }

// Universe is the fully Impure effect: the constant ⊤.
func Universe() Zhegalkin { return FromCst(UniverseCst()) }

// FromCst lifts a constant effect set to a degenerate (variable-free)
// polynomial.
func FromCst(c Cst) Zhegalkin {
	if c.IsZero() {
		return Zero()
	}
	return Zhegalkin{Terms: []Term{{Const: c}}}
}

// FromVar lifts a bare effect variable to a polynomial. Its coefficient is
// the ring's multiplicative identity (the universal constant), matching
// standard Zhegalkin/ANF normal form where a variable's own coefficient is
// one — here generalized to a coefficient ring of effect-symbol sets under
// (∩ as multiplication, Δ as addition), whose multiplicative identity is ⊤
// since A∩⊤=A for every set A.
func FromVar(v coretypes.VarID) Zhegalkin {
	return Zhegalkin{Terms: []Term{{Const: UniverseCst(), Vars: []coretypes.VarID{v}}}}
}

// IsZero reports whether z is the additive identity (Pure).
func (z Zhegalkin) IsZero() bool { return len(z.Terms) == 0 }

// IsConst reports whether z has no variables at all, and if so returns its
// constant value.
func (z Zhegalkin) IsConst() (Cst, bool) {
	switch len(z.Terms) {
	case 0:
		return EmptyCst(), true
	case 1:
		if len(z.Terms[0].Vars) == 0 {
			return z.Terms[0].Const, true
		}
	}
	return Cst{}, false
}

// Vars returns the set of variables occurring anywhere in z.
func (z Zhegalkin) Vars() map[coretypes.VarID]struct{} {
	out := map[coretypes.VarID]struct{}{}
	for _, t := range z.Terms {
		for _, v := range t.Vars {
			out[v] = struct{}{}
		}
	}
	return out
}

// Equal reports whether two canonical polynomials are identical. Since
// every Zhegalkin value produced by this package is already normalized,
// structural term-list equality is semantic equality.
func (z Zhegalkin) Equal(o Zhegalkin) bool {
	if len(z.Terms) != len(o.Terms) {
		return false
	}
	for i := range z.Terms {
		a, b := z.Terms[i], o.Terms[i]
		if !a.Const.Equal(b.Const) || !sameVars(a.Vars, b.Vars) {
			return false
		}
	}
	return true
}

func (z Zhegalkin) String() string {
	if z.IsZero() {
		return "pure"
	}
	parts := make([]string, len(z.Terms))
	for i, t := range z.Terms {
		if len(t.Vars) == 0 {
			parts[i] = t.Const.String()
			continue
		}
		var b strings.Builder
		b.WriteString(t.Const.String())
		for _, v := range t.Vars {
			b.WriteString("∧x")
			b.WriteString(varIDString(v))
		}
		parts[i] = b.String()
	}
	return strings.Join(parts, " ⊕ ")
}

func varIDString(v coretypes.VarID) string {
	// Cheap uint-to-string without importing strconv twice across files.
	if v == 0 {
		return "0"
	}
	var digits []byte
	for v > 0 {
		digits = append([]byte{byte('0' + v%10)}, digits...)
		v /= 10
	}
	return string(digits)
}

// normalizeTerms merges terms that share the same variable set (XOR-ing
// their coefficients), drops any term whose merged coefficient is zero,
// and sorts the result into canonical order.
func normalizeTerms(terms []Term) []Term {
	sort.SliceStable(terms, func(i, j int) bool { return termLess(terms[i], terms[j]) })
	var out []Term
	for _, t := range terms {
		if n := len(out); n > 0 && sameVars(out[n-1].Vars, t.Vars) {
			out[n-1].Const = XorCst(out[n-1].Const, t.Const)
			continue
		}
		out = append(out, t)
	}
	kept := out[:0]
	for _, t := range out {
		if !t.Const.IsZero() {
			kept = append(kept, t)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	return kept
}

// MkXor computes a ⊕ b.
func MkXor(a, b Zhegalkin) Zhegalkin {
	merged := make([]Term, 0, len(a.Terms)+len(b.Terms))
	merged = append(merged, a.Terms...)
	merged = append(merged, b.Terms...)
	return Zhegalkin{Terms: normalizeTerms(merged)}
}

// MkInter computes a ⊗ b by distributing intersection over the XOR-sum:
// each pair of terms multiplies (coefficients via InterCst, variable sets
// via union, since x∧x=x is idempotent), and the resulting products are
// summed with XOR.
func MkInter(a, b Zhegalkin) Zhegalkin {
	return mkInter(a, b, InterCst)
}

// mkInter is MkInter's implementation, parameterized over the coefficient
// intersection so Cache.Inter can route every term-pair product through
// its own memoized interCstCached instead of the uncached package-level
// InterCst.
func mkInter(a, b Zhegalkin, interCst func(Cst, Cst) Cst) Zhegalkin {
	if a.IsZero() || b.IsZero() {
		return Zero()
	}
	if c, ok := a.IsConst(); ok && c.IsUniverse() {
		return b
	}
	if c, ok := b.IsConst(); ok && c.IsUniverse() {
		return a
	}
	products := make([]Term, 0, len(a.Terms)*len(b.Terms))
	for _, ta := range a.Terms {
		for _, tb := range b.Terms {
			products = append(products, Term{
				Const: interCst(ta.Const, tb.Const),
				Vars:  varUnion(ta.Vars, tb.Vars),
			})
		}
	}
	return Zhegalkin{Terms: normalizeTerms(products)}
}

// MkUnion computes a ∪ b via the Boolean-ring identity a∪b = a⊕b⊕(a∩b).
func MkUnion(a, b Zhegalkin) Zhegalkin {
	return MkXor(MkXor(a, b), MkInter(a, b))
}

// MkNot computes ¬a = ⊤⊕a.
func MkNot(a Zhegalkin) Zhegalkin {
	return MkXor(Universe(), a)
}
