package coreunify

import (
	"github.com/axion-lang/coreinfer/internal/coreast"
	"github.com/axion-lang/coreinfer/internal/coreerrors"
	"github.com/axion-lang/coreinfer/internal/corekind"
	"github.com/axion-lang/coreinfer/internal/coreinstances"
	"github.com/axion-lang/coreinfer/internal/coretypes"
	"github.com/axion-lang/coreinfer/internal/zhegalkin"
)

// Unifier carries the read-only environments unification needs beyond
// pure type structure: the associated-type clause table (to reduce an
// AssocType mid-unification), the shared Zhegalkin cache (to memoize
// effect-equation solving across every definition a driver worker
// processes), and the rigid-variable set a corectx.Context accumulated
// for the definition being solved (so a skolemized or region variable
// can never be unified away).
type Unifier struct {
	Assoc *coreinstances.AssocEnv
	Cache *zhegalkin.Cache
	Rigid map[coretypes.VarID]struct{}
}

// New returns a unifier backed by assoc and cache, both of which are
// shared read-only (or internally synchronized, in the cache's case)
// across every concurrent per-definition worker. rigid is the calling
// definition's own corectx.Context.RigidSet() and is read-only for the
// unifier's lifetime; it may be nil, which is treated as the empty set.
func New(assoc *coreinstances.AssocEnv, cache *zhegalkin.Cache, rigid map[coretypes.VarID]struct{}) *Unifier {
	return &Unifier{Assoc: assoc, Cache: cache, Rigid: rigid}
}

func (u *Unifier) isRigid(v *coretypes.Var) bool {
	_, ok := u.Rigid[v.ID]
	return ok
}

// Unify attempts to unify t1 and t2 under sub, returning an extended
// substitution on success. loc is attached to any resulting Error for
// diagnostics; it does not affect unification itself.
func (u *Unifier) Unify(t1, t2 coretypes.Type, sub coretypes.Substitution, loc coreast.Loc) (coretypes.Substitution, error) {
	t1 = coretypes.Unfold(coretypes.ApplySubst(sub, t1))
	t2 = coretypes.Unfold(coretypes.ApplySubst(sub, t2))

	if coretypes.Equals(t1, t2) {
		return sub, nil
	}

	if v, ok := t1.(*coretypes.Var); ok {
		return u.bindVar(v, t2, sub, loc)
	}
	if v, ok := t2.(*coretypes.Var); ok {
		return u.bindVar(v, t1, sub, loc)
	}

	if isEffectOrBool(t1) || isEffectOrBool(t2) {
		return u.unifyEffect(t1, t2, sub, loc)
	}

	if a, ok := t1.(*coretypes.AssocType); ok {
		return u.unifyAssoc(a, t2, sub, loc, false)
	}
	if a, ok := t2.(*coretypes.AssocType); ok {
		return u.unifyAssoc(a, t1, sub, loc, true)
	}

	switch l := t1.(type) {
	case *coretypes.Cst:
		r, ok := t2.(*coretypes.Cst)
		if !ok || !l.Equal(r) {
			return nil, constructorMismatch(loc, t1, t2)
		}
		return sub, nil

	case *coretypes.Apply:
		r, ok := t2.(*coretypes.Apply)
		if !ok {
			return nil, constructorMismatch(loc, t1, t2)
		}
		sub, err := u.Unify(l.Head, r.Head, sub, loc)
		if err != nil {
			return nil, err
		}
		return u.Unify(l.Arg, r.Arg, sub, loc)

	case *coretypes.JvmToType:
		r, ok := t2.(*coretypes.JvmToType)
		if !ok {
			return nil, constructorMismatch(loc, t1, t2)
		}
		return u.Unify(l.Tpe, r.Tpe, sub, loc)

	case *coretypes.JvmToEff:
		r, ok := t2.(*coretypes.JvmToEff)
		if !ok {
			return nil, constructorMismatch(loc, t1, t2)
		}
		return u.Unify(l.Tpe, r.Tpe, sub, loc)

	case *coretypes.UnresolvedJvmType:
		r, ok := t2.(*coretypes.UnresolvedJvmType)
		if !ok || l.Member != r.Member {
			return nil, constructorMismatch(loc, t1, t2)
		}
		return sub, nil

	default:
		return nil, constructorMismatch(loc, t1, t2)
	}
}

func isEffectOrBool(t coretypes.Type) bool {
	switch coretypes.KindOf(t).(type) {
	case corekind.Effect, corekind.Bool:
		return true
	default:
		return false
	}
}

// bindVar binds v to t, rejecting self-reference (occurs check, following
// aliases transparently since coretypes.FreeVars walks through Alias
// expansions) and kind mismatches, with Unbound treated as compatible
// with anything so a variable whose kind hasn't been pinned down yet
// never blocks unification. A rigid v unifies only with itself: binding
// it to a distinct flexible variable instead binds that flexible
// variable to v, and binding it to anything else (a concrete type or a
// distinct rigid variable) is a MismatchedTypes error rather than a
// substitution, since a rigid variable can never appear on the left of a
// Substitution entry.
func (u *Unifier) bindVar(v *coretypes.Var, t coretypes.Type, sub coretypes.Substitution, loc coreast.Loc) (coretypes.Substitution, error) {
	if other, ok := t.(*coretypes.Var); ok && other.ID == v.ID {
		return sub, nil
	}
	if u.isRigid(v) {
		if other, ok := t.(*coretypes.Var); ok && !u.isRigid(other) {
			return u.bindVar(other, v, sub, loc)
		}
		return nil, coreerrors.MismatchedTypes(loc, v, t)
	}
	if _, occurs := coretypes.FreeVars(t)[v.ID]; occurs {
		return nil, occursCheck(loc, v, t)
	}
	tk := coretypes.KindOf(t)
	if !kindsCompatible(v.Kind, tk) {
		return nil, kindMismatch(loc, v, t)
	}
	out := make(coretypes.Substitution, len(sub)+1)
	for k, val := range sub {
		out[k] = val
	}
	out[v.ID] = t
	return out, nil
}

func kindsCompatible(a, b corekind.Kind) bool {
	if a == nil || b == nil {
		return true
	}
	return a.Equals(b) || corekind.Subkind(a, b) || corekind.Subkind(b, a)
}

// unifyEffect delegates an effect- or bool-kinded comparison to the
// Zhegalkin solver: t1≡t2 holds iff t1⊕t2≡0, and SVE finds the most
// general substitution making that so.
func (u *Unifier) unifyEffect(t1, t2 coretypes.Type, sub coretypes.Substitution, loc coreast.Loc) (coretypes.Substitution, error) {
	eq := zhegalkin.MkXor(zhegalkin.FromType(t1), zhegalkin.FromType(t2))
	varSub, ok := u.Cache.Solve(eq)
	if !ok {
		return nil, constructorMismatch(loc, t1, t2)
	}
	out := make(coretypes.Substitution, len(sub)+len(varSub))
	for k, v := range sub {
		out[k] = v
	}
	for id, z := range varSub {
		out[id] = zhegalkin.ToType(z)
	}
	return out, nil
}

// unifyAssoc attempts to reduce an AssocType against the instance clause
// table and unify the result against other. When no clause matches yet
// (the argument is still a variable, or no instance covers the shape
// seen so far), it reports UnresolvedAssoc rather than guessing; the
// caller (internal/coresolve's constraint solver) retains the original
// constraint and retries once more substitution information is
// available. swapped records which side the AssocType was on, purely so
// the reported error always shows operands in their original order.
func (u *Unifier) unifyAssoc(a *coretypes.AssocType, other coretypes.Type, sub coretypes.Substitution, loc coreast.Loc, swapped bool) (coretypes.Substitution, error) {
	reduced, err := u.Assoc.Reduce(a.Sym, coretypes.ApplySubst(sub, a.Arg))
	if err != nil {
		left, right := coretypes.Type(a), other
		if swapped {
			left, right = other, a
		}
		return nil, &Error{Kind: UnresolvedAssoc, Loc: loc, Left: left, Right: right, Note: err.Error()}
	}
	if swapped {
		return u.Unify(other, reduced, sub, loc)
	}
	return u.Unify(reduced, other, sub, loc)
}
