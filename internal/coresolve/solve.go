// Package coresolve implements the fixed-point constraint solver
// (spec.md §4.6): it drains the constraint list a corectx.Context.Finish
// call produced, interleaving three concerns:
//
//   - Equality constraints feed the unifier directly, accumulating a
//     growing substitution.
//   - Purification constraints collapse a region's internal effect down
//     to its externally observable one: the region's own nested
//     constraints are solved first (under a shadow substitution scoped to
//     that sub-solve), then the region's rigid effect variable is
//     rewritten to Pure structurally inside the solved internal effect
//     (never unified — a rigid variable cannot be bound), producing the
//     External-side obligation the outer solve re-queues.
//   - Class constraints are deferred until every Equality and
//     Purification constraint has been discharged, then checked against
//     the instance environment; any whose head is still non-ground is
//     handed back to the caller as an ambiguity obligation rather than
//     resolved here, since defaulting is an explicit later pass
//     (spec.md §4.8) this package does not perform.
//
// Grounded on the teacher's InferenceContext.SolveConstraints
// (internal/types/inference.go): a two-phase equality-then-class loop
// that applies the final substitution to deferred class constraints
// before returning them unsolved. Region purification and associated-type
// ground-reduction have no teacher precedent (ailang has neither
// regions nor associated types) and are from-scratch generalizations of
// that same accumulate-then-defer shape, grounded on spec.md §4.6's
// literal termination argument.
package coresolve

import (
	"github.com/axion-lang/coreinfer/internal/coreast"
	"github.com/axion-lang/coreinfer/internal/coreerrors"
	"github.com/axion-lang/coreinfer/internal/corectx"
	"github.com/axion-lang/coreinfer/internal/coreinstances"
	"github.com/axion-lang/coreinfer/internal/coretypes"
	"github.com/axion-lang/coreinfer/internal/coreunify"
	"github.com/axion-lang/coreinfer/internal/zhegalkin"
)

// Obligation is a Class constraint left over after solving because its
// head still contains a free variable: not an error, but a candidate for
// a later ambiguity report or defaulting pass.
type Obligation struct {
	Sym  coreast.Symbol
	Head coretypes.Type
	Loc  coreast.Loc
}

// Result is everything a solved definition yields: the substitution that
// closes every Equality and Purification constraint, plus any residual
// Class obligations.
type Result struct {
	Substitution coretypes.Substitution
	Obligations  []Obligation
}

// Solve drains constraints to a fixed point using u for unification and
// classes for instance lookup. It returns as soon as a constraint fails
// outright (a genuine type or effect mismatch); residual Class
// obligations with free variables are returned, not treated as errors.
func Solve(constraints []corectx.Constraint, u *coreunify.Unifier, classes *coreinstances.ClassEnv) (*Result, error) {
	sub := coretypes.Substitution{}
	queue := append([]corectx.Constraint(nil), constraints...)
	var classQueue []corectx.Constraint
	var stuckAssoc []corectx.Constraint
	var lastStuckErr *coreunify.Error

	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]

		switch c.Kind {
		case corectx.ConstraintClass:
			classQueue = append(classQueue, c)

		case corectx.ConstraintEquality:
			newSub, err := u.Unify(c.Left, c.Right, sub, c.Loc)
			if err != nil {
				ue, ok := err.(*coreunify.Error)
				if !ok || ue.Kind != coreunify.UnresolvedAssoc {
					return nil, err
				}
				stuckAssoc = append(stuckAssoc, c)
				lastStuckErr = ue
				continue
			}
			sub = newSub
			if len(stuckAssoc) > 0 {
				queue = append(stuckAssoc, queue...)
				stuckAssoc = nil
				lastStuckErr = nil
			}

		case corectx.ConstraintPurification:
			eq, nestedObligations, err := solvePurification(c, u, classes, sub)
			if err != nil {
				return nil, err
			}
			classQueue = append(classQueue, nestedObligations...)
			queue = append([]corectx.Constraint{eq}, queue...)
		}
	}

	if len(stuckAssoc) > 0 {
		return nil, irreducibleAssoc(stuckAssoc[0], lastStuckErr, sub)
	}

	obligations, err := resolveClasses(classQueue, classes, sub)
	if err != nil {
		return nil, err
	}

	return &Result{Substitution: sub, Obligations: obligations}, nil
}

// solvePurification discharges one region-exit constraint: its own
// Nested buffer is solved independently (a shadow sub-solve scoped to
// the region body), and the resulting substitution is applied to
// Internal before the region's rigid variable is structurally rewritten
// to Pure. The rewrite goes through Zhegalkin's variable-substitution
// machinery rather than the unifier, since Region is rigid and therefore
// cannot be the left side of a bindVar.
func solvePurification(c corectx.Constraint, u *coreunify.Unifier, classes *coreinstances.ClassEnv, outer coretypes.Substitution) (corectx.Constraint, []corectx.Constraint, error) {
	nested, err := Solve(c.Nested, u, classes)
	if err != nil {
		return corectx.Constraint{}, nil, err
	}

	internal := coretypes.ApplySubst(outer, coretypes.ApplySubst(nested.Substitution, c.Internal))
	purifiedZ := zhegalkin.ApplyVarSubst(
		zhegalkin.VarSubst{c.Region: zhegalkin.Zero()},
		zhegalkin.FromType(internal),
	)

	eq := corectx.Constraint{
		Kind:       corectx.ConstraintEquality,
		Loc:        c.Loc,
		Provenance: corectx.Provenance{Kind: corectx.ProvRegionExit},
		Left:       c.External,
		Right:      zhegalkin.ToType(purifiedZ),
	}

	var obligations []corectx.Constraint
	for _, o := range nested.Obligations {
		obligations = append(obligations, corectx.Constraint{
			Kind: corectx.ConstraintClass, Loc: o.Loc, ClassSym: o.Sym, Head: o.Head,
		})
	}
	return eq, obligations, nil
}

// resolveClasses checks every deferred Class constraint against classes
// once sub is final. A ground head that finds no instance is an error;
// a head with free variables is returned as a residual Obligation.
func resolveClasses(classQueue []corectx.Constraint, classes *coreinstances.ClassEnv, sub coretypes.Substitution) ([]Obligation, error) {
	var obligations []Obligation
	for _, c := range classQueue {
		head := coretypes.ApplySubst(sub, c.Head)
		if !coretypes.IsGround(head) {
			obligations = append(obligations, Obligation{Sym: c.ClassSym, Head: head, Loc: c.Loc})
			continue
		}
		if _, err := classes.Lookup(c.ClassSym, head); err != nil {
			return nil, coreerrors.MissingImplementation(c.Loc, c.ClassSym, head)
		}
	}
	return obligations, nil
}

// irreducibleAssoc converts a final-round-stuck Equality constraint into
// a diagnostic: if the associated-type argument is ground under sub, the
// clause table genuinely has no match, so it's reported as irreducible;
// otherwise the argument is still open, and the unifier's original
// UnresolvedAssoc error (produced when this constraint was last
// attempted) already describes that precisely.
func irreducibleAssoc(c corectx.Constraint, lastErr *coreunify.Error, sub coretypes.Substitution) error {
	for _, t := range []coretypes.Type{c.Left, c.Right} {
		a, ok := coretypes.ApplySubst(sub, t).(*coretypes.AssocType)
		if !ok {
			continue
		}
		arg := coretypes.ApplySubst(sub, a.Arg)
		if coretypes.IsGround(arg) {
			return coreerrors.IrreducibleAssocType(c.Loc, a.Sym, arg)
		}
	}
	if lastErr != nil {
		return lastErr
	}
	return coreerrors.UnsupportedEquality(c.Loc, c.Left, c.Right)
}
