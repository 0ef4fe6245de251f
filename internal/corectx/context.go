// Package corectx implements the per-definition mutable typing context
// (spec.md §4.4): a stack of region-scoped constraint buffers, a
// rigidity environment, and a generalization-level counter. Exactly one
// Context exists per top-level definition and is never shared across the
// parallel per-definition workers of spec.md §5 — it is the unit of
// isolation that makes that concurrency model safe without locking.
//
// Grounded on the teacher's pattern of threading an explicit environment
// value rather than relying on global mutable state (internal/types/env.go's
// TypeEnv), generalized here from an immutable parent-chained environment
// to a single mutable owner, because the constraint buffers this package
// manages must accumulate and later drain by region, which persistent
// extension cannot express.
package corectx

import (
	"fmt"

	"github.com/axion-lang/coreinfer/internal/coreast"
	"github.com/axion-lang/coreinfer/internal/corekind"
	"github.com/axion-lang/coreinfer/internal/coretypes"
)

// ProvenanceKind classifies why a constraint was generated, so an error
// renderer can explain a failure in terms the source author wrote rather
// than in terms of the underlying unification step.
type ProvenanceKind int

const (
	ProvUnify ProvenanceKind = iota
	ProvExpectType
	ProvCallArgument
	ProvRegionExit
	ProvPatternMatch
)

// Provenance records why a constraint exists.
type Provenance struct {
	Kind      ProvenanceKind
	CallSym   coreast.Symbol // ProvCallArgument only
	CallIndex int            // ProvCallArgument only
}

// ConstraintKind distinguishes the three constraint shapes spec.md §4.4
// accumulates: Equality (feeds the unifier directly), Class (deferred
// instance entailment), and Purification (deferred region-exit effect
// collapse).
type ConstraintKind int

const (
	ConstraintEquality ConstraintKind = iota
	ConstraintClass
	ConstraintPurification
)

// Constraint is a single accumulated typing obligation. Which fields are
// meaningful depends on Kind: Equality uses Left/Right; Class uses
// ClassSym/Head; Purification uses Region/External/Internal/Level/Nested.
type Constraint struct {
	Kind       ConstraintKind
	Loc        coreast.Loc
	Provenance Provenance

	Left, Right coretypes.Type // Equality

	ClassSym coreast.Symbol // Class
	Head     coretypes.Type // Class

	Region   coretypes.VarID  // Purification: the region's rigid effect variable
	External coretypes.Type   // Purification: effect observed outside the region
	Internal coretypes.Type   // Purification: effect observed inside the region
	Level    int              // Purification: the level the region was entered at
	Nested   []Constraint     // Purification: the region's own constraint buffer
}

// ClassConstraintSpec is one instantiated class constraint to push via
// AddClassConstraints, e.g. the `Ord[a]` obligation instantiated at a
// call to a polymorphic comparison function.
type ClassConstraintSpec struct {
	Sym  coreast.Symbol
	Head coretypes.Type
}

type regionFrame struct {
	region      coretypes.VarID // zero when this is the outermost, region-less frame
	constraints []Constraint
}

// Context is the mutable per-definition typing state.
type Context struct {
	regions []*regionFrame
	rigid   map[coretypes.VarID]struct{}
	level   int
}

// New returns a fresh context with one empty, region-less buffer.
func New() *Context {
	return &Context{
		regions: []*regionFrame{{}},
		rigid:   make(map[coretypes.VarID]struct{}),
	}
}

// Level returns the current generalization level.
func (c *Context) Level() int { return c.level }

// IsRigid reports whether id has been rigidified, either by EnterRegion
// or by an explicit Rigidify call (e.g. skolemizing an ascription's
// universally quantified variables).
func (c *Context) IsRigid(id coretypes.VarID) bool {
	_, ok := c.rigid[id]
	return ok
}

// RigidSet returns every variable ID rigidified over this Context's
// lifetime. The solver needs this set too: coreunify.Unify must refuse to
// bind a rigid variable to anything but itself, and a Context's rigid set
// is exactly the information coreunify has no other way to reconstruct
// (unification sees only coretypes.Type values, which carry no rigidity
// flag of their own).
func (c *Context) RigidSet() map[coretypes.VarID]struct{} {
	return c.rigid
}

// Rigidify marks id as rigid.
func (c *Context) Rigidify(id coretypes.VarID) {
	c.rigid[id] = struct{}{}
}

func (c *Context) top() *regionFrame { return c.regions[len(c.regions)-1] }

// EnterRegion pushes a fresh constraint buffer tagged with a newly
// allocated rigid effect variable and increments the level, returning the
// region's identity so the caller can type its body against it.
func (c *Context) EnterRegion() coretypes.VarID {
	sym := coretypes.NewRigidVar(corekind.Effect{}, c.level+1, "")
	c.rigid[sym.ID] = struct{}{}
	c.level++
	c.regions = append(c.regions, &regionFrame{region: sym.ID})
	return sym.ID
}

// ExitRegion pops the current buffer, requiring it to have been opened by
// EnterRegion, and emits a Purification constraint into the parent buffer
// relating the externally observed effect to the internal one with the
// region variable purified to Pure.
func (c *Context) ExitRegion(external, internal coretypes.Type, loc coreast.Loc) error {
	if len(c.regions) < 2 {
		return fmt.Errorf("corectx: ExitRegion without a matching EnterRegion")
	}
	frame := c.top()
	if frame.region == 0 {
		return fmt.Errorf("corectx: current buffer is not a region")
	}
	c.regions = c.regions[:len(c.regions)-1]
	parent := c.top()
	parent.constraints = append(parent.constraints, Constraint{
		Kind:       ConstraintPurification,
		Loc:        loc,
		Provenance: Provenance{Kind: ProvRegionExit},
		Region:     frame.region,
		External:   external,
		Internal:   internal,
		Level:      c.level,
		Nested:     frame.constraints,
	})
	c.level--
	return nil
}

// UnifyType pushes a plain Equality constraint between a and b.
func (c *Context) UnifyType(a, b coretypes.Type, loc coreast.Loc) {
	c.push(Constraint{Kind: ConstraintEquality, Loc: loc, Provenance: Provenance{Kind: ProvUnify}, Left: a, Right: b})
}

// ExpectType pushes an Equality constraint carrying ExpectType provenance,
// used at ascriptions where the diagnostic should read "expected τ, got
// the inferred type" rather than a generic unification failure.
func (c *Context) ExpectType(expected, actual coretypes.Type, loc coreast.Loc) {
	c.push(Constraint{Kind: ConstraintEquality, Loc: loc, Provenance: Provenance{Kind: ProvExpectType}, Left: expected, Right: actual})
}

// ExpectTypeArguments zips expected and actual positionally, pushing one
// Equality constraint per position with CallArgument provenance identifying
// the callee symbol and argument index. It returns an error if the two
// slices have different lengths (an arity mismatch the caller should
// report before any position-level diagnostics are produced).
func (c *Context) ExpectTypeArguments(sym coreast.Symbol, expected, actual []coretypes.Type, locs []coreast.Loc, fallback coreast.Loc) error {
	if len(expected) != len(actual) {
		return fmt.Errorf("corectx: %s expects %d arguments, got %d", sym, len(expected), len(actual))
	}
	for i := range expected {
		loc := fallback
		if i < len(locs) {
			loc = locs[i]
		}
		c.push(Constraint{
			Kind:       ConstraintEquality,
			Loc:        loc,
			Provenance: Provenance{Kind: ProvCallArgument, CallSym: sym, CallIndex: i},
			Left:       expected[i],
			Right:      actual[i],
		})
	}
	return nil
}

// AddClassConstraints pushes one Class constraint per spec, all sharing loc
// (the call site that instantiated them).
func (c *Context) AddClassConstraints(specs []ClassConstraintSpec, loc coreast.Loc) {
	for _, spec := range specs {
		c.push(Constraint{Kind: ConstraintClass, Loc: loc, ClassSym: spec.Sym, Head: spec.Head})
	}
}

func (c *Context) push(constraint Constraint) {
	c.top().constraints = append(c.top().constraints, constraint)
}

// Finish drains the outermost buffer, returning an error if any region is
// still open — the solver requires the buffer stack to be empty at the
// end of a definition.
func (c *Context) Finish() ([]Constraint, error) {
	if len(c.regions) != 1 {
		return nil, fmt.Errorf("corectx: %d region(s) still open at end of definition", len(c.regions)-1)
	}
	return c.regions[0].constraints, nil
}
