// Package coretypes is the immutable type-term model shared by the
// unifier, constraint generator, and typed-AST rewrite pass. It implements
// spec.md §3/§4.1: a tagged immutable tree, alias transparency, and
// host-interop placeholders that reduce only when ground.
//
// Grounded on internal/types/types_v2.go's TVar2/Row/TFunc2/TRecord2
// family (per-node Equals/Substitute/GetKind methods), generalized from a
// fixed set of concrete constructors to the full spec.md §3 constructor
// list via a single tagged Cst node plus Apply for curried application.
package coretypes

import (
	"fmt"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/axion-lang/coreinfer/internal/coreast"
	"github.com/axion-lang/coreinfer/internal/corekind"
)

// VarID is a globally unique, monotonically assigned type/effect variable
// identity. Using integer identity (rather than name strings, as the
// teacher does) makes substitution capture-free by construction even
// across the parallel-per-definition workers of spec.md §5.
type VarID uint64

var varCounter uint64

// NextVarID returns a fresh, process-wide unique variable identity. Safe
// to call concurrently from multiple per-definition workers.
func NextVarID() VarID {
	return VarID(atomic.AddUint64(&varCounter, 1))
}

// Type is the closed sum of type terms (spec.md §3). Variants are
// distinguished by the unexported typeNode marker, mirroring the
// teacher's Type-interface-plus-marker-method sum-type idiom.
type Type interface {
	typeNode()
	String() string
}

// Var is a type or effect variable. Rigidity is authoritatively tracked by
// the enclosing corectx.Context's rigidity environment; the Rigid field
// here is an informational snapshot taken at creation time (set by
// NewRigidVar, false for NewVar) so that a Var value printed or hashed in isolation still
// carries enough information for error messages.
type Var struct {
	ID      VarID
	Kind    corekind.Kind
	Rigid   bool
	Level   int
	Display string // optional, used only for error rendering
}

func (*Var) typeNode() {}
func (v *Var) String() string {
	if v.Display != "" {
		return v.Display
	}
	prefix := "t"
	if v.Rigid {
		prefix = "r"
	}
	return fmt.Sprintf("%s%d", prefix, v.ID)
}

// NewVar allocates a fresh flexible variable at the given kind and level.
func NewVar(k corekind.Kind, level int) *Var {
	return &Var{ID: NextVarID(), Kind: k, Level: level}
}

// NewRigidVar allocates a fresh rigid (skolem) variable, e.g. for region
// entry or explicit quantifier instantiation-by-rigidification.
func NewRigidVar(k corekind.Kind, level int, display string) *Var {
	return &Var{ID: NextVarID(), Kind: k, Level: level, Rigid: true, Display: display}
}

// CstTag enumerates the nullary/fixed-arity type constructors of spec.md
// §3. Arity-bearing constructors (Arrow, Tuple) carry their arity in the
// Cst.Arity field; label-bearing ones (RecordExtend, SchemaExtend) carry
// it in Cst.Label; symbol-bearing ones (Enum, EffectSym) carry it in
// Cst.Sym.
type CstTag int

const (
	TagUnit CstTag = iota
	TagBool
	TagInt8
	TagInt16
	TagInt32
	TagInt64
	TagFloat32
	TagFloat64
	TagBigInt
	TagString
	TagChar
	TagRecordEmpty
	TagSchemaEmpty
	TagArrow       // arity N, carries N args + 1 effect + 1 return when applied
	TagTuple       // arity N
	TagEnum        // carries Sym + Kind
	TagRecordExtend // carries Label
	TagSchemaExtend // carries Label
	TagRelation
	TagLattice
	TagEffectSym // carries Sym: a nullary effect constant
	TagPure
	TagImpure
	TagAnd
	TagOr
	TagNot
)

var cstTagNames = map[CstTag]string{
	TagUnit: "Unit", TagBool: "Bool", TagInt8: "Int8", TagInt16: "Int16",
	TagInt32: "Int32", TagInt64: "Int64", TagFloat32: "Float32", TagFloat64: "Float64",
	TagBigInt: "BigInt", TagString: "String", TagChar: "Char",
	TagRecordEmpty: "{}", TagSchemaEmpty: "#{}", TagArrow: "->", TagTuple: "Tuple",
	TagEnum: "Enum", TagRecordExtend: "RecordExtend", TagSchemaExtend: "SchemaExtend",
	TagRelation: "Relation", TagLattice: "Lattice", TagEffectSym: "Eff",
	TagPure: "Pure", TagImpure: "Impure", TagAnd: "and", TagOr: "or", TagNot: "not",
}

func (t CstTag) String() string {
	if s, ok := cstTagNames[t]; ok {
		return s
	}
	return "?"
}

// Cst is a nullary or fixed-shape type constructor.
type Cst struct {
	Tag   CstTag
	Arity int           // Arrow, Tuple
	Label string        // RecordExtend, SchemaExtend
	Sym   coreast.Symbol // Enum, EffectSym
	Kind  corekind.Kind  // Enum's declared kind
}

func (*Cst) typeNode() {}
func (c *Cst) String() string {
	switch c.Tag {
	case TagArrow:
		return fmt.Sprintf("Arrow/%d", c.Arity)
	case TagTuple:
		return fmt.Sprintf("Tuple/%d", c.Arity)
	case TagEnum:
		return c.Sym.String()
	case TagRecordExtend, TagSchemaExtend:
		return fmt.Sprintf("%s(%s)", c.Tag, c.Label)
	case TagEffectSym:
		return c.Sym.Name
	default:
		return c.Tag.String()
	}
}

// Equal reports syntactic equality of two Cst nodes (same tag and same
// discriminating payload).
func (c *Cst) Equal(o *Cst) bool {
	if c.Tag != o.Tag {
		return false
	}
	switch c.Tag {
	case TagArrow, TagTuple:
		return c.Arity == o.Arity
	case TagRecordExtend, TagSchemaExtend:
		return c.Label == o.Label
	case TagEnum:
		return c.Sym == o.Sym && c.Kind.Equals(o.Kind)
	case TagEffectSym:
		return c.Sym == o.Sym
	default:
		return true
	}
}

// Apply is curried type application; kinds must line up at unification
// time. Head is applied to exactly one Arg; n-ary application is chained.
type Apply struct {
	Head Type
	Arg  Type
	Loc  coreast.Loc
}

func (*Apply) typeNode() {}
func (a *Apply) String() string {
	return fmt.Sprintf("%s[%s]", a.Head, a.Arg)
}

// Alias is a named abbreviation. It is structurally equal to its
// Expansion and is always unfolded on demand for equality/unification;
// the alias itself is retained only so error messages can show the name
// the user actually wrote.
type Alias struct {
	Sym       coreast.Symbol
	Args      []Type
	Expansion Type
	Loc       coreast.Loc
}

func (*Alias) typeNode() {}
func (a *Alias) String() string {
	if len(a.Args) == 0 {
		return a.Sym.String()
	}
	parts := make([]string, len(a.Args))
	for i, arg := range a.Args {
		parts[i] = arg.String()
	}
	return fmt.Sprintf("%s[%s]", a.Sym, strings.Join(parts, ", "))
}

// MkArrow builds a single-argument function type `param -eff-> result`, the
// arity-1 Arrow constructor fully applied to its three slots (spec.md §3's
// curried Arrow). Multi-argument functions are curried chains built by
// nesting MkArrow, mirroring how Apply itself only ever takes one Arg.
func MkArrow(param, eff, result Type) Type {
	return &Apply{Head: &Apply{Head: &Apply{Head: &Cst{Tag: TagArrow, Arity: 1}, Arg: param}, Arg: eff}, Arg: result}
}

// SplitArrow decomposes a fully-applied arity-1 Arrow application back into
// its param/eff/result slots, reporting ok=false if t is not one (after
// unfolding aliases).
func SplitArrow(t Type) (param, eff, result Type, ok bool) {
	t = Unfold(t)
	a3, ok := t.(*Apply)
	if !ok {
		return nil, nil, nil, false
	}
	a2, ok := a3.Head.(*Apply)
	if !ok {
		return nil, nil, nil, false
	}
	a1, ok := a2.Head.(*Apply)
	if !ok {
		return nil, nil, nil, false
	}
	c, ok := a1.Head.(*Cst)
	if !ok || c.Tag != TagArrow || c.Arity != 1 {
		return nil, nil, nil, false
	}
	return a1.Arg, a2.Arg, a3.Arg, true
}

// Unfold returns t with every layer of Alias wrapping removed (aliases may
// chain), or t unchanged if it is not an Alias.
func Unfold(t Type) Type {
	for {
		a, ok := t.(*Alias)
		if !ok {
			return t
		}
		t = a.Expansion
	}
}

// AssocType is an unreduced associated-type invocation, e.g. `Aef[Int]`.
// It reduces against coreinstances.AssocEnv during unification; see
// spec.md §4.3 rule 6.
type AssocType struct {
	Sym  coreast.Symbol
	Arg  Type
	Kind corekind.Kind
	Loc  coreast.Loc
}

func (*AssocType) typeNode() {}
func (a *AssocType) String() string {
	return fmt.Sprintf("%s[%s]", a.Sym, a.Arg)
}

// JvmToType/JvmToEff/UnresolvedJvmType model host-interop types. Per
// spec.md §4.1 they reduce to their ground form only when their argument
// is ground (variable-free); otherwise they are opaque rigid constructors
// that unify only by identity (reusing Cst-style equality via their
// string form, since the "identity" here is the host type descriptor).
type JvmToType struct {
	Tpe Type
	Loc coreast.Loc
}

func (*JvmToType) typeNode() {}
func (j *JvmToType) String() string { return fmt.Sprintf("JvmToType(%s)", j.Tpe) }

type JvmToEff struct {
	Tpe Type
	Loc coreast.Loc
}

func (*JvmToEff) typeNode() {}
func (j *JvmToEff) String() string { return fmt.Sprintf("JvmToEff(%s)", j.Tpe) }

type UnresolvedJvmType struct {
	Member string
	Loc    coreast.Loc
}

func (*UnresolvedJvmType) typeNode() {}
func (u *UnresolvedJvmType) String() string { return fmt.Sprintf("JvmUnresolved(%s)", u.Member) }

// IsGround reports whether t contains no free type/effect variables.
func IsGround(t Type) bool {
	return len(FreeVars(t)) == 0
}

// FreeVars collects the set of free variable identities occurring in t.
func FreeVars(t Type) map[VarID]struct{} {
	out := make(map[VarID]struct{})
	collectFreeVars(t, out)
	return out
}

func collectFreeVars(t Type, out map[VarID]struct{}) {
	switch n := t.(type) {
	case *Var:
		out[n.ID] = struct{}{}
	case *Cst:
		// no variables
	case *Apply:
		collectFreeVars(n.Head, out)
		collectFreeVars(n.Arg, out)
	case *Alias:
		for _, a := range n.Args {
			collectFreeVars(a, out)
		}
		collectFreeVars(n.Expansion, out)
	case *AssocType:
		collectFreeVars(n.Arg, out)
	case *JvmToType:
		collectFreeVars(n.Tpe, out)
	case *JvmToEff:
		collectFreeVars(n.Tpe, out)
	case *UnresolvedJvmType:
		// no variables
	}
}

// Equals reports syntactic (not semantic-effect-equivalence) equality,
// unfolding aliases transparently.
func Equals(a, b Type) bool {
	a, b = Unfold(a), Unfold(b)
	switch x := a.(type) {
	case *Var:
		y, ok := b.(*Var)
		return ok && x.ID == y.ID
	case *Cst:
		y, ok := b.(*Cst)
		return ok && x.Equal(y)
	case *Apply:
		y, ok := b.(*Apply)
		return ok && Equals(x.Head, y.Head) && Equals(x.Arg, y.Arg)
	case *AssocType:
		y, ok := b.(*AssocType)
		return ok && x.Sym == y.Sym && Equals(x.Arg, y.Arg)
	case *JvmToType:
		y, ok := b.(*JvmToType)
		return ok && Equals(x.Tpe, y.Tpe)
	case *JvmToEff:
		y, ok := b.(*JvmToEff)
		return ok && Equals(x.Tpe, y.Tpe)
	case *UnresolvedJvmType:
		y, ok := b.(*UnresolvedJvmType)
		return ok && x.Member == y.Member
	default:
		return false
	}
}

// SortedVarIDs is a small helper used throughout coreunify/zhegalkin to
// get a deterministic elimination/iteration order (spec.md §4.2's
// canonical-per-equivalence-class requirement).
func SortedVarIDs(ids map[VarID]struct{}) []VarID {
	out := make([]VarID, 0, len(ids))
	for id := range ids {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
