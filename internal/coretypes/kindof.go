package coretypes

import "github.com/axion-lang/coreinfer/internal/corekind"

// KindOf infers the kind of a type term. For Cst nodes the kind is
// determined by the constructor tag; for Apply nodes it is the result
// kind of the head's arrow kind (the caller/unifier is responsible for
// checking the argument's kind lines up, per spec.md §4.1).
func KindOf(t Type) corekind.Kind {
	switch n := t.(type) {
	case *Var:
		return n.Kind
	case *Cst:
		return cstKind(n)
	case *Apply:
		if arrow, ok := KindOf(n.Head).(corekind.Arrow); ok {
			return arrow.To
		}
		return corekind.Unbound{}
	case *Alias:
		return KindOf(Unfold(n))
	case *AssocType:
		return n.Kind
	case *JvmToType:
		return corekind.Star{}
	case *JvmToEff:
		return corekind.Effect{}
	case *UnresolvedJvmType:
		return corekind.Unbound{}
	default:
		return corekind.Unbound{}
	}
}

func cstKind(c *Cst) corekind.Kind {
	switch c.Tag {
	case TagRecordEmpty, TagRecordExtend:
		return corekind.Record{}
	case TagSchemaEmpty, TagSchemaExtend, TagRelation, TagLattice:
		return corekind.Schema{}
	case TagPure, TagImpure, TagEffectSym:
		return corekind.Effect{}
	case TagAnd, TagOr, TagNot:
		return corekind.Bool{}
	case TagEnum:
		if c.Kind != nil {
			return c.Kind
		}
		return corekind.Star{}
	case TagArrow:
		// Curried arrow: arity N arguments, then an effect slot, then the
		// result. KindOf on the *uninstantiated* Arrow constructor reports
		// Star for simplicity; the generator always builds a fully-applied
		// Apply chain before KindOf is queried on a function value, so this
		// path is only hit for the bare (unapplied) constructor, which has
		// no observable kind distinction from Star in this model.
		return corekind.Star{}
	default:
		return corekind.Star{}
	}
}
