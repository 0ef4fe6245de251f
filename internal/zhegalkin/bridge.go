package zhegalkin

import (
	"github.com/axion-lang/coreinfer/internal/corekind"
	"github.com/axion-lang/coreinfer/internal/coretypes"
)

func effectKind() corekind.Kind { return corekind.Effect{} }

func effectArrow1() corekind.Kind {
	return corekind.Arrow{From: corekind.Effect{}, To: corekind.Effect{}}
}

func effectArrow2() corekind.Kind {
	return corekind.Arrow{From: corekind.Effect{}, To: effectArrow1()}
}

// FromType lowers an effect-kinded type term into Zhegalkin normal form.
// Only the Cst shapes spec.md §3 assigns Effect/Bool kind are recognized
// here (Pure, Impure, effect symbols, And/Or/Not); anything else (a Var,
// an unresolved associated type, …) is treated as an opaque variable or
// lifted structurally. Aliases are unfolded first so formulas written
// through a type alias normalize identically to their expansion.
func FromType(t coretypes.Type) Zhegalkin {
	t = coretypes.Unfold(t)
	switch n := t.(type) {
	case *coretypes.Var:
		return FromVar(n.ID)
	case *coretypes.Cst:
		switch n.Tag {
		case coretypes.TagPure:
			return Zero()
		case coretypes.TagImpure:
			return Universe()
		case coretypes.TagEffectSym:
			return FromCst(SingletonCst(n.Sym))
		}
	case *coretypes.Apply:
		if head, arg1, arg2, ok := binaryApply(n); ok {
			switch head.Tag {
			case coretypes.TagAnd:
				return MkInter(FromType(arg1), FromType(arg2))
			case coretypes.TagOr:
				return MkUnion(FromType(arg1), FromType(arg2))
			}
		}
		if head, arg, ok := unaryApply(n); ok && head.Tag == coretypes.TagNot {
			return MkNot(FromType(arg))
		}
	}
	return FromVar(coretypes.NextVarID())
}

func unaryApply(a *coretypes.Apply) (*coretypes.Cst, coretypes.Type, bool) {
	if c, ok := a.Head.(*coretypes.Cst); ok {
		return c, a.Arg, true
	}
	return nil, nil, false
}

func binaryApply(a *coretypes.Apply) (*coretypes.Cst, coretypes.Type, coretypes.Type, bool) {
	inner, ok := a.Head.(*coretypes.Apply)
	if !ok {
		return nil, nil, nil, false
	}
	c, ok := inner.Head.(*coretypes.Cst)
	if !ok {
		return nil, nil, nil, false
	}
	return c, inner.Arg, a.Arg, true
}

// ToType lifts a canonical Zhegalkin polynomial back into a type term, for
// attaching to a solved TypedAST node or reporting in an error message.
// The result is built purely from Cst/Apply/Var nodes so it round-trips
// through FromType.
func ToType(z Zhegalkin) coretypes.Type {
	if z.IsZero() {
		return &coretypes.Cst{Tag: coretypes.TagPure, Kind: effectKind()}
	}
	var acc coretypes.Type
	for i, t := range z.Terms {
		term := termToType(t)
		if i == 0 {
			acc = term
			continue
		}
		acc = orApply(acc, term)
	}
	return acc
}

func termToType(t Term) coretypes.Type {
	var acc coretypes.Type
	if t.Const.IsUniverse() && len(t.Vars) > 0 {
		acc = nil
	} else {
		acc = constToType(t.Const)
	}
	for _, v := range t.Vars {
		vt := &coretypes.Var{ID: v, Kind: effectKind()}
		if acc == nil {
			acc = vt
			continue
		}
		acc = andApply(acc, vt)
	}
	return acc
}

func constToType(c Cst) coretypes.Type {
	if c.IsZero() {
		return &coretypes.Cst{Tag: coretypes.TagPure, Kind: effectKind()}
	}
	if c.IsUniverse() {
		return &coretypes.Cst{Tag: coretypes.TagImpure, Kind: effectKind()}
	}
	var acc coretypes.Type
	for _, s := range c.Syms {
		sym := &coretypes.Cst{Tag: coretypes.TagEffectSym, Sym: s, Kind: effectKind()}
		if acc == nil {
			acc = sym
			continue
		}
		acc = orApply(acc, sym)
	}
	if c.Complement {
		acc = notApply(acc)
	}
	return acc
}

func andApply(l, r coretypes.Type) coretypes.Type {
	return &coretypes.Apply{Head: &coretypes.Apply{Head: &coretypes.Cst{Tag: coretypes.TagAnd, Kind: effectArrow2()}, Arg: l}, Arg: r}
}

func orApply(l, r coretypes.Type) coretypes.Type {
	return &coretypes.Apply{Head: &coretypes.Apply{Head: &coretypes.Cst{Tag: coretypes.TagOr, Kind: effectArrow2()}, Arg: l}, Arg: r}
}

func notApply(a coretypes.Type) coretypes.Type {
	return &coretypes.Apply{Head: &coretypes.Cst{Tag: coretypes.TagNot, Kind: effectArrow1()}, Arg: a}
}
