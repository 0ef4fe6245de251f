package coreinstances

import (
	"fmt"
	"sort"

	"github.com/axion-lang/coreinfer/internal/coreast"
	"github.com/axion-lang/coreinfer/internal/coretypes"
)

// AssocClause is one definitional equation of an associated type, e.g.
// `type Aef[List[a]] = Pure` within `instance Collection[List]`. Pattern
// is matched against a use site's argument the same way ClassEnv matches
// an instance head: by outermost constructor, ignoring nested variables.
type AssocClause struct {
	Sym     coreast.Symbol
	Pattern coretypes.Type
	Result  coretypes.Type
	Loc     coreast.Loc
}

// AssocEnv holds the definitional clauses of every associated type,
// grouped by symbol. Unlike ClassEnv, multiple clauses are expected (one
// per covering instance) and are reduced by most-general match: the first
// clause whose pattern head matches the query argument's head wins, in
// declaration order, mirroring the deterministic first-match-wins
// semantics required by spec.md §4.3 rule 6.
type AssocEnv struct {
	clauses map[string][]*AssocClause
}

// NewAssocEnv returns an empty associated-type environment.
func NewAssocEnv() *AssocEnv {
	return &AssocEnv{clauses: make(map[string][]*AssocClause)}
}

// Add registers a new clause for sym, appended after any existing clauses
// for the same symbol.
func (env *AssocEnv) Add(clause *AssocClause) {
	env.clauses[clause.Sym.String()] = append(env.clauses[clause.Sym.String()], clause)
}

// UnresolvedAssocError reports that no clause's pattern matches the
// argument at the associated-type use site, so the AssocType node cannot
// be reduced yet (spec.md §4.3 rule 6's "residual constraint" fallback).
type UnresolvedAssocError struct {
	Sym coreast.Symbol
	Arg coretypes.Type
}

func (e *UnresolvedAssocError) Error() string {
	return fmt.Sprintf("cannot reduce %s[%s]: no matching instance clause", e.Sym, e.Arg)
}

// Reduce looks up the clause whose pattern head matches arg's head and
// returns its result type (with the pattern's own type variables
// substituted away by unifying pattern against arg structurally). If
// arg's head is itself a variable (not yet known), reduction is
// necessarily deferred: the caller gets UnresolvedAssocError and must
// retain the AssocType as a residual constraint rather than guessing.
func (env *AssocEnv) Reduce(sym coreast.Symbol, arg coretypes.Type) (coretypes.Type, error) {
	clauses := env.clauses[sym.String()]
	argHead := headKey(arg)
	if argHead == "_" {
		return nil, &UnresolvedAssocError{Sym: sym, Arg: arg}
	}
	for _, clause := range clauses {
		if headKey(clause.Pattern) != argHead {
			continue
		}
		sub, ok := matchPattern(clause.Pattern, arg)
		if !ok {
			continue
		}
		return coretypes.ApplySubst(sub, clause.Result), nil
	}
	return nil, &UnresolvedAssocError{Sym: sym, Arg: arg}
}

// matchPattern structurally matches a clause's pattern (whose own type
// variables are schematic) against a concrete argument, returning the
// substitution binding the pattern's variables. Only the shapes that can
// appear in an instance head (Cst, Apply chains over Var leaves) are
// handled; anything else fails to match, deferring the reduction.
func matchPattern(pattern, arg coretypes.Type) (coretypes.Substitution, bool) {
	sub := coretypes.Substitution{}
	if !matchInto(pattern, arg, sub) {
		return nil, false
	}
	return sub, true
}

func matchInto(pattern, arg coretypes.Type, sub coretypes.Substitution) bool {
	pattern, arg = coretypes.Unfold(pattern), coretypes.Unfold(arg)
	switch p := pattern.(type) {
	case *coretypes.Var:
		if existing, ok := sub[p.ID]; ok {
			return coretypes.Equals(existing, arg)
		}
		sub[p.ID] = arg
		return true
	case *coretypes.Cst:
		a, ok := arg.(*coretypes.Cst)
		return ok && p.Equal(a)
	case *coretypes.Apply:
		a, ok := arg.(*coretypes.Apply)
		if !ok {
			return false
		}
		return matchInto(p.Head, a.Head, sub) && matchInto(p.Arg, a.Arg, sub)
	default:
		return coretypes.Equals(pattern, arg)
	}
}

// All returns every clause across every symbol, sorted for determinism.
func (env *AssocEnv) All() []*AssocClause {
	var out []*AssocClause
	for _, cs := range env.clauses {
		out = append(out, cs...)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Sym.String() != out[j].Sym.String() {
			return out[i].Sym.String() < out[j].Sym.String()
		}
		return headKey(out[i].Pattern) < headKey(out[j].Pattern)
	})
	return out
}
