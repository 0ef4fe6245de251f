package coreunify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axion-lang/coreinfer/internal/coreast"
	"github.com/axion-lang/coreinfer/internal/coreerrors"
	"github.com/axion-lang/coreinfer/internal/coreinstances"
	"github.com/axion-lang/coreinfer/internal/corekind"
	"github.com/axion-lang/coreinfer/internal/coretypes"
	"github.com/axion-lang/coreinfer/internal/zhegalkin"
)

func newUnifier() *Unifier {
	return New(coreinstances.NewAssocEnv(), zhegalkin.NewCache(), nil)
}

func intCst() coretypes.Type { return &coretypes.Cst{Tag: coretypes.TagInt32} }
func strCst() coretypes.Type { return &coretypes.Cst{Tag: coretypes.TagString} }

func TestUnifyIdenticalConstants(t *testing.T) {
	u := newUnifier()
	sub, err := u.Unify(intCst(), intCst(), coretypes.Substitution{}, coreast.Loc{})
	require.NoError(t, err)
	assert.Empty(t, sub)
}

func TestUnifyMismatchedConstants(t *testing.T) {
	u := newUnifier()
	_, err := u.Unify(intCst(), strCst(), coretypes.Substitution{}, coreast.Loc{})
	require.Error(t, err)
	var uerr *Error
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, ConstructorMismatch, uerr.Kind)
}

func TestUnifyVariableBinds(t *testing.T) {
	u := newUnifier()
	v := coretypes.NewVar(corekind.Star{}, 0)
	sub, err := u.Unify(v, intCst(), coretypes.Substitution{}, coreast.Loc{})
	require.NoError(t, err)
	bound, ok := sub.Lookup(v.ID)
	require.True(t, ok)
	assert.True(t, coretypes.Equals(bound, intCst()))
}

func TestUnifyOccursCheck(t *testing.T) {
	u := newUnifier()
	v := coretypes.NewVar(corekind.Star{}, 0)
	listOfV := &coretypes.Apply{Head: &coretypes.Cst{Tag: coretypes.TagEnum, Sym: coreast.Symbol{Name: "List"}}, Arg: v}

	_, err := u.Unify(v, listOfV, coretypes.Substitution{}, coreast.Loc{})
	require.Error(t, err)
	var uerr *Error
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, OccursCheck, uerr.Kind)
}

func TestUnifyApplyChainRecurses(t *testing.T) {
	u := newUnifier()
	listCst := &coretypes.Cst{Tag: coretypes.TagEnum, Sym: coreast.Symbol{Name: "List"}}
	v := coretypes.NewVar(corekind.Star{}, 0)
	lhs := &coretypes.Apply{Head: listCst, Arg: v}
	rhs := &coretypes.Apply{Head: listCst, Arg: intCst()}

	sub, err := u.Unify(lhs, rhs, coretypes.Substitution{}, coreast.Loc{})
	require.NoError(t, err)
	bound, ok := sub.Lookup(v.ID)
	require.True(t, ok)
	assert.True(t, coretypes.Equals(bound, intCst()))
}

func TestUnifyArityMismatchOnApplyDepth(t *testing.T) {
	u := newUnifier()
	listCst := &coretypes.Cst{Tag: coretypes.TagEnum, Sym: coreast.Symbol{Name: "List"}}
	lhs := &coretypes.Apply{Head: listCst, Arg: intCst()}
	rhs := listCst // bare constructor, not applied

	_, err := u.Unify(lhs, rhs, coretypes.Substitution{}, coreast.Loc{})
	require.Error(t, err)
}

func pureT() coretypes.Type    { return &coretypes.Cst{Tag: coretypes.TagPure} }
func impureT() coretypes.Type  { return &coretypes.Cst{Tag: coretypes.TagImpure} }

func TestUnifyEffectVariableSolvesToPure(t *testing.T) {
	u := newUnifier()
	v := coretypes.NewVar(corekind.Effect{}, 0)
	sub, err := u.Unify(v, pureT(), coretypes.Substitution{}, coreast.Loc{})
	require.NoError(t, err)
	bound, ok := sub.Lookup(v.ID)
	require.True(t, ok)
	assert.True(t, zhegalkin.FromType(bound).IsZero())
}

func TestUnifyEffectMismatchFails(t *testing.T) {
	u := newUnifier()
	_, err := u.Unify(pureT(), impureT(), coretypes.Substitution{}, coreast.Loc{})
	require.Error(t, err)
}

func TestUnifyAssocUnresolvedOnVariableArgument(t *testing.T) {
	u := newUnifier()
	aef := coreast.Symbol{Name: "Aef"}
	assoc := &coretypes.AssocType{Sym: aef, Arg: coretypes.NewVar(corekind.Star{}, 0), Kind: corekind.Effect{}}

	_, err := u.Unify(assoc, pureT(), coretypes.Substitution{}, coreast.Loc{})
	require.Error(t, err)
	var uerr *Error
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, UnresolvedAssoc, uerr.Kind)
}

func TestUnifyAssocReducesAgainstClause(t *testing.T) {
	assoc := coreinstances.NewAssocEnv()
	aef := coreast.Symbol{Name: "Aef"}
	listCst := &coretypes.Cst{Tag: coretypes.TagEnum, Sym: coreast.Symbol{Name: "List"}}
	assoc.Add(&coreinstances.AssocClause{Sym: aef, Pattern: listCst, Result: pureT()})

	u := New(assoc, zhegalkin.NewCache(), nil)
	use := &coretypes.AssocType{Sym: aef, Arg: listCst, Kind: corekind.Effect{}}
	sub, err := u.Unify(use, pureT(), coretypes.Substitution{}, coreast.Loc{})
	require.NoError(t, err)
	assert.Empty(t, sub)
}

func TestUnifyDistinctRigidVariablesFail(t *testing.T) {
	r1 := coretypes.NewRigidVar(corekind.Star{}, 0, "a")
	r2 := coretypes.NewRigidVar(corekind.Star{}, 0, "b")
	rigid := map[coretypes.VarID]struct{}{r1.ID: {}, r2.ID: {}}
	u := New(coreinstances.NewAssocEnv(), zhegalkin.NewCache(), rigid)

	_, err := u.Unify(r1, r2, coretypes.Substitution{}, coreast.Loc{})
	require.Error(t, err)
	var ce *coreerrors.CoreError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, coreerrors.CodeMismatchedTypes, ce.Code)
}

func TestUnifyRigidVariableWithItselfSucceeds(t *testing.T) {
	r1 := coretypes.NewRigidVar(corekind.Star{}, 0, "a")
	rigid := map[coretypes.VarID]struct{}{r1.ID: {}}
	u := New(coreinstances.NewAssocEnv(), zhegalkin.NewCache(), rigid)

	sub, err := u.Unify(r1, r1, coretypes.Substitution{}, coreast.Loc{})
	require.NoError(t, err)
	assert.Empty(t, sub)
}

func TestUnifyRigidVariableAgainstConcreteTypeFails(t *testing.T) {
	r1 := coretypes.NewRigidVar(corekind.Star{}, 0, "a")
	rigid := map[coretypes.VarID]struct{}{r1.ID: {}}
	u := New(coreinstances.NewAssocEnv(), zhegalkin.NewCache(), rigid)

	_, err := u.Unify(r1, intCst(), coretypes.Substitution{}, coreast.Loc{})
	require.Error(t, err)
	var ce *coreerrors.CoreError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, coreerrors.CodeMismatchedTypes, ce.Code)
}

func TestUnifyFlexibleVariableBindsToRigidVariable(t *testing.T) {
	r1 := coretypes.NewRigidVar(corekind.Star{}, 0, "a")
	flex := coretypes.NewVar(corekind.Star{}, 0)
	rigid := map[coretypes.VarID]struct{}{r1.ID: {}}
	u := New(coreinstances.NewAssocEnv(), zhegalkin.NewCache(), rigid)

	sub, err := u.Unify(r1, flex, coretypes.Substitution{}, coreast.Loc{})
	require.NoError(t, err)
	bound, ok := sub.Lookup(flex.ID)
	require.True(t, ok)
	assert.True(t, coretypes.Equals(bound, r1))
}
