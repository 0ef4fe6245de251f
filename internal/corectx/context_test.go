package corectx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axion-lang/coreinfer/internal/coreast"
	"github.com/axion-lang/coreinfer/internal/corekind"
	"github.com/axion-lang/coreinfer/internal/coretypes"
)

func intT() coretypes.Type { return &coretypes.Cst{Tag: coretypes.TagInt32} }

func TestUnifyTypeAccumulatesEquality(t *testing.T) {
	c := New()
	a, b := intT(), coretypes.NewVar(corekind.Star{}, 0)
	c.UnifyType(a, b, coreast.Loc{})

	cs, err := c.Finish()
	require.NoError(t, err)
	require.Len(t, cs, 1)
	assert.Equal(t, ConstraintEquality, cs[0].Kind)
	assert.Equal(t, ProvUnify, cs[0].Provenance.Kind)
}

func TestExpectTypeArgumentsZipsPositionally(t *testing.T) {
	c := New()
	sym := coreast.Symbol{Name: "div"}
	expected := []coretypes.Type{intT(), intT()}
	actual := []coretypes.Type{intT(), coretypes.NewVar(corekind.Star{}, 0)}
	locs := []coreast.Loc{{Line: 1}, {Line: 2}}

	require.NoError(t, c.ExpectTypeArguments(sym, expected, actual, locs, coreast.Loc{}))

	cs, err := c.Finish()
	require.NoError(t, err)
	require.Len(t, cs, 2)
	assert.Equal(t, ProvCallArgument, cs[0].Provenance.Kind)
	assert.Equal(t, sym, cs[0].Provenance.CallSym)
	assert.Equal(t, 0, cs[0].Provenance.CallIndex)
	assert.Equal(t, 1, cs[1].Provenance.CallIndex)
	assert.Equal(t, 2, cs[1].Loc.Line)
}

func TestExpectTypeArgumentsRejectsArityMismatch(t *testing.T) {
	c := New()
	err := c.ExpectTypeArguments(coreast.Symbol{Name: "f"}, []coretypes.Type{intT()}, nil, nil, coreast.Loc{})
	assert.Error(t, err)
}

func TestEnterExitRegionEmitsPurification(t *testing.T) {
	c := New()
	region := c.EnterRegion()
	assert.True(t, c.IsRigid(region))
	assert.Equal(t, 1, c.Level())

	c.UnifyType(intT(), intT(), coreast.Loc{}) // nested constraint inside the region

	external := coretypes.NewVar(corekind.Effect{}, 0)
	internal := coretypes.NewVar(corekind.Effect{}, 1)
	require.NoError(t, c.ExitRegion(external, internal, coreast.Loc{}))
	assert.Equal(t, 0, c.Level())

	cs, err := c.Finish()
	require.NoError(t, err)
	require.Len(t, cs, 1)
	p := cs[0]
	assert.Equal(t, ConstraintPurification, p.Kind)
	assert.Equal(t, region, p.Region)
	assert.Same(t, external, p.External)
	assert.Same(t, internal, p.Internal)
	require.Len(t, p.Nested, 1)
	assert.Equal(t, ConstraintEquality, p.Nested[0].Kind)
}

func TestExitRegionWithoutEnterFails(t *testing.T) {
	c := New()
	err := c.ExitRegion(intT(), intT(), coreast.Loc{})
	assert.Error(t, err)
}

func TestFinishFailsWithOpenRegion(t *testing.T) {
	c := New()
	c.EnterRegion()
	_, err := c.Finish()
	assert.Error(t, err)
}

func TestAddClassConstraints(t *testing.T) {
	c := New()
	ordSym := coreast.Symbol{Name: "Ord"}
	c.AddClassConstraints([]ClassConstraintSpec{{Sym: ordSym, Head: intT()}}, coreast.Loc{})

	cs, err := c.Finish()
	require.NoError(t, err)
	require.Len(t, cs, 1)
	assert.Equal(t, ConstraintClass, cs[0].Kind)
	assert.Equal(t, ordSym, cs[0].ClassSym)
}

func TestRigidifyMarksVariable(t *testing.T) {
	c := New()
	v := coretypes.NewVar(corekind.Star{}, 0)
	assert.False(t, c.IsRigid(v.ID))
	c.Rigidify(v.ID)
	assert.True(t, c.IsRigid(v.ID))
}

func TestNestedRegionsPurifyInnermostFirst(t *testing.T) {
	c := New()
	outer := c.EnterRegion()
	inner := c.EnterRegion()
	assert.Equal(t, 2, c.Level())

	require.NoError(t, c.ExitRegion(coretypes.NewVar(corekind.Effect{}, 0), coretypes.NewVar(corekind.Effect{}, 0), coreast.Loc{}))
	assert.Equal(t, 1, c.Level())
	require.NoError(t, c.ExitRegion(coretypes.NewVar(corekind.Effect{}, 0), coretypes.NewVar(corekind.Effect{}, 0), coreast.Loc{}))
	assert.Equal(t, 0, c.Level())

	cs, err := c.Finish()
	require.NoError(t, err)
	require.Len(t, cs, 1)
	assert.Equal(t, outer, cs[0].Region)
	require.Len(t, cs[0].Nested, 1)
	assert.Equal(t, inner, cs[0].Nested[0].Region)
}
