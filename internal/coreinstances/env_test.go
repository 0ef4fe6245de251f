package coreinstances

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axion-lang/coreinfer/internal/coretypes"
)

func TestLookupEffectOpKnownAndUnknown(t *testing.T) {
	env := LoadBuiltinEnv()

	op, err := env.LookupEffectOp(cls("print"))
	require.NoError(t, err)
	assert.Equal(t, "IO", op.Effect.Name)

	_, err = env.LookupEffectOp(cls("doesNotExist"))
	require.Error(t, err)
	var unknown *UnknownEffectOpError
	assert.ErrorAs(t, err, &unknown)
}

func TestEnvReduceAssocDelegatesToAssocEnv(t *testing.T) {
	class := LoadBuiltinClassEnv()
	assoc := NewAssocEnv()
	aef := cls("Aef")
	assoc.Add(&AssocClause{Sym: aef, Pattern: enumType("List"), Result: prim(coretypes.TagPure)})
	env := NewEnv(class, assoc)

	result, err := env.ReduceAssoc(aef, enumType("List"))
	require.NoError(t, err)
	assert.True(t, result.String() != "")
}
