package coreinstances

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axion-lang/coreinfer/internal/coreast"
	"github.com/axion-lang/coreinfer/internal/coretypes"
)

func cls(name string) coreast.Symbol { return coreast.Symbol{Name: name} }

func TestClassEnvAddAndLookup(t *testing.T) {
	env := NewClassEnv()
	require.NoError(t, env.Add(&Instance{Class: cls("Eq"), Head: prim(coretypes.TagInt32)}))

	inst, err := env.Lookup(cls("Eq"), prim(coretypes.TagInt32))
	require.NoError(t, err)
	assert.Equal(t, "Eq", inst.Class.Name)
}

func TestClassEnvOverlapRejected(t *testing.T) {
	env := NewClassEnv()
	require.NoError(t, env.Add(&Instance{Class: cls("Eq"), Head: prim(coretypes.TagInt32)}))

	err := env.Add(&Instance{Class: cls("Eq"), Head: prim(coretypes.TagInt32)})
	require.Error(t, err)
	var overlap *OverlapError
	assert.ErrorAs(t, err, &overlap)
}

func TestClassEnvMissingInstance(t *testing.T) {
	env := NewClassEnv()
	_, err := env.Lookup(cls("Show"), prim(coretypes.TagBool))
	require.Error(t, err)
	var missing *MissingInstanceError
	assert.ErrorAs(t, err, &missing)
}

func TestClassEnvSuperclassDerivation(t *testing.T) {
	env := NewClassEnv()
	require.NoError(t, env.Add(&Instance{
		Class: cls("Ord"),
		Head:  prim(coretypes.TagInt32),
		Super: []coreast.Symbol{cls("Eq")},
	}))

	inst, err := env.Lookup(cls("Eq"), prim(coretypes.TagInt32))
	require.NoError(t, err)
	assert.Equal(t, "Ord", inst.Class.Name, "Eq is satisfied via the Ord instance's superclass provision")
}

func TestLoadBuiltinClassEnv(t *testing.T) {
	env := LoadBuiltinClassEnv()

	_, err := env.Lookup(cls("Num"), prim(coretypes.TagInt64))
	assert.NoError(t, err)

	_, err = env.Lookup(cls("Eq"), prim(coretypes.TagString))
	assert.NoError(t, err)

	_, err = env.Lookup(cls("Num"), prim(coretypes.TagString))
	assert.Error(t, err, "String has no Num instance")
}
