package coregen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axion-lang/coreinfer/internal/coreast"
	"github.com/axion-lang/coreinfer/internal/corectx"
	"github.com/axion-lang/coreinfer/internal/coreinstances"
	"github.com/axion-lang/coreinfer/internal/coretypes"
	"github.com/axion-lang/coreinfer/internal/zhegalkin"
)

func sym(name string) coreast.Symbol { return coreast.Symbol{Name: name} }

func newGen() (*Generator, *corectx.Context) {
	ctx := corectx.New()
	return New(ctx, coreinstances.LoadBuiltinEnv()), ctx
}

func TestInferIdentityLambda(t *testing.T) {
	g, _ := newGen()
	x := sym("x")
	lam := &coreast.Lambda{Param: coreast.Param{Sym: x}, Body: &coreast.Var{Sym: x}}

	typ, eff, err := g.Infer(NewEnv(), lam)
	require.NoError(t, err)

	param, arrowEff, result, ok := coretypes.SplitArrow(typ)
	require.True(t, ok)
	assert.True(t, coretypes.Equals(param, result), "identity lambda's parameter and result must unify to the same variable")
	assert.True(t, zhegalkin.FromType(arrowEff).IsZero())
	assert.True(t, zhegalkin.FromType(eff).IsZero(), "lambda formation itself is pure")
}

func TestInferLiteralIsPure(t *testing.T) {
	g, _ := newGen()
	typ, eff, err := g.Infer(NewEnv(), &coreast.Literal{Kind: coreast.LitInt, Value: 1})
	require.NoError(t, err)
	assert.Equal(t, &coretypes.Cst{Tag: coretypes.TagInt32}, typ)
	assert.True(t, zhegalkin.FromType(eff).IsZero())
}

func TestInferVarUnbound(t *testing.T) {
	g, _ := newGen()
	_, _, err := g.Infer(NewEnv(), &coreast.Var{Sym: sym("nope")})
	require.Error(t, err)
	var unbound *UnboundVariableError
	require.ErrorAs(t, err, &unbound)
}

func TestInferIfUnifiesBranches(t *testing.T) {
	g, _ := newGen()
	cond := &coreast.Literal{Kind: coreast.LitBool, Value: true}
	then := &coreast.Literal{Kind: coreast.LitInt, Value: 1}
	els := &coreast.Literal{Kind: coreast.LitInt, Value: 2}

	typ, _, err := g.Infer(NewEnv(), &coreast.If{Cond: cond, Then: then, Else: els})
	require.NoError(t, err)
	assert.Equal(t, &coretypes.Cst{Tag: coretypes.TagInt32}, typ)
}

func TestInferDoAddsEffectSymbol(t *testing.T) {
	g, _ := newGen()
	do := &coreast.Do{Op: sym("print"), Args: []coreast.Expr{&coreast.Literal{Kind: coreast.LitString, Value: "hi"}}}

	typ, eff, err := g.Infer(NewEnv(), do)
	require.NoError(t, err)
	assert.Equal(t, &coretypes.Cst{Tag: coretypes.TagUnit}, typ)
	z := zhegalkin.FromType(eff)
	assert.False(t, z.IsZero(), "do print(...) must not be pure")
}

func TestInferRegionEmitsPurificationAndDecrementsLevel(t *testing.T) {
	g, ctx := newGen()
	region := &coreast.Region{Body: &coreast.Literal{Kind: coreast.LitInt, Value: 1}}

	_, eff, err := g.Infer(NewEnv(), region)
	require.NoError(t, err)
	assert.Equal(t, 0, ctx.Level())
	assert.NotNil(t, eff)

	cs, err := ctx.Finish()
	require.NoError(t, err)
	found := false
	for _, c := range cs {
		if c.Kind == corectx.ConstraintPurification {
			found = true
		}
	}
	assert.True(t, found)
}

func TestInferAscriptionPushesExpectType(t *testing.T) {
	g, ctx := newGen()
	annot := &coretypes.Cst{Tag: coretypes.TagInt32}
	asc := &coreast.Ascription{Value: &coreast.Literal{Kind: coreast.LitInt, Value: 1}, Annot: annot}

	typ, _, err := g.Infer(NewEnv(), asc)
	require.NoError(t, err)
	assert.Equal(t, annot, typ)

	cs, err := ctx.Finish()
	require.NoError(t, err)
	require.Len(t, cs, 1)
	assert.Equal(t, corectx.ProvExpectType, cs[0].Provenance.Kind)
}

func TestInferTrySubtractsHandledEffect(t *testing.T) {
	g, _ := newGen()
	printCall := &coreast.Do{Op: sym("print"), Args: []coreast.Expr{&coreast.Literal{Kind: coreast.LitString, Value: "x"}}}
	try := &coreast.Try{
		Body: printCall,
		Handlers: []coreast.HandlerClause{
			{Op: sym("print"), Params: []coreast.Symbol{sym("msg")}, Resume: sym("k"), Body: &coreast.Literal{Kind: coreast.LitUnit}},
		},
	}

	_, eff, err := g.Infer(NewEnv(), try)
	require.NoError(t, err)
	assert.True(t, zhegalkin.FromType(eff).IsZero(), "handling the only performed effect must purify the try block")
}
