package coretypedast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axion-lang/coreinfer/internal/coreast"
	"github.com/axion-lang/coreinfer/internal/corectx"
	"github.com/axion-lang/coreinfer/internal/coregen"
	"github.com/axion-lang/coreinfer/internal/coreinstances"
	"github.com/axion-lang/coreinfer/internal/coresolve"
	"github.com/axion-lang/coreinfer/internal/coretypes"
	"github.com/axion-lang/coreinfer/internal/coreunify"
	"github.com/axion-lang/coreinfer/internal/zhegalkin"
)

func sym(name string) coreast.Symbol { return coreast.Symbol{Name: name} }

func inferAndBuild(t *testing.T, expr coreast.Expr) (TypedNode, *coretypes.Substitution) {
	t.Helper()
	ctx := corectx.New()
	gen := coregen.New(ctx, coreinstances.LoadBuiltinEnv())

	_, _, err := gen.Infer(coregen.NewEnv(), expr)
	require.NoError(t, err)

	constraints, err := ctx.Finish()
	require.NoError(t, err)

	u := coreunify.New(coreinstances.NewAssocEnv(), zhegalkin.NewCache(), nil)
	result, err := coresolve.Solve(constraints, u, coreinstances.NewClassEnv())
	require.NoError(t, err)

	builder := NewBuilder(gen, result.Substitution)
	node, err := builder.Build(expr)
	require.NoError(t, err)
	return node, &result.Substitution
}

func TestBuildLiteralCarriesGroundType(t *testing.T) {
	node, _ := inferAndBuild(t, &coreast.Literal{Kind: coreast.LitInt, Value: 1})
	lit, ok := node.(*TypedLiteral)
	require.True(t, ok)
	assert.Equal(t, &coretypes.Cst{Tag: coretypes.TagInt32}, lit.Type)
}

func TestBuildLambdaResolvesParamAndResultTypes(t *testing.T) {
	x := sym("x")
	lam := &coreast.Lambda{Param: coreast.Param{Sym: x}, Body: &coreast.Var{Sym: x}}

	node, _ := inferAndBuild(t, lam)
	typed, ok := node.(*TypedLambda)
	require.True(t, ok)
	assert.True(t, coretypes.Equals(typed.ParamType, typed.Body.GetType()))
}

func TestBuildIfSharesBranchType(t *testing.T) {
	ifExpr := &coreast.If{
		Cond: &coreast.Literal{Kind: coreast.LitBool, Value: true},
		Then: &coreast.Literal{Kind: coreast.LitInt, Value: 1},
		Else: &coreast.Literal{Kind: coreast.LitInt, Value: 2},
	}

	node, _ := inferAndBuild(t, ifExpr)
	typed, ok := node.(*TypedIf)
	require.True(t, ok)
	assert.True(t, coretypes.Equals(typed.Then.GetType(), typed.Else.GetType()))
}

func TestBuildMatchRecordsPatternBinderType(t *testing.T) {
	scrutinee := &coreast.Literal{Kind: coreast.LitInt, Value: 1}
	match := &coreast.Match{
		Scrutinee: scrutinee,
		Cases: []coreast.Case{
			{Pattern: &coreast.PatternVar{Sym: sym("n")}, Body: &coreast.Var{Sym: sym("n")}},
		},
	}

	node, _ := inferAndBuild(t, match)
	typed, ok := node.(*TypedMatch)
	require.True(t, ok)
	require.Len(t, typed.Cases, 1)
	pat, ok := typed.Cases[0].Pattern.(*TypedPatternVar)
	require.True(t, ok)
	assert.True(t, coretypes.Equals(pat.Type, &coretypes.Cst{Tag: coretypes.TagInt32}))
}

func TestBuildRegionPurifiesEffect(t *testing.T) {
	region := &coreast.Region{Body: &coreast.Literal{Kind: coreast.LitInt, Value: 1}}

	node, _ := inferAndBuild(t, region)
	typed, ok := node.(*TypedRegion)
	require.True(t, ok)
	assert.True(t, zhegalkin.FromType(typed.Effect).IsZero())
}

func TestBuildUnknownAnnotationErrors(t *testing.T) {
	builder := &Builder{Annotations: map[coreast.Expr]coregen.Annotation{}, Sub: coretypes.Substitution{}}
	_, err := builder.Build(&coreast.Literal{Kind: coreast.LitInt, Value: 1})
	require.Error(t, err)
}
