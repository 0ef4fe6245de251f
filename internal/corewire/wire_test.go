package corewire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axion-lang/coreinfer/internal/coreast"
	"github.com/axion-lang/coreinfer/internal/coreconfig"
	"github.com/axion-lang/coreinfer/internal/coreresult"
)

func TestFuncDeclsDecodesIdentityLambda(t *testing.T) {
	program, err := Decode([]byte(`{
		"defs": {
			"id": {
				"value": {
					"kind": "lambda",
					"loc": {"file": "m.ail", "line": 1, "column": 1},
					"param": {"sym": {"name": "x"}, "loc": {"file": "m.ail", "line": 1, "column": 5}},
					"body": {"kind": "var", "sym": {"name": "x"}, "loc": {"file": "m.ail", "line": 1, "column": 10}}
				}
			}
		}
	}`))
	require.NoError(t, err)

	decls, err := program.FuncDecls()
	require.NoError(t, err)
	require.Len(t, decls, 1)

	decl := decls[0]
	assert.Equal(t, "id", decl.Sym.Name)
	lambda, ok := decl.Value.(*coreast.Lambda)
	require.True(t, ok)
	assert.Equal(t, "x", lambda.Param.Sym.Name)
	body, ok := lambda.Body.(*coreast.Var)
	require.True(t, ok)
	assert.Equal(t, "x", body.Sym.Name)
}

func TestFuncDeclsDecodesAnnotatedArrowType(t *testing.T) {
	program, err := Decode([]byte(`{
		"defs": {
			"f": {
				"annot": {
					"kind": "fn",
					"param": {"kind": "cst", "tag": "int32"},
					"eff": {"kind": "cst", "tag": "pure"},
					"result": {"kind": "cst", "tag": "int32"}
				},
				"value": {
					"kind": "lambda",
					"loc": {"file": "m.ail", "line": 1, "column": 1},
					"param": {"sym": {"name": "n"}, "loc": {"file": "m.ail", "line": 1, "column": 1}},
					"body": {"kind": "var", "sym": {"name": "n"}, "loc": {"file": "m.ail", "line": 1, "column": 1}}
				}
			}
		}
	}`))
	require.NoError(t, err)

	decls, err := program.FuncDecls()
	require.NoError(t, err)
	require.Len(t, decls, 1)
	require.NotNil(t, decls[0].Annot)
	assert.Equal(t, "Arrow/1[Int32][Pure][Int32]", decls[0].Annot.String())
}

func TestFuncDeclsDecodesIfMatchAndLiterals(t *testing.T) {
	program, err := Decode([]byte(`{
		"defs": {
			"choose": {
				"value": {
					"kind": "if",
					"loc": {"file": "m.ail", "line": 1, "column": 1},
					"cond": {"kind": "lit", "litKind": "bool", "litValue": true, "loc": {"file": "m.ail", "line": 1, "column": 1}},
					"then": {"kind": "lit", "litKind": "int", "litValue": 1, "loc": {"file": "m.ail", "line": 1, "column": 1}},
					"else": {"kind": "lit", "litKind": "int", "litValue": 2, "loc": {"file": "m.ail", "line": 1, "column": 1}}
				}
			}
		}
	}`))
	require.NoError(t, err)

	decls, err := program.FuncDecls()
	require.NoError(t, err)
	ifExpr, ok := decls[0].Value.(*coreast.If)
	require.True(t, ok)
	cond, ok := ifExpr.Cond.(*coreast.Literal)
	require.True(t, ok)
	assert.Equal(t, coreast.LitBool, cond.Kind)
}

func TestFuncDeclsDecodesDoCallAgainstDeclaredEffectOp(t *testing.T) {
	program, err := Decode([]byte(`{
		"defs": {
			"greet": {
				"value": {
					"kind": "do",
					"loc": {"file": "m.ail", "line": 1, "column": 1},
					"sym": {"name": "readLine"},
					"args": []
				}
			}
		},
		"effects": [
			{
				"sym": {"name": "readLine"},
				"result": {"kind": "cst", "tag": "string"},
				"effect": {"name": "IO"}
			}
		]
	}`))
	require.NoError(t, err)

	decls, err := program.FuncDecls()
	require.NoError(t, err)
	doExpr, ok := decls[0].Value.(*coreast.Do)
	require.True(t, ok)
	assert.Equal(t, "readLine", doExpr.Op.Name)

	env, err := program.BuildEnv(coreconfig.LibMin)
	require.NoError(t, err)
	op, err := env.LookupEffectOp(coreast.Symbol{Name: "readLine"})
	require.NoError(t, err)
	assert.Equal(t, "IO", op.Effect.Name)
}

func TestFuncDeclsRejectsUnknownExpressionKind(t *testing.T) {
	program, err := Decode([]byte(`{"defs": {"bad": {"value": {"kind": "nonsense"}}}}`))
	require.NoError(t, err)

	_, err = program.FuncDecls()
	assert.Error(t, err)
}

func TestBuildEnvNixHasNoBuiltinEffectOps(t *testing.T) {
	program, err := Decode([]byte(`{"defs": {}}`))
	require.NoError(t, err)

	env, err := program.BuildEnv(coreconfig.LibNix)
	require.NoError(t, err)
	_, err = env.LookupEffectOp(coreast.Symbol{Name: "print"})
	assert.Error(t, err)
}

func TestBuildEnvAllLoadsBuiltinEffectOps(t *testing.T) {
	program, err := Decode([]byte(`{"defs": {}}`))
	require.NoError(t, err)

	env, err := program.BuildEnv(coreconfig.LibAll)
	require.NoError(t, err)
	_, err = env.LookupEffectOp(coreast.Symbol{Name: "print"})
	assert.NoError(t, err)
}

func TestBuildEnvRejectsUnknownLibPreset(t *testing.T) {
	program, err := Decode([]byte(`{"defs": {}}`))
	require.NoError(t, err)

	_, err = program.BuildEnv(coreconfig.Lib("bogus"))
	assert.Error(t, err)
}

func TestFuncDeclsOrderingIsSortedBySymbolName(t *testing.T) {
	program, err := Decode([]byte(`{
		"defs": {
			"zeta": {"value": {"kind": "lit", "litKind": "unit"}},
			"alpha": {"value": {"kind": "lit", "litKind": "unit"}}
		}
	}`))
	require.NoError(t, err)

	decls, err := program.FuncDecls()
	require.NoError(t, err)
	require.Len(t, decls, 2)
	assert.Equal(t, "alpha", decls[0].Sym.Name)
	assert.Equal(t, "zeta", decls[1].Sym.Name)
}

func TestSummarizeErrorsPreservesOrder(t *testing.T) {
	errs := coreresult.ErrorList{assertError("first"), assertError("second")}
	summaries := SummarizeErrors(errs)
	require.Len(t, summaries, 2)
	assert.Equal(t, "first", summaries[0].Error)
	assert.Equal(t, "second", summaries[1].Error)
}

type assertError string

func (e assertError) Error() string { return string(e) }
