package coreinstances

import (
	"github.com/axion-lang/coreinfer/internal/coreast"
	"github.com/axion-lang/coreinfer/internal/coretypes"
)

func prim(tag coretypes.CstTag) coretypes.Type { return &coretypes.Cst{Tag: tag} }

// LoadBuiltinClassEnv seeds a ClassEnv with the instances the core
// assumes are always in scope, mirroring the teacher's
// LoadBuiltinInstances/builtinInstances but trimmed to the constraint
// classes spec.md §3 actually names (Eq, Ord, Num): String, Bool, and Char
// each get Eq; the numeric sorts Int32, Int64, Float64, and BigInt get Ord
// and Num, with Ord deriving Eq per spec's superclass rule.
func LoadBuiltinClassEnv() *ClassEnv {
	env := NewClassEnv()
	numeric := []coretypes.CstTag{coretypes.TagInt32, coretypes.TagInt64, coretypes.TagFloat64, coretypes.TagBigInt}
	eqOnly := []coretypes.CstTag{coretypes.TagString, coretypes.TagBool, coretypes.TagChar}

	mustAdd := func(inst *Instance) {
		if err := env.Add(inst); err != nil {
			panic(err)
		}
	}
	for _, tag := range numeric {
		mustAdd(&Instance{Class: coreast.Symbol{Name: "Num"}, Head: prim(tag)})
		mustAdd(&Instance{Class: coreast.Symbol{Name: "Ord"}, Head: prim(tag), Super: []coreast.Symbol{{Name: "Eq"}}})
	}
	for _, tag := range eqOnly {
		mustAdd(&Instance{Class: coreast.Symbol{Name: "Eq"}, Head: prim(tag)})
	}
	return env
}

// LoadBuiltinAssocEnv seeds an AssocEnv with no clauses: the core has no
// built-in associated types of its own (all Aef-style type families come
// from user instances), but callers expect a non-nil environment to pass
// into the constraint generator.
func LoadBuiltinAssocEnv() *AssocEnv { return NewAssocEnv() }

// LoadBuiltinEnv returns an Env seeded with the builtin class/associated-type
// environments plus the effect operation signatures every definition can
// call via `do`, generalizing the teacher's NewTypeEnvWithBuiltins
// (print/readFile/writeFile/httpGet/random/trace, each one Row label
// hard-coded into a Scheme) into declared EffectOp entries looked up by
// symbol instead of pattern-matched by name in the type checker.
func LoadBuiltinEnv() *Env {
	env := NewEnv(LoadBuiltinClassEnv(), LoadBuiltinAssocEnv())
	io := coreast.Symbol{Name: "IO"}
	str := prim(coretypes.TagString)
	unit := prim(coretypes.TagUnit)

	env.AddEffectOp(&EffectOp{Sym: coreast.Symbol{Name: "print"}, Params: []coretypes.Type{str}, Result: unit, Effect: io})
	env.AddEffectOp(&EffectOp{Sym: coreast.Symbol{Name: "readLine"}, Params: nil, Result: str, Effect: io})
	env.AddEffectOp(&EffectOp{Sym: coreast.Symbol{Name: "readFile"}, Params: []coretypes.Type{str}, Result: str, Effect: coreast.Symbol{Name: "FS"}})
	env.AddEffectOp(&EffectOp{Sym: coreast.Symbol{Name: "writeFile"}, Params: []coretypes.Type{str, str}, Result: unit, Effect: coreast.Symbol{Name: "FS"}})
	env.AddEffectOp(&EffectOp{Sym: coreast.Symbol{Name: "httpGet"}, Params: []coretypes.Type{str}, Result: str, Effect: coreast.Symbol{Name: "Net"}})
	env.AddEffectOp(&EffectOp{Sym: coreast.Symbol{Name: "random"}, Params: nil, Result: prim(coretypes.TagFloat64), Effect: coreast.Symbol{Name: "Rand"}})
	env.AddEffectOp(&EffectOp{Sym: coreast.Symbol{Name: "trace"}, Params: []coretypes.Type{str}, Result: unit, Effect: coreast.Symbol{Name: "Trace"}})
	return env
}
