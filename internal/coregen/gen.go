package coregen

import (
	"fmt"

	"github.com/axion-lang/coreinfer/internal/coreast"
	"github.com/axion-lang/coreinfer/internal/corectx"
	"github.com/axion-lang/coreinfer/internal/coreerrors"
	"github.com/axion-lang/coreinfer/internal/coreinstances"
	"github.com/axion-lang/coreinfer/internal/corekind"
	"github.com/axion-lang/coreinfer/internal/coretypes"
	"github.com/axion-lang/coreinfer/internal/zhegalkin"
)

// UnboundVariableError reports a Var node whose symbol has no local
// binding. Global/top-level bindings are resolved by an external
// collaborator before this package ever sees the AST (spec.md §1
// Non-goals); a Var this package cannot find is a defect in that prior
// stage, not a typing failure this package itself diagnoses further.
type UnboundVariableError struct {
	Sym coreast.Symbol
	Loc coreast.Loc
}

func (e *UnboundVariableError) Error() string {
	return fmt.Sprintf("%s: unbound variable %s", e.Loc, e.Sym)
}

// Annotation is the (type, effect) pair Infer computed for one expression
// node, recorded so internal/coretypedast can rebuild a fully-typed tree
// afterward without re-walking the generator's inference rules.
type Annotation struct {
	Type   coretypes.Type
	Effect coretypes.Type
}

// Generator walks coreast.Expr trees, pushing constraints onto Ctx and
// consulting Instances for class/associated-type/effect-operation lookups.
type Generator struct {
	Ctx       *corectx.Context
	Instances *coreinstances.Env

	// Annotations and PatternTypes record every node's inferred (type,
	// effect) and every pattern binder's bound type, keyed by pointer
	// identity. internal/coretypedast consults both, post-substitution, to
	// produce the typed tree of spec.md §4.8 without duplicating the
	// inference rules above.
	Annotations  map[coreast.Expr]Annotation
	PatternTypes map[coreast.Pattern]coretypes.Type
}

// New returns a generator writing constraints into ctx and resolving
// declared signatures through instances.
func New(ctx *corectx.Context, instances *coreinstances.Env) *Generator {
	return &Generator{
		Ctx:          ctx,
		Instances:    instances,
		Annotations:  make(map[coreast.Expr]Annotation),
		PatternTypes: make(map[coreast.Pattern]coretypes.Type),
	}
}

func (g *Generator) freshType() coretypes.Type {
	return coretypes.NewVar(corekind.Star{}, g.Ctx.Level())
}

func (g *Generator) freshEffect() coretypes.Type {
	return coretypes.NewVar(corekind.Effect{}, g.Ctx.Level())
}

func pureEff() coretypes.Type { return &coretypes.Cst{Tag: coretypes.TagPure} }

// combineEffects unions a series of effects via the Zhegalkin algebra,
// round-tripping through zhegalkin.FromType/ToType so the combined effect
// is always in a form the unifier/solver can consume directly.
func combineEffects(effs ...coretypes.Type) coretypes.Type {
	acc := zhegalkin.Zero()
	for _, e := range effs {
		if e == nil {
			continue
		}
		acc = zhegalkin.MkUnion(acc, zhegalkin.FromType(e))
	}
	return zhegalkin.ToType(acc)
}

// Infer is the structural walk of spec.md §4.5: it returns the inferred
// type and effect of expr, pushing whatever Equality/Class constraints
// the node requires onto g.Ctx along the way, and recording the result
// in g.Annotations for internal/coretypedast's later use.
func (g *Generator) Infer(env *Env, expr coreast.Expr) (coretypes.Type, coretypes.Type, error) {
	typ, eff, err := g.inferNode(env, expr)
	if err != nil {
		return nil, nil, err
	}
	g.Annotations[expr] = Annotation{Type: typ, Effect: eff}
	return typ, eff, nil
}

func (g *Generator) inferNode(env *Env, expr coreast.Expr) (coretypes.Type, coretypes.Type, error) {
	switch n := expr.(type) {
	case *coreast.Literal:
		return g.inferLiteral(n)
	case *coreast.Var:
		return g.inferVar(env, n)
	case *coreast.App:
		return g.inferApp(env, n)
	case *coreast.Lambda:
		return g.inferLambda(env, n)
	case *coreast.Let:
		return g.inferLet(env, n)
	case *coreast.If:
		return g.inferIf(env, n)
	case *coreast.Match:
		return g.inferMatch(env, n)
	case *coreast.Region:
		return g.inferRegion(env, n)
	case *coreast.Ascription:
		return g.inferAscription(env, n)
	case *coreast.Do:
		return g.inferDo(env, n)
	case *coreast.Try:
		return g.inferTry(env, n)
	case *coreast.DatalogAtom:
		return nil, nil, coreerrors.UnsupportedConstruct(n.Loc, "DatalogAtom")
	default:
		return nil, nil, coreerrors.UnsupportedConstruct(expr.Position(), fmt.Sprintf("%T", expr))
	}
}

func litTag(kind coreast.LitKind) coretypes.CstTag {
	switch kind {
	case coreast.LitInt:
		return coretypes.TagInt32
	case coreast.LitFloat:
		return coretypes.TagFloat64
	case coreast.LitString:
		return coretypes.TagString
	case coreast.LitBool:
		return coretypes.TagBool
	default:
		return coretypes.TagUnit
	}
}

func (g *Generator) inferLiteral(lit *coreast.Literal) (coretypes.Type, coretypes.Type, error) {
	return &coretypes.Cst{Tag: litTag(lit.Kind)}, pureEff(), nil
}

func (g *Generator) inferVar(env *Env, v *coreast.Var) (coretypes.Type, coretypes.Type, error) {
	t, ok := env.Lookup(v.Sym)
	if !ok {
		return nil, nil, &UnboundVariableError{Sym: v.Sym, Loc: v.Loc}
	}
	return t, pureEff(), nil
}

func (g *Generator) inferApp(env *Env, app *coreast.App) (coretypes.Type, coretypes.Type, error) {
	fnType, fnEff, err := g.Infer(env, app.Fn)
	if err != nil {
		return nil, nil, err
	}
	argType, argEff, err := g.Infer(env, app.Arg)
	if err != nil {
		return nil, nil, err
	}
	resultType := g.freshType()
	callEff := g.freshEffect()
	g.Ctx.UnifyType(fnType, coretypes.MkArrow(argType, callEff, resultType), app.Loc)
	return resultType, combineEffects(fnEff, argEff, callEff), nil
}

func (g *Generator) inferLambda(env *Env, lam *coreast.Lambda) (coretypes.Type, coretypes.Type, error) {
	paramType := lam.Param.Annot
	if paramType == nil {
		paramType = g.freshType()
	}
	bodyEnv := env.Extend(lam.Param.Sym, paramType)
	bodyType, bodyEff, err := g.Infer(bodyEnv, lam.Body)
	if err != nil {
		return nil, nil, err
	}
	return coretypes.MkArrow(paramType, bodyEff, bodyType), pureEff(), nil
}

func (g *Generator) inferLet(env *Env, let *coreast.Let) (coretypes.Type, coretypes.Type, error) {
	var bindEnv *Env
	var valueType, valueEff coretypes.Type
	var err error
	if let.Rec {
		placeholder := g.freshType()
		bindEnv = env.Extend(let.Sym, placeholder)
		valueType, valueEff, err = g.Infer(bindEnv, let.Value)
		if err != nil {
			return nil, nil, err
		}
		g.Ctx.UnifyType(placeholder, valueType, let.Loc)
	} else {
		valueType, valueEff, err = g.Infer(env, let.Value)
		if err != nil {
			return nil, nil, err
		}
	}
	// spec.md §4.8: generalization is an explicit downstream pass. This
	// package binds let.Sym monomorphically and leaves any remaining free
	// variables in valueType for that pass to generalize.
	bodyEnv := env.Extend(let.Sym, valueType)
	bodyType, bodyEff, err := g.Infer(bodyEnv, let.Body)
	if err != nil {
		return nil, nil, err
	}
	return bodyType, combineEffects(valueEff, bodyEff), nil
}

func (g *Generator) inferIf(env *Env, ifExpr *coreast.If) (coretypes.Type, coretypes.Type, error) {
	condType, condEff, err := g.Infer(env, ifExpr.Cond)
	if err != nil {
		return nil, nil, err
	}
	g.Ctx.UnifyType(condType, &coretypes.Cst{Tag: coretypes.TagBool}, ifExpr.Cond.Position())

	thenType, thenEff, err := g.Infer(env, ifExpr.Then)
	if err != nil {
		return nil, nil, err
	}
	elseType, elseEff, err := g.Infer(env, ifExpr.Else)
	if err != nil {
		return nil, nil, err
	}
	g.Ctx.UnifyType(thenType, elseType, ifExpr.Loc)
	return thenType, combineEffects(condEff, thenEff, elseEff), nil
}

func (g *Generator) inferPattern(env *Env, pat coreast.Pattern, scrutinee coretypes.Type) (*Env, error) {
	g.PatternTypes[pat] = scrutinee
	switch p := pat.(type) {
	case *coreast.PatternWildcard:
		return env, nil
	case *coreast.PatternVar:
		return env.Extend(p.Sym, scrutinee), nil
	case *coreast.PatternLiteral:
		litType, _, err := g.inferLiteral(p.Lit)
		if err != nil {
			return nil, err
		}
		g.Ctx.UnifyType(litType, scrutinee, p.Loc)
		return env, nil
	case *coreast.PatternConstructor:
		// Constructor argument types are declared by the type-declaration
		// environment, an external collaborator's resolved input this
		// package does not model (spec.md §1 Non-goals): each sub-pattern
		// is bound to a fresh, unconstrained type rather than guessed.
		cur := env
		for _, sub := range p.Args {
			var err error
			cur, err = g.inferPattern(cur, sub, g.freshType())
			if err != nil {
				return nil, err
			}
		}
		return cur, nil
	default:
		return nil, coreerrors.UnsupportedConstruct(pat.Position(), fmt.Sprintf("%T", pat))
	}
}

func (g *Generator) inferMatch(env *Env, m *coreast.Match) (coretypes.Type, coretypes.Type, error) {
	scrutType, scrutEff, err := g.Infer(env, m.Scrutinee)
	if err != nil {
		return nil, nil, err
	}
	var resultType coretypes.Type
	effs := []coretypes.Type{scrutEff}
	for i, c := range m.Cases {
		caseEnv, err := g.inferPattern(env, c.Pattern, scrutType)
		if err != nil {
			return nil, nil, err
		}
		if c.Guard != nil {
			guardType, guardEff, err := g.Infer(caseEnv, c.Guard)
			if err != nil {
				return nil, nil, err
			}
			g.Ctx.UnifyType(guardType, &coretypes.Cst{Tag: coretypes.TagBool}, c.Guard.Position())
			effs = append(effs, guardEff)
		}
		bodyType, bodyEff, err := g.Infer(caseEnv, c.Body)
		if err != nil {
			return nil, nil, err
		}
		effs = append(effs, bodyEff)
		if i == 0 {
			resultType = bodyType
			continue
		}
		g.Ctx.UnifyType(resultType, bodyType, c.Body.Position())
	}
	return resultType, combineEffects(effs...), nil
}

func (g *Generator) inferRegion(env *Env, r *coreast.Region) (coretypes.Type, coretypes.Type, error) {
	g.Ctx.EnterRegion()
	bodyType, internalEff, err := g.Infer(env, r.Body)
	if err != nil {
		return nil, nil, err
	}
	externalEff := g.freshEffect()
	if err := g.Ctx.ExitRegion(externalEff, internalEff, r.Loc); err != nil {
		return nil, nil, err
	}
	return bodyType, externalEff, nil
}

func (g *Generator) inferAscription(env *Env, a *coreast.Ascription) (coretypes.Type, coretypes.Type, error) {
	valueType, valueEff, err := g.Infer(env, a.Value)
	if err != nil {
		return nil, nil, err
	}
	g.Ctx.ExpectType(a.Annot, valueType, a.Loc)
	return a.Annot, valueEff, nil
}

func (g *Generator) inferDo(env *Env, d *coreast.Do) (coretypes.Type, coretypes.Type, error) {
	op, err := g.Instances.LookupEffectOp(d.Op)
	if err != nil {
		return nil, nil, err
	}
	argTypes := make([]coretypes.Type, len(d.Args))
	effs := make([]coretypes.Type, 0, len(d.Args)+1)
	locs := make([]coreast.Loc, len(d.Args))
	for i, arg := range d.Args {
		at, ae, err := g.Infer(env, arg)
		if err != nil {
			return nil, nil, err
		}
		argTypes[i] = at
		locs[i] = arg.Position()
		effs = append(effs, ae)
	}
	if err := g.Ctx.ExpectTypeArguments(d.Op, op.Params, argTypes, locs, d.Loc); err != nil {
		return nil, nil, err
	}
	effs = append(effs, &coretypes.Cst{Tag: coretypes.TagEffectSym, Sym: op.Effect})
	return op.Result, combineEffects(effs...), nil
}

func (g *Generator) inferTry(env *Env, t *coreast.Try) (coretypes.Type, coretypes.Type, error) {
	bodyType, bodyEff, err := g.Infer(env, t.Body)
	if err != nil {
		return nil, nil, err
	}
	bodyZ := zhegalkin.FromType(bodyEff)
	handlerEffs := make([]coretypes.Type, 0, len(t.Handlers))
	for _, h := range t.Handlers {
		op, err := g.Instances.LookupEffectOp(h.Op)
		if err != nil {
			return nil, nil, err
		}
		handled := zhegalkin.SingletonCst(op.Effect)
		bodyZ = zhegalkin.MkInter(bodyZ, zhegalkin.MkNot(zhegalkin.FromCst(handled)))

		clauseEnv := env
		for i, param := range h.Params {
			paramType := g.freshType()
			if i < len(op.Params) {
				g.Ctx.UnifyType(paramType, op.Params[i], t.Loc)
			}
			clauseEnv = clauseEnv.Extend(param, paramType)
		}
		resumeType := coretypes.MkArrow(op.Result, pureEff(), bodyType)
		clauseEnv = clauseEnv.Extend(h.Resume, resumeType)

		clauseType, clauseEff, err := g.Infer(clauseEnv, h.Body)
		if err != nil {
			return nil, nil, err
		}
		g.Ctx.UnifyType(clauseType, bodyType, t.Loc)
		handlerEffs = append(handlerEffs, clauseEff)
	}
	resultEff := zhegalkin.ToType(bodyZ)
	return bodyType, combineEffects(append(handlerEffs, resultEff)...), nil
}
