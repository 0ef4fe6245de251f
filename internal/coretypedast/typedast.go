// Package coretypedast mirrors internal/coreast with a typed node for
// every expression and pattern shape, each carrying the concrete type and
// effect spec.md §4.8 says a completed inference pass must produce: every
// node's inference-time type variable rewritten by the solved
// substitution.
//
// Grounded on internal/typedast/typed_ast.go's parallel node hierarchy
// (a TypedExpr{Type, EffectRow, Core} embedded in every Typed* node,
// GetType/GetEffectRow/GetCore accessors via an embedded-struct interface
// satisfaction) and internal/elaborate/dictionaries.go's
// resolved-constraint-lookup-by-node-identity idiom (there keyed by a
// uint64 NodeID into a map[uint64]*types.ResolvedConstraint; here keyed
// by the coreast.Expr/Pattern pointer itself via
// internal/coregen.Generator's Annotations/PatternTypes maps, since this
// package's source nodes have no separate identity field of their own).
package coretypedast

import (
	"fmt"

	"github.com/axion-lang/coreinfer/internal/coreast"
	"github.com/axion-lang/coreinfer/internal/coreerrors"
	"github.com/axion-lang/coreinfer/internal/coregen"
	"github.com/axion-lang/coreinfer/internal/coretypes"
)

// TypedExpr is embedded in every typed expression node, mirroring the
// teacher's TypedExpr base: the node's monomorphic, fully-substituted
// type and effect, plus a back-reference to the coreast node it was
// built from.
type TypedExpr struct {
	Loc    coreast.Loc
	Type   coretypes.Type
	Effect coretypes.Type
	Core   coreast.Expr
}

func (t TypedExpr) GetLoc() coreast.Loc      { return t.Loc }
func (t TypedExpr) GetType() coretypes.Type  { return t.Type }
func (t TypedExpr) GetEffect() coretypes.Type { return t.Effect }
func (t TypedExpr) GetCore() coreast.Expr    { return t.Core }

// TypedNode is the interface every typed expression node satisfies.
type TypedNode interface {
	GetLoc() coreast.Loc
	GetType() coretypes.Type
	GetEffect() coretypes.Type
	GetCore() coreast.Expr
	String() string
}

type TypedLiteral struct {
	TypedExpr
	Kind  coreast.LitKind
	Value any
}

func (t *TypedLiteral) String() string { return fmt.Sprintf("%v : %s", t.Value, t.Type) }

type TypedVar struct {
	TypedExpr
	Sym coreast.Symbol
}

func (t *TypedVar) String() string { return fmt.Sprintf("%s : %s", t.Sym, t.Type) }

type TypedApp struct {
	TypedExpr
	Fn  TypedNode
	Arg TypedNode
}

func (t *TypedApp) String() string { return fmt.Sprintf("(%s %s) : %s", t.Fn, t.Arg, t.Type) }

type TypedLambda struct {
	TypedExpr
	Param     coreast.Symbol
	ParamType coretypes.Type
	Body      TypedNode
}

func (t *TypedLambda) String() string {
	return fmt.Sprintf("λ%s:%s. %s : %s", t.Param, t.ParamType, t.Body, t.Type)
}

type TypedLet struct {
	TypedExpr
	Sym       coreast.Symbol
	Rec       bool
	ValueType coretypes.Type
	Value     TypedNode
	Body      TypedNode
}

func (t *TypedLet) String() string {
	kw := "let"
	if t.Rec {
		kw = "let rec"
	}
	return fmt.Sprintf("%s %s : %s = %s in %s", kw, t.Sym, t.ValueType, t.Value, t.Body)
}

type TypedIf struct {
	TypedExpr
	Cond TypedNode
	Then TypedNode
	Else TypedNode
}

func (t *TypedIf) String() string {
	return fmt.Sprintf("if %s then %s else %s : %s", t.Cond, t.Then, t.Else, t.Type)
}

// TypedPattern mirrors coreast.Pattern, each node carrying the
// substituted type the scrutinee (or sub-scrutinee) was bound at.
type TypedPattern interface {
	GetPatternType() coretypes.Type
	String() string
}

type TypedPatternBase struct {
	Type coretypes.Type
}

func (p TypedPatternBase) GetPatternType() coretypes.Type { return p.Type }

type TypedPatternWildcard struct{ TypedPatternBase }

func (p *TypedPatternWildcard) String() string { return fmt.Sprintf("_ : %s", p.Type) }

type TypedPatternVar struct {
	TypedPatternBase
	Sym coreast.Symbol
}

func (p *TypedPatternVar) String() string { return fmt.Sprintf("%s : %s", p.Sym, p.Type) }

type TypedPatternLiteral struct {
	TypedPatternBase
	Value any
}

func (p *TypedPatternLiteral) String() string { return fmt.Sprintf("%v : %s", p.Value, p.Type) }

type TypedPatternConstructor struct {
	TypedPatternBase
	Ctor coreast.Symbol
	Args []TypedPattern
}

func (p *TypedPatternConstructor) String() string {
	return fmt.Sprintf("%s(%v) : %s", p.Ctor, p.Args, p.Type)
}

type TypedCase struct {
	Pattern TypedPattern
	Guard   TypedNode // nil when unguarded
	Body    TypedNode
}

type TypedMatch struct {
	TypedExpr
	Scrutinee TypedNode
	Cases     []TypedCase
}

func (t *TypedMatch) String() string { return fmt.Sprintf("match %s { ... } : %s", t.Scrutinee, t.Type) }

type TypedRegion struct {
	TypedExpr
	Body TypedNode
}

func (t *TypedRegion) String() string { return fmt.Sprintf("region { %s } : %s", t.Body, t.Type) }

type TypedAscription struct {
	TypedExpr
	Value TypedNode
}

func (t *TypedAscription) String() string {
	return fmt.Sprintf("(%s : %s)", t.Value, t.Type)
}

type TypedDo struct {
	TypedExpr
	Op   coreast.Symbol
	Args []TypedNode
}

func (t *TypedDo) String() string { return fmt.Sprintf("do %s(%v) : %s", t.Op, t.Args, t.Type) }

type TypedHandlerClause struct {
	Op     coreast.Symbol
	Params []coreast.Symbol
	Resume coreast.Symbol
	Body   TypedNode
}

type TypedTry struct {
	TypedExpr
	Body     TypedNode
	Handlers []TypedHandlerClause
}

func (t *TypedTry) String() string { return fmt.Sprintf("try %s with ... : %s", t.Body, t.Type) }

// Builder rebuilds a typed tree from a coreast tree, a generator's
// recorded Annotations/PatternTypes, and the final substitution a
// internal/coresolve.Solve call produced.
type Builder struct {
	Annotations  map[coreast.Expr]coregen.Annotation
	PatternTypes map[coreast.Pattern]coretypes.Type
	Sub          coretypes.Substitution
}

// NewBuilder captures a generator's recorded annotations alongside the
// substitution that closes them.
func NewBuilder(gen *coregen.Generator, sub coretypes.Substitution) *Builder {
	return &Builder{Annotations: gen.Annotations, PatternTypes: gen.PatternTypes, Sub: sub}
}

func (b *Builder) resolve(t coretypes.Type) coretypes.Type {
	return coretypes.ApplySubst(b.Sub, t)
}

func (b *Builder) base(expr coreast.Expr) (TypedExpr, error) {
	ann, ok := b.Annotations[expr]
	if !ok {
		return TypedExpr{}, fmt.Errorf("coretypedast: no recorded annotation for %T at %s", expr, expr.Position())
	}
	return TypedExpr{
		Loc:    expr.Position(),
		Type:   b.resolve(ann.Type),
		Effect: b.resolve(ann.Effect),
		Core:   expr,
	}, nil
}

// Build walks expr, producing its fully-typed mirror. expr must have
// already passed through the same Generator whose Annotations this
// Builder was constructed from.
func (b *Builder) Build(expr coreast.Expr) (TypedNode, error) {
	switch n := expr.(type) {
	case *coreast.Literal:
		base, err := b.base(expr)
		if err != nil {
			return nil, err
		}
		return &TypedLiteral{TypedExpr: base, Kind: n.Kind, Value: n.Value}, nil

	case *coreast.Var:
		base, err := b.base(expr)
		if err != nil {
			return nil, err
		}
		return &TypedVar{TypedExpr: base, Sym: n.Sym}, nil

	case *coreast.App:
		base, err := b.base(expr)
		if err != nil {
			return nil, err
		}
		fn, err := b.Build(n.Fn)
		if err != nil {
			return nil, err
		}
		arg, err := b.Build(n.Arg)
		if err != nil {
			return nil, err
		}
		return &TypedApp{TypedExpr: base, Fn: fn, Arg: arg}, nil

	case *coreast.Lambda:
		base, err := b.base(expr)
		if err != nil {
			return nil, err
		}
		body, err := b.Build(n.Body)
		if err != nil {
			return nil, err
		}
		param, _, _, ok := coretypes.SplitArrow(base.Type)
		if !ok {
			return nil, fmt.Errorf("coretypedast: lambda at %s did not resolve to an arrow type", n.Loc)
		}
		return &TypedLambda{TypedExpr: base, Param: n.Param.Sym, ParamType: param, Body: body}, nil

	case *coreast.Let:
		base, err := b.base(expr)
		if err != nil {
			return nil, err
		}
		value, err := b.Build(n.Value)
		if err != nil {
			return nil, err
		}
		body, err := b.Build(n.Body)
		if err != nil {
			return nil, err
		}
		return &TypedLet{TypedExpr: base, Sym: n.Sym, Rec: n.Rec, ValueType: value.GetType(), Value: value, Body: body}, nil

	case *coreast.If:
		base, err := b.base(expr)
		if err != nil {
			return nil, err
		}
		cond, err := b.Build(n.Cond)
		if err != nil {
			return nil, err
		}
		then, err := b.Build(n.Then)
		if err != nil {
			return nil, err
		}
		els, err := b.Build(n.Else)
		if err != nil {
			return nil, err
		}
		return &TypedIf{TypedExpr: base, Cond: cond, Then: then, Else: els}, nil

	case *coreast.Match:
		base, err := b.base(expr)
		if err != nil {
			return nil, err
		}
		scrutinee, err := b.Build(n.Scrutinee)
		if err != nil {
			return nil, err
		}
		cases := make([]TypedCase, len(n.Cases))
		for i, c := range n.Cases {
			pat, err := b.buildPattern(c.Pattern)
			if err != nil {
				return nil, err
			}
			var guard TypedNode
			if c.Guard != nil {
				guard, err = b.Build(c.Guard)
				if err != nil {
					return nil, err
				}
			}
			body, err := b.Build(c.Body)
			if err != nil {
				return nil, err
			}
			cases[i] = TypedCase{Pattern: pat, Guard: guard, Body: body}
		}
		return &TypedMatch{TypedExpr: base, Scrutinee: scrutinee, Cases: cases}, nil

	case *coreast.Region:
		base, err := b.base(expr)
		if err != nil {
			return nil, err
		}
		body, err := b.Build(n.Body)
		if err != nil {
			return nil, err
		}
		return &TypedRegion{TypedExpr: base, Body: body}, nil

	case *coreast.Ascription:
		base, err := b.base(expr)
		if err != nil {
			return nil, err
		}
		value, err := b.Build(n.Value)
		if err != nil {
			return nil, err
		}
		return &TypedAscription{TypedExpr: base, Value: value}, nil

	case *coreast.Do:
		base, err := b.base(expr)
		if err != nil {
			return nil, err
		}
		args := make([]TypedNode, len(n.Args))
		for i, a := range n.Args {
			typedArg, err := b.Build(a)
			if err != nil {
				return nil, err
			}
			args[i] = typedArg
		}
		return &TypedDo{TypedExpr: base, Op: n.Op, Args: args}, nil

	case *coreast.Try:
		base, err := b.base(expr)
		if err != nil {
			return nil, err
		}
		body, err := b.Build(n.Body)
		if err != nil {
			return nil, err
		}
		handlers := make([]TypedHandlerClause, len(n.Handlers))
		for i, h := range n.Handlers {
			hbody, err := b.Build(h.Body)
			if err != nil {
				return nil, err
			}
			handlers[i] = TypedHandlerClause{Op: h.Op, Params: h.Params, Resume: h.Resume, Body: hbody}
		}
		return &TypedTry{TypedExpr: base, Body: body, Handlers: handlers}, nil

	case *coreast.DatalogAtom:
		return nil, coreerrors.UnsupportedConstruct(n.Loc, "DatalogAtom")

	default:
		return nil, coreerrors.UnsupportedConstruct(expr.Position(), fmt.Sprintf("%T", expr))
	}
}

func (b *Builder) buildPattern(pat coreast.Pattern) (TypedPattern, error) {
	t, ok := b.PatternTypes[pat]
	if !ok {
		return nil, fmt.Errorf("coretypedast: no recorded type for pattern %T at %s", pat, pat.Position())
	}
	base := TypedPatternBase{Type: b.resolve(t)}

	switch p := pat.(type) {
	case *coreast.PatternWildcard:
		return &TypedPatternWildcard{TypedPatternBase: base}, nil
	case *coreast.PatternVar:
		return &TypedPatternVar{TypedPatternBase: base, Sym: p.Sym}, nil
	case *coreast.PatternLiteral:
		return &TypedPatternLiteral{TypedPatternBase: base, Value: p.Lit.Value}, nil
	case *coreast.PatternConstructor:
		args := make([]TypedPattern, len(p.Args))
		for i, sub := range p.Args {
			typedSub, err := b.buildPattern(sub)
			if err != nil {
				return nil, err
			}
			args[i] = typedSub
		}
		return &TypedPatternConstructor{TypedPatternBase: base, Ctor: p.Ctor, Args: args}, nil
	default:
		return nil, coreerrors.UnsupportedConstruct(pat.Position(), fmt.Sprintf("%T", pat))
	}
}
