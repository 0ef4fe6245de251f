// Package corewire is the JSON wire codec for the core inference engine's
// external-interface contract: a program of named top-level
// definitions in, a per-definition type/effect/error summary out. Parsing
// and name resolution are an external collaborator's job; this package
// only decodes an already-resolved AST that some front end (or a
// hand-written fixture) serialized as JSON.
//
// Grounded on internal/coreerrors/format.go's marshalDeterministic
// discipline for the output side. No available reference implements a
// recursive sum-type JSON decode (internal/schema's types are flat,
// output-only structs), so the
// Expr/Pattern/Type codecs here use a flat Kind-tagged struct per node
// (every variant's fields inlined with `omitempty`) rather than a
// json.RawMessage envelope: both encode and decode sides live in this one
// package, so there is no benefit to the extra indirection a RawMessage
// dispatch buys a codec that has to interoperate with foreign encoders.
//
// The Type wire codec is deliberately narrower than coretypes.Type's full
// constructor set: Cst (simple nullary tags and the payload-bearing
// EffectSym), Fn (sugar over a fully-applied arity-1 Arrow),
// Alias, and AssocType. Tuple, Enum, RecordExtend, SchemaExtend, Relation,
// Lattice, and the Jvm* host-interop placeholders have no wire
// representation: a fixture needing one of those constructs is out of
// this CLI's scope, not out of the engine's (internal/coretypes still
// implements all of them; coredriver and the solver never see this
// package at all).
package corewire

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/axion-lang/coreinfer/internal/coreast"
	"github.com/axion-lang/coreinfer/internal/coreconfig"
	"github.com/axion-lang/coreinfer/internal/coredriver"
	"github.com/axion-lang/coreinfer/internal/coreinstances"
	"github.com/axion-lang/coreinfer/internal/corekind"
	"github.com/axion-lang/coreinfer/internal/coreresult"
	"github.com/axion-lang/coreinfer/internal/coretypes"
)

// WireLoc is the JSON shape of coreast.Loc.
type WireLoc struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

func (l WireLoc) toCore() coreast.Loc { return coreast.Loc{File: l.File, Line: l.Line, Column: l.Column} }

// WireSymbol is the JSON shape of coreast.Symbol.
type WireSymbol struct {
	Module string `json:"module,omitempty"`
	Name   string `json:"name"`
}

func (s WireSymbol) toCore() coreast.Symbol { return coreast.Symbol{Module: s.Module, Name: s.Name} }

// WireType is a Kind-tagged union over coretypes.Type's Cst/Fn/Alias/Assoc
// subset (see the package doc for what is deliberately left out).
type WireType struct {
	Kind string `json:"kind"`

	// cst
	Tag string      `json:"tag,omitempty"`
	Sym *WireSymbol `json:"sym,omitempty"` // cst(eff), alias, assoc

	// fn
	Param  *WireType `json:"param,omitempty"`
	Eff    *WireType `json:"eff,omitempty"`
	Result *WireType `json:"result,omitempty"`

	// alias
	Args      []WireType `json:"args,omitempty"`
	Expansion *WireType  `json:"expansion,omitempty"`

	// assoc
	Arg *WireType `json:"arg,omitempty"`
}

var wireCstTags = map[string]coretypes.CstTag{
	"unit": coretypes.TagUnit, "bool": coretypes.TagBool,
	"int8": coretypes.TagInt8, "int16": coretypes.TagInt16,
	"int32": coretypes.TagInt32, "int64": coretypes.TagInt64,
	"float32": coretypes.TagFloat32, "float64": coretypes.TagFloat64,
	"bigint": coretypes.TagBigInt, "string": coretypes.TagString, "char": coretypes.TagChar,
	"pure": coretypes.TagPure, "impure": coretypes.TagImpure,
}

// toCore converts a WireType into a coretypes.Type, within the Cst/Fn/
// Alias/AssocType subset the wire format supports.
func (w *WireType) toCore() (coretypes.Type, error) {
	if w == nil {
		return nil, nil
	}
	switch w.Kind {
	case "cst":
		if w.Tag == "eff" {
			if w.Sym == nil {
				return nil, fmt.Errorf("corewire: cst(eff) missing sym")
			}
			return &coretypes.Cst{Tag: coretypes.TagEffectSym, Sym: w.Sym.toCore()}, nil
		}
		tag, ok := wireCstTags[w.Tag]
		if !ok {
			return nil, fmt.Errorf("corewire: unsupported cst tag %q", w.Tag)
		}
		return &coretypes.Cst{Tag: tag}, nil
	case "fn":
		param, err := w.Param.toCore()
		if err != nil {
			return nil, err
		}
		eff, err := w.Eff.toCore()
		if err != nil {
			return nil, err
		}
		result, err := w.Result.toCore()
		if err != nil {
			return nil, err
		}
		return coretypes.MkArrow(param, eff, result), nil
	case "alias":
		if w.Sym == nil || w.Expansion == nil {
			return nil, fmt.Errorf("corewire: alias missing sym or expansion")
		}
		args := make([]coretypes.Type, len(w.Args))
		for i := range w.Args {
			arg, err := (&w.Args[i]).toCore()
			if err != nil {
				return nil, err
			}
			args[i] = arg
		}
		expansion, err := w.Expansion.toCore()
		if err != nil {
			return nil, err
		}
		return &coretypes.Alias{Sym: w.Sym.toCore(), Args: args, Expansion: expansion}, nil
	case "assoc":
		if w.Sym == nil || w.Arg == nil {
			return nil, fmt.Errorf("corewire: assoc missing sym or arg")
		}
		arg, err := w.Arg.toCore()
		if err != nil {
			return nil, err
		}
		return &coretypes.AssocType{Sym: w.Sym.toCore(), Arg: arg, Kind: corekind.Star{}}, nil
	default:
		return nil, fmt.Errorf("corewire: unknown type kind %q", w.Kind)
	}
}

// WireParam is the JSON shape of coreast.Param.
type WireParam struct {
	Sym   WireSymbol `json:"sym"`
	Annot *WireType  `json:"annot,omitempty"`
	Loc   WireLoc    `json:"loc"`
}

// WireExpr is a Kind-tagged union over every coreast.Expr variant. Each
// variant uses a disjoint subset of these fields; see the inline field
// comments below for which fields a given Kind reads.
type WireExpr struct {
	Kind string  `json:"kind"`
	Loc  WireLoc `json:"loc"`

	// lit
	LitKind  string          `json:"litKind,omitempty"`
	LitValue json.RawMessage `json:"litValue,omitempty"`

	// var, do(op), datalog(relation)
	Sym *WireSymbol `json:"sym,omitempty"`

	// app(fn,arg)
	Fn  *WireExpr `json:"fn,omitempty"`
	Arg *WireExpr `json:"arg,omitempty"`

	// lambda(param,body)
	Param *WireParam `json:"param,omitempty"`
	Body  *WireExpr  `json:"body,omitempty"`

	// let(sym,value,body,rec)
	Value *WireExpr `json:"value,omitempty"`
	Rec   bool      `json:"rec,omitempty"`

	// if(cond,then,else)
	Cond *WireExpr `json:"cond,omitempty"`
	Then *WireExpr `json:"then,omitempty"`
	Else *WireExpr `json:"else,omitempty"`

	// match(scrutinee,cases)
	Scrutinee *WireExpr  `json:"scrutinee,omitempty"`
	Cases     []WireCase `json:"cases,omitempty"`

	// ascription(value,annot)
	Annot *WireType `json:"annot,omitempty"`

	// do(op,args), app-arity-N-style call arguments
	Args []WireExpr `json:"args,omitempty"`

	// try(body,handlers)
	Handlers []WireHandlerClause `json:"handlers,omitempty"`
}

// WireCase is the JSON shape of coreast.Case.
type WireCase struct {
	Pattern WirePattern `json:"pattern"`
	Guard   *WireExpr   `json:"guard,omitempty"`
	Body    WireExpr    `json:"body"`
}

// WireHandlerClause is the JSON shape of coreast.HandlerClause.
type WireHandlerClause struct {
	Op     WireSymbol   `json:"op"`
	Params []WireSymbol `json:"params,omitempty"`
	Resume WireSymbol   `json:"resume"`
	Body   WireExpr     `json:"body"`
}

// WirePattern is a Kind-tagged union over every coreast.Pattern variant.
type WirePattern struct {
	Kind string      `json:"kind"`
	Loc  WireLoc     `json:"loc"`
	Sym  *WireSymbol `json:"sym,omitempty"` // var, ctor

	// lit
	LitKind  string          `json:"litKind,omitempty"`
	LitValue json.RawMessage `json:"litValue,omitempty"`

	// ctor
	Args []WirePattern `json:"args,omitempty"`
}

func decodeLitValue(kind string, raw json.RawMessage) (coreast.LitKind, any, error) {
	switch kind {
	case "int":
		var v int64
		if err := json.Unmarshal(raw, &v); err != nil {
			return 0, nil, err
		}
		return coreast.LitInt, v, nil
	case "float":
		var v float64
		if err := json.Unmarshal(raw, &v); err != nil {
			return 0, nil, err
		}
		return coreast.LitFloat, v, nil
	case "string":
		var v string
		if err := json.Unmarshal(raw, &v); err != nil {
			return 0, nil, err
		}
		return coreast.LitString, v, nil
	case "bool":
		var v bool
		if err := json.Unmarshal(raw, &v); err != nil {
			return 0, nil, err
		}
		return coreast.LitBool, v, nil
	case "unit":
		return coreast.LitUnit, nil, nil
	default:
		return 0, nil, fmt.Errorf("corewire: unknown literal kind %q", kind)
	}
}

func (p *WirePattern) toCore() (coreast.Pattern, error) {
	loc := p.Loc.toCore()
	switch p.Kind {
	case "wildcard":
		return &coreast.PatternWildcard{Loc: loc}, nil
	case "var":
		if p.Sym == nil {
			return nil, fmt.Errorf("corewire: pattern var missing sym")
		}
		return &coreast.PatternVar{Sym: p.Sym.toCore(), Loc: loc}, nil
	case "lit":
		litKind, value, err := decodeLitValue(p.LitKind, p.LitValue)
		if err != nil {
			return nil, err
		}
		return &coreast.PatternLiteral{Lit: &coreast.Literal{Kind: litKind, Value: value, Loc: loc}, Loc: loc}, nil
	case "ctor":
		if p.Sym == nil {
			return nil, fmt.Errorf("corewire: pattern ctor missing sym")
		}
		args := make([]coreast.Pattern, len(p.Args))
		for i := range p.Args {
			arg, err := (&p.Args[i]).toCore()
			if err != nil {
				return nil, err
			}
			args[i] = arg
		}
		return &coreast.PatternConstructor{Ctor: p.Sym.toCore(), Args: args, Loc: loc}, nil
	default:
		return nil, fmt.Errorf("corewire: unknown pattern kind %q", p.Kind)
	}
}

// toCore converts a WireExpr tree into a coreast.Expr tree.
func (e *WireExpr) toCore() (coreast.Expr, error) {
	if e == nil {
		return nil, fmt.Errorf("corewire: nil expression")
	}
	loc := e.Loc.toCore()
	switch e.Kind {
	case "lit":
		litKind, value, err := decodeLitValue(e.LitKind, e.LitValue)
		if err != nil {
			return nil, err
		}
		return &coreast.Literal{Kind: litKind, Value: value, Loc: loc}, nil
	case "var":
		if e.Sym == nil {
			return nil, fmt.Errorf("corewire: var missing sym")
		}
		return &coreast.Var{Sym: e.Sym.toCore(), Loc: loc}, nil
	case "app":
		fn, err := e.Fn.toCore()
		if err != nil {
			return nil, err
		}
		arg, err := e.Arg.toCore()
		if err != nil {
			return nil, err
		}
		return &coreast.App{Fn: fn, Arg: arg, Loc: loc}, nil
	case "lambda":
		if e.Param == nil {
			return nil, fmt.Errorf("corewire: lambda missing param")
		}
		annot, err := e.Param.Annot.toCore()
		if err != nil {
			return nil, err
		}
		body, err := e.Body.toCore()
		if err != nil {
			return nil, err
		}
		return &coreast.Lambda{
			Param: coreast.Param{Sym: e.Param.Sym.toCore(), Annot: annot, Loc: e.Param.Loc.toCore()},
			Body:  body,
			Loc:   loc,
		}, nil
	case "let":
		if e.Sym == nil {
			return nil, fmt.Errorf("corewire: let missing sym")
		}
		value, err := e.Value.toCore()
		if err != nil {
			return nil, err
		}
		body, err := e.Body.toCore()
		if err != nil {
			return nil, err
		}
		return &coreast.Let{Sym: e.Sym.toCore(), Value: value, Body: body, Rec: e.Rec, Loc: loc}, nil
	case "if":
		cond, err := e.Cond.toCore()
		if err != nil {
			return nil, err
		}
		then, err := e.Then.toCore()
		if err != nil {
			return nil, err
		}
		els, err := e.Else.toCore()
		if err != nil {
			return nil, err
		}
		return &coreast.If{Cond: cond, Then: then, Else: els, Loc: loc}, nil
	case "match":
		scrutinee, err := e.Scrutinee.toCore()
		if err != nil {
			return nil, err
		}
		cases := make([]coreast.Case, len(e.Cases))
		for i, c := range e.Cases {
			pattern, err := c.Pattern.toCore()
			if err != nil {
				return nil, err
			}
			var guard coreast.Expr
			if c.Guard != nil {
				guard, err = c.Guard.toCore()
				if err != nil {
					return nil, err
				}
			}
			body, err := (&c.Body).toCore()
			if err != nil {
				return nil, err
			}
			cases[i] = coreast.Case{Pattern: pattern, Guard: guard, Body: body}
		}
		return &coreast.Match{Scrutinee: scrutinee, Cases: cases, Loc: loc}, nil
	case "region":
		body, err := e.Body.toCore()
		if err != nil {
			return nil, err
		}
		return &coreast.Region{Body: body, Loc: loc}, nil
	case "ascription":
		value, err := e.Value.toCore()
		if err != nil {
			return nil, err
		}
		annot, err := e.Annot.toCore()
		if err != nil {
			return nil, err
		}
		return &coreast.Ascription{Value: value, Annot: annot, Loc: loc}, nil
	case "do":
		if e.Sym == nil {
			return nil, fmt.Errorf("corewire: do missing sym")
		}
		args := make([]coreast.Expr, len(e.Args))
		for i := range e.Args {
			arg, err := (&e.Args[i]).toCore()
			if err != nil {
				return nil, err
			}
			args[i] = arg
		}
		return &coreast.Do{Op: e.Sym.toCore(), Args: args, Loc: loc}, nil
	case "try":
		body, err := e.Body.toCore()
		if err != nil {
			return nil, err
		}
		handlers := make([]coreast.HandlerClause, len(e.Handlers))
		for i, h := range e.Handlers {
			params := make([]coreast.Symbol, len(h.Params))
			for j, p := range h.Params {
				params[j] = p.toCore()
			}
			hbody, err := (&h.Body).toCore()
			if err != nil {
				return nil, err
			}
			handlers[i] = coreast.HandlerClause{Op: h.Op.toCore(), Params: params, Resume: h.Resume.toCore(), Body: hbody}
		}
		return &coreast.Try{Body: body, Handlers: handlers, Loc: loc}, nil
	case "datalog":
		if e.Sym == nil {
			return nil, fmt.Errorf("corewire: datalog missing sym")
		}
		return &coreast.DatalogAtom{Relation: e.Sym.toCore(), Loc: loc}, nil
	default:
		return nil, fmt.Errorf("corewire: unknown expression kind %q", e.Kind)
	}
}

// WireEffectOp is the JSON shape of coreinstances.EffectOp.
type WireEffectOp struct {
	Sym    WireSymbol `json:"sym"`
	Params []WireType `json:"params,omitempty"`
	Result WireType   `json:"result"`
	Effect WireSymbol `json:"effect"`
}

// WireDef is one top-level definition: its declared signature (nil when
// fully inferred), its body, and its source location.
type WireDef struct {
	Annot *WireType `json:"annot,omitempty"`
	Value WireExpr  `json:"value"`
	Loc   WireLoc   `json:"loc"`
}

// WireProgram is the full decoded input contract: a set of
// named top-level definitions plus any effect operation signatures they
// call through `do`. Enum/class/instance declarations have no wire
// representation, so a fixture cannot declare a non-builtin class or
// instance.
type WireProgram struct {
	Defs    map[string]WireDef `json:"defs"`
	Effects []WireEffectOp     `json:"effects,omitempty"`
}

// Decode parses data into a WireProgram.
func Decode(data []byte) (*WireProgram, error) {
	var p WireProgram
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("corewire: decoding program: %w", err)
	}
	return &p, nil
}

// FuncDecls converts the program's definitions into coreast.FuncDecls,
// sorted by symbol name so the result (and therefore coredriver.Run's
// worker assignment) is independent of Go's randomized map iteration.
func (p *WireProgram) FuncDecls() ([]*coreast.FuncDecl, error) {
	names := make([]string, 0, len(p.Defs))
	for name := range p.Defs {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]*coreast.FuncDecl, 0, len(names))
	for _, name := range names {
		def := p.Defs[name]
		value, err := (&def.Value).toCore()
		if err != nil {
			return nil, fmt.Errorf("corewire: def %s: %w", name, err)
		}
		annot, err := def.Annot.toCore()
		if err != nil {
			return nil, fmt.Errorf("corewire: def %s: %w", name, err)
		}
		out = append(out, &coreast.FuncDecl{
			Sym:   coreast.Symbol{Name: name},
			Value: value,
			Annot: annot,
			Loc:   def.Loc.toCore(),
		})
	}
	return out, nil
}

// BuildEnv constructs the coreinstances.Env a Run should use: the builtin
// class/associated-type preset named by the `lib` option, extended with
// whatever effect operations the program itself declares.
func (p *WireProgram) BuildEnv(lib coreconfig.Lib) (*coreinstances.Env, error) {
	var env *coreinstances.Env
	switch lib {
	case coreconfig.LibNix:
		env = coreinstances.NewEnv(coreinstances.NewClassEnv(), coreinstances.NewAssocEnv())
	case coreconfig.LibMin, coreconfig.LibAll:
		env = coreinstances.LoadBuiltinEnv()
	default:
		return nil, fmt.Errorf("corewire: unknown lib preset %q", lib)
	}

	for _, op := range p.Effects {
		params := make([]coretypes.Type, len(op.Params))
		for i := range op.Params {
			t, err := (&op.Params[i]).toCore()
			if err != nil {
				return nil, fmt.Errorf("corewire: effect op %s: %w", op.Sym.Name, err)
			}
			params[i] = t
		}
		result, err := (&op.Result).toCore()
		if err != nil {
			return nil, fmt.Errorf("corewire: effect op %s: %w", op.Sym.Name, err)
		}
		env.AddEffectOp(&coreinstances.EffectOp{
			Sym:    op.Sym.toCore(),
			Params: params,
			Result: result,
			Effect: op.Effect.toCore(),
		})
	}
	return env, nil
}

// DefSummary is the flat per-definition JSON summary emitted after a run:
// the definition's solved type and effect rendered as their String()
// form, not a recursive serialization of the full coretypedast.TypedNode
// tree: a compilation report, not an AST dump.
type DefSummary struct {
	Sym   string `json:"sym"`
	Type  string `json:"tpe,omitempty"`
	Eff   string `json:"eff,omitempty"`
	Error string `json:"error,omitempty"`
}

// Summarize renders a coredriver.Report (success case) into one DefSummary
// per definition, sorted by symbol name.
func Summarize(report *coredriver.Report) []DefSummary {
	names := make([]string, 0, len(report.Typed))
	for sym := range report.Typed {
		names = append(names, sym.Name)
	}
	sort.Strings(names)

	out := make([]DefSummary, len(names))
	for i, name := range names {
		sym := coreast.Symbol{Name: name}
		node := report.Typed[sym]
		out[i] = DefSummary{Sym: name, Type: node.GetType().String(), Eff: node.GetEffect().String()}
	}
	return out
}

// SummarizeErrors renders a failed run's coreresult.ErrorList into one
// DefSummary per error, preserving coredriver's already-stable (file,
// line, column, code) ordering.
func SummarizeErrors(errs coreresult.ErrorList) []DefSummary {
	out := make([]DefSummary, len(errs))
	for i, err := range errs {
		out[i] = DefSummary{Error: err.Error()}
	}
	return out
}
