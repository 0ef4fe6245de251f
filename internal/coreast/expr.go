package coreast

import "github.com/axion-lang/coreinfer/internal/coretypes"

// Expr is the closed sum of resolved-AST expression nodes the constraint
// generator walks (spec.md §4.5). Every constructor carries a Loc and,
// where applicable, an already-resolved Symbol — name/module/kind
// resolution is an external collaborator's job, not this package's.
//
// Grounded on the teacher's internal/ast.Expr marker-method sum (Identifier,
// Literal, FuncCall, Lambda, Let, If, Match, ...), generalized with the
// region-scope, effect-operation, and handler constructors spec.md §4.5
// adds that the teacher has no direct equivalent for.
type Expr interface {
	exprNode()
	Position() Loc
}

// LitKind tags the primitive literal shapes spec.md's core surface needs.
type LitKind int

const (
	LitInt LitKind = iota
	LitFloat
	LitString
	LitBool
	LitUnit
)

// Literal is a constant of one of the primitive literal kinds.
type Literal struct {
	Kind  LitKind
	Value any
	Loc   Loc
}

func (*Literal) exprNode()       {}
func (l *Literal) Position() Loc { return l.Loc }

// Var references an already-resolved binding by Symbol.
type Var struct {
	Sym Symbol
	Loc Loc
}

func (*Var) exprNode()       {}
func (v *Var) Position() Loc { return v.Loc }

// App is curried application: App(App(f, x), y) represents f(x, y).
type App struct {
	Fn  Expr
	Arg Expr
	Loc Loc
}

func (*App) exprNode()       {}
func (a *App) Position() Loc { return a.Loc }

// Param is one lambda parameter, optionally ascribed.
type Param struct {
	Sym   Symbol
	Annot coretypes.Type // nil when unannotated
	Loc   Loc
}

// Lambda is a single-parameter abstraction; multi-argument functions are
// curried chains of Lambda, mirroring App's curried shape.
type Lambda struct {
	Param Param
	Body  Expr
	Loc   Loc
}

func (*Lambda) exprNode()       {}
func (l *Lambda) Position() Loc { return l.Loc }

// Let is a (non-recursive) local binding. Rec, when true, makes Sym visible
// within Value itself for recursive local definitions.
type Let struct {
	Sym   Symbol
	Value Expr
	Body  Expr
	Rec   bool
	Loc   Loc
}

func (*Let) exprNode()       {}
func (l *Let) Position() Loc { return l.Loc }

// If is a three-branch conditional; both branches are required (no
// implicit unit-typed else).
type If struct {
	Cond Expr
	Then Expr
	Else Expr
	Loc  Loc
}

func (*If) exprNode()       {}
func (i *If) Position() Loc { return i.Loc }

// Pattern is the closed sum of match-clause patterns.
type Pattern interface {
	patternNode()
	Position() Loc
}

// PatternWildcard matches anything and binds nothing.
type PatternWildcard struct{ Loc Loc }

func (*PatternWildcard) patternNode()   {}
func (p *PatternWildcard) Position() Loc { return p.Loc }

// PatternVar matches anything and binds it to Sym.
type PatternVar struct {
	Sym Symbol
	Loc Loc
}

func (*PatternVar) patternNode()   {}
func (p *PatternVar) Position() Loc { return p.Loc }

// PatternLiteral matches a specific literal value.
type PatternLiteral struct {
	Lit *Literal
	Loc Loc
}

func (*PatternLiteral) patternNode()   {}
func (p *PatternLiteral) Position() Loc { return p.Loc }

// PatternConstructor matches a data constructor applied to sub-patterns,
// e.g. `Some(x)` or `Cons(h, t)`.
type PatternConstructor struct {
	Ctor Symbol
	Args []Pattern
	Loc  Loc
}

func (*PatternConstructor) patternNode()   {}
func (p *PatternConstructor) Position() Loc { return p.Loc }

// Case is one match clause: Pattern, optional Guard, and Body.
type Case struct {
	Pattern Pattern
	Guard   Expr // nil when unguarded
	Body    Expr
}

// Match scrutinizes Scrutinee against each Case in order.
type Match struct {
	Scrutinee Expr
	Cases     []Case
	Loc       Loc
}

func (*Match) exprNode()       {}
func (m *Match) Position() Loc { return m.Loc }

// Region introduces a scoped effect boundary: Body is typed with a fresh
// rigid effect variable standing for "everything performed directly in
// this region," which the constraint generator purifies to Pure across
// Region's own boundary (spec.md §4.4's EnterRegion/ExitRegion protocol).
type Region struct {
	Body Expr
	Loc  Loc
}

func (*Region) exprNode()       {}
func (r *Region) Position() Loc { return r.Loc }

// Ascription attaches an explicit, user-written type to Value, producing
// an ExpectType constraint rather than a plain Equality one.
type Ascription struct {
	Value Expr
	Annot coretypes.Type
	Loc   Loc
}

func (*Ascription) exprNode()       {}
func (a *Ascription) Position() Loc { return a.Loc }

// Do invokes a declared effect operation (`do readLine()`), looked up
// through coreinstances.Env rather than hard-coded, per spec.md §4.5's
// generalization of the teacher's fixed effect built-ins.
type Do struct {
	Op   Symbol
	Args []Expr
	Loc  Loc
}

func (*Do) exprNode()       {}
func (d *Do) Position() Loc { return d.Loc }

// HandlerClause handles one effect operation inside a Try block, binding
// its arguments and a resumption symbol.
type HandlerClause struct {
	Op     Symbol
	Params []Symbol
	Resume Symbol
	Body   Expr
}

// Try runs Body and dispatches any operation in Handlers performed within
// it, subtracting the handled operations' effect symbols from Body's
// effect and unioning in whatever each handler clause itself performs.
type Try struct {
	Body     Expr
	Handlers []HandlerClause
	Loc      Loc
}

func (*Try) exprNode()       {}
func (t *Try) Position() Loc { return t.Loc }

// DatalogAtom is a placeholder for relation/lattice atom occurrences. It
// is never type-checked by this package: the constraint generator reports
// UnsupportedConstruct for it, since Datalog fixpoint evaluation is an
// external collaborator (spec.md §1 Non-goals, §9 Open Questions).
type DatalogAtom struct {
	Relation Symbol
	Loc      Loc
}

func (*DatalogAtom) exprNode()       {}
func (d *DatalogAtom) Position() Loc { return d.Loc }

// FuncDecl is a top-level definition: the unit of work the concurrent
// driver (internal/coredriver) dispatches one worker per.
type FuncDecl struct {
	Sym   Symbol
	Value Expr
	Annot coretypes.Type // nil when the signature is to be fully inferred
	Loc   Loc
}
