// Package coredriver schedules one worker per top-level definition:
// a bounded goroutine pool pulls definitions off the slice,
// each worker owns its own corectx.Context/coregen.Generator/
// coreunify.Unifier for the lifetime of that one definition and shares
// nothing mutable with its siblings, and the driver merges every worker's
// substitution and diagnostics back into one report once all of them
// finish (or time out).
//
// Grounded on cmd/ailang/eval_suite.go runBenchmarksParallel
// (sync.WaitGroup, a buffered channel used as a concurrency semaphore, a
// mutex-protected shared progress counter, and an indexed results slice
// so each worker writes only its own slot) generalized here to
// golang.org/x/sync/errgroup's SetLimit, which expresses the same bounded
// fan-out/join idiom without hand-rolling the semaphore channel; errgroup
// is already a direct module dependency, though nothing upstream exercises
// it directly, so this package is its first concrete use. Per-definition
// timeout is grounded on
// internal/eval_harness/runner.go's done-channel-plus-select pattern
// (Run's "wait with timeout" case).
package coredriver

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/axion-lang/coreinfer/internal/coreast"
	"github.com/axion-lang/coreinfer/internal/coreconfig"
	"github.com/axion-lang/coreinfer/internal/corectx"
	"github.com/axion-lang/coreinfer/internal/coreerrors"
	"github.com/axion-lang/coreinfer/internal/coregen"
	"github.com/axion-lang/coreinfer/internal/coreinstances"
	"github.com/axion-lang/coreinfer/internal/corekind"
	"github.com/axion-lang/coreinfer/internal/coreresult"
	"github.com/axion-lang/coreinfer/internal/coresolve"
	"github.com/axion-lang/coreinfer/internal/corestats"
	"github.com/axion-lang/coreinfer/internal/coretypedast"
	"github.com/axion-lang/coreinfer/internal/coretypes"
	"github.com/axion-lang/coreinfer/internal/coreunify"
	"github.com/axion-lang/coreinfer/internal/zhegalkin"
)

// TimeoutError reports a definition that did not finish within
// coreconfig.Config's per-definition budget. It does not affect sibling
// definitions.
type TimeoutError struct {
	Sym     coreast.Symbol
	Loc     coreast.Loc
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s: %s: timed out after %s", e.Loc, e.Sym, e.Timeout)
}

// Report is the merged result of running every definition: one root
// substitution composed left to right in definition order, the typed AST
// for every definition that solved cleanly, residual class obligations,
// and a timing/throughput summary.
type Report struct {
	Substitution coretypes.Substitution
	Typed        map[coreast.Symbol]coretypedast.TypedNode
	Obligations  []coresolve.Obligation
	Stats        corestats.Report
}

type definitionResult struct {
	sym         coreast.Symbol
	typed       coretypedast.TypedNode
	sub         coretypes.Substitution
	obligations []coresolve.Obligation
	err         error
}

// Run types every definition in defs, at most cfg.Threads at a time, and
// merges the results. It never returns early on a single definition's
// type error: every definition is attempted, and every failure is
// collected into the returned coreresult.ErrorList, following a
// report-every-definition's-error requirement.
func Run(ctx context.Context, defs []*coreast.FuncDecl, instances *coreinstances.Env, cfg coreconfig.Config) (*Report, coreresult.ErrorList) {
	timeout, err := cfg.Resolve()
	if err != nil {
		return nil, coreresult.ErrorList{err}
	}

	threads := cfg.Threads
	if threads <= 0 {
		threads = 1
	}

	signatures := coregen.NewEnv()
	for _, def := range defs {
		if def.Annot != nil {
			signatures = signatures.Extend(def.Sym, def.Annot)
		}
	}

	cache := zhegalkin.NewCache()
	cache.SetUnionEnabled(cfg.CacheUnion)
	cache.SetInterEnabled(cfg.CacheInter)
	cache.SetXorEnabled(cfg.CacheXor)
	cache.SetSVEEnabled(cfg.CacheSVE)
	cache.SetInterCstEnabled(cfg.CacheInterCst)
	collector := corestats.NewCollector(threads, countLines(defs))
	results := make([]definitionResult, len(defs))

	var statsMu sync.Mutex
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(threads)

	for i, def := range defs {
		i, def := i, def
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				results[i] = definitionResult{sym: def.Sym, err: err}
				return nil
			}
			start := time.Now()
			results[i] = runDefinitionWithTimeout(groupCtx, def, signatures, instances, cache, timeout)
			statsMu.Lock()
			collector.AddPhase("infer", time.Since(start))
			statsMu.Unlock()
			return nil
		})
	}
	_ = group.Wait() // per-definition errors are carried in results, never propagated to siblings

	return merge(results, collector)
}

// runDefinitionWithTimeout races inferDefinition against cfg's
// per-definition budget (nil meaning no budget) and the caller's context,
// exactly mirroring runner.go's "wait with timeout" select: the losing
// side's goroutine is abandoned rather than forcibly killed, since an
// in-process computation has no analogue to exec.Cmd's Process.Kill.
func runDefinitionWithTimeout(ctx context.Context, def *coreast.FuncDecl, signatures *coregen.Env, instances *coreinstances.Env, cache *zhegalkin.Cache, timeout *time.Duration) definitionResult {
	done := make(chan definitionResult, 1)
	go func() {
		done <- inferDefinition(ctx, def, signatures, instances, cache)
	}()

	if timeout == nil {
		select {
		case res := <-done:
			return res
		case <-ctx.Done():
			return definitionResult{sym: def.Sym, err: ctx.Err()}
		}
	}

	select {
	case res := <-done:
		return res
	case <-ctx.Done():
		return definitionResult{sym: def.Sym, err: ctx.Err()}
	case <-time.After(*timeout):
		return definitionResult{sym: def.Sym, err: &TimeoutError{Sym: def.Sym, Loc: def.Loc, Timeout: *timeout}}
	}
}

// inferDefinition runs the full generate-solve-build pipeline for one
// definition in an isolated corectx.Context, mirroring coregen's own
// let.Rec handling (internal/coregen/gen.go's inferLet) to support direct
// self-recursion: a fresh placeholder stands in for the definition's own
// symbol while its body is inferred, then is unified with the inferred
// type (and the declared Annot, if any) once the body is done. Mutually
// recursive definitions that both lack an explicit Annot are not
// supported by this scheduling model — each worker only ever sees
// signatures that were already known before Run started — so such a pair
// resolves to an unbound-variable error on whichever one is missing its
// sibling's declaration; giving every member of a recursive group an
// explicit Annot avoids it.
func inferDefinition(ctx context.Context, def *coreast.FuncDecl, signatures *coregen.Env, instances *coreinstances.Env, cache *zhegalkin.Cache) definitionResult {
	if err := ctx.Err(); err != nil {
		return definitionResult{sym: def.Sym, err: err}
	}

	coreCtx := corectx.New()
	gen := coregen.New(coreCtx, instances)

	placeholder := coretypes.NewVar(corekind.Star{}, 0)
	env := signatures.Extend(def.Sym, placeholder)

	valueType, _, err := gen.Infer(env, def.Value)
	if err != nil {
		return definitionResult{sym: def.Sym, err: err}
	}
	coreCtx.UnifyType(placeholder, valueType, def.Loc)
	if def.Annot != nil {
		coreCtx.ExpectType(def.Annot, valueType, def.Loc)
	}

	constraints, err := coreCtx.Finish()
	if err != nil {
		return definitionResult{sym: def.Sym, err: err}
	}

	if err := ctx.Err(); err != nil {
		return definitionResult{sym: def.Sym, err: err}
	}

	unifier := coreunify.New(instances.Assoc, cache, coreCtx.RigidSet())
	result, err := coresolve.Solve(constraints, unifier, instances.Class)
	if err != nil {
		return definitionResult{sym: def.Sym, err: err}
	}

	builder := coretypedast.NewBuilder(gen, result.Substitution)
	typed, err := builder.Build(def.Value)
	if err != nil {
		return definitionResult{sym: def.Sym, err: err}
	}

	return definitionResult{
		sym:         def.Sym,
		typed:       typed,
		sub:         result.Substitution,
		obligations: result.Obligations,
	}
}

// merge composes every definition's substitution left to right in
// definition order (coretypes.Compose, grounded on the same composition
// idiom internal/types.ComposeSubstitutions uses) and collects every failure into one
// coreresult.ErrorList, stable-sorted by (source, line, col, code) so a run's
// diagnostics are reproducible regardless of which worker finished first.
func merge(results []definitionResult, collector *corestats.Collector) (*Report, coreresult.ErrorList) {
	sub := coretypes.Substitution{}
	typed := make(map[coreast.Symbol]coretypedast.TypedNode, len(results))
	var obligations []coresolve.Obligation
	var errs coreresult.ErrorList

	for _, res := range results {
		if res.err != nil {
			errs = append(errs, res.err)
			continue
		}
		sub = coretypes.Compose(res.sub, sub)
		typed[res.sym] = res.typed
		obligations = append(obligations, res.obligations...)
	}

	sort.SliceStable(errs, func(i, j int) bool {
		li, lj := locOf(errs[i]), locOf(errs[j])
		if li.File != lj.File {
			return li.File < lj.File
		}
		if li.Line != lj.Line {
			return li.Line < lj.Line
		}
		if li.Column != lj.Column {
			return li.Column < lj.Column
		}
		ci, _ := errs[i].(*coreerrors.CoreError)
		cj, _ := errs[j].(*coreerrors.CoreError)
		if ci != nil && cj != nil {
			return ci.Code < cj.Code
		}
		return false
	})

	if len(errs) > 0 {
		return nil, errs
	}
	return &Report{
		Substitution: sub,
		Typed:        typed,
		Obligations:  obligations,
		Stats:        collector.Report(),
	}, nil
}

func locOf(err error) coreast.Loc {
	if ce, ok := err.(*coreerrors.CoreError); ok {
		return ce.Loc
	}
	if te, ok := err.(*TimeoutError); ok {
		return te.Loc
	}
	return coreast.Loc{}
}

func countLines(defs []*coreast.FuncDecl) int {
	max := 0
	for _, def := range defs {
		if def.Loc.Line > max {
			max = def.Loc.Line
		}
	}
	return max
}
