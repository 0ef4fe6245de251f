package zhegalkin

import (
	"sync"
	"sync/atomic"
)

// Cache memoizes the five hot operators (union, intersection, xor,
// constant-intersection, and SVE solving) behind independently toggled
// sync.Maps, so a driver running many definitions concurrently
// (internal/coredriver) shares one set of caches without contention on a
// single mutex. Grounded on the teacher's concurrency-free design in
// spirit only: the caching strategy itself is novel here, since inference
// in the teacher runs single-threaded and never needed query memoization.
type Cache struct {
	union, inter, xor, interCst, sve sync.Map

	unionEnabled, interEnabled, xorEnabled, interCstEnabled, sveEnabled atomic.Bool
}

// NewCache returns a cache with every layer enabled.
func NewCache() *Cache {
	c := &Cache{}
	c.unionEnabled.Store(true)
	c.interEnabled.Store(true)
	c.xorEnabled.Store(true)
	c.interCstEnabled.Store(true)
	c.sveEnabled.Store(true)
	return c
}

// SetUnionEnabled, SetInterEnabled, SetXorEnabled, SetInterCstEnabled, and
// SetSVEEnabled toggle individual cache layers; internal/coredriver calls
// them with internal/coreconfig's Cache* fields (spec.md §6's
// cacheUnion/cacheInter/cacheXor/cacheInterCst/cacheSVE options).
func (c *Cache) SetUnionEnabled(v bool)    { c.unionEnabled.Store(v) }
func (c *Cache) SetInterEnabled(v bool)    { c.interEnabled.Store(v) }
func (c *Cache) SetXorEnabled(v bool)      { c.xorEnabled.Store(v) }
func (c *Cache) SetInterCstEnabled(v bool) { c.interCstEnabled.Store(v) }
func (c *Cache) SetSVEEnabled(v bool)      { c.sveEnabled.Store(v) }

// ClearCaches discards all memoized entries, so stale VarIDs from a prior
// compilation never leak into a later one's cache keys. coredriver.Run
// does not call it; it builds a fresh Cache for every run.
func (c *Cache) ClearCaches() {
	c.union = sync.Map{}
	c.inter = sync.Map{}
	c.xor = sync.Map{}
	c.interCst = sync.Map{}
	c.sve = sync.Map{}
}

// canonicalKey builds a commutative cache key from two polynomial strings:
// since union/inter/xor are all commutative, sorting the operand strings
// means Union(a,b) and Union(b,a) share a cache entry.
func canonicalKey(op string, a, b Zhegalkin) string {
	sa, sb := a.String(), b.String()
	if sa > sb {
		sa, sb = sb, sa
	}
	return op + "|" + sa + "|" + sb
}

func (c *Cache) lookupOrCompute(m *sync.Map, enabled bool, key string, compute func() Zhegalkin) Zhegalkin {
	if !enabled {
		return compute()
	}
	if v, ok := m.Load(key); ok {
		return v.(Zhegalkin)
	}
	v := compute()
	actual, _ := m.LoadOrStore(key, v)
	return actual.(Zhegalkin)
}

// Union computes a∪b, consulting the cache when enabled.
func (c *Cache) Union(a, b Zhegalkin) Zhegalkin {
	return c.lookupOrCompute(&c.union, c.unionEnabled.Load(), canonicalKey("u", a, b), func() Zhegalkin {
		return MkUnion(a, b)
	})
}

// Inter computes a∩b, consulting the cache when enabled. The product
// expansion inside MkInter is itself driven through the constant-
// intersection cache layer, so a hit on the whole-polynomial cache isn't
// the only way this call benefits from memoization: two distinct pairs of
// operands that happen to share term-level constants still reuse those
// per-term InterCst results.
func (c *Cache) Inter(a, b Zhegalkin) Zhegalkin {
	return c.lookupOrCompute(&c.inter, c.interEnabled.Load(), canonicalKey("i", a, b), func() Zhegalkin {
		return mkInter(a, b, c.interCstCached)
	})
}

// interCstCached computes a∩b for two term coefficients, consulting the
// constant-intersection cache layer when enabled. Unlike Union/Inter/Xor,
// this is invoked once per (termA, termB) pair inside MkInter's product
// expansion rather than once per top-level Inter call, so its hit rate
// scales with polynomial size rather than with whole-polynomial recurrence.
func (c *Cache) interCstCached(a, b Cst) Cst {
	if !c.interCstEnabled.Load() {
		return InterCst(a, b)
	}
	key := canonicalCstKey(a, b)
	if v, ok := c.interCst.Load(key); ok {
		return v.(Cst)
	}
	v := InterCst(a, b)
	actual, _ := c.interCst.LoadOrStore(key, v)
	return actual.(Cst)
}

func canonicalCstKey(a, b Cst) string {
	sa, sb := a.String(), b.String()
	if sa > sb {
		sa, sb = sb, sa
	}
	return sa + "|" + sb
}

// Xor computes a⊕b, consulting the cache when enabled.
func (c *Cache) Xor(a, b Zhegalkin) Zhegalkin {
	return c.lookupOrCompute(&c.xor, c.xorEnabled.Load(), canonicalKey("x", a, b), func() Zhegalkin {
		return MkXor(a, b)
	})
}

// sveResult is the cached outcome of a Solve call: Ok distinguishes
// success from failure since a VarSubst cannot carry that on its own.
type sveResult struct {
	sub VarSubst
	ok  bool
}

// Solve solves z≡0, consulting the cache when enabled. Note that a cache
// hit still returns a substitution built from the original call's fresh
// cover variables: callers that need freshly-scoped cover variables on
// every call should disable SVE caching via SetSVEEnabled(false).
func (c *Cache) Solve(z Zhegalkin) (VarSubst, bool) {
	if !c.sveEnabled.Load() {
		return SolveZero(z)
	}
	key := z.String()
	if v, ok := c.sve.Load(key); ok {
		r := v.(sveResult)
		return r.sub, r.ok
	}
	sub, ok := SolveZero(z)
	actual, _ := c.sve.LoadOrStore(key, sveResult{sub: sub, ok: ok})
	r := actual.(sveResult)
	return r.sub, r.ok
}
