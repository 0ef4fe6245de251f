package coretypes

import (
	"fmt"
	"hash"
	"hash/fnv"
)

// HashKey returns a size-bounded structural hash of t, suitable as a cache
// key (spec.md §4.1's "size-bounded hashing for cache keys"). No cache in
// this module calls it: zhegalkin.Cache keys its entries on the
// polynomials' String() form, and the unifier keeps no cache of its own.
// Depth is capped so a
// pathologically deep term degrades to a coarser but still deterministic
// hash rather than recursing forever.
func HashKey(t Type) uint64 {
	h := fnv.New64a()
	writeHash(h, t, 64)
	return h.Sum64()
}

func writeHash(h hash.Hash64, t Type, depth int) {
	if depth <= 0 {
		fmt.Fprint(h, "#trunc")
		return
	}
	switch n := t.(type) {
	case *Var:
		fmt.Fprintf(h, "V%d", n.ID)
	case *Cst:
		fmt.Fprintf(h, "C%d/%d/%s/%s", n.Tag, n.Arity, n.Label, n.Sym)
	case *Apply:
		fmt.Fprint(h, "A(")
		writeHash(h, n.Head, depth-1)
		fmt.Fprint(h, ",")
		writeHash(h, n.Arg, depth-1)
		fmt.Fprint(h, ")")
	case *Alias:
		writeHash(h, n.Expansion, depth-1)
	case *AssocType:
		fmt.Fprintf(h, "AT(%s,", n.Sym)
		writeHash(h, n.Arg, depth-1)
		fmt.Fprint(h, ")")
	case *JvmToType:
		fmt.Fprint(h, "JT(")
		writeHash(h, n.Tpe, depth-1)
		fmt.Fprint(h, ")")
	case *JvmToEff:
		fmt.Fprint(h, "JE(")
		writeHash(h, n.Tpe, depth-1)
		fmt.Fprint(h, ")")
	case *UnresolvedJvmType:
		fmt.Fprintf(h, "JU(%s)", n.Member)
	default:
		fmt.Fprint(h, "?")
	}
}
