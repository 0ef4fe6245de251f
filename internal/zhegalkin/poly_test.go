package zhegalkin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axion-lang/coreinfer/internal/coreast"
	"github.com/axion-lang/coreinfer/internal/coretypes"
)

func sym(name string) coreast.Symbol { return coreast.Symbol{Module: "IO", Name: name} }

func TestCstAlgebra(t *testing.T) {
	io := SingletonCst(sym("IO"))
	net := SingletonCst(sym("Net"))

	t.Run("union of disjoint constants", func(t *testing.T) {
		u := UnionCst(io, net)
		assert.False(t, u.Complement)
		assert.ElementsMatch(t, []coreast.Symbol{sym("IO"), sym("Net")}, u.Syms)
	})

	t.Run("inter of disjoint constants is empty", func(t *testing.T) {
		assert.True(t, InterCst(io, net).IsZero())
	})

	t.Run("not toggles complement and preserves syms", func(t *testing.T) {
		n := NotCst(io)
		assert.True(t, n.Complement)
		assert.Equal(t, io.Syms, n.Syms)
		assert.True(t, NotCst(n).Equal(io))
	})

	t.Run("universe is identity for intersection", func(t *testing.T) {
		assert.True(t, InterCst(UniverseCst(), io).Equal(io))
		assert.True(t, InterCst(io, UniverseCst()).Equal(io))
	})

	t.Run("empty is identity for union", func(t *testing.T) {
		assert.True(t, UnionCst(EmptyCst(), io).Equal(io))
	})

	t.Run("xor of a constant with itself is empty", func(t *testing.T) {
		assert.True(t, XorCst(io, io).IsZero())
	})
}

func TestZhegalkinLaws(t *testing.T) {
	zero := Zero()
	universe := Universe()
	ioCst := FromCst(SingletonCst(sym("IO")))

	t.Run("pure is the additive identity", func(t *testing.T) {
		assert.True(t, MkXor(zero, ioCst).Equal(ioCst))
	})

	t.Run("self-xor annihilates", func(t *testing.T) {
		assert.True(t, MkXor(ioCst, ioCst).Equal(zero))
	})

	t.Run("impure is the multiplicative identity", func(t *testing.T) {
		assert.True(t, MkInter(universe, ioCst).Equal(ioCst))
	})

	t.Run("double negation is identity", func(t *testing.T) {
		assert.True(t, MkNot(MkNot(ioCst)).Equal(ioCst))
	})

	t.Run("union is idempotent", func(t *testing.T) {
		assert.True(t, MkUnion(ioCst, ioCst).Equal(ioCst))
	})

	t.Run("intersection distributes over union", func(t *testing.T) {
		netCst := FromCst(SingletonCst(sym("Net")))
		fsCst := FromCst(SingletonCst(sym("FS")))
		lhs := MkInter(ioCst, MkUnion(netCst, fsCst))
		rhs := MkUnion(MkInter(ioCst, netCst), MkInter(ioCst, fsCst))
		assert.True(t, lhs.Equal(rhs), "lhs=%s rhs=%s", lhs, rhs)
	})

	t.Run("variable union with itself is itself", func(t *testing.T) {
		v := FromVar(1)
		assert.True(t, MkUnion(v, v).Equal(v))
	})

	t.Run("variable xor with itself is pure", func(t *testing.T) {
		v := FromVar(1)
		assert.True(t, MkXor(v, v).Equal(zero))
	})
}

func TestSolveZero(t *testing.T) {
	t.Run("pure solves with the empty substitution", func(t *testing.T) {
		sub, ok := SolveZero(Zero())
		require.True(t, ok)
		assert.Empty(t, sub)
	})

	t.Run("an unguarded nonzero constant never solves", func(t *testing.T) {
		_, ok := SolveZero(FromCst(SingletonCst(sym("IO"))))
		assert.False(t, ok)
	})

	t.Run("a lone variable solves to pure", func(t *testing.T) {
		v := coretypes.VarID(100)
		sub, ok := SolveZero(FromVar(v))
		require.True(t, ok)
		got := ApplyVarSubst(sub, FromVar(v))
		assert.True(t, got.IsZero())
	})

	t.Run("solution substituted back always satisfies the equation", func(t *testing.T) {
		v1, v2 := coretypes.VarID(201), coretypes.VarID(202)
		ioT := FromCst(SingletonCst(sym("IO")))
		eq := MkXor(MkInter(FromVar(v1), ioT), MkInter(FromVar(v2), ioT))
		sub, ok := SolveZero(eq)
		require.True(t, ok)
		assert.True(t, ApplyVarSubst(sub, eq).IsZero())
	})
}
