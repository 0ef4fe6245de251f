package coreresult

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOkCarriesValueAndNoWarnings(t *testing.T) {
	r := Ok(42)
	v, warnings, ok := r.Get()
	require.True(t, ok)
	assert.Equal(t, 42, v)
	assert.Empty(t, warnings)
}

func TestWarnCarriesValueAndWarnings(t *testing.T) {
	r := Warn(42, errors.New("ambiguous Ord[a]"))
	v, warnings, ok := r.Get()
	require.True(t, ok)
	assert.Equal(t, 42, v)
	require.Len(t, warnings, 1)
}

func TestErrCarriesNoValue(t *testing.T) {
	r := Err[int](errors.New("boom"))
	_, _, ok := r.Get()
	assert.False(t, ok)
	assert.EqualError(t, r.Err(), "boom")
}

func TestMapTransformsSuccessAndPreservesWarnings(t *testing.T) {
	r := Warn(2, errors.New("w"))
	mapped := Map(r, func(n int) int { return n * 10 })
	v, warnings, ok := mapped.Get()
	require.True(t, ok)
	assert.Equal(t, 20, v)
	assert.Len(t, warnings, 1)
}

func TestMapPassesFailureThrough(t *testing.T) {
	r := Err[int](errors.New("boom"))
	mapped := Map(r, func(n int) int { return n * 10 })
	assert.False(t, mapped.IsOk())
}

func TestFlatMapMergesWarningsAcrossStages(t *testing.T) {
	r := Warn(2, errors.New("first"))
	chained := FlatMap(r, func(n int) Result[int] { return Warn(n+1, errors.New("second")) })
	v, warnings, ok := chained.Get()
	require.True(t, ok)
	assert.Equal(t, 3, v)
	assert.Len(t, warnings, 2)
}

func TestMapNCombinesAllValues(t *testing.T) {
	rs := []Result[int]{Ok(1), Ok(2), Ok(3)}
	combined := MapN(rs, func(vs []int) int {
		sum := 0
		for _, v := range vs {
			sum += v
		}
		return sum
	})
	v, _, ok := combined.Get()
	require.True(t, ok)
	assert.Equal(t, 6, v)
}

func TestMapNShortCircuitsOnFirstFailure(t *testing.T) {
	rs := []Result[int]{Ok(1), Err[int](errors.New("boom")), Ok(3)}
	combined := MapN(rs, func(vs []int) int { return 0 })
	assert.False(t, combined.IsOk())
}

func TestTraverseCollectsEveryFailure(t *testing.T) {
	items := []int{1, -1, 2, -2}
	result := Traverse(items, func(n int) Result[int] {
		if n < 0 {
			return Err[int](errors.New("negative"))
		}
		return Ok(n)
	})
	require.False(t, result.IsOk())
	var list ErrorList
	require.ErrorAs(t, result.Err(), &list)
	assert.Len(t, list, 2)
}

func TestTraverseSucceedsWhenNoFailures(t *testing.T) {
	items := []int{1, 2, 3}
	result := Traverse(items, func(n int) Result[int] { return Ok(n * 2) })
	v, _, ok := result.Get()
	require.True(t, ok)
	assert.Equal(t, []int{2, 4, 6}, v)
}

func TestFoldRightAccumulatesRightToLeft(t *testing.T) {
	rs := []Result[int]{Ok(1), Ok(2), Ok(3)}
	result := FoldRight(rs, 0, func(v int, acc int) int { return v + acc*10 })
	v, _, ok := result.Get()
	require.True(t, ok)
	assert.Equal(t, 321, v)
}
