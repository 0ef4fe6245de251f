// Package coreresult provides a generic tri-state result value: Ok,
// OkWithWarnings, or Err. A per-definition inference run can succeed
// outright, succeed while surfacing non-fatal diagnostics (ambiguous
// class obligations left for a later defaulting pass, ignorable
// associated-type residues), or fail outright — a plain (T, error) pair
// cannot distinguish the first two, and spec.md §9 calls for all three.
//
// Grounded on internal/types/errors.go's ErrorList (an accumulating
// []*TypeCheckError with its own combined Error() string), generalized
// from "a list of errors" into an explicit three-state Result[T] since
// this package also needs to carry a success value alongside any
// warnings. Stdlib generics only: no library in the example pack
// provides a Validation-style applicative, and the teacher itself
// hand-rolls accumulation rather than importing one.
package coreresult

import (
	"fmt"
	"strings"
)

// Result is one of Ok(value), OkWithWarnings(value, warnings), or
// Err(err). The zero Result is not meaningful; always construct via Ok,
// Warn, or Err.
type Result[T any] struct {
	value    T
	warnings []error
	err      error
	ok       bool
}

// Ok wraps a successful value with no diagnostics.
func Ok[T any](value T) Result[T] {
	return Result[T]{value: value, ok: true}
}

// Warn wraps a successful value alongside non-fatal diagnostics.
func Warn[T any](value T, warnings ...error) Result[T] {
	return Result[T]{value: value, warnings: warnings, ok: true}
}

// Err wraps a fatal failure; no value is available.
func Err[T any](err error) Result[T] {
	return Result[T]{err: err}
}

// IsOk reports whether the result succeeded (with or without warnings).
func (r Result[T]) IsOk() bool { return r.ok }

// Warnings returns the result's accumulated non-fatal diagnostics, if any.
func (r Result[T]) Warnings() []error { return r.warnings }

// Err returns the failure, or nil if the result succeeded.
func (r Result[T]) Err() error { return r.err }

// Get returns the success value and its warnings, or the zero value and
// false if the result failed.
func (r Result[T]) Get() (T, []error, bool) {
	return r.value, r.warnings, r.ok
}

// Map transforms a successful value, preserving warnings and passing
// failures through unchanged.
func Map[T, U any](r Result[T], f func(T) U) Result[U] {
	if !r.ok {
		return Err[U](r.err)
	}
	return Result[U]{value: f(r.value), warnings: r.warnings, ok: true}
}

// FlatMap chains a Result-producing function, merging the warnings of
// both stages on success.
func FlatMap[T, U any](r Result[T], f func(T) Result[U]) Result[U] {
	if !r.ok {
		return Err[U](r.err)
	}
	next := f(r.value)
	if !next.ok {
		return next
	}
	return Result[U]{value: next.value, warnings: append(append([]error{}, r.warnings...), next.warnings...), ok: true}
}

// MapN combines every element of rs: if all succeed, f receives their
// values in order and the combined result carries every accumulated
// warning; the first failure short-circuits the rest.
func MapN[T, U any](rs []Result[T], f func([]T) U) Result[U] {
	values := make([]T, len(rs))
	var warnings []error
	for i, r := range rs {
		if !r.ok {
			return Err[U](r.err)
		}
		values[i] = r.value
		warnings = append(warnings, r.warnings...)
	}
	return Result[U]{value: f(values), warnings: warnings, ok: true}
}

// Traverse applies f to every item, collecting every failure rather than
// stopping at the first (spec.md §9's "report every definition's error,
// not just the first" requirement for a batch of top-level definitions).
// A Traverse with any failed item itself fails, carrying the combined
// ErrorList.
func Traverse[T, U any](items []T, f func(T) Result[U]) Result[[]U] {
	values := make([]U, 0, len(items))
	var warnings []error
	var errs ErrorList
	for _, item := range items {
		r := f(item)
		if !r.ok {
			errs = append(errs, r.err)
			continue
		}
		values = append(values, r.value)
		warnings = append(warnings, r.warnings...)
	}
	if len(errs) > 0 {
		return Err[[]U](errs)
	}
	return Result[[]U]{value: values, warnings: warnings, ok: true}
}

// FoldRight folds a slice of results right-to-left into a single
// accumulated value, short-circuiting on the first failure encountered
// from the right.
func FoldRight[T, A any](rs []Result[T], init A, f func(T, A) A) Result[A] {
	acc := init
	var warnings []error
	for i := len(rs) - 1; i >= 0; i-- {
		if !rs[i].ok {
			return Err[A](rs[i].err)
		}
		acc = f(rs[i].value, acc)
		warnings = append(rs[i].warnings, warnings...)
	}
	return Result[A]{value: acc, warnings: warnings, ok: true}
}

// ErrorList accumulates multiple failures from a Traverse call into a
// single error, mirroring the teacher's ErrorList combined Error()
// rendering.
type ErrorList []error

func (e ErrorList) Error() string {
	if len(e) == 0 {
		return "no errors"
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	parts := make([]string, 0, len(e)+1)
	parts = append(parts, fmt.Sprintf("%d errors:", len(e)))
	for i, err := range e {
		parts = append(parts, fmt.Sprintf("\n[%d] %s", i+1, err.Error()))
	}
	return strings.Join(parts, "")
}
