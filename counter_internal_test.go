package contractmodel

import (
	"context"

	"pgregory.net/rapid"
)

// A tiny in-package test fixture: a counter with inc/reset, used by the root
// package's own tests to exercise Model/Method/Return, generation,
// shrinking, mock, verify and proxy. It is the only model the repository's
// tests use.

type counterIface interface {
	Inc() int
	Reset() int
}

type counterImpl struct{ n int }

func (c *counterImpl) Inc() int   { c.n++; return c.n }
func (c *counterImpl) Reset() int { c.n = 0; return c.n }

// brokenCounterImpl never actually resets, which disagrees with the model
// the moment reset is called on a nonzero counter.
type brokenCounterImpl struct{ n int }

func (c *brokenCounterImpl) Inc() int   { c.n++; return c.n }
func (c *brokenCounterImpl) Reset() int { return c.n }

func unitGen(int) *rapid.Generator[struct{}] {
	return rapid.Custom(func(*rapid.T) struct{} { return struct{}{} })
}

func constantIntGen(v int) *rapid.Generator[int] {
	return rapid.Custom(func(*rapid.T) int { return v })
}

func newCounterModel() (*Model[int], error) {
	inc, err := NewMethod(
		"inc",
		unitGen,
		func(state int, _ struct{}) Return[int, int] {
			next := state + 1
			return MustReturn[int, int](
				func(actual int) bool { return actual == next },
				WithNextState[int, int](next),
				WithReturnGen[int, int](constantIntGen(next)),
			)
		},
		WithInvoke[int, struct{}, int](func(_ context.Context, impl any, _ struct{}) (int, error) {
			return impl.(counterIface).Inc(), nil
		}),
	)
	if err != nil {
		return nil, err
	}

	reset, err := NewMethod(
		"reset",
		unitGen,
		func(state int, _ struct{}) Return[int, int] {
			return MustReturn[int, int](
				func(actual int) bool { return actual == 0 },
				WithNextState[int, int](0),
				WithReturnGen[int, int](constantIntGen(0)),
			)
		},
		WithInvoke[int, struct{}, int](func(_ context.Context, impl any, _ struct{}) (int, error) {
			return impl.(counterIface).Reset(), nil
		}),
	)
	if err != nil {
		return nil, err
	}

	return NewModel[int]([]any{inc, reset}, func() int { return 0 })
}
