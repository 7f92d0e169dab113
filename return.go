package contractmodel

import (
	"fmt"

	"pgregory.net/rapid"
)

// Return is the model's prediction for one call: a predicate the
// implementation's concrete return must satisfy, an optional generator for
// synthesizing mock/proxy return values, and the state the model transitions
// to after the call. It corresponds to component A / spec.md §3 "Return
// descriptor R".
type Return[S any, T any] struct {
	predicate func(T) bool
	gen       *rapid.Generator[T]
	next      S
	hasNext   bool
}

// ReturnOption configures a Return constructed by NewReturn.
type ReturnOption[S any, T any] func(*Return[S, T])

// WithNextState sets the state the model moves to after this call. If
// omitted, the state is unchanged (spec.md §3: "If absent, treated as
// unchanged").
func WithNextState[S any, T any](next S) ReturnOption[S, T] {
	return func(r *Return[S, T]) {
		r.next = next
		r.hasNext = true
	}
}

// WithReturnGen attaches a generator used to synthesize mock/proxy return
// values. Required for any method exercised by Mock or by TestProxy in its
// ReturnModel mode; not required for Verify, which only ever checks
// predicate against a real implementation's return.
func WithReturnGen[S any, T any](gen *rapid.Generator[T]) ReturnOption[S, T] {
	return func(r *Return[S, T]) {
		r.gen = gen
	}
}

// NewReturn builds a Return descriptor. predicate must not be nil — an
// unconditionally-true predicate is still a predicate (use `func(T) bool {
// return true }` explicitly rather than passing nil) — this is a model
// construction error (spec.md §7 category 1), not deferred to first use.
func NewReturn[S any, T any](predicate func(T) bool, opts ...ReturnOption[S, T]) (Return[S, T], error) {
	if predicate == nil {
		return Return[S, T]{}, ErrNilPredicate
	}
	r := Return[S, T]{predicate: predicate}
	for _, opt := range opts {
		opt(&r)
	}
	return r, nil
}

// MustReturn is NewReturn for callers (typically method bodies) that treat
// a malformed Return as an unrecoverable programming error.
func MustReturn[S any, T any](predicate func(T) bool, opts ...ReturnOption[S, T]) Return[S, T] {
	r, err := NewReturn[S, T](predicate, opts...)
	if err != nil {
		panic(err)
	}
	return r
}

// Predicate reports whether an implementation's concrete return value
// conforms to this descriptor.
func (r Return[S, T]) Predicate(actual T) bool {
	return r.predicate(actual)
}

// NextState returns the state this call transitions to, and whether one was
// set explicitly (false means "unchanged").
func (r Return[S, T]) NextState() (S, bool) {
	return r.next, r.hasNext
}

// HasGen reports whether a mock/proxy return-value generator is available.
func (r Return[S, T]) HasGen() bool {
	return r.gen != nil
}

// Sample draws one value from the attached generator, deterministically for
// a given seed (spec.md §4.H: "Samples one value from R.gen (with an
// optional fixed seed for determinism)"). Returns ErrNoGenerator if none was
// attached — there is no generic way to derive a generator from an opaque
// T -> bool predicate in a statically typed target, so unlike the dynamic
// source, this is resolved at NewReturn call sites instead of synthesized
// here.
func (r Return[S, T]) Sample(seed int) (T, error) {
	var zero T
	if r.gen == nil {
		return zero, ErrNoGenerator
	}
	return r.gen.Example(seed), nil
}

// CheckImplAny type-asserts actual to T and evaluates the predicate against
// it. Used by erasedReturn so a Model[S] can hold methods with differing
// return types behind one interface.
//
// actual == nil is handled before the assertion: when T is itself an
// interface type (e.g. error), a genuinely nil T boxed into any is
// indistinguishable from "no value at all" to a type assertion — any.(T)
// on a nil any reports ok == false regardless of T — so asserting first
// would reject a method that legitimately returns nil as a type mismatch.
func (r Return[S, T]) CheckImplAny(actual any) (bool, error) {
	if actual == nil {
		var zero T
		return r.predicate(zero), nil
	}
	v, ok := actual.(T)
	if !ok {
		return false, fmt.Errorf("contractmodel: implementation return has type %T, want %T", actual, v)
	}
	return r.predicate(v), nil
}

// SampleAny is Sample with its result boxed as any, for the same reason as
// CheckImplAny.
func (r Return[S, T]) SampleAny(seed int) (any, error) {
	return r.Sample(seed)
}
