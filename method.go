package contractmodel

import (
	"context"
	"fmt"

	"pgregory.net/rapid"
)

// erasedReturn lets a Model[S] hold Return[S, T] values for differing T
// behind one interface, keyed only by method id. S stays a real type
// parameter throughout (state is never erased); only the per-method return
// type T is.
type erasedReturn[S any] interface {
	NextState() (S, bool)
	HasGen() bool
	CheckImplAny(actual any) (bool, error)
	SampleAny(seed int) (any, error)
}

// erasedMethod is the type-erased counterpart of Method[S, A, T], used
// internally so Model[S] can store methods with differing args/return types
// in one map keyed by id. Callers never implement this directly; NewMethod
// is the only constructor.
type erasedMethod[S any] interface {
	ID() string
	Requires(state S) bool
	SampleArgsAny(state S, seed int) (any, error)
	PreconditionAny(state S, args any) bool
	BodyAny(state S, args any) (erasedReturn[S], error)
	InvokeAny(ctx context.Context, impl any, args any) (any, error, bool)
}

// Method describes one operation of the modeled interface: its identity,
// when it is interesting to call (Requires), how to generate and accept
// arguments (Args / Precondition), and its model transition (Body). This is
// component B / spec.md §3 "Method descriptor M".
//
// A is the method's argument type and T its return type; both may differ
// per method within the same Model[S].
type Method[S any, A any, T any] struct {
	id           string
	requires     func(S) bool
	argsGen      func(S) *rapid.Generator[A]
	precondition func(S, A) bool
	body         func(S, A) Return[S, T]
	invoke       func(context.Context, any, A) (T, error)
}

// MethodOption configures a Method constructed by NewMethod.
type MethodOption[S any, A any, T any] func(*Method[S, A, T])

// WithRequires sets the method-selection interestingness filter (spec.md
// §3: "whether it is interesting to call this method in state S"). Default:
// always true.
func WithRequires[S any, A any, T any](requires func(S) bool) MethodOption[S, A, T] {
	return func(m *Method[S, A, T]) { m.requires = requires }
}

// WithPrecondition sets the generated-args acceptance filter. Default:
// always true.
func WithPrecondition[S any, A any, T any](precondition func(S, A) bool) MethodOption[S, A, T] {
	return func(m *Method[S, A, T]) { m.precondition = precondition }
}

// WithInvoke attaches the callback Verify and TestProxy use to dispatch this
// method to a real implementation: Go has no runtime mechanism to turn an
// arbitrary impl value into "call the operation named by this method id" the
// way a dynamically typed host can, so the model author supplies it
// explicitly (spec.md §9's "explicit capability set"). Mock never calls it;
// a method exercised only by Mock can omit it.
func WithInvoke[S any, A any, T any](invoke func(context.Context, any, A) (T, error)) MethodOption[S, A, T] {
	return func(m *Method[S, A, T]) { m.invoke = invoke }
}

// NewMethod builds a Method descriptor. id must be non-empty and unique
// within a Model; argsGen and body must be non-nil.
func NewMethod[S any, A any, T any](
	id string,
	argsGen func(S) *rapid.Generator[A],
	body func(S, A) Return[S, T],
	opts ...MethodOption[S, A, T],
) (Method[S, A, T], error) {
	if id == "" {
		return Method[S, A, T]{}, ErrEmptyMethodID
	}
	if argsGen == nil {
		return Method[S, A, T]{}, ErrNilArgsGen
	}
	if body == nil {
		return Method[S, A, T]{}, fmt.Errorf("contractmodel: method %q: %w", id, ErrNilPredicate)
	}
	m := Method[S, A, T]{
		id:           id,
		argsGen:      argsGen,
		body:         body,
		requires:     func(S) bool { return true },
		precondition: func(S, A) bool { return true },
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m, nil
}

// MustMethod is NewMethod for callers that treat a malformed Method as an
// unrecoverable programming error (typically at package-init time, building
// a fixed Model).
func MustMethod[S any, A any, T any](
	id string,
	argsGen func(S) *rapid.Generator[A],
	body func(S, A) Return[S, T],
	opts ...MethodOption[S, A, T],
) Method[S, A, T] {
	m, err := NewMethod[S, A, T](id, argsGen, body, opts...)
	if err != nil {
		panic(err)
	}
	return m
}

// ID returns the method's stable identifier.
func (m Method[S, A, T]) ID() string { return m.id }

// Requires reports whether it is interesting to call this method in state.
func (m Method[S, A, T]) Requires(state S) bool { return m.requires(state) }

// Args returns the argument generator for this method in state.
func (m Method[S, A, T]) Args(state S) *rapid.Generator[A] { return m.argsGen(state) }

// Precondition reports whether args are acceptable in state. Only enforced
// by the call-sequence generator (and therefore by Verify, which only ever
// runs generator-produced traces); Mock does not check it (spec.md §9 open
// question 1, resolved as "no enforcement").
func (m Method[S, A, T]) Precondition(state S, args A) bool { return m.precondition(state, args) }

// Body computes the model's transition for one call.
func (m Method[S, A, T]) Body(state S, args A) Return[S, T] { return m.body(state, args) }

func (m Method[S, A, T]) SampleArgsAny(state S, seed int) (any, error) {
	gen := m.argsGen(state)
	if gen == nil {
		return nil, ErrNilArgsGen
	}
	return gen.Example(seed), nil
}

func (m Method[S, A, T]) PreconditionAny(state S, args any) bool {
	a, ok := args.(A)
	if !ok {
		return false
	}
	return m.precondition(state, a)
}

func (m Method[S, A, T]) BodyAny(state S, args any) (erasedReturn[S], error) {
	a, ok := args.(A)
	if !ok {
		return nil, fmt.Errorf("contractmodel: method %q: args has type %T, want %T", m.id, args, a)
	}
	return m.body(state, a), nil
}

func (m Method[S, A, T]) InvokeAny(ctx context.Context, impl any, args any) (any, error, bool) {
	if m.invoke == nil {
		return nil, nil, false
	}
	a, ok := args.(A)
	if !ok {
		return nil, fmt.Errorf("contractmodel: method %q: args has type %T, want %T", m.id, args, a), true
	}
	v, err := m.invoke(ctx, impl, a)
	return v, err, true
}
