package contractmodel

import (
	"context"
	"fmt"

	"pgregory.net/rapid"
)

// Model is a set of Method descriptors plus an initial state, a
// method-selection generator, and an optional cleanup hook. It is
// component C / spec.md §3 "Model Mdl".
type Model[S any] struct {
	methods      map[string]erasedMethod[S]
	order        []string
	initialState func() S
	genMethod    func(state S, eligibleIDs []string, seed int) (string, error)
	cleanup      func(ctx context.Context, impl any, calls []CallRecord[S]) error
}

// ModelOption configures a Model constructed by NewModel.
type ModelOption[S any] func(*Model[S])

// WithGenMethod overrides method selection: given the ids of methods
// eligible in the current state, it returns the id to call next. The
// default selects uniformly at random, via rapid.IntRange, among eligible
// ids.
func WithGenMethod[S any](genMethod func(state S, eligibleIDs []string, seed int) (string, error)) ModelOption[S] {
	return func(m *Model[S]) { m.genMethod = genMethod }
}

// WithCleanup sets the hook invoked by Verify after executing (or failing to
// execute) a trace against a real implementation, regardless of outcome
// (spec.md §4.G step 4, §5 "cancellation").
func WithCleanup[S any](cleanup func(ctx context.Context, impl any, calls []CallRecord[S]) error) ModelOption[S] {
	return func(m *Model[S]) { m.cleanup = cleanup }
}

// NewModel builds a Model from a set of methods (unique ids) and an
// initial-state factory. At least one method must have Requires(initial)
// == true, or generation would be impossible (spec.md §3 invariant 5).
//
// methods takes []any rather than a named interface type because the
// interface Method[S, A, T] satisfies to become usable here is unexported
// (Model needs to hold methods with differing A/T behind one type, but that
// erasure is this package's own bookkeeping, not part of the public API) —
// pass the Method[S, A, T] values NewMethod/MustMethod returned directly;
// each is type-asserted against that interface internally.
func NewModel[S any](methods []any, initialState func() S, opts ...ModelOption[S]) (*Model[S], error) {
	if initialState == nil {
		return nil, ErrNoInitialState
	}
	if len(methods) == 0 {
		return nil, ErrNoMethods
	}

	mdl := &Model[S]{
		methods:      make(map[string]erasedMethod[S], len(methods)),
		initialState: initialState,
	}
	for _, raw := range methods {
		meth, ok := raw.(erasedMethod[S])
		if !ok {
			return nil, fmt.Errorf("%w: %T", ErrInvalidMethod, raw)
		}
		id := meth.ID()
		if id == "" {
			return nil, ErrEmptyMethodID
		}
		if _, exists := mdl.methods[id]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateMethodID, id)
		}
		mdl.methods[id] = meth
		mdl.order = append(mdl.order, id)
	}
	for _, opt := range opts {
		opt(mdl)
	}
	if mdl.genMethod == nil {
		mdl.genMethod = defaultGenMethod[S]
	}

	init := initialState()
	hasEligible := false
	for _, id := range mdl.order {
		if mdl.methods[id].Requires(init) {
			hasEligible = true
			break
		}
	}
	if !hasEligible {
		return nil, ErrNoEligibleInitial
	}

	return mdl, nil
}

// defaultGenMethod selects uniformly at random among eligible ids, via the
// generator library's own sampler rather than math/rand directly, so
// selection is reproducible under the same seed the rest of the engine uses.
func defaultGenMethod[S any](_ S, eligibleIDs []string, seed int) (string, error) {
	if len(eligibleIDs) == 0 {
		return "", ErrNoEligibleMethod
	}
	idx := rapid.IntRange(0, len(eligibleIDs)-1).Example(seed)
	return eligibleIDs[idx], nil
}

// InitialState returns a fresh initial state value.
func (m *Model[S]) InitialState() S { return m.initialState() }

// Method looks up a method descriptor by id.
func (m *Model[S]) Method(id string) (erasedMethod[S], error) {
	meth, ok := m.methods[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMethodID, id)
	}
	return meth, nil
}

// MethodIDs returns method ids in the order they were registered.
func (m *Model[S]) MethodIDs() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// Eligible returns the methods whose Requires(state) holds, in registration
// order.
func (m *Model[S]) Eligible(state S) []erasedMethod[S] {
	out := make([]erasedMethod[S], 0, len(m.order))
	for _, id := range m.order {
		meth := m.methods[id]
		if meth.Requires(state) {
			out = append(out, meth)
		}
	}
	return out
}

// GenMethod samples one eligible method for state, deterministically for a
// given seed.
func (m *Model[S]) GenMethod(state S, seed int) (erasedMethod[S], error) {
	eligible := m.Eligible(state)
	ids := make([]string, len(eligible))
	for i, meth := range eligible {
		ids[i] = meth.ID()
	}

	id, err := m.genMethod(state, ids, seed)
	if err != nil {
		return nil, err
	}
	return m.Method(id)
}

// Cleanup runs the model's cleanup hook, if any, over the calls executed so
// far against impl. Safe to call with a nil impl or an empty/partial call
// log (spec.md §5 "cancellation").
func (m *Model[S]) Cleanup(ctx context.Context, impl any, executed []CallRecord[S]) error {
	if m.cleanup == nil {
		return nil
	}
	return m.cleanup(ctx, impl, executed)
}
