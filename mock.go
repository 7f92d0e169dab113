package contractmodel

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"

	"contractmodel/internal/clog"
)

// MockHandle serves calls entirely from the model — no real implementation
// is ever invoked (spec.md §4.H). It does not enforce Requires or
// Precondition on the methodID/args it is given (spec.md §9 open question
// 1, resolved as "no enforcement": a Mock answers whatever it's asked,
// faithfully, even calls a generator would never have produced).
type MockHandle[S any] struct {
	mdl         *Model[S]
	store       Store[S]
	seedBase    int64
	seedCounter atomic.Int64
	log         *clog.Logger
}

// mockConfig collects Mock's construction-time options.
type mockConfig[S any] struct {
	store     Store[S]
	seedBase  int64
	zapLogger *zap.Logger
}

// MockOption configures a MockHandle built by Mock.
type MockOption[S any] func(*mockConfig[S])

// WithMockStore attaches an existing Store — typically one built with
// SharedStore — so two MockHandles transact against the same state (spec.md
// §8 "shared state across two mocks"). Without this option, Mock creates a
// private EphemeralStore seeded from the model's initial state.
func WithMockStore[S any](store Store[S]) MockOption[S] {
	return func(c *mockConfig[S]) { c.store = store }
}

// WithMockSeed fixes the base seed Invoke derives per-call sampling seeds
// from.
func WithMockSeed[S any](seed int64) MockOption[S] {
	return func(c *mockConfig[S]) { c.seedBase = seed }
}

// WithMockLogger attaches a zap.Logger for the mock category.
func WithMockLogger[S any](l *zap.Logger) MockOption[S] {
	return func(c *mockConfig[S]) { c.zapLogger = l }
}

// Mock builds a handle that answers calls purely from mdl.
func Mock[S any](mdl *Model[S], opts ...MockOption[S]) *MockHandle[S] {
	cfg := mockConfig[S]{}
	for _, opt := range opts {
		opt(&cfg)
	}
	store := cfg.store
	if store == nil {
		store = EphemeralStore(mdl.InitialState())
	}
	return &MockHandle[S]{
		mdl:      mdl,
		store:    store,
		seedBase: cfg.seedBase,
		log:      clog.New(cfg.zapLogger, clog.CategoryMock),
	}
}

// Invoke dispatches one call to the model and returns a synthesized return
// value. The sampling seed is drawn once, before Store.Swap's retry loop
// begins, so every retry of the swap closure — Store.Swap may invoke it more
// than once under contention — samples the identical value; only the last
// attempt that wins the compare-and-swap is observed, but all attempts agree
// on what that value would be (spec.md §4.F "concurrent access").
func (h *MockHandle[S]) Invoke(ctx context.Context, methodID string, args any) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	meth, err := h.mdl.Method(methodID)
	if err != nil {
		return nil, err
	}

	seed := int(h.seedBase + h.seedCounter.Add(1))

	var sampled any
	_, err = h.store.Swap(func(state S) (S, error) {
		ret, berr := meth.BodyAny(state, args)
		if berr != nil {
			return state, fmt.Errorf("contractmodel: method %q: %w", methodID, berr)
		}
		if !ret.HasGen() {
			return state, fmt.Errorf("contractmodel: method %q: %w", methodID, ErrNoGenerator)
		}
		s, serr := ret.SampleAny(seed)
		if serr != nil {
			return state, serr
		}
		sampled = s

		next, has := ret.NextState()
		if !has {
			next = state
		}
		return next, nil
	})
	if err != nil {
		h.log.Error("mock invoke failed", zap.String("method_id", methodID), zap.Error(err))
		return nil, err
	}

	h.log.Debug("mock invoke", zap.String("method_id", methodID))
	return sampled, nil
}
