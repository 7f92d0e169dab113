package contractmodel

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"

	"contractmodel/internal/clog"
)

// ReturnMode selects what TestProxy hands back to its caller once a call has
// been checked (spec.md §4.I step 5).
type ReturnMode int

const (
	// ReturnImpl returns the real implementation's actual value. Default.
	ReturnImpl ReturnMode = iota
	// ReturnModel returns a value sampled from the model's Return generator
	// instead — exactly one sample, never resampled if it happens to
	// disagree with the implementation's own value (spec.md §9 open
	// question 2, resolved as "single sample, no secondary resampling").
	ReturnModel
)

// ProxyHandle passes every call through to a real implementation while
// checking the model's prediction against what comes back (spec.md §4.I).
type ProxyHandle[S any] struct {
	mdl         *Model[S]
	impl        any
	store       Store[S]
	seedBase    int64
	seedCounter atomic.Int64
	mode        ReturnMode
	log         *clog.Logger
}

type proxyConfig[S any] struct {
	store     Store[S]
	seedBase  int64
	mode      ReturnMode
	zapLogger *zap.Logger
}

// ProxyOption configures a ProxyHandle built by TestProxy.
type ProxyOption[S any] func(*proxyConfig[S])

// WithProxyStore attaches an existing Store instead of a private
// EphemeralStore.
func WithProxyStore[S any](store Store[S]) ProxyOption[S] {
	return func(c *proxyConfig[S]) { c.store = store }
}

// WithProxySeed fixes the base seed used when ReturnMode is ReturnModel.
func WithProxySeed[S any](seed int64) ProxyOption[S] {
	return func(c *proxyConfig[S]) { c.seedBase = seed }
}

// WithReturnMode selects what Invoke hands back on success.
func WithReturnMode[S any](mode ReturnMode) ProxyOption[S] {
	return func(c *proxyConfig[S]) { c.mode = mode }
}

// WithProxyLogger attaches a zap.Logger for the proxy category.
func WithProxyLogger[S any](l *zap.Logger) ProxyOption[S] {
	return func(c *proxyConfig[S]) { c.zapLogger = l }
}

// TestProxy builds a handle that forwards every call to impl and checks the
// model's prediction against impl's actual return.
func TestProxy[S any](mdl *Model[S], impl any, opts ...ProxyOption[S]) *ProxyHandle[S] {
	cfg := proxyConfig[S]{}
	for _, opt := range opts {
		opt(&cfg)
	}
	store := cfg.store
	if store == nil {
		store = EphemeralStore(mdl.InitialState())
	}
	return &ProxyHandle[S]{
		mdl:      mdl,
		impl:     impl,
		store:    store,
		seedBase: cfg.seedBase,
		mode:     cfg.mode,
		log:      clog.New(cfg.zapLogger, clog.CategoryProxy),
	}
}

// Invoke computes the model's prediction and advances state inside the
// store's swap (pure, replay-safe under CAS contention), then calls the real
// implementation exactly once, outside the swap, so a retried swap never
// invokes impl more than once for one logical call (spec.md §4.I "the
// implementation call happens after the state transition commits").
func (h *ProxyHandle[S]) Invoke(ctx context.Context, methodID string, args any) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	meth, err := h.mdl.Method(methodID)
	if err != nil {
		return nil, err
	}

	var predicted erasedReturn[S]
	_, err = h.store.Swap(func(state S) (S, error) {
		ret, berr := meth.BodyAny(state, args)
		if berr != nil {
			return state, fmt.Errorf("contractmodel: method %q: %w", methodID, berr)
		}
		predicted = ret
		next, has := ret.NextState()
		if !has {
			next = state
		}
		return next, nil
	})
	if err != nil {
		h.log.Error("proxy model step failed", zap.String("method_id", methodID), zap.Error(err))
		return nil, err
	}

	actual, ierr, has := meth.InvokeAny(ctx, h.impl, args)
	if !has {
		return nil, fmt.Errorf("%w: method %q", ErrNoInvoke, methodID)
	}
	if ierr != nil {
		return nil, fmt.Errorf("contractmodel: method %q: %w", methodID, ierr)
	}

	ok, cerr := predicted.CheckImplAny(actual)
	if cerr != nil {
		return nil, cerr
	}
	if !ok {
		diag := Diagnostic{
			MethodID: methodID,
			Args:     args,
			Expected: "implementation return to satisfy the model's predicate",
			Actual:   actual,
		}
		// A generator gives us one concrete value the model would have
		// accepted, worth a real go-cmp diff against what impl returned,
		// rather than only the predicate's prose description.
		if predicted.HasGen() {
			if want, werr := predicted.SampleAny(int(h.seedBase)); werr == nil {
				diag.Want = want
				diag.HasWant = true
			}
		}
		h.log.Warn("proxy contract violation", zap.String("method_id", methodID))
		return nil, &ContractViolation{Diagnostic: diag}
	}

	h.log.Debug("proxy invoke", zap.String("method_id", methodID))

	if h.mode == ReturnModel {
		if !predicted.HasGen() {
			return nil, fmt.Errorf("contractmodel: method %q: %w", methodID, ErrNoGenerator)
		}
		seed := int(h.seedBase + h.seedCounter.Add(1))
		return predicted.SampleAny(seed)
	}

	return actual, nil
}
