package contractmodel

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"contractmodel/internal/clog"
	"contractmodel/internal/rosetree"
)

// Failure describes why Check found the model and a real implementation
// disagree (or, for TestModel, why the model is internally inconsistent).
// At most one of Violation / Err is set; CleanupErr is set independently of
// either and never overrides them (spec.md §5 "cancellation/cleanup never
// masks the primary result").
type Failure[S any] struct {
	Trace      Trace[S]
	Violation  *ContractViolation
	Err        error
	CleanupErr error
}

// Error satisfies the error interface so a *Failure[S] can be returned or
// wrapped like any other error.
func (f *Failure[S]) Error() string {
	switch {
	case f.Violation != nil:
		return f.Violation.Error()
	case f.Err != nil:
		return f.Err.Error()
	default:
		return "contractmodel: failure with no violation or error recorded"
	}
}

// Property is a Verify or TestModel check, ready to run.
type Property[S any] struct {
	mdl         *Model[S]
	implFactory func() (any, error)
	selfCheck   bool
	opts        Options
	log         *clog.Logger
}

// Verify builds a Property that checks mdl against real implementations
// produced by implFactory (spec.md §4.G). implFactory is called once per
// generated trace (and once per shrink candidate tried), so a fresh
// implementation instance backs every attempt.
func Verify[S any](mdl *Model[S], implFactory func() (any, error), opts ...Option) *Property[S] {
	cfg := resolveOptions(opts)
	return &Property[S]{
		mdl:         mdl,
		implFactory: implFactory,
		opts:        cfg,
		log:         clog.New(cfg.ZapLogger, clog.CategoryVerify),
	}
}

// TestModel builds a Property that checks mdl against itself, with no real
// implementation: every generated call's Return must have a usable
// generator, and the value that generator samples must satisfy its own
// predicate (spec.md §6 "model self-check"). Useful for catching malformed
// models before ever pointing Verify at a real implementation.
func TestModel[S any](mdl *Model[S], opts ...Option) *Property[S] {
	cfg := resolveOptions(opts)
	return &Property[S]{
		mdl:       mdl,
		selfCheck: true,
		opts:      cfg,
		log:       clog.New(cfg.ZapLogger, clog.CategoryVerify),
	}
}

// Check runs up to opts.NumTests generated traces against the property.
// The first failing trace is shrunk to a local minimum before Check
// returns it; Check returns nil if every generated trace passed. Every log
// line from one Check call carries the same run id (an 8-character uuid
// prefix, the same truncation convention campaign correlation IDs use), so
// log lines from concurrent Check calls against the same model can be told
// apart.
func (p *Property[S]) Check() *Failure[S] {
	ctx := context.Background()
	runID := uuid.New().String()[:8]

	for i := 0; i < p.opts.NumTests; i++ {
		genOpts := p.opts.Gen
		genOpts.Seed = p.opts.Gen.Seed + int64(i)

		tree, err := GenerateTrace(p.mdl, genOpts)
		if err != nil {
			p.log.Error("generation failed", zap.String("run_id", runID), zap.Error(err), zap.Int("iteration", i))
			return &Failure[S]{Err: fmt.Errorf("contractmodel: generation: %w", err)}
		}

		shrunk := Shrink(p.mdl, tree)
		if failure := p.tryNode(ctx, shrunk); failure != nil {
			p.log.Warn("property failed, shrinking", zap.String("run_id", runID), zap.Int("iteration", i))
			return p.shrinkSearch(ctx, shrunk)
		}
	}

	p.log.Info("property held", zap.String("run_id", runID), zap.Int("num_tests", p.opts.NumTests))
	return nil
}

// Run is Check wired into testing.T: it fails the test with the failing
// trace's explanation if the property does not hold.
func (p *Property[S]) Run(t *testing.T) {
	t.Helper()
	if f := p.Check(); f != nil {
		t.Fatalf("%s", explainFailure(f))
	}
}

func explainFailure[S any](f *Failure[S]) string {
	switch {
	case f.Violation != nil:
		return fmt.Sprintf("%s\ntrace: %+v", f.Violation.Error(), f.Trace)
	case f.Err != nil:
		return fmt.Sprintf("contractmodel: %v\ntrace: %+v", f.Err, f.Trace)
	default:
		return fmt.Sprintf("contractmodel: cleanup error: %v\ntrace: %+v", f.CleanupErr, f.Trace)
	}
}

// tryNode executes one trace candidate and reports whether it fails. Cleanup
// runs on every exit path out of the execution, including an implementation
// panic (spec.md §4.G step 4 / §5 "cleanup runs on all exit paths, including
// thrown exceptions"): the call to executeTrace is scoped inside a deferred
// recover so a panicking impl still leaves p.mdl.Cleanup a chance to run
// before tryNode reports the failure.
func (p *Property[S]) tryNode(ctx context.Context, node rosetree.Tree[Trace[S]]) *Failure[S] {
	if p.selfCheck {
		return p.trySelfCheck(node.Value)
	}

	impl, err := p.implFactory()
	if err != nil {
		return &Failure[S]{Err: fmt.Errorf("contractmodel: building implementation: %w", err)}
	}

	var executed Trace[S]
	var violation *ContractViolation
	var execErr error

	func() {
		defer func() {
			if r := recover(); r != nil {
				execErr = fmt.Errorf("contractmodel: implementation panicked: %v", r)
			}
		}()
		executed, violation, execErr = executeTrace(ctx, p.mdl, impl, node.Value)
	}()

	cleanupErr := p.mdl.Cleanup(ctx, impl, executed)

	switch {
	case execErr != nil:
		return &Failure[S]{Trace: executed, Err: execErr, CleanupErr: cleanupErr}
	case violation != nil:
		return &Failure[S]{Trace: executed, Violation: violation, CleanupErr: cleanupErr}
	case cleanupErr != nil:
		return &Failure[S]{Trace: executed, CleanupErr: cleanupErr}
	default:
		return nil
	}
}

// trySelfCheck is TestModel's executor: no real implementation exists, so
// each call is checked by sampling its own Return generator and verifying
// the sample satisfies the Return's own predicate.
func (p *Property[S]) trySelfCheck(trace Trace[S]) *Failure[S] {
	for i, call := range trace {
		if !call.Return.HasGen() {
			return &Failure[S]{
				Trace: trace,
				Err:   fmt.Errorf("contractmodel: method %q: %w", call.MethodID, ErrNoGenerator),
			}
		}
		sample, err := call.Return.SampleAny(int(p.opts.Gen.Seed + int64(i)))
		if err != nil {
			return &Failure[S]{Trace: trace, Err: err}
		}
		ok, err := call.Return.CheckImplAny(sample)
		if err != nil {
			return &Failure[S]{Trace: trace, Err: err}
		}
		if !ok {
			diag := Diagnostic{MethodID: call.MethodID, Args: call.Args, Expected: "generator sample to satisfy its own predicate", Actual: sample}
			return &Failure[S]{Trace: trace, Err: fmt.Errorf("%w: %s", ErrInconsistentModel, diag.Explain())}
		}
	}
	return nil
}

// shrinkSearch descends shrunk, always taking the first still-failing
// child, until no child fails — the last failing node found is the result
// (spec.md §4.E "search strategy").
func (p *Property[S]) shrinkSearch(ctx context.Context, node rosetree.Tree[Trace[S]]) *Failure[S] {
	current := node
	best := p.tryNode(ctx, node)

	for {
		progressed := false
		for _, child := range current.Shrinks() {
			if f := p.tryNode(ctx, child); f != nil {
				current = child
				best = f
				progressed = true
				break
			}
		}
		if !progressed {
			break
		}
	}

	return best
}

// executeTrace runs trace against impl in order, invoking each method and
// checking the model's Return predicate against the implementation's actual
// return. It stops at the first error or contract violation.
func executeTrace[S any](ctx context.Context, mdl *Model[S], impl any, trace Trace[S]) (Trace[S], *ContractViolation, error) {
	executed := make(Trace[S], 0, len(trace))

	for _, call := range trace {
		meth, err := mdl.Method(call.MethodID)
		if err != nil {
			return executed, nil, err
		}

		actual, err, has := meth.InvokeAny(ctx, impl, call.Args)
		if !has {
			return executed, nil, fmt.Errorf("%w: method %q", ErrNoInvoke, call.MethodID)
		}
		if err != nil {
			return executed, nil, fmt.Errorf("contractmodel: method %q: %w", call.MethodID, err)
		}

		rec := call
		rec.ImplReturn = actual
		rec.HasImplReturn = true
		executed = append(executed, rec)

		ok, err := call.Return.CheckImplAny(actual)
		if err != nil {
			return executed, nil, err
		}
		if !ok {
			diag := Diagnostic{
				MethodID: call.MethodID,
				Args:     call.Args,
				Expected: "implementation return to satisfy the model's predicate",
				Actual:   actual,
			}
			if call.Return.HasGen() {
				if want, werr := call.Return.SampleAny(0); werr == nil {
					diag.Want = want
					diag.HasWant = true
				}
			}
			return executed, &ContractViolation{Diagnostic: diag}, nil
		}
	}

	return executed, nil, nil
}
