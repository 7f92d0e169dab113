package contractmodel

import (
	"fmt"
	"math/rand"
	"time"

	"pgregory.net/rapid"

	"contractmodel/internal/rosetree"
)

// GenOptions configures the call-sequence generator (component D).
type GenOptions struct {
	// MaxLength bounds generated trace length; length is sampled uniformly
	// from [1, MaxLength]. Spec.md §4.D default: 10.
	MaxLength int
	// Seed seeds every pseudorandom choice the generator makes (method
	// selection, argument sampling), so a run is fully reproducible.
	Seed int64
	// RetryBudget bounds how many candidate arg samples are rejected by a
	// method's Precondition before generation gives up on that step
	// (spec.md §4.D step 2b: "bounded by the underlying library's retry
	// policy; exhausting retries is an error").
	RetryBudget int
}

// DefaultGenOptions returns the spec's documented defaults.
func DefaultGenOptions() GenOptions {
	return GenOptions{
		MaxLength:   10,
		Seed:        time.Now().UnixNano(),
		RetryBudget: 100,
	}
}

// seedCursor hands out a deterministic stream of ints for rapid.Generator's
// Example(seed), derived from one base seed, so a whole trace generation
// (length, method picks, arg samples) replays identically given the same
// GenOptions.Seed.
type seedCursor struct{ rng *rand.Rand }

func newSeedCursor(base int64) *seedCursor {
	return &seedCursor{rng: rand.New(rand.NewSource(base))}
}

func (c *seedCursor) next() int { return c.rng.Int() }

// GenerateTrace produces a rose tree whose root is a full, state-machine
// valid trace and whose children are candidate shrinks of it (component D;
// spec.md §4.D). Every node's Value still needs replaying through Recompute
// before being handed to a driver — GenerateTrace only guarantees the root is
// valid; Shrink (or a driver's own use of Recompute) is responsible for
// filtering invalid descendants.
func GenerateTrace[S any](mdl *Model[S], opts GenOptions) (rosetree.Tree[Trace[S]], error) {
	if opts.MaxLength < 1 {
		opts.MaxLength = 1
	}
	if opts.RetryBudget < 1 {
		opts.RetryBudget = 1
	}

	cursor := newSeedCursor(opts.Seed)
	length := rapid.IntRange(1, opts.MaxLength).Example(cursor.next())

	trace, err := buildTrace(mdl, length, cursor, opts.RetryBudget)
	if err != nil {
		return rosetree.Tree[Trace[S]]{}, err
	}

	tree := rosetree.Sequence(trace, 1)
	return rosetree.Map(tree, func(items []CallRecord[S]) Trace[S] { return Trace[S](items) }), nil
}

// buildTrace runs the state machine forward for `length` steps from the
// model's initial state, consuming seeds from cursor for every random
// choice.
func buildTrace[S any](mdl *Model[S], length int, cursor *seedCursor, retryBudget int) ([]CallRecord[S], error) {
	state := mdl.InitialState()
	calls := make([]CallRecord[S], 0, length)

	for i := 0; i < length; i++ {
		meth, err := mdl.GenMethod(state, cursor.next())
		if err != nil {
			return nil, err
		}

		args, err := sampleSuchThat(meth, state, cursor, retryBudget)
		if err != nil {
			return nil, err
		}

		ret, err := meth.BodyAny(state, args)
		if err != nil {
			return nil, err
		}

		calls = append(calls, CallRecord[S]{MethodID: meth.ID(), Args: args, Return: ret})

		if next, has := ret.NextState(); has {
			state = next
		}
	}

	return calls, nil
}

// sampleSuchThat is the such_that combinator of spec.md §4.D step 2b:
// rejection-sample args from meth's generator until Precondition accepts
// one, or give up after retryBudget tries.
func sampleSuchThat[S any](meth erasedMethod[S], state S, cursor *seedCursor, retryBudget int) (any, error) {
	for try := 0; try < retryBudget; try++ {
		candidate, err := meth.SampleArgsAny(state, cursor.next())
		if err != nil {
			return nil, err
		}
		if meth.PreconditionAny(state, candidate) {
			return candidate, nil
		}
	}
	return nil, fmt.Errorf("%w: method %q after %d tries", ErrPreconditionExhausted, meth.ID(), retryBudget)
}
