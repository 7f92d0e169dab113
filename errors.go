package contractmodel

import "errors"

// Model construction errors (spec §7 category 1): raised immediately by
// NewMethod / NewModel when the definitions are malformed.
var (
	ErrNilPredicate      = errors.New("contractmodel: return predicate must not be nil")
	ErrNilArgsGen        = errors.New("contractmodel: method args generator must not be nil")
	ErrEmptyMethodID     = errors.New("contractmodel: method id must not be empty")
	ErrDuplicateMethodID = errors.New("contractmodel: duplicate method id")
	ErrNoInitialState    = errors.New("contractmodel: model initial_state must not be nil")
	ErrNoMethods         = errors.New("contractmodel: model must have at least one method")
	ErrNoEligibleInitial = errors.New("contractmodel: no method has requires(initial_state) == true")
	ErrInvalidMethod     = errors.New("contractmodel: value does not implement the method descriptor interface")
)

// Model internal inconsistency errors (spec §7 category 2): raised at
// generation, shrink-replay, or mock time.
var (
	ErrNoEligibleMethod      = errors.New("contractmodel: gen_method found no eligible method for current state")
	ErrPreconditionExhausted = errors.New("contractmodel: exhausted retries looking for args satisfying precondition")
	ErrNoGenerator           = errors.New("contractmodel: return descriptor has no usable generator")
	ErrInconsistentModel     = errors.New("contractmodel: model generator produced a value its own predicate rejects")
	ErrUnknownMethodID       = errors.New("contractmodel: unknown method id")
	ErrNoInvoke              = errors.New("contractmodel: method has no Invoke callback (required by Verify/TestProxy)")
)
