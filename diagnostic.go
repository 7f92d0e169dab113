package contractmodel

import (
	"fmt"

	"github.com/google/go-cmp/cmp"
)

// Diagnostic carries everything a failing check needs to explain itself:
// which call failed, against what state, and what was expected versus
// observed. Modeled on the verifier's QualityViolation in spirit — a typed,
// inspectable failure value rather than a bare string.
type Diagnostic struct {
	MethodID string
	Args     any
	Expected string
	Actual   any

	// Want, when HasWant is true, is a concrete value sampled from the
	// model's Return generator to compare Actual against. Not every
	// violation has one — a predicate alone doesn't determine a single
	// expected value — but where one was available, Error prefers the
	// go-cmp diff over the predicate description.
	Want    any
	HasWant bool
}

// Explain renders a human-readable description of the violation: method id,
// args, the Expected description and Actual. It does no diffing; see
// ExplainDiff for that.
func (d Diagnostic) Explain() string {
	return fmt.Sprintf("method %q: args=%v: expected %s, got %v", d.MethodID, d.Args, d.Expected, d.Actual)
}

// ExplainDiff is Explain plus a go-cmp diff against a concrete expected
// value, for callers that have one (rather than only a predicate
// description) to compare against.
func (d Diagnostic) ExplainDiff(want any) string {
	return fmt.Sprintf("method %q: args=%v:\n%s", d.MethodID, d.Args, cmp.Diff(want, d.Actual))
}

// ContractViolation is returned by Verify and TestProxy when a real
// implementation's observed behavior disagrees with the model (spec.md §5
// "contract violation" outcome).
type ContractViolation struct {
	Diagnostic Diagnostic
}

func (e *ContractViolation) Error() string {
	if e.Diagnostic.HasWant {
		return "contractmodel: contract violation: " + e.Diagnostic.ExplainDiff(e.Diagnostic.Want)
	}
	return "contractmodel: contract violation: " + e.Diagnostic.Explain()
}

// ModelError wraps an error raised by the model itself (a Method's Body, a
// generator, gen_method) as distinct from a contract violation raised by
// comparing the model to an implementation (spec.md §7 category 2).
type ModelError struct {
	MethodID string
	Err      error
}

func (e *ModelError) Error() string {
	return fmt.Sprintf("contractmodel: model error in method %q: %v", e.MethodID, e.Err)
}

func (e *ModelError) Unwrap() error { return e.Err }
