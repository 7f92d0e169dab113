package contractmodel

// CallRecord is one entry of a trace: the method invoked, the arguments it
// was invoked with, the model's prediction for the call, and — once a
// driver has actually executed it — the implementation's concrete return.
// Spec.md §3 "Call record".
type CallRecord[S any] struct {
	MethodID      string
	Args          any
	Return        erasedReturn[S]
	ImplReturn    any
	HasImplReturn bool
}

// Trace is an ordered sequence of call records produced by the generator,
// possibly shrunk, and replayed by a driver.
type Trace[S any] []CallRecord[S]

// Clone returns a shallow copy of the trace, safe to mutate (e.g. to attach
// ImplReturn values during execution) without aliasing the original slice's
// backing array.
func (t Trace[S]) Clone() Trace[S] {
	out := make(Trace[S], len(t))
	copy(out, t)
	return out
}
