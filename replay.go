package contractmodel

// Recompute replays trace against mdl from the initial state, re-deriving
// each call's Return by calling Body again rather than trusting the
// recorded one. It is the state-replay validity filter spec.md §4.E calls
// "recompute_state": a shrink candidate (an arbitrary sub-sequence of the
// original trace) is only a legal trace if every call's Requires and
// Precondition still hold when replayed in order from scratch.
//
// Recompute returns (replayed, true) on success — replayed carries
// freshly-computed Return values, since a call's prediction can depend on
// state that differs once earlier calls have been dropped — or (nil, false)
// the moment any call in trace is no longer legal.
func Recompute[S any](mdl *Model[S], trace Trace[S]) (Trace[S], bool) {
	state := mdl.InitialState()
	out := make(Trace[S], 0, len(trace))

	for _, call := range trace {
		meth, err := mdl.Method(call.MethodID)
		if err != nil {
			return nil, false
		}
		if !meth.Requires(state) {
			return nil, false
		}
		if !meth.PreconditionAny(state, call.Args) {
			return nil, false
		}

		ret, err := meth.BodyAny(state, call.Args)
		if err != nil {
			return nil, false
		}

		out = append(out, CallRecord[S]{MethodID: call.MethodID, Args: call.Args, Return: ret})

		if next, has := ret.NextState(); has {
			state = next
		}
	}

	return out, true
}
