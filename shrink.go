package contractmodel

import "contractmodel/internal/rosetree"

// Shrink wraps tree so that descending into it only ever yields candidates
// that are still legal traces against mdl (spec.md §4.E): rosetree's vector
// shrinks are generated blind to the model (drop-one, drop-half on the raw
// slice), so every candidate must be replayed through Recompute before a
// driver is allowed to try it — a dropped call can make a later one's
// Requires or Precondition no longer hold, and the whole subtree under an
// illegal candidate is illegal too, so it is pruned rather than descended
// into.
func Shrink[S any](mdl *Model[S], tree rosetree.Tree[Trace[S]]) rosetree.Tree[Trace[S]] {
	return rosetree.Tree[Trace[S]]{
		Value: tree.Value,
		Shrinks: func() []rosetree.Tree[Trace[S]] {
			candidates := tree.Shrinks()
			out := make([]rosetree.Tree[Trace[S]], 0, len(candidates))
			for _, c := range candidates {
				replayed, ok := Recompute(mdl, c.Value)
				if !ok {
					continue
				}
				c.Value = replayed
				out = append(out, Shrink(mdl, c))
			}
			return out
		},
	}
}
