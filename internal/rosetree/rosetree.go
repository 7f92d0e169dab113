// Package rosetree implements the generic lazy rose-tree shape and the
// conventional vector shrink strategies (drop one, drop half) spec.md §4.D
// describes for a call-sequence generator: "a rose tree whose root is the
// full trace and whose children are conventional vector shrinks". It knows
// nothing about methods, state machines, or models — that knowledge lives in
// the contractmodel package, which uses this package's Tree type and
// VectorShrinks helper to build and shrink traces without this package ever
// importing contractmodel back.
package rosetree

// Tree is a lazily-expanded rose tree: a value plus a function producing its
// shrink candidates. Shrinks is called at most once per node by callers that
// walk the tree (it is not memoized here; callers that need to walk a node's
// children more than once should cache the result themselves).
type Tree[T any] struct {
	Value   T
	Shrinks func() []Tree[T]
}

// Leaf wraps a value with no further shrink candidates.
func Leaf[T any](v T) Tree[T] {
	return Tree[T]{Value: v, Shrinks: func() []Tree[T] { return nil }}
}

// Map transforms a tree's value (and, lazily, every descendant's value)
// through f, preserving tree shape.
func Map[T any, U any](t Tree[T], f func(T) U) Tree[U] {
	return Tree[U]{
		Value: f(t.Value),
		Shrinks: func() []Tree[U] {
			children := t.Shrinks()
			out := make([]Tree[U], len(children))
			for i, c := range children {
				out[i] = Map(c, f)
			}
			return out
		},
	}
}

// VectorShrinks builds the standard shrink candidates for a sequence of
// length len(items): keep only the first half, keep only the second half,
// then drop one element at a time. Each candidate is itself recursively shrinkable the same way,
// bottoming out once length reaches minLength.
func VectorShrinks[T any](items []T, minLength int) []Tree[[]T] {
	n := len(items)
	if n <= minLength {
		return nil
	}

	var out []Tree[[]T]

	// Drop-half candidates first: they shrink fastest when valid.
	if n > 1 {
		half := n / 2
		firstHalf := append([]T(nil), items[:half]...)
		secondHalf := append([]T(nil), items[half:]...)
		if len(firstHalf) >= minLength {
			out = append(out, vectorTree(firstHalf, minLength))
		}
		if len(secondHalf) >= minLength {
			out = append(out, vectorTree(secondHalf, minLength))
		}
	}

	// Drop-one candidates, one per index.
	for i := 0; i < n; i++ {
		if n-1 < minLength {
			break
		}
		candidate := make([]T, 0, n-1)
		candidate = append(candidate, items[:i]...)
		candidate = append(candidate, items[i+1:]...)
		out = append(out, vectorTree(candidate, minLength))
	}

	return out
}

func vectorTree[T any](items []T, minLength int) Tree[[]T] {
	return Tree[[]T]{
		Value:   items,
		Shrinks: func() []Tree[[]T] { return VectorShrinks(items, minLength) },
	}
}

// Sequence wraps a fully-built slice as the root of a rose tree whose
// children are its vector shrinks.
func Sequence[T any](items []T, minLength int) Tree[[]T] {
	return vectorTree(items, minLength)
}
