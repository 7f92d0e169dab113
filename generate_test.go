package contractmodel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateTraceDeterministic(t *testing.T) {
	mdl, err := newCounterModel()
	require.NoError(t, err)

	opts := GenOptions{MaxLength: 8, Seed: 42, RetryBudget: 10}

	treeA, err := GenerateTrace(mdl, opts)
	require.NoError(t, err)
	treeB, err := GenerateTrace(mdl, opts)
	require.NoError(t, err)

	assert.Equal(t, traceIDs(treeA.Value), traceIDs(treeB.Value))
}

func TestGenerateTraceRespectsMaxLength(t *testing.T) {
	mdl, err := newCounterModel()
	require.NoError(t, err)

	opts := GenOptions{MaxLength: 3, Seed: 7, RetryBudget: 10}
	tree, err := GenerateTrace(mdl, opts)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(tree.Value), 3)
	assert.GreaterOrEqual(t, len(tree.Value), 1)
}

func TestGenerateTraceProducesLegalTrace(t *testing.T) {
	mdl, err := newCounterModel()
	require.NoError(t, err)

	opts := GenOptions{MaxLength: 10, Seed: 99, RetryBudget: 10}
	tree, err := GenerateTrace(mdl, opts)
	require.NoError(t, err)

	_, ok := Recompute(mdl, tree.Value)
	assert.True(t, ok, "generated trace should already be a legal replay")
}

func traceIDs(trace Trace[int]) []string {
	ids := make([]string, len(trace))
	for i, c := range trace {
		ids[i] = c.MethodID
	}
	return ids
}
