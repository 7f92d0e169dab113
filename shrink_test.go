package contractmodel

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type shrinkFixture struct {
	MethodIDs []string `yaml:"method_ids"`
}

// TestShrinkConvergesToGoldenTrace checks the shrinker against a recorded
// golden trace (testdata/counter_shrink.yaml) rather than re-deriving the
// expectation in the test itself, the way a regression fixture should.
func TestShrinkConvergesToGoldenTrace(t *testing.T) {
	raw, err := os.ReadFile("testdata/counter_shrink.yaml")
	require.NoError(t, err)
	var fixture shrinkFixture
	require.NoError(t, yaml.Unmarshal(raw, &fixture))

	mdl, err := newCounterModel()
	require.NoError(t, err)

	prop := Verify[int](mdl, func() (any, error) {
		return &brokenCounterImpl{}, nil
	}, WithNumTests(200), WithMaxLength(10), WithSeed(1234))

	failure := prop.Check()
	require.NotNil(t, failure, "expected the broken implementation to fail verification")
	assert.Equal(t, fixture.MethodIDs, traceIDs(failure.Trace))
}

func TestShrinkPrunesIllegalCandidates(t *testing.T) {
	mdl, err := newCounterModel()
	require.NoError(t, err)

	// reset alone, from the initial state, recomputes fine (Requires is
	// unconditional for both methods here); a child dropping an inc that a
	// later precondition depended on would be pruned. This model has no
	// Precondition narrow enough to force a prune, so this test documents
	// the no-op case: Shrink never turns a legal trace illegal.
	opts := GenOptions{MaxLength: 6, Seed: 55, RetryBudget: 10}
	tree, err := GenerateTrace(mdl, opts)
	require.NoError(t, err)

	shrunk := Shrink(mdl, tree)
	for _, child := range shrunk.Shrinks() {
		_, ok := Recompute(mdl, child.Value)
		assert.True(t, ok, "every child Shrink yields must itself be a legal replay")
	}
}
