package contractmodel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecomputeAcceptsValidTrace(t *testing.T) {
	mdl, err := newCounterModel()
	require.NoError(t, err)

	trace := Trace[int]{callRecord(t, mdl, "inc"), callRecord(t, mdl, "inc"), callRecord(t, mdl, "reset")}
	_, ok := Recompute(mdl, trace)
	assert.True(t, ok)
}

func TestRecomputeRejectsUnknownMethod(t *testing.T) {
	mdl, err := newCounterModel()
	require.NoError(t, err)

	trace := Trace[int]{{MethodID: "does-not-exist", Args: struct{}{}}}
	_, ok := Recompute(mdl, trace)
	assert.False(t, ok)
}

func TestRecomputeRecomputesReturnsNotJustReplaysThem(t *testing.T) {
	mdl, err := newCounterModel()
	require.NoError(t, err)

	// The second inc() of a longer trace was recorded against state 1 and
	// predicts 2. Replayed alone (as a shrink candidate would be) it must get
	// a freshly-recomputed Return predicting 1, not the stale one.
	meth, err := mdl.Method("inc")
	require.NoError(t, err)
	staleRet, err := meth.BodyAny(1, struct{}{})
	require.NoError(t, err)
	stale := CallRecord[int]{MethodID: "inc", Args: struct{}{}, Return: staleRet}
	trace := Trace[int]{stale}

	replayed, ok := Recompute(mdl, trace)
	require.True(t, ok)
	ok2, err := replayed[0].Return.CheckImplAny(1)
	require.NoError(t, err)
	assert.True(t, ok2)
}

func callRecord(t *testing.T, mdl *Model[int], methodID string) CallRecord[int] {
	t.Helper()
	meth, err := mdl.Method(methodID)
	require.NoError(t, err)
	ret, err := meth.BodyAny(0, struct{}{})
	require.NoError(t, err)
	return CallRecord[int]{MethodID: methodID, Args: struct{}{}, Return: ret}
}
