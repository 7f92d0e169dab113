package contractmodel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProxyForwardsToImplementationAndChecks(t *testing.T) {
	mdl, err := newCounterModel()
	require.NoError(t, err)

	proxy := TestProxy[int](mdl, &counterImpl{})
	ctx := context.Background()

	v, err := proxy.Invoke(ctx, "inc", struct{}{})
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}

func TestProxyDetectsViolation(t *testing.T) {
	mdl, err := newCounterModel()
	require.NoError(t, err)

	proxy := TestProxy[int](mdl, &brokenCounterImpl{})
	ctx := context.Background()

	_, err = proxy.Invoke(ctx, "inc", struct{}{})
	require.NoError(t, err)

	_, err = proxy.Invoke(ctx, "reset", struct{}{})
	require.Error(t, err)
	var violation *ContractViolation
	require.ErrorAs(t, err, &violation)
	assert.Equal(t, "reset", violation.Diagnostic.MethodID)
}

func TestProxyReturnModelSamplesModelValue(t *testing.T) {
	mdl, err := newCounterModel()
	require.NoError(t, err)

	proxy := TestProxy[int](mdl, &counterImpl{}, WithReturnMode[int](ReturnModel))
	ctx := context.Background()

	v, err := proxy.Invoke(ctx, "inc", struct{}{})
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}
