package contractmodel

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewModelRejectsNoMethods(t *testing.T) {
	_, err := NewModel[int](nil, func() int { return 0 })
	assert.ErrorIs(t, err, ErrNoMethods)
}

func TestNewModelRejectsNilInitialState(t *testing.T) {
	_, err := NewModel[int]([]any{"placeholder"}, nil)
	assert.ErrorIs(t, err, ErrNoInitialState)
}

func TestNewModelRejectsDuplicateID(t *testing.T) {
	inc, err := NewMethod("inc", unitGen, func(s int, _ struct{}) Return[int, int] {
		return MustReturn[int, int](func(int) bool { return true })
	})
	require.NoError(t, err)

	_, err = NewModel[int]([]any{inc, inc}, func() int { return 0 })
	assert.ErrorIs(t, err, ErrDuplicateMethodID)
}

func TestNewModelRejectsNonMethodValue(t *testing.T) {
	_, err := NewModel[int]([]any{"not a method"}, func() int { return 0 })
	assert.ErrorIs(t, err, ErrInvalidMethod)
}

func TestNewModelRejectsNoEligibleAtInitial(t *testing.T) {
	never, err := NewMethod(
		"never",
		unitGen,
		func(s int, _ struct{}) Return[int, int] { return MustReturn[int, int](func(int) bool { return true }) },
		WithRequires[int, struct{}, int](func(int) bool { return false }),
	)
	require.NoError(t, err)

	_, err = NewModel[int]([]any{never}, func() int { return 0 })
	assert.ErrorIs(t, err, ErrNoEligibleInitial)
}

func TestModelEligibleFiltersByRequires(t *testing.T) {
	mdl, err := newCounterModel()
	require.NoError(t, err)

	eligible := mdl.Eligible(0)
	ids := make([]string, len(eligible))
	for i, m := range eligible {
		ids[i] = m.ID()
	}
	assert.ElementsMatch(t, []string{"inc", "reset"}, ids)
}

func TestModelMethodUnknownID(t *testing.T) {
	mdl, err := newCounterModel()
	require.NoError(t, err)

	_, err = mdl.Method("nonexistent")
	assert.True(t, errors.Is(err, ErrUnknownMethodID))
}

func TestMethodPreconditionAnyRejectsWrongType(t *testing.T) {
	mdl, err := newCounterModel()
	require.NoError(t, err)
	meth, err := mdl.Method("inc")
	require.NoError(t, err)
	assert.False(t, meth.PreconditionAny(0, "wrong type"))
}
