package rosetree

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLeafHasNoShrinks(t *testing.T) {
	tree := Leaf(5)
	assert.Equal(t, 5, tree.Value)
	assert.Empty(t, tree.Shrinks())
}

func TestMapPreservesShape(t *testing.T) {
	tree := Sequence([]int{1, 2, 3}, 0)
	mapped := Map(tree, func(items []int) int {
		sum := 0
		for _, v := range items {
			sum += v
		}
		return sum
	})
	assert.Equal(t, 6, mapped.Value)

	children := mapped.Shrinks()
	assert.NotEmpty(t, children)
}

func TestVectorShrinksRespectsMinLength(t *testing.T) {
	shrinks := VectorShrinks([]int{1, 2, 3}, 3)
	assert.Empty(t, shrinks, "no shrink should go below minLength")
}

func TestVectorShrinksDropsOneAndHalf(t *testing.T) {
	shrinks := VectorShrinks([]int{1, 2, 3, 4}, 0)
	lengths := make(map[int]bool)
	for _, s := range shrinks {
		lengths[len(s.Value)] = true
	}
	assert.True(t, lengths[3], "expected a drop-one candidate of length 3")
	assert.True(t, lengths[2], "expected a drop-half candidate of length 2")
}

func TestSequenceRootIsOriginalItems(t *testing.T) {
	tree := Sequence([]string{"a", "b"}, 0)
	assert.Equal(t, []string{"a", "b"}, tree.Value)
}
