package assignment

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetGroupSizesSumsToTotal(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	weights := []int{3, 1, 0, 6}
	for _, total := range []int{0, 1, 7, 100, 1000} {
		sizes := GetGroupSizes(weights, total, rng)
		sum := 0
		for _, s := range sizes {
			assert.GreaterOrEqual(t, s, 0)
			sum += s
		}
		assert.Equal(t, total, sum)
	}
}

func TestGetGroupSizesGivesZeroWeightNothing(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	sizes := GetGroupSizes([]int{0, 5}, 50, rng)
	assert.Equal(t, 0, sizes[0])
	assert.Equal(t, 50, sizes[1])
}

func TestGetGroupSizesApproximatesProportions(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	sizes := GetGroupSizes([]int{1, 1}, 1000, rng)
	require.Len(t, sizes, 2)
	assert.InDelta(t, 500, sizes[0], 50)
	assert.InDelta(t, 500, sizes[1], 50)
}

func TestGetGroupSizes2MatchesGenericForm(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	a, b := GetGroupSizes2(2, 3, 25, rng)
	assert.Equal(t, 25, a+b)
}

func TestGetGroupSizesAllZeroWeightsGivesNothing(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	sizes := GetGroupSizes([]int{0, 0}, 10, rng)
	assert.Equal(t, []int{0, 0}, sizes)
}
