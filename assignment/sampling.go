package assignment

import (
	"math"
	"math/rand"
)

// GetGroupSizes splits total passengers across len(weights) options in
// proportion to their weights: each option first gets the floor of its
// proportional share, then the leftover passengers go one each to options
// drawn by weighted random sampling without replacement (the "A-Res"
// exponential-reservoir scheme), weighted by each option's fractional
// remainder, so the split is reproducible from rng but not biased towards
// any particular index.
//
// The sum of the returned sizes always equals total exactly.
func GetGroupSizes(weights []int, total int, rng *rand.Rand) []int {
	sizes := make([]int, len(weights))
	if total == 0 || len(weights) == 0 {
		return sizes
	}
	totalWeight := 0
	for _, w := range weights {
		totalWeight += w
	}
	if totalWeight == 0 {
		return sizes
	}

	ideal := make([]float64, len(weights))
	frac := make([]float64, len(weights))
	assigned := 0
	for i, w := range weights {
		ideal[i] = float64(total) * float64(w) / float64(totalWeight)
		sizes[i] = int(math.Floor(ideal[i]))
		frac[i] = ideal[i] - float64(sizes[i])
		assigned += sizes[i]
	}
	remainder := total - assigned
	if remainder <= 0 {
		return sizes
	}

	type candidate struct {
		index int
		key   float64
	}
	candidates := make([]candidate, 0, len(weights))
	for i, f := range frac {
		if f <= 0 {
			continue
		}
		u := rng.Float64()
		key := math.Pow(u, 1.0/f)
		candidates = append(candidates, candidate{index: i, key: key})
	}
	// Select the remainder candidates with the largest keys: the standard
	// A-Res selection rule for weighted sampling without replacement.
	for k := 0; k < remainder && k < len(candidates); k++ {
		best := k
		for j := k + 1; j < len(candidates); j++ {
			if candidates[j].key > candidates[best].key {
				best = j
			}
		}
		candidates[k], candidates[best] = candidates[best], candidates[k]
		sizes[candidates[k].index]++
	}
	return sizes
}

// GetGroupSizes2 is the two-option form of GetGroupSizes, used on the
// assignment core's hottest path (splitting a group between "board" and
// "don't board"); it delegates to GetGroupSizes.
func GetGroupSizes2(weightA, weightB, total int, rng *rand.Rand) (int, int) {
	sizes := GetGroupSizes([]int{weightA, weightB}, total, rng)
	return sizes[0], sizes[1]
}
