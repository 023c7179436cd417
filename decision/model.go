// Package decision implements the DecisionModel variants that turn a
// vector of Perceived Arrival Times into a non-negative integer weight
// distribution suitable for exact integer sampling. All values are costs:
// lower is better.
package decision

import (
	"math"

	"github.com/samber/lo"
)

// Model maps PAT vectors to weight distributions. Every implementation also
// offers a two-option specialisation used by moveGroups and the
// board/alight/target decisions, returning (weightA, weightB, weightA+weightB).
type Model interface {
	// Distribution returns len(values)+1 non-negative weights, the last one
	// the sum of the rest, suitable for exact integer sampling.
	Distribution(values []int) []int
	// Distribution2 is the two-option specialisation.
	Distribution2(a, b int) [3]int
}

// twoSmallest returns the two smallest values of vs, in order. Mirrors the
// original's Vector::twoSmallestValues.
func twoSmallest(vs []int) [2]int {
	min0, min1 := vs[0], math.MaxInt
	first := true
	for _, v := range vs {
		if first {
			first = false
			continue
		}
		if v < min0 {
			min1 = min0
			min0 = v
		} else if v < min1 {
			min1 = v
		}
	}
	if len(vs) == 1 {
		min1 = min0
	}
	return [2]int{min0, min1}
}

func min(vs []int) int {
	return lo.Min(vs)
}
