package assignment

import (
	"sort"

	"traines.eu/transit-assignment/decision"
)

// Choice is one candidate move for a group: be at Stop at DepartureTime
// to board Connection, with the given PAT. Every choice the worker builds
// is such a boarding option; no choice stands for walking straight to the
// destination.
type Choice struct {
	DepartureTime int
	Connection    ConnectionID
	PAT           float64
	// Stop and ArrivalTime carry enough of the worker's local context to
	// act on the choice after RooftopDistribution has reordered the set;
	// indices into Choices() are only stable across that call, not the
	// original insertion order.
	Stop        StopID
	ArrivalTime int
}

// ChoiceSet accumulates a group's candidate next moves before a decision
// model turns them into a split.
type ChoiceSet struct {
	choices []Choice
}

// Add appends a candidate choice.
func (c *ChoiceSet) Add(choice Choice) {
	c.choices = append(c.choices, choice)
}

// Len returns the number of accumulated choices.
func (c *ChoiceSet) Len() int { return len(c.choices) }

// Choices returns the accumulated choices, in insertion order until
// RooftopDistribution sorts them by departure time.
func (c *ChoiceSet) Choices() []Choice { return c.choices }

// sortByDeparture orders choices by increasing departure time, the order
// RooftopDistribution's dominance sweep requires.
func (c *ChoiceSet) sortByDeparture() {
	sort.SliceStable(c.choices, func(i, j int) bool {
		return c.choices[i].DepartureTime < c.choices[j].DepartureTime
	})
}

// RooftopDistribution implements the departure-time-choice dominance
// algorithm: a later departure is only worth considering
// if its PAT beats every earlier option by more than delta, since
// otherwise a passenger would simply take the earlier, equally-good
// connection and avoid the risk of the later one running late. Choices
// that survive the sweep are handed to model to produce their relative
// weights; dominated choices always get weight zero.
//
// As a side effect, c's choices are reordered by departure time; the
// returned slice has one weight per choice in that new c.Choices() order,
// plus a trailing total, matching decision.Model.Distribution's shape.
func (c *ChoiceSet) RooftopDistribution(delta int, model decision.Model) []int {
	n := len(c.choices)
	result := make([]int, n+1)
	if n == 0 {
		return result
	}
	c.sortByDeparture()

	survivors := make([]int, 0, n) // indices into c.choices, post-sort
	bestPAT := Unreachable
	for i, ch := range c.choices {
		if ch.PAT < bestPAT-float64(delta) || i == 0 {
			survivors = append(survivors, i)
			if ch.PAT < bestPAT {
				bestPAT = ch.PAT
			}
		}
	}

	values := make([]int, len(survivors))
	for i, idx := range survivors {
		values[i] = int(c.choices[idx].PAT)
	}
	weights := model.Distribution(values)
	for i, idx := range survivors {
		result[idx] = weights[i]
	}
	result[n] = weights[len(values)]
	return result
}

// Reset empties the set for reuse.
func (c *ChoiceSet) Reset() {
	c.choices = c.choices[:0]
}
