package decision

// Optimal is the deterministic-or-fifty-fifty decision model: with
// delayTolerance > 0 it is deterministic (first minimum wins all weight);
// with delayTolerance == 0 ties between minima split weight evenly,
// matching original_source/Algorithms/DecisionModels/Optimal.h.
type Optimal struct {
	deterministic bool
}

// NewOptimal builds an Optimal model for the given delay tolerance.
func NewOptimal(delayTolerance int) Optimal {
	return Optimal{deterministic: delayTolerance > 0}
}

func (m Optimal) Distribution(values []int) []int {
	if len(values) == 0 {
		return nil
	}
	minValue := min(values)
	result := make([]int, len(values)+1)
	if m.deterministic {
		found := false
		for i, v := range values {
			if !found && v == minValue {
				found = true
				result[i] = 1
			}
		}
		result[len(values)] = 1
	} else {
		for i, v := range values {
			if v == minValue {
				result[i] = 1
				result[len(values)]++
			}
		}
	}
	return result
}

func (m Optimal) Distribution2(a, b int) [3]int {
	if m.deterministic || a != b {
		if a <= b {
			return [3]int{1, 0, 1}
		}
		return [3]int{0, 1, 1}
	}
	return [3]int{1, 1, 2}
}
