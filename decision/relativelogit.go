package decision

import "math"

// RelativeLogit is Logit with the gap normalised by the minimum PAT rather
// than taken as an absolute difference: exp(10 + beta*(min-value)/min) for
// values within delayTolerance of the minimum, 0 otherwise.
type RelativeLogit struct {
	delayTolerance int
	beta           float64
}

// NewRelativeLogit builds a RelativeLogit model.
func NewRelativeLogit(delayTolerance int, beta float64) RelativeLogit {
	return RelativeLogit{delayTolerance: delayTolerance, beta: beta}
}

func (m RelativeLogit) value(v, minValue int) int {
	if minValue == 0 {
		if v == minValue {
			return int(math.Exp(10))
		}
		return 0
	}
	return int(math.Exp(10 + m.beta*float64(minValue-v)/float64(minValue)))
}

func (m RelativeLogit) Distribution(values []int) []int {
	if len(values) == 0 {
		return nil
	}
	minValues := twoSmallest(values)
	result := make([]int, len(values)+1)
	if minValues[1]-minValues[0] > m.delayTolerance {
		for i, v := range values {
			if v == minValues[0] {
				result[i] = 1
				result[len(values)]++
			}
		}
	} else {
		for i, v := range values {
			if v-minValues[0] <= m.delayTolerance {
				result[i] = m.value(v, minValues[0])
			}
			result[len(values)] += result[i]
		}
	}
	return result
}

func (m RelativeLogit) Distribution2(a, b int) [3]int {
	if b-a > m.delayTolerance {
		return [3]int{1, 0, 1}
	} else if a-b > m.delayTolerance {
		return [3]int{0, 1, 1}
	}
	minValue := a
	if b < a {
		minValue = b
	}
	va, vb := m.value(a, minValue), m.value(b, minValue)
	return [3]int{va, vb, va + vb}
}
