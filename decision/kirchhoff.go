package decision

import "math"

// Kirchhoff assigns weight norm*(min-value+delayTolerance)^beta to values
// within delayTolerance of the minimum, matching
// original_source/Algorithms/DecisionModels/Kirchhoff.h.
type Kirchhoff struct {
	delayTolerance int
	beta           float64
	norm           float64
}

// NewKirchhoff builds a Kirchhoff model.
func NewKirchhoff(delayTolerance int, beta float64) Kirchhoff {
	return Kirchhoff{
		delayTolerance: delayTolerance,
		beta:           beta,
		norm:           10000.0 / math.Pow(float64(delayTolerance), beta),
	}
}

func (m Kirchhoff) value(v, minValue int) int {
	return int(m.norm * math.Pow(float64(minValue-v+m.delayTolerance), m.beta))
}

func (m Kirchhoff) Distribution(values []int) []int {
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

func (m Kirchhoff) Distribution2(a, b int) [3]int {
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
