package scale

import "math"

// Variance is the deviation of a measured amount from the planned amount.
func Variance(actual, planned float64) float64 {
	return actual - planned
}

// VariancePercent is the deviation expressed as a percentage of the planned
// amount, rounded to two decimal places. A planned amount of zero yields 0
// rather than dividing by zero; percentages are required to be positive so
// this is not reachable through normal data, but stored rows are not trusted
// to uphold it.
func VariancePercent(actual, planned float64) float64 {
	if planned <= 0 {
		return 0
	}
	return math.Round((actual-planned)/planned*100*100) / 100
}
