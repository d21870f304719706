package rules

import "math"

// floorDiv divides rounding toward negative infinity, unlike Go's truncating
// integer division: floorDiv(-5, 10) == -1.
func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func roundTo(value float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(value*scale) / scale
}

func clampInt(value, lo, hi int) int {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}

// exceedsWeight compares kilogram sums in whole grams so float drift from
// summing fractional weights cannot tip an exact load over its limit.
func exceedsWeight(value, limit float64) bool {
	return math.Round(value*1000) > math.Round(limit*1000)
}
