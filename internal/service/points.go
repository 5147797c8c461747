package service

import "math"

// awardedPoints applies a category multiplier and rounds half up.
// The product is first rounded to six decimals so binary noise such as
// 22.499999999 does not flip the result. Products outside [0, MaxInt32]
// are rejected rather than wrapped.
func awardedPoints(points int, multiplier float64) (int, error) {
	product := float64(points) * multiplier
	if math.IsNaN(product) || product < 0 || product > math.MaxInt32 {
		return 0, validationError("awarded points out of range for %d x %g", points, multiplier)
	}
	product = math.Round(product*1e6) / 1e6
	return int(math.Floor(product + 0.5)), nil
}
