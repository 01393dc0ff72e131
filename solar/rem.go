package solar

import (
	"math"
)

const twoPi = 2 * math.Pi

// Rem returns the floored remainder of x/m. Unlike math.Mod, the result
// takes the sign of m, so for m > 0 it is always in [0, m).
func Rem(x, m float64) float64 {
	r := math.Mod(x, m)
	if r != 0 && (r < 0) != (m < 0) {
		r += m
	}

	// r+m can round up to m when r is a tiny negative number
	if r == m {
		return 0
	}
	return r
}

// sign returns -1, 0 or +1. NaN maps to 0.
func sign(x float64) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

// clamp keeps acos/asin arguments inside their domain when rounding
// pushes a value a few ulps past ±1.
func clamp(x float64) float64 {
	if x > 1 {
		return 1
	}
	if x < -1 {
		return -1
	}
	return x
}
