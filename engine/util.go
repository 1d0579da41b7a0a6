package engine

import "golang.org/x/exp/constraints"

// Clamp restricts v to the inclusive range [low, high].
func Clamp[T constraints.Ordered](v, low, high T) T {
	if v < low {
		return low
	}
	if v > high {
		return high
	}
	return v
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// isWinScore reports whether v is a forced win or loss found by search.
func isWinScore(v int) bool {
	return abs(v) >= winThreshold
}
