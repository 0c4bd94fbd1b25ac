// Package dice provides the randomness abstraction used by every formula,
// the anomaly generator and the battle state machine.
package dice

// Source is the randomness provider for the game.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
	// Float64 returns a random float in [0.0, 1.0).
	Float64() float64
}

// Uniform returns a float drawn uniformly from [lo, hi).
//
// Precondition: src must be non-nil; lo <= hi.
// Postcondition: lo <= result < hi, or result == lo when lo == hi.
func Uniform(src Source, lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + src.Float64()*(hi-lo)
}

// IntRange returns an int drawn uniformly from the closed range [lo, hi].
//
// Precondition: src must be non-nil.
// Postcondition: lo <= result <= hi; returns lo when hi <= lo.
func IntRange(src Source, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + src.Intn(hi-lo+1)
}

// Pick returns a uniformly chosen index into a collection of length n.
//
// Precondition: n > 0.
func Pick(src Source, n int) int {
	return src.Intn(n)
}

// Chance reports true with probability p, where p is a fraction in [0, 1].
// Values of p outside [0, 1] are clamped.
func Chance(src Source, p float64) bool {
	switch {
	case p <= 0:
		return false
	case p >= 1:
		return true
	}
	return src.Float64() < p
}
