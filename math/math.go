// Package math provides the widened-arithmetic helpers the epoch pipeline
// needs to keep Gwei/stake products from silently overflowing 64 bits,
// mirroring the host project's shared mathutil package.
package math

import "math/bits"

// IntegerSquareRoot returns the largest integer x such that x*x <= n, using
// Newton's method with x0 = n so base_reward arithmetic stays reproducible
// across implementations.
func IntegerSquareRoot(n uint64) uint64 {
	if n == 0 {
		return 0
	}
	x := n
	y := (x + 1) / 2
	for y < x {
		x = y
		y = (x + n/x) / 2
	}
	return x
}

// Mul64 returns a*b widened to 128 bits as (hi, lo).
func Mul64(a, b uint64) (hi, lo uint64) {
	return bits.Mul64(a, b)
}

// MulDiv64 computes (a*b)/c without overflowing when a*b exceeds 64 bits,
// as required for committee-carving (A*k) and base-reward numerators.
// Panics if the final quotient does not fit in 64 bits or c is zero.
func MulDiv64(a, b, c uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	q, _ := bits.Div64(hi, lo, c)
	return q
}

// Div64WithRoundDown computes floor(a/b), returning 0 if b is 0. The state
// transition never divides by a value that can be legitimately zero except
// where callers explicitly guard it (e.g. total_balance clamped to 1).
func Div64WithRoundDown(a, b uint64) uint64 {
	if b == 0 {
		return 0
	}
	return a / b
}
