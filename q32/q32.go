// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package q32 implements Q32.32 fixed-point arithmetic: 64-bit unsigned
// integers interpreted as 32 integer bits and 32 fractional bits.
// Consensus-critical math must be identical on every platform, so all
// arithmetic here is integer; floats never decide block acceptance.
package q32

import "math/bits"

// Q is a 64-bit fixed-point value in 32.32 representation.
type Q uint64

// ONE is the fixed-point representation of 1.0.
const ONE Q = 1 << 32

// Zero is the fixed-point representation of 0.0.
const Zero Q = 0

// FromRatio returns num/den as a Q, clamped into range by the caller's
// choice of num/den. It fails if den is zero.
func FromRatio(num, den uint64) (Q, error) {
	if den == 0 {
		return 0, ErrDivByZero
	}
	hi, lo := bits.Mul64(num, uint64(ONE))
	q, _ := bits.Div64(hi, lo, den)
	return Q(q), nil
}

// Mul returns a*b using a widening 128-bit multiply followed by a
// right shift of 32 bits, saturating on overflow of the result into
// more than 64 bits.
func Mul(a, b Q) Q {
	hi, lo := bits.Mul64(uint64(a), uint64(b))
	// result = (hi:lo) >> 32
	result := (hi << 32) | (lo >> 32)
	if hi>>32 != 0 {
		// overflowed even after the shift; saturate.
		return Q(^uint64(0))
	}
	return Q(result)
}

// Div returns a/b using a widening left-shift-by-32 followed by a
// division. It fails if b is zero.
func Div(a, b Q) (Q, error) {
	if b == 0 {
		return 0, ErrDivByZero
	}
	hi, lo := bits.Mul64(uint64(a), 1<<32)
	q, _ := bits.Div64(hi, lo, uint64(b))
	return Q(q), nil
}

// Add returns a+b, saturating at the maximum representable value
// instead of wrapping.
func Add(a, b Q) Q {
	sum := uint64(a) + uint64(b)
	if sum < uint64(a) {
		return Q(^uint64(0))
	}
	return Q(sum)
}

// Sub returns a-b, saturating at zero instead of wrapping.
func Sub(a, b Q) Q {
	if b > a {
		return 0
	}
	return a - b
}

// Clamp01 clamps q into [0, ONE].
func Clamp01(q Q) Q {
	if q > ONE {
		return ONE
	}
	return q
}

// Min returns the smaller of a and b.
func Min(a, b Q) Q {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of a and b.
func Max(a, b Q) Q {
	if a > b {
		return a
	}
	return b
}

// MulU128 widens a*b into a u128-equivalent (hi, lo uint64 pair), used
// where a Q is multiplied by an amount too large to fit safely in a
// single widening Mul (e.g. against sum_weights_q accumulators).
func MulU128(a, b Q) (hi, lo uint64) {
	return bits.Mul64(uint64(a), uint64(b))
}

// ToFloat64 converts q to a float64 for display/metrics purposes only.
// Never use the result to decide block acceptance.
func ToFloat64(q Q) float64 {
	return float64(q) / float64(ONE)
}
