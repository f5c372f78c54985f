// Package utils implements generic helper functions shared across the library.
package utils

import (
	"golang.org/x/exp/constraints"
)

// Min returns the smaller of a and b.
func Min[T constraints.Ordered](a, b T) T {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of a and b.
func Max[T constraints.Ordered](a, b T) T {
	if a > b {
		return a
	}
	return b
}

// Gcd computes the greatest common divisor of a and b.
func Gcd[T constraints.Unsigned](a, b T) T {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// Abs returns the absolute value of a.
func Abs[T constraints.Signed](a T) T {
	if a < 0 {
		return -a
	}
	return a
}

// Pow returns base^exp computed over T (no overflow check).
func Pow[T constraints.Integer](base T, exp int) (r T) {
	r = 1
	for i := 0; i < exp; i++ {
		r *= base
	}
	return
}
