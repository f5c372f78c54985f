package ring

import (
	"math/bits"
)

// AddMod returns a+b mod q. Inputs must be reduced mod q.
func AddMod(a, b, q uint64) uint64 {
	if c := a + b; c >= q {
		return c - q
	} else {
		return c
	}
}

// SubMod returns a-b mod q. Inputs must be reduced mod q.
func SubMod(a, b, q uint64) uint64 {
	if a >= b {
		return a - b
	}
	return a + q - b
}

// NegMod returns -a mod q. Input must be reduced mod q.
func NegMod(a, q uint64) uint64 {
	if a == 0 {
		return 0
	}
	return q - a
}

// MulMod returns a*b mod q using a 128-bit intermediate product.
// Inputs must be reduced mod q.
func MulMod(a, b, q uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	_, r := bits.Div64(hi, lo, q)
	return r
}

// ExpMod returns a^e mod q by square and multiply.
func ExpMod(a, e, q uint64) uint64 {
	r := uint64(1 % q)
	a %= q
	for e > 0 {
		if e&1 == 1 {
			r = MulMod(r, a, q)
		}
		a = MulMod(a, a, q)
		e >>= 1
	}
	return r
}

// InvMod returns a^-1 mod q, or ErrNotInvertible if gcd(a, q) != 1.
func InvMod(a, q uint64) (uint64, error) {
	if a == 0 {
		return 0, ErrNotInvertible
	}
	var t0, t1 int64 = 0, 1
	r0, r1 := int64(q), int64(a%q)
	for r1 != 0 {
		quo := r0 / r1
		r0, r1 = r1, r0-quo*r1
		t0, t1 = t1, t0-quo*t1
	}
	if r0 != 1 {
		return 0, ErrNotInvertible
	}
	if t0 < 0 {
		t0 += int64(q)
	}
	return uint64(t0), nil
}

// CenteredLift returns the representative of a in (-q/2, q/2].
// Input must be reduced mod q.
func CenteredLift(a, q uint64) int64 {
	if a > q>>1 {
		return int64(a) - int64(q)
	}
	return int64(a)
}

// reduceInt64 returns v mod q as a value in [0, q).
func reduceInt64(v int64, q uint64) uint64 {
	r := v % int64(q)
	if r < 0 {
		r += int64(q)
	}
	return uint64(r)
}
