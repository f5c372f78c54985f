// Package factorization implements integer factorization routines for the
// small, smooth integers that arise as cyclotomic indices.
package factorization

// PrimeFactors returns the distinct prime factors of n in increasing order.
func PrimeFactors(n uint64) (factors []uint64) {
	for p := uint64(2); p*p <= n; p++ {
		if n%p == 0 {
			factors = append(factors, p)
			for n%p == 0 {
				n /= p
			}
		}
	}
	if n > 1 {
		factors = append(factors, n)
	}
	return
}

// EulerPhi returns the Euler totient of n.
func EulerPhi(n uint64) uint64 {
	phi := n
	for _, p := range PrimeFactors(n) {
		phi = phi / p * (p - 1)
	}
	return phi
}

// Divisors returns all divisors of n in increasing order.
func Divisors(n uint64) (divisors []uint64) {
	for d := uint64(1); d*d <= n; d++ {
		if n%d == 0 {
			divisors = append(divisors, d)
			if d != n/d {
				divisors = append(divisors, n/d)
			}
		}
	}
	// insertion sort, the lists are tiny
	for i := 1; i < len(divisors); i++ {
		for j := i; j > 0 && divisors[j] < divisors[j-1]; j-- {
			divisors[j], divisors[j-1] = divisors[j-1], divisors[j]
		}
	}
	return
}

// Radical returns the product of the distinct prime factors of n.
func Radical(n uint64) uint64 {
	r := uint64(1)
	for _, p := range PrimeFactors(n) {
		r *= p
	}
	return r
}
