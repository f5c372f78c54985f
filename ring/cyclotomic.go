package ring

import (
	"fmt"
	"sync"

	"github.com/cyclolab/cyclone/utils/factorization"
)

// Cyclotomic polynomials have small integer coefficients for the indices this
// library targets; they are computed once over the integers and memoized, then
// reduced modulo each ring modulus at construction time.
var (
	cycloCacheMu sync.Mutex
	cycloCache   = map[uint64][]int64{}
)

// CyclotomicPolynomial returns the coefficients of Phi_m(x) over the integers,
// in increasing degree order, with Phi_m monic.
func CyclotomicPolynomial(m uint64) []int64 {
	cycloCacheMu.Lock()
	defer cycloCacheMu.Unlock()
	return cyclotomicPolynomial(m)
}

func cyclotomicPolynomial(m uint64) []int64 {

	if phi, ok := cycloCache[m]; ok {
		return phi
	}

	// x^m - 1
	num := make([]int64, m+1)
	num[0] = -1
	num[m] = 1

	for _, d := range factorization.Divisors(m) {
		if d < m {
			num = intPolyDivExact(num, cyclotomicPolynomial(d))
		}
	}

	cycloCache[m] = num
	return num
}

// intPolyDivExact divides a by the monic polynomial b over the integers.
// The division must be exact; a nonzero remainder panics.
func intPolyDivExact(a, b []int64) []int64 {

	da, db := intPolyDegree(a), intPolyDegree(b)
	if db < 0 || b[db] != 1 {
		panic("intPolyDivExact: divisor is not monic")
	}

	rem := append([]int64(nil), a[:da+1]...)
	quo := make([]int64, da-db+1)

	for i := da; i >= db; i-- {
		c := rem[i]
		if c == 0 {
			continue
		}
		quo[i-db] = c
		for j := 0; j <= db; j++ {
			rem[i-db+j] -= c * b[j]
		}
	}

	for _, c := range rem {
		if c != 0 {
			panic("intPolyDivExact: division is not exact")
		}
	}

	return quo
}

func intPolyDegree(a []int64) int {
	for i := len(a) - 1; i >= 0; i-- {
		if a[i] != 0 {
			return i
		}
	}
	return -1
}

// intReduceCyclotomic reduces the integer polynomial a modulo the monic
// integer polynomial phi, returning a remainder of len(phi)-1 coefficients.
func intReduceCyclotomic(a, phi []int64) []int64 {

	n := intPolyDegree(phi)
	rem := append([]int64(nil), a...)

	for i := len(rem) - 1; i >= n; i-- {
		c := rem[i]
		if c == 0 {
			continue
		}
		rem[i] = 0
		for j := 0; j < n; j++ {
			rem[i-n+j] -= c * phi[j]
		}
	}

	out := make([]int64, n)
	copy(out, rem)
	return out
}

// EmbedInt embeds an integer-coefficient ring element of index fromM into the
// ring of index toM along the divisibility relation fromM | toM. Coefficients
// are power-basis coordinates of length EulerPhi(fromM).
func EmbedInt(fromM, toM uint64, coeffs []int64) ([]int64, error) {

	if toM%fromM != 0 {
		return nil, fmt.Errorf("cannot EmbedInt: %w: %d does not divide %d", ErrIncompatibleIndices, fromM, toM)
	}
	if uint64(len(coeffs)) != factorization.EulerPhi(fromM) {
		return nil, fmt.Errorf("cannot EmbedInt: coefficient count %d does not match EulerPhi(%d)", len(coeffs), fromM)
	}

	stride := toM / fromM
	raw := make([]int64, toM)
	for i, c := range coeffs {
		raw[uint64(i)*stride] = c
	}

	return intReduceCyclotomic(raw, CyclotomicPolynomial(toM)), nil
}
