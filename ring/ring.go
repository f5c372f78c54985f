// Package ring implements exact arithmetic over cyclotomic rings
// Z[x]/(Phi_m(x), q) for arbitrary cyclotomic indices m, together with the
// operations homomorphic-encryption cores build on: embedding and trace along
// index divisibility, the distinguished element g and its partial exact
// division, modulus rescaling in the power and decoding bases, gadget
// decomposition, and secure sampling.
package ring

import (
	"errors"
	"fmt"

	"github.com/google/go-cmp/cmp"

	"github.com/cyclolab/cyclone/utils/factorization"
)

var (
	// ErrIncompatibleIndices is returned when two cyclotomic indices are not
	// in the divisibility relation an operation requires.
	ErrIncompatibleIndices = errors.New("cyclotomic indices are not in the required divisibility relation")

	// ErrMismatchedModulus is returned when an operation requires two rings
	// with the same coefficient modulus.
	ErrMismatchedModulus = errors.New("ring moduli do not match")

	// ErrNotInvertible is returned when an element required to be a unit is
	// not invertible.
	ErrNotInvertible = errors.New("element is not invertible")

	// ErrNotMultipleOfG is returned by ExactDivideByG when exact division by
	// g cannot be carried out in the ring.
	ErrNotMultipleOfG = errors.New("element is not an exact multiple of g")
)

// MaxModulus is the largest supported coefficient modulus. Keeping moduli
// below 2^61 lets intermediate sums stay inside uint64/int64 arithmetic.
const MaxModulus = uint64(1) << 61

// Ring is a cyclotomic ring Z[x]/(Phi_m(x), q). Elements are Poly values in
// power-basis coordinates. A Ring is immutable after construction and safe
// for concurrent use.
type Ring struct {
	m       uint64
	q       uint64
	n       int
	phi     []uint64 // Phi_m mod q, length n+1, monic
	phiInt  []int64  // Phi_m over the integers
	factors []uint64 // distinct primes of m
	g       Poly
	gInv    Poly
	gIsOne  bool
	gInvErr error
}

// NewRing constructs the cyclotomic ring of index m with coefficient
// modulus q.
func NewRing(m, q uint64) (*Ring, error) {

	if m < 1 {
		return nil, fmt.Errorf("cannot NewRing: index m must be >= 1 but is %d", m)
	}

	if q < 2 || q > MaxModulus {
		return nil, fmt.Errorf("cannot NewRing: modulus q must be in [2, 2^61] but is %d", q)
	}

	r := &Ring{
		m:       m,
		q:       q,
		n:       int(factorization.EulerPhi(m)),
		phiInt:  CyclotomicPolynomial(m),
		factors: factorization.PrimeFactors(m),
	}

	r.phi = make([]uint64, r.n+1)
	for i, c := range r.phiInt {
		r.phi[i] = reduceInt64(c, q)
	}

	r.buildG()

	return r, nil
}

// N returns the degree of Phi_m, i.e. the number of power-basis coordinates.
func (r *Ring) N() int { return r.n }

// CyclotomicIndex returns the index m of the ring.
func (r *Ring) CyclotomicIndex() uint64 { return r.m }

// Modulus returns the coefficient modulus q of the ring.
func (r *Ring) Modulus() uint64 { return r.q }

// Poly is a ring element in power-basis coordinates. Ring operations treat
// Poly values as immutable and allocate their outputs.
type Poly struct {
	Coeffs []uint64
}

// NewPoly returns the zero element of the ring.
func (r *Ring) NewPoly() Poly {
	return Poly{Coeffs: make([]uint64, r.n)}
}

// One returns the multiplicative identity of the ring.
func (r *Ring) One() Poly {
	p := r.NewPoly()
	p.Coeffs[0] = 1 % r.q
	return p
}

// NewConstant returns the constant polynomial c mod q.
func (r *Ring) NewConstant(c uint64) Poly {
	p := r.NewPoly()
	p.Coeffs[0] = c % r.q
	return p
}

// NewMonomial returns x^exp reduced in the ring. The exponent may exceed the
// power-basis degree.
func (r *Ring) NewMonomial(exp uint64) Poly {
	raw := make([]uint64, exp%r.m+1)
	raw[exp%r.m] = 1 % r.q
	return r.reduceRaw(raw)
}

// FromInt64 returns the ring element with the given integer power-basis
// coordinates reduced mod q.
func (r *Ring) FromInt64(coeffs []int64) Poly {
	r.checkLen(len(coeffs))
	p := r.NewPoly()
	for i, c := range coeffs {
		p.Coeffs[i] = reduceInt64(c, r.q)
	}
	return p
}

// CenteredLift returns the integer power-basis coordinates of p, each lifted
// to (-q/2, q/2].
func (r *Ring) CenteredLift(p Poly) []int64 {
	r.checkPoly(p)
	out := make([]int64, r.n)
	for i, c := range p.Coeffs {
		out[i] = CenteredLift(c, r.q)
	}
	return out
}

// CopyNew returns a deep copy of p.
func (p Poly) CopyNew() Poly {
	return Poly{Coeffs: append([]uint64(nil), p.Coeffs...)}
}

// Equal checks two ring elements for equality.
func (p Poly) Equal(other Poly) bool {
	return cmp.Equal(p.Coeffs, other.Coeffs)
}

// IsZero reports whether p is the zero element.
func (p Poly) IsZero() bool {
	for _, c := range p.Coeffs {
		if c != 0 {
			return false
		}
	}
	return true
}

// Add returns a + b.
func (r *Ring) Add(a, b Poly) Poly {
	r.checkPoly(a)
	r.checkPoly(b)
	out := r.NewPoly()
	for i := range out.Coeffs {
		out.Coeffs[i] = AddMod(a.Coeffs[i], b.Coeffs[i], r.q)
	}
	return out
}

// Sub returns a - b.
func (r *Ring) Sub(a, b Poly) Poly {
	r.checkPoly(a)
	r.checkPoly(b)
	out := r.NewPoly()
	for i := range out.Coeffs {
		out.Coeffs[i] = SubMod(a.Coeffs[i], b.Coeffs[i], r.q)
	}
	return out
}

// Neg returns -a.
func (r *Ring) Neg(a Poly) Poly {
	r.checkPoly(a)
	out := r.NewPoly()
	for i := range out.Coeffs {
		out.Coeffs[i] = NegMod(a.Coeffs[i], r.q)
	}
	return out
}

// MulScalar returns c * a for a scalar c.
func (r *Ring) MulScalar(a Poly, c uint64) Poly {
	r.checkPoly(a)
	c %= r.q
	out := r.NewPoly()
	for i := range out.Coeffs {
		out.Coeffs[i] = MulMod(a.Coeffs[i], c, r.q)
	}
	return out
}

// Mul returns a * b, computed by schoolbook convolution followed by reduction
// modulo Phi_m. The ring keeps no transform-domain cache; multiplication is
// exact for every modulus.
func (r *Ring) Mul(a, b Poly) Poly {
	r.checkPoly(a)
	r.checkPoly(b)

	raw := make([]uint64, 2*r.n-1)
	for i, ai := range a.Coeffs {
		if ai == 0 {
			continue
		}
		for j, bj := range b.Coeffs {
			if bj == 0 {
				continue
			}
			raw[i+j] = AddMod(raw[i+j], MulMod(ai, bj, r.q), r.q)
		}
	}

	return r.reduceRaw(raw)
}

// EvaluateAt returns c[0] + c[1]*s + ... + c[d]*s^d by Horner evaluation.
func (r *Ring) EvaluateAt(c []Poly, s Poly) Poly {
	if len(c) == 0 {
		return r.NewPoly()
	}
	acc := c[len(c)-1].CopyNew()
	for i := len(c) - 2; i >= 0; i-- {
		acc = r.Add(r.Mul(acc, s), c[i])
	}
	return acc
}

// ToPowerBasis returns the power-basis view of p.
//
// In this provider the power and decoding bases share coordinates (exact for
// two-power indices); the two views are kept as distinct operations so that
// callers state which basis an operation is semantically defined in.
func (r *Ring) ToPowerBasis(p Poly) Poly {
	r.checkPoly(p)
	return p.CopyNew()
}

// ToDecodingBasis returns the decoding-basis view of p. See ToPowerBasis.
func (r *Ring) ToDecodingBasis(p Poly) Poly {
	r.checkPoly(p)
	return p.CopyNew()
}

// reduceRaw reduces an unreduced coefficient vector (degree possibly >= n)
// modulo Phi_m and returns the canonical power-basis element.
func (r *Ring) reduceRaw(raw []uint64) Poly {

	for i := len(raw) - 1; i >= r.n; i-- {
		c := raw[i]
		if c == 0 {
			continue
		}
		raw[i] = 0
		for j := 0; j < r.n; j++ {
			raw[i-r.n+j] = SubMod(raw[i-r.n+j], MulMod(c, r.phi[j], r.q), r.q)
		}
	}

	out := r.NewPoly()
	copy(out.Coeffs, raw)
	return out
}

func (r *Ring) checkPoly(p Poly) {
	r.checkLen(len(p.Coeffs))
}

func (r *Ring) checkLen(n int) {
	if n != r.n {
		// Sanity check: a Poly of the wrong ring is a caller bug, not a
		// runtime data error.
		panic(fmt.Errorf("poly has %d coefficients but ring of index %d expects %d", n, r.m, r.n))
	}
}
