package ring

import (
	"fmt"
)

// Gadget is the base-B power vector (1, B, B^2, ...) over a ring, used for
// digit decomposition in key switching. Decompose writes any ring element as
// a combination of the vector entries with balanced (small) digits, trading
// hint size for noise growth.
type Gadget struct {
	ring   *Ring
	base   uint64
	digits int
}

// NewGadget creates the base-B gadget over the given ring. The number of
// digits is the smallest n with B^n >= q, plus one digit of headroom for the
// balanced representation.
func NewGadget(r *Ring, base uint64) (*Gadget, error) {

	if base < 2 {
		return nil, fmt.Errorf("cannot NewGadget: base must be >= 2 but is %d", base)
	}

	digits := 1
	acc := base
	for acc < r.q {
		if acc > r.q/base {
			// next multiplication would overflow past q anyway
			digits++
			break
		}
		acc *= base
		digits++
	}
	digits++

	return &Gadget{ring: r, base: base, digits: digits}, nil
}

// Ring returns the ring the gadget is defined over.
func (g *Gadget) Ring() *Ring { return g.ring }

// Base returns the decomposition base B.
func (g *Gadget) Base() uint64 { return g.base }

// Digits returns the length of the gadget vector.
func (g *Gadget) Digits() int { return g.digits }

// Vector returns the gadget vector entries B^0, ..., B^(n-1) mod q.
func (g *Gadget) Vector() []uint64 {
	q := g.ring.q
	v := make([]uint64, g.digits)
	v[0] = 1 % q
	for i := 1; i < g.digits; i++ {
		v[i] = MulMod(v[i-1], g.base%q, q)
	}
	return v
}

// Decompose writes a as balanced base-B digits: it returns polynomials
// d_0..d_(n-1) with coefficients in [-B/2, B/2] such that
// sum_i B^i * d_i == a in the ring.
func (g *Gadget) Decompose(a Poly) []Poly {

	r := g.ring
	r.checkPoly(a)
	b := int64(g.base)

	out := make([]Poly, g.digits)
	for i := range out {
		out[i] = r.NewPoly()
	}

	for j, c := range a.Coeffs {
		v := CenteredLift(c, r.q)
		for i := 0; i < g.digits; i++ {
			d := v % b
			if 2*d > b {
				d -= b
			} else if 2*d < -b {
				d += b
			}
			v = (v - d) / b
			out[i].Coeffs[j] = reduceInt64(d, r.q)
		}
		if v != 0 {
			// Sanity check: the digit count always covers the centered range.
			panic(fmt.Errorf("gadget decomposition left remainder %d", v))
		}
	}

	return out
}
