package ring

import (
	"fmt"
)

// The distinguished element g = prod_{odd prime p | m} (1 - zeta_p) controls
// the multiplicative distortion homomorphic multiplication introduces. For
// indices without odd prime factors g = 1.

func (r *Ring) buildG() {

	g := r.One()
	isOne := true

	for _, p := range r.factors {
		if p == 2 {
			continue
		}
		// 1 - zeta_p = 1 - x^(m/p)
		factor := r.Sub(r.One(), r.NewMonomial(r.m/p))
		g = r.Mul(g, factor)
		isOne = false
	}

	r.g = g
	r.gIsOne = isOne

	if isOne {
		r.gInv = r.One()
		return
	}

	r.gInv, r.gInvErr = r.inverse(g)
}

// G returns the distinguished element g of the ring.
func (r *Ring) G() Poly {
	return r.g.CopyNew()
}

// GInverse returns g^-1 mod (Phi_m, q), or ErrNotInvertible when g is not a
// unit of the ring.
func (r *Ring) GInverse() (Poly, error) {
	if r.gInvErr != nil {
		return Poly{}, fmt.Errorf("cannot GInverse: %w", r.gInvErr)
	}
	return r.gInv.CopyNew(), nil
}

// MulByG returns g * a.
func (r *Ring) MulByG(a Poly) Poly {
	if r.gIsOne {
		return a.CopyNew()
	}
	return r.Mul(a, r.g)
}

// ExactDivideByG is the partial inverse of MulByG. It returns a/g when the
// division is exact and ErrNotMultipleOfG otherwise. When g is a unit mod q
// every element is an exact multiple; the failing case arises over moduli
// sharing a factor with the algebraic norm of g, where a corrupted ciphertext
// or a key mismatch surfaces as a non-multiple.
func (r *Ring) ExactDivideByG(a Poly) (Poly, error) {
	r.checkPoly(a)
	if r.gIsOne {
		return a.CopyNew(), nil
	}
	if r.gInvErr != nil {
		return Poly{}, fmt.Errorf("cannot ExactDivideByG: %w", ErrNotMultipleOfG)
	}
	return r.Mul(a, r.gInv), nil
}

// inverse computes a^-1 mod (Phi_m, q) by the extended Euclidean algorithm
// over Z_q[x]. It fails with ErrNotInvertible when a leading coefficient or
// the final gcd is not a unit mod q.
func (r *Ring) inverse(a Poly) (Poly, error) {

	q := r.q

	// r0, r1 are the remainder sequence; t0, t1 track the Bezout coefficient
	// of a, as raw coefficient vectors of degree <= n.
	r0 := append([]uint64(nil), r.phi...)
	r1 := append([]uint64(nil), a.Coeffs...)
	t0 := make([]uint64, r.n+1)
	t1 := make([]uint64, r.n+1)
	t1[0] = 1

	deg := func(p []uint64) int {
		for i := len(p) - 1; i >= 0; i-- {
			if p[i] != 0 {
				return i
			}
		}
		return -1
	}

	for {
		d1 := deg(r1)
		if d1 < 0 {
			break
		}
		lcInv, err := InvMod(r1[d1], q)
		if err != nil {
			return Poly{}, ErrNotInvertible
		}
		d0 := deg(r0)
		for d0 >= d1 {
			c := MulMod(r0[d0], lcInv, q)
			shift := d0 - d1
			for j := 0; j <= d1; j++ {
				r0[shift+j] = SubMod(r0[shift+j], MulMod(c, r1[j], q), q)
			}
			for j := 0; j <= deg(t1); j++ {
				if shift+j < len(t0) {
					t0[shift+j] = SubMod(t0[shift+j], MulMod(c, t1[j], q), q)
				}
			}
			d0 = deg(r0)
		}
		r0, r1 = r1, r0
		t0, t1 = t1, t0
	}

	d0 := deg(r0)
	if d0 != 0 {
		return Poly{}, ErrNotInvertible
	}
	cInv, err := InvMod(r0[0], q)
	if err != nil {
		return Poly{}, ErrNotInvertible
	}

	out := r.NewPoly()
	for i := 0; i < r.n && i < len(t0); i++ {
		out.Coeffs[i] = MulMod(t0[i], cInv, q)
	}
	return out, nil
}
