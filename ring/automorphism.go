package ring

import (
	"fmt"

	"github.com/cyclolab/cyclone/utils"
	"github.com/cyclolab/cyclone/utils/factorization"
)

// Automorphism applies the Galois automorphism zeta -> zeta^t to a.
// t must be coprime to the cyclotomic index.
func (r *Ring) Automorphism(a Poly, t uint64) (Poly, error) {
	r.checkPoly(a)

	t %= r.m
	if utils.Gcd(t, r.m) != 1 {
		return Poly{}, fmt.Errorf("cannot Automorphism: t=%d is not coprime to m=%d", t, r.m)
	}

	raw := make([]uint64, r.m)
	for i, c := range a.Coeffs {
		if c == 0 {
			continue
		}
		e := (uint64(i) * t) % r.m
		raw[e] = AddMod(raw[e], c, r.q)
	}

	return r.reduceRaw(raw), nil
}

// Embed lifts an element of the subring of index from.m into the receiver
// ring along the divisibility relation from.m | m, mapping zeta_from to
// zeta_m^(m/from.m). Both rings must share the same modulus.
func (r *Ring) Embed(a Poly, from *Ring) (Poly, error) {

	if r.q != from.q {
		return Poly{}, fmt.Errorf("cannot Embed: %w: %d != %d", ErrMismatchedModulus, from.q, r.q)
	}
	if r.m%from.m != 0 {
		return Poly{}, fmt.Errorf("cannot Embed: %w: %d does not divide %d", ErrIncompatibleIndices, from.m, r.m)
	}
	from.checkPoly(a)

	stride := r.m / from.m
	raw := make([]uint64, r.m)
	for i, c := range a.Coeffs {
		raw[uint64(i)*stride] = c
	}

	return r.reduceRaw(raw), nil
}

// Twace is the normalized trace down to the subring of index to.m: it is the
// left inverse of Embed, i.e. to.Twace-composed-with-Embed is the identity on
// the subring. It requires the clean tower relation rad(m) | to.m (so that
// the receiver has a monomial basis over the subring) and that the tower
// degree is a unit mod q.
func (r *Ring) Twace(a Poly, to *Ring) (Poly, error) {

	if r.q != to.q {
		return Poly{}, fmt.Errorf("cannot Twace: %w: %d != %d", ErrMismatchedModulus, to.q, r.q)
	}
	if err := r.checkCleanTower(to.m); err != nil {
		return Poly{}, fmt.Errorf("cannot Twace: %w", err)
	}
	r.checkPoly(a)

	// Sum over the Galois group fixing the subring: t = 1 mod to.m.
	acc := r.NewPoly()
	count := uint64(0)
	for t := uint64(1); t < r.m; t += to.m {
		if utils.Gcd(t, r.m) != 1 {
			continue
		}
		s, err := r.Automorphism(a, t)
		if err != nil {
			return Poly{}, err
		}
		acc = r.Add(acc, s)
		count++
	}

	dInv, err := InvMod(count%r.q, r.q)
	if err != nil {
		return Poly{}, fmt.Errorf("cannot Twace: tower degree %d: %w", count, ErrNotInvertible)
	}

	// The trace of any element lies in the embedded subring; recover its
	// subring coordinates from the monomial basis.
	stride := r.m / to.m
	out := to.NewPoly()
	for i, c := range acc.Coeffs {
		if c == 0 {
			continue
		}
		if uint64(i)%stride != 0 {
			// Sanity check: the trace image always has clean coordinates.
			panic(fmt.Errorf("twace result has coefficient outside the subring image at degree %d", i))
		}
		out.Coeffs[uint64(i)/stride] = MulMod(c, dInv, r.q)
	}

	return out, nil
}

// PowerBasisVectors returns the relative power basis of the receiver over the
// subring of index sub.m: the monomials x^0, ..., x^(d-1) with
// d = N()/sub.N(). Requires the clean tower relation rad(m) | sub.m.
func (r *Ring) PowerBasisVectors(sub *Ring) ([]Poly, error) {

	if err := r.checkCleanTower(sub.m); err != nil {
		return nil, fmt.Errorf("cannot PowerBasisVectors: %w", err)
	}

	d := r.n / sub.n
	basis := make([]Poly, d)
	for i := range basis {
		basis[i] = r.NewMonomial(uint64(i))
	}
	return basis, nil
}

// RelativeCoeffs decomposes a over the relative power basis of the receiver
// over the subring of index sub.m: it returns the unique subring elements
// c_0..c_(d-1) with a = sum_i x^i * Embed(c_i). Requires the clean tower
// relation rad(m) | sub.m and matching moduli.
func (r *Ring) RelativeCoeffs(a Poly, sub *Ring) ([]Poly, error) {

	if r.q != sub.q {
		return nil, fmt.Errorf("cannot RelativeCoeffs: %w: %d != %d", ErrMismatchedModulus, sub.q, r.q)
	}
	if err := r.checkCleanTower(sub.m); err != nil {
		return nil, fmt.Errorf("cannot RelativeCoeffs: %w", err)
	}
	r.checkPoly(a)

	d := r.n / sub.n
	out := make([]Poly, d)
	for i := range out {
		out[i] = sub.NewPoly()
	}

	// In a clean tower x^(d*j) = Embed(zeta_sub^j), so the power-basis
	// coordinate at degree i + d*j is the j-th subring coordinate of c_i.
	for e, c := range a.Coeffs {
		out[e%d].Coeffs[e/d] = c
	}

	return out, nil
}

// checkCleanTower verifies subM | m and that every prime factor of m divides
// subM, the condition under which the receiver is free over the subring with
// monomial basis x^0..x^(d-1), d = m/subM.
func (r *Ring) checkCleanTower(subM uint64) error {
	if r.m%subM != 0 {
		return fmt.Errorf("%w: %d does not divide %d", ErrIncompatibleIndices, subM, r.m)
	}
	if subM%factorization.Radical(r.m) != 0 {
		return fmt.Errorf("%w: index %d does not contain the radical of %d", ErrIncompatibleIndices, subM, r.m)
	}
	return nil
}
