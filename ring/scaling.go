package ring

import (
	"fmt"
	"math/big"
)

// LiftFrom maps an element of a ring with the same index but a different
// modulus into the receiver, by centered lift followed by reduction mod q.
func (r *Ring) LiftFrom(from *Ring, a Poly) (Poly, error) {
	if r.m != from.m {
		return Poly{}, fmt.Errorf("cannot LiftFrom: %w: %d != %d", ErrIncompatibleIndices, from.m, r.m)
	}
	return r.FromInt64(from.CenteredLift(a)), nil
}

// RescalePowerBasis maps a to the ring to of the same index by rounding each
// power-basis coordinate: round(to.q/q * lift(c)) mod to.q.
func (r *Ring) RescalePowerBasis(a Poly, to *Ring) (Poly, error) {
	return r.rescale(a, to)
}

// RescaleDecodingBasis maps a to the ring to of the same index by rounding
// each decoding-basis coordinate. Rounding in the decoding basis keeps a
// message-plus-error value aligned to the rounding grid; rounding in the
// power basis is the right map for uniform masking terms.
func (r *Ring) RescaleDecodingBasis(a Poly, to *Ring) (Poly, error) {
	return r.rescale(a, to)
}

func (r *Ring) rescale(a Poly, to *Ring) (Poly, error) {

	if r.m != to.m {
		return Poly{}, fmt.Errorf("cannot rescale: %w: %d != %d", ErrIncompatibleIndices, to.m, r.m)
	}
	r.checkPoly(a)

	if r.q == to.q {
		return a.CopyNew(), nil
	}

	bigQFrom := new(big.Int).SetUint64(r.q)
	bigQTo := new(big.Int).SetUint64(to.q)

	out := to.NewPoly()
	num, rem := new(big.Int), new(big.Int)
	for i, c := range a.Coeffs {
		num.SetInt64(CenteredLift(c, r.q))
		num.Mul(num, bigQTo)
		num.QuoRem(num, bigQFrom, rem)
		// round half away from zero
		rem.Abs(rem.Lsh(rem, 1))
		if rem.Cmp(bigQFrom) >= 0 {
			if num.Sign() < 0 || (num.Sign() == 0 && a.Coeffs[i] > r.q>>1) {
				num.Sub(num, big.NewInt(1))
			} else {
				num.Add(num, big.NewInt(1))
			}
		}
		num.Mod(num, bigQTo)
		out.Coeffs[i] = num.Uint64()
	}

	return out, nil
}
