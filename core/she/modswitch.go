package she

import (
	"fmt"
	"math/big"

	"github.com/cyclolab/cyclone/ring"
)

// RescaleLinearNew switches a linear ciphertext to the given target ring,
// scaling every coefficient by the modulus ratio. The result is MSD, since
// the rounding would corrupt an LSD message; the constant coefficient rounds
// in the decoding basis and the degree-1 coefficient in the power basis. The
// g-exponent and scale factor are unchanged; the caller pairs the result
// with parameters derived by WithCiphertextModulus.
func (eval *Evaluator) RescaleLinearNew(ct *Ciphertext, to *ring.Ring) (*Ciphertext, error) {

	rq := eval.params.RingQ()

	if ct.Degree() > 1 {
		return nil, fmt.Errorf("cannot RescaleLinearNew: %w: degree %d, want <= 1", ErrDegreeTooLarge, ct.Degree())
	}
	if to.CyclotomicIndex() != rq.CyclotomicIndex() {
		return nil, fmt.Errorf("cannot RescaleLinearNew: %w", ring.ErrIncompatibleIndices)
	}

	msd := toMSD(eval.params, ct)

	value := make([]ring.Poly, len(msd.Value))
	var err error
	if value[0], err = rq.RescaleDecodingBasis(msd.Value[0], to); err != nil {
		return nil, fmt.Errorf("cannot RescaleLinearNew: %w", err)
	}
	for i := 1; i < len(msd.Value); i++ {
		if value[i], err = rq.RescalePowerBasis(msd.Value[i], to); err != nil {
			return nil, fmt.Errorf("cannot RescaleLinearNew: %w", err)
		}
	}

	return &Ciphertext{Encoding: MSD, K: msd.K, L: msd.L, Value: value}, nil
}

// ModSwitchPTNew divides the plaintext modulus from p down to p2, for a
// message that is a multiple of p/p2. The divisibility of the message is a
// protocol assumption and is not checked. In MSD the coefficients already
// encrypt the divided message under p2, so only the scale factor is
// rescaled; the caller pairs the result with parameters derived by
// WithPlaintextModulus.
func (eval *Evaluator) ModSwitchPTNew(ct *Ciphertext, p2 uint64) (*Ciphertext, error) {

	p := eval.params.P()

	if p2 < 2 || p%p2 != 0 {
		return nil, fmt.Errorf("cannot ModSwitchPTNew: %w: target modulus %d must divide plaintext modulus %d", ErrParameterMismatch, p2, p)
	}

	out := toMSD(eval.params, ct)
	out.L = rescaleScalar(out.L, p, p2)
	return out, nil
}

// rescaleScalar rounds l*p2/p to the nearest integer on the centered lift,
// then reduces mod p2. The intermediate product can exceed 64 bits for
// moduli near the cap, so it is carried in a big.Int.
func rescaleScalar(l, p, p2 uint64) uint64 {
	bigP := new(big.Int).SetUint64(p)
	bigP2 := new(big.Int).SetUint64(p2)
	num, rem := big.NewInt(ring.CenteredLift(l, p)), new(big.Int)
	num.Mul(num, bigP2)
	num.QuoRem(num, bigP, rem)
	// round half away from zero
	rem.Abs(rem.Lsh(rem, 1))
	if rem.Cmp(bigP) >= 0 {
		if num.Sign() < 0 || (num.Sign() == 0 && l > p>>1) {
			num.Sub(num, big.NewInt(1))
		} else {
			num.Add(num, big.NewInt(1))
		}
	}
	num.Mod(num, bigP2)
	return num.Uint64()
}
