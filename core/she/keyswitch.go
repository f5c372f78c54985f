package she

import (
	"fmt"

	"github.com/google/go-cmp/cmp"

	"github.com/cyclolab/cyclone/ring"
)

// SwitchingHint lets an evaluator re-encrypt, under the hint's output key,
// any multiple of the hinted value that shows up during evaluation. It is one
// gadget sample per decomposition digit, over the key-switch ring: row i is
// the pair (B^i*value + p*e - c1*sOut, c1) with c1 uniform.
//
// A hint reveals nothing about value beyond what a fresh encryption would.
type SwitchingHint struct {
	Value [][2]ring.Poly
}

// Equal performs a deep equal.
func (h *SwitchingHint) Equal(other *SwitchingHint) bool {
	return cmp.Equal(h.Value, other.Value)
}

// GenSwitchingHintNew generates a switching hint for the given value (an
// element of the key-switch ring) under the output secret key.
func (kg *KeyGenerator) GenSwitchingHintNew(value ring.Poly, skOut *SecretKey) (*SwitchingHint, error) {

	params := kg.params
	rqks := params.RingQKS()

	if skOut.Index != params.CiphertextIndex() || len(skOut.Value) != rqks.N() {
		return nil, fmt.Errorf("cannot GenSwitchingHintNew: %w: output key ring does not match parameters", ErrParameterMismatch)
	}

	skQKS := rqks.FromInt64(skOut.Value)
	p := params.P()

	hint := &SwitchingHint{Value: make([][2]ring.Poly, params.Gadget().Digits())}
	for i, bi := range params.Gadget().Vector() {
		c1 := kg.uniformQKS.ReadNew()
		c0 := rqks.Sub(kg.errQKS.ReadCosetNew(rqks.MulScalar(value, bi), p), rqks.Mul(c1, skQKS))
		hint.Value[i] = [2]ring.Poly{c0, c1}
	}

	return hint, nil
}

// GenLinearSwitchingHintNew generates the hint switching ciphertexts from
// skIn to skOut.
func (kg *KeyGenerator) GenLinearSwitchingHintNew(skIn, skOut *SecretKey) (*SwitchingHint, error) {
	rqks := kg.params.RingQKS()
	if skIn.Index != kg.params.CiphertextIndex() || len(skIn.Value) != rqks.N() {
		return nil, fmt.Errorf("cannot GenLinearSwitchingHintNew: %w: input key ring does not match parameters", ErrParameterMismatch)
	}
	return kg.GenSwitchingHintNew(rqks.FromInt64(skIn.Value), skOut)
}

// GenQuadCircSwitchingHintNew generates the circular hint for the square of
// the key, used to relinearize degree-2 ciphertexts back under sk itself.
func (kg *KeyGenerator) GenQuadCircSwitchingHintNew(sk *SecretKey) (*SwitchingHint, error) {
	rqks := kg.params.RingQKS()
	if sk.Index != kg.params.CiphertextIndex() || len(sk.Value) != rqks.N() {
		return nil, fmt.Errorf("cannot GenQuadCircSwitchingHintNew: %w: key ring does not match parameters", ErrParameterMismatch)
	}
	skQKS := rqks.FromInt64(sk.Value)
	return kg.GenSwitchingHintNew(rqks.Mul(skQKS, skQKS), sk)
}

// applySwitch decomposes c over the gadget and recombines the hint rows with
// the resulting digits, yielding a key-switch-ring pair (d0, d1) with
// d0 + d1*sOut = c*value + p*(small).
func applySwitch(params Parameters, hint *SwitchingHint, c ring.Poly) (d0, d1 ring.Poly) {

	rqks := params.RingQKS()
	digits := params.Gadget().Decompose(c)

	if len(digits) != len(hint.Value) {
		// Sanity check: hints are always generated from the same gadget.
		panic(fmt.Errorf("hint has %d rows for %d digits", len(hint.Value), len(digits)))
	}

	d0, d1 = rqks.NewPoly(), rqks.NewPoly()
	for i := range digits {
		d0 = rqks.Add(d0, rqks.Mul(digits[i], hint.Value[i][0]))
		d1 = rqks.Add(d1, rqks.Mul(digits[i], hint.Value[i][1]))
	}
	return
}

// switchTerm re-encrypts c*value under the hint's output key at the
// ciphertext modulus: it rescales c up into the key-switch ring, applies the
// hint, and rescales the resulting pair back down. Rounding on the way down
// is absorbed by the MSD encoding, so callers convert first; the constant
// term rounds in the decoding basis, the linear term in the power basis.
func switchTerm(params Parameters, hint *SwitchingHint, c ring.Poly) (d0, d1 ring.Poly, err error) {

	rq, rqks := params.RingQ(), params.RingQKS()

	up, err := rq.RescalePowerBasis(c, rqks)
	if err != nil {
		return ring.Poly{}, ring.Poly{}, err
	}

	e0, e1 := applySwitch(params, hint, up)

	if d0, err = rqks.RescaleDecodingBasis(e0, rq); err != nil {
		return ring.Poly{}, ring.Poly{}, err
	}
	if d1, err = rqks.RescalePowerBasis(e1, rq); err != nil {
		return ring.Poly{}, ring.Poly{}, err
	}
	return
}

// LinearKeySwitcher switches linear ciphertexts from the hint's input key to
// its output key. It is safe for concurrent use.
type LinearKeySwitcher struct {
	params Parameters
	hint   *SwitchingHint
}

// NewLinearKeySwitcher wraps a hint generated by GenLinearSwitchingHintNew.
func NewLinearKeySwitcher(params Parameters, hint *SwitchingHint) *LinearKeySwitcher {
	return &LinearKeySwitcher{params: params, hint: hint}
}

// SwitchNew re-encrypts a linear ciphertext under the output key. The result
// is MSD with the same g-exponent and scale factor.
func (ks *LinearKeySwitcher) SwitchNew(ct *Ciphertext) (*Ciphertext, error) {

	if ct.Degree() != 1 {
		return nil, fmt.Errorf("cannot SwitchNew: %w: degree %d, want 1", ErrDegreeTooLarge, ct.Degree())
	}

	rq := ks.params.RingQ()
	msd := toMSD(ks.params, ct)

	d0, d1, err := switchTerm(ks.params, ks.hint, msd.Value[1])
	if err != nil {
		return nil, fmt.Errorf("cannot SwitchNew: %w", err)
	}

	return &Ciphertext{
		Encoding: MSD,
		K:        msd.K,
		L:        msd.L,
		Value:    []ring.Poly{rq.Add(msd.Value[0], d0), d1},
	}, nil
}

// QuadCircKeySwitcher relinearizes degree-2 ciphertexts back to linear ones
// under the same key, using a circular hint for the key's square. It is safe
// for concurrent use.
type QuadCircKeySwitcher struct {
	params Parameters
	hint   *SwitchingHint
}

// NewQuadCircKeySwitcher wraps a hint generated by GenQuadCircSwitchingHintNew.
func NewQuadCircKeySwitcher(params Parameters, hint *SwitchingHint) *QuadCircKeySwitcher {
	return &QuadCircKeySwitcher{params: params, hint: hint}
}

// RelinearizeNew folds the quadratic term of a degree-2 ciphertext into the
// linear ones. The result is MSD with the same g-exponent and scale factor.
// Linear ciphertexts pass through untouched apart from the MSD conversion.
func (ks *QuadCircKeySwitcher) RelinearizeNew(ct *Ciphertext) (*Ciphertext, error) {

	if ct.Degree() > 2 {
		return nil, fmt.Errorf("cannot RelinearizeNew: %w: degree %d, want <= 2", ErrDegreeTooLarge, ct.Degree())
	}

	msd := toMSD(ks.params, ct)
	if msd.Degree() < 2 {
		return msd, nil
	}

	rq := ks.params.RingQ()

	d0, d1, err := switchTerm(ks.params, ks.hint, msd.Value[2])
	if err != nil {
		return nil, fmt.Errorf("cannot RelinearizeNew: %w", err)
	}

	return &Ciphertext{
		Encoding: MSD,
		K:        msd.K,
		L:        msd.L,
		Value:    []ring.Poly{rq.Add(msd.Value[0], d0), rq.Add(msd.Value[1], d1)},
	}, nil
}
