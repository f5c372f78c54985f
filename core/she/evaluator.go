package she

import (
	"fmt"

	"github.com/cyclolab/cyclone/ring"
	"github.com/cyclolab/cyclone/utils"
)

// Evaluator performs homomorphic arithmetic on ciphertexts of one parameter
// set. It holds no key material and is safe for concurrent use.
type Evaluator struct {
	params Parameters
}

// NewEvaluator instantiates an Evaluator for the given parameters.
func NewEvaluator(params Parameters) *Evaluator {
	return &Evaluator{params: params}
}

// GetParameters returns the parameter set the Evaluator is bound to.
func (eval *Evaluator) GetParameters() Parameters {
	return eval.params
}

// NegateNew returns the homomorphic negation of ct: every coefficient is
// negated; encoding, g-exponent and scale are unchanged.
func (eval *Evaluator) NegateNew(ct *Ciphertext) *Ciphertext {
	rq := eval.params.RingQ()
	out := ct.CopyNew()
	for i := range out.Value {
		out.Value[i] = rq.Neg(out.Value[i])
	}
	return out
}

// MulByGNew multiplies every coefficient by the distinguished element g and
// increments the g-exponent. The encrypted message is unchanged.
func (eval *Evaluator) MulByGNew(ct *Ciphertext) *Ciphertext {
	rq := eval.params.RingQ()
	out := ct.CopyNew()
	for i := range out.Value {
		out.Value[i] = rq.MulByG(out.Value[i])
	}
	out.K++
	return out
}

// matchGExponents raises the lower-g-exponent operand by repeated
// multiplication by g until both exponents agree. This never changes the
// encrypted messages and must run before any other combination logic.
func (eval *Evaluator) matchGExponents(ct0, ct1 *Ciphertext) (*Ciphertext, *Ciphertext) {
	for ct0.K < ct1.K {
		ct0 = eval.MulByGNew(ct0)
	}
	for ct1.K < ct0.K {
		ct1 = eval.MulByGNew(ct1)
	}
	return ct0, ct1
}

// AddNew returns the homomorphic sum of ct0 and ct1. Mismatched g-exponents
// are aligned first; if the operands disagree on encoding, the LSD one is
// converted to MSD. Adding ciphertexts whose scale factors differ is
// undefined and returns ErrScaleMismatch.
func (eval *Evaluator) AddNew(ct0, ct1 *Ciphertext) (*Ciphertext, error) {

	rq := eval.params.RingQ()

	ct0, ct1 = eval.matchGExponents(ct0, ct1)

	if ct0.Encoding != ct1.Encoding {
		if ct0.Encoding == LSD {
			ct0 = toMSD(eval.params, ct0)
		} else {
			ct1 = toMSD(eval.params, ct1)
		}
	}

	if ct0.L != ct1.L {
		return nil, fmt.Errorf("cannot AddNew: %w: %d != %d", ErrScaleMismatch, ct0.L, ct1.L)
	}

	value := make([]ring.Poly, utils.Max(len(ct0.Value), len(ct1.Value)))
	for i := range value {
		switch {
		case i >= len(ct0.Value):
			value[i] = ct1.Value[i].CopyNew()
		case i >= len(ct1.Value):
			value[i] = ct0.Value[i].CopyNew()
		default:
			value[i] = rq.Add(ct0.Value[i], ct1.Value[i])
		}
	}

	return &Ciphertext{Encoding: ct0.Encoding, K: ct0.K, L: ct0.L, Value: value}, nil
}

// SubNew returns the homomorphic difference ct0 - ct1.
func (eval *Evaluator) SubNew(ct0, ct1 *Ciphertext) (*Ciphertext, error) {
	return eval.AddNew(ct0, eval.NegateNew(ct1))
}

// MulNew returns the homomorphic product of ct0 and ct1. Multiplication
// requires at least one operand in LSD; when both are MSD, ct1 (and only
// ct1) is converted to LSD, so there is no commuted retry. The result
// coefficients are the polynomial convolution of the operands with every
// term additionally multiplied by g; the g-exponents add plus one, the
// scale factors multiply, and the result carries the non-LSD operand's
// encoding.
//
// Multiplying two linear ciphertexts yields a degree-2 result that must be
// relinearized with a QuadCircKeySwitcher before any further multiplication.
func (eval *Evaluator) MulNew(ct0, ct1 *Ciphertext) (*Ciphertext, error) {

	rq := eval.params.RingQ()

	if ct0.Degree()+ct1.Degree() > 2 {
		return nil, fmt.Errorf("cannot MulNew: %w: total degree %d > 2", ErrDegreeTooLarge, ct0.Degree()+ct1.Degree())
	}

	encoding := MSD
	switch {
	case ct0.Encoding == LSD:
		encoding = ct1.Encoding
	case ct1.Encoding == LSD:
		encoding = ct0.Encoding
	default:
		ct1 = toLSD(eval.params, ct1)
	}

	value := make([]ring.Poly, ct0.Degree()+ct1.Degree()+1)
	for i := range value {
		value[i] = rq.NewPoly()
	}
	for i := range ct0.Value {
		for j := range ct1.Value {
			value[i+j] = rq.Add(value[i+j], rq.Mul(ct0.Value[i], ct1.Value[j]))
		}
	}
	for i := range value {
		value[i] = rq.MulByG(value[i])
	}

	return &Ciphertext{
		Encoding: encoding,
		K:        ct0.K + ct1.K + 1,
		L:        ring.MulMod(ct0.L, ct1.L, eval.params.P()),
		Value:    value,
	}, nil
}

// AddScalarNew homomorphically adds a public scalar in Z_p to the encrypted
// message.
func (eval *Evaluator) AddScalarNew(scalar uint64, ct *Ciphertext) (*Ciphertext, error) {
	return eval.AddPublicNew(eval.params.RingP().NewConstant(scalar), ct)
}

// AddPublicNew homomorphically adds a public plaintext ring element to the
// encrypted message, by embedding it at the ciphertext's g-power and scale
// and adding it to the constant coefficient of the LSD form.
func (eval *Evaluator) AddPublicNew(pt ring.Poly, ct *Ciphertext) (*Ciphertext, error) {

	params := eval.params
	rp, rpBig, rq := params.RingP(), params.RingPBig(), params.RingQ()

	out := toLSD(params, ct)

	lInv, err := ring.InvMod(out.L, params.P())
	if err != nil {
		return nil, fmt.Errorf("cannot AddPublicNew: scale factor %d: %w", out.L, err)
	}

	embedded, err := rpBig.Embed(rp.MulScalar(pt, lInv), rp)
	if err != nil {
		return nil, fmt.Errorf("cannot AddPublicNew: %w", err)
	}
	lifted, err := rq.LiftFrom(rpBig, embedded)
	if err != nil {
		return nil, fmt.Errorf("cannot AddPublicNew: %w", err)
	}
	for k := 0; k < out.K; k++ {
		lifted = rq.MulByG(lifted)
	}

	out.Value[0] = rq.Add(out.Value[0], lifted)
	return out, nil
}

// MulPublicNew homomorphically multiplies the encrypted message by a public
// plaintext ring element. Multiplication distributes over the encoding, the
// g-power and the scale, so every coefficient is multiplied by the embedded
// value with no further adjustment, in any encoding.
func (eval *Evaluator) MulPublicNew(pt ring.Poly, ct *Ciphertext) (*Ciphertext, error) {

	params := eval.params
	rp, rpBig, rq := params.RingP(), params.RingPBig(), params.RingQ()

	embedded, err := rpBig.Embed(pt, rp)
	if err != nil {
		return nil, fmt.Errorf("cannot MulPublicNew: %w", err)
	}
	lifted, err := rq.LiftFrom(rpBig, embedded)
	if err != nil {
		return nil, fmt.Errorf("cannot MulPublicNew: %w", err)
	}

	out := ct.CopyNew()
	for i := range out.Value {
		out.Value[i] = rq.Mul(out.Value[i], lifted)
	}
	return out, nil
}
