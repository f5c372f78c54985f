package she

import (
	"fmt"

	"github.com/cyclolab/cyclone/ring"
)

// Decryptor decrypts ciphertexts and measures their error terms. It stores
// the secret key; it never mutates it and is safe for concurrent use.
type Decryptor struct {
	params Parameters
	sk     *SecretKey
	skQ    ring.Poly
}

// NewDecryptor instantiates a Decryptor for the given secret key.
func NewDecryptor(params Parameters, sk *SecretKey) (*Decryptor, error) {
	if sk.Index != params.CiphertextIndex() || len(sk.Value) != params.RingQ().N() {
		return nil, fmt.Errorf("cannot NewDecryptor: %w: secret key ring does not match parameters", ErrParameterMismatch)
	}
	return &Decryptor{
		params: params,
		sk:     sk,
		skQ:    params.RingQ().FromInt64(sk.Value),
	}, nil
}

// DecryptNew decrypts a ciphertext and returns the plaintext ring element.
// It converts to LSD, evaluates the ciphertext polynomial at the secret,
// lifts the result to the plaintext modulus, divides out the pending g
// factors, traces down to the plaintext ring, and applies the scale factor.
//
// ExactDivideByG failing here signals either a corrupted ciphertext or a key
// mismatch; the error is propagated.
func (d *Decryptor) DecryptNew(ct *Ciphertext) (ring.Poly, error) {

	rp, rpBig, rq := d.params.RingP(), d.params.RingPBig(), d.params.RingQ()

	if ct.K < 0 {
		// Sanity check: no operation produces a negative g-exponent.
		panic(fmt.Errorf("ciphertext has negative g-exponent %d", ct.K))
	}

	lsd := toLSD(d.params, ct)

	ev := rq.EvaluateAt(lsd.Value, d.skQ)
	pe, err := rpBig.LiftFrom(rq, ev)
	if err != nil {
		return ring.Poly{}, fmt.Errorf("cannot DecryptNew: %w", err)
	}

	for k := 0; k < lsd.K; k++ {
		if pe, err = rpBig.ExactDivideByG(pe); err != nil {
			return ring.Poly{}, fmt.Errorf("cannot DecryptNew: %w", err)
		}
	}

	tw, err := rpBig.Twace(pe, rp)
	if err != nil {
		return ring.Poly{}, fmt.Errorf("cannot DecryptNew: %w", err)
	}

	return rp.MulScalar(tw, lsd.L), nil
}

// ErrorTerm returns the error term of a ciphertext over the ciphertext ring:
// the LSD evaluation at the secret with the pending g factors divided out.
// It is a pure function of (SecretKey, Ciphertext), used by correctness
// tooling to measure noise magnitude; no operation of this core consumes it.
func (d *Decryptor) ErrorTerm(ct *Ciphertext) (ring.Poly, error) {

	rq := d.params.RingQ()
	lsd := toLSD(d.params, ct)

	ev := rq.EvaluateAt(lsd.Value, d.skQ)

	var err error
	for k := 0; k < lsd.K; k++ {
		if ev, err = rq.ExactDivideByG(ev); err != nil {
			return ring.Poly{}, fmt.Errorf("cannot ErrorTerm: %w", err)
		}
	}

	return ev, nil
}

// ErrorTermUnrestricted evaluates the ciphertext polynomial at the secret
// as-is, without encoding conversion or g division.
func (d *Decryptor) ErrorTermUnrestricted(ct *Ciphertext) ring.Poly {
	return d.params.RingQ().EvaluateAt(ct.Value, d.skQ)
}
