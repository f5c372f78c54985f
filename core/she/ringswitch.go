package she

import (
	"fmt"

	"github.com/cyclolab/cyclone/ring"
	"github.com/cyclolab/cyclone/utils"
)

// AbsorbGFactorsNew folds a ciphertext's pending g factors into its
// coefficients: it multiplies every coefficient by a mod-q representative of
// g^-k over the plaintext modulus and resets the g-exponent to zero. This
// increases the noise but leaves the encrypted message unchanged, in either
// encoding. It is a no-op (up to copy) when the exponent already is zero.
func (eval *Evaluator) AbsorbGFactorsNew(ct *Ciphertext) (*Ciphertext, error) {

	if ct.K == 0 {
		return ct.CopyNew(), nil
	}
	if ct.K < 0 {
		// Sanity check: no operation produces a negative g-exponent.
		panic(fmt.Errorf("ciphertext has negative g-exponent %d", ct.K))
	}

	rpBig, rq := eval.params.RingPBig(), eval.params.RingQ()

	gInv, err := rpBig.GInverse()
	if err != nil {
		return nil, fmt.Errorf("cannot AbsorbGFactorsNew: %w", err)
	}
	rep := gInv
	for k := 1; k < ct.K; k++ {
		rep = rpBig.Mul(rep, gInv)
	}
	lifted, err := rq.LiftFrom(rpBig, rep)
	if err != nil {
		return nil, fmt.Errorf("cannot AbsorbGFactorsNew: %w", err)
	}

	out := ct.CopyNew()
	for i := range out.Value {
		out.Value[i] = rq.Mul(out.Value[i], lifted)
	}
	out.K = 0
	return out, nil
}

// EmbedCTNew lifts a round (g-exponent zero) ciphertext into the larger
// ciphertext ring of the target parameters, along the index-divisibility
// relation. The result decrypts under the embedding of the original secret
// key into the target index.
func (eval *Evaluator) EmbedCTNew(ct *Ciphertext, to Parameters) (*Ciphertext, error) {

	params := eval.params

	if ct.K != 0 {
		return nil, fmt.Errorf("cannot EmbedCTNew: %w: g-exponent is %d", ErrNonZeroGExponent, ct.K)
	}
	if to.P() != params.P() || to.Q() != params.Q() ||
		to.CiphertextIndex()%params.CiphertextIndex() != 0 ||
		to.PlaintextIndex()%params.PlaintextIndex() != 0 {
		return nil, fmt.Errorf("cannot EmbedCTNew: %w: target parameters are not an extension of the source", ErrParameterMismatch)
	}

	rq, rqTo := params.RingQ(), to.RingQ()

	value := make([]ring.Poly, len(ct.Value))
	var err error
	for i := range value {
		if value[i], err = rqTo.Embed(ct.Value[i], rq); err != nil {
			return nil, fmt.Errorf("cannot EmbedCTNew: %w", err)
		}
	}

	return &Ciphertext{Encoding: ct.Encoding, K: 0, L: ct.L, Value: value}, nil
}

// TwaceCTNew projects a round (g-exponent zero) ciphertext down to the
// smaller ciphertext ring of the target parameters with the trace map. The
// target plaintext index must be the gcd of the target ciphertext index and
// the source plaintext index, so the trace acts as the identity on the part
// of the message the smaller ring can carry.
func (eval *Evaluator) TwaceCTNew(ct *Ciphertext, to Parameters) (*Ciphertext, error) {

	params := eval.params

	if ct.K != 0 {
		return nil, fmt.Errorf("cannot TwaceCTNew: %w: g-exponent is %d", ErrNonZeroGExponent, ct.K)
	}
	if to.P() != params.P() || to.Q() != params.Q() ||
		params.CiphertextIndex()%to.CiphertextIndex() != 0 ||
		to.PlaintextIndex() != utils.Gcd(to.CiphertextIndex(), params.PlaintextIndex()) {
		return nil, fmt.Errorf("cannot TwaceCTNew: %w: target indices do not match the trace relation", ErrParameterMismatch)
	}

	rq, rqTo := params.RingQ(), to.RingQ()

	value := make([]ring.Poly, len(ct.Value))
	var err error
	for i := range value {
		if value[i], err = rq.Twace(ct.Value[i], rqTo); err != nil {
			return nil, fmt.Errorf("cannot TwaceCTNew: %w", err)
		}
	}

	return &Ciphertext{Encoding: ct.Encoding, K: 0, L: ct.L, Value: value}, nil
}
