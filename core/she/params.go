package she

import (
	"fmt"

	"github.com/cyclolab/cyclone/ring"
	"github.com/cyclolab/cyclone/utils/bignum"
	"github.com/cyclolab/cyclone/utils/factorization"
)

const (
	// DefaultSecretVariance is the scaled variance of freshly drawn secret
	// keys when the literal leaves it unset.
	DefaultSecretVariance = 1.0

	// DefaultErrorVariance is the scaled variance of encryption and hint
	// errors when the literal leaves it unset (standard deviation 3.2).
	DefaultErrorVariance = 10.24

	// DefaultGadgetBase is the key-switch decomposition base when the
	// literal leaves it unset.
	DefaultGadgetBase = 256
)

// ParametersLiteral is a literal representation of SHE parameters. It is
// checked for validity by NewParametersFromLiteral, which turns it into the
// precomputed Parameters used by all operations.
type ParametersLiteral struct {
	PlaintextIndex    uint64  `json:"plaintext_index"`    // cyclotomic index m of the plaintext ring
	CiphertextIndex   uint64  `json:"ciphertext_index"`   // cyclotomic index m' of the ciphertext ring, m | m'
	PlaintextModulus  uint64  `json:"plaintext_modulus"`  // p
	CiphertextModulus uint64  `json:"ciphertext_modulus"` // q, coprime to p
	KeySwitchModulus  uint64  `json:"key_switch_modulus"` // q' >= q used by switching hints; defaults to q << 20
	SecretVariance    float64 `json:"secret_variance"`
	ErrorVariance     float64 `json:"error_variance"`
	GadgetBase        uint64  `json:"gadget_base"`
}

// Parameters holds the validated, precomputed parameter set of an SHE
// instance. Parameters are immutable and safe for concurrent use.
type Parameters struct {
	lit ParametersLiteral

	rp    *ring.Ring // index m,  modulus p: the plaintext ring
	rpBig *ring.Ring // index m', modulus p: plaintext arithmetic inside the ciphertext index
	rq    *ring.Ring // index m', modulus q: the ciphertext ring
	rqks  *ring.Ring // index m', modulus q': the key-switch ring

	gadget *ring.Gadget // over rqks

	// LSD <-> MSD rescale constant pairs, derived once from (p, q).
	zqScaleMSD uint64 // multiplies coefficients on LSD -> MSD: p^-1 mod q
	zpScaleMSD uint64 // multiplies the scale factor on LSD -> MSD
	zqScaleLSD uint64 // multiplies coefficients on MSD -> LSD: p mod q
	zpScaleLSD uint64 // multiplies the scale factor on MSD -> LSD

	noiseBudget float64 // log2(q / 2p)
}

// NewParametersFromLiteral instantiates Parameters from a literal, applying
// defaults and validating every index and modulus relation.
func NewParametersFromLiteral(lit ParametersLiteral) (Parameters, error) {

	if lit.KeySwitchModulus == 0 {
		if lit.CiphertextModulus <= ring.MaxModulus>>20 {
			lit.KeySwitchModulus = lit.CiphertextModulus << 20
		} else {
			lit.KeySwitchModulus = lit.CiphertextModulus
		}
	}
	if lit.SecretVariance == 0 {
		lit.SecretVariance = DefaultSecretVariance
	}
	if lit.ErrorVariance == 0 {
		lit.ErrorVariance = DefaultErrorVariance
	}
	if lit.GadgetBase == 0 {
		lit.GadgetBase = DefaultGadgetBase
	}

	m, mBig := lit.PlaintextIndex, lit.CiphertextIndex
	p, q, qks := lit.PlaintextModulus, lit.CiphertextModulus, lit.KeySwitchModulus

	if m == 0 || mBig%m != 0 {
		return Parameters{}, fmt.Errorf("cannot NewParametersFromLiteral: %w: plaintext index %d must divide ciphertext index %d", ErrParameterMismatch, m, mBig)
	}
	// Decryption traces the ciphertext index down to the plaintext index,
	// which requires a clean tower.
	if m%factorization.Radical(mBig) != 0 {
		return Parameters{}, fmt.Errorf("cannot NewParametersFromLiteral: %w: index %d does not contain the radical of %d", ErrParameterMismatch, m, mBig)
	}
	if p < 2 {
		return Parameters{}, fmt.Errorf("cannot NewParametersFromLiteral: %w: plaintext modulus must be >= 2 but is %d", ErrParameterMismatch, p)
	}
	if q <= 2*p {
		return Parameters{}, fmt.Errorf("cannot NewParametersFromLiteral: %w: ciphertext modulus %d leaves no noise budget over plaintext modulus %d", ErrParameterMismatch, q, p)
	}
	if qks < q {
		return Parameters{}, fmt.Errorf("cannot NewParametersFromLiteral: %w: key-switch modulus %d is smaller than ciphertext modulus %d", ErrParameterMismatch, qks, q)
	}

	params := Parameters{lit: lit}

	var err error
	if params.rp, err = ring.NewRing(m, p); err != nil {
		return Parameters{}, fmt.Errorf("cannot NewParametersFromLiteral: %w", err)
	}
	if params.rpBig, err = ring.NewRing(mBig, p); err != nil {
		return Parameters{}, fmt.Errorf("cannot NewParametersFromLiteral: %w", err)
	}
	if params.rq, err = ring.NewRing(mBig, q); err != nil {
		return Parameters{}, fmt.Errorf("cannot NewParametersFromLiteral: %w", err)
	}
	if params.rqks, err = ring.NewRing(mBig, qks); err != nil {
		return Parameters{}, fmt.Errorf("cannot NewParametersFromLiteral: %w", err)
	}
	if params.gadget, err = ring.NewGadget(params.rqks, lit.GadgetBase); err != nil {
		return Parameters{}, fmt.Errorf("cannot NewParametersFromLiteral: %w", err)
	}

	// The encoding converter constants: LSD -> MSD multiplies coefficients by
	// p^-1 mod q and compensates the scale factor by the mod-p residue of
	// that constant, which must be a unit.
	if params.zqScaleMSD, err = ring.InvMod(p%q, q); err != nil {
		return Parameters{}, fmt.Errorf("cannot NewParametersFromLiteral: %w: plaintext modulus %d is not a unit mod %d", ErrParameterMismatch, p, q)
	}
	params.zpScaleMSD = params.zqScaleMSD % p
	if params.zpScaleLSD, err = ring.InvMod(params.zpScaleMSD, p); err != nil {
		return Parameters{}, fmt.Errorf("cannot NewParametersFromLiteral: %w: encoding scale %d is not a unit mod %d", ErrParameterMismatch, params.zpScaleMSD, p)
	}
	params.zqScaleLSD = p % q

	// Decryption divides by the tower degree when tracing down to the
	// plaintext ring, so it must be a unit mod p.
	d := uint64(params.rpBig.N() / params.rp.N())
	if _, err = ring.InvMod(d%p, p); err != nil {
		return Parameters{}, fmt.Errorf("cannot NewParametersFromLiteral: %w: tower degree %d is not a unit mod %d", ErrParameterMismatch, d, p)
	}

	budget := bignum.NewFloat(q, 128)
	budget.Quo(budget, bignum.NewFloat(2*p, 128))
	params.noiseBudget, _ = bignum.Log2(budget).Float64()

	return params, nil
}

// GetLiteral returns the literal this parameter set was built from, with
// defaults applied.
func (p Parameters) GetLiteral() ParametersLiteral { return p.lit }

// PlaintextIndex returns the cyclotomic index m of the plaintext ring.
func (p Parameters) PlaintextIndex() uint64 { return p.lit.PlaintextIndex }

// CiphertextIndex returns the cyclotomic index m' of the ciphertext ring.
func (p Parameters) CiphertextIndex() uint64 { return p.lit.CiphertextIndex }

// P returns the plaintext modulus.
func (p Parameters) P() uint64 { return p.lit.PlaintextModulus }

// Q returns the ciphertext modulus.
func (p Parameters) Q() uint64 { return p.lit.CiphertextModulus }

// QKS returns the key-switch modulus.
func (p Parameters) QKS() uint64 { return p.lit.KeySwitchModulus }

// RingP returns the plaintext ring of index m mod p.
func (p Parameters) RingP() *ring.Ring { return p.rp }

// RingPBig returns the mod-p ring at the ciphertext index m'.
func (p Parameters) RingPBig() *ring.Ring { return p.rpBig }

// RingQ returns the ciphertext ring of index m' mod q.
func (p Parameters) RingQ() *ring.Ring { return p.rq }

// RingQKS returns the key-switch ring of index m' mod q'.
func (p Parameters) RingQKS() *ring.Ring { return p.rqks }

// Gadget returns the key-switch decomposition gadget over RingQKS.
func (p Parameters) Gadget() *ring.Gadget { return p.gadget }

// SecretVariance returns the scaled variance of secret-key coefficients.
func (p Parameters) SecretVariance() float64 { return p.lit.SecretVariance }

// ErrorVariance returns the scaled variance of encryption and hint errors.
func (p Parameters) ErrorVariance() float64 { return p.lit.ErrorVariance }

// NoiseBudget returns log2(q/2p), the log-magnitude ceiling the error term
// must stay under for decryption to be correct.
func (p Parameters) NoiseBudget() float64 { return p.noiseBudget }

// WithCiphertextModulus derives a parameter set with ciphertext modulus q2,
// revalidating every relation. Used after modulus switching.
func (p Parameters) WithCiphertextModulus(q2 uint64) (Parameters, error) {
	lit := p.lit
	lit.CiphertextModulus = q2
	lit.KeySwitchModulus = 0
	return NewParametersFromLiteral(lit)
}

// WithPlaintextModulus derives a parameter set with plaintext modulus p2,
// revalidating every relation. Used after plaintext modulus switching.
func (p Parameters) WithPlaintextModulus(p2 uint64) (Parameters, error) {
	lit := p.lit
	lit.PlaintextModulus = p2
	return NewParametersFromLiteral(lit)
}

// CiphertextRingAt constructs the ciphertext ring of this parameter set at a
// different modulus, for use as a modulus-switch target.
func (p Parameters) CiphertextRingAt(q2 uint64) (*ring.Ring, error) {
	return ring.NewRing(p.lit.CiphertextIndex, q2)
}
