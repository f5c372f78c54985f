package she

import (
	"fmt"
	"math"

	"github.com/cyclolab/cyclone/ring"
	"github.com/cyclolab/cyclone/utils/sampling"
)

// Encryptor encrypts plaintext ring elements under a secret key. It stores
// the mod-q reduction of the key and its own samplers; it must not be shared
// across goroutines.
type Encryptor struct {
	params  Parameters
	sk      *SecretKey
	skQ     ring.Poly
	err     *ring.GaussianSampler
	uniform *ring.UniformSampler
}

// NewEncryptor instantiates an Encryptor for the given secret key, drawing
// randomness from the system entropy pool.
func NewEncryptor(params Parameters, sk *SecretKey) (*Encryptor, error) {
	prng, err := sampling.NewPRNG()
	if err != nil {
		// Sanity check, this error should not happen.
		panic(err)
	}
	return newEncryptor(params, sk, prng)
}

// NewSeededEncryptor instantiates a deterministic Encryptor whose PRNG key is
// derived from seed with blake3.
func NewSeededEncryptor(params Parameters, sk *SecretKey, seed []byte) (*Encryptor, error) {
	prng, err := sampling.NewKeyedPRNG(prngKeyFromSeed(seed))
	if err != nil {
		// Sanity check, this error should not happen.
		panic(err)
	}
	return newEncryptor(params, sk, prng)
}

func newEncryptor(params Parameters, sk *SecretKey, prng sampling.PRNG) (*Encryptor, error) {

	if sk.Index != params.CiphertextIndex() || len(sk.Value) != params.RingQ().N() {
		return nil, fmt.Errorf("cannot NewEncryptor: %w: secret key ring does not match parameters", ErrParameterMismatch)
	}

	return &Encryptor{
		params:  params,
		sk:      sk,
		skQ:     params.RingQ().FromInt64(sk.Value),
		err:     ring.NewGaussianSampler(prng, params.RingQ(), ring.DiscreteGaussian{Sigma: math.Sqrt(params.ErrorVariance())}),
		uniform: ring.NewUniformSampler(prng, params.RingQ()),
	}, nil
}

// EncryptNew encrypts a plaintext ring element. It embeds the plaintext into
// the ciphertext ring, draws the error from the coset distribution aligned to
// the embedded plaintext and a uniformly random mask c1, and returns the
// 2-coefficient LSD ciphertext (error - c1*s, c1) with K=0 and L=1.
func (enc *Encryptor) EncryptNew(pt ring.Poly) (*Ciphertext, error) {

	rp, rpBig, rq := enc.params.RingP(), enc.params.RingPBig(), enc.params.RingQ()

	embedded, err := rpBig.Embed(pt, rp)
	if err != nil {
		return nil, fmt.Errorf("cannot EncryptNew: %w", err)
	}
	coset, err := rq.LiftFrom(rpBig, embedded)
	if err != nil {
		return nil, fmt.Errorf("cannot EncryptNew: %w", err)
	}

	e := enc.err.ReadCosetNew(coset, enc.params.P())
	c1 := enc.uniform.ReadNew()
	c0 := rq.Sub(e, rq.Mul(c1, enc.skQ))

	return &Ciphertext{Encoding: LSD, K: 0, L: 1, Value: []ring.Poly{c0, c1}}, nil
}
