package she

import (
	"fmt"
	"math"

	"github.com/zeebo/blake3"

	"github.com/cyclolab/cyclone/ring"
	"github.com/cyclolab/cyclone/utils/sampling"
)

// SecretKey is a ring element drawn from a rounded Gaussian distribution of
// the recorded scaled variance. Value keeps the exact integer power-basis
// coefficients so the same key can be reduced into any ciphertext or
// key-switch modulus. A SecretKey is immutable after creation.
type SecretKey struct {
	Index    uint64 // cyclotomic index of the ring the key lives in
	Value    []int64
	Variance float64
}

// EmbedNew lifts the secret key into the ring of index toIndex along the
// divisibility relation Index | toIndex, as required to decrypt embedded
// ciphertexts.
func (sk *SecretKey) EmbedNew(toIndex uint64) (*SecretKey, error) {
	coeffs, err := ring.EmbedInt(sk.Index, toIndex, sk.Value)
	if err != nil {
		return nil, fmt.Errorf("cannot EmbedNew: %w", err)
	}
	return &SecretKey{Index: toIndex, Value: coeffs, Variance: sk.Variance}, nil
}

// KeyGenerator generates secret keys and key-switching hints for a parameter
// set. A KeyGenerator draws from a single PRNG and must not be shared across
// goroutines.
type KeyGenerator struct {
	params     Parameters
	prng       sampling.PRNG
	errQKS     *ring.GaussianSampler
	uniformQKS *ring.UniformSampler
}

// NewKeyGenerator creates a KeyGenerator drawing from the system entropy
// pool.
func NewKeyGenerator(params Parameters) *KeyGenerator {
	prng, err := sampling.NewPRNG()
	if err != nil {
		// Sanity check, this error should not happen.
		panic(err)
	}
	return newKeyGenerator(params, prng)
}

// NewSeededKeyGenerator creates a deterministic KeyGenerator whose PRNG key
// is derived from seed with blake3. Two generators built from the same seed
// and parameters produce identical keys and hints.
func NewSeededKeyGenerator(params Parameters, seed []byte) *KeyGenerator {
	prng, err := sampling.NewKeyedPRNG(prngKeyFromSeed(seed))
	if err != nil {
		// Sanity check, this error should not happen.
		panic(err)
	}
	return newKeyGenerator(params, prng)
}

func newKeyGenerator(params Parameters, prng sampling.PRNG) *KeyGenerator {
	return &KeyGenerator{
		params:     params,
		prng:       prng,
		errQKS:     ring.NewGaussianSampler(prng, params.RingQKS(), ring.DiscreteGaussian{Sigma: math.Sqrt(params.ErrorVariance())}),
		uniformQKS: ring.NewUniformSampler(prng, params.RingQKS()),
	}
}

// GenSecretKeyNew draws a fresh secret key with the parameter set's secret
// variance.
func (kg *KeyGenerator) GenSecretKeyNew() *SecretKey {
	return kg.GenSecretKeyWithVarianceNew(kg.params.SecretVariance())
}

// GenSecretKeyWithVarianceNew draws a fresh secret key from a rounded
// Gaussian distribution of the given scaled variance.
func (kg *KeyGenerator) GenSecretKeyWithVarianceNew(variance float64) *SecretKey {
	sampler := ring.NewGaussianSampler(kg.prng, kg.params.RingQ(), ring.DiscreteGaussian{Sigma: math.Sqrt(variance)})
	return &SecretKey{
		Index:    kg.params.CiphertextIndex(),
		Value:    sampler.ReadIntNew(),
		Variance: variance,
	}
}

const prngKeySize = 32

// prngKeyFromSeed expands a user seed into a PRNG key.
func prngKeyFromSeed(seed []byte) []byte {
	h := blake3.New()
	h.Write(seed)
	sum := h.Sum(nil)
	return sum[:prngKeySize]
}
