package ring

import (
	"fmt"

	"github.com/cyclolab/cyclone/utils/sampling"
)

// Sampler is an interface for random ring-element samplers. A Sampler reads
// from its PRNG on every call; samplers sharing a KeyedPRNG must not be used
// concurrently.
type Sampler interface {
	ReadNew() Poly
}

// DistributionParameters is an interface for the parameters of a coefficient
// distribution. There are two implementations:
//   - DiscreteGaussian for rounded-Gaussian coefficients of given standard
//     deviation and bound;
//   - Uniform for coefficients uniformly distributed mod q.
type DistributionParameters interface {
	// Type returns a string representation of the distribution name.
	Type() string
	mustBeDist()
}

// DiscreteGaussian represents the parameters of a rounded Gaussian
// distribution with standard deviation Sigma and support [-Bound, Bound].
type DiscreteGaussian struct {
	Sigma float64
	Bound float64
}

// Uniform represents the uniform distribution over the ring.
type Uniform struct{}

// Type implements DistributionParameters.
func (d DiscreteGaussian) Type() string { return "DiscreteGaussian" }

func (d DiscreteGaussian) mustBeDist() {}

// Type implements DistributionParameters.
func (d Uniform) Type() string { return "Uniform" }

func (d Uniform) mustBeDist() {}

// NewSampler instantiates a sampler for the distribution X over the given
// ring, reading randomness from prng.
func NewSampler(prng sampling.PRNG, baseRing *Ring, X DistributionParameters) (Sampler, error) {
	switch X := X.(type) {
	case DiscreteGaussian:
		return NewGaussianSampler(prng, baseRing, X), nil
	case Uniform:
		return NewUniformSampler(prng, baseRing), nil
	default:
		return nil, fmt.Errorf("cannot NewSampler: unsupported distribution %T", X)
	}
}
