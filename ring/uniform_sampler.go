package ring

import (
	"math/bits"

	"github.com/cyclolab/cyclone/utils/sampling"
)

// UniformSampler draws ring elements with coefficients uniform mod q.
type UniformSampler struct {
	prng     sampling.PRNG
	baseRing *Ring
	mask     uint64
}

// NewUniformSampler creates a sampler for uniform coefficients over the
// given ring.
func NewUniformSampler(prng sampling.PRNG, baseRing *Ring) *UniformSampler {
	return &UniformSampler{
		prng:     prng,
		baseRing: baseRing,
		mask:     (1 << bits.Len64(baseRing.q-1)) - 1,
	}
}

// ReadNew samples a fresh uniform ring element by rejection sampling.
func (u *UniformSampler) ReadNew() Poly {
	out := u.baseRing.NewPoly()
	for i := range out.Coeffs {
		for {
			c := sampling.RandUint64(u.prng) & u.mask
			if c < u.baseRing.q {
				out.Coeffs[i] = c
				break
			}
		}
	}
	return out
}
