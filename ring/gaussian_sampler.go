package ring

import (
	"math"

	"github.com/cyclolab/cyclone/utils/sampling"
)

// GaussianSampler draws ring elements with rounded-Gaussian coefficients.
type GaussianSampler struct {
	prng     sampling.PRNG
	baseRing *Ring
	sigma    float64
	bound    float64
}

// NewGaussianSampler creates a sampler for rounded-Gaussian coefficients of
// parameters X over the given ring.
func NewGaussianSampler(prng sampling.PRNG, baseRing *Ring, X DiscreteGaussian) *GaussianSampler {
	bound := X.Bound
	if bound == 0 {
		bound = 6 * X.Sigma
	}
	return &GaussianSampler{prng: prng, baseRing: baseRing, sigma: X.Sigma, bound: bound}
}

// ReadNew samples a fresh ring element.
func (g *GaussianSampler) ReadNew() Poly {
	return g.baseRing.FromInt64(g.ReadIntNew())
}

// ReadIntNew samples the integer coefficient vector of a fresh element,
// before reduction mod q. Used for secret keys, which keep their exact
// integer coefficients so they can be carried across moduli.
func (g *GaussianSampler) ReadIntNew() []int64 {
	out := make([]int64, g.baseRing.n)
	for i := range out {
		out[i] = g.sampleInt()
	}
	return out
}

// ReadCosetNew samples from the coset distribution aligned to the given
// target: it returns coset + p*e with e rounded-Gaussian, so the result is
// congruent to coset mod p.
func (g *GaussianSampler) ReadCosetNew(coset Poly, p uint64) Poly {
	r := g.baseRing
	r.checkPoly(coset)
	out := r.NewPoly()
	for i, c := range coset.Coeffs {
		e := reduceInt64(g.sampleInt(), r.q)
		out.Coeffs[i] = AddMod(c, MulMod(p%r.q, e, r.q), r.q)
	}
	return out
}

// sampleInt draws one rounded-Gaussian integer by the Box-Muller transform,
// rejecting values outside the bound.
func (g *GaussianSampler) sampleInt() int64 {
	for {
		var u1 float64
		for u1 == 0 {
			u1 = sampling.RandFloat64(g.prng)
		}
		u2 := sampling.RandFloat64(g.prng)
		x := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2) * g.sigma
		v := math.Round(x)
		if math.Abs(v) <= g.bound {
			return int64(v)
		}
	}
}
