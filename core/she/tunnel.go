package she

import (
	"fmt"

	"github.com/cyclolab/cyclone/ring"
	"github.com/cyclolab/cyclone/utils"
)

// LinearMap is an E-linear function between two plaintext rings that share
// the common subring E: it is determined by the images, in the target ring,
// of the relative power basis of the source ring over E. Scalars from E pass
// through the map unchanged.
type LinearMap struct {
	SubIndex uint64      // cyclotomic index e of the common subring E
	Images   []ring.Poly // images of x^0 .. x^(d-1), d = sourceIndex / e
}

// Evaluate applies the map to an element of the source plaintext ring,
// returning an element of the target plaintext ring. It is the reference
// semantics that TunnelCTNew evaluates homomorphically.
func (fn LinearMap) Evaluate(from, to *ring.Ring, a ring.Poly) (ring.Poly, error) {

	sub, err := ring.NewRing(fn.SubIndex, from.Modulus())
	if err != nil {
		return ring.Poly{}, fmt.Errorf("cannot Evaluate: %w", err)
	}

	coeffs, err := from.RelativeCoeffs(a, sub)
	if err != nil {
		return ring.Poly{}, fmt.Errorf("cannot Evaluate: %w", err)
	}
	if len(coeffs) != len(fn.Images) {
		return ring.Poly{}, fmt.Errorf("cannot Evaluate: %w: map has %d images for %d basis vectors", ErrParameterMismatch, len(fn.Images), len(coeffs))
	}

	out := to.NewPoly()
	for i := range coeffs {
		emb, err := to.Embed(coeffs[i], sub)
		if err != nil {
			return ring.Poly{}, fmt.Errorf("cannot Evaluate: %w", err)
		}
		out = to.Add(out, to.Mul(emb, fn.Images[i]))
	}
	return out, nil
}

// Tunneler homomorphically applies a fixed E-linear map between plaintext
// rings while switching the ciphertext from one ring and key to another, in
// one pass. It holds the map lifted to the ciphertext rings plus one
// switching hint per relative basis vector; the hints together play the role
// a single key-switch hint plays for an ordinary switch. A Tunneler is safe
// for concurrent use once generated.
//
// Index relations, with r, r' the input plaintext/ciphertext indices and
// s, s' the output ones: e = gcd(r, s) is the map's subring index, the lifted
// subring index is e' = e * (r'/r), and r' must be the compositum
// lcm(r, e'), so that the relative bases upstairs mirror the ones downstairs.
type Tunneler struct {
	in, out Parameters
	subQ    *ring.Ring  // index e' mod q
	imagesQ []ring.Poly // lifted map images on the relative basis of r' over e'
	hints   []*SwitchingHint
}

// GenTunnelerNew generates the Tunneler applying fn while re-encrypting from
// skIn (over the input parameters' ciphertext ring) to skOut (over the
// generator's own). Hint j encrypts the lifted map's value on the j-th
// relative basis vector times skIn.
func (kg *KeyGenerator) GenTunnelerNew(in Parameters, fn LinearMap, skIn, skOut *SecretKey) (*Tunneler, error) {

	out := kg.params
	r, rBig := in.PlaintextIndex(), in.CiphertextIndex()
	s, sBig := out.PlaintextIndex(), out.CiphertextIndex()
	e := fn.SubIndex

	if in.P() != out.P() || in.Q() != out.Q() || in.QKS() != out.QKS() {
		return nil, fmt.Errorf("cannot GenTunnelerNew: %w: input and output parameters disagree on moduli", ErrParameterMismatch)
	}
	if e == 0 || e != utils.Gcd(r, s) {
		return nil, fmt.Errorf("cannot GenTunnelerNew: %w: subring index %d is not gcd(%d, %d)", ErrParameterMismatch, e, r, s)
	}
	if len(fn.Images) != int(r/e) {
		return nil, fmt.Errorf("cannot GenTunnelerNew: %w: map has %d images for %d basis vectors", ErrParameterMismatch, len(fn.Images), r/e)
	}

	eBig := e * (rBig / r)
	if lcm := rBig / utils.Gcd(rBig, eBig) * eBig; lcm != rBig {
		return nil, fmt.Errorf("cannot GenTunnelerNew: %w: index %d is not the compositum of %d and %d", ErrParameterMismatch, rBig, r, eBig)
	}
	if sBig%eBig != 0 {
		return nil, fmt.Errorf("cannot GenTunnelerNew: %w: lifted subring index %d does not divide output index %d", ErrParameterMismatch, eBig, sBig)
	}
	if skIn.Index != rBig || skOut.Index != sBig {
		return nil, fmt.Errorf("cannot GenTunnelerNew: %w: key rings do not match the tunnel endpoints", ErrParameterMismatch)
	}

	subQ, err := ring.NewRing(eBig, in.Q())
	if err != nil {
		return nil, fmt.Errorf("cannot GenTunnelerNew: %w", err)
	}
	subQKS, err := ring.NewRing(eBig, in.QKS())
	if err != nil {
		return nil, fmt.Errorf("cannot GenTunnelerNew: %w", err)
	}

	imagesQ, imagesQKS, err := liftImages(in, out, fn, eBig)
	if err != nil {
		return nil, fmt.Errorf("cannot GenTunnelerNew: %w", err)
	}

	// One hint per relative basis vector x^j of the input ciphertext ring
	// over the lifted subring, for the map's value on x^j * skIn.
	rqksIn := in.RingQKS()
	skInQKS := rqksIn.FromInt64(skIn.Value)
	hints := make([]*SwitchingHint, len(imagesQKS))
	for j := range hints {
		v := rqksIn.Mul(rqksIn.NewMonomial(uint64(j)), skInQKS)
		comp, err := applyImages(rqksIn, out.RingQKS(), subQKS, imagesQKS, v)
		if err != nil {
			return nil, fmt.Errorf("cannot GenTunnelerNew: %w", err)
		}
		if hints[j], err = kg.GenSwitchingHintNew(comp, skOut); err != nil {
			return nil, fmt.Errorf("cannot GenTunnelerNew: %w", err)
		}
	}

	return &Tunneler{in: in, out: out, subQ: subQ, imagesQ: imagesQ, hints: hints}, nil
}

// liftImages turns the plaintext-level map into its lift over the ciphertext
// rings: the E'-linear map agreeing with fn on the embedded input ring, given
// by its images on the relative basis of r' over e', reduced mod q and mod
// the key-switch modulus. The basis vector x^i of r over e embeds to
// x^(i*t), which splits over e' into basis vector x^(i*t mod d) times a
// subring monomial; dividing that monomial back out yields the lifted image.
func liftImages(in, out Parameters, fn LinearMap, eBig uint64) (imagesQ, imagesQKS []ring.Poly, err error) {

	rpBigOut := out.RingPBig()
	r, rBig := in.PlaintextIndex(), in.CiphertextIndex()
	sBig := out.CiphertextIndex()

	t := rBig / r
	d := rBig / eBig

	imagesP := make([]ring.Poly, d)
	for i := range fn.Images {
		emb, err := rpBigOut.Embed(fn.Images[i], out.RingP())
		if err != nil {
			return nil, nil, err
		}
		j := (uint64(i) * t) % d
		k := (uint64(i) * t) / d
		// Cancel the subring monomial x^(k*(s'/e')); monomials are units
		// since x^s' == 1.
		inv := rpBigOut.NewMonomial(sBig - (k*(sBig/eBig))%sBig)
		imagesP[j] = rpBigOut.Mul(inv, emb)
	}
	for j := range imagesP {
		if imagesP[j].Coeffs == nil {
			// Sanity check: the compositum condition makes i -> i*t mod d a
			// bijection on basis positions.
			panic(fmt.Errorf("basis position %d has no image", j))
		}
	}

	imagesQ = make([]ring.Poly, d)
	imagesQKS = make([]ring.Poly, d)
	for j := range imagesP {
		if imagesQ[j], err = out.RingQ().LiftFrom(rpBigOut, imagesP[j]); err != nil {
			return nil, nil, err
		}
		if imagesQKS[j], err = out.RingQKS().LiftFrom(rpBigOut, imagesP[j]); err != nil {
			return nil, nil, err
		}
	}
	return imagesQ, imagesQKS, nil
}

// applyImages evaluates the lifted map on an element of the input ciphertext
// ring: split v over the lifted subring, embed each subring coordinate into
// the output ring and recombine against the images.
func applyImages(from, to, sub *ring.Ring, images []ring.Poly, v ring.Poly) (ring.Poly, error) {

	coeffs, err := from.RelativeCoeffs(v, sub)
	if err != nil {
		return ring.Poly{}, err
	}

	out := to.NewPoly()
	for j := range coeffs {
		emb, err := to.Embed(coeffs[j], sub)
		if err != nil {
			return ring.Poly{}, err
		}
		out = to.Add(out, to.Mul(emb, images[j]))
	}
	return out, nil
}

// TunnelCTNew applies the tunnel to a round (g-exponent zero) linear
// ciphertext over the input parameters, returning an MSD ciphertext over the
// output parameters that decrypts under the output key to the map's value on
// the input message. A ciphertext with pending g factors returns
// ErrNonZeroGExponent; absorb them first with Evaluator.AbsorbGFactorsNew.
// The constant coefficient is public and gets the lifted map applied
// directly; the degree-1 coefficient is split over the lifted subring and
// each coordinate goes through its matching hint.
func (t *Tunneler) TunnelCTNew(ct *Ciphertext) (*Ciphertext, error) {

	if ct.K != 0 {
		return nil, fmt.Errorf("cannot TunnelCTNew: %w: g-exponent is %d", ErrNonZeroGExponent, ct.K)
	}
	if ct.Degree() != 1 {
		return nil, fmt.Errorf("cannot TunnelCTNew: %w: degree %d, want 1", ErrDegreeTooLarge, ct.Degree())
	}

	rqIn, rqOut := t.in.RingQ(), t.out.RingQ()

	msd := toMSD(t.in, ct)

	c0, err := applyImages(rqIn, rqOut, t.subQ, t.imagesQ, msd.Value[0])
	if err != nil {
		return nil, fmt.Errorf("cannot TunnelCTNew: %w", err)
	}

	coeffs, err := rqIn.RelativeCoeffs(msd.Value[1], t.subQ)
	if err != nil {
		return nil, fmt.Errorf("cannot TunnelCTNew: %w", err)
	}

	c1 := rqOut.NewPoly()
	for j := range coeffs {
		emb, err := rqOut.Embed(coeffs[j], t.subQ)
		if err != nil {
			return nil, fmt.Errorf("cannot TunnelCTNew: %w", err)
		}
		d0, d1, err := switchTerm(t.out, t.hints[j], emb)
		if err != nil {
			return nil, fmt.Errorf("cannot TunnelCTNew: %w", err)
		}
		c0 = rqOut.Add(c0, d0)
		c1 = rqOut.Add(c1, d1)
	}

	return &Ciphertext{Encoding: MSD, K: 0, L: msd.L, Value: []ring.Poly{c0, c1}}, nil
}
