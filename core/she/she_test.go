package she_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cyclolab/cyclone/core/she"
	"github.com/cyclolab/cyclone/ring"
	"github.com/cyclolab/cyclone/utils/sampling"
)

var (
	seedKeys    = []byte("she-test-keygen-seed")
	seedEnc     = []byte("she-test-encryptor-seed")
	testPRNGKey = []byte{0x49, 0x0a, 0x42, 0x3d, 0x97, 0x9d, 0xc1, 0x07, 0xa1, 0xd7, 0xe9, 0x7b, 0x3b, 0xce, 0xa1, 0xdb,
		0x42, 0xf3, 0xa6, 0xd5, 0x75, 0xd2, 0x0c, 0x92, 0xb7, 0x35, 0xce, 0x0c, 0xee, 0x09, 0x7c, 0x98}
)

// Two-power index, binary plaintexts: the g element is trivial.
var litTwoPower = she.ParametersLiteral{
	PlaintextIndex:    8,
	CiphertextIndex:   8,
	PlaintextModulus:  2,
	CiphertextModulus: 40961,
}

// Prime index: g = 1 - zeta is non-trivial and multiplication exercises the
// g-exponent machinery.
var litPrime = she.ParametersLiteral{
	PlaintextIndex:    5,
	CiphertextIndex:   5,
	PlaintextModulus:  3,
	CiphertextModulus: 40961,
}

// Proper tower: plaintext ring strictly smaller than the ciphertext ring.
var litTower = she.ParametersLiteral{
	PlaintextIndex:    4,
	CiphertextIndex:   8,
	PlaintextModulus:  3,
	CiphertextModulus: 40961,
}

func testParams(t *testing.T, lit she.ParametersLiteral) she.Parameters {
	params, err := she.NewParametersFromLiteral(lit)
	require.NoError(t, err)
	return params
}

type testContext struct {
	params she.Parameters
	kg     *she.KeyGenerator
	sk     *she.SecretKey
	enc    *she.Encryptor
	dec    *she.Decryptor
	eval   *she.Evaluator
}

func genTestContext(t *testing.T, lit she.ParametersLiteral) *testContext {

	params := testParams(t, lit)

	kg := she.NewSeededKeyGenerator(params, seedKeys)
	sk := kg.GenSecretKeyNew()

	enc, err := she.NewSeededEncryptor(params, sk, seedEnc)
	require.NoError(t, err)
	dec, err := she.NewDecryptor(params, sk)
	require.NoError(t, err)

	return &testContext{params: params, kg: kg, sk: sk, enc: enc, dec: dec, eval: she.NewEvaluator(params)}
}

func (tc *testContext) randPlaintext(t *testing.T, seed byte) ring.Poly {
	key := append([]byte{seed}, testPRNGKey[1:]...)
	prng, err := sampling.NewKeyedPRNG(key)
	require.NoError(t, err)
	return ring.NewUniformSampler(prng, tc.params.RingP()).ReadNew()
}

func TestParameters(t *testing.T) {

	t.Run("Defaults", func(t *testing.T) {
		params := testParams(t, litTwoPower)
		lit := params.GetLiteral()
		require.Equal(t, uint64(40961)<<20, lit.KeySwitchModulus)
		require.Equal(t, she.DefaultSecretVariance, lit.SecretVariance)
		require.Equal(t, she.DefaultErrorVariance, lit.ErrorVariance)
		require.Equal(t, uint64(she.DefaultGadgetBase), lit.GadgetBase)
		require.Greater(t, params.NoiseBudget(), 0.0)
	})

	t.Run("InvalidRelations", func(t *testing.T) {

		lit := litTwoPower
		lit.PlaintextIndex = 3 // does not divide 8
		_, err := she.NewParametersFromLiteral(lit)
		require.ErrorIs(t, err, she.ErrParameterMismatch)

		lit = litTwoPower
		lit.PlaintextIndex = 4
		lit.CiphertextIndex = 12 // 4 misses the odd part of rad(12)
		_, err = she.NewParametersFromLiteral(lit)
		require.ErrorIs(t, err, she.ErrParameterMismatch)

		lit = litTwoPower
		lit.PlaintextModulus = 1
		_, err = she.NewParametersFromLiteral(lit)
		require.ErrorIs(t, err, she.ErrParameterMismatch)

		lit = litTwoPower
		lit.CiphertextModulus = 3 // no noise budget over p=2
		_, err = she.NewParametersFromLiteral(lit)
		require.ErrorIs(t, err, she.ErrParameterMismatch)

		lit = litTwoPower
		lit.KeySwitchModulus = 17 // smaller than q
		_, err = she.NewParametersFromLiteral(lit)
		require.ErrorIs(t, err, she.ErrParameterMismatch)

		lit = litTwoPower
		lit.CiphertextModulus = 40962 // shares the factor 2 with p
		_, err = she.NewParametersFromLiteral(lit)
		require.ErrorIs(t, err, she.ErrParameterMismatch)
	})

	t.Run("Derived", func(t *testing.T) {
		params := testParams(t, litTwoPower)
		params2, err := params.WithCiphertextModulus(12289)
		require.NoError(t, err)
		require.Equal(t, uint64(12289), params2.Q())
		require.Equal(t, params.P(), params2.P())
	})
}

func TestSecretKey(t *testing.T) {

	params := testParams(t, litTower)

	t.Run("SeededDeterminism", func(t *testing.T) {
		sk1 := she.NewSeededKeyGenerator(params, seedKeys).GenSecretKeyNew()
		sk2 := she.NewSeededKeyGenerator(params, seedKeys).GenSecretKeyNew()
		require.Equal(t, sk1.Value, sk2.Value)
		require.Equal(t, params.CiphertextIndex(), sk1.Index)
	})

	t.Run("Embed", func(t *testing.T) {
		sk := she.NewSeededKeyGenerator(params, seedKeys).GenSecretKeyNew()
		skBig, err := sk.EmbedNew(16)
		require.NoError(t, err)
		require.Equal(t, uint64(16), skBig.Index)

		_, err = sk.EmbedNew(12) // 8 does not divide 12
		require.Error(t, err)
	})

	t.Run("KeyRingMismatch", func(t *testing.T) {
		other := testParams(t, litPrime)
		sk := she.NewSeededKeyGenerator(other, seedKeys).GenSecretKeyNew()
		_, err := she.NewEncryptor(params, sk)
		require.ErrorIs(t, err, she.ErrParameterMismatch)
		_, err = she.NewDecryptor(params, sk)
		require.ErrorIs(t, err, she.ErrParameterMismatch)
	})
}

func TestEncryptDecrypt(t *testing.T) {

	for _, lit := range []she.ParametersLiteral{litTwoPower, litPrime, litTower} {

		tc := genTestContext(t, lit)

		pt := tc.randPlaintext(t, 1)
		ct, err := tc.enc.EncryptNew(pt)
		require.NoError(t, err)

		require.Equal(t, she.LSD, ct.Encoding)
		require.Equal(t, 0, ct.K)
		require.Equal(t, uint64(1), ct.L)
		require.Equal(t, 1, ct.Degree())

		got, err := tc.dec.DecryptNew(ct)
		require.NoError(t, err)
		require.True(t, got.Equal(pt))
	}
}

func TestCiphertextEqual(t *testing.T) {

	tc := genTestContext(t, litPrime)

	ct, err := tc.enc.EncryptNew(tc.randPlaintext(t, 14))
	require.NoError(t, err)

	require.True(t, ct.Equal(ct.CopyNew()))

	other := ct.CopyNew()
	other.L = 2
	require.False(t, ct.Equal(other))

	other = ct.CopyNew()
	other.K++
	require.False(t, ct.Equal(other))

	require.False(t, ct.Equal(tc.eval.ToMSDNew(ct)))

	other = ct.CopyNew()
	other.Value[0] = tc.params.RingQ().Neg(other.Value[0])
	require.False(t, ct.Equal(other))
}

func TestEncodingRoundTrip(t *testing.T) {

	tc := genTestContext(t, litPrime)

	ct, err := tc.enc.EncryptNew(tc.randPlaintext(t, 2))
	require.NoError(t, err)

	msd := tc.eval.ToMSDNew(ct)
	require.Equal(t, she.MSD, msd.Encoding)
	require.True(t, ct.Equal(tc.eval.ToLSDNew(msd)))
	require.True(t, msd.Equal(tc.eval.ToMSDNew(tc.eval.ToLSDNew(msd))))

	// decryption is encoding-agnostic
	pt, err := tc.dec.DecryptNew(msd)
	require.NoError(t, err)
	want, err := tc.dec.DecryptNew(ct)
	require.NoError(t, err)
	require.True(t, pt.Equal(want))
}

func TestAdd(t *testing.T) {

	for _, lit := range []she.ParametersLiteral{litTwoPower, litPrime, litTower} {

		tc := genTestContext(t, lit)
		rp := tc.params.RingP()

		pt1, pt2 := tc.randPlaintext(t, 3), tc.randPlaintext(t, 4)
		ct1, err := tc.enc.EncryptNew(pt1)
		require.NoError(t, err)
		ct2, err := tc.enc.EncryptNew(pt2)
		require.NoError(t, err)

		sum, err := tc.eval.AddNew(ct1, ct2)
		require.NoError(t, err)
		got, err := tc.dec.DecryptNew(sum)
		require.NoError(t, err)
		require.True(t, got.Equal(rp.Add(pt1, pt2)))

		diff, err := tc.eval.SubNew(ct1, ct2)
		require.NoError(t, err)
		got, err = tc.dec.DecryptNew(diff)
		require.NoError(t, err)
		require.True(t, got.Equal(rp.Sub(pt1, pt2)))

		neg, err := tc.dec.DecryptNew(tc.eval.NegateNew(ct1))
		require.NoError(t, err)
		require.True(t, neg.Equal(rp.Neg(pt1)))
	}
}

func TestAddMixedEncodings(t *testing.T) {

	tc := genTestContext(t, litPrime)
	rp := tc.params.RingP()

	pt1, pt2 := tc.randPlaintext(t, 5), tc.randPlaintext(t, 6)
	ct1, err := tc.enc.EncryptNew(pt1)
	require.NoError(t, err)
	ct2, err := tc.enc.EncryptNew(pt2)
	require.NoError(t, err)

	sum, err := tc.eval.AddNew(tc.eval.ToMSDNew(ct1), ct2)
	require.NoError(t, err)
	require.Equal(t, she.MSD, sum.Encoding)

	got, err := tc.dec.DecryptNew(sum)
	require.NoError(t, err)
	require.True(t, got.Equal(rp.Add(pt1, pt2)))
}

func TestGExponentAlignment(t *testing.T) {

	tc := genTestContext(t, litPrime)
	rp := tc.params.RingP()

	pt := tc.randPlaintext(t, 7)
	ct, err := tc.enc.EncryptNew(pt)
	require.NoError(t, err)

	advanced := tc.eval.MulByGNew(tc.eval.MulByGNew(ct))
	require.Equal(t, 2, advanced.K)

	// the advanced copy still decrypts to pt
	got, err := tc.dec.DecryptNew(advanced)
	require.NoError(t, err)
	require.True(t, got.Equal(pt))

	// adding at k=0 and k=2 aligns exponents without changing the message
	sum, err := tc.eval.AddNew(ct, advanced)
	require.NoError(t, err)
	require.Equal(t, 2, sum.K)
	got, err = tc.dec.DecryptNew(sum)
	require.NoError(t, err)
	require.True(t, got.Equal(rp.MulScalar(pt, 2)))
}

func TestScaleMismatch(t *testing.T) {

	tc := genTestContext(t, litPrime)

	ct1, err := tc.enc.EncryptNew(tc.randPlaintext(t, 8))
	require.NoError(t, err)
	ct2 := ct1.CopyNew()
	ct2.L = 2

	_, err = tc.eval.AddNew(ct1, ct2)
	require.ErrorIs(t, err, she.ErrScaleMismatch)
}

func TestAddMulPublic(t *testing.T) {

	tc := genTestContext(t, litPrime)
	rp := tc.params.RingP()

	pt := tc.randPlaintext(t, 9)
	pub := tc.randPlaintext(t, 10)

	ct, err := tc.enc.EncryptNew(pt)
	require.NoError(t, err)

	t.Run("AddScalar", func(t *testing.T) {
		sum, err := tc.eval.AddScalarNew(2, ct)
		require.NoError(t, err)
		got, err := tc.dec.DecryptNew(sum)
		require.NoError(t, err)
		require.True(t, got.Equal(rp.Add(pt, rp.NewConstant(2))))
	})

	t.Run("AddPublicWithPendingG", func(t *testing.T) {
		advanced := tc.eval.MulByGNew(ct)
		sum, err := tc.eval.AddPublicNew(pub, advanced)
		require.NoError(t, err)
		got, err := tc.dec.DecryptNew(sum)
		require.NoError(t, err)
		require.True(t, got.Equal(rp.Add(pt, pub)))
	})

	t.Run("MulPublicAnyEncoding", func(t *testing.T) {
		for _, operand := range []*she.Ciphertext{ct, tc.eval.ToMSDNew(ct)} {
			prod, err := tc.eval.MulPublicNew(pub, operand)
			require.NoError(t, err)
			got, err := tc.dec.DecryptNew(prod)
			require.NoError(t, err)
			require.True(t, got.Equal(rp.Mul(pt, pub)))
		}
	})
}

func TestMulRelinearize(t *testing.T) {

	t.Run("SquareOfOne", func(t *testing.T) {

		tc := genTestContext(t, litTwoPower)
		rp := tc.params.RingP()

		one := rp.One()
		ct, err := tc.enc.EncryptNew(one)
		require.NoError(t, err)

		prod, err := tc.eval.MulNew(ct, ct)
		require.NoError(t, err)
		require.Equal(t, 2, prod.Degree())
		require.Equal(t, 1, prod.K)

		hint, err := tc.kg.GenQuadCircSwitchingHintNew(tc.sk)
		require.NoError(t, err)
		lin, err := she.NewQuadCircKeySwitcher(tc.params, hint).RelinearizeNew(prod)
		require.NoError(t, err)
		require.Equal(t, 1, lin.Degree())

		got, err := tc.dec.DecryptNew(lin)
		require.NoError(t, err)
		require.True(t, got.Equal(one))
	})

	t.Run("RandomProduct", func(t *testing.T) {

		tc := genTestContext(t, litPrime)
		rp := tc.params.RingP()

		pt1, pt2 := tc.randPlaintext(t, 11), tc.randPlaintext(t, 12)
		ct1, err := tc.enc.EncryptNew(pt1)
		require.NoError(t, err)
		ct2, err := tc.enc.EncryptNew(pt2)
		require.NoError(t, err)

		prod, err := tc.eval.MulNew(ct1, ct2)
		require.NoError(t, err)

		// degree-2 times degree-1 exceeds the supported degree
		_, err = tc.eval.MulNew(prod, ct1)
		require.ErrorIs(t, err, she.ErrDegreeTooLarge)

		hint, err := tc.kg.GenQuadCircSwitchingHintNew(tc.sk)
		require.NoError(t, err)
		lin, err := she.NewQuadCircKeySwitcher(tc.params, hint).RelinearizeNew(prod)
		require.NoError(t, err)

		got, err := tc.dec.DecryptNew(lin)
		require.NoError(t, err)
		require.True(t, got.Equal(rp.Mul(pt1, pt2)))
	})

	t.Run("MSDOperands", func(t *testing.T) {

		tc := genTestContext(t, litPrime)
		rp := tc.params.RingP()

		pt1, pt2 := tc.randPlaintext(t, 13), tc.randPlaintext(t, 14)
		ct1, err := tc.enc.EncryptNew(pt1)
		require.NoError(t, err)
		ct2, err := tc.enc.EncryptNew(pt2)
		require.NoError(t, err)

		// both MSD: exactly one operand is converted back, no recursion
		prod, err := tc.eval.MulNew(tc.eval.ToMSDNew(ct1), tc.eval.ToMSDNew(ct2))
		require.NoError(t, err)
		require.Equal(t, she.MSD, prod.Encoding)

		hint, err := tc.kg.GenQuadCircSwitchingHintNew(tc.sk)
		require.NoError(t, err)
		lin, err := she.NewQuadCircKeySwitcher(tc.params, hint).RelinearizeNew(prod)
		require.NoError(t, err)

		got, err := tc.dec.DecryptNew(lin)
		require.NoError(t, err)
		require.True(t, got.Equal(rp.Mul(pt1, pt2)))
	})
}

func TestKeySwitchLinear(t *testing.T) {

	tc := genTestContext(t, litTwoPower)

	skOut := tc.kg.GenSecretKeyNew()
	hint, err := tc.kg.GenLinearSwitchingHintNew(tc.sk, skOut)
	require.NoError(t, err)

	pt := tc.randPlaintext(t, 15)
	ct, err := tc.enc.EncryptNew(pt)
	require.NoError(t, err)

	switched, err := she.NewLinearKeySwitcher(tc.params, hint).SwitchNew(ct)
	require.NoError(t, err)
	require.Equal(t, she.MSD, switched.Encoding)

	decOut, err := she.NewDecryptor(tc.params, skOut)
	require.NoError(t, err)
	got, err := decOut.DecryptNew(switched)
	require.NoError(t, err)
	require.True(t, got.Equal(pt))

	t.Run("HintEqual", func(t *testing.T) {
		require.True(t, hint.Equal(hint))
		other, err := tc.kg.GenLinearSwitchingHintNew(tc.sk, skOut)
		require.NoError(t, err)
		require.False(t, hint.Equal(other))
	})
}

func TestModSwitch(t *testing.T) {

	tc := genTestContext(t, litTwoPower)

	pt := tc.randPlaintext(t, 16)
	ct, err := tc.enc.EncryptNew(pt)
	require.NoError(t, err)

	to, err := tc.params.CiphertextRingAt(12289)
	require.NoError(t, err)
	switched, err := tc.eval.RescaleLinearNew(ct, to)
	require.NoError(t, err)
	require.Equal(t, she.MSD, switched.Encoding)

	params2, err := tc.params.WithCiphertextModulus(12289)
	require.NoError(t, err)
	dec2, err := she.NewDecryptor(params2, tc.sk)
	require.NoError(t, err)

	got, err := dec2.DecryptNew(switched)
	require.NoError(t, err)
	require.True(t, got.Equal(pt))

	// error magnitude stays within the smaller modulus' budget
	noise, err := dec2.NoiseStats(switched)
	require.NoError(t, err)
	require.Greater(t, noise.BudgetLog2, 0.0)
}

func TestModSwitchPT(t *testing.T) {

	lit := litTwoPower
	lit.PlaintextModulus = 4
	tc := genTestContext(t, lit)

	params2, err := tc.params.WithPlaintextModulus(2)
	require.NoError(t, err)

	// message is a multiple of p/p' = 2
	m0 := tc.randPlaintext(t, 17)
	for i := range m0.Coeffs {
		m0.Coeffs[i] %= 2
	}
	pt := tc.params.RingP().MulScalar(m0, 2)

	ct, err := tc.enc.EncryptNew(pt)
	require.NoError(t, err)

	switched, err := tc.eval.ModSwitchPTNew(ct, 2)
	require.NoError(t, err)

	dec2, err := she.NewDecryptor(params2, tc.sk)
	require.NoError(t, err)
	got, err := dec2.DecryptNew(switched)
	require.NoError(t, err)
	require.True(t, got.Equal(params2.RingP().FromInt64(tc.params.RingP().CenteredLift(m0))))

	_, err = tc.eval.ModSwitchPTNew(ct, 3)
	require.ErrorIs(t, err, she.ErrParameterMismatch)
}

func TestAbsorbGFactors(t *testing.T) {

	tc := genTestContext(t, litPrime)

	pt := tc.randPlaintext(t, 18)
	ct, err := tc.enc.EncryptNew(pt)
	require.NoError(t, err)

	advanced := tc.eval.MulByGNew(tc.eval.MulByGNew(ct))
	round, err := tc.eval.AbsorbGFactorsNew(advanced)
	require.NoError(t, err)
	require.Equal(t, 0, round.K)

	got, err := tc.dec.DecryptNew(round)
	require.NoError(t, err)
	require.True(t, got.Equal(pt))
}

func TestRingSwitch(t *testing.T) {

	small := testParams(t, litTower) // indices (4, 8)
	big := testParams(t, she.ParametersLiteral{
		PlaintextIndex:    4,
		CiphertextIndex:   16,
		PlaintextModulus:  3,
		CiphertextModulus: 40961,
	})

	kg := she.NewSeededKeyGenerator(small, seedKeys)
	sk := kg.GenSecretKeyNew()
	skBig, err := sk.EmbedNew(16)
	require.NoError(t, err)

	evalSmall := she.NewEvaluator(small)
	evalBig := she.NewEvaluator(big)

	prng, err := sampling.NewKeyedPRNG(testPRNGKey)
	require.NoError(t, err)
	pt := ring.NewUniformSampler(prng, small.RingP()).ReadNew()

	t.Run("Embed", func(t *testing.T) {

		enc, err := she.NewSeededEncryptor(small, sk, seedEnc)
		require.NoError(t, err)
		ct, err := enc.EncryptNew(pt)
		require.NoError(t, err)

		ctBig, err := evalSmall.EmbedCTNew(ct, big)
		require.NoError(t, err)

		dec, err := she.NewDecryptor(big, skBig)
		require.NoError(t, err)
		got, err := dec.DecryptNew(ctBig)
		require.NoError(t, err)
		require.True(t, got.Equal(pt))
	})

	t.Run("Twace", func(t *testing.T) {

		enc, err := she.NewSeededEncryptor(big, skBig, seedEnc)
		require.NoError(t, err)
		ct, err := enc.EncryptNew(pt)
		require.NoError(t, err)

		ctSmall, err := evalBig.TwaceCTNew(ct, small)
		require.NoError(t, err)

		dec, err := she.NewDecryptor(small, sk)
		require.NoError(t, err)
		got, err := dec.DecryptNew(ctSmall)
		require.NoError(t, err)
		require.True(t, got.Equal(pt))
	})

	t.Run("NonZeroGExponentRejected", func(t *testing.T) {

		prime := genTestContext(t, litPrime)
		ct, err := prime.enc.EncryptNew(prime.randPlaintext(t, 19))
		require.NoError(t, err)
		advanced := prime.eval.MulByGNew(ct)

		_, err = prime.eval.EmbedCTNew(advanced, prime.params)
		require.ErrorIs(t, err, she.ErrNonZeroGExponent)
		_, err = prime.eval.TwaceCTNew(advanced, prime.params)
		require.ErrorIs(t, err, she.ErrNonZeroGExponent)
	})
}

func TestTunnel(t *testing.T) {

	in := testParams(t, she.ParametersLiteral{
		PlaintextIndex:    12,
		CiphertextIndex:   36,
		PlaintextModulus:  5,
		CiphertextModulus: 40961,
	})
	out := testParams(t, she.ParametersLiteral{
		PlaintextIndex:    18,
		CiphertextIndex:   36,
		PlaintextModulus:  5,
		CiphertextModulus: 40961,
	})

	kgIn := she.NewSeededKeyGenerator(in, seedKeys)
	kgOut := she.NewSeededKeyGenerator(out, append([]byte("out"), seedKeys...))
	skIn := kgIn.GenSecretKeyNew()
	skOut := kgOut.GenSecretKeyNew()

	prng, err := sampling.NewKeyedPRNG(testPRNGKey)
	require.NoError(t, err)
	imageSampler := ring.NewUniformSampler(prng, out.RingP())

	// e = gcd(12, 18) = 6, two relative basis vectors
	fn := she.LinearMap{SubIndex: 6, Images: []ring.Poly{imageSampler.ReadNew(), imageSampler.ReadNew()}}

	tun, err := kgOut.GenTunnelerNew(in, fn, skIn, skOut)
	require.NoError(t, err)

	ptSampler := ring.NewUniformSampler(prng, in.RingP())
	pt := ptSampler.ReadNew()

	enc, err := she.NewSeededEncryptor(in, skIn, seedEnc)
	require.NoError(t, err)
	ct, err := enc.EncryptNew(pt)
	require.NoError(t, err)

	tunneled, err := tun.TunnelCTNew(ct)
	require.NoError(t, err)
	require.Equal(t, she.MSD, tunneled.Encoding)
	require.Equal(t, 0, tunneled.K)

	want, err := fn.Evaluate(in.RingP(), out.RingP(), pt)
	require.NoError(t, err)

	dec, err := she.NewDecryptor(out, skOut)
	require.NoError(t, err)
	got, err := dec.DecryptNew(tunneled)
	require.NoError(t, err)
	require.True(t, got.Equal(want))

	t.Run("NonZeroGExponentRejected", func(t *testing.T) {
		advanced := she.NewEvaluator(in).MulByGNew(ct)
		_, err := tun.TunnelCTNew(advanced)
		require.ErrorIs(t, err, she.ErrNonZeroGExponent)
	})

	t.Run("WrongSubIndex", func(t *testing.T) {
		bad := fn
		bad.SubIndex = 3
		_, err := kgOut.GenTunnelerNew(in, bad, skIn, skOut)
		require.ErrorIs(t, err, she.ErrParameterMismatch)
	})
}

func TestNoiseStats(t *testing.T) {

	tc := genTestContext(t, litTwoPower)

	ct, err := tc.enc.EncryptNew(tc.randPlaintext(t, 20))
	require.NoError(t, err)

	noise, err := tc.dec.NoiseStats(ct)
	require.NoError(t, err)
	require.Greater(t, noise.BudgetLog2, 0.0)
	require.Less(t, noise.MaxLog2, tc.params.NoiseBudget())
	require.GreaterOrEqual(t, noise.MeanAbs, 0.0)
}

func TestErrorTerm(t *testing.T) {

	tc := genTestContext(t, litTwoPower)
	rq := tc.params.RingQ()

	ct, err := tc.enc.EncryptNew(tc.randPlaintext(t, 21))
	require.NoError(t, err)

	e, err := tc.dec.ErrorTerm(ct)
	require.NoError(t, err)

	// fresh LSD error is message + p*gaussian, far below q
	bound := int64(tc.params.Q() / (2 * tc.params.P()))
	for _, c := range rq.CenteredLift(e) {
		require.Less(t, absInt64(c), bound)
	}

	raw := tc.dec.ErrorTermUnrestricted(ct)
	require.True(t, raw.Equal(tc.dec.ErrorTermUnrestricted(ct)))
}

func absInt64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
