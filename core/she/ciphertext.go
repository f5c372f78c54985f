package she

import (
	"github.com/google/go-cmp/cmp"

	"github.com/cyclolab/cyclone/ring"
)

// Ciphertext is an encryption, under some SecretKey, of a plaintext ring
// element. Value holds the 1 to 3 coefficients of a polynomial evaluated
// implicitly at the secret; length 3 occurs only transiently after a
// multiplication, before relinearization by a QuadCircKeySwitcher.
//
// K counts pending multiplications by the distinguished ring element g that
// have not yet been absorbed; L is the multiplicative scale correction,
// a scalar mod p, applied at decryption. The ciphertext and plaintext ring
// parameters are not stored redundantly: they are carried by the Parameters
// every operation is bound to.
type Ciphertext struct {
	Encoding Encoding
	K        int
	L        uint64
	Value    []ring.Poly
}

// Degree returns the degree of the ciphertext polynomial, i.e. len(Value)-1.
func (ct *Ciphertext) Degree() int {
	return len(ct.Value) - 1
}

// CopyNew returns a deep copy of the ciphertext.
func (ct *Ciphertext) CopyNew() *Ciphertext {
	v := make([]ring.Poly, len(ct.Value))
	for i := range v {
		v[i] = ct.Value[i].CopyNew()
	}
	return &Ciphertext{Encoding: ct.Encoding, K: ct.K, L: ct.L, Value: v}
}

// Equal checks two ciphertexts for equality.
func (ct *Ciphertext) Equal(other *Ciphertext) bool {
	return ct.Encoding == other.Encoding &&
		ct.K == other.K &&
		ct.L == other.L &&
		cmp.Equal(ct.Value, other.Value)
}
