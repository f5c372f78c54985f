// Package she implements symmetric-key somewhat-homomorphic encryption over
// cyclotomic rings: encryption and decryption under a secret key, homomorphic
// addition and multiplication, gadget-based key switching, modulus switching,
// and ring switching (tunneling) between plaintext rings.
//
// A ciphertext is a short polynomial over the ciphertext ring, evaluated
// implicitly at the secret key. Alongside its coefficients it tracks an
// encoding tag (MSD or LSD), a g-exponent counting pending multiplications by
// the ring's distinguished element g, and a scale factor applied at
// decryption; every operation preserves the interaction of the three exactly.
package she

import (
	"errors"
)

// Encoding selects which of the two dual representations the ciphertext
// polynomial coefficients use. The two differ by fixed rescale constants
// derived from (p, q); see Evaluator.ToMSDNew and Evaluator.ToLSDNew.
type Encoding uint8

const (
	// LSD places the message in the least significant digits: the ciphertext
	// evaluates to message + p*error mod q. Fresh encryptions are LSD.
	LSD Encoding = iota
	// MSD places the message in the most significant digits: the ciphertext
	// evaluates to (p^-1 mod q)*message + error mod q. Rounding-based
	// operations (modulus and key switching) require MSD.
	MSD
)

// String returns the name of the encoding.
func (e Encoding) String() string {
	switch e {
	case LSD:
		return "LSD"
	case MSD:
		return "MSD"
	default:
		return "invalid"
	}
}

var (
	// ErrScaleMismatch is returned when combining ciphertexts whose scale
	// factors differ; the sum of such ciphertexts is undefined.
	ErrScaleMismatch = errors.New("ciphertext scale factors do not match")

	// ErrNonZeroGExponent is returned by ring-switching operations invoked on
	// a ciphertext with pending g factors; callers must absorb them first.
	ErrNonZeroGExponent = errors.New("ciphertext carries unabsorbed g factors")

	// ErrParameterMismatch is returned when runtime-provided moduli or
	// indices do not satisfy the relations an operation requires.
	ErrParameterMismatch = errors.New("parameter mismatch")

	// ErrDegreeTooLarge is returned when a ciphertext polynomial is longer
	// than the operation supports; degree-2 ciphertexts must be
	// relinearized with a QuadCircKeySwitcher first.
	ErrDegreeTooLarge = errors.New("ciphertext degree exceeds the supported range")
)
