// Package sampling implements secure generation of random bytes and integers,
// either from the operating system entropy pool or deterministically from a
// keyed blake2b XOF.
package sampling

import (
	"crypto/rand"
	"io"
	"sync"

	"golang.org/x/crypto/blake2b"
)

// PRNG is an interface for secure generation of random bytes.
type PRNG interface {
	io.Reader
}

// ThreadSafePRNG is a PRNG backed by the operating system entropy pool.
// It is safe for concurrent use.
type ThreadSafePRNG struct{}

// NewPRNG returns a new thread-safe PRNG backed by crypto/rand.
func NewPRNG() (*ThreadSafePRNG, error) {
	return &ThreadSafePRNG{}, nil
}

// Read fills sum with random bytes from the system entropy pool.
func (prng *ThreadSafePRNG) Read(sum []byte) (n int, err error) {
	return rand.Read(sum)
}

// KeyedPRNG deterministically expands a key into an arbitrarily long sequence
// of pseudo-random bytes using the blake2b XOF. Two KeyedPRNG instantiated
// with the same key produce the same stream.
//
// A KeyedPRNG instantiated with a nil key is NOT secure and should only be
// used for reproducible tests.
type KeyedPRNG struct {
	mutex sync.Mutex
	key   []byte
	xof   blake2b.XOF
}

// NewKeyedPRNG creates a new KeyedPRNG from the given key.
func NewKeyedPRNG(key []byte) (*KeyedPRNG, error) {
	var err error
	prng := new(KeyedPRNG)
	prng.key = append([]byte(nil), key...)
	prng.xof, err = blake2b.NewXOF(blake2b.OutputLengthUnknown, key)
	return prng, err
}

// Key returns a copy of the key used to seed the PRNG.
func (prng *KeyedPRNG) Key() (key []byte) {
	key = make([]byte, len(prng.key))
	copy(key, prng.key)
	return
}

// Read fills sum with the next bytes of the pseudo-random stream.
func (prng *KeyedPRNG) Read(sum []byte) (n int, err error) {
	prng.mutex.Lock()
	defer prng.mutex.Unlock()
	return prng.xof.Read(sum)
}

// Reset rewinds the PRNG to the beginning of its stream.
func (prng *KeyedPRNG) Reset() {
	prng.mutex.Lock()
	defer prng.mutex.Unlock()
	prng.xof.Reset()
}
