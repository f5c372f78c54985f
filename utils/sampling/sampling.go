package sampling

import (
	"encoding/binary"
)

// RandUint64 returns a uniformly random uint64 read from the given PRNG.
func RandUint64(prng PRNG) uint64 {
	b := make([]byte, 8)
	if _, err := prng.Read(b); err != nil {
		panic(err)
	}
	return binary.LittleEndian.Uint64(b)
}

// RandFloat64 returns a uniformly random float64 in [0, 1) read from the
// given PRNG, with 53 bits of precision.
func RandFloat64(prng PRNG) float64 {
	return float64(RandUint64(prng)>>11) * (1.0 / (1 << 53))
}
