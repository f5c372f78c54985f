package she

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"

	"github.com/cyclolab/cyclone/utils/bignum"
)

// Noise summarizes the error term of a ciphertext: the centered-lift
// magnitude statistics of its coefficients and the log2 headroom left under
// the decryption bound q/2p.
type Noise struct {
	MaxLog2    float64 // log2 of the largest absolute coefficient
	MeanAbs    float64
	StdDev     float64
	BudgetLog2 float64 // params.NoiseBudget() - MaxLog2; negative means decryption may fail
}

// NoiseStats measures the noise of a ciphertext under the given decryptor's
// key. It is a correctness-checking tool; no operation of this core consumes
// its output.
func (d *Decryptor) NoiseStats(ct *Ciphertext) (Noise, error) {

	e, err := d.ErrorTerm(ct)
	if err != nil {
		return Noise{}, fmt.Errorf("cannot NoiseStats: %w", err)
	}

	lifted := d.params.RingQ().CenteredLift(e)
	abs := make(stats.Float64Data, len(lifted))
	for i, v := range lifted {
		abs[i] = math.Abs(float64(v))
	}

	maxAbs, err := abs.Max()
	if err != nil {
		return Noise{}, fmt.Errorf("cannot NoiseStats: %w", err)
	}
	mean, err := abs.Mean()
	if err != nil {
		return Noise{}, fmt.Errorf("cannot NoiseStats: %w", err)
	}
	std, err := abs.StandardDeviation()
	if err != nil {
		return Noise{}, fmt.Errorf("cannot NoiseStats: %w", err)
	}

	maxLog2 := math.Inf(-1)
	if maxAbs > 0 {
		maxLog2, _ = bignum.Log2(bignum.NewFloat(maxAbs, 64)).Float64()
	}

	return Noise{
		MaxLog2:    maxLog2,
		MeanAbs:    mean,
		StdDev:     std,
		BudgetLog2: d.params.NoiseBudget() - maxLog2,
	}, nil
}
