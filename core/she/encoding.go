package she

import (
	"github.com/cyclolab/cyclone/ring"
)

// The MSD <-> LSD converter. Each direction multiplies the scale factor by a
// fixed mod-p constant and every coefficient by a fixed mod-q constant, both
// derived once from (p, q) at parameter construction; the two directions are
// exact inverses of each other.

func toMSD(params Parameters, ct *Ciphertext) *Ciphertext {
	if ct.Encoding == MSD {
		return ct.CopyNew()
	}
	return convertEncoding(params, ct, MSD, params.zqScaleMSD, params.zpScaleMSD)
}

func toLSD(params Parameters, ct *Ciphertext) *Ciphertext {
	if ct.Encoding == LSD {
		return ct.CopyNew()
	}
	return convertEncoding(params, ct, LSD, params.zqScaleLSD, params.zpScaleLSD)
}

func convertEncoding(params Parameters, ct *Ciphertext, target Encoding, zqScale, zpScale uint64) *Ciphertext {
	rq := params.RingQ()
	value := make([]ring.Poly, len(ct.Value))
	for i := range value {
		value[i] = rq.MulScalar(ct.Value[i], zqScale)
	}
	return &Ciphertext{
		Encoding: target,
		K:        ct.K,
		L:        ring.MulMod(ct.L, zpScale, params.P()),
		Value:    value,
	}
}

// ToMSDNew converts a ciphertext to the MSD encoding; it is a no-op (up to
// copy) if the ciphertext already is MSD.
func (eval *Evaluator) ToMSDNew(ct *Ciphertext) *Ciphertext {
	return toMSD(eval.params, ct)
}

// ToLSDNew converts a ciphertext to the LSD encoding; it is a no-op (up to
// copy) if the ciphertext already is LSD.
func (eval *Evaluator) ToLSDNew(ct *Ciphertext) *Ciphertext {
	return toLSD(eval.params, ct)
}
