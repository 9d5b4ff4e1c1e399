package vp3

// neighbourDC describes one of a block's four causal DC-predictor
// neighbours (upper-left, upper, upper-right, left); a neighbour is
// "available" when it exists, was coded, and has a compatible
// mode_bin classification (reverse_dc_prediction only predicts from
// neighbours in the same inter/intra/golden class).
type neighbourDC struct {
	present bool
	dc      int32
}

// PredictDC runs C7's Dirac-independent VP3/Theora DC predictor: it
// builds the 4-bit PUL|PU|PUR|PL availability mask from ul, u, ur, l
// and applies predictorTransform's weighted combination, with the
// mask-13/15 special case from reverse_dc_prediction: when UL, U and L
// are present (UR absent, 13, or present, 15) the weighted prediction
// is clamped to the range spanned by U and L.
func PredictDC(ul, u, ur, l neighbourDC) int32 {
	mask := 0
	if ul.present {
		mask |= 8
	}
	if u.present {
		mask |= 4
	}
	if ur.present {
		mask |= 2
	}
	if l.present {
		mask |= 1
	}
	if mask == 0 {
		return 0
	}

	w := predictorTransform[mask]

	switch mask {
	case 13, 15:
		// UR absent (13) or all four present (15): theora2.c clamps the
		// prediction to the [min(U,L), max(U,L)] range formed by the
		// two orthogonal neighbours, rather than trusting the diagonal
		// contributions unconditionally.
		pred := (int32(w[0])*ul.dc + int32(w[1])*u.dc + int32(w[2])*ur.dc + int32(w[3])*l.dc) / 128
		lo, hi := u.dc, l.dc
		if lo > hi {
			lo, hi = hi, lo
		}
		if pred < lo {
			pred = lo
		}
		if pred > hi {
			pred = hi
		}
		return pred
	default:
		return (int32(w[0])*ul.dc + int32(w[1])*u.dc + int32(w[2])*ur.dc + int32(w[3])*l.dc) / 128
	}
}
