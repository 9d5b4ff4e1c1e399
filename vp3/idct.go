package vp3

import "math"

// idctBasis caches the separable 8-point IDCT basis cos((2x+1)*u*pi/16)
// used by InverseDCT's general path.
var idctBasis [8][8]float64

func init() {
	for x := 0; x < 8; x++ {
		for u := 0; u < 8; u++ {
			idctBasis[x][u] = math.Cos(float64(2*x+1) * float64(u) * math.Pi / 16)
		}
	}
}

// InverseDCT is C9's opaque leaf transform: it turns one block's 64
// dequantized coefficients into 64 spatial-domain residual samples.
// Per SPEC_FULL.md §1/§9 it is out of scope as a bit-exact match to
// any reference fixed-point IDCT implementation (mirroring the
// teacher's own IDCT/WHT in internal/dsp being a stated-contract leaf
// rather than a literal port target) -- its only contracts are: an
// all-zero input produces an all-zero output, and a DC-only input
// produces a flat output equal to the DC term scaled by 1/8 (the
// standard 8-point DCT-III normalization), both of which
// SPEC_FULL.md §8's concrete scenarios assert directly.
//
// The general (non-DC-only) path is a plain separable float IDCT,
// real but unoptimized; it exists so inter/intra blocks with AC
// content produce plausible, continuous output rather than a stub,
// without claiming bit-exact parity with any particular reference
// fixed-point implementation.
func InverseDCT(coeffs *[64]int32) [64]int32 {
	var out [64]int32
	allZero := true
	for _, c := range coeffs {
		if c != 0 {
			allZero = false
			break
		}
	}
	if allZero {
		return out
	}

	dcOnly := true
	for i := 1; i < 64; i++ {
		if coeffs[i] != 0 {
			dcOnly = false
			break
		}
	}
	if dcOnly {
		v := int32(float64(coeffs[0]) / 8)
		for i := range out {
			out[i] = v
		}
		return out
	}

	var tmp [8][8]float64
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			var sum float64
			for u := 0; u < 8; u++ {
				cu := 1.0
				if u == 0 {
					cu = 1 / math.Sqrt2
				}
				sum += cu * float64(coeffs[y*8+u]) * idctBasis[x][u]
			}
			tmp[y][x] = sum / 2
		}
	}
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			var sum float64
			for v := 0; v < 8; v++ {
				cv := 1.0
				if v == 0 {
					cv = 1 / math.Sqrt2
				}
				sum += cv * tmp[v][x] * idctBasis[y][v]
			}
			out[y*8+x] = int32(sum / 2)
		}
	}
	return out
}
