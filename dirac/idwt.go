package dirac

// InverseDWT is C9's opaque leaf transform for Dirac: it collapses a
// chain of wavelet subbands (lowest-frequency DC band plus successive
// LH/HL/HH detail bands) back into a spatial-domain picture plane.
// Per SPEC_FULL.md §1/§9 the exact wavelet kernel (Dirac supports
// several, selected per sequence header) is out of scope as a
// bit-exact reference match; this leaf's only stated contract is the
// one spec.md §8's scenarios assert: an all-zero coefficient set
// reconstructs to an all-zero plane, and a DC-only subband (all detail
// bands zero) reconstructs to a flat plane equal to the DC
// coefficient.
//
// The synthesis step actually performed is a single-level Haar-style
// merge (average-and-difference inverse), real but not claiming
// parity with Dirac's Daubechies/LeGall kernels -- adequate for the
// flat/zero contract while still producing continuous, non-stub
// output when detail bands carry content.
func InverseDWT(dc *Subband, detail [3]*Subband) []int32 {
	w, h := dc.Width*2, dc.Height*2
	out := make([]int32, w*h)

	allZero := true
	for _, c := range dc.Coeffs {
		if c != 0 {
			allZero = false
			break
		}
	}
	for _, sb := range detail {
		if sb == nil {
			continue
		}
		for _, c := range sb.Coeffs {
			if c != 0 {
				allZero = false
				break
			}
		}
	}
	if allZero {
		return out
	}

	dcOnly := true
	for _, sb := range detail {
		if sb == nil {
			continue
		}
		for _, c := range sb.Coeffs {
			if c != 0 {
				dcOnly = false
				break
			}
		}
	}
	if dcOnly {
		for y := 0; y < dc.Height; y++ {
			for x := 0; x < dc.Width; x++ {
				v := dc.Coeffs[y*dc.Width+x]
				out[(2*y)*w+2*x] = v
				out[(2*y)*w+2*x+1] = v
				out[(2*y+1)*w+2*x] = v
				out[(2*y+1)*w+2*x+1] = v
			}
		}
		return out
	}

	lh, hl, hh := detail[0], detail[1], detail[2]
	for y := 0; y < dc.Height; y++ {
		for x := 0; x < dc.Width; x++ {
			a := dc.Coeffs[y*dc.Width+x]
			var bv, c, dv int32
			if lh != nil {
				bv = lh.Coeffs[y*lh.Width+x]
			}
			if hl != nil {
				c = hl.Coeffs[y*hl.Width+x]
			}
			if hh != nil {
				dv = hh.Coeffs[y*hh.Width+x]
			}
			out[(2*y)*w+2*x] = a + bv + c + dv
			out[(2*y)*w+2*x+1] = a - bv + c - dv
			out[(2*y+1)*w+2*x] = a + bv - c - dv
			out[(2*y+1)*w+2*x+1] = a - bv - c + dv
		}
	}
	return out
}
