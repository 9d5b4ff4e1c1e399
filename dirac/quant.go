package dirac

// qFactor and qOffset give Dirac's per-quant-index dequantization
// scale and rounding offset, built by the standard doubling-every-4th-
// index quantizer ladder (dirac_dequant's table): factor doubles every
// 4 steps (4 steps per octave, base factors 4, 5, 6, 7), and offset is
// (2*factor+5)/5, i.e. floor(2*factor/5)+1.
func qFactor(qindex int) int32 {
	base := [4]int32{4, 5, 6, 7}
	shift := uint(qindex / 4)
	return base[qindex%4] << shift
}

func qOffset(qindex int) int32 {
	f := qFactor(qindex)
	return (f*2 + 5) / 5
}

// Dequant applies Dirac's coefficient dequantization formula
// (c*qfactor+qoffset)>>2 to one coefficient at the given quant index,
// per spec.md §4.8.
func Dequant(c int32, qindex int) int32 {
	if c == 0 {
		return 0
	}
	f, o := qFactor(qindex), qOffset(qindex)
	if c < 0 {
		return -(((-c)*f + o) >> 2)
	}
	return (c*f + o) >> 2
}
