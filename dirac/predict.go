package dirac

// median3 returns the median of three values, the standard building
// block for Dirac's block-motion-vector and DC predictors.
func median3(a, b, c int32) int32 {
	if a > b {
		a, b = b, a
	}
	if b > c {
		b = c
	}
	if a > b {
		b = a
	}
	return b
}

// PredictMV returns the median-predicted motion vector for a block
// given its left, up, and up-right neighbours' vectors (spec.md
// §4.7's block motion predictor), applied independently per axis.
func PredictMV(left, up, upRight [2]int32) [2]int32 {
	return [2]int32{
		median3(left[0], up[0], upRight[0]),
		median3(left[1], up[1], upRight[1]),
	}
}

// PredictDC returns the median-predicted intra DC value for a block
// from its left, up, and up-left neighbours, but only when all three
// neighbours are themselves available (refLeft/refUp/refUpLeft true);
// per spec.md §4.7, a block on the picture's top or left edge with no
// available neighbour in one or more directions predicts DC as 0
// rather than substituting a partial median, since Dirac's intra
// predictor is only defined once a full neighbourhood exists.
func PredictDC(left, up, upLeft int32, refLeft, refUp, refUpLeft bool) int32 {
	if !refLeft || !refUp || !refUpLeft {
		return 0
	}
	return median3(left, up, upLeft)
}

// PredictMode returns the majority-vote predicted coding mode (intra
// vs inter, global vs block motion) for a block from its three causal
// neighbours' mode bits, implemented as the bitwise majority over 3
// single-bit votes -- equivalent to (a&b)|(b&c)|(a&c) -- matching
// spec.md §4.7's "XOR-with-majority" global/mode predictor: the
// predicted bit is the majority, and the bit actually coded in the
// bitstream is that majority XORed with the true value, so the
// decoder recovers the true value as predicted-bit XOR coded-bit.
func PredictMode(a, b, c bool) bool {
	votes := 0
	if a {
		votes++
	}
	if b {
		votes++
	}
	if c {
		votes++
	}
	return votes >= 2
}

// DecodeModeBit recovers a true mode/global flag from its XOR-coded
// bitstream bit and the majority prediction of its neighbours.
func DecodeModeBit(coded, a, b, c bool) bool {
	return PredictMode(a, b, c) != coded
}
