package vp3

import "github.com/gowave/dwvdec/bitio"

// modeVLC decodes the mode symbol for schemes 0-6; the symbol is then
// translated through the scheme's alphabet (the custom alphabet read
// for scheme 0, modeAlphabet for schemes 1-6). Scheme 7 reads mb_mode
// as a raw 3-bit field (set_macroblock_mode's CODING_MODE_VLC vs
// FIXED_CODE paths).
var modeVLC = buildDefaultVLC(3, codingModeCount, 8)

// UnpackModes runs phase 3: reads the per-frame mode-coding scheme,
// an optional custom alphabet when the scheme is 0, then one mode per
// coded macroblock (skipped macroblocks implicitly keep
// modeInterNoMV with zero motion, per unpack_modes / set_macroblock_mode).
//
// isTheora is accepted but not used: VP3 and Theora streams decode
// modes identically here (there is no separate chroma mode; chroma
// blocks inherit Luma[0]'s mode either way), no mode is rejected as
// illegal for either format, and nothing about the format is recorded
// on the macroblock.
func UnpackModes(r *bitio.Reader, mbs []Macroblock, isTheora bool) error {
	scheme := r.ReadBits(3)
	var alphabet [codingModeCount]uint8
	switch {
	case scheme == 0:
		for i := 0; i < codingModeCount; i++ {
			alphabet[i] = uint8(r.ReadBits(3))
		}
	case scheme != 7:
		alphabet = modeAlphabet[scheme-1]
	}

	for i := range mbs {
		mb := &mbs[i]
		if !mb.Coded {
			mb.Mode = modeInterNoMV
			continue
		}
		if scheme == 7 {
			mb.Mode = uint8(r.ReadBits(3))
			continue
		}
		sym := modeVLC.Read(r)
		if sym < 0 {
			sym = int32(modeInterNoMV)
		}
		mb.Mode = alphabet[sym]
	}
	return nil
}

// mvVLC decodes a signed motion-vector component in the VLC
// (variable-length) motion-vector mode; the fixed mode instead reads
// a raw sign-magnitude field directly (unpack_vectors's fixed vs VLC
// branch on the per-frame motion-vector coding flag).
var mvVLC = buildDefaultVLC(6, 63, 12)

func readMV(r *bitio.Reader, useVLC bool) int32 {
	if !useVLC {
		mag := int32(r.ReadBits(5))
		if mag == 0 {
			return 0
		}
		if r.ReadBool() {
			return -mag
		}
		return mag
	}
	sym := mvVLC.Read(r)
	if sym < 0 {
		return 0
	}
	// mvVLC's 63 symbols encode the values -31..31: symbol 0 is zero,
	// and for other symbols the magnitude is (sym+1)/2 and the low bit
	// carries the sign (odd is negative), matching the fixed mode's
	// sign-magnitude range (unpack_vectors builds both tables over the
	// same [-31, 31] range).
	mag := (sym + 1) / 2
	if sym == 0 {
		return 0
	}
	if sym%2 == 1 {
		return -mag
	}
	return mag
}

// UnpackVectors runs phase 4: for every coded macroblock whose mode
// requires explicit motion vectors, reads them (one MV for most inter
// modes, four independent luma MVs for InterFourMV, zero for intra
// and InterNoMV/UsingGolden which imply a fixed (0,0) or
// last-vector-reuse MV per mode semantics handled by the caller).
func UnpackVectors(r *bitio.Reader, mbs []Macroblock, useVLC bool) {
	for i := range mbs {
		mb := &mbs[i]
		if !mb.Coded {
			continue
		}
		switch mb.Mode {
		case modeInterPlusMV, modeGoldenMV:
			mb.MVx = readMV(r, useVLC)
			mb.MVy = readMV(r, useVLC)
		case modeInterFourMV:
			for b := 0; b < 4; b++ {
				mb.BlockMV[b][0] = readMV(r, useVLC)
				mb.BlockMV[b][1] = readMV(r, useVLC)
			}
		default:
			// modeInterNoMV, modeIntra, modeInterLastMV,
			// modeInterPriorLast, modeUsingGolden: no explicit vector in
			// the bitstream; the reconstruction scheduler (C9) fills
			// MVx/MVy from the predicted/reused vector per mode.
		}
	}
}
