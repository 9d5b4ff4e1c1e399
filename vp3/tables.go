package vp3

import "sort"

// canonicalCodes assigns canonical Huffman codes to symbols given
// their code lengths, in the standard way: symbols are ordered first
// by length, then by symbol index, and codes are assigned as
// successive integers left-shifted as length increases. This is the
// textbook canonical-code construction (the same one
// BuildHuffmanTable in the lossless huffman grounding reconstructs
// from, just run forwards instead of backwards).
func canonicalCodes(lens []uint8) []uint32 {
	type kv struct {
		sym int
		len uint8
	}
	items := make([]kv, 0, len(lens))
	for i, l := range lens {
		if l > 0 {
			items = append(items, kv{i, l})
		}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].len < items[j].len })

	codes := make([]uint32, len(lens))
	var code uint32
	prevLen := uint8(0)
	for _, it := range items {
		code <<= uint(it.len - prevLen)
		codes[it.sym] = code
		code++
		prevLen = it.len
	}
	return codes
}

// defaultLengths builds a plausible monotonically-increasing length
// profile for a table of n symbols bounded by maxLen, front-loading
// shorter codes to the low symbol indices. It is the synthetic
// substitute (see DESIGN.md) for vp3data.h's literal
// superblock_run_length_vlc_table / fragment_run_length_vlc_table /
// mode_code_vlc_table / motion_vector_vlc_table constants, which are
// not present anywhere in the retrieval pack: those tables are pure
// data (no algorithm to reconstruct them from), so a canonical table
// of the right symbol count and bit-width contract stands in for them.
// The surrounding state machine (run-length alternation, mode
// translation, MV sign/magnitude handling) does not depend on which
// codeword maps to which run length, only on a consistent, valid
// prefix code — BuildVLC rejects any overlapping codes.
func defaultLengths(n, maxLen int) []uint8 {
	lens := make([]uint8, n)
	// Balanced binary-tree depth: every symbol gets base bits, except the
	// first 2^base-n (statistically most likely, e.g. run-length 1)
	// symbols, which get one bit fewer, so the lengths fill the code
	// space exactly.
	base := 1
	for 1<<uint(base) < n {
		base++
	}
	for i := range lens {
		l := base
		if i < (1<<uint(base))-n {
			l--
		}
		if l < 1 {
			l = 1
		}
		if l > maxLen {
			l = maxLen
		}
		lens[i] = uint8(l)
	}
	return lens
}

func buildDefaultVLC(rootBits, n, maxLen int) *VLC {
	lens := defaultLengths(n, maxLen)
	codes := canonicalCodes(lens)
	syms := make([]int32, n)
	for i := range syms {
		syms[i] = int32(i)
	}
	v, err := BuildVLC(rootBits, codes, lens, syms)
	if err != nil {
		// defaultLengths always produces a complete, conflict-free
		// canonical assignment; a failure here is a construction bug,
		// not a bitstream error.
		panic(err)
	}
	return v
}

// hilbertOffset is the 4x4-within-superblock Hilbert traversal order
// (x, y) in 8x8-block units, from theora2.c's hilbert_offset table.
var hilbertOffset = [16][2]int{
	{0, 0}, {1, 0}, {1, 1}, {0, 1},
	{0, 2}, {0, 3}, {1, 3}, {1, 2},
	{2, 2}, {2, 3}, {3, 3}, {3, 2},
	{3, 1}, {2, 1}, {2, 0}, {3, 0},
}

// mbOffset positions the 4 macroblocks within a superblock in the
// same Hilbert order, in 2x2-macroblock units (render_slice's
// mb_offset table).
var mbOffset = [4][2]int{{0, 0}, {0, 1}, {1, 1}, {1, 0}}

// Coding modes, matching theora2.c's MODE_* enum.
const (
	modeInterNoMV = iota
	modeIntra
	modeInterPlusMV
	modeInterLastMV
	modeInterPriorLast
	modeUsingGolden
	modeGoldenMV
	modeInterFourMV
	codingModeCount
)

// modeAlphabet holds the 6 preset mode-coding schemes (ModeAlphabet).
var modeAlphabet = [6][codingModeCount]uint8{
	{modeInterLastMV, modeInterPriorLast, modeInterPlusMV, modeInterNoMV, modeIntra, modeUsingGolden, modeGoldenMV, modeInterFourMV},
	{modeInterLastMV, modeInterPriorLast, modeInterNoMV, modeInterPlusMV, modeIntra, modeUsingGolden, modeGoldenMV, modeInterFourMV},
	{modeInterLastMV, modeInterPlusMV, modeInterPriorLast, modeInterNoMV, modeIntra, modeUsingGolden, modeGoldenMV, modeInterFourMV},
	{modeInterLastMV, modeInterPlusMV, modeInterNoMV, modeInterPriorLast, modeIntra, modeUsingGolden, modeGoldenMV, modeInterFourMV},
	{modeInterNoMV, modeInterLastMV, modeInterPriorLast, modeInterPlusMV, modeIntra, modeUsingGolden, modeGoldenMV, modeInterFourMV},
	{modeInterNoMV, modeUsingGolden, modeInterLastMV, modeInterPriorLast, modeInterPlusMV, modeIntra, modeGoldenMV, modeInterFourMV},
}

// modeBin classifies each coding mode into {0: intra, 1: inter, 2:
// golden} for DC-prediction neighbour compatibility (mode_bin).
var modeBin = [codingModeCount]uint8{
	modeInterNoMV:      1,
	modeIntra:          0,
	modeInterPlusMV:    1,
	modeInterLastMV:    1,
	modeInterPriorLast: 1,
	modeUsingGolden:    2,
	modeGoldenMV:       2,
	modeInterFourMV:    1,
}

// predictorTransform holds the 16 (UL, U, UR, L) weight quadruples
// indexed by the 4-bit PUL|PU|PUR|PL neighbour-availability mask,
// from reverse_dc_prediction's predictor_transform table. Weights sum
// to 128.
var predictorTransform = [16][4]int{
	{0, 0, 0, 0},
	{0, 0, 0, 128},
	{0, 0, 128, 0},
	{0, 0, 53, 75},
	{0, 128, 0, 0},
	{0, 64, 0, 64},
	{0, 128, 0, 0},
	{0, 0, 53, 75},
	{128, 0, 0, 0},
	{0, 0, 0, 128},
	{64, 0, 64, 0},
	{0, 0, 53, 75},
	{0, 128, 0, 0},
	{-104, 116, 0, 116},
	{24, 80, 24, 0},
	{-104, 116, 0, 116},
}

// tokenToType classifies each of the 32 DCT token symbols into
// {0: EOB run, 1: zero run, 2: single coefficient, 3: zero run + coefficient},
// from unpack_vlcs's token_to_type table.
var tokenToType = [32]uint8{
	0, 0, 0, 0, 0, 0, 0,
	1, 1,
	2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2,
	3, 3, 3, 3, 3, 3, 3, 3, 3,
}
