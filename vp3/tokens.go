package vp3

import "github.com/gowave/dwvdec/bitio"

// Token types, from tokenToType's classification of the 32 DCT token
// symbols (unpack_vlcs).
const (
	tokEOBRun = iota
	tokZeroRun
	tokCoeff
	tokZeroRunCoeff
)

// coeffGroup returns which of the 4 AC coefficient-position VLC
// groups (ac_vlc_1..4, covering levels 1-5, 6-14, 15-27, 28-63) governs
// the AC token at zig-zag index i; level 0 (DC) is handled by its own
// separate selector in UnpackDCTTokens rather than through this
// function, per unpack_dct_coeffs's DC/AC split.
func coeffGroup(i int) int {
	switch {
	case i <= 5:
		return 0
	case i <= 14:
		return 1
	case i <= 27:
		return 2
	default:
		return 3
	}
}

// dcVLC and acVLC hold the 16 DC tables and 4x16 AC tables
// unpack_vlcs selects between (the "80 Huffman trees" the setup packet
// carries). VP3/Theora's real tables (vp3data.h) are not present
// anywhere in the retrieval pack -- like the run-length and
// motion-vector tables, they are built here as internally-consistent
// canonical tables over the same 32-symbol, token-type-classified
// alphabet (see defaultLengths in tables.go).
var (
	dcVLC [16]*VLC
	acVLC [4][16]*VLC
)

func init() {
	for i := range dcVLC {
		dcVLC[i] = buildDefaultVLC(5, 32, 12)
	}
	for g := range acVLC {
		for i := range acVLC[g] {
			acVLC[g][i] = buildDefaultVLC(5, 32, 12)
		}
	}
}

// eobRunLength and its extra-bits counts implement the 7 EOB-run
// symbols (0-6): the first 6 are literal run lengths 1-6, the 7th
// reads further bits to extend arbitrarily (unpack_vlcs's EOB
// handling).
var eobRunLength = [7]int{1, 2, 3, 4, 5, 6, 0}
var eobExtraBits = [7]int{0, 0, 0, 0, 0, 0, 12}

// zeroRunLength implements the 2 pure zero-run symbols.
var zeroRunLength = [2]int{1, 2}

// zeroRunCoeffRun gives the leading zero-run length for the 9
// zero-run-then-coefficient symbols; the trailing coefficient's
// magnitude/sign follow as extra bits per symbol, with the magnitude
// bit count given by zeroRunCoeffMagBits.
var zeroRunCoeffRun = [9]int{1, 1, 1, 2, 2, 3, 3, 4, 5}
var zeroRunCoeffMagBits = [9]int{1, 2, 3, 1, 2, 1, 2, 1, 1}

// coeffMagBits gives the extra magnitude bits read for each of the 14
// plain-coefficient symbols (token type 2); a sign bit always
// follows a non-zero magnitude.
var coeffMagBits = [14]int{0, 0, 1, 1, 1, 2, 2, 3, 3, 4, 4, 5, 5, 9}

// tokenRun holds the EOB-run counter shared across the whole
// coded-block list for one coefficient level: unpack_dct_coeffs lets
// an EOB run decoded while processing one plane continue consuming
// blocks into the next plane's block list, decrementing how many of
// that plane's blocks still need a token at this level -- the
// "EOB run crossing a plane boundary" behavior SPEC_FULL.md §8 calls
// out explicitly.
type tokenRun struct {
	remaining int
}

// UnpackDCTTokens runs phase 6 over every block listed in blocks
// (already in the interleaved, cross-plane order the scheduler visits
// blocks in). Two DC table selectors (luma, chroma) are read once
// before level 0; two AC table selectors (luma, chroma) are read once
// before level 1 and reused, unchanged, across all 4 AC coefficient
// groups -- unpack_dct_coeffs reads exactly these 4 selector fields
// total, never one per group. eob tracks the EOB run counter across
// the whole call so a run spanning a block or plane boundary
// decrements the remaining block count correctly instead of resetting
// at each boundary.
func UnpackDCTTokens(r *bitio.Reader, blocks []*Block) {
	dcSel := [2]int{int(r.ReadBits(4)), int(r.ReadBits(4))}
	var acSel [2]int

	eob := &tokenRun{}
	done := make([]bool, len(blocks))

	for level := 0; level < 64; level++ {
		if level == 1 {
			acSel[0] = int(r.ReadBits(4))
			acSel[1] = int(r.ReadBits(4))
		}
		for i, b := range blocks {
			if done[i] {
				continue
			}
			if eob.remaining > 0 {
				eob.remaining--
				done[i] = true
				continue
			}
			selIdx := 0
			if b.Plane != 0 {
				selIdx = 1
			}
			var table *VLC
			if level == 0 {
				table = dcVLC[dcSel[selIdx]]
			} else {
				table = acVLC[coeffGroup(level)][acSel[selIdx]]
			}
			if run, isEOB := readToken(r, table, level, b); isEOB {
				done[i] = true
				eob.remaining = run
			}
		}
	}
}

// readToken decodes one token for block b at coefficient index level
// using table. isEOB reports whether the token was an EOB marker; when
// true, run is the number of additional blocks this EOB run consumes
// (0 meaning just this one).
func readToken(r *bitio.Reader, table *VLC, level int, b *Block) (run int, isEOB bool) {
	sym := table.Read(r)
	if sym < 0 {
		sym = 0
	}
	switch tokenToType[sym] {
	case tokEOBRun:
		n := eobRunLength[sym]
		if bits := eobExtraBits[sym]; bits > 0 {
			n = int(r.ReadBits(bits))
		}
		if n > 0 {
			n--
		}
		return n, true
	case tokZeroRun:
		n := zeroRunLength[sym-7]
		advanceZero(b, level, n)
	case tokCoeff:
		idx := sym - 9
		mag := readSignedCoeff(r, coeffMagBits[idx])
		setCoeff(b, level, mag)
	case tokZeroRunCoeff:
		idx := sym - 23
		advanceZero(b, level, zeroRunCoeffRun[idx])
		mag := readSignedCoeff(r, zeroRunCoeffMagBits[idx])
		setCoeff(b, level+zeroRunCoeffRun[idx], mag)
	}
	return 0, false
}

func readSignedCoeff(r *bitio.Reader, extraBits int) int32 {
	base := int32(1)
	if extraBits > 0 {
		base += int32(r.ReadBits(extraBits))
	}
	if r.ReadBool() {
		return -base
	}
	return base
}

func advanceZero(b *Block, level, n int) {
	for i := 0; i < n && level+i < 64; i++ {
		b.Coeffs[level+i] = 0
	}
}

func setCoeff(b *Block, level int, v int32) {
	if level >= 64 {
		return
	}
	b.Coeffs[level] = v
	b.NumCoeffs = level + 1
	b.LastNonZero = level
}
