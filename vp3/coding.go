package vp3

import (
	"github.com/gowave/dwvdec/bitio"
	"github.com/gowave/dwvdec/codec"
)

// Coded-flag run-length alphabets (VLC_LONG_RUN_BITS / VLC_SHORT_RUN_BITS
// in theora2.c): the superblock pass uses the "long" table (34 codes,
// escaping into a 12-bit raw extension), the block pass within a
// partially-coded superblock uses the "short" table (30 codes, no
// escape).
var (
	longRunVLC  = buildDefaultVLC(6, 34, 14)
	shortRunVLC = buildDefaultVLC(5, 30, 14)
)

// runLengthOverflow is the longest run decodeLongRun can report: the
// 34th long-run code (value 34 after the +1) triggers a 12-bit raw
// extension, capping the total at 34+4095.
const runLengthOverflow = 4129

// decodeLongRun reads one superblock/qpi-style run length: the decoded
// VLC symbol plus one, with a 12-bit raw extension read when that
// value lands exactly on the escape code 34 (unpack_block_coding's
// superblock_run_length_vlc handling).
func decodeLongRun(r *bitio.Reader) int {
	sym := longRunVLC.Read(r)
	if sym < 0 {
		return 1
	}
	n := int(sym) + 1
	if n == 34 {
		n += int(r.ReadBits(12))
	}
	return n
}

// fetchFragmentRun reads one block-level run length: the raw decoded
// VLC symbol, with no +1 and no escape extension at all
// (fragment_run_length_vlc has no overflow code).
func fetchFragmentRun(r *bitio.Reader) int {
	sym := shortRunVLC.Read(r)
	if sym < 0 {
		return 1
	}
	return int(sym)
}

// SBCodeState classifies one superblock's phase-1/phase-2 coding
// outcome (SB_NOT_CODED / SB_PARTIALLY_CODED / SB_FULLY_CODED in
// theora2.c).
type SBCodeState uint8

const (
	SBNotCoded SBCodeState = iota
	SBPartiallyCoded
	SBFullyCoded
)

// UnpackSuperblockCoding runs unpack_block_coding's two superblock
// passes over the flat, cross-plane superblock index space (luma
// superblocks first, then Cb, then Cr): phase 1 marks alternating runs
// partially-coded/not-coded; phase 2 (only run when some superblocks
// remain undecided) walks every remaining not-yet-partially-coded
// superblock and marks alternating runs fully-coded/not-coded, never
// consuming run budget on a superblock phase 1 already resolved.
func UnpackSuperblockCoding(r *bitio.Reader, nSuperblocks int) ([]SBCodeState, error) {
	states := make([]SBCodeState, nSuperblocks)

	bit := r.ReadBool()
	numPartial := 0
	for i := 0; i < nSuperblocks; {
		run := decodeLongRun(r)
		if i+run > nSuperblocks {
			return nil, codec.New(codec.InvalidSyntax, "vp3.UnpackSuperblockCoding", "superblock run overruns frame")
		}
		if bit {
			for j := 0; j < run; j++ {
				states[i+j] = SBPartiallyCoded
			}
			numPartial += run
		}
		i += run
		if run == runLengthOverflow {
			bit = r.ReadBool()
		} else {
			bit = !bit
		}
	}

	if nSuperblocks > numPartial {
		bit = r.ReadBool()
		decoded := 0
		target := nSuperblocks - numPartial
		for i := 0; decoded < target; {
			run := decodeLongRun(r)
			filled := 0
			for filled < run {
				if i >= nSuperblocks {
					return nil, codec.New(codec.InvalidSyntax, "vp3.UnpackSuperblockCoding", "fully-coded run overruns frame")
				}
				if states[i] == SBPartiallyCoded {
					i++
					continue
				}
				if bit {
					states[i] = SBFullyCoded
				}
				i++
				filled++
			}
			decoded += run
			if run == runLengthOverflow {
				bit = r.ReadBool()
			} else {
				bit = !bit
			}
		}
	}

	return states, nil
}

// UnpackBlockCoding runs the per-block coded-flag pass for blocks
// belonging to SBPartiallyCoded superblocks: a single fragment-run
// state is shared across all 3 planes (never reset between them), read
// with post-decrement-test semantics -- a zero remaining run triggers
// a fresh run length and flag flip, otherwise the run simply
// decrements. Blocks inside SBFullyCoded/SBNotCoded superblocks cost
// no bits: their coded flag is the superblock's own state directly.
// The initial run flag is read only when at least one superblock is
// SBPartiallyCoded, so a frame with none consumes no bits here.
// Every block this resolves as coded is marked via store.MarkCoded.
func UnpackBlockCoding(r *bitio.Reader, store *BlockStore, sched *Scheduler, states []SBCodeState) {
	bit := false
	for _, st := range states {
		if st == SBPartiallyCoded {
			bit = !r.ReadBool()
			break
		}
	}
	runLength := 0
	for p := 0; p < 3; p++ {
		sbw, sbh := store.SuperblocksWide(p), store.SuperblocksHigh(p)
		for sby := 0; sby < sbh; sby++ {
			for sbx := 0; sbx < sbw; sbx++ {
				state := states[store.SuperblockIndex(p, sbx, sby)]
				blocks := sched.HilbertWalk(p, sbx, sby)
				switch state {
				case SBFullyCoded:
					for _, bi := range blocks {
						store.MarkCoded(bi)
					}
				case SBNotCoded:
					// No bits consumed, no blocks marked.
				case SBPartiallyCoded:
					for _, bi := range blocks {
						if runLength == 0 {
							runLength = fetchFragmentRun(r)
							bit = !bit
						} else {
							runLength--
						}
						if bit {
							store.MarkCoded(bi)
						}
					}
				}
			}
		}
	}
}
