package vp3

import "github.com/gowave/dwvdec/bitio"

// UnpackBlockQPIs runs unpack_block_qpis: refines each coded block's
// quantizer-index-selector (initially 0, vp3/theora's baseline level)
// upward by one level at a time across nqpi-1 passes. Each pass reads
// alternating runs (the same long-run mechanism and 12-bit escape as
// the superblock coding pass) over the full coded-block list, but only
// counts a visited block toward a run's progress -- and only bumps its
// Qpi -- when that block is still sitting at the current level; blocks
// already advanced past it are walked over but otherwise ignored.
// Blocks a pass resolves with bit=false are excluded from the
// run-consumption budget of every later pass.
func UnpackBlockQPIs(r *bitio.Reader, coded []*Block, nqpi int) {
	numBlocks := len(coded)
	for level := 0; level < nqpi-1 && numBlocks > 0; level++ {
		bit := r.ReadBool()
		decoded := 0
		atLevel := 0
		i := 0
		for decoded < numBlocks {
			run := decodeLongRun(r)
			decoded += run
			if !bit {
				atLevel += run
			}
			for j := 0; j < run && i < len(coded); i++ {
				if coded[i].Qpi == level {
					if bit {
						coded[i].Qpi++
					}
					j++
				}
			}
			if run == runLengthOverflow {
				bit = r.ReadBool()
			} else {
				bit = !bit
			}
		}
		numBlocks -= atLevel
	}
}
