package vp3

import (
	"testing"

	"github.com/gowave/dwvdec/bitio"
	"github.com/stretchr/testify/require"
)

func TestUnpackSuperblockCodingReturnsOneStatePerSuperblock(t *testing.T) {
	// Bits 0 01111 1 01111: the partial pass reads flag 0 and the 5-bit
	// long-run code 01111 (run 16), covering all 16 superblocks; the
	// full pass reads flag 1 and the same run of 16. This checks one
	// state comes back per superblock and the call does not error.
	buf := []byte{0x3E, 0xF0}
	r := bitio.NewReader(buf)
	states, err := UnpackSuperblockCoding(r, 16)
	require.NoError(t, err)
	require.Len(t, states, 16)
}

func TestUnpackSuperblockCodingErrorsOnOverrun(t *testing.T) {
	buf := []byte{0xFF, 0xFF, 0xFF, 0xFF}
	r := bitio.NewReader(buf)
	_, err := UnpackSuperblockCoding(r, 1)
	require.Error(t, err)
}

func TestDecodeLongRunEscapesAtThirtyFour(t *testing.T) {
	// Six 1-bits select the all-ones 6-bit long-run code (symbol 33 ->
	// run 34), which must then pull 12 more raw bits as its escape
	// extension instead of stopping at 34; all-ones input reaches
	// runLengthOverflow.
	buf := []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}
	r := bitio.NewReader(buf)
	run := decodeLongRun(r)
	require.GreaterOrEqual(t, run, 34)
	require.LessOrEqual(t, run, runLengthOverflow)
}

func TestFetchFragmentRunHasNoEscape(t *testing.T) {
	buf := []byte{0xFF, 0xFF, 0xFF, 0xFF}
	r := bitio.NewReader(buf)
	run := fetchFragmentRun(r)
	require.Less(t, run, runLengthOverflow)
}

func TestUnpackBlockCodingMarksFullyCodedSuperblocksWithoutConsumingBits(t *testing.T) {
	store := NewBlockStore(32, 32)
	sched := NewScheduler(store)
	states := make([]SBCodeState, store.TotalSuperblocks())
	for i := range states {
		states[i] = SBFullyCoded
	}
	r := bitio.NewReader(nil)
	UnpackBlockCoding(r, store, sched, states)
	require.Len(t, store.CodedBlocks, len(store.Blocks))
}

func TestUnpackBlockCodingLeavesNotCodedSuperblocksUncoded(t *testing.T) {
	store := NewBlockStore(32, 32)
	sched := NewScheduler(store)
	states := make([]SBCodeState, store.TotalSuperblocks())
	r := bitio.NewReader(nil)
	UnpackBlockCoding(r, store, sched, states)
	require.Empty(t, store.CodedBlocks)
}

func TestUnpackBlockCodingDoesNotPanicOnPartiallyCodedSuperblocks(t *testing.T) {
	store := NewBlockStore(32, 32)
	sched := NewScheduler(store)
	states := make([]SBCodeState, store.TotalSuperblocks())
	for i := range states {
		states[i] = SBPartiallyCoded
	}
	buf := make([]byte, 64)
	for i := range buf {
		buf[i] = 0x55
	}
	r := bitio.NewReader(buf)
	require.NotPanics(t, func() { UnpackBlockCoding(r, store, sched, states) })
}
