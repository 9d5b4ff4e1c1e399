package vp3

import (
	"testing"

	"github.com/gowave/dwvdec/bitio"
	"github.com/stretchr/testify/require"
)

func TestUnpackDCTTokensFillsAllBlocksWithoutPanicking(t *testing.T) {
	buf := make([]byte, 256)
	for i := range buf {
		buf[i] = byte(i * 37)
	}
	r := bitio.NewReader(buf)

	blocks := make([]*Block, 8)
	store := make([]Block, 8)
	for i := range blocks {
		blocks[i] = &store[i]
	}

	require.NotPanics(t, func() { UnpackDCTTokens(r, blocks) })
}

func TestCoeffGroupBoundaries(t *testing.T) {
	require.Equal(t, 0, coeffGroup(1))
	require.Equal(t, 0, coeffGroup(5))
	require.Equal(t, 1, coeffGroup(6))
	require.Equal(t, 1, coeffGroup(14))
	require.Equal(t, 2, coeffGroup(15))
	require.Equal(t, 2, coeffGroup(27))
	require.Equal(t, 3, coeffGroup(28))
	require.Equal(t, 3, coeffGroup(63))
}

func TestSetCoeffUpdatesBookkeeping(t *testing.T) {
	var b Block
	setCoeff(&b, 5, 42)
	require.Equal(t, int32(42), b.Coeffs[5])
	require.Equal(t, 6, b.NumCoeffs)
	require.Equal(t, 5, b.LastNonZero)
}
