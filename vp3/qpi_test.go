package vp3

import (
	"testing"

	"github.com/gowave/dwvdec/bitio"
	"github.com/stretchr/testify/require"
)

func TestUnpackBlockQPIsSingleQPIIsAllZero(t *testing.T) {
	blocks := []*Block{{}, {}, {}}
	r := bitio.NewReader([]byte{0xFF, 0xFF})
	UnpackBlockQPIs(r, blocks, 1)
	for _, b := range blocks {
		require.Equal(t, 0, b.Qpi)
	}
}

func TestUnpackBlockQPIsMultiQPIDoesNotPanic(t *testing.T) {
	store := make([]Block, 12)
	blocks := make([]*Block, 12)
	for i := range blocks {
		blocks[i] = &store[i]
	}
	r := bitio.NewReader([]byte{0xAB, 0xCD, 0xEF, 0x01, 0x23})
	require.NotPanics(t, func() { UnpackBlockQPIs(r, blocks, 3) })
}

func TestUnpackBlockQPIsNeverExceedsMaxLevel(t *testing.T) {
	store := make([]Block, 6)
	blocks := make([]*Block, 6)
	for i := range blocks {
		blocks[i] = &store[i]
	}
	buf := make([]byte, 16)
	for i := range buf {
		buf[i] = 0xFF
	}
	r := bitio.NewReader(buf)
	UnpackBlockQPIs(r, blocks, 3)
	for _, b := range blocks {
		require.LessOrEqual(t, b.Qpi, 2)
		require.GreaterOrEqual(t, b.Qpi, 0)
	}
}
