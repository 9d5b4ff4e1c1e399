package vp3

import (
	"testing"

	"github.com/gowave/dwvdec/bitio"
	"github.com/stretchr/testify/require"
)

func TestBuildVLCRootOnly(t *testing.T) {
	// symbol 0: code 0b0, len 1; symbol 1: code 0b10, len 2; symbol 2: code 0b11, len 2
	codes := []uint32{0b0, 0b10, 0b11}
	lens := []uint8{1, 2, 2}
	syms := []int32{0, 1, 2}
	v, err := BuildVLC(2, codes, lens, syms)
	require.NoError(t, err)

	r := bitio.NewReader([]byte{0b0_10_11_000})
	require.Equal(t, int32(0), v.Read(r))
	require.Equal(t, int32(1), v.Read(r))
	require.Equal(t, int32(2), v.Read(r))
}

func TestBuildVLCOverflowToTrie(t *testing.T) {
	codes := []uint32{0b0, 0b10, 0b1100, 0b1101}
	lens := []uint8{1, 2, 4, 4}
	syms := []int32{0, 1, 2, 3}
	v, err := BuildVLC(2, codes, lens, syms)
	require.NoError(t, err)

	r := bitio.NewReader([]byte{0b1100_1101})
	require.Equal(t, int32(2), v.Read(r))
	require.Equal(t, int32(3), v.Read(r))
}

func TestBuildVLCRejectsOverlap(t *testing.T) {
	codes := []uint32{0b0, 0b00}
	lens := []uint8{1, 2}
	syms := []int32{0, 1}
	_, err := BuildVLC(2, codes, lens, syms)
	require.Error(t, err)
}
