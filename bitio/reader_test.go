package bitio

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadBitsMatchesByteLayout(t *testing.T) {
	r := NewReader([]byte{0x8f, 0xe3})
	require.Equal(t, uint32(0x8), r.ReadBits(4))
	require.Equal(t, uint32(0x3), r.ReadBits(2))
	require.Equal(t, uint32(0xf), r.ReadBits(4))
	require.Equal(t, uint32(0x23), r.ReadBits(6))
}

func TestOverreadReturnsOnesForever(t *testing.T) {
	r := NewReader([]byte{0xff})
	r.ReadBits(8)
	require.False(t, r.Overread())
	for i := 0; i < 100; i++ {
		require.Equal(t, uint32(1), r.ReadBit())
	}
	require.True(t, r.Overread())
}

func TestReadUE(t *testing.T) {
	// 1 -> 0, 010 -> 1, 011 -> 2, 00100 -> 3
	r := NewReader([]byte{0b1_010_011_0, 0b0100_0000})
	require.Equal(t, uint32(0), r.ReadUE())
	require.Equal(t, uint32(1), r.ReadUE())
	require.Equal(t, uint32(2), r.ReadUE())
	require.Equal(t, uint32(3), r.ReadUE())
}

func TestReadSE(t *testing.T) {
	// magnitude 0 -> no sign bit read
	r := NewReader([]byte{0b1_010_0_010, 0b1000_0000})
	require.Equal(t, int32(0), r.ReadSE())
	require.Equal(t, int32(1), r.ReadSE()) // mag 1, sign bit 0 -> +1
	require.Equal(t, int32(-1), r.ReadSE())
}

func TestAlign(t *testing.T) {
	r := NewReader([]byte{0xff, 0x00})
	r.ReadBits(3)
	r.Align()
	require.Equal(t, 8, r.BitPos())
	require.Equal(t, uint32(0), r.ReadBits(8))
}
