package vp3

import (
	"testing"

	"github.com/gowave/dwvdec/codec"
	"github.com/stretchr/testify/require"
)

func theoraIdentPacket(mbw, mbh int) []byte {
	pkt := make([]byte, 7+6)
	pkt[0] = 0x80
	pkt[7] = byte(mbw >> 16)
	pkt[8] = byte(mbw >> 8)
	pkt[9] = byte(mbw)
	pkt[10] = byte(mbh >> 16)
	pkt[11] = byte(mbh >> 8)
	pkt[12] = byte(mbh)
	return pkt
}

func theoraSetupPacket() []byte {
	pkt := make([]byte, 7+3*64+1+80*3)
	pkt[0] = 0x82
	// All-ones setup bits: the motion-vector VLC flag is 1, and each of
	// the 80 Huffman trees is a single leaf (a 1 bit plus a 5-bit token).
	for i := 7 + 3*64; i < len(pkt); i++ {
		pkt[i] = 0xFF
	}
	return pkt
}

func TestParseTheoraHeadersSetsDimensions(t *testing.T) {
	d := NewVP3Decoder(codec.Config{})
	err := d.ParseTheoraHeaders([][]byte{
		theoraIdentPacket(2, 2),
		theoraSetupPacket(),
	})
	require.NoError(t, err)
	require.Equal(t, 32, d.width)
	require.Equal(t, 32, d.height)
	require.True(t, d.isTheora)
}

func TestDecodeFrameBeforeHeaderErrors(t *testing.T) {
	d := NewVP3Decoder(codec.Config{})
	err := d.DecodeFrame([]byte{0x00}, func(*codec.Frame) {})
	require.Error(t, err)
}

func TestDecodeFrameZeroLengthReplaysNothingWhenEmpty(t *testing.T) {
	d := NewVP3Decoder(codec.Config{})
	require.NoError(t, d.ParseTheoraHeaders([][]byte{theoraIdentPacket(1, 1), theoraSetupPacket()}))
	called := false
	err := d.DecodeFrame(nil, func(*codec.Frame) { called = true })
	require.NoError(t, err)
	require.False(t, called)
}
