package dirac

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestArithDecoderDeterministic(t *testing.T) {
	data := []byte{0x4a, 0x7c, 0x91, 0x03, 0xde, 0xad, 0xbe, 0xef}

	decodeSeq := func() []bool {
		d := NewDecoder(data)
		out := make([]bool, 32)
		for i := range out {
			out[i] = d.Bit(ctxCoeffData)
		}
		return out
	}

	first := decodeSeq()
	second := decodeSeq()
	require.Equal(t, first, second, "decoding the same bytes from a fresh decoder must reproduce the same symbol sequence")
}

func TestArithDecoderOverreadDoesNotPanic(t *testing.T) {
	// One byte of real data; everything past it must synthesize 1-bits
	// rather than erroring, and decode must simply run to completion.
	d := NewDecoder([]byte{0x80})
	for i := 0; i < 256; i++ {
		_ = d.Bit(ctxZPZNF1)
	}
	require.True(t, d.r.Overread())
}

func TestDecodeUintImmediateTerminatorIsZero(t *testing.T) {
	// A magnitude of 0 is encoded as an immediate follow-terminator; on
	// all-0xFF input the first follow bit of a fresh decoder is 1.
	d := NewDecoder([]byte{0xff, 0xff, 0xff, 0xff})
	v := d.decodeUint(ctxZPF2, ctxCoeffData)
	require.Equal(t, uint32(0), v)
}
