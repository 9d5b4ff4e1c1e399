package dirac

import (
	"testing"

	"github.com/gowave/dwvdec/codec"
	"github.com/stretchr/testify/require"
)

func seqHeader(w, h int) []byte {
	buf := make([]byte, 12)
	buf[4] = byte(w >> 24)
	buf[5] = byte(w >> 16)
	buf[6] = byte(w >> 8)
	buf[7] = byte(w)
	buf[8] = byte(h >> 24)
	buf[9] = byte(h >> 16)
	buf[10] = byte(h >> 8)
	buf[11] = byte(h)
	return buf
}

func TestDecodeFrameBeforeSequenceHeaderErrors(t *testing.T) {
	d := NewDiracDecoder(codec.Config{})
	err := d.DecodeFrame([]byte{0x00, 0x00, 0x00, 0x00}, func(*codec.Frame) {})
	require.Error(t, err)
}

func TestDecodeIntraFrameCallsOutput(t *testing.T) {
	d := NewDiracDecoder(codec.Config{})
	require.NoError(t, d.ParseSequenceHeader(seqHeader(16, 16)))

	buf := make([]byte, 8)
	var got *codec.Frame
	err := d.DecodeFrame(buf, func(f *codec.Frame) { got = f })
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, 16, got.Width)
}

func TestZeroLengthReplaysWithoutOutputWhenNothingPending(t *testing.T) {
	d := NewDiracDecoder(codec.Config{})
	require.NoError(t, d.ParseSequenceHeader(seqHeader(8, 8)))
	called := false
	err := d.DecodeFrame(nil, func(*codec.Frame) { called = true })
	require.NoError(t, err)
	require.False(t, called)
}

// bitWriter is a minimal MSB-first bit accumulator for assembling test
// bitstreams byte by byte, mirroring bitio.Reader's own contract
// (ReadBits/ReadUE/ReadSE) from the write side.
type bitWriter struct {
	bits []bool
}

func (w *bitWriter) writeBool(b bool) { w.bits = append(w.bits, b) }

func (w *bitWriter) writeBits(v uint32, n int) {
	for i := n - 1; i >= 0; i-- {
		w.writeBool((v>>uint(i))&1 != 0)
	}
}

func (w *bitWriter) writeUE(v uint32) {
	v++
	nbits := 0
	for t := v; t > 1; t >>= 1 {
		nbits++
	}
	for i := 0; i < nbits; i++ {
		w.writeBool(false)
	}
	w.writeBool(true)
	if nbits > 0 {
		w.writeBits(v&((1<<uint(nbits))-1), nbits)
	}
}

func (w *bitWriter) writeSE(v int32) {
	if v == 0 {
		w.writeUE(0)
		return
	}
	mag := uint32(v)
	if v < 0 {
		mag = uint32(-v)
	}
	w.writeUE(mag)
	w.writeBool(v < 0)
}

func (w *bitWriter) align() {
	for len(w.bits)%8 != 0 {
		w.writeBool(false)
	}
}

func (w *bitWriter) bytes() []byte {
	w.align()
	out := make([]byte, len(w.bits)/8)
	for i, b := range w.bits {
		if b {
			out[i/8] |= 1 << uint(7-i%8)
		}
	}
	return out
}

func TestDecodeInterFrameReadsRetireFlagsAndPredictionParameters(t *testing.T) {
	d := NewDiracDecoder(codec.Config{})
	require.NoError(t, d.ParseSequenceHeader(seqHeader(16, 16)))

	var w bitWriter
	w.writeBits(0, 32) // picNum
	w.writeBits(1, 2)  // refCount = 1
	w.writeSE(0)       // reference delta
	w.writeSE(0)       // retire flag: do not retire
	w.align()

	w.writeUE(0) // block param index 0: explicit dims
	w.writeUE(0) // luma xblen
	w.writeUE(0) // luma yblen
	w.writeUE(1) // luma xbsep
	w.writeUE(1) // luma ybsep
	w.writeUE(0) // mv precision
	w.writeBool(false) // no global motion
	w.writeUE(0)        // picture prediction mode (ignored)
	w.writeBool(false)  // no weight override
	w.align()

	// 7 independent length-prefixed regions (splitmodes, modes, 2 motion
	// vector passes, 3 DC passes), each declared empty.
	for i := 0; i < 7; i++ {
		w.writeUE(0)
		w.align()
	}

	var got *codec.Frame
	err := d.DecodeFrame(w.bytes(), func(f *codec.Frame) { got = f })
	if err != nil {
		require.ErrorIs(t, err, codec.Sentinel(codec.UnsupportedFeature))
	}
	require.NotNil(t, got)
}
