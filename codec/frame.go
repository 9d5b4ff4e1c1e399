package codec

import "github.com/gowave/dwvdec/internal/pool"

// Frame is a decoded picture: three 8-bit planes (Y, U, V) with
// independent strides, a display number used for reorder replay, and
// a flag marking whether the frame may be referenced by later frames.
type Frame struct {
	Width, Height int
	// Stride[p] is the number of bytes between the start of
	// consecutive rows of plane p; it may exceed the plane's logical
	// width due to padding.
	Stride [3]int
	Plane  [3][]byte

	// Display is the output-order sequence number carried by the
	// bitstream (Dirac picnum, VP3/Theora's implicit frame counter).
	Display uint32
	// Reference is true if later frames may use this one as a motion
	// or prediction reference.
	Reference bool
}

// PlaneWidth and PlaneHeight return the logical (unpadded) sample
// dimensions of plane p, applying 4:2:0 chroma subsampling for p>0.
func (f *Frame) PlaneWidth(p int) int {
	if p == 0 {
		return f.Width
	}
	return (f.Width + 1) / 2
}

func (f *Frame) PlaneHeight(p int) int {
	if p == 0 {
		return f.Height
	}
	return (f.Height + 1) / 2
}

// Config carries the parameters needed to initialise either decoder,
// per SPEC_FULL.md §6.
type Config struct {
	Width, Height int
	// ChromaSubsampling names the sampling scheme. Neither decoder
	// reads it: frames are always decoded as 4:2:0, and no other value
	// is rejected.
	ChromaSubsampling string
	// Extradata carries codec-specific out-of-band setup data: the
	// three Theora header packets, or nothing for Dirac (which is
	// entirely self-describing per access unit).
	Extradata []byte
}

// NewFrame allocates a Frame sized for width x height with 4:2:0
// chroma planes, drawing its plane buffers from internal/pool's
// bucketed sync.Pool rather than a bare make([]byte, ...) per frame --
// the same allocation-reuse discipline the teacher's decode path
// uses for its per-frame scratch buffers.
func NewFrame(width, height int) *Frame {
	f := &Frame{Width: width, Height: height}
	f.Stride[0] = width
	f.Stride[1] = (width + 1) / 2
	f.Stride[2] = (width + 1) / 2
	f.Plane[0] = pool.Get(f.Stride[0] * height)
	f.Plane[1] = pool.Get(f.Stride[1] * ((height + 1) / 2))
	f.Plane[2] = pool.Get(f.Stride[2] * ((height + 1) / 2))
	return f
}

// Release returns a Frame's plane buffers to the pool. Callers must
// not use f after calling Release.
func Release(f *Frame) {
	for i := range f.Plane {
		pool.Put(f.Plane[i])
		f.Plane[i] = nil
	}
}

// OutputFunc receives each frame produced by Decoder.DecodeFrame in
// the order it becomes available for display, which may differ from
// coded order. Implementations must not retain Frame.Plane slices
// past the call, as buffers are recycled from an internal pool.
type OutputFunc func(*Frame)
