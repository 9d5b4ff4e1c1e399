package vp3

// Scheduler drives C9: it walks superblocks/macroblocks/blocks in
// Hilbert order (render_slice/init_block_mapping), reconstructs each
// coded block (DC predict -> dequantize -> inverse transform -> add
// to the motion-compensated or intra predictor), and applies the
// deblocking loop filter across internal edges only once both sides
// of an edge have been reconstructed.
type Scheduler struct {
	store *BlockStore
	// filtered marks which blocks have already had their predictor
	// written this frame, so the loop filter's "only filter an edge
	// once the neighbour on the far side has also been coded this
	// frame" rule (apply_loop_filter) can be checked directly.
	filtered []bool
}

// NewScheduler returns a Scheduler over store.
func NewScheduler(store *BlockStore) *Scheduler {
	return &Scheduler{store: store, filtered: make([]bool, len(store.Blocks))}
}

// HilbertWalk returns the superblock-local block visiting order for a
// superblock at (sbx, sby) in plane p, i.e. the 16 block coordinates
// hilbertOffset encodes translated into that plane's absolute block
// grid, clipped to blocks that actually exist in a partial edge
// superblock.
func (s *Scheduler) HilbertWalk(p, sbx, sby int) []int {
	out := make([]int, 0, 16)
	for _, off := range hilbertOffset {
		x, y := sbx*4+off[0], sby*4+off[1]
		if x >= s.store.PlaneBlocksW[p] || y >= s.store.PlaneBlocksH[p] {
			continue
		}
		out = append(out, s.store.BlockAt(p, x, y))
	}
	return out
}

// ReconstructBlock applies C7/C8/C9 in sequence for one block: DC
// prediction already stored in DCPredicted, dequantize via m, inverse
// transform, and add the residual into the supplied prediction plane
// pred (already filled by the motion-compensation/intra predictor),
// writing the final clamped samples into dst.
func (s *Scheduler) ReconstructBlock(b *Block, m *QuantMatrix, pred []byte, predStride int, dst []byte, dstStride int) {
	Apply(b, m)
	residual := InverseDCT(&b.Coeffs)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			v := int32(pred[y*predStride+x]) + residual[y*8+x]
			if v < 0 {
				v = 0
			}
			if v > 255 {
				v = 255
			}
			dst[y*dstStride+x] = byte(v)
		}
	}
	s.filtered[s.store.BlockAt(b.Plane, b.X, b.Y)] = true
}

// ShouldFilterEdge reports whether the internal edge between block a
// and its right/bottom neighbour b should be deblocked this frame:
// only once both blocks have been reconstructed, and only if at
// least one of them was actually coded (a fully-skipped run of blocks
// shares its predictor's edge unchanged, per apply_loop_filter).
func (s *Scheduler) ShouldFilterEdge(aIdx, bIdx int) bool {
	if !s.filtered[aIdx] || !s.filtered[bIdx] {
		return false
	}
	return s.store.Blocks[aIdx].Coded || s.store.Blocks[bIdx].Coded
}
