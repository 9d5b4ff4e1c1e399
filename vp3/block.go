package vp3

// Block holds one 8x8 block's coding state (C4), mirroring theora2.c's
// struct vp3_block: its coefficient list, the macroblock/plane it
// belongs to, and the coded/motion flags set during phases 1-4 and
// consumed by phases 5-9.
type Block struct {
	// Plane is 0 (luma) or 1/2 (chroma).
	Plane int
	// X, Y are this block's 8x8 position within its plane, in block units.
	X, Y int
	// MBIndex is the macroblock this block belongs to.
	MBIndex int

	Coded bool
	// Coeffs holds up to 64 dequantized coefficients in zig-zag order;
	// NumCoeffs is the count of non-zero trailing-truncated entries
	// actually unpacked (an EOB run ends the plane's token stream, not
	// necessarily exactly at 64).
	Coeffs    [64]int32
	NumCoeffs int

	// LastNonZero tracks the highest coefficient index touched, used by
	// the IDCT's DC-only fast path (C9).
	LastNonZero int

	// DCPredicted is the post-prediction DC value (C7 output), added
	// into Coeffs[0] before dequantization's DC special-case, or used
	// directly by the DC-only IDCT path.
	DCPredicted int32

	// mode_bin-classified neighbour compatibility (0 intra, 1 inter, 2 golden).
	ModeBin uint8

	// Qpi is the per-block quantizer-index level this block resolved to
	// during UnpackBlockQPIs, an offset into the frame's qpi-indexed
	// quantizer matrices (unpack_block_qpis).
	Qpi int
}

// Macroblock holds the four (luma) or one (chroma, per-plane) blocks
// belonging to one 16x16 macroblock, plus the mode/motion data phases
// 3-4 attach to it (C6).
type Macroblock struct {
	X, Y int // macroblock position, in macroblock units

	Coded bool
	Mode  uint8

	// MVx, MVy are the macroblock's own motion vector in eighth-pel
	// units (used directly by all modes except InterFourMV).
	MVx, MVy int32

	// BlockMV holds the four independent luma block motion vectors
	// used only by InterFourMV; chroma derives its MV by averaging the
	// relevant luma entries.
	BlockMV [4][2]int32

	// Luma indexes the 4 luma Blocks belonging to this macroblock, in
	// raster order (top-left, top-right, bottom-left, bottom-right);
	// Chroma[0], Chroma[1] index the Cb/Cr blocks.
	Luma    [4]int
	Chroma  [2]int
}

// BlockStore owns every Block and Macroblock for one frame (C4),
// addressable by plane+position and walked in superblock/Hilbert order
// by the reconstruction scheduler (C9).
type BlockStore struct {
	Width, Height int // luma dimensions in pixels

	// PlaneBlocksW, PlaneBlocksH give each plane's block-grid size.
	PlaneBlocksW [3]int
	PlaneBlocksH [3]int

	Blocks      []Block
	Macroblocks []Macroblock

	// CodedBlocks lists the indices of blocks marked coded this frame,
	// in the order phase 2 discovered them — theora2.c's coded_blocks
	// list, consumed by phases 5-9 instead of re-scanning every block.
	CodedBlocks []int

	// planeStart gives the index into Blocks where each plane's blocks
	// begin.
	planeStart [3]int
}

// NewBlockStore allocates a store sized for a width x height luma
// frame; the block grid covers whole blocks only (width/8 luma, width/16
// chroma), so callers pass dimensions that are multiples of 16.
func NewBlockStore(width, height int) *BlockStore {
	mbw, mbh := width/16, height/16
	s := &BlockStore{Width: width, Height: height}

	s.PlaneBlocksW[0], s.PlaneBlocksH[0] = width/8, height/8
	s.PlaneBlocksW[1], s.PlaneBlocksH[1] = width/16, height/16
	s.PlaneBlocksW[2], s.PlaneBlocksH[2] = width/16, height/16

	total := 0
	for p := 0; p < 3; p++ {
		s.planeStart[p] = total
		total += s.PlaneBlocksW[p] * s.PlaneBlocksH[p]
	}
	s.Blocks = make([]Block, total)
	for p := 0; p < 3; p++ {
		w := s.PlaneBlocksW[p]
		for i := 0; i < s.PlaneBlocksW[p]*s.PlaneBlocksH[p]; i++ {
			b := &s.Blocks[s.planeStart[p]+i]
			b.Plane = p
			b.X, b.Y = i%w, i/w
		}
	}
	s.Macroblocks = make([]Macroblock, mbw*mbh)
	for i := range s.Macroblocks {
		mb := &s.Macroblocks[i]
		mb.X, mb.Y = i%mbw, i/mbw
		for dy := 0; dy < 2; dy++ {
			for dx := 0; dx < 2; dx++ {
				li := dy*2 + dx
				bi := s.BlockAt(0, mb.X*2+dx, mb.Y*2+dy)
				mb.Luma[li] = bi
				s.Blocks[bi].MBIndex = i
			}
		}
		if s.PlaneBlocksW[1] > 0 {
			ci := s.BlockAt(1, mb.X, mb.Y)
			mb.Chroma[0] = ci
			s.Blocks[ci].MBIndex = i
			cj := s.BlockAt(2, mb.X, mb.Y)
			mb.Chroma[1] = cj
			s.Blocks[cj].MBIndex = i
		}
	}
	return s
}

// SyncMacroblockCoded marks each macroblock coded if any block
// belonging to it (luma or chroma) was coded this frame, per
// set_macroblock_mode's rule that a macroblock only participates in
// mode/motion decoding when it has at least one coded block.
func (s *BlockStore) SyncMacroblockCoded() {
	for i := range s.Macroblocks {
		mb := &s.Macroblocks[i]
		mb.Coded = false
		for _, bi := range mb.Luma {
			if s.Blocks[bi].Coded {
				mb.Coded = true
			}
		}
		for _, bi := range mb.Chroma {
			if s.Blocks[bi].Coded {
				mb.Coded = true
			}
		}
	}
}

// BlockAt returns the block index for plane p at block position (x, y).
func (s *BlockStore) BlockAt(p, x, y int) int {
	return s.planeStart[p] + y*s.PlaneBlocksW[p] + x
}

// Reset clears per-frame coding state without reallocating, so the
// same store is reused across frames.
func (s *BlockStore) Reset() {
	for i := range s.Blocks {
		b := &s.Blocks[i]
		b.Coded = false
		b.NumCoeffs = 0
		b.LastNonZero = 0
		b.DCPredicted = 0
		b.Qpi = 0
	}
	for i := range s.Macroblocks {
		s.Macroblocks[i].Coded = false
	}
	s.CodedBlocks = s.CodedBlocks[:0]
}

// MarkCoded records block idx as coded this frame and appends it to
// CodedBlocks, mirroring theora2.c's coded_blocks accumulation during
// phase 2.
func (s *BlockStore) MarkCoded(idx int) {
	s.Blocks[idx].Coded = true
	s.CodedBlocks = append(s.CodedBlocks, idx)
}

// SuperblocksWide and SuperblocksHigh give plane p's superblock-grid
// size: each superblock covers a 4x4 group of 8x8 blocks, with the
// grid's final row/column possibly only partially filled when the
// plane's block grid isn't a multiple of 4.
func (s *BlockStore) SuperblocksWide(p int) int {
	return (s.PlaneBlocksW[p] + 3) / 4
}

func (s *BlockStore) SuperblocksHigh(p int) int {
	return (s.PlaneBlocksH[p] + 3) / 4
}

// TotalSuperblocks sums the superblock count across all 3 planes:
// unpack_block_coding's run-length passes walk superblocks in one flat
// index space spanning luma then Cb then Cr, not per-plane.
func (s *BlockStore) TotalSuperblocks() int {
	total := 0
	for p := 0; p < 3; p++ {
		total += s.SuperblocksWide(p) * s.SuperblocksHigh(p)
	}
	return total
}

// SuperblockIndex is SuperblockAt's inverse: it maps plane p's
// in-plane superblock coordinates to their position in the flat
// cross-plane index space.
func (s *BlockStore) SuperblockIndex(p, sbx, sby int) int {
	offset := 0
	for q := 0; q < p; q++ {
		offset += s.SuperblocksWide(q) * s.SuperblocksHigh(q)
	}
	return offset + sby*s.SuperblocksWide(p) + sbx
}

// SuperblockAt maps a flat cross-plane superblock index (as produced
// by TotalSuperblocks's ordering) back to its plane and in-plane
// superblock coordinates.
func (s *BlockStore) SuperblockAt(global int) (plane, sbx, sby int) {
	for p := 0; p < 3; p++ {
		w, h := s.SuperblocksWide(p), s.SuperblocksHigh(p)
		n := w * h
		if global < n {
			return p, global % w, global / w
		}
		global -= n
	}
	return 2, 0, 0
}
