package vp3

import "github.com/gowave/dwvdec/codec"

// VLC is a canonical/general prefix-code lookup table (C3): a fast
// root table indexed by the first rootBits bits, with an escape entry
// pointing into a bit-by-bit trie for codes longer than rootBits.
//
// The root-table-plus-overflow shape is grounded on
// deepteams-webp/internal/lossless/huffman.go's BuildHuffmanTable
// (root table filled by replicating each code's entry across the
// unused suffix bits, second-level tables for overflow). That
// function reconstructs canonical codes from per-symbol code
// *lengths*; VP3's tables instead supply explicit (code, length,
// symbol) triples directly — both the built-in bias tables and
// Theora's recursively-read Huffman trees (read_huffman_tree in
// theora2.c) produce a code value per symbol, not a length array — so
// VLC is built directly from triples and falls back to a bit-by-bit
// trie walk past the root, rather than reconstructing canonical
// ordering.
type VLC struct {
	rootBits int
	root     []rootEntry
	trie     []trieNode
}

type rootEntry struct {
	bits int   // 0 if this entry escapes to the trie
	sym  int32 // valid when bits > 0
	node int32 // trie node index when bits == 0
}

// trieNode is a binary trie node used past the root table depth.
type trieNode struct {
	// leaf is true when this node is a terminal symbol.
	leaf     bool
	sym      int32
	children [2]int32 // -1 means absent
}

// BuildVLC constructs a VLC table from parallel code/len/sym arrays.
// rootBits bounds the fast-path table size; codes longer than
// rootBits continue into the trie. Conflicting (overlapping) codes
// fail with codec.MalformedTable; an incomplete code set is accepted,
// and Read returns -1 for a bit pattern that matches no code.
func BuildVLC(rootBits int, codes []uint32, lens []uint8, syms []int32) (*VLC, error) {
	v := &VLC{rootBits: rootBits, root: make([]rootEntry, 1<<uint(rootBits))}
	for i := range v.root {
		v.root[i] = rootEntry{bits: -1}
	}
	for i, l := range lens {
		if l == 0 {
			continue
		}
		code, sym := codes[i], syms[i]
		if int(l) <= rootBits {
			shift := rootBits - int(l)
			base := int(code) << uint(shift)
			for suffix := 0; suffix < 1<<uint(shift); suffix++ {
				idx := base + suffix
				if v.root[idx].bits > 0 {
					return nil, codec.New(codec.MalformedTable, "vp3.BuildVLC", "overlapping codes in root table")
				}
				v.root[idx] = rootEntry{bits: int(l), sym: sym}
			}
			continue
		}
		// Root prefix is the top rootBits bits of the long code.
		prefix := int(code >> uint(int(l)-rootBits))
		if v.root[prefix].bits > 0 {
			return nil, codec.New(codec.MalformedTable, "vp3.BuildVLC", "long code collides with short root entry")
		}
		if v.root[prefix].bits == -1 {
			v.root[prefix] = rootEntry{bits: 0, node: int32(len(v.trie))}
			v.trie = append(v.trie, trieNode{children: [2]int32{-1, -1}})
		}
		node := v.root[prefix].node
		for b := int(l) - rootBits - 1; b >= 0; b-- {
			bit := (code >> uint(b)) & 1
			next := v.trie[node].children[bit]
			if next == -1 {
				next = int32(len(v.trie))
				v.trie = append(v.trie, trieNode{children: [2]int32{-1, -1}})
				v.trie[node].children[bit] = next
			}
			if v.trie[node].leaf {
				return nil, codec.New(codec.MalformedTable, "vp3.BuildVLC", "code is a prefix of a shorter code")
			}
			node = next
		}
		if v.trie[node].leaf || v.trie[node].children[0] != -1 || v.trie[node].children[1] != -1 {
			return nil, codec.New(codec.MalformedTable, "vp3.BuildVLC", "overlapping codes in trie")
		}
		v.trie[node] = trieNode{leaf: true, sym: sym, children: [2]int32{-1, -1}}
	}
	return v, nil
}

// bitSource is the minimal reader interface VLC.Read needs; bitio.Reader
// satisfies it.
type bitSource interface {
	PeekBits(int) uint32
	Skip(int)
	ReadBit() uint32
}

// Read decodes the next symbol from r using the fast root-table path,
// descending into the trie bit by bit only when the root entry
// escapes (code longer than rootBits) — get_vlc2's two-step lookup.
// Exactly len(code) bits are consumed in either case; PeekBits does
// not advance the cursor until the code length is known.
func (v *VLC) Read(r bitSource) int32 {
	peek := r.PeekBits(v.rootBits)
	e := v.root[peek]
	if e.bits > 0 {
		r.Skip(e.bits)
		return e.sym
	}
	if e.bits == -1 {
		r.Skip(v.rootBits)
		return -1
	}
	r.Skip(v.rootBits)
	node := e.node
	for {
		bit := r.ReadBit()
		next := v.trie[node].children[bit]
		if next == -1 {
			return -1
		}
		node = next
		if v.trie[node].leaf {
			return v.trie[node].sym
		}
	}
}
