// Package refframe implements the bounded reference-frame table (C10)
// shared by both decoders: a capacity-bound set of frame slots indexed
// by display number, with retire-on-displayed-and-unreferenced
// semantics and an explicit retire op for Dirac's eager retirement
// flag.
//
// Per SPEC_FULL.md §9 ("Cyclic frame references" / "Frame arena"),
// slots are referenced by integer index rather than aliased pointers:
// Table never hands out two names for the same frame.
package refframe

import "github.com/gowave/dwvdec/codec"

// entry is one occupied slot.
type entry struct {
	frame     *codec.Frame
	displayed bool
	reference bool
	occupied  bool
}

// Table is a bounded FIFO of reference-frame records.
type Table struct {
	slots []entry
	// order records insertion order of occupied slot indices, oldest
	// first, so BufferOverrun eviction (were it allowed) and capacity
	// accounting follow insertion order.
	order []int
}

// New returns a Table with room for capacity simultaneously-live
// frames.
func New(capacity int) *Table {
	return &Table{slots: make([]entry, capacity)}
}

func (t *Table) liveCount() int {
	n := 0
	for _, e := range t.slots {
		if e.occupied {
			n++
		}
	}
	return n
}

// Insert adds frame to the table. It fails with codec.BufferOverrun
// when doing so would leave no room for the frame currently being
// decoded — i.e. when the table is already at refcnt+1 == capacity,
// matching diracdec.c's dirac_decode_frame trigger exactly (the table
// must hold room for one more frame beyond what's already buffered).
func (t *Table) Insert(frame *codec.Frame, reference bool) error {
	if t.liveCount()+1 >= len(t.slots) {
		return codec.New(codec.BufferOverrun, "refframe.Insert", "reference table capacity exceeded")
	}
	for i := range t.slots {
		if !t.slots[i].occupied {
			t.slots[i] = entry{frame: frame, reference: reference, occupied: true}
			t.order = append(t.order, i)
			return nil
		}
	}
	return codec.New(codec.BufferOverrun, "refframe.Insert", "reference table capacity exceeded")
}

// Find returns the frame with the given display number, or nil.
func (t *Table) Find(display uint32) *codec.Frame {
	for i := range t.slots {
		if t.slots[i].occupied && t.slots[i].frame.Display == display {
			return t.slots[i].frame
		}
	}
	return nil
}

// MarkDisplayed records that the frame with the given display number
// has been handed to the caller, enabling retire-on-unreferenced.
func (t *Table) MarkDisplayed(display uint32) {
	for i := range t.slots {
		if t.slots[i].occupied && t.slots[i].frame.Display == display {
			t.slots[i].displayed = true
			t.releaseIfIdle(i)
		}
	}
}

// Retire drops the reference flag of the frame with the given display
// number and releases it, provided it has already been displayed,
// mirroring Dirac's explicit per-reference retire flag. Retiring a
// frame that is not yet displayed is a no-op: it keeps its reference
// flag and stays in the table.
func (t *Table) Retire(display uint32) {
	for i := range t.slots {
		if t.slots[i].occupied && t.slots[i].displayed && t.slots[i].frame.Display == display {
			t.slots[i].reference = false
			t.releaseIfIdle(i)
		}
	}
}

func (t *Table) releaseIfIdle(i int) {
	e := &t.slots[i]
	if e.occupied && e.displayed && !e.reference {
		*e = entry{}
	}
}

// NextDisplay returns the lowest-numbered occupied, not-yet-displayed
// frame at or above want, for decode_frame's zero-byte-input replay
// (spec.md §6).
func (t *Table) NextDisplay(want uint32) (*codec.Frame, bool) {
	var best *codec.Frame
	found := false
	for i := range t.slots {
		e := &t.slots[i]
		if !e.occupied || e.displayed || e.frame.Display < want {
			continue
		}
		if !found || e.frame.Display < best.Display {
			best = e.frame
			found = true
		}
	}
	return best, found
}
