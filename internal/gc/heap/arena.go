package heap

import "fmt"

// Handle is a stable, generation-checked reference to an arena slot.
//
// Layout: [generation:32][index:32]. The zero value is Nil.
type Handle uint64

// Nil is the null handle.
const Nil Handle = 0

const indexBits = 32

func makeHandle(index, gen uint32) Handle {
	return Handle(uint64(gen)<<indexBits | uint64(index))
}

// Index returns the slot index.
func (h Handle) Index() uint32 {
	return uint32(h)
}

// Generation returns the slot generation the handle was issued for.
func (h Handle) Generation() uint32 {
	return uint32(h >> indexBits)
}

// String formats the handle as "index.gen", or "nil".
func (h Handle) String() string {
	if h == Nil {
		return "nil"
	}
	return fmt.Sprintf("%d.%d", h.Index(), h.Generation())
}

// Entry is the collector-owned state of one object.
type Entry struct {
	Obj  Object
	Size uint64

	Color Color

	// Fixed objects are never swept.
	Fixed bool
	// Rooted objects are soft roots.
	Rooted bool
	// PendingDestroy objects are logically dead and only await reclamation.
	PendingDestroy bool
	// Released objects are outside the graph entirely.
	Released bool
	// Cleanup is set while Teardown runs.
	Cleanup bool

	// Next links the object list.
	Next Handle
	// GrayNext links the gray worklist while Color == Gray.
	GrayNext Handle

	// Site is the allocation site hash, 0 when not tracked.
	Site uint64

	self Handle
}

// Handle returns the handle the entry is currently addressed by.
func (e *Entry) Handle() Handle {
	return e.self
}

type slot struct {
	gen   uint32
	entry *Entry
}

// Arena stores entries by handle. Slot 0 is reserved so Nil never resolves.
type Arena struct {
	slots []slot
	free  []uint32
	live  int
}

// NewArena creates an empty arena.
func NewArena() *Arena {
	return &Arena{slots: make([]slot, 1, 64)}
}

// Alloc stores obj in a fresh slot and returns its handle.
// The entry starts with zero color and no flags; the caller colors it.
func (a *Arena) Alloc(obj Object, size uint64) Handle {
	var idx uint32
	if n := len(a.free); n > 0 {
		idx = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		a.slots = append(a.slots, slot{})
		idx = uint32(len(a.slots) - 1)
	}
	s := &a.slots[idx]
	s.gen++
	if s.gen == 0 { // wrapped
		s.gen = 1
	}
	h := makeHandle(idx, s.gen)
	s.entry = &Entry{Obj: obj, Size: size, self: h}
	a.live++
	return h
}

// Get resolves h. It returns nil for Nil and for stale handles.
func (a *Arena) Get(h Handle) *Entry {
	idx := h.Index()
	if h == Nil || int(idx) >= len(a.slots) {
		return nil
	}
	s := &a.slots[idx]
	if s.entry == nil || s.gen != h.Generation() {
		return nil
	}
	return s.entry
}

// Free releases the slot of h. Freeing a stale handle is a no-op.
func (a *Arena) Free(h Handle) {
	if a.Get(h) == nil {
		return
	}
	idx := h.Index()
	a.slots[idx].entry = nil
	a.free = append(a.free, idx)
	a.live--
}

// Len returns the number of live entries.
func (a *Arena) Len() int {
	return a.live
}
