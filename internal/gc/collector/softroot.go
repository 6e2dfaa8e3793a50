package collector

import "github.com/kolkov/objgc/internal/gc/heap"

// softRootHead is the sentinel that separates ordinary objects from soft
// roots in the object list.
type softRootHead struct{}

func (softRootHead) TraceChildren(heap.Marker) uint64 { return 0 }
func (softRootHead) Teardown()                        {}

// AddSoftRoot roots h until DelSoftRoot is called. The object moves to the
// soft-root segment right after the sentinel, so root enumeration only walks
// soft roots rather than the whole list.
func (c *Collector) AddSoftRoot(h heap.Handle) {
	e := c.arena.Get(h)
	if e == nil || e.Released || h == c.softRoots {
		return
	}
	if c.isDead(e) {
		invariant("AddSoftRoot", h, "object is dead")
	}
	if c.softRoots == heap.Nil {
		c.createSoftRootHead()
	}
	prev, ok := c.findPrev(heap.Nil, h)
	if !ok {
		invariant("AddSoftRoot", h, "object is not in the object list")
	}
	c.unlink(prev, h)
	c.linkAfter(c.softRoots, h)
	c.settle(e)
	e.Rooted = true
	c.WriteBarrier(heap.Nil, h)
}

// DelSoftRoot unroots h. From now on it must be reachable to survive.
func (c *Collector) DelSoftRoot(h heap.Handle) {
	e := c.arena.Get(h)
	if e == nil || !e.Rooted {
		return
	}
	e.Rooted = false
	if c.softRoots == heap.Nil {
		return
	}
	if prev, ok := c.findPrev(c.softRoots, h); ok {
		c.unlink(prev, h)
		if c.isDead(e) {
			// Only a running sweep sees the dead shade, and it has not
			// reached h yet.
			c.reclaim(e)
		} else {
			c.linkAfter(heap.Nil, h)
			c.settle(e)
		}
	}
	if c.arena.Get(c.softRoots).Next == heap.Nil {
		c.dropSoftRootHead()
	}
}

// settle gives an entry that was relinked during a sweep the color the sweep
// would have given it. The entry may now sit behind the sweep cursor.
func (c *Collector) settle(e *heap.Entry) {
	if c.phase == PhaseSweep {
		e.Color = c.currentWhite
	}
}

// createSoftRootHead allocates the sentinel and moves it to the tail, so
// that everything before it is known not to be a soft root.
func (c *Collector) createSoftRootHead() {
	h := c.Alloc(softRootHead{}, 0)
	c.arena.Get(h).Fixed = true
	c.unlink(heap.Nil, h)

	tail := heap.Nil
	for cur := c.root; cur != heap.Nil; cur = c.arena.Get(cur).Next {
		tail = cur
	}
	c.linkAfter(tail, h)
	c.softRoots = h
}

// dropSoftRootHead removes the sentinel. Soft roots still linked after it
// stay in the list as ordinary objects.
func (c *Collector) dropSoftRootHead() {
	h := c.softRoots
	if h == heap.Nil {
		return
	}
	c.softRoots = heap.Nil
	if prev, ok := c.findPrev(heap.Nil, h); ok {
		c.unlink(prev, h)
	}
	e := c.arena.Get(h)
	c.allocBytes -= min(c.allocBytes, e.Size)
	c.arena.Free(h)
}

// SoftRoots returns the handles currently in the soft-root segment.
func (c *Collector) SoftRoots() []heap.Handle {
	if c.softRoots == heap.Nil {
		return nil
	}
	var out []heap.Handle
	for h := c.arena.Get(c.softRoots).Next; h != heap.Nil; h = c.arena.Get(h).Next {
		out = append(out, h)
	}
	return out
}
