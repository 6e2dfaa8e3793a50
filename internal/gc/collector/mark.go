package collector

import "github.com/kolkov/objgc/internal/gc/heap"

// Mark grays the object referenced by *ref.
//
// Nothing happens for Nil, released, gray or black referents. A referent that
// is pending destruction is treated as already gone: the slot is cleared
// instead of reviving the object. Destruction takes precedence over
// reachability discovered late.
func (c *Collector) Mark(ref *heap.Handle) {
	h := *ref
	if h == heap.Nil {
		return
	}
	e := c.arena.Get(h)
	if e == nil {
		invariant("Mark", h, "reference to reclaimed object")
	}
	if e.Released {
		return
	}
	if e.PendingDestroy || e.Cleanup {
		*ref = heap.Nil
		return
	}
	if !e.Color.IsWhite() {
		return
	}
	if c.isDead(e) {
		invariant("Mark", h, "object is dead")
	}
	c.pushGray(h, e)
}

// MarkMany calls Mark on every slot of refs.
func (c *Collector) MarkMany(refs []heap.Handle) {
	for i := range refs {
		c.Mark(&refs[i])
	}
}

func (c *Collector) pushGray(h heap.Handle, e *heap.Entry) {
	e.Color = heap.Gray
	e.GrayNext = c.gray
	c.gray = h
}

// regray puts a black object back on the worklist. Resumable objects use it
// to continue tracing in a later step.
func (c *Collector) regray(h heap.Handle) {
	e := c.arena.Get(h)
	if e == nil || e.Color != heap.Black {
		invariant("regray", h, "object is not black")
	}
	c.pushGray(h, e)
}

// PropagateOne blackens the head of the gray worklist and grays everything
// it references. It returns the approximate number of bytes traced.
func (c *Collector) PropagateOne() uint64 {
	h := c.gray
	if h == heap.Nil {
		invariant("PropagateOne", h, "gray list is empty")
	}
	e := c.arena.Get(h)
	if e == nil || e.Color != heap.Gray {
		invariant("PropagateOne", h, "worklist head is not gray")
	}
	e.Color = heap.Black
	c.gray = e.GrayNext
	e.GrayNext = heap.Nil

	size := e.Size
	if e.PendingDestroy {
		return size
	}
	return size + e.Obj.TraceChildren(c)
}

// PropagateAll drains the gray worklist.
func (c *Collector) PropagateAll() uint64 {
	var n uint64
	for c.gray != heap.Nil {
		n += c.PropagateOne()
	}
	return n
}

// Barrier restores the tri-color invariant after target was stored into
// holder. holder may be Nil when the reference comes from a context that is
// conceptually black, such as a root that has already been scanned.
//
// Preconditions: target is white and not dead, holder (if any) is black,
// and the collector is neither paused nor finalizing. In the propagate phase
// target is grayed. In the sweep phase holder is turned white instead, so
// the barrier does not fire for it again this cycle.
func (c *Collector) Barrier(holder, target heap.Handle) {
	t := c.arena.Get(target)
	if t == nil {
		invariant("Barrier", target, "target is reclaimed")
	}
	if t.Released {
		return
	}
	if !t.Color.IsWhite() || c.isDead(t) {
		invariant("Barrier", target, "target is %s, want live white", t.Color)
	}
	if c.phase == PhasePause || c.phase == PhaseFinalize {
		invariant("Barrier", target, "called in %s phase", c.phase)
	}
	var hold *heap.Entry
	if holder != heap.Nil {
		hold = c.arena.Get(holder)
		if hold == nil || hold.Color != heap.Black {
			invariant("Barrier", holder, "holder is not black")
		}
	}

	if c.phase == PhasePropagate {
		c.pushGray(target, t)
	} else if hold != nil {
		hold.Color = c.currentWhite
	}
}

// WriteBarrier is the mutator entry point: call it after storing target
// into a field of holder (or into a root, with holder Nil). It only reaches
// Barrier when the store could break the invariant.
func (c *Collector) WriteBarrier(holder, target heap.Handle) {
	t := c.arena.Get(target)
	if t == nil || t.Released || !t.Color.IsWhite() {
		return
	}
	if holder == heap.Nil {
		if c.phase == PhasePropagate {
			c.Barrier(heap.Nil, target)
		}
		return
	}
	hold := c.arena.Get(holder)
	if hold == nil || hold.Released || hold.Color != heap.Black {
		return
	}
	c.Barrier(holder, target)
}

func (c *Collector) otherWhite() heap.Color {
	return c.currentWhite.Other()
}

// isDead reports whether e carries the shade that the running sweep reclaims.
// Before the atomic flip no object has it.
func (c *Collector) isDead(e *heap.Entry) bool {
	return e.Color == c.otherWhite() && !e.Fixed
}

// GrayList returns the gray worklist, head first.
func (c *Collector) GrayList() []heap.Handle {
	var out []heap.Handle
	for h := c.gray; h != heap.Nil; h = c.arena.Get(h).GrayNext {
		out = append(out, h)
	}
	return out
}

// IsDead reports whether h carries the shade the running sweep reclaims.
func (c *Collector) IsDead(h heap.Handle) bool {
	e := c.arena.Get(h)
	return e != nil && c.isDead(e)
}
