package collector

import "github.com/kolkov/objgc/internal/gc/heap"

// SweepResult reports one SweepBatch call.
type SweepResult struct {
	// Cursor is the last entry kept, or Nil if none was kept after the
	// list head. Pass it to the next SweepBatch.
	Cursor heap.Handle
	// Reset counts survivors returned to the current white.
	Reset int
	// Finalized counts entries torn down and reclaimed.
	Finalized int
	// Done is set when the cursor reached the end of the list.
	Done bool
}

// SweepBatch visits at most maxCount entries following cursor (Nil meaning
// the list head). Survivors are reset to the current white for the next
// cycle; entries of the dead shade are unlinked, torn down unless that
// already happened, and reclaimed.
func (c *Collector) SweepBatch(cursor heap.Handle, maxCount int) SweepResult {
	var res SweepResult
	// Teardown callbacks may relink the list; unlink keeps sweepPrev valid,
	// so the batch runs on it rather than on a local copy.
	c.sweepPrev = cursor
	for ; maxCount > 0; maxCount-- {
		h := c.next(c.sweepPrev)
		if h == heap.Nil {
			break
		}
		e := c.arena.Get(h)
		if !c.isDead(e) {
			e.Color = c.currentWhite
			c.sweepPrev = h
			res.Reset++
			continue
		}
		c.setNext(c.sweepPrev, e.Next)
		e.Next = heap.Nil
		c.reclaim(e)
		res.Finalized++
	}
	res.Cursor = c.sweepPrev
	res.Done = c.next(c.sweepPrev) == heap.Nil
	return res
}

// reclaim tears e down if nobody did yet and frees its slot. e must already
// be unlinked from the object list.
func (c *Collector) reclaim(e *heap.Entry) {
	if !e.PendingDestroy {
		// Live objects are expected to be destroyed by their owner before
		// they become unreachable, but unattached objects legitimately reach
		// this point during cleanup after a failed load.
		e.PendingDestroy = true
		c.teardown(e)
	}
	c.allocBytes -= min(c.allocBytes, e.Size)
	c.reclaimed++
	c.arena.Free(e.Handle())
}
