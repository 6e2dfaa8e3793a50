package collector

import (
	"iter"
	"log/slog"

	"github.com/kolkov/objgc/internal/gc/allocsite"
	"github.com/kolkov/objgc/internal/gc/heap"
)

// Collector owns the object list, the gray worklist and all pacing state.
//
// The zero value is not usable; create collectors with New. A Collector is
// not safe for concurrent use.
type Collector struct {
	arena *heap.Arena

	// root is the head of the object list.
	root heap.Handle
	// gray is the head of the gray worklist.
	gray heap.Handle
	// sweepPrev is the last entry the sweep kept; Nil means the list head.
	sweepPrev heap.Handle
	// softRoots is the sentinel after which soft roots are linked.
	softRoots heap.Handle
	// bulk is the resumable marker for registered Bulk sections.
	bulk heap.Handle

	sources  []RootSource
	sections []bulkSection

	phase        Phase
	currentWhite heap.Color

	allocBytes  uint64
	threshold   uint64
	estimate    uint64
	minStepSize uint64

	pause     int
	stepMul   int
	stepCount int

	checkTime        uint64
	lastCollectTime  uint64
	lastCollectAlloc uint64

	cycles    uint64
	reclaimed uint64

	verify bool
	sites  *allocsite.Depot
	log    *slog.Logger
}

// New creates a collector in the pause phase.
func New(opts Options) *Collector {
	c := &Collector{
		arena:        heap.NewArena(),
		phase:        PhasePause,
		currentWhite: heap.White0,
		threshold:    opts.Threshold,
		pause:        opts.Pause,
		stepMul:      opts.StepMul,
		verify:       opts.Verify,
		log:          opts.logger(),
	}
	if c.pause < 1 {
		c.pause = DefaultPause
	}
	if c.stepMul < 0 {
		c.stepMul = DefaultStepMul
	}
	if opts.TrackSites {
		c.sites = allocsite.NewDepot()
	}
	return c
}

// Alloc registers obj with the collector and returns its handle.
//
// The object starts in the current white shade at the head of the object
// list. size is the number of bytes billed for it; 0 bills ObjectOverhead.
func (c *Collector) Alloc(obj heap.Object, size uint64) heap.Handle {
	if size == 0 {
		size = ObjectOverhead
	}
	h := c.arena.Alloc(obj, size)
	e := c.arena.Get(h)
	e.Color = c.currentWhite
	e.Next = c.root
	if c.sites != nil {
		e.Site = c.sites.Capture(1)
	}
	c.root = h
	c.allocBytes += size
	return h
}

// Get returns the object behind h, or nil if h is Nil or reclaimed.
func (c *Collector) Get(h heap.Handle) heap.Object {
	if e := c.arena.Get(h); e != nil {
		return e.Obj
	}
	return nil
}

// Entry exposes the collector state of h, or nil. Callers must not change
// colors or links; flags have dedicated methods.
func (c *Collector) Entry(h heap.Handle) *heap.Entry {
	return c.arena.Get(h)
}

// Alive reports whether h still refers to an object that is not pending
// destruction.
func (c *Collector) Alive(h heap.Handle) bool {
	e := c.arena.Get(h)
	return e != nil && !e.PendingDestroy
}

// SetFixed marks h as never swept (or clears the mark).
func (c *Collector) SetFixed(h heap.Handle, fixed bool) {
	if e := c.arena.Get(h); e != nil {
		e.Fixed = fixed
	}
}

// Destroy performs logical destruction of h: Teardown runs once and the
// object is left for the sweep to reclaim. References to it are cleared by
// the next mark that reaches them.
func (c *Collector) Destroy(h heap.Handle) {
	e := c.arena.Get(h)
	if e == nil || e.PendingDestroy || e.Cleanup {
		return
	}
	e.PendingDestroy = true
	e.Fixed = false
	c.teardown(e)
}

func (c *Collector) teardown(e *heap.Entry) {
	e.Cleanup = true
	e.Obj.Teardown()
	e.Cleanup = false
}

// Release takes h out of the graph: it is unlinked from the object list and
// ignored by marking and barriers from now on. The collector no longer
// reclaims it; the arena slot stays valid.
func (c *Collector) Release(h heap.Handle) {
	e := c.arena.Get(h)
	if e == nil || e.Released {
		return
	}
	if e.Color == heap.Gray {
		// Keep the gray worklist consistent.
		c.removeGray(h)
	}
	if prev, ok := c.findPrev(heap.Nil, h); ok {
		c.unlink(prev, h)
	}
	e.Released = true
	e.Rooted = false
	e.Color = c.currentWhite
	c.allocBytes -= min(c.allocBytes, e.Size)
	c.estimate -= min(c.estimate, e.Size)
}

func (c *Collector) removeGray(h heap.Handle) {
	prev := heap.Nil
	for cur := c.gray; cur != heap.Nil; {
		e := c.arena.Get(cur)
		if cur == h {
			if prev == heap.Nil {
				c.gray = e.GrayNext
			} else {
				c.arena.Get(prev).GrayNext = e.GrayNext
			}
			e.GrayNext = heap.Nil
			return
		}
		prev, cur = cur, e.GrayNext
	}
}

// Objects iterates over the object list from the head.
func (c *Collector) Objects() iter.Seq[heap.Handle] {
	return func(yield func(heap.Handle) bool) {
		for h := c.root; h != heap.Nil; h = c.arena.Get(h).Next {
			if !yield(h) {
				return
			}
		}
	}
}

// Count walks the object list and returns its length.
func (c *Collector) Count() int {
	n := 0
	for range c.Objects() {
		n++
	}
	return n
}

// next returns the entry after h, where Nil stands for the list head slot.
func (c *Collector) next(h heap.Handle) heap.Handle {
	if h == heap.Nil {
		return c.root
	}
	return c.arena.Get(h).Next
}

func (c *Collector) setNext(h, next heap.Handle) {
	if h == heap.Nil {
		c.root = next
		return
	}
	c.arena.Get(h).Next = next
}

// findPrev walks from start (Nil meaning the list head) to the entry whose
// next is target.
func (c *Collector) findPrev(start, target heap.Handle) (heap.Handle, bool) {
	for prev := start; ; {
		cur := c.next(prev)
		if cur == heap.Nil {
			return heap.Nil, false
		}
		if cur == target {
			return prev, true
		}
		prev = cur
	}
}

// unlink removes h, which follows prev. A sweep cursor resting on h moves
// back to prev so the sweep neither skips nor loses entries.
func (c *Collector) unlink(prev, h heap.Handle) {
	e := c.arena.Get(h)
	c.setNext(prev, e.Next)
	e.Next = heap.Nil
	if c.sweepPrev == h {
		c.sweepPrev = prev
	}
}

// linkAfter inserts h after prev (Nil meaning the list head).
func (c *Collector) linkAfter(prev, h heap.Handle) {
	c.arena.Get(h).Next = c.next(prev)
	c.setNext(prev, h)
}

// Shutdown is the final collection at program exit. The soft-root
// registry is dropped and every object that is not fixed is torn down and
// reclaimed regardless of reachability.
func (c *Collector) Shutdown() {
	c.phase = PhasePause
	c.dropSoftRootHead()
	c.gray = heap.Nil
	c.bulk = heap.Nil
	prev := heap.Nil
	for {
		h := c.next(prev)
		if h == heap.Nil {
			break
		}
		e := c.arena.Get(h)
		if e.Fixed {
			e.Color = c.currentWhite
			prev = h
			continue
		}
		c.unlink(prev, h)
		c.reclaim(e)
		if p := c.arena.Get(prev); prev != heap.Nil && (p == nil || p.Released) {
			// The teardown took prev out of the list; start over.
			prev = heap.Nil
		}
	}
	// A teardown may have registered a new soft root.
	c.dropSoftRootHead()
	c.sweepPrev = heap.Nil
	c.log.Debug("gc shutdown", "remaining", c.Count(), "alloc", c.allocBytes)
}
