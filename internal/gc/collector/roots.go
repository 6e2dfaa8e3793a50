package collector

import "github.com/kolkov/objgc/internal/gc/heap"

// RootSource is a subsystem holding references from outside the graph:
// global singletons, per-player arrays, static lists. MarkRoots is called
// once at the start of every cycle and must Mark every such reference.
type RootSource interface {
	MarkRoots(m heap.Marker)
}

// Bulk is a collaborator-owned collection too large to mark in one go, such
// as the sectors of a map. It is marked in batches by a resumable root.
//
// Len is consulted on every batch, so the collection may grow, shrink or
// become empty between (and during) cycles.
type Bulk interface {
	Len() int

	// MarkElem marks the references held by element i and returns the
	// number of bytes examined.
	MarkElem(i int, m heap.Marker) uint64
}

// DefaultBulkBatch is the batch size used when AddBulk is given none.
const DefaultBulkBatch = 32

type bulkSection struct {
	name  string
	bulk  Bulk
	batch int
}

// AddRootSource registers a root collaborator. Sources are visited in
// registration order.
func (c *Collector) AddRootSource(src RootSource) {
	c.sources = append(c.sources, src)
}

// AddBulk registers a bulk collection. Sections are marked one after another
// by a single resumable root, batch elements per propagate step.
func (c *Collector) AddBulk(name string, b Bulk, batch int) {
	if batch <= 0 {
		batch = DefaultBulkBatch
	}
	c.sections = append(c.sections, bulkSection{name: name, bulk: b, batch: batch})
}

// MarkRoots resets the gray worklist and marks the whole root set: every
// registered source, the bulk root and the soft roots. The collector moves to
// the propagate phase.
func (c *Collector) MarkRoots() {
	c.gray = heap.Nil
	for _, src := range c.sources {
		src.MarkRoots(c)
	}

	c.syncBulk()
	c.Mark(&c.bulk)

	if c.softRoots != heap.Nil {
		for h := c.arena.Get(c.softRoots).Next; h != heap.Nil; {
			e := c.arena.Get(h)
			next := e.Next
			if e.Rooted && !e.PendingDestroy {
				c.Mark(&h)
			}
			h = next
		}
	}

	c.phase = PhasePropagate
	c.stepCount = 0
	c.log.Debug("gc cycle start", "alloc", c.allocBytes, "threshold", c.threshold)
}

// syncBulk creates, drops or rewinds the bulk marker to match the current
// element counts of the registered sections.
func (c *Collector) syncBulk() {
	total := 0
	for _, s := range c.sections {
		total += s.bulk.Len()
	}

	switch {
	case total == 0:
		// The old marker, if any, is unreachable now and gets swept.
		c.bulk = heap.Nil
	case c.bulk == heap.Nil || c.arena.Get(c.bulk) == nil:
		m := &bulkMarker{c: c}
		c.bulk = c.Alloc(m, 0)
		m.self = c.bulk
		m.rewind()
	default:
		c.arena.Get(c.bulk).Obj.(*bulkMarker).rewind()
	}
}

// bulkMarker marks registered Bulk sections a batch at a time and re-grays
// itself until every section is done.
type bulkMarker struct {
	c       *Collector
	self    heap.Handle
	cursors []int
}

func (b *bulkMarker) rewind() {
	b.cursors = b.cursors[:0]
	for range b.c.sections {
		b.cursors = append(b.cursors, 0)
	}
}

func (b *bulkMarker) TraceChildren(m heap.Marker) uint64 {
	var marked uint64
	more := false
	for i, s := range b.c.sections {
		if i >= len(b.cursors) {
			// Section registered mid-cycle; it is picked up next cycle.
			break
		}
		n := s.bulk.Len()
		if b.cursors[i] >= n {
			continue
		}
		j := 0
		for ; j < s.batch && b.cursors[i]+j < n; j++ {
			marked += s.bulk.MarkElem(b.cursors[i]+j, m)
		}
		b.cursors[i] += j
		if b.cursors[i] < n {
			more = true
			break
		}
	}
	if more {
		b.c.regray(b.self)
	}
	return marked
}

func (b *bulkMarker) Teardown() {}
