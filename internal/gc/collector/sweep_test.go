package collector

import (
	"testing"

	"github.com/kolkov/objgc/internal/gc/heap"
)

// TestSweepBatchBounded verifies that a batch never visits more than the
// requested number of entries and that the cursor is always a survivor.
func TestSweepBatchBounded(t *testing.T) {
	c, roots := newTestCollector(t)

	var live []heap.Handle
	for i := 0; i < 100; i++ {
		h, _ := alloc(c, "garbage")
		if i%10 == 0 {
			live = append(live, h)
		}
	}
	roots.refs = append([]heap.Handle(nil), live...)

	c.MarkRoots()
	c.PropagateAll()
	c.atomic()

	const batch = 7
	cursor := heap.Nil
	finalized, reset := 0, 0
	for i := 0; ; i++ {
		if i > 100 {
			t.Fatal("sweep did not finish")
		}
		res := c.SweepBatch(cursor, batch)
		if res.Reset+res.Finalized > batch {
			t.Fatalf("batch visited %d entries, want <= %d", res.Reset+res.Finalized, batch)
		}
		if res.Cursor != heap.Nil {
			e := c.Entry(res.Cursor)
			if e == nil || c.isDead(e) {
				t.Fatalf("cursor %v is not a survivor", res.Cursor)
			}
		}
		finalized += res.Finalized
		reset += res.Reset
		cursor = res.Cursor
		if res.Done {
			break
		}
	}

	if finalized != 90 {
		t.Errorf("finalized %d, want 90", finalized)
	}
	if reset != 10 {
		t.Errorf("reset %d, want 10", reset)
	}
	for _, h := range live {
		if got := c.Entry(h).Color; got != c.CurrentWhite() {
			t.Errorf("survivor %v color = %v, want %v", h, got, c.CurrentWhite())
		}
	}
	if got, want := c.Stats().AllocBytes, uint64(10*ObjectOverhead); got != want {
		t.Errorf("AllocBytes = %d, want %d", got, want)
	}
}

// relinker destroys a neighbour from its teardown, which unlinks nothing
// but exercises list access from inside a sweep batch.
type relinker struct {
	c        *Collector
	neighbor heap.Handle
}

func (r *relinker) TraceChildren(heap.Marker) uint64 { return 0 }
func (r *relinker) Teardown()                        { r.c.Destroy(r.neighbor) }

func TestSweepTeardownDestroysNeighbor(t *testing.T) {
	c, _ := newTestCollector(t)

	hn, nn := alloc(c, "neighbor")
	r := &relinker{c: c, neighbor: hn}
	c.Alloc(r, 0)

	c.FullGC()

	if nn.teardowns != 1 {
		t.Errorf("neighbor teardowns = %d, want 1", nn.teardowns)
	}
	if c.Count() != 0 {
		t.Errorf("Count() = %d, want 0", c.Count())
	}
}

// TestSweepSkipsNewObjects verifies that objects allocated during the sweep
// carry the current white and survive it.
func TestSweepSkipsNewObjects(t *testing.T) {
	c, _ := newTestCollector(t)
	for i := 0; i < 50; i++ {
		alloc(c, "garbage")
	}
	c.MarkRoots()
	c.PropagateAll()
	c.atomic()

	c.SweepBatch(c.sweepPrev, 5)
	fresh, _ := alloc(c, "fresh")
	for !c.SweepBatch(c.sweepPrev, 5).Done {
	}

	if c.Get(fresh) == nil {
		t.Error("object allocated during sweep was reclaimed")
	}
	if c.Count() != 1 {
		t.Errorf("Count() = %d, want 1", c.Count())
	}
}
