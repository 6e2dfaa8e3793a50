package collector

import (
	"fmt"

	"github.com/kolkov/objgc/internal/gc/heap"
)

// refRecorder is a Marker that only records the references it is shown.
type refRecorder struct {
	refs []heap.Handle
}

func (r *refRecorder) Mark(ref *heap.Handle) {
	if *ref != heap.Nil {
		r.refs = append(r.refs, *ref)
	}
}

func (r *refRecorder) MarkMany(refs []heap.Handle) {
	for i := range refs {
		r.Mark(&refs[i])
	}
}

// References lists the non-nil references held by h, without marking
// anything. Collector-internal objects report none.
func (c *Collector) References(h heap.Handle) []heap.Handle {
	e := c.arena.Get(h)
	if e == nil || e.PendingDestroy {
		return nil
	}
	switch e.Obj.(type) {
	case *bulkMarker, softRootHead:
		// Tracing these has side effects or nothing to show.
		return nil
	}
	var r refRecorder
	e.Obj.TraceChildren(&r)
	return r.refs
}

// Verify checks the tri-color invariant: during propagate, no black object
// may reference a current-white object or a reclaimed one. It returns nil in
// every other phase.
func (c *Collector) Verify() error {
	if c.phase != PhasePropagate {
		return nil
	}
	for h := range c.Objects() {
		e := c.arena.Get(h)
		if e.Color != heap.Black {
			continue
		}
		for _, ref := range c.References(h) {
			t := c.arena.Get(ref)
			switch {
			case t == nil:
				return &InvariantError{Op: "Verify", Handle: h,
					Detail: fmt.Sprintf("black object references reclaimed %s", ref)}
			case t.Color == c.currentWhite && !t.Released && !t.PendingDestroy:
				return &InvariantError{Op: "Verify", Handle: h,
					Detail: fmt.Sprintf("black object references white %s", ref)}
			}
		}
	}
	return nil
}
