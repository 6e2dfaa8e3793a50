package snapshot

import (
	"slices"
	"strings"
	"testing"

	"github.com/kolkov/objgc/internal/gc/collector"
	"github.com/kolkov/objgc/internal/gc/heap"
)

const sample = `{
	"version": "v1.0.0",
	"objects": [
		{"id": 1, "type": "level", "ptrs": [2, 3]},
		{"id": 2, "type": "actor", "size": 256, "ptrs": [1]},
		{"id": 3, "type": "actor", "ptrs": [4]},
		{"id": 4, "type": "actor"},
		{"id": 5, "type": "cycle", "ptrs": [6]},
		{"id": 6, "type": "cycle", "ptrs": [5]},
		{"id": 7, "type": "singleton", "fixed": true},
		{"id": 8, "type": "menu"},
		{"id": 9, "type": "dead"}
	],
	"roots": [1, 9],
	"soft_roots": [8],
	"destroyed": [4, 9]
}`

func build(t *testing.T) (*collector.Collector, *Graph) {
	t.Helper()
	s, err := Load(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	opts := collector.DefaultOptions()
	opts.Verify = true
	c := collector.New(opts)
	return c, Build(c, s)
}

// TestBuildAndCollect runs a full collection over the sample scenario.
func TestBuildAndCollect(t *testing.T) {
	c, g := build(t)

	if n := g.Node(g.Handle(2)); n == nil || n.Type != "actor" || len(n.Ptrs) != 1 {
		t.Fatalf("node 2 = %+v", n)
	}
	if e := c.Entry(g.Handle(2)); e.Size != 256 {
		t.Errorf("node 2 size = %d, want 256", e.Size)
	}

	c.FullGC()

	if got, want := g.Live(), []ID{1, 2, 3, 7, 8}; !slices.Equal(got, want) {
		t.Errorf("Live() = %v, want %v", got, want)
	}
	// Destroyed pointees are cleared from the slots that referenced them.
	if n := g.Node(g.Handle(3)); len(n.Ptrs) != 1 || n.Ptrs[0] != heap.Nil {
		t.Errorf("node 3 ptrs = %v, want [Nil]", n.Ptrs)
	}
	if g.Handle(5) != heap.Nil {
		t.Error("Handle(5) not Nil after collection")
	}
}

func TestGraphMutation(t *testing.T) {
	c, g := build(t)
	c.FullGC()

	h := g.NewObject("fresh", 0)
	if id := g.Node(h).ID; id != 10 {
		t.Errorf("new id = %d, want 10", id)
	}
	g.Link(g.Handle(1), h)
	c.FullGC()
	if c.Get(h) == nil {
		t.Fatal("linked object reclaimed")
	}

	g.Unlink(g.Handle(1), h)
	g.RemoveRoot(g.Handle(1))
	c.FullGC()

	if got, want := g.Live(), []ID{7, 8}; !slices.Equal(got, want) {
		t.Errorf("Live() = %v, want %v", got, want)
	}
	if len(g.Roots()) != 1 {
		t.Errorf("Roots() = %v, want the destroyed root only", g.Roots())
	}
}

func TestLabel(t *testing.T) {
	c, g := build(t)
	if got := g.Label(g.Handle(2)); got != "2:actor" {
		t.Errorf("Label = %q, want 2:actor", got)
	}
	c.AddSoftRoot(g.Handle(7))
	var sentinel heap.Handle
	for h := range c.Objects() {
		if g.Node(h) == nil {
			sentinel = h
		}
	}
	if got := g.Label(sentinel); !strings.Contains(got, "softRootHead") {
		t.Errorf("Label(sentinel) = %q", got)
	}
	if got := g.Label(heap.Nil); got != "?" {
		t.Errorf("Label(Nil) = %q, want ?", got)
	}
}

// TestExport verifies that exporting after a collection and rebuilding
// yields the same live graph.
func TestExport(t *testing.T) {
	c, g := build(t)
	c.FullGC()

	s := g.Export()
	if err := s.Validate(); err != nil {
		t.Fatalf("exported scenario invalid: %v", err)
	}
	var ids []ID
	for _, o := range s.Objects {
		ids = append(ids, o.ID)
	}
	if want := []ID{1, 2, 3, 7, 8}; !slices.Equal(ids, want) {
		t.Errorf("exported ids = %v, want %v", ids, want)
	}
	if !slices.Equal(s.Roots, []ID{1}) || !slices.Equal(s.SoftRoots, []ID{8}) {
		t.Errorf("Roots = %v, SoftRoots = %v", s.Roots, s.SoftRoots)
	}

	c2 := collector.New(collector.DefaultOptions())
	g2 := Build(c2, s)
	c2.FullGC()
	if !slices.Equal(g2.Live(), ids) {
		t.Errorf("rebuilt Live() = %v, want %v", g2.Live(), ids)
	}
}
