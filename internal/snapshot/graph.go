package snapshot

import (
	"fmt"
	"slices"

	"github.com/kolkov/objgc/internal/gc/collector"
	"github.com/kolkov/objgc/internal/gc/heap"
)

// Node is the collectible object created for every scenario object.
type Node struct {
	ID        ID
	Type      string
	Ptrs      []heap.Handle
	Teardowns int
}

// TraceChildren marks every pointer slot and bills 8 bytes per slot.
func (n *Node) TraceChildren(m heap.Marker) uint64 {
	m.MarkMany(n.Ptrs)
	return uint64(len(n.Ptrs)) * 8
}

// Teardown drops the node's references.
func (n *Node) Teardown() {
	n.Teardowns++
	n.Ptrs = nil
}

// Graph is a scenario built inside a collector. It is the root source for
// the scenario's root list.
type Graph struct {
	c       *collector.Collector
	handles map[ID]heap.Handle
	roots   []heap.Handle
	nextID  ID
}

// Build allocates a Node per scenario object, wires the pointers, registers
// the root list, adds the soft roots and finally destroys the objects listed
// as destroyed. s must be valid.
func Build(c *collector.Collector, s *Scenario) *Graph {
	g := &Graph{c: c, handles: make(map[ID]heap.Handle, len(s.Objects))}
	for _, obj := range s.Objects {
		g.alloc(obj.ID, obj.Type, obj.Size)
		if obj.ID >= g.nextID {
			g.nextID = obj.ID + 1
		}
	}
	for _, obj := range s.Objects {
		h := g.handles[obj.ID]
		for _, p := range obj.Ptrs {
			g.Link(h, g.handles[p])
		}
		if obj.Fixed {
			c.SetFixed(h, true)
		}
	}
	c.AddRootSource(g)
	for _, id := range s.Roots {
		g.AddRoot(g.handles[id])
	}
	for _, id := range s.SoftRoots {
		c.AddSoftRoot(g.handles[id])
	}
	for _, id := range s.Destroyed {
		c.Destroy(g.handles[id])
	}
	return g
}

func (g *Graph) alloc(id ID, typ string, size uint64) heap.Handle {
	h := g.c.Alloc(&Node{ID: id, Type: typ}, size)
	g.handles[id] = h
	return h
}

// MarkRoots marks the root list.
func (g *Graph) MarkRoots(m heap.Marker) {
	m.MarkMany(g.roots)
}

// NewObject allocates an unreferenced node with a fresh id.
func (g *Graph) NewObject(typ string, size uint64) heap.Handle {
	if g.nextID == 0 {
		g.nextID = 1
	}
	id := g.nextID
	g.nextID++
	return g.alloc(id, typ, size)
}

// Link appends a reference from -> to.
func (g *Graph) Link(from, to heap.Handle) {
	n := g.Node(from)
	if n == nil {
		return
	}
	n.Ptrs = append(n.Ptrs, to)
	g.c.WriteBarrier(from, to)
}

// Unlink removes every reference from -> to.
func (g *Graph) Unlink(from, to heap.Handle) {
	if n := g.Node(from); n != nil {
		n.Ptrs = slices.DeleteFunc(n.Ptrs, func(h heap.Handle) bool { return h == to })
	}
}

// AddRoot appends h to the root list.
func (g *Graph) AddRoot(h heap.Handle) {
	g.roots = append(g.roots, h)
	g.c.WriteBarrier(heap.Nil, h)
}

// RemoveRoot removes h from the root list.
func (g *Graph) RemoveRoot(h heap.Handle) {
	g.roots = slices.DeleteFunc(g.roots, func(r heap.Handle) bool { return r == h })
}

// Roots returns a copy of the root list.
func (g *Graph) Roots() []heap.Handle {
	return slices.Clone(g.roots)
}

// Handle returns the handle of scenario object id, or Nil when it was never
// built or has been reclaimed.
func (g *Graph) Handle(id ID) heap.Handle {
	h, ok := g.handles[id]
	if !ok || g.c.Get(h) == nil {
		return heap.Nil
	}
	return h
}

// Node returns the node behind h, or nil.
func (g *Graph) Node(h heap.Handle) *Node {
	if h == heap.Nil {
		return nil
	}
	n, _ := g.c.Get(h).(*Node)
	return n
}

// Label names h for display: "id:type" for nodes, the Go type otherwise.
func (g *Graph) Label(h heap.Handle) string {
	if n := g.Node(h); n != nil {
		if n.Type == "" {
			return fmt.Sprintf("%d", n.ID)
		}
		return fmt.Sprintf("%d:%s", n.ID, n.Type)
	}
	if obj := g.c.Get(h); obj != nil {
		return fmt.Sprintf("%T", obj)
	}
	return "?"
}

// Live returns the ids of nodes still known to the collector, sorted.
// Reclaimed ids are forgotten.
func (g *Graph) Live() []ID {
	var ids []ID
	for id, h := range g.handles {
		if g.c.Get(h) == nil {
			delete(g.handles, id)
			continue
		}
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Export describes the live, non-destroyed nodes as a scenario. References
// to objects that are not part of the export are dropped.
func (g *Graph) Export() *Scenario {
	s := &Scenario{Version: SupportedVersion}
	idOf := make(map[heap.Handle]ID)
	for h := range g.c.Objects() {
		if n := g.Node(h); n != nil && g.c.Alive(h) {
			idOf[h] = n.ID
		}
	}
	for h := range g.c.Objects() {
		id, ok := idOf[h]
		if !ok {
			continue
		}
		n := g.Node(h)
		e := g.c.Entry(h)
		obj := Object{ID: id, Type: n.Type, Size: e.Size, Fixed: e.Fixed}
		for _, p := range n.Ptrs {
			if pid, ok := idOf[p]; ok {
				obj.Ptrs = append(obj.Ptrs, pid)
			}
		}
		s.Objects = append(s.Objects, obj)
		if e.Rooted {
			s.SoftRoots = append(s.SoftRoots, id)
		}
	}
	for _, r := range g.roots {
		if id, ok := idOf[r]; ok {
			s.Roots = append(s.Roots, id)
		}
	}
	slices.SortFunc(s.Objects, func(a, b Object) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	slices.Sort(s.SoftRoots)
	return s
}
