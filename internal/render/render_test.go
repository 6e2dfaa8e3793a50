package render

import (
	"bytes"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/kolkov/objgc/internal/gc/collector"
	"github.com/kolkov/objgc/internal/gc/heap"
)

type node struct{ refs []heap.Handle }

func (n *node) TraceChildren(m heap.Marker) uint64 { m.MarkMany(n.refs); return 0 }
func (n *node) Teardown()                          {}

type roots []heap.Handle

func (r roots) MarkRoots(m heap.Marker) { m.MarkMany(r) }

// midCycle returns a collector halfway through propagation, so every color
// and flag appears in the picture.
func midCycle() *collector.Collector {
	c := collector.New(collector.DefaultOptions())
	leaf := c.Alloc(&node{}, 0)
	mid := c.Alloc(&node{refs: []heap.Handle{leaf}}, 0)
	top := c.Alloc(&node{refs: []heap.Handle{mid, mid}}, 0)
	self := &node{}
	loop := c.Alloc(self, 0)
	self.refs = []heap.Handle{loop}
	fixed := c.Alloc(&node{}, 0)
	c.SetFixed(fixed, true)
	soft := c.Alloc(&node{}, 0)
	c.AddSoftRoot(soft)
	doomed := c.Alloc(&node{}, 0)
	c.Destroy(doomed)

	c.AddRootSource(roots{top})
	c.MarkRoots()
	c.PropagateOne()
	return c
}

func TestEncodeSize(t *testing.T) {
	c := midCycle()
	opts := DefaultOptions()
	opts.Width, opts.Height = 640, 360
	opts.Title = "mid cycle"

	var buf bytes.Buffer
	if err := Encode(&buf, c, opts); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	cfg, err := png.DecodeConfig(&buf)
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
	if cfg.Width != 640 || cfg.Height != 360 {
		t.Errorf("size = %dx%d, want 640x360", cfg.Width, cfg.Height)
	}
}

func TestSavePNG(t *testing.T) {
	c := midCycle()
	path := filepath.Join(t.TempDir(), "heap.png")
	opts := DefaultOptions()
	opts.Columns = 3
	opts.MaxGray = 1
	opts.Label = func(h heap.Handle) string { return "obj " + h.String() }
	if err := SavePNG(path, c, opts); err != nil {
		t.Fatalf("SavePNG failed: %v", err)
	}
}

func TestDrawEmptyAndInvalid(t *testing.T) {
	c := collector.New(collector.DefaultOptions())
	if _, err := Draw(c, DefaultOptions()); err != nil {
		t.Errorf("Draw of an empty heap failed: %v", err)
	}
	if _, err := Draw(c, Options{}); err == nil {
		t.Error("Draw accepted a zero size")
	}
}
