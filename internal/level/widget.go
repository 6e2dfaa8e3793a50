package level

import (
	"slices"

	"github.com/kolkov/objgc/internal/gc/heap"
)

// Widget is a node of the status bar tree.
type Widget struct {
	l    *Level
	self heap.Handle

	Name     string
	parent   heap.Handle
	children []heap.Handle
}

func (w *Widget) TraceChildren(m heap.Marker) uint64 {
	m.Mark(&w.parent)
	m.MarkMany(w.children)
	return uint64(len(w.children)) * 8
}

// Teardown detaches the widget from its parent. Children lose their only
// reference and are collected.
func (w *Widget) Teardown() {
	if p := w.l.widget(w.parent); p != nil {
		p.children = slices.DeleteFunc(p.children, func(h heap.Handle) bool { return h == w.self })
	}
	for _, ch := range w.children {
		if c := w.l.widget(ch); c != nil {
			c.parent = heap.Nil
		}
	}
	w.parent = heap.Nil
	w.children = nil
}

func (l *Level) newWidget(name string, parent heap.Handle) heap.Handle {
	w := &Widget{l: l, Name: name, parent: parent}
	w.self = l.c.Alloc(w, 0)
	return w.self
}

// AddWidget creates a widget under parent and returns it.
func (l *Level) AddWidget(parent heap.Handle, name string) heap.Handle {
	p := l.widget(parent)
	if p == nil {
		return heap.Nil
	}
	h := l.newWidget(name, parent)
	p.children = append(p.children, h)
	l.c.WriteBarrier(parent, h)
	return h
}

// RemoveWidget destroys a widget and, through collection, its subtree.
func (l *Level) RemoveWidget(h heap.Handle) {
	if h == l.statusBar {
		return
	}
	l.c.Destroy(h)
}

// Widget returns the widget behind h, or nil.
func (l *Level) Widget(h heap.Handle) *Widget { return l.widget(h) }

func (l *Level) widget(h heap.Handle) *Widget {
	if h == heap.Nil {
		return nil
	}
	w, _ := l.c.Get(h).(*Widget)
	return w
}

// Children returns the child widgets of h.
func (w *Widget) Children() []heap.Handle {
	return slices.Clone(w.children)
}
