package level

import "github.com/kolkov/objgc/internal/gc/heap"

// EventHandler is a scripted handler in the level's ordered handler list.
type EventHandler struct {
	l    *Level
	self heap.Handle

	Name       string
	prev, next heap.Handle
}

func (e *EventHandler) TraceChildren(m heap.Marker) uint64 {
	m.Mark(&e.prev)
	m.Mark(&e.next)
	return 0
}

// Teardown unlinks the handler, keeping first and last consistent.
func (e *EventHandler) Teardown() {
	l, c := e.l, e.l.c
	if p := l.handler(e.prev); p != nil {
		p.next = e.next
		c.WriteBarrier(e.prev, e.next)
	} else if l.handlersFirst == e.self {
		l.handlersFirst = e.next
		c.WriteBarrier(heap.Nil, e.next)
	}
	if n := l.handler(e.next); n != nil {
		n.prev = e.prev
		c.WriteBarrier(e.next, e.prev)
	} else if l.handlersLast == e.self {
		l.handlersLast = e.prev
		c.WriteBarrier(heap.Nil, e.prev)
	}
	e.prev, e.next = heap.Nil, heap.Nil
}

// AddEventHandler appends a handler to the end of the list.
func (l *Level) AddEventHandler(name string) heap.Handle {
	e := &EventHandler{l: l, Name: name}
	h := l.c.Alloc(e, 0)
	e.self = h

	if last := l.handler(l.handlersLast); last != nil {
		last.next = h
		l.c.WriteBarrier(l.handlersLast, h)
		e.prev = l.handlersLast
	} else {
		l.handlersFirst = h
		l.c.WriteBarrier(heap.Nil, h)
	}
	l.handlersLast = h
	l.c.WriteBarrier(heap.Nil, h)
	return h
}

// RemoveEventHandler destroys a handler.
func (l *Level) RemoveEventHandler(h heap.Handle) {
	if l.handler(h) != nil {
		l.c.Destroy(h)
	}
}

// EventHandlers returns the handler names in list order.
func (l *Level) EventHandlers() []string {
	var out []string
	for h := l.handlersFirst; h != heap.Nil; {
		e := l.handler(h)
		if e == nil {
			break
		}
		out = append(out, e.Name)
		h = e.next
	}
	return out
}

// CountHandlers returns the length of the handler list.
func (l *Level) CountHandlers() int {
	return len(l.EventHandlers())
}

func (l *Level) handler(h heap.Handle) *EventHandler {
	if h == heap.Nil {
		return nil
	}
	e, _ := l.c.Get(h).(*EventHandler)
	return e
}
