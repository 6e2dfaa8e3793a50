package level

import "github.com/kolkov/objgc/internal/gc/heap"

// ActorSize is the number of bytes billed per actor.
const ActorSize = 512

// Actor is a thinker: it lives in the level's thinker list until destroyed.
type Actor struct {
	l    *Level
	self heap.Handle

	Name   string
	Health int

	prev, next heap.Handle
	target     heap.Handle
	inventory  heap.Handle
}

// TraceChildren marks the thinker links, the target and the inventory chain.
func (a *Actor) TraceChildren(m heap.Marker) uint64 {
	m.Mark(&a.prev)
	m.Mark(&a.next)
	m.Mark(&a.target)
	m.Mark(&a.inventory)
	return 0
}

// Teardown unlinks the actor from the thinker list and drops its references.
func (a *Actor) Teardown() {
	l, c := a.l, a.l.c
	if p := l.actor(a.prev); p != nil {
		p.next = a.next
		c.WriteBarrier(a.prev, a.next)
	} else if l.thinkers == a.self {
		l.thinkers = a.next
		c.WriteBarrier(heap.Nil, a.next)
	}
	if n := l.actor(a.next); n != nil {
		n.prev = a.prev
		c.WriteBarrier(a.next, a.prev)
	}
	a.prev, a.next = heap.Nil, heap.Nil
	a.target, a.inventory = heap.Nil, heap.Nil
}

// Spawn creates an actor and links it at the head of the thinker list.
func (l *Level) Spawn(name string) heap.Handle {
	a := &Actor{l: l, Name: name, Health: 100}
	h := l.c.Alloc(a, ActorSize)
	a.self = h

	if old := l.actor(l.thinkers); old != nil {
		old.prev = h
		l.c.WriteBarrier(l.thinkers, h)
	}
	a.next = l.thinkers
	l.c.WriteBarrier(h, a.next)
	l.thinkers = h
	l.c.WriteBarrier(heap.Nil, h)
	return h
}

// Actor returns the actor behind h, or nil.
func (l *Level) Actor(h heap.Handle) *Actor { return l.actor(h) }

func (l *Level) actor(h heap.Handle) *Actor {
	if h == heap.Nil {
		return nil
	}
	a, _ := l.c.Get(h).(*Actor)
	return a
}

// SetTarget makes a chase t. t may be Nil.
func (l *Level) SetTarget(a, t heap.Handle) {
	if act := l.actor(a); act != nil {
		act.target = t
		l.c.WriteBarrier(a, t)
	}
}

// Target returns the actor a chases, or Nil.
func (l *Level) Target(a heap.Handle) heap.Handle {
	if act := l.actor(a); act != nil {
		return act.target
	}
	return heap.Nil
}

// GiveItem pushes item on the front of owner's inventory chain. The item is
// an actor that is already in the thinker list.
func (l *Level) GiveItem(owner, item heap.Handle) {
	o, it := l.actor(owner), l.actor(item)
	if o == nil || it == nil {
		return
	}
	it.inventory = o.inventory
	l.c.WriteBarrier(item, it.inventory)
	o.inventory = item
	l.c.WriteBarrier(owner, item)
}

// Inventory returns owner's inventory chain, front first.
func (l *Level) Inventory(owner heap.Handle) []heap.Handle {
	var out []heap.Handle
	o := l.actor(owner)
	if o == nil {
		return nil
	}
	for h := o.inventory; h != heap.Nil; {
		it := l.actor(h)
		if it == nil {
			break
		}
		out = append(out, h)
		h = it.inventory
	}
	return out
}

// Kill destroys an actor. Handles to it elsewhere are cleared by the next
// mark that reaches them.
func (l *Level) Kill(a heap.Handle) {
	l.c.Destroy(a)
}

// Actors returns the thinker list, head first.
func (l *Level) Actors() []heap.Handle {
	var out []heap.Handle
	for h := l.thinkers; h != heap.Nil; {
		a := l.actor(h)
		if a == nil {
			break
		}
		out = append(out, h)
		h = a.next
	}
	return out
}

// CountActors returns the length of the thinker list.
func (l *Level) CountActors() int {
	return len(l.Actors())
}
