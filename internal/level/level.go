package level

import (
	"fmt"

	"github.com/kolkov/objgc/internal/gc/collector"
	"github.com/kolkov/objgc/internal/gc/heap"
)

// Bulk batch sizes: sectors are cheap to scan, sides cheaper still.
const (
	SectorBatch = 32
	SideBatch   = 240
)

// MaxPlayers is the size of the player array.
const MaxPlayers = 8

// Player is one slot of the player array.
type Player struct {
	InGame bool
	Body   heap.Handle
	Camera heap.Handle
}

// Sector holds the interpolations of one sector's planes.
type Sector struct {
	Interp [2]heap.Handle
}

// Side holds the interpolations of one side's texture offsets.
type Side struct {
	Interp [3]heap.Handle
}

// Level owns the root-held references of a loaded map.
//
// Thread Safety: not safe for concurrent use, like the collector.
type Level struct {
	c *collector.Collector

	thinkers      heap.Handle
	handlersFirst heap.Handle
	handlersLast  heap.Handle
	statusBar     heap.Handle

	Players [MaxPlayers]Player
	Sectors []Sector
	Sides   []Side
}

// New creates a level with numSectors sectors and numSides sides and
// registers it with c. A status bar root widget is created right away.
//
// The registration is permanent; Unload empties the level so that it keeps
// nothing alive, and the bulk marker is dropped on the next cycle.
func New(c *collector.Collector, numSectors, numSides int) *Level {
	l := &Level{
		c:       c,
		Sectors: make([]Sector, numSectors),
		Sides:   make([]Side, numSides),
	}
	c.AddRootSource(l)
	c.AddBulk("sectors", sectorBulk{l}, SectorBatch)
	c.AddBulk("sides", sideBulk{l}, SideBatch)

	l.statusBar = l.newWidget("statusbar", heap.Nil)
	c.WriteBarrier(heap.Nil, l.statusBar)
	return l
}

// Collector returns the collector the level is registered with.
func (l *Level) Collector() *collector.Collector { return l.c }

// MarkRoots marks everything the level holds outside the bulk arrays.
func (l *Level) MarkRoots(m heap.Marker) {
	m.Mark(&l.thinkers)
	m.Mark(&l.handlersFirst)
	m.Mark(&l.handlersLast)
	m.Mark(&l.statusBar)
	for i := range l.Players {
		m.Mark(&l.Players[i].Body)
		m.Mark(&l.Players[i].Camera)
	}
}

// SetPlayerBody stores the actor a player controls.
func (l *Level) SetPlayerBody(i int, a heap.Handle) {
	p := &l.Players[i]
	p.InGame = a != heap.Nil
	p.Body = a
	l.c.WriteBarrier(heap.Nil, a)
}

// SetPlayerCamera stores the actor a player views from.
func (l *Level) SetPlayerCamera(i int, a heap.Handle) {
	l.Players[i].Camera = a
	l.c.WriteBarrier(heap.Nil, a)
}

// StatusBar returns the root widget of the status bar.
func (l *Level) StatusBar() heap.Handle { return l.statusBar }

// Unload destroys every actor, event handler and widget, clears the root
// arrays and runs a full collection. The level can be reused afterwards
// with Resize.
func (l *Level) Unload() {
	for h := l.thinkers; h != heap.Nil; {
		a := l.actor(h)
		if a == nil {
			break
		}
		next := a.next
		l.c.Destroy(h)
		h = next
	}
	for h := l.handlersFirst; h != heap.Nil; {
		e := l.handler(h)
		if e == nil {
			break
		}
		next := e.next
		l.c.Destroy(h)
		h = next
	}
	l.c.Destroy(l.statusBar)

	l.thinkers, l.handlersFirst, l.handlersLast, l.statusBar = heap.Nil, heap.Nil, heap.Nil, heap.Nil
	l.Players = [MaxPlayers]Player{}
	l.Sectors = nil
	l.Sides = nil
	l.c.FullGC()
}

// Resize replaces the sector and side arrays. Existing interpolations are
// dropped with them and collected as garbage.
func (l *Level) Resize(numSectors, numSides int) {
	l.Sectors = make([]Sector, numSectors)
	l.Sides = make([]Side, numSides)
}

// String summarises the level for logs.
func (l *Level) String() string {
	return fmt.Sprintf("level{actors:%d handlers:%d sectors:%d sides:%d}",
		l.CountActors(), l.CountHandlers(), len(l.Sectors), len(l.Sides))
}

type sectorBulk struct{ l *Level }

func (b sectorBulk) Len() int { return len(b.l.Sectors) }

func (b sectorBulk) MarkElem(i int, m heap.Marker) uint64 {
	m.MarkMany(b.l.Sectors[i].Interp[:])
	return 16
}

type sideBulk struct{ l *Level }

func (b sideBulk) Len() int { return len(b.l.Sides) }

func (b sideBulk) MarkElem(i int, m heap.Marker) uint64 {
	m.MarkMany(b.l.Sides[i].Interp[:])
	return 24
}
