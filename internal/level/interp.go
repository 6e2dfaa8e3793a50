package level

import (
	"fmt"

	"github.com/kolkov/objgc/internal/gc/heap"
)

// Part selects what an interpolation moves.
type Part int

const (
	// Floor and Ceiling are sector planes.
	Floor Part = iota
	Ceiling

	// Top, Mid and Bottom are side texture offsets.
	Top
	Mid
	Bottom
)

func (p Part) String() string {
	switch p {
	case Floor:
		return "floor"
	case Ceiling:
		return "ceiling"
	case Top:
		return "top"
	case Mid:
		return "mid"
	case Bottom:
		return "bottom"
	}
	return fmt.Sprintf("Part(%d)", int(p))
}

// Interpolation smooths a moving surface between two ticks. It is owned by
// the sector or side slot that refers to it.
type Interpolation struct {
	l    *Level
	self heap.Handle

	Index int
	Part  Part

	Old, Cur float64
}

func (*Interpolation) TraceChildren(heap.Marker) uint64 { return 0 }

// Teardown clears the owning slot if it still refers to this interpolation.
func (in *Interpolation) Teardown() {
	if slot := in.l.slot(in.Index, in.Part); slot != nil && *slot == in.self {
		*slot = heap.Nil
	}
}

// Lerp returns the interpolated value at fraction f of the tick.
func (in *Interpolation) Lerp(f float64) float64 {
	return in.Old + (in.Cur-in.Old)*f
}

// Update records the value of a new tick.
func (in *Interpolation) Update(v float64) {
	in.Old, in.Cur = in.Cur, v
}

// slot returns the sector or side field for part, or nil when index is out
// of range.
func (l *Level) slot(index int, part Part) *heap.Handle {
	switch part {
	case Floor, Ceiling:
		if index < 0 || index >= len(l.Sectors) {
			return nil
		}
		return &l.Sectors[index].Interp[part]
	case Top, Mid, Bottom:
		if index < 0 || index >= len(l.Sides) {
			return nil
		}
		return &l.Sides[index].Interp[part-Top]
	}
	return nil
}

// Interpolate returns the interpolation for part of sector or side index,
// creating it on first use. It returns Nil for an out-of-range index.
func (l *Level) Interpolate(index int, part Part) heap.Handle {
	slot := l.slot(index, part)
	if slot == nil {
		return heap.Nil
	}
	if l.c.Alive(*slot) {
		return *slot
	}
	in := &Interpolation{l: l, Index: index, Part: part}
	h := l.c.Alloc(in, 0)
	in.self = h
	*slot = h
	// Bulk elements are roots; the batch holding this slot may already
	// have been scanned.
	l.c.WriteBarrier(heap.Nil, h)
	return h
}

// StopInterpolation destroys the interpolation for part of index, if any.
func (l *Level) StopInterpolation(index int, part Part) {
	if slot := l.slot(index, part); slot != nil && *slot != heap.Nil {
		l.c.Destroy(*slot)
	}
}

// Interpolation returns the interpolation behind h, or nil.
func (l *Level) Interpolation(h heap.Handle) *Interpolation {
	if h == heap.Nil {
		return nil
	}
	in, _ := l.c.Get(h).(*Interpolation)
	return in
}
