package collector

import (
	"math"

	"github.com/kolkov/objgc/internal/gc/heap"
)

// Phase is the state of the collection cycle.
type Phase int

const (
	// PhasePause waits for the allocation threshold.
	PhasePause Phase = iota
	// PhasePropagate drains the gray worklist.
	PhasePropagate
	// PhaseSweep reclaims dead objects in batches.
	PhaseSweep
	// PhaseFinalize records the end of the cycle.
	PhaseFinalize
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhasePause:
		return "Pause"
	case PhasePropagate:
		return "Propagate"
	case PhaseSweep:
		return "Sweep"
	case PhaseFinalize:
		return "Finalize"
	default:
		return "Unknown"
	}
}

// Work accounting constants, in bytes.
const (
	// ObjectOverhead is the billed size of a bare object header.
	ObjectOverhead = 64

	// StepSize is the minimum work performed by one Step.
	StepSize = ObjectOverhead * 16

	// SweepMax is the number of entries visited per sweep batch.
	SweepMax = 40

	// SweepCost is billed for every entry a sweep batch keeps.
	SweepCost = ObjectOverhead / 4

	// FinalizeCost is billed for every entry a sweep batch reclaims.
	FinalizeCost = 100

	unbounded = math.MaxUint64 / 2
)

// calcStepSize sizes a step from the allocation rate since the last cycle
// finished. A zero step multiplier, or no elapsed time, means no limit.
func (c *Collector) calcStepSize() uint64 {
	var elapsed uint64
	if c.checkTime > c.lastCollectTime {
		elapsed = c.checkTime - c.lastCollectTime
	}
	base := min(c.lastCollectAlloc, c.estimate)
	var gained uint64
	if c.allocBytes > base {
		gained = c.allocBytes - base
	}
	if c.stepMul > 0 && elapsed > 0 {
		return max(StepSize, gained/elapsed*uint64(c.stepMul)/100)
	}
	return unbounded
}

func (c *Collector) setThreshold() {
	c.threshold = c.estimate / 100 * uint64(c.pause)
}

// atomic ends the mark phase: the white shades swap meaning, so everything
// left unmarked becomes the dead shade, and the sweep starts at the head.
func (c *Collector) atomic() {
	c.currentWhite = c.otherWhite()
	c.sweepPrev = heap.Nil
	c.phase = PhaseSweep
	c.estimate = c.allocBytes

	// Baseline speed for the sweep, so it does not slow down if allocation
	// does.
	c.minStepSize = c.calcStepSize()
	c.log.Debug("gc atomic", "estimate", c.estimate, "min_step", c.minStepSize)
}

// singleStep performs one unit of work of the current phase and returns
// its cost in bytes.
func (c *Collector) singleStep() uint64 {
	switch c.phase {
	case PhasePause:
		c.MarkRoots()
		return 0

	case PhasePropagate:
		if c.gray == heap.Nil {
			c.atomic()
			return 0
		}
		n := c.PropagateOne()
		if c.verify {
			if err := c.Verify(); err != nil {
				panic(err)
			}
		}
		return n

	case PhaseSweep:
		old := c.allocBytes
		res := c.SweepBatch(c.sweepPrev, SweepMax)
		if res.Done {
			c.phase = PhaseFinalize
		}
		if c.allocBytes > old {
			// A teardown allocated more than the batch freed.
			c.estimate += c.allocBytes - old
		} else {
			c.estimate -= min(c.estimate, old-c.allocBytes)
		}
		return uint64(SweepMax-res.Finalized)*SweepCost + uint64(res.Finalized)*FinalizeCost

	case PhaseFinalize:
		c.phase = PhasePause
		c.lastCollectAlloc = c.allocBytes
		c.lastCollectTime = c.checkTime
		c.cycles++
		c.log.Debug("gc cycle end", "alloc", c.allocBytes, "estimate", c.estimate, "cycles", c.cycles)
		return 0

	default:
		invariant("singleStep", heap.Nil, "unknown phase %d", c.phase)
		return 0
	}
}

// SingleStep performs one unit of work of the current phase, ignoring the
// step budget, and returns its cost in bytes. Tools use it to advance a
// cycle one visible change at a time.
func (c *Collector) SingleStep() uint64 {
	return c.singleStep()
}

// Step performs one host tick worth of collection work. The budget is
// recomputed from the current allocation rate, but never drops below the
// speed chosen when the sweep began.
func (c *Collector) Step() {
	lim := max(c.calcStepSize(), c.minStepSize)
	for {
		done := c.singleStep()
		if done < lim {
			lim -= done
		} else {
			lim = 0
		}
		if lim == 0 || c.phase == PhasePause {
			break
		}
	}
	if c.phase != PhasePause {
		c.threshold = c.allocBytes
	} else {
		c.setThreshold()
	}
	c.stepCount++
}

// CheckGC is called once per host tick with the host's current time (any
// monotonic unit, typically milliseconds). It steps the collector when
// allocation has reached the threshold.
func (c *Collector) CheckGC(now uint64) {
	c.checkTime = now
	if c.allocBytes >= c.threshold {
		c.Step()
	}
}

// FullGC finishes the current cycle and runs a complete one synchronously.
// Use it at points where determinism matters, such as level transitions.
func (c *Collector) FullGC() {
	if c.phase <= PhasePropagate {
		// Sweep everything back to white without flipping.
		c.sweepPrev = heap.Nil
		c.gray = heap.Nil
		c.phase = PhaseSweep
	}
	for c.phase != PhaseFinalize {
		c.singleStep()
	}
	c.MarkRoots()
	for c.phase != PhasePause {
		c.singleStep()
	}
	c.setThreshold()
}

// Stop disables automatic collection until the threshold is changed again.
func (c *Collector) Stop() {
	c.threshold = math.MaxUint64 - 2
}

// Now makes the next CheckGC start working.
func (c *Collector) Now() {
	c.threshold = c.allocBytes
}

// Pause returns the pause percentage.
func (c *Collector) Pause() int { return c.pause }

// SetPause sets the pause percentage, clamped to at least 1.
func (c *Collector) SetPause(p int) { c.pause = max(1, p) }

// StepMul returns the step multiplier percentage.
func (c *Collector) StepMul() int { return c.stepMul }

// SetStepMul sets the step multiplier percentage. Zero makes every step
// unbounded; negative values are treated as zero.
func (c *Collector) SetStepMul(m int) { c.stepMul = max(0, m) }

// Phase returns the current phase.
func (c *Collector) Phase() Phase { return c.phase }

// CurrentWhite returns the white shade that means "not yet reached" in the
// running cycle.
func (c *Collector) CurrentWhite() heap.Color { return c.currentWhite }
