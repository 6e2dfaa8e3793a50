package collector

import (
	"math"
	"testing"

	"github.com/kolkov/objgc/internal/gc/heap"
)

func TestPhaseString(t *testing.T) {
	tests := []struct {
		p    Phase
		want string
	}{
		{PhasePause, "Pause"},
		{PhasePropagate, "Propagate"},
		{PhaseSweep, "Sweep"},
		{PhaseFinalize, "Finalize"},
		{Phase(42), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.p.String(); got != tt.want {
			t.Errorf("Phase(%d).String() = %q, want %q", tt.p, got, tt.want)
		}
	}
}

// TestUnboundedStep verifies that a zero step multiplier finishes a whole
// cycle in one Step.
func TestUnboundedStep(t *testing.T) {
	opts := DefaultOptions()
	opts.StepMul = 0
	c := New(opts)
	roots := &rootSet{}
	c.AddRootSource(roots)

	for i := 0; i < 10; i++ {
		h, _ := alloc(c, "live")
		roots.refs = append(roots.refs, h)
	}
	for i := 0; i < 5; i++ {
		alloc(c, "garbage")
	}

	c.Now()
	c.CheckGC(1)

	st := c.Stats()
	if st.Phase != PhasePause {
		t.Errorf("Phase = %v, want Pause", st.Phase)
	}
	if st.Cycles != 1 {
		t.Errorf("Cycles = %d, want 1", st.Cycles)
	}
	if st.Reclaimed != 5 {
		t.Errorf("Reclaimed = %d, want 5", st.Reclaimed)
	}
	if want := uint64(10 * ObjectOverhead); st.Estimate != want {
		t.Errorf("Estimate = %d, want %d", st.Estimate, want)
	}
	if want := st.Estimate / 100 * DefaultPause; st.Threshold != want {
		t.Errorf("Threshold = %d, want %d", st.Threshold, want)
	}
}

// TestBoundedSteps drives a cycle through many small steps while the
// mutator keeps storing fresh objects into a black holder, with invariant
// verification after every propagate step.
func TestBoundedSteps(t *testing.T) {
	opts := DefaultOptions()
	opts.Verify = true
	c := New(opts)
	roots := &rootSet{}
	c.AddRootSource(roots)

	// A long chain so that propagation needs many steps.
	prev := heap.Nil
	for i := 0; i < 500; i++ {
		if prev == heap.Nil {
			prev, _ = alloc(c, "chain")
		} else {
			prev, _ = alloc(c, "chain", prev)
		}
	}
	holder, hn := alloc(c, "holder", prev)
	roots.refs = []heap.Handle{holder}
	for i := 0; i < 200; i++ {
		alloc(c, "garbage")
	}

	c.Now()
	c.CheckGC(1000)
	if c.Phase() == PhasePause {
		t.Fatal("first bounded step finished the whole cycle")
	}

	var added []heap.Handle
	for now := uint64(1001); c.Stats().Cycles == 0; now++ {
		if now > 100000 {
			t.Fatal("cycle did not finish")
		}
		h, _ := alloc(c, "added")
		hn.refs = append(hn.refs, h)
		c.WriteBarrier(holder, h)
		added = append(added, h)

		c.CheckGC(now)
	}

	if c.Get(holder) == nil {
		t.Fatal("holder reclaimed")
	}
	for _, h := range added {
		if c.Get(h) == nil {
			t.Fatalf("object %v stored through the barrier was reclaimed", h)
		}
	}
	if got := c.Stats().Reclaimed; got != 200 {
		t.Errorf("Reclaimed = %d, want 200", got)
	}
}

func TestStopAndNow(t *testing.T) {
	c, _ := newTestCollector(t)
	for i := 0; i < 10; i++ {
		alloc(c, "garbage")
	}

	c.Stop()
	if got := c.Stats().Threshold; got != math.MaxUint64-2 {
		t.Errorf("Threshold after Stop = %d, want MaxUint64-2", got)
	}
	c.CheckGC(5)
	if c.Stats().StepCount != 0 || c.Phase() != PhasePause {
		t.Error("CheckGC stepped while stopped")
	}

	c.SetStepMul(0)
	c.Now()
	c.CheckGC(5)
	if c.Stats().Cycles != 1 {
		t.Errorf("Cycles = %d after Now, want 1", c.Stats().Cycles)
	}
}

func TestPauseStepMulClamp(t *testing.T) {
	c, _ := newTestCollector(t)

	c.SetPause(0)
	if c.Pause() != 1 {
		t.Errorf("Pause() = %d, want 1", c.Pause())
	}
	c.SetStepMul(-5)
	if c.StepMul() != 0 {
		t.Errorf("StepMul() = %d, want 0", c.StepMul())
	}
	c.SetStepMul(300)
	if c.StepMul() != 300 {
		t.Errorf("StepMul() = %d, want 300", c.StepMul())
	}
}

// TestFullGCMidCycle verifies that FullGC abandons a running cycle without
// losing reachable objects.
func TestFullGCMidCycle(t *testing.T) {
	c, roots := newTestCollector(t)
	hb, _ := alloc(c, "B")
	ha, _ := alloc(c, "A", hb)
	roots.refs = []heap.Handle{ha}
	alloc(c, "garbage")

	c.MarkRoots()
	c.PropagateOne()

	c.FullGC()

	if c.Get(ha) == nil || c.Get(hb) == nil {
		t.Fatal("reachable object reclaimed by FullGC")
	}
	if c.Count() != 2 {
		t.Errorf("Count() = %d, want 2", c.Count())
	}
	if c.Phase() != PhasePause {
		t.Errorf("Phase() = %v, want Pause", c.Phase())
	}
}

func TestSweepTeardownAllocates(t *testing.T) {
	c, roots := newTestCollector(t)
	for i := 0; i < 20; i++ {
		h, _ := alloc(c, "live")
		roots.refs = append(roots.refs, h)
	}
	allocated := false
	c.Alloc(&hook{fn: func() {
		if !allocated {
			allocated = true
			c.Alloc(&node{name: "late"}, 4096)
		}
	}}, 0)

	c.FullGC()

	s := c.Stats()
	if want := uint64(20*ObjectOverhead + 4096); s.AllocBytes != want {
		t.Fatalf("AllocBytes = %d, want %d", s.AllocBytes, want)
	}
	if s.Estimate != s.AllocBytes {
		t.Errorf("Estimate = %d, want %d", s.Estimate, s.AllocBytes)
	}
	if want := s.Estimate / 100 * DefaultPause; s.Threshold != want {
		t.Errorf("Threshold = %d, want %d", s.Threshold, want)
	}
}
