// Package collector implements an incremental tri-color mark-and-sweep
// collector for engine object graphs.
//
// # Architecture
//
// The collector consists of five cooperating parts, all owned by one
// Collector value:
//
//  1. Mark engine: the gray worklist, Mark/PropagateOne and the write barrier
//  2. Root enumerator: registered RootSource collaborators, the bulk root
//     (marked in fixed-size batches) and the soft-root segment
//  3. Sweep engine: bounded batches over the object list
//  4. Pacing controller: the pause/propagate/sweep/finalize state machine
//     driven once per host tick by CheckGC or Step
//  5. Soft-root registry: run-time roots kept after a sentinel at the tail of
//     the object list
//
// # Invariant
//
// While the collector is in the propagate phase no black object may reference
// an object of the current white shade. Every mutation that stores a
// reference into an object must go through WriteBarrier. Violations of this
// and other internal invariants panic with an *InvariantError; they are bugs,
// not runtime conditions.
//
// # Pacing
//
// Each Step performs a byte budget of work derived from the allocation rate
// since the last finished cycle, scaled by the step multiplier. The next
// cycle starts once live bytes grow to the pause percentage of the estimate
// left after the previous sweep.
//
// # Thread Safety
//
// None. The collector interleaves with the host loop cooperatively: Step and
// FullGC run to completion before the host resumes, and no locks are taken.
//
// # Example Usage
//
//	c := collector.New(collector.DefaultOptions())
//	c.AddRootSource(level)
//	for {
//	    level.Tick()
//	    c.CheckGC(uint64(frameTime.Milliseconds()))
//	}
package collector
