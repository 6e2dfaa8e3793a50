// Package gc provides an incremental tri-color collector for engine object
// graphs.
//
// The collector tracks objects that reference each other freely (actors,
// widgets, thinkers, interpolation helpers) and reclaims the ones that are
// no longer reachable, cycles included. Work is split into small steps that
// a real-time host loop runs once per tick, so a frame never pays for a full
// collection.
//
// # Quick Start
//
//	c := gc.New(gc.DefaultOptions())
//	c.AddRootSource(myLevel)
//
//	for tick := range ticks {
//		runFrame()
//		c.CheckGC(uint64(tick.UnixMilli()))
//	}
//
// # API Overview
//
// Objects implement [Object]: TraceChildren marks every held [Handle],
// Teardown releases whatever the object owns. Registration and lifecycle:
//   - [Collector.Alloc], [Collector.Destroy], [Collector.Release]
//   - [Collector.SetFixed], [Collector.AddSoftRoot], [Collector.DelSoftRoot]
//
// Roots come from [RootSource] values and, for large arrays, from [Bulk]
// sections marked a batch at a time.
//
// Every store of a handle into an object (or into a root) must be followed
// by a write barrier:
//
//	actor.target = t
//	c.WriteBarrier(actorHandle, t)
//
// # How It Works
//
// Objects are white, gray or black. A cycle marks the roots gray, then
// repeatedly blackens a gray object and grays its white children. When no
// gray object is left the two white shades swap meaning and a sweep reclaims
// everything still carrying the old shade, in batches of [SweepMax].
//
// Pacing follows two percentages: pause (default 150) sets how much the heap
// may grow past the live estimate before the next cycle; stepmul (default
// 200) sets how fast the collector works relative to allocation.
//
// # Configuration
//
// [ParseOptions] reads the OBJGC environment variable format:
//
//	OBJGC=pause=200,stepmul=400,verify=1
//
// Thread Safety: a Collector is not safe for concurrent use. Run it on the
// thread that mutates the graph.
package gc
