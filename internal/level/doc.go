// Package level is a small engine level built on the collector.
//
// It holds the kinds of references a game level keeps into the object graph
// and shows how each kind is presented to the collector:
//
//	Thinker list     actors linked through next/prev, head held by the level
//	Players          fixed array of MaxPlayers, body and camera per player
//	Event handlers   doubly linked list, first and last held by the level
//	Status bar       widget tree rooted at one widget
//	Sectors, sides   large arrays holding interpolation objects, marked in
//	                 batches by the collector's bulk root
//
// The level registers itself as a root source for the first four and as two
// bulk sections for the arrays. Every setter that stores a handle into a
// collectible object or a root calls the write barrier.
//
// Example:
//
//	c := collector.New(collector.DefaultOptions())
//	l := level.New(c, 64, 256)
//	a := l.Spawn("imp")
//	l.SetPlayerBody(0, a)
//	l.Interpolate(3, level.Floor)
//	c.FullGC()
package level
