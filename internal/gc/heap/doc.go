// Package heap implements the handle arena that backs every collectible object.
//
// Objects are never referenced by Go pointer from inside the graph. Instead each
// object lives in an arena slot and is addressed by a Handle: the slot index in
// the low 32 bits and a generation counter in the high 32 bits. Reclaiming a
// slot bumps its generation, so a handle kept past reclamation resolves to nil
// rather than to whatever object reuses the slot.
//
// # Components
//
// Entry: the per-object collector state (color, flags, intrusive links).
//
// Arena: slot storage with a free list.
//
// Object and Marker: the two capability interfaces the collector is generic
// over. Every collectible kind implements Object; the collector implements
// Marker and passes itself to TraceChildren.
//
// # Thread Safety
//
// None. The arena is owned by a single collector and used from the host loop.
package heap
