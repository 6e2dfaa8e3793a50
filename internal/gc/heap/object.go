package heap

// Marker is implemented by the collector and handed to Object.TraceChildren.
type Marker interface {
	// Mark grays the object referenced by *ref. The slot may be cleared if
	// the referent is already pending destruction.
	Mark(ref *Handle)

	// MarkMany calls Mark on every element of refs.
	MarkMany(refs []Handle)
}

// Object is the capability every collectible kind implements.
type Object interface {
	// TraceChildren calls m.Mark on every reference the object holds and
	// returns the number of bytes examined beyond the object's own size.
	TraceChildren(m Marker) uint64

	// Teardown performs logical destruction: detaching from auxiliary lists,
	// dropping references. It runs exactly once, before reclamation.
	Teardown()
}
