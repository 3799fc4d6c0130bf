package rc

// Tracer is invoked once for every Strong handle directly owned by a
// traced payload. The collector supplies it; payloads never construct one
// themselves.
type Tracer func(child Node)

// Trace is the traversal contract a payload implements to let the collector
// find the Strong handles it directly owns. Implementations must invoke the
// Tracer exactly once per directly-owned Strong handle — not transitively,
// the collector drives recursion itself — and must be idempotent: calling
// Trace twice on the same unmodified payload must invoke the Tracer with
// the same sequence of children.
//
// A payload that owns no Strong handles (primitives, strings, file
// handles, sockets, ...) need not implement Trace at all; an untraced
// payload is treated as a leaf.
type Trace interface {
	Trace(visit Tracer)
}

// Destructor lets a payload run cleanup when its last Strong handle drops
// its reference count to zero, or when it is reclaimed as part of a dead
// cycle. Go has no implicit destructors, so this is the explicit hook the
// collector calls in their place.
type Destructor interface {
	Drop()
}

func traceValue(value any, visit Tracer) {
	if t, ok := value.(Trace); ok {
		t.Trace(visit)
	}
}
