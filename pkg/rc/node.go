package rc

// Node is the type-erased handle the collector traverses a heterogeneous
// object graph through. Every allocation is reachable as a Node regardless
// of its payload type T; the methods are unexported so only this package
// can implement or drive the traversal, while Strong[T]/Weak[T] remain the
// only public, type-safe way to hold a reference.
type Node interface {
	header() *Header
	trace(visit Tracer)
	dropPayload()
	deallocate()
}

// box is the backing allocation for a Strong[T]/Weak[T] pair: the payload
// plus its Header, held contiguously the way the spec's Object entity
// describes. Once deallocate has run, value holds its zero value and must
// never be read again.
type box[T any] struct {
	hdr   Header
	value T
	alive bool
}

func newBox[T any](value T) *box[T] {
	return &box[T]{
		hdr:   newHeader(),
		value: value,
		alive: true,
	}
}

func (b *box[T]) header() *Header { return &b.hdr }

func (b *box[T]) trace(visit Tracer) {
	if !b.alive {
		return
	}
	traceValue(b.value, visit)
}

// dropPayload runs the user destructor in place and clears the payload,
// separate from deallocate so collect_roots can destruct every member of a
// dead cycle first and only deallocate storage afterward, once no member's
// destructor can still observe another member through a stray weak upgrade.
func (b *box[T]) dropPayload() {
	if !b.alive {
		return
	}
	if d, ok := any(b.value).(Destructor); ok {
		d.Drop()
	}
	var zero T
	b.value = zero
	b.alive = false
	b.hdr.generation = 0
}

// deallocate releases the backing storage. Go has no manual free: this
// zeroes both counts to mark the storage as released, and the runtime GC
// reclaims the memory once no handle points to the box any more; it exists
// as a distinct step, mirroring the spec's split between "run destructor"
// and "release storage", so callers that need both are obvious about which
// one they asked for.
func (b *box[T]) deallocate() {
	b.hdr.strong = 0
	b.hdr.weak = 0
}
