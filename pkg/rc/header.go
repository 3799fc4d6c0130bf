package rc

// Header is the per-allocation metadata every Strong/Weak handle operates
// through. It is never reused once the backing storage is released.
type Header struct {
	strong   int
	weak     int
	color    Color
	buffered bool

	// generation is stamped at allocation and zeroed when the payload is
	// destroyed (see safety.go). Nothing in this package reads it: the
	// stale-deref check in Strong.Get keys off box.alive instead.
	generation uint64

	// owner is the goroutine this object was allocated on. Handles may
	// only be cloned, dropped, or dereferenced from that goroutine.
	owner uint64
}

func newHeader() Header {
	return Header{
		strong:     1,
		weak:       1,
		color:      Black,
		buffered:   false,
		generation: newGeneration(),
		owner:      currentGoroutineID(),
	}
}

func (h *Header) checkOwner() {
	if g := currentGoroutineID(); g != h.owner {
		panic("rc: Strong/Weak handle used from a different goroutine than it was created on")
	}
}

func (h *Header) incStrong() {
	h.strong++
	h.color = Black
}

func (h *Header) decStrong() {
	h.strong--
}

func (h *Header) incWeak() {
	h.weak++
}

func (h *Header) decWeak() {
	h.weak--
}
