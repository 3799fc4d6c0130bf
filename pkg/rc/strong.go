package rc

import "fmt"

// Strong is a shared-ownership handle. Cloning it increments the
// allocation's strong count; Release decrements it and, on the owning
// goroutine, either frees the allocation outright or hands it to the
// collector as a candidate cycle root (spec §4.4).
//
// Go has no implicit destructors, so Release must be called explicitly —
// it is the Go analogue of the original's Drop impl, not a finalizer.
type Strong[T any] struct {
	b *box[T]
}

// New allocates a fresh Strong[T] with strong=1, weak=1, color=Black.
func New[T any](value T) Strong[T] {
	return Strong[T]{b: newBox(value)}
}

// Clone increments the strong count and recolors the object Black,
// escaping any prior candidate-root state (spec §3.4 "Clone strong").
func (s Strong[T]) Clone() Strong[T] {
	s.b.hdr.checkOwner()
	s.b.hdr.incStrong()
	return Strong[T]{b: s.b}
}

// Release decrements the strong count. If it reaches zero the payload's
// destructor runs immediately and, if the object is not currently
// buffered, the implicit weak reference is dropped right away, releasing
// storage if no Weak handle remains — no cycle is possible once the last
// strong handle is gone. If the count stays positive the object
// may become a candidate root (spec §4.4).
//
// Release panics if storage was already released — by a prior Release
// bringing strong to zero with no surviving weak handle, or by a prior
// TryUnwrap — rather than driving strong negative and re-enqueuing an
// already-dead allocation as a candidate root.
func (s Strong[T]) Release() {
	s.b.hdr.checkOwner()
	h := &s.b.hdr
	if !s.b.alive && h.strong == 0 {
		panic("rc: Release of a Strong[T] whose storage was already released")
	}
	h.decStrong()
	if h.strong == 0 {
		s.release()
	} else {
		s.possibleRoot()
	}
}

// release runs when the strong count has just reached zero: run the
// destructor, recolor Black, and either defer teardown to the next
// mark_roots pass (if still buffered) or tear down now.
func (s Strong[T]) release() {
	s.b.dropPayload()
	s.b.hdr.color = Black
	if s.b.hdr.buffered {
		// mark_roots will finish teardown for us once it drains this
		// object out of the buffer.
		return
	}
	s.teardown()
}

// teardown drops the implicit weak reference and deallocates storage once
// no weak handles remain (spec §3.4 "Drop strong, strong = 0").
func (s Strong[T]) teardown() {
	s.b.hdr.decWeak()
	if s.b.hdr.weak == 0 {
		s.b.deallocate()
	}
}

// possibleRoot marks the object Purple and enqueues it as a candidate
// cycle root, unless it is already Purple or already buffered (spec §4.4
// step 3, invariants 4 and 5).
func (s Strong[T]) possibleRoot() {
	h := &s.b.hdr
	if h.color == Purple {
		return
	}
	h.color = Purple
	if h.buffered {
		return
	}
	collectorForCurrentGoroutine().addRoot(s.b)
}

// Get returns the payload. It panics if the payload has already been
// destroyed while its storage survives — the exact situation a sibling
// cycle member's Destructor can observe mid-collection (spec §4.3, §7).
func (s Strong[T]) Get() *T {
	s.b.hdr.checkOwner()
	if !s.b.alive {
		panic("rc: deref of a Strong[T] whose payload was already collected")
	}
	return &s.b.value
}

// TryUnwrap returns the payload by value and releases storage if this is
// the only handle to the allocation (no other Strong, no Weak). Otherwise
// it returns ErrNotUnique and leaves the allocation untouched — s is
// consumed by convention (the original Rust API consumes self), and Go's
// type system cannot enforce that the way Rust's moved self does; using s
// again after a successful unwrap panics, on either Get or Release.
func (s Strong[T]) TryUnwrap() (T, error) {
	s.b.hdr.checkOwner()
	if !s.IsUnique() {
		var zero T
		return zero, notUniqueError(s.WeakCount(), s.StrongCount())
	}
	val := s.b.value
	var zero T
	s.b.value = zero
	s.b.alive = false
	s.b.deallocate()
	return val, nil
}

// GetMut returns a mutable reference to the payload if this handle is
// unique, or false otherwise.
func (s Strong[T]) GetMut() (*T, bool) {
	s.b.hdr.checkOwner()
	if !s.IsUnique() {
		return nil, false
	}
	return &s.b.value, true
}

// MakeUnique returns a mutable reference to the payload, cloning it first
// (copy-on-write) if this handle is not already unique. T must implement
// Cloner for the cloning branch to be usable.
func MakeUnique[T Cloner[T]](s *Strong[T]) *T {
	if !s.IsUnique() {
		cloned := s.Get().Clone()
		s.Release()
		*s = New(cloned)
	}
	return &s.b.value
}

// Cloner is the copy-on-write hook MakeUnique relies on to duplicate a
// payload that is still shared.
type Cloner[T any] interface {
	Clone() T
}

// IsUnique reports whether no other Strong and no Weak handle share this
// allocation.
func (s Strong[T]) IsUnique() bool {
	return s.WeakCount() == 0 && s.StrongCount() == 1
}

// StrongCount returns the number of live Strong handles. Its value is
// undefined for an object currently colored Gray (spec §5) — no caller can
// observe that state through the public API without having already broken
// the algorithm's invariants themselves.
func (s Strong[T]) StrongCount() int { return s.b.hdr.strong }

// WeakCount returns the number of live Weak handles, excluding the
// implicit weak reference held jointly by all Strong handles.
func (s Strong[T]) WeakCount() int { return s.b.hdr.weak - 1 }

// Downgrade produces a non-owning Weak[T] to the same allocation.
func (s Strong[T]) Downgrade() Weak[T] {
	s.b.hdr.checkOwner()
	s.b.hdr.incWeak()
	return Weak[T]{b: s.b}
}

// PtrEq reports whether a and b point at the same allocation, regardless
// of payload equality.
func PtrEq[T any](a, b Strong[T]) bool {
	return a.b == b.b
}

// AsNode returns the type-erased Node view of this handle's allocation, for
// payload Trace implementations to pass to the Tracer callback:
//
//	func (o *Owner) Trace(visit rc.Tracer) {
//	    visit(o.parent.AsNode())
//	}
func (s Strong[T]) AsNode() Node {
	return s.b
}

// Equal reports whether a and b's payloads are equal, forwarding to the
// payload's own == the way the original Rust `Cc<T>` forwards to its
// inner value's PartialEq. This compares contents, not identity — use
// PtrEq for "do these point at the same allocation".
func Equal[T comparable](a, b Strong[T]) bool {
	return *a.Get() == *b.Get()
}

// Defaulter is the Default-forwarding hook DefaultStrong relies on, the
// Go analogue of the original's `impl<T: Default> Default for Cc<T>`.
type Defaulter[T any] interface {
	Default() T
}

// DefaultStrong allocates a fresh Strong[T] holding T's own zero-value
// construction, the way `Cc::<T>::default()` calls through to
// `T::default()` rather than leaving the allocation empty.
func DefaultStrong[T Defaulter[T]]() Strong[T] {
	var zero T
	return New(zero.Default())
}

func (s Strong[T]) String() string {
	if !s.b.alive {
		return "rc.Strong(<collected>)"
	}
	if str, ok := any(s.b.value).(fmt.Stringer); ok {
		return str.String()
	}
	return fmt.Sprintf("%v", s.b.value)
}
