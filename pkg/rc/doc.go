// Package rc implements a thread-local (goroutine-affine), deferred
// cycle-collecting smart pointer: Strong[T] for shared ownership and Weak[T]
// for non-owning observation, backed by explicit reference counting and a
// synchronous Bacon-Rajan cycle collector.
//
// Ordinary reference counting reclaims everything that isn't part of a
// cycle as soon as its last Strong handle is released. Cycles of Strong
// handles that reference each other are not reclaimed by counting alone;
// CollectCycles walks the suspected-root buffer through three phases
// (mark, scan, collect) to find and reclaim them.
//
// Payloads opt into cycle tracing by implementing Trace. Types that own no
// Strong handles need not implement it: an untraced payload is treated as a
// leaf, exactly like the primitives, strings, and file handles in the
// upstream bacon-rajan-cc crate this package is modeled on.
package rc
