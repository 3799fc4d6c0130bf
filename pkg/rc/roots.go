package rc

import (
	"sync"
	"sync/atomic"
)

// Collector owns one roots buffer: the thread-local (goroutine-affine)
// ordered, duplicate-free sequence of suspected cycle roots described in
// spec §3.1/§4.6. Most programs never construct one directly and reach
// their goroutine's buffer via CollectCycles/NumberOfRootsBuffered, which
// resolve it through collectorRegistry below; an explicit Collector is
// useful for tests that want an isolated buffer no lookup can reach.
//
// A *Collector itself holds no lock: it is only ever safe to touch from
// the single goroutine that owns it, the same rule Header.checkOwner
// enforces per-object. collectorRegistry is what actually makes that
// safe when many goroutines share this package — each gets its own
// Collector instead of all of them appending to one shared slice.
type Collector struct {
	roots      []Node
	collecting int32 // guards invariant 8: collect_cycles is not re-entrant
}

// NewCollector returns an empty collector with its own roots buffer.
func NewCollector() *Collector {
	return &Collector{}
}

// addRoot appends o to the buffer and marks it buffered. Callers must have
// already checked o.header().buffered is false; addRoot does not
// re-check, mirroring the call sites in possibleRoot, which hold that
// invariant themselves (spec invariant 4: no duplicate enqueue).
func (c *Collector) addRoot(o Node) {
	o.header().buffered = true
	c.roots = append(c.roots, o)
}

// drain takes ownership of the current buffer contents, leaving it empty.
func (c *Collector) drain() []Node {
	drained := c.roots
	c.roots = nil
	return drained
}

// numberOfRootsBuffered reports the buffer's current length, for adaptive
// collection heuristics and for the exported NumberOfRootsBuffered.
func (c *Collector) numberOfRootsBuffered() int {
	return len(c.roots)
}

func (c *Collector) enterCollection() {
	if !atomic.CompareAndSwapInt32(&c.collecting, 0, 1) {
		panic("rc: CollectCycles is not re-entrant (invariant 8); do not call it from a Destructor")
	}
}

func (c *Collector) exitCollection() {
	atomic.StoreInt32(&c.collecting, 0)
}

// collectorRegistry maps a goroutine id to the Collector it owns. Go has
// no native thread-local storage, so this is what actually makes the
// roots buffer goroutine-local rather than a single global slice every
// goroutine mutates: two goroutines, each only ever touching their own
// objects, resolve to two different *Collector values and so never race
// on the same roots slice, with no lock needed on the hot Clone/Release
// path.
//
// Goroutine ids are reused once a goroutine exits. A lookup can return a
// Collector left behind by an unrelated, already-finished goroutine that
// happened to reuse its id; that is harmless here, since the roots in it
// only ever held objects owned by that old goroutine, Header.checkOwner
// already rejects any live handle touching them from elsewhere, and at
// most one goroutine is ever running at a given id at any instant, so the
// sync.Map entry itself is never written by two goroutines concurrently.
var collectorRegistry sync.Map // uint64 -> *Collector

// collectorForCurrentGoroutine returns the calling goroutine's Collector,
// creating it on first use.
func collectorForCurrentGoroutine() *Collector {
	gid := currentGoroutineID()
	if c, ok := collectorRegistry.Load(gid); ok {
		return c.(*Collector)
	}
	actual, _ := collectorRegistry.LoadOrStore(gid, NewCollector())
	return actual.(*Collector)
}
