package rc

// CollectCycles drains the calling goroutine's roots buffer and runs the
// three strictly-ordered phases described in spec §4.5: mark_roots,
// scan_roots, collect_roots. It is not safe to call re-entrantly (from a
// Destructor run during its own collect_roots phase) — doing so panics
// (invariant 8).
func CollectCycles() {
	collectorForCurrentGoroutine().CollectCycles()
}

// NumberOfRootsBuffered reports how many objects are currently buffered as
// candidate cycle roots on the calling goroutine's collector.
func NumberOfRootsBuffered() int {
	return collectorForCurrentGoroutine().numberOfRootsBuffered()
}

// CollectCycles runs the three collection phases against c's own roots
// buffer. Most callers want the package-level CollectCycles, which
// resolves the calling goroutine's own collector; this method exists for
// tests that want an isolated buffer no goroutine lookup can reach.
func (c *Collector) CollectCycles() {
	c.enterCollection()
	defer c.exitCollection()

	log.Debug("rc: collect_cycles: start")
	c.markRoots()
	c.scanRoots()
	c.collectRoots()
	log.Debug("rc: collect_cycles: done")
}

// markRoots is phase 1. It drains the buffer and, for each Purple root
// still reachable (strong > 0), walks the subgraph coloring it Gray and
// decrementing strong counts along every traced edge — tentatively
// removing the contribution each candidate root's own subgraph makes to
// itself. Objects that are not candidate roots are dropped from the
// buffer; if one has already reached strong=0 and Black, its deferred
// teardown (held back by release() while it was buffered) runs now.
func (c *Collector) markRoots() {
	working := c.drain()

	var kept []Node
	for _, o := range working {
		h := o.header()
		if h.color == Purple && h.strong > 0 {
			markGray(o)
			kept = append(kept, o)
			continue
		}

		h.buffered = false
		if h.color == Black && h.strong == 0 {
			deferredTeardown(o)
		}
	}

	c.roots = append(c.roots, kept...)
}

// markGray performs the gray mark traversal: the "already Gray" check is
// mandatory, not an optimization — without it a cross-edge that re-enters
// an already-visited node by a different path double-decrements its
// strong count (see spec §9's discussion of this exact bug class).
func markGray(o Node) {
	h := o.header()
	if h.color == Gray {
		return
	}
	h.color = Gray
	o.trace(func(child Node) {
		child.header().decStrong()
		markGray(child)
	})
}

// scanRoots is phase 2: for every remaining buffered root, classify its
// subgraph as live (Black, counts restored) or dead (White, awaiting
// reclamation).
func (c *Collector) scanRoots() {
	for _, o := range c.roots {
		scan(o)
	}
}

func scan(o Node) {
	h := o.header()
	if h.color != Gray {
		return
	}
	if h.strong > 0 {
		scanBlack(o)
		return
	}
	h.color = White
	o.trace(func(child Node) {
		scan(child)
	})
}

// scanBlack restores the strong counts markGray decremented. The
// recursion stops when a child is already Black *after* the increment —
// not before — which is the rule spec §9 calls out as the one some source
// revisions got wrong.
func scanBlack(o Node) {
	o.header().color = Black
	o.trace(func(child Node) {
		ch := child.header()
		ch.incStrong()
		if ch.color != Black {
			scanBlack(child)
		}
	})
}

// collectRoots is phase 3: drain the buffer, and for every root walk and
// collect every White-reachable node into wht. Each node's implicit weak
// reference is removed as soon as it is confirmed dead (the "strong first
// reached zero" event of invariant 2 — these nodes never individually went
// through the ordinary Strong.release()/teardown path, since their counts
// were manipulated directly by mark/scan) but deallocate is deliberately
// not called until every destructor in the group has run: Go's deallocate
// is a separate, explicit step under this package's control rather than a
// side effect automatically triggered the instant a Rust-style weak count
// hits zero, so "pinning" storage through the destructor loop is simply a
// matter of not calling it yet — exactly the property invariant 7 asks
// for, without needing a separate bump-then-unbump on the weak counter.
func (c *Collector) collectRoots() {
	drained := c.drain()

	var wht []Node
	for _, o := range drained {
		o.header().buffered = false
		collectWhite(o, &wht)
	}

	for _, n := range wht {
		n.dropPayload()
	}
	for _, n := range wht {
		h := n.header()
		if h.weak == 0 {
			n.deallocate()
		}
	}

	if len(wht) > 0 {
		log.WithField("reclaimed", len(wht)).Debug("rc: collect_cycles: reclaimed cycle members")
	}
}

func collectWhite(o Node, wht *[]Node) {
	h := o.header()
	if h.color != White || h.buffered {
		return
	}
	h.color = Black
	o.trace(func(child Node) {
		collectWhite(child, wht)
	})
	h.decWeak() // implicit weak: strong has now permanently reached zero
	*wht = append(*wht, o)
}

// deferredTeardown finishes the teardown release() deferred while an
// object was buffered with strong already at zero: drop the implicit
// weak reference and deallocate once no weak handles remain.
func deferredTeardown(o Node) {
	h := o.header()
	h.decWeak()
	if h.weak == 0 {
		o.deallocate()
	}
}
