package rc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// listNode is a Trace-able, Destructor-able payload used across the
// scenario tests in this file: a node that owns zero or more Strong
// children and records when its destructor ran.
type listNode struct {
	name      string
	children  []Strong[*listNode]
	destroyed *bool
}

func newListNode(name string, destroyed *bool) Strong[*listNode] {
	return New(&listNode{name: name, destroyed: destroyed})
}

func (n *listNode) push(child Strong[*listNode]) {
	n.children = append(n.children, child)
}

func (n *listNode) Trace(visit Tracer) {
	for _, c := range n.children {
		visit(c.AsNode())
	}
}

func (n *listNode) Drop() {
	if n.destroyed != nil {
		*n.destroyed = true
	}
}

// TestTwoNodeCycle is spec §8.2 scenario 2: a and b reference each other;
// dropping both external handles leaves a cycle that plain reference
// counting cannot free, but CollectCycles reclaims it and runs both
// destructors exactly once.
func TestTwoNodeCycle(t *testing.T) {
	var aDestroyed, bDestroyed bool
	a := newListNode("a", &aDestroyed)
	b := newListNode("b", &bDestroyed)

	a.Get().push(b.Clone())
	b.Get().push(a.Clone())

	a.Release()
	b.Release()

	assert.False(t, aDestroyed)
	assert.False(t, bDestroyed)
	assert.Equal(t, 2, NumberOfRootsBuffered())

	CollectCycles()

	assert.True(t, aDestroyed)
	assert.True(t, bDestroyed)
	assert.Equal(t, 0, NumberOfRootsBuffered())
}

// cycleViaWeak is spec §8.2 scenario 3: a self-reference held only through
// a Weak pointer. Weak handles never contribute to the strong count, so
// ordinary reference counting (not the collector) reclaims it as soon as
// the external strong handle drops.
type cycleViaWeak struct {
	self      *Weak[*cycleViaWeak]
	destroyed *bool
}

func (c *cycleViaWeak) Drop() {
	if c.destroyed != nil {
		*c.destroyed = true
	}
}

func TestSelfCycleThroughWeak(t *testing.T) {
	var destroyed bool
	a := New(&cycleViaWeak{destroyed: &destroyed})
	w := a.Downgrade()
	a.Get().self = &w

	a.Release()
	assert.True(t, destroyed, "weak self-reference never touches the strong count")
	assert.Equal(t, 0, NumberOfRootsBuffered())

	w.Release()
}

// intBox wraps a Strong[int] as a payload so it can itself be held behind
// another Strong — Go has no implicit field destructors, so Drop here
// must explicitly release the inner handle, the idiomatic replacement for
// Rust's automatically-generated Drop glue.
type intBox struct {
	inner Strong[int]
}

func (b intBox) Trace(visit Tracer) {
	visit(b.inner.AsNode())
}

func (b intBox) Drop() {
	b.inner.Release()
}

// TestDoubleIndirection is spec §8.2 scenario 4.
func TestDoubleIndirection(t *testing.T) {
	ty := New(5)
	ty.Clone().Release()

	s := New(intBox{inner: ty})
	s.Clone().Release()
	s.Release()

	CollectCycles()
	assert.Equal(t, 0, NumberOfRootsBuffered())
}

// TestLiveBranchBesideDeadCycle is spec §8.2 scenario 5: a dead self-cycle
// coexists with a live, unrelated object graph. Collection must reclaim
// only the dead cycle and leave the live graph completely untouched.
func TestLiveBranchBesideDeadCycle(t *testing.T) {
	var circularDestroyed, envADestroyed, liveDestroyed bool

	liveEnv := newListNode("live_env", &liveDestroyed)
	envA := newListNode("env_a", &envADestroyed)
	envA.Get().push(liveEnv.Clone())

	circular := newListNode("circular_env", &circularDestroyed)
	circular.Get().push(circular.Clone())

	circular.Release()
	require.Equal(t, 1, NumberOfRootsBuffered())

	CollectCycles()

	assert.True(t, circularDestroyed)
	assert.False(t, envADestroyed)
	assert.False(t, liveDestroyed)
	assert.Len(t, envA.Get().children, 1)
	assert.Equal(t, 0, NumberOfRootsBuffered())

	envA.Release()
	liveEnv.Release()
}

func TestCollectCyclesIdempotentOnEmptyBuffer(t *testing.T) {
	require.Equal(t, 0, NumberOfRootsBuffered())
	assert.NotPanics(t, CollectCycles)
	assert.Equal(t, 0, NumberOfRootsBuffered())
}

func TestCollectCyclesNotReentrant(t *testing.T) {
	p := &reentrantPayload{}
	s := New(p)
	p.self = s.Clone() // self-cycle: nothing external will ever free this

	s.Release() // strong stays 1 (p.self) > 0: buffered as a candidate root

	// collectRoots will destruct this node, whose Drop calls CollectCycles
	// again; enterCollection's CAS guard must panic instead of recursing.
	assert.Panics(t, CollectCycles, "collect_cycles must not be re-entrant (invariant 8)")
}

type reentrantPayload struct {
	self Strong[*reentrantPayload]
}

func (p *reentrantPayload) Trace(visit Tracer) {
	visit(p.self.AsNode())
}

func (p *reentrantPayload) Drop() {
	CollectCycles()
}
