package rc

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCurrentGoroutineIDDiffersAcrossGoroutines(t *testing.T) {
	here := currentGoroutineID()

	var there uint64
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		there = currentGoroutineID()
	}()
	wg.Wait()

	assert.NotEqual(t, here, there)
	assert.NotZero(t, here)
	assert.NotZero(t, there)
}

func TestCrossGoroutineUsePanics(t *testing.T) {
	s := New(5)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		assert.Panics(t, func() {
			s.Clone()
		}, "cloning a Strong handle from a different goroutine than it was created on must panic")
	}()
	wg.Wait()

	s.Release()
}

// TestConcurrentGoroutinesUseIndependentRootsBuffers is the regression test
// for the roots-buffer race: each goroutine here builds and collects its
// own self-referential cycle concurrently with the others. If they shared
// one Collector's roots slice, this would be a concurrent append/drain on
// the same []Node; resolving each goroutine to its own Collector via
// collectorForCurrentGoroutine means none of them ever touch the other's
// buffer.
func TestConcurrentGoroutinesUseIndependentRootsBuffers(t *testing.T) {
	const n = 8
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			var destroyed bool
			a := newListNode("self", &destroyed)
			a.Get().push(a.Clone())

			a.Release()
			assert.Equal(t, 1, NumberOfRootsBuffered())
			CollectCycles()
			assert.True(t, destroyed)
			assert.Equal(t, 0, NumberOfRootsBuffered())
		}()
	}
	wg.Wait()
}

func TestWeakCloneAndReleaseAdjustWeakCount(t *testing.T) {
	s := New(1)
	w1 := s.Downgrade()
	assert.Equal(t, 1, s.WeakCount())

	w2 := w1.Clone()
	assert.Equal(t, 2, s.WeakCount())

	w1.Release()
	assert.Equal(t, 1, s.WeakCount())

	w2.Release()
	assert.Equal(t, 0, s.WeakCount())
	s.Release()
}
