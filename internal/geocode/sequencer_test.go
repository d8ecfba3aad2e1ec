package geocode

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSequencerAcceptsOnlyLatest(t *testing.T) {
	var s Sequencer
	assert.False(t, s.Accept(0))

	first := s.Next()
	second := s.Next()

	assert.False(t, s.Accept(first), "stale reply is dropped")
	assert.True(t, s.Accept(second))
	assert.Equal(t, second, s.Latest())
}

func TestSequencerIsMonotonic(t *testing.T) {
	var s Sequencer
	var wg sync.WaitGroup
	seen := make(chan uint64, 100)

	for range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seen <- s.Next()
		}()
	}
	wg.Wait()
	close(seen)

	unique := map[uint64]bool{}
	for n := range seen {
		unique[n] = true
	}
	assert.Len(t, unique, 100)
	assert.Equal(t, uint64(100), s.Latest())
}

func TestSequencerObserve(t *testing.T) {
	var s Sequencer

	assert.False(t, s.Observe(0))
	assert.True(t, s.Observe(10))
	assert.False(t, s.Observe(4), "older caller number does not move latest")
	assert.True(t, s.Observe(10))
	assert.Equal(t, uint64(10), s.Latest())

	assert.Equal(t, uint64(11), s.Next())
	assert.False(t, s.Accept(10))
}
