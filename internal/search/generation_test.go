package search

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerationLatestWins(t *testing.T) {
	var g Generation
	first := g.Next()
	second := g.Next()

	assert.False(t, g.Current(first))
	assert.True(t, g.Current(second))
}

func TestGenerationInvalidate(t *testing.T) {
	var g Generation
	tag := g.Next()
	g.Invalidate()
	assert.False(t, g.Current(tag))
}

func TestGenerationConcurrentNext(t *testing.T) {
	var g Generation
	var wg sync.WaitGroup
	seen := make(chan uint64, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seen <- g.Next()
		}()
	}
	wg.Wait()
	close(seen)

	unique := map[uint64]bool{}
	for tag := range seen {
		unique[tag] = true
	}
	assert.Len(t, unique, 100)
	assert.True(t, g.Current(100))
}
