package search

import "sync/atomic"

// Generation tags debounced search tasks. Each keystroke takes a new tag and
// only the task holding the latest tag may publish its result, so a slow
// response for an old query never overwrites a newer one.
type Generation struct {
	n atomic.Uint64
}

// Next starts a new generation and returns its tag.
func (g *Generation) Next() uint64 {
	return g.n.Add(1)
}

// Current reports whether tag is still the latest generation.
func (g *Generation) Current(tag uint64) bool {
	return g.n.Load() == tag
}

// Invalidate makes every outstanding tag stale without starting new work.
func (g *Generation) Invalidate() {
	g.n.Add(1)
}
