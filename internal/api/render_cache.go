package api

import (
	"sync"

	"github.com/mathnotes-io/mathnotes/internal/access"
)

// renderKey identifies one rendering of a note. The catalog never changes after
// load, so a note renders the same way for every viewer with the same outcome.
type renderKey struct {
	noteID  string
	outcome access.Outcome
}

// RenderCache keeps typeset block views per note and outcome.
type RenderCache struct {
	mu     sync.RWMutex
	blocks map[renderKey][]blockView
}

func NewRenderCache() *RenderCache {
	return &RenderCache{blocks: make(map[renderKey][]blockView)}
}

// Get returns the cached views, or builds and stores them with build.
func (c *RenderCache) Get(noteID string, outcome access.Outcome, build func() []blockView) []blockView {
	key := renderKey{noteID: noteID, outcome: outcome}

	c.mu.RLock()
	views, ok := c.blocks[key]
	c.mu.RUnlock()
	if ok {
		return views
	}

	views = build()

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.blocks[key]; ok {
		return existing
	}
	c.blocks[key] = views
	return views
}

// Len reports the number of cached renderings.
func (c *RenderCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.blocks)
}
