package metadata

import "sync"

// titleCache is a bounded map from raw stream title to assembled report.
// Eviction is by insertion order, not LRU: re-setting an existing title
// keeps its original position. A hot station whose title recurs is only
// protected by having been (re)inserted recently. Safe for concurrent use.
type titleCache struct {
	mu      sync.Mutex
	max     int
	entries map[string]Report
	order   []string
}

func newTitleCache(max int) *titleCache {
	return &titleCache{
		max:     max,
		entries: make(map[string]Report, max),
	}
}

func (c *titleCache) Get(title string) (Report, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	r, ok := c.entries[title]
	return r, ok
}

// Set stores the report for title, evicting the oldest-inserted key when
// the insert pushes the cache over capacity. The size check and eviction
// happen under the same lock as the insert.
func (c *titleCache) Set(title string, r Report) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[title]; !exists {
		c.order = append(c.order, title)
	}
	c.entries[title] = r

	if len(c.entries) > c.max {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
}

func (c *titleCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
