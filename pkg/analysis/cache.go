package analysis

import (
	"sort"
	"sync"
)

// Cache holds the most recent report per dataset, serving the read-only
// query surfaces without re-analysis.
type Cache struct {
	mu      sync.RWMutex
	reports map[string]*Report
}

// NewCache creates an empty report cache.
func NewCache() *Cache {
	return &Cache{reports: make(map[string]*Report)}
}

// Put stores the latest report for a dataset.
func (c *Cache) Put(dataset string, report *Report) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reports[dataset] = report
}

// Report returns the latest report for a dataset.
func (c *Cache) Report(dataset string) (*Report, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	report, ok := c.reports[dataset]
	return report, ok
}

// Datasets returns the dataset names with cached reports, sorted.
func (c *Cache) Datasets() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.reports))
	for name := range c.reports {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
