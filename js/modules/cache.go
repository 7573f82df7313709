package modules

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Cache maps the resolved path to the module record.
// It has no eviction, modules live as long as the owning Require.
type Cache struct {
	modules map[string]*Module
}

// NewCache returns an empty Cache.
func NewCache() *Cache {
	return &Cache{modules: make(map[string]*Module)}
}

// Get the module of the resolved path.
func (c *Cache) Get(path string) (*Module, bool) {
	m, ok := c.modules[path]
	return m, ok
}

// Insert the module of the resolved path.
func (c *Cache) Insert(path string, m *Module) {
	c.modules[path] = m
}

// Remove the module of the resolved path.
func (c *Cache) Remove(path string) {
	delete(c.modules, path)
}

// Len the number of cached modules.
func (c *Cache) Len() int { return len(c.modules) }

// Paths the sorted resolved paths of cached modules.
func (c *Cache) Paths() []string {
	paths := maps.Keys(c.modules)
	slices.Sort(paths)
	return paths
}
