package photo

import (
	"image"
	"sort"
	"sync"
)

// Resolver looks up a decoded photo by id. Implementations must not block.
type Resolver interface {
	Image(id string) (*image.RGBA, bool)
}

// Cache is a concurrency-safe set of decoded photos.
type Cache struct {
	mu    sync.RWMutex
	items map[string]*image.RGBA
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{items: make(map[string]*image.RGBA)}
}

// Image returns the decoded photo for id.
func (c *Cache) Image(id string) (*image.RGBA, bool) {
	if id == "" {
		return nil, false
	}
	c.mu.RLock()
	img, ok := c.items[id]
	c.mu.RUnlock()
	return img, ok && img != nil
}

// Put stores img under id. The first stored image wins.
func (c *Cache) Put(id string, img *image.RGBA) {
	if img == nil {
		return
	}
	c.mu.Lock()
	if _, exists := c.items[id]; !exists {
		c.items[id] = img
	}
	c.mu.Unlock()
}

// Len returns the number of decoded photos.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// IDs returns the cached ids, sorted.
func (c *Cache) IDs() []string {
	c.mu.RLock()
	ids := make([]string, 0, len(c.items))
	for id := range c.items {
		ids = append(ids, id)
	}
	c.mu.RUnlock()
	sort.Strings(ids)
	return ids
}

// Release drops every decoded photo.
func (c *Cache) Release() {
	c.mu.Lock()
	c.items = make(map[string]*image.RGBA)
	c.mu.Unlock()
}
