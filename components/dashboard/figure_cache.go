package dashboard

import (
	"sync"
	"time"
)

// RenderCache memoizes rendered figure HTML so identical tables skip go-echarts.
type RenderCache interface {
	GetOrRender(key string, render func() (string, error)) (string, error)
}

// FigureCache is an in-memory TTL cache of rendered figures. A non-positive TTL
// disables caching.
type FigureCache struct {
	ttl     time.Duration
	now     func() time.Time
	mu      sync.RWMutex
	entries map[string]cachedFigure
}

type cachedFigure struct {
	html    string
	expires time.Time
}

// NewFigureCache builds a cache with the provided TTL.
func NewFigureCache(ttl time.Duration) *FigureCache {
	return &FigureCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cachedFigure),
	}
}

// GetOrRender returns a live entry or renders and stores a new one. Render
// errors are not cached.
func (c *FigureCache) GetOrRender(key string, render func() (string, error)) (string, error) {
	if html, ok := c.lookup(key); ok {
		return html, nil
	}
	html, err := render()
	if err != nil {
		return "", err
	}
	c.store(key, html)
	return html, nil
}

// Len reports the number of stored entries, expired or not.
func (c *FigureCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *FigureCache) lookup(key string) (string, bool) {
	if c == nil || c.ttl <= 0 {
		return "", false
	}
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return "", false
	}
	if c.now().After(entry.expires) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return "", false
	}
	return entry.html, true
}

func (c *FigureCache) store(key, html string) {
	if c == nil || c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	c.entries[key] = cachedFigure{html: html, expires: c.now().Add(c.ttl)}
	c.mu.Unlock()
}
