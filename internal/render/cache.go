package render

import "sync"

// Cache is a label-keyed store of shared GPU objects. For a given label at
// most one instance exists; GetOrInit is the only path that creates one.
//
// Everything that touches the GPU runs on the core thread, so the mutex only
// guards against misuse from tests and tooling.
type Cache[T any] struct {
	mu    sync.Mutex
	items map[string]T
}

func NewCache[T any]() *Cache[T] {
	return &Cache[T]{items: make(map[string]T)}
}

// GetOrInit returns the object stored under label, calling init to create
// it on first use. A failed init stores nothing.
func (c *Cache[T]) GetOrInit(label string, init func() (T, error)) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if v, ok := c.items[label]; ok {
		return v, nil
	}

	v, err := init()
	if err != nil {
		var zero T
		return zero, err
	}
	c.items[label] = v
	return v, nil
}

func (c *Cache[T]) Insert(label string, v T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[label] = v
}

// Remove drops label from the cache and returns what was stored.
func (c *Cache[T]) Remove(label string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.items[label]
	delete(c.items, label)
	return v, ok
}

func (c *Cache[T]) Contains(label string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.items[label]
	return ok
}

func (c *Cache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Drain empties the cache, handing every stored object to release.
func (c *Cache[T]) Drain(release func(label string, v T)) {
	c.mu.Lock()
	items := c.items
	c.items = make(map[string]T)
	c.mu.Unlock()

	for label, v := range items {
		release(label, v)
	}
}
