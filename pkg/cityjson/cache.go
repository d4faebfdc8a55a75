package cityjson

import (
	"container/list"
	"sync"

	"github.com/pkg/errors"
)

// ModelCache keeps parsed models in memory and evicts the least recently used
// model when the memory limit is exceeded. It suits viewers that page city tiles
// in and out as the viewport moves.
//
// Memory use is an estimate based on vertex, object and raw JSON sizes.
//
// Example:
//
//	cache := cityjson.NewModelCache(256 * 1024 * 1024)
//	model, err := cache.Load("tiles/37hn1_12.city.json", cityjson.DefaultParseOptions())
type ModelCache struct {
	maxMemory  int64
	usedMemory int64
	models     map[string]*cacheEntry
	lru        *list.List // most recent at front
	mu         sync.Mutex
}

type cacheEntry struct {
	key         string
	model       *Model
	memorySize  int64
	element     *list.Element
	accessCount int
}

// NewModelCache creates a cache limited to maxMemoryBytes. Zero means unlimited.
func NewModelCache(maxMemoryBytes int64) *ModelCache {
	return &ModelCache{
		maxMemory: maxMemoryBytes,
		models:    make(map[string]*cacheEntry),
		lru:       list.New(),
	}
}

// Get returns the cached model for key, calling loader on a miss. A model too
// large for the cache is returned without being cached.
func (c *ModelCache) Get(key string, loader func() (*Model, error)) (*Model, error) {
	c.mu.Lock()
	if entry, ok := c.models[key]; ok {
		entry.accessCount++
		c.lru.MoveToFront(entry.element)
		c.mu.Unlock()
		return entry.model, nil
	}
	c.mu.Unlock()

	model, err := loader()
	if err != nil {
		return nil, errors.Wrapf(err, "can't load model '%s'", key)
	}
	_ = c.Add(key, model)
	return model, nil
}

// Load returns the model for the file at path, parsing it on a miss.
func (c *ModelCache) Load(path string, opts ParseOptions) (*Model, error) {
	return c.Get(path, func() (*Model, error) {
		return LoadFileWithOptions(path, NewParser(), opts)
	})
}

// Add stores model under key, evicting least recently used models to make room.
func (c *ModelCache) Add(key string, model *Model) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	size := estimateModelMemory(model)
	if entry, ok := c.models[key]; ok {
		c.usedMemory += size - entry.memorySize
		entry.model = model
		entry.memorySize = size
		entry.accessCount++
		c.lru.MoveToFront(entry.element)
		c.evict(entry)
		return nil
	}

	if c.maxMemory > 0 && size > c.maxMemory {
		return errors.Errorf("model '%s' too large for cache (%d bytes > %d bytes max)", key, size, c.maxMemory)
	}

	entry := &cacheEntry{key: key, model: model, memorySize: size, accessCount: 1}
	entry.element = c.lru.PushFront(entry)
	c.models[key] = entry
	c.usedMemory += size
	c.evict(entry)
	return nil
}

// evict drops models from the back of the LRU list until the cache fits,
// never dropping keep. Must be called with c.mu held.
func (c *ModelCache) evict(keep *cacheEntry) {
	if c.maxMemory <= 0 {
		return
	}
	for c.usedMemory > c.maxMemory {
		elem := c.lru.Back()
		if elem == nil || elem.Value.(*cacheEntry) == keep {
			return
		}
		c.removeElement(elem)
	}
}

func (c *ModelCache) removeElement(elem *list.Element) {
	entry := elem.Value.(*cacheEntry)
	c.lru.Remove(elem)
	delete(c.models, entry.key)
	c.usedMemory -= entry.memorySize
}

// Remove drops key from the cache.
func (c *ModelCache) Remove(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if entry, ok := c.models[key]; ok {
		c.removeElement(entry.element)
	}
}

// Clear drops every model.
func (c *ModelCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.models = make(map[string]*cacheEntry)
	c.lru.Init()
	c.usedMemory = 0
}

// Stats returns cache statistics.
func (c *ModelCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := 0
	for _, entry := range c.models {
		total += entry.accessCount
	}
	return CacheStats{
		ModelCount:  len(c.models),
		UsedMemory:  c.usedMemory,
		MaxMemory:   c.maxMemory,
		TotalAccess: total,
	}
}

// CacheStats holds cache metrics.
type CacheStats struct {
	ModelCount  int   // Models currently cached
	UsedMemory  int64 // Estimated memory use in bytes
	MaxMemory   int64 // Memory limit in bytes
	TotalAccess int   // Accesses over all cached models
}

// estimateModelMemory approximates a model's footprint:
//   - 1KB base overhead
//   - 24 bytes per vertex
//   - 512 bytes per city object plus its raw JSON
//   - 32 bytes per resolved geometry vertex
func estimateModelMemory(m *Model) int64 {
	if m == nil {
		return 0
	}
	size := int64(1024)
	size += int64(len(m.Vertices())) * 24
	for _, obj := range m.CityObjects() {
		size += 512 + int64(len(obj.Raw()))
		for i := range obj.Geometry() {
			size += int64(len(obj.Geometry()[i].Vertices())) * 32
		}
	}
	for _, n := range m.ExtensionNodes() {
		size += int64(len(n.Key) + len(n.Value))
	}
	return size
}
