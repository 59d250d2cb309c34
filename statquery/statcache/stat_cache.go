// Package statcache memoizes completed stat folds across queries. Entries
// appear only after a fold finishes, are dropped only by explicit
// invalidation, and are exchanged as copies so cached state is never
// aliased by callers.
package statcache

import (
	"container/list"
	"sync"

	"github.com/krew-solutions/stat-query-go/statquery/entity"
	"github.com/krew-solutions/stat-query-go/statquery/querier"
	"github.com/krew-solutions/stat-query-go/statquery/types"
)

type lruEntry struct {
	key   querier.Key
	value types.Value
}

// StatCache implements querier.Cache with an optional least-recently-used
// capacity bound. Capacity <= 0 means unbounded. Safe for concurrent use;
// racing writers overwrite each other, which is sound because
// recomputation is idempotent against a fixed modifier snapshot.
type StatCache struct {
	mu       sync.RWMutex
	items    map[querier.Key]*list.Element
	byEntity map[entity.Entity]map[querier.Key]struct{}
	order    *list.List
	capacity int
}

func New(capacity int) *StatCache {
	return &StatCache{
		items:    make(map[querier.Key]*list.Element),
		byEntity: make(map[entity.Entity]map[querier.Key]struct{}),
		order:    list.New(),
		capacity: capacity,
	}
}

// Get returns a copy of the cached fold for the key.
func (c *StatCache) Get(k querier.Key) (types.Value, bool) {
	if c.capacity > 0 {
		// Bounded mode tracks recency, which mutates the order list.
		c.mu.Lock()
		defer c.mu.Unlock()
		elem, ok := c.items[k]
		if !ok {
			return nil, false
		}
		c.order.MoveToBack(elem)
		return elem.Value.(lruEntry).value.Clone(), true
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	elem, ok := c.items[k]
	if !ok {
		return nil, false
	}
	return elem.Value.(lruEntry).value.Clone(), true
}

// Put stores a copy of the fold under the key, evicting the least
// recently used entry when over capacity.
func (c *StatCache) Put(k querier.Key, v types.Value) {
	stored := v.Clone()

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[k]; ok {
		elem.Value = lruEntry{key: k, value: stored}
		c.order.MoveToBack(elem)
		return
	}

	elem := c.order.PushBack(lruEntry{key: k, value: stored})
	c.items[k] = elem
	keys, ok := c.byEntity[k.Entity]
	if !ok {
		keys = make(map[querier.Key]struct{})
		c.byEntity[k.Entity] = keys
	}
	keys[k] = struct{}{}

	if c.capacity > 0 && len(c.items) > c.capacity {
		front := c.order.Front()
		c.order.Remove(front)
		evicted := front.Value.(lruEntry).key
		delete(c.items, evicted)
		c.unindex(evicted)
	}
}

func (c *StatCache) unindex(k querier.Key) {
	keys, ok := c.byEntity[k.Entity]
	if !ok {
		return
	}
	delete(keys, k)
	if len(keys) == 0 {
		delete(c.byEntity, k.Entity)
	}
}

// Invalidate drops every entry of the entity, conservatively: any change
// to a source feeding that entity's stats makes all of them suspect.
func (c *StatCache) Invalidate(e entity.Entity) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := c.byEntity[e]
	for k := range keys {
		if elem, ok := c.items[k]; ok {
			c.order.Remove(elem)
			delete(c.items, k)
		}
	}
	delete(c.byEntity, e)
	return len(keys)
}

// InvalidateAll drops everything.
func (c *StatCache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[querier.Key]*list.Element)
	c.byEntity = make(map[entity.Entity]map[querier.Key]struct{})
	c.order.Init()
}

// Len counts cached entries.
func (c *StatCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

var _ querier.Cache = (*StatCache)(nil)
