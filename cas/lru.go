package cas

import (
	"container/list"
	"sync"
)

// LRUCache is a Store wrapper that keeps recently read entries in memory
// using LRU eviction
type LRUCache struct {
	mu         sync.Mutex
	underlying Store
	cache      map[Hash]*list.Element
	evictList  *list.List
	maxSize    int

	hits      int
	misses    int
	evictions int
}

type cacheEntry struct {
	hash  Hash
	value []byte
}

// NewLRUCache creates a new LRU-cached Store wrapper
// maxSize is the maximum number of entries to cache (0 or negative means the default)
func NewLRUCache(underlying Store, maxSize int) *LRUCache {
	if maxSize <= 0 {
		maxSize = 1000 // Default cache size
	}
	return &LRUCache{
		underlying: underlying,
		cache:      make(map[Hash]*list.Element),
		evictList:  list.New(),
		maxSize:    maxSize,
	}
}

// Put stores an item in the underlying Store and drops any stale cached copy
func (l *LRUCache) Put(key Hash, item Serde) error {
	if err := l.underlying.Put(key, item); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if elem, ok := l.cache[key]; ok {
		l.evictList.Remove(elem)
		delete(l.cache, key)
	}
	return nil
}

func (l *LRUCache) Has(hash Hash) bool {
	return l.underlying.Has(hash)
}

func (l *LRUCache) Len() int {
	return l.underlying.Len()
}

// getValue is where caching happens
func (l *LRUCache) getValue(h Hash) (bool, []byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if elem, ok := l.cache[h]; ok {
		l.evictList.MoveToFront(elem)
		l.hits++
		return true, elem.Value.(*cacheEntry).value, nil
	}
	l.misses++

	has, data, err := l.underlying.getValue(h)
	if err != nil {
		return false, nil, err
	}
	if !has {
		return false, nil, nil
	}

	l.addToCache(h, data)
	return true, data, nil
}

// addToCache adds an entry to the cache and evicts oldest if necessary
func (l *LRUCache) addToCache(hash Hash, value []byte) {
	if elem, ok := l.cache[hash]; ok {
		l.evictList.MoveToFront(elem)
		elem.Value.(*cacheEntry).value = value
		return
	}

	entry := &cacheEntry{
		hash:  hash,
		value: value,
	}
	elem := l.evictList.PushFront(entry)
	l.cache[hash] = elem

	if l.evictList.Len() > l.maxSize {
		l.evictOldest()
	}
}

// evictOldest removes the least recently used entry from cache
func (l *LRUCache) evictOldest() {
	elem := l.evictList.Back()
	if elem != nil {
		l.evictList.Remove(elem)
		delete(l.cache, elem.Value.(*cacheEntry).hash)
		l.evictions++
	}
}

// CacheStats returns cache statistics for monitoring
type CacheStats struct {
	Size      int
	MaxSize   int
	Hits      int
	Misses    int
	Evictions int
}

func (l *LRUCache) Stats() CacheStats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return CacheStats{
		Size:      len(l.cache),
		MaxSize:   l.maxSize,
		Hits:      l.hits,
		Misses:    l.misses,
		Evictions: l.evictions,
	}
}
