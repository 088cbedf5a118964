package embedding

import (
	"container/list"
	"context"
	"crypto/sha256"
	"sync"
)

// cacheKey is the SHA-256 digest of an embedded text.
type cacheKey [sha256.Size]byte

type cacheEntry struct {
	key cacheKey
	vec []float32
}

// CachedEmbedder memoizes the embeddings of recently seen texts in an LRU.
// Returned vectors are shared and must not be modified.
type CachedEmbedder struct {
	Embedder
	capacity int

	mu      sync.Mutex
	entries map[cacheKey]*list.Element
	order   *list.List
	hits    uint64
	misses  uint64
}

// NewCachedEmbedder wraps e with an LRU of the given capacity. A capacity of
// zero or less returns e unchanged.
func NewCachedEmbedder(e Embedder, capacity int) Embedder {
	if capacity <= 0 {
		return e
	}
	return &CachedEmbedder{
		Embedder: e,
		capacity: capacity,
		entries:  make(map[cacheKey]*list.Element),
		order:    list.New(),
	}
}

// Embed returns the cached vector for text or computes and stores it.
func (c *CachedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	key := sha256.Sum256([]byte(text))
	if vec, ok := c.get(key); ok {
		return vec, nil
	}
	vec, err := c.Embedder.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	c.put(key, vec)
	return vec, nil
}

// EmbedBatch embeds only the texts that miss the cache, in one inner batch.
func (c *CachedEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	keys := make([]cacheKey, len(texts))
	var missing []string
	var missingIdx []int
	for i, text := range texts {
		keys[i] = sha256.Sum256([]byte(text))
		if vec, ok := c.get(keys[i]); ok {
			out[i] = vec
			continue
		}
		missing = append(missing, text)
		missingIdx = append(missingIdx, i)
	}
	if len(missing) == 0 {
		return out, nil
	}
	vecs, err := c.Embedder.EmbedBatch(ctx, missing)
	if err != nil {
		return nil, err
	}
	for j, i := range missingIdx {
		out[i] = vecs[j]
		c.put(keys[i], vecs[j])
	}
	return out, nil
}

// Stats returns cache hit and miss counts.
func (c *CachedEmbedder) Stats() (hits, misses uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

// Len returns the number of cached vectors.
func (c *CachedEmbedder) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// get takes the write lock; a hit reorders the list.
func (c *CachedEmbedder) get(key cacheKey) ([]float32, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if elem, ok := c.entries[key]; ok {
		c.order.MoveToFront(elem)
		c.hits++
		return elem.Value.(*cacheEntry).vec, true
	}
	c.misses++
	return nil, false
}

func (c *CachedEmbedder) put(key cacheKey, vec []float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if elem, ok := c.entries[key]; ok {
		c.order.MoveToFront(elem)
		elem.Value.(*cacheEntry).vec = vec
		return
	}
	c.entries[key] = c.order.PushFront(&cacheEntry{key: key, vec: vec})
	if c.order.Len() > c.capacity {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).key)
	}
}
