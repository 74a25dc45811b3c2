package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	"log"
	"net/url"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const (
	defaultMemoryCacheSize  = 16
	defaultFetchConcurrency = 4
	maxIdentifierNameLen    = 64
)

// Resolved is the outcome of resolving one source reference
type Resolved struct {
	Ref    string
	Source Source
	ID     string
	Image  image.Image
	Err    error
}

// OK reports whether the source produced an image
func (r Resolved) OK() bool {
	return r.Err == nil && r.Image != nil
}

// CacheStats provides statistics about cache usage
type CacheStats struct {
	MemoryHits int
	DiskHits   int
	Fetches    int
	Failures   int
	Entries    int
}

// ImageCache resolves image sources to decoded bitmaps.
// Lookups go memory, then disk, then network; concurrent requests for the
// same identifier share one load.
type ImageCache struct {
	memory      *lru.Cache[string, image.Image]
	disk        *DiskStore
	fetcher     Fetcher
	group       singleflight.Group
	concurrency int

	mu    sync.Mutex
	stats CacheStats
}

// NewImageCache creates a cache. disk may be nil to disable persistence.
func NewImageCache(memorySize int, disk *DiskStore, fetcher Fetcher, concurrency int) *ImageCache {
	if memorySize < 1 {
		memorySize = defaultMemoryCacheSize
	}
	if concurrency < 1 {
		concurrency = defaultFetchConcurrency
	}
	memory, err := lru.New[string, image.Image](memorySize)
	if err != nil {
		log.Printf("Error: Failed to create LRU cache: %v", err)
		memory, _ = lru.New[string, image.Image](defaultMemoryCacheSize)
	}
	return &ImageCache{
		memory:      memory,
		disk:        disk,
		fetcher:     fetcher,
		concurrency: concurrency,
	}
}

// Identifier derives the stable cache key of a source.
// Remote sources get a content-addressed file name; local ones keep their reference.
func Identifier(src Source) string {
	if src.Kind != SourceRemote {
		return src.Ref
	}

	sum := sha256.Sum256([]byte(src.Ref))
	name := "image"
	if u, err := url.Parse(src.Ref); err == nil {
		if base := sanitizeName(pathBase(u.Path)); base != "" {
			name = base
		}
	}
	return hex.EncodeToString(sum[:8]) + "-" + name
}

func sanitizeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
		if b.Len() >= maxIdentifierNameLen {
			break
		}
	}
	return strings.Trim(b.String(), ".")
}

// Stats returns a snapshot of cache counters
func (c *ImageCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.stats
	s.Entries = c.memory.Len()
	return s
}

func (c *ImageCache) count(f func(s *CacheStats)) {
	c.mu.Lock()
	f(&c.stats)
	c.mu.Unlock()
}

// Peek returns a decoded image only when it is already in memory
func (c *ImageCache) Peek(src Source) (image.Image, bool) {
	return c.memory.Get(Identifier(src))
}

// Fetch parses ref and resolves it
func (c *ImageCache) Fetch(ctx context.Context, ref string) (image.Image, error) {
	src, err := ParseSource(ref)
	if err != nil {
		c.count(func(s *CacheStats) { s.Failures++ })
		return nil, err
	}
	return c.FetchSource(ctx, src)
}

// FetchSource resolves src to a decoded image
func (c *ImageCache) FetchSource(ctx context.Context, src Source) (image.Image, error) {
	id := Identifier(src)
	if img, ok := c.memory.Get(id); ok {
		c.count(func(s *CacheStats) { s.MemoryHits++ })
		debugLog("Cache HIT: %s (cache: %d items)", id, c.memory.Len())
		return img, nil
	}

	v, err, _ := c.group.Do(id, func() (any, error) {
		if img, ok := c.memory.Get(id); ok {
			return img, nil
		}
		img, err := c.load(ctx, src, id)
		if err != nil {
			return nil, err
		}
		c.memory.Add(id, img)
		return img, nil
	})
	if err != nil {
		c.count(func(s *CacheStats) { s.Failures++ })
		return nil, err
	}
	return v.(image.Image), nil
}

func (c *ImageCache) load(ctx context.Context, src Source, id string) (image.Image, error) {
	if src.Kind != SourceRemote {
		data, err := readLocalSource(src)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrFetch, src.Ref, err)
		}
		return decodeImage(data, src.Ref)
	}

	if c.disk != nil {
		if data, err := c.disk.Get(id); err == nil {
			img, err := decodeImage(data, id)
			if err == nil {
				c.count(func(s *CacheStats) { s.DiskHits++ })
				return img, nil
			}
			log.Printf("Warning: Discarding undecodable cache entry %s: %v", id, err)
		}
	}

	if c.fetcher == nil {
		return nil, fmt.Errorf("%w: no fetcher for %s", ErrFetch, src.Ref)
	}
	data, err := c.fetcher.Fetch(ctx, src.Ref)
	if err != nil {
		log.Printf("Error: Failed to load remote image from url %s: %v", src.Ref, err)
		return nil, err
	}
	c.count(func(s *CacheStats) { s.Fetches++ })

	img, err := decodeImage(data, src.Ref)
	if err != nil {
		return nil, err
	}

	if c.disk != nil {
		if err := c.disk.Set(id, data); err != nil {
			log.Printf("Error: Failed to save image %s: %v", id, err)
		}
	}
	debugLog("Cache MISS: %s, fetched and cached (cache: %d items)", id, c.memory.Len())
	return img, nil
}

// FetchAsync resolves src in the background and calls done at most once.
// done is not called when ctx is cancelled before the load finishes.
func (c *ImageCache) FetchAsync(ctx context.Context, src Source, done func(image.Image, error)) {
	go func() {
		img, err := c.FetchSource(ctx, src)
		if ctx.Err() != nil {
			return
		}
		done(img, err)
	}()
}

// Prefetch warms the cache for src, discarding the result
func (c *ImageCache) Prefetch(ctx context.Context, src Source) error {
	if _, ok := c.Peek(src); ok {
		return nil
	}
	_, err := c.FetchSource(ctx, src)
	return err
}

// FetchAll resolves refs concurrently. The result has one entry per ref, in
// input order, with Err set for the ones that failed.
func (c *ImageCache) FetchAll(ctx context.Context, refs []string) []Resolved {
	results := make([]Resolved, len(refs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, ref := range refs {
		g.Go(func() error {
			r := Resolved{Ref: ref}
			src, err := ParseSource(ref)
			if err != nil {
				r.Err = err
				results[i] = r
				c.count(func(s *CacheStats) { s.Failures++ })
				return nil
			}
			r.Source = src
			r.ID = Identifier(src)
			r.Image, r.Err = c.FetchSource(gctx, src)
			results[i] = r
			return nil
		})
	}
	_ = g.Wait()

	for _, r := range results {
		if r.Err != nil {
			log.Printf("Warning: Failed to resolve %s: %v", r.Ref, r.Err)
		}
	}
	return results
}

// LoadImages resolves refs and keeps only the successful results, in order.
// A failed source simply disappears from the returned sequence.
func (c *ImageCache) LoadImages(ctx context.Context, refs []string) []Resolved {
	return successful(c.FetchAll(ctx, refs))
}

func successful(results []Resolved) []Resolved {
	var ok []Resolved
	for _, r := range results {
		if r.OK() {
			ok = append(ok, r)
		}
	}
	return ok
}
