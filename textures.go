package main

import (
	"image"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	lru "github.com/hashicorp/golang-lru/v2"
)

const defaultTextureCacheSize = 6

// TextureCache keeps GPU textures of recently shown pages.
// Evicted textures are deallocated right away.
type TextureCache struct {
	cache *lru.Cache[PageID, *ebiten.Image]
}

func newTextureLRU(size int) (*lru.Cache[PageID, *ebiten.Image], error) {
	return lru.NewWithEvict[PageID, *ebiten.Image](size, func(_ PageID, img *ebiten.Image) {
		if img != nil {
			img.Deallocate()
		}
	})
}

// NewTextureCache creates a cache holding at most size textures
func NewTextureCache(size int) *TextureCache {
	cache, err := newTextureLRU(size)
	if err != nil {
		log.Printf("Error: Failed to create texture cache: %v", err)
		cache, _ = newTextureLRU(defaultTextureCacheSize)
	}
	return &TextureCache{cache: cache}
}

// Texture returns the texture of page, uploading img on a miss
func (t *TextureCache) Texture(id PageID, img image.Image) *ebiten.Image {
	if tex, ok := t.cache.Get(id); ok {
		return tex
	}
	if img == nil {
		return nil
	}

	tex := ebiten.NewImageFromImage(img)
	t.cache.Add(id, tex)
	debugLog("Texture upload: %dx%d (textures: %d)", img.Bounds().Dx(), img.Bounds().Dy(), t.cache.Len())
	return tex
}

// Get returns a resident texture
func (t *TextureCache) Get(id PageID) (*ebiten.Image, bool) {
	return t.cache.Get(id)
}

// Put stores an already created texture, such as an error placeholder
func (t *TextureCache) Put(id PageID, tex *ebiten.Image) {
	t.cache.Add(id, tex)
}

// Len returns the number of resident textures
func (t *TextureCache) Len() int {
	return t.cache.Len()
}

// Purge deallocates every texture
func (t *TextureCache) Purge() {
	t.cache.Purge()
}
