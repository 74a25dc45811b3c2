package main

import (
	"context"
	"errors"
	"image"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// imageServer serves PNGs whose width encodes the request path; /missing* returns 404
type imageServer struct {
	*httptest.Server
	hits atomic.Int64
}

func newImageServer(t *testing.T) *imageServer {
	t.Helper()
	s := &imageServer{}
	bodies := make(map[string][]byte)
	for path, width := range map[string]int{"/a.png": 10, "/b.png": 20, "/c.png": 30, "/d.png": 40} {
		bodies[path] = encodePNG(t, width, 5)
	}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.hits.Add(1)
		body, ok := bodies[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(body)
	}))
	t.Cleanup(s.Close)
	return s
}

func newTestCache(t *testing.T, disk *DiskStore) *ImageCache {
	t.Helper()
	return NewImageCache(8, disk, NewHTTPFetcher(5*time.Second), 4)
}

func TestLoadImagesDropsFailures(t *testing.T) {
	srv := newImageServer(t)
	cache := newTestCache(t, nil)

	refs := []string{
		srv.URL + "/a.png",
		srv.URL + "/missing.png",
		srv.URL + "/c.png",
		srv.URL + "/d.png",
	}

	all := cache.FetchAll(context.Background(), refs)
	if len(all) != 4 {
		t.Fatalf("FetchAll returned %d results, want 4", len(all))
	}
	if all[1].OK() || !errors.Is(all[1].Err, ErrFetch) {
		t.Errorf("Expected the missing image to fail with ErrFetch, got %v", all[1].Err)
	}

	loaded := cache.LoadImages(context.Background(), refs)
	if len(loaded) != 3 {
		t.Fatalf("LoadImages returned %d images, want 3", len(loaded))
	}
	wantRefs := []string{refs[0], refs[2], refs[3]}
	wantWidths := []int{10, 30, 40}
	for i, r := range loaded {
		if r.Ref != wantRefs[i] {
			t.Errorf("loaded[%d].Ref = %s, want %s", i, r.Ref, wantRefs[i])
		}
		if got := r.Image.Bounds().Dx(); got != wantWidths[i] {
			t.Errorf("loaded[%d] width = %d, want %d", i, got, wantWidths[i])
		}
	}
}

func TestFetchIsMemoized(t *testing.T) {
	srv := newImageServer(t)
	cache := newTestCache(t, nil)
	ref := srv.URL + "/b.png"

	for i := 0; i < 3; i++ {
		img, err := cache.Fetch(context.Background(), ref)
		if err != nil {
			t.Fatalf("Fetch #%d: %v", i, err)
		}
		if img.Bounds().Dx() != 20 {
			t.Errorf("Fetch #%d width = %d, want 20", i, img.Bounds().Dx())
		}
	}

	if got := srv.hits.Load(); got != 1 {
		t.Errorf("server hit %d times, want 1", got)
	}
	stats := cache.Stats()
	if stats.MemoryHits != 2 || stats.Fetches != 1 || stats.Entries != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}

	src, _ := ParseSource(ref)
	if _, ok := cache.Peek(src); !ok {
		t.Error("Peek should find a fetched image")
	}
}

func TestConcurrentFetchSharesOneLoad(t *testing.T) {
	srv := newImageServer(t)
	cache := newTestCache(t, nil)
	ref := srv.URL + "/a.png"

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cache.Fetch(context.Background(), ref); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Fetch: %v", err)
	}
	if got := srv.hits.Load(); got != 1 {
		t.Errorf("server hit %d times, want 1", got)
	}
}

func TestDiskStoreServesBeforeNetwork(t *testing.T) {
	srv := newImageServer(t)
	disk, err := NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewDiskStore: %v", err)
	}
	ref := srv.URL + "/c.png"

	if _, err := newTestCache(t, disk).Fetch(context.Background(), ref); err != nil {
		t.Fatalf("first Fetch: %v", err)
	}

	src, _ := ParseSource(ref)
	if !disk.Has(Identifier(src)) {
		t.Fatal("Expected fetched bytes to be persisted")
	}

	// A fresh cache has an empty memory tier but shares the disk
	fresh := newTestCache(t, disk)
	img, err := fresh.Fetch(context.Background(), ref)
	if err != nil {
		t.Fatalf("second Fetch: %v", err)
	}
	if img.Bounds().Dx() != 30 {
		t.Errorf("width = %d, want 30", img.Bounds().Dx())
	}
	if got := srv.hits.Load(); got != 1 {
		t.Errorf("server hit %d times, want 1", got)
	}
	if stats := fresh.Stats(); stats.DiskHits != 1 || stats.Fetches != 0 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestCorruptDiskEntryIsRefetched(t *testing.T) {
	srv := newImageServer(t)
	disk, err := NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ref := srv.URL + "/d.png"
	src, _ := ParseSource(ref)
	if err := disk.Set(Identifier(src), []byte("garbage")); err != nil {
		t.Fatal(err)
	}

	img, err := newTestCache(t, disk).Fetch(context.Background(), ref)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if img.Bounds().Dx() != 40 {
		t.Errorf("width = %d, want 40", img.Bounds().Dx())
	}
	if srv.hits.Load() != 1 {
		t.Errorf("Expected one network fetch, got %d", srv.hits.Load())
	}
}

func TestFetchErrors(t *testing.T) {
	srv := newImageServer(t)
	cache := newTestCache(t, nil)

	if _, err := cache.Fetch(context.Background(), "ftp://example.com/a.png"); !errors.Is(err, ErrInvalidSource) {
		t.Errorf("Expected ErrInvalidSource, got %v", err)
	}
	if _, err := cache.Fetch(context.Background(), srv.URL+"/missing.png"); !errors.Is(err, ErrFetch) {
		t.Errorf("Expected ErrFetch, got %v", err)
	}
	if _, err := cache.Fetch(context.Background(), filepath.Join(t.TempDir(), "nope.png")); !errors.Is(err, ErrFetch) {
		t.Errorf("Expected ErrFetch for missing file, got %v", err)
	}
	if stats := cache.Stats(); stats.Failures != 3 {
		t.Errorf("Expected 3 failures, got %+v", stats)
	}
}

func TestFetchLocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "local.png")
	if err := os.WriteFile(path, encodePNG(t, 7, 3), 0o644); err != nil {
		t.Fatal(err)
	}
	cache := NewImageCache(0, nil, nil, 0)

	img, err := cache.Fetch(context.Background(), path)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if img.Bounds().Dx() != 7 || img.Bounds().Dy() != 3 {
		t.Errorf("bounds = %v, want 7x3", img.Bounds())
	}
}

func TestFetchAsync(t *testing.T) {
	srv := newImageServer(t)
	cache := newTestCache(t, nil)
	src, _ := ParseSource(srv.URL + "/a.png")

	done := make(chan error, 1)
	cache.FetchAsync(context.Background(), src, func(img image.Image, err error) {
		done <- err
	})

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("FetchAsync: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("FetchAsync never completed")
	}
}

func TestIdentifier(t *testing.T) {
	remote, _ := ParseSource("https://example.com/photos/my%20cat.png?size=large")
	other, _ := ParseSource("https://example.com/photos/my%20cat.png?size=small")
	bare, _ := ParseSource("https://example.com/")
	local, _ := ParseSource("dir/a.png")

	id := Identifier(remote)
	if !regexp.MustCompile(`^[0-9a-f]{16}-my_cat\.png$`).MatchString(id) {
		t.Errorf("unexpected identifier format: %s", id)
	}
	if id != Identifier(remote) {
		t.Error("Identifier is not stable")
	}
	if id == Identifier(other) {
		t.Error("different URLs should have different identifiers")
	}
	if !strings.HasSuffix(Identifier(bare), "-image") {
		t.Errorf("Expected fallback name, got %s", Identifier(bare))
	}
	if Identifier(local) != "dir/a.png" {
		t.Errorf("local identifier = %s, want the reference", Identifier(local))
	}
}
