package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/dustin/go-humanize"
)

const cacheDirName = "gallery"

var (
	ErrCacheMiss = errors.New("cache miss")
	errCacheSet  = errors.New("cache set error")
	errCacheDir  = errors.New("cache dir error")
)

// DiskStore keeps encoded image bytes on disk, keyed by identifier.
// Nothing is ever evicted.
type DiskStore struct {
	dir string
}

// defaultCacheDir returns $XDG_CACHE_HOME/gallery/images
func defaultCacheDir() string {
	return filepath.Join(xdg.CacheHome, cacheDirName, "images")
}

// NewDiskStore creates the store rooted at dir, or the XDG cache dir when empty
func NewDiskStore(dir string) (*DiskStore, error) {
	if dir == "" {
		dir = defaultCacheDir()
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, errors.Join(err, errCacheDir)
	}
	return &DiskStore{dir: dir}, nil
}

// Dir returns the root directory of the store
func (d *DiskStore) Dir() string {
	return d.dir
}

func (d *DiskStore) path(id string) (string, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return "", ErrInvalidSource
	}
	return filepath.Join(d.dir, id), nil
}

// Get returns the stored bytes for id or ErrCacheMiss
func (d *DiskStore) Get(id string) ([]byte, error) {
	p, err := d.path(id)
	if err != nil {
		return nil, errors.Join(err, ErrCacheMiss)
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, errors.Join(err, ErrCacheMiss)
	}
	debugLog("Disk cache HIT: %s (%s)", id, humanize.Bytes(uint64(len(data))))
	return data, nil
}

// Set writes content for id atomically
func (d *DiskStore) Set(id string, content []byte) error {
	p, err := d.path(id)
	if err != nil {
		return errors.Join(err, errCacheSet)
	}

	tmp, err := os.CreateTemp(d.dir, id+".*.tmp")
	if err != nil {
		return errors.Join(err, errCacheSet)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Join(err, errCacheSet)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Join(err, errCacheSet)
	}
	if err := os.Rename(tmpName, p); err != nil {
		os.Remove(tmpName)
		return errors.Join(err, errCacheSet)
	}

	debugLog("Disk cache SET: %s (%s)", id, humanize.Bytes(uint64(len(content))))
	return nil
}

// Has reports whether id is stored
func (d *DiskStore) Has(id string) bool {
	p, err := d.path(id)
	if err != nil {
		return false
	}
	_, err = os.Stat(p)
	return err == nil
}
