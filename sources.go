package main

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip"
	"github.com/nwaples/rardecode"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

var (
	ErrInvalidSource = errors.New("invalid image source")
	ErrDecode        = errors.New("image decode failed")
	errEntryNotFound = errors.New("archive entry not found")
)

// SourceKind tells where the bytes of an image come from
type SourceKind int

const (
	SourceFile SourceKind = iota
	SourceArchiveEntry
	SourceRemote
)

func (k SourceKind) String() string {
	switch k {
	case SourceArchiveEntry:
		return "archive"
	case SourceRemote:
		return "remote"
	default:
		return "file"
	}
}

// Source is one image reference handed to the gallery
type Source struct {
	Ref         string // URL, file path or archive:entry
	Kind        SourceKind
	ArchivePath string // archive entries only
	EntryPath   string // archive entries only
}

// Name returns a short display name for overlays and error placeholders
func (s Source) Name() string {
	switch s.Kind {
	case SourceRemote:
		if u, err := url.Parse(s.Ref); err == nil && u.Path != "" && u.Path != "/" {
			return pathBase(u.Path)
		}
		return s.Ref
	case SourceArchiveEntry:
		return filepath.Base(s.ArchivePath) + ":" + pathBase(s.EntryPath)
	default:
		return filepath.Base(s.Ref)
	}
}

func pathBase(p string) string {
	p = strings.TrimRight(p, "/")
	if i := strings.LastIndex(p, "/"); i >= 0 {
		return p[i+1:]
	}
	return p
}

// ParseSource classifies a reference as remote URL, archive entry or plain file
func ParseSource(ref string) (Source, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return Source{}, fmt.Errorf("%w: empty reference", ErrInvalidSource)
	}

	if strings.Contains(ref, "://") {
		u, err := url.Parse(ref)
		if err != nil {
			return Source{}, fmt.Errorf("%w: %s: %v", ErrInvalidSource, ref, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return Source{}, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidSource, u.Scheme)
		}
		if u.Host == "" {
			return Source{}, fmt.Errorf("%w: %s has no host", ErrInvalidSource, ref)
		}
		return Source{Ref: ref, Kind: SourceRemote}, nil
	}

	if archivePath, entryPath, ok := splitArchiveRef(ref); ok {
		return Source{
			Ref:         ref,
			Kind:        SourceArchiveEntry,
			ArchivePath: archivePath,
			EntryPath:   entryPath,
		}, nil
	}

	return Source{Ref: ref, Kind: SourceFile}, nil
}

// splitArchiveRef splits "book.zip:pages/01.png" into archive and entry
func splitArchiveRef(ref string) (string, string, bool) {
	lower := strings.ToLower(ref)
	for _, ext := range []string{".zip", ".rar", ".7z"} {
		i := strings.Index(lower, ext+":")
		if i < 0 {
			continue
		}
		cut := i + len(ext)
		entry := ref[cut+1:]
		if entry == "" {
			return "", "", false
		}
		return ref[:cut], entry, true
	}
	return "", "", false
}

func archiveEntrySource(archivePath, entryPath string) Source {
	return Source{
		Ref:         archivePath + ":" + entryPath,
		Kind:        SourceArchiveEntry,
		ArchivePath: archivePath,
		EntryPath:   entryPath,
	}
}

func isArchiveExt(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".zip", ".rar", ".7z":
		return true
	default:
		return false
	}
}

func isSupportedExt(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".webp", ".bmp", ".gif":
		return true
	default:
		return false
	}
}

// decodeImage decodes any registered format
func decodeImage(data []byte, name string) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, name, err)
	}
	return img, nil
}

// readLocalSource returns the encoded bytes of a file or archive entry
func readLocalSource(src Source) ([]byte, error) {
	switch src.Kind {
	case SourceFile:
		return os.ReadFile(src.Ref)
	case SourceArchiveEntry:
		ext := strings.ToLower(filepath.Ext(src.ArchivePath))
		switch ext {
		case ".zip":
			return readZipEntry(src.ArchivePath, src.EntryPath)
		case ".rar":
			return readRarEntry(src.ArchivePath, src.EntryPath)
		case ".7z":
			return read7zEntry(src.ArchivePath, src.EntryPath)
		default:
			return nil, fmt.Errorf("%w: unsupported archive format %s", ErrInvalidSource, ext)
		}
	default:
		return nil, fmt.Errorf("%w: %s is not a local source", ErrInvalidSource, src.Ref)
	}
}

func readZipEntry(archivePath, entryPath string) ([]byte, error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	for _, f := range r.File {
		if f.Name == entryPath {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, fmt.Errorf("%w: %s in %s", errEntryNotFound, entryPath, archivePath)
}

func readRarEntry(archivePath, entryPath string) ([]byte, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := rardecode.NewReader(f, "")
	if err != nil {
		return nil, err
	}

	for {
		header, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if header.Name == entryPath {
			return io.ReadAll(r)
		}
	}
	return nil, fmt.Errorf("%w: %s in %s", errEntryNotFound, entryPath, archivePath)
}

func read7zEntry(archivePath, entryPath string) ([]byte, error) {
	r, err := sevenzip.OpenReader(archivePath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	for _, f := range r.File {
		if f.Name == entryPath {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, fmt.Errorf("%w: %s in %s", errEntryNotFound, entryPath, archivePath)
}

// listArchive returns the image entries of an archive in stored order
func listArchive(archivePath string) ([]Source, error) {
	var names []string

	switch strings.ToLower(filepath.Ext(archivePath)) {
	case ".zip":
		r, err := zip.OpenReader(archivePath)
		if err != nil {
			return nil, err
		}
		defer r.Close()
		for _, f := range r.File {
			if !f.FileInfo().IsDir() {
				names = append(names, f.Name)
			}
		}
	case ".rar":
		f, err := os.Open(archivePath)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r, err := rardecode.NewReader(f, "")
		if err != nil {
			return nil, err
		}
		for {
			header, err := r.Next()
			if err == io.EOF {
				break
			}
			if err != nil {
				return nil, err
			}
			if !header.IsDir {
				names = append(names, header.Name)
			}
		}
	case ".7z":
		r, err := sevenzip.OpenReader(archivePath)
		if err != nil {
			return nil, err
		}
		defer r.Close()
		for _, f := range r.File {
			if !f.FileInfo().IsDir() {
				names = append(names, f.Name)
			}
		}
	default:
		return nil, fmt.Errorf("%w: unsupported archive format %s", ErrInvalidSource, filepath.Ext(archivePath))
	}

	var sources []Source
	for _, name := range names {
		if isSupportedExt(name) {
			sources = append(sources, archiveEntrySource(archivePath, name))
		}
	}
	return sources, nil
}

// collectSources expands command line arguments into gallery sources.
// URLs pass through untouched, directories are walked, archives are listed.
// Argument order is preserved; expanded groups are sorted with sortMethod.
func collectSources(args []string, sortMethod int) ([]Source, error) {
	var list []Source
	for _, arg := range args {
		src, err := ParseSource(arg)
		if err != nil {
			return nil, err
		}
		if src.Kind != SourceFile {
			list = append(list, src)
			continue
		}

		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}

		if info.IsDir() {
			var dirSources []Source
			err := filepath.Walk(arg, func(path string, fi os.FileInfo, err error) error {
				if err != nil {
					return err
				}
				if fi.IsDir() {
					return nil
				}
				if isSupportedExt(path) {
					dirSources = append(dirSources, Source{Ref: path, Kind: SourceFile})
				} else if isArchiveExt(path) {
					entries, err := listArchive(path)
					if err != nil {
						log.Printf("Warning: Skipping problematic archive %s: %v", path, err)
						return nil
					}
					dirSources = append(dirSources, sortSources(entries, sortMethod)...)
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
			list = append(list, sortSources(dirSources, sortMethod)...)
			continue
		}

		switch {
		case isSupportedExt(arg):
			list = append(list, src)
		case isArchiveExt(arg):
			entries, err := listArchive(arg)
			if err != nil {
				log.Printf("Warning: Skipping problematic archive %s: %v", arg, err)
				continue
			}
			list = append(list, sortSources(entries, sortMethod)...)
		}
	}
	return list, nil
}
