package main

import (
	"archive/zip"
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{255, 0, 0, 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func writeZip(t *testing.T, path string, entries map[string][]byte, order []string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create zip: %v", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for _, name := range order {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create entry %s: %v", name, err)
		}
		if _, err := w.Write(entries[name]); err != nil {
			t.Fatalf("write entry %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
}

func TestIsSupportedExt(t *testing.T) {
	tests := []struct {
		path      string
		supported bool
		archive   bool
	}{
		{"test.jpg", true, false},
		{"test.JPEG", true, false},
		{"test.png", true, false},
		{"test.webp", true, false},
		{"test.bmp", true, false},
		{"test.gif", true, false},
		{"test.txt", false, false},
		{"test", false, false},
		{"book.zip", false, true},
		{"book.RAR", false, true},
		{"book.7z", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := isSupportedExt(tt.path); got != tt.supported {
				t.Errorf("isSupportedExt(%q) = %v, want %v", tt.path, got, tt.supported)
			}
			if got := isArchiveExt(tt.path); got != tt.archive {
				t.Errorf("isArchiveExt(%q) = %v, want %v", tt.path, got, tt.archive)
			}
		})
	}
}

func TestParseSource(t *testing.T) {
	tests := []struct {
		name    string
		ref     string
		want    Source
		wantErr bool
	}{
		{
			name: "https url",
			ref:  "https://example.com/a/b.png",
			want: Source{Ref: "https://example.com/a/b.png", Kind: SourceRemote},
		},
		{
			name: "http url with spaces trimmed",
			ref:  "  http://example.com/x.jpg ",
			want: Source{Ref: "http://example.com/x.jpg", Kind: SourceRemote},
		},
		{
			name:    "unsupported scheme",
			ref:     "ftp://example.com/a.png",
			wantErr: true,
		},
		{
			name:    "missing host",
			ref:     "http:///a.png",
			wantErr: true,
		},
		{
			name:    "empty",
			ref:     "   ",
			wantErr: true,
		},
		{
			name: "archive entry",
			ref:  "books/vol1.zip:pages/01.png",
			want: Source{
				Ref:         "books/vol1.zip:pages/01.png",
				Kind:        SourceArchiveEntry,
				ArchivePath: "books/vol1.zip",
				EntryPath:   "pages/01.png",
			},
		},
		{
			name: "7z entry",
			ref:  "a.7z:b.webp",
			want: Source{Ref: "a.7z:b.webp", Kind: SourceArchiveEntry, ArchivePath: "a.7z", EntryPath: "b.webp"},
		},
		{
			name: "archive without entry is a file",
			ref:  "book.zip:",
			want: Source{Ref: "book.zip:", Kind: SourceFile},
		},
		{
			name: "plain file",
			ref:  "images/cat.png",
			want: Source{Ref: "images/cat.png", Kind: SourceFile},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSource(tt.ref)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidSource) {
					t.Fatalf("ParseSource(%q) error = %v, want ErrInvalidSource", tt.ref, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSource(%q) unexpected error: %v", tt.ref, err)
			}
			if got != tt.want {
				t.Errorf("ParseSource(%q) = %+v, want %+v", tt.ref, got, tt.want)
			}
		})
	}
}

func TestSourceName(t *testing.T) {
	tests := []struct {
		ref  string
		want string
	}{
		{"https://example.com/photos/cat.png", "cat.png"},
		{"https://example.com/", "https://example.com/"},
		{"dir/sub/dog.jpg", "dog.jpg"},
		{"dir/book.zip:pages/03.png", "book.zip:03.png"},
	}

	for _, tt := range tests {
		src, err := ParseSource(tt.ref)
		if err != nil {
			t.Fatalf("ParseSource(%q): %v", tt.ref, err)
		}
		if got := src.Name(); got != tt.want {
			t.Errorf("Name() for %q = %q, want %q", tt.ref, got, tt.want)
		}
	}
}

func TestCollectSources(t *testing.T) {
	tmpDir := t.TempDir()
	pngData := encodePNG(t, 2, 2)

	for _, name := range []string{"10.png", "2.png", "1.jpg", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(tmpDir, name), pngData, 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	t.Run("directory is walked and sorted", func(t *testing.T) {
		got, err := collectSources([]string{tmpDir}, SortNatural)
		if err != nil {
			t.Fatalf("collectSources: %v", err)
		}
		want := []string{
			filepath.Join(tmpDir, "1.jpg"),
			filepath.Join(tmpDir, "2.png"),
			filepath.Join(tmpDir, "10.png"),
		}
		if !reflect.DeepEqual(sourceRefs(got), want) {
			t.Errorf("Expected %v, got %v", want, sourceRefs(got))
		}
	})

	t.Run("argument order is preserved", func(t *testing.T) {
		args := []string{
			"https://example.com/z.png",
			filepath.Join(tmpDir, "2.png"),
			"https://example.com/a.png",
		}
		got, err := collectSources(args, SortNatural)
		if err != nil {
			t.Fatalf("collectSources: %v", err)
		}
		if !reflect.DeepEqual(sourceRefs(got), args) {
			t.Errorf("Expected %v, got %v", args, sourceRefs(got))
		}
		if got[0].Kind != SourceRemote || got[1].Kind != SourceFile {
			t.Errorf("unexpected kinds: %v, %v", got[0].Kind, got[1].Kind)
		}
	})

	t.Run("unsupported file is skipped", func(t *testing.T) {
		got, err := collectSources([]string{filepath.Join(tmpDir, "notes.txt")}, SortNatural)
		if err != nil {
			t.Fatalf("collectSources: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("Expected no sources, got %v", sourceRefs(got))
		}
	})

	t.Run("missing file is an error", func(t *testing.T) {
		if _, err := collectSources([]string{filepath.Join(tmpDir, "missing.png")}, SortNatural); err == nil {
			t.Error("Expected error for missing file")
		}
	})

	t.Run("invalid url is an error", func(t *testing.T) {
		if _, err := collectSources([]string{"ftp://example.com/a.png"}, SortNatural); !errors.Is(err, ErrInvalidSource) {
			t.Errorf("Expected ErrInvalidSource, got %v", err)
		}
	})
}

func TestZipArchiveSources(t *testing.T) {
	tmpDir := t.TempDir()
	archive := filepath.Join(tmpDir, "book.zip")
	pngData := encodePNG(t, 3, 5)
	entries := map[string][]byte{
		"p10.png":    pngData,
		"p2.png":     pngData,
		"readme.txt": []byte("hello"),
	}
	writeZip(t, archive, entries, []string{"p10.png", "readme.txt", "p2.png"})

	listed, err := listArchive(archive)
	if err != nil {
		t.Fatalf("listArchive: %v", err)
	}
	wantListed := []string{archive + ":p10.png", archive + ":p2.png"}
	if !reflect.DeepEqual(sourceRefs(listed), wantListed) {
		t.Errorf("listArchive = %v, want %v", sourceRefs(listed), wantListed)
	}

	collected, err := collectSources([]string{archive}, SortNatural)
	if err != nil {
		t.Fatalf("collectSources: %v", err)
	}
	wantCollected := []string{archive + ":p2.png", archive + ":p10.png"}
	if !reflect.DeepEqual(sourceRefs(collected), wantCollected) {
		t.Errorf("collectSources = %v, want %v", sourceRefs(collected), wantCollected)
	}

	data, err := readLocalSource(collected[0])
	if err != nil {
		t.Fatalf("readLocalSource: %v", err)
	}
	img, err := decodeImage(data, collected[0].Name())
	if err != nil {
		t.Fatalf("decodeImage: %v", err)
	}
	if got := img.Bounds(); got.Dx() != 3 || got.Dy() != 5 {
		t.Errorf("decoded bounds = %v, want 3x5", got)
	}

	if _, err := readLocalSource(archiveEntrySource(archive, "missing.png")); !errors.Is(err, errEntryNotFound) {
		t.Errorf("Expected errEntryNotFound, got %v", err)
	}
}

func TestDecodeImageRejectsGarbage(t *testing.T) {
	if _, err := decodeImage([]byte("not an image"), "x.png"); !errors.Is(err, ErrDecode) {
		t.Errorf("Expected ErrDecode, got %v", err)
	}
}
