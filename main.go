package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/hajimehoshi/ebiten/v2"
)

var debugMode bool

// debugLog prints only when -debug or GALLERY_DEBUG is set
func debugLog(format string, args ...any) {
	if debugMode {
		log.Printf("Debug: "+format, args...)
	}
}

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [options] <url|file|dir|archive>...\n", os.Args[0])
	flag.PrintDefaults()
}

func main() {
	var (
		initialIndex  = flag.Int("index", 0, "zero-based index of the first image to show")
		debug         = flag.Bool("debug", false, "enable debug logging")
		reserveFailed = flag.Bool("reserve-failed", false, "keep a placeholder page for images that fail to load")
		cacheDir      = flag.String("cache-dir", "", "image cache directory (default: XDG cache dir)")
	)
	flag.Usage = usage
	flag.Parse()

	debugMode = *debug || os.Getenv("GALLERY_DEBUG") != ""

	configResult := loadConfig()
	fileConfig := configResult.Config
	config := fileConfig
	if *reserveFailed {
		config.ReserveFailedSlots = true
	}
	if *cacheDir != "" {
		config.CacheDir = *cacheDir
	}
	configResult.Config = config
	debugLog("Config status: %s, sort: %s", configResult.Status, getSortMethodName(config.SortMethod))

	sources, err := collectSources(flag.Args(), config.SortMethod)
	if err != nil {
		log.Fatal(err)
	}
	if len(sources) == 0 {
		usage()
		log.Fatal("no images specified")
	}
	refs := make([]string, len(sources))
	for i, s := range sources {
		refs[i] = s.Ref
	}

	disk, err := NewDiskStore(config.CacheDir)
	if err != nil {
		log.Printf("Warning: Disk cache disabled: %v", err)
		disk = nil
	}
	cache := NewImageCache(config.CacheSize, disk, NewHTTPFetcher(config.HTTPTimeout()), config.FetchConcurrency)

	if err := InitGraphics(); err != nil {
		log.Printf("Warning: Failed to initialize graphics: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	configUpdates := make(chan ConfigLoadResult, 1)
	go watchConfig(ctx, getConfigPath(), configUpdates)

	g := NewGallery(configResult, cache)
	g.WatchConfig(configUpdates)
	g.OnDismiss(func() {
		// Never overwrite a config file we could not parse
		if configResult.HasError {
			return
		}
		w, h := g.WindowSizeToSave()
		if w >= minWidth && h >= minHeight {
			saveWindowSize(fileConfig, w, h)
		}
	})

	if err := g.PresentGallery(ctx, refs, *initialIndex, true); err != nil {
		if errors.Is(err, ErrNoImages) {
			log.Fatalf("none of the %d images could be loaded", len(refs))
		}
		log.Fatal(err)
	}

	ebiten.SetWindowTitle("Gallery")
	ebiten.SetWindowSize(config.WindowWidth, config.WindowHeight)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetFullscreen(config.Fullscreen)

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
