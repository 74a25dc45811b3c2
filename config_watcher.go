package main

import (
	"context"
	"log"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// watchConfig reloads configPath whenever it is written or replaced and
// sends the result on changes. It blocks until ctx is done.
// Only the most recent unread result is kept.
func watchConfig(ctx context.Context, configPath string, changes chan ConfigLoadResult) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Printf("Warning: Config hot reload disabled: %v", err)
		return
	}
	defer func() {
		if err := watcher.Close(); err != nil {
			log.Printf("Warning: Config watcher close error: %v", err)
		}
	}()

	// Editors replace files on save, so watch the directory instead of the file
	dir := filepath.Dir(configPath)
	if err := watcher.Add(dir); err != nil {
		debugLog("Config watch not started for %s: %v", dir, err)
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Printf("Warning: Config watcher error: %v", err)
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(configPath) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			result := loadConfigFromPath(configPath)
			debugLog("Config reloaded from %s: %s", configPath, result.Status)
			publishConfig(changes, result)
		}
	}
}

func publishConfig(changes chan ConfigLoadResult, result ConfigLoadResult) {
	select {
	case <-changes:
	default:
	}
	select {
	case changes <- result:
	default:
	}
}
