package main

import (
	"context"
	"sync"
)

// NavigationDirection represents the direction of navigation
type NavigationDirection int

const (
	NavigationForward NavigationDirection = iota
	NavigationBackward
	NavigationJump
)

// navigationDirectionOf maps a page transition onto a preload direction
func navigationDirectionOf(t Transition) NavigationDirection {
	switch {
	case t.Initial || !t.Animated:
		return NavigationJump
	case t.Direction == DirectionReverse:
		return NavigationBackward
	default:
		return NavigationForward
	}
}

// PreloadRequest represents a request to preload around a page
type PreloadRequest struct {
	Index     int
	Direction NavigationDirection
}

// PreloadStats provides statistics about preloading
type PreloadStats struct {
	QueueSize     int
	LoadedCount   int
	FailedCount   int
	LastDirection NavigationDirection
}

// PreloadManager warms the image cache for pages next to the visible one
type PreloadManager struct {
	requestChan chan PreloadRequest
	ctx         context.Context
	cancel      context.CancelFunc
	cache       *ImageCache
	sources     func() []Source
	mu          sync.RWMutex
	stats       PreloadStats
	maxPreload  int
	enabled     bool
	done        chan struct{}
}

// NewPreloadManager creates a PreloadManager and starts its worker.
// sources is called on the worker goroutine and must be safe for that.
func NewPreloadManager(parent context.Context, cache *ImageCache, sources func() []Source, maxPreload int) *PreloadManager {
	ctx, cancel := context.WithCancel(parent)
	pm := &PreloadManager{
		requestChan: make(chan PreloadRequest, 100),
		ctx:         ctx,
		cancel:      cancel,
		cache:       cache,
		sources:     sources,
		maxPreload:  maxPreload,
		enabled:     true,
		done:        make(chan struct{}),
	}

	go pm.worker()

	return pm
}

// SetEnabled enables or disables preloading
func (pm *PreloadManager) SetEnabled(enabled bool) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.enabled = enabled
}

// IsEnabled returns whether preloading is enabled
func (pm *PreloadManager) IsEnabled() bool {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	return pm.enabled
}

// GetStats returns current preload statistics
func (pm *PreloadManager) GetStats() PreloadStats {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	s := pm.stats
	s.QueueSize = len(pm.requestChan)
	return s
}

// Stop stops the worker and waits for it to exit
func (pm *PreloadManager) Stop() {
	pm.cancel()
	<-pm.done
}

// StartPreload replaces any pending request with one around currentIdx
func (pm *PreloadManager) StartPreload(currentIdx int, direction NavigationDirection) {
	if !pm.IsEnabled() {
		return
	}

drain:
	for {
		select {
		case <-pm.requestChan:
		default:
			break drain
		}
	}

	select {
	case pm.requestChan <- PreloadRequest{Index: currentIdx, Direction: direction}:
	default:
		debugLog("Preload request channel full, skipping preload request")
	}
}

func (pm *PreloadManager) worker() {
	defer close(pm.done)
	for {
		select {
		case <-pm.ctx.Done():
			return
		case req := <-pm.requestChan:
			if pm.IsEnabled() {
				pm.processPreloadRequest(req)
			}
		}
	}
}

func (pm *PreloadManager) processPreloadRequest(req PreloadRequest) {
	pm.mu.Lock()
	pm.stats.LastDirection = req.Direction
	pm.mu.Unlock()

	sources := pm.sources()
	if len(sources) == 0 {
		return
	}

	for _, idx := range calculatePreloadIndices(req.Index, req.Direction, len(sources), pm.maxPreload) {
		if pm.ctx.Err() != nil {
			return
		}
		pm.preloadSource(idx, sources[idx])
	}
}

// calculatePreloadIndices returns the page indices worth warming after a move
func calculatePreloadIndices(currentIdx int, direction NavigationDirection, count, maxPreload int) []int {
	var indices []int
	add := func(idx int) {
		if idx >= 0 && idx < count {
			indices = append(indices, idx)
		}
	}

	switch direction {
	case NavigationForward:
		for i := 1; i <= maxPreload; i++ {
			add(currentIdx + i)
		}
	case NavigationBackward:
		for i := 1; i <= maxPreload; i++ {
			add(currentIdx - i)
		}
	case NavigationJump:
		half := max(maxPreload/2, 1)
		for i := 1; i <= half; i++ {
			add(currentIdx + i)
		}
		for i := 1; i <= half; i++ {
			add(currentIdx - i)
		}
	}

	return indices
}

func (pm *PreloadManager) preloadSource(idx int, src Source) {
	if src.Ref == "" {
		return
	}
	if _, ok := pm.cache.Peek(src); ok {
		return
	}

	if err := pm.cache.Prefetch(pm.ctx, src); err != nil {
		pm.mu.Lock()
		pm.stats.FailedCount++
		pm.mu.Unlock()
		debugLog("Preload failed for [%d] %s: %v", idx+1, src.Ref, err)
		return
	}

	pm.mu.Lock()
	pm.stats.LoadedCount++
	pm.mu.Unlock()
	debugLog("Preloaded [%d] %s", idx+1, src.Ref)
}
