package main

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

const (
	// Overlay message display duration
	overlayMessageDuration = 2 * time.Second
)

// PageLayer is one page drawn this frame, shifted horizontally by OffsetX.
// During a swipe or slide two layers are visible.
type PageLayer struct {
	Page    *Page
	OffsetX float64
}

// RenderState provides read-only access to gallery state for the renderer
type RenderState interface {
	// Pages
	VisibleLayers() []PageLayer
	PageTexture(p *Page) *ebiten.Image

	// Chrome
	CounterText() string
	ShowCounter() bool
	CloseButtonRect() Rect

	// UI state
	IsShowingHelp() bool
	IsShowingInfo() bool
	IsInPageInputMode() bool
	GetPageInputBuffer() string
	GetOverlayMessage() string
	GetOverlayMessageTime() time.Time
	InfoText() string

	// Display data
	GetTotalPagesCount() int
	GetFontSize() float64
	GetConfigStatus() ConfigLoadResult
	GetKeybindings() map[string][]string
	GetMousebindings() map[string][]string
}

// InputActions provides action methods for the input handler
type InputActions interface {
	// Application control
	Close()

	// Display toggles
	ToggleHelp()
	ToggleInfo()
	ToggleFullscreen()

	// Page input
	EnterPageInputMode()
	ExitPageInputMode()
	ProcessPageInput()
	UpdatePageInputBuffer(buffer string)

	// Navigation
	NavigateNext()
	NavigatePrevious()
	JumpToPage(page int)

	// Zoom and pan actions
	ToggleZoom()
	ZoomIn()
	ZoomOut()
	ZoomFit()
	PanUp()
	PanDown()
	PanLeft()
	PanRight()

	// Messages
	ShowOverlayMessage(message string)

	// Common data access
	GetCurrentIndex() int
	GetTotalPagesCount() int
}

// InputState provides read-only access to input-related state
type InputState interface {
	IsInPageInputMode() bool
	GetPageInputBuffer() string
}
