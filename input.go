package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// InputHandler handles keyboard and mouse binding input
type InputHandler struct {
	inputActions        InputActions
	inputState          InputState
	keybindingManager   *KeybindingManager
	mousebindingManager *MousebindingManager
}

// NewInputHandler creates a new InputHandler
func NewInputHandler(inputActions InputActions, inputState InputState, keybindingManager *KeybindingManager, mousebindingManager *MousebindingManager) *InputHandler {
	return &InputHandler{
		inputActions:        inputActions,
		inputState:          inputState,
		keybindingManager:   keybindingManager,
		mousebindingManager: mousebindingManager,
	}
}

// HandleInput processes all input for the current frame
// Returns true if any input was processed, false otherwise
func (h *InputHandler) HandleInput() bool {
	if h.inputActions.GetTotalPagesCount() == 0 {
		return false
	}

	// Page input mode captures the keyboard
	if h.inputState.IsInPageInputMode() {
		return h.handlePageInputMode()
	}

	inputProcessed := false

	inputProcessed = h.execute("close") || inputProcessed
	inputProcessed = h.execute("help") || inputProcessed
	inputProcessed = h.execute("info") || inputProcessed
	inputProcessed = h.execute("page_input") || inputProcessed
	inputProcessed = h.handleNavigation() || inputProcessed
	inputProcessed = h.handleZoomAndPan() || inputProcessed
	inputProcessed = h.execute("fullscreen") || inputProcessed

	return inputProcessed
}

// execute runs action when either its key or its mouse binding fired
func (h *InputHandler) execute(action string) bool {
	if h.keybindingManager.ExecuteAction(action, h.inputActions, h.inputState) {
		return true
	}
	if h.mousebindingManager != nil {
		return h.mousebindingManager.ExecuteAction(action, h.inputActions, h.inputState)
	}
	return false
}

func (h *InputHandler) executeAll(actions ...string) bool {
	inputProcessed := false
	for _, action := range actions {
		inputProcessed = h.execute(action) || inputProcessed
	}
	return inputProcessed
}

func (h *InputHandler) handleNavigation() bool {
	return h.executeAll("next", "previous", "jump_first", "jump_last")
}

func (h *InputHandler) handleZoomAndPan() bool {
	return h.executeAll("toggle_zoom", "zoom_in", "zoom_out", "zoom_fit",
		"pan_up", "pan_down", "pan_left", "pan_right")
}

func (h *InputHandler) handlePageInputMode() bool {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		h.inputActions.ExitPageInputMode()
		return true
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeyNumpadEnter) {
		h.inputActions.ProcessPageInput()
		h.inputActions.ExitPageInputMode()
		return true
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		currentBuffer := h.inputState.GetPageInputBuffer()
		if len(currentBuffer) > 0 {
			h.inputActions.UpdatePageInputBuffer(currentBuffer[:len(currentBuffer)-1])
		}
		return true
	}

	// Digits from both the main row and the numpad
	var digit string
	if digit = h.checkDigitKeys(ebiten.Key0, ebiten.Key9, '0'); digit == "" {
		digit = h.checkDigitKeys(ebiten.KeyNumpad0, ebiten.KeyNumpad9, '0')
	}
	if digit != "" {
		h.inputActions.UpdatePageInputBuffer(h.inputState.GetPageInputBuffer() + digit)
		return true
	}

	return false
}

func (h *InputHandler) checkDigitKeys(startKey, endKey ebiten.Key, baseChar rune) string {
	for key := startKey; key <= endKey; key++ {
		if inpututil.IsKeyJustPressed(key) {
			return string(baseChar + rune(key-startKey))
		}
	}
	return ""
}
