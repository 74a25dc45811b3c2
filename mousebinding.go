package main

import (
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// MouseSettings contains mouse-specific configuration
type MouseSettings struct {
	WheelSensitivity float64 `json:"wheel_sensitivity"`
	DoubleClickTime  int     `json:"double_click_time"` // milliseconds
	DragThreshold    int     `json:"drag_threshold"`    // pixels before a press becomes a drag
	EnableMouse      bool    `json:"enable_mouse"`
	WheelInverted    bool    `json:"wheel_inverted"`
	EnableDragPan    bool    `json:"enable_drag_pan"`  // drag pans zoomed images
	EnableSwipe      bool    `json:"enable_swipe"`     // drag flips pages at fit zoom
	DragSensitivity  float64 `json:"drag_sensitivity"` // drag movement multiplier
}

// DoubleClickTracker tracks double-click state
type DoubleClickTracker struct {
	lastClickTime   time.Time
	lastClickButton ebiten.MouseButton
	clickCount      int
}

// register records a click at now and reports whether it completes a double click
func (t *DoubleClickTracker) register(button ebiten.MouseButton, now time.Time, window time.Duration) bool {
	if t.lastClickButton == button && now.Sub(t.lastClickTime) <= window {
		t.clickCount++
		if t.clickCount == 2 {
			t.clickCount = 0
			t.lastClickTime = now
			return true
		}
	} else {
		t.clickCount = 1
		t.lastClickButton = button
	}

	t.lastClickTime = now
	return false
}

// MouseCombination represents a mouse action with optional modifiers
type MouseCombination struct {
	Button        ebiten.MouseButton
	IsWheel       bool
	WheelDeltaX   float64
	WheelDeltaY   float64
	IsDoubleClick bool
	Modifiers
}

// MousebindingManager turns configured mouse strings into actions
type MousebindingManager struct {
	mousebindings      map[string][]string
	combos             map[string][]MouseCombination
	settings           MouseSettings
	doubleClickTracker DoubleClickTracker
}

// NewMousebindingManager creates a new MousebindingManager
func NewMousebindingManager(mousebindings map[string][]string, settings MouseSettings) *MousebindingManager {
	mm := &MousebindingManager{
		settings: settings,
		doubleClickTracker: DoubleClickTracker{
			lastClickTime: time.Now(),
		},
	}
	mm.UpdateMousebindings(mousebindings)
	return mm
}

// getMouseMapping returns a mapping from string mouse actions to Ebiten mouse buttons
func getMouseMapping() map[string]ebiten.MouseButton {
	return map[string]ebiten.MouseButton{
		"LeftClick":   ebiten.MouseButtonLeft,
		"RightClick":  ebiten.MouseButtonRight,
		"MiddleClick": ebiten.MouseButtonMiddle,
		"Back":        ebiten.MouseButton3,
		"Forward":     ebiten.MouseButton4,
	}
}

// parseMouseString parses a mouse string like "Shift+LeftClick" or "WheelUp" into a MouseCombination
func parseMouseString(mouseStr string) (MouseCombination, bool) {
	parts := strings.Split(mouseStr, "+")
	actionName := parts[len(parts)-1]
	combination := MouseCombination{Modifiers: parseModifiers(parts[:len(parts)-1])}

	switch {
	case strings.HasPrefix(actionName, "Wheel"):
		combination.IsWheel = true
		switch actionName {
		case "WheelUp":
			combination.WheelDeltaY = 1.0
		case "WheelDown":
			combination.WheelDeltaY = -1.0
		case "WheelLeft":
			combination.WheelDeltaX = -1.0
		case "WheelRight":
			combination.WheelDeltaX = 1.0
		default:
			return MouseCombination{}, false
		}
	case strings.HasPrefix(actionName, "Double"):
		combination.IsDoubleClick = true
		button, exists := getMouseMapping()[strings.TrimPrefix(actionName, "Double")]
		if !exists {
			return MouseCombination{}, false
		}
		combination.Button = button
	default:
		button, exists := getMouseMapping()[actionName]
		if !exists {
			return MouseCombination{}, false
		}
		combination.Button = button
	}

	return combination, true
}

// wheelMatches reports whether a wheel delta moves in the combination's direction
func (c MouseCombination) wheelMatches(wheelX, wheelY float64) bool {
	if c.WheelDeltaX != 0 {
		return (c.WheelDeltaX > 0 && wheelX > 0) || (c.WheelDeltaX < 0 && wheelX < 0)
	}
	if c.WheelDeltaY != 0 {
		return (c.WheelDeltaY > 0 && wheelY > 0) || (c.WheelDeltaY < 0 && wheelY < 0)
	}
	return false
}

func (mm *MousebindingManager) isMouseActionTriggered(combination MouseCombination) bool {
	if !mm.settings.EnableMouse || !combination.matchesPressed() {
		return false
	}

	if combination.IsWheel {
		wheelX, wheelY := ebiten.Wheel()
		if mm.settings.WheelInverted {
			wheelY = -wheelY
		}
		return combination.wheelMatches(wheelX*mm.settings.WheelSensitivity, wheelY*mm.settings.WheelSensitivity)
	}

	if combination.IsDoubleClick {
		return mm.checkDoubleClick(combination.Button)
	}

	return inpututil.IsMouseButtonJustPressed(combination.Button)
}

// checkDoubleClick checks if a double-click occurred for the given button
func (mm *MousebindingManager) checkDoubleClick(button ebiten.MouseButton) bool {
	if !inpututil.IsMouseButtonJustPressed(button) {
		return false
	}
	window := time.Duration(mm.settings.DoubleClickTime) * time.Millisecond
	return mm.doubleClickTracker.register(button, time.Now(), window)
}

// CheckAction checks if any mouse binding for the given action is triggered
func (mm *MousebindingManager) CheckAction(action string) bool {
	for _, combination := range mm.combos[action] {
		if mm.isMouseActionTriggered(combination) {
			return true
		}
	}
	return false
}

// ExecuteAction executes the given action using the InputActions interface
func (mm *MousebindingManager) ExecuteAction(action string, inputActions InputActions, inputState InputState) bool {
	if !mm.CheckAction(action) {
		return false
	}

	return globalActionExecutor.ExecuteAction(action, inputActions, inputState)
}

// GetMousebindings returns the current mouse bindings map (for display purposes)
func (mm *MousebindingManager) GetMousebindings() map[string][]string {
	return mm.mousebindings
}

// UpdateMousebindings replaces the bindings; invalid mouse strings are skipped
func (mm *MousebindingManager) UpdateMousebindings(mousebindings map[string][]string) {
	combos := make(map[string][]MouseCombination, len(mousebindings))
	for action, mouseStrings := range mousebindings {
		for _, mouseStr := range mouseStrings {
			if c, ok := parseMouseString(mouseStr); ok {
				combos[action] = append(combos[action], c)
			}
		}
	}
	mm.mousebindings = mousebindings
	mm.combos = combos
}

// UpdateSettings updates the mouse settings
func (mm *MousebindingManager) UpdateSettings(settings MouseSettings) {
	mm.settings = settings
}

// GetSettings returns the current mouse settings
func (mm *MousebindingManager) GetSettings() MouseSettings {
	return mm.settings
}

// GetDefaultMouseSettings returns the default mouse settings
func GetDefaultMouseSettings() MouseSettings {
	return MouseSettings{
		WheelSensitivity: 1.0,
		DoubleClickTime:  300,
		DragThreshold:    5,
		EnableMouse:      true,
		WheelInverted:    false,
		EnableDragPan:    true,
		EnableSwipe:      true,
		DragSensitivity:  1.0,
	}
}
