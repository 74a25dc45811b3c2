package main

// ActionDefinition defines an action with its default keybindings, mouse bindings, and description
type ActionDefinition struct {
	Name         string
	Keys         []string
	MouseActions []string
	Description  string
}

// actionDefinitions contains all action definitions with default keybindings, mouse bindings, and descriptions
var actionDefinitions = []ActionDefinition{
	{"close", []string{"Escape", "KeyQ"}, []string{}, "Close gallery"},
	{"help", []string{"Shift+Slash"}, []string{"Alt+RightClick"}, "Show/hide help"},
	{"info", []string{"KeyI"}, []string{}, "Show/hide info display"},
	{"next", []string{"Space", "KeyN", "PageDown"}, []string{"WheelDown"}, "Next image"},
	{"previous", []string{"Backspace", "KeyP", "PageUp"}, []string{"WheelUp"}, "Previous image"},
	{"jump_first", []string{"Home", "Shift+Comma"}, []string{}, "Jump to first image"},
	{"jump_last", []string{"End", "Shift+Period"}, []string{}, "Jump to last image"},
	{"page_input", []string{"KeyG"}, []string{"Ctrl+LeftClick"}, "Go to image (enter number)"},
	{"fullscreen", []string{"Enter", "KeyF"}, []string{"MiddleClick"}, "Toggle fullscreen"},

	// Zoom and pan actions
	{"toggle_zoom", []string{"KeyZ"}, []string{"DoubleLeftClick"}, "Toggle between fit and full zoom"},
	{"zoom_in", []string{"Equal", "Shift+Equal"}, []string{"Ctrl+WheelUp"}, "Zoom in"},
	{"zoom_out", []string{"Minus"}, []string{"Ctrl+WheelDown"}, "Zoom out"},
	{"zoom_fit", []string{"Key0"}, []string{"Shift+MiddleClick"}, "Fit image width"},
	{"pan_up", []string{"ArrowUp"}, []string{}, "Pan up"},
	{"pan_down", []string{"ArrowDown"}, []string{}, "Pan down"},
	{"pan_left", []string{"ArrowLeft"}, []string{}, "Pan left (previous image at edge)"},
	{"pan_right", []string{"ArrowRight"}, []string{}, "Pan right (next image at edge)"},
}

// ActionExecutor is the single place where action names turn into InputActions calls,
// shared by the keyboard and mouse binding managers
type ActionExecutor struct{}

// NewActionExecutor creates a new ActionExecutor instance
func NewActionExecutor() *ActionExecutor {
	return &ActionExecutor{}
}

// ExecuteAction runs action and reports whether it is known
func (ae *ActionExecutor) ExecuteAction(action string, inputActions InputActions, inputState InputState) bool {
	switch action {
	case "close":
		inputActions.Close()
	case "help":
		inputActions.ToggleHelp()
	case "info":
		inputActions.ToggleInfo()
	case "next":
		inputActions.NavigateNext()
	case "previous":
		inputActions.NavigatePrevious()
	case "jump_first":
		inputActions.JumpToPage(1)
	case "jump_last":
		if total := inputActions.GetTotalPagesCount(); total > 0 {
			inputActions.JumpToPage(total)
		}
	case "page_input":
		if !inputState.IsInPageInputMode() {
			inputActions.EnterPageInputMode()
		}
	case "fullscreen":
		inputActions.ToggleFullscreen()

	case "toggle_zoom":
		inputActions.ToggleZoom()
	case "zoom_in":
		inputActions.ZoomIn()
	case "zoom_out":
		inputActions.ZoomOut()
	case "zoom_fit":
		inputActions.ZoomFit()
	case "pan_up":
		inputActions.PanUp()
	case "pan_down":
		inputActions.PanDown()
	case "pan_left":
		inputActions.PanLeft()
	case "pan_right":
		inputActions.PanRight()

	default:
		return false
	}

	return true
}

// globalActionExecutor is the global instance of ActionExecutor used throughout the application
var globalActionExecutor = NewActionExecutor()

// actionDescriptions returns a map of action names to their descriptions
func actionDescriptions() map[string]string {
	descriptions := make(map[string]string)
	for _, action := range actionDefinitions {
		descriptions[action.Name] = action.Description
	}
	return descriptions
}

// GetDefaultKeybindings returns a map of action names to their default keybindings
func GetDefaultKeybindings() map[string][]string {
	keybindings := make(map[string][]string)
	for _, action := range actionDefinitions {
		keybindings[action.Name] = action.Keys
	}
	return keybindings
}

// GetDefaultMousebindings returns a map of action names to their default mouse bindings
func GetDefaultMousebindings() map[string][]string {
	mousebindings := make(map[string][]string)
	for _, action := range actionDefinitions {
		mousebindings[action.Name] = action.MouseActions
	}
	return mousebindings
}
