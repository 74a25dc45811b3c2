package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
)

// Window size constants
const (
	defaultWidth  = 1024
	defaultHeight = 768
	minWidth      = 320
	minHeight     = 240
)

// Sort method constants
const (
	SortNatural    = 0 // Natural sort order (e.g., file1, file2, file10)
	SortSimple     = 1 // Simple string sort (lexicographical)
	SortEntryOrder = 2 // Maintain original order (no sort)
)

const configFileName = "config.json"

// ConfigLoadResult contains the result of loading configuration
type ConfigLoadResult struct {
	Config   Config
	HasError bool
	Warnings []string
	Status   string // "OK", "Default", "Warning", "Error"
}

type Config struct {
	WindowWidth        int                 `json:"window_width"`
	WindowHeight       int                 `json:"window_height"`
	Fullscreen         bool                `json:"fullscreen"`
	CacheSize          int                 `json:"cache_size"`
	TextureCacheSize   int                 `json:"texture_cache_size"`
	CacheDir           string              `json:"cache_dir"`
	HTTPTimeoutSeconds int                 `json:"http_timeout_seconds"`
	FetchConcurrency   int                 `json:"fetch_concurrency"`
	PreloadEnabled     bool                `json:"preload_enabled"`
	PreloadCount       int                 `json:"preload_count"`
	TransitionFrames   int                 `json:"transition_frames"`
	ZoomFrames         int                 `json:"zoom_frames"`
	SwipeThreshold     int                 `json:"swipe_threshold"`
	ReserveFailedSlots bool                `json:"reserve_failed_slots"`
	SortMethod         int                 `json:"sort_method"`
	FontSize           float64             `json:"font_size"`
	ShowCounter        bool                `json:"show_counter"`
	Keybindings        map[string][]string `json:"keybindings"`
	Mousebindings      map[string][]string `json:"mousebindings"`
	MouseSettings      MouseSettings       `json:"mouse_settings"`
}

// HTTPTimeout returns the fetch timeout as a duration
func (c Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSeconds) * time.Second
}

func defaultConfig() Config {
	return Config{
		WindowWidth:        defaultWidth,
		WindowHeight:       defaultHeight,
		Fullscreen:         false,
		CacheSize:          16,
		TextureCacheSize:   6,
		CacheDir:           "", // XDG cache dir
		HTTPTimeoutSeconds: int(defaultHTTPTimeout / time.Second),
		FetchConcurrency:   defaultFetchConcurrency,
		PreloadEnabled:     true,
		PreloadCount:       2,
		TransitionFrames:   12,
		ZoomFrames:         10,
		SwipeThreshold:     80,
		ReserveFailedSlots: false,
		SortMethod:         SortNatural,
		FontSize:           18.0,
		ShowCounter:        true,
		Keybindings:        GetDefaultKeybindings(),
		Mousebindings:      GetDefaultMousebindings(),
		MouseSettings:      GetDefaultMouseSettings(),
	}
}

// getConfigPath returns $XDG_CONFIG_HOME/gallery/config.json
func getConfigPath() string {
	p, err := xdg.ConfigFile(filepath.Join(cacheDirName, configFileName))
	if err != nil {
		return filepath.Join(".", "gallery.json")
	}
	return p
}

func loadConfig() ConfigLoadResult {
	return loadConfigFromPath(getConfigPath())
}

func loadConfigFromPath(configPath string) ConfigLoadResult {
	config := defaultConfig()

	result := ConfigLoadResult{
		Config:   config,
		HasError: false,
		Warnings: []string{},
		Status:   "OK",
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		// Config file not found is not an error - use defaults
		result.Status = "Default"
		return result
	}

	if err := json.Unmarshal(data, &config); err != nil {
		log.Printf("Warning: Invalid config file %s, using defaults: %v", configPath, err)
		result.HasError = true
		result.Status = "Error"
		result.Warnings = append(result.Warnings, fmt.Sprintf("Invalid config file: %v", err))
		return result
	}

	validateConfig(&config, &result)
	result.Config = config
	return result
}

// validateConfig clamps out-of-range values and fills missing bindings
func validateConfig(config *Config, result *ConfigLoadResult) {
	defaults := defaultConfig()

	if config.WindowWidth < minWidth {
		config.WindowWidth = defaults.WindowWidth
	}
	if config.WindowHeight < minHeight {
		config.WindowHeight = defaults.WindowHeight
	}

	// Memory cache holds decoded bitmaps (1..64)
	config.CacheSize = clampInt(config.CacheSize, 1, 64, defaults.CacheSize)
	config.TextureCacheSize = clampInt(config.TextureCacheSize, 1, 32, defaults.TextureCacheSize)
	config.HTTPTimeoutSeconds = clampInt(config.HTTPTimeoutSeconds, 1, 300, defaults.HTTPTimeoutSeconds)
	config.FetchConcurrency = clampInt(config.FetchConcurrency, 1, 16, defaults.FetchConcurrency)
	config.PreloadCount = clampInt(config.PreloadCount, 1, 16, defaults.PreloadCount)

	if config.TransitionFrames < 0 {
		config.TransitionFrames = 0
	} else if config.TransitionFrames > 60 {
		config.TransitionFrames = 60
	}
	if config.ZoomFrames < 0 {
		config.ZoomFrames = 0
	} else if config.ZoomFrames > 60 {
		config.ZoomFrames = 60
	}

	if config.SwipeThreshold < 10 {
		config.SwipeThreshold = defaults.SwipeThreshold
	}

	if config.SortMethod < SortNatural || config.SortMethod > SortEntryOrder {
		config.SortMethod = SortNatural
	}

	// Minimum 12px for readability
	if config.FontSize < 12.0 {
		config.FontSize = defaults.FontSize
	}

	if config.MouseSettings == (MouseSettings{}) {
		config.MouseSettings = defaults.MouseSettings
	}
	if config.MouseSettings.DoubleClickTime <= 0 {
		config.MouseSettings.DoubleClickTime = defaults.MouseSettings.DoubleClickTime
	}
	if config.MouseSettings.WheelSensitivity <= 0 {
		config.MouseSettings.WheelSensitivity = defaults.MouseSettings.WheelSensitivity
	}

	config.Keybindings = mergeBindings(config.Keybindings, defaults.Keybindings)
	if err := validateKeybindings(config.Keybindings); err != nil {
		log.Printf("Warning: Invalid keybindings detected, using defaults: %v", err)
		config.Keybindings = defaults.Keybindings
		result.Status = "Warning"
		result.Warnings = append(result.Warnings, fmt.Sprintf("Keybinding errors: %v", err))
	}

	config.Mousebindings = mergeBindings(config.Mousebindings, defaults.Mousebindings)
	if err := validateMousebindings(config.Mousebindings); err != nil {
		log.Printf("Warning: Invalid mouse bindings detected, using defaults: %v", err)
		config.Mousebindings = defaults.Mousebindings
		result.Status = "Warning"
		result.Warnings = append(result.Warnings, fmt.Sprintf("Mouse binding errors: %v", err))
	}
}

func clampInt(v, lo, hi, fallback int) int {
	if v < lo {
		return fallback
	}
	if v > hi {
		return hi
	}
	return v
}

// mergeBindings fills actions missing from user with the defaults
func mergeBindings(user, defaults map[string][]string) map[string][]string {
	if user == nil {
		return defaults
	}
	for action, keys := range defaults {
		if _, exists := user[action]; !exists {
			user[action] = keys
		}
	}
	return user
}

// validateKeybindings checks key names and detects conflicts
func validateKeybindings(keybindings map[string][]string) error {
	keyToAction := make(map[string]string)
	validKeys := getKeyMapping()

	for action, keys := range keybindings {
		if _, known := actionDescriptions()[action]; !known {
			return fmt.Errorf("unknown action '%s'", action)
		}
		for _, keyStr := range keys {
			if err := validateKeyString(keyStr, validKeys); err != nil {
				return fmt.Errorf("invalid key '%s' for action '%s': %v", keyStr, action, err)
			}
			if existingAction, exists := keyToAction[keyStr]; exists {
				return fmt.Errorf("key conflict: '%s' is bound to both '%s' and '%s'", keyStr, existingAction, action)
			}
			keyToAction[keyStr] = action
		}
	}
	return nil
}

// validateKeyString validates a single key string such as "Shift+KeyB"
func validateKeyString[K any](keyStr string, validKeys map[string]K) error {
	parts := strings.Split(keyStr, "+")
	keyName := parts[len(parts)-1]
	if keyName == "" {
		return fmt.Errorf("empty key string")
	}
	if _, ok := validKeys[keyName]; !ok {
		return fmt.Errorf("unknown key: %s", keyName)
	}
	return validateModifiers(parts[:len(parts)-1])
}

func validateModifiers(modifiers []string) error {
	for _, m := range modifiers {
		switch strings.ToLower(m) {
		case "shift", "ctrl", "alt":
		default:
			return fmt.Errorf("unknown modifier: %s", m)
		}
	}
	return nil
}

// validateMousebindings checks mouse action names and detects conflicts
func validateMousebindings(mousebindings map[string][]string) error {
	seen := make(map[string]string)
	for action, mouseActions := range mousebindings {
		if _, known := actionDescriptions()[action]; !known {
			return fmt.Errorf("unknown action '%s'", action)
		}
		for _, mouseStr := range mouseActions {
			if _, ok := parseMouseString(mouseStr); !ok {
				return fmt.Errorf("invalid mouse binding '%s' for action '%s'", mouseStr, action)
			}
			if existing, exists := seen[mouseStr]; exists {
				return fmt.Errorf("mouse conflict: '%s' is bound to both '%s' and '%s'", mouseStr, existing, action)
			}
			seen[mouseStr] = action
		}
	}
	return nil
}

// getSortMethodName returns the human-readable name of a sort method
func getSortMethodName(sortMethod int) string {
	return GetSortStrategy(sortMethod).Name()
}

func saveConfigToPath(config Config, configPath string) error {
	if config.WindowWidth < minWidth || config.WindowHeight < minHeight {
		return fmt.Errorf("not saving config with invalid window size: %dx%d",
			config.WindowWidth, config.WindowHeight)
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(configPath), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	return os.WriteFile(configPath, data, 0o644)
}

// saveWindowSize persists the window size, keeping other settings as loaded
func saveWindowSize(config Config, w, h int) {
	config.WindowWidth = w
	config.WindowHeight = h
	if err := saveConfigToPath(config, getConfigPath()); err != nil {
		log.Printf("Warning: Failed to save config: %v", err)
	}
}
