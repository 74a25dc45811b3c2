package main

import (
	"testing"
)

func TestHelpLines(t *testing.T) {
	g := NewGallery(ConfigLoadResult{Config: defaultConfig()}, NewImageCache(1, nil, nil, 1))
	r := g.renderer

	lines := r.helpLines()
	if len(lines) != len(actionDefinitions) {
		t.Fatalf("Expected %d help lines, got %d", len(actionDefinitions), len(lines))
	}
	for i := 1; i < len(lines); i++ {
		if lines[i-1].action >= lines[i].action {
			t.Errorf("help lines not sorted: %s before %s", lines[i-1].action, lines[i].action)
		}
	}

	for _, l := range lines {
		if l.action == "toggle_zoom" {
			if got := l.input(); got != "KeyZ | DoubleLeftClick" {
				t.Errorf("toggle_zoom input = %q", got)
			}
		}
	}
}

func TestHelpLineInput(t *testing.T) {
	tests := []struct {
		line helpLine
		want string
	}{
		{helpLine{keys: "KeyA", mouse: "LeftClick"}, "KeyA | LeftClick"},
		{helpLine{keys: "KeyA"}, "KeyA"},
		{helpLine{mouse: "LeftClick"}, "LeftClick"},
		{helpLine{}, ""},
	}
	for _, tt := range tests {
		if got := tt.line.input(); got != tt.want {
			t.Errorf("input() = %q, want %q", got, tt.want)
		}
	}
}

func TestShortWarning(t *testing.T) {
	short := "bad key"
	if shortWarning(short) != short {
		t.Error("short warnings are kept as is")
	}
	long := "Keybinding errors: key conflict: 'KeyQ' is bound to both 'close' and 'next'"
	got := shortWarning(long)
	if len(got) != 50 || got[47:] != "..." {
		t.Errorf("shortWarning() = %q", got)
	}
}

func TestCalculateOptimalFontSize(t *testing.T) {
	g := NewGallery(ConfigLoadResult{Config: defaultConfig()}, NewImageCache(1, nil, nil, 1))
	r := g.renderer
	lines := r.helpLines()

	if _, ok := r.calculateOptimalFontSize(lines, 100, 100); ok {
		t.Error("help should not fit in 100x100")
	}

	size, ok := r.calculateOptimalFontSize(lines, 4000, 4000)
	if !ok || size != g.GetFontSize() {
		t.Errorf("Expected the configured font size on a large screen, got %v (fit %v)", size, ok)
	}

	w, h := r.calculateRequiredDimensions(lines, minHelpFont)
	size, ok = r.calculateOptimalFontSize(lines, w+1, h+1)
	if !ok || size < minHelpFont || size > g.GetFontSize() {
		t.Errorf("Expected a size between %v and %v, got %v (fit %v)", minHelpFont, g.GetFontSize(), size, ok)
	}
}

func TestTruncateText(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"a very long reason", 10, "a very ..."},
		{"tiny", 3, "tiny"},
	}
	for _, tt := range tests {
		if got := truncateText(tt.in, tt.max); got != tt.want {
			t.Errorf("truncateText(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}
