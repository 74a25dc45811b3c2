package main

import (
	"testing"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

func TestParseMouseString(t *testing.T) {
	tests := []struct {
		input string
		ok    bool
		want  MouseCombination
	}{
		{"LeftClick", true, MouseCombination{Button: ebiten.MouseButtonLeft}},
		{"Ctrl+LeftClick", true, MouseCombination{Button: ebiten.MouseButtonLeft, Modifiers: Modifiers{Ctrl: true}}},
		{"Shift+MiddleClick", true, MouseCombination{Button: ebiten.MouseButtonMiddle, Modifiers: Modifiers{Shift: true}}},
		{"DoubleLeftClick", true, MouseCombination{Button: ebiten.MouseButtonLeft, IsDoubleClick: true}},
		{"WheelUp", true, MouseCombination{IsWheel: true, WheelDeltaY: 1}},
		{"Ctrl+WheelDown", true, MouseCombination{IsWheel: true, WheelDeltaY: -1, Modifiers: Modifiers{Ctrl: true}}},
		{"WheelLeft", true, MouseCombination{IsWheel: true, WheelDeltaX: -1}},
		{"WheelSideways", false, MouseCombination{}},
		{"DoubleTap", false, MouseCombination{}},
		{"ThumbClick", false, MouseCombination{}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := parseMouseString(tt.input)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("parseMouseString(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestWheelMatches(t *testing.T) {
	up, _ := parseMouseString("WheelUp")
	right, _ := parseMouseString("WheelRight")

	if !up.wheelMatches(0, 0.5) || up.wheelMatches(0, -0.5) || up.wheelMatches(1, 0) {
		t.Error("WheelUp should only match positive vertical deltas")
	}
	if !right.wheelMatches(2, 0) || right.wheelMatches(-2, 0) {
		t.Error("WheelRight should only match positive horizontal deltas")
	}
}

func TestDoubleClickTracker(t *testing.T) {
	window := 300 * time.Millisecond
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	var tr DoubleClickTracker
	if tr.register(ebiten.MouseButtonLeft, start, window) {
		t.Error("first click cannot be a double click")
	}
	if !tr.register(ebiten.MouseButtonLeft, start.Add(100*time.Millisecond), window) {
		t.Error("second click inside the window should be a double click")
	}
	if tr.register(ebiten.MouseButtonLeft, start.Add(200*time.Millisecond), window) {
		t.Error("third click starts a new sequence")
	}

	tr = DoubleClickTracker{}
	tr.register(ebiten.MouseButtonLeft, start, window)
	if tr.register(ebiten.MouseButtonLeft, start.Add(time.Second), window) {
		t.Error("clicks outside the window are not a double click")
	}

	tr = DoubleClickTracker{}
	tr.register(ebiten.MouseButtonLeft, start, window)
	if tr.register(ebiten.MouseButtonRight, start.Add(50*time.Millisecond), window) {
		t.Error("clicks on different buttons are not a double click")
	}
}

func TestMousebindingManagerSkipsInvalid(t *testing.T) {
	mm := NewMousebindingManager(map[string][]string{
		"next":     {"WheelDown", "Bogus"},
		"previous": {"WheelUp"},
	}, GetDefaultMouseSettings())

	if got := len(mm.combos["next"]); got != 1 {
		t.Errorf("Expected one parsed binding for next, got %d", got)
	}
	if got := mm.GetMousebindings()["next"]; len(got) != 2 {
		t.Errorf("GetMousebindings should return the configured strings, got %v", got)
	}

	settings := mm.GetSettings()
	settings.EnableSwipe = false
	mm.UpdateSettings(settings)
	if mm.GetSettings().EnableSwipe {
		t.Error("UpdateSettings did not apply")
	}
}
