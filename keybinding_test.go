package main

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func TestParseKeyString(t *testing.T) {
	tests := []struct {
		input string
		ok    bool
		want  KeyCombination
	}{
		{"KeyA", true, KeyCombination{Key: ebiten.KeyA}},
		{"Shift+Slash", true, KeyCombination{Key: ebiten.KeySlash, Modifiers: Modifiers{Shift: true}}},
		{"ctrl+alt+Key0", true, KeyCombination{Key: ebiten.Key0, Modifiers: Modifiers{Ctrl: true, Alt: true}}},
		{"PageDown", true, KeyCombination{Key: ebiten.KeyPageDown}},
		{"Shift+", false, KeyCombination{}},
		{"KeyFoo", false, KeyCombination{}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := parseKeyString(tt.input)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("parseKeyString(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestKeybindingManagerUpdate(t *testing.T) {
	km := NewKeybindingManager(GetDefaultKeybindings())
	if got := len(km.combos["next"]); got != 3 {
		t.Errorf("Expected 3 default combos for next, got %d", got)
	}

	km.UpdateKeybindings(map[string][]string{"next": {"KeyJ", "NotAKey"}})
	if got := len(km.combos["next"]); got != 1 {
		t.Errorf("Expected invalid keys to be skipped, got %d combos", got)
	}
	if _, ok := km.combos["previous"]; ok {
		t.Error("previous should no longer be bound")
	}
	if got := km.GetKeybindings()["next"]; len(got) != 2 {
		t.Errorf("GetKeybindings should return the configured strings, got %v", got)
	}
}

func TestDefaultBindingsCoverEveryAction(t *testing.T) {
	keys := GetDefaultKeybindings()
	mouse := GetDefaultMousebindings()
	for _, def := range actionDefinitions {
		if len(keys[def.Name]) == 0 && len(mouse[def.Name]) == 0 {
			t.Errorf("action %s has no default binding", def.Name)
		}
		if actionDescriptions()[def.Name] == "" {
			t.Errorf("action %s has no description", def.Name)
		}
	}
}
