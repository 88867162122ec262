package main

import (
	"encoding/json"
	"testing"
)

func TestBuildScript(t *testing.T) {
	tests := []struct {
		name string
		p    KeystrokeParams
		want string
	}{
		{"space", KeystrokeParams{Key: "space"}, `tell application "System Events" to key code 49`},
		{"left", KeystrokeParams{Key: "left"}, `tell application "System Events" to key code 123`},
		{"right", KeystrokeParams{Key: "right"}, `tell application "System Events" to key code 124`},
		{"down", KeystrokeParams{Key: "down"}, `tell application "System Events" to key code 125`},
		{"up", KeystrokeParams{Key: "UP"}, `tell application "System Events" to key code 126`},
		{"text", KeystrokeParams{Key: "k"}, `tell application "System Events" to keystroke "k"`},
		{"modifiers", KeystrokeParams{Key: "right", Modifiers: []string{"cmd", "shift", "hyper"}},
			`tell application "System Events" to key code 124 using {command down, shift down}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := buildScript(tt.p); got != tt.want {
				t.Errorf("buildScript() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestParseParams(t *testing.T) {
	p, err := parseParams(json.RawMessage(`{"key":"space"}`))
	if err != nil || p.Key != "space" {
		t.Errorf("parseParams() = %+v, %v", p, err)
	}

	if _, err := parseParams(json.RawMessage(`{}`)); err == nil {
		t.Error("expected error for missing key")
	}
	if _, err := parseParams(json.RawMessage(`[`)); err == nil {
		t.Error("expected error for invalid json")
	}
}
