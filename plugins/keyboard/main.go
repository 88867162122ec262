// Package main is a key-press plugin for macOS.
// It presses keys through System Events via AppleScript.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Request is read from stdin.
type Request struct {
	Action string          `json:"action"`
	Label  string          `json:"label"`
	Params json.RawMessage `json:"params"`
}

// Response is written to stdout.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// KeystrokeParams names the key to press and optional modifiers.
type KeystrokeParams struct {
	Key       string   `json:"key"`
	Modifiers []string `json:"modifiers"` // command, option, control, shift
}

// keyCodes are the virtual key codes of keys AppleScript cannot type as text.
var keyCodes = map[string]int{
	"space":  49,
	"return": 36,
	"escape": 53,
	"left":   123,
	"right":  124,
	"down":   125,
	"up":     126,
}

var modifierMap = map[string]string{
	"command": "command down",
	"cmd":     "command down",
	"option":  "option down",
	"alt":     "option down",
	"control": "control down",
	"ctrl":    "control down",
	"shift":   "shift down",
}

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeResponse(fmt.Errorf("failed to decode request: %w", err))
		return
	}

	switch req.Action {
	case "keystroke":
		p, err := parseParams(req.Params)
		if err != nil {
			writeResponse(err)
			return
		}
		writeResponse(runAppleScript(buildScript(p)))
	default:
		writeResponse(fmt.Errorf("unknown action: %s", req.Action))
	}
}

func parseParams(raw json.RawMessage) (KeystrokeParams, error) {
	var p KeystrokeParams
	if err := json.Unmarshal(raw, &p); err != nil {
		return p, fmt.Errorf("failed to parse params: %w", err)
	}
	if p.Key == "" {
		return p, fmt.Errorf("key is required")
	}
	return p, nil
}

// buildScript returns the AppleScript that presses p.Key. Named keys use
// "key code"; anything else is typed with "keystroke".
func buildScript(p KeystrokeParams) string {
	press := fmt.Sprintf(`keystroke %q`, p.Key)
	if code, ok := keyCodes[strings.ToLower(p.Key)]; ok {
		press = fmt.Sprintf("key code %d", code)
	}

	var mods []string
	for _, m := range p.Modifiers {
		if am, ok := modifierMap[strings.ToLower(m)]; ok {
			mods = append(mods, am)
		}
	}

	script := `tell application "System Events" to ` + press
	if len(mods) > 0 {
		script += " using {" + strings.Join(mods, ", ") + "}"
	}
	return script
}

func writeResponse(err error) {
	resp := Response{Success: err == nil}
	if err != nil {
		resp.Error = err.Error()
	}
	json.NewEncoder(os.Stdout).Encode(resp)
}

func runAppleScript(script string) error {
	cmd := exec.Command("osascript", "-e", script)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, string(output))
	}
	return nil
}
