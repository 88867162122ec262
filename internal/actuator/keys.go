package actuator

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/ayusman/mudra/internal/plugin"
	"github.com/go-vgo/robotgo"
)

// ErrUnknownKey is returned for keys outside the supported set.
var ErrUnknownKey = errors.New("unknown key")

// ErrNoDisplay is returned when key events have no display to go to.
var ErrNoDisplay = errors.New("no display available for key injection")

// Key is a key name understood by every KeySender.
type Key string

// Supported keys.
const (
	KeySpace Key = "space"
	KeyLeft  Key = "left"
	KeyRight Key = "right"
	KeyUp    Key = "up"
	KeyDown  Key = "down"
)

// ParseKey validates a key name.
func ParseKey(s string) (Key, error) {
	switch k := Key(s); k {
	case KeySpace, KeyLeft, KeyRight, KeyUp, KeyDown:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKey, s)
}

// KeySender injects discrete key presses into the host OS.
type KeySender interface {
	Press(key Key) error
}

// RobotgoSender presses keys through robotgo.
type RobotgoSender struct{}

// NewRobotgoSender creates a RobotgoSender after checking that a display
// is available to receive key events.
func NewRobotgoSender() (*RobotgoSender, error) {
	if err := checkDisplay(os.Getenv); err != nil {
		return nil, err
	}
	return &RobotgoSender{}, nil
}

// checkDisplay reports ErrNoDisplay when robotgo has nowhere to send keys.
// On Linux robotgo talks to X11, so DISPLAY must be set.
func checkDisplay(getenv func(string) string) error {
	if runtime.GOOS == "linux" && getenv("DISPLAY") == "" {
		return fmt.Errorf("%w: DISPLAY is not set", ErrNoDisplay)
	}
	if w, h := robotgo.GetScreenSize(); w <= 0 || h <= 0 {
		return fmt.Errorf("%w: screen size %dx%d", ErrNoDisplay, w, h)
	}
	return nil
}

// Press taps key once.
func (s *RobotgoSender) Press(key Key) error {
	if _, err := ParseKey(string(key)); err != nil {
		return err
	}
	return robotgo.KeyTap(string(key))
}

// PluginSender delegates key presses to an external keyboard plugin.
type PluginSender struct {
	plugin   *plugin.Plugin
	executor *plugin.Executor
}

// NewPluginSender creates a sender that runs p through exec for each press.
func NewPluginSender(p *plugin.Plugin, exec *plugin.Executor) *PluginSender {
	return &PluginSender{plugin: p, executor: exec}
}

// Press sends a "keystroke" request for key and checks the plugin's reply.
func (s *PluginSender) Press(key Key) error {
	if _, err := ParseKey(string(key)); err != nil {
		return err
	}

	params, err := json.Marshal(map[string]string{"key": string(key)})
	if err != nil {
		return fmt.Errorf("encode params: %w", err)
	}

	resp, err := s.executor.Execute(s.plugin, &plugin.Request{
		Action: "keystroke",
		Params: params,
	})
	if err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("plugin %s: %s", s.plugin.Manifest.Name, resp.Error)
	}
	return nil
}
