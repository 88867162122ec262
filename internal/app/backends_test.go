package app

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/ayusman/mudra/internal/actuator"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/plugin"
)

func TestOpenKeySender(t *testing.T) {
	keys := config.Default(config.VariantMedia).Keys

	t.Run("log", func(t *testing.T) {
		keys := keys
		keys.Backend = config.KeyBackendLog
		sender, err := OpenKeySender(keys)
		if err != nil {
			t.Fatalf("OpenKeySender() error = %v", err)
		}
		if _, ok := sender.(*actuator.KeyRecorder); !ok {
			t.Errorf("sender = %T, want *actuator.KeyRecorder", sender)
		}
	})

	t.Run("robotgo without display", func(t *testing.T) {
		if runtime.GOOS != "linux" {
			t.Skip("DISPLAY is only required on Linux")
		}
		t.Setenv("DISPLAY", "")

		keys := keys
		keys.Backend = config.KeyBackendRobotgo
		if _, err := OpenKeySender(keys); !errors.Is(err, actuator.ErrNoDisplay) {
			t.Errorf("OpenKeySender() error = %v, want ErrNoDisplay", err)
		}
	})

	t.Run("plugin missing", func(t *testing.T) {
		keys := keys
		keys.Backend = config.KeyBackendPlugin
		keys.PluginDir = t.TempDir()
		if _, err := OpenKeySender(keys); !errors.Is(err, plugin.ErrPluginNotFound) {
			t.Errorf("OpenKeySender() error = %v, want ErrPluginNotFound", err)
		}
	})

	t.Run("plugin without keystroke", func(t *testing.T) {
		dir := t.TempDir()
		pluginDir := filepath.Join(dir, "keyboard")
		if err := os.MkdirAll(pluginDir, 0755); err != nil {
			t.Fatal(err)
		}
		manifest := `{"name":"keyboard","executable":"keyboard","actions":["shortcut"]}`
		if err := os.WriteFile(filepath.Join(pluginDir, "plugin.json"), []byte(manifest), 0644); err != nil {
			t.Fatal(err)
		}

		keys := keys
		keys.Backend = config.KeyBackendPlugin
		keys.PluginDir = dir
		if _, err := OpenKeySender(keys); err == nil {
			t.Error("expected error for a plugin without keystroke")
		}
	})

	t.Run("unknown backend", func(t *testing.T) {
		keys := keys
		keys.Backend = "xdotool"
		if _, err := OpenKeySender(keys); err == nil {
			t.Error("expected error")
		}
	})
}

func TestOpenLEDBank_Log(t *testing.T) {
	leds := config.Default(config.VariantLights).LEDs
	leds.Backend = config.LEDBackendLog

	bank, err := OpenLEDBank(leds)
	if err != nil {
		t.Fatalf("OpenLEDBank() error = %v", err)
	}
	if bank.Len() != len(actuator.DefaultPins) {
		t.Errorf("Len() = %d, want %d", bank.Len(), len(actuator.DefaultPins))
	}
}
