package app

import (
	"fmt"
	"log"

	"github.com/ayusman/mudra/internal/actuator"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/plugin"
)

// OpenLEDBank claims the configured LED outputs. Unavailable hardware is an error.
func OpenLEDBank(leds config.LEDConfig) (*actuator.Bank, error) {
	if leds.Backend == config.LEDBackendLog {
		return actuator.NewLogBank(leds.Pins), nil
	}
	return actuator.OpenGPIOBank(leds.Pins)
}

// OpenKeySender builds the configured key sender and checks that it can
// deliver keys before the controller starts.
func OpenKeySender(keys config.KeyConfig) (actuator.KeySender, error) {
	switch keys.Backend {
	case config.KeyBackendLog:
		return actuator.NewKeyRecorder(true), nil
	case config.KeyBackendPlugin:
		manager := plugin.NewManager(keys.PluginDir)
		if err := manager.Discover(); err != nil {
			return nil, fmt.Errorf("discover plugins: %w", err)
		}
		p, err := manager.Require(keys.Plugin, "keystroke")
		if err != nil {
			return nil, err
		}
		log.Printf("Using key plugin %s from %s", p.Manifest.Name, p.Path)
		return actuator.NewPluginSender(p, plugin.NewExecutor(keys.Timeout)), nil
	case config.KeyBackendRobotgo:
		return actuator.NewRobotgoSender()
	default:
		return nil, fmt.Errorf("unknown key backend %q", keys.Backend)
	}
}
