// Package config loads the YAML configuration of the gesture controllers.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ayusman/mudra/internal/actuator"
	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/plugin"
	"gopkg.in/yaml.v3"
)

// Variant selects the controller a configuration is for.
type Variant string

const (
	VariantLights Variant = "lights"
	VariantMedia  Variant = "media"
)

// DefaultModelPath is the classifier artifact looked up in the working directory.
const DefaultModelPath = "mudra-model.db"

// LED output backends.
const (
	LEDBackendGPIO = "gpio"
	LEDBackendLog  = "log"
)

// Key sender backends.
const (
	KeyBackendRobotgo = "robotgo"
	KeyBackendPlugin  = "plugin"
	KeyBackendLog     = "log"
)

// Config is the complete controller configuration.
type Config struct {
	Variant  Variant         `yaml:"-"`
	Model    string          `yaml:"model"`
	Debounce time.Duration   `yaml:"debounce"`
	Camera   capture.Config  `yaml:"camera"`
	Detector detector.Config `yaml:"detector"`
	LEDs     LEDConfig       `yaml:"leds"`
	Keys     KeyConfig       `yaml:"keys"`
}

// LEDConfig configures the LED bank of the lights controller.
type LEDConfig struct {
	Backend    string        `yaml:"backend"` // gpio, log
	Pins       []string      `yaml:"pins"`
	Step       time.Duration `yaml:"step"`
	BlinkCount int           `yaml:"blink_count"`
}

// KeyConfig configures key delivery for the media controller.
type KeyConfig struct {
	Backend   string        `yaml:"backend"` // robotgo, plugin, log
	PluginDir string        `yaml:"plugin_dir"`
	Plugin    string        `yaml:"plugin"`
	Timeout   time.Duration `yaml:"timeout"`
}

// Default returns the built-in configuration for variant.
func Default(variant Variant) Config {
	cfg := Config{
		Variant:  variant,
		Model:    DefaultModelPath,
		Debounce: 2 * time.Second,
		Camera:   capture.DefaultConfig(),
		Detector: detector.DefaultConfig(),
		LEDs: LEDConfig{
			Backend:    LEDBackendGPIO,
			Pins:       append([]string(nil), actuator.DefaultPins...),
			Step:       actuator.StepDuration,
			BlinkCount: actuator.BlinkCount,
		},
		Keys: KeyConfig{
			Backend:   KeyBackendRobotgo,
			PluginDir: defaultPluginDir(),
			Plugin:    "keyboard",
			Timeout:   plugin.DefaultTimeout,
		},
	}
	if variant == VariantMedia {
		cfg.Debounce = time.Second
	}
	return cfg
}

func defaultPluginDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "plugins"
	}
	return home + "/.mudra/plugins"
}

// Load reads path over the defaults for variant. An empty path yields the defaults.
func Load(path string, variant Variant) (*Config, error) {
	cfg := Default(variant)

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate reports every problem with the configuration.
func (c *Config) Validate() error {
	var errs []error

	if c.Variant != VariantLights && c.Variant != VariantMedia {
		errs = append(errs, fmt.Errorf("unknown variant %q", c.Variant))
	}
	if c.Model == "" {
		errs = append(errs, errors.New("model path is required"))
	}
	if c.Debounce <= 0 {
		errs = append(errs, fmt.Errorf("debounce must be positive, got %v", c.Debounce))
	}
	if c.Camera.Width < 0 || c.Camera.Height < 0 {
		errs = append(errs, fmt.Errorf("invalid camera resolution %dx%d", c.Camera.Width, c.Camera.Height))
	}
	if c.Detector.MaxHands < 1 {
		errs = append(errs, fmt.Errorf("detector.max_hands must be at least 1, got %d", c.Detector.MaxHands))
	}
	if !unit(c.Detector.MinConfidence) || !unit(c.Detector.MinTrackingConf) {
		errs = append(errs, errors.New("detector confidences must be within [0, 1]"))
	}

	switch c.Variant {
	case VariantLights:
		errs = append(errs, c.LEDs.validate()...)
	case VariantMedia:
		errs = append(errs, c.Keys.validate()...)
	}

	return errors.Join(errs...)
}

func (l LEDConfig) validate() []error {
	var errs []error
	if l.Backend != LEDBackendGPIO && l.Backend != LEDBackendLog {
		errs = append(errs, fmt.Errorf("unknown led backend %q", l.Backend))
	}
	if len(l.Pins) != len(actuator.DefaultPins) {
		errs = append(errs, fmt.Errorf("leds.pins needs %d pins, got %d", len(actuator.DefaultPins), len(l.Pins)))
	}
	if l.Step <= 0 {
		errs = append(errs, fmt.Errorf("leds.step must be positive, got %v", l.Step))
	}
	if l.BlinkCount < 1 {
		errs = append(errs, fmt.Errorf("leds.blink_count must be at least 1, got %d", l.BlinkCount))
	}
	return errs
}

func (k KeyConfig) validate() []error {
	var errs []error
	switch k.Backend {
	case KeyBackendRobotgo, KeyBackendLog:
	case KeyBackendPlugin:
		if k.PluginDir == "" || k.Plugin == "" {
			errs = append(errs, errors.New("keys.plugin_dir and keys.plugin are required for the plugin backend"))
		}
		if k.Timeout <= 0 {
			errs = append(errs, fmt.Errorf("keys.timeout must be positive, got %v", k.Timeout))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown key backend %q", k.Backend))
	}
	return errs
}

func unit(v float64) bool {
	return v >= 0 && v <= 1
}
