package detector

import "gocv.io/x/gocv"

// Detector finds hands in a frame.
type Detector interface {
	// Detect returns the hands found in frame, best first.
	// An empty result means no hand was found.
	Detect(frame *gocv.Mat) ([]HandLandmarks, error)

	// Close releases the detector's resources.
	Close() error
}

// Config holds hand detection thresholds.
type Config struct {
	// MaxHands is the maximum number of hands to report.
	MaxHands int `yaml:"max_hands"`

	// MinConfidence is the minimum detection confidence (0.0-1.0).
	MinConfidence float64 `yaml:"min_confidence"`

	// MinTrackingConf is the minimum tracking confidence (0.0-1.0).
	MinTrackingConf float64 `yaml:"min_tracking_confidence"`

	// Script overrides the location of the landmark service script.
	Script string `yaml:"script"`

	// Python overrides the interpreter used to run Script.
	Python string `yaml:"python"`
}

// DefaultConfig tracks a single hand.
func DefaultConfig() Config {
	return Config{
		MaxHands:        1,
		MinConfidence:   0.6,
		MinTrackingConf: 0.5,
	}
}

// First returns the first detected hand, if any.
func First(hands []HandLandmarks) (*HandLandmarks, bool) {
	if len(hands) == 0 {
		return nil, false
	}
	return &hands[0], true
}
