package gesture

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ayusman/mudra/internal/detector"
)

// ErrNoSamples is returned when training is asked to average nothing.
var ErrNoSamples = errors.New("no samples provided")

// Trainer turns recorded samples into class templates.
type Trainer struct{}

func NewTrainer() *Trainer {
	return &Trainer{}
}

// Sample is one recorded hand pose in raw image coordinates.
type Sample struct {
	Landmarks []detector.Point3D `json:"landmarks"`
	Timestamp int64              `json:"timestamp"`
}

// NewSample encodes a detected hand as a raw sample. Coordinates that JSON
// cannot represent (NaN, Inf) are an error.
func NewSample(hand detector.HandLandmarks, timestamp int64) (json.RawMessage, error) {
	data, err := json.Marshal(Sample{Landmarks: hand.Points[:], Timestamp: timestamp})
	if err != nil {
		return nil, fmt.Errorf("encode sample: %w", err)
	}
	return data, nil
}

// TrainStatic normalizes every sample and averages them point by point.
func (t *Trainer) TrainStatic(samples []json.RawMessage) ([detector.NumLandmarks]detector.Point3D, error) {
	var averaged [detector.NumLandmarks]detector.Point3D

	if len(samples) == 0 {
		return averaged, ErrNoSamples
	}

	for i, raw := range samples {
		var sample Sample
		if err := json.Unmarshal(raw, &sample); err != nil {
			return averaged, fmt.Errorf("failed to parse sample %d: %w", i, err)
		}

		hand, err := detector.FromPoints(sample.Landmarks)
		if err != nil {
			return averaged, fmt.Errorf("sample %d: %w", i, err)
		}

		normalized := hand.Normalize()
		for j, p := range normalized.Points {
			averaged[j].X += p.X
			averaged[j].Y += p.Y
			averaged[j].Z += p.Z
		}
	}

	n := float64(len(samples))
	for j := range averaged {
		averaged[j].X /= n
		averaged[j].Y /= n
		averaged[j].Z /= n
	}

	return averaged, nil
}

// Train builds a template for class from samples.
func (t *Trainer) Train(class int, name string, samples []json.RawMessage) (*Template, error) {
	landmarks, err := t.TrainStatic(samples)
	if err != nil {
		return nil, err
	}
	return &Template{Class: class, Name: name, Landmarks: landmarks}, nil
}
