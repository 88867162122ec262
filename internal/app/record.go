package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/overlay"
)

// ErrRecordingAborted is returned when recording stops before enough samples were taken.
var ErrRecordingAborted = errors.New("recording aborted")

// Recording collects training samples from a live camera.
type Recording struct {
	Camera   capture.Camera
	Detector detector.Detector
	Screen   overlay.Screen

	// Name is shown on the overlay while recording.
	Name string
	// Count is the number of hands to collect.
	Count int
	// Every skips frames between samples. Zero samples every frame with a hand.
	Every int
}

// Record reads frames until Count hands were detected. The camera is opened
// and closed by Record; the detector and screen are left to the caller.
// Samples collected before an abort are returned with ErrRecordingAborted.
func (r *Recording) Record(ctx context.Context) ([]json.RawMessage, error) {
	if r.Count < 1 {
		return nil, fmt.Errorf("sample count must be positive, got %d", r.Count)
	}

	if err := r.Camera.Open(); err != nil {
		return nil, fmt.Errorf("open camera: %w", err)
	}
	defer r.Camera.Close()

	samples := make([]json.RawMessage, 0, r.Count)
	skip := 0

	for len(samples) < r.Count {
		select {
		case <-ctx.Done():
			return samples, ErrRecordingAborted
		default:
		}

		frame, err := r.Camera.ReadFrame()
		if errors.Is(err, capture.ErrEndOfStream) {
			return samples, ErrRecordingAborted
		}
		if err != nil {
			return samples, err
		}

		status := overlay.Status{State: fmt.Sprintf("Recording %s: %d/%d", r.Name, len(samples), r.Count)}

		hands, err := r.Detector.Detect(frame)
		if err != nil {
			log.Printf("Error detecting hands: %v", err)
		}
		if hand, ok := detector.First(hands); ok {
			status.Hand = hand
			if skip == 0 {
				if sample, err := gesture.NewSample(*hand, time.Now().UnixMilli()); err != nil {
					log.Printf("Skipping sample: %v", err)
				} else {
					samples = append(samples, sample)
					skip = r.Every
				}
			} else {
				skip--
			}
		}

		quit := r.Screen.Show(frame, status)
		frame.Close()
		if quit && len(samples) < r.Count {
			return samples, ErrRecordingAborted
		}
	}

	return samples, nil
}
