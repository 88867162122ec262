package app

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/overlay"
)

func newRecording(t *testing.T, frames, count int) (*Recording, *capture.MockCamera, *detector.MockDetector, *overlay.Recorder) {
	t.Helper()

	camera := capture.NewBlankCamera(frames)
	t.Cleanup(camera.Release)

	det := detector.NewMockDetector()
	det.SetHands([]detector.HandLandmarks{detector.ThumbsUpLandmarks()})

	screen := overlay.NewRecorder(0)

	return &Recording{
		Camera:   camera,
		Detector: det,
		Screen:   screen,
		Name:     "Thumbs Up",
		Count:    count,
	}, camera, det, screen
}

func TestRecord(t *testing.T) {
	r, camera, _, screen := newRecording(t, 10, 3)

	samples, err := r.Record(context.Background())
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if len(samples) != 3 {
		t.Fatalf("got %d samples, want 3", len(samples))
	}
	if camera.Reads() != 3 {
		t.Errorf("Reads() = %d, want 3", camera.Reads())
	}
	if camera.IsOpen() {
		t.Error("camera should be closed after recording")
	}

	var s gesture.Sample
	if err := json.Unmarshal(samples[0], &s); err != nil {
		t.Fatalf("sample is not valid json: %v", err)
	}
	if len(s.Landmarks) != detector.NumLandmarks {
		t.Errorf("sample has %d landmarks", len(s.Landmarks))
	}

	statuses := screen.Statuses()
	if statuses[0].State != "Recording Thumbs Up: 0/3" {
		t.Errorf("first status = %q", statuses[0].State)
	}
	if statuses[0].Hand == nil {
		t.Error("status should carry the detected hand")
	}
}

func TestRecord_Every(t *testing.T) {
	r, camera, _, _ := newRecording(t, 10, 3)
	r.Every = 1

	samples, err := r.Record(context.Background())
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if len(samples) != 3 {
		t.Fatalf("got %d samples, want 3", len(samples))
	}
	if camera.Reads() != 5 {
		t.Errorf("Reads() = %d, want 5", camera.Reads())
	}
}

func TestRecord_SkipsFramesWithoutHand(t *testing.T) {
	r, camera, det, _ := newRecording(t, 10, 2)
	det.Queue(nil, nil, nil)

	samples, err := r.Record(context.Background())
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if len(samples) != 2 {
		t.Fatalf("got %d samples, want 2", len(samples))
	}
	if camera.Reads() != 5 {
		t.Errorf("Reads() = %d, want 5", camera.Reads())
	}
}

func TestRecord_SkipsUnencodableHand(t *testing.T) {
	r, camera, det, _ := newRecording(t, 10, 2)
	bad := detector.ThumbsUpLandmarks()
	bad.Points[detector.Wrist].Y = math.NaN()
	det.Queue([]detector.HandLandmarks{bad})

	samples, err := r.Record(context.Background())
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if len(samples) != 2 {
		t.Fatalf("got %d samples, want 2", len(samples))
	}
	for i, s := range samples {
		if len(s) == 0 {
			t.Errorf("sample %d is empty", i)
		}
	}
	if camera.Reads() != 3 {
		t.Errorf("Reads() = %d, want 3", camera.Reads())
	}
}

func TestRecord_Aborted(t *testing.T) {
	t.Run("end of stream", func(t *testing.T) {
		r, _, _, _ := newRecording(t, 2, 5)

		samples, err := r.Record(context.Background())
		if !errors.Is(err, ErrRecordingAborted) {
			t.Fatalf("Record() error = %v, want ErrRecordingAborted", err)
		}
		if len(samples) != 2 {
			t.Errorf("got %d samples, want 2", len(samples))
		}
	})

	t.Run("quit", func(t *testing.T) {
		r, _, _, screen := newRecording(t, 10, 5)
		screen.QuitAfter = 2

		samples, err := r.Record(context.Background())
		if !errors.Is(err, ErrRecordingAborted) {
			t.Fatalf("Record() error = %v, want ErrRecordingAborted", err)
		}
		if len(samples) != 2 {
			t.Errorf("got %d samples, want 2", len(samples))
		}
	})

	t.Run("cancelled", func(t *testing.T) {
		r, camera, _, _ := newRecording(t, 10, 5)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if _, err := r.Record(ctx); !errors.Is(err, ErrRecordingAborted) {
			t.Fatalf("Record() error = %v, want ErrRecordingAborted", err)
		}
		if camera.Reads() != 0 {
			t.Errorf("Reads() = %d, want 0", camera.Reads())
		}
	})
}

func TestRecord_InvalidCount(t *testing.T) {
	r, camera, _, _ := newRecording(t, 1, 0)

	if _, err := r.Record(context.Background()); err == nil {
		t.Error("expected error for zero count")
	}
	if camera.IsOpen() {
		t.Error("camera should not be opened")
	}
}
