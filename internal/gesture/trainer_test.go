package gesture

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/ayusman/mudra/internal/detector"
)

func shifted(h detector.HandLandmarks, dx, dy float64) detector.HandLandmarks {
	for i := range h.Points {
		h.Points[i].X += dx
		h.Points[i].Y += dy
	}
	return h
}

func sample(t *testing.T, h detector.HandLandmarks, ts int64) json.RawMessage {
	t.Helper()
	data, err := NewSample(h, ts)
	if err != nil {
		t.Fatalf("NewSample() error = %v", err)
	}
	return data
}

func TestNewSample_NaN(t *testing.T) {
	hand := detector.ThumbsUpLandmarks()
	hand.Points[detector.IndexTip].X = math.NaN()

	data, err := NewSample(hand, 0)
	if err == nil {
		t.Fatal("expected error for a NaN coordinate")
	}
	if data != nil {
		t.Errorf("data = %s, want nil", data)
	}
}

func TestTrainer_TrainStatic(t *testing.T) {
	trainer := NewTrainer()
	hand := detector.ThumbsUpLandmarks()

	samples := []json.RawMessage{
		sample(t, hand, 1000),
		sample(t, shifted(hand, 0.1, -0.05), 2000),
	}

	result, err := trainer.TrainStatic(samples)
	if err != nil {
		t.Fatalf("TrainStatic() error = %v", err)
	}

	want := hand.Normalize()
	for i := range result {
		if !pointEqual(result[i], want.Points[i]) {
			t.Errorf("point %d = %+v, want %+v", i, result[i], want.Points[i])
		}
	}
}

func TestTrainer_TrainStatic_Averages(t *testing.T) {
	trainer := NewTrainer()
	up := detector.ThumbsUpLandmarks()
	palm := detector.OpenPalmLandmarks()

	result, err := trainer.TrainStatic([]json.RawMessage{sample(t, up, 0), sample(t, palm, 0)})
	if err != nil {
		t.Fatalf("TrainStatic() error = %v", err)
	}

	nu, np := up.Normalize(), palm.Normalize()
	wantTip := (nu.Points[detector.IndexTip].Y + np.Points[detector.IndexTip].Y) / 2
	if !floatEqual(result[detector.IndexTip].Y, wantTip) {
		t.Errorf("index tip Y = %f, want %f", result[detector.IndexTip].Y, wantTip)
	}
}

func TestTrainer_TrainStatic_Errors(t *testing.T) {
	trainer := NewTrainer()

	tests := []struct {
		name    string
		samples []json.RawMessage
	}{
		{"invalid json", []json.RawMessage{json.RawMessage(`{invalid json}`)}},
		{"too few landmarks", []json.RawMessage{json.RawMessage(`{"landmarks": [{"x": 0.5, "y": 0.5, "z": 0}]}`)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := trainer.TrainStatic(tt.samples); err == nil {
				t.Error("expected error")
			}
		})
	}

	if _, err := trainer.TrainStatic(nil); !errors.Is(err, ErrNoSamples) {
		t.Errorf("empty samples error = %v, want ErrNoSamples", err)
	}
}

func TestTrainer_Train(t *testing.T) {
	trainer := NewTrainer()

	tmpl, err := trainer.Train(4, "Thumbs Up", []json.RawMessage{sample(t, detector.ThumbsUpLandmarks(), 0)})
	if err != nil {
		t.Fatalf("Train() error = %v", err)
	}
	if tmpl.Class != 4 || tmpl.Name != "Thumbs Up" {
		t.Errorf("template = %d %q", tmpl.Class, tmpl.Name)
	}
}

func floatEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func pointEqual(a, b detector.Point3D) bool {
	return floatEqual(a.X, b.X) && floatEqual(a.Y, b.Y) && floatEqual(a.Z, b.Z)
}
