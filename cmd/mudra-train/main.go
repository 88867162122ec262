// Command mudra-train records or imports hand samples for one gesture class
// and writes the retrained template into the model file used by the controllers.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/dispatch"
	"github.com/ayusman/mudra/internal/overlay"
	"github.com/ayusman/mudra/internal/store"
)

func main() {
	variant := flag.String("variant", string(config.VariantLights), "controller the model is for: lights or media")
	configPath := flag.String("config", "", "path to a YAML config file")
	modelPath := flag.String("model", "", "path to the gesture model (overrides config)")
	class := flag.Int("class", -1, "class index to train")
	name := flag.String("name", "", "class name (defaults to the controller's label for the index)")
	samplesPath := flag.String("samples", "", "JSON file holding an array of recorded samples")
	record := flag.Int("record", 0, "number of samples to record from the camera")
	every := flag.Int("every", 2, "frames to skip between recorded samples")
	flag.Parse()

	cfg, err := config.Load(*configPath, config.Variant(*variant))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *modelPath != "" {
		cfg.Model = *modelPath
	}

	classes := dispatch.LightsClasses
	if cfg.Variant == config.VariantMedia {
		classes = dispatch.MediaClasses
	}
	if *class < 0 || *class >= len(classes) {
		log.Fatalf("Class index must be within [0, %d], got %d", len(classes)-1, *class)
	}
	if *name == "" {
		*name = string(classes.Label(*class))
	}
	if (*samplesPath == "") == (*record == 0) {
		log.Fatal("Exactly one of -samples or -record is required")
	}

	var samples []json.RawMessage
	if *samplesPath != "" {
		samples, err = readSamples(*samplesPath)
	} else {
		samples, err = recordSamples(cfg, *name, *record, *every)
	}
	if err != nil {
		log.Fatalf("Failed to collect samples: %v", err)
	}

	s, err := store.New(cfg.Model)
	if err != nil {
		log.Fatalf("Failed to open model: %v", err)
	}
	defer s.Close()

	if _, err := app.SaveClass(s, cfg.Variant, *class, *name, samples); err != nil {
		log.Fatalf("Failed to train class %d: %v", *class, err)
	}

	log.Printf("Trained class %d (%s) from %d new samples into %s", *class, *name, len(samples), cfg.Model)
}

func readSamples(path string) ([]json.RawMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var samples []json.RawMessage
	if err := json.Unmarshal(data, &samples); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return samples, nil
}

func recordSamples(cfg *config.Config, name string, count, every int) ([]json.RawMessage, error) {
	det, err := detector.NewMediaPipeDetector(cfg.Detector)
	if err != nil {
		return nil, err
	}
	defer det.Close()

	screen := overlay.NewWindow(overlay.WindowTitle)
	defer screen.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r := &app.Recording{
		Camera:   capture.NewCamera(cfg.Camera),
		Detector: det,
		Screen:   screen,
		Name:     name,
		Count:    count,
		Every:    every,
	}

	samples, err := r.Record(ctx)
	if errors.Is(err, app.ErrRecordingAborted) && len(samples) > 0 {
		log.Printf("Recording stopped early; keeping %d of %d samples", len(samples), count)
		return samples, nil
	}
	return samples, err
}
