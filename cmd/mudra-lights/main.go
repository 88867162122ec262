// Command mudra-lights drives a bank of LEDs from static hand gestures.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/overlay"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	modelPath := flag.String("model", "", "path to the trained gesture model (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath, config.VariantLights)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *modelPath != "" {
		cfg.Model = *modelPath
	}

	classifier, err := app.OpenModel(cfg.Model, cfg.Variant)
	if err != nil {
		log.Fatalf("Failed to load gesture model: %v", err)
	}

	bank, err := app.OpenLEDBank(cfg.LEDs)
	if err != nil {
		log.Fatalf("Failed to initialize LEDs: %v", err)
	}

	det, err := detector.NewMediaPipeDetector(cfg.Detector)
	if err != nil {
		bank.Close()
		log.Fatalf("Failed to initialize hand detector: %v", err)
	}

	a, err := app.New(app.Config{
		Camera:     capture.NewCamera(cfg.Camera),
		Detector:   det,
		Classifier: classifier,
		Screen:     overlay.NewWindow(overlay.WindowTitle),
		Controller: app.LightsController(bank, cfg.LEDs.Step, cfg.LEDs.BlinkCount),
		Debounce:   cfg.Debounce,
	})
	if err != nil {
		bank.Close()
		det.Close()
		log.Fatalf("Failed to create controller: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.Run(ctx); err != nil {
		log.Fatalf("Controller stopped: %v", err)
	}
}
