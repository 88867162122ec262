// Package app runs a gesture controller: capture, detect, classify, dispatch, render.
package app

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/dispatch"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/overlay"
)

// Config holds the collaborators of an App.
type Config struct {
	Camera     capture.Camera
	Detector   detector.Detector
	Classifier gesture.Classifier
	Screen     overlay.Screen
	Controller *Controller

	// Debounce overrides the table's interval when positive.
	Debounce time.Duration

	// Now defaults to time.Now.
	Now func() time.Time
}

// App is one running controller.
type App struct {
	camera     capture.Camera
	detector   detector.Detector
	classifier gesture.Classifier
	screen     overlay.Screen
	controller *Controller
	dispatcher *dispatch.Dispatcher
	now        func() time.Time

	shutdownOnce sync.Once
	shutdownErr  error
}

// New validates config and builds the dispatcher.
func New(config Config) (*App, error) {
	switch {
	case config.Camera == nil:
		return nil, errors.New("camera is required")
	case config.Detector == nil:
		return nil, errors.New("detector is required")
	case config.Classifier == nil:
		return nil, errors.New("classifier is required")
	case config.Screen == nil:
		return nil, errors.New("screen is required")
	case config.Controller == nil:
		return nil, errors.New("controller is required")
	}

	d, err := dispatch.New(config.Controller.Table, config.Debounce, config.Controller.Handlers)
	if err != nil {
		return nil, fmt.Errorf("create dispatcher: %w", err)
	}

	now := config.Now
	if now == nil {
		now = time.Now
	}

	return &App{
		camera:     config.Camera,
		detector:   config.Detector,
		classifier: config.Classifier,
		screen:     config.Screen,
		controller: config.Controller,
		dispatcher: d,
		now:        now,
	}, nil
}

// Dispatcher returns the controller's dispatcher.
func (a *App) Dispatcher() *dispatch.Dispatcher {
	return a.dispatcher
}

// Shutdown releases the actuators, camera, screen and detector. It is safe
// to call more than once; only the first call does any work.
func (a *App) Shutdown() error {
	a.shutdownOnce.Do(func() {
		var errs []error

		if a.controller.Shutdown != nil {
			if err := a.controller.Shutdown(); err != nil {
				errs = append(errs, fmt.Errorf("release actuators: %w", err))
			}
		}
		if err := a.camera.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close camera: %w", err))
		}
		if err := a.screen.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close window: %w", err))
		}
		if err := a.detector.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close detector: %w", err))
		}

		a.shutdownErr = errors.Join(errs...)
		if a.shutdownErr != nil {
			log.Printf("Shutdown: %v", a.shutdownErr)
		}
		log.Println("Program terminated.")
	})
	return a.shutdownErr
}
