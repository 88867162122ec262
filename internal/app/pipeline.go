package app

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/dispatch"
	"github.com/ayusman/mudra/internal/overlay"
)

// Run opens the camera and processes frames until the operator quits, the
// source runs out, a frame cannot be read or ctx is cancelled. Shutdown
// always runs before Run returns.
//
// The loop is single-threaded: a dispatched action, including an LED
// animation, finishes before the next frame is read.
func (a *App) Run(ctx context.Context) (err error) {
	defer func() {
		if serr := a.Shutdown(); err == nil {
			err = serr
		}
	}()

	if err := a.camera.Open(); err != nil {
		return fmt.Errorf("open camera: %w", err)
	}

	for _, line := range a.controller.Banner {
		log.Println(line)
	}

	for {
		select {
		case <-ctx.Done():
			log.Println("Interrupted")
			return nil
		default:
		}

		quit, err := a.Step()
		if errors.Is(err, capture.ErrEndOfStream) {
			log.Println("End of stream")
			return nil
		}
		if err != nil {
			return err
		}
		if quit {
			return nil
		}
	}
}

// Step processes one frame and reports whether the operator asked to quit.
// A frame read error is returned; detection and classification errors are
// logged and the frame is shown without a gesture.
func (a *App) Step() (bool, error) {
	frame, err := a.camera.ReadFrame()
	if err != nil {
		return false, err
	}
	defer frame.Close()

	status := overlay.Status{}

	hands, err := a.detector.Detect(frame)
	if err != nil {
		log.Printf("Error detecting hands: %v", err)
	}

	if hand, ok := detector.First(hands); ok {
		status.Hand = hand
		if label, ok := a.classify(hand); ok {
			status.Action = "Action: " + string(label)
			a.dispatcher.Dispatch(label, a.now())
		}
	}

	status.State = a.controller.stateText(a.dispatcher.StateName())
	return a.screen.Show(frame, status), nil
}

// classify maps hand to a gesture label. It returns false when the
// controller gates classification and the gate is closed, or on error.
func (a *App) classify(hand *detector.HandLandmarks) (dispatch.Label, bool) {
	if a.controller.GateBeforeClassify && !a.dispatcher.Ready(a.now()) {
		return dispatch.None, false
	}

	index, err := a.classifier.Classify(hand.Flatten())
	if err != nil {
		log.Printf("Error classifying hand: %v", err)
		return dispatch.None, false
	}

	return a.controller.Table.Classes.Label(index), true
}
