// Package actuator drives the physical side of a controller: a bank of
// binary outputs (LEDs) or a key-event sender.
package actuator

import (
	"errors"
	"fmt"
	"time"
)

// Output is a single independently addressable binary output.
type Output interface {
	On() error
	Off() error
	Close() error
}

// Bank owns a fixed set of outputs and plays patterns on them.
// Animations block the caller until they finish.
type Bank struct {
	outputs []Output
	sleep   func(time.Duration)
}

// NewBank creates a Bank over the given outputs.
func NewBank(outputs []Output) *Bank {
	return &Bank{
		outputs: outputs,
		sleep:   time.Sleep,
	}
}

// SetSleep replaces the function used to hold animation steps.
func (b *Bank) SetSleep(fn func(time.Duration)) {
	if fn == nil {
		fn = time.Sleep
	}
	b.sleep = fn
}

// Len returns the number of outputs in the bank.
func (b *Bank) Len() int {
	return len(b.outputs)
}

// AllOn switches every output on.
func (b *Bank) AllOn() error {
	var errs []error
	for i, o := range b.outputs {
		if err := o.On(); err != nil {
			errs = append(errs, fmt.Errorf("output %d on: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

// AllOff switches every output off.
func (b *Bank) AllOff() error {
	var errs []error
	for i, o := range b.outputs {
		if err := o.Off(); err != nil {
			errs = append(errs, fmt.Errorf("output %d off: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

// Apply sets output i on when pattern[i] is true and off otherwise.
func (b *Bank) Apply(pattern []bool) error {
	if len(pattern) != len(b.outputs) {
		return fmt.Errorf("pattern has %d states, bank has %d outputs", len(pattern), len(b.outputs))
	}

	var errs []error
	for i, on := range pattern {
		var err error
		if on {
			err = b.outputs[i].On()
		} else {
			err = b.outputs[i].Off()
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("output %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

// Close turns every output off and releases it.
func (b *Bank) Close() error {
	var errs []error
	for i, o := range b.outputs {
		if err := o.Off(); err != nil {
			errs = append(errs, fmt.Errorf("output %d off: %w", i, err))
		}
		if err := o.Close(); err != nil {
			errs = append(errs, fmt.Errorf("output %d close: %w", i, err))
		}
	}
	return errors.Join(errs...)
}
