package actuator

import (
	"errors"
	"time"
)

// Animation timing.
const (
	// StepDuration is how long each blink phase or chase step is held.
	StepDuration = 200 * time.Millisecond
	// BlinkCount is how many off/on cycles a blink plays.
	BlinkCount = 2
)

// Direction selects a swipe animation.
type Direction int

const (
	Left Direction = iota
	Right
)

// SwipePattern returns the chase sequence for a five-output bank.
// Left walks the dark output from the last position to the first;
// Right is the same sequence reversed.
func SwipePattern(dir Direction) [][]bool {
	left := [][]bool{
		{true, true, true, true, false},
		{true, true, true, false, true},
		{true, true, false, true, true},
		{true, false, true, true, true},
		{false, true, true, true, true},
	}
	if dir == Left {
		return left
	}

	right := make([][]bool, len(left))
	for i := range left {
		right[i] = left[len(left)-1-i]
	}
	return right
}

// Blink turns every output off then on, times times, holding each phase.
// The animation always runs to completion; output errors are collected.
func (b *Bank) Blink(times int, hold time.Duration) error {
	var errs []error
	for i := 0; i < times; i++ {
		if err := b.AllOff(); err != nil {
			errs = append(errs, err)
		}
		b.sleep(hold)
		if err := b.AllOn(); err != nil {
			errs = append(errs, err)
		}
		b.sleep(hold)
	}
	return errors.Join(errs...)
}

// Chase applies each pattern for step, then leaves every output on.
func (b *Bank) Chase(patterns [][]bool, step time.Duration) error {
	var errs []error
	for _, p := range patterns {
		if err := b.Apply(p); err != nil {
			errs = append(errs, err)
		}
		b.sleep(step)
	}
	if err := b.AllOn(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
