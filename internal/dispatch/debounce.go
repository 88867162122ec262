package dispatch

import "time"

// Debouncer enforces a minimum gap between honored dispatches.
// The gap is measured from the start of one action to the start of the next.
type Debouncer struct {
	interval time.Duration
	last     time.Time
	stamped  bool
}

// NewDebouncer creates a Debouncer with the given minimum interval.
func NewDebouncer(interval time.Duration) *Debouncer {
	return &Debouncer{interval: interval}
}

// Ready reports whether an action may be dispatched at now.
// It is always true before the first stamp.
func (d *Debouncer) Ready(now time.Time) bool {
	if !d.stamped {
		return true
	}
	return now.Sub(d.last) >= d.interval
}

// Stamp records now as the time of the last dispatched action.
func (d *Debouncer) Stamp(now time.Time) {
	d.last = now
	d.stamped = true
}

// Last returns the last stamped time and whether one exists.
func (d *Debouncer) Last() (time.Time, bool) {
	return d.last, d.stamped
}

// Interval returns the configured minimum gap.
func (d *Debouncer) Interval() time.Duration {
	return d.interval
}
