package actuator

import (
	"log"
	"sync"
)

// RecordingOutput is an in-memory Output for tests and dry runs.
type RecordingOutput struct {
	mu      sync.Mutex
	on      bool
	closed  bool
	history []bool
	err     error
}

// NewRecordingOutput creates an Output that starts off.
func NewRecordingOutput() *RecordingOutput {
	return &RecordingOutput{}
}

// SetError makes subsequent On and Off calls fail with err.
func (o *RecordingOutput) SetError(err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.err = err
}

func (o *RecordingOutput) set(on bool) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.err != nil {
		return o.err
	}
	o.on = on
	o.history = append(o.history, on)
	return nil
}

// On records an on transition.
func (o *RecordingOutput) On() error { return o.set(true) }

// Off records an off transition.
func (o *RecordingOutput) Off() error { return o.set(false) }

// Close marks the output as released.
func (o *RecordingOutput) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.closed = true
	return nil
}

// IsOn returns the current level.
func (o *RecordingOutput) IsOn() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.on
}

// Closed reports whether Close was called.
func (o *RecordingOutput) Closed() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.closed
}

// History returns every level written, in order.
func (o *RecordingOutput) History() []bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]bool(nil), o.history...)
}

// LogOutput logs level changes instead of driving hardware.
type LogOutput struct {
	name string
}

// NewLogOutput creates a logging Output with the given name.
func NewLogOutput(name string) *LogOutput {
	return &LogOutput{name: name}
}

func (o *LogOutput) On() error {
	log.Printf("led %s: on", o.name)
	return nil
}

func (o *LogOutput) Off() error {
	log.Printf("led %s: off", o.name)
	return nil
}

func (o *LogOutput) Close() error { return nil }

// NewLogBank creates a bank of logging outputs named after pins.
func NewLogBank(pins []string) *Bank {
	outputs := make([]Output, len(pins))
	for i, p := range pins {
		outputs[i] = NewLogOutput(p)
	}
	return NewBank(outputs)
}

// KeyRecorder is a KeySender that remembers pressed keys.
type KeyRecorder struct {
	mu      sync.Mutex
	pressed []Key
	err     error
	verbose bool
}

// NewKeyRecorder creates a KeyRecorder. When verbose is set each press is logged.
func NewKeyRecorder(verbose bool) *KeyRecorder {
	return &KeyRecorder{verbose: verbose}
}

// SetError makes subsequent presses fail with err.
func (r *KeyRecorder) SetError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

// Press records key.
func (r *KeyRecorder) Press(key Key) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.pressed = append(r.pressed, key)
	if r.verbose {
		log.Printf("key press: %s", key)
	}
	return nil
}

// Pressed returns the recorded keys in order.
func (r *KeyRecorder) Pressed() []Key {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Key(nil), r.pressed...)
}
