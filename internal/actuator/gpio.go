package actuator

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// DefaultPins are the BCM GPIO lines the LED bank is wired to.
var DefaultPins = []string{"GPIO17", "GPIO18", "GPIO22", "GPIO23", "GPIO24"}

// PinOutput drives an LED through a GPIO line. High is on.
type PinOutput struct {
	pin gpio.PinOut
}

// NewPinOutput wraps a GPIO line as an Output.
func NewPinOutput(pin gpio.PinOut) *PinOutput {
	return &PinOutput{pin: pin}
}

// On drives the line high.
func (p *PinOutput) On() error {
	return p.pin.Out(gpio.High)
}

// Off drives the line low.
func (p *PinOutput) Off() error {
	return p.pin.Out(gpio.Low)
}

// Close stops any pending operation on the line.
func (p *PinOutput) Close() error {
	return p.pin.Halt()
}

// String returns the line name.
func (p *PinOutput) String() string {
	return p.pin.Name()
}

// OpenGPIOBank initializes the host drivers and claims each named pin as an
// output driven low. Any missing or unusable pin is a startup error.
func OpenGPIOBank(names []string) (*Bank, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("initialize gpio host: %w", err)
	}

	outputs := make([]Output, 0, len(names))
	for _, name := range names {
		pin := gpioreg.ByName(name)
		if pin == nil {
			closeOutputs(outputs)
			return nil, fmt.Errorf("gpio pin %s not found", name)
		}
		if err := pin.Out(gpio.Low); err != nil {
			closeOutputs(outputs)
			return nil, fmt.Errorf("configure gpio pin %s: %w", name, err)
		}
		outputs = append(outputs, NewPinOutput(pin))
	}

	return NewBank(outputs), nil
}

func closeOutputs(outputs []Output) {
	for _, o := range outputs {
		o.Close()
	}
}
