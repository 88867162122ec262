package app

import (
	"time"

	"github.com/ayusman/mudra/internal/actuator"
	"github.com/ayusman/mudra/internal/dispatch"
)

// Controller binds one dispatch table to the actuators that carry out its actions.
type Controller struct {
	Table    *dispatch.Table
	Handlers map[dispatch.Action]dispatch.Handler

	// StateLabel prefixes the state line of the overlay, e.g. "System".
	StateLabel string

	// GateBeforeClassify skips classification while the debounce gate is closed.
	GateBeforeClassify bool

	// Banner is printed once the controller is ready.
	Banner []string

	// Shutdown releases the actuators. It may be nil.
	Shutdown func() error
}

// LightsController drives bank from the LED table. Animations hold each
// step for step and blink blinks times.
func LightsController(bank *actuator.Bank, step time.Duration, blinks int) *Controller {
	return &Controller{
		Table: dispatch.Lights(),
		Handlers: map[dispatch.Action]dispatch.Handler{
			dispatch.ActionLEDsOff: bank.AllOff,
			dispatch.ActionLEDsOn:  bank.AllOn,
			dispatch.ActionBlink: func() error {
				return bank.Blink(blinks, step)
			},
			dispatch.ActionChaseLeft: func() error {
				return bank.Chase(actuator.SwipePattern(actuator.Left), step)
			},
			dispatch.ActionChaseRight: func() error {
				return bank.Chase(actuator.SwipePattern(actuator.Right), step)
			},
		},
		StateLabel:         "System",
		GateBeforeClassify: true,
		Banner: []string{
			"Hand gesture LED control is ready. Press 'q' to quit.",
			"Show 'Stop' to turn every LED off, 'Thumbs Up' to turn them on.",
		},
		Shutdown: bank.Close,
	}
}

// mediaKeys maps media actions to the key each one presses.
var mediaKeys = map[dispatch.Action]actuator.Key{
	dispatch.ActionKeySpace: actuator.KeySpace,
	dispatch.ActionKeyLeft:  actuator.KeyLeft,
	dispatch.ActionKeyRight: actuator.KeyRight,
	dispatch.ActionKeyUp:    actuator.KeyUp,
	dispatch.ActionKeyDown:  actuator.KeyDown,
}

// MediaController presses keys through sender from the media table.
func MediaController(sender actuator.KeySender) *Controller {
	handlers := make(map[dispatch.Action]dispatch.Handler, len(mediaKeys))
	for action, key := range mediaKeys {
		handlers[action] = func() error {
			return sender.Press(key)
		}
	}

	return &Controller{
		Table:      dispatch.Media(),
		Handlers:   handlers,
		StateLabel: "State",
		Banner: []string{
			"Hand gesture control system is ready. Press 'q' to quit.",
			"Start by showing the 'Play/Pause' gesture to play the video.",
		},
	}
}

func (c *Controller) stateText(name string) string {
	return c.StateLabel + ": " + name
}
