package dispatch

import (
	"fmt"
	"log"
	"strings"
	"time"
)

// Handler performs one side effect. It runs synchronously on the caller's
// goroutine and may block (animations sleep between steps).
type Handler func() error

// Dispatched describes an honored dispatch.
type Dispatched struct {
	Label   Label
	Action  Action
	State   State
	At      time.Time
	Message string
}

// Dispatcher holds the controller state and debounce gate for one controller.
// It is not safe for concurrent use; the main loop is its only caller.
type Dispatcher struct {
	table    *Table
	state    State
	gate     *Debouncer
	handlers map[Action]Handler
	last     Dispatched
	hasLast  bool
}

// New creates a Dispatcher in the Off state.
// Every action referenced by the table must have a handler.
func New(table *Table, interval time.Duration, handlers map[Action]Handler) (*Dispatcher, error) {
	if table == nil {
		return nil, fmt.Errorf("dispatch table is nil")
	}
	if interval <= 0 {
		interval = table.Interval
	}
	for _, a := range table.Actions() {
		if handlers[a] == nil {
			return nil, fmt.Errorf("no handler registered for action %q", a)
		}
	}

	return &Dispatcher{
		table:    table,
		state:    Off,
		gate:     NewDebouncer(interval),
		handlers: handlers,
	}, nil
}

// Ready reports whether the debounce gate is open at now.
func (d *Dispatcher) Ready(now time.Time) bool {
	return d.gate.Ready(now)
}

// Dispatch evaluates label at time now.
//
// Nothing happens when label is None, when the gate is closed, or when no
// rule applies in the current state. Otherwise the rule's handler runs, the
// state moves and the gate is stamped with now. Handler failures are logged
// and do not stop the transition.
func (d *Dispatcher) Dispatch(label Label, now time.Time) (Dispatched, bool) {
	if label == None {
		return Dispatched{}, false
	}
	if !d.gate.Ready(now) {
		return Dispatched{}, false
	}

	tr, ok := d.table.Decide(d.state, label)
	if !ok {
		return Dispatched{}, false
	}

	msg := tr.Message
	if strings.Contains(msg, "%s") {
		msg = fmt.Sprintf(msg, d.table.StateName(tr.To))
	}
	log.Printf("Action: %s", msg)

	if err := d.run(tr.Action); err != nil {
		log.Printf("Action %s failed: %v", tr.Action, err)
	}

	d.state = tr.To
	d.gate.Stamp(now)

	d.last = Dispatched{
		Label:   label,
		Action:  tr.Action,
		State:   tr.To,
		At:      now,
		Message: msg,
	}
	d.hasLast = true

	return d.last, true
}

// run invokes the handler for action, converting a panic into an error.
func (d *Dispatcher) run(action Action) (err error) {
	h := d.handlers[action]
	if h == nil {
		return fmt.Errorf("no handler for action %q", action)
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()

	return h()
}

// State returns the current controller state.
func (d *Dispatcher) State() State {
	return d.state
}

// StateName returns the display name of the current state.
func (d *Dispatcher) StateName() string {
	return d.table.StateName(d.state)
}

// Last returns the most recent honored dispatch.
func (d *Dispatcher) Last() (Dispatched, bool) {
	return d.last, d.hasLast
}
