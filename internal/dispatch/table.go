package dispatch

import "time"

// State is the two-valued controller mode. Off also means paused.
type State int

const (
	// Off is the initial state: LEDs dark, or video paused.
	Off State = iota
	// On means LEDs lit, or video playing.
	On
)

// Condition restricts a rule to a controller state.
type Condition int

const (
	Always Condition = iota
	WhenOff
	WhenOn
)

func (c Condition) holds(s State) bool {
	switch c {
	case WhenOff:
		return s == Off
	case WhenOn:
		return s == On
	default:
		return true
	}
}

// Change describes how a rule moves the controller state.
type Change int

const (
	Keep Change = iota
	SetOff
	SetOn
	Flip
)

func (c Change) apply(s State) State {
	switch c {
	case SetOff:
		return Off
	case SetOn:
		return On
	case Flip:
		if s == On {
			return Off
		}
		return On
	default:
		return s
	}
}

// Action names a side effect registered with a Dispatcher.
type Action string

// Actions used by the built-in tables.
const (
	ActionLEDsOff    Action = "leds-off"
	ActionLEDsOn     Action = "leds-on"
	ActionBlink      Action = "blink"
	ActionChaseLeft  Action = "chase-left"
	ActionChaseRight Action = "chase-right"

	ActionKeySpace Action = "key-space"
	ActionKeyLeft  Action = "key-left"
	ActionKeyRight Action = "key-right"
	ActionKeyUp    Action = "key-up"
	ActionKeyDown  Action = "key-down"
)

// Rule is one row of a dispatch table.
// Message is logged when the rule fires; a %s verb receives the new state name.
type Rule struct {
	Label   Label
	When    Condition
	Action  Action
	Next    Change
	Message string
}

// Table is an ordered rule set. The first rule matching (state, label) wins.
type Table struct {
	Name       string
	Classes    ClassMap
	StateNames [2]string
	Interval   time.Duration
	Rules      []Rule
}

// Transition is the outcome of evaluating a table.
type Transition struct {
	Label   Label
	Action  Action
	From    State
	To      State
	Message string
}

// Decide evaluates the rules in order for the given state and label.
// It reports false when no rule applies, in which case nothing should happen.
func (t *Table) Decide(state State, label Label) (Transition, bool) {
	if label == None {
		return Transition{}, false
	}
	for _, r := range t.Rules {
		if r.Label != label || !r.When.holds(state) {
			continue
		}
		return Transition{
			Label:   label,
			Action:  r.Action,
			From:    state,
			To:      r.Next.apply(state),
			Message: r.Message,
		}, true
	}
	return Transition{}, false
}

// StateName returns the display name of a state.
func (t *Table) StateName(s State) string {
	if s == On {
		return t.StateNames[1]
	}
	return t.StateNames[0]
}

// Actions returns the distinct actions referenced by the table, in rule order.
func (t *Table) Actions() []Action {
	seen := make(map[Action]bool, len(t.Rules))
	var out []Action
	for _, r := range t.Rules {
		if seen[r.Action] {
			continue
		}
		seen[r.Action] = true
		out = append(out, r.Action)
	}
	return out
}

// Lights returns the LED controller table.
//
// Stop is honored in every state. Thumbs Up while already on re-applies the
// baseline and reports that brightness cannot be raised without PWM.
func Lights() *Table {
	return &Table{
		Name:       "lights",
		Classes:    LightsClasses,
		StateNames: [2]string{"OFF", "ON"},
		Interval:   2 * time.Second,
		Rules: []Rule{
			{Label: Stop, When: Always, Action: ActionLEDsOff, Next: SetOff, Message: "All LEDs OFF."},
			{Label: ThumbsUp, When: WhenOff, Action: ActionLEDsOn, Next: SetOn, Message: "LEDs ON (low light)."},
			{Label: ThumbsUp, When: WhenOn, Action: ActionLEDsOn, Next: Keep, Message: "All LEDs are already ON. Cannot increase brightness without PWM."},
			{Label: ThumbsDown, When: WhenOn, Action: ActionBlink, Next: Keep, Message: "All LEDs are flashing 2 times."},
			{Label: LeftSwipe, When: WhenOn, Action: ActionChaseLeft, Next: Keep, Message: "Left Swipe Pattern."},
			{Label: RightSwipe, When: WhenOn, Action: ActionChaseRight, Next: Keep, Message: "Right Swipe Pattern."},
		},
	}
}

// Media returns the media controller table.
// Play/Pause toggles unconditionally; every other key requires playback.
func Media() *Table {
	return &Table{
		Name:       "media",
		Classes:    MediaClasses,
		StateNames: [2]string{"Paused", "Playing"},
		Interval:   time.Second,
		Rules: []Rule{
			{Label: PlayPause, When: Always, Action: ActionKeySpace, Next: Flip, Message: "Play/Pause -> Video state is now %s"},
			{Label: FastForward, When: WhenOn, Action: ActionKeyRight, Next: Keep, Message: "Fast Forward"},
			{Label: Rewind, When: WhenOn, Action: ActionKeyLeft, Next: Keep, Message: "Rewind"},
			{Label: VolumeUp, When: WhenOn, Action: ActionKeyUp, Next: Keep, Message: "Volume Up"},
			{Label: VolumeDown, When: WhenOn, Action: ActionKeyDown, Next: Keep, Message: "Volume Down"},
		},
	}
}
