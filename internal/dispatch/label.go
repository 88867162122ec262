// Package dispatch turns classified gesture labels into actuator actions.
//
// A Dispatcher owns the controller state (on/off, playing/paused) and a
// debounce gate. Precedence between rules lives in a Table so it can be
// evaluated without touching any device.
package dispatch

// Label is the symbolic class name the classifier assigns to a hand pose.
type Label string

// Labels produced by the classifier. None means no hand was found in the frame.
const (
	None    Label = ""
	Unknown Label = "Unknown"

	LeftSwipe  Label = "Left Swipe"
	RightSwipe Label = "Right Swipe"
	Stop       Label = "Stop"
	ThumbsDown Label = "Thumbs Down"
	ThumbsUp   Label = "Thumbs Up"

	Rewind      Label = "Rewind"
	FastForward Label = "Fast Forward"
	PlayPause   Label = "Play/Pause"
	VolumeDown  Label = "Volume Down"
	VolumeUp    Label = "Volume Up"
)

// ClassMap translates classifier output indices into labels.
type ClassMap []Label

// Label returns the label for a class index, or Unknown if the index is out of range.
func (m ClassMap) Label(index int) Label {
	if index < 0 || index >= len(m) {
		return Unknown
	}
	return m[index]
}

// Index returns the class index of a label, or -1.
func (m ClassMap) Index(label Label) int {
	for i, l := range m {
		if l == label {
			return i
		}
	}
	return -1
}

// LightsClasses is the index-to-label table of the LED controller model.
var LightsClasses = ClassMap{LeftSwipe, RightSwipe, Stop, ThumbsDown, ThumbsUp}

// MediaClasses is the index-to-label table of the media controller model.
var MediaClasses = ClassMap{Rewind, FastForward, PlayPause, VolumeDown, VolumeUp}
