// Package overlay renders the operator window: state, last action and the tracked hand.
package overlay

import (
	"image"
	"image/color"

	"github.com/ayusman/mudra/internal/detector"
	"gocv.io/x/gocv"
)

// WindowTitle is the title of the operator window.
const WindowTitle = "Hand Gesture Control"

// QuitKey requests shutdown when pressed in the window.
const QuitKey = 'q'

// Colors are given as RGB; gocv converts them to BGR.
var (
	StateColor    = color.RGBA{R: 0, G: 0, B: 255, A: 0}
	ActionColor   = color.RGBA{R: 0, G: 255, B: 0, A: 0}
	LandmarkColor = color.RGBA{R: 255, G: 0, B: 0, A: 0}
	BoneColor     = color.RGBA{R: 255, G: 255, B: 255, A: 0}
)

// Text positions in pixels.
var (
	StateOrigin  = image.Pt(10, 40)
	ActionOrigin = image.Pt(10, 80)
)

// Connections are the landmark pairs drawn as the hand skeleton.
var Connections = [][2]int{
	{detector.Wrist, detector.ThumbCMC}, {detector.ThumbCMC, detector.ThumbMCP},
	{detector.ThumbMCP, detector.ThumbIP}, {detector.ThumbIP, detector.ThumbTip},
	{detector.Wrist, detector.IndexMCP}, {detector.IndexMCP, detector.IndexPIP},
	{detector.IndexPIP, detector.IndexDIP}, {detector.IndexDIP, detector.IndexTip},
	{detector.IndexMCP, detector.MiddleMCP}, {detector.MiddleMCP, detector.MiddlePIP},
	{detector.MiddlePIP, detector.MiddleDIP}, {detector.MiddleDIP, detector.MiddleTip},
	{detector.MiddleMCP, detector.RingMCP}, {detector.RingMCP, detector.RingPIP},
	{detector.RingPIP, detector.RingDIP}, {detector.RingDIP, detector.RingTip},
	{detector.RingMCP, detector.PinkyMCP}, {detector.Wrist, detector.PinkyMCP},
	{detector.PinkyMCP, detector.PinkyPIP}, {detector.PinkyPIP, detector.PinkyDIP},
	{detector.PinkyDIP, detector.PinkyTip},
}

// Status is what the overlay shows for one frame.
type Status struct {
	State  string                  // e.g. "System: ON"
	Action string                  // e.g. "Action: Thumbs Up"; empty when nothing was classified
	Hand   *detector.HandLandmarks // nil when no hand was found
}

// Screen displays frames and reports the operator's quit request.
type Screen interface {
	// Show renders status onto frame and displays it. It returns true when
	// the operator asked to quit.
	Show(frame *gocv.Mat, status Status) bool
	Close() error
}

// Draw renders status onto frame in place.
func Draw(frame *gocv.Mat, status Status) {
	if status.Hand != nil {
		DrawHand(frame, status.Hand)
	}
	gocv.PutText(frame, status.State, StateOrigin, gocv.FontHersheySimplex, 1, StateColor, 2)
	if status.Action != "" {
		gocv.PutText(frame, status.Action, ActionOrigin, gocv.FontHersheySimplex, 1, ActionColor, 2)
	}
}

// DrawHand draws the skeleton and joints of hand, scaling normalized
// coordinates to the frame size.
func DrawHand(frame *gocv.Mat, hand *detector.HandLandmarks) {
	w, h := frame.Cols(), frame.Rows()
	pixel := func(i int) image.Point {
		p := hand.Points[i]
		return image.Pt(int(p.X*float64(w)), int(p.Y*float64(h)))
	}

	for _, c := range Connections {
		gocv.Line(frame, pixel(c[0]), pixel(c[1]), BoneColor, 2)
	}
	for i := range hand.Points {
		gocv.Circle(frame, pixel(i), 3, LandmarkColor, -1)
	}
}

// Window is a Screen backed by a native gocv window.
type Window struct {
	window *gocv.Window
}

// NewWindow opens the operator window.
func NewWindow(title string) *Window {
	return &Window{window: gocv.NewWindow(title)}
}

func (w *Window) Show(frame *gocv.Mat, status Status) bool {
	Draw(frame, status)
	w.window.IMShow(*frame)
	return w.window.WaitKey(1)&0xFF == QuitKey
}

func (w *Window) Close() error {
	return w.window.Close()
}
