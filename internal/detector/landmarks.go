// Package detector finds hand landmarks in video frames.
package detector

import (
	"fmt"
	"math"
)

// Hand landmark indices following the MediaPipe hand model.
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// VectorSize is the length of a flattened landmark vector (x, y, z per point).
const VectorSize = NumLandmarks * 3

// Vector is the classifier input: landmarks flattened as x0, y0, z0, x1, ...
type Vector [VectorSize]float64

// Point3D is a normalized image-space point. X and Y are in [0, 1]; Z is relative depth.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks holds the 21 landmarks of one detected hand.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// Flatten returns the landmarks in classifier order.
func (h *HandLandmarks) Flatten() Vector {
	var v Vector
	for i, p := range h.Points {
		v[i*3] = p.X
		v[i*3+1] = p.Y
		v[i*3+2] = p.Z
	}
	return v
}

// FromVector rebuilds landmarks from a flattened vector.
func FromVector(v Vector) HandLandmarks {
	var h HandLandmarks
	for i := range h.Points {
		h.Points[i] = Point3D{X: v[i*3], Y: v[i*3+1], Z: v[i*3+2]}
	}
	return h
}

// FromPoints builds landmarks from exactly NumLandmarks points.
func FromPoints(points []Point3D) (HandLandmarks, error) {
	var h HandLandmarks
	if len(points) != NumLandmarks {
		return h, fmt.Errorf("got %d landmarks, want %d", len(points), NumLandmarks)
	}
	copy(h.Points[:], points)
	return h, nil
}

func distance3D(a, b Point3D) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	dz := a.Z - b.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Normalize returns a copy translated so the wrist is at the origin and
// scaled so the wrist to middle-finger MCP distance is 1.
func (h *HandLandmarks) Normalize() *HandLandmarks {
	if h == nil {
		return nil
	}

	normalized := &HandLandmarks{
		Handedness: h.Handedness,
		Score:      h.Score,
	}

	wrist := h.Points[Wrist]
	for i := 0; i < NumLandmarks; i++ {
		normalized.Points[i] = Point3D{
			X: h.Points[i].X - wrist.X,
			Y: h.Points[i].Y - wrist.Y,
			Z: h.Points[i].Z - wrist.Z,
		}
	}

	scale := distance3D(Point3D{}, normalized.Points[MiddleMCP])
	if scale < 1e-10 {
		return normalized
	}

	for i := 0; i < NumLandmarks; i++ {
		normalized.Points[i].X /= scale
		normalized.Points[i].Y /= scale
		normalized.Points[i].Z /= scale
	}

	return normalized
}
