package overlay

import (
	"gocv.io/x/gocv"
)

// Recorder is a headless Screen that keeps every status it was shown.
// It requests quit after QuitAfter frames when QuitAfter is positive.
type Recorder struct {
	QuitAfter int

	statuses []Status
	closed   bool
}

func NewRecorder(quitAfter int) *Recorder {
	return &Recorder{QuitAfter: quitAfter}
}

func (r *Recorder) Show(frame *gocv.Mat, status Status) bool {
	if frame != nil && !frame.Empty() {
		Draw(frame, status)
	}
	r.statuses = append(r.statuses, status)
	return r.QuitAfter > 0 && len(r.statuses) >= r.QuitAfter
}

func (r *Recorder) Close() error {
	r.closed = true
	return nil
}

// Statuses returns the statuses shown so far.
func (r *Recorder) Statuses() []Status {
	return r.statuses
}

// Closed reports whether Close was called.
func (r *Recorder) Closed() bool {
	return r.closed
}
