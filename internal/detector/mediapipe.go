package detector

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// ScriptName is the landmark service run by MediaPipeDetector.
const ScriptName = "hand_landmarks.py"

// ErrScriptNotFound is returned when the landmark service script cannot be located.
var ErrScriptNotFound = errors.New(ScriptName + " not found")

// Service timing.
const (
	// ReadyTimeout bounds how long the service may take to load its model.
	ReadyTimeout = 30 * time.Second
	// CloseGrace is how long Close waits for the service to exit before killing it.
	CloseGrace = 2 * time.Second
)

// ErrServiceDown marks a failure of the pipe to the landmark service. The
// service is stopped and started again on the next Detect.
var ErrServiceDown = errors.New("landmark service down")

// MediaPipeDetector runs MediaPipe Hands in a Python subprocess.
//
// The service announces {"ready":true} once its model is loaded. Each frame
// is then sent JPEG-encoded behind a 4-byte big-endian length; the service
// answers with one JSON line. The service converts the decoded BGR image to
// RGB before inference.
type MediaPipeDetector struct {
	config       Config
	script       string
	python       string
	readyTimeout time.Duration
	closeGrace   time.Duration

	mu      sync.Mutex
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	stdout  *bufio.Reader
	started bool
	starts  int
}

// NewMediaPipeDetector locates the service script and interpreter and starts
// the service. A service that exits or fails before it is ready is an error.
func NewMediaPipeDetector(config Config) (*MediaPipeDetector, error) {
	script := config.Script
	if script == "" {
		script = findScript()
	}
	if script == "" {
		return nil, ErrScriptNotFound
	}
	if _, err := os.Stat(script); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScriptNotFound, err)
	}

	python := config.Python
	if python == "" {
		python = findVenvPython()
	}
	if python == "" {
		python = "python3"
	}

	d := &MediaPipeDetector{
		config:       config,
		script:       script,
		python:       python,
		readyTimeout: ReadyTimeout,
		closeGrace:   CloseGrace,
	}

	if err := d.ensureStarted(); err != nil {
		return nil, err
	}
	return d, nil
}

// Detect sends frame to the service and returns at most MaxHands hands.
// After an ErrServiceDown failure the next call starts a fresh service.
func (d *MediaPipeDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	buf, err := gocv.IMEncode(".jpg", *frame)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	return d.detect(buf.GetBytes())
}

func (d *MediaPipeDetector) detect(image []byte) ([]HandLandmarks, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.ensureStarted(); err != nil {
		return nil, err
	}

	hands, err := exchange(d.stdin, d.stdout, image)
	if errors.Is(err, ErrServiceDown) {
		d.stop(0)
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	if d.config.MaxHands > 0 && len(hands) > d.config.MaxHands {
		hands = hands[:d.config.MaxHands]
	}
	return hands, nil
}

// Close stops the subprocess, killing it if it does not exit within the
// grace period.
func (d *MediaPipeDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.stop(d.closeGrace)
}

// stop closes the service's stdin and waits up to grace for it to exit.
// A zero grace kills it at once.
func (d *MediaPipeDetector) stop(grace time.Duration) error {
	if !d.started {
		return nil
	}

	cmd := d.cmd
	d.stdin.Close()

	d.started = false
	d.cmd = nil
	d.stdin = nil
	d.stdout = nil

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	if grace > 0 {
		select {
		case err := <-done:
			return err
		case <-time.After(grace):
		}
	}

	cmd.Process.Kill()
	<-done
	if grace > 0 {
		return fmt.Errorf("landmark service did not exit within %v, killed", grace)
	}
	return nil
}

func (d *MediaPipeDetector) ensureStarted() error {
	if d.started {
		return nil
	}

	cmd := exec.Command(d.python, d.script,
		"--max-hands", strconv.Itoa(d.config.MaxHands),
		"--min-detection-confidence", strconv.FormatFloat(d.config.MinConfidence, 'f', -1, 64),
		"--min-tracking-confidence", strconv.FormatFloat(d.config.MinTrackingConf, 'f', -1, 64),
	)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("create stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("create stdout pipe: %w", err)
	}
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start landmark service: %w", err)
	}

	d.cmd = cmd
	d.stdin = stdin
	d.stdout = bufio.NewReader(stdout)
	d.started = true
	d.starts++

	if err := waitReady(d.stdout, d.readyTimeout); err != nil {
		d.stop(0)
		return err
	}
	return nil
}

// waitReady reads the service's first line and checks it announces readiness.
func waitReady(r *bufio.Reader, timeout time.Duration) error {
	type result struct {
		line []byte
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		line, err := r.ReadBytes('\n')
		ch <- result{line, err}
	}()

	var res result
	select {
	case res = <-ch:
	case <-time.After(timeout):
		return fmt.Errorf("landmark service not ready after %v", timeout)
	}
	if res.err != nil {
		return fmt.Errorf("landmark service exited before ready: %w", res.err)
	}

	var hello struct {
		Ready bool   `json:"ready"`
		Error string `json:"error"`
	}
	if err := json.Unmarshal(res.line, &hello); err != nil {
		return fmt.Errorf("landmark service handshake: %w", err)
	}
	if hello.Error != "" {
		return fmt.Errorf("landmark service: %s", hello.Error)
	}
	if !hello.Ready {
		return errors.New("landmark service did not report ready")
	}
	return nil
}

// exchange writes one length-prefixed image and reads one JSON response line.
func exchange(w io.Writer, r *bufio.Reader, image []byte) ([]HandLandmarks, error) {
	var length [4]byte
	binary.BigEndian.PutUint32(length[:], uint32(len(image)))

	if _, err := w.Write(length[:]); err != nil {
		return nil, fmt.Errorf("%w: write length: %v", ErrServiceDown, err)
	}
	if _, err := w.Write(image); err != nil {
		return nil, fmt.Errorf("%w: write data: %v", ErrServiceDown, err)
	}

	line, err := r.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrServiceDown, err)
	}

	var response struct {
		Hands []jsonHand `json:"hands"`
		Error string     `json:"error"`
	}
	if err := json.Unmarshal(line, &response); err != nil {
		return nil, fmt.Errorf("%w: parse response: %v", ErrServiceDown, err)
	}
	if response.Error != "" {
		return nil, fmt.Errorf("landmark service: %s", response.Error)
	}

	hands := make([]HandLandmarks, 0, len(response.Hands))
	for _, h := range response.Hands {
		lm, err := h.toHandLandmarks()
		if err != nil {
			return nil, err
		}
		hands = append(hands, lm)
	}
	return hands, nil
}

type jsonHand struct {
	Points     []Point3D `json:"points"`
	Handedness string    `json:"handedness"`
	Score      float64   `json:"score"`
}

func (h jsonHand) toHandLandmarks() (HandLandmarks, error) {
	lm, err := FromPoints(h.Points)
	if err != nil {
		return lm, fmt.Errorf("landmark service: %w", err)
	}
	lm.Handedness = h.Handedness
	lm.Score = h.Score
	return lm, nil
}

func findScript() string {
	var execDir string
	if execPath, err := os.Executable(); err == nil {
		execDir = filepath.Dir(execPath)
	}

	candidates := []string{
		filepath.Join("scripts", ScriptName),
		filepath.Join("..", "scripts", ScriptName),
		filepath.Join(execDir, "scripts", ScriptName),
		filepath.Join(os.Getenv("HOME"), ".mudra", "scripts", ScriptName),
	}
	return firstExisting(candidates)
}

// findVenvPython looks for a virtual environment interpreter near the
// working directory, the executable, or in ~/.mudra.
func findVenvPython() string {
	var execDir string
	if execPath, err := os.Executable(); err == nil {
		execDir = filepath.Dir(execPath)
	}

	candidates := []string{
		"venv/bin/python",
		"../venv/bin/python",
		filepath.Join(execDir, "venv/bin/python"),
		filepath.Join(os.Getenv("HOME"), ".mudra/venv/bin/python"),
	}
	return firstExisting(candidates)
}

func firstExisting(paths []string) string {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if abs, err := filepath.Abs(path); err == nil {
			return abs
		}
		return path
	}
	return ""
}
