// Package app wires camera, hand tracker, recognizer, state machine and
// input driver into the running pointer controller.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/action"
	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/input"
	"github.com/ayusman/mudra/internal/log"
	"github.com/ayusman/mudra/internal/queue"
	"github.com/ayusman/mudra/internal/stabilizer"
)

// ErrAlreadyRunning is returned by Run while another Run is active.
var ErrAlreadyRunning = errors.New("app is already running")

// Options holds the collaborators of an App. Nil fields are built from
// Config.
type Options struct {
	Config   config.Config
	Camera   capture.Camera
	Detector detector.Detector
	Driver   input.Driver
}

// Status is the snapshot published for the tray.
type Status struct {
	Enabled bool
	Mode    action.Mode
	Label   gesture.Label
}

// Stats are the pipeline counters reported at shutdown.
type Stats struct {
	Frames      queue.Stats
	Samples     queue.Stats
	Motion      queue.Stats
	InputErrors uint64
}

// App is the pointer controller.
type App struct {
	cfg        config.Config
	camera     capture.Camera
	detector   detector.Detector
	dispatcher *input.Dispatcher
	logger     *slog.Logger
	session    string

	screenW, screenH int

	frames  *queue.Queue[*gocv.Mat]
	samples *queue.Queue[gesture.Sample]
	motion  *queue.Queue[target]
	status  *queue.Queue[Status]

	// mode is the gate read by the mover; only the action stage writes it.
	mode atomic.Int32

	// moveMu orders mover moves against mode changes. gen counts mode
	// changes and is written under moveMu by the action stage only.
	moveMu sync.Mutex
	gen    uint64

	// corner is the last failsafe reading of the cursor watcher.
	corner atomic.Bool

	enabled bool
	running bool
	mu      sync.RWMutex
}

// New creates an App. It fails when no tracker or input backend can be
// created or the screen size cannot be read.
func New(opts Options) (*App, error) {
	cfg := opts.Config
	session := uuid.NewString()
	logger := log.With("session", session)

	cam := opts.Camera
	if cam == nil {
		cam = capture.NewCamera(capture.Config{
			DeviceID: cfg.Camera.DeviceID,
			Width:    cfg.Camera.Width,
			Height:   cfg.Camera.Height,
			FPS:      cfg.Camera.ActiveFPS,
			Mirror:   cfg.Camera.Mirror,
		})
	}

	det := opts.Detector
	if det == nil {
		mp, err := detector.NewMediaPipeDetector(detector.Config{
			Script:          cfg.Tracker.Script,
			Python:          cfg.Tracker.Python,
			MaxHands:        cfg.Tracker.MaxHands,
			MinConfidence:   cfg.Tracker.MinConfidence,
			MinTrackingConf: cfg.Tracker.MinTrackingConf,
			IdleShutdown:    cfg.Tracker.IdleShutdown,
		})
		if err != nil {
			return nil, fmt.Errorf("hand tracker: %w", err)
		}
		det = mp
	}

	drv := opts.Driver
	if drv == nil {
		var err error
		if drv, err = input.New(cfg.Driver); err != nil {
			return nil, err
		}
	}

	w, h, err := drv.ScreenSize()
	if err != nil {
		return nil, fmt.Errorf("failed to read screen size: %w", err)
	}
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid screen size %dx%d", w, h)
	}

	capacity := cfg.Pipeline.QueueCapacity
	a := &App{
		cfg:        cfg,
		camera:     cam,
		detector:   det,
		dispatcher: input.NewDispatcher(drv, logger),
		logger:     logger,
		session:    session,
		screenW:    w,
		screenH:    h,
		frames:     queue.New[*gocv.Mat](capacity, queue.DropNewest),
		samples:    queue.New[gesture.Sample](capacity, queue.DropNewest),
		motion:     queue.New[target](capacity, queue.DropOldest),
		status:     queue.New[Status](1, queue.DropOldest),
		enabled:    true,
	}
	a.frames.OnDrop(func(m *gocv.Mat) { m.Close() })

	logger.Info("app created", "screen", fmt.Sprintf("%dx%d", w, h), "driver", cfg.Driver.Backend)
	return a, nil
}

// Session returns the id attached to every log line of this App.
func (a *App) Session() string {
	return a.session
}

// SetEnabled pauses or resumes gesture control. Pausing locks the
// session; after resuming an OPEN hand unlocks it.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether gesture control is active.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// Mode returns the current session mode.
func (a *App) Mode() action.Mode {
	return action.Mode(a.mode.Load())
}

// NextStatus waits up to timeout for a status change.
func (a *App) NextStatus(ctx context.Context, timeout time.Duration) (Status, bool) {
	return a.status.Receive(ctx, timeout)
}

// Stats returns the pipeline counters.
func (a *App) Stats() Stats {
	return Stats{
		Frames:      a.frames.Stats(),
		Samples:     a.samples.Stats(),
		Motion:      a.motion.Stats(),
		InputErrors: a.dispatcher.Errors(),
	}
}

// Run opens the camera and runs the pipeline until ctx is cancelled.
// Capture, recognition, the mover and the cursor watcher run on their own
// goroutines; the action stage runs on the caller's. All held buttons are released and
// the camera and tracker closed before Run returns.
func (a *App) Run(ctx context.Context) error {
	a.mu.Lock()
	if a.running {
		a.mu.Unlock()
		return ErrAlreadyRunning
	}
	a.running = true
	a.mu.Unlock()

	defer func() {
		a.mu.Lock()
		a.running = false
		a.mu.Unlock()
	}()

	if err := a.camera.Open(); err != nil {
		return fmt.Errorf("failed to open camera: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(4)
	go func() {
		defer wg.Done()
		a.runCapture(ctx)
	}()
	go func() {
		defer wg.Done()
		a.runRecognition(ctx)
	}()
	go func() {
		defer wg.Done()
		a.runMover(ctx)
	}()
	go func() {
		defer wg.Done()
		a.runCursorWatch(ctx)
	}()

	a.logger.Info("pipeline started")

	machine := action.NewMachine(a.cfg.Actions, stabilizer.New(a.cfg.Stabilizer, a.screenW, a.screenH))
	a.mode.Store(int32(machine.Mode()))
	a.runActions(ctx, machine)

	cancel()
	a.join(&wg)
	a.cleanup()
	return nil
}

// join waits for the stage goroutines, giving up after JoinTimeout.
func (a *App) join(wg *sync.WaitGroup) {
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(a.cfg.Pipeline.JoinTimeout):
		a.logger.Warn("pipeline stages did not stop in time", "timeout", a.cfg.Pipeline.JoinTimeout)
	}
}

func (a *App) cleanup() {
	if err := a.dispatcher.ReleaseAll(); err != nil {
		a.logger.Error("failed to release input", "error", err)
	}

	a.frames.Drain()
	a.samples.Drain()
	a.motion.Drain()

	if err := a.camera.Close(); err != nil {
		a.logger.Error("failed to close camera", "error", err)
	}
	if err := a.detector.Close(); err != nil {
		a.logger.Error("failed to close hand tracker", "error", err)
	}

	st := a.Stats()
	a.logger.Info("pipeline stopped",
		"frames", st.Frames.Accepted,
		"frames_dropped", st.Frames.Dropped,
		"samples_dropped", st.Samples.Dropped,
		"moves_dropped", st.Motion.Dropped,
		"input_errors", st.InputErrors,
	)
}
