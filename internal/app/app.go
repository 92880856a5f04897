// Package app runs the airtouch frame loop: capture, detect, smooth,
// classify, map, update the surface, and render.
package app

import (
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ayusman/airtouch/internal/audio"
	"github.com/ayusman/airtouch/internal/capture"
	"github.com/ayusman/airtouch/internal/config"
	"github.com/ayusman/airtouch/internal/detector"
	"github.com/ayusman/airtouch/internal/geom"
	"github.com/ayusman/airtouch/internal/gesture"
	"github.com/ayusman/airtouch/internal/render"
	"github.com/ayusman/airtouch/internal/surface"
)

// Actions runs the action bound to a pressed button without blocking.
type Actions interface {
	Dispatch(button int, gesture string) bool
}

// Publisher receives a snapshot after every frame. Publish must not block.
// frame encodes the rendered surface on demand and is nil when the
// renderer cannot encode.
type Publisher interface {
	Publish(snap Snapshot, frame func() ([]byte, error))
}

// Deps are the collaborators of the frame loop. Camera, Detector and
// Renderer are required.
type Deps struct {
	Camera     capture.Camera
	Detector   detector.Detector
	Renderer   render.Renderer
	Cue        audio.Cue
	Actions    Actions
	Publishers []Publisher
	Logger     *slog.Logger
}

// ButtonState is the public view of one button.
type ButtonState struct {
	Index   int           `json:"index"`
	State   surface.State `json:"state"`
	Touched bool          `json:"touched"`
}

// Snapshot is the observable state after a frame.
type Snapshot struct {
	Frame     int64         `json:"frame"`
	Time      time.Time     `json:"time"`
	Cursor    geom.Point    `json:"cursor"`
	HasCursor bool          `json:"has_cursor"`
	Gesture   gesture.Label `json:"gesture"`
	Pressed   []int         `json:"pressed,omitempty"`
	Buttons   []ButtonState `json:"buttons"`
}

// App owns the frame loop.
type App struct {
	config  config.Config
	deps    Deps
	session *Session
	logger  *slog.Logger
	delay   time.Duration

	running atomic.Bool
	stopped atomic.Bool
	frames  atomic.Int64

	mu   sync.RWMutex
	last Snapshot
}

// New creates an App. Missing optional deps are replaced by no-ops.
func New(cfg config.Config, deps Deps) (*App, error) {
	if deps.Camera == nil || deps.Detector == nil || deps.Renderer == nil {
		return nil, errors.New("app: camera, detector and renderer are required")
	}
	if deps.Cue == nil {
		deps.Cue = audio.Nop()
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	session, err := NewSession(cfg)
	if err != nil {
		return nil, err
	}

	fps := cfg.Display.FPS
	if fps <= 0 {
		fps = 30
	}

	return &App{
		config:  cfg,
		deps:    deps,
		session: session,
		logger:  deps.Logger,
		delay:   time.Second / time.Duration(fps),
	}, nil
}

// Stop asks the loop to exit after the current frame. A Stop before Run
// makes Run return immediately.
func (a *App) Stop() {
	a.stopped.Store(true)
	if a.running.Swap(false) {
		a.logger.Info("stop requested")
	}
}

// Running reports whether the loop is active.
func (a *App) Running() bool {
	return a.running.Load()
}

// Frames returns the number of completed iterations.
func (a *App) Frames() int64 {
	return a.frames.Load()
}

// Snapshot returns the state after the latest frame.
func (a *App) Snapshot() Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.last
}

// Session exposes the pipeline state.
func (a *App) Session() *Session {
	return a.session
}
