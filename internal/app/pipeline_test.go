package app

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ayusman/airtouch/internal/capture"
	"github.com/ayusman/airtouch/internal/config"
	"github.com/ayusman/airtouch/internal/detector"
	"github.com/ayusman/airtouch/internal/gesture"
	"github.com/ayusman/airtouch/internal/logging"
	"github.com/ayusman/airtouch/internal/render"
	"github.com/ayusman/airtouch/internal/surface"
)

type countingCue struct{ n atomic.Int32 }

func (c *countingCue) Play() { c.n.Add(1) }

type recordingActions struct {
	mu      sync.Mutex
	buttons []int
	labels  []string
}

func (r *recordingActions) Dispatch(button int, label string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.buttons = append(r.buttons, button)
	r.labels = append(r.labels, label)
	return true
}

type recordingPublisher struct {
	mu    sync.Mutex
	snaps []Snapshot
	coded bool
}

func (p *recordingPublisher) Publish(snap Snapshot, frame func() ([]byte, error)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snaps = append(p.snaps, snap)
	p.coded = frame != nil
}

// quitAfter reports KeyQuit once n scenes have been drawn.
type quitAfter struct {
	*render.Headless
	n int
}

func (q quitAfter) PollKey() render.Key {
	if q.Frames() >= q.n {
		return render.KeyQuit
	}
	return render.KeyNone
}

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Display.FPS = 1000
	return cfg
}

// stationary sits on button 1 (x 330..580, y 40..140) of a 1280x720
// display for a 640x480 camera: raw (230, 60) maps to (460, 90).
func stationary() *detector.HandLandmarks {
	return detector.HandAt(0.36, 0.125, 0.2, 0.2)
}

func newTestApp(t *testing.T, cfg config.Config, deps Deps) *App {
	t.Helper()

	if deps.Logger == nil {
		deps.Logger = logging.Discard()
	}
	a, err := New(cfg, deps)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return a
}

func TestNew_RequiresDeps(t *testing.T) {
	if _, err := New(config.Default(), Deps{}); err == nil {
		t.Fatal("expected error without camera, detector and renderer")
	}
}

func TestApp_CaptureFailureEndsRun(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	cue := &countingCue{}
	actions := &recordingActions{}
	pub := &recordingPublisher{}
	headless := render.NewHeadless()

	a := newTestApp(t, testConfig(), Deps{
		Camera:     capture.NewMockCamera(640, 480, 3),
		Detector:   detector.NewMockDetector(stationary()),
		Renderer:   headless,
		Cue:        cue,
		Actions:    actions,
		Publishers: []Publisher{pub},
	})

	err := a.Run(context.Background())
	if !errors.Is(err, capture.ErrNoFrame) {
		t.Fatalf("Run() error = %v, want ErrNoFrame", err)
	}
	if a.Frames() != 3 {
		t.Errorf("Frames() = %d, want 3", a.Frames())
	}
	if headless.Frames() != 3 {
		t.Errorf("rendered %d frames, want 3", headless.Frames())
	}

	if got := cue.n.Load(); got != 1 {
		t.Errorf("cue played %d times, want 1", got)
	}
	if len(actions.buttons) != 1 || actions.buttons[0] != 1 {
		t.Errorf("dispatched %v, want [1]", actions.buttons)
	}
	if actions.labels[0] != gesture.OpenHand.String() {
		t.Errorf("dispatched gesture %q", actions.labels[0])
	}

	if len(pub.snaps) != 3 {
		t.Fatalf("published %d snapshots, want 3", len(pub.snaps))
	}
	for i, snap := range pub.snaps {
		if snap.Buttons[1].State != surface.Active {
			t.Errorf("frame %d: button 1 = %v, want Active", i, snap.Buttons[1].State)
		}
	}
	if len(pub.snaps[0].Pressed) != 1 || len(pub.snaps[1].Pressed) != 0 {
		t.Errorf("pressed = %v then %v", pub.snaps[0].Pressed, pub.snaps[1].Pressed)
	}
	if pub.coded {
		t.Error("headless renderer should not offer frames")
	}

	last := headless.Last()
	if !last.HasCursor || last.Cursor.X != 460 || last.Cursor.Y != 90 {
		t.Errorf("last scene cursor = %v (has=%v)", last.Cursor, last.HasCursor)
	}
}

func TestApp_QuitKey(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	a := newTestApp(t, testConfig(), Deps{
		Camera:   capture.NewMockCamera(64, 48, 0),
		Detector: detector.NewMockDetector(),
		Renderer: quitAfter{render.NewHeadless(), 2},
	})

	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if a.Frames() != 2 {
		t.Errorf("Frames() = %d, want 2", a.Frames())
	}
	if a.Running() {
		t.Error("Running() after Run returned")
	}
}

func TestApp_StopAndCancel(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	t.Run("stop", func(t *testing.T) {
		a := newTestApp(t, testConfig(), Deps{
			Camera:   capture.NewMockCamera(64, 48, 0),
			Detector: detector.NewMockDetector(),
			Renderer: render.NewHeadless(),
		})

		done := make(chan error, 1)
		go func() { done <- a.Run(context.Background()) }()

		deadline := time.Now().Add(2 * time.Second)
		for a.Frames() < 5 {
			if time.Now().After(deadline) {
				t.Fatal("loop did not advance")
			}
			time.Sleep(time.Millisecond)
		}
		a.Stop()

		select {
		case err := <-done:
			if err != nil {
				t.Errorf("Run() error = %v", err)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("Run did not return after Stop")
		}
	})

	t.Run("context", func(t *testing.T) {
		a := newTestApp(t, testConfig(), Deps{
			Camera:   capture.NewMockCamera(64, 48, 0),
			Detector: detector.NewMockDetector(),
			Renderer: render.NewHeadless(),
		})

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		if err := a.Run(ctx); err != nil {
			t.Errorf("Run() error = %v", err)
		}
		if a.Frames() == 0 {
			t.Error("no frames ran before cancellation")
		}
	})

	t.Run("stop before run", func(t *testing.T) {
		cam := capture.NewMockCamera(64, 48, 0)
		a := newTestApp(t, testConfig(), Deps{
			Camera:   cam,
			Detector: detector.NewMockDetector(),
			Renderer: render.NewHeadless(),
		})
		a.Stop()

		if err := a.Run(context.Background()); err != nil {
			t.Errorf("Run() error = %v", err)
		}
		if cam.Read() != 0 {
			t.Errorf("camera read %d frames after early Stop", cam.Read())
		}
	})
}

func TestApp_DetectorErrorIsNoHand(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	det := detector.NewMockDetector(stationary())
	det.SetError(errors.New("service crashed"))
	headless := render.NewHeadless()
	cue := &countingCue{}

	a := newTestApp(t, testConfig(), Deps{
		Camera:   capture.NewMockCamera(640, 480, 2),
		Detector: det,
		Renderer: headless,
		Cue:      cue,
	})

	if err := a.Run(context.Background()); !errors.Is(err, capture.ErrNoFrame) {
		t.Fatalf("Run() error = %v", err)
	}
	if headless.Last().HasCursor {
		t.Error("cursor drawn despite detector errors")
	}
	if cue.n.Load() != 0 {
		t.Error("cue played without a hand")
	}
	if snap := a.Snapshot(); snap.Frame != 2 || snap.Gesture != gesture.None {
		t.Errorf("snapshot = %+v", snap)
	}
}
