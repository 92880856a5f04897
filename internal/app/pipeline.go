package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ayusman/airtouch/internal/detector"
	"github.com/ayusman/airtouch/internal/geom"
	"github.com/ayusman/airtouch/internal/render"
	"gocv.io/x/gocv"
)

// Run executes the frame loop until Stop, a quit key, ctx cancellation or
// a capture failure. Each iteration:
//
//  1. Read a frame (mirrored by the camera); a failed read ends the run
//  2. Detect a hand; a detector error counts as no hand
//  3. Step the session and fire the cue plus action for each press
//  4. Render the scene and poll for quit
//  5. Publish the snapshot, then wait the fixed frame delay
//
// A normal quit returns nil; a capture failure returns the wrapped error.
func (a *App) Run(ctx context.Context) error {
	if a.stopped.Load() {
		return nil
	}
	if err := a.deps.Camera.Open(); err != nil {
		return fmt.Errorf("open camera: %w", err)
	}
	defer func() {
		if err := a.deps.Camera.Close(); err != nil {
			a.logger.Warn("close camera", "error", err)
		}
	}()

	a.running.Store(!a.stopped.Load())
	defer a.running.Store(false)

	a.logger.Info("frame loop started",
		"display", fmt.Sprintf("%dx%d", a.config.Display.Width, a.config.Display.Height),
		"fps", a.config.Display.FPS,
	)

	timer := time.NewTimer(0)
	<-timer.C
	defer timer.Stop()

	for a.running.Load() {
		if err := a.step(); err != nil {
			a.logger.Error("capture failed, stopping", "error", err, "frames", a.Frames())
			return err
		}

		timer.Reset(a.delay)
		select {
		case <-ctx.Done():
			a.running.Store(false)
		case <-timer.C:
		}
	}

	a.logger.Info("frame loop stopped", "frames", a.Frames())
	return nil
}

func (a *App) step() error {
	frame, err := a.deps.Camera.ReadFrame()
	if err != nil {
		return fmt.Errorf("capture: %w", err)
	}

	lm := a.detect(frame)
	frame.Close()

	result := a.session.Step(lm)

	for _, p := range result.Pressed {
		a.logger.Debug("button pressed", "button", p.Index, "x", p.Cursor.X, "y", p.Cursor.Y)
		a.deps.Cue.Play()
		if a.deps.Actions != nil {
			a.deps.Actions.Dispatch(p.Index, result.Gesture.String())
		}
	}

	scene := render.Scene{
		Size:      a.session.Display(),
		Buttons:   result.Buttons,
		Cursor:    result.Cursor,
		HasCursor: result.HasCursor,
		Gesture:   result.Gesture,
	}
	if err := a.deps.Renderer.Draw(scene); err != nil {
		a.logger.Warn("render failed", "error", err)
	}
	if a.deps.Renderer.PollKey() == render.KeyQuit {
		a.Stop()
	}

	a.publish(result)
	return nil
}

// detect runs the detector on frame and reduces its output to the two
// fingertips. Errors are logged and count as a frame without a hand.
func (a *App) detect(frame *gocv.Mat) *detector.LandmarkFrame {
	hand, err := a.deps.Detector.Detect(frame)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			a.logger.Warn("hand detection failed", "error", err)
		}
		return nil
	}
	return hand.Frame(geom.Size{W: frame.Cols(), H: frame.Rows()})
}

func (a *App) publish(result Result) {
	snap := Snapshot{
		Frame:     a.frames.Add(1),
		Time:      time.Now(),
		Cursor:    result.Cursor,
		HasCursor: result.HasCursor,
		Gesture:   result.Gesture,
		Buttons:   make([]ButtonState, len(result.Buttons)),
	}
	for i, b := range result.Buttons {
		snap.Buttons[i] = ButtonState{Index: b.Index, State: b.State, Touched: b.Touched}
	}
	for _, p := range result.Pressed {
		snap.Pressed = append(snap.Pressed, p.Index)
	}

	a.mu.Lock()
	a.last = snap
	a.mu.Unlock()

	var frame func() ([]byte, error)
	if enc, ok := a.deps.Renderer.(render.Encoder); ok {
		frame = enc.JPEG
	}
	for _, p := range a.deps.Publishers {
		p.Publish(snap, frame)
	}
}
