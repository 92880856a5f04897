package app

import (
	"github.com/ayusman/airtouch/internal/config"
	"github.com/ayusman/airtouch/internal/detector"
	"github.com/ayusman/airtouch/internal/geom"
	"github.com/ayusman/airtouch/internal/gesture"
	"github.com/ayusman/airtouch/internal/surface"
	"github.com/ayusman/airtouch/internal/tracking"
)

// Result is the outcome of one pipeline step.
type Result struct {
	// Raw is the unsmoothed fingertip in camera pixels.
	Raw geom.Point
	// Smoothed is the averaged fingertip in camera pixels.
	Smoothed geom.Point
	// Cursor is Smoothed mapped to display pixels. Valid when HasCursor.
	Cursor    geom.Point
	HasCursor bool
	Gesture   gesture.Label
	Pressed   []surface.Press
	Buttons   []surface.Button
}

// Session carries the per-run state of the pipeline: the smoothing window,
// the swipe baseline, the cached display scale and the button states.
type Session struct {
	smoother   *tracking.Smoother
	classifier *gesture.Classifier
	mapper     *geom.Mapper
	surface    *surface.Surface
}

// NewSession builds the pipeline stages from cfg.
func NewSession(cfg config.Config) (*Session, error) {
	grid, err := surface.NewGrid(cfg.Surface)
	if err != nil {
		return nil, err
	}
	policy, err := tracking.ParseLossPolicy(string(cfg.Tracking.OnLoss))
	if err != nil {
		return nil, err
	}

	return &Session{
		smoother:   tracking.NewSmoother(cfg.Tracking.Window, policy),
		classifier: gesture.NewClassifier(cfg.Gesture),
		mapper:     geom.NewMapper(geom.Size{W: cfg.Display.Width, H: cfg.Display.Height}),
		surface:    grid,
	}, nil
}

// Step advances the pipeline by one frame. A nil frame means no hand was
// detected: the cursor disappears, the gesture is None and every button
// returns to Idle.
func (s *Session) Step(frame *detector.LandmarkFrame) Result {
	if frame == nil {
		s.smoother.Miss()
		label := s.classifier.Miss()
		pressed := s.surface.Update(geom.Point{}, false)
		return Result{
			Gesture: label,
			Pressed: pressed,
			Buttons: s.surface.Buttons(),
		}
	}

	raw := frame.Fingertip()
	smoothed := s.smoother.Add(raw)
	label := s.classifier.Observe(frame.IndexTip, frame.ThumbTip, smoothed.X)
	cursor := s.mapper.Map(frame.Size, smoothed)
	pressed := s.surface.Update(cursor, true)

	return Result{
		Raw:       raw,
		Smoothed:  smoothed,
		Cursor:    cursor,
		HasCursor: true,
		Gesture:   label,
		Pressed:   pressed,
		Buttons:   s.surface.Buttons(),
	}
}

// Display returns the display size cursors are mapped into.
func (s *Session) Display() geom.Size {
	return s.mapper.Display()
}

// Surface exposes the button surface.
func (s *Session) Surface() *surface.Surface {
	return s.surface
}
