package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It replays a scripted sequence of detections, one per Detect call. A nil
// entry means "no hand this frame". After the script runs out the last
// entry repeats.
type MockDetector struct {
	mu     sync.Mutex
	script []*HandLandmarks
	next   int
	err    error
	calls  int
}

// NewMockDetector creates a MockDetector replaying the given detections.
func NewMockDetector(script ...*HandLandmarks) *MockDetector {
	return &MockDetector{script: script}
}

// SetHand makes every following Detect return hand.
func (m *MockDetector) SetHand(hand *HandLandmarks) {
	m.SetScript(hand)
}

// SetScript replaces the detection sequence and rewinds it.
func (m *MockDetector) SetScript(script ...*HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = script
	m.next = 0
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how many times Detect was invoked.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Detect returns the next scripted detection or the configured error.
func (m *MockDetector) Detect(frame *gocv.Mat) (*HandLandmarks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if len(m.script) == 0 {
		return nil, nil
	}

	i := m.next
	if i >= len(m.script) {
		i = len(m.script) - 1
	} else {
		m.next++
	}
	return m.script[i], nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// HandAt returns a right hand whose index fingertip sits at the normalized
// position (x, y) and whose thumb tip is offset by (dx, dy).
func HandAt(x, y, dx, dy float64) *HandLandmarks {
	hand := OpenHandLandmarks()
	shiftX := x - hand.Points[IndexTip].X
	shiftY := y - hand.Points[IndexTip].Y
	for i := range hand.Points {
		hand.Points[i].X += shiftX
		hand.Points[i].Y += shiftY
	}
	hand.Points[ThumbTip] = Point3D{X: x + dx, Y: y + dy}
	return &hand
}

// OpenHandLandmarks returns a preset HandLandmarks with all fingers spread;
// index fingertip and thumb tip are far apart.
func OpenHandLandmarks() HandLandmarks {
	landmarks := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	landmarks.Points[Wrist] = Point3D{X: 0.5, Y: 0.8, Z: 0.0}

	// Thumb extended to the side
	landmarks.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.75, Z: 0.02}
	landmarks.Points[ThumbMCP] = Point3D{X: 0.62, Y: 0.70, Z: 0.03}
	landmarks.Points[ThumbIP] = Point3D{X: 0.68, Y: 0.65, Z: 0.03}
	landmarks.Points[ThumbTip] = Point3D{X: 0.73, Y: 0.60, Z: 0.03}

	landmarks.Points[IndexMCP] = Point3D{X: 0.55, Y: 0.68, Z: 0.0}
	landmarks.Points[IndexPIP] = Point3D{X: 0.57, Y: 0.55, Z: 0.0}
	landmarks.Points[IndexDIP] = Point3D{X: 0.58, Y: 0.45, Z: 0.0}
	landmarks.Points[IndexTip] = Point3D{X: 0.58, Y: 0.35, Z: 0.0}

	landmarks.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.66, Z: 0.0}
	landmarks.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.52, Z: 0.0}
	landmarks.Points[MiddleDIP] = Point3D{X: 0.50, Y: 0.40, Z: 0.0}
	landmarks.Points[MiddleTip] = Point3D{X: 0.50, Y: 0.28, Z: 0.0}

	landmarks.Points[RingMCP] = Point3D{X: 0.45, Y: 0.68, Z: 0.0}
	landmarks.Points[RingPIP] = Point3D{X: 0.43, Y: 0.55, Z: 0.0}
	landmarks.Points[RingDIP] = Point3D{X: 0.42, Y: 0.45, Z: 0.0}
	landmarks.Points[RingTip] = Point3D{X: 0.42, Y: 0.35, Z: 0.0}

	landmarks.Points[PinkyMCP] = Point3D{X: 0.40, Y: 0.70, Z: 0.0}
	landmarks.Points[PinkyPIP] = Point3D{X: 0.37, Y: 0.60, Z: 0.0}
	landmarks.Points[PinkyDIP] = Point3D{X: 0.35, Y: 0.50, Z: 0.0}
	landmarks.Points[PinkyTip] = Point3D{X: 0.34, Y: 0.42, Z: 0.0}

	return landmarks
}

// PinchLandmarks returns a preset HandLandmarks with the thumb tip pressed
// against the index fingertip.
func PinchLandmarks() HandLandmarks {
	landmarks := OpenHandLandmarks()

	landmarks.Points[ThumbIP] = Point3D{X: 0.61, Y: 0.45, Z: 0.01}
	landmarks.Points[ThumbTip] = Point3D{X: 0.59, Y: 0.36, Z: 0.0}

	return landmarks
}
