// Package tracking denoises the fingertip signal with a short moving average.
package tracking

import (
	"fmt"
	"math"

	"github.com/ayusman/airtouch/internal/geom"
)

// DefaultWindow is the number of recent positions averaged by default.
const DefaultWindow = 5

// LossPolicy decides what happens to the history when a frame has no hand.
type LossPolicy string

const (
	// HoldLast keeps the buffered history across frames without a hand.
	HoldLast LossPolicy = "hold"
	// ResetOnLoss clears the history as soon as the hand is lost.
	ResetOnLoss LossPolicy = "reset"
)

// ParseLossPolicy converts a config string to a LossPolicy.
// An empty string selects HoldLast.
func ParseLossPolicy(s string) (LossPolicy, error) {
	switch LossPolicy(s) {
	case "", HoldLast:
		return HoldLast, nil
	case ResetOnLoss:
		return ResetOnLoss, nil
	}
	return "", fmt.Errorf("unknown loss policy %q", s)
}

// Smoother averages the last N fingertip positions held in a fixed-capacity
// ring buffer. The oldest entry is evicted once the buffer is full.
type Smoother struct {
	buf    []geom.Point
	start  int
	n      int
	policy LossPolicy
}

// NewSmoother creates a Smoother holding up to capacity positions.
// Capacities below 1 fall back to DefaultWindow.
func NewSmoother(capacity int, policy LossPolicy) *Smoother {
	if capacity < 1 {
		capacity = DefaultWindow
	}
	if policy == "" {
		policy = HoldLast
	}
	return &Smoother{
		buf:    make([]geom.Point, capacity),
		policy: policy,
	}
}

// Add appends p to the history and returns the smoothed position.
func (s *Smoother) Add(p geom.Point) geom.Point {
	if s.n < len(s.buf) {
		s.buf[(s.start+s.n)%len(s.buf)] = p
		s.n++
	} else {
		s.buf[s.start] = p
		s.start = (s.start + 1) % len(s.buf)
	}
	pos, _ := s.Position()
	return pos
}

// Miss records a frame without a hand. Under HoldLast the history is left
// untouched; under ResetOnLoss it is cleared.
func (s *Smoother) Miss() {
	if s.policy == ResetOnLoss {
		s.Reset()
	}
}

// Position returns the rounded mean of the buffered positions, computed
// independently per axis. It returns false when the buffer is empty.
func (s *Smoother) Position() (geom.Point, bool) {
	if s.n == 0 {
		return geom.Point{}, false
	}

	var sumX, sumY int
	for i := 0; i < s.n; i++ {
		p := s.buf[(s.start+i)%len(s.buf)]
		sumX += p.X
		sumY += p.Y
	}

	n := float64(s.n)
	return geom.Point{
		X: int(math.Round(float64(sumX) / n)),
		Y: int(math.Round(float64(sumY) / n)),
	}, true
}

// Len returns the number of buffered positions.
func (s *Smoother) Len() int {
	return s.n
}

// Cap returns the buffer capacity.
func (s *Smoother) Cap() int {
	return len(s.buf)
}

// Policy returns the configured loss policy.
func (s *Smoother) Policy() LossPolicy {
	return s.policy
}

// Reset empties the history.
func (s *Smoother) Reset() {
	s.start = 0
	s.n = 0
}
