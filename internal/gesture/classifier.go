// Package gesture classifies the tracked hand into a small gesture vocabulary.
package gesture

import (
	"fmt"

	"github.com/ayusman/airtouch/internal/detector"
)

// Label is a discrete gesture recognized for one frame.
type Label int

const (
	// None means no hand was detected this frame.
	None Label = iota
	// OpenHand means fingertip and thumb tip are apart.
	OpenHand
	// ClosedHand means fingertip and thumb tip are pinched together.
	ClosedHand
	// SwipeLeft means the smoothed fingertip jumped left.
	SwipeLeft
	// SwipeRight means the smoothed fingertip jumped right.
	SwipeRight
)

var labelNames = [...]string{
	None:       "",
	OpenHand:   "Open Hand",
	ClosedHand: "Closed Hand",
	SwipeLeft:  "Swipe Left",
	SwipeRight: "Swipe Right",
}

// String returns the display name of the label; None is the empty string.
func (l Label) String() string {
	if l < 0 || int(l) >= len(labelNames) {
		return fmt.Sprintf("Label(%d)", int(l))
	}
	return labelNames[l]
}

// MarshalText encodes the label by its display name.
func (l Label) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// IsSwipe reports whether l is one of the swipe labels.
func (l Label) IsSwipe() bool {
	return l == SwipeLeft || l == SwipeRight
}

// Classifier defaults.
const (
	// DefaultPinchThreshold is the normalized fingertip-thumb distance below
	// which the hand counts as closed.
	DefaultPinchThreshold = 0.04
	// DefaultSwipeThreshold is the smoothed x delta in camera pixels that
	// must be exceeded between consecutive frames to count as a swipe.
	DefaultSwipeThreshold = 100
)

// GapPolicy decides whether the swipe baseline survives frames without a hand.
type GapPolicy string

const (
	// KeepBaseline compares against the last smoothed x seen, however long ago.
	KeepBaseline GapPolicy = "keep"
	// InvalidateOnGap drops the baseline on any frame without a hand, so the
	// first detection after a gap never swipes.
	InvalidateOnGap GapPolicy = "invalidate"
)

// ParseGapPolicy converts a config string to a GapPolicy.
// An empty string selects KeepBaseline.
func ParseGapPolicy(s string) (GapPolicy, error) {
	switch GapPolicy(s) {
	case "", KeepBaseline:
		return KeepBaseline, nil
	case InvalidateOnGap:
		return InvalidateOnGap, nil
	}
	return "", fmt.Errorf("unknown gap policy %q", s)
}

// Config holds the classifier thresholds.
type Config struct {
	PinchThreshold float64   `yaml:"pinch_threshold"`
	SwipeThreshold int       `yaml:"swipe_threshold"`
	OnGap          GapPolicy `yaml:"on_gap"`
}

// DefaultConfig returns the classifier defaults.
func DefaultConfig() Config {
	return Config{
		PinchThreshold: DefaultPinchThreshold,
		SwipeThreshold: DefaultSwipeThreshold,
		OnGap:          KeepBaseline,
	}
}

// Classifier derives a Label per frame. Its only state is the previous
// frame's smoothed x coordinate.
type Classifier struct {
	config  Config
	prevX   int
	hasPrev bool
}

// NewClassifier creates a Classifier with the given thresholds.
func NewClassifier(config Config) *Classifier {
	if config.OnGap == "" {
		config.OnGap = KeepBaseline
	}
	return &Classifier{config: config}
}

// Config returns the classifier configuration.
func (c *Classifier) Config() Config {
	return c.config
}

// Observe classifies a frame with a detected hand. index and thumb are the
// raw normalized fingertip positions; smoothedX is the smoothed fingertip x
// in camera pixels. A swipe takes priority over openness. The baseline is
// updated whether or not a swipe fired.
func (c *Classifier) Observe(index, thumb detector.Point2D, smoothedX int) Label {
	label := OpenHand
	if index.Distance(thumb) < c.config.PinchThreshold {
		label = ClosedHand
	}

	if c.hasPrev {
		delta := smoothedX - c.prevX
		if delta > c.config.SwipeThreshold {
			label = SwipeRight
		} else if -delta > c.config.SwipeThreshold {
			label = SwipeLeft
		}
	}

	c.prevX = smoothedX
	c.hasPrev = true

	return label
}

// Miss records a frame without a hand and returns None.
func (c *Classifier) Miss() Label {
	if c.config.OnGap == InvalidateOnGap {
		c.hasPrev = false
	}
	return None
}

// PreviousX returns the swipe baseline, if one is set.
func (c *Classifier) PreviousX() (int, bool) {
	return c.prevX, c.hasPrev
}

// Reset clears the swipe baseline.
func (c *Classifier) Reset() {
	c.prevX = 0
	c.hasPrev = false
}
