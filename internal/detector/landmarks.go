// Package detector defines the hand-landmark boundary of the pointing surface.
package detector

import (
	"math"

	"github.com/ayusman/airtouch/internal/geom"
)

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Point3D is a landmark as reported by the detector. X and Y are normalized
// to [0,1] of the frame; Z is relative depth and unused by the surface.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Point2D is a normalized 2D landmark position.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Distance returns the Euclidean distance between p and q.
func (p Point2D) Distance(q Point2D) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Pixel converts p to frame pixels by truncating x·width and y·height.
func (p Point2D) Pixel(frame geom.Size) geom.Point {
	return geom.Point{
		X: int(p.X * float64(frame.W)),
		Y: int(p.Y * float64(frame.H)),
	}
}

// HandLandmarks represents the 21 hand landmarks detected by MediaPipe.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// Flat returns landmark i without its depth component.
func (h *HandLandmarks) Flat(i int) Point2D {
	p := h.Points[i]
	return Point2D{X: p.X, Y: p.Y}
}

// LandmarkFrame is the per-frame input of the interaction pipeline: the two
// tracked fingertips and the pixel size of the frame they were found in.
type LandmarkFrame struct {
	IndexTip Point2D   `json:"index_tip"`
	ThumbTip Point2D   `json:"thumb_tip"`
	Size     geom.Size `json:"size"`
}

// Frame reduces h to a LandmarkFrame for a frame of the given pixel size.
// A nil hand yields nil.
func (h *HandLandmarks) Frame(size geom.Size) *LandmarkFrame {
	if h == nil {
		return nil
	}
	return &LandmarkFrame{
		IndexTip: h.Flat(IndexTip),
		ThumbTip: h.Flat(ThumbTip),
		Size:     size,
	}
}

// Fingertip returns the index fingertip in frame pixels.
func (f *LandmarkFrame) Fingertip() geom.Point {
	return f.IndexTip.Pixel(f.Size)
}

// Pinch returns the normalized distance between index fingertip and thumb tip.
func (f *LandmarkFrame) Pinch() float64 {
	return f.IndexTip.Distance(f.ThumbTip)
}
