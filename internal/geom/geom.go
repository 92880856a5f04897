// Package geom provides integer screen geometry and the camera-to-display
// coordinate mapping used by the pointing surface.
package geom

import (
	"image"
	"math"
)

// Point is an integer pixel position.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns p translated by (dx, dy).
func (p Point) Add(dx, dy int) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// Image converts p to an image.Point for drawing.
func (p Point) Image() image.Point {
	return image.Point{X: p.X, Y: p.Y}
}

// Size is a width/height pair in pixels.
type Size struct {
	W int `json:"w"`
	H int `json:"h"`
}

// Valid reports whether both dimensions are positive.
func (s Size) Valid() bool {
	return s.W > 0 && s.H > 0
}

// Mapper transforms positions from camera-frame space to display space.
// Horizontal and vertical axes scale independently; aspect ratio is not
// preserved. The scale factors are cached per source size.
type Mapper struct {
	display Size
	source  Size
	scaleX  float64
	scaleY  float64
}

// NewMapper creates a Mapper targeting the given display size.
func NewMapper(display Size) *Mapper {
	return &Mapper{display: display}
}

// Display returns the target display size.
func (m *Mapper) Display() Size {
	return m.display
}

// Scale returns the horizontal and vertical scale factors for a source frame
// of the given size. An invalid source size yields zero factors.
func (m *Mapper) Scale(source Size) (float64, float64) {
	if source != m.source {
		m.source = source
		if source.Valid() {
			m.scaleX = float64(m.display.W) / float64(source.W)
			m.scaleY = float64(m.display.H) / float64(source.H)
		} else {
			m.scaleX, m.scaleY = 0, 0
		}
	}
	return m.scaleX, m.scaleY
}

// Map converts p from source-frame pixels to display pixels, rounding each
// axis to the nearest integer.
func (m *Mapper) Map(source Size, p Point) Point {
	sx, sy := m.Scale(source)
	return Point{
		X: int(math.Round(float64(p.X) * sx)),
		Y: int(math.Round(float64(p.Y) * sy)),
	}
}
