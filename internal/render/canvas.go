package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/ayusman/airtouch/internal/geom"
	"gocv.io/x/gocv"
)

const (
	cornerRadius = 10
	borderWidth  = 2
	textScale    = 1.0
	textWeight   = 2
	// Caption anchor relative to the bottom-right corner.
	textRight  = 350
	textBottom = 40
	// Hershey simplex cap height at textScale, used to turn the top-left
	// anchor into a baseline.
	textHeight = 22
)

var white = color.RGBA{R: 255, G: 255, B: 255}

// Canvas paints scenes into an OpenCV image. It is safe to encode from
// another goroutine while the frame loop draws.
type Canvas struct {
	mu    sync.Mutex
	style Style
	size  geom.Size
	img   gocv.Mat
}

// NewCanvas allocates a canvas of the given size.
func NewCanvas(size geom.Size, style Style) *Canvas {
	return &Canvas{
		style: style,
		size:  size,
		img:   gocv.NewMatWithSize(size.H, size.W, gocv.MatTypeCV8UC3),
	}
}

// Size returns the canvas dimensions.
func (c *Canvas) Size() geom.Size {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}

// Draw paints background, buttons, cursor and caption in that order.
func (c *Canvas) Draw(scene Scene) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paint(scene)
}

func (c *Canvas) paint(scene Scene) error {
	if !scene.Size.Valid() {
		return fmt.Errorf("invalid scene size %dx%d", scene.Size.W, scene.Size.H)
	}
	if scene.Size != c.size {
		c.img.Close()
		c.img = gocv.NewMatWithSize(scene.Size.H, scene.Size.W, gocv.MatTypeCV8UC3)
		c.size = scene.Size
	}

	bg := c.style.Background
	c.img.SetTo(gocv.NewScalar(float64(bg[2]), float64(bg[1]), float64(bg[0]), 0))

	for _, b := range scene.Buttons {
		r := b.Rect.Image()
		fillRoundedRect(&c.img, r, cornerRadius, b.Color.RGBA())
		strokeRoundedRect(&c.img, r, cornerRadius, white, borderWidth)
	}

	if scene.HasCursor {
		gocv.Circle(&c.img, scene.Cursor.Image(), c.style.CursorRadius, c.style.Cursor.RGBA(), -1)
	}

	if text := GestureText(scene.Gesture); text != "" {
		org := image.Pt(c.size.W-textRight, c.size.H-textBottom+textHeight)
		gocv.PutText(&c.img, text, org, gocv.FontHersheySimplex, textScale, white, textWeight)
	}
	return nil
}

// PollKey always returns KeyNone; a bare canvas has no input.
func (c *Canvas) PollKey() Key {
	return KeyNone
}

// JPEG encodes the last drawn frame.
func (c *Canvas) JPEG() ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.img.Empty() {
		return nil, errors.New("canvas is empty")
	}
	buf, err := gocv.IMEncode(gocv.JPEGFileExt, c.img)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	return append([]byte(nil), buf.GetBytes()...), nil
}

// Close releases the image.
func (c *Canvas) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.img.Close()
}

// with runs fn on the current image while holding the canvas lock.
func (c *Canvas) with(fn func(img gocv.Mat)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(c.img)
}

// fillRoundedRect fills r (max exclusive) with corners of radius rad.
func fillRoundedRect(img *gocv.Mat, r image.Rectangle, rad int, col color.RGBA) {
	rad = clampRadius(r, rad)
	x0, y0, x1, y1 := r.Min.X, r.Min.Y, r.Max.X-1, r.Max.Y-1

	gocv.Rectangle(img, image.Rect(x0+rad, y0, x1-rad, y1), col, -1)
	gocv.Rectangle(img, image.Rect(x0, y0+rad, x1, y1-rad), col, -1)
	for _, c := range corners(x0, y0, x1, y1, rad) {
		gocv.Circle(img, c.center, rad, col, -1)
	}
}

// strokeRoundedRect outlines r with lines of the given width.
func strokeRoundedRect(img *gocv.Mat, r image.Rectangle, rad int, col color.RGBA, width int) {
	rad = clampRadius(r, rad)
	x0, y0, x1, y1 := r.Min.X, r.Min.Y, r.Max.X-1, r.Max.Y-1

	gocv.Line(img, image.Pt(x0+rad, y0), image.Pt(x1-rad, y0), col, width)
	gocv.Line(img, image.Pt(x0+rad, y1), image.Pt(x1-rad, y1), col, width)
	gocv.Line(img, image.Pt(x0, y0+rad), image.Pt(x0, y1-rad), col, width)
	gocv.Line(img, image.Pt(x1, y0+rad), image.Pt(x1, y1-rad), col, width)
	for _, c := range corners(x0, y0, x1, y1, rad) {
		gocv.Ellipse(img, c.center, image.Pt(rad, rad), 0, c.start, c.start+90, col, width)
	}
}

type corner struct {
	center image.Point
	start  float64
}

// corners lists arc centres clockwise from the top-left. Angles follow
// OpenCV's convention of degrees clockwise from +x with y pointing down.
func corners(x0, y0, x1, y1, rad int) [4]corner {
	return [4]corner{
		{image.Pt(x0+rad, y0+rad), 180},
		{image.Pt(x1-rad, y0+rad), 270},
		{image.Pt(x1-rad, y1-rad), 0},
		{image.Pt(x0+rad, y1-rad), 90},
	}
}

func clampRadius(r image.Rectangle, rad int) int {
	if half := min(r.Dx(), r.Dy()) / 2; rad > half {
		rad = half
	}
	if rad < 0 {
		rad = 0
	}
	return rad
}
