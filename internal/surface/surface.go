// Package surface implements the grid of touch targets driven by the cursor.
//
// Each button runs a small state machine per frame:
//
//	Idle   cursor absent, or outside both the hit and soft-hover rectangles
//	Hover  cursor inside the soft-hover rectangle but not the hit rectangle
//	Active cursor inside the hit rectangle
//
// The soft-hover rectangle is the hit rectangle translated vertically by
// HoverOffset. Entering Active from a non-touched state emits a Press once;
// the touched latch clears only in Idle or Hover.
package surface

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/ayusman/airtouch/internal/geom"
)

// State is the visual state of a button for the current frame.
type State int

const (
	Idle State = iota
	Hover
	Active
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Hover:
		return "hover"
	case Active:
		return "active"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Color is an opaque RGB triple. It decodes from a three-element list.
type Color [3]uint8

// RGBA converts c to an opaque color.RGBA.
func (c Color) RGBA() color.RGBA {
	return color.RGBA{R: c[0], G: c[1], B: c[2], A: 0xff}
}

// Rect is an axis-aligned rectangle. It contains points with
// X <= x < X+W and Y <= y < Y+H.
type Rect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Contains reports whether p lies inside r.
func (r Rect) Contains(p geom.Point) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

// Offset returns r translated by (dx, dy).
func (r Rect) Offset(dx, dy int) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, W: r.W, H: r.H}
}

// Overlaps reports whether r and o share any point.
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.X+o.W && o.X < r.X+r.W && r.Y < o.Y+o.H && o.Y < r.Y+r.H
}

// Image converts r to an image.Rectangle.
func (r Rect) Image() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H)
}

// Button is one touch target. Rect and Default are fixed at construction;
// Color, State and Touched change every frame.
type Button struct {
	Index   int   `json:"index"`
	Rect    Rect  `json:"rect"`
	Default Color `json:"default"`
	Color   Color `json:"color"`
	State   State `json:"state"`
	Touched bool  `json:"touched"`
}

// Press is emitted when a button enters Active with its latch clear.
type Press struct {
	Index  int
	Cursor geom.Point
}

// Layout describes a uniform grid of buttons.
type Layout struct {
	Cols        int     `yaml:"cols"`
	Rows        int     `yaml:"rows"`
	Width       int     `yaml:"button_width"`
	Height      int     `yaml:"button_height"`
	Padding     int     `yaml:"padding"`
	HoverOffset int     `yaml:"hover_offset"`
	Palette     []Color `yaml:"palette"`
	Hover       Color   `yaml:"hover_color"`
	Active      Color   `yaml:"active_color"`
}

// DefaultLayout returns the 3×2 grid of 250×100 buttons with 40px padding.
func DefaultLayout() Layout {
	return Layout{
		Cols:        3,
		Rows:        2,
		Width:       250,
		Height:      100,
		Padding:     40,
		HoverOffset: 20,
		Palette: []Color{
			{255, 100, 100}, {100, 255, 100}, {100, 100, 255},
			{255, 255, 100}, {255, 100, 255}, {100, 255, 255},
		},
		Hover:  Color{200, 200, 200},
		Active: Color{255, 255, 255},
	}
}

// Validate checks that the layout describes a non-empty grid with a colour
// for every button.
func (l Layout) Validate() error {
	if l.Cols < 1 || l.Rows < 1 {
		return fmt.Errorf("grid must have at least one row and column, got %dx%d", l.Cols, l.Rows)
	}
	if l.Width < 1 || l.Height < 1 {
		return fmt.Errorf("button size must be positive, got %dx%d", l.Width, l.Height)
	}
	if l.Padding < 0 {
		return errors.New("padding must not be negative")
	}
	if len(l.Palette) < l.Cols*l.Rows {
		return fmt.Errorf("palette has %d colours for %d buttons", len(l.Palette), l.Cols*l.Rows)
	}
	return nil
}

// Bounds returns the size of the area the grid occupies including the
// outer padding.
func (l Layout) Bounds() geom.Size {
	return geom.Size{
		W: l.Padding + l.Cols*(l.Width+l.Padding),
		H: l.Padding + l.Rows*(l.Height+l.Padding),
	}
}

// Surface holds the buttons and evaluates them against the cursor.
type Surface struct {
	buttons     []Button
	hoverOffset int
	hover       Color
	active      Color
}

// NewGrid lays out buttons row by row; the button at (row, col) takes
// Palette[row*Cols+col].
func NewGrid(l Layout) (*Surface, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}

	buttons := make([]Button, 0, l.Cols*l.Rows)
	for row := 0; row < l.Rows; row++ {
		for col := 0; col < l.Cols; col++ {
			i := row*l.Cols + col
			buttons = append(buttons, Button{
				Index: i,
				Rect: Rect{
					X: l.Padding + col*(l.Width+l.Padding),
					Y: l.Padding + row*(l.Height+l.Padding),
					W: l.Width,
					H: l.Height,
				},
				Default: l.Palette[i],
				Color:   l.Palette[i],
			})
		}
	}

	return &Surface{
		buttons:     buttons,
		hoverOffset: l.HoverOffset,
		hover:       l.Hover,
		active:      l.Active,
	}, nil
}

// Update evaluates every button against the cursor for one frame and
// returns the presses that fired. present=false means no cursor this frame.
func (s *Surface) Update(cursor geom.Point, present bool) []Press {
	var presses []Press

	for i := range s.buttons {
		b := &s.buttons[i]

		switch {
		case present && b.Rect.Contains(cursor):
			if !b.Touched {
				b.Touched = true
				presses = append(presses, Press{Index: b.Index, Cursor: cursor})
			}
			b.State = Active
			b.Color = s.active

		case present && b.Rect.Offset(0, s.hoverOffset).Contains(cursor):
			b.State = Hover
			b.Color = s.hover
			b.Touched = false

		default:
			b.State = Idle
			b.Color = b.Default
			b.Touched = false
		}
	}

	return presses
}

// Len returns the number of buttons.
func (s *Surface) Len() int {
	return len(s.buttons)
}

// Button returns a copy of button i.
func (s *Surface) Button(i int) Button {
	return s.buttons[i]
}

// Buttons returns a copy of all buttons in index order.
func (s *Surface) Buttons() []Button {
	out := make([]Button, len(s.buttons))
	copy(out, s.buttons)
	return out
}

// HitTest returns the index of the button whose hit rectangle contains p,
// or -1.
func (s *Surface) HitTest(p geom.Point) int {
	for _, b := range s.buttons {
		if b.Rect.Contains(p) {
			return b.Index
		}
	}
	return -1
}
