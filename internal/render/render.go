// Package render draws the interaction surface and reports quit requests.
//
// A Renderer receives one Scene per frame. The window backend paints an
// OpenCV canvas into a HighGUI window, the terminal backend draws the grid
// with tcell, and the headless backend only counts frames.
package render

import (
	"errors"
	"fmt"

	"github.com/ayusman/airtouch/internal/geom"
	"github.com/ayusman/airtouch/internal/gesture"
	"github.com/ayusman/airtouch/internal/surface"
)

// Key is the result of polling a renderer for input.
type Key int

const (
	KeyNone Key = iota
	// KeyQuit is reported for Esc, q, or a closed window.
	KeyQuit
)

// Backend selects a Renderer implementation.
type Backend string

const (
	BackendWindow   Backend = "window"
	BackendTerminal Backend = "terminal"
	BackendNone     Backend = "none"
)

// ParseBackend converts a config string to a Backend.
func ParseBackend(s string) (Backend, error) {
	switch Backend(s) {
	case BackendWindow, BackendTerminal, BackendNone:
		return Backend(s), nil
	case "":
		return BackendWindow, nil
	}
	return "", fmt.Errorf("unknown render backend %q", s)
}

// Scene is everything drawn for one frame.
type Scene struct {
	Size      geom.Size
	Buttons   []surface.Button
	Cursor    geom.Point
	HasCursor bool
	Gesture   gesture.Label
}

// Style holds the colours that are not part of the button layout.
type Style struct {
	Background   surface.Color `yaml:"background"`
	Cursor       surface.Color `yaml:"cursor_color"`
	CursorRadius int           `yaml:"cursor_radius"`
}

// DefaultStyle returns a dark background with a green cursor.
func DefaultStyle() Style {
	return Style{
		Background:   surface.Color{30, 30, 30},
		Cursor:       surface.Color{0, 255, 0},
		CursorRadius: 12,
	}
}

// GestureText is the overlay caption for label, empty when there is none.
func GestureText(label gesture.Label) string {
	if label == gesture.None {
		return ""
	}
	return "Gesture: " + label.String()
}

// Renderer presents scenes and reports user input.
type Renderer interface {
	Draw(scene Scene) error
	// PollKey returns pending input without blocking.
	PollKey() Key
	Close() error
}

// Encoder is implemented by renderers that can export the last drawn
// frame as JPEG.
type Encoder interface {
	JPEG() ([]byte, error)
}

type multi []Renderer

// Multi draws every scene on all renderers. Input from any of them counts,
// and JPEG comes from the first one that can encode.
func Multi(renderers ...Renderer) Renderer {
	if len(renderers) == 1 {
		return renderers[0]
	}
	return multi(renderers)
}

func (m multi) Draw(scene Scene) error {
	var errs []error
	for _, r := range m {
		if err := r.Draw(scene); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m multi) PollKey() Key {
	key := KeyNone
	for _, r := range m {
		if k := r.PollKey(); k != KeyNone {
			key = k
		}
	}
	return key
}

func (m multi) Close() error {
	var errs []error
	for _, r := range m {
		if err := r.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m multi) JPEG() ([]byte, error) {
	for _, r := range m {
		if e, ok := r.(Encoder); ok {
			return e.JPEG()
		}
	}
	return nil, errors.New("no renderer can encode frames")
}
