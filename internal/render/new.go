package render

import (
	"fmt"

	"github.com/ayusman/airtouch/internal/geom"
)

// Options configure New.
type Options struct {
	Backend Backend
	Title   string
	Size    geom.Size
	Style   Style
	// Encode adds an offscreen canvas to backends that do not draw one, so
	// the result always implements Encoder.
	Encode bool
}

// New builds the renderer for opts.Backend.
func New(opts Options) (Renderer, error) {
	switch opts.Backend {
	case BackendWindow, "":
		return NewWindow(opts.Title, NewCanvas(opts.Size, opts.Style)), nil
	case BackendTerminal:
		term, err := NewTerminal(opts.Style)
		if err != nil {
			return nil, err
		}
		if opts.Encode {
			return Multi(term, NewCanvas(opts.Size, opts.Style)), nil
		}
		return term, nil
	case BackendNone:
		if opts.Encode {
			return NewCanvas(opts.Size, opts.Style), nil
		}
		return NewHeadless(), nil
	}
	return nil, fmt.Errorf("unknown render backend %q", opts.Backend)
}
