package render

import (
	"gocv.io/x/gocv"
)

const (
	keyEsc = 27
	keyQ   = 'q'
)

// Window shows the canvas in a HighGUI window.
type Window struct {
	*Canvas
	window *gocv.Window
	quit   bool
}

// NewWindow opens a window titled title that displays canvas.
func NewWindow(title string, canvas *Canvas) *Window {
	w := gocv.NewWindow(title)
	size := canvas.Size()
	w.ResizeWindow(size.W, size.H)
	return &Window{Canvas: canvas, window: w}
}

// Draw paints the scene and presents it. Waiting one millisecond for a key
// also pumps the window's event queue.
func (w *Window) Draw(scene Scene) error {
	if err := w.Canvas.Draw(scene); err != nil {
		return err
	}
	w.Canvas.with(func(img gocv.Mat) {
		w.window.IMShow(img)
	})

	switch key := w.window.WaitKey(1); key {
	case keyEsc, keyQ:
		w.quit = true
	}
	return nil
}

// PollKey reports KeyQuit after Esc or q, or once the window was closed.
func (w *Window) PollKey() Key {
	if w.quit || !w.window.IsOpen() {
		return KeyQuit
	}
	return KeyNone
}

// Close destroys the window and frees the canvas.
func (w *Window) Close() error {
	werr := w.window.Close()
	if err := w.Canvas.Close(); err != nil {
		return err
	}
	return werr
}
