package render

import "sync"

// Headless discards scenes. It keeps the last one for inspection.
type Headless struct {
	mu     sync.Mutex
	frames int
	last   Scene
	quit   bool
}

// NewHeadless returns a renderer that draws nothing.
func NewHeadless() *Headless {
	return &Headless{}
}

func (h *Headless) Draw(scene Scene) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.frames++
	h.last = scene
	return nil
}

func (h *Headless) PollKey() Key {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.quit {
		return KeyQuit
	}
	return KeyNone
}

func (h *Headless) Close() error {
	return nil
}

// Quit makes the next PollKey report KeyQuit.
func (h *Headless) Quit() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.quit = true
}

// Frames returns the number of scenes drawn.
func (h *Headless) Frames() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.frames
}

// Last returns the most recent scene.
func (h *Headless) Last() Scene {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.last
}
