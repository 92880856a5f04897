package capture

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockCamera produces blank frames of a fixed size for testing. After Limit
// frames (when Limit > 0) it fails with ErrNoFrame, the same way an
// unplugged device does.
type MockCamera struct {
	Width  int
	Height int
	Limit  int

	mu      sync.Mutex
	read    int
	running bool
}

// NewMockCamera creates a MockCamera producing width×height frames.
func NewMockCamera(width, height, limit int) *MockCamera {
	return &MockCamera{
		Width:  width,
		Height: height,
		Limit:  limit,
	}
}

func (c *MockCamera) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = true
	c.read = 0
	return nil
}

func (c *MockCamera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = false
	return nil
}

func (c *MockCamera) ReadFrame() (*gocv.Mat, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running {
		return nil, ErrCameraNotOpen
	}
	if c.Limit > 0 && c.read >= c.Limit {
		return nil, ErrNoFrame
	}
	c.read++

	frame := gocv.NewMatWithSize(c.Height, c.Width, gocv.MatTypeCV8UC3)
	return &frame, nil
}

func (c *MockCamera) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// Read returns how many frames have been delivered since Open.
func (c *MockCamera) Read() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.read
}
