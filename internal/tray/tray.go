// Package tray provides the optional system tray for airtouch.
package tray

import (
	"sync"

	"github.com/ayusman/airtouch/internal/app"
	"github.com/ayusman/airtouch/internal/gesture"
	"github.com/getlantern/systray"
)

const (
	soundOn  = "● Sound"
	soundOff = "○ Muted"
)

// Tray represents the system tray application. It implements app.Publisher
// to keep the last gesture item current.
type Tray struct {
	onSound func(enabled bool)
	onQuit  func()
	sound   bool
	last    gesture.Label
	mu      sync.RWMutex

	menuSound       *systray.MenuItem
	menuLastGesture *systray.MenuItem
}

// New creates a new Tray with sound enabled.
func New() *Tray {
	return &Tray{
		sound: true,
	}
}

// OnSound sets the callback invoked when the sound item is toggled.
func (t *Tray) OnSound(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onSound = fn
}

// OnQuit sets the callback invoked when Quit is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray and blocks until Quit. It must be called
// from the main goroutine.
func (t *Tray) Run() {
	systray.Run(t.onReady, func() {})
}

// Stop removes the tray icon and makes Run return.
func (t *Tray) Stop() {
	systray.Quit()
}

func (t *Tray) onReady() {
	systray.SetTitle("AirTouch")
	systray.SetTooltip("AirTouch hand pointing surface")

	t.mu.Lock()
	t.menuSound = systray.AddMenuItem(soundTitle(t.sound), "Toggle the touch sound")
	systray.AddSeparator()
	t.menuLastGesture = systray.AddMenuItem(lastTitle(t.last), "Last recognized gesture")
	t.menuLastGesture.Disable()
	t.mu.Unlock()
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit AirTouch")

	go func() {
		for {
			select {
			case <-t.menuSound.ClickedCh:
				t.handleSound()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				systray.Quit()
				return
			}
		}
	}()
}

func (t *Tray) handleSound() {
	t.mu.Lock()
	t.sound = !t.sound
	enabled := t.sound
	if t.menuSound != nil {
		t.menuSound.SetTitle(soundTitle(enabled))
	}
	callback := t.onSound
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(enabled)
	}
}

func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// Publish records the gesture of snap when a hand is present.
func (t *Tray) Publish(snap app.Snapshot, _ func() ([]byte, error)) {
	if snap.Gesture == gesture.None {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if snap.Gesture == t.last {
		return
	}
	t.last = snap.Gesture
	if t.menuLastGesture != nil {
		t.menuLastGesture.SetTitle(lastTitle(t.last))
	}
}

// LastGesture returns the most recent non-empty gesture.
func (t *Tray) LastGesture() gesture.Label {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.last
}

// SoundEnabled returns the current sound state.
func (t *Tray) SoundEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.sound
}

func soundTitle(enabled bool) string {
	if enabled {
		return soundOn
	}
	return soundOff
}

func lastTitle(l gesture.Label) string {
	if l == gesture.None {
		return "Last: none"
	}
	return "Last: " + l.String()
}
