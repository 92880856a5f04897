// Package audio plays the one-shot cue that accompanies a button press.
//
// The cue is optional: when no sound can be loaded or no output device is
// available the caller falls back to Nop and presses stay silent.
package audio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"
)

// SynthSource selects the built-in click instead of a wav file.
const SynthSource = "synth"

const (
	sampleRate = beep.SampleRate(44100)
	clickFreq  = 1200
	clickLen   = 40 * time.Millisecond
)

// ErrNoCue is returned when no cue source is configured.
var ErrNoCue = errors.New("no touch cue configured")

// Cue is a sound played once per press.
type Cue interface {
	Play()
}

type nopCue struct{}

func (nopCue) Play() {}

// Nop returns a Cue that does nothing.
func Nop() Cue {
	return nopCue{}
}

// Config selects the cue source.
type Config struct {
	// Click is a path to a wav file, SynthSource, or empty to disable sound.
	Click string `yaml:"click"`
}

// Player plays a decoded cue through the speaker. It can be muted at
// runtime.
type Player struct {
	mu     sync.Mutex
	buffer *beep.Buffer
	muted  bool
	play   func(beep.Streamer)
	closer func()
}

var speakerOnce struct {
	sync.Once
	err error
}

// Load decodes the configured cue and opens the speaker.
// Every failure is returned; callers treat it as "no sound".
func Load(cfg Config) (*Player, error) {
	buffer, err := loadBuffer(cfg.Click)
	if err != nil {
		return nil, err
	}

	speakerOnce.Do(func() {
		speakerOnce.err = speaker.Init(sampleRate, sampleRate.N(time.Second/10))
	})
	if speakerOnce.err != nil {
		return nil, fmt.Errorf("init speaker: %w", speakerOnce.err)
	}

	return newPlayer(buffer, func(s beep.Streamer) { speaker.Play(s) }, speaker.Close), nil
}

func newPlayer(buffer *beep.Buffer, play func(beep.Streamer), closer func()) *Player {
	return &Player{
		buffer: buffer,
		play:   play,
		closer: closer,
	}
}

func loadBuffer(source string) (*beep.Buffer, error) {
	switch source {
	case "":
		return nil, ErrNoCue
	case SynthSource:
		return Synth(sampleRate)
	}

	f, err := os.Open(source)
	if err != nil {
		return nil, fmt.Errorf("open cue: %w", err)
	}
	defer f.Close()

	return Decode(f)
}

// Decode reads a wav stream into a buffer resampled to the speaker rate.
func Decode(r io.Reader) (*beep.Buffer, error) {
	streamer, format, err := wav.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode cue: %w", err)
	}
	defer streamer.Close()

	var s beep.Streamer = streamer
	if format.SampleRate != sampleRate {
		s = beep.Resample(4, format.SampleRate, sampleRate, streamer)
		format.SampleRate = sampleRate
	}

	buffer := beep.NewBuffer(format)
	buffer.Append(s)
	if buffer.Len() == 0 {
		return nil, errors.New("decode cue: empty sound")
	}
	return buffer, nil
}

// Synth renders a short sine click at the given sample rate.
func Synth(sr beep.SampleRate) (*beep.Buffer, error) {
	sine, err := generators.SineTone(sr, clickFreq)
	if err != nil {
		return nil, fmt.Errorf("synth cue: %w", err)
	}

	buffer := beep.NewBuffer(beep.Format{SampleRate: sr, NumChannels: 2, Precision: 2})
	buffer.Append(beep.Take(sr.N(clickLen), sine))
	return buffer, nil
}

// Play starts the cue unless the player is muted. It never blocks on
// playback.
func (p *Player) Play() {
	if p == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.muted || p.buffer == nil {
		return
	}
	p.play(p.buffer.Streamer(0, p.buffer.Len()))
}

// SetMuted enables or disables playback.
func (p *Player) SetMuted(muted bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.muted = muted
}

// Muted reports whether playback is disabled.
func (p *Player) Muted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.muted
}

// Duration returns the length of the cue.
func (p *Player) Duration() time.Duration {
	return p.buffer.Format().SampleRate.D(p.buffer.Len())
}

// Close releases the speaker.
func (p *Player) Close() {
	if p.closer != nil {
		p.closer()
	}
}
