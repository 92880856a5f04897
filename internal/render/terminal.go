package render

import (
	"fmt"

	"github.com/ayusman/airtouch/internal/surface"
	"github.com/gdamore/tcell/v2"
)

const cursorRune = '●'

// Terminal draws a scaled-down surface with tcell. Each button becomes a
// block of coloured cells and the cursor a single glyph.
type Terminal struct {
	screen tcell.Screen
	events chan tcell.Event
	done   chan struct{}
	style  Style
	quit   bool
}

// NewTerminal takes over the controlling terminal.
func NewTerminal(style Style) (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("init screen: %w", err)
	}
	return newTerminal(screen, style), nil
}

func newTerminal(screen tcell.Screen, style Style) *Terminal {
	t := &Terminal{
		screen: screen,
		events: make(chan tcell.Event, 100),
		done:   make(chan struct{}),
		style:  style,
	}
	go t.pump()
	return t
}

func (t *Terminal) pump() {
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case t.events <- ev:
		case <-t.done:
			return
		}
	}
}

func rgb(c surface.Color) tcell.Color {
	return tcell.NewRGBColor(int32(c[0]), int32(c[1]), int32(c[2]))
}

// Draw paints the scene scaled to the terminal size.
func (t *Terminal) Draw(scene Scene) error {
	if !scene.Size.Valid() {
		return fmt.Errorf("invalid scene size %dx%d", scene.Size.W, scene.Size.H)
	}

	cols, rows := t.screen.Size()
	cell := func(x, y int) (int, int) {
		return x * cols / scene.Size.W, y * rows / scene.Size.H
	}

	base := tcell.StyleDefault.Background(rgb(t.style.Background))
	t.screen.Fill(' ', base)

	for _, b := range scene.Buttons {
		x0, y0 := cell(b.Rect.X, b.Rect.Y)
		x1, y1 := cell(b.Rect.X+b.Rect.W, b.Rect.Y+b.Rect.H)
		style := tcell.StyleDefault.Background(rgb(b.Color)).Foreground(tcell.ColorBlack)
		for y := y0; y < max(y1, y0+1); y++ {
			for x := x0; x < max(x1, x0+1); x++ {
				t.screen.SetContent(x, y, ' ', nil, style)
			}
		}
		label := fmt.Sprintf("%d", b.Index+1)
		t.text((x0+x1)/2, (y0+y1)/2, label, style)
	}

	if scene.HasCursor {
		x, y := cell(scene.Cursor.X, scene.Cursor.Y)
		_, _, style, _ := t.screen.GetContent(x, y)
		t.screen.SetContent(x, y, cursorRune, nil, style.Foreground(rgb(t.style.Cursor)))
	}

	if text := GestureText(scene.Gesture); text != "" {
		x, y := cell(scene.Size.W-textRight, scene.Size.H-textBottom)
		t.text(x, y, text, base.Foreground(tcell.ColorWhite))
	}

	t.screen.Show()
	return nil
}

func (t *Terminal) text(x, y int, s string, style tcell.Style) {
	for i, r := range []rune(s) {
		t.screen.SetContent(x+i, y, r, nil, style)
	}
}

// PollKey drains pending terminal events without blocking.
func (t *Terminal) PollKey() Key {
	for {
		select {
		case ev := <-t.events:
			t.handle(ev)
		default:
			if t.quit {
				return KeyQuit
			}
			return KeyNone
		}
	}
}

func (t *Terminal) handle(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
			(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
			t.quit = true
		}
	case *tcell.EventResize:
		t.screen.Sync()
	}
}

// Close restores the terminal.
func (t *Terminal) Close() error {
	close(t.done)
	t.screen.Fini()
	return nil
}
