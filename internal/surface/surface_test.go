package surface

import (
	"testing"

	"github.com/ayusman/airtouch/internal/geom"
)

func newTestSurface(t *testing.T) *Surface {
	t.Helper()

	s, err := NewGrid(DefaultLayout())
	if err != nil {
		t.Fatalf("NewGrid() error = %v", err)
	}
	return s
}

func TestNewGrid_Layout(t *testing.T) {
	s := newTestSurface(t)
	l := DefaultLayout()

	if s.Len() != 6 {
		t.Fatalf("Len = %d, want 6", s.Len())
	}

	want := []Rect{
		{X: 40, Y: 40, W: 250, H: 100},
		{X: 330, Y: 40, W: 250, H: 100},
		{X: 620, Y: 40, W: 250, H: 100},
		{X: 40, Y: 180, W: 250, H: 100},
		{X: 330, Y: 180, W: 250, H: 100},
		{X: 620, Y: 180, W: 250, H: 100},
	}

	for i, b := range s.Buttons() {
		if b.Index != i {
			t.Errorf("button %d: Index = %d", i, b.Index)
		}
		if b.Rect != want[i] {
			t.Errorf("button %d: Rect = %+v, want %+v", i, b.Rect, want[i])
		}
		if b.Default != l.Palette[i] || b.Color != l.Palette[i] {
			t.Errorf("button %d: colours = %v/%v, want %v", i, b.Default, b.Color, l.Palette[i])
		}
		if b.State != Idle || b.Touched {
			t.Errorf("button %d: initial state %v touched=%v", i, b.State, b.Touched)
		}
	}

	buttons := s.Buttons()
	for i := range buttons {
		for j := i + 1; j < len(buttons); j++ {
			if buttons[i].Rect.Overlaps(buttons[j].Rect) {
				t.Errorf("buttons %d and %d overlap", i, j)
			}
		}
	}
}

func TestSurface_ActiveHoverIdle(t *testing.T) {
	s := newTestSurface(t)
	l := DefaultLayout()
	r := s.Button(0).Rect

	inside := geom.Point{X: r.X + 10, Y: r.Y + 10}
	// Below the hit rectangle but within the 20px shifted zone.
	softOnly := geom.Point{X: r.X + 10, Y: r.Y + r.H + 5}
	outside := geom.Point{X: 1200, Y: 700}

	steps := []struct {
		name        string
		cursor      geom.Point
		wantState   State
		wantColor   Color
		wantTouched bool
		wantPresses int
	}{
		{"enter hit rect", inside, Active, l.Active, true, 1},
		{"soft zone only", softOnly, Hover, l.Hover, false, 0},
		{"outside both", outside, Idle, l.Palette[0], false, 0},
		{"re-enter fires again", inside, Active, l.Active, true, 1},
	}

	for _, step := range steps {
		presses := s.Update(step.cursor, true)
		b := s.Button(0)

		if b.State != step.wantState {
			t.Errorf("%s: State = %v, want %v", step.name, b.State, step.wantState)
		}
		if b.Color != step.wantColor {
			t.Errorf("%s: Color = %v, want %v", step.name, b.Color, step.wantColor)
		}
		if b.Touched != step.wantTouched {
			t.Errorf("%s: Touched = %v, want %v", step.name, b.Touched, step.wantTouched)
		}
		if len(presses) != step.wantPresses {
			t.Errorf("%s: %d presses, want %d", step.name, len(presses), step.wantPresses)
		}
	}
}

func TestSurface_LatchHoldsWhileInside(t *testing.T) {
	s := newTestSurface(t)
	r := s.Button(1).Rect
	cursor := geom.Point{X: r.X + r.W/2, Y: r.Y + r.H/2}

	total := 0
	for frame := 0; frame < 3; frame++ {
		presses := s.Update(cursor, true)
		total += len(presses)

		if frame == 0 && (len(presses) != 1 || presses[0].Index != 1) {
			t.Fatalf("frame 0: presses = %+v, want one press of button 1", presses)
		}
		if frame > 0 && len(presses) != 0 {
			t.Errorf("frame %d: unexpected presses %+v", frame, presses)
		}

		for _, b := range s.Buttons() {
			want := Idle
			if b.Index == 1 {
				want = Active
			}
			if b.State != want {
				t.Errorf("frame %d button %d: State = %v, want %v", frame, b.Index, b.State, want)
			}
		}
	}

	if total != 1 {
		t.Errorf("total presses = %d, want 1", total)
	}
}

func TestSurface_HitBeatsHover(t *testing.T) {
	s := newTestSurface(t)
	r := s.Button(0).Rect

	// Inside the hit rect and inside the shifted rect at the same time.
	cursor := geom.Point{X: r.X + 5, Y: r.Y + 50}
	s.Update(cursor, true)

	if got := s.Button(0).State; got != Active {
		t.Errorf("State = %v, want Active", got)
	}
}

func TestSurface_HoverRearmsLatch(t *testing.T) {
	s := newTestSurface(t)
	r := s.Button(0).Rect
	inside := geom.Point{X: r.X + 1, Y: r.Y + r.H - 1}
	soft := geom.Point{X: r.X + 1, Y: r.Y + r.H}

	var presses int
	for _, p := range []geom.Point{inside, soft, inside, inside, soft, inside} {
		presses += len(s.Update(p, true))
	}

	if presses != 3 {
		t.Errorf("presses = %d, want 3", presses)
	}
}

func TestSurface_AbsentCursor(t *testing.T) {
	s := newTestSurface(t)
	r := s.Button(2).Rect
	s.Update(geom.Point{X: r.X + 1, Y: r.Y + 1}, true)

	// A stale position with present=false must not count.
	presses := s.Update(geom.Point{X: r.X + 1, Y: r.Y + 1}, false)
	if len(presses) != 0 {
		t.Errorf("presses = %v, want none", presses)
	}

	for _, b := range s.Buttons() {
		if b.State != Idle || b.Touched || b.Color != b.Default {
			t.Errorf("button %d: state=%v touched=%v color=%v, want idle default", b.Index, b.State, b.Touched, b.Color)
		}
	}
}

func TestSurface_NegativeHoverOffset(t *testing.T) {
	l := DefaultLayout()
	l.HoverOffset = -20
	s, err := NewGrid(l)
	if err != nil {
		t.Fatalf("NewGrid() error = %v", err)
	}
	r := s.Button(0).Rect

	s.Update(geom.Point{X: r.X + 1, Y: r.Y - 10}, true)
	if got := s.Button(0).State; got != Hover {
		t.Errorf("above button with negative offset: State = %v, want Hover", got)
	}
}

func TestRect_Contains(t *testing.T) {
	r := Rect{X: 10, Y: 20, W: 30, H: 40}

	tests := []struct {
		p    geom.Point
		want bool
	}{
		{geom.Point{X: 10, Y: 20}, true},
		{geom.Point{X: 39, Y: 59}, true},
		{geom.Point{X: 40, Y: 30}, false},
		{geom.Point{X: 20, Y: 60}, false},
		{geom.Point{X: 9, Y: 30}, false},
	}

	for _, tt := range tests {
		if got := r.Contains(tt.p); got != tt.want {
			t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestSurface_HitTest(t *testing.T) {
	s := newTestSurface(t)

	if got := s.HitTest(geom.Point{X: 700, Y: 200}); got != 5 {
		t.Errorf("HitTest = %d, want 5", got)
	}
	if got := s.HitTest(geom.Point{X: 300, Y: 150}); got != -1 {
		t.Errorf("HitTest in padding = %d, want -1", got)
	}
}

func TestLayout_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Layout)
	}{
		{"no columns", func(l *Layout) { l.Cols = 0 }},
		{"zero height", func(l *Layout) { l.Height = 0 }},
		{"negative padding", func(l *Layout) { l.Padding = -1 }},
		{"short palette", func(l *Layout) { l.Palette = l.Palette[:5] }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := DefaultLayout()
			tt.modify(&l)

			if _, err := NewGrid(l); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLayout_Bounds(t *testing.T) {
	if got := DefaultLayout().Bounds(); got != (geom.Size{W: 910, H: 320}) {
		t.Errorf("Bounds = %v, want 910x320", got)
	}
}

func TestColor_RGBA(t *testing.T) {
	c := Color{1, 2, 3}.RGBA()
	if c.R != 1 || c.G != 2 || c.B != 3 || c.A != 0xff {
		t.Errorf("RGBA = %+v", c)
	}
}
