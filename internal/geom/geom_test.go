package geom

import "testing"

func TestMapper_Corners(t *testing.T) {
	display := Size{W: 1280, H: 720}

	tests := []struct {
		name   string
		source Size
	}{
		{name: "vga", source: Size{W: 640, H: 480}},
		{name: "hd", source: Size{W: 1280, H: 720}},
		{name: "odd", source: Size{W: 333, H: 217}},
		{name: "upscale", source: Size{W: 1920, H: 1080}},
		{name: "tall", source: Size{W: 7, H: 1999}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMapper(display)

			if got := m.Map(tt.source, Point{}); got != (Point{}) {
				t.Errorf("Map(0,0) = %v, want (0,0)", got)
			}

			far := Point{X: tt.source.W, Y: tt.source.H}
			if got := m.Map(tt.source, far); got != (Point{X: display.W, Y: display.H}) {
				t.Errorf("Map(%v) = %v, want %v", far, got, display)
			}
		})
	}
}

func TestMapper_IndependentAxes(t *testing.T) {
	m := NewMapper(Size{W: 1280, H: 720})

	sx, sy := m.Scale(Size{W: 640, H: 480})
	if sx != 2.0 {
		t.Errorf("scaleX = %f, want 2.0", sx)
	}
	if sy != 1.5 {
		t.Errorf("scaleY = %f, want 1.5", sy)
	}

	got := m.Map(Size{W: 640, H: 480}, Point{X: 101, Y: 101})
	want := Point{X: 202, Y: 152} // 151.5 rounds up
	if got != want {
		t.Errorf("Map = %v, want %v", got, want)
	}
}

func TestMapper_RecomputesOnSourceChange(t *testing.T) {
	m := NewMapper(Size{W: 1000, H: 1000})

	if got := m.Map(Size{W: 500, H: 500}, Point{X: 10, Y: 10}); got != (Point{X: 20, Y: 20}) {
		t.Fatalf("Map = %v, want (20,20)", got)
	}
	if got := m.Map(Size{W: 250, H: 100}, Point{X: 10, Y: 10}); got != (Point{X: 40, Y: 100}) {
		t.Errorf("Map after resize = %v, want (40,100)", got)
	}
}

func TestMapper_InvalidSource(t *testing.T) {
	m := NewMapper(Size{W: 1280, H: 720})

	sx, sy := m.Scale(Size{W: 0, H: 480})
	if sx != 0 || sy != 0 {
		t.Errorf("Scale(invalid) = (%f, %f), want zeros", sx, sy)
	}
}

func TestPoint_Add(t *testing.T) {
	p := Point{X: 3, Y: 4}.Add(1, 20)
	if p != (Point{X: 4, Y: 24}) {
		t.Errorf("Add = %v, want (4,24)", p)
	}
}
