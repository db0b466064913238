package fractal

import (
	"bytes"
	"context"
	"errors"
	"testing"
)

func TestEscapeCount(t *testing.T) {
	tests := []struct {
		name   string
		a, b   float64
		budget int
		want   int
	}{
		{"origin never escapes", 0, 0, 16, 16},
		{"outside radius", -2, -2, 4, 0},
		{"far outside", 10, 0, 512, 0},
		{"boundary point -2 stays", -2, 0, 32, 32},
		{"one escapes after two steps", 1, 0, 16, 2},
		{"i cycles", 0, 1, 64, 64},
		{"budget 2 caps", -1, 0, 2, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EscapeCount(tt.a, tt.b, tt.budget); got != tt.want {
				t.Errorf("EscapeCount(%v, %v, %d) = %d, want %d", tt.a, tt.b, tt.budget, got, tt.want)
			}
		})
	}
}

func TestEscapeIntensity(t *testing.T) {
	tests := []struct {
		n, budget int
		want      uint8
	}{
		{16, 16, 0},
		{0, 16, 0},
		{1, 16, 15},
		{8, 16, 127},
		{15, 16, 239},
		{1, 2, 127},
		{511, 512, 254},
	}
	for _, tt := range tests {
		if got := EscapeIntensity(tt.n, tt.budget); got != tt.want {
			t.Errorf("EscapeIntensity(%d, %d) = %d, want %d", tt.n, tt.budget, got, tt.want)
		}
	}
}

func TestEscapeTimeRenderFourByFour(t *testing.T) {
	view := ViewState{Zoom: 1, IterationBudget: 4}
	dims := Dimensions{Width: 4, Height: 4}

	pm, err := NewEscapeTimeRenderer().Render(context.Background(), view, dims)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if pm.Width() != 4 || pm.Height() != 4 || len(pm.Data()) != 64 {
		t.Fatalf("frame is %dx%d with %d bytes", pm.Width(), pm.Height(), len(pm.Data()))
	}

	// (0,0) maps to -2-2i and escapes before the first step.
	if EscapeCount(-2, -2, 4) != 0 {
		t.Fatal("corner should escape immediately")
	}
	// (2,2) maps to the origin and never escapes.
	if EscapeCount(0, 0, 4) != 4 {
		t.Fatal("origin should reach the budget")
	}
	for _, p := range [][2]int{{0, 0}, {2, 2}} {
		c := pm.RGBAAt(p[0], p[1])
		if c.R != 0 || c.G != 0 || c.B != 0 || c.A != 255 {
			t.Errorf("pixel %v = %v, want opaque black", p, c)
		}
	}
}

func TestEscapeTimeRenderColorMapping(t *testing.T) {
	view := ViewState{Zoom: 1.3, Center: Point{X: -0.5, Y: 0.1}, IterationBudget: 32}
	dims := Dimensions{Width: 37, Height: 23}

	pm, err := NewEscapeTimeRenderer().Render(context.Background(), view, dims)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	b := Bounds(view, dims)
	sx, sy := b.Scale(dims)
	for py := range dims.Height {
		for px := range dims.Width {
			n := EscapeCount(float64(px)*sx+b.XMin, float64(py)*sy+b.YMin, view.IterationBudget)
			want := uint8(0)
			if n < view.IterationBudget {
				want = uint8(n * 255 / view.IterationBudget)
			}
			c := pm.RGBAAt(px, py)
			if c.R != want || c.G != want || c.B != want || c.A != 255 {
				t.Fatalf("pixel (%d,%d) = %v, want gray %d (n=%d)", px, py, c, want, n)
			}
		}
	}
}

func TestEscapeTimeRenderDeterministic(t *testing.T) {
	view := ViewState{Zoom: 3, Center: Point{X: -0.75, Y: 0.1}, IterationBudget: 128}
	dims := Dimensions{Width: 64, Height: 48}
	r := NewEscapeTimeRenderer()

	first, err := r.Render(context.Background(), view, dims)
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.Render(context.Background(), view, dims)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first.Data(), second.Data()) {
		t.Error("identical inputs produced different frames")
	}
}

func TestEscapeTimeRenderWorkersMatchSequential(t *testing.T) {
	view := ViewState{Zoom: 2, Center: Point{X: -0.5}, IterationBudget: 64}
	dims := Dimensions{Width: 101, Height: 67}

	want, err := NewEscapeTimeRenderer().Render(context.Background(), view, dims)
	if err != nil {
		t.Fatal(err)
	}

	for _, tc := range []struct {
		workers, rows int
	}{
		{0, 16},
		{2, 1},
		{4, 7},
		{8, 100},
	} {
		r := NewEscapeTimeRenderer(WithWorkers(tc.workers), WithRowsPerBand(tc.rows))
		got, err := r.Render(context.Background(), view, dims)
		r.Close()
		if err != nil {
			t.Fatalf("workers=%d rows=%d: %v", tc.workers, tc.rows, err)
		}
		if !bytes.Equal(got.Data(), want.Data()) {
			t.Errorf("workers=%d rows=%d: output differs from sequential", tc.workers, tc.rows)
		}
	}
}

func TestEscapeTimeRenderCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, workers := range []int{1, 4} {
		r := NewEscapeTimeRenderer(WithWorkers(workers))
		_, err := r.Render(ctx, DefaultViewState(), Dimensions{Width: 64, Height: 64})
		r.Close()
		if !errors.Is(err, context.Canceled) {
			t.Errorf("workers=%d: err = %v, want context.Canceled", workers, err)
		}
	}
}

func TestEscapeTimeRenderRejectsZeroArea(t *testing.T) {
	tests := []Dimensions{{0, 10}, {10, 0}, {-1, 5}}
	for _, dims := range tests {
		_, err := NewEscapeTimeRenderer().Render(context.Background(), DefaultViewState(), dims)
		if !errors.Is(err, ErrRenderFailure) {
			t.Errorf("Render(%v) err = %v, want ErrRenderFailure", dims, err)
		}
	}
}
