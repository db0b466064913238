package fractal

import (
	"context"
	"errors"
	"math"
	"testing"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestBoundsResetViewAnySize(t *testing.T) {
	for _, dims := range []Dimensions{{1, 1}, {4, 4}, {800, 600}, {320, 1080}} {
		b := Bounds(DefaultViewState(), dims)
		want := PlaneBounds{XMin: -2, XMax: 2, YMin: -2, YMax: 2}
		if b != want {
			t.Errorf("Bounds(reset, %v) = %+v, want %+v", dims, b, want)
		}
	}
}

func TestBoundsZoomedAndShifted(t *testing.T) {
	view := ViewState{Zoom: 4, Center: Point{X: -0.5, Y: 1}, IterationBudget: 16}
	b := Bounds(view, Dimensions{Width: 100, Height: 100})

	tests := []struct {
		name      string
		got, want float64
	}{
		{"XMin", b.XMin, -1},
		{"XMax", b.XMax, 0},
		{"YMin", b.YMin, 0.5},
		{"YMax", b.YMax, 1.5},
		{"Width", b.Width(), 1},
		{"Height", b.Height(), 1},
	}
	for _, tt := range tests {
		if !almostEqual(tt.got, tt.want, 1e-12) {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestScaleNonSquare(t *testing.T) {
	dims := Dimensions{Width: 200, Height: 100}
	b := Bounds(DefaultViewState(), dims)

	sx, sy := b.Scale(dims)
	if sx != 0.02 || sy != 0.04 {
		t.Errorf("Scale = (%v, %v), want (0.02, 0.04)", sx, sy)
	}
	ix, iy := b.InverseScale(dims)
	if ix != 50 || iy != 25 {
		t.Errorf("InverseScale = (%v, %v), want (50, 25)", ix, iy)
	}
}

func TestPixelToPlane(t *testing.T) {
	dims := Dimensions{Width: 4, Height: 4}
	b := Bounds(DefaultViewState(), dims)

	tests := []struct {
		px, py float64
		want   Point
	}{
		{0, 0, Point{-2, -2}},
		{2, 2, Point{0, 0}},
		{4, 4, Point{2, 2}},
		{1, 3, Point{-1, 1}},
	}
	for _, tt := range tests {
		got := b.PixelToPlane(dims, tt.px, tt.py)
		if got != tt.want {
			t.Errorf("PixelToPlane(%v, %v) = %v, want %v", tt.px, tt.py, got, tt.want)
		}
	}
}

func TestPlaneToPixelFlipsY(t *testing.T) {
	dims := Dimensions{Width: 100, Height: 100}
	b := Bounds(DefaultViewState(), dims)

	tests := []struct {
		p      Point
		px, py int
	}{
		{Point{0, 0}, 50, 50},
		{Point{-2, 2}, 0, 0},
		{Point{1.99, -1.99}, 99, 99},
		{Point{0, 3}, 50, -25},
		{Point{-2.01, 0}, -1, 50},
		{Point{1e300, math.NaN()}, pixelLimit, -1},
		{Point{-1e300, -1e300}, -pixelLimit, pixelLimit},
	}
	for _, tt := range tests {
		px, py := b.PlaneToPixel(dims, tt.p)
		if px != tt.px || py != tt.py {
			t.Errorf("PlaneToPixel(%v) = (%d, %d), want (%d, %d)", tt.p, px, py, tt.px, tt.py)
		}
	}
}

func TestZoomAboutScreenPointPreservesAnchor(t *testing.T) {
	tests := []struct {
		name   string
		view   ViewState
		dims   Dimensions
		factor float64
		x, y   float64
	}{
		{"center", DefaultViewState(), Dimensions{800, 600}, 2, 400, 300},
		{"corner", DefaultViewState(), Dimensions{800, 600}, 1.15, 0, 0},
		{"zoom out", DefaultViewState(), Dimensions{640, 480}, 1 / 1.15, 600, 20},
		{"deep", ViewState{Zoom: 1e6, Center: Point{-0.7436, 0.1318}, IterationBudget: 256}, Dimensions{500, 500}, 3, 123, 456},
		{"non-square", ViewState{Zoom: 2, Center: Point{1, -1}, IterationBudget: 16}, Dimensions{1000, 100}, 0.5, 900, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := Bounds(tt.view, tt.dims).PixelToPlane(tt.dims, tt.x, tt.y)

			next, err := ZoomAboutScreenPoint(tt.view, tt.dims, tt.factor, tt.x, tt.y)
			if err != nil {
				t.Fatalf("ZoomAboutScreenPoint: %v", err)
			}
			if !almostEqual(next.Zoom, tt.view.Zoom*tt.factor, 1e-9*next.Zoom) {
				t.Errorf("zoom = %v, want %v", next.Zoom, tt.view.Zoom*tt.factor)
			}

			after := Bounds(next, tt.dims).PixelToPlane(tt.dims, tt.x, tt.y)
			const tol = 1e-12
			if !almostEqual(before.X, after.X, tol) || !almostEqual(before.Y, after.Y, tol) {
				t.Errorf("anchor moved: before %v, after %v", before, after)
			}
		})
	}
}

func TestZoomAboutScreenPointKeepsOtherFields(t *testing.T) {
	view := ViewState{Zoom: 1, IterationBudget: 64, Variant: IFS}
	next, err := ZoomAboutScreenPoint(view, Dimensions{10, 10}, 2, 5, 5)
	if err != nil {
		t.Fatal(err)
	}
	if next.IterationBudget != 64 || next.Variant != IFS {
		t.Errorf("zoom changed budget or variant: %+v", next)
	}
	if next.Center != (Point{}) {
		t.Errorf("zoom about the center moved it to %v", next.Center)
	}
}

func TestZoomComposition(t *testing.T) {
	dims := Dimensions{Width: 640, Height: 480}
	view := DefaultViewState()
	f1, f2 := 1.15, 3.7
	x, y := 100.0, 400.0

	step, err := ZoomAboutScreenPoint(view, dims, f1, x, y)
	if err != nil {
		t.Fatal(err)
	}
	twice, err := ZoomAboutScreenPoint(step, dims, f2, x, y)
	if err != nil {
		t.Fatal(err)
	}
	once, err := ZoomAboutScreenPoint(view, dims, f1*f2, x, y)
	if err != nil {
		t.Fatal(err)
	}

	if !almostEqual(twice.Zoom, once.Zoom, 1e-12) {
		t.Errorf("zoom f1 then f2 = %v, f1*f2 = %v", twice.Zoom, once.Zoom)
	}
	if !almostEqual(twice.Center.X, once.Center.X, 1e-12) || !almostEqual(twice.Center.Y, once.Center.Y, 1e-12) {
		t.Errorf("center f1 then f2 = %v, f1*f2 = %v", twice.Center, once.Center)
	}
}

func TestZoomAboutScreenPointRejects(t *testing.T) {
	view := DefaultViewState()
	dims := Dimensions{Width: 100, Height: 100}

	tests := []struct {
		name   string
		view   ViewState
		dims   Dimensions
		factor float64
		x, y   float64
	}{
		{"zero factor", view, dims, 0, 50, 50},
		{"negative factor", view, dims, -2, 50, 50},
		{"NaN factor", view, dims, math.NaN(), 50, 50},
		{"infinite factor", view, dims, math.Inf(1), 50, 50},
		{"NaN anchor", view, dims, 2, math.NaN(), 50},
		{"zero width", view, Dimensions{0, 100}, 2, 50, 50},
		{"zoom overflow", ViewState{Zoom: math.MaxFloat64, IterationBudget: 16}, dims, 10, 50, 50},
		{"zoom underflow", ViewState{Zoom: math.SmallestNonzeroFloat64, IterationBudget: 16}, dims, 0.1, 50, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ZoomAboutScreenPoint(tt.view, tt.dims, tt.factor, tt.x, tt.y)
			if !errors.Is(err, ErrInvalidParameter) {
				t.Fatalf("err = %v, want ErrInvalidParameter", err)
			}
			if got != tt.view {
				t.Errorf("view changed on error: %+v", got)
			}
		})
	}
}

func TestViewStateValidate(t *testing.T) {
	tests := []struct {
		name string
		view ViewState
		ok   bool
	}{
		{"default", DefaultViewState(), true},
		{"ifs", ViewState{Zoom: 0.5, IterationBudget: 512, Variant: IFS}, true},
		{"zero zoom", ViewState{Zoom: 0, IterationBudget: 16}, false},
		{"NaN center", ViewState{Zoom: 1, Center: Point{X: math.NaN()}, IterationBudget: 16}, false},
		{"budget 17", ViewState{Zoom: 1, IterationBudget: 17}, false},
		{"bad variant", ViewState{Zoom: 1, IterationBudget: 16, Variant: 7}, false},
	}
	for _, tt := range tests {
		err := tt.view.Validate()
		if (err == nil) != tt.ok {
			t.Errorf("%s: Validate() = %v, want ok=%v", tt.name, err, tt.ok)
		}
		if err != nil && !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("%s: error %v does not wrap ErrInvalidParameter", tt.name, err)
		}
	}
}

func TestDimensionsValidate(t *testing.T) {
	tests := []struct {
		name string
		dims Dimensions
		ok   bool
	}{
		{"small", Dimensions{Width: 1, Height: 1}, true},
		{"max side", Dimensions{Width: MaxDimension, Height: 1}, true},
		{"max area", Dimensions{Width: MaxDimension, Height: MaxPixels / MaxDimension}, true},
		{"zero", Dimensions{}, false},
		{"negative", Dimensions{Width: -4, Height: 4}, false},
		{"wide", Dimensions{Width: MaxDimension + 1, Height: 1}, false},
		{"tall", Dimensions{Width: 1, Height: MaxDimension + 1}, false},
		{"area", Dimensions{Width: 8192, Height: 8192}, false},
		{"overflowing", Dimensions{Width: math.MaxInt32, Height: math.MaxInt32}, false},
	}
	for _, tt := range tests {
		err := tt.dims.Validate()
		if (err == nil) != tt.ok {
			t.Errorf("%s: Validate(%v) = %v, want ok=%v", tt.name, tt.dims, err, tt.ok)
		}
		if err != nil && !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("%s: error %v does not wrap ErrInvalidParameter", tt.name, err)
		}
	}
}

func TestRenderersRejectHugeCanvas(t *testing.T) {
	dims := Dimensions{Width: math.MaxInt32, Height: math.MaxInt32}

	escape := NewEscapeTimeRenderer(WithWorkers(1))
	defer escape.Close()
	renderers := map[string]Renderer{
		"escape": escape,
		"ifs":    NewIFSRenderer(),
	}
	for name, r := range renderers {
		if _, err := r.Render(context.Background(), DefaultViewState(), dims); !errors.Is(err, ErrRenderFailure) {
			t.Errorf("%s: Render(%v) err = %v, want ErrRenderFailure", name, dims, err)
		}
	}
}

func TestVariantNames(t *testing.T) {
	tests := []struct {
		v     Variant
		name  string
		title string
	}{
		{EscapeTime, "mandelbrot", "Mandelbrot fractal"},
		{IFS, "barnsley", "Barnsley fern"},
	}
	for _, tt := range tests {
		if got := tt.v.String(); got != tt.name {
			t.Errorf("String() = %q, want %q", got, tt.name)
		}
		if got := tt.v.Title(); got != tt.title {
			t.Errorf("Title() = %q, want %q", got, tt.title)
		}
		parsed, err := ParseVariant(tt.name)
		if err != nil || parsed != tt.v {
			t.Errorf("ParseVariant(%q) = %v, %v", tt.name, parsed, err)
		}
	}
	if EscapeTime.Toggle() != IFS || IFS.Toggle() != EscapeTime {
		t.Error("Toggle does not swap variants")
	}
	if _, err := ParseVariant("julia"); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("ParseVariant(julia) err = %v", err)
	}
}

func TestValidIterationBudget(t *testing.T) {
	for _, n := range IterationBudgets {
		if !ValidIterationBudget(n) {
			t.Errorf("ValidIterationBudget(%d) = false", n)
		}
	}
	for _, n := range []int{-16, 0, 1, 3, 17, 1000, 1024} {
		if ValidIterationBudget(n) {
			t.Errorf("ValidIterationBudget(%d) = true", n)
		}
	}
}
