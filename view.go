package fractal

import (
	"fmt"
	"math"
	"slices"
)

// Variant selects which fractal family is rendered.
type Variant uint8

const (
	// EscapeTime is the Mandelbrot-style escape-time set.
	EscapeTime Variant = iota

	// IFS is the Barnsley-style iterated function system fern.
	IFS
)

// String returns the short variant name. It is also the base name of
// exported captures.
func (v Variant) String() string {
	switch v {
	case EscapeTime:
		return "mandelbrot"
	case IFS:
		return "barnsley"
	default:
		return "unknown"
	}
}

// Title returns the human-readable variant name shown by shells.
func (v Variant) Title() string {
	switch v {
	case EscapeTime:
		return "Mandelbrot fractal"
	case IFS:
		return "Barnsley fern"
	default:
		return "Unknown fractal"
	}
}

// Toggle returns the other variant.
func (v Variant) Toggle() Variant {
	if v == EscapeTime {
		return IFS
	}
	return EscapeTime
}

// ParseVariant parses a variant name as returned by String.
func ParseVariant(s string) (Variant, error) {
	switch s {
	case "mandelbrot", "escape-time":
		return EscapeTime, nil
	case "barnsley", "ifs", "fern":
		return IFS, nil
	default:
		return 0, fmt.Errorf("%w: unknown variant %q", ErrInvalidParameter, s)
	}
}

// IterationBudgets lists the allowed iteration budgets in ascending order.
var IterationBudgets = []int{2, 4, 8, 16, 32, 64, 128, 256, 512}

// DefaultIterationBudget is the budget of a freshly created view.
const DefaultIterationBudget = 16

// ValidIterationBudget reports whether n is one of IterationBudgets.
func ValidIterationBudget(n int) bool {
	return slices.Contains(IterationBudgets, n)
}

// Point is a position in the fractal plane or on the screen.
type Point struct {
	X, Y float64
}

// Dimensions is the canvas size in pixels.
type Dimensions struct {
	Width  int
	Height int
}

// Canvas size limits. A frame of MaxPixels pixels is 128 MiB of RGBA.
const (
	MaxDimension = 16384
	MaxPixels    = 1 << 25
)

// Validate returns ErrInvalidParameter unless both sides are positive,
// neither exceeds MaxDimension and the area is at most MaxPixels.
func (d Dimensions) Validate() error {
	if d.Width <= 0 || d.Height <= 0 {
		return fmt.Errorf("%w: width=%d, height=%d", ErrInvalidParameter, d.Width, d.Height)
	}
	if d.Width > MaxDimension || d.Height > MaxDimension || d.Width*d.Height > MaxPixels {
		return fmt.Errorf("%w: %dx%d exceeds the %d pixel limit", ErrInvalidParameter, d.Width, d.Height, MaxPixels)
	}
	return nil
}

// ViewState is the live, user-adjustable view of a fractal.
// Controller owns the single mutable copy; everything else works on snapshots.
type ViewState struct {
	Zoom            float64
	Center          Point
	IterationBudget int
	Variant         Variant
}

// DefaultViewState returns the view a session starts with.
func DefaultViewState() ViewState {
	return ViewState{
		Zoom:            1,
		IterationBudget: DefaultIterationBudget,
		Variant:         EscapeTime,
	}
}

// Validate checks the ViewState invariants.
func (v ViewState) Validate() error {
	if !validZoom(v.Zoom) {
		return fmt.Errorf("%w: zoom=%v", ErrInvalidParameter, v.Zoom)
	}
	if !finite(v.Center.X) || !finite(v.Center.Y) {
		return fmt.Errorf("%w: center=(%v, %v)", ErrInvalidParameter, v.Center.X, v.Center.Y)
	}
	if !ValidIterationBudget(v.IterationBudget) {
		return fmt.Errorf("%w: iteration budget %d", ErrInvalidParameter, v.IterationBudget)
	}
	if v.Variant != EscapeTime && v.Variant != IFS {
		return fmt.Errorf("%w: variant %d", ErrInvalidParameter, v.Variant)
	}
	return nil
}

func validZoom(z float64) bool {
	return z > 0 && finite(z)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
