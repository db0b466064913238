package fractal

import (
	"image/color"
	"math"

	"github.com/gogpu/fractal/internal/blend"
)

// Overlay draws UI decoration on top of a finished frame.
// Overlays are skipped for capture renders.
type Overlay interface {
	Draw(frame *Pixmap, view ViewState)
}

// OverlayFunc adapts a function to the Overlay interface.
type OverlayFunc func(frame *Pixmap, view ViewState)

// Draw calls f(frame, view).
func (f OverlayFunc) Draw(frame *Pixmap, view ViewState) {
	f(frame, view)
}

// Overlays draws each overlay in order.
type Overlays []Overlay

// Draw implements Overlay.
func (o Overlays) Draw(frame *Pixmap, view ViewState) {
	for _, ov := range o {
		if ov != nil {
			ov.Draw(frame, view)
		}
	}
}

// Reticle is a crosshair marking the canvas center, the point zoom and pan
// are measured from. It is stroked in difference mode so it stays visible on
// both the black set and the bright exterior.
type Reticle struct {
	// Size is the length of each arm pair in pixels.
	Size float64

	// LineWidth is the stroke width in pixels.
	LineWidth float64

	// Color is the stroke color; the difference blend makes white invert.
	Color color.RGBA
}

// DefaultReticle returns a 20px white crosshair with a 2px stroke.
func DefaultReticle() Reticle {
	return Reticle{Size: 20, LineWidth: 2, Color: color.RGBA{R: 255, G: 255, B: 255, A: 255}}
}

// span is a half-open pixel range whose centers lie inside [lo, hi).
type span struct{ lo, hi int }

func pixelSpan(lo, hi float64) span {
	return span{lo: int(math.Ceil(lo - 0.5)), hi: int(math.Ceil(hi - 0.5))}
}

func (s span) contains(i int) bool { return i >= s.lo && i < s.hi }

// Draw implements Overlay. The two strokes form a single path, so pixels
// where they cross are blended once.
func (r Reticle) Draw(frame *Pixmap, _ ViewState) {
	if r.Size <= 0 || r.LineWidth <= 0 {
		return
	}
	cx := float64(frame.Width()) / 2
	cy := float64(frame.Height()) / 2
	half := r.Size / 2
	hw := r.LineWidth / 2

	hx, hy := pixelSpan(cx-half, cx+half), pixelSpan(cy-hw, cy+hw)
	vx, vy := pixelSpan(cx-hw, cx+hw), pixelSpan(cy-half, cy+half)

	x0, x1 := max(min(hx.lo, vx.lo), 0), min(max(hx.hi, vx.hi), frame.Width())
	y0, y1 := max(min(hy.lo, vy.lo), 0), min(max(hy.hi, vy.hi), frame.Height())

	data := frame.Data()
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			if !(hx.contains(x) && hy.contains(y)) && !(vx.contains(x) && vy.contains(y)) {
				continue
			}
			i := (y*frame.Width() + x) * 4
			blend.Pixel(data[i:i+4], r.Color.R, r.Color.G, r.Color.B, r.Color.A, blend.Difference)
		}
	}
}
