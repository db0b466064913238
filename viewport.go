package fractal

import (
	"fmt"
	"math"
)

// halfExtent is the plane half-width and half-height visible at zoom 1.
// The same extent applies to both axes whatever the canvas aspect ratio,
// so non-square canvases get a non-uniform per-axis scale.
const halfExtent = 2.0

// PlaneBounds is the rectangle of the fractal plane covered by a view.
// It is derived on every render and never stored.
type PlaneBounds struct {
	XMin, XMax float64
	YMin, YMax float64
}

// Bounds returns the plane region visible for view.
// dims is accepted for symmetry with the other viewport operations; the
// extent is 2/zoom on both axes independently of the canvas size.
func Bounds(view ViewState, _ Dimensions) PlaneBounds {
	h := halfExtent / view.Zoom
	return PlaneBounds{
		XMin: view.Center.X - h,
		XMax: view.Center.X + h,
		YMin: view.Center.Y - h,
		YMax: view.Center.Y + h,
	}
}

// Width returns XMax - XMin.
func (b PlaneBounds) Width() float64 { return b.XMax - b.XMin }

// Height returns YMax - YMin.
func (b PlaneBounds) Height() float64 { return b.YMax - b.YMin }

// Scale returns plane units per pixel on each axis. The escape-time renderer
// uses it to map pixels to plane coordinates.
func (b PlaneBounds) Scale(dims Dimensions) (sx, sy float64) {
	return b.Width() / float64(dims.Width), b.Height() / float64(dims.Height)
}

// InverseScale returns pixels per plane unit on each axis. The IFS renderer
// uses it to map plane points to pixels.
func (b PlaneBounds) InverseScale(dims Dimensions) (sx, sy float64) {
	return float64(dims.Width) / b.Width(), float64(dims.Height) / b.Height()
}

// PixelToPlane maps a screen position to the plane using the escape-time
// orientation: plane Y grows with pixel Y.
func (b PlaneBounds) PixelToPlane(dims Dimensions, px, py float64) Point {
	sx, sy := b.Scale(dims)
	return Point{X: px*sx + b.XMin, Y: py*sy + b.YMin}
}

// PlaneToPixel maps a plane point to integer pixel coordinates using the
// IFS orientation, where plane Y grows upward. The result may lie outside
// the canvas; coordinates are clamped to ±2^30 and NaN maps to -1.
func (b PlaneBounds) PlaneToPixel(dims Dimensions, p Point) (px, py int) {
	sx, sy := b.InverseScale(dims)
	return floorPixel((p.X - b.XMin) * sx), floorPixel((b.YMax - p.Y) * sy)
}

// ZoomAboutScreenPoint returns view zoomed by factor so that the plane point
// under the screen position (x, y) stays under it.
//
// With nx = x/width and ny = y/height the new center is
//
//	cx' = cx + (nx-0.5) * (4/zoom) * (1 - 1/factor)
//
// and symmetrically for y. On error view is returned unchanged.
func ZoomAboutScreenPoint(view ViewState, dims Dimensions, factor, x, y float64) (ViewState, error) {
	if err := dims.Validate(); err != nil {
		return view, err
	}
	if !validZoom(factor) {
		return view, fmt.Errorf("%w: zoom factor %v", ErrInvalidParameter, factor)
	}
	if !finite(x) || !finite(y) {
		return view, fmt.Errorf("%w: anchor (%v, %v)", ErrInvalidParameter, x, y)
	}

	zoom := view.Zoom * factor
	if !validZoom(zoom) {
		return view, fmt.Errorf("%w: zoom %v * %v", ErrInvalidParameter, view.Zoom, factor)
	}

	nx := x / float64(dims.Width)
	ny := y / float64(dims.Height)
	span := 2 * halfExtent / view.Zoom
	shift := 1 - 1/factor

	next := view
	next.Zoom = zoom
	next.Center.X = view.Center.X + (nx-0.5)*span*shift
	next.Center.Y = view.Center.Y + (ny-0.5)*span*shift
	return next, nil
}

// pixelLimit bounds pixel coordinates produced by PlaneToPixel; it is far
// outside any valid canvas and fits in an int32.
const pixelLimit = 1 << 30

// floorPixel floors f, clamping to ±pixelLimit. NaN maps to -1.
func floorPixel(f float64) int {
	switch {
	case f >= pixelLimit:
		return pixelLimit
	case f > -pixelLimit:
		return int(math.Floor(f))
	case math.IsNaN(f):
		return -1
	default:
		return -pixelLimit
	}
}
