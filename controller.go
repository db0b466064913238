package fractal

import (
	"fmt"
	"sync"

	"github.com/gogpu/gpucontext"
)

// Redrawer is notified after every successful view mutation.
// Engine implements Redrawer.
type Redrawer interface {
	Redraw(view ViewState, dims Dimensions)
}

// RedrawFunc adapts a function to the Redrawer interface.
type RedrawFunc func(view ViewState, dims Dimensions)

// Redraw calls f(view, dims).
func (f RedrawFunc) Redraw(view ViewState, dims Dimensions) {
	f(view, dims)
}

// ControllerOption configures a Controller during creation.
type ControllerOption func(*Controller)

// WithInitialView starts the controller from view instead of
// DefaultViewState. An invalid view is rejected by NewController.
func WithInitialView(view ViewState) ControllerOption {
	return func(c *Controller) {
		c.view = view
	}
}

// WithWheelFactor sets the zoom factor applied per wheel event.
func WithWheelFactor(f float64) ControllerOption {
	return func(c *Controller) {
		c.wheelFactor = f
	}
}

// Controller owns the live ViewState and turns input events into view
// mutations. Every successful mutation calls the Redrawer exactly once with
// the new snapshot; rejected mutations and moves that leave the view
// unchanged call it not at all.
//
// Controller is safe for concurrent use. The Redrawer is called with the
// controller lock held, so it must not call back into the Controller.
type Controller struct {
	mu          sync.Mutex
	view        ViewState
	dims        Dimensions
	redrawer    Redrawer
	wheelFactor float64

	active  *gesture
	touches map[int]Point
}

// NewController creates a controller for a canvas of size dims.
// A nil Redrawer is allowed; mutations then only update state.
func NewController(r Redrawer, dims Dimensions, opts ...ControllerOption) (*Controller, error) {
	if err := dims.Validate(); err != nil {
		return nil, err
	}
	c := &Controller{
		view:        DefaultViewState(),
		dims:        dims,
		redrawer:    r,
		wheelFactor: DefaultWheelFactor,
		touches:     make(map[int]Point),
	}
	for _, opt := range opts {
		opt(c)
	}
	if err := c.view.Validate(); err != nil {
		return nil, err
	}
	if !validZoom(c.wheelFactor) || c.wheelFactor == 1 {
		return nil, fmt.Errorf("%w: wheel factor %v", ErrInvalidParameter, c.wheelFactor)
	}
	return c, nil
}

// View returns a snapshot of the current view.
func (c *Controller) View() ViewState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

// Dimensions returns the current canvas size.
func (c *Controller) Dimensions() Dimensions {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dims
}

// Gesture returns the state of the active gesture and its channel.
func (c *Controller) Gesture() (GestureKind, Channel) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == nil {
		return GestureIdle, ChannelMouse
	}
	return c.active.kind, c.active.channel
}

// Redraw requests a render of the current view without mutating it.
// Shells call it once after mounting.
func (c *Controller) Redraw() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notify()
}

// SetDimensions records a canvas resize.
func (c *Controller) SetDimensions(dims Dimensions) error {
	if err := dims.Validate(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if dims == c.dims {
		return nil
	}
	c.dims = dims
	c.notify()
	return nil
}

// SetView replaces the whole view and ends any active gesture.
func (c *Controller) SetView(view ViewState) error {
	if err := view.Validate(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = nil
	c.apply(view)
	return nil
}

// SetIterationBudget sets the iteration budget. Values outside
// IterationBudgets are rejected and the previous budget is kept.
func (c *Controller) SetIterationBudget(n int) error {
	if !ValidIterationBudget(n) {
		return fmt.Errorf("%w: iteration budget %d not in %v", ErrInvalidParameter, n, IterationBudgets)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	next := c.view
	next.IterationBudget = n
	c.apply(next)
	return nil
}

// ResetView restores zoom 1 and center (0, 0). The iteration budget is
// reset to DefaultIterationBudget only when resetBudget is true.
func (c *Controller) ResetView(resetBudget bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = nil
	c.apply(resetOf(c.view, resetBudget))
}

// ToggleVariant switches between EscapeTime and IFS and resets zoom and
// center, since the two fractals live in different parts of the plane.
// The iteration budget is kept. This is a single mutation.
func (c *Controller) ToggleVariant() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = nil
	next := resetOf(c.view, false)
	next.Variant = c.view.Variant.Toggle()
	c.apply(next)
}

// Pan moves the view center by (dx, dy) plane units.
func (c *Controller) Pan(dx, dy float64) error {
	if !finite(dx) || !finite(dy) {
		return fmt.Errorf("%w: pan (%v, %v)", ErrInvalidParameter, dx, dy)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	next := c.view
	next.Center.X += dx
	next.Center.Y += dy
	if !finite(next.Center.X) || !finite(next.Center.Y) {
		return fmt.Errorf("%w: pan (%v, %v) overflows", ErrInvalidParameter, dx, dy)
	}
	c.apply(next)
	return nil
}

// ZoomAt zooms by factor keeping the plane point under screen position
// (x, y) fixed.
func (c *Controller) ZoomAt(factor, x, y float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.zoomAt(c.view, factor, x, y)
}

func (c *Controller) zoomAt(base ViewState, factor, x, y float64) error {
	next, err := ZoomAboutScreenPoint(base, c.dims, factor, x, y)
	if err != nil {
		return err
	}
	c.apply(next)
	return nil
}

// HandleScroll applies a wheel event: scrolling up zooms in by the wheel
// factor, scrolling down zooms out. Horizontal-only scrolls are ignored.
func (c *Controller) HandleScroll(ev gpucontext.ScrollEvent) {
	if ev.DeltaY == 0 {
		return
	}
	factor := c.wheelFactor
	if ev.DeltaY > 0 {
		factor = 1 / factor
	}
	if err := c.ZoomAt(factor, ev.X, ev.Y); err != nil {
		Logger().Debug("wheel zoom rejected", "error", err)
	}
}

// HandleGesture applies a platform pinch gesture: ZoomDelta is the zoom
// factor for this frame and Center the anchor.
func (c *Controller) HandleGesture(ev gpucontext.GestureEvent) {
	if ev.ZoomDelta == 1 {
		return
	}
	if err := c.ZoomAt(ev.ZoomDelta, ev.Center.X, ev.Center.Y); err != nil {
		Logger().Debug("gesture zoom rejected", "error", err)
	}
}

// HandlePointer feeds a pointer event to the gesture state machines.
//
// Mouse and pen pointers drag-pan. A single touch contact pans the same
// way; a second contact switches to pinch-zoom about the contacts'
// midpoint. A gesture ends when any of its pointers is released or
// cancelled. Events of a channel are ignored while the other channel owns
// the active gesture.
func (c *Controller) HandlePointer(ev gpucontext.PointerEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch channelOf(ev.PointerType) {
	case ChannelTouch:
		c.handleTouch(ev)
	default:
		c.handleMouse(ev)
	}
}

func (c *Controller) handleMouse(ev gpucontext.PointerEvent) {
	switch ev.Type {
	case gpucontext.PointerDown:
		if c.active != nil {
			return
		}
		c.start(&gesture{
			channel:   ChannelMouse,
			kind:      GestureDragging,
			startView: c.view,
			pointerID: ev.PointerID,
			start:     pointOf(ev),
		})
	case gpucontext.PointerMove:
		if g := c.active; g != nil && g.channel == ChannelMouse && g.pointerID == ev.PointerID {
			c.apply(g.pan(pointOf(ev)))
		}
	case gpucontext.PointerUp, gpucontext.PointerCancel:
		if g := c.active; g != nil && g.channel == ChannelMouse && g.pointerID == ev.PointerID {
			c.end()
		}
	}
}

func (c *Controller) handleTouch(ev gpucontext.PointerEvent) {
	switch ev.Type {
	case gpucontext.PointerDown:
		c.touches[ev.PointerID] = pointOf(ev)
		switch g := c.active; {
		case g == nil:
			c.start(&gesture{
				channel:   ChannelTouch,
				kind:      GestureDragging,
				startView: c.view,
				pointerID: ev.PointerID,
				start:     pointOf(ev),
			})
		case g.channel == ChannelTouch && g.kind == GestureDragging:
			first := c.touches[g.pointerID]
			dist := distance(first, pointOf(ev))
			if dist == 0 {
				return
			}
			c.start(&gesture{
				channel:   ChannelTouch,
				kind:      GesturePinching,
				startView: c.view,
				ids:       [2]int{g.pointerID, ev.PointerID},
				startDist: dist,
			})
		}

	case gpucontext.PointerMove:
		if _, ok := c.touches[ev.PointerID]; !ok {
			return
		}
		c.touches[ev.PointerID] = pointOf(ev)

		g := c.active
		if g == nil || g.channel != ChannelTouch || !g.involves(ev.PointerID) {
			return
		}
		switch g.kind {
		case GestureDragging:
			c.apply(g.pan(pointOf(ev)))
		case GesturePinching:
			a, b := c.touches[g.ids[0]], c.touches[g.ids[1]]
			mid := midpoint(a, b)
			if err := c.zoomAt(g.startView, distance(a, b)/g.startDist, mid.X, mid.Y); err != nil {
				Logger().Debug("pinch zoom rejected", "error", err)
			}
		}

	case gpucontext.PointerUp, gpucontext.PointerCancel:
		delete(c.touches, ev.PointerID)
		if g := c.active; g != nil && g.channel == ChannelTouch && g.involves(ev.PointerID) {
			c.end()
		}
	}
}

func (c *Controller) start(g *gesture) {
	c.active = g
	Logger().Debug("gesture started", "channel", g.channel, "kind", g.kind)
}

func (c *Controller) end() {
	Logger().Debug("gesture ended", "channel", c.active.channel, "kind", c.active.kind)
	c.active = nil
}

// Attach registers the controller's handlers with every gpucontext event
// source interface src implements and reports whether any matched.
func (c *Controller) Attach(src any) bool {
	attached := false
	if s, ok := src.(gpucontext.PointerEventSource); ok {
		s.OnPointer(c.HandlePointer)
		attached = true
	}
	if s, ok := src.(gpucontext.ScrollEventSource); ok {
		s.OnScrollEvent(c.HandleScroll)
		attached = true
	}
	if s, ok := src.(gpucontext.GestureEventSource); ok {
		s.OnGesture(c.HandleGesture)
		attached = true
	}
	return attached
}

// apply stores next and notifies the redrawer if it differs from the
// current view. Callers hold c.mu.
func (c *Controller) apply(next ViewState) {
	if next == c.view {
		return
	}
	if err := next.Validate(); err != nil {
		Logger().Debug("view mutation rejected", "error", err)
		return
	}
	c.view = next
	c.notify()
}

func (c *Controller) notify() {
	if c.redrawer != nil {
		c.redrawer.Redraw(c.view, c.dims)
	}
}

func resetOf(view ViewState, resetBudget bool) ViewState {
	next := view
	next.Zoom = 1
	next.Center = Point{}
	if resetBudget {
		next.IterationBudget = DefaultIterationBudget
	}
	return next
}
