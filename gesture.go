package fractal

import (
	"math"

	"github.com/gogpu/gpucontext"
)

// panDivisor scales a drag distance in pixels to a plane offset at zoom 1.
const panDivisor = 150.0

// DefaultWheelFactor is the zoom factor applied per wheel notch.
const DefaultWheelFactor = 1.15

// Channel identifies an input channel. At most one gesture is active
// across all channels.
type Channel uint8

const (
	// ChannelMouse carries mouse and pen pointers.
	ChannelMouse Channel = iota

	// ChannelTouch carries touch contacts.
	ChannelTouch
)

// String returns the channel name.
func (c Channel) String() string {
	if c == ChannelTouch {
		return "touch"
	}
	return "mouse"
}

// GestureKind is the state of the gesture state machine.
type GestureKind uint8

const (
	// GestureIdle means no pointer sequence is in progress.
	GestureIdle GestureKind = iota

	// GestureDragging pans the view with one pointer.
	GestureDragging

	// GesturePinching zooms the view with two touch contacts.
	GesturePinching
)

// String returns the state name.
func (k GestureKind) String() string {
	switch k {
	case GestureIdle:
		return "idle"
	case GestureDragging:
		return "dragging"
	case GesturePinching:
		return "pinching"
	default:
		return "unknown"
	}
}

// gesture is the transient state of one drag or pinch. It lives from the
// pointer-down that starts it to the pointer-up or cancel that ends it.
type gesture struct {
	channel   Channel
	kind      GestureKind
	startView ViewState

	// dragging
	pointerID int
	start     Point

	// pinching
	ids       [2]int
	startDist float64
}

// pan returns the view for a drag that moved from g.start to p. The offset
// shrinks with zoom so panning feels constant in screen space.
func (g *gesture) pan(p Point) ViewState {
	next := g.startView
	z := g.startView.Zoom
	next.Center.X = g.startView.Center.X - (p.X-g.start.X)/z/panDivisor
	next.Center.Y = g.startView.Center.Y - (p.Y-g.start.Y)/z/panDivisor
	return next
}

func (g *gesture) involves(id int) bool {
	switch g.kind {
	case GestureDragging:
		return g.pointerID == id
	case GesturePinching:
		return g.ids[0] == id || g.ids[1] == id
	default:
		return false
	}
}

func channelOf(t gpucontext.PointerType) Channel {
	if t == gpucontext.PointerTypeTouch {
		return ChannelTouch
	}
	return ChannelMouse
}

func pointOf(ev gpucontext.PointerEvent) Point {
	return Point{X: ev.X, Y: ev.Y}
}

func distance(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

func midpoint(a, b Point) Point {
	return Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}
