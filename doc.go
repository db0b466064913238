// Package fractal renders interactive fractal images into RGBA pixmaps.
//
// # Overview
//
// fractal draws two fractal families under a continuously adjustable view:
// the Mandelbrot escape-time set and the Barnsley fern, an iterated
// function system sampled stochastically. It is designed to sit behind a
// GoGPU window or any other surface that can show an RGBA buffer.
//
// # Quick Start
//
//	import "github.com/gogpu/fractal"
//
//	// Render a frame directly
//	r := fractal.NewEscapeTimeRenderer()
//	frame, err := r.Render(ctx, fractal.DefaultViewState(), fractal.Dimensions{Width: 512, Height: 512})
//
//	// Or drive a display interactively
//	engine := fractal.NewEngine(display)
//	ctrl, err := fractal.NewController(engine, fractal.Dimensions{Width: 800, Height: 600})
//	ctrl.Attach(window) // gpucontext pointer, scroll and gesture sources
//	ctrl.Redraw()
//
// # Architecture
//
// The library is organized into:
//   - View model: ViewState, Dimensions, PlaneBounds and the anchor-preserving zoom
//   - Renderers: EscapeTimeRenderer, IFSRenderer
//   - Interaction: Controller with per-channel gesture state machines
//   - Presentation: Engine (single in-flight render, last state wins), Overlay
//   - Export: CaptureCoordinator, Encode, Sink
//   - Adapters: integration/fractalcanvas (GPU texture), integration/wsview (websocket)
//
// # Coordinate System
//
// A view at zoom 1 covers the plane square [-2, 2] x [-2, 2] around its
// center on both axes regardless of the canvas aspect ratio. The
// escape-time set maps pixel Y downward onto plane Y; the fern flips it so
// the fern grows upward.
//
// # Logging
//
// The package is silent by default. Call SetLogger with a *slog.Logger to
// see render, gesture and capture diagnostics.
package fractal

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
