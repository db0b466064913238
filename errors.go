package fractal

import "errors"

// Errors returned by the engine, controller and capture operations.
// Callers test for them with errors.Is; the returned errors wrap them with
// the offending values.
var (
	// ErrInvalidParameter is returned when an iteration budget, zoom, zoom
	// factor or canvas dimension is rejected. The prior state is retained.
	ErrInvalidParameter = errors.New("fractal: invalid parameter")

	// ErrRenderFailure is returned when a frame cannot be produced or the
	// display surface rejects it.
	ErrRenderFailure = errors.New("fractal: render failed")

	// ErrSuperseded is returned by Engine.Draw when a newer render request
	// replaced the frame before it could be presented.
	ErrSuperseded = errors.New("fractal: render superseded")

	// ErrEngineClosed is returned by Engine methods after Close.
	ErrEngineClosed = errors.New("fractal: engine is closed")
)
