package fractal

// EngineOption configures an Engine during creation.
// Use functional options to customize Engine behavior.
//
// Example:
//
//	// Default renderers with the reticle overlay
//	e := fractal.NewEngine(display)
//
//	// Row-parallel escape-time rendering and no overlay
//	e := fractal.NewEngine(display,
//	    fractal.WithEscapeTimeRenderer(fractal.NewEscapeTimeRenderer(fractal.WithWorkers(0))),
//	    fractal.WithOverlay(nil))
type EngineOption func(*engineOptions)

// engineOptions holds optional configuration for Engine creation.
type engineOptions struct {
	escape  Renderer
	ifs     Renderer
	overlay Overlay
	onError func(error)
}

// defaultEngineOptions returns the default engine options.
func defaultEngineOptions() engineOptions {
	return engineOptions{
		escape:  nil, // Will be set to EscapeTimeRenderer if nil
		ifs:     nil, // Will be set to IFSRenderer if nil
		overlay: DefaultReticle(),
	}
}

// WithEscapeTimeRenderer replaces the renderer used for the EscapeTime variant.
func WithEscapeTimeRenderer(r Renderer) EngineOption {
	return func(o *engineOptions) {
		o.escape = r
	}
}

// WithIFSRenderer replaces the renderer used for the IFS variant.
func WithIFSRenderer(r Renderer) EngineOption {
	return func(o *engineOptions) {
		o.ifs = r
	}
}

// WithOverlay sets the overlay drawn on presented frames.
// Pass nil to present bare frames. Combine several with Overlays.
func WithOverlay(ov Overlay) EngineOption {
	return func(o *engineOptions) {
		o.overlay = ov
	}
}

// WithErrorHandler registers fn to receive errors from asynchronous
// redraws. Cancelled and superseded renders are not reported.
func WithErrorHandler(fn func(error)) EngineOption {
	return func(o *engineOptions) {
		o.onError = fn
	}
}
