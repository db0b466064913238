package fractal

import (
	"context"
	"fmt"
)

// Renderer produces one frame of a fractal for a view.
//
// Render reads an immutable snapshot of view and dims and returns a freshly
// allocated Pixmap that the caller owns. Implementations hold no mutable
// state that crosses Render calls, so a Renderer may be used by a new render
// while a superseded one is still winding down.
//
// Render returns an error wrapping ErrRenderFailure for a zero-area canvas
// and the context's error when ctx is cancelled mid-render.
type Renderer interface {
	Render(ctx context.Context, view ViewState, dims Dimensions) (*Pixmap, error)
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(ctx context.Context, view ViewState, dims Dimensions) (*Pixmap, error)

// Render calls f(ctx, view, dims).
func (f RendererFunc) Render(ctx context.Context, view ViewState, dims Dimensions) (*Pixmap, error) {
	return f(ctx, view, dims)
}

// Display is the presentation surface for finished frames.
// The engine never assumes anything about presentation beyond "accepts a
// dense RGBA buffer of the given dimensions".
type Display interface {
	Present(frame *Pixmap) error
}

// DisplayFunc adapts a function to the Display interface.
type DisplayFunc func(frame *Pixmap) error

// Present calls f(frame).
func (f DisplayFunc) Present(frame *Pixmap) error {
	return f(frame)
}

// checkRenderInput validates the snapshot a renderer is asked to draw.
func checkRenderInput(view ViewState, dims Dimensions) error {
	if err := dims.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrRenderFailure, err)
	}
	if !validZoom(view.Zoom) {
		return fmt.Errorf("%w: %w: zoom=%v", ErrRenderFailure, ErrInvalidParameter, view.Zoom)
	}
	if view.IterationBudget <= 0 {
		return fmt.Errorf("%w: %w: iteration budget %d", ErrRenderFailure, ErrInvalidParameter, view.IterationBudget)
	}
	return nil
}
