package fractal

import (
	"bytes"
	"context"
	"errors"
	"fmt"
)

// CaptureOption configures a CaptureCoordinator.
type CaptureOption func(*CaptureCoordinator)

// WithFormat sets the capture encoding. The default is PNG.
func WithFormat(f Format) CaptureOption {
	return func(c *CaptureCoordinator) {
		c.format = f
	}
}

// CaptureCoordinator exports frames without the overlay.
//
// A capture renders the view once without the overlay, encodes the result
// and then draws the view normally so the display shows the overlay again.
// The restoring draw runs on every exit path unless a newer draw request
// reached the engine during the capture; that request's frame wins. Other
// renders running concurrently keep their overlay. The ViewState is only
// read.
type CaptureCoordinator struct {
	engine *Engine
	format Format
}

// NewCaptureCoordinator creates a coordinator capturing through e.
func NewCaptureCoordinator(e *Engine, opts ...CaptureOption) *CaptureCoordinator {
	c := &CaptureCoordinator{engine: e, format: PNG}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Format returns the configured capture encoding.
func (c *CaptureCoordinator) Format() Format {
	return c.format
}

// Capture renders view without the overlay and returns the encoded image.
//
// If rendering fails the restoring draw still runs; if that also fails the
// previously presented frame stays on the display.
func (c *CaptureCoordinator) Capture(ctx context.Context, view ViewState, dims Dimensions) ([]byte, error) {
	gen := c.engine.generation()
	defer c.restore(ctx, gen, view, dims)

	frame, err := c.engine.render(ctx, view, dims, false)
	if err != nil {
		return nil, fmt.Errorf("capture %s: %w", view.Variant, err)
	}

	var buf bytes.Buffer
	if err := Encode(&buf, frame, c.format); err != nil {
		return nil, fmt.Errorf("%w: encode %s: %w", ErrRenderFailure, c.format, err)
	}
	Logger().Debug("capture encoded", "variant", view.Variant, "format", c.format, "bytes", buf.Len())
	return buf.Bytes(), nil
}

// Export captures view and saves it to sink under Filename. It returns the
// name used.
func (c *CaptureCoordinator) Export(ctx context.Context, view ViewState, dims Dimensions, sink Sink) (string, error) {
	data, err := c.Capture(ctx, view, dims)
	if err != nil {
		return "", err
	}
	name := Filename(view.Variant, c.format)
	if err := sink.Save(name, data); err != nil {
		return "", err
	}
	return name, nil
}

// restore redraws the view with the overlay unless a request newer than
// gen arrived. It runs even when the caller's context is already cancelled.
func (c *CaptureCoordinator) restore(ctx context.Context, gen uint64, view ViewState, dims Dimensions) {
	err := c.engine.drawIfCurrent(context.WithoutCancel(ctx), gen, view, dims)
	switch {
	case err == nil:
	case errors.Is(err, ErrSuperseded):
		Logger().Debug("capture restore skipped, newer request pending", "generation", gen)
	default:
		Logger().Warn("capture restore failed, keeping previous frame", "error", err)
	}
}
