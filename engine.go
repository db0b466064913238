package fractal

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Engine turns view snapshots into presented frames.
//
// It selects the renderer for the view's variant, draws the overlay and
// hands the frame to the display. At most one render is current: every
// Draw or Redraw cancels the in-flight render and a finished render whose
// request is no longer the latest is discarded, never presented.
//
// Engine is safe for concurrent use. Display.Present is never called
// concurrently and must not call back into the Engine.
type Engine struct {
	display Display
	escape  Renderer
	ifs     Renderer
	overlay Overlay
	onError func(error)

	presentMu sync.Mutex

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
	last   *Pixmap
	closed bool
	wg     sync.WaitGroup
}

// NewEngine creates an engine presenting to display.
// A nil display discards frames, which is useful for capture-only use.
func NewEngine(display Display, opts ...EngineOption) *Engine {
	options := defaultEngineOptions()
	for _, opt := range opts {
		opt(&options)
	}

	if display == nil {
		display = DisplayFunc(func(*Pixmap) error { return nil })
	}
	escape := options.escape
	if escape == nil {
		escape = NewEscapeTimeRenderer()
	}
	ifs := options.ifs
	if ifs == nil {
		ifs = NewIFSRenderer()
	}

	return &Engine{
		display: display,
		escape:  escape,
		ifs:     ifs,
		overlay: options.overlay,
		onError: options.onError,
	}
}

// RendererFor returns the renderer used for variant v.
func (e *Engine) RendererFor(v Variant) Renderer {
	if v == IFS {
		return e.ifs
	}
	return e.escape
}

// Render produces a frame for view, overlay included, without presenting it.
func (e *Engine) Render(ctx context.Context, view ViewState, dims Dimensions) (*Pixmap, error) {
	return e.render(ctx, view, dims, true)
}

func (e *Engine) render(ctx context.Context, view ViewState, dims Dimensions, withOverlay bool) (*Pixmap, error) {
	if err := view.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRenderFailure, err)
	}
	frame, err := e.RendererFor(view.Variant).Render(ctx, view, dims)
	if err != nil {
		return nil, err
	}
	if withOverlay && e.overlay != nil {
		e.overlay.Draw(frame, view)
	}
	return frame, nil
}

// Draw synchronously renders view and presents it, superseding any render
// in flight. It returns ErrSuperseded if a newer request arrived before the
// frame could be presented. On failure the previously presented frame is
// left on the display.
func (e *Engine) Draw(ctx context.Context, view ViewState, dims Dimensions) error {
	return e.draw(ctx, nil, view, dims)
}

// generation returns the number of the latest draw request.
func (e *Engine) generation() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.gen
}

// drawIfCurrent is Draw that gives way to newer requests: it returns
// ErrSuperseded without rendering if any request arrived after gen.
func (e *Engine) drawIfCurrent(ctx context.Context, gen uint64, view ViewState, dims Dimensions) error {
	return e.draw(ctx, &gen, view, dims)
}

func (e *Engine) draw(ctx context.Context, onlyIf *uint64, view ViewState, dims Dimensions) error {
	gen, ctx, cancel, err := e.begin(ctx, onlyIf)
	if err != nil {
		return err
	}
	defer cancel()

	frame, err := e.Render(ctx, view, dims)
	if err != nil {
		return err
	}
	return e.present(gen, frame)
}

// Redraw asynchronously renders and presents view. It implements Redrawer:
// a newer Redraw or Draw cancels this one (last state wins). Errors other
// than cancellation go to the handler set with WithErrorHandler.
func (e *Engine) Redraw(view ViewState, dims Dimensions) {
	gen, ctx, cancel, err := e.begin(context.Background(), nil)
	if err != nil {
		e.report(err)
		return
	}

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		defer cancel()

		frame, err := e.Render(ctx, view, dims)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				Logger().Debug("render cancelled", "generation", gen, "variant", view.Variant)
				return
			}
			e.report(err)
			return
		}
		if err := e.present(gen, frame); err != nil && !errors.Is(err, ErrSuperseded) {
			e.report(err)
		}
	}()
}

// begin starts a new request generation and cancels the previous one.
// With onlyIf set it returns ErrSuperseded unless *onlyIf is still the
// latest generation.
func (e *Engine) begin(parent context.Context, onlyIf *uint64) (uint64, context.Context, context.CancelFunc, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return 0, nil, nil, ErrEngineClosed
	}
	if onlyIf != nil && *onlyIf != e.gen {
		return 0, nil, nil, ErrSuperseded
	}
	if e.cancel != nil {
		e.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	e.gen++
	e.cancel = cancel
	return e.gen, ctx, cancel, nil
}

// present hands frame to the display if gen is still the latest request.
func (e *Engine) present(gen uint64, frame *Pixmap) error {
	e.presentMu.Lock()
	defer e.presentMu.Unlock()

	e.mu.Lock()
	current := gen == e.gen && !e.closed
	e.mu.Unlock()
	if !current {
		Logger().Debug("discarding superseded frame", "generation", gen)
		return ErrSuperseded
	}

	if err := e.display.Present(frame); err != nil {
		Logger().Warn("display rejected frame", "error", err)
		return fmt.Errorf("%w: present: %w", ErrRenderFailure, err)
	}

	e.mu.Lock()
	e.last = frame
	e.mu.Unlock()
	return nil
}

// LastFrame returns the most recently presented frame, or nil.
func (e *Engine) LastFrame() *Pixmap {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.last
}

func (e *Engine) report(err error) {
	Logger().Warn("redraw failed", "error", err)
	if e.onError != nil {
		e.onError(err)
	}
}

// Wait blocks until all asynchronous redraws have finished.
func (e *Engine) Wait() {
	e.wg.Wait()
}

// Close cancels the in-flight render, waits for redraws to finish and
// releases renderer resources. Close is idempotent.
func (e *Engine) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	if e.cancel != nil {
		e.cancel()
	}
	e.mu.Unlock()

	e.wg.Wait()

	for _, r := range []Renderer{e.escape, e.ifs} {
		if c, ok := r.(interface{ Close() }); ok {
			c.Close()
		}
	}
	return nil
}
