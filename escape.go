package fractal

import (
	"context"
	"fmt"
	"time"

	"github.com/gogpu/fractal/internal/parallel"
)

// escapeRadiusSq is the squared modulus past which an orbit has escaped.
const escapeRadiusSq = 4.0

// defaultRowsPerBand is the band height handed to each pool work item.
const defaultRowsPerBand = 16

// EscapeCount iterates z' = z² + c from z = c = (a, b) and returns the number
// of steps taken before |z|² exceeds 4, or budget if it never does.
// The escape test runs before each step, so a point outside the radius
// returns 0.
func EscapeCount(a, b float64, budget int) int {
	ca, cb := a, b
	n := 0
	for n < budget && ca*ca+cb*cb <= escapeRadiusSq {
		ca, cb = ca*ca-cb*cb+a, 2*ca*cb+b
		n++
	}
	return n
}

// EscapeIntensity maps an escape count to a gray level: floor(n*255/budget),
// or 0 for points that never escaped.
func EscapeIntensity(n, budget int) uint8 {
	if n >= budget {
		return 0
	}
	return uint8(n * 255 / budget)
}

// EscapeTimeRenderer renders the Mandelbrot-style escape-time set as a
// grayscale image: fast-escaping points are bright, members are black.
//
// Rendering is a pure function of (view, dims). With a worker pool the
// frame is split into row bands; the output is identical to the sequential
// path.
type EscapeTimeRenderer struct {
	pool        *parallel.WorkerPool
	rowsPerBand int
}

// EscapeTimeOption configures an EscapeTimeRenderer.
type EscapeTimeOption func(*EscapeTimeRenderer)

// WithWorkers renders row bands on a pool of n goroutines.
// n <= 0 uses GOMAXPROCS; n == 1 keeps the sequential path.
// The pool lives until Close.
func WithWorkers(n int) EscapeTimeOption {
	return func(r *EscapeTimeRenderer) {
		if n == 1 {
			return
		}
		r.pool = parallel.NewWorkerPool(n)
	}
}

// WithRowsPerBand sets how many rows make up one unit of parallel work.
func WithRowsPerBand(rows int) EscapeTimeOption {
	return func(r *EscapeTimeRenderer) {
		if rows > 0 {
			r.rowsPerBand = rows
		}
	}
}

// NewEscapeTimeRenderer creates an escape-time renderer.
func NewEscapeTimeRenderer(opts ...EscapeTimeOption) *EscapeTimeRenderer {
	r := &EscapeTimeRenderer{rowsPerBand: defaultRowsPerBand}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render implements Renderer.
func (r *EscapeTimeRenderer) Render(ctx context.Context, view ViewState, dims Dimensions) (*Pixmap, error) {
	if err := checkRenderInput(view, dims); err != nil {
		return nil, err
	}

	start := time.Now()
	bounds := Bounds(view, dims)
	sx, sy := bounds.Scale(dims)
	budget := view.IterationBudget
	pm := NewPixmap(dims.Width, dims.Height)

	renderRow := func(py int) {
		row := pm.Row(py)
		b := float64(py)*sy + bounds.YMin
		for px := range dims.Width {
			a := float64(px)*sx + bounds.XMin
			c := EscapeIntensity(EscapeCount(a, b, budget), budget)
			i := px * 4
			row[i+0] = c
			row[i+1] = c
			row[i+2] = c
			row[i+3] = 255
		}
	}

	bands := parallel.SplitRows(dims.Height, r.rowsPerBand)
	err := parallel.ForEachBand(ctx, r.pool, bands, func(band parallel.Band) error {
		for py := band.Y0; py < band.Y1; py++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			renderRow(py)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fractal: escape-time render: %w", err)
	}

	Logger().Debug("escape-time render",
		"width", dims.Width, "height", dims.Height,
		"budget", budget, "zoom", view.Zoom,
		"elapsed", time.Since(start))
	return pm, nil
}

// Close releases the worker pool, if any.
func (r *EscapeTimeRenderer) Close() {
	if r.pool != nil {
		r.pool.Close()
	}
}
