package fractal

import (
	"context"
	"fmt"
	"image/color"
	"math/rand/v2"
	"sync"
	"time"
)

// SamplesPerIteration converts an iteration budget into an IFS sample
// count. The budget is a density multiplier for this variant.
const SamplesPerIteration = 5000

// cancelCheckInterval is how many samples run between context checks.
const cancelCheckInterval = 4096

// DefaultFernColor is the foreground of lit IFS pixels (CSS "green").
var DefaultFernColor = color.RGBA{R: 0, G: 128, B: 0, A: 255}

// Fern branch indices returned by FernStep.
const (
	FernStem = iota
	FernLargeLeaflet
	FernLeftLeaflet
	FernRightLeaflet
)

// fernThresholds are the cumulative probabilities of the four maps.
var fernThresholds = [4]float64{0.01, 0.86, 0.93, 1.0}

// FernStep applies the fern map selected by r ∈ [0, 1) to (x, y) and
// returns the new point with the index of the map used.
func FernStep(x, y, r float64) (nx, ny float64, branch int) {
	switch {
	case r < fernThresholds[FernStem]:
		return 0, 0.16 * y, FernStem
	case r < fernThresholds[FernLargeLeaflet]:
		return 0.85*x + 0.04*y, -0.04*x + 0.85*y + 1.6, FernLargeLeaflet
	case r < fernThresholds[FernLeftLeaflet]:
		return 0.2*x - 0.26*y, 0.23*x + 0.22*y + 1.6, FernLeftLeaflet
	default:
		return -0.15*x + 0.28*y, 0.26*x + 0.24*y + 0.44, FernRightLeaflet
	}
}

// IFSRenderer renders the Barnsley fern by chaos-game sampling.
//
// Each sample depends on the previous point, so the loop is sequential.
// The output depends on the random sequence and is only statistically
// stable unless a seed is fixed with WithSeed.
type IFSRenderer struct {
	fg color.RGBA

	mu     sync.Mutex
	seeded bool
	seed   [2]uint64
	seeds  *rand.Rand
}

// IFSOption configures an IFSRenderer.
type IFSOption func(*IFSRenderer)

// WithForeground sets the color of lit pixels.
func WithForeground(c color.RGBA) IFSOption {
	return func(r *IFSRenderer) {
		r.fg = c
	}
}

// WithSeed makes the sample sequence reproducible: every render restarts
// the PCG generator from (s1, s2).
func WithSeed(s1, s2 uint64) IFSOption {
	return func(r *IFSRenderer) {
		r.seeded = true
		r.seed = [2]uint64{s1, s2}
	}
}

// NewIFSRenderer creates a fern renderer.
func NewIFSRenderer(opts ...IFSOption) *IFSRenderer {
	r := &IFSRenderer{fg: DefaultFernColor}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render implements Renderer with iterationBudget*SamplesPerIteration samples.
func (r *IFSRenderer) Render(ctx context.Context, view ViewState, dims Dimensions) (*Pixmap, error) {
	if err := checkRenderInput(view, dims); err != nil {
		return nil, err
	}
	return r.RenderSamples(ctx, view, dims, view.IterationBudget*SamplesPerIteration)
}

// RenderSamples renders with an explicit sample count.
func (r *IFSRenderer) RenderSamples(ctx context.Context, view ViewState, dims Dimensions, samples int) (*Pixmap, error) {
	if err := checkRenderInput(view, dims); err != nil {
		return nil, err
	}
	if samples < 0 {
		return nil, fmt.Errorf("%w: sample count %d", ErrInvalidParameter, samples)
	}

	start := time.Now()
	rng := r.newRand()
	bounds := Bounds(view, dims)

	pm := NewPixmap(dims.Width, dims.Height)
	pm.Clear(color.RGBA{A: 255})
	data := pm.Data()

	var x, y float64
	lit := 0
	for i := range samples {
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("fractal: ifs render: %w", err)
			}
		}

		x, y, _ = FernStep(x, y, rng.Float64())

		px, py := bounds.PlaneToPixel(dims, Point{X: x, Y: y})
		if px < 0 || px >= dims.Width || py < 0 || py >= dims.Height {
			continue
		}
		j := (py*dims.Width + px) * 4
		if data[j+0] == r.fg.R && data[j+1] == r.fg.G && data[j+2] == r.fg.B && data[j+3] == r.fg.A {
			continue
		}
		data[j+0] = r.fg.R
		data[j+1] = r.fg.G
		data[j+2] = r.fg.B
		data[j+3] = r.fg.A
		lit++
	}

	Logger().Debug("ifs render",
		"width", dims.Width, "height", dims.Height,
		"samples", samples, "lit", lit, "zoom", view.Zoom,
		"elapsed", time.Since(start))
	return pm, nil
}

// newRand returns the generator for one render. Unseeded renderers draw
// the PCG seed from a shared source guarded by mu.
func (r *IFSRenderer) newRand() *rand.Rand {
	if r.seeded {
		return rand.New(rand.NewPCG(r.seed[0], r.seed[1]))
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.seeds == nil {
		r.seeds = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(r.seeds.Uint64(), r.seeds.Uint64()))
}
