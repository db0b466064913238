package fractal

import (
	"context"

	"github.com/gogpu/fractal/internal/cache"
)

// DefaultFrameCacheBytes is the pixel budget of NewCachedRenderer when
// none is given.
const DefaultFrameCacheBytes = 64 << 20

// frameKey identifies a frame. Escape-time and seeded IFS renders depend
// on nothing else.
type frameKey struct {
	view ViewState
	dims Dimensions
}

// CachedRenderer remembers recent frames of a deterministic renderer, so
// returning to a view (reset, toggling back, undoing a budget change)
// skips the render. Only wrap renderers whose output is a function of the
// view and dimensions: an IFSRenderer needs WithSeed.
//
// Every Render returns a private copy, so callers may draw on it.
type CachedRenderer struct {
	next   Renderer
	frames *cache.Cache[frameKey, *Pixmap]
}

// NewCachedRenderer wraps r with a frame cache of maxBytes pixel data.
// maxBytes <= 0 uses DefaultFrameCacheBytes.
func NewCachedRenderer(r Renderer, maxBytes int64) *CachedRenderer {
	if maxBytes <= 0 {
		maxBytes = DefaultFrameCacheBytes
	}
	return &CachedRenderer{
		next:   r,
		frames: cache.New[frameKey, *Pixmap](maxBytes),
	}
}

// Render implements Renderer.
func (c *CachedRenderer) Render(ctx context.Context, view ViewState, dims Dimensions) (*Pixmap, error) {
	key := frameKey{view: view, dims: dims}
	if frame, ok := c.frames.Get(key); ok {
		Logger().Debug("frame cache hit", "variant", view.Variant, "zoom", view.Zoom)
		return frame.Clone(), nil
	}

	frame, err := c.next.Render(ctx, view, dims)
	if err != nil {
		return nil, err
	}
	c.frames.Add(key, frame.Clone(), int64(len(frame.Data())))
	return frame, nil
}

// Purge drops all cached frames.
func (c *CachedRenderer) Purge() {
	c.frames.Clear()
}

// CacheStats reports the frame count, bytes held and hit rate.
func (c *CachedRenderer) CacheStats() (frames int, bytes int64, hitRate float64) {
	s := c.frames.Stats()
	return s.Len, s.Cost, s.HitRate
}

// Close releases the wrapped renderer.
func (c *CachedRenderer) Close() {
	c.Purge()
	if cl, ok := c.next.(interface{ Close() }); ok {
		cl.Close()
	}
}
