// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package fractalcanvas

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/fractal"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// Common errors returned by Canvas operations.
var (
	// ErrCanvasClosed is returned when operations are attempted on a closed canvas.
	ErrCanvasClosed = errors.New("fractalcanvas: canvas is closed")

	// ErrInvalidDimensions is returned when width or height is invalid, or a
	// presented frame does not match the canvas size.
	ErrInvalidDimensions = errors.New("fractalcanvas: invalid dimensions")

	// ErrNilProvider is returned when a nil DeviceProvider is passed.
	ErrNilProvider = errors.New("fractalcanvas: nil DeviceProvider")
)

// TextureFormat is the layout of the uploaded frame data.
const TextureFormat = gputypes.TextureFormatRGBA8Unorm

// textureDestroyer matches the gogpu.Texture.Destroy signature.
type textureDestroyer interface {
	Destroy()
}

// Canvas is a fractal.Display backed by a GPU texture.
//
// The engine presents frames from its render goroutine; the window's draw
// callback uploads the latest one with RenderTo. Only the most recent frame
// is kept, so a slow draw loop skips intermediate frames.
//
// Canvas is safe for concurrent use.
type Canvas struct {
	mu        sync.Mutex
	provider  gpucontext.DeviceProvider
	frame     *fractal.Pixmap
	texture   gpucontext.Texture
	dirty     bool // frame needs GPU upload
	width     int
	height    int
	presented int
	closed    bool
}

// New creates a Canvas for a window of the given size.
// The provider should come from gogpu.App.GPUContextProvider().
func New(provider gpucontext.DeviceProvider, width, height int) (*Canvas, error) {
	if provider == nil {
		return nil, ErrNilProvider
	}
	if err := (fractal.Dimensions{Width: width, Height: height}).Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDimensions, err)
	}

	info := provider.AdapterInfo()
	surface := provider.SurfaceFormat()
	fractal.Logger().Debug("fractalcanvas: created",
		"width", width, "height", height,
		"adapter", info.Name, "adapterType", info.Type,
		"surfaceFormat", surface, "textureFormat", TextureFormat)
	if surface.IsSrgb() {
		fractal.Logger().Info("fractalcanvas: sRGB surface, gray levels will be gamma encoded by the GPU",
			"surfaceFormat", surface)
	}

	return &Canvas{
		provider: provider,
		width:    width,
		height:   height,
	}, nil
}

// Width returns the canvas width in pixels.
func (c *Canvas) Width() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.width
}

// Height returns the canvas height in pixels.
func (c *Canvas) Height() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.height
}

// Dimensions returns the canvas size for fractal.Controller.SetDimensions.
func (c *Canvas) Dimensions() fractal.Dimensions {
	c.mu.Lock()
	defer c.mu.Unlock()
	return fractal.Dimensions{Width: c.width, Height: c.height}
}

// Present implements fractal.Display. The frame must match the canvas size;
// frames rendered for a size the canvas no longer has are rejected.
func (c *Canvas) Present(frame *fractal.Pixmap) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrCanvasClosed
	}
	if frame == nil {
		return fmt.Errorf("%w: nil frame", ErrInvalidDimensions)
	}
	if frame.Width() != c.width || frame.Height() != c.height {
		return fmt.Errorf("%w: frame %dx%d on canvas %dx%d",
			ErrInvalidDimensions, frame.Width(), frame.Height(), c.width, c.height)
	}

	c.frame = frame
	c.dirty = true
	c.presented++
	return nil
}

// Frame returns the most recently presented frame, or nil.
func (c *Canvas) Frame() *fractal.Pixmap {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frame
}

// Presented returns how many frames have been presented.
func (c *Canvas) Presented() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.presented
}

// IsDirty returns true if a presented frame has not been uploaded yet.
func (c *Canvas) IsDirty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dirty
}

// Resize changes canvas dimensions. The current frame stays on screen until
// a frame of the new size is presented.
func (c *Canvas) Resize(width, height int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrCanvasClosed
	}
	if err := (fractal.Dimensions{Width: width, Height: height}).Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDimensions, err)
	}
	if c.width == width && c.height == height {
		return nil
	}

	c.width = width
	c.height = height
	return nil
}

// Texture returns the current GPU texture without uploading.
// Returns nil if no frame has been rendered yet.
func (c *Canvas) Texture() gpucontext.Texture {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.texture
}

// Provider returns the DeviceProvider associated with this canvas.
// Returns nil if the canvas is closed.
func (c *Canvas) Provider() gpucontext.DeviceProvider {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	return c.provider
}

// Close releases the textures. Close is idempotent.
func (c *Canvas) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	destroy(c.texture)
	c.texture = nil
	c.frame = nil
	c.provider = nil
	return nil
}

func destroy(tex gpucontext.Texture) {
	if d, ok := tex.(textureDestroyer); ok {
		d.Destroy()
	}
}
