// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package fractalcanvas

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"
)

// ErrInvalidRenderer is returned when the draw context has no
// gpucontext.TextureCreator.
var ErrInvalidRenderer = errors.New("fractalcanvas: draw context has no TextureCreator")

// RenderOptions controls where the canvas is drawn on the target.
type RenderOptions struct {
	// X, Y is the position to draw the texture (default: 0, 0)
	X, Y float32
}

// RenderTo uploads the latest frame if needed and draws it at (0, 0).
// It draws nothing until the first frame has been presented.
//
// The dc parameter should be obtained from gogpu.Context.AsTextureDrawer():
//
//	app.OnDraw(func(dc *gogpu.Context) {
//	    canvas.RenderTo(dc.AsTextureDrawer())
//	})
func (c *Canvas) RenderTo(dc gpucontext.TextureDrawer) error {
	return c.RenderToEx(dc, RenderOptions{})
}

// RenderToEx is RenderTo with positioning.
func (c *Canvas) RenderToEx(dc gpucontext.TextureDrawer, opts RenderOptions) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrCanvasClosed
	}
	tex, err := c.upload(dc)
	if err != nil || tex == nil {
		return err
	}
	return dc.DrawTexture(tex, opts.X, opts.Y)
}

// upload brings the texture up to date with the latest frame. The texture
// is created lazily and recreated when the frame size changes. Callers
// hold c.mu.
func (c *Canvas) upload(dc gpucontext.TextureDrawer) (gpucontext.Texture, error) {
	if c.frame == nil {
		return nil, nil
	}
	if !c.dirty && c.texture != nil {
		return c.texture, nil
	}

	w, h := c.frame.Width(), c.frame.Height()
	if c.texture != nil && c.texture.Width() == w && c.texture.Height() == h {
		if updater, ok := c.texture.(gpucontext.TextureUpdater); ok {
			if err := updater.UpdateData(c.frame.Data()); err != nil {
				return nil, fmt.Errorf("fractalcanvas: texture update failed: %w", err)
			}
			c.dirty = false
			return c.texture, nil
		}
	}

	creator := dc.TextureCreator()
	if creator == nil {
		return nil, ErrInvalidRenderer
	}
	tex, err := creator.NewTextureFromRGBA(w, h, c.frame.Data())
	if err != nil {
		return nil, fmt.Errorf("fractalcanvas: NewTextureFromRGBA failed: %w", err)
	}

	// NewTextureFromRGBA waits for the GPU, so the old texture is no
	// longer referenced by in-flight command buffers.
	destroy(c.texture)
	c.texture = tex
	c.dirty = false
	return tex, nil
}
