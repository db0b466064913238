// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package fractalcanvas shows fractal frames in gogpu GPU-accelerated windows.
//
// Canvas implements fractal.Display. The engine presents frames from its
// render goroutine and the window uploads the latest one on draw:
//
//	fractal.Engine (render) -> Pixmap (CPU) -> GPU Texture -> Window
//
// # Usage
//
//	canvas, err := fractalcanvas.New(app.GPUContextProvider(), 800, 600)
//	defer canvas.Close()
//
//	engine := fractal.NewEngine(canvas)
//	ctrl, err := fractal.NewController(engine, canvas.Dimensions())
//	ctrl.Attach(app) // pointer, scroll and gesture events
//	ctrl.Redraw()
//
//	app.OnDraw(func(dc *gogpu.Context) {
//	    canvas.RenderTo(dc.AsTextureDrawer())
//	})
//
// On window resize call Canvas.Resize and then Controller.SetDimensions;
// frames still in flight for the old size are rejected by Present.
//
// # Integration Without Circular Imports
//
// This package uses gpucontext interfaces instead of importing gogpu:
//
//   - gpucontext.DeviceProvider for adapter and surface information
//   - gpucontext.TextureDrawer and TextureCreator for drawing
//   - gpucontext.TextureUpdater for re-uploading frames
package fractalcanvas
