// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package fractalcanvas

import (
	"context"
	"errors"
	"image/color"
	"testing"

	"github.com/gogpu/fractal"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// mockProvider implements gpucontext.DeviceProvider for testing.
type mockProvider struct {
	format gputypes.TextureFormat
}

func newMockProvider() *mockProvider {
	return &mockProvider{format: gputypes.TextureFormatBGRA8UnormSrgb}
}

func (m *mockProvider) Device() gpucontext.Device             { return struct{}{} }
func (m *mockProvider) Queue() gpucontext.Queue               { return struct{}{} }
func (m *mockProvider) Adapter() gpucontext.Adapter           { return struct{}{} }
func (m *mockProvider) SurfaceFormat() gputypes.TextureFormat { return m.format }
func (m *mockProvider) AdapterInfo() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{Name: "mock", Type: gpucontext.AdapterTypeSoftware}
}

// mockTexture implements gpucontext.Texture and TextureUpdater.
type mockTexture struct {
	width, height int
	data          []byte
	updated       int
	destroyed     bool
	failUpdate    bool
}

func (m *mockTexture) Width() int  { return m.width }
func (m *mockTexture) Height() int { return m.height }
func (m *mockTexture) Destroy()    { m.destroyed = true }

func (m *mockTexture) UpdateData(data []byte) error {
	if m.failUpdate {
		return errors.New("mock update failed")
	}
	m.data = append(m.data[:0], data...)
	m.updated++
	return nil
}

// mockCreator implements gpucontext.TextureCreator.
type mockCreator struct {
	textures []*mockTexture
	failNext bool
}

func (m *mockCreator) NewTextureFromRGBA(width, height int, data []byte) (gpucontext.Texture, error) {
	if m.failNext {
		m.failNext = false
		return nil, errors.New("mock texture creation failed")
	}
	tex := &mockTexture{width: width, height: height, data: append([]byte(nil), data...)}
	m.textures = append(m.textures, tex)
	return tex, nil
}

// mockDrawer implements gpucontext.TextureDrawer.
type mockDrawer struct {
	creator   *mockCreator
	drawn     gpucontext.Texture
	x, y      float32
	drawCount int
}

func (m *mockDrawer) DrawTexture(tex gpucontext.Texture, x, y float32) error {
	m.drawn, m.x, m.y = tex, x, y
	m.drawCount++
	return nil
}

func (m *mockDrawer) TextureCreator() gpucontext.TextureCreator {
	if m.creator == nil {
		return nil
	}
	return m.creator
}

func newDrawer() *mockDrawer {
	return &mockDrawer{creator: &mockCreator{}}
}

func solid(w, h int, v uint8) *fractal.Pixmap {
	pm := fractal.NewPixmap(w, h)
	pm.Clear(color.RGBA{R: v, G: v, B: v, A: 255})
	return pm
}

var (
	_ fractal.Display           = (*Canvas)(nil)
	_ gpucontext.DeviceProvider = (*mockProvider)(nil)
	_ gpucontext.TextureUpdater = (*mockTexture)(nil)
	_ gpucontext.TextureDrawer  = (*mockDrawer)(nil)
)

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		provider gpucontext.DeviceProvider
		width    int
		height   int
		wantErr  error
	}{
		{"valid", newMockProvider(), 800, 600, nil},
		{"nil provider", nil, 800, 600, ErrNilProvider},
		{"zero width", newMockProvider(), 0, 600, ErrInvalidDimensions},
		{"negative height", newMockProvider(), 800, -1, ErrInvalidDimensions},
		{"too wide", newMockProvider(), fractal.MaxDimension + 1, 600, ErrInvalidDimensions},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.provider, tt.width, tt.height)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("New() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("New() unexpected error = %v", err)
			}
			defer c.Close()

			if c.Dimensions() != (fractal.Dimensions{Width: 800, Height: 600}) {
				t.Errorf("Dimensions() = %v", c.Dimensions())
			}
			if c.IsDirty() || c.Frame() != nil || c.Texture() != nil {
				t.Error("new canvas has content")
			}
			if c.Provider() != tt.provider {
				t.Error("Provider() mismatch")
			}
		})
	}
}

func TestPresentAndRender(t *testing.T) {
	c, err := New(newMockProvider(), 4, 2)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	dc := newDrawer()

	// Nothing presented yet: nothing drawn.
	if err := c.RenderTo(dc); err != nil {
		t.Fatalf("RenderTo before Present: %v", err)
	}
	if dc.drawCount != 0 {
		t.Fatal("drew before the first frame")
	}

	if err := c.Present(solid(4, 2, 10)); err != nil {
		t.Fatalf("Present: %v", err)
	}
	if !c.IsDirty() {
		t.Error("IsDirty() = false after Present")
	}
	if err := c.RenderToEx(dc, RenderOptions{X: 5, Y: 7}); err != nil {
		t.Fatalf("RenderToEx: %v", err)
	}
	if len(dc.creator.textures) != 1 {
		t.Fatalf("created %d textures, want 1", len(dc.creator.textures))
	}
	tex := dc.creator.textures[0]
	if tex.width != 4 || tex.height != 2 || tex.data[0] != 10 {
		t.Errorf("texture %dx%d first byte %d", tex.width, tex.height, tex.data[0])
	}
	if dc.drawn != tex || dc.x != 5 || dc.y != 7 {
		t.Errorf("drew %v at (%v, %v)", dc.drawn, dc.x, dc.y)
	}
	if c.IsDirty() {
		t.Error("IsDirty() = true after upload")
	}

	// Clean canvas: draw again without uploading.
	if err := c.RenderTo(dc); err != nil {
		t.Fatal(err)
	}
	if tex.updated != 0 || dc.drawCount != 2 {
		t.Errorf("clean redraw: %d uploads, %d draws", tex.updated, dc.drawCount)
	}

	// New frame of the same size: update in place.
	if err := c.Present(solid(4, 2, 99)); err != nil {
		t.Fatal(err)
	}
	if err := c.RenderTo(dc); err != nil {
		t.Fatal(err)
	}
	if len(dc.creator.textures) != 1 || tex.updated != 1 || tex.data[0] != 99 {
		t.Errorf("update: %d textures, %d uploads, first byte %d", len(dc.creator.textures), tex.updated, tex.data[0])
	}
	if c.Presented() != 2 {
		t.Errorf("Presented() = %d, want 2", c.Presented())
	}
}

func TestResizeRecreatesTexture(t *testing.T) {
	c, err := New(newMockProvider(), 4, 4)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	dc := newDrawer()

	if err := c.Present(solid(4, 4, 1)); err != nil {
		t.Fatal(err)
	}
	if err := c.RenderTo(dc); err != nil {
		t.Fatal(err)
	}

	if err := c.Resize(8, 2); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if err := c.Present(solid(4, 4, 2)); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("stale-size Present err = %v, want ErrInvalidDimensions", err)
	}
	if err := c.Present(solid(8, 2, 3)); err != nil {
		t.Fatal(err)
	}
	if err := c.RenderTo(dc); err != nil {
		t.Fatal(err)
	}

	if len(dc.creator.textures) != 2 {
		t.Fatalf("created %d textures, want 2", len(dc.creator.textures))
	}
	if !dc.creator.textures[0].destroyed {
		t.Error("old texture not destroyed")
	}
	if got := dc.creator.textures[1]; got.width != 8 || got.height != 2 {
		t.Errorf("new texture %dx%d, want 8x2", got.width, got.height)
	}

	if err := c.Resize(0, 2); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("Resize(0, 2) err = %v", err)
	}
}

func TestRenderErrors(t *testing.T) {
	c, err := New(newMockProvider(), 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	if err := c.Present(solid(2, 2, 0)); err != nil {
		t.Fatal(err)
	}

	if err := c.RenderTo(&mockDrawer{}); !errors.Is(err, ErrInvalidRenderer) {
		t.Errorf("no creator err = %v, want ErrInvalidRenderer", err)
	}

	dc := newDrawer()
	dc.creator.failNext = true
	if err := c.RenderTo(dc); err == nil {
		t.Error("creation failure not reported")
	}
	if !c.IsDirty() {
		t.Error("failed upload cleared the dirty flag")
	}

	if err := c.RenderTo(dc); err != nil {
		t.Fatal(err)
	}
	dc.creator.textures[0].failUpdate = true
	if err := c.Present(solid(2, 2, 1)); err != nil {
		t.Fatal(err)
	}
	if err := c.RenderTo(dc); err == nil {
		t.Error("update failure not reported")
	}
	if err := c.Present(nil); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("nil frame err = %v", err)
	}
}

func TestClose(t *testing.T) {
	c, err := New(newMockProvider(), 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	dc := newDrawer()
	if err := c.Present(solid(2, 2, 0)); err != nil {
		t.Fatal(err)
	}
	if err := c.RenderTo(dc); err != nil {
		t.Fatal(err)
	}

	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if !dc.creator.textures[0].destroyed {
		t.Error("texture not destroyed on Close")
	}
	if c.Provider() != nil {
		t.Error("Provider() non-nil after Close")
	}
	if err := c.Present(solid(2, 2, 0)); !errors.Is(err, ErrCanvasClosed) {
		t.Errorf("Present after Close err = %v", err)
	}
	if err := c.RenderTo(dc); !errors.Is(err, ErrCanvasClosed) {
		t.Errorf("RenderTo after Close err = %v", err)
	}
	if err := c.Resize(4, 4); !errors.Is(err, ErrCanvasClosed) {
		t.Errorf("Resize after Close err = %v", err)
	}
}

func TestEngineIntegration(t *testing.T) {
	c, err := New(newMockProvider(), 32, 24)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	engine := fractal.NewEngine(c)
	defer engine.Close()
	ctrl, err := fractal.NewController(engine, c.Dimensions())
	if err != nil {
		t.Fatal(err)
	}

	ctrl.Redraw()
	engine.Wait()
	if c.Frame() == nil {
		t.Fatal("engine frame not presented")
	}

	if err := c.Resize(16, 16); err != nil {
		t.Fatal(err)
	}
	if err := ctrl.SetDimensions(c.Dimensions()); err != nil {
		t.Fatal(err)
	}
	engine.Wait()
	if got := c.Frame().Dimensions(); got != (fractal.Dimensions{Width: 16, Height: 16}) {
		t.Errorf("frame after resize = %v", got)
	}

	if err := engine.Draw(context.Background(), ctrl.View(), fractal.Dimensions{Width: 32, Height: 24}); !errors.Is(err, fractal.ErrRenderFailure) {
		t.Errorf("stale-size Draw err = %v, want ErrRenderFailure", err)
	}

	dc := newDrawer()
	if err := c.RenderTo(dc); err != nil {
		t.Fatal(err)
	}
	if dc.drawCount != 1 {
		t.Errorf("drew %d times, want 1", dc.drawCount)
	}
}
