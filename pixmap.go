package fractal

import (
	"image"
	"image/color"
)

// Pixmap is a dense row-major RGBA pixel buffer, one byte per channel.
// It is the frame type produced by renderers and accepted by displays.
type Pixmap struct {
	width  int
	height int
	data   []uint8 // RGBA format, 4 bytes per pixel
}

// NewPixmap creates a new transparent pixmap with the given dimensions.
// Negative sizes are treated as zero; sizes beyond MaxDimension or
// MaxPixels yield an empty 0x0 pixmap.
func NewPixmap(width, height int) *Pixmap {
	width = max(width, 0)
	height = max(height, 0)
	if width > MaxDimension || height > MaxDimension || width*height > MaxPixels {
		width, height = 0, 0
	}
	return &Pixmap{
		width:  width,
		height: height,
		data:   make([]uint8, width*height*4),
	}
}

// Width returns the width of the pixmap.
func (p *Pixmap) Width() int {
	return p.width
}

// Height returns the height of the pixmap.
func (p *Pixmap) Height() int {
	return p.height
}

// Dimensions returns the pixmap size.
func (p *Pixmap) Dimensions() Dimensions {
	return Dimensions{Width: p.width, Height: p.height}
}

// Data returns the raw pixel data (RGBA format).
func (p *Pixmap) Data() []uint8 {
	return p.data
}

// Row returns the bytes of row y. The slice aliases the pixmap.
func (p *Pixmap) Row(y int) []uint8 {
	stride := p.width * 4
	return p.data[y*stride : (y+1)*stride]
}

// SetRGBA sets a single pixel. Out-of-bounds coordinates are ignored.
func (p *Pixmap) SetRGBA(x, y int, c color.RGBA) {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return
	}
	i := (y*p.width + x) * 4
	p.data[i+0] = c.R
	p.data[i+1] = c.G
	p.data[i+2] = c.B
	p.data[i+3] = c.A
}

// RGBAAt returns the pixel at (x, y), or transparent black when out of bounds.
func (p *Pixmap) RGBAAt(x, y int) color.RGBA {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return color.RGBA{}
	}
	i := (y*p.width + x) * 4
	return color.RGBA{R: p.data[i+0], G: p.data[i+1], B: p.data[i+2], A: p.data[i+3]}
}

// Set implements draw.Image so that image/draw and x/image font drawers
// can target a pixmap directly.
func (p *Pixmap) Set(x, y int, c color.Color) {
	p.SetRGBA(x, y, color.RGBAModel.Convert(c).(color.RGBA))
}

// Clear fills the entire pixmap with a color.
func (p *Pixmap) Clear(c color.RGBA) {
	for i := 0; i < len(p.data); i += 4 {
		p.data[i+0] = c.R
		p.data[i+1] = c.G
		p.data[i+2] = c.B
		p.data[i+3] = c.A
	}
}

// Clone returns a deep copy of the pixmap.
func (p *Pixmap) Clone() *Pixmap {
	c := &Pixmap{width: p.width, height: p.height, data: make([]uint8, len(p.data))}
	copy(c.data, p.data)
	return c
}

// ToImage converts the pixmap to an image.RGBA.
func (p *Pixmap) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, p.width, p.height))
	copy(img.Pix, p.data)
	return img
}

// At implements the image.Image interface.
func (p *Pixmap) At(x, y int) color.Color {
	return p.RGBAAt(x, y)
}

// Bounds implements the image.Image interface.
func (p *Pixmap) Bounds() image.Rectangle {
	return image.Rect(0, 0, p.width, p.height)
}

// ColorModel implements the image.Image interface.
func (p *Pixmap) ColorModel() color.Model {
	return color.RGBAModel
}
