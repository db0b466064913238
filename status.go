package fractal

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// maxPlainZoom is the largest zoom printed as a plain integer; larger values
// switch to exponent notation.
const maxPlainZoom = 1e12

// StatusText draws the view center and zoom in the bottom-right corner:
//
//	x:-0.743643
//	y:0.131825
//	12345
type StatusText struct {
	face    font.Face
	printer *message.Printer
	fg      color.RGBA
	shadow  color.RGBA
	margin  int
}

// NewStatusText creates a status overlay using Go Mono at size points.
// The zoom is printed in the digits of tag, without grouping separators.
func NewStatusText(size float64, tag language.Tag) (*StatusText, error) {
	f, err := opentype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("fractal: failed to parse status font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("fractal: failed to create status face: %w", err)
	}
	return &StatusText{
		face:    face,
		printer: message.NewPrinter(tag),
		fg:      color.RGBA{R: 255, G: 255, B: 255, A: 255},
		shadow:  color.RGBA{A: 255},
		margin:  10,
	}, nil
}

// Lines returns the status lines for view.
func (s *StatusText) Lines(view ViewState) []string {
	zoom := s.printer.Sprint(number.Decimal(view.Zoom, number.MaxFractionDigits(0), number.NoSeparator()))
	if view.Zoom >= maxPlainZoom {
		zoom = fmt.Sprintf("%.3e", view.Zoom)
	}
	return []string{
		fmt.Sprintf("x:%.6f", view.Center.X),
		fmt.Sprintf("y:%.6f", view.Center.Y),
		zoom,
	}
}

// Draw implements Overlay.
func (s *StatusText) Draw(frame *Pixmap, view ViewState) {
	lines := s.Lines(view)
	metrics := s.face.Metrics()
	lineHeight := metrics.Height.Ceil()

	baseline := frame.Height() - s.margin - metrics.Descent.Ceil() - (len(lines)-1)*lineHeight
	for _, line := range lines {
		width := font.MeasureString(s.face, line).Ceil()
		x := frame.Width() - s.margin - width

		s.drawString(frame, line, x+1, baseline+1, s.shadow)
		s.drawString(frame, line, x, baseline, s.fg)
		baseline += lineHeight
	}
}

func (s *StatusText) drawString(frame *Pixmap, text string, x, y int, c color.RGBA) {
	d := &font.Drawer{
		Dst:  frame,
		Src:  image.NewUniform(c),
		Face: s.face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}
