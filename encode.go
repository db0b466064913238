package fractal

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Format is a raster image encoding for captures.
type Format uint8

const (
	// PNG is lossless and keeps alpha. It is the default capture format.
	PNG Format = iota

	// JPEG is lossy and drops alpha.
	JPEG

	// BMP is uncompressed.
	BMP

	// TIFF uses deflate compression with a horizontal predictor.
	TIFF
)

// JPEGQuality is the quality used for JPEG captures.
const JPEGQuality = 90

// String returns the format name.
func (f Format) String() string {
	switch f {
	case PNG:
		return "png"
	case JPEG:
		return "jpeg"
	case BMP:
		return "bmp"
	case TIFF:
		return "tiff"
	default:
		return fmt.Sprintf("Format(%d)", uint8(f))
	}
}

// Ext returns the file extension without the leading dot.
func (f Format) Ext() string {
	if f == JPEG {
		return "jpg"
	}
	return f.String()
}

// MIMEType returns the media type of the encoding.
func (f Format) MIMEType() string {
	switch f {
	case JPEG:
		return "image/jpeg"
	case BMP:
		return "image/bmp"
	case TIFF:
		return "image/tiff"
	default:
		return "image/png"
	}
}

// ParseFormat parses a format name or file extension, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "png":
		return PNG, nil
	case "jpeg", "jpg":
		return JPEG, nil
	case "bmp":
		return BMP, nil
	case "tiff", "tif":
		return TIFF, nil
	default:
		return PNG, fmt.Errorf("%w: unknown image format %q", ErrInvalidParameter, s)
	}
}

// Encode writes img to w in format f.
func Encode(w io.Writer, img image.Image, f Format) error {
	switch f {
	case PNG:
		return png.Encode(w, img)
	case JPEG:
		return jpeg.Encode(w, img, &jpeg.Options{Quality: JPEGQuality})
	case BMP:
		return bmp.Encode(w, img)
	case TIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	default:
		return fmt.Errorf("%w: unknown image format %d", ErrInvalidParameter, uint8(f))
	}
}

// Filename returns the export name for a capture of variant v,
// for example "mandelbrot.png".
func Filename(v Variant, f Format) string {
	return v.String() + "." + f.Ext()
}
