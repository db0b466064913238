// Package blend implements the separable compositing used by frame overlays.
//
// Pixels are straight (non-premultiplied) RGBA8, the layout of fractal.Pixmap.
//
// References:
//   - W3C Compositing and Blending Level 1: https://www.w3.org/TR/compositing-1/
package blend

// Func is a per-channel separable blend function B(Cs, Cb) on unmultiplied
// channel values.
type Func func(s, d byte) byte

// Difference produces the absolute difference between source and destination.
// Formula: B(Cb, Cs) = |Cb - Cs|
func Difference(s, d byte) byte {
	if s > d {
		return s - d
	}
	return d - s
}

// Pixel composites one source pixel onto the 4-byte destination pixel px
// with blend function fn, using
//
//	Cr = (1 - Sa) * Da * Cb + (1 - Da) * Sa * Cs + Sa * Da * B(Cs, Cb)
//	Ar = Sa + Da * (1 - Sa)
//
// and storing the straight (unpremultiplied) result.
func Pixel(px []byte, sr, sg, sb, sa byte, fn Func) {
	if sa == 0 {
		return
	}
	da := px[3]
	if da == 0 {
		px[0], px[1], px[2], px[3] = sr, sg, sb, sa
		return
	}
	if sa == 255 && da == 255 {
		px[0] = fn(sr, px[0])
		px[1] = fn(sg, px[1])
		px[2] = fn(sb, px[2])
		return
	}

	fs := float64(sa) / 255
	fd := float64(da) / 255
	outA := fs + fd*(1-fs)

	channel := func(s, d byte) byte {
		c := (1-fs)*fd*float64(d) + (1-fd)*fs*float64(s) + fs*fd*float64(fn(s, d))
		return clamp255(c/outA + 0.5)
	}

	px[0] = channel(sr, px[0])
	px[1] = channel(sg, px[1])
	px[2] = channel(sb, px[2])
	px[3] = clamp255(outA*255 + 0.5)
}

func clamp255(v float64) byte {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return byte(v)
}
