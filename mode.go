package palbmp

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Mode returns a short name for the color representation of m, such as "P"
// for paletted or "RGB" for opaque truecolor.
func Mode(m image.Image) string {
	switch m := m.(type) {
	case *image.Paletted:
		return "P"
	case *image.Gray:
		return "L"
	case *image.Gray16:
		return "I;16"
	case *image.CMYK:
		return "CMYK"
	case *image.YCbCr:
		return "YCbCr"
	case *image.RGBA:
		if m.Opaque() {
			return "RGB"
		}
		return "RGBA"
	case *image.NRGBA:
		if m.Opaque() {
			return "RGB"
		}
		return "RGBA"
	}

	if _, ok := m.ColorModel().(color.Palette); ok {
		return "P"
	}
	return "RGBA"
}

// truecolor returns m as an opaque *image.NRGBA, discarding any alpha. An
// image that is already opaque NRGBA is returned as-is.
func truecolor(m image.Image) *image.NRGBA {
	if nrgba, ok := m.(*image.NRGBA); ok && nrgba.Opaque() {
		return nrgba
	}

	dst := imaging.Clone(m)
	for i := 3; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = 0xff
	}
	return dst
}
