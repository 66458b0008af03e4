package palbmp

import "image"

// SquareCrop returns the largest square centred on the longer dimension of a
// w by h image.
func SquareCrop(w, h int) image.Rectangle {
	if w > h {
		left := (w - h) / 2
		return image.Rect(left, 0, left+h, h)
	}
	top := (h - w) / 2
	return image.Rect(0, top, w, top+w)
}

// SquareCropImage returns the SquareCrop region for m, positioned relative to
// the origin of its bounds.
func SquareCropImage(m image.Image) image.Rectangle {
	b := m.Bounds()
	return SquareCrop(b.Dx(), b.Dy()).Add(b.Min)
}
