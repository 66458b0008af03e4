package palbmp

import (
	"fmt"
	"image"
	"io"
	"path/filepath"

	"github.com/mattn/go-sixel"
	"golang.org/x/image/draw"
)

// PreviewExtensions are the file types rendered by Preview.
var PreviewExtensions = []string{".bmp", ".pcx"}

// scale enlarges m by factor using nearest neighbour sampling, keeping the
// palette of paletted images intact.
func scale(m image.Image, factor int) image.Image {
	if factor <= 1 {
		return m
	}

	b := m.Bounds()
	r := image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor)

	var dst draw.Image
	if pm, ok := m.(*image.Paletted); ok {
		dst = image.NewPaletted(r, pm.Palette)
	} else {
		dst = image.NewNRGBA(r)
	}
	draw.NearestNeighbor.Scale(dst, r, m, b, draw.Src, nil)

	return dst
}

// Preview writes every bitmap in dir to w as sixel graphics, each preceded by
// its filename and enlarged by factor. Files that cannot be decoded are
// logged and skipped.
func (c *Converter) Preview(w io.Writer, dir string, factor int) error {
	files, err := findFiles(dir, PreviewExtensions)
	if err != nil {
		return err
	}

	for _, file := range files {
		m, err := c.imager.Open(filepath.Join(dir, file))
		if err != nil {
			c.logger.Warn("cannot preview", "file", file, "err", err)
			continue
		}

		if _, err := fmt.Fprintf(w, "%s (%s, %dx%d)\n", file, Mode(m), m.Bounds().Dx(), m.Bounds().Dy()); err != nil {
			return err
		}

		if err := sixel.NewEncoder(w).Encode(scale(m, factor)); err != nil {
			return err
		}

		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}

	return nil
}
