package palbmp

import (
	"errors"
	"image"
	"image/color"
	_ "image/jpeg" // JPEG source photographs
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/palbmp/pcx"
	"github.com/disintegration/imaging"
	"github.com/ericpauley/go-quantize/quantize"
	"github.com/jdeng/goheif"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
)

// Imager is the set of image operations the pipeline delegates to.
type Imager interface {
	// Open decodes the image stored in file.
	Open(file string) (image.Image, error)
	// Crop returns the part of m inside r, with its origin at (0, 0).
	Crop(m image.Image, r image.Rectangle) image.Image
	// Resize scales m to exactly width by height pixels.
	Resize(m image.Image, width, height int) image.Image
	// Quantize maps m onto a palette of at most colors entries.
	Quantize(m image.Image, colors int, dither bool) *image.Paletted
	// Encode writes m to w in format f.
	Encode(w io.Writer, m image.Image, f Format) error
}

// Library implements Imager using the imaging, go-quantize, goheif, x/image
// and pcx packages.
type Library struct{}

var _ Imager = Library{}

// Open decodes file. HEIC and HEIF files are decoded with goheif as stored,
// without applying orientation. Everything else goes through the registered
// image decoders with any EXIF orientation applied.
func (Library) Open(file string) (image.Image, error) {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".heic", ".heif":
		f, err := os.Open(file)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		return goheif.Decode(f)
	default:
		return imaging.Open(file, imaging.AutoOrientation(true))
	}
}

// Crop returns the part of m inside r.
func (Library) Crop(m image.Image, r image.Rectangle) image.Image {
	return imaging.Crop(m, r)
}

// Resize scales m using a Lanczos filter.
func (Library) Resize(m image.Image, width, height int) image.Image {
	return imaging.Resize(m, width, height, imaging.Lanczos)
}

// Quantize builds a median cut palette and maps m onto it, either directly or
// with Floyd-Steinberg error diffusion.
func (Library) Quantize(m image.Image, colors int, dither bool) *image.Paletted {
	b := m.Bounds()

	q := quantize.MedianCutQuantizer{}
	pm := image.NewPaletted(b, q.Quantize(make(color.Palette, 0, colors), m))

	if dither {
		draw.FloydSteinberg.Draw(pm, b, m, b.Min)
	} else {
		draw.Draw(pm, b, m, b.Min, draw.Src)
	}

	return pm
}

// Encode writes m to w as a BMP or PCX image.
func (Library) Encode(w io.Writer, m image.Image, f Format) error {
	switch f {
	case BMP:
		return bmp.Encode(w, m)
	case PCX:
		return pcx.Encode(w, m)
	default:
		return errors.New("palbmp: unsupported format")
	}
}
