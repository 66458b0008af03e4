package pcx

import (
	"bufio"
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"io"
)

var (
	errNotEnough    = errors.New("pcx: not enough image data")
	errBadHeader    = errors.New("pcx: invalid header")
	errUnsupported  = errors.New("pcx: unsupported format, only 8-bit single plane images are supported")
	errBadPalette   = errors.New("pcx: missing palette")
	errBadDimension = errors.New("pcx: invalid dimensions")
)

func readFull(r io.Reader, b []byte) error {
	_, err := io.ReadFull(r, b)
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return err
}

type decoder struct {
	r *bufio.Reader

	width, height int
	bytesPerLine  int

	image   *image.Paletted
	palette color.Palette

	tmp [headerSize]byte
}

func (d *decoder) readHeader() error {
	if err := readFull(d.r, d.tmp[:]); err != nil {
		return err
	}

	if d.tmp[0] != manufacturer || d.tmp[2] != encodingRLE {
		return errBadHeader
	}
	if d.tmp[3] != bitsPerPixel || d.tmp[65] != numPlanes {
		return errUnsupported
	}

	xMin := int(binary.LittleEndian.Uint16(d.tmp[4:]))
	yMin := int(binary.LittleEndian.Uint16(d.tmp[6:]))
	xMax := int(binary.LittleEndian.Uint16(d.tmp[8:]))
	yMax := int(binary.LittleEndian.Uint16(d.tmp[10:]))
	if xMax < xMin || yMax < yMin {
		return errBadDimension
	}
	d.width = xMax - xMin + 1
	d.height = yMax - yMin + 1

	d.bytesPerLine = int(binary.LittleEndian.Uint16(d.tmp[66:]))
	if d.bytesPerLine < d.width {
		return errBadDimension
	}

	return nil
}

// readScanline expands one run-length encoded scanline into line. Runs are
// allowed to cross into the next scanline so any leftover is returned.
func (d *decoder) readScanline(line []byte, carry int, value byte) (int, byte, error) {
	i := 0
	for ; carry > 0 && i < len(line); carry-- {
		line[i] = value
		i++
	}
	for i < len(line) {
		b, err := d.r.ReadByte()
		if err != nil {
			return 0, 0, err
		}
		n := 1
		if b&runFlag == runFlag {
			n = int(b & runMask)
			if b, err = d.r.ReadByte(); err != nil {
				return 0, 0, err
			}
		}
		for ; n > 0 && i < len(line); n-- {
			line[i] = b
			i++
		}
		carry, value = n, b
	}
	return carry, value, nil
}

func (d *decoder) readPixels(configOnly bool) error {
	line := make([]byte, d.bytesPerLine)

	if !configOnly {
		d.image = image.NewPaletted(image.Rect(0, 0, d.width, d.height), nil)
	}

	var (
		carry int
		value byte
		err   error
	)
	for y := 0; y < d.height; y++ {
		if carry, value, err = d.readScanline(line, carry, value); err != nil {
			if err == io.EOF {
				return io.ErrUnexpectedEOF
			}
			return err
		}
		if !configOnly {
			copy(d.image.Pix[y*d.image.Stride:], line[:d.width])
		}
	}

	return nil
}

func (d *decoder) readPalette() error {
	marker, err := d.r.ReadByte()
	if err != nil {
		if err == io.EOF {
			return errBadPalette
		}
		return err
	}
	if marker != paletteMarker {
		return errBadPalette
	}

	var tmp [paletteSize]byte
	if err := readFull(d.r, tmp[:]); err != nil {
		return err
	}

	d.palette = make(color.Palette, paletteColors)
	for i := range d.palette {
		d.palette[i] = color.RGBA{tmp[i*3], tmp[i*3+1], tmp[i*3+2], 0xff}
	}

	return nil
}

func (d *decoder) decode(r io.Reader, configOnly bool) error {
	d.r = bufio.NewReader(r)

	if err := d.readHeader(); err != nil {
		if err != io.ErrUnexpectedEOF {
			return err
		}
		return errNotEnough
	}

	if err := d.readPixels(configOnly); err != nil {
		if err != io.ErrUnexpectedEOF {
			return err
		}
		return errNotEnough
	}

	if err := d.readPalette(); err != nil {
		if err != io.ErrUnexpectedEOF {
			return err
		}
		return errNotEnough
	}

	if !configOnly {
		d.image.Palette = d.palette
	}

	return nil
}

// Decode reads a PCX image from r and returns it as an image.Image. The
// concrete type is always *image.Paletted with a 256 color palette.
func Decode(r io.Reader) (image.Image, error) {
	var d decoder
	if err := d.decode(r, false); err != nil {
		return nil, err
	}
	return d.image, nil
}

// DecodeConfig returns the color model and dimensions of a PCX image. As the
// palette is stored after the pixel data the whole image is still read.
func DecodeConfig(r io.Reader) (image.Config, error) {
	var d decoder
	if err := d.decode(r, true); err != nil {
		return image.Config{}, err
	}
	return image.Config{
		ColorModel: d.palette,
		Width:      d.width,
		Height:     d.height,
	}, nil
}
