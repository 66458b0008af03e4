package pcx

import (
	"bufio"
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"io"

	"github.com/ericpauley/go-quantize/quantize"
)

type encoder struct {
	w *bufio.Writer
}

func (e *encoder) writeHeader(m *image.Paletted, bytesPerLine int) error {
	var h [headerSize]byte

	h[0] = manufacturer
	h[1] = version
	h[2] = encodingRLE
	h[3] = bitsPerPixel

	r := m.Bounds()
	binary.LittleEndian.PutUint16(h[8:], uint16(r.Dx()-1))
	binary.LittleEndian.PutUint16(h[10:], uint16(r.Dy()-1))
	binary.LittleEndian.PutUint16(h[12:], defaultDPI)
	binary.LittleEndian.PutUint16(h[14:], defaultDPI)

	// The 16 color EGA palette is unused at 8 bits per pixel but some
	// readers still look at it, so mirror the first entries into it
	for i := 0; i < len(m.Palette) && i < egaPaletteSize/3; i++ {
		r, g, b, _ := m.Palette[i].RGBA()
		h[16+i*3+0] = byte(r >> 8)
		h[16+i*3+1] = byte(g >> 8)
		h[16+i*3+2] = byte(b >> 8)
	}

	h[65] = numPlanes
	binary.LittleEndian.PutUint16(h[66:], uint16(bytesPerLine))
	binary.LittleEndian.PutUint16(h[68:], paletteInfo)

	_, err := e.w.Write(h[:])
	return err
}

func (e *encoder) writeRun(value byte, n int) error {
	if n == 1 && value&runFlag != runFlag {
		return e.w.WriteByte(value)
	}
	if err := e.w.WriteByte(runFlag | byte(n)); err != nil {
		return err
	}
	return e.w.WriteByte(value)
}

func (e *encoder) writeScanline(line []byte) error {
	for i := 0; i < len(line); {
		n := 1
		for i+n < len(line) && n < maxRunLength && line[i+n] == line[i] {
			n++
		}
		if err := e.writeRun(line[i], n); err != nil {
			return err
		}
		i += n
	}
	return nil
}

func (e *encoder) writePalette(p color.Palette) error {
	var tmp [1 + paletteSize]byte
	tmp[0] = paletteMarker
	for i, c := range p {
		r, g, b, _ := c.RGBA()
		tmp[1+i*3+0] = byte(r >> 8)
		tmp[1+i*3+1] = byte(g >> 8)
		tmp[1+i*3+2] = byte(b >> 8)
	}
	_, err := e.w.Write(tmp[:])
	return err
}

func (e *encoder) encode(m *image.Paletted) error {
	b := m.Bounds()

	// Scanlines are always an even number of bytes
	bytesPerLine := (b.Dx() + 1) &^ 1

	if err := e.writeHeader(m, bytesPerLine); err != nil {
		return err
	}

	line := make([]byte, bytesPerLine)
	for y := 0; y < b.Dy(); y++ {
		copy(line, m.Pix[y*m.Stride:y*m.Stride+b.Dx()])
		if err := e.writeScanline(line); err != nil {
			return err
		}
	}

	if err := e.writePalette(m.Palette); err != nil {
		return err
	}

	return e.w.Flush()
}

// Encode writes the Image m to w in 8-bit PCX format. Images that are not
// already paletted are reduced to 256 colors with a median cut quantizer.
func Encode(w io.Writer, m image.Image) error {
	// Scanlines are padded to an even length which must still fit in 16 bits
	b := m.Bounds()
	if b.Dx() < 1 || b.Dy() < 1 || b.Dx() > 0xfffe || b.Dy() > 0xffff {
		return errors.New("pcx: invalid image size")
	}

	pm, _ := m.(*image.Paletted)
	if pm == nil {
		if cp, ok := m.ColorModel().(color.Palette); ok && len(cp) <= paletteColors {
			pm = image.NewPaletted(b, cp)
			for y := b.Min.Y; y < b.Max.Y; y++ {
				for x := b.Min.X; x < b.Max.X; x++ {
					pm.Set(x, y, cp.Convert(m.At(x, y)))
				}
			}
		}
	}
	if pm == nil || len(pm.Palette) > paletteColors {
		q := quantize.MedianCutQuantizer{}
		pm = image.NewPaletted(b, q.Quantize(make(color.Palette, 0, paletteColors), m))
		draw.Draw(pm, b, m, b.Min, draw.Src)
	}

	// Adjust image so that top-left corner is at (0, 0)
	if pm.Rect.Min != (image.Point{}) {
		dup := *pm
		dup.Rect = dup.Rect.Sub(dup.Rect.Min)
		pm = &dup
	}

	e := encoder{w: bufio.NewWriter(w)}

	return e.encode(pm)
}
