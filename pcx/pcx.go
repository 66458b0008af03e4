/*
Package pcx implements a decoder and encoder for 8-bit paletted ZSoft PCX
images.

Only the single plane, 8 bits per pixel variant is supported, which is the
variant written for indexed images by most tools and understood by small
display libraries. The file is a 128 byte header, run-length encoded
scanlines, a marker byte and finally a 256 entry palette of 8-bit RGB
triplets.

A run is encoded as a count byte with the top two bits set, holding a length
of up to 63, followed by the value. Any value with the top two bits set must
therefore always be written as a run, even if its length is one.
*/
package pcx

import "image"

const (
	headerSize     = 128
	manufacturer   = 0x0a
	version        = 5
	encodingRLE    = 1
	bitsPerPixel   = 8
	numPlanes      = 1
	paletteMarker  = 0x0c
	paletteColors  = 256
	paletteSize    = paletteColors * 3
	paletteInfo    = 1
	runFlag        = 0xc0
	runMask        = 0x3f
	maxRunLength   = runMask
	defaultDPI     = 72
	egaPaletteSize = 48
)

func init() {
	image.RegisterFormat("pcx", "\x0a?\x01\x08", Decode, DecodeConfig)
}
