/*
Package palbmp is a library for turning photographs into small palette-indexed
bitmaps suitable for microcontroller displays, and for re-quantizing bitmaps
that were previously produced.

Each run scans one directory, pushes every matching file through the same
sequence of decode, crop, resize, quantize and encode steps described by a
Config and returns a Report with one Result per file.
*/
package palbmp

import "log/slog"

// Converter runs conversion batches using an Imager for all pixel work.
type Converter struct {
	imager Imager
	logger *slog.Logger
}

// New returns a Converter that delegates image operations to imager and
// reports progress to logger.
func New(imager Imager, logger *slog.Logger) *Converter {
	return &Converter{
		imager: imager,
		logger: logger,
	}
}
