package palbmp

import (
	"path/filepath"
	"strings"
)

// Format is an output container format.
type Format int

// Supported output formats.
const (
	BMP Format = iota + 1
	PCX
)

func (f Format) String() string {
	switch f {
	case BMP:
		return "BMP"
	case PCX:
		return "PCX"
	default:
		return "unknown"
	}
}

// Ext returns the filename extension, including the leading dot.
func (f Format) Ext() string {
	return "." + strings.ToLower(f.String())
}

const (
	// OutputDir is the directory bitmaps are written to and read back from
	OutputDir = "bmp"
	// BackupDir holds copies of bitmaps taken before they are overwritten
	BackupDir = "bmp_backup"
	// DisplaySize is the width and height of the target display in pixels
	DisplaySize = 64
)

// Config describes one variant of the conversion pipeline. Directories are
// relative to the base directory passed to Converter.Run.
type Config struct {
	Name       string
	SourceDir  string
	Extensions []string
	OutputDir  string
	Format     Format
	// Size is the width and height of the output, zero disables cropping
	// and resizing
	Size int
	// PaletteSize is the maximum number of palette entries, zero keeps
	// the image truecolor
	PaletteSize int
	// Dither enables Floyd-Steinberg error diffusion when quantizing,
	// otherwise each pixel maps to its nearest palette entry
	Dither bool
	Backup      bool
	BackupDir   string
	// Verify re-opens each written file and reports its color mode
	Verify bool
}

// Preset configurations, one for each supported workflow.
var (
	// Convert crops and scales photographs to the display size and writes
	// them as truecolor bitmaps
	Convert = Config{
		Name:       "convert",
		SourceDir:  ".",
		Extensions: []string{".heic", ".heif", ".jpg", ".jpeg"},
		OutputDir:  OutputDir,
		Format:     BMP,
		Size:       DisplaySize,
	}

	// Index re-quantizes existing bitmaps in place to 32 colors
	Index = Config{
		Name:        "index",
		SourceDir:   OutputDir,
		Extensions:  []string{".bmp"},
		OutputDir:   OutputDir,
		Format:      BMP,
		PaletteSize: 32,
		Backup:      true,
		BackupDir:   BackupDir,
	}

	// Fix re-quantizes existing bitmaps in place to 32 colors and reads each
	// one back to check it was written paletted
	Fix = Config{
		Name:        "fix",
		SourceDir:   OutputDir,
		Extensions:  []string{".bmp"},
		OutputDir:   OutputDir,
		Format:      BMP,
		PaletteSize: 32,
		Backup:      true,
		BackupDir:   BackupDir,
		Verify:      true,
	}

	// Fix16 is the same as Fix but with a 16 color palette
	Fix16 = Config{
		Name:        "fix16",
		SourceDir:   OutputDir,
		Extensions:  []string{".bmp"},
		OutputDir:   OutputDir,
		Format:      BMP,
		PaletteSize: 16,
		Backup:      true,
		BackupDir:   BackupDir,
		Verify:      true,
	}

	// ToPCX writes a 32 color PCX copy of every bitmap alongside it
	ToPCX = Config{
		Name:        "pcx",
		SourceDir:   OutputDir,
		Extensions:  []string{".bmp"},
		OutputDir:   OutputDir,
		Format:      PCX,
		PaletteSize: 32,
	}
)

func hasExtension(file string, extensions []string) bool {
	ext := strings.ToLower(filepath.Ext(file))
	for _, e := range extensions {
		if ext == e {
			return true
		}
	}
	return false
}

func (c Config) outputName(file string) string {
	ext := filepath.Ext(file)
	if strings.EqualFold(ext, c.Format.Ext()) {
		return file
	}
	return strings.TrimSuffix(file, ext) + c.Format.Ext()
}
