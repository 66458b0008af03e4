package palbmp

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// findFiles returns the sorted names of the regular, non-hidden files in dir
// with one of the given extensions.
func findFiles(dir string, extensions []string) ([]string, error) {
	d, err := os.Open(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNoDirectory, dir)
		}
		return nil, err
	}
	defer d.Close()

	info, err := d.Stat()
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrNoDirectory, dir)
	}

	names, err := d.Readdirnames(0)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, name := range names {
		// Ignore any hidden files, this includes our own temporary files
		if name[0] == '.' {
			continue
		}

		if !hasExtension(name, extensions) {
			continue
		}

		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil || !info.Mode().IsRegular() {
			continue
		}

		files = append(files, name)
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoFiles, dir)
	}

	sort.Strings(files)

	return files, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err = io.Copy(out, in); err != nil {
		out.Close()
		return err
	}

	return out.Close()
}

// writeFile replaces file with b via a temporary file in the same directory
// so an interrupted write never leaves a truncated file behind.
func writeFile(file string, b []byte) error {
	f, err := os.CreateTemp(filepath.Dir(file), "."+filepath.Base(file)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	if _, err = f.Write(b); err != nil {
		f.Close()
		return err
	}

	if err = f.Chmod(0o644); err != nil {
		f.Close()
		return err
	}

	if err = f.Close(); err != nil {
		return err
	}

	return os.Rename(f.Name(), file)
}

func (c *Converter) logPalette(logger *slog.Logger, p color.Palette) {
	if !logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}

	colors := make([]string, 0, len(p))
	for _, pc := range p {
		cf, _ := colorful.MakeColor(pc)
		colors = append(colors, cf.Hex())
	}
	logger.Debug("palette", "colors", colors)
}

func (c *Converter) convertFile(src, dst, backup string, cfg Config) Result {
	logger := c.logger.With("file", filepath.Base(src))

	fail := func(op string, err error) Result {
		err = &FileError{Path: src, Op: op, Err: err}
		logger.Error("✗ conversion failed", "err", err)
		return Result{Path: src, Err: err}
	}

	info, err := os.Stat(src)
	if err != nil {
		return fail("open", err)
	}

	s := &Summary{
		Source:       src,
		Output:       dst,
		OriginalSize: info.Size(),
	}

	// Nothing is overwritten until the backup exists
	if backup != "" {
		logger.Info("backing up", "backup", backup)
		if err := copyFile(src, backup); err != nil {
			return fail("backup", err)
		}
		s.Backup = backup
	}

	m, err := c.imager.Open(src)
	if err != nil {
		return fail("open", err)
	}
	s.ModeBefore = Mode(m)
	logger.Info("converting", "mode", s.ModeBefore, "width", m.Bounds().Dx(), "height", m.Bounds().Dy())

	var out image.Image = truecolor(m)

	if cfg.Size > 0 {
		out = c.imager.Crop(out, SquareCropImage(out))
		out = truecolor(c.imager.Resize(out, cfg.Size, cfg.Size))
	}

	if cfg.PaletteSize > 0 {
		pm := c.imager.Quantize(out, cfg.PaletteSize, cfg.Dither)
		s.Colors = len(pm.Palette)
		c.logPalette(logger, pm.Palette)
		out = pm
	}
	s.ModeAfter = Mode(out)

	b := new(bytes.Buffer)
	if err := c.imager.Encode(b, out, cfg.Format); err != nil {
		return fail("encode", err)
	}

	if err := writeFile(dst, b.Bytes()); err != nil {
		return fail("write", err)
	}
	s.Size = int64(b.Len())

	if cfg.Verify {
		v, err := c.imager.Open(dst)
		if err != nil {
			return fail("verify", err)
		}
		s.VerifiedMode = Mode(v)
		logger.Info("verified", "mode", s.VerifiedMode)
	}

	logger.Info("✓ converted",
		"output", filepath.Base(dst),
		"mode", s.ModeAfter,
		"colors", s.Colors,
		"size", fmt.Sprintf("%d -> %d bytes", s.OriginalSize, s.Size))

	return Result{Path: src, Summary: s}
}

// Run converts every file in the source directory of cfg, relative to base.
// ErrNoDirectory and ErrNoFiles are returned before anything is written;
// once files are being processed failures are only recorded in the Report.
func (c *Converter) Run(base string, cfg Config) (*Report, error) {
	dir, err := filepath.Abs(base)
	if err != nil {
		return nil, err
	}

	src := filepath.Join(dir, cfg.SourceDir)
	files, err := findFiles(src, cfg.Extensions)
	if err != nil {
		return nil, err
	}

	c.logger.Info("found files", "count", len(files), "preset", cfg.Name, "directory", src)

	out := filepath.Join(dir, cfg.OutputDir)
	if err := os.MkdirAll(out, 0o755); err != nil {
		return nil, err
	}

	var backupDir string
	if cfg.Backup {
		backupDir = filepath.Join(dir, cfg.BackupDir)
		if err := os.MkdirAll(backupDir, 0o755); err != nil {
			return nil, err
		}
	}

	report := &Report{Config: cfg}
	written := make(map[string]string, len(files))
	for _, file := range files {
		var backup string
		if backupDir != "" {
			backup = filepath.Join(backupDir, file)
		}

		// Sources differing only by extension share an output file
		dst := filepath.Join(out, cfg.outputName(file))
		if previous, ok := written[strings.ToLower(dst)]; ok {
			c.logger.Warn("output overwrites an earlier file", "file", file, "previous", previous, "output", filepath.Base(dst))
		}
		written[strings.ToLower(dst)] = file

		report.Results = append(report.Results, c.convertFile(filepath.Join(src, file), dst, backup, cfg))
	}

	attrs := []any{"converted", report.Succeeded(), "failed", len(report.Failed())}
	if backupDir != "" {
		attrs = append(attrs, "backups", backupDir)
	}
	c.logger.Info("conversion complete", attrs...)

	return report, nil
}
