package main

import (
	"errors"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/bodgit/palbmp"
	"github.com/lmittmann/tint"
	"github.com/urfave/cli/v2"
	"golang.org/x/term"
)

const previewScale = 4

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newLogger(c *cli.Context) *slog.Logger {
	level := slog.LevelInfo
	if c.Bool("verbose") {
		level = slog.LevelDebug
	}

	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05",
		NoColor:    !term.IsTerminal(int(os.Stderr.Fd())),
	}))
}

func runAction(cfg palbmp.Config) cli.ActionFunc {
	return func(c *cli.Context) error {
		logger := newLogger(c)

		m := palbmp.New(palbmp.Library{}, logger)

		if _, err := m.Run(c.String("dir"), cfg); err != nil {
			if errors.Is(err, palbmp.ErrNoDirectory) || errors.Is(err, palbmp.ErrNoFiles) {
				logger.Warn("nothing to do", "err", err)
				return nil
			}
			return cli.NewExitError(err, 1)
		}

		return nil
	}
}

func main() {
	app := cli.NewApp()

	app.Name = "palbmp"
	app.Usage = "Convert photographs to palette-indexed bitmaps for small displays"
	app.Version = "1.0.0"

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "dir",
			EnvVars: []string{"PALBMP_DIR"},
			Value:   cwd,
			Usage:   "base directory containing photographs and the bmp directory",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:        "convert",
			Usage:       "Crop and scale HEIC/JPEG photographs to 64x64 bitmaps",
			Description: "Reads photographs from the base directory and writes truecolor bitmaps to the bmp directory.",
			Action:      runAction(palbmp.Convert),
		},
		{
			Name:        "index",
			Usage:       "Re-quantize bitmaps in place to 32 colors",
			Description: "Each bitmap is copied to the bmp_backup directory before being overwritten.",
			Action:      runAction(palbmp.Index),
		},
		{
			Name:        "fix",
			Usage:       "Re-quantize bitmaps in place to 32 colors without dithering",
			Description: "Each bitmap is copied to the bmp_backup directory before being overwritten and re-read afterwards.",
			Action:      runAction(palbmp.Fix),
		},
		{
			Name:        "fix16",
			Usage:       "Re-quantize bitmaps in place to 16 colors without dithering",
			Description: "Each bitmap is copied to the bmp_backup directory before being overwritten and re-read afterwards.",
			Action:      runAction(palbmp.Fix16),
		},
		{
			Name:        "pcx",
			Usage:       "Write a 32 color PCX copy of every bitmap",
			Description: "PCX files are written alongside the bitmaps in the bmp directory.",
			Action:      runAction(palbmp.ToPCX),
		},
		{
			Name:        "show",
			Usage:       "Display bitmaps in the terminal using sixel graphics",
			Description: "",
			ArgsUsage:   "[DIRECTORY]",
			Action: func(c *cli.Context) error {
				if !term.IsTerminal(int(os.Stdout.Fd())) {
					return cli.NewExitError("standard output is not a terminal", 1)
				}

				logger := newLogger(c)

				dir := filepath.Join(c.String("dir"), palbmp.OutputDir)
				if c.NArg() > 0 {
					dir = c.Args().First()
				}

				m := palbmp.New(palbmp.Library{}, logger)

				if err := m.Preview(os.Stdout, dir, previewScale); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
