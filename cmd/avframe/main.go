// seehuhn.de/go/audiovis - audio visualisation rendering
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Command avframe renders audio visualisation frames to image files.
//
// The samples come from a WAV file (-wav), from one of the built-in
// scenes (-scene), or from a synthetic test signal. Settings are read
// from AV_* environment variables, optionally loaded from a .env file.
//
// Usage:
//
//	avframe [flags]
//
// Example:
//
//	AV_MODE=bars avframe -wav song.wav -out out/frame-%05d.png
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"maps"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	"seehuhn.de/go/audiovis"
	"seehuhn.de/go/audiovis/canvas"
	"seehuhn.de/go/audiovis/config"
	"seehuhn.de/go/audiovis/scenes"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stderr); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, "avframe:", err)
		os.Exit(1)
	}
}

// options holds the command line flags.
type options struct {
	envFile  string
	wavFile  string
	scene    string
	frames   int
	out      string
	format   string
	realtime bool
	verbose  bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	o := &options{}
	fs := flag.NewFlagSet("avframe", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.envFile, "env", ".env", "load environment variables from `file`")
	fs.StringVar(&o.wavFile, "wav", "", "read samples from a WAV `file`")
	fs.StringVar(&o.scene, "scene", "", "render the built-in scene `category_name`")
	fs.IntVar(&o.frames, "frames", 0, "number of frames to render (0: until the input ends)")
	fs.StringVar(&o.out, "out", "", "output file `pattern`, with a %d verb for the frame number")
	fs.StringVar(&o.format, "format", "png", "output format, png or pdf")
	fs.BoolVar(&o.realtime, "realtime", false, "pace frames at the configured frame rate")
	fs.BoolVar(&o.verbose, "v", false, "enable debug output")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}

	o.format = strings.ToLower(o.format)
	if o.format != "png" && o.format != "pdf" {
		return nil, fmt.Errorf("unknown output format %q", o.format)
	}
	if o.wavFile != "" && o.scene != "" {
		return nil, errors.New("-wav and -scene cannot be used together")
	}
	if o.out == "" {
		o.out = "frame-%04d." + o.format
	}
	return o, nil
}

func run(ctx context.Context, args []string, stderr io.Writer) error {
	o, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	if err := config.LoadEnvFile(o.envFile); err != nil {
		return err
	}
	cfg, cfgErr := config.Load()

	level := cfg.LogLevel
	if o.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(newPrettyHandler(stderr, &slog.HandlerOptions{Level: level}))
	if cfgErr != nil {
		logger.Warn("ignoring invalid settings", "error", cfgErr)
	}

	var src frameSource
	width, height := cfg.Width, cfg.Height
	switch {
	case o.wavFile != "":
		ws, err := openWAV(o.wavFile, cfg.Framerate, cfg.BarPairs, cfg.Stereo)
		if err != nil {
			return err
		}
		defer ws.Close()
		if !ws.stereo {
			cfg.Stereo = false
		}
		src = ws
		if o.frames > 0 {
			src = &limitSource{src: ws, frames: o.frames}
		}
		logger.Info("reading audio", "file", o.wavFile, "channels", ws.channels, "stereo", ws.stereo)
	case o.scene != "":
		sc, err := findScene(o.scene)
		if err != nil {
			return err
		}
		cfg.Settings = sc.Settings
		cfg.Stereo = true
		width, height = sc.Width, sc.Height
		src = &fixedSource{samples: sc.Samples, frames: max(o.frames, 1)}
	default:
		frames := o.frames
		if frames == 0 {
			frames = cfg.Framerate
		}
		src = newSynthSource(cfg.Samples(), frames)
	}

	store := config.NewStore(cfg.RenderSettings())
	out, err := newOutput(o.format, o.out, width, height)
	if err != nil {
		return err
	}
	r := &audiovis.Renderer{Canvas: out.canvas, Source: store, Logger: logger}

	var tick <-chan time.Time
	if o.realtime {
		ticker := time.NewTicker(time.Second / time.Duration(cfg.Framerate))
		defer ticker.Stop()
		tick = ticker.C
	}

	start := time.Now()
	n := 0
	for {
		if tick != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-tick:
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}

		samples, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return err
		}

		r.Draw(samples, float64(width), float64(height))
		if err := out.err(); err != nil {
			return err
		}
		logger.Debug("frame done", "frame", n)
		n++
	}

	logger.Info("done", "frames", n, "elapsed", time.Since(start).Round(time.Millisecond))
	return nil
}

// findScene looks up a scene by its full name, category_name.
func findScene(name string) (scenes.Scene, error) {
	for _, category := range slices.Sorted(maps.Keys(scenes.All)) {
		for _, sc := range scenes.All[category] {
			if category+"_"+sc.Name == name {
				return sc, nil
			}
		}
	}
	return scenes.Scene{}, fmt.Errorf("unknown scene %q", name)
}

// limitSource stops another source after a number of frames.
type limitSource struct {
	src    frameSource
	frames int
}

func (s *limitSource) Next() ([]float64, error) {
	if s.frames <= 0 {
		return nil, io.EOF
	}
	s.frames--
	return s.src.Next()
}

// output is a canvas which writes one file per frame.
type output struct {
	canvas canvas.Canvas
	err    func() error
}

func newOutput(format, pattern string, width, height int) (*output, error) {
	switch format {
	case "pdf":
		c := canvas.NewPDF(pattern, float64(width), float64(height))
		return &output{canvas: c, err: c.Err}, nil
	default:
		c := canvas.NewImage(width, height)
		frame := 0
		c.OnFlush = func(img *image.RGBA) error {
			name := canvas.FrameName(pattern, frame)
			frame++
			return writePNG(name, img)
		}
		return &output{canvas: c, err: c.Err}, nil
	}
}

func writePNG(name string, img image.Image) error {
	fd, err := os.Create(name)
	if err != nil {
		return err
	}
	err = png.Encode(fd, img)
	if cerr := fd.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}
