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

// Package config loads visualiser settings from the environment.
//
// All variables use the prefix AV_. Unset variables take their default
// value. Malformed values are reported, and the default is used in their
// place, so that a usable configuration is always returned.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"seehuhn.de/go/audiovis"
	"seehuhn.de/go/audiovis/orient"
)

// Config holds the rendering settings together with the parameters of
// the surrounding frame loop.
type Config struct {
	Settings audiovis.Settings

	Framerate int  // frames per second
	BarPairs  int  // the number of samples per frame is 2·BarPairs
	Stereo    bool // the second half of the samples is the right channel

	Width  int // canvas size in pixels
	Height int

	LogLevel slog.Level
}

// ErrInvalidValue is wrapped by all errors returned by [Load].
var ErrInvalidValue = errors.New("invalid configuration value")

// Default returns the configuration used when no variables are set.
func Default() Config {
	return Config{
		Settings:  audiovis.DefaultSettings(),
		Framerate: 60,
		BarPairs:  6,
		Stereo:    true,
		Width:     800,
		Height:    400,
		LogLevel:  slog.LevelInfo,
	}
}

// Load reads the configuration from the environment.
//
// The returned Config is always usable. If some variables could not be
// parsed, the error lists all of them.
func Load() (Config, error) {
	l := &loader{}
	def := Default()
	s := def.Settings

	c := Config{
		Settings: audiovis.Settings{
			Mode:           envEnum(l, "AV_MODE", s.Mode, audiovis.ParseMode),
			Direction:      envEnum(l, "AV_DIRECTION", s.Direction, orient.ParseDirection),
			Mirror:         envEnum(l, "AV_MIRROR", s.Mirror, orient.ParseMirror),
			Filling:        l.envBool("AV_FILLING", s.Filling),
			LinesThickness: l.envFloat("AV_LINES_THICKNESS", s.LinesThickness, 0, 1000),
			ItemsOffset:    l.envFloat("AV_ITEMS_OFFSET", s.ItemsOffset, 0, 0.5),
			ItemsRoundness: l.envFloat("AV_ITEMS_ROUNDNESS", s.ItemsRoundness, 0, 1),
			AreaMargin:     l.envFloat("AV_AREA_MARGIN", s.AreaMargin, 0, 1000),
			ReverseOrder:   l.envBool("AV_REVERSE_ORDER", s.ReverseOrder),
		},
		Framerate: l.envInt("AV_FRAMERATE", def.Framerate, 1, 240),
		BarPairs:  l.envInt("AV_BAR_PAIRS", def.BarPairs, 1, 50),
		Stereo:    l.envBool("AV_STEREO", def.Stereo),
		Width:     l.envInt("AV_WIDTH", def.Width, 1, 16384),
		Height:    l.envInt("AV_HEIGHT", def.Height, 1, 16384),
		LogLevel:  l.envLevel("AV_LOG_LEVEL", def.LogLevel),
	}
	return c, errors.Join(l.errs...)
}

// LoadEnvFile sets environment variables from a .env file. Variables
// which are already set are not changed. A missing file is not an error.
func LoadEnvFile(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// RenderSettings returns the settings to pass to the renderer.
//
// Split channels need a stereo signal. For mono input the full mirror
// is used instead.
func (c Config) RenderSettings() audiovis.Settings {
	s := c.Settings
	if s.Mirror == orient.SplitChannels && !c.Stereo {
		s.Mirror = orient.Full
	}
	return s
}

// Samples returns the number of samples per frame.
func (c Config) Samples() int {
	return 2 * c.BarPairs
}

// loader collects the parse errors of one [Load] call.
type loader struct {
	errs []error
}

func (l *loader) fail(key, val string, err error) {
	l.errs = append(l.errs, fmt.Errorf("%s=%q: %w: %w", key, val, ErrInvalidValue, err))
}

func envStr(key string) (string, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	return v, v != ""
}

func (l *loader) envInt(key string, fallback, lo, hi int) int {
	v, ok := envStr(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		l.fail(key, v, err)
		return fallback
	}
	if n < lo || n > hi {
		l.fail(key, v, fmt.Errorf("not in range [%d, %d]", lo, hi))
		return fallback
	}
	return n
}

func (l *loader) envFloat(key string, fallback, lo, hi float64) float64 {
	v, ok := envStr(key)
	if !ok {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		l.fail(key, v, err)
		return fallback
	}
	if !(f >= lo && f <= hi) {
		l.fail(key, v, fmt.Errorf("not in range [%g, %g]", lo, hi))
		return fallback
	}
	return f
}

func (l *loader) envBool(key string, fallback bool) bool {
	v, ok := envStr(key)
	if !ok {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		l.fail(key, v, err)
		return fallback
	}
	return b
}

func (l *loader) envLevel(key string, fallback slog.Level) slog.Level {
	v, ok := envStr(key)
	if !ok {
		return fallback
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(v)); err != nil {
		l.fail(key, v, err)
		return fallback
	}
	return level
}

func envEnum[T any](l *loader, key string, fallback T, parse func(string) (T, error)) T {
	v, ok := envStr(key)
	if !ok {
		return fallback
	}
	x, err := parse(v)
	if err != nil {
		l.fail(key, v, err)
		return fallback
	}
	return x
}
