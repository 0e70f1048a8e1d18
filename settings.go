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

package audiovis

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"seehuhn.de/go/audiovis/orient"
)

// Mode selects how samples are turned into shapes.
type Mode int

const (
	// Wave draws one smooth curve through all samples.
	Wave Mode = iota

	// Levels draws a column of up to ten cells per sample.
	Levels

	// Particles draws one floating marker per sample.
	Particles

	// Bars draws one bar per sample, growing from the baseline.
	Bars

	// Spine draws one square per sample, centred on the middle line.
	Spine
)

var modeNames = [...]string{
	Wave:      "wave",
	Levels:    "levels",
	Particles: "particles",
	Bars:      "bars",
	Spine:     "spine",
}

// Valid reports whether m is one of the defined modes.
func (m Mode) Valid() bool {
	return m >= 0 && int(m) < len(modeNames)
}

func (m Mode) String() string {
	if !m.Valid() {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

// ParseMode converts a mode name, as returned by [Mode.String], back to a
// Mode. Matching ignores case.
func ParseMode(s string) (Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for m, name := range modeNames {
		if name == s {
			return Mode(m), nil
		}
	}
	return Wave, fmt.Errorf("%q: %w", s, ErrUnknownMode)
}

var ErrUnknownMode = errors.New("unknown visualisation mode")

// Settings is a snapshot of all user-adjustable rendering parameters.
// Settings values are never modified by the renderer.
type Settings struct {
	Mode      Mode
	Direction orient.Direction
	Mirror    orient.Mirror

	// Filling selects filled shapes. Otherwise outlines are stroked with
	// width LinesThickness, and shapes are shrunk so that the stroke stays
	// inside the area a filled shape would cover.
	Filling        bool
	LinesThickness float64

	// ItemsOffset is the gap on each side of an item, as a fraction of
	// the item's cell. Valid values are in [0, 0.5).
	ItemsOffset float64

	// ItemsRoundness scales the corner radii of items, from 0 (sharp
	// corners) to 1 (corner radius half the item size).
	ItemsRoundness float64

	// AreaMargin is removed from every side of the viewport.
	AreaMargin float64

	// ReverseOrder draws the samples last to first.
	ReverseOrder bool
}

// DefaultSettings returns the settings used when no source is configured.
func DefaultSettings() Settings {
	return Settings{
		Mode:           Wave,
		Direction:      orient.BottomToTop,
		Mirror:         orient.Off,
		Filling:        true,
		LinesThickness: 5,
		ItemsOffset:    0.1,
		ItemsRoundness: 0.5,
	}
}

// Snapshot returns s itself, so that fixed settings can be used as a
// [Source].
func (s Settings) Snapshot() Settings {
	return s
}

// Sanitized returns a copy of s with all fields forced into their valid
// ranges. Unknown enumeration values are replaced by the first value of
// the respective type, and NaN counts as zero.
func (s Settings) Sanitized() Settings {
	if !s.Mode.Valid() {
		s.Mode = Wave
	}
	if !s.Direction.Valid() {
		s.Direction = orient.TopToBottom
	}
	if !s.Mirror.Valid() {
		s.Mirror = orient.Off
	}
	s.LinesThickness = clamp(s.LinesThickness, 0, math.Inf(1))
	s.ItemsOffset = clamp(s.ItemsOffset, 0, 0.5)
	s.ItemsRoundness = clamp(s.ItemsRoundness, 0, 1)
	s.AreaMargin = clamp(s.AreaMargin, 0, math.Inf(1))
	return s
}

// Source provides the settings for one frame.
type Source interface {
	// Snapshot returns a consistent copy of the current settings. It is
	// called exactly once per frame.
	Snapshot() Settings
}

// SourceFunc adapts a function to the [Source] interface.
type SourceFunc func() Settings

func (f SourceFunc) Snapshot() Settings {
	return f()
}

// clamp limits x to [lo, hi] and maps NaN to lo.
func clamp(x, lo, hi float64) float64 {
	if !(x >= lo) {
		return lo
	}
	return min(x, hi)
}
