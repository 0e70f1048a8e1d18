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

// Package scenes provides a catalogue of sample inputs and settings which
// exercise all visualisation modes. The scenes are used by the command
// line tools and as regression inputs in tests.
package scenes

import (
	"math"

	"seehuhn.de/go/audiovis"
	"seehuhn.de/go/audiovis/orient"
)

// Scene is a single frame to render.
type Scene struct {
	Name     string // lowercase a-z, 0-9 and _ only
	Samples  []float64
	Settings audiovis.Settings
	Width    int // viewport size in pixels
	Height   int
}

// All contains all scenes, grouped by category.
// Output files are named by joining category and scene name with "_".
var All = map[string][]Scene{
	"wave":      waveScenes,
	"levels":    levelsScenes,
	"particles": particlesScenes,
	"bars":      barsScenes,
	"spine":     spineScenes,
	"mirror":    mirrorScenes,
	"edge":      edgeScenes,
}

// with returns the default settings, modified by fn.
func with(mode audiovis.Mode, fn func(s *audiovis.Settings)) audiovis.Settings {
	s := audiovis.DefaultSettings()
	s.Mode = mode
	if fn != nil {
		fn(&s)
	}
	return s
}

// ramp returns n samples rising linearly from 1/n to 1.
func ramp(n int) []float64 {
	res := make([]float64, n)
	for i := range res {
		res[i] = float64(i+1) / float64(n)
	}
	return res
}

// spectrum returns n samples resembling the magnitude spectrum of music:
// strong bass, a mid-range bump and a falling treble.
func spectrum(n int) []float64 {
	res := make([]float64, n)
	for i := range res {
		x := (float64(i) + 0.5) / float64(n)
		bass := 0.9 * math.Exp(-8*x)
		mid := 0.5 * math.Exp(-40*(x-0.45)*(x-0.45))
		res[i] = min(bass+mid+0.05, 1)
	}
	return res
}

// stereo returns left followed by the right channel, where the right
// channel is a damped copy of the left one.
func stereo(left []float64, damping float64) []float64 {
	res := make([]float64, 2*len(left))
	copy(res, left)
	for i, s := range left {
		res[len(left)+i] = s * damping
	}
	return res
}

var waveScenes = []Scene{
	{
		Name:     "spectrum_filled",
		Samples:  spectrum(12),
		Settings: with(audiovis.Wave, nil),
		Width:    320,
		Height:   160,
	},
	{
		Name:    "spectrum_outline",
		Samples: spectrum(12),
		Settings: with(audiovis.Wave, func(s *audiovis.Settings) {
			s.Filling = false
			s.LinesThickness = 3
		}),
		Width:  320,
		Height: 160,
	},
	{
		Name:    "ramp_left_to_right",
		Samples: ramp(8),
		Settings: with(audiovis.Wave, func(s *audiovis.Settings) {
			s.Direction = orient.LeftToRight
		}),
		Width:  160,
		Height: 320,
	},
	{
		Name:    "ramp_top_to_bottom_margin",
		Samples: ramp(8),
		Settings: with(audiovis.Wave, func(s *audiovis.Settings) {
			s.Direction = orient.TopToBottom
			s.AreaMargin = 16
		}),
		Width:  320,
		Height: 160,
	},
}

var levelsScenes = []Scene{
	{
		Name:     "spectrum",
		Samples:  spectrum(12),
		Settings: with(audiovis.Levels, nil),
		Width:    320,
		Height:   200,
	},
	{
		Name:    "ramp_outline_square",
		Samples: ramp(10),
		Settings: with(audiovis.Levels, func(s *audiovis.Settings) {
			s.Filling = false
			s.LinesThickness = 2
			s.ItemsRoundness = 0
		}),
		Width:  320,
		Height: 200,
	},
	{
		Name:    "right_to_left_round",
		Samples: spectrum(8),
		Settings: with(audiovis.Levels, func(s *audiovis.Settings) {
			s.Direction = orient.RightToLeft
			s.ItemsRoundness = 1
			s.ItemsOffset = 0.2
		}),
		Width:  240,
		Height: 240,
	},
}

var particlesScenes = []Scene{
	{
		Name:     "spectrum",
		Samples:  spectrum(16),
		Settings: with(audiovis.Particles, nil),
		Width:    320,
		Height:   200,
	},
	{
		Name:    "ramp_outline",
		Samples: ramp(12),
		Settings: with(audiovis.Particles, func(s *audiovis.Settings) {
			s.Filling = false
			s.LinesThickness = 2
			s.Direction = orient.TopToBottom
		}),
		Width:  320,
		Height: 200,
	},
}

var barsScenes = []Scene{
	{
		Name:     "spectrum",
		Samples:  spectrum(12),
		Settings: with(audiovis.Bars, nil),
		Width:    320,
		Height:   160,
	},
	{
		Name:    "ramp_outline_reversed",
		Samples: ramp(10),
		Settings: with(audiovis.Bars, func(s *audiovis.Settings) {
			s.Filling = false
			s.LinesThickness = 4
			s.ReverseOrder = true
		}),
		Width:  320,
		Height: 160,
	},
	{
		Name:    "left_to_right_no_gap",
		Samples: spectrum(20),
		Settings: with(audiovis.Bars, func(s *audiovis.Settings) {
			s.Direction = orient.LeftToRight
			s.ItemsOffset = 0
		}),
		Width:  160,
		Height: 320,
	},
}

var spineScenes = []Scene{
	{
		Name:     "spectrum",
		Samples:  spectrum(12),
		Settings: with(audiovis.Spine, nil),
		Width:    360,
		Height:   120,
	},
	{
		Name:    "ramp_outline_vertical",
		Samples: ramp(8),
		Settings: with(audiovis.Spine, func(s *audiovis.Settings) {
			s.Direction = orient.LeftToRight
			s.Filling = false
			s.LinesThickness = 2
			s.ItemsRoundness = 1
		}),
		Width:  120,
		Height: 360,
	},
}

var mirrorScenes = []Scene{
	{
		Name:    "wave_full",
		Samples: spectrum(12),
		Settings: with(audiovis.Wave, func(s *audiovis.Settings) {
			s.Mirror = orient.Full
		}),
		Width:  320,
		Height: 200,
	},
	{
		Name:    "bars_split_channels",
		Samples: stereo(spectrum(6), 0.6),
		Settings: with(audiovis.Bars, func(s *audiovis.Settings) {
			s.Mirror = orient.SplitChannels
			s.Direction = orient.TopToBottom
		}),
		Width:  320,
		Height: 200,
	},
	{
		Name:    "levels_full_horizontal",
		Samples: spectrum(8),
		Settings: with(audiovis.Levels, func(s *audiovis.Settings) {
			s.Mirror = orient.Full
			s.Direction = orient.LeftToRight
		}),
		Width:  320,
		Height: 200,
	},
	{
		Name:    "particles_split_channels_outline",
		Samples: stereo(ramp(6), 0.5),
		Settings: with(audiovis.Particles, func(s *audiovis.Settings) {
			s.Mirror = orient.SplitChannels
			s.Filling = false
			s.LinesThickness = 2
		}),
		Width:  320,
		Height: 240,
	},
}

var edgeScenes = []Scene{
	{
		Name:     "silence",
		Samples:  make([]float64, 12),
		Settings: with(audiovis.Bars, nil),
		Width:    200,
		Height:   100,
	},
	{
		Name:     "no_samples",
		Samples:  nil,
		Settings: with(audiovis.Wave, nil),
		Width:    200,
		Height:   100,
	},
	{
		Name:     "single_sample_wave",
		Samples:  []float64{0.6},
		Settings: with(audiovis.Wave, nil),
		Width:    200,
		Height:   100,
	},
	{
		Name:     "out_of_range_samples",
		Samples:  []float64{-0.5, 0.3, 1.8, math.NaN(), 0.9, math.Inf(1)},
		Settings: with(audiovis.Levels, nil),
		Width:    200,
		Height:   100,
	},
	{
		Name:    "odd_split_channels",
		Samples: ramp(7),
		Settings: with(audiovis.Spine, func(s *audiovis.Settings) {
			s.Mirror = orient.SplitChannels
		}),
		Width:  200,
		Height: 100,
	},
	{
		Name:    "margin_exceeds_viewport",
		Samples: ramp(4),
		Settings: with(audiovis.Bars, func(s *audiovis.Settings) {
			s.AreaMargin = 80
		}),
		Width:  100,
		Height: 100,
	},
	{
		Name:    "thick_outline",
		Samples: ramp(6),
		Settings: with(audiovis.Bars, func(s *audiovis.Settings) {
			s.Filling = false
			s.LinesThickness = 40
		}),
		Width:  200,
		Height: 100,
	},
}
