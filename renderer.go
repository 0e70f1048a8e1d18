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

// Package audiovis draws audio visualisations.
//
// Every frame, a [Renderer] turns a sequence of sample magnitudes in the
// range [0, 1] into drawing primitives on a [canvas.Canvas]. The visual
// encoding (a smooth wave, level meters, particles, bars or a spine), the
// direction in which magnitudes grow and an optional mirror image are
// controlled by [Settings].
//
// Rendering is a pure function of the samples, one settings snapshot and
// the viewport size. No state is kept from one frame to the next.
package audiovis

import (
	"log/slog"
	"math"
	"slices"

	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/audiovis/canvas"
	"seehuhn.de/go/audiovis/orient"
)

// Renderer draws frames onto a canvas.
//
// A Renderer must only be used by one goroutine at a time. The settings
// source may be updated concurrently, as long as its Snapshot method is
// safe for concurrent use.
type Renderer struct {
	Canvas canvas.Canvas

	// Source provides the settings. If Source is nil, DefaultSettings
	// is used.
	Source Source

	// Logger, if set, receives debug messages about degenerate input.
	Logger *slog.Logger
}

// Draw renders one frame for a viewport of the given size, using the
// current settings from r.Source. Nothing happens if r.Canvas is nil.
func (r *Renderer) Draw(samples []float64, width, height float64) {
	if r.Canvas == nil {
		return
	}

	s := DefaultSettings()
	if r.Source != nil {
		s = r.Source.Snapshot()
	}
	r.DrawSettings(s, samples, width, height)
}

// DrawSettings renders one frame using the given settings.
//
// The canvas is cleared first and flushed exactly once at the end, also
// when there is nothing to draw. samples is not modified.
func (r *Renderer) DrawSettings(s Settings, samples []float64, width, height float64) {
	c := r.Canvas
	if c == nil {
		return
	}
	log := r.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	c.Clear()

	s = s.Sanitized()
	box := viewport(width, height, s.AreaMargin)
	frames := orient.Split(s.Direction, s.Mirror, box)
	parts := route(samples, s.Mirror)
	if s.ReverseOrder {
		// Each frame keeps its own channel, only the order along the
		// sample axis changes.
		for i := range parts {
			p := slices.Clone(parts[i])
			slices.Reverse(p)
			parts[i] = p
		}
	}
	if s.Mirror == orient.SplitChannels && len(samples)%2 == 1 {
		log.Debug("odd sample count for split channels, last sample dropped",
			"samples", len(samples))
	}

	lk := lookOf(s)
	for i, f := range frames {
		part := parts[i]
		switch s.Mode {
		case Levels:
			drawLevels(c, f, part, lk)
		case Particles:
			drawParticles(c, f, part, lk)
		case Bars:
			drawBars(c, f, part, lk)
		case Spine:
			drawSpine(c, f, part, lk)
		default:
			if len(part) < 2 {
				log.Debug("too few samples for a wave", "samples", len(part))
			}
			drawWave(c, f, part, lk)
		}
	}

	c.Flush()
}

// viewport returns the drawing area for the given canvas size, with the
// margin removed. The result never has negative extent.
func viewport(width, height, margin float64) rect.Rect {
	width = clamp(width, 0, math.Inf(1))
	height = clamp(height, 0, math.Inf(1))
	mx := min(margin, width/2)
	my := min(margin, height/2)
	return rect.Rect{LLx: mx, LLy: my, URx: width - mx, URy: height - my}
}

// route assigns samples to the frames produced by [orient.Split].
//
// With split channels, the first half of the samples is shown in the
// first frame and the second half, reversed, in the second frame. For
// odd lengths the final sample is not shown.
func route(samples []float64, m orient.Mirror) [][]float64 {
	switch m {
	case orient.Full:
		return [][]float64{samples, samples}
	case orient.SplitChannels:
		half := len(samples) / 2
		second := slices.Clone(samples[half : 2*half])
		slices.Reverse(second)
		return [][]float64{samples[:half:half], second}
	default:
		return [][]float64{samples}
	}
}

// look holds the styling parameters shared by all strategies.
type look struct {
	fill      bool
	thickness float64
	offset    float64
	roundness float64
}

func lookOf(s Settings) look {
	return look{
		fill:      s.Filling,
		thickness: s.LinesThickness,
		offset:    s.ItemsOffset,
		roundness: s.ItemsRoundness,
	}
}

// inset returns the amount by which outlined items shrink, so that the
// stroke stays inside the item's cell.
//
// The full line width is used, half of it on each side, so the outer edge
// of the stroke ends exactly on the cell boundary. Shrinking by only half
// the width would let the stroke spill t/4 into neighbouring cells.
func (lk look) inset() float64 {
	if lk.fill {
		return 0
	}
	return lk.thickness
}

func (lk look) style() canvas.Style {
	if lk.fill {
		return canvas.Style{Fill: true}
	}
	return canvas.Style{Width: lk.thickness}
}

// item draws the frame-local box [u, u+du] × [v, v+dv]. Boxes with no
// area are skipped.
func item(c canvas.Canvas, f orient.Frame, u, v, du, dv float64, lk look, round bool) {
	if !(du > 0 && dv > 0) {
		return
	}
	r := f.Rect(u, v, du, dv)
	w, h := r.URx-r.LLx, r.URy-r.LLy
	if !(w > 0 && h > 0) {
		return
	}
	if round {
		c.DrawRoundRect(r, w/2*lk.roundness, h/2*lk.roundness, lk.style())
	} else {
		c.DrawRect(r, lk.style())
	}
}

// level clamps a sample to [0, 1]. NaN counts as silence.
func level(s float64) float64 {
	return clamp(s, 0, 1)
}
