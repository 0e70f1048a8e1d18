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

// Package orient maps drawing directions and mirror modes to sub-viewports.
//
// All coordinates are device coordinates with the origin at the top-left
// corner and y growing downwards. A [rect.Rect] is used as an axis-aligned
// box in this space: LLx/LLy hold the top-left corner, URx/URy the
// bottom-right corner.
package orient

import (
	"errors"
	"fmt"
	"strings"

	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// Direction is the axis and polarity along which magnitudes grow.
type Direction int

// The four drawing directions. For TopToBottom, a magnitude of zero sits on
// the top edge and larger magnitudes extend downwards.
const (
	TopToBottom Direction = iota
	BottomToTop
	LeftToRight
	RightToLeft
)

// directionInfo describes one direction.
type directionInfo struct {
	name       string
	horizontal bool // magnitude runs along x, samples along y
	opposite   Direction
}

var directions = [...]directionInfo{
	TopToBottom: {"top-to-bottom", false, BottomToTop},
	BottomToTop: {"bottom-to-top", false, TopToBottom},
	LeftToRight: {"left-to-right", true, RightToLeft},
	RightToLeft: {"right-to-left", true, LeftToRight},
}

// Valid reports whether d is one of the four defined directions.
func (d Direction) Valid() bool {
	return d >= 0 && int(d) < len(directions)
}

// IsHorizontal reports whether magnitudes are laid out along the x axis.
// Invalid directions are treated as vertical.
func (d Direction) IsHorizontal() bool {
	return d.Valid() && directions[d].horizontal
}

// Opposite returns the direction with the baseline on the other edge.
// Invalid directions are returned unchanged.
func (d Direction) Opposite() Direction {
	if !d.Valid() {
		return d
	}
	return directions[d].opposite
}

func (d Direction) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Direction(%d)", int(d))
	}
	return directions[d].name
}

// ParseDirection converts a direction name, as returned by
// [Direction.String], back to a Direction. Matching ignores case.
func ParseDirection(s string) (Direction, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for d, info := range directions {
		if info.name == s {
			return Direction(d), nil
		}
	}
	return TopToBottom, fmt.Errorf("%q: %w", s, ErrUnknownDirection)
}

// Mirror selects whether a second, mirrored drawing is produced.
type Mirror int

const (
	// Off draws once, over the whole viewport.
	Off Mirror = iota

	// Full draws the same samples twice, once in each half of the
	// viewport, the second time with the opposite direction.
	Full

	// SplitChannels draws the first half of the samples in the first
	// half of the viewport and the reversed second half of the samples
	// in the second half, with the opposite direction.
	SplitChannels
)

var mirrorNames = [...]string{
	Off:           "off",
	Full:          "full",
	SplitChannels: "split-channels",
}

// Valid reports whether m is a defined mirror mode.
func (m Mirror) Valid() bool {
	return m >= 0 && int(m) < len(mirrorNames)
}

func (m Mirror) String() string {
	if !m.Valid() {
		return fmt.Sprintf("Mirror(%d)", int(m))
	}
	return mirrorNames[m]
}

// ParseMirror converts a mirror mode name back to a Mirror.
func ParseMirror(s string) (Mirror, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for m, name := range mirrorNames {
		if name == s {
			return Mirror(m), nil
		}
	}
	return Off, fmt.Errorf("%q: %w", s, ErrUnknownMirror)
}

var (
	ErrUnknownDirection = errors.New("unknown drawing direction")
	ErrUnknownMirror    = errors.New("unknown mirror mode")
)

// Split returns the frames a strategy must be invoked with.
// Mirror modes other than Off halve box along the magnitude axis; the
// second frame covers the second half and uses the opposite direction.
func Split(d Direction, m Mirror, box rect.Rect) []Frame {
	if m != Full && m != SplitChannels {
		return []Frame{{Dir: d, Box: box}}
	}

	first, second := box, box
	if d.IsHorizontal() {
		mid := box.LLx + (box.URx-box.LLx)/2
		first.URx = mid
		second.LLx = mid
	} else {
		mid := box.LLy + (box.URy-box.LLy)/2
		first.URy = mid
		second.LLy = mid
	}
	return []Frame{
		{Dir: d, Box: first},
		{Dir: d.Opposite(), Box: second},
	}
}

// Frame is a sub-viewport together with the direction used inside it.
//
// Strategies work in frame-local coordinates: u runs along the sample
// axis from 0 to Length(), v is the distance from the baseline along the
// magnitude axis, from 0 to Depth().
type Frame struct {
	Dir Direction
	Box rect.Rect
}

// Length returns the extent of the sample axis.
func (f Frame) Length() float64 {
	if f.Dir.IsHorizontal() {
		return f.Box.URy - f.Box.LLy
	}
	return f.Box.URx - f.Box.LLx
}

// Depth returns the extent of the magnitude axis.
func (f Frame) Depth() float64 {
	if f.Dir.IsHorizontal() {
		return f.Box.URx - f.Box.LLx
	}
	return f.Box.URy - f.Box.LLy
}

// Point maps frame-local (u, v) to device coordinates.
func (f Frame) Point(u, v float64) vec.Vec2 {
	b := f.Box
	switch f.Dir {
	case BottomToTop:
		return vec.Vec2{X: b.LLx + u, Y: b.URy - v}
	case LeftToRight:
		return vec.Vec2{X: b.LLx + v, Y: b.LLy + u}
	case RightToLeft:
		return vec.Vec2{X: b.URx - v, Y: b.LLy + u}
	default:
		return vec.Vec2{X: b.LLx + u, Y: b.LLy + v}
	}
}

// Rect maps the frame-local box [u, u+du] × [v, v+dv] to device space.
// The result is normalised so that LLx <= URx and LLy <= URy.
func (f Frame) Rect(u, v, du, dv float64) rect.Rect {
	p := f.Point(u, v)
	q := f.Point(u+du, v+dv)
	return rect.Rect{
		LLx: min(p.X, q.X),
		LLy: min(p.Y, q.Y),
		URx: max(p.X, q.X),
		URy: max(p.Y, q.Y),
	}
}
