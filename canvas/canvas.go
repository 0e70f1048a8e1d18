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

// Package canvas defines the drawing surface used by the visualisation
// renderer, together with a few implementations.
//
// All coordinates are device coordinates: the origin is the top-left
// corner of the drawing area and y grows downwards. Rectangles are given
// as [rect.Rect] values where LLx, LLy is the top-left corner and URx, URy
// is the bottom-right corner.
package canvas

import (
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
)

// Style says how a primitive is painted.
type Style struct {
	// Fill selects filling the shape, using the nonzero winding rule.
	// Otherwise the outline is stroked.
	Fill bool

	// Width is the stroke width in device units. It is ignored when
	// filling.
	Width float64
}

// Canvas receives the drawing primitives of one frame.
//
// A frame starts with Clear and ends with Flush. Implementations must not
// retain the path passed to DrawPath after the call returns.
type Canvas interface {
	// Clear erases the drawing area.
	Clear()

	DrawPath(p *path.Data, s Style)
	DrawRect(r rect.Rect, s Style)

	// DrawRoundRect draws r with elliptic corners of radii rx and ry.
	DrawRoundRect(r rect.Rect, rx, ry float64, s Style)

	// Flush presents the frame.
	Flush()
}
