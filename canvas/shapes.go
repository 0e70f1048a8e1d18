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

package canvas

import (
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// kappa places the control points of a cubic Bézier curve which
// approximates a quarter circle.
const kappa = 0.5522847498307936

// RectPath returns the outline of r as a closed path.
func RectPath(r rect.Rect) *path.Data {
	return (&path.Data{}).
		MoveTo(vec.Vec2{X: r.LLx, Y: r.LLy}).
		LineTo(vec.Vec2{X: r.URx, Y: r.LLy}).
		LineTo(vec.Vec2{X: r.URx, Y: r.URy}).
		LineTo(vec.Vec2{X: r.LLx, Y: r.URy}).
		Close()
}

// RoundRectPath returns the outline of r with elliptic corners as a closed
// path. The radii are limited to half the width and half the height of r.
// If either radius is zero, the result equals RectPath(r).
func RoundRectPath(r rect.Rect, rx, ry float64) *path.Data {
	rx = min(max(rx, 0), (r.URx-r.LLx)/2)
	ry = min(max(ry, 0), (r.URy-r.LLy)/2)
	if !(rx > 0 && ry > 0) {
		return RectPath(r)
	}

	kx, ky := kappa*rx, kappa*ry
	x0, x1 := r.LLx, r.URx
	y0, y1 := r.LLy, r.URy

	p := &path.Data{}
	p.MoveTo(vec.Vec2{X: x0 + rx, Y: y0})
	p.LineTo(vec.Vec2{X: x1 - rx, Y: y0})
	p.CubeTo(
		vec.Vec2{X: x1 - rx + kx, Y: y0},
		vec.Vec2{X: x1, Y: y0 + ry - ky},
		vec.Vec2{X: x1, Y: y0 + ry})
	p.LineTo(vec.Vec2{X: x1, Y: y1 - ry})
	p.CubeTo(
		vec.Vec2{X: x1, Y: y1 - ry + ky},
		vec.Vec2{X: x1 - rx + kx, Y: y1},
		vec.Vec2{X: x1 - rx, Y: y1})
	p.LineTo(vec.Vec2{X: x0 + rx, Y: y1})
	p.CubeTo(
		vec.Vec2{X: x0 + rx - kx, Y: y1},
		vec.Vec2{X: x0, Y: y1 - ry + ky},
		vec.Vec2{X: x0, Y: y1 - ry})
	p.LineTo(vec.Vec2{X: x0, Y: y0 + ry})
	p.CubeTo(
		vec.Vec2{X: x0, Y: y0 + ry - ky},
		vec.Vec2{X: x0 + rx - kx, Y: y0},
		vec.Vec2{X: x0 + rx, Y: y0})
	p.Close()
	return p
}
