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

package raster

import (
	"math"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"
)

// segment is a flattened piece of a stroked path, in user space.
type segment struct {
	A, B vec.Vec2
	T    vec.Vec2 // unit tangent from A to B
	N    vec.Vec2 // T rotated by 90° counter-clockwise
}

func (s segment) reversed() segment {
	return segment{A: s.B, B: s.A, T: s.T.Mul(-1), N: s.N.Mul(-1)}
}

// run is a range of r.segs belonging to one subpath.
type run struct {
	start, end int
	closed     bool
}

// Stroke paints the outline of p, using Width, Cap, Join and MiterLimit.
//
// The outline of every subpath is built as a set of polygons, which are
// then filled together with the nonzero rule so that overlaps are only
// painted once.
func (r *Rasterizer) Stroke(p *path.Data, emit EmitFunc) {
	r.segs = r.segs[:0]
	r.runs = r.runs[:0]
	r.dots = r.dots[:0]

	first := 0
	r.flatten(p, r.addSegment, func(sp *subpath) {
		switch {
		case len(r.segs) > first:
			r.runs = append(r.runs, run{start: first, end: len(r.segs), closed: sp.closed})
		case sp.drawn || sp.closed:
			// no direction is defined, so this can only become a dot
			r.dots = append(r.dots, sp.start)
		}
		first = len(r.segs)
	})

	r.outline = r.outline[:0]
	r.polys = r.polys[:0]
	d := r.Width / 2

	if r.Cap == graphics.LineCapRound {
		for _, c := range r.dots {
			r.beginPoly()
			r.addArc(c, d, vec.Vec2{X: 1}, 2*math.Pi, true)
		}
	}

	for _, rn := range r.runs {
		segs := r.segs[rn.start:rn.end]
		r.rev = r.rev[:0]
		for i := len(segs) - 1; i >= 0; i-- {
			r.rev = append(r.rev, segs[i].reversed())
		}

		if rn.closed {
			// Two rings of opposite orientation. The area between them
			// has winding number ±1, the hole has winding number 0.
			r.beginPoly()
			r.ring(segs, d)
			r.beginPoly()
			r.ring(r.rev, d)
		} else {
			r.beginPoly()
			r.addCap(segs[0].A, segs[0].T.Mul(-1), d)
			r.side(segs, d)
			r.addCap(segs[len(segs)-1].B, segs[len(segs)-1].T, d)
			r.side(r.rev, d)
		}
	}

	r.beginEdges()
	for i, start := range r.polys {
		end := len(r.outline)
		if i+1 < len(r.polys) {
			end = r.polys[i+1]
		}
		poly := r.outline[start:end]
		if len(poly) < 3 {
			continue
		}
		for j := 1; j < len(poly); j++ {
			r.addEdge(poly[j-1], poly[j])
		}
		r.addEdge(poly[len(poly)-1], poly[0])
	}
	r.sweep(emit)
}

// addSegment appends the line a→b to r.segs. Very short segments have no
// usable direction and are dropped.
func (r *Rasterizer) addSegment(a, b vec.Vec2) {
	v := b.Sub(a)
	l := v.Length()
	if l < zeroLengthThreshold {
		return
	}
	t := v.Mul(1 / l)
	r.segs = append(r.segs, segment{A: a, B: b, T: t, N: vec.Vec2{X: -t.Y, Y: t.X}})
}

func (r *Rasterizer) beginPoly() {
	r.polys = append(r.polys, len(r.outline))
}

// side appends the offset line at distance d on the +N side of an open
// polyline.
func (r *Rasterizer) side(segs []segment, d float64) {
	first := &segs[0]
	r.outline = append(r.outline, first.A.Add(first.N.Mul(d)))
	for i := 1; i < len(segs); i++ {
		r.corner(&segs[i-1], &segs[i], d)
	}
	last := &segs[len(segs)-1]
	r.outline = append(r.outline, last.B.Add(last.N.Mul(d)))
}

// ring appends the offset line at distance d on the +N side of a closed
// polyline.
func (r *Rasterizer) ring(segs []segment, d float64) {
	r.corner(&segs[len(segs)-1], &segs[0], d)
	for i := 1; i < len(segs); i++ {
		r.corner(&segs[i-1], &segs[i], d)
	}
}

// corner appends the +N side outline points where segment a meets
// segment b.
func (r *Rasterizer) corner(a, b *segment, d float64) {
	sin := a.T.X*b.T.Y - a.T.Y*b.T.X
	switch {
	case math.Abs(sin) < collinearityThreshold:
		r.outline = append(r.outline, a.B.Add(a.N.Mul(d)), b.A.Add(b.N.Mul(d)))

	case sin > 0:
		// +N is on the inside of the turn
		if q, ok := innerPoint(a.B, a.N, b.N, a.T.Dot(b.T), d); ok {
			r.outline = append(r.outline, q)
		} else {
			r.outline = append(r.outline, a.B.Add(a.N.Mul(d)), b.A.Add(b.N.Mul(d)))
		}

	default:
		r.outline = append(r.outline, a.B.Add(a.N.Mul(d)))
		r.addJoin(a.B, a.T, b.T, d)
		r.outline = append(r.outline, b.A.Add(b.N.Mul(d)))
	}
}

// innerPoint returns the intersection of the two offset lines on the
// inside of a corner at p. The tangents enclose an angle with the given
// cosine.
func innerPoint(p, n1, n2 vec.Vec2, cos, d float64) (vec.Vec2, bool) {
	if cos > 1-1e-9 {
		return vec.Vec2{}, false
	}
	half := math.Sqrt((1 + cos) / 2)
	if half < 1e-9 {
		return vec.Vec2{}, false
	}
	dir := n1.Add(n2)
	l := dir.Length()
	if l < 1e-9 {
		return vec.Vec2{}, false
	}
	return p.Add(dir.Mul(d / (half * l))), true
}

// addJoin appends the join geometry on the outside of a clockwise turn at
// p, from tangent t1 to tangent t2. The offset points on both sides of the
// corner are added by the caller.
func (r *Rasterizer) addJoin(p, t1, t2 vec.Vec2, d float64) {
	cos := t1.Dot(t2)
	if cos < cuspCosineThreshold {
		r.addCap(p, t1, d)
		r.addCap(p, t2.Mul(-1), d)
		return
	}

	n1 := vec.Vec2{X: -t1.Y, Y: t1.X}
	switch r.Join {
	case graphics.LineJoinRound:
		angle := math.Acos(max(-1, min(1, cos)))
		r.addArc(p, d, n1, -angle, false)

	case graphics.LineJoinMiter:
		// The miter length, relative to the line width, is 1/sin(φ/2)
		// where φ is the angle between the two stroke edges.
		sinHalf := math.Sqrt((1 + cos) / 2)
		const eps = 1e-10
		if sinHalf <= 0 || 1/sinHalf > r.MiterLimit+eps {
			return // bevel
		}
		n2 := vec.Vec2{X: -t2.Y, Y: t2.X}
		dir := n1.Add(n2)
		if l := dir.Length(); l > zeroLengthThreshold {
			r.outline = append(r.outline, p.Add(dir.Mul(d/(sinHalf*l))))
		}
	}
}

// addCap appends the cap at the end point p of a line, where t points
// away from the line.
func (r *Rasterizer) addCap(p, t vec.Vec2, d float64) {
	n := vec.Vec2{X: -t.Y, Y: t.X}
	switch r.Cap {
	case graphics.LineCapSquare:
		q := p.Add(t.Mul(d))
		r.outline = append(r.outline, q.Add(n.Mul(d)), q.Sub(n.Mul(d)))
	case graphics.LineCapRound:
		r.addArc(p, d, n, -math.Pi, true)
	}
}

// addArc appends points on the circle of the given radius around c,
// starting in direction from and sweeping by the given angle (positive
// is counter-clockwise). If withStart is false, the start point is
// omitted.
func (r *Rasterizer) addArc(c vec.Vec2, radius float64, from vec.Vec2, sweep float64, withStart bool) {
	devRadius := max(
		r.linear(vec.Vec2{X: radius}).Length(),
		r.linear(vec.Vec2{Y: radius}).Length(),
	)

	// A chord spanning the angle θ deviates from the circle by
	// radius·(1 - cos(θ/2)).
	n := 1
	if devRadius > r.Flatness {
		step := 2 * math.Acos(1-r.Flatness/devRadius)
		if step > 0 && !math.IsNaN(step) {
			n = max(int(math.Ceil(math.Abs(sweep)/step)), 1)
		} else {
			n = max(int(math.Ceil(math.Abs(sweep)/(math.Pi/4))), 1)
		}
	}

	i0 := 1
	if withStart {
		i0 = 0
	}
	for i := i0; i <= n; i++ {
		phi := sweep * float64(i) / float64(n)
		sin, cos := math.Sincos(phi)
		dir := vec.Vec2{
			X: from.X*cos - from.Y*sin,
			Y: from.X*sin + from.Y*cos,
		}
		r.outline = append(r.outline, c.Add(dir.Mul(radius)))
	}
}
