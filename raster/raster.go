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

// Package raster converts vector paths into anti-aliased pixel coverage.
//
// Paths are flattened into line segments, transformed into device space
// and swept scan line by scan line. For every pixel the signed area of
// the shape inside the pixel is accumulated, which gives exact coverage
// for polygons. Only the nonzero winding rule is supported.
package raster

import (
	"cmp"
	"math"
	"slices"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"
)

// EmitFunc receives the coverage of one pixel row. The first entry of
// coverage belongs to pixel (xMin, y). The slice is only valid during the
// call.
type EmitFunc func(y, xMin int, coverage []float32)

// Rasterizer turns paths into coverage values between 0 (pixel outside
// the shape) and 1 (pixel fully inside). Internal buffers are kept between
// calls, so a single Rasterizer should be reused for many paths.
//
// A Rasterizer is not safe for concurrent use.
type Rasterizer struct {
	// CTM maps user space to device space.
	CTM matrix.Matrix

	// Clip limits the output to this rectangle in device space.
	// The coordinates must be integers.
	Clip rect.Rect

	// Flatness is the maximal distance, in device pixels, between a curve
	// and the line segments which replace it.
	Flatness float64

	// Width is the line width for Stroke, in user space.
	Width float64

	Cap        graphics.LineCapStyle
	Join       graphics.LineJoinStyle
	MiterLimit float64

	edges  []edge
	active []int
	cover  []float32
	area   []float32
	bbox   bounds

	// stroking state, see stroke.go
	segs    []segment
	rev     []segment
	runs    []run
	dots    []vec.Vec2
	outline []vec.Vec2
	polys   []int
}

// NewRasterizer returns a Rasterizer for the given clip rectangle.
// The remaining parameters are set to the PDF defaults.
func NewRasterizer(clip rect.Rect) *Rasterizer {
	r := &Rasterizer{}
	r.Reset(clip)
	return r
}

// Reset restores the default parameters and sets a new clip rectangle.
// Allocated buffers are kept.
func (r *Rasterizer) Reset(clip rect.Rect) {
	r.CTM = matrix.Identity
	r.Clip = clip
	r.Flatness = defaultFlatness
	r.Width = 1
	r.Cap = graphics.LineCapButt
	r.Join = graphics.LineJoinMiter
	r.MiterLimit = defaultMiterLimit
}

// Fill paints the interior of p using the nonzero winding rule.
// Open subpaths are closed implicitly.
func (r *Rasterizer) Fill(p *path.Data, emit EmitFunc) {
	r.beginEdges()
	r.flatten(p, r.addEdge, func(sp *subpath) {
		if !sp.closed && sp.current != sp.start {
			r.addEdge(sp.current, sp.start)
		}
	})
	r.sweep(emit)
}

// subpath describes the subpath which has just ended during flatten.
type subpath struct {
	start, current vec.Vec2
	drawn          bool // at least one LineTo, QuadTo or CubeTo was seen
	closed         bool
}

// flatten walks p in user space and replaces all curves by line segments.
// The closing segment of a closed subpath is passed to line like any
// other segment. end is called once after every subpath. Drawing
// commands which are not preceded by a MoveTo are ignored.
func (r *Rasterizer) flatten(p *path.Data, line func(a, b vec.Vec2), end func(sp *subpath)) {
	var sp subpath
	open := false
	finish := func(closed bool) {
		if open {
			sp.closed = closed
			end(&sp)
		}
		open = false
	}

	k := 0
	for _, cmd := range p.Cmds {
		switch cmd {
		case path.CmdMoveTo:
			finish(false)
			sp = subpath{start: p.Coords[k], current: p.Coords[k]}
			open = true
			k++

		case path.CmdLineTo:
			if open {
				sp.drawn = true
				line(sp.current, p.Coords[k])
				sp.current = p.Coords[k]
			}
			k++

		case path.CmdQuadTo:
			if open {
				sp.drawn = true
				r.flattenQuad(sp.current, p.Coords[k], p.Coords[k+1], line)
				sp.current = p.Coords[k+1]
			}
			k += 2

		case path.CmdCubeTo:
			if open {
				sp.drawn = true
				r.flattenCube(sp.current, p.Coords[k], p.Coords[k+1], p.Coords[k+2], line)
				sp.current = p.Coords[k+2]
			}
			k += 3

		case path.CmdClose:
			if open && sp.current != sp.start {
				line(sp.current, sp.start)
				sp.current = sp.start
			}
			finish(true)
		}
	}
	finish(false)
}

// linear applies the linear part of the CTM to v.
func (r *Rasterizer) linear(v vec.Vec2) vec.Vec2 {
	return vec.Vec2{
		X: r.CTM[0]*v.X + r.CTM[2]*v.Y,
		Y: r.CTM[1]*v.X + r.CTM[3]*v.Y,
	}
}

// flattenQuad replaces the quadratic Bézier curve p0, p1, p2 by line
// segments.
func (r *Rasterizer) flattenQuad(p0, p1, p2 vec.Vec2, line func(a, b vec.Vec2)) {
	dev := r.linear(p0.Sub(p1.Mul(2)).Add(p2).Mul(0.25)).Length()
	n := 1
	if dev > r.Flatness {
		n = int(math.Ceil(math.Sqrt(dev / r.Flatness)))
	}

	prev := p0
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		s := 1 - t
		q := p0.Mul(s * s).Add(p1.Mul(2 * s * t)).Add(p2.Mul(t * t))
		line(prev, q)
		prev = q
	}
}

// flattenCube replaces the cubic Bézier curve p0, …, p3 by line segments.
// The number of segments is chosen using Wang's formula.
func (r *Rasterizer) flattenCube(p0, p1, p2, p3 vec.Vec2, line func(a, b vec.Vec2)) {
	d1 := r.linear(p0.Sub(p1.Mul(2)).Add(p2)).Length()
	d2 := r.linear(p1.Sub(p2.Mul(2)).Add(p3)).Length()
	n := 1
	if m := max(d1, d2); m > 0 {
		if f := math.Sqrt(3 * m / (4 * r.Flatness)); f > 1 {
			n = int(math.Ceil(f))
		}
	}

	prev := p0
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		s := 1 - t
		q := p0.Mul(s * s * s).
			Add(p1.Mul(3 * s * s * t)).
			Add(p2.Mul(3 * s * t * t)).
			Add(p3.Mul(t * t * t))
		line(prev, q)
		prev = q
	}
}

// edge is a non-horizontal line segment in device space.
type edge struct {
	x0, y0, x1, y1 float64
	dxdy           float64
}

func (e *edge) top() float64    { return min(e.y0, e.y1) }
func (e *edge) bottom() float64 { return max(e.y0, e.y1) }

// bounds is the bounding box of the edges collected so far.
type bounds struct {
	xMin, xMax, yMin, yMax float64
	empty                  bool
}

func (r *Rasterizer) beginEdges() {
	r.edges = r.edges[:0]
	r.bbox = bounds{empty: true}
}

// addEdge transforms the user space segment a→b to device space and adds
// it to the edge list.
func (r *Rasterizer) addEdge(a, b vec.Vec2) {
	m := r.CTM
	x0 := m[0]*a.X + m[2]*a.Y + m[4]
	y0 := m[1]*a.X + m[3]*a.Y + m[5]
	x1 := m[0]*b.X + m[2]*b.Y + m[4]
	y1 := m[1]*b.X + m[3]*b.Y + m[5]

	dy := y1 - y0
	if math.Abs(dy) < horizontalEdgeThreshold {
		return
	}
	r.edges = append(r.edges, edge{x0: x0, y0: y0, x1: x1, y1: y1, dxdy: (x1 - x0) / dy})

	bb := &r.bbox
	if bb.empty {
		*bb = bounds{xMin: min(x0, x1), xMax: max(x0, x1), yMin: min(y0, y1), yMax: max(y0, y1)}
		return
	}
	bb.xMin = min(bb.xMin, x0, x1)
	bb.xMax = max(bb.xMax, x0, x1)
	bb.yMin = min(bb.yMin, y0, y1)
	bb.yMax = max(bb.yMax, y0, y1)
}

// pixelBounds returns the pixel range touched by the edges, clipped to
// r.Clip. The range is half-open.
func (r *Rasterizer) pixelBounds() (xMin, xMax, yMin, yMax int, ok bool) {
	if len(r.edges) == 0 {
		return 0, 0, 0, 0, false
	}
	xMin = max(int(math.Floor(r.bbox.xMin)), int(r.Clip.LLx))
	xMax = min(int(math.Floor(r.bbox.xMax))+1, int(r.Clip.URx))
	yMin = max(int(math.Floor(r.bbox.yMin)), int(r.Clip.LLy))
	yMax = min(int(math.Floor(r.bbox.yMax))+1, int(r.Clip.URy))
	return xMin, xMax, yMin, yMax, xMin < xMax && yMin < yMax
}

// sweep converts the collected edges into coverage, one scan line at a
// time, keeping a list of the edges which intersect the current line.
//
// For every pixel two quantities are accumulated: cover, the signed
// vertical extent of all edge pieces inside the pixel, and area, the part
// of cover which lies to the right of the edge pieces. Summing cover from
// the left and adding area gives the signed area of the shape inside the
// pixel.
func (r *Rasterizer) sweep(emit EmitFunc) {
	xMin, xMax, yMin, yMax, ok := r.pixelBounds()
	if !ok {
		return
	}

	width := xMax - xMin
	r.cover = slices.Grow(r.cover[:0], width)[:width]
	r.area = slices.Grow(r.area[:0], width)[:width]

	slices.SortFunc(r.edges, func(a, b edge) int {
		return cmp.Compare(a.top(), b.top())
	})

	r.active = r.active[:0]
	next := 0
	for y := yMin; y < yMax; y++ {
		lineTop := float64(y)
		lineBottom := float64(y + 1)

		for next < len(r.edges) && r.edges[next].top() < lineBottom {
			r.active = append(r.active, next)
			next++
		}

		// drop edges which end above this line
		keep := r.active[:0]
		for _, idx := range r.active {
			if r.edges[idx].bottom() > lineTop {
				keep = append(keep, idx)
			}
		}
		r.active = keep
		if len(r.active) == 0 {
			continue
		}

		clear(r.cover)
		clear(r.area)
		for _, idx := range r.active {
			r.accumulate(&r.edges[idx], y, xMin, xMax)
		}

		integrateNonZero(r.cover, r.area)
		if row, offs := trimZeros(r.cover); row != nil {
			emit(y, xMin+offs, row)
		}
	}
}

// accumulate adds the contribution of e within scan line y to the cover
// and area buffers, which hold pixels xMin, …, xMax-1.
func (r *Rasterizer) accumulate(e *edge, y, xMin, xMax int) {
	yTop := max(float64(y), e.top())
	yBot := min(float64(y+1), e.bottom())
	if yBot <= yTop {
		return
	}

	sign := 1.0
	if e.y1 < e.y0 {
		sign = -1
	}

	xa := e.x0 + e.dxdy*(yTop-e.y0)
	xb := e.x0 + e.dxdy*(yBot-e.y0)
	left := int(math.Floor(min(xa, xb)))
	right := int(math.Floor(max(xa, xb)))

	switch {
	case right < xMin:
		// everything left of the clip contributes full coverage
		v := float32(sign * (yBot - yTop))
		r.cover[0] += v
		r.area[0] += v
		return
	case left >= xMax:
		return
	case left == right:
		r.deposit(e, yTop, yBot, sign, left, xMin, xMax)
		return
	}

	// The edge crosses several pixel columns: split it at the column
	// boundaries.
	dydx := 1 / e.dxdy
	for px := left; px <= right; px++ {
		ya := e.y0 + dydx*(float64(px)-e.x0)
		yb := e.y0 + dydx*(float64(px+1)-e.x0)
		lo := max(min(ya, yb), yTop)
		hi := min(max(ya, yb), yBot)
		if hi > lo {
			r.deposit(e, lo, hi, sign, px, xMin, xMax)
		}
	}
}

// deposit records the piece of e between lo and hi, which lies in pixel
// column px.
func (r *Rasterizer) deposit(e *edge, lo, hi, sign float64, px, xMin, xMax int) {
	v := float32(sign * (hi - lo))
	if px < xMin {
		r.cover[0] += v
		r.area[0] += v
		return
	}
	if px >= xMax {
		return
	}

	xMid := e.x0 + e.dxdy*((lo+hi)/2-e.y0)
	frac := xMid - float64(px)
	i := px - xMin
	r.cover[i] += v
	r.area[i] += v * float32(1-frac)
}

// integrateNonZero turns accumulated cover and area values into coverage,
// in place.
func integrateNonZero(cover, area []float32) {
	var acc float32
	for i := range cover {
		c := acc + area[i]
		acc += cover[i]
		if c < 0 {
			c = -c
		}
		cover[i] = min(c, 1)
	}
}

// trimZeros strips zero coverage from both ends of row.
func trimZeros(row []float32) ([]float32, int) {
	lo := 0
	for lo < len(row) && row[lo] == 0 {
		lo++
	}
	if lo == len(row) {
		return nil, 0
	}
	hi := len(row)
	for row[hi-1] == 0 {
		hi--
	}
	return row[lo:hi], lo
}

const (
	// defaultFlatness is below the threshold of visual perception.
	defaultFlatness = 0.25

	// defaultMiterLimit is the PDF default. Joins with an interior angle
	// below approximately 11.5 degrees become bevels.
	defaultMiterLimit = 10.0

	horizontalEdgeThreshold = 1e-10
	zeroLengthThreshold     = 1e-10
	collinearityThreshold   = 1e-6

	// cuspCosineThreshold detects a path doubling back on itself.
	cuspCosineThreshold = -0.9999
)
